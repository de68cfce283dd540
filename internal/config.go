package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default upstream locations
const (
	DefaultHuggingFaceURL = "https://api-inference.huggingface.co"
	DefaultModel          = "HuggingFaceH4/zephyr-7b-beta"
	DefaultUnsplashURL    = "https://api.unsplash.com"
	DefaultPicogenURL     = "https://api.picogen.com"
	DefaultContextWindow  = 3
	DefaultAddr           = ":8080"
)

// Config holds credentials and upstream settings
type Config struct {
	HuggingFace HuggingFaceConfig `mapstructure:"huggingface"`
	Unsplash    UnsplashConfig    `mapstructure:"unsplash"`
	Picogen     PicogenConfig     `mapstructure:"picogen"`
	Chat        ChatConfig        `mapstructure:"chat"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Server      ServerConfig      `mapstructure:"server"`
}

type HuggingFaceConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type UnsplashConfig struct {
	AccessKey string `mapstructure:"access_key"`
	BaseURL   string `mapstructure:"base_url"`
}

type PicogenConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type ChatConfig struct {
	ContextWindow int `mapstructure:"context_window"`
}

// HTTPConfig controls outbound requests. A zero Timeout means no timeout.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// credentialEnv maps config keys to the bare environment names the credentials are
// usually provided under
var credentialEnv = map[string]string{
	"huggingface.api_key": "HUGGINGFACE_API_KEY",
	"unsplash.access_key": "UNSPLASH_ACCESS_KEY",
	"picogen.api_key":     "PICOGEN_API_KEY",
}

// NewViper returns a viper instance with defaults and environment bindings applied.
// Environment variables use the JONSAI_ prefix (JONSAI_SERVER_ADDR); credentials are
// also read from their bare names.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("huggingface.base_url", DefaultHuggingFaceURL)
	v.SetDefault("huggingface.model", DefaultModel)
	v.SetDefault("unsplash.base_url", DefaultUnsplashURL)
	v.SetDefault("picogen.base_url", DefaultPicogenURL)
	v.SetDefault("chat.context_window", DefaultContextWindow)
	v.SetDefault("http.timeout", time.Duration(0))
	v.SetDefault("server.addr", DefaultAddr)

	v.SetEnvPrefix("jonsai")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range credentialEnv {
		_ = v.BindEnv(key, "JONSAI_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	return v
}

// LoadDotEnv loads a .env file into the process environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			LogDebug("No .env file at %s", path)
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	LogDebug("Loaded environment from %s", path)
	return nil
}

// LoadConfig reads the optional config file into v and decodes the result
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
		LogDebug("Using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Chat.ContextWindow < 0 {
		return nil, fmt.Errorf("chat.context_window must not be negative, got %d", cfg.Chat.ContextWindow)
	}

	return &cfg, nil
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		HuggingFace: HuggingFaceConfig{BaseURL: DefaultHuggingFaceURL, Model: DefaultModel},
		Unsplash:    UnsplashConfig{BaseURL: DefaultUnsplashURL},
		Picogen:     PicogenConfig{BaseURL: DefaultPicogenURL},
		Chat:        ChatConfig{ContextWindow: DefaultContextWindow},
		Server:      ServerConfig{Addr: DefaultAddr},
	}
}

// MissingCredentials lists the credential keys that are empty
func (c *Config) MissingCredentials() []error {
	var missing []error
	if c.HuggingFace.APIKey == "" {
		missing = append(missing, &ConfigError{Key: "huggingface.api_key"})
	}
	if c.Unsplash.AccessKey == "" {
		missing = append(missing, &ConfigError{Key: "unsplash.access_key"})
	}
	if c.Picogen.APIKey == "" {
		missing = append(missing, &ConfigError{Key: "picogen.api_key"})
	}
	return missing
}
