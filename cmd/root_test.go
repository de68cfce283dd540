package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/jonsai/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// clearCredentials blanks the credential variables for the duration of the test
func clearCredentials(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"HUGGINGFACE_API_KEY", "UNSPLASH_ACCESS_KEY", "PICOGEN_API_KEY",
		"JONSAI_HUGGINGFACE_API_KEY", "JONSAI_UNSPLASH_ACCESS_KEY", "JONSAI_PICOGEN_API_KEY",
		"JONSAI_HUGGINGFACE_BASE_URL", "JONSAI_UNSPLASH_BASE_URL", "JONSAI_PICOGEN_BASE_URL",
		"JONSAI_HTTP_TIMEOUT", "JONSAI_CHAT_CONTEXT_WINDOW",
	} {
		t.Setenv(name, "")
	}
}

// setCredentials provides all three credentials
func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("HUGGINGFACE_API_KEY", "hf-key")
	t.Setenv("UNSPLASH_ACCESS_KEY", "unsplash-key")
	t.Setenv("PICOGEN_API_KEY", "picogen-key")
}

// resetFlags restores every flag to its default so executions do not leak into each other
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "nonexistent command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
		{
			name:    "chat takes no arguments",
			args:    []string{"chat", "extra"},
			wantErr: true,
		},
		{
			name:    "ask needs text",
			args:    []string{"ask"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"ask", "chat", "healthcheck", "image", "serve"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	out, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("--version output %q does not contain %q", out, version)
	}
}

func TestConfigLoading(t *testing.T) {
	configPath := testutil.WriteTempFile(t, "jonsai.yaml", []byte(`
huggingface:
  model: custom/model
chat:
  context_window: 5
http:
  timeout: 2s
`))

	tests := []struct {
		name  string
		env   map[string]string
		args  []string
		check func(t *testing.T)
	}{
		{
			name: "defaults",
			args: []string{"healthcheck"},
			check: func(t *testing.T) {
				if cfg.HuggingFace.Model != "HuggingFaceH4/zephyr-7b-beta" {
					t.Errorf("model = %q", cfg.HuggingFace.Model)
				}
				if cfg.Chat.ContextWindow != 3 {
					t.Errorf("context window = %d, want 3", cfg.Chat.ContextWindow)
				}
				if cfg.HTTP.Timeout != 0 {
					t.Errorf("timeout = %v, want none", cfg.HTTP.Timeout)
				}
			},
		},
		{
			name: "config file",
			args: []string{"healthcheck", "--config", configPath},
			check: func(t *testing.T) {
				if cfg.HuggingFace.Model != "custom/model" {
					t.Errorf("model = %q, want custom/model", cfg.HuggingFace.Model)
				}
				if cfg.Chat.ContextWindow != 5 {
					t.Errorf("context window = %d, want 5", cfg.Chat.ContextWindow)
				}
			},
		},
		{
			name: "environment overrides config file",
			env:  map[string]string{"JONSAI_CHAT_CONTEXT_WINDOW": "7"},
			args: []string{"healthcheck", "--config", configPath},
			check: func(t *testing.T) {
				if cfg.Chat.ContextWindow != 7 {
					t.Errorf("context window = %d, want 7", cfg.Chat.ContextWindow)
				}
			},
		},
		{
			name: "flag overrides config file",
			args: []string{"healthcheck", "--config", configPath, "--timeout", "5s"},
			check: func(t *testing.T) {
				if cfg.HTTP.Timeout != 5*time.Second {
					t.Errorf("timeout = %v, want 5s", cfg.HTTP.Timeout)
				}
			},
		},
		{
			name: "prefixed credential",
			env:  map[string]string{"HUGGINGFACE_API_KEY": "", "JONSAI_HUGGINGFACE_API_KEY": "prefixed"},
			args: []string{"healthcheck"},
			check: func(t *testing.T) {
				if cfg.HuggingFace.APIKey != "prefixed" {
					t.Errorf("api key = %q, want prefixed", cfg.HuggingFace.APIKey)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCredentials(t)
			setCredentials(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := executeCommand(t, tt.args...); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			tt.check(t)
		})
	}
}

func TestConfigLoading_MissingFile(t *testing.T) {
	clearCredentials(t)
	setCredentials(t)

	_, err := executeCommand(t, "healthcheck", "--config", "/nonexistent/jonsai.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigLoading_EnvFile(t *testing.T) {
	clearCredentials(t)
	setCredentials(t)
	// godotenv never overrides variables that are already set
	os.Unsetenv("PICOGEN_API_KEY")

	envPath := testutil.WriteTempFile(t, "test.env", []byte("PICOGEN_API_KEY=from-dotenv\n"))
	if _, err := executeCommand(t, "healthcheck", "--env-file", envPath); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if cfg.Picogen.APIKey != "from-dotenv" {
		t.Errorf("picogen key = %q, want from-dotenv", cfg.Picogen.APIKey)
	}
}
