package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/jonsai/internal"
	"github.com/iksnae/jonsai/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	verbose    bool
	configFile string
	envFile    string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	// cfg is loaded before any command runs
	cfg *internal.Config
)

// flagKeys maps config keys to the flags that override them
var flagKeys = map[string]string{
	"http.timeout": "timeout",
	"server.addr":  "addr",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jonsai",
	Short: "Chat with a hosted assistant and generate images",
	Long: `Jon's AI: a small assistant front-end with two screens.

The chat screen sends your message to a hosted text-generation model. Messages
starting with "image:" look up a matching photo instead. The image screen turns
a prompt into a generated image.

Run without a subcommand to open the menu.

Quick Start:
  jonsai                          # Open the menu
  jonsai chat                     # Open the chat screen
  jonsai image "a red bicycle"    # Generate one image
  jonsai ask "What is Go?"        # One-shot question
  jonsai serve --addr :8080       # Serve the screens in a browser

Credentials are read from HUGGINGFACE_API_KEY, UNSPLASH_ACCESS_KEY and
PICOGEN_API_KEY (a .env file in the working directory is loaded first).`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		if err := internal.LoadDotEnv(envFile); err != nil {
			return err
		}

		v := internal.NewViper()
		if err := bindFlags(v, cmd.Flags()); err != nil {
			return err
		}

		loaded, err := internal.LoadConfig(v, configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		internal.SyncLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScreen(cmd, tui.ScreenHome)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		internal.PrintError(err.Error())
		os.Exit(1)
	}
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

// runScreen opens the interactive program on the given screen
func runScreen(cmd *cobra.Command, start tui.Screen) error {
	warnMissingCredentials()
	chat := internal.NewConversationControllerFromConfig(cfg)
	studio := internal.NewImageStudioFromConfig(cfg)
	return tui.Run(cmd.Context(), chat, studio, start)
}

func warnMissingCredentials() {
	for _, err := range cfg.MissingCredentials() {
		internal.LogDebug("%v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout for upstream requests (0 = none)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
