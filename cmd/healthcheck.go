package cmd

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

type endpointCheck struct {
	name    string
	baseURL string
}

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that jonsai is configured to reach its upstream APIs",
	Long: `Check the configuration of jonsai by verifying:
  • Upstream base URLs are valid
  • Credentials for the text, photo and image APIs are present
  • Chat settings are usable

No requests are sent upstream. A missing credential does not stop the screens
from starting, but every call to that API will be rejected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Jon's AI Health Check"))
		fmt.Fprintln(out)

		// Step 1: Endpoints
		fmt.Fprintln(out, infoStyle.Render("Step 1: Checking upstream endpoints..."))
		endpoints := []endpointCheck{
			{"Text generation", cfg.HuggingFace.BaseURL},
			{"Photo search", cfg.Unsplash.BaseURL},
			{"Image generation", cfg.Picogen.BaseURL},
		}
		var badEndpoints []error
		for _, ep := range endpoints {
			if err := validateBaseURL(ep.baseURL); err != nil {
				fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ %s:", ep.name)), err)
				badEndpoints = append(badEndpoints, fmt.Errorf("%s: %w", ep.name, err))
				continue
			}
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s endpoint", ep.name)))
			if healthcheckVerbose {
				fmt.Fprintf(out, "   URL: %s\n", ep.baseURL)
			}
		}
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Model: %s\n", cfg.HuggingFace.Model)
		}
		fmt.Fprintln(out)

		// Step 2: Credentials
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking credentials..."))
		missing := cfg.MissingCredentials()
		if len(missing) == 0 {
			fmt.Fprintln(out, successStyle.Render("✅ All credentials present"))
		}
		for _, err := range missing {
			fmt.Fprintln(out, warningStyle.Render("⚠️  "+err.Error()))
		}
		if len(missing) > 0 && healthcheckVerbose {
			fmt.Fprintln(out, "   Set HUGGINGFACE_API_KEY, UNSPLASH_ACCESS_KEY and PICOGEN_API_KEY")
			fmt.Fprintln(out, "   in the environment or a .env file")
		}
		fmt.Fprintln(out)

		// Step 3: Chat settings
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking chat settings..."))
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Context window: %d message(s)", cfg.Chat.ContextWindow)))
		if cfg.HTTP.Timeout > 0 {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Upstream timeout: %s", cfg.HTTP.Timeout)))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No upstream timeout: a stalled request waits until cancelled"))
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)

		problems := append(badEndpoints, missing...)
		if len(problems) == 0 {
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			return nil
		}

		fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
		for _, err := range problems {
			fmt.Fprintf(out, "   • %v\n", err)
		}
		return fmt.Errorf("health check failed: %w", errors.Join(problems...))
	},
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("base URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", raw)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
}
