package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/jonsai/internal"
	"github.com/iksnae/jonsai/internal/export"
	"github.com/spf13/cobra"
)

var format string

var (
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <text>...",
	Short: "Send one chat message and print the reply",
	Long: `Send a single message through the chat screen and print the exchange.

Arguments are joined with spaces. A message starting with "image:" looks up a
photo instead of asking the model. Use --format to print the exchange as
jsonl, md, yaml or json instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var exporter export.Exporter
		if format != "" {
			var err error
			exporter, err = export.NewExporter(format)
			if err != nil {
				return err
			}
		}

		text := strings.Join(args, " ")
		chat := internal.NewConversationControllerFromConfig(cfg)

		var result *internal.SubmitResult
		err := internal.ShowProgress(cmd.Context(), "Waiting for reply", func() error {
			var err error
			result, err = chat.Submit(cmd.Context(), text)
			return err
		})
		if err != nil {
			return err
		}
		if result == nil {
			internal.PrintWarning("Nothing to send: the message is empty")
			return nil
		}
		if result.Err != nil {
			internal.LogDebug("%s request failed (%s): %v", result.Kind, internal.ErrorKind(result.Err), result.Err)
		}

		out := cmd.OutOrStdout()
		if exporter != nil {
			if err := exporter.Export(chat.Session(), out); err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			return nil
		}

		session := chat.Session()
		displaySessionHeader(out, session)
		renderer := newMarkdownRenderer()
		for i, msg := range session.Messages {
			displayMessage(out, i+1, msg, len(session.Messages), renderer)
		}
		return nil
	},
}

func newMarkdownRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		internal.LogDebug("Markdown rendering disabled: %v", err)
		return nil
	}
	return r
}

func displaySessionHeader(w io.Writer, session *internal.Session) {
	if session == nil {
		return
	}
	fmt.Fprintln(w, sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", session.ID)))

	var metaParts []string
	if session.Metadata.CreatedAt != "" {
		metaParts = append(metaParts, fmt.Sprintf("Started: %s", session.Metadata.CreatedAt))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", len(session.Messages)))
	fmt.Fprintln(w, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(w)
}

// displayMessage prints one message. Assistant replies are Markdown and go through
// renderer when there is one.
func displayMessage(w io.Writer, index int, msg internal.Message, total int, renderer *glamour.TermRenderer) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch msg.Role {
	case internal.RoleUser:
		actorStyle = userMessageStyle
		actorLabel = "👤 You"
	case internal.RoleAssistant:
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 Jon's AI"
	default:
		actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		actorLabel = fmt.Sprintf("🔧 %s", msg.Role)
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if msg.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
			header += " " + timestampStyle.Render(t.Local().Format("15:04:05"))
		} else {
			header += " " + timestampStyle.Render(msg.Timestamp)
		}
	}
	fmt.Fprintln(w, header)

	content := strings.TrimSpace(msg.Content)
	switch {
	case content == "":
		fmt.Fprintln(w, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	case msg.Role == internal.RoleAssistant && renderer != nil:
		rendered, err := renderer.Render(content)
		if err != nil {
			fmt.Fprintln(w, messageContentStyle.Render(wrapText(content, 80)))
			break
		}
		fmt.Fprintln(w, strings.TrimRight(rendered, "\n"))
	default:
		fmt.Fprintln(w, messageContentStyle.Render(wrapText(content, 80)))
	}
	fmt.Fprintln(w)
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			switch {
			case currentLine == "":
				currentLine = word
			case len(currentLine)+len(word)+1 > width:
				wrapped = append(wrapped, currentLine)
				currentLine = word
			default:
				currentLine += " " + word
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&format, "format", "f", "", "Print the exchange as one of: "+export.FormatList())
}
