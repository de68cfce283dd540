package cmd

import (
	"github.com/iksnae/jonsai/internal/tui"
	"github.com/spf13/cobra"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat screen",
	Long: `Open the interactive chat screen.

Messages go to the hosted text-generation model along with the last few turns
of the conversation. A message starting with "image:" looks up a matching photo
instead. Press esc for the menu and ctrl+c to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScreen(cmd, tui.ScreenChat)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
