package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iksnae/jonsai/internal"
	"github.com/iksnae/jonsai/internal/tui"
	"github.com/spf13/cobra"
)

// imageCmd represents the image command
var imageCmd = &cobra.Command{
	Use:   "image [prompt]...",
	Short: "Generate an image from a prompt",
	Long: `Generate an image with the hosted image-generation API.

With a prompt, the image URL is printed. Without one, the interactive image
screen opens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runScreen(cmd, tui.ScreenImage)
		}

		prompt := strings.Join(args, " ")
		if strings.TrimSpace(prompt) == "" {
			internal.PrintWarning("Nothing to generate: the prompt is empty")
			return nil
		}

		studio := internal.NewImageStudioFromConfig(cfg)
		var result *internal.ImageResult
		err := internal.ShowProgress(cmd.Context(), "Generating image", func() error {
			result = studio.Generate(cmd.Context(), prompt)
			if result.Error != "" {
				return errors.New(result.Error)
			}
			return nil
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.ImageURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
}
