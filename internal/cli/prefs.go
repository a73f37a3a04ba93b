package cli

import (
	"github.com/spf13/cobra"
)

func newEmbedPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed-prefs",
		Short: "View or change the default link preview text",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current preview defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result EmbedPrefs

			if err := client.Get("/api/v1/embed-prefs", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	var prefs EmbedPrefs
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the preview defaults (owner only)",
		Long: `Replace the preview defaults. Empty values clear the field; an
invalid color is stored empty and previews fall back to the built-in color.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result EmbedPrefs

			if err := client.Put("/api/v1/embed-prefs", prefs, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	setCmd.Flags().StringVar(&prefs.Title, "title", "", "Preview title")
	setCmd.Flags().StringVar(&prefs.Desc, "desc", "", "Preview description")
	setCmd.Flags().StringVar(&prefs.Color, "color", "", "Theme color, e.g. #ff8800")
	cmd.AddCommand(setCmd)

	return cmd
}
