package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long: `Check server health. With --wait, retry until the server answers
or the wait runs out, which is handy in scripts that start the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := checkHealth(wait, 250*time.Millisecond)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "keep retrying for up to this long")

	return cmd
}

func checkHealth(wait, every time.Duration) (HealthResult, error) {
	deadline := time.Now().Add(wait)
	for {
		var result HealthResult
		err := client.Get("/api/v1/health", &result)
		if err == nil && result.Status != "ok" {
			err = fmt.Errorf("server reported status %q", result.Status)
		}
		if err == nil || time.Now().Add(every).After(deadline) {
			return result, err
		}
		time.Sleep(every)
	}
}
