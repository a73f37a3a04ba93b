package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Browse media buckets and mint short links",
	}

	cmd.AddCommand(newMediaBucketsCmd())
	cmd.AddCommand(newMediaListCmd())
	cmd.AddCommand(newMediaInfoCmd())
	cmd.AddCommand(newMediaLinkCmd())

	return cmd
}

func assetPath(bucket, file string) string {
	return fmt.Sprintf("/api/v1/media/buckets/%s/assets/%s", url.PathEscape(bucket), url.PathEscape(file))
}

func newMediaBucketsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buckets",
		Short: "List the buckets you can read",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BucketList

			if err := client.Get("/api/v1/media/buckets", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newMediaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <bucket>",
		Short: "List files in a bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AssetList

			if err := client.Get("/api/v1/media/buckets/"+url.PathEscape(args[0])+"/assets", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newMediaInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <bucket> <file>",
		Short: "Show details for a single file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Asset

			if err := client.Get(assetPath(args[0], args[1])+"/info", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newMediaLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <bucket> <file>",
		Short: "Mint a short link for a file",
		Long: `Mint a short link for a file. Links rotate: a token only resolves
until the current epoch ends, and minting again within the same epoch
returns the same token.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ShortLink

			if err := client.Post(assetPath(args[0], args[1])+"/link", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
