package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "List and acknowledge notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listNotifications()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recent notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listNotifications()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Notification Notification `json:"notification"`
			}

			if err := client.Post("/api/v1/notifications/"+url.PathEscape(args[0])+"/read", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Marked " + result.Notification.ID + " as read")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/notifications/read-all", nil, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("All notifications marked as read")
			return nil
		},
	})

	return cmd
}

func listNotifications() error {
	var result NotificationList

	if err := client.Get("/api/v1/notifications", &result); err != nil {
		return err
	}

	NewOutput(cfg.Output).Print(result)
	return nil
}
