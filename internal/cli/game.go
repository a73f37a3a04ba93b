package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tictactoe",
		Aliases: []string{"ttt", "game"},
		Short:   "Tic-tac-toe commands",
	}

	cmd.AddCommand(newGameStatusCmd())
	cmd.AddCommand(newGameQueueCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameLeaveCmd())
	cmd.AddCommand(newGameShowCmd())

	return cmd
}

func newGameStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your queue position or current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get("/api/v1/tictactoe/status", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameQueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Join the matchmaking queue",
		Long: `Join the matchmaking queue. If another player is already waiting
a game starts immediately, otherwise you wait until someone joins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Post("/api/v1/tictactoe/queue", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <cell>",
		Short: "Mark a cell (0-8, row by row)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cell, err := strconv.Atoi(args[0])
			if err != nil || cell < 0 || cell > 8 {
				return fmt.Errorf("invalid cell %q: must be 0-8", args[0])
			}

			req := map[string]int{"cell": cell}
			var result GameState

			if err := client.Post("/api/v1/tictactoe/move", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the queue or resign the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Post("/api/v1/tictactoe/leave", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a game you played in, including finished ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameView

			if err := client.Get("/api/v1/games/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(GameState{Game: &result})
			return nil
		},
	}
}
