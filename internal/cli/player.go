package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerAssignCmd())
	cmd.AddCommand(newPlayerDetachCmd())

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the player for the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get("/api/v1/players/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Player

			if err := client.Get("/api/v1/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerAssignCmd() *cobra.Command {
	var gameID, countryID, name string

	// The target identity is positional: a local --identity flag would
	// shadow the root command's persistent one and swallow its value
	cmd := &cobra.Command{
		Use:   "assign <identity>",
		Short: "Directly assign an identity to a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if gameID == "" || countryID == "" {
				return fmt.Errorf("--game and --country are required")
			}

			req := map[string]string{
				"identity":     args[0],
				"game_id":      gameID,
				"country_id":   countryID,
				"display_name": name,
			}
			var result Player

			if err := client.Post("/api/v1/assignments", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game ID (required)")
	cmd.Flags().StringVar(&countryID, "country", "", "Country ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func newPlayerDetachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detach [identity]",
		Short: "Detach a player from their country (the caller's own when no identity is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if len(args) == 0 {
				// Detach the caller
				if err := client.Post("/api/v1/players/me/detach", nil, &result); err != nil {
					return err
				}
			} else {
				req := map[string]string{"identity": args[0]}
				if err := client.Post("/api/v1/assignments/detach", req, &result); err != nil {
					return err
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
