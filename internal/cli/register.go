package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Registration conversation commands",
	}

	cmd.AddCommand(newRegisterBeginCmd())
	cmd.AddCommand(newRegisterInputCmd())
	cmd.AddCommand(newRegisterRunCmd())

	return cmd
}

func newRegisterBeginCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "begin",
		Short: "Start a registration conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"display_name": name}
			var result Prompt

			if err := client.Post("/api/v1/registration/begin", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func newRegisterInputCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "input <text>",
		Short: "Send one input to the registration conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"input": args[0]}
			var result Prompt

			if err := client.Post("/api/v1/registration/input", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRegisterRunCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the registration conversation interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var prompt Prompt
			req := map[string]string{"display_name": name}
			if err := client.Post("/api/v1/registration/begin", req, &prompt); err != nil {
				return err
			}
			out.Print(prompt)

			scanner := bufio.NewScanner(os.Stdin)
			for !prompt.Done {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				input := strings.TrimSpace(scanner.Text())

				if err := client.Post("/api/v1/registration/input", map[string]string{"input": input}, &prompt); err != nil {
					return err
				}
				out.Print(prompt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}
