package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newCountryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "country",
		Short: "Country management commands",
	}

	cmd.AddCommand(newCountryCreateCmd())
	cmd.AddCommand(newCountryListCmd())
	cmd.AddCommand(newCountryGetCmd())
	cmd.AddCommand(newCountrySuggestCmd())
	cmd.AddCommand(newCountryDeleteCmd())

	return cmd
}

func newCountryCreateCmd() *cobra.Command {
	var name, description, capital string
	var population int64
	var suggested bool
	var synonyms []string
	var aspects []string

	cmd := &cobra.Command{
		Use:   "create <game-id>",
		Short: "Create a country in a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			aspectMap, err := parseAspects(aspects)
			if err != nil {
				return err
			}

			req := map[string]any{
				"name":        name,
				"description": description,
				"capital":     capital,
				"population":  population,
				"synonyms":    synonyms,
				"aspects":     aspectMap,
				"suggested":   suggested,
			}
			var result Country

			if err := client.Post("/api/v1/games/"+args[0]+"/countries", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Country name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Country description")
	cmd.Flags().StringVar(&capital, "capital", "", "Capital city")
	cmd.Flags().Int64Var(&population, "population", 0, "Population")
	cmd.Flags().BoolVar(&suggested, "suggested", false, "Offer this country as a suggestion during registration")
	cmd.Flags().StringSliceVar(&synonyms, "synonym", nil, "Alternative name (repeatable)")
	cmd.Flags().StringSliceVar(&aspects, "aspect", nil, "Aspect rating as name=value, 1-10 (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCountryListCmd() *cobra.Command {
	var available bool

	cmd := &cobra.Command{
		Use:   "list <game-id>",
		Short: "List countries in a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games/" + args[0] + "/countries"
			if available {
				path += "?available=true"
			}

			var result []Country
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&available, "available", false, "Only unassigned suggestions")

	return cmd
}

func newCountryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <country-id>",
		Short: "Get a country by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Country

			if err := client.Get("/api/v1/countries/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCountrySuggestCmd() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "suggest <country-id>",
		Short: "Mark or unmark a country as a registration suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"suggested": !off}
			var result Country

			if err := client.Patch("/api/v1/countries/"+args[0]+"/suggested", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Remove the suggestion mark")

	return cmd
}

func newCountryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <country-id>",
		Short: "Delete an unassigned country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/countries/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Country deleted")
			return nil
		},
	}
}

// parseAspects parses name=value pairs into an aspect map
func parseAspects(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	aspects := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid aspect %q: expected name=value", pair)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid aspect value %q: %w", value, err)
		}
		aspects[name] = n
	}
	return aspects, nil
}
