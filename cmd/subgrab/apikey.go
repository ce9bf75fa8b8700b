package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ciefp/subgrab/internal/config"
)

func newAPIKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apikey <service> [value]",
		Short: "Show or store the API key for a catalog service",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := args[0]
			switch service {
			case "subdl", "opensubtitles":
			default:
				return fmt.Errorf("service %q takes no API key", service)
			}

			cfg := config.GetConfig()
			if len(args) == 1 {
				key := cfg.APIKeyFor(service)
				if key == "" {
					return fmt.Errorf("no API key stored for %s", service)
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			}

			if err := config.WriteAPIKey(cfg.CredentialsDir, service, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key for %s stored.\n", service)
			return nil
		},
	}
}
