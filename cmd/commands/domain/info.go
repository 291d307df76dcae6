package domain

import (
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/domain"
	"nathanbeddoewebdev/hureg/internal/util"

	"github.com/spf13/cobra"
)

// InfoCommand returns the "domain info" command.
func InfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <domain>",
		Short: "Show the registry record of a domain",
		Long: `Show every field the registry returns for a domain.

Examples:
  hureg domain info example.hu
  hureg domain info example.hu --field domain_reg_date
  hureg domain info example.hu -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runInfo,
		SilenceUsage: true,
	}

	cmd.Flags().String("field", "", "Print a single field value")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if err := validateOutput(output); err != nil {
		return err
	}

	svc, _, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	var rec domain.DomainRecord
	err = cli.Read(ctx, func() error {
		var err error
		rec, err = svc.DomainInfo(ctx, args[0], false)
		return err
	})
	if err != nil {
		return err
	}

	if field, _ := cmd.Flags().GetString("field"); strings.TrimSpace(field) != "" {
		value, ok := rec.Get(strings.TrimSpace(field))
		if !ok {
			return fmt.Errorf("field %q is not present (available: %s)", field, strings.Join(rec.Fields(), ", "))
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(value))
		return nil
	}

	if output == "json" {
		return printJSON(cmd, rec)
	}
	printRecord(cmd, rec)
	return nil
}

// StateCommand returns the "domain state" command.
func StateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state <domain>",
		Short: "Show the state of a domain",
		Long: `Show the registry state code of a domain with its name.

Example:
  hureg domain state example.hu`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := cli.Open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx := cmd.Context()
			var state string
			err = cli.Read(ctx, func() error {
				var err error
				state, err = svc.DomainState(ctx, args[0], false)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stateBadge(state))
			return nil
		},
		SilenceUsage: true,
	}
}

// ExpiryCommand returns the "domain expiry" command.
func ExpiryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expiry <domain>",
		Short: "Show when the current registration period ends",
		Long: `Show when the current registration period of a domain ends. The first
period lasts two years from registration, every later one a year.

Example:
  hureg domain expiry example.hu`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := cli.Open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx := cmd.Context()
			var expires time.Time
			err = cli.Read(ctx, func() error {
				var err error
				expires, err = svc.ExpirationTime(ctx, args[0], false)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), expires.Format("2006-01-02 15:04:05"))
			return nil
		},
		SilenceUsage: true,
	}
}

// OwnedCommand returns the "domain owned" command.
func OwnedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owned <domain>",
		Short: "Check whether a registrar holds a domain",
		Long: `Check whether a registrar is the registrar of record for a domain.
Defaults to the configured registrar-id.

Examples:
  hureg domain owned example.hu
  hureg domain owned example.hu --registrar-id 1234`,
		Args:         cobra.ExactArgs(1),
		RunE:         runOwned,
		SilenceUsage: true,
	}

	cmd.Flags().String("registrar-id", "", "Registrar id to compare against (overrides config)")

	return cmd
}

func runOwned(cmd *cobra.Command, args []string) error {
	svc, cfg, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	registrarID := registrarIDFlag(cmd, cfg.RegistrarID)
	if err := util.ValidateNumericID("registrar id", registrarID); err != nil {
		return err
	}

	ctx := cmd.Context()
	var ours bool
	err = cli.Read(ctx, func() error {
		var err error
		ours, err = svc.IsDomainOurs(ctx, args[0], registrarID, false)
		return err
	})
	if err != nil {
		return err
	}

	if ours {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is held by registrar %s\n", args[0], registrarID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is not held by registrar %s\n", args[0], registrarID)
	}
	return nil
}

// registrarIDFlag returns --registrar-id when set, else fallback.
func registrarIDFlag(cmd *cobra.Command, fallback string) string {
	if v, _ := cmd.Flags().GetString("registrar-id"); strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
