package domain

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/platform/cli"

	"github.com/spf13/cobra"
)

// NSCommand returns the "domain ns" parent command.
func NSCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ns",
		Short: "Show or change the nameservers of a domain",
	}

	cmd.AddCommand(nsGetCommand())
	cmd.AddCommand(nsSetCommand())

	return cmd
}

func nsGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <domain>",
		Short: "List the nameservers of a domain",
		Long: `List the primary and secondary nameservers of a domain with their
glue addresses.

Examples:
  hureg domain ns get example.hu
  hureg domain ns get example.hu -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			var records map[string]string
			err = cli.Read(ctx, func() error {
				var err error
				records, err = svc.GetNsRecords(ctx, args[0], false)
				return err
			})
			if err != nil {
				return err
			}

			if output == "json" {
				return printJSON(cmd, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No nameservers set.")
				return nil
			}
			printNameservers(cmd, records)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func nsSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <domain> <nameserver>",
		Short: "Set the primary nameserver of a domain",
		Long: `Set the primary nameserver of a domain. A glue address may follow the
host in brackets.

Examples:
  hureg domain ns set example.hu ns1.acme.hu
  hureg domain ns set example.hu 'ns1.example.hu[192.0.2.1]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := cli.Open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()
			cli.Track(cmd, cfg, auditlog.ResourceDomain, args[0])

			err = perform(cmd, "Updating nameserver...", func(ctx context.Context) error {
				return svc.SetNsRecord(ctx, args[0], args[1], false)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Primary nameserver of %s set to %s.\n", args[0], args[1])
			return nil
		},
		SilenceUsage: true,
	}
	return cli.Audited(cmd)
}
