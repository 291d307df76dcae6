package domain

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/domain"

	"github.com/spf13/cobra"
)

// SearchCommand returns the "domain search" command.
func SearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search domains by exact attribute values",
		Long: `Search the registry for domains matching every given attribute
exactly. At least one filter is required.

Examples:
  hureg domain search --registrar-id 1234
  hureg domain search --state 30 -o json
  hureg domain search --filter domain_owner_org_id=555`,
		Args:         cobra.NoArgs,
		RunE:         runSearch,
		SilenceUsage: true,
	}

	cmd.Flags().StringArray("filter", nil, "Attribute filter as FIELD=VALUE (repeatable)")
	cmd.Flags().String("registrar-id", "", "Match the registrar of record")
	cmd.Flags().String("owner", "", "Match the owner organisation id")
	cmd.Flags().String("state", "", "Match a state code or name (e.g. deactivated)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if err := validateOutput(output); err != nil {
		return err
	}

	params, err := searchParams(cmd)
	if err != nil {
		return err
	}
	if len(params) == 0 {
		return fmt.Errorf("at least one filter is required")
	}

	svc, _, err := cli.Open(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	var records []domain.DomainRecord
	err = cli.Read(ctx, func() error {
		var err error
		records, err = svc.SearchDomains(ctx, params)
		return err
	})
	if err != nil {
		return err
	}

	if output == "json" {
		if records == nil {
			records = []domain.DomainRecord{}
		}
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No domains found.")
		return nil
	}
	printRecords(cmd, records)
	return nil
}

// searchParams collects the attribute filters from the command's flags.
func searchParams(cmd *cobra.Command) (map[string]string, error) {
	params := make(map[string]string)

	filters, _ := cmd.Flags().GetStringArray("filter")
	for _, f := range filters {
		field, value, ok := strings.Cut(f, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid filter %q (want FIELD=VALUE)", f)
		}
		params[field] = strings.TrimSpace(value)
	}

	if v, _ := cmd.Flags().GetString("registrar-id"); v != "" {
		params[domain.FieldRegistrarID] = strings.TrimSpace(v)
	}
	if v, _ := cmd.Flags().GetString("owner"); v != "" {
		params[domain.FieldOwnerID] = strings.TrimSpace(v)
	}
	if v, _ := cmd.Flags().GetString("state"); v != "" {
		st, err := domain.ParseDomainState(v)
		if err != nil {
			return nil, err
		}
		params[domain.FieldState] = st.Code()
	}
	return params, nil
}
