package domain

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// availability is the JSON shape of one check result.
type availability struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// CheckCommand returns the "domain check" command.
func CheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <domain>...",
		Short: "Check whether domains are free to register",
		Long: `Check whether one or more domains are free to register.

Domains are checked concurrently, each worker with its own registry
session. Names may be given as separate arguments or comma-separated.

Examples:
  hureg domain check example.hu
  hureg domain check a.hu,b.hu c.co.hu --parallel 2
  hureg domain check example.hu -o json`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runCheck,
		SilenceUsage: true,
	}

	cmd.Flags().Int("parallel", 4, "Number of domains checked at once")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if err := validateOutput(output); err != nil {
		return err
	}
	parallel, _ := cmd.Flags().GetInt("parallel")
	if parallel <= 0 {
		return fmt.Errorf("parallel must be greater than 0")
	}

	names := util.SplitArgs(args)
	if len(names) == 0 {
		return fmt.Errorf("at least one domain is required")
	}

	results := make([]availability, len(names))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(parallel)
	for i, name := range names {
		g.Go(func() error {
			svc, _, err := cli.Open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			res := availability{Domain: name}
			err = cli.Read(ctx, func() error {
				var err error
				res.Available, err = svc.CheckDomainAvailability(ctx, name, false)
				return err
			})
			if err != nil {
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if output == "json" {
		if err := printJSON(cmd, results); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DOMAIN\tSTATUS")
		for _, r := range results {
			status := "taken"
			switch {
			case r.Error != "":
				status = "error: " + r.Error
			case r.Available:
				status = availabilityBadge("free")
			default:
				status = availabilityBadge(status)
			}
			fmt.Fprintf(w, "%s\t%s\n", r.Domain, status)
		}
		w.Flush()
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}
