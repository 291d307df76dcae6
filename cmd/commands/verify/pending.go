package verify

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/hureg/internal/declstore"
	"nathanbeddoewebdev/hureg/internal/util"

	"github.com/spf13/cobra"
)

// PendingCommand returns the "verify pending" command.
func PendingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List declarations waiting for an answer",
		Long: `List the ownership declarations requested with 'hureg verify request'
that have not been submitted yet.

Examples:
  hureg verify pending
  hureg verify pending --prune 30d`,
		Args:         cobra.NoArgs,
		RunE:         runPending,
		SilenceUsage: true,
	}

	cmd.Flags().String("prune", "", "First remove records older than this age (e.g. 30d, 2w)")

	return cmd
}

func runPending(cmd *cobra.Command, args []string) error {
	repo, err := declstore.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	if raw, _ := cmd.Flags().GetString("prune"); strings.TrimSpace(raw) != "" {
		age, err := util.ParseAge(raw)
		if err != nil {
			return err
		}
		removed, err := repo.DeleteOlderThan(age)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d declaration record(s).\n", removed)
	}

	records, err := repo.ListPending()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pending declarations.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tENV\tREQUEST ID\tHASH\tREQUESTED")
	for _, r := range records {
		hash := r.Hash
		if hash == "" {
			hash = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%010d\t%s\t%s\n",
			r.Domain, r.Environment, r.RequestID, hash,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
