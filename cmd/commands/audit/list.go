package audit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/util"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally.

Examples:
  hureg audit list
  hureg audit list --limit 50
  hureg audit list --domain example.hu
  hureg audit list --command "hureg domain register"
  hureg audit list --failed --since 7d
  hureg audit list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("command", "", "Filter by exact command path")
	cmd.Flags().String("domain", "", "Filter by domain name")
	cmd.Flags().Bool("failed", false, "Only show commands that failed")
	cmd.Flags().String("since", "", "Only show entries newer than this age (e.g. 24h, 7d, 2w)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	command, _ := cmd.Flags().GetString("command")
	domainName, _ := cmd.Flags().GetString("domain")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	filter := auditlog.Filter{
		Command: strings.TrimSpace(command),
		Domain:  util.NormalizeKey(domainName),
		Limit:   limit,
	}
	if failed, _ := cmd.Flags().GetBool("failed"); failed {
		filter.Outcome = auditlog.OutcomeError
	}
	if since, _ := cmd.Flags().GetString("since"); since != "" {
		age, err := util.ParseAge(since)
		if err != nil {
			return err
		}
		filter.Since = time.Now().Add(-age)
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOMMAND\tENV\tOUTCOME\tDURATION\tRESOURCE\tDETAIL")
	fmt.Fprintln(w, "----\t-------\t---\t-------\t--------\t--------\t------")
	for _, entry := range entries {
		timeStr := entry.Timestamp.Local().Format("2006-01-02 15:04:05")

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			timeStr,
			entry.Command,
			orDash(entry.Environment),
			formatOutcome(entry),
			formatDuration(entry.DurationMs),
			formatResource(entry),
			orDash(entry.Detail),
		)
	}
	w.Flush()
	return nil
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

// formatOutcome appends the registry status code to failed entries.
func formatOutcome(entry auditlog.AuditEntry) string {
	if entry.Status == 0 {
		return entry.Outcome
	}
	return entry.Outcome + " (" + strconv.Itoa(entry.Status) + ")"
}

func formatResource(entry auditlog.AuditEntry) string {
	switch {
	case entry.ResourceType == "" && entry.ResourceName == "":
		return "-"
	case entry.ResourceName == "":
		return entry.ResourceType
	case entry.ResourceType == "":
		return entry.ResourceName
	default:
		return entry.ResourceType + ":" + entry.ResourceName
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
