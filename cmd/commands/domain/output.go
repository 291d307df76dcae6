package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"nathanbeddoewebdev/hureg/internal/platform/cli"
	"nathanbeddoewebdev/hureg/internal/registry/domain"
	"nathanbeddoewebdev/hureg/internal/tui/styles"

	"github.com/spf13/cobra"
)

// printJSON encodes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRecord prints a vertical key-value table of every record field.
func printRecord(cmd *cobra.Command, rec domain.DomainRecord) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, field := range rec.Fields() {
		value := rec.Value(field)
		if field == domain.FieldState {
			value = stateLabel(value)
		}
		fmt.Fprintf(w, "  %s:\t%s\n", field, value)
	}
	w.Flush()
}

// printRecords prints one summary row per record.
func printRecords(cmd *cobra.Command, records []domain.DomainRecord) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tSTATE\tREGISTRAR\tREGISTERED")
	fmt.Fprintln(w, "------\t-----\t---------\t----------")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			orDash(rec.Name()),
			orDash(stateLabel(rec.State())),
			orDash(rec.RegistrarID()),
			orDash(rec.Value(domain.FieldRegDate)),
		)
	}
	w.Flush()
}

// printNameservers prints nameservers sorted by host.
func printNameservers(cmd *cobra.Command, records map[string]string) {
	type entry struct{ host, ip string }
	entries := make([]entry, 0, len(records))
	for ip, host := range records {
		entries = append(entries, entry{host: host, ip: ip})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].host != entries[j].host {
			return entries[i].host < entries[j].host
		}
		return entries[i].ip < entries[j].ip
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HOST\tADDRESS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.host, orDash(e.ip))
	}
	w.Flush()
}

// stateLabel renders a state code with its name, e.g. "ok (8)".
func stateLabel(code string) string {
	if code == "" {
		return ""
	}
	st, err := domain.ParseDomainState(code)
	if err != nil || st.String() == st.Code() {
		return code
	}
	return fmt.Sprintf("%s (%s)", st, st.Code())
}

// stateBadge colours the state label of code when writing to a terminal.
func stateBadge(code string) string {
	label := stateLabel(code)
	if !cli.IsInteractive() {
		return label
	}
	st, err := domain.ParseDomainState(code)
	if err != nil {
		return label
	}
	return styles.StatusStyle(st.String()).Render(label)
}

// availabilityBadge renders "free" or "taken" with a status dot on a
// terminal.
func availabilityBadge(status string) string {
	if !cli.IsInteractive() {
		return status
	}
	return styles.StatusIndicator(status)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func validateOutput(output string) error {
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}
	return nil
}
