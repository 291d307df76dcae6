package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nathanbeddoewebdev/hureg/internal/auditlog"
	"nathanbeddoewebdev/hureg/internal/database"
	"nathanbeddoewebdev/hureg/internal/registry/domain"

	"github.com/google/go-cmp/cmp"
)

func setupDB(t *testing.T, entries ...*auditlog.AuditEntry) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hureg.db")
	database.SetPath(path)
	t.Cleanup(database.ResetPath)

	if len(entries) == 0 {
		return
	}
	repo, err := auditlog.Open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()
	for _, e := range entries {
		if err := repo.Save(context.Background(), e); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
}

func execAudit(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func entry(command, name string, age time.Duration, err error) *auditlog.AuditEntry {
	meta := auditlog.Metadata{Environment: "test", ResourceType: auditlog.ResourceDomain, ResourceName: name}
	return auditlog.NewEntry(command, []string{name}, meta, time.Now().Add(-age), err)
}

func TestList_Empty(t *testing.T) {
	setupDB(t)

	out, err := execAudit(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No audit entries found.") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestList_Table(t *testing.T) {
	setupDB(t,
		entry("hureg domain renew", "example.hu", time.Hour, nil),
		entry("hureg domain activate", "other.hu", time.Minute,
			domain.ResponseError("no permission", "other.hu", 403)),
	)

	out, err := execAudit(t, "list")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"TIME", "ENV",
		"hureg domain renew", "domain:example.hu", "success",
		"hureg domain activate", "error (403)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	// Newest first.
	if strings.Index(out, "other.hu") > strings.Index(out, "example.hu") {
		t.Errorf("entries not ordered newest first:\n%s", out)
	}
}

func TestList_Filters(t *testing.T) {
	setupDB(t,
		entry("hureg domain renew", "example.hu", 2*time.Hour, nil),
		entry("hureg domain renew", "other.hu", time.Hour, nil),
		entry("hureg domain activate", "example.hu", time.Minute, nil),
	)

	out, err := execAudit(t, "list", "--domain", "EXAMPLE.hu", "-o", "json")
	if err != nil {
		t.Fatal(err)
	}
	var got []auditlog.AuditEntry
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	var commands []string
	for _, e := range got {
		commands = append(commands, e.Command)
	}
	if diff := cmp.Diff([]string{"hureg domain activate", "hureg domain renew"}, commands); diff != "" {
		t.Errorf("domain filter (-want +got):\n%s", diff)
	}

	out, err = execAudit(t, "list", "--command", "hureg domain renew", "--limit", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "other.hu") || strings.Contains(out, "example.hu") {
		t.Errorf("command filter with limit returned:\n%s", out)
	}
}

func TestList_FailedSince(t *testing.T) {
	setupDB(t,
		entry("hureg domain renew", "old.hu", 10*24*time.Hour, domain.ResponseError("expired", "old.hu", 1)),
		entry("hureg domain renew", "ok.hu", time.Hour, nil),
		entry("hureg domain activate", "bad.hu", time.Hour, domain.ResponseError("denied", "bad.hu", 2)),
	)

	out, err := execAudit(t, "list", "--failed")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "old.hu") || !strings.Contains(out, "bad.hu") || strings.Contains(out, "ok.hu") {
		t.Errorf("--failed returned:\n%s", out)
	}

	out, err = execAudit(t, "list", "--failed", "--since", "2d")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "bad.hu") || strings.Contains(out, "old.hu") {
		t.Errorf("--failed --since returned:\n%s", out)
	}
}

func TestList_InvalidFlags(t *testing.T) {
	setupDB(t)

	if _, err := execAudit(t, "list", "--limit", "0"); err == nil {
		t.Error("expected error for zero limit")
	}
	if _, err := execAudit(t, "list", "-o", "yaml"); err == nil {
		t.Error("expected error for unsupported output")
	}
	if _, err := execAudit(t, "list", "--since", "soon"); err == nil {
		t.Error("expected error for invalid --since")
	}
}

func TestPrune(t *testing.T) {
	setupDB(t,
		entry("hureg domain renew", "old.hu", 40*24*time.Hour, nil),
		entry("hureg domain renew", "older.hu", 60*24*time.Hour, nil),
		entry("hureg domain renew", "new.hu", time.Hour, nil),
	)

	out, err := execAudit(t, "prune", "--older-than", "30d")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Removed 2 audit entries older than 30d.") {
		t.Errorf("unexpected output: %s", out)
	}

	out, _ = execAudit(t, "list")
	if !strings.Contains(out, "new.hu") || strings.Contains(out, "old.hu") {
		t.Errorf("unexpected entries after prune:\n%s", out)
	}
}

func TestPrune_RequiresAge(t *testing.T) {
	setupDB(t)

	if _, err := execAudit(t, "prune"); err == nil || !strings.Contains(err.Error(), "--older-than is required") {
		t.Errorf("expected required error, got %v", err)
	}
}

func TestFormatResource(t *testing.T) {
	if got := formatResource(auditlog.AuditEntry{}); got != "-" {
		t.Errorf("empty resource = %q", got)
	}
	if got := formatResource(auditlog.AuditEntry{ResourceType: "contact", ResourceName: "a@b.hu"}); got != "contact:a@b.hu" {
		t.Errorf("resource = %q", got)
	}
}
