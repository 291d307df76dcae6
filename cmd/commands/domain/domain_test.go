package domain

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/registry/dapi"
	"nathanbeddoewebdev/hureg/internal/registry/domain"
	"nathanbeddoewebdev/hureg/internal/registry/registrytest"
	"nathanbeddoewebdev/hureg/internal/registry/services"

	"github.com/google/go-cmp/cmp"
)

// setupConfig points the config package at a temp file holding cfg.
func setupConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	if cfg != nil {
		if err := cfg.SaveTo(path); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}
	}
}

// execDomain creates the domain command, wires up output buffers, runs with
// the given args, and returns what was written to stdout and stderr.
func execDomain(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func known(records ...map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(records))
	for _, r := range records {
		out[r[domain.FieldName]] = r
	}
	return out
}

// --- lookups ---

func TestInfo_Table(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), ""))

	stdout, stderr := execDomain(t, "info", "example.hu")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	for _, want := range []string{"domain_hun_id:", "1234", "ok (8)", "2020-03-15"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestInfo_Field(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), ""))

	stdout, _ := execDomain(t, "info", "example.hu", "--field", domain.FieldRegDate)
	if stdout != "2020-03-15\n" {
		t.Errorf("stdout = %q, want the registration date", stdout)
	}

	_, stderr := execDomain(t, "info", "example.hu", "--field", "bogus")
	if !strings.Contains(stderr, `field "bogus" is not present`) {
		t.Errorf("expected missing field error, got: %s", stderr)
	}
}

func TestInfo_JSON(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), ""))

	stdout, _ := execDomain(t, "info", "example.hu", "-o", "json")

	var got map[string]string
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if diff := cmp.Diff(registrytest.Domain("example.hu", nil), got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestInfo_NotFound(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(nil, ""))

	_, stderr := execDomain(t, "info", "missing.hu")

	if !strings.Contains(stderr, "domain not found (domain missing.hu)") {
		t.Errorf("expected not found error, got: %s", stderr)
	}
	if n := len(reg.Calls()); n != 1 {
		t.Errorf("registry rejections must not be retried, got %d calls", n)
	}
}

func TestInfo_InvalidNameNeverReachesRegistry(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(nil, ""))

	_, stderr := execDomain(t, "info", "example.com")

	if !strings.Contains(stderr, "Error:") {
		t.Errorf("expected an error, got: %s", stderr)
	}
	if len(reg.Calls()) != 0 {
		t.Errorf("expected no registry calls, got %v", reg.Commands())
	}
}

func TestInfo_InvalidOutput(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, registrytest.Known(nil, ""))

	_, stderr := execDomain(t, "info", "example.hu", "-o", "yaml")
	if !strings.Contains(stderr, `unsupported output format "yaml"`) {
		t.Errorf("expected output format error, got: %s", stderr)
	}
}

func TestState(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", map[string]string{
		domain.FieldState: " 30 ",
	})), ""))

	stdout, _ := execDomain(t, "state", "example.hu")
	if strings.TrimSpace(stdout) != "deactivated (30)" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestOwned(t *testing.T) {
	setupConfig(t, &config.Config{RegistrarID: "77"})
	registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), ""))

	stdout, _ := execDomain(t, "owned", "example.hu")
	if !strings.Contains(stdout, "is held by registrar 77") {
		t.Errorf("stdout = %q", stdout)
	}

	stdout, _ = execDomain(t, "owned", "example.hu", "--registrar-id", "88")
	if !strings.Contains(stdout, "is not held by registrar 88") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestOwned_RequiresRegistrarID(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, registrytest.Known(nil, ""))

	_, stderr := execDomain(t, "owned", "example.hu")
	if !strings.Contains(stderr, "registrar id is required") {
		t.Errorf("expected registrar id error, got: %s", stderr)
	}
}

func TestCheck_Concurrent(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("taken.hu", nil)), ""))

	stdout, stderr := execDomain(t, "check", "taken.hu,free.hu", "other.co.hu", "--parallel", "2")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got:\n%s", stdout)
	}
	for i, want := range []string{"taken.hu  taken", "free.hu   free", "other.co.hu  free"} {
		if got := strings.Join(strings.Fields(lines[i+1]), " "); got != strings.Join(strings.Fields(want), " ") {
			t.Errorf("row %d = %q, want %q", i, got, want)
		}
	}
	if n := len(reg.Calls()); n != 3 {
		t.Errorf("expected 3 lookups, got %d", n)
	}
}

func TestCheck_ReportsFailures(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, func(registrytest.Call) string { return registrytest.Fail(12, "Hibás lekérdezés") })

	stdout, stderr := execDomain(t, "check", "example.hu", "-o", "json")

	var got []availability
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if len(got) != 1 || got[0].Error == "" {
		t.Fatalf("expected one failed result, got %+v", got)
	}
	if !strings.Contains(stderr, "1 of 1 checks failed") {
		t.Errorf("expected failure summary, got: %s", stderr)
	}
}

func TestSearch(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, func(registrytest.Call) string {
		return `<DAPIR><COMMAND STATUS="0">` +
			`<ATTRIBUTES>` + registrytest.DomainXML(registrytest.Domain("egy.hu", map[string]string{domain.FieldState: "30"})) + `</ATTRIBUTES>` +
			`<ATTRIBUTES>` + registrytest.Ack(dapi.AckSignatureOK) + `</ATTRIBUTES>` +
			`</COMMAND></DAPIR>`
	})

	stdout, stderr := execDomain(t, "search", "--state", "deactivated", "--filter", "domain_owner_org_id=555")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "egy.hu") || !strings.Contains(stdout, "deactivated (30)") {
		t.Errorf("unexpected output:\n%s", stdout)
	}

	calls := reg.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one search, got %v", reg.Commands())
	}
	want := `<OBJ><VALUE>30</VALUE><ATTRNAME>domain_state_id</ATTRNAME><OPERATOR>=</OPERATOR></OBJ>`
	if !strings.Contains(calls[0].Attributes[0], want) {
		t.Errorf("search payload %q missing state clause", calls[0].Attributes[0])
	}
}

func TestSearch_RequiresFilter(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(nil, ""))

	_, stderr := execDomain(t, "search")
	if !strings.Contains(stderr, "at least one filter is required") {
		t.Errorf("expected filter error, got: %s", stderr)
	}

	_, stderr = execDomain(t, "search", "--filter", "novalue")
	if !strings.Contains(stderr, "invalid filter") {
		t.Errorf("expected invalid filter error, got: %s", stderr)
	}
	if len(reg.Calls()) != 0 {
		t.Errorf("expected no registry calls, got %v", reg.Commands())
	}
}

// --- changes ---

func TestRegister(t *testing.T) {
	setupConfig(t, &config.Config{Nameserver: "ns.acme.hu"})
	reg := registrytest.Install(t, func(c registrytest.Call) string {
		if c.Command == services.CmdLookup {
			return registrytest.OK(registrytest.Ack(dapi.AckSignatureOK))
		}
		return registrytest.OK(registrytest.Ack("Az új domain azonosítója: 4242"))
	})

	stdout, stderr := execDomain(t, "register", "uj.hu", "--owner", "100", "--tech", "200")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "registered (id 4242)") {
		t.Errorf("unexpected output: %s", stdout)
	}
	if diff := cmp.Diff([]string{services.CmdLookup, services.CmdRegister}, reg.Commands()); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
	payload := reg.Calls()[1].Attributes[0]
	for _, want := range []string{"<DNS>ns.acme.hu</DNS>", `<PERSON ROLE="zone-c"><IDENT>200</IDENT></PERSON>`} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q:\n%s", want, payload)
		}
	}
}

func TestRegister_Validation(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(nil, ""))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing owner", args: []string{"register", "uj.hu"}, want: "owner contact id is required"},
		{name: "non-numeric owner", args: []string{"register", "uj.hu", "--owner", "abc"}, want: "must contain only digits"},
		{name: "non-numeric tech", args: []string{"register", "uj.hu", "--owner", "1", "--tech", "x"}, want: "technical contact id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr := execDomain(t, tt.args...)
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("expected %q, got: %s", tt.want, stderr)
			}
		})
	}
	if len(reg.Calls()) != 0 {
		t.Errorf("expected no registry calls, got %v", reg.Commands())
	}
}

func TestActivate(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", map[string]string{
		domain.FieldState: "30",
	})), services.AckStateChanged))

	stdout, stderr := execDomain(t, "activate", "example.hu")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "is now ok (8)") {
		t.Errorf("unexpected output: %s", stdout)
	}
	if diff := cmp.Diff([]string{services.CmdLookup, services.CmdStateChange}, reg.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestActivate_AlreadyActive(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), services.AckStateChanged))

	execDomain(t, "activate", "example.hu")

	if diff := cmp.Diff([]string{services.CmdLookup}, reg.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestDeactivate_Zone(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), services.AckStateChanged))

	stdout, _ := execDomain(t, "deactivate", "example.hu", "--zone")

	if !strings.Contains(stdout, "zone-deactivated (31)") {
		t.Errorf("unexpected output: %s", stdout)
	}
	calls := reg.Calls()
	if len(calls) != 2 || !strings.Contains(calls[1].Attributes[0], "31") {
		t.Errorf("expected a change to 31, got %+v", calls)
	}
}

func TestSetState_RequiresStateWhenNotInteractive(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, registrytest.Known(nil, ""))

	_, stderr := execDomain(t, "set-state", "example.hu")
	if !strings.Contains(stderr, "a target state is required") {
		t.Errorf("expected target state error, got: %s", stderr)
	}

	_, stderr = execDomain(t, "set-state", "example.hu", "bogus")
	if !strings.Contains(stderr, "unknown domain state") {
		t.Errorf("expected unknown state error, got: %s", stderr)
	}
}

func TestSetState_UnexpectedAck(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), "Valami más"))

	_, stderr := execDomain(t, "set-state", "example.hu", "deactivated")
	if !strings.Contains(stderr, "unexpected acknowledgement") {
		t.Errorf("expected acknowledgement error, got: %s", stderr)
	}
}

func TestRenew_NotOurs(t *testing.T) {
	setupConfig(t, &config.Config{RegistrarID: "99"})
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", map[string]string{
		domain.FieldState: "30",
	})), services.AckStateChanged))

	_, stderr := execDomain(t, "renew", "example.hu")
	if !strings.Contains(stderr, "does not belong to us") {
		t.Errorf("expected ownership error, got: %s", stderr)
	}
	if diff := cmp.Diff([]string{services.CmdLookup}, reg.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestRenew_AnyRegistrar(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", map[string]string{
		domain.FieldState: "30",
	})), services.AckStateChanged))

	stdout, stderr := execDomain(t, "renew", "example.hu", "--any-registrar")
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "renewed") {
		t.Errorf("unexpected output: %s", stdout)
	}
	if diff := cmp.Diff([]string{services.CmdLookup, services.CmdStateChange}, reg.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestTransfer(t *testing.T) {
	setupConfig(t, &config.Config{RegistrarID: "88", Nameserver: "ns.acme.hu"})
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), dapi.AckSignatureOK))

	stdout, stderr := execDomain(t, "transfer", "example.hu")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "to registrar 88 requested") {
		t.Errorf("unexpected output: %s", stdout)
	}
	calls := reg.Calls()
	if len(calls) != 2 || len(calls[1].Attributes) != 2 {
		t.Fatalf("expected one attribute change with two blocks, got %+v", calls)
	}
	if !strings.Contains(calls[1].Attributes[1], "ns.acme.hu") {
		t.Errorf("nameserver block missing: %s", calls[1].Attributes[1])
	}
}

func TestTransfer_KeepNameserver(t *testing.T) {
	setupConfig(t, &config.Config{RegistrarID: "88", Nameserver: "ns.acme.hu"})
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), dapi.AckSignatureOK))

	execDomain(t, "transfer", "example.hu", "--keep-nameserver")

	calls := reg.Calls()
	if len(calls) != 2 || len(calls[1].Attributes) != 1 {
		t.Fatalf("expected a single attribute block, got %+v", calls)
	}
}

func TestTransfer_AlreadyOurs(t *testing.T) {
	setupConfig(t, &config.Config{RegistrarID: "77"})
	registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), dapi.AckSignatureOK))

	_, stderr := execDomain(t, "transfer", "example.hu")
	if !strings.Contains(stderr, "domain belongs to us") {
		t.Errorf("expected ownership error, got: %s", stderr)
	}
}

func TestNS(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), dapi.AckSignatureOK))

	stdout, _ := execDomain(t, "ns", "get", "example.hu")
	for _, want := range []string{"ns1.example.hu", "192.0.2.1", "ns2.example.hu", "192.0.2.2"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}

	stdout, stderr := execDomain(t, "ns", "set", "example.hu", "ns.acme.hu")
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "set to ns.acme.hu") {
		t.Errorf("unexpected output: %s", stdout)
	}
	calls := reg.Calls()
	last := calls[len(calls)-1]
	if last.Command != services.CmdAttributeChange || !strings.Contains(last.Attributes[0], "ns.acme.hu") {
		t.Errorf("unexpected change command %+v", last)
	}
}

func TestUpload(t *testing.T) {
	setupConfig(t, nil)
	reg := registrytest.Install(t, registrytest.Known(known(registrytest.Domain("example.hu", nil)), dapi.AckSignatureOK))

	path := filepath.Join(t.TempDir(), "contract.pdf")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, stderr := execDomain(t, "upload", "example.hu", "--file", path, "--text", "signed")
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "contract.pdf attached") {
		t.Errorf("unexpected output: %s", stdout)
	}

	calls := reg.Calls()
	want := `<REMARK><OBJID>1234</OBJID><SUBJECT>contract.pdf</SUBJECT><TEXT>signed</TEXT><FILE>aGVsbG8=</FILE><FILETYPE>pdf</FILETYPE></REMARK>`
	if got := calls[len(calls)-1].Attributes[0]; got != want {
		t.Errorf("payload =\n%s\nwant\n%s", got, want)
	}
}

func TestUpload_RequiresFile(t *testing.T) {
	setupConfig(t, nil)
	registrytest.Install(t, registrytest.Known(nil, ""))

	_, stderr := execDomain(t, "upload", "example.hu")
	if !strings.Contains(stderr, "--file is required") {
		t.Errorf("expected --file error, got: %s", stderr)
	}
}

func TestStateLabel(t *testing.T) {
	tests := map[string]string{
		"":   "",
		"8":  "ok (8)",
		"35": "conditional-use (35)",
		"99": "99",
	}
	for in, want := range tests {
		if got := stateLabel(in); got != want {
			t.Errorf("stateLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
