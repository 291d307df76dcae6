package dapi

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewCommand_Text(t *testing.T) {
	cmd, err := NewCommand("altalanos_kereses", "<OBJ><VALUE>example.hu</VALUE></OBJ>")
	if err != nil {
		t.Fatalf("NewCommand() error = %v", err)
	}

	want := `<COMMAND TODO="altalanos_kereses"><ID>` + cmd.ID + `</ID>` +
		`<ATTRIBUTES><OBJ><VALUE>example.hu</VALUE></OBJ></ATTRIBUTES></COMMAND>` + "\n"
	if got := cmd.Text(); got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
}

func TestNewCommand_MultipleBlocks(t *testing.T) {
	cmd, err := NewCommand("objektum_attributum_modositas", "A", "B")
	if err != nil {
		t.Fatalf("NewCommand() error = %v", err)
	}
	text := cmd.Text()
	if !strings.Contains(text, "<ATTRIBUTES>A</ATTRIBUTES><ATTRIBUTES>B</ATTRIBUTES></COMMAND>\n") {
		t.Fatalf("Text() = %q, want two ATTRIBUTES blocks", text)
	}
}

func TestNewCommand_EmptyPayload(t *testing.T) {
	cmd, err := NewCommand("nyilatkozat_keres")
	if err != nil {
		t.Fatalf("NewCommand() error = %v", err)
	}
	if !strings.Contains(cmd.Text(), "<ATTRIBUTES></ATTRIBUTES>") {
		t.Fatalf("Text() = %q, want an empty ATTRIBUTES block", cmd.Text())
	}
}

func TestNewCommand_RequiresName(t *testing.T) {
	if _, err := NewCommand("  ", "X"); err == nil {
		t.Fatal("expected error for empty command name")
	}
}

func TestNextRequestID_UniqueAndFormatted(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 123456000, time.UTC)
	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 500; i++ {
		id := NextRequestID(now)
		if seen[id] {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = true

		secs, frac, ok := strings.Cut(id, ".")
		if !ok || len(frac) != 6 || secs == "" {
			t.Fatalf("request id %q is not seconds.micros", id)
		}
		if prev != "" && id == prev {
			t.Fatalf("request id did not advance: %q", id)
		}
		prev = id
	}
}

func TestCommand_Sign(t *testing.T) {
	cmd, err := NewCommand("domain", "<OBJ/>")
	if err != nil {
		t.Fatalf("NewCommand() error = %v", err)
	}

	var signed []byte
	err = cmd.Sign(SignerFunc(func(data []byte) (string, error) {
		signed = data
		return "SIG", nil
	}))
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if string(signed) != cmd.Text() {
		t.Fatalf("signed bytes = %q, want command text %q", signed, cmd.Text())
	}
	if cmd.Signature != "SIG" {
		t.Fatalf("Signature = %q, want SIG", cmd.Signature)
	}

	boom := errors.New("no key")
	if err := cmd.Sign(SignerFunc(func([]byte) (string, error) { return "", boom })); !errors.Is(err, boom) {
		t.Fatalf("Sign() error = %v, want %v", err, boom)
	}
}

func TestEnvelope_Marshal(t *testing.T) {
	cmd := &Command{Name: "domain", ID: "1714564800.000001", Attributes: []string{"X"}, Signature: "SIG"}
	env := Envelope{Username: "reg&co", Password: "p<w>", Commands: []*Command{cmd}}

	want := "<DAPI><USERNAME>reg&amp;co</USERNAME><PASSWORD>p&lt;w&gt;</PASSWORD>\n" +
		`<COMMAND TODO="domain"><ID>1714564800.000001</ID><ATTRIBUTES>X</ATTRIBUTES></COMMAND>` + "\n" +
		"<SIGNATURE>SIG</SIGNATURE>\n</DAPI>\n"
	if got := string(env.Marshal()); got != want {
		t.Fatalf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}
