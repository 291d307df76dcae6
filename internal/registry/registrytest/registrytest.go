// Package registrytest provides an in-process fake of the registry for
// command tests. Commands sent through it are recorded and answered by a
// caller-supplied function.
package registrytest

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"

	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/registry/dapi"
	"nathanbeddoewebdev/hureg/internal/registry/domain"
	"nathanbeddoewebdev/hureg/internal/registry/services"
	"nathanbeddoewebdev/hureg/internal/registry/session"
	"nathanbeddoewebdev/hureg/internal/services/auth"
)

// Call is one command received by the fake.
type Call struct {
	Command    string
	Attributes []string
}

var (
	todoPattern       = regexp.MustCompile(`<COMMAND TODO="([^"]*)">`)
	attributesPattern = regexp.MustCompile(`(?s)<ATTRIBUTES>(.*?)</ATTRIBUTES>`)
)

// Registry is a dapi.Transport answering every command with Respond. It is
// safe for concurrent use.
type Registry struct {
	Respond func(c Call) string

	mu    sync.Mutex
	calls []Call
}

// Send records the command and returns the scripted reply.
func (r *Registry) Send(_ context.Context, _ string, document []byte) ([]byte, error) {
	doc := string(document)
	c := Call{}
	if m := todoPattern.FindStringSubmatch(doc); m != nil {
		c.Command = m[1]
	}
	for _, m := range attributesPattern.FindAllStringSubmatch(doc, -1) {
		c.Attributes = append(c.Attributes, m[1])
	}

	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()

	return []byte(r.Respond(c)), nil
}

// Close implements dapi.Transport.
func (r *Registry) Close() error { return nil }

// Calls returns a copy of the commands received so far.
func (r *Registry) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Commands returns the names of the commands received so far.
func (r *Registry) Commands() []string {
	calls := r.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Command)
	}
	return out
}

// Install makes every session opened during the test talk to a new fake
// registry answering with respond.
func Install(t testing.TB, respond func(c Call) string) *Registry {
	t.Helper()
	reg := &Registry{Respond: respond}
	session.Override(func(cfg *config.Config, _ auth.Store, logger *slog.Logger) (*services.Service, error) {
		client := dapi.New(dapi.Config{URL: session.Endpoint(cfg), Credentials: dapi.Credentials{Username: "registrar", Password: "secret"}},
			dapi.WithSigner(dapi.SignerFunc(func([]byte) (string, error) { return "SIG", nil })),
			dapi.WithTransport(reg),
		)
		return services.New(client, services.WithLogger(logger), services.WithDefaultNameserver(cfg.Nameserver)), nil
	})
	t.Cleanup(session.Reset)
	return reg
}

// OK wraps inner in a successful reply.
func OK(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<DAPIR><COMMAND STATUS="0"><ATTRIBUTES>` + inner + `</ATTRIBUTES></COMMAND></DAPIR>`
}

// Fail returns a reply with a non-zero status and message.
func Fail(status int, msg string) string {
	return fmt.Sprintf(`<DAPIR><COMMAND STATUS="%d"><ATTRIBUTES><MESSAGE><text>%s</text></MESSAGE></ATTRIBUTES></COMMAND></DAPIR>`, status, msg)
}

// Ack returns a MESSAGE element carrying text.
func Ack(text string) string {
	return "<MESSAGE><text>" + text + "</text></MESSAGE>"
}

// DomainXML renders fields as a DOMAIN element, fields sorted.
func DomainXML(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("<DOMAIN>")
	for _, k := range keys {
		fmt.Fprintf(&b, "<%s>%s</%s>", k, fields[k], k)
	}
	b.WriteString("</DOMAIN>")
	return b.String()
}

// Domain returns a complete, active domain record for name with overrides
// applied.
func Domain(name string, overrides map[string]string) map[string]string {
	fields := map[string]string{
		domain.FieldName:        name,
		domain.FieldObjectID:    "1234",
		domain.FieldState:       domain.StateOK.Code(),
		domain.FieldRegistrarID: "77",
		domain.FieldOwnerID:     "555",
		domain.FieldPrimaryNS:   "ns1.example.hu[192.0.2.1]ns2.example.hu[192.0.2.2]",
		domain.FieldRegDate:     "2020-03-15",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return fields
}

// Known answers lookups for the names in records, reports every other
// name as not found and acknowledges all other commands with ack.
func Known(records map[string]map[string]string, ack string) func(Call) string {
	return func(c Call) string {
		if c.Command != services.CmdLookup {
			return OK(Ack(ack))
		}
		for name, fields := range records {
			for _, attr := range c.Attributes {
				if strings.Contains(attr, "<VALUE>"+name+"</VALUE>") {
					return OK(Ack(dapi.AckSignatureOK) + DomainXML(fields))
				}
			}
		}
		return OK(Ack(dapi.AckSignatureOK))
	}
}
