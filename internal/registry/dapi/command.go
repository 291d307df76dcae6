package dapi

import (
	"encoding/xml"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// lastRequestID holds the most recently issued request id in microseconds.
var lastRequestID atomic.Int64

// NextRequestID returns a timestamp-derived request id with microsecond
// resolution. Ids are strictly increasing within the process even when two
// commands are built in the same microsecond.
func NextRequestID(now time.Time) string {
	us := now.UnixMicro()
	for {
		prev := lastRequestID.Load()
		if us <= prev {
			us = prev + 1
		}
		if lastRequestID.CompareAndSwap(prev, us) {
			break
		}
	}
	return fmt.Sprintf("%d.%06d", us/1_000_000, us%1_000_000)
}

// Command is a single named registry command. Attributes are raw XML
// fragments that the caller has already escaped; each one becomes its own
// ATTRIBUTES block.
type Command struct {
	Name       string
	ID         string
	Attributes []string
	Signature  string
}

// NewCommand builds an unsigned command with a fresh request id.
func NewCommand(name string, attributes ...string) (*Command, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("dapi: command name is required")
	}
	if len(attributes) == 0 {
		attributes = []string{""}
	}
	return &Command{
		Name:       name,
		ID:         NextRequestID(time.Now()),
		Attributes: attributes,
	}, nil
}

// Text returns the canonical command text, including the trailing line
// terminator. The detached signature is computed over exactly these bytes.
func (c *Command) Text() string {
	var b strings.Builder
	b.WriteString(`<COMMAND TODO="`)
	b.WriteString(escape(c.Name))
	b.WriteString(`"><ID>`)
	b.WriteString(c.ID)
	b.WriteString(`</ID>`)
	for _, attrs := range c.Attributes {
		b.WriteString(`<ATTRIBUTES>`)
		b.WriteString(attrs)
		b.WriteString(`</ATTRIBUTES>`)
	}
	b.WriteString("</COMMAND>\n")
	return b.String()
}

// Sign attaches a detached signature produced by signer.
func (c *Command) Sign(signer Signer) error {
	sig, err := signer.Sign([]byte(c.Text()))
	if err != nil {
		return err
	}
	c.Signature = sig
	return nil
}

// Envelope is the full DAPI request document: credentials plus one or more
// signed commands.
type Envelope struct {
	Username string
	Password string
	Commands []*Command
}

// Marshal serialises the envelope into the wire document.
func (e *Envelope) Marshal() []byte {
	var b strings.Builder
	b.WriteString("<DAPI><USERNAME>")
	b.WriteString(escape(e.Username))
	b.WriteString("</USERNAME><PASSWORD>")
	b.WriteString(escape(e.Password))
	b.WriteString("</PASSWORD>\n")
	for _, c := range e.Commands {
		b.WriteString(c.Text())
		b.WriteString("<SIGNATURE>")
		b.WriteString(c.Signature)
		b.WriteString("</SIGNATURE>\n")
	}
	b.WriteString("</DAPI>\n")
	return []byte(b.String())
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
