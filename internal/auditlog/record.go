package auditlog

import (
	"strings"
	"time"

	"nathanbeddoewebdev/hureg/internal/registry/domain"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Resource types recorded by registry commands.
const (
	ResourceDomain  = "domain"
	ResourceContact = "contact"
)

// AuditEntry represents a persisted audit event.
type AuditEntry struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Command      string    `json:"command"`
	Args         string    `json:"args,omitempty"`
	Environment  string    `json:"environment,omitempty"`
	ResourceType string    `json:"resource_type,omitempty"`
	ResourceName string    `json:"resource_name,omitempty"`
	Outcome      string    `json:"outcome"`
	Detail       string    `json:"detail,omitempty"`
	Status       int       `json:"status,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
}

// NewEntry builds the audit entry for a finished command. Sensitive flag
// values in args are redacted; a registry status code carried by err is
// kept alongside the message.
func NewEntry(command string, args []string, meta Metadata, started time.Time, err error) *AuditEntry {
	entry := &AuditEntry{
		Timestamp:    started.UTC(),
		Command:      command,
		Args:         strings.Join(SanitizeArgs(args), " "),
		Environment:  meta.Environment,
		ResourceType: meta.ResourceType,
		ResourceName: meta.ResourceName,
		Outcome:      OutcomeSuccess,
		DurationMs:   time.Since(started).Milliseconds(),
	}
	if err != nil {
		entry.Outcome = OutcomeError
		entry.Detail = err.Error()
		entry.Status = domain.StatusCode(err)
	}
	return entry
}
