package declstore

import "time"

// Status values of a declaration record.
const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
)

// Record is an ownership declaration requested from the registry. It keeps
// what a later reply needs so the owner's answer can be checked and sent
// from another invocation.
type Record struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	// Domain is the domain the declaration was requested for.
	Domain string

	// RequestID is the registry's declaration request id.
	RequestID int64

	// Hash is the value the registry attached to the request.
	Hash string

	// Environment is the registry environment (live or test).
	Environment string

	// Status is StatusPending until the reply has been submitted.
	Status string

	CreatedAt time.Time
	UpdatedAt time.Time
}
