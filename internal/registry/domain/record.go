package domain

import (
	"maps"
	"sort"
	"strings"
)

// Field names the client interprets inside a DomainRecord. All other fields
// returned by the registry are carried through untouched.
const (
	FieldName        = "domain_name"
	FieldObjectID    = "domain_hun_id"
	FieldState       = "domain_state_id"
	FieldRegistrarID = "domain_mnt_org_id"
	FieldPrimaryNS   = "domain_pri_ns"
	FieldSecondaryNS = "domain_sec_ns"
	FieldRegDate     = "domain_reg_date"
	FieldOwnerID     = "domain_owner_org_id"
)

// DomainRecord is the attribute set returned by a registry domain lookup,
// keyed by the registry's field name.
type DomainRecord map[string]string

// Get returns the raw value of field and whether it was present.
func (r DomainRecord) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// Value returns the whitespace-trimmed value of field, or "" when absent.
func (r DomainRecord) Value(field string) string {
	return strings.TrimSpace(r[field])
}

// Name returns the domain name stored in the record.
func (r DomainRecord) Name() string { return r.Value(FieldName) }

// ObjectID returns the registry's internal object id for the domain.
func (r DomainRecord) ObjectID() string { return r.Value(FieldObjectID) }

// State returns the trimmed state code.
func (r DomainRecord) State() string { return r.Value(FieldState) }

// RegistrarID returns the registrar-of-record id.
func (r DomainRecord) RegistrarID() string { return r.Value(FieldRegistrarID) }

// OwnerID returns the owner organisation id.
func (r DomainRecord) OwnerID() string { return r.Value(FieldOwnerID) }

// Clone returns an independent copy of the record.
func (r DomainRecord) Clone() DomainRecord {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Fields returns the record's field names in sorted order.
func (r DomainRecord) Fields() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
