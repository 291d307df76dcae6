package contact

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/domain"

	"github.com/asaskevich/govalidator"
	"github.com/beevik/etree"
)

// Record is a contact model instance. Values are keyed by wire tag; every
// schema field is present, empty when unset.
type Record struct {
	schema *Schema
	values map[string]string
}

// New builds a record of schema from data. Keys may be wire tags or
// semantic names; unknown keys are ignored.
func New(schema *Schema, data map[string]string) *Record {
	r := &Record{schema: schema, values: make(map[string]string, len(schema.Fields))}
	for _, f := range schema.Fields {
		r.values[f.Tag] = ""
	}
	for k, v := range data {
		r.Set(k, v)
	}
	return r
}

// Schema returns the record's model.
func (r *Record) Schema() *Schema { return r.schema }

// Get returns the value of key (tag or semantic name).
func (r *Record) Get(key string) string {
	f, ok := r.schema.Resolve(key)
	if !ok {
		return ""
	}
	return r.values[f.Tag]
}

// Set assigns key (tag or semantic name). It reports false for keys the
// schema does not know.
func (r *Record) Set(key, value string) bool {
	f, ok := r.schema.Resolve(key)
	if !ok {
		return false
	}
	r.values[f.Tag] = value
	return true
}

// Values returns the record keyed by semantic name.
func (r *Record) Values() map[string]string {
	out := make(map[string]string, len(r.schema.Fields))
	for _, f := range r.schema.Fields {
		out[f.Name] = r.values[f.Tag]
	}
	return out
}

// Validate checks the record before submission.
func (r *Record) Validate() error {
	email := strings.TrimSpace(r.Get("email"))
	if email == "" || !govalidator.IsEmail(email) {
		return domain.InvalidArgument("invalid contact model: invalid email", "")
	}
	return nil
}

// Element builds the XML element for the record, one child per schema
// field in wire order. Values are escaped on serialisation.
func (r *Record) Element() *etree.Element {
	root := etree.NewElement(r.schema.Root)
	for _, f := range r.schema.Fields {
		child := root.CreateElement(f.Tag)
		child.SetText(r.values[f.Tag])
	}
	return root
}

// Marshal serialises the record as a registry attribute payload.
func (r *Record) Marshal() (string, error) {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = true
	doc.SetRoot(r.Element())
	s, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("marshalling %s contact: %w", r.schema.Kind, err)
	}
	return s, nil
}

// Unmarshal reads a record of schema from el. Child elements not in the
// schema are ignored.
func Unmarshal(schema *Schema, el *etree.Element) (*Record, error) {
	if el == nil {
		return nil, fmt.Errorf("unmarshalling %s contact: no element", schema.Kind)
	}
	if el.Tag != schema.Root {
		return nil, fmt.Errorf("unmarshalling %s contact: unexpected element %q", schema.Kind, el.Tag)
	}
	r := New(schema, nil)
	for _, child := range el.ChildElements() {
		r.Set(child.Tag, child.Text())
	}
	return r, nil
}

// Parse reads a record of schema from an XML document.
func Parse(schema *Schema, data []byte) (*Record, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing %s contact: %w", schema.Kind, err)
	}
	return Unmarshal(schema, doc.Root())
}
