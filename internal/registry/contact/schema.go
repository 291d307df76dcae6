// Package contact models the owner and technical contact records submitted
// to the registry.
//
// Each model is described by a Schema: an ordered, bidirectional table
// between registry wire tags and semantic field names. Records are
// marshalled to and from XML generically through that table.
package contact

// Field maps one registry wire tag to its semantic name.
type Field struct {
	Tag   string
	Name  string
	Label string
}

// Schema describes a contact model.
type Schema struct {
	// Kind is a short identifier ("owner", "tech").
	Kind string

	// Root is the XML element wrapping the fields.
	Root string

	// Command is the registry command that creates the contact.
	Command string

	// Fields lists the mapping in wire order.
	Fields []Field
}

// Owner is the domain owner (organisation or private person) contact.
var Owner = &Schema{
	Kind:    "owner",
	Root:    "ORG",
	Command: "tulajdonos_felvitel",
	Fields: []Field{
		{Tag: "NAME_HUN", Name: "localName", Label: "Name (Hungarian)"},
		{Tag: "NAME_ENG", Name: "englishName", Label: "Name (English)"},
		{Tag: "IDENT", Name: "identification", Label: "Identification"},
		{Tag: "COUNTRY", Name: "country", Label: "Country"},
		{Tag: "ZIPCODE", Name: "zip", Label: "Postal code"},
		{Tag: "CITY", Name: "city", Label: "City"},
		{Tag: "STREET", Name: "street", Label: "Street"},
		{Tag: "STREET_NUMBER", Name: "streetNumber", Label: "Street number"},
		{Tag: "E_MAIL", Name: "email", Label: "Email"},
		{Tag: "PHONE", Name: "phone", Label: "Phone"},
		{Tag: "FAX_NO", Name: "fax", Label: "Fax"},
	},
}

// Technical is the technical, administrative or zone contact person.
var Technical = &Schema{
	Kind:    "tech",
	Root:    "PERSON",
	Command: "szemely_felvitel",
	Fields: []Field{
		{Tag: "LAST_NAME", Name: "lastName", Label: "Last name"},
		{Tag: "FIRST_NAME", Name: "firstName", Label: "First name"},
		{Tag: "E_MAIL", Name: "email", Label: "Email"},
		{Tag: "COUNTRY", Name: "country", Label: "Country"},
		{Tag: "ZIPCODE", Name: "zip", Label: "Postal code"},
		{Tag: "CITY", Name: "city", Label: "City"},
		{Tag: "STREET", Name: "street", Label: "Street"},
		{Tag: "STREET_NUMBER", Name: "streetNumber", Label: "Street number"},
		{Tag: "PHONE", Name: "phone", Label: "Phone"},
		{Tag: "FAX_NO", Name: "fax", Label: "Fax"},
	},
}

// Schemas lists every known contact model.
func Schemas() []*Schema {
	return []*Schema{Owner, Technical}
}

// Lookup returns the schema with the given kind.
func Lookup(kind string) (*Schema, bool) {
	for _, s := range Schemas() {
		if s.Kind == kind {
			return s, true
		}
	}
	return nil, false
}

// Resolve maps key, either a wire tag or a semantic name, to its field.
func (s *Schema) Resolve(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Tag == key || f.Name == key {
			return f, true
		}
	}
	return Field{}, false
}
