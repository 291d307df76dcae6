package services

import (
	"github.com/beevik/etree"

	"nathanbeddoewebdev/hureg/internal/registry/dapi"
)

// filterClause is an exact-match lookup filter on a single attribute.
func filterClause(attr, value string) *etree.Element {
	obj := etree.NewElement("OBJ")
	obj.AddChild(dapi.TextElement("VALUE", value))
	obj.AddChild(dapi.TextElement("ATTRNAME", attr))
	obj.AddChild(dapi.TextElement("OPERATOR", "="))
	return obj
}

// attributeChange sets attr of object id to value.
func attributeChange(objectID, attr, value string) string {
	obj := etree.NewElement("OBJ")
	obj.AddChild(dapi.TextElement("OBJID", objectID))
	obj.AddChild(dapi.TextElement("ATTRNAME", attr))
	obj.AddChild(dapi.TextElement("VALUE", value))
	return dapi.Fragment(obj)
}

func stateChange(objectID, state string) string {
	obj := etree.NewElement("OBJ")
	obj.AddChild(dapi.TextElement("OBJID", objectID))
	obj.AddChild(dapi.TextElement("VALUE", state))
	return dapi.Fragment(obj)
}

func registration(name, nameserver string, c RegistrationContacts) string {
	d := etree.NewElement("DOMAIN")
	d.CreateAttr("DSTATE", "BEJEGYZES")
	d.CreateAttr("RIGHT", "NON_PRI")
	d.CreateAttr("OWNER", "nic-hdl")
	d.CreateAttr("ADMIN_C", "nic-hdl")
	d.CreateAttr("TECH_C", "nic-hdl")
	d.CreateAttr("ZONE_C", "nic-hdl")
	d.CreateAttr("ELECTRONIC", "yes")

	d.AddChild(dapi.TextElement("DNAME", name))
	d.AddChild(dapi.TextElement("DNS", nameserver))
	d.CreateElement("ORG").AddChild(dapi.TextElement("IDENT", c.Owner))
	for _, p := range []struct{ role, ident string }{
		{"admin-c", c.Admin},
		{"tech-c", c.Tech},
		{"zone-c", c.Zone},
	} {
		person := d.CreateElement("PERSON")
		person.CreateAttr("ROLE", p.role)
		person.AddChild(dapi.TextElement("IDENT", p.ident))
	}
	return dapi.Fragment(d)
}
