package dapi

import "github.com/beevik/etree"

// Fragment serialises elements, in order, into a raw attribute payload.
// Text and attribute values are escaped by the serialiser and empty
// elements keep explicit end tags.
func Fragment(elements ...*etree.Element) string {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = true
	for _, el := range elements {
		if el != nil {
			doc.AddChild(el)
		}
	}
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// TextElement returns <tag>text</tag>.
func TextElement(tag, text string) *etree.Element {
	el := etree.NewElement(tag)
	el.SetText(text)
	return el
}
