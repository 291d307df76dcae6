package dapi

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/domain"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// The registry prefixes every reply with this fixed prolog.
const (
	replyDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`
	replyDoctype     = `<!DOCTYPE DAPIR SYSTEM "https://hureg.nic.hu/reply.dtd">`
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Result is the ATTRIBUTES sub-tree of a successful command.
type Result struct {
	Attributes *etree.Element
}

// Message returns the text of MESSAGE/text and whether it was present.
// The text is returned untrimmed.
func (r *Result) Message() (string, bool) {
	if r == nil || r.Attributes == nil {
		return "", false
	}
	msg := r.Attributes.SelectElement("MESSAGE")
	if msg == nil {
		return "", false
	}
	text := msg.SelectElement("text")
	if text == nil {
		return "", false
	}
	return text.Text(), true
}

// Record converts the first child element named tag into a DomainRecord.
func (r *Result) Record(tag string) (domain.DomainRecord, bool) {
	if r == nil || r.Attributes == nil {
		return nil, false
	}
	el := r.Attributes.SelectElement(tag)
	if el == nil {
		return nil, false
	}
	return recordFromElement(el), true
}

// InnerXML serialises the children of the ATTRIBUTES element.
func (r *Result) InnerXML() string {
	if r == nil || r.Attributes == nil {
		return ""
	}
	return innerXML(r.Attributes)
}

// CommandNode is a COMMAND element of a multi-row response, left for the
// caller to interpret.
type CommandNode struct {
	Element *etree.Element
}

// Status returns the node's STATUS attribute as an integer. ok is false when
// the attribute is missing or not numeric.
func (n *CommandNode) Status() (status int, ok bool) {
	attr := n.Element.SelectAttr("STATUS")
	if attr == nil {
		return 0, false
	}
	status, err := strconv.Atoi(strings.TrimSpace(attr.Value))
	if err != nil {
		return 0, false
	}
	return status, true
}

// Rows returns one Result per ATTRIBUTES child of the command.
func (n *CommandNode) Rows() []*Result {
	elements := n.Element.SelectElements("ATTRIBUTES")
	rows := make([]*Result, 0, len(elements))
	for _, el := range elements {
		rows = append(rows, &Result{Attributes: el})
	}
	return rows
}

// Classify interprets raw as a single-command reply. A zero STATUS yields the
// command's ATTRIBUTES; a non-zero STATUS yields an ErrResponse failure with
// the registry message; anything else yields an ErrRequest failure.
func Classify(raw []byte, domainName string) (*Result, error) {
	res, _, err := classify(raw, domainName, false)
	return res, err
}

// ClassifyMulti interprets raw as a multi-row reply and returns every COMMAND
// node as-is. Documents without any COMMAND node are classified as Classify
// would.
func ClassifyMulti(raw []byte, domainName string) ([]*CommandNode, error) {
	_, nodes, err := classify(raw, domainName, true)
	return nodes, err
}

func classify(raw []byte, domainName string, multi bool) (*Result, []*CommandNode, error) {
	doc, err := parseReply(raw)
	if err != nil {
		return nil, nil, domain.RequestError("unable to read xml response", domainName, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, nil, domain.RequestError("unable to read xml response", domainName, nil)
	}

	commands := root.SelectElements("COMMAND")
	if multi && len(commands) > 0 {
		nodes := make([]*CommandNode, 0, len(commands))
		for _, c := range commands {
			nodes = append(nodes, &CommandNode{Element: c})
		}
		return nil, nodes, nil
	}

	if len(commands) == 0 {
		return nil, nil, domain.RequestError("unable to read xml response", domainName, nil)
	}

	command := commands[0]
	statusAttr := command.SelectAttr("STATUS")
	if statusAttr == nil {
		return nil, nil, domain.RequestError("unable to read xml response", domainName, nil)
	}
	status, err := strconv.Atoi(strings.TrimSpace(statusAttr.Value))
	if err != nil {
		return nil, nil, domain.RequestError("unable to read xml response: invalid status", domainName, err)
	}

	attributes := command.SelectElement("ATTRIBUTES")
	if status == 0 {
		if attributes == nil {
			attributes = etree.NewElement("ATTRIBUTES")
		}
		return &Result{Attributes: attributes}, nil, nil
	}

	msg, _ := (&Result{Attributes: attributes}).Message()
	return nil, nil, domain.ResponseError(NormalizeMessage(msg), domainName, status)
}

// NormalizeMessage collapses whitespace runs into single spaces and trims.
func NormalizeMessage(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func parseReply(raw []byte) (*etree.Document, error) {
	raw = bytes.Replace(raw, []byte(replyDeclaration), nil, 1)
	raw = bytes.Replace(raw, []byte(replyDoctype), nil, 1)

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, err
	}
	return doc, nil
}

func recordFromElement(el *etree.Element) domain.DomainRecord {
	children := el.ChildElements()
	rec := make(domain.DomainRecord, len(children))
	for _, child := range children {
		rec[child.Tag] = child.Text()
	}
	return rec
}

func innerXML(el *etree.Element) string {
	cp := el.Copy()
	doc := etree.NewDocument()
	doc.Child = cp.Child
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}
