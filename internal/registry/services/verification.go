package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"nathanbeddoewebdev/hureg/internal/registry/dapi"
)

// Declaration is the registry's reply to an ownership declaration request.
type Declaration struct {
	// Message is the registry message, whitespace-normalised.
	Message string

	// Fields flattens the reply: leaf elements by tag and attributes as
	// "TAG.ATTR".
	Fields map[string]string

	// XML is the raw ATTRIBUTES content.
	XML string
}

// DeclarationReply is the owner's answer to a declaration request.
type DeclarationReply struct {
	RequestID int64
	IP        string
	Captcha   string
	Hash      string
}

// GetVerificationData requests the captcha-protected ownership declaration
// for name.
func (s *Service) GetVerificationData(ctx context.Context, name string, cached bool) (*Declaration, error) {
	rec, err := s.DomainInfo(ctx, name, cached)
	if err != nil {
		return nil, err
	}
	name, _ = ValidateDomainName(name)

	req := etree.NewElement("DECL_REQ")
	req.CreateAttr("OWNER", rec.OwnerID())
	req.CreateElement("OBJ").AddChild(dapi.TextElement("VALUE", rec.ObjectID()))

	res, err := s.engine.Execute(ctx, CmdDeclRequest, dapi.Fragment(req), name)
	if err != nil {
		return nil, err
	}

	msg, _ := res.Message()
	decl := &Declaration{
		Message: dapi.NormalizeMessage(msg),
		Fields:  make(map[string]string),
		XML:     res.InnerXML(),
	}
	if res.Attributes != nil {
		for _, child := range res.Attributes.ChildElements() {
			if child.Tag != "MESSAGE" {
				flatten(child, decl.Fields)
			}
		}
	}
	return decl, nil
}

// SendVerificationData submits the owner's declaration. It reports whether
// the registry acknowledged it.
func (s *Service) SendVerificationData(ctx context.Context, reply DeclarationReply) (bool, error) {
	return s.declarationReply(ctx, CmdDeclSubmit, reply)
}

// TryCaptchaCode checks a declaration without submitting it.
func (s *Service) TryCaptchaCode(ctx context.Context, reply DeclarationReply) (bool, error) {
	return s.declarationReply(ctx, CmdDeclCheck, reply)
}

func (s *Service) declarationReply(ctx context.Context, command string, reply DeclarationReply) (bool, error) {
	el := etree.NewElement("DECL_REPLY")
	el.CreateAttr("ID", fmt.Sprintf("%010d", reply.RequestID))
	el.CreateAttr("IP", reply.IP)
	el.CreateAttr("CAPTCHA", reply.Captcha)
	el.CreateAttr("TIMESTAMP", s.now().Format("2006-01-02 15:04:05"))
	el.CreateAttr("HASH", reply.Hash)
	el.CreateAttr("COMMENT", "")

	ok, _, err := s.engine.VerifyBasic(ctx, command, []string{dapi.Fragment(el)}, "", "")
	return ok, err
}

func flatten(el *etree.Element, into map[string]string) {
	for _, a := range el.Attr {
		into[el.Tag+"."+a.Key] = a.Value
	}
	children := el.ChildElements()
	if len(children) == 0 {
		if text := el.Text(); text != "" || len(el.Attr) == 0 {
			into[el.Tag] = text
		}
		return
	}
	for _, child := range children {
		flatten(child, into)
	}
}

// ParseRequestID parses a declaration request id as shown by the registry,
// with or without zero padding.
func ParseRequestID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
