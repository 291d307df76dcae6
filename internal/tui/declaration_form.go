package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/services"

	"github.com/charmbracelet/huh"
)

// CaptchaForm shows a declaration request and asks for the captcha code the
// owner received. The request id is taken from the declaration when present.
func CaptchaForm(decl *services.Declaration, reply services.DeclarationReply) (services.DeclarationReply, error) {
	requestID := ""
	if reply.RequestID != 0 {
		requestID = fmt.Sprint(reply.RequestID)
	} else if id, ok := DeclarationRequestID(decl); ok {
		requestID = id
	}

	if reply.Hash == "" && decl != nil {
		reply.Hash = decl.Fields["DECL_REQ.HASH"]
	}

	summary := huh.NewNote().
		Title("Declaration request").
		Description(FormatDeclaration(decl))

	idField := huh.NewInput().
		Title("Request id").
		Value(&requestID).
		Validate(func(s string) error {
			_, err := services.ParseRequestID(strings.TrimSpace(s))
			return err
		})

	captchaField := huh.NewInput().
		Title("Captcha code").
		Value(&reply.Captcha).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("captcha code is required")
			}
			return nil
		})

	if err := runForm(huh.NewGroup(summary, idField, captchaField)); err != nil {
		return reply, err
	}

	id, err := services.ParseRequestID(strings.TrimSpace(requestID))
	if err != nil {
		return reply, err
	}
	reply.RequestID = id
	reply.Captcha = strings.TrimSpace(reply.Captcha)
	return reply, nil
}

// DeclarationRequestID returns the request id carried by a declaration
// reply, if any.
func DeclarationRequestID(decl *services.Declaration) (string, bool) {
	if decl == nil {
		return "", false
	}
	for _, key := range []string{"DECL_REQ.ID", "ID"} {
		if v, ok := decl.Fields[key]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// FormatDeclaration renders a declaration as "key: value" lines, message
// first, keys sorted.
func FormatDeclaration(decl *services.Declaration) string {
	if decl == nil {
		return ""
	}
	var b strings.Builder
	if decl.Message != "" {
		b.WriteString(decl.Message)
		b.WriteString("\n")
	}
	names := make([]string, 0, len(decl.Fields))
	for k := range decl.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&b, "%s: %s\n", k, decl.Fields[k])
	}
	return strings.TrimRight(b.String(), "\n")
}
