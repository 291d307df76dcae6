package services

import (
	"context"
	"encoding/base64"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"nathanbeddoewebdev/hureg/internal/registry/dapi"
	"nathanbeddoewebdev/hureg/internal/registry/domain"
)

// Document is a file attached to a domain as a registry remark.
type Document struct {
	Subject  string
	FilePath string
	Text     string
}

// UploadDocument attaches doc to name.
func (s *Service) UploadDocument(ctx context.Context, name string, doc Document, cached bool) error {
	rec, err := s.DomainInfo(ctx, name, cached)
	if err != nil {
		return err
	}
	name, _ = ValidateDomainName(name)

	content, err := s.readFile(doc.FilePath)
	if err != nil {
		return &domain.Error{Kind: domain.ErrInvalidArgument, Message: "cannot read document", Domain: name, Err: err}
	}

	remark := etree.NewElement("REMARK")
	remark.AddChild(dapi.TextElement("OBJID", rec.ObjectID()))
	remark.AddChild(dapi.TextElement("SUBJECT", doc.Subject))
	remark.AddChild(dapi.TextElement("TEXT", doc.Text))
	remark.AddChild(dapi.TextElement("FILE", base64.StdEncoding.EncodeToString(content)))
	remark.AddChild(dapi.TextElement("FILETYPE", FileType(doc.FilePath)))

	if err := s.verify(ctx, CmdDocument, []string{dapi.Fragment(remark)}, name, ""); err != nil {
		return err
	}
	s.logger.Info("document uploaded", slog.String("domain", name), slog.Int("bytes", len(content)))
	return nil
}

// FileType derives the FILETYPE tag of path: its extension without the dot,
// or the base name when there is none.
func FileType(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return strings.TrimPrefix(ext, ".")
	}
	return base
}
