package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/contact"
	"nathanbeddoewebdev/hureg/internal/registry/domain"
)

var numericID = regexp.MustCompile(`^\d+$`)

// CreateOwnerContactID submits an owner contact and returns its new id.
func (s *Service) CreateOwnerContactID(ctx context.Context, rec *contact.Record) (string, error) {
	return s.createContact(ctx, contact.Owner, rec)
}

// CreateTechnicalContactID submits a technical contact and returns its new
// id.
func (s *Service) CreateTechnicalContactID(ctx context.Context, rec *contact.Record) (string, error) {
	return s.createContact(ctx, contact.Technical, rec)
}

func (s *Service) createContact(ctx context.Context, schema *contact.Schema, rec *contact.Record) (string, error) {
	if rec == nil || rec.Schema() != schema {
		return "", domain.InvalidArgument("invalid contact model: expected "+schema.Kind+" contact", "")
	}
	if err := rec.Validate(); err != nil {
		return "", err
	}

	payload, err := rec.Marshal()
	if err != nil {
		return "", domain.InvalidArgument(err.Error(), "")
	}

	res, err := s.engine.Execute(ctx, schema.Command, payload, "")
	if err != nil {
		return "", err
	}

	msg, _ := res.Message()
	id := strings.TrimSpace(msg)
	if !numericID.MatchString(id) {
		return "", domain.ResponseError("unable to create "+schema.Kind+" contact", "", 0)
	}

	s.logger.Info("contact created", slog.String("kind", schema.Kind), slog.String("id", id))
	return id, nil
}
