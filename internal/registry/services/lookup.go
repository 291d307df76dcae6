package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"nathanbeddoewebdev/hureg/internal/registry/dapi"
	"nathanbeddoewebdev/hureg/internal/registry/domain"
)

// DomainInfo returns the registry record for name. With cached set, a
// previously fetched record is returned without a round trip.
func (s *Service) DomainInfo(ctx context.Context, name string, cached bool) (domain.DomainRecord, error) {
	name, err := ValidateDomainName(name)
	if err != nil {
		return nil, err
	}

	if cached {
		if rec, ok := s.cache.Get(name); ok {
			return rec, nil
		}
	}

	res, err := s.engine.Execute(ctx, CmdLookup, dapi.Fragment(filterClause(domain.FieldName, name)), name)
	if err != nil {
		return nil, err
	}

	rec, ok := res.Record("DOMAIN")
	if !ok {
		// An empty lookup carries only the signature acknowledgement.
		if msg, ok := res.Message(); ok && strings.TrimSpace(msg) == dapi.AckSignatureOK {
			return nil, domain.DomainNotFound(name)
		}
		return nil, domain.ResponseError("unable to get domain info", name, 0)
	}

	s.cache.Put(name, rec)
	return rec, nil
}

// CheckDomainAvailability reports whether name is free. Only a not-found
// lookup counts as available; every other failure is returned.
func (s *Service) CheckDomainAvailability(ctx context.Context, name string, cached bool) (bool, error) {
	_, err := s.DomainInfo(ctx, name, cached)
	if err == nil {
		return false, nil
	}
	if isNotFound(err) {
		return true, nil
	}
	return false, err
}

// DomainState returns the trimmed state code of name.
func (s *Service) DomainState(ctx context.Context, name string, cached bool) (string, error) {
	rec, err := s.DomainInfo(ctx, name, cached)
	if err != nil {
		return "", err
	}
	return rec.State(), nil
}

// IsDomainOurs reports whether registrarID is the registrar of record.
func (s *Service) IsDomainOurs(ctx context.Context, name, registrarID string, cached bool) (bool, error) {
	rec, err := s.DomainInfo(ctx, name, cached)
	if err != nil {
		return false, err
	}
	return rec.RegistrarID() == strings.TrimSpace(registrarID), nil
}

var regDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006.01.02. 15:04:05",
	"2006.01.02.",
	"2006.01.02",
}

// ExpirationTime returns when the current registration period of name ends:
// two years after the registration date, then yearly.
func (s *Service) ExpirationTime(ctx context.Context, name string, cached bool) (time.Time, error) {
	rec, err := s.DomainInfo(ctx, name, cached)
	if err != nil {
		return time.Time{}, err
	}

	raw := rec.Value(domain.FieldRegDate)
	if raw == "" {
		return time.Time{}, domain.RequestError("domain has not been fully registered yet", name, nil)
	}
	t, err := parseRegDate(raw)
	if err != nil {
		return time.Time{}, domain.RequestError("invalid registration date", name, err)
	}

	now := s.now()
	for year := 0; t.Before(now); year++ {
		if year == 0 {
			t = t.AddDate(2, 0, 0)
		} else {
			t = t.AddDate(1, 0, 0)
		}
	}
	return t, nil
}

func parseRegDate(raw string) (time.Time, error) {
	for _, layout := range regDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// SearchDomains runs a conjunctive exact-match search, one clause per
// attribute, and caches every returned domain record under its name.
func (s *Service) SearchDomains(ctx context.Context, params map[string]string) ([]domain.DomainRecord, error) {
	if len(params) == 0 {
		return nil, domain.InvalidArgument("at least one search filter is required", "")
	}

	attrs := make([]string, 0, len(params))
	for attr := range params {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	var payload strings.Builder
	for _, attr := range attrs {
		payload.WriteString(dapi.Fragment(filterClause(attr, params[attr])))
	}

	nodes, err := s.engine.ExecuteMulti(ctx, CmdLookup, payload.String(), "")
	if err != nil {
		return nil, err
	}

	var records []domain.DomainRecord
	for _, node := range nodes {
		status, ok := node.Status()
		if !ok {
			return nil, domain.RequestError("unable to read xml response", "", nil)
		}
		rows := node.Rows()
		if status != 0 {
			msg := ""
			if len(rows) > 0 {
				msg, _ = rows[0].Message()
			}
			return nil, domain.ResponseError(dapi.NormalizeMessage(msg), "", status)
		}
		for _, row := range rows {
			rec, ok := row.Record("DOMAIN")
			if !ok {
				continue
			}
			if name, err := ValidateDomainName(rec.Name()); err == nil {
				s.cache.Put(name, rec)
			}
			records = append(records, rec)
		}
	}

	s.logger.Debug("domain search", slog.Int("filters", len(attrs)), slog.Int("results", len(records)))
	return records, nil
}
