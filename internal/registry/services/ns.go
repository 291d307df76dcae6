package services

import (
	"context"
	"regexp"
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/domain"
)

// Entries are "host" or "host[ip]", separated by "|" or simply adjacent.
var nsEntry = regexp.MustCompile(`([^|\[\]]+)(\[([\d.]+)\])?`)

// SetNsRecord sets the primary nameserver of name.
func (s *Service) SetNsRecord(ctx context.Context, name, nameserver string, cached bool) error {
	nameserver = strings.TrimSpace(nameserver)
	if nameserver == "" {
		return domain.InvalidArgument("nameserver is required", name)
	}

	rec, err := s.DomainInfo(ctx, name, cached)
	if err != nil {
		return err
	}
	name, _ = ValidateDomainName(name)

	return s.verify(ctx, CmdAttributeChange, []string{attributeChange(rec.ObjectID(), domain.FieldPrimaryNS, nameserver)}, name, "")
}

// GetNsRecords returns the nameservers of name as a map from IP address to
// host name. Entries without an address are keyed by "".
func (s *Service) GetNsRecords(ctx context.Context, name string, cached bool) (map[string]string, error) {
	rec, err := s.DomainInfo(ctx, name, cached)
	if err != nil {
		return nil, err
	}

	var packed []string
	for _, field := range []string{domain.FieldPrimaryNS, domain.FieldSecondaryNS} {
		if v := rec.Value(field); v != "" {
			packed = append(packed, v)
		}
	}
	return ParseNSRecords(strings.Join(packed, "|")), nil
}

// ParseNSRecords decodes the registry's packed nameserver list, e.g.
// "ns1.example.hu[1.2.3.4]ns2.example.hu[5.6.7.8]", into a map from IP
// address to host name. A later entry for the same address wins.
func ParseNSRecords(packed string) map[string]string {
	records := make(map[string]string)
	for _, m := range nsEntry.FindAllStringSubmatch(packed, -1) {
		host := strings.TrimSpace(m[1])
		if host == "" {
			continue
		}
		records[m[3]] = host
	}
	return records
}
