package services

import (
	"regexp"
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/domain"
)

// A single label under .hu or .co.hu.
var domainNamePattern = regexp.MustCompile(`^[^.]+(\.co)?\.hu$`)

// ValidateDomainName normalises name and checks it is a registrable .hu or
// .co.hu name. It returns the normalised name.
func ValidateDomainName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" || strings.ContainsAny(normalized, " \t\r\n/") || !domainNamePattern.MatchString(normalized) {
		return "", domain.InvalidArgument("invalid domain name", name)
	}
	return normalized, nil
}
