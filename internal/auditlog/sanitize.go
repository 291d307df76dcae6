package auditlog

import "strings"

const redacted = "<redacted>"

var sensitiveFlags = map[string]struct{}{
	"--password":   {},
	"--passphrase": {},
	"--proxy-auth": {},
}

// SanitizeArgs redacts sensitive flag values for audit storage. Both
// "--flag value" and "--flag=value" forms are handled.
func SanitizeArgs(args []string) []string {
	sanitized := make([]string, 0, len(args))
	redactNext := false

	for _, arg := range args {
		switch {
		case redactNext:
			sanitized = append(sanitized, redacted)
			redactNext = false
		case isSensitive(arg):
			sanitized = append(sanitized, arg)
			redactNext = true
		default:
			if key, _, ok := strings.Cut(arg, "="); ok && isSensitive(key) {
				sanitized = append(sanitized, key+"="+redacted)
				continue
			}
			sanitized = append(sanitized, arg)
		}
	}

	return sanitized
}

func isSensitive(flag string) bool {
	_, ok := sensitiveFlags[flag]
	return ok
}
