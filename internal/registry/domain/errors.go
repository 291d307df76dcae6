package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the kind of a registry failure. Every error
// returned by the registry packages wraps exactly one of these so callers
// can branch with errors.Is without inspecting messages.
//
//	if errors.Is(err, domain.ErrDomainNotFound) { ... }
var (
	// ErrInvalidArgument indicates a caller-supplied value failed local
	// validation before any request was sent.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDomainNotFound indicates the registry has no record for the domain.
	ErrDomainNotFound = errors.New("domain not found")

	// ErrRequest indicates a transport failure, an unreadable response or a
	// locally detected precondition violation.
	ErrRequest = errors.New("request error")

	// ErrResponse indicates the registry reported a non-zero status or
	// returned a well-formed document of an unexpected shape.
	ErrResponse = errors.New("response error")

	// ErrInternal indicates the signing capability could not be initialised.
	ErrInternal = errors.New("internal error")
)

// Error is the concrete error type returned by the registry client.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error

	// Message is a human-readable description. For registry-reported
	// failures it is the registry's own message text.
	Message string

	// Domain is the domain name the failure relates to, if any.
	Domain string

	// Code is the registry status code for ErrResponse failures, or the
	// underlying error code for transport failures. Zero when not applicable.
	Code int

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Domain != "" {
		msg = fmt.Sprintf("%s (domain %s)", msg, e.Domain)
	}
	if e.Code != 0 {
		msg = fmt.Sprintf("%s [status %d]", msg, e.Code)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// InvalidArgument builds an ErrInvalidArgument failure.
func InvalidArgument(message, domainName string) *Error {
	return &Error{Kind: ErrInvalidArgument, Message: message, Domain: domainName}
}

// DomainNotFound builds an ErrDomainNotFound failure. Its text is the kind's.
func DomainNotFound(domainName string) *Error {
	return &Error{Kind: ErrDomainNotFound, Domain: domainName}
}

// RequestError builds an ErrRequest failure wrapping cause, which may be nil.
func RequestError(message, domainName string, cause error) *Error {
	return &Error{Kind: ErrRequest, Message: message, Domain: domainName, Err: cause}
}

// ResponseError builds an ErrResponse failure carrying the registry status.
func ResponseError(message, domainName string, code int) *Error {
	return &Error{Kind: ErrResponse, Message: message, Domain: domainName, Code: code}
}

// InternalError builds an ErrInternal failure wrapping cause.
func InternalError(message string, cause error) *Error {
	return &Error{Kind: ErrInternal, Message: message, Err: cause}
}

// StatusCode returns the registry status code carried by err, or zero when
// err is not a registry response failure.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && errors.Is(e.Kind, ErrResponse) {
		return e.Code
	}
	return 0
}
