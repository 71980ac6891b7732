package gora

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for the user-facing flows.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotConfigured
	KindInvalidCredential
	KindRateLimited
	KindTransport
	KindMalformed
	KindNoData
	KindDetailFetch
	KindReservationURLMissing
)

var kindNames = map[Kind]string{
	KindUnknown:               "unknown",
	KindNotConfigured:         "not_configured",
	KindInvalidCredential:     "invalid_credential",
	KindRateLimited:           "rate_limited",
	KindTransport:             "transport",
	KindMalformed:             "malformed_response",
	KindNoData:                "no_data",
	KindDetailFetch:           "detail_fetch_failed",
	KindReservationURLMissing: "reservation_url_missing",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText lets a Kind appear by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is a classified API or flow failure.
type Error struct {
	Kind        Kind
	Code        string // provider "error" field
	Description string // provider "error_description" or local detail
	Status      int    // HTTP status, 0 when no response was received
	Err         error
}

// ErrNotConfigured is returned before any request when the credential is missing
// or still the placeholder.
var ErrNotConfigured = &Error{Kind: KindNotConfigured, Description: "application id is not configured"}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("gora: ")
	b.WriteString(e.Kind.String())
	if e.Code != "" {
		b.WriteString(": " + e.Code)
	}
	if e.Description != "" {
		b.WriteString(": " + e.Description)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same Kind (and Code, when the target sets one).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// KindOf extracts the Kind from err. Context cancellation and deadlines count
// as transport failures.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindTransport
	}
	return KindUnknown
}

type errorRule struct {
	match string
	kind  Kind
}

// errorRules maps provider error codes (matched as substrings of the code or
// description) to kinds. First match wins.
var errorRules = []errorRule{
	{"wrong_parameter", KindInvalidCredential},
	{"too_many_requests", KindRateLimited},
	{"not_found", KindNoData},
	{"system_error", KindTransport},
	{"service_unavailable", KindTransport},
}

// Classify maps a provider error envelope to a Kind. Unlisted codes are treated
// as transport failures.
func Classify(code, description string) Kind {
	code = strings.ToLower(code)
	description = strings.ToLower(description)
	for _, rule := range errorRules {
		if strings.Contains(code, rule.match) || strings.Contains(description, rule.match) {
			return rule.kind
		}
	}
	return KindTransport
}
