package modeladapter

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrConfiguration matches every *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("configuration error")
	// ErrRemoteCall matches every *RemoteCallError via errors.Is.
	ErrRemoteCall = errors.New("remote call error")
)

// ConfigurationError reports an invalid or missing setting detected while
// constructing a client, before any request is attempted.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) report true.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Code classifies why a remote call failed.
type Code string

const (
	CodeAuth        Code = "auth"
	CodeRateLimited Code = "rate_limited"
	CodeNetwork     Code = "network"
	CodeBadRequest  Code = "bad_request"
	CodeServer      Code = "server"
	CodeDecode      Code = "decode"
	CodeCanceled    Code = "canceled"
)

// RemoteCallError is returned for every failed round trip to a provider.
// Retry policy is left to the caller; Retryable and RetryAfter are hints.
type RemoteCallError struct {
	Provider   string
	Code       Code
	StatusCode int           // HTTP status, 0 when no response was received.
	RetryAfter time.Duration // Parsed Retry-After header, 0 when absent.
	Body       string        // Response body, if any.
	Err        error         // Underlying transport or decode error, if any.
}

func (e *RemoteCallError) Error() string {
	var b strings.Builder

	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}

	b.WriteString("remote call failed (")
	b.WriteString(string(e.Code))
	if e.StatusCode != 0 {
		b.WriteString(", status ")
		b.WriteString(strconv.Itoa(e.StatusCode))
	}
	if e.RetryAfter > 0 {
		b.WriteString(", retry after ")
		b.WriteString(e.RetryAfter.String())
	}
	b.WriteString(")")

	switch {
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.Body != "":
		b.WriteString(": ")
		b.WriteString(e.Body)
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *RemoteCallError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRemoteCall) report true.
func (e *RemoteCallError) Is(target error) bool { return target == ErrRemoteCall }

// Retryable reports whether the same request may succeed if sent again later.
func (e *RemoteCallError) Retryable() bool {
	switch e.Code {
	case CodeRateLimited, CodeNetwork, CodeServer:
		return true
	}
	return false
}

// codeForStatus maps a non-2xx HTTP status to a Code.
func codeForStatus(status int) Code {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeAuth
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status >= 500:
		return CodeServer
	default:
		return CodeBadRequest
	}
}

// ParseRetryAfter parses the Retry-After header value as either seconds (integer)
// or an HTTP-date (RFC 7231). Returns zero if unparseable or if the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		return max(time.Until(t), 0)
	}
	return 0
}
