package langbly

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Kind identifies the failure class of an API call. Callers branch on it to
// decide what to do next: fix credentials, slow down, fix the input, or try
// again later.
type Kind string

const (
	// KindAuthentication means the API key was rejected (401/403).
	KindAuthentication Kind = "authentication"

	// KindRateLimit means the quota was exceeded (429). RetryAfter carries
	// the server-requested delay when the response included one.
	KindRateLimit Kind = "rate_limit"

	// KindInvalidRequest means the input was rejected, either locally
	// before any network call or by the server (400/404/422).
	KindInvalidRequest Kind = "invalid_request"

	// KindServerError means the service failed remotely (5xx, or any
	// status outside the documented contract).
	KindServerError Kind = "server_error"

	// KindNetwork means the request never produced an HTTP response:
	// connection refused, DNS failure, or timeout.
	KindNetwork Kind = "network"

	// KindDecode means the service answered 2xx but the payload did not
	// match the documented shape. Retrying an identical request against a
	// non-conforming server will not help, so these are never retried.
	KindDecode Kind = "decode"
)

// Error is the single error type surfaced by the client. Every failure of
// every operation is an *Error; use errors.As or AsError to inspect it.
type Error struct {
	Kind       Kind
	StatusCode int // HTTP status, 0 when no response was received
	Message    string
	RetryAfter time.Duration // server-requested delay, rate limit only
	Cause      error         // underlying transport or parse error, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("langbly: ")
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// HTTPStatusCode returns the HTTP status associated with the error, or 0
// when the failure happened before any response arrived.
func (e *Error) HTTPStatusCode() int { return e.StatusCode }

// Retryable reports whether the failure is transient: a later identical
// attempt could plausibly succeed. Authentication, invalid-request and
// decode failures are deterministic and always return false.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindServerError, KindNetwork:
		return true
	default:
		return false
	}
}

// AsError unwraps err into *Error. All errors returned by Client operations
// satisfy it.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// classifyStatus maps a non-2xx response to a typed error. The body is only
// probed for the documented {"error":{"message":...}} envelope; anything
// else falls back to the raw body or the status text.
func classifyStatus(status int, header http.Header, body []byte) *Error {
	msg := errorMessage(status, body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: KindAuthentication, StatusCode: status, Message: msg}
	case status == http.StatusTooManyRequests:
		return &Error{
			Kind:       KindRateLimit,
			StatusCode: status,
			Message:    msg,
			RetryAfter: parseRetryAfter(header.Get("Retry-After")),
		}
	case status == http.StatusBadRequest ||
		status == http.StatusNotFound ||
		status == http.StatusUnprocessableEntity:
		return &Error{Kind: KindInvalidRequest, StatusCode: status, Message: msg}
	default:
		return &Error{Kind: KindServerError, StatusCode: status, Message: msg}
	}
}

const maxErrorBody = 512

func errorMessage(status int, body []byte) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		if len(text) > maxErrorBody {
			// Trim back to a rune boundary so the cut cannot leave a
			// broken UTF-8 sequence at the end.
			cut := maxErrorBody
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut]
		}
		return text
	}
	return http.StatusText(status)
}

// parseRetryAfter normalizes a Retry-After header value (delta-seconds or
// HTTP-date) to a duration. Absent, malformed or already-elapsed values
// yield 0, which callers treat as "no hint".
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func invalidRequestf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func decodeErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindDecode, Message: fmt.Sprintf(format, args...)}
}

func networkError(message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Cause: cause}
}
