// Package invoke wraps a single underlying REST call with a bounded
// exponential-backoff retry policy driven by error classification.
package invoke

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

const (
	// ClassTerminal covers everything that retrying will not fix,
	// including 4xx responses other than 429.
	ClassTerminal Class = iota

	// ClassNetworkTransient covers socket-level failures detected by
	// matching the error message.
	ClassNetworkTransient

	// ClassHTTPTransient covers HTTP 429 and 5xx responses.
	ClassHTTPTransient
)

// Class is the retry classification of a failed attempt.
type Class int

// String returns a log-friendly name for the class.
func (c Class) String() string {
	switch c {
	case ClassNetworkTransient:
		return "network-transient"
	case ClassHTTPTransient:
		return "http-transient"
	default:
		return "terminal"
	}
}

// Transient reports whether a failure of this class should be retried.
func (c Class) Transient() bool {
	return c == ClassNetworkTransient || c == ClassHTTPTransient
}

// networkErrorMarkers are matched case-insensitively against error
// messages to detect socket-level failures worth retrying.
var networkErrorMarkers = []string{
	"socket",
	"timeout",
	"aborted",
	"econnreset",
	"econnrefused",
	"network",
	"fetch failed",
}

// Result is the outcome of one underlying call: a payload or an error.
type Result struct {
	Data any
	Err  error
}

// StatusError is a non-2xx HTTP response from an external platform.
type StatusError struct {
	// Status is the HTTP status code.
	Status int

	// Body is the decoded response body, when one was returned.
	Body any

	// Message overrides the default formatting when non-empty.
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// Classify determines whether the given failure is worth retrying.
// Network-level failures are detected structurally (net.Error timeouts and
// connection-level syscall errors) and by message pattern, HTTP failures by
// status code (429 or 5xx); everything else is terminal.
func Classify(err error) Class {
	if err == nil {
		return ClassTerminal
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassNetworkTransient
	}
	for _, errno := range []syscall.Errno{syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.EPIPE} {
		if errors.Is(err, errno) {
			return ClassNetworkTransient
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range networkErrorMarkers {
		if strings.Contains(msg, marker) {
			return ClassNetworkTransient
		}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Status == 429 || statusErr.Status >= 500 {
			return ClassHTTPTransient
		}
	}

	return ClassTerminal
}
