// Package errors defines domain-level errors used throughout the application.
// These errors represent business logic failures and are mapped to appropriate HTTP status codes at the API boundary.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// This typically results from flat tool arguments failing schema validation.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrPlatformNotFound indicates that the requested platform is not configured.
	// Recommended to map to HTTP 404 Not Found.
	ErrPlatformNotFound = errors.New("platform not found")

	// ErrToolNotFound indicates that the requested tool does not exist in the platform's catalog.
	// Recommended to map to HTTP 404 Not Found.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolCallFailed indicates that invoking an operation against an external platform failed.
	// This represents a communication or execution error with the external REST API.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrToolCallFailed = errors.New("tool call failed")

	// ErrMissingCredential indicates that a platform's credential environment variable is unset.
	// This is a deployment problem, not a caller problem.
	ErrMissingCredential = errors.New("missing platform credential")

	// ErrHealthNotTracked indicates that health monitoring is not enabled for the specified platform.
	// Recommended to map to HTTP 404 Not Found.
	ErrHealthNotTracked = errors.New("platform health is not being tracked")
)
