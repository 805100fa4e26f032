// Package errors defines the error taxonomy shared by the lookup
// services, the gateway, and the HTTP surface.
package errors

import (
	"errors"
	"fmt"
)

// NotFoundError reports that the external service returned no usable
// result for a query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no result for %q", e.Query)
}

// NewNotFound creates a NotFoundError for the given query.
func NewNotFound(query string) *NotFoundError {
	return &NotFoundError{Query: query}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// GatewayError reports a failed outbound call to the geospatial web API.
type GatewayError struct {
	Status    int
	Snippet   string
	Transient bool
	Err       error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Status > 0 && e.Snippet != "":
		return fmt.Sprintf("gateway: HTTP %d: %s", e.Status, e.Snippet)
	case e.Status > 0:
		return fmt.Sprintf("gateway: HTTP %d", e.Status)
	case e.Err != nil:
		return "gateway: " + e.Err.Error()
	default:
		return "gateway error"
	}
}

func (e *GatewayError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a gateway error worth retrying.
func IsTransient(err error) bool {
	var target *GatewayError
	return errors.As(err, &target) && target.Transient
}

// CacheUnavailableError reports a cache backend failure. Callers treat it
// as a cache miss; it must never block the live request path.
type CacheUnavailableError struct {
	Backend string
	Err     error
}

func (e *CacheUnavailableError) Error() string {
	return fmt.Sprintf("cache backend %s unavailable: %v", e.Backend, e.Err)
}

func (e *CacheUnavailableError) Unwrap() error { return e.Err }

// ConfigError reports invalid configuration, detected at construction or
// load time, never at call time.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// NewConfig creates a ConfigError for a named field.
func NewConfig(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}
