// Package cache provides the response cache that memoizes geospatial API
// lookups. Two interchangeable backends implement the same contract: the
// in-process memory cache in this package and the durable libsql-backed
// cache in internal/core/store.
package cache

import (
	"context"
	"net/url"
	"time"
)

// Entry is one cached response payload. Entries are immutable once
// written; a re-insert under the same key replaces the entry wholesale.
type Entry struct {
	Key       string         `json:"key"`
	Value     map[string]any `json:"value"`
	StoredAt  time.Time      `json:"stored_at"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

// Valid reports whether the entry is still usable at the given instant.
func (e *Entry) Valid(now time.Time) bool {
	if e == nil {
		return false
	}
	return e.ExpiresAt == nil || now.Before(*e.ExpiresAt)
}

// Cache maps request fingerprints to previously obtained responses.
// A miss (including an expired entry) is reported as (nil, nil); errors
// are reserved for backend failures, which callers treat as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	// Set stores or overwrites the entry under key. A ttl of zero
	// stores the entry without an expiry; a negative ttl stores it
	// already expired.
	Set(ctx context.Context, key string, value map[string]any, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// Key builds the deterministic fingerprint for a request: the endpoint
// path plus the sorted, URL-encoded parameter set. url.Values.Encode
// sorts by key, so the fingerprint is stable across processes.
func Key(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}
