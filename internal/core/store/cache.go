package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/geolens/geolens/internal/core/cache"
	apperrors "github.com/geolens/geolens/internal/errors"
)

// Store implements cache.Cache with TTL enforced in the read query, so an
// expired row reads as absent even before PurgeExpired removes it.
var _ cache.Cache = (*Store)(nil)

// Get returns a cached response if present and not expired.
func (s *Store) Get(ctx context.Context, key string) (*cache.Entry, error) {
	if s == nil || s.DB == nil {
		return nil, &apperrors.CacheUnavailableError{Backend: driverLibsql, Err: errors.New("store is not initialized")}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if key == "" {
		return nil, errors.New("cache key is required")
	}

	var (
		payload   string
		storedAt  int64
		expiresAt sql.NullInt64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT value, stored_at, expires_at
		FROM response_cache
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, key, s.now().Unix())

	if err := row.Scan(&payload, &storedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, &apperrors.CacheUnavailableError{Backend: driverLibsql, Err: fmt.Errorf("fetch cached response: %w", err)}
	}

	var value map[string]any
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return nil, &apperrors.CacheUnavailableError{Backend: driverLibsql, Err: fmt.Errorf("decode cached response: %w", err)}
	}

	entry := &cache.Entry{
		Key:      key,
		Value:    value,
		StoredAt: time.Unix(storedAt, 0).UTC(),
	}
	if expiresAt.Valid {
		expires := time.Unix(expiresAt.Int64, 0).UTC()
		entry.ExpiresAt = &expires
	}
	return entry, nil
}

// Set stores or overwrites the response under key. A ttl of zero stores
// the row without an expiry; a negative ttl stores it already expired.
func (s *Store) Set(ctx context.Context, key string, value map[string]any, ttl time.Duration) error {
	if s == nil || s.DB == nil {
		return &apperrors.CacheUnavailableError{Backend: driverLibsql, Err: errors.New("store is not initialized")}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if key == "" {
		return errors.New("cache key is required")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached response: %w", err)
	}

	now := s.now()
	var expiresAt sql.NullInt64
	if ttl != 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(ttl).Unix(), Valid: true}
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO response_cache (key, value, stored_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at
	`, key, string(payload), now.Unix(), expiresAt)
	if err != nil {
		return &apperrors.CacheUnavailableError{Backend: driverLibsql, Err: fmt.Errorf("store cached response: %w", err)}
	}
	return nil
}

// Clear removes all cached responses.
func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return &apperrors.CacheUnavailableError{Backend: driverLibsql, Err: errors.New("store is not initialized")}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM response_cache`); err != nil {
		return &apperrors.CacheUnavailableError{Backend: driverLibsql, Err: fmt.Errorf("clear cache: %w", err)}
	}
	return nil
}

// PurgeExpired actively removes rows whose expiry has passed and reports
// how many were deleted. Lazy eviction on read makes this optional; it is
// exposed as a cache admin operation.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx, `
		DELETE FROM response_cache
		WHERE expires_at IS NOT NULL AND expires_at <= ?
	`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge expired cache rows: %w", err)
	}
	return result.RowsAffected()
}

// CacheStats summarizes the durable cache contents.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Expired int64 `json:"expired"`
}

// Stats reports entry counts for the cache admin command.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	stats := &CacheStats{}
	row := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN expires_at IS NOT NULL AND expires_at <= ? THEN 1 ELSE 0 END), 0)
		FROM response_cache
	`, s.now().Unix())
	if err := row.Scan(&stats.Entries, &stats.Expired); err != nil {
		return nil, fmt.Errorf("read cache stats: %w", err)
	}
	return stats, nil
}
