package cache

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeyDeterministic(t *testing.T) {
	a := url.Values{}
	a.Set("address", "Paris")
	a.Set("components", "country:FR")

	b := url.Values{}
	b.Set("components", "country:FR")
	b.Set("address", "Paris")

	require.Equal(t, Key("geocode/json", a), Key("geocode/json", b))
	require.Equal(t, "geocode/json?address=Paris&components=country%3AFR", Key("geocode/json", a))
}

func TestKeyNoParams(t *testing.T) {
	require.Equal(t, "geocode/json", Key("geocode/json", nil))
	require.Equal(t, "geocode/json", Key("geocode/json", url.Values{}))
}

func TestMemoryGetAbsent(t *testing.T) {
	m := NewMemory()

	entry, err := m.Get(context.Background(), "never-set")
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestMemorySetGetRoundtrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	value := map[string]any{"lat": 48.8566, "lng": 2.3522}
	require.NoError(t, m.Set(ctx, "paris_fr", value, 0))

	entry, err := m.Get(ctx, "paris_fr")
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, value, entry.Value)
	require.Nil(t, entry.ExpiresAt)
}

func TestMemoryTTLExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	m := NewMemory()
	m.Clock = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "paris_fr", map[string]any{"lat": 48.8566, "lng": 2.3522}, time.Hour))

	now = now.Add(3599 * time.Second)
	entry, err := m.Get(ctx, "paris_fr")
	require.NoError(t, err)
	require.NotNil(t, entry)

	now = now.Add(2 * time.Second)
	entry, err = m.Get(ctx, "paris_fr")
	require.NoError(t, err)
	require.Nil(t, entry, "expired entry must read as absent")
	require.Equal(t, 0, m.Len(), "expired entry is dropped on read")
}

func TestMemoryNegativeTTLReadsAbsent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "paris_fr", map[string]any{"lat": 48.8566}, -time.Second))

	entry, err := m.Get(ctx, "paris_fr")
	require.NoError(t, err)
	require.Nil(t, entry, "an already-elapsed TTL must read as absent")
}

func TestMemoryLastWriteWins(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", map[string]any{"v": "first"}, 0))
	require.NoError(t, m.Set(ctx, "k", map[string]any{"v": "second"}, 0))

	entry, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "second", entry.Value["v"])
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", map[string]any{"v": 1}, 0))
	require.NoError(t, m.Set(ctx, "b", map[string]any{"v": 2}, 0))
	require.NoError(t, m.Clear(ctx))

	entry, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, entry)
	require.Equal(t, 0, m.Len())
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.Set(ctx, "shared", map[string]any{"j": j}, time.Minute)
				_, _ = m.Get(ctx, "shared")
			}
		}()
	}
	wg.Wait()

	entry, err := m.Get(ctx, "shared")
	require.NoError(t, err)
	require.NotNil(t, entry)
}
