package reportstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marshalleq/vhstimecode/internal/correlator"
	"github.com/marshalleq/vhstimecode/internal/locker"
	"github.com/marshalleq/vhstimecode/internal/pattern"
)

func openMemDB(t *testing.T) *Cache {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCache(db)
}

func TestContentHashStableForIdenticalInputs(t *testing.T) {
	fp := pattern.PAL()
	audio := []float32{0.1, 0.2, 0.3, -0.4}

	h1 := ContentHash(audio, 900, fp)
	h2 := ContentHash(audio, 900, fp)
	require.Equal(t, h1, h2)
}

func TestContentHashDiffersOnFrameCount(t *testing.T) {
	fp := pattern.PAL()
	audio := []float32{0.1, 0.2, 0.3, -0.4}

	h1 := ContentHash(audio, 900, fp)
	h2 := ContentHash(audio, 901, fp)
	require.NotEqual(t, h1, h2)
}

func TestContentHashDiffersOnAudioContent(t *testing.T) {
	fp := pattern.PAL()
	h1 := ContentHash([]float32{0.1, 0.2}, 900, fp)
	h2 := ContentHash([]float32{0.1, 0.3}, 900, fp)
	require.NotEqual(t, h1, h2)
}

func TestCacheMissReturnsFalse(t *testing.T) {
	cache := openMemDB(t)
	_, ok := cache.Get("nonexistent")
	require.False(t, ok)
}

func TestCacheSetThenGetRoundTrips(t *testing.T) {
	cache := openMemDB(t)

	entry := Entry{
		Regions: []locker.LockedRegion{
			{VideoFrameStart: 100, VideoFrameEndExclusive: 850, AudioSampleStart: 192000, AudioSampleEndExclusive: 1632000},
		},
		Report: correlator.OffsetReport{
			MeanOffsetSeconds: 0.25,
			StdDevSeconds:     0.01,
			MatchCount:        5,
			MeanConfidence:    0.9,
			Matches: []correlator.OffsetMatch{
				{FrameID: 0, VideoTimeSeconds: 0, AudioTimeSeconds: 0.25, OffsetSeconds: 0.25, Confidence: 0.9},
			},
		},
	}

	require.NoError(t, cache.Set("hash-a", entry))

	got, ok := cache.Get("hash-a")
	require.True(t, ok)
	require.Equal(t, entry.Regions, got.Regions)
	require.Equal(t, entry.Report, got.Report)
}

func TestCacheSetOverwritesExistingEntry(t *testing.T) {
	cache := openMemDB(t)

	first := Entry{Report: correlator.OffsetReport{MatchCount: 1, MeanOffsetSeconds: 0.1}}
	second := Entry{Report: correlator.OffsetReport{MatchCount: 2, MeanOffsetSeconds: 0.2}}

	require.NoError(t, cache.Set("hash-b", first))
	require.NoError(t, cache.Set("hash-b", second))

	got, ok := cache.Get("hash-b")
	require.True(t, ok)
	require.Equal(t, 2, got.Report.MatchCount)
	require.InDelta(t, 0.2, got.Report.MeanOffsetSeconds, 1e-9)
}

func TestCacheCleanupRemovesOldEntries(t *testing.T) {
	cache := openMemDB(t)
	require.NoError(t, cache.Set("hash-c", Entry{Report: correlator.OffsetReport{MatchCount: 1}}))

	_, err := cache.db.Exec(`UPDATE offset_reports SET created_at = ? WHERE content_hash = ?`,
		time.Now().Add(-48*time.Hour), "hash-c")
	require.NoError(t, err)

	require.NoError(t, cache.Cleanup(time.Hour))

	_, ok := cache.Get("hash-c")
	require.False(t, ok)
}

func TestCacheCleanupKeepsRecentEntries(t *testing.T) {
	cache := openMemDB(t)
	require.NoError(t, cache.Set("hash-d", Entry{Report: correlator.OffsetReport{MatchCount: 1}}))

	require.NoError(t, cache.Cleanup(time.Hour))

	_, ok := cache.Get("hash-d")
	require.True(t, ok)
}
