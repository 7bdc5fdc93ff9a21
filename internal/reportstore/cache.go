package reportstore

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/marshalleq/vhstimecode/internal/correlator"
	"github.com/marshalleq/vhstimecode/internal/locker"
	"github.com/marshalleq/vhstimecode/internal/pattern"
)

// Entry bundles the locked regions and the resulting offset report a
// cache lookup returns together, since a report is meaningless without
// knowing which regions of the input it was derived from.
type Entry struct {
	Regions []locker.LockedRegion
	Report  correlator.OffsetReport
}

// Cache is a content-addressed store over a correlation run's result,
// keyed by ContentHash. It is an upsert cache, not a source of truth:
// callers recompute and Set on a miss, the same way internal/bpm.Cache
// treats a missing row as "recompute, then remember".
type Cache struct {
	db *sql.DB
}

// NewCache wraps an already-opened database (see Open) for report
// lookups and stores.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// ContentHash fingerprints the inputs a correlation run depends on: the
// raw audio samples, the number of video frames presented, and the
// format parameters governing frame timing. Two runs over identical
// audio/video under identical parameters hash identically regardless
// of when they ran, which is what makes the cache meaningful — unlike
// internal/bpm.Cache's path+mtime key, there is no stable file identity
// here to key on, only the content itself.
func ContentHash(audio []float32, videoFrameCount int, fp pattern.FormatParameters) string {
	h := sha256.New()
	buf := make([]byte, 4)
	for _, s := range audio {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(s))
		h.Write(buf)
	}
	fmt.Fprintf(h, "|frames=%d|fps=%d/%d|w=%d|h=%d|sr=%d",
		videoFrameCount, fp.FPS.Num, fp.FPS.Den, fp.VideoWidth, fp.VideoHeight, fp.AudioSampleRate)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached entry for contentHash, if present.
func (c *Cache) Get(contentHash string) (Entry, bool) {
	var reportJSON, regionsJSON string
	err := c.db.QueryRow(
		`SELECT report_json, regions_json FROM offset_reports WHERE content_hash = ?`,
		contentHash,
	).Scan(&reportJSON, &regionsJSON)
	if err != nil {
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(reportJSON), &entry.Report); err != nil {
		slog.Warn("reportstore: corrupt cached report, discarding", "hash", contentHash, "error", err)
		return Entry{}, false
	}
	if err := json.Unmarshal([]byte(regionsJSON), &entry.Regions); err != nil {
		slog.Warn("reportstore: corrupt cached regions, discarding", "hash", contentHash, "error", err)
		return Entry{}, false
	}
	return entry, true
}

// Set upserts entry under contentHash, replacing whatever was stored
// there before — mirroring internal/bpm.Cache.Set's
// INSERT ... ON CONFLICT DO UPDATE pattern.
func (c *Cache) Set(contentHash string, entry Entry) error {
	reportJSON, err := json.Marshal(entry.Report)
	if err != nil {
		return fmt.Errorf("reportstore: marshal report: %w", err)
	}
	regionsJSON, err := json.Marshal(entry.Regions)
	if err != nil {
		return fmt.Errorf("reportstore: marshal regions: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO offset_reports (content_hash, report_json, regions_json)
		 VALUES (?, ?, ?)
		 ON CONFLICT(content_hash) DO UPDATE SET
		   report_json = excluded.report_json,
		   regions_json = excluded.regions_json,
		   created_at = CURRENT_TIMESTAMP`,
		contentHash, string(reportJSON), string(regionsJSON),
	)
	if err != nil {
		return fmt.Errorf("reportstore: upsert %s: %w", contentHash, err)
	}
	return nil
}

// Cleanup deletes entries older than maxAge. Unlike
// internal/bpm.Cache.Cleanup, which sweeps by checking each row's file
// still exists on disk, a report has no backing file to check — age is
// the only signal available, so Cleanup prunes purely on created_at.
func (c *Cache) Cleanup(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)
	result, err := c.db.Exec(`DELETE FROM offset_reports WHERE created_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("reportstore: cleanup: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		slog.Info("reportstore: cleanup removed stale entries", "count", n)
	}
	return nil
}
