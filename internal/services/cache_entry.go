// Package services exposes the cached read surface over the artifacts
// the harvesters write. Each service owns its cache keys exclusively;
// overlapping refreshes are last-write-wins since staleness is already
// an accepted condition.
package services

import (
	"errors"
	"time"

	json "github.com/goccy/go-json"

	"msver/internal/models"
	"msver/internal/providers"
	"msver/internal/storage"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// cacheEntry wraps cached artifact bytes with a logical freshness
// expiry. The freecache retention window is longer than the TTL, so an
// entry that outlived its expiry is still retrievable and gets served
// when the storage read fails (stale-on-error).
type cacheEntry struct {
	ExpiresAt      time.Time       `json:"expiresAt"`
	LastUpdatedUTC time.Time       `json:"lastUpdatedUTC"`
	Data           json.RawMessage `json:"data"`
}

// loadArtifact reads artifact bytes through the cache: fresh cache hit
// first, then storage (validating with decode and repopulating the
// cache), then a stale cache entry when the storage read or the decode
// fails. The returned source tells the caller which path served the
// data. decode returns the artifact's last-updated stamp and doubles as
// the malformed-JSON guard.
func loadArtifact(
	cache providers.CacheProviderInterface,
	store storage.FileStore,
	logger providers.Logger,
	ttl time.Duration,
	key, artifact string,
	decode func(raw []byte) (time.Time, error),
) (json.RawMessage, time.Time, string, error) {
	now := timeNow()

	var stale *cacheEntry
	if raw, ok := cache.Get(key); ok {
		var e cacheEntry
		if err := json.Unmarshal(raw, &e); err == nil {
			if now.Before(e.ExpiresAt) {
				return e.Data, e.LastUpdatedUTC, models.SourceCache, nil
			}
			stale = &e
		}
	}

	raw, err := store.Read(artifact)
	if err == nil {
		var updated time.Time
		updated, err = decode(raw)
		if err == nil {
			entry := cacheEntry{
				ExpiresAt:      now.Add(ttl),
				LastUpdatedUTC: updated,
				Data:           raw,
			}
			if buf, merr := json.Marshal(entry); merr == nil {
				cache.Set(key, buf)
			}
			return raw, updated, models.SourceStorage, nil
		}
	}

	if stale != nil {
		logger.Warnf(providers.TypeApp, "Serving stale cache for %s: %s", artifact, err)
		return stale.Data, stale.LastUpdatedUTC, models.SourceStaleCache, nil
	}
	return nil, time.Time{}, "", err
}

// failureMessage maps a load error onto the caller-facing message.
func failureMessage(err error) string {
	if errors.Is(err, storage.ErrNotFound) {
		return "data not yet available"
	}
	return "failed to load data"
}
