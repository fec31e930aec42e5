package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type (
	// ResultCache memoizes engine results by a hash of their request.
	// Expired entries linger until Purge runs.
	ResultCache struct {
		c      *gocache.Cache
		ttl    time.Duration
		hits   atomic.Uint64
		misses atomic.Uint64
	}

	Stats struct {
		Entries    int     `json:"entries"`
		Hits       uint64  `json:"hits"`
		Misses     uint64  `json:"misses"`
		TtlMinutes float64 `json:"ttlMinutes"`
	}
)

// NewResultCache with a non-positive ttl caches nothing
func NewResultCache(ttl time.Duration) *ResultCache {
	// no janitor; the sanitation service schedules Purge
	return &ResultCache{
		c:   gocache.New(ttl, 0),
		ttl: ttl,
	}
}

// Key hashes the JSON encoding of kind and request
func Key(kind string, request interface{}) (string, error) {
	payload, err := json.Marshal(struct {
		Kind    string      `json:"kind"`
		Request interface{} `json:"request"`
	}{kind, request})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func (rc *ResultCache) Enabled() bool {
	return rc != nil && rc.ttl > 0
}

func (rc *ResultCache) Get(key string) (interface{}, bool) {
	if !rc.Enabled() {
		return nil, false
	}
	if value, found := rc.c.Get(key); found {
		rc.hits.Add(1)
		return value, true
	}
	rc.misses.Add(1)
	return nil, false
}

func (rc *ResultCache) Set(key string, value interface{}) {
	if !rc.Enabled() {
		return
	}
	rc.c.Set(key, value, gocache.DefaultExpiration)
}

// Purge drops expired entries and returns how many were removed
func (rc *ResultCache) Purge() int {
	if rc == nil {
		return 0
	}
	before := rc.c.ItemCount()
	rc.c.DeleteExpired()
	return before - rc.c.ItemCount()
}

func (rc *ResultCache) Flush() {
	if rc == nil {
		return
	}
	rc.c.Flush()
}

func (rc *ResultCache) Stats() Stats {
	if rc == nil {
		return Stats{}
	}
	return Stats{
		Entries:    rc.c.ItemCount(),
		Hits:       rc.hits.Load(),
		Misses:     rc.misses.Load(),
		TtlMinutes: rc.ttl.Minutes(),
	}
}
