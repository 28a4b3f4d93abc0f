package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "session:revoked:"

// Blacklist remembers revoked session token ids until the token would have expired anyway.
// It prefers Redis so revocation survives restarts and is shared between instances;
// without Redis, or when a Redis call fails, it keeps entries in process memory.
type Blacklist struct {
	rc *redis.Client

	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewBlacklist creates a Blacklist. rc may be nil.
func NewBlacklist(rc *redis.Client) *Blacklist {
	return &Blacklist{rc: rc, entries: map[string]time.Time{}}
}

// Revoke marks id as revoked until expiresAt. Already expired ids are ignored.
func (b *Blacklist) Revoke(ctx context.Context, id string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if id == "" || ttl <= 0 {
		return
	}
	if b.rc != nil {
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := b.rc.Set(cctx, blacklistPrefix+id, "1", ttl).Err()
		if err == nil {
			return
		}
		Sugar.Warnw("redis revoke failed, keeping revocation in memory", "err", err)
	}
	b.mu.Lock()
	b.entries[id] = expiresAt
	b.cleanupLocked()
	b.mu.Unlock()
}

// IsRevoked reports whether id was revoked before its natural expiry.
func (b *Blacklist) IsRevoked(ctx context.Context, id string) bool {
	b.mu.RLock()
	exp, ok := b.entries[id]
	b.mu.RUnlock()
	if ok && time.Now().Before(exp) {
		return true
	}
	if b.rc == nil {
		return false
	}
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	n, err := b.rc.Exists(cctx, blacklistPrefix+id).Result()
	if err != nil {
		// fail open: an unreachable Redis must not log everybody out
		Sugar.Warnw("redis revocation lookup failed", "err", err)
		return false
	}
	return n > 0
}

func (b *Blacklist) cleanupLocked() {
	now := time.Now()
	for id, exp := range b.entries {
		if now.After(exp) {
			delete(b.entries, id)
		}
	}
}
