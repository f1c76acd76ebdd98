package youtube

import (
	"errors"
	"sync"
)

// KeyRotator hands out API keys from a fixed pool in round-robin order.
// The cursor is process-wide and advances across requests, so successive
// scans keep spreading quota instead of always starting at the first key.
type KeyRotator struct {
	mu     sync.Mutex
	keys   []string
	cursor int
}

// NewKeyRotator builds a rotator over a non-empty pool of equivalent keys.
func NewKeyRotator(keys []string) (*KeyRotator, error) {
	if len(keys) == 0 {
		return nil, errors.New("youtube: at least one api key required")
	}
	pool := make([]string, len(keys))
	copy(pool, keys)
	return &KeyRotator{keys: pool}, nil
}

// Next returns the key at the cursor and advances it, wrapping around.
func (r *KeyRotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.keys[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.keys)
	return key
}

// Size reports the pool size; callers retry a failed call at most this
// many times before giving up on a query.
func (r *KeyRotator) Size() int {
	return len(r.keys)
}
