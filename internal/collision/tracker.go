package collision

import (
	"errors"

	"github.com/equinor/resdata-sub001/internal/hash"
)

// ErrEmptyKey is returned when an empty key is tracked.
var ErrEmptyKey = errors.New("collision: empty key")

// Tracker records lookup keys in insertion order and reports keys that are
// installed more than once. Keys are bucketed by their xxhash ID; distinct
// keys sharing an ID are kept apart and flagged as a hash collision.
type Tracker struct {
	buckets      map[uint64][]string
	keys         []string
	duplicates   int
	hasCollision bool
}

// NewTracker creates a new key tracker.
func NewTracker() *Tracker {
	return &Tracker{
		buckets: make(map[uint64][]string),
		keys:    make([]string, 0),
	}
}

// Track records key. It reports true when key was tracked before, in which
// case the caller is overwriting an earlier entry.
func (t *Tracker) Track(key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	id := hash.ID(key)
	bucket := t.buckets[id]
	for _, existing := range bucket {
		if existing == key {
			t.duplicates++
			return true, nil
		}
	}
	if len(bucket) > 0 {
		t.hasCollision = true
	}

	t.buckets[id] = append(bucket, key)
	t.keys = append(t.keys, key)

	return false, nil
}

// HasCollision returns true if two distinct keys shared a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Keys returns the distinct keys in first-insertion order.
func (t *Tracker) Keys() []string {
	return t.keys
}

// Count returns the number of distinct keys.
func (t *Tracker) Count() int {
	return len(t.keys)
}

// Duplicates returns how many Track calls hit an already tracked key.
func (t *Tracker) Duplicates() int {
	return t.duplicates
}

// Reset clears all tracked keys while keeping allocated capacity.
func (t *Tracker) Reset() {
	clear(t.buckets)
	t.keys = t.keys[:0]
	t.duplicates = 0
	t.hasCollision = false
}
