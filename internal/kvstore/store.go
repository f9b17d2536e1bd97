// Package kvstore provides the key-value backends the cache layer writes to.
// Values are opaque byte slices; encoding is the caller's concern.
package kvstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is an addressable key-value backend with expire-on-write support.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key without expiry.
	Set(ctx context.Context, key string, value []byte) error
	// SetWithExpiry stores value under key; the backend expires it after ttl.
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// KeysMatching returns the keys matching a glob pattern
	// (`*`, `?` and `[...]` classes, as understood by Redis).
	KeysMatching(ctx context.Context, pattern string) ([]string, error)
	// Ping verifies connectivity to the backend.
	Ping(ctx context.Context) error
	// Close releases resources owned by the store.
	Close() error
}

// GlobToRegex translates a Redis-style glob into an anchored regular
// expression.
func GlobToRegex(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')
	inClass := false
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '\\' && i+1 < len(pattern):
			i++
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
		case inClass:
			if ch == ']' {
				inClass = false
			}
			b.WriteByte(ch)
		case ch == '*':
			b.WriteString(".*")
		case ch == '?':
			b.WriteByte('.')
		case ch == '[':
			inClass = true
			b.WriteByte('[')
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				b.WriteByte('^')
				i++
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	if inClass {
		b.WriteByte(']')
	}
	b.WriteByte('$')
	return b.String()
}
