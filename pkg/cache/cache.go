// Package cache stores generated avatar artifacts keyed by their inputs.
//
// Rendering is deterministic, so an artifact is fully identified by the
// username, mode, size, random source and output format that produced it.
// [Keyer] turns those inputs into stable keys and [Cache] implementations
// store the encoded bytes.
//
// Two implementations are provided:
//
//   - [MemoryCache]: process-local storage with per-entry TTLs
//   - [NullCache]: never stores anything
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long encoded artifacts stay cached.
const TTLArtifact = 24 * time.Hour

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value for key. The boolean reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKeyOpts are the render inputs that distinguish artifacts for the
// same username.
type ArtifactKeyOpts struct {
	Mode        string `json:"mode"`
	Size        int    `json:"size"`
	Supersample bool   `json:"supersample,omitempty"`
	RNG         string `json:"rng"`
	Format      string `json:"format"`
}

// Keyer generates cache keys.
type Keyer interface {
	ArtifactKey(username string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey generates a key for an encoded avatar.
func (DefaultKeyer) ArtifactKey(username string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", username, opts)
}
