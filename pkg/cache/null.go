package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. A pipeline runner built without a cache uses it,
// so every Execute renders from scratch.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
