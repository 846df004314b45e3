package cache

import (
	"context"
	"time"
)

// NullCache misses on every read and drops every write. The CLI uses it for
// --no-cache and the server when no Redis URL is configured.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }
