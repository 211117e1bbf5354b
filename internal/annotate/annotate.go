// Package annotate detects and resolves scripture citations in note bodies,
// caching results so that re-annotating unchanged text on every edit is cheap.
package annotate

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/FocuswithJustin/SermonFlow/core/digest"
	"github.com/FocuswithJustin/SermonFlow/core/scripture"
	"github.com/FocuswithJustin/SermonFlow/internal/cache"
	"github.com/FocuswithJustin/SermonFlow/internal/logging"
)

// Defaults used by New when no options are given.
const (
	DefaultTTL      = 10 * time.Minute
	DefaultCapacity = 512
)

// Annotator wraps an Engine with a bounded TTL cache keyed by the BLAKE3
// digest of the note text. It is safe for concurrent use.
type Annotator struct {
	engine *scripture.Engine
	cache  *cache.Cache[[32]byte, []scripture.Citation]

	hits   atomic.Uint64
	misses atomic.Uint64
}

type config struct {
	ttl      time.Duration
	capacity int
}

// Option configures an Annotator.
type Option func(*config)

// WithTTL sets how long a cached annotation stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) { c.ttl = ttl }
}

// WithCapacity bounds the number of cached note bodies.
func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// New returns an Annotator over engine.
func New(engine *scripture.Engine, opts ...Option) *Annotator {
	cfg := config{ttl: DefaultTTL, capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Annotator{
		engine: engine,
		cache:  cache.New[[32]byte, []scripture.Citation](cfg.ttl, cfg.capacity),
	}
}

// Annotate returns the citations in text, as scripture.Engine.Annotate does.
// The returned slice belongs to the caller.
func (a *Annotator) Annotate(ctx context.Context, text string) []scripture.Citation {
	if text == "" {
		return nil
	}

	key := digest.Key(text)
	if cached, ok := a.cache.Get(key); ok {
		a.hits.Add(1)
		return clone(cached)
	}

	a.misses.Add(1)
	citations := a.engine.Annotate(text)
	a.cache.Set(key, citations)
	logging.DebugContext(ctx, "annotated", "citations", len(citations), "cached", a.cache.Len())
	return clone(citations)
}

// Stats reports cache hits and misses since the Annotator was created.
func (a *Annotator) Stats() (hits, misses uint64) {
	return a.hits.Load(), a.misses.Load()
}

// Reset drops every cached annotation. Counters are kept.
func (a *Annotator) Reset() {
	a.cache.Purge()
}

func clone(in []scripture.Citation) []scripture.Citation {
	if in == nil {
		return nil
	}
	out := make([]scripture.Citation, len(in))
	copy(out, in)
	return out
}
