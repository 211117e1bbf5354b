package scripture

import (
	"context"
	"sync"
	"sync/atomic"
)

// OpenFunc produces the Index an Engine will serve.
type OpenFunc func(ctx context.Context) (*Index, error)

// Provider runs a corpus load exactly once and hands out the resulting Engine.
// Callers block in Engine until the load has finished, so no detect or resolve
// call can observe a partially built index.
type Provider struct {
	open OpenFunc

	once   sync.Once
	done   chan struct{}
	ready  atomic.Bool
	engine *Engine
	err    error
}

// NewProvider returns a Provider that will call open on first use.
func NewProvider(open OpenFunc) *Provider {
	return &Provider{
		open: open,
		done: make(chan struct{}),
	}
}

// Start begins loading in the background if it has not started yet.
// The load is not cancelled when ctx is; ctx only supplies values.
func (p *Provider) Start(ctx context.Context) {
	p.once.Do(func() {
		go p.load(context.WithoutCancel(ctx))
	})
}

// Engine waits for the load to finish and returns the engine or the load error.
// A cancelled ctx stops the wait, not the load.
func (p *Provider) Engine(ctx context.Context) (*Engine, error) {
	p.Start(ctx)
	select {
	case <-p.done:
		return p.engine, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports whether the load finished successfully.
func (p *Provider) Ready() bool {
	return p.ready.Load()
}

func (p *Provider) load(ctx context.Context) {
	defer close(p.done)

	idx, err := p.open(ctx)
	if err != nil {
		p.err = err
		return
	}
	p.engine = NewEngine(idx)
	p.ready.Store(true)
}
