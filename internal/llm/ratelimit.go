package llm

import (
	"context"
	"sync"
	"time"
)

// WithMinInterval wraps a client so that consecutive Generate calls are
// spaced at least d apart. Hosted free tiers throttle aggressively;
// pacing requests up front beats retrying 429s.
func WithMinInterval(c Client, d time.Duration) Client {
	if d <= 0 {
		return c
	}
	return &pacedClient{inner: c, interval: d, now: time.Now, sleep: sleepCtx}
}

type pacedClient struct {
	inner    Client
	interval time.Duration

	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	mu   sync.Mutex
	last time.Time
}

func (p *pacedClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	p.mu.Lock()
	wait := time.Duration(0)
	if !p.last.IsZero() {
		if elapsed := p.now().Sub(p.last); elapsed < p.interval {
			wait = p.interval - elapsed
		}
	}
	if wait > 0 {
		p.mu.Unlock()
		if err := p.sleep(ctx, wait); err != nil {
			return "", err
		}
		p.mu.Lock()
	}
	p.last = p.now()
	p.mu.Unlock()

	return p.inner.Generate(ctx, req)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
