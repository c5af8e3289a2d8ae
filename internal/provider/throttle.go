package provider

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// Throttled paces Embed calls to a remote provider so a busy server does not
// exceed the provider's request quota. Calls block until a token is free or
// ctx is done.
type Throttled struct {
	Provider
	limiter *rate.Limiter
}

// NewThrottled wraps p with a limit of perSecond calls and the given burst.
// A non-positive perSecond returns p unchanged.
func NewThrottled(p Provider, perSecond float64, burst int) Provider {
	if perSecond <= 0 {
		return p
	}
	return &Throttled{
		Provider: p,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), max(burst, 1)),
	}
}

func (t *Throttled) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.Provider.Embed(ctx, texts)
}

// Close closes the wrapped provider if it holds resources
func (t *Throttled) Close() error {
	if c, ok := t.Provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
