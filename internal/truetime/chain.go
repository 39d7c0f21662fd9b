package truetime

import (
	"calsurf/internal/providers"
	"context"
	"errors"
	"fmt"
	"time"
)

const DefaultTimeout = 5 * time.Second

var (
	ErrSourcePanic = errors.New("time source panicked")
	ErrZeroTime    = errors.New("time source returned zero time")
)

// Result is the outcome of one trip through the source chain. A Result is
// either available (a trusted timestamp and the source that produced it) or
// unavailable; callers never receive an error.
type Result struct {
	Time   time.Time
	Source string
	ok     bool
}

func Available(t time.Time, source string) Result {
	return Result{Time: t, Source: source, ok: true}
}

func Unavailable() Result {
	return Result{}
}

func (r Result) Ok() bool { return r.ok }

// Fetcher yields trusted time or Unavailable.
type Fetcher interface {
	Fetch(ctx context.Context) Result
}

// Chain asks its sources in priority order and stops at the first success.
// Every attempt gets its own timeout, so the worst case is len(sources) * timeout.
type Chain struct {
	sources []Source
	timeout time.Duration
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewChain(sources []Source, timeout time.Duration, logger providers.Logger, metrics providers.MetricsProviderInterface) *Chain {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Chain{
		sources: sources,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Chain) Timeout() time.Duration { return c.timeout }

// Bound is the longest a single Fetch can take.
func (c *Chain) Bound() time.Duration {
	return time.Duration(len(c.sources)) * c.timeout
}

func (c *Chain) Fetch(ctx context.Context) Result {
	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			c.logger.Warnf(providers.TypeTime, "Trusted time lookup cancelled: %s", err)
			break
		}

		t, err := c.attempt(ctx, src)
		c.metrics.IncTimeSourceResult(src.Name(), err == nil)
		if err != nil {
			c.logger.Warnf(providers.TypeTime, "Failed to fetch trusted time from %s: %s", src.Name(), err)
			continue
		}

		c.logger.Debugf(providers.TypeTime, "Trusted time %s from %s", t.Format(time.RFC3339Nano), src.Name())
		return Available(t, src.Name())
	}
	return Unavailable()
}

type attemptResult struct {
	t   time.Time
	err error
}

// attempt runs one source under its own deadline. The source runs in a
// goroutine so one that ignores its context still cannot stall the chain.
func (c *Chain) attempt(ctx context.Context, src Source) (time.Time, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult{err: fmt.Errorf("%w: %v", ErrSourcePanic, r)}
			}
		}()
		t, err := src.FetchTime(attemptCtx)
		done <- attemptResult{t: t, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return time.Time{}, res.err
		}
		if res.t.IsZero() {
			return time.Time{}, ErrZeroTime
		}
		return res.t, nil
	case <-attemptCtx.Done():
		return time.Time{}, attemptCtx.Err()
	}
}
