package truetime

import (
	"calsurf/internal/providers"
	"calsurf/internal/structures"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/atomic"
)

var ErrNotReady = errors.New("clock reconciliation has not finished")

// Keeper owns the process-wide Calendar. It starts with a zero-offset
// calendar and swaps in a reconciled one once the first attempt finishes,
// whether or not a trusted source answered.
type Keeper struct {
	fetcher   Fetcher
	estimator *Estimator
	clock     Clock
	zone      Zone
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface

	current  atomic.Pointer[Calendar]
	estimate atomic.Pointer[Estimate]
	ready    atomic.Bool

	mu        sync.Mutex
	readyCh   chan struct{}
	readyOnce sync.Once
}

func NewKeeper(fetcher Fetcher, estimator *Estimator, clock Clock, zone Zone, logger providers.Logger, metrics providers.MetricsProviderInterface) *Keeper {
	if clock == nil {
		clock = SystemClock{}
	}
	k := &Keeper{
		fetcher:   fetcher,
		estimator: estimator,
		clock:     clock,
		zone:      zone,
		logger:    logger,
		metrics:   metrics,
		readyCh:   make(chan struct{}),
	}
	k.current.Store(NewCalendar(clock, 0, zone, logger))
	k.estimate.Store(&Estimate{})
	return k
}

// NewKeeperFromConfig wires HTTP sources, the chain and the estimator from configuration.
func NewKeeperFromConfig(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*Keeper, error) {
	sources, err := NewHTTPSources(conf.TrueTime.Sources, &http.Client{})
	if err != nil {
		return nil, fmt.Errorf("time sources: %w", err)
	}

	zone, err := ResolveZone(conf.TrueTime.Timezone)
	if err != nil {
		logger.Warnf(providers.TypeTime, "Unable to load timezone %q: %s", zone.Name(), err)
	}

	clock := SystemClock{}
	chain := NewChain(sources, conf.TrueTime.Timeout, logger, metrics)
	estimator := NewEstimator(clock, conf.TrueTime.DeadZone)

	logger.Infof(providers.TypeTime, "Clock reconciliation: %d sources, timeout %s, dead zone %s, zone %s",
		len(sources), chain.Timeout(), estimator.DeadZone(), zone.Name())

	return NewKeeper(chain, estimator, clock, zone, logger, metrics), nil
}

// Start reconciles in the background. Use Ready or WaitReady to observe completion.
func (k *Keeper) Start(ctx context.Context) {
	go k.Reconcile(ctx)
}

// Reconcile measures the offset once and installs a fresh Calendar. It is
// safe to call again to force a re-sync; concurrent calls are serialized.
func (k *Keeper) Reconcile(ctx context.Context) Estimate {
	k.mu.Lock()
	defer k.mu.Unlock()
	defer k.markReady()

	est := k.measure(ctx)
	k.install(est)
	return est
}

func (k *Keeper) measure(ctx context.Context) (est Estimate) {
	defer func() {
		if r := recover(); r != nil {
			k.logger.Errorf(providers.TypeTime, "Clock reconciliation failed: %v", r)
			est = Estimate{}
		}
	}()
	return k.estimator.Estimate(ctx, k.fetcher)
}

func (k *Keeper) install(est Estimate) {
	switch {
	case !est.Trusted:
		k.logger.Warnf(providers.TypeTime, "Could not fetch trusted time, using device time")
	case est.Offset != 0:
		k.logger.Infof(providers.TypeTime, "Clock offset detected: %s (source %s)", est.Offset, est.Source)
	default:
		k.logger.Infof(providers.TypeTime, "Device clock is accurate (measured %s via %s)", est.Measured, est.Source)
	}

	k.estimate.Store(&est)
	k.current.Store(NewCalendar(k.clock, est.Offset, k.zone, k.logger))
	k.metrics.SetClockOffset(est.Offset, est.Trusted)
}

func (k *Keeper) markReady() {
	k.readyOnce.Do(func() {
		k.ready.Store(true)
		close(k.readyCh)
		k.metrics.SetClockReady(true)
	})
}

func (k *Keeper) Ready() bool { return k.ready.Load() }

// WaitReady blocks until the first reconciliation finishes or ctx is done.
func (k *Keeper) WaitReady(ctx context.Context) error {
	select {
	case <-k.readyCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
	}
}

// Current returns the calendar in effect. Before reconciliation it is the
// uncorrected local clock.
func (k *Keeper) Current() *Calendar { return k.current.Load() }

func (k *Keeper) LastEstimate() Estimate { return *k.estimate.Load() }

// Status is a point-in-time view of the keeper for diagnostics.
type Status struct {
	Now              time.Time `json:"now"`
	Today            DateKey   `json:"today"`
	Timezone         string    `json:"timezone"`
	OffsetMs         int64     `json:"offsetMs"`
	MeasuredOffsetMs int64     `json:"measuredOffsetMs"`
	RoundTripMs      int64     `json:"roundTripMs"`
	Trusted          bool      `json:"trusted"`
	Source           string    `json:"source,omitempty"`
	Ready            bool      `json:"ready"`
}

func (k *Keeper) Status() Status {
	cal := k.Current()
	est := k.LastEstimate()
	return Status{
		Now:              cal.Now(),
		Today:            cal.TodayKey(),
		Timezone:         cal.Timezone(),
		OffsetMs:         est.Offset.Milliseconds(),
		MeasuredOffsetMs: est.Measured.Milliseconds(),
		RoundTripMs:      est.RoundTrip.Milliseconds(),
		Trusted:          est.Trusted,
		Source:           est.Source,
		Ready:            k.Ready(),
	}
}
