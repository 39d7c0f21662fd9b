package truetime

import (
	"context"
	"time"
)

const DefaultDeadZone = 30 * time.Second

// Estimate describes one reconciliation. Offset is what gets applied to the
// local clock; Measured is the raw difference before the dead zone.
type Estimate struct {
	Offset    time.Duration
	Measured  time.Duration
	RoundTrip time.Duration
	Trusted   bool
	Source    string
}

type Estimator struct {
	clock    Clock
	deadZone time.Duration
}

func NewEstimator(clock Clock, deadZone time.Duration) *Estimator {
	if deadZone < 0 {
		deadZone = 0
	}
	return &Estimator{clock: clock, deadZone: deadZone}
}

func (e *Estimator) DeadZone() time.Duration { return e.deadZone }

func (e *Estimator) Estimate(ctx context.Context, f Fetcher) Estimate {
	t0 := e.clock.Now()
	res := f.Fetch(ctx)
	if !res.Ok() {
		return Estimate{}
	}
	t1 := e.clock.Now()

	applied, measured := ComputeOffset(t0, t1, res.Time, e.deadZone)
	return Estimate{
		Offset:    applied,
		Measured:  measured,
		RoundTrip: nonNegative(t1.Sub(t0)),
		Trusted:   true,
		Source:    res.Source,
	}
}

// ComputeOffset compares trusted time with the local clock. Half the round
// trip (t0 before the request, t1 after the response) is credited to the
// trusted timestamp. Offsets within deadZone are reported as measured but
// not applied.
func ComputeOffset(t0, t1, trusted time.Time, deadZone time.Duration) (applied, measured time.Duration) {
	delay := nonNegative(t1.Sub(t0)) / 2
	measured = trusted.Add(delay).Sub(t1).Round(time.Millisecond)
	if abs(measured) <= deadZone {
		return 0, measured
	}
	return measured, measured
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
