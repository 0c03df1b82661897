package main

import "time"

// rateHorizon bounds how much history the tracker keeps; rateMaxSamples
// caps the absolute sample count so a fast loop cannot grow the slice
// without limit.
const (
	rateHorizon    = 500 * time.Millisecond
	rateMaxSamples = 100
)

type rateSample struct {
	when   time.Time
	amount float64
}

// rateTracker converts timestamped "this many units happened" events into a
// smoothed units-per-second figure over a short sliding window. Used once
// for renders per second and once for simulation updates per second.
type rateTracker struct {
	samples []rateSample
}

func newRateTracker() *rateTracker {
	return &rateTracker{samples: make([]rateSample, 0, rateMaxSamples)}
}

// update records that amount units of work happened at now and evicts
// samples that have aged out of the window.
func (rt *rateTracker) update(now time.Time, amount float64) {
	rt.samples = append(rt.samples, rateSample{when: now, amount: amount})
	cutoff := now.Add(-rateHorizon)
	start := 0
	for start < len(rt.samples) && rt.samples[start].when.Before(cutoff) {
		start++
	}
	if over := len(rt.samples) - start - rateMaxSamples; over > 0 {
		start += over
	}
	if start > 0 {
		rt.samples = append(rt.samples[:0], rt.samples[start:]...)
	}
}

// rate returns the smoothed rate in units/second, or 0 until at least one
// full interval of data exists. A zero-width window never divides by zero.
func (rt *rateTracker) rate() float64 {
	if len(rt.samples) < 2 {
		return 0
	}
	first := rt.samples[0]
	last := rt.samples[len(rt.samples)-1]
	elapsed := last.when.Sub(first.when).Seconds()
	if elapsed <= 0 {
		return 0
	}
	var sum float64
	for _, s := range rt.samples[1:] {
		sum += s.amount
	}
	return sum / elapsed
}

func (rt *rateTracker) reset() {
	rt.samples = rt.samples[:0]
}
