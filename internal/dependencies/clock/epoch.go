package clock

import "time"

// DefaultEpochInterval is the width of one rotation epoch
const DefaultEpochInterval = 10 * time.Minute

// EpochClock buckets wall-clock time into coarse, numbered intervals.
// Epoch n covers [n*interval, (n+1)*interval) measured from the Unix epoch.
type EpochClock struct {
	clock    Clock
	interval time.Duration
}

// NewEpochClock creates an EpochClock over the given clock.
// A non-positive interval falls back to DefaultEpochInterval.
func NewEpochClock(c Clock, interval time.Duration) *EpochClock {
	if interval <= 0 {
		interval = DefaultEpochInterval
	}
	return &EpochClock{clock: c, interval: interval}
}

// Current returns the epoch containing the clock's current time
func (e *EpochClock) Current() int64 {
	return EpochAt(e.clock.Now(), e.interval)
}

// Interval returns the epoch width
func (e *EpochClock) Interval() time.Duration {
	return e.interval
}

// EpochAt returns floor(t_ms / interval_ms)
func EpochAt(t time.Time, interval time.Duration) int64 {
	ms := t.UnixMilli()
	step := interval.Milliseconds()
	if step <= 0 {
		step = DefaultEpochInterval.Milliseconds()
	}
	// Floor division so pre-1970 times land in the right bucket
	q := ms / step
	if ms%step != 0 && ms < 0 {
		q--
	}
	return q
}
