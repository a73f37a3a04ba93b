package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/linkplay/internal/dependencies/clock"
	"github.com/mcoot/linkplay/internal/dependencies/mocks"
)

func TestEpochAtFloorsToInterval(t *testing.T) {
	base := time.UnixMilli(0).UTC()

	assert.Equal(t, int64(0), clock.EpochAt(base, 10*time.Minute))
	assert.Equal(t, int64(0), clock.EpochAt(base.Add(10*time.Minute-time.Millisecond), 10*time.Minute))
	assert.Equal(t, int64(1), clock.EpochAt(base.Add(10*time.Minute), 10*time.Minute))
	assert.Equal(t, int64(-1), clock.EpochAt(base.Add(-time.Millisecond), 10*time.Minute))
}

func TestEpochClockFollowsInjectedClock(t *testing.T) {
	mc := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	ec := clock.NewEpochClock(mc, 10*time.Minute)

	start := ec.Current()
	mc.Advance(9 * time.Minute)
	assert.Equal(t, start, ec.Current())

	mc.Advance(time.Minute)
	assert.Equal(t, start+1, ec.Current())
}

func TestEpochClockDefaultsInterval(t *testing.T) {
	ec := clock.NewEpochClock(clock.New(), 0)
	assert.Equal(t, clock.DefaultEpochInterval, ec.Interval())
}
