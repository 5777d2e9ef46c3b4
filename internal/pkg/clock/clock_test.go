package clock_test

import (
	"testing"
	"time"

	"fleetwise/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	start := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	c := clock.NewFixed(start)

	assert.Equal(t, start, c.Now())

	c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())

	sgt := time.FixedZone("SGT", 8*3600)
	c.Set(time.Date(2026, 1, 15, 16, 0, 0, 0, sgt))
	assert.Equal(t, start, c.Now())
	assert.Equal(t, time.UTC, c.Now().Location())
}

func TestSystem_ReturnsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, clock.System{}.Now().Location())
}
