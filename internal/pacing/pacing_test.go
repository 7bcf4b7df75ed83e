package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitter_DelayWithinRange(t *testing.T) {
	j := Jitter{
		Page:    Range{Min: 2 * time.Second, Max: 5 * time.Second},
		Listing: Range{Min: time.Second, Max: 3 * time.Second},
	}

	for i := 0; i < 200; i++ {
		d := j.Delay(BetweenPages)
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 5*time.Second)

		d = j.Delay(BeforeListing)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 3*time.Second)
	}
	assert.Zero(t, j.Delay(AfterScroll), "unset window means no pause")
}

func TestJitter_FixedWindow(t *testing.T) {
	j := Jitter{Scroll: Range{Min: 5 * time.Second, Max: 5 * time.Second}}
	assert.Equal(t, 5*time.Second, j.Delay(AfterScroll))
}

func TestNone(t *testing.T) {
	for _, step := range []Step{BetweenPages, BeforeListing, AfterScroll} {
		assert.Zero(t, None{}.Delay(step), step.String())
	}
}

func TestWait(t *testing.T) {
	t.Run("zero delay returns immediately", func(t *testing.T) {
		assert.NoError(t, Wait(context.Background(), None{}, BetweenPages))
	})

	t.Run("cancelled context interrupts the pause", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		long := Jitter{Page: Range{Min: time.Hour, Max: time.Hour}}

		start := time.Now()
		err := Wait(ctx, long, BetweenPages)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("short delay elapses", func(t *testing.T) {
		short := Jitter{Listing: Range{Min: time.Millisecond, Max: 2 * time.Millisecond}}
		assert.NoError(t, Wait(context.Background(), short, BeforeListing))
	})
}
