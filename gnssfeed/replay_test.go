package gnssfeed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReplaySourceEmptyReturnsExhausted(t *testing.T) {
	r := &ReplaySource{}
	_, err := r.ReadFix(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestReplaySourceDeliversInOrder(t *testing.T) {
	r := &ReplaySource{
		Fixes: []Fix{
			{Latitude: 1},
			{Latitude: 2},
		},
	}

	f1, err := r.ReadFix(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1.0, f1.Latitude)

	f2, err := r.ReadFix(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2.0, f2.Latitude)

	_, err = r.ReadFix(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestReplaySourceLoops(t *testing.T) {
	r := &ReplaySource{
		Fixes: []Fix{{Latitude: 1}, {Latitude: 2}},
		Loop:  true,
	}

	for _, want := range []float64{1, 2, 1, 2} {
		f, err := r.ReadFix(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, want, f.Latitude)
	}
}

func TestReplaySourceRespectsContextCancellation(t *testing.T) {
	r := &ReplaySource{
		Fixes:    []Fix{{Latitude: 1}},
		Interval: time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadFix(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
