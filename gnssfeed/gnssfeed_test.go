package gnssfeed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartReceiveCallsHandlerPerFix(t *testing.T) {
	source := &ReplaySource{
		Fixes: []Fix{{Latitude: 1}, {Latitude: 2}, {Latitude: 3}},
	}

	var mu sync.Mutex
	var got []float64

	stop, err := StartReceive(context.Background(), source, func(f Fix) {
		mu.Lock()
		got = append(got, f.Latitude)
		mu.Unlock()
	})
	assert.NoError(t, err)
	defer stop()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []float64{1, 2, 3}, got)
	mu.Unlock()
}

func TestStartReceiveStopsOnCancel(t *testing.T) {
	source := &ReplaySource{
		Fixes:    []Fix{{Latitude: 1}},
		Loop:     true,
		Interval: 2 * time.Millisecond,
	}

	var mu sync.Mutex
	count := 0

	ctx, cancel := context.WithCancel(context.Background())
	stop, err := StartReceive(ctx, source, func(Fix) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	assert.NoError(t, err)
	defer stop()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	stopped := count
	mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, stopped, count)
}
