// Package gnssfeed defines the GNSS-to-snapshot collaborator boundary
// (spec §6's "Telemetry source"). It is explicitly out of THE CORE: the
// core codec only ever reads a telemetry.Snapshot, never acquires one.
// This package's shape mirrors the teacher's rtl_adsb package: a Source
// produces raw fixes, StartReceive runs a background reader and calls a
// handler per fix, and returns a stop function.
package gnssfeed

import (
	"context"
	"time"
)

// Fix is one normative GNSS observation.
type Fix struct {
	Latitude, Longitude float64

	AltitudeGeo  float64
	AltitudeBaro float64

	SpeedNS       float64
	SpeedEW       float64
	SpeedVertical float64

	HorizAccuracy float64
	VertAccuracy  float64
	SpeedAccuracy float64
	TSAccuracy    float64

	Time time.Time
}

// Handler is called once per Fix as it arrives.
type Handler func(Fix)

// Source produces GNSS fixes on demand. ReadFix blocks until the next fix
// is available or ctx is cancelled.
type Source interface {
	ReadFix(ctx context.Context) (Fix, error)
}

// StartReceive runs source in a background goroutine, calling handler for
// every fix it produces, until the returned stop function is called or ctx
// is cancelled. It mirrors rtl_adsb.StartReceive's return-a-stop-func shape.
func StartReceive(ctx context.Context, source Source, handler Handler) (stop func(), err error) {
	loopCtx, cancel := context.WithCancel(ctx)

	go func() {
		for {
			fix, err := source.ReadFix(loopCtx)
			if err != nil {
				return
			}
			handler(fix)
		}
	}()

	return cancel, nil
}
