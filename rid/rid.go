/*
Copyright (c) 2018 Ham, Yeongtaek <yeongtaek.ham@gmail.com>.

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package rid re-exports the Remote-ID subsystem as a single top-level
// entry point, the way go1090 re-exports Mode S decoding and rtl_adsb
// wiring from one package a caller can import without reaching into
// subpackages directly.
package rid

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"remoteid/broadcast"
	"remoteid/gnssfeed"
	"remoteid/macprovider"
	"remoteid/telemetry"
)

// dedupTTL bounds how long a (sender MAC, counter) pair is remembered to
// suppress a frame retransmitted before the sender's table TTL elapses.
const dedupTTL = 5 * time.Second

// SnapshotBuilder turns the latest GNSS fix and any operator/aircraft
// metadata a caller already knows into the next Snapshot to broadcast.
// Most callers hold BasicID/SelfID/System fixed and refresh only Location
// per fix; this hook is where that assembly happens.
type SnapshotBuilder func(fix gnssfeed.Fix) telemetry.Snapshot

// Broadcaster ties a GNSS Source to a macprovider.Provider: every fix the
// Source produces is turned into a Snapshot, built into a frame, and
// injected, mirroring go1090.StartReceive's shape but running the pipeline
// in the opposite direction (telemetry out, instead of messages in).
type Broadcaster struct {
	Source   gnssfeed.Source
	Provider macprovider.Provider
	Build    SnapshotBuilder

	counter uint8
}

// StartBroadcasting runs the broadcaster until ctx is cancelled or the
// returned stop function is called. onErr, if non-nil, is called with any
// per-frame build or injection error; the loop continues regardless.
func (b *Broadcaster) StartBroadcasting(ctx context.Context, onErr func(error)) (stop func(), err error) {
	if b.Source == nil || b.Provider == nil || b.Build == nil {
		return nil, fmt.Errorf("rid: Broadcaster missing Source, Provider, or Build")
	}

	mac := b.Provider.MAC()

	handler := func(fix gnssfeed.Fix) {
		snap := b.Build(fix)

		frame, err := broadcast.Build(snap, mac, b.counter)
		b.counter++
		if err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("rid: building frame: %w", err))
			}
			return
		}

		if err := b.Provider.Inject(ctx, frame); err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("rid: injecting frame: %w", err))
			}
		}
	}

	return gnssfeed.StartReceive(ctx, b.Source, handler)
}

// RawFrameSource supplies raw 802.11 action frames to a Receiver, e.g. a
// monitor-mode capture loop.
type RawFrameSource interface {
	ReadFrame(ctx context.Context) ([]byte, error)
}

// Receiver decodes broadcast frames from a RawFrameSource and folds each
// one into a telemetry.Table, keyed by the decoded BasicID's UASID. A frame
// whose (sender MAC, counter) pair was already seen within dedupTTL is
// dropped before it reaches the table.
type Receiver struct {
	Source RawFrameSource
	Table  *telemetry.Table

	StaleCheckInterval time.Duration

	seen *cache.Cache
}

// StartReceiving runs the receive loop until ctx is cancelled or stop is
// called. Frames that fail broadcast.Parse are silently dropped (spec §9:
// a receiver must tolerate noise and unrelated 802.11 traffic), except
// that onErr, if set, is notified for diagnostics.
func (r *Receiver) StartReceiving(ctx context.Context, onErr func(error)) (stop func(), err error) {
	if r.Source == nil || r.Table == nil {
		return nil, fmt.Errorf("rid: Receiver missing Source or Table")
	}

	interval := r.StaleCheckInterval
	if interval <= 0 {
		interval = telemetry.DefaultTTL
	}

	if r.seen == nil {
		r.seen = cache.New(dedupTTL, 2*dedupTTL)
	}

	loopCtx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				r.Table.RemoveStale()
			default:
			}

			raw, err := r.Source.ReadFrame(loopCtx)
			if err != nil {
				return
			}

			frame, err := broadcast.Parse(raw)
			if err != nil {
				if onErr != nil {
					onErr(err)
				}
				continue
			}

			key := fmt.Sprintf("%x-%d", frame.SenderMAC, frame.Counter)
			if _, dup := r.seen.Get(key); dup {
				continue
			}
			r.seen.SetDefault(key, struct{}{})

			snap := frame.Pack.Snapshot()
			r.Table.Update(snap.BasicID.UASID, snap)
		}
	}()

	return cancel, nil
}
