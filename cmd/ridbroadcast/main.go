// ridbroadcast broadcasts Remote-ID frames built from a GNSS feed, the way
// the teacher's example/main.go drives go1090.StartReceive until a signal
// arrives, but running the pipeline the other direction: telemetry out
// instead of ADS-B messages in.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"remoteid/gnssfeed"
	"remoteid/macprovider"
	"remoteid/message"
	"remoteid/rid"
	"remoteid/telemetry"
)

// Config holds ridbroadcast's command-line configuration.
type Config struct {
	Interface string
	UASID     string
	Desc      string
	Interval  time.Duration
	Demo      bool
	Verbose   bool
}

func main() {
	var cfg Config

	logger := logrus.New()

	rootCmd := &cobra.Command{
		Use:   "ridbroadcast",
		Short: "Broadcast Remote-ID frames from a GNSS feed",
		Long: `ridbroadcast turns a replayed demo GNSS flight path into Remote-ID
broadcast frames, following the ASTM F3411 / ODID wire format, and hands
them to an in-memory loopback provider. It does not inject frames onto a
wifi interface.

Example usage:
  ridbroadcast --uas-id INSPIRE2-001 --desc "Survey flight"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
			return run(cfg, logger)
		},
	}

	rootCmd.Flags().StringVar(&cfg.Interface, "iface", "", "monitor-mode wifi interface to inject on (not supported: any value makes ridbroadcast exit with an error)")
	rootCmd.Flags().StringVar(&cfg.UASID, "uas-id", "UNKNOWN", "serial number or registration id to broadcast")
	rootCmd.Flags().StringVar(&cfg.Desc, "desc", "", "free-text operation description")
	rootCmd.Flags().DurationVar(&cfg.Interval, "interval", time.Second, "broadcast cadence")
	rootCmd.Flags().BoolVar(&cfg.Demo, "demo", false, "broadcast a synthetic replayed flight path (the only GNSS source ridbroadcast has, used with or without this flag)")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *logrus.Logger) error {
	var source gnssfeed.Source
	if cfg.Demo || cfg.Interface == "" {
		logger.Info("using a replayed demo flight path")
		source = demoReplaySource(cfg.Interval)
	} else {
		return fmt.Errorf("ridbroadcast has no serial GNSS source or live injection; run without --iface")
	}

	var provider macprovider.Provider
	if cfg.Interface != "" {
		return fmt.Errorf("ridbroadcast has no live injection; run without --iface")
	}
	mac := [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	loopback := macprovider.NewLoopbackProvider(mac)
	loopback.Sink = func(frame []byte) {
		logger.WithField("bytes", len(frame)).Debug("frame injected")
	}
	provider = loopback
	defer provider.Close()

	build := func(fix gnssfeed.Fix) telemetry.Snapshot {
		return snapshotFromFix(cfg, fix)
	}

	b := &rid.Broadcaster{Source: source, Provider: provider, Build: build}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop, err := b.StartBroadcasting(ctx, func(err error) {
		logger.WithError(err).Warn("broadcast cycle failed")
	})
	if err != nil {
		return fmt.Errorf("starting broadcaster: %w", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("broadcasting, press Ctrl+C to stop")
	<-sigs

	stop()
	logger.Info("stopped")
	return nil
}

func snapshotFromFix(cfg Config, fix gnssfeed.Fix) telemetry.Snapshot {
	return telemetry.Snapshot{
		BasicID: message.BasicID{
			UASType: message.UASTypeRotorcraft,
			IDType:  message.IDTypeSerialNumber,
			UASID:   cfg.UASID,
		},
		Location: message.Location{
			Status:             message.StatusAirborne,
			SpeedNS:            fix.SpeedNS,
			SpeedEW:            fix.SpeedEW,
			SpeedVertical:      fix.SpeedVertical,
			Latitude:           fix.Latitude,
			Longitude:          fix.Longitude,
			AltitudeBaro:       fix.AltitudeBaro,
			AltitudeGeo:        fix.AltitudeGeo,
			HeightAboveTakeoff: fix.AltitudeGeo,
			HorizAccuracy:      fix.HorizAccuracy,
			VertAccuracy:       fix.VertAccuracy,
			SpeedAccuracy:      fix.SpeedAccuracy,
			TSAccuracy:         fix.TSAccuracy,
			Timestamp:          fix.Time.Sub(fix.Time.Truncate(time.Hour)).Seconds(),
		},
		SelfID: message.SelfID{
			DescType: 0,
			Desc:     cfg.Desc,
		},
	}
}

func demoReplaySource(interval time.Duration) *gnssfeed.ReplaySource {
	return &gnssfeed.ReplaySource{
		Interval: interval,
		Loop:     true,
		Fixes: []gnssfeed.Fix{
			{Latitude: 37.7749, Longitude: -122.4194, AltitudeGeo: 100, SpeedNS: 5, SpeedEW: 2, Time: time.Now()},
			{Latitude: 37.7755, Longitude: -122.4190, AltitudeGeo: 102, SpeedNS: 5, SpeedEW: 2, Time: time.Now()},
			{Latitude: 37.7761, Longitude: -122.4186, AltitudeGeo: 104, SpeedNS: 4, SpeedEW: 3, Time: time.Now()},
		},
	}
}
