// ridmon receives Remote-ID broadcast frames and displays tracked aircraft
// in a terminal dashboard, the receive-side counterpart to ridbroadcast and
// the direct descendant of the teacher's main.go ADS-B dashboard.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"remoteid/rid"
	"remoteid/telemetry"
)

// Config holds ridmon's command-line configuration.
type Config struct {
	Interface string
	FrameFile string
	Verbose   bool
}

type dashboard struct {
	table *telemetry.Table
}

func newDashboard() *dashboard {
	return &dashboard{
		table: telemetry.NewTable(telemetry.DefaultTTL),
	}
}

// startReceiving wires a rid.Receiver onto source and the dashboard's
// table, logging (rather than dropping silently) any frame that fails to
// parse.
func (d *dashboard) startReceiving(ctx context.Context, source rid.RawFrameSource, logger *logrus.Logger) (func(), error) {
	r := &rid.Receiver{
		Source: source,
		Table:  d.table,
	}
	return r.StartReceiving(ctx, func(err error) {
		logger.WithError(err).Debug("dropped unparseable frame")
	})
}

func (d *dashboard) render(g *gocui.Gui) error {
	s, err := g.View("status")
	if err != nil {
		return nil
	}
	s.Clear()
	fmt.Fprintf(s, " TRACKED: %02d  LAST UPDATE: %s\n",
		d.table.Count(), time.Now().Format("2006-01-02 15:04:05"))

	l, err := g.View("list")
	if err != nil {
		return nil
	}
	l.Clear()

	fmt.Fprintln(l, " UAS ID               OPERATOR         ALT    LAT       LON      SEEN")
	fmt.Fprintln(l, " ============================================================================")

	entries := d.table.All()
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		e := entries[id]
		fmt.Fprintf(l, " %-18s  %-6.2f,%-6.2f  %6.1f  %8.4f  %9.4f  %s\n",
			id,
			e.Snapshot.System.Latitude, e.Snapshot.System.Longitude,
			e.Snapshot.Location.AltitudeGeo,
			e.Snapshot.Location.Latitude, e.Snapshot.Location.Longitude,
			e.Seen.Format("15:04:05"))
	}

	return nil
}

func main() {
	var cfg Config

	logger := logrus.New()

	rootCmd := &cobra.Command{
		Use:   "ridmon",
		Short: "Receive and display Remote-ID broadcasts",
		Long: `ridmon decodes Remote-ID broadcast frames (ASTM F3411 / ODID) and
displays tracked aircraft in a live terminal dashboard.

Example usage:
  ridmon --iface wlan0mon
  ridmon --frame-file captured_frames.hex`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
			return run(cfg, logger)
		},
	}

	rootCmd.Flags().StringVar(&cfg.Interface, "iface", "", "monitor-mode wifi interface to capture on (requires build tag pcap)")
	rootCmd.Flags().StringVar(&cfg.FrameFile, "frame-file", "", "file of newline-delimited hex-encoded frames to replay")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *logrus.Logger) error {
	source, closeSource, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("ridmon: starting terminal ui: %w", err)
	}
	defer g.Close()

	d := newDashboard()

	g.SetManagerFunc(layout)
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop, err := d.startReceiving(ctx, source, logger)
	if err != nil {
		return fmt.Errorf("ridmon: %w", err)
	}
	defer stop()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			g.Update(d.render)
		}
	}()

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return fmt.Errorf("ridmon: terminal ui: %w", err)
	}

	return nil
}

// openSource picks the frame source per cfg: a live pcap capture when
// --iface is given (requires the pcap build tag), otherwise a replayed
// frame file.
func openSource(cfg Config) (rid.RawFrameSource, func(), error) {
	if cfg.Interface != "" {
		return openPcapSource(cfg.Interface)
	}
	if cfg.FrameFile == "" {
		return nil, nil, fmt.Errorf("ridmon: pass --iface (with the pcap build tag) or --frame-file")
	}

	fs, err := OpenFileFrameSource(cfg.FrameFile)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() { fs.Close() }, nil
}

func layout(g *gocui.Gui) error {
	const maxX = 84
	_, maxY := g.Size()

	v, err := g.SetView("status", 0, 0, maxX-2, 2)
	if err == nil || err == gocui.ErrUnknownView {
		if v != nil {
			v.Title = " STATUS "
			fmt.Fprintln(v, " TRACKED: --  LAST UPDATE: 0000-00-00 00:00:00")
		}
	}

	v, err = g.SetView("list", 0, 3, maxX-2, maxY-1)
	if err == nil || err == gocui.ErrUnknownView {
		if v != nil {
			v.Title = " AIRCRAFT "
		}
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
