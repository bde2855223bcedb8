package gnssfeed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
	"go.bug.st/serial"
)

// SerialConfig configures the serial device a SerialNMEASource reads from.
// Defaults mirror bramburn-go_ntrip's GNSSSerialPort: most u-blox/TOPGNSS
// receivers power up at 38400 8N1.
type SerialConfig struct {
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
	Timeout  time.Duration
}

// DefaultSerialConfig returns the 38400/8/N/1 defaults most NMEA GNSS
// receivers ship with.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		BaudRate: 38400,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
		Timeout:  500 * time.Millisecond,
	}
}

// SerialNMEASource is a Source that reads line-buffered NMEA-0183 sentences
// off a serial GNSS receiver and folds $GPGGA/$GPRMC/$GPVTG fields into
// successive Fix values. It is the over-the-wire counterpart to ReplaySource.
type SerialNMEASource struct {
	portName string
	config   SerialConfig

	port   serial.Port
	reader *bufio.Reader

	fix Fix
}

// NewSerialNMEASource opens portName with cfg and returns a ready Source.
func NewSerialNMEASource(portName string, cfg SerialConfig) (*SerialNMEASource, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("gnssfeed: opening serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(cfg.Timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("gnssfeed: setting read timeout on %s: %w", portName, err)
	}

	return &SerialNMEASource{
		portName: portName,
		config:   cfg,
		port:     port,
		reader:   bufio.NewReader(port),
	}, nil
}

// Close releases the underlying serial port.
func (s *SerialNMEASource) Close() error {
	return s.port.Close()
}

// ReadFix implements Source. It keeps reading and folding NMEA sentences
// into the accumulated Fix until a GGA sentence closes out one observation
// (GGA carries the 3D position fix; RMC updates latitude, longitude and
// horizontal speed, VTG only horizontal speed), or ctx is cancelled. The
// returned Fix's Time is the local clock reading when the GGA arrived.
func (s *SerialNMEASource) ReadFix(ctx context.Context) (Fix, error) {
	for {
		select {
		case <-ctx.Done():
			return Fix{}, ctx.Err()
		default:
		}

		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" {
				continue
			}
			return Fix{}, fmt.Errorf("gnssfeed: reading %s: %w", s.portName, err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			continue // not every line on the wire is a sentence we care about
		}

		switch sentence.DataType() {
		case nmea.TypeGGA:
			gga := sentence.(nmea.GGA)
			s.fix.Latitude = gga.Latitude
			s.fix.Longitude = gga.Longitude
			s.fix.AltitudeGeo = gga.Altitude
			s.fix.AltitudeBaro = gga.Altitude
			s.fix.Time = time.Now()
			return s.fix, nil

		case nmea.TypeRMC:
			rmc := sentence.(nmea.RMC)
			s.fix.Latitude = rmc.Latitude
			s.fix.Longitude = rmc.Longitude
			speedMS := rmc.Speed * 0.514444 // knots to m/s
			course := rmc.Course * (math.Pi / 180)
			s.fix.SpeedNS = speedMS * math.Cos(course)
			s.fix.SpeedEW = speedMS * math.Sin(course)

		case nmea.TypeVTG:
			vtg := sentence.(nmea.VTG)
			speedMS := vtg.GroundSpeedKPH / 3.6
			course := vtg.TrueTrack * (math.Pi / 180)
			s.fix.SpeedNS = speedMS * math.Cos(course)
			s.fix.SpeedEW = speedMS * math.Sin(course)
		}
	}
}
