// Package telemetry holds the normative, host-native telemetry record that
// collaborators populate and the Remote-ID codec reads. A Snapshot is a
// plain aggregate: all numeric fields start at zero, all strings empty,
// all enums at their "unknown/none" variant, exactly as spec §4.5
// describes. It is mutated in place by a GNSS collaborator and read-only to
// the codec.
package telemetry

import (
	"fmt"

	"remoteid/message"
)

// Snapshot aggregates the five per-aircraft messages that make up one
// broadcast cycle.
type Snapshot struct {
	BasicID message.BasicID
	Location message.Location
	Auth message.Auth
	SelfID message.SelfID
	System message.System
}

// Validate runs a best-effort normative-range sanity check on s. It is not
// required by the codec, which always clamps out-of-range values on
// encode (spec §7); a collaborator can call Validate to decide whether a
// fix is fresh/sane enough to broadcast at all. Grounded on
// original_source's intInRange/intRangeMax helpers, used defensively
// before packing in the reference C library.
func (s Snapshot) Validate() error {
	if s.Location.Latitude < -90 || s.Location.Latitude > 90 {
		return fmt.Errorf("telemetry: latitude %f out of range", s.Location.Latitude)
	}
	if s.Location.Longitude < -180 || s.Location.Longitude > 180 {
		return fmt.Errorf("telemetry: longitude %f out of range", s.Location.Longitude)
	}
	if s.System.Latitude < -90 || s.System.Latitude > 90 {
		return fmt.Errorf("telemetry: operator latitude %f out of range", s.System.Latitude)
	}
	if s.System.Longitude < -180 || s.System.Longitude > 180 {
		return fmt.Errorf("telemetry: operator longitude %f out of range", s.System.Longitude)
	}
	if s.Location.Timestamp < 0 || s.Location.Timestamp >= 3600 {
		return fmt.Errorf("telemetry: timestamp %f out of [0, 3600)", s.Location.Timestamp)
	}
	if len(s.BasicID.UASID) > 20 {
		return fmt.Errorf("telemetry: UASID longer than 20 bytes")
	}
	if len(s.Auth.AuthData) > 23 {
		return fmt.Errorf("telemetry: AuthData longer than 23 bytes")
	}
	if len(s.SelfID.Desc) > 23 {
		return fmt.Errorf("telemetry: Desc longer than 23 bytes")
	}
	return nil
}
