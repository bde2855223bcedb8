// Package message implements encode/decode for the five fixed-size 25-byte
// Remote-ID message variants: BasicID, Location, Auth, SelfID and System.
// Every message shares a one-byte header whose low nibble is the protocol
// version (currently 0) and whose high nibble is the message-type tag.
//
// All multi-byte integers are little-endian. Bit fields within a byte are
// packed least-significant-bit first, matching the wire format's own
// definition (see original_source/libopendroneid/opendroneid.h, which
// documents every packed struct "-- must define LSb first").
package message

import (
	"errors"
	"fmt"
)

// Size is the fixed length of every packed message, in bytes.
const Size = 25

// ProtocolVersion is the only version this package knows how to encode or
// decode.
const ProtocolVersion = 0

// Message-type tag, the high nibble of byte 0.
const (
	TypeBasicID = 0
	TypeLocation = 1
	TypeAuth = 2
	TypeSelfID = 3
	TypeSystem = 4
)

// UAS type enum (BasicID).
const (
	UASTypeNone = 0
	UASTypeFixedWing = 1
	UASTypeRotorcraft = 2
	UASTypeLTAPowered = 3
	UASTypeLTAUnpowered = 4
	UASTypeVTOL = 5
	UASTypeFreeFall = 6
	UASTypeRocket = 7
	UASTypeGlider = 8
	UASTypeOther = 9
)

// ID type enum (BasicID).
const (
	IDTypeNone = 0
	IDTypeSerialNumber = 1
	IDTypeCAAAssigned = 2
	IDTypeUTMAssigned = 3
)

// Status enum (Location).
const (
	StatusUndeclared = 0
	StatusGround = 1
	StatusAirborne = 2
)

// Location source enum (System).
const (
	LocationSourceTakeoff = 0
	LocationSourceLive = 1
)

// Errors surfaced by every message's Encode/Decode, per the taxonomy in
// spec §7.
var (
	// ErrBufferTooSmall is returned by Encode when the output buffer cannot
	// hold a full 25-byte message. The buffer's contents are undefined on
	// failure.
	ErrBufferTooSmall = errors.New("message: buffer too small")
	// ErrTruncated is returned by Decode when the input is shorter than the
	// 25 bytes a packed message requires.
	ErrTruncated = errors.New("message: truncated")
	// ErrUnknownMessageType is returned by HeaderType when the header's
	// high-nibble type tag is outside 0..4, and by each Decode function when
	// the tag is not the message type that function decodes.
	ErrUnknownMessageType = errors.New("message: unknown message type")
)

// header packs the protocol version and message type into byte 0.
func header(msgType uint8) byte {
	return (msgType << 4) | (ProtocolVersion & 0x0F)
}

// checkType validates a decoded header byte against the message type being
// decoded, returning ErrUnknownMessageType if its type tag is not want.
func checkType(b byte, want uint8) error {
	got := (b >> 4) & 0x0F
	if got != want {
		return fmt.Errorf("message: header tag %d does not match expected %d: %w", got, want, ErrUnknownMessageType)
	}
	return nil
}

// HeaderType reads the message-type nibble out of a raw header byte without
// validating it against an expected type. Returns ErrUnknownMessageType if
// the tag is outside 0..4.
func HeaderType(b byte) (uint8, error) {
	t := (b >> 4) & 0x0F
	if t > TypeSystem {
		return 0, ErrUnknownMessageType
	}
	return t, nil
}

// padString copies s into dst and right-pads it with NUL bytes, truncating
// if s is longer than dst. Strings are not NUL-terminated on the wire: every
// byte of the field is payload.
func padString(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// trimString right-trims NUL and space padding from a fixed-width wire
// field, per spec §4.1/§9.
func trimString(src []byte) string {
	end := len(src)
	for end > 0 && (src[end-1] == 0 || src[end-1] == ' ') {
		end--
	}
	return string(src[:end])
}
