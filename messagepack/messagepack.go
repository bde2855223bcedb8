// Package messagepack assembles and parses the ODID MessagePack: a short
// header followed by a concatenation of up to nine 25-byte Remote-ID
// messages (spec §4.3). "MessagePack" here is ODID's own term, unrelated
// to the general-purpose serialization format of the same name.
package messagepack

import (
	"errors"
	"fmt"

	"remoteid/message"
	"remoteid/telemetry"
)

// SingleMessageSize is the only value this package will assemble or accept
// in the header's single_message_size field.
const SingleMessageSize = message.Size

// MinMsgPackSize and MaxMsgPackSize bound msg_pack_size, per spec §3.
const (
	MinMsgPackSize = 1
	MaxMsgPackSize = 9
)

// canonicalSize is the message count the Assemble operation always emits:
// BasicID, Location, Auth, SelfID, System, in that fixed order.
const canonicalSize = 5

// headerSize is the 3-byte MessagePack header: version+type byte,
// single_message_size, msg_pack_size. Spec §4.3 corrects an earlier draft
// that implied a 4-byte header; payload begins immediately at byte 3.
const headerSize = 3

// ErrMalformed is returned by Parse when the header's declared sizes are
// inconsistent with each other or with the buffer actually supplied.
var ErrMalformed = errors.New("messagepack: malformed")

// Pack is the result of parsing a MessagePack. Only the messages actually
// present in the input are populated; absent messages (when msg_pack_size
// < 5, or the canonical five types are not all present) are left zero.
type Pack struct {
	BasicID  message.BasicID
	Location message.Location
	Auth     message.Auth
	SelfID   message.SelfID
	System   message.System

	// HaveBasicID etc. record which messages the input actually carried,
	// since a MessagePack is not required to carry all five.
	HaveBasicID  bool
	HaveLocation bool
	HaveAuth     bool
	HaveSelfID   bool
	HaveSystem   bool
}

// Assemble builds the canonical 128-byte MessagePack for uas: header plus
// BasicID, Location, Auth, SelfID, System, in that fixed order.
//
// The MessagePack header reuses the BasicID message-type tag (0) in its
// own type nibble; this is a spec quirk (see spec §9) carried over from
// the reference encoder (original_source/libopendroneid/wifi.c sets
// outPack->MessageType = 0). Callers must not treat that leading byte as a
// message-type discriminator — Parse below never does.
func Assemble(uas telemetry.Snapshot) ([]byte, error) {
	buf := make([]byte, headerSize+canonicalSize*SingleMessageSize)

	buf[0] = (message.TypeBasicID << 4) | (message.ProtocolVersion & 0x0F) // see doc above: reuses BasicID's tag
	buf[1] = SingleMessageSize
	buf[2] = canonicalSize

	encoders := []func([]byte) (int, error){
		func(b []byte) (int, error) { return message.EncodeBasicID(b, uas.BasicID) },
		func(b []byte) (int, error) { return message.EncodeLocation(b, uas.Location) },
		func(b []byte) (int, error) { return message.EncodeAuth(b, uas.Auth) },
		func(b []byte) (int, error) { return message.EncodeSelfID(b, uas.SelfID) },
		func(b []byte) (int, error) { return message.EncodeSystem(b, uas.System) },
	}

	for i, encode := range encoders {
		start := headerSize + i*SingleMessageSize
		if _, err := encode(buf[start : start+SingleMessageSize]); err != nil {
			return nil, fmt.Errorf("messagepack: encoding message %d: %w", i, err)
		}
	}

	return buf, nil
}

// Parse splits buf into its header and constituent messages, dispatching
// each by its own message-type nibble rather than by position — a
// MessagePack is not required to list messages in canonical order, though
// Assemble always does.
func Parse(buf []byte) (Pack, error) {
	if len(buf) < headerSize {
		return Pack{}, fmt.Errorf("messagepack: %w: shorter than header", ErrMalformed)
	}

	singleSize := buf[1]
	packSize := int(buf[2])

	if singleSize != SingleMessageSize {
		return Pack{}, fmt.Errorf("messagepack: %w: single_message_size %d != %d", ErrMalformed, singleSize, SingleMessageSize)
	}
	if packSize < MinMsgPackSize || packSize > MaxMsgPackSize {
		return Pack{}, fmt.Errorf("messagepack: %w: msg_pack_size %d out of [%d,%d]", ErrMalformed, packSize, MinMsgPackSize, MaxMsgPackSize)
	}

	wantLen := headerSize + packSize*int(singleSize)
	if len(buf) != wantLen {
		return Pack{}, fmt.Errorf("messagepack: %w: buffer length %d != %d", ErrMalformed, len(buf), wantLen)
	}

	var p Pack
	for i := 0; i < packSize; i++ {
		start := headerSize + i*int(singleSize)
		msg := buf[start : start+int(singleSize)]

		msgType, err := message.HeaderType(msg[0])
		if err != nil {
			return Pack{}, fmt.Errorf("messagepack: message %d: %w", i, err)
		}

		switch msgType {
		case message.TypeBasicID:
			v, err := message.DecodeBasicID(msg)
			if err != nil {
				return Pack{}, fmt.Errorf("messagepack: message %d: %w", i, err)
			}
			p.BasicID, p.HaveBasicID = v, true
		case message.TypeLocation:
			v, err := message.DecodeLocation(msg)
			if err != nil {
				return Pack{}, fmt.Errorf("messagepack: message %d: %w", i, err)
			}
			p.Location, p.HaveLocation = v, true
		case message.TypeAuth:
			v, err := message.DecodeAuth(msg)
			if err != nil {
				return Pack{}, fmt.Errorf("messagepack: message %d: %w", i, err)
			}
			p.Auth, p.HaveAuth = v, true
		case message.TypeSelfID:
			v, err := message.DecodeSelfID(msg)
			if err != nil {
				return Pack{}, fmt.Errorf("messagepack: message %d: %w", i, err)
			}
			p.SelfID, p.HaveSelfID = v, true
		case message.TypeSystem:
			v, err := message.DecodeSystem(msg)
			if err != nil {
				return Pack{}, fmt.Errorf("messagepack: message %d: %w", i, err)
			}
			p.System, p.HaveSystem = v, true
		}
	}

	return p, nil
}

// Snapshot reconstructs a telemetry.Snapshot from a parsed Pack. Fields
// for messages the pack did not carry are left at their zero value.
func (p Pack) Snapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		BasicID:  p.BasicID,
		Location: p.Location,
		Auth:     p.Auth,
		SelfID:   p.SelfID,
		System:   p.System,
	}
}
