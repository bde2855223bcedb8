// Package broadcast wraps a MessagePack in the 802.11 management-action /
// NAN Service Discovery envelope that carries it over the air, and parses
// that envelope back out on receive. Grounded directly on
// original_source/libopendroneid/wifi.c's
// odid_wifi_build_message_pack_nan_action_frame, re-expressed as explicit
// byte-offset serialization with encoding/binary instead of C packed
// structs (spec §9), in the style of an idiomatic Go 802.11 frame type
// (see the ethernet.Frame80211 reference in the retrieval pack).
package broadcast

import (
	"encoding/binary"
	"errors"
	"fmt"

	"remoteid/messagepack"
	"remoteid/telemetry"
)

// Wire constants for the NAN Service Discovery / ODID envelope.
const (
	frameControlMgmtAction = 0x00D0

	nanCategory    = 0x04
	nanActionCode  = 0x09
	nanOUIType     = 0x13

	sdaAttributeID       = 0x03
	sdaInstanceID        = 0x01
	sdaRequestorInstance = 0x00
	sdaServiceControl    = 0x10
)

var (
	broadcastAddr = [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	wifiAllianceOUI = [3]byte{0x50, 0x6F, 0x9A}
	// serviceID is the 6-byte hash identifying "org.opendroneid.remoteid".
	serviceID = [6]byte{0x88, 0x69, 0x19, 0x9D, 0x92, 0x09}
)

// Section lengths, in bytes, of the nested envelopes.
const (
	mgmtHeaderSize = 24 // frame_control, duration, da, sa, bssid, seq_ctrl
	nanHeaderSize  = 6  // category, action_code, oui, oui_type
	sdaHeaderSize  = 3  // attribute_id, length
	sdaBodySize    = 10 // service_id(6) + instance_id + requestor_instance_id + service_control + service_info_length
	counterSize    = 1
)

// ErrNotOurFrame is returned by Parse when the frame's discriminators
// (frame_control, category, action_code, OUI, oui_type) do not identify a
// NAN action frame at all. It is a filter outcome, not an error: callers
// should drop the frame silently.
var ErrNotOurFrame = errors.New("broadcast: not our frame")

// ErrMalformedFrame is returned by Parse when the frame is recognizably a
// NAN action frame but violates an envelope constraint (wrong attribute_id,
// service id or service_control, inconsistent length fields) or carries a
// MessagePack that fails to parse.
var ErrMalformedFrame = errors.New("broadcast: malformed frame")

// Frame is the result of parsing a broadcast action frame.
type Frame struct {
	SenderMAC [6]byte
	Counter   uint8
	Pack      messagepack.Pack
}

// Build assembles uas into a MessagePack and wraps it in a complete 802.11
// management-action / NAN Service Discovery frame ready for injection.
// mac is the caller's wifi interface address; counter is the caller-chosen
// per-sender sequence number (spec §5 — wraps at 256, acceptable because
// each frame is self-contained).
func Build(uas telemetry.Snapshot, mac [6]byte, counter uint8) ([]byte, error) {
	pack, err := messagepack.Assemble(uas)
	if err != nil {
		return nil, fmt.Errorf("broadcast: %w", err)
	}

	serviceInfoLength := counterSize + len(pack)
	// wifi.c's odid_wifi_build_message_pack_nan_action_frame sets
	// nsda->length = sizeof(*nsda) + nsda->service_info_length, where
	// sizeof(*nsda) is the whole Service Descriptor Attribute struct
	// (attribute_id + length + the sdaBodySize body) — not just the body
	// following the length field.
	attributeLength := sdaHeaderSize + sdaBodySize + serviceInfoLength

	total := mgmtHeaderSize + nanHeaderSize + sdaHeaderSize + sdaBodySize + serviceInfoLength
	buf := make([]byte, total)

	// 802.11 management action header.
	binary.LittleEndian.PutUint16(buf[0:2], frameControlMgmtAction)
	binary.LittleEndian.PutUint16(buf[2:4], 0) // duration
	copy(buf[4:10], broadcastAddr[:])          // da
	copy(buf[10:16], mac[:])                   // sa
	copy(buf[16:22], mac[:])                   // bssid
	binary.LittleEndian.PutUint16(buf[22:24], 0) // seq_ctrl

	off := mgmtHeaderSize

	// NAN Service Discovery header.
	buf[off+0] = nanCategory
	buf[off+1] = nanActionCode
	copy(buf[off+2:off+5], wifiAllianceOUI[:])
	buf[off+5] = nanOUIType
	off += nanHeaderSize

	// Service Descriptor Attribute header + body.
	sdaStart := off
	buf[sdaStart] = sdaAttributeID
	binary.LittleEndian.PutUint16(buf[sdaStart+1:sdaStart+3], uint16(attributeLength))
	off += sdaHeaderSize

	copy(buf[off:off+6], serviceID[:])
	buf[off+6] = sdaInstanceID
	buf[off+7] = sdaRequestorInstance
	buf[off+8] = sdaServiceControl
	buf[off+9] = byte(serviceInfoLength)
	off += sdaBodySize

	// ODID Service Info: counter byte followed by the MessagePack.
	buf[off] = counter
	off += counterSize
	copy(buf[off:], pack)

	return buf, nil
}

// Parse reverses Build: it verifies the 802.11/NAN/service-id discriminators,
// extracts the counter byte, and hands the remainder to messagepack.Parse.
func Parse(buf []byte) (Frame, error) {
	if len(buf) < mgmtHeaderSize+nanHeaderSize+sdaHeaderSize+sdaBodySize {
		return Frame{}, fmt.Errorf("%w: shorter than envelope", ErrMalformedFrame)
	}

	fc := binary.LittleEndian.Uint16(buf[0:2])
	if fc != frameControlMgmtAction {
		return Frame{}, ErrNotOurFrame
	}

	off := mgmtHeaderSize
	if buf[off+0] != nanCategory || buf[off+1] != nanActionCode {
		return Frame{}, ErrNotOurFrame
	}
	if [3]byte{buf[off+2], buf[off+3], buf[off+4]} != wifiAllianceOUI {
		return Frame{}, ErrNotOurFrame
	}
	if buf[off+5] != nanOUIType {
		return Frame{}, ErrNotOurFrame
	}
	off += nanHeaderSize

	var frame Frame
	copy(frame.SenderMAC[:], buf[10:16])

	if buf[off] != sdaAttributeID {
		return Frame{}, fmt.Errorf("%w: attribute_id %#x", ErrMalformedFrame, buf[off])
	}
	attributeLength := int(binary.LittleEndian.Uint16(buf[off+1 : off+3]))
	off += sdaHeaderSize

	sdaBody := buf[off:]
	if len(sdaBody) < sdaBodySize {
		return Frame{}, fmt.Errorf("%w: service descriptor body truncated", ErrMalformedFrame)
	}

	var gotServiceID [6]byte
	copy(gotServiceID[:], sdaBody[0:6])
	if gotServiceID != serviceID {
		return Frame{}, fmt.Errorf("%w: service_id mismatch", ErrMalformedFrame)
	}

	if sdaBody[8] != sdaServiceControl {
		return Frame{}, fmt.Errorf("%w: service_control %#x", ErrMalformedFrame, sdaBody[8])
	}

	serviceInfoLength := int(sdaBody[9])
	wantAttributeLength := sdaHeaderSize + sdaBodySize + serviceInfoLength
	if attributeLength != wantAttributeLength {
		return Frame{}, fmt.Errorf("%w: attribute_length %d != %d", ErrMalformedFrame, attributeLength, wantAttributeLength)
	}

	off += sdaBodySize
	serviceInfo := buf[off:]
	if len(serviceInfo) != serviceInfoLength {
		return Frame{}, fmt.Errorf("%w: service_info_length %d != remaining %d bytes", ErrMalformedFrame, serviceInfoLength, len(serviceInfo))
	}
	if len(serviceInfo) < counterSize {
		return Frame{}, fmt.Errorf("%w: service info shorter than counter", ErrMalformedFrame)
	}

	frame.Counter = serviceInfo[0]

	pack, err := messagepack.Parse(serviceInfo[counterSize:])
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	frame.Pack = pack

	return frame, nil
}
