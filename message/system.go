package message

import (
	"encoding/binary"

	"remoteid/quantize"
)

// System is the normative form of the System (Operator) message.
type System struct {
	LocationSource uint8 // 0=takeoff, 1=live, see LocationSource* constants

	Latitude  float64 // operator latitude, degrees
	Longitude float64 // operator longitude, degrees

	GroupCount   int16
	GroupRadius  float64 // metres
	GroupCeiling float64 // metres
}

// EncodeSystem writes s into buf as a 25-byte packed message.
func EncodeSystem(buf []byte, s System) (int, error) {
	if len(buf) < Size {
		return 0, ErrBufferTooSmall
	}

	buf[0] = header(TypeSystem)
	buf[1] = s.LocationSource & 0x01

	binary.LittleEndian.PutUint32(buf[2:6], uint32(quantize.EncodeLatLon(s.Latitude)))
	binary.LittleEndian.PutUint32(buf[6:10], uint32(quantize.EncodeLatLon(s.Longitude)))

	binary.LittleEndian.PutUint16(buf[10:12], uint16(s.GroupCount))
	buf[12] = byte(quantize.EncodeGroupRadius(s.GroupRadius))
	binary.LittleEndian.PutUint16(buf[13:15], uint16(quantize.EncodeGroupCeiling(s.GroupCeiling)))

	for i := 15; i < 25; i++ {
		buf[i] = 0
	}

	return Size, nil
}

// DecodeSystem parses a 25-byte packed System message.
func DecodeSystem(buf []byte) (System, error) {
	if len(buf) < Size {
		return System{}, ErrTruncated
	}
	if err := checkType(buf[0], TypeSystem); err != nil {
		return System{}, err
	}

	lat := int32(binary.LittleEndian.Uint32(buf[2:6]))
	lon := int32(binary.LittleEndian.Uint32(buf[6:10]))

	return System{
		LocationSource: buf[1] & 0x01,
		Latitude:       quantize.DecodeLatLon(lat),
		Longitude:      quantize.DecodeLatLon(lon),
		GroupCount:     int16(binary.LittleEndian.Uint16(buf[10:12])),
		GroupRadius:    quantize.DecodeGroupRadius(int8(buf[12])),
		GroupCeiling:   quantize.DecodeGroupCeiling(int16(binary.LittleEndian.Uint16(buf[13:15]))),
	}, nil
}
