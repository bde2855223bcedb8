package message

import (
	"encoding/binary"

	"remoteid/quantize"
)

// Location is the normative form of the Location/Vector message. Speeds are
// kept signed in host units; see quantize.EncodeSpeedH for the horizontal
// sign-loss that happens only at the wire boundary.
type Location struct {
	Status uint8 // 0..15, see Status* constants

	SpeedNS       float64 // m/s, signed
	SpeedEW       float64 // m/s, signed
	SpeedVertical float64 // m/s, signed

	Latitude  float64 // degrees
	Longitude float64 // degrees

	AltitudeBaro       float64 // metres
	AltitudeGeo        float64 // metres
	HeightAboveTakeoff float64 // metres

	HorizAccuracy float64 // metres, bucketed on encode via quantize.EncodeHorizAccuracy
	VertAccuracy  float64 // metres, bucketed on encode via quantize.EncodeVertAccuracy
	SpeedAccuracy float64 // m/s, bucketed on encode via quantize.EncodeSpeedAccuracy
	TSAccuracy    float64 // seconds, bucketed on encode via quantize.EncodeTSAccuracy

	Timestamp float64 // seconds since the top of the current UTC hour, [0, 3600)
}

// EncodeLocation writes l into buf as a 25-byte packed message.
func EncodeLocation(buf []byte, l Location) (int, error) {
	if len(buf) < Size {
		return 0, ErrBufferTooSmall
	}

	nsVal, nsMult := quantize.EncodeSpeedH(l.SpeedNS)
	ewVal, ewMult := quantize.EncodeSpeedH(l.SpeedEW)

	buf[0] = header(TypeLocation)

	// Byte 1: bit0=EWMult, bit1=NSMult, bits2-3 reserved, bits4-7=Status.
	var b1 byte
	if ewMult {
		b1 |= 1 << 0
	}
	if nsMult {
		b1 |= 1 << 1
	}
	b1 |= (l.Status & 0x0F) << 4
	buf[1] = b1

	buf[2] = nsVal
	buf[3] = ewVal
	buf[4] = byte(quantize.EncodeSpeedVertical(l.SpeedVertical))

	binary.LittleEndian.PutUint32(buf[5:9], uint32(quantize.EncodeLatLon(l.Latitude)))
	binary.LittleEndian.PutUint32(buf[9:13], uint32(quantize.EncodeLatLon(l.Longitude)))

	binary.LittleEndian.PutUint16(buf[13:15], quantize.EncodeAltitude(l.AltitudeBaro))
	binary.LittleEndian.PutUint16(buf[15:17], quantize.EncodeAltitude(l.AltitudeGeo))
	binary.LittleEndian.PutUint16(buf[17:19], quantize.EncodeAltitude(l.HeightAboveTakeoff))

	horizAcc := quantize.EncodeHorizAccuracy(l.HorizAccuracy)
	vertAcc := quantize.EncodeVertAccuracy(l.VertAccuracy)
	buf[19] = (vertAcc&0x0F)<<4 | (horizAcc & 0x0F)

	speedAcc := quantize.EncodeSpeedAccuracy(l.SpeedAccuracy)
	tsAcc := quantize.EncodeTSAccuracy(l.TSAccuracy)
	buf[20] = (tsAcc&0x0F)<<4 | (speedAcc & 0x0F)

	binary.LittleEndian.PutUint16(buf[21:23], quantize.EncodeTimestamp(l.Timestamp))

	buf[23] = 0
	buf[24] = 0

	return Size, nil
}

// DecodeLocation parses a 25-byte packed Location message. Horizontal
// speeds decode as unsigned magnitudes: the wire format carries no sign
// bit for SpeedNS/SpeedEW (see quantize.EncodeSpeedH), so the
// returned Location's SpeedNS/SpeedEW are always >= 0.
func DecodeLocation(buf []byte) (Location, error) {
	if len(buf) < Size {
		return Location{}, ErrTruncated
	}
	if err := checkType(buf[0], TypeLocation); err != nil {
		return Location{}, err
	}

	b1 := buf[1]
	ewMult := b1&(1<<0) != 0
	nsMult := b1&(1<<1) != 0
	status := (b1 >> 4) & 0x0F

	lat := int32(binary.LittleEndian.Uint32(buf[5:9]))
	lon := int32(binary.LittleEndian.Uint32(buf[9:13]))

	return Location{
		Status:             status,
		SpeedNS:            quantize.DecodeSpeedH(buf[2], nsMult),
		SpeedEW:            quantize.DecodeSpeedH(buf[3], ewMult),
		SpeedVertical:      quantize.DecodeSpeedVertical(int8(buf[4])),
		Latitude:           quantize.DecodeLatLon(lat),
		Longitude:          quantize.DecodeLatLon(lon),
		AltitudeBaro:       quantize.DecodeAltitude(binary.LittleEndian.Uint16(buf[13:15])),
		AltitudeGeo:        quantize.DecodeAltitude(binary.LittleEndian.Uint16(buf[15:17])),
		HeightAboveTakeoff: quantize.DecodeAltitude(binary.LittleEndian.Uint16(buf[17:19])),
		HorizAccuracy:      quantize.DecodeHorizAccuracy(buf[19] & 0x0F),
		VertAccuracy:       quantize.DecodeVertAccuracy((buf[19] >> 4) & 0x0F),
		SpeedAccuracy:      quantize.DecodeSpeedAccuracy(buf[20] & 0x0F),
		TSAccuracy:         quantize.DecodeTSAccuracy((buf[20] >> 4) & 0x0F),
		Timestamp:          quantize.DecodeTimestamp(binary.LittleEndian.Uint16(buf[21:23])),
	}, nil
}
