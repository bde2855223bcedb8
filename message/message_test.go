package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicIDEncodeDecodeScenarioA(t *testing.T) {
	b := BasicID{UASType: UASTypeLTAUnpowered, IDType: IDTypeCAAAssigned, UASID: "INSPIRE2-12345"}
	buf := make([]byte, Size)

	n, err := EncodeBasicID(buf, b)
	assert.NoError(t, err)
	assert.Equal(t, Size, n)

	assert.Equal(t, byte(0x00), buf[0])
	assert.Equal(t, byte(0x24), buf[1])

	got, err := DecodeBasicID(buf)
	assert.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestBasicIDEncodeBufferTooSmall(t *testing.T) {
	buf := make([]byte, Size-1)
	_, err := EncodeBasicID(buf, BasicID{})
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestBasicIDDecodeTruncated(t *testing.T) {
	_, err := DecodeBasicID(make([]byte, Size-1))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestBasicIDDecodeWrongType(t *testing.T) {
	buf := make([]byte, Size)
	buf[0] = header(TypeLocation)
	_, err := DecodeBasicID(buf)
	assert.ErrorIs(t, err, ErrUnknownMessageType)
}

func TestLocationEncodeDecodeRoundTrip(t *testing.T) {
	l := Location{
		Status:        StatusAirborne,
		SpeedNS:       12,
		SpeedEW:       8,
		SpeedVertical: -2,
		Latitude:      37.7749,
		Longitude:     -122.4194,
		AltitudeBaro:  100,
		AltitudeGeo:   100,
		HorizAccuracy: 1,
		VertAccuracy:  3,
		SpeedAccuracy: 0.3,
		TSAccuracy:    0.5,
		Timestamp:     123.4,
	}
	buf := make([]byte, Size)
	n, err := EncodeLocation(buf, l)
	assert.NoError(t, err)
	assert.Equal(t, Size, n)

	got, err := DecodeLocation(buf)
	assert.NoError(t, err)
	assert.Equal(t, l.Status, got.Status)
	assert.InDelta(t, l.SpeedNS, got.SpeedNS, 0.26)
	assert.InDelta(t, l.SpeedEW, got.SpeedEW, 0.26)
	assert.InDelta(t, l.Latitude, got.Latitude, 1e-6)
	assert.InDelta(t, l.Longitude, got.Longitude, 1e-6)
	assert.Equal(t, l.HorizAccuracy, got.HorizAccuracy)
	assert.Equal(t, l.VertAccuracy, got.VertAccuracy)
	assert.Equal(t, l.SpeedAccuracy, got.SpeedAccuracy)
	assert.Equal(t, l.TSAccuracy, got.TSAccuracy)
}

func TestLocationAccuracyFieldsUnknownRoundTrip(t *testing.T) {
	l := Location{Status: StatusAirborne}
	buf := make([]byte, Size)
	_, err := EncodeLocation(buf, l)
	assert.NoError(t, err)

	got, err := DecodeLocation(buf)
	assert.NoError(t, err)
	assert.Zero(t, got.HorizAccuracy)
	assert.Zero(t, got.VertAccuracy)
	assert.Zero(t, got.SpeedAccuracy)
	assert.Zero(t, got.TSAccuracy)
}

func TestSelfIDEncodeDecodeRoundTrip(t *testing.T) {
	s := SelfID{DescType: 1, Desc: "Survey flight"}
	buf := make([]byte, Size)
	_, err := EncodeSelfID(buf, s)
	assert.NoError(t, err)

	got, err := DecodeSelfID(buf)
	assert.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestAuthAllZeroTolerated(t *testing.T) {
	buf := make([]byte, Size)
	buf[0] = header(TypeAuth)

	got, err := DecodeAuth(buf)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), got.DataPage)
	assert.Equal(t, uint8(0), got.AuthType)
}

func TestSystemEncodeDecodeRoundTrip(t *testing.T) {
	s := System{
		LocationSource: LocationSourceLive,
		Latitude:       37.8,
		Longitude:      -122.3,
		GroupCount:     3,
		GroupRadius:    100,
		GroupCeiling:   50,
	}
	buf := make([]byte, Size)
	_, err := EncodeSystem(buf, s)
	assert.NoError(t, err)

	got, err := DecodeSystem(buf)
	assert.NoError(t, err)
	assert.Equal(t, s.LocationSource, got.LocationSource)
	assert.InDelta(t, s.Latitude, got.Latitude, 1e-6)
	assert.InDelta(t, s.Longitude, got.Longitude, 1e-6)
	assert.Equal(t, s.GroupCount, got.GroupCount)
}

func TestHeaderTypeRejectsOutOfRange(t *testing.T) {
	_, err := HeaderType(0xF0)
	assert.ErrorIs(t, err, ErrUnknownMessageType)
}

func TestTrimStringStripsNULAndSpacePadding(t *testing.T) {
	buf := make([]byte, Size)
	padString(buf[2:22], "HI")
	assert.Equal(t, "HI", trimString(buf[2:22]))
	assert.Equal(t, "HI", trimString([]byte("HI  \x00\x00")))
}
