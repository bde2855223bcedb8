package messagepack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"remoteid/message"
	"remoteid/telemetry"
)

func sampleSnapshot() telemetry.Snapshot {
	return telemetry.Snapshot{
		BasicID: message.BasicID{UASType: message.UASTypeRotorcraft, IDType: message.IDTypeSerialNumber, UASID: "INSPIRE2-12345"},
		Location: message.Location{
			Status:    message.StatusAirborne,
			SpeedNS:   12,
			SpeedEW:   8,
			Latitude:  37.7749,
			Longitude: -122.4194,
		},
		SelfID: message.SelfID{Desc: "Survey flight"},
		System: message.System{Latitude: 37.78, Longitude: -122.41},
	}
}

func TestAssembleSizeAndHeader(t *testing.T) {
	pack, err := Assemble(sampleSnapshot())
	assert.NoError(t, err)
	assert.Len(t, pack, headerSize+canonicalSize*SingleMessageSize)

	assert.Equal(t, byte(message.ProtocolVersion), pack[0]&0x0F)
	assert.Equal(t, byte(message.Size), pack[1])
	assert.Equal(t, byte(canonicalSize), pack[2])
}

func TestAssembleMessageOffsetsScenarioD(t *testing.T) {
	pack, err := Assemble(sampleSnapshot())
	assert.NoError(t, err)

	offsets := []int{3, 28, 53, 78, 103}
	wantTypes := []uint8{message.TypeBasicID, message.TypeLocation, message.TypeAuth, message.TypeSelfID, message.TypeSystem}

	for i, off := range offsets {
		got, err := message.HeaderType(pack[off])
		assert.NoError(t, err)
		assert.Equal(t, wantTypes[i], got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	pack, err := Assemble(snap)
	assert.NoError(t, err)

	parsed, err := Parse(pack)
	assert.NoError(t, err)
	assert.True(t, parsed.HaveBasicID)
	assert.True(t, parsed.HaveLocation)
	assert.True(t, parsed.HaveAuth)
	assert.True(t, parsed.HaveSelfID)
	assert.True(t, parsed.HaveSystem)

	assert.Equal(t, snap.BasicID.UASID, parsed.BasicID.UASID)
	assert.Equal(t, snap.SelfID.Desc, parsed.SelfID.Desc)

	got := parsed.Snapshot()
	assert.Equal(t, snap.BasicID.UASID, got.BasicID.UASID)
}

func TestParseRejectsWrongSingleMessageSize(t *testing.T) {
	pack, err := Assemble(sampleSnapshot())
	assert.NoError(t, err)
	pack[1] = 10

	_, err = Parse(pack)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseRejectsOutOfRangePackSize(t *testing.T) {
	pack, err := Assemble(sampleSnapshot())
	assert.NoError(t, err)
	pack[2] = 0

	_, err = Parse(pack)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseRejectsInconsistentLength(t *testing.T) {
	pack, err := Assemble(sampleSnapshot())
	assert.NoError(t, err)

	_, err = Parse(pack[:len(pack)-1])
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseRejectsShortHeader(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x19})
	assert.ErrorIs(t, err, ErrMalformed)
}
