package message

// BasicID is the normative (host-native) form of the BasicID message.
type BasicID struct {
	UASType uint8  // 0..15, see UASType* constants
	IDType  uint8  // 0..15, see IDType* constants
	UASID   string // up to 20 printable bytes
}

// EncodeBasicID writes b into buf as a 25-byte packed message.
//
// Byte 0: header (version | TypeBasicID<<4).
// Byte 1: low nibble = UASType, high nibble = IDType.
// Bytes 2..21: UASID, NUL-padded.
// Bytes 22..24: reserved, zero.
func EncodeBasicID(buf []byte, b BasicID) (int, error) {
	if len(buf) < Size {
		return 0, ErrBufferTooSmall
	}

	buf[0] = header(TypeBasicID)
	buf[1] = (b.IDType&0x0F)<<4 | (b.UASType & 0x0F)
	padString(buf[2:22], b.UASID)
	buf[22] = 0
	buf[23] = 0
	buf[24] = 0

	return Size, nil
}

// DecodeBasicID parses a 25-byte packed BasicID message.
func DecodeBasicID(buf []byte) (BasicID, error) {
	if len(buf) < Size {
		return BasicID{}, ErrTruncated
	}
	if err := checkType(buf[0], TypeBasicID); err != nil {
		return BasicID{}, err
	}

	return BasicID{
		UASType: buf[1] & 0x0F,
		IDType:  (buf[1] >> 4) & 0x0F,
		UASID:   trimString(buf[2:22]),
	}, nil
}
