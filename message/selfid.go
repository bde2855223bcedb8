package message

// SelfID is the normative form of the Self-ID message.
type SelfID struct {
	DescType uint8 // 0..255
	Desc     string // up to 23 bytes
}

// EncodeSelfID writes s into buf as a 25-byte packed message.
func EncodeSelfID(buf []byte, s SelfID) (int, error) {
	if len(buf) < Size {
		return 0, ErrBufferTooSmall
	}

	buf[0] = header(TypeSelfID)
	buf[1] = s.DescType
	padString(buf[2:25], s.Desc)

	return Size, nil
}

// DecodeSelfID parses a 25-byte packed Self-ID message.
func DecodeSelfID(buf []byte) (SelfID, error) {
	if len(buf) < Size {
		return SelfID{}, ErrTruncated
	}
	if err := checkType(buf[0], TypeSelfID); err != nil {
		return SelfID{}, err
	}

	return SelfID{
		DescType: buf[1],
		Desc:     trimString(buf[2:25]),
	}, nil
}
