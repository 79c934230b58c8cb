package mp4

import "encoding/binary"

// box wraps payload in a plain (non-full) box header.
func box(typ string, payload []byte) []byte {
	if len(typ) != 4 {
		panic("box type must be 4 characters")
	}
	out := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(payload)))
	copy(out[4:8], typ)
	copy(out[8:], payload)
	return out
}

// rawBox is like box but the type is given as raw bytes (for non-ASCII
// fourccs like the 0xA9-prefixed QuickTime tag atoms).
func rawBox(typ [4]byte, payload []byte) []byte {
	out := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(out[0:4], uint32(8+len(payload)))
	copy(out[4:8], typ[:])
	copy(out[8:], payload)
	return out
}

// fullBox wraps payload in a full-box header (version + 24-bit flags)
// before handing it to box.
func fullBox(typ string, version uint8, flags uint32, payload []byte) []byte {
	vf := make([]byte, 4)
	vf[0] = version
	vf[1] = byte(flags >> 16)
	vf[2] = byte(flags >> 8)
	vf[3] = byte(flags)
	return box(typ, append(vf, payload...))
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func beU16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func beU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func beU64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
