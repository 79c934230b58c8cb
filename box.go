// Package mp4 implements a read-only demultiplexer for the ISO Base Media
// File Format (ISO/IEC 14496-12), commonly known as MP4/MOV.
package mp4

// BoxType is a 4-byte box type identifier, usually rendered as four ASCII
// characters (a "fourcc").
type BoxType [4]byte

func (t BoxType) String() string {
	return string(t[:])
}

// Known box types. Only types the demuxer recognizes are dispatched; every
// other type is skipped by the walker.
var (
	TypeFtyp = BoxType{'f', 't', 'y', 'p'}
	TypeMoov = BoxType{'m', 'o', 'o', 'v'}
	TypeMvhd = BoxType{'m', 'v', 'h', 'd'}
	TypeTrak = BoxType{'t', 'r', 'a', 'k'}
	TypeTkhd = BoxType{'t', 'k', 'h', 'd'}
	TypeTref = BoxType{'t', 'r', 'e', 'f'}
	TypeMdia = BoxType{'m', 'd', 'i', 'a'}
	TypeMdhd = BoxType{'m', 'd', 'h', 'd'}
	TypeHdlr = BoxType{'h', 'd', 'l', 'r'}
	TypeMinf = BoxType{'m', 'i', 'n', 'f'}
	TypeVmhd = BoxType{'v', 'm', 'h', 'd'}
	TypeSmhd = BoxType{'s', 'm', 'h', 'd'}
	TypeHmhd = BoxType{'h', 'm', 'h', 'd'}
	TypeNmhd = BoxType{'n', 'm', 'h', 'd'}
	TypeDinf = BoxType{'d', 'i', 'n', 'f'}
	TypeDref = BoxType{'d', 'r', 'e', 'f'}
	TypeStbl = BoxType{'s', 't', 'b', 'l'}
	TypeStsd = BoxType{'s', 't', 's', 'd'}
	TypeStts = BoxType{'s', 't', 't', 's'}
	TypeStsc = BoxType{'s', 't', 's', 'c'}
	TypeStsz = BoxType{'s', 't', 's', 'z'}
	TypeStco = BoxType{'s', 't', 'c', 'o'}
	TypeCo64 = BoxType{'c', 'o', '6', '4'}
	TypeStss = BoxType{'s', 't', 's', 's'}

	// Metadata boxes.
	TypeMeta  = BoxType{'m', 'e', 't', 'a'}
	TypeUdta  = BoxType{'u', 'd', 't', 'a'}
	TypeKeys  = BoxType{'k', 'e', 'y', 's'}
	TypeIlst  = BoxType{'i', 'l', 's', 't'}
	TypeData  = BoxType{'d', 'a', 't', 'a'}
	TypeCovr  = BoxType{'c', 'o', 'v', 'r'}
	TypeMean  = BoxType{'m', 'e', 'a', 'n'}
	TypeName  = BoxType{'n', 'a', 'm', 'e'}
	TypeFree4 = BoxType{'-', '-', '-', '-'} // freeform ("----") tag container
	TypeXyz   = BoxType{0xA9, 'x', 'y', 'z'} // QuickTime location atom

	// Raw data boxes (no framing beyond the header; skipped by the walker).
	TypeMdat = BoxType{'m', 'd', 'a', 't'}
	TypeFree = BoxType{'f', 'r', 'e', 'e'}
	TypeSkip = BoxType{'s', 'k', 'i', 'p'}

	// Sample entry boxes.
	TypeAvc1 = BoxType{'a', 'v', 'c', '1'}
	TypeAvcC = BoxType{'a', 'v', 'c', 'C'}
	TypeMp4a = BoxType{'m', 'p', '4', 'a'}

	// Fragmented-MP4 boxes. Recognized only so the walker can name them in
	// diagnostics; none of these are parsed (fragmented MP4 is out of scope).
	TypeMoof = BoxType{'m', 'o', 'o', 'f'}
	TypeMfra = BoxType{'m', 'f', 'r', 'a'}
)

// IsFullBox returns true if the box type has version and flags fields
// (a 4-byte "full box" header) preceding its payload.
func IsFullBox(t BoxType) bool {
	switch t {
	case TypeMvhd, TypeTkhd, TypeMdhd, TypeHdlr,
		TypeVmhd, TypeSmhd, TypeHmhd, TypeNmhd, TypeDref, TypeStsd,
		TypeStts, TypeStsc, TypeStsz, TypeStco, TypeCo64, TypeStss,
		TypeKeys, TypeData:
		return true
	}
	return false
}

// meta is deliberately excluded from IsFullBox: the ISO form (directly
// under moov, no udta wrapper) has no version/flags field at all, while
// the QuickTime form (under udta) does. The walker skips those 4 bytes
// itself only in the udta case, rather than having Next assume one form
// universally.

// IsContainerBox returns true if the box type is a pure container that
// holds only child boxes (no payload of its own beyond an optional
// full-box header).
func IsContainerBox(t BoxType) bool {
	switch t {
	case TypeMoov, TypeTrak, TypeMdia, TypeMinf, TypeDinf,
		TypeStbl, TypeUdta, TypeMeta, TypeTref, TypeIlst:
		return true
	}
	return false
}

// isTagAtom reports whether t is one of the legacy QuickTime '\xA9'-prefixed
// tag atoms nested directly under udta/meta/ilst (\xA9ART, \xA9nam, ...).
func isTagAtom(t BoxType) bool {
	if t[0] != 0xA9 {
		return false
	}
	switch [3]byte{t[1], t[2], t[3]} {
	case [3]byte{'A', 'R', 'T'}, [3]byte{'n', 'a', 'm'}, [3]byte{'d', 'a', 'y'},
		[3]byte{'c', 'm', 't'}, [3]byte{'c', 'p', 'y'}, [3]byte{'m', 'a', 'k'},
		[3]byte{'m', 'o', 'd'}, [3]byte{'s', 'w', 'r'}, [3]byte{'t', 'o', 'o'}:
		return true
	}
	return false
}
