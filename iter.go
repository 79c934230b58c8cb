package mp4

import (
	"encoding/binary"
)

var be = binary.BigEndian

// StszIter iterates over sample sizes in an stsz box: either sampleCount
// copies of a constant size, or sampleCount explicit per-sample sizes.
type StszIter struct {
	buf        []byte
	sampleSize uint32
	count      uint32
	index      uint32
}

// NewStszIter creates an iterator from stsz box data.
func NewStszIter(data []byte) StszIter {
	if len(data) < 8 {
		return StszIter{}
	}
	return StszIter{
		buf:        data,
		sampleSize: be.Uint32(data[0:4]),
		count:      be.Uint32(data[4:8]),
	}
}

// ConstantSize returns the constant sample size, or 0 if sizes vary.
func (it *StszIter) ConstantSize() uint32 { return it.sampleSize }

// Count returns the total number of samples.
func (it *StszIter) Count() uint32 { return it.count }

// Next returns the next sample size. Returns (0, false) when done.
func (it *StszIter) Next() (uint32, bool) {
	if it.index >= it.count {
		return 0, false
	}
	var size uint32
	if it.sampleSize != 0 {
		size = it.sampleSize
	} else {
		offset := 8 + int(it.index)*4
		if offset+4 > len(it.buf) {
			return 0, false
		}
		size = be.Uint32(it.buf[offset:])
	}
	it.index++
	return size, true
}

// Co64Iter iterates over uint64 chunk offsets in a co64 box.
type Co64Iter struct {
	buf   []byte
	count uint32
	index uint32
}

// NewCo64Iter creates an iterator from co64 box data.
func NewCo64Iter(data []byte) Co64Iter {
	if len(data) < 4 {
		return Co64Iter{}
	}
	return Co64Iter{
		buf:   data,
		count: be.Uint32(data[0:4]),
	}
}

// Count returns the total number of entries.
func (it *Co64Iter) Count() uint32 { return it.count }

// Next returns the next chunk offset. Returns (0, false) when done.
func (it *Co64Iter) Next() (uint64, bool) {
	if it.index >= it.count {
		return 0, false
	}
	offset := 4 + int(it.index)*8
	if offset+8 > len(it.buf) {
		return 0, false
	}
	v := be.Uint64(it.buf[offset:])
	it.index++
	return v, true
}

// SttsEntry is a decoding-time-to-sample run-length entry.
type SttsEntry struct {
	Count uint32
	Delta uint32
}

// SttsIter iterates over stts entries.
type SttsIter struct {
	buf   []byte
	count uint32
	index uint32
}

// NewSttsIter creates an iterator from stts box data.
func NewSttsIter(data []byte) SttsIter {
	if len(data) < 4 {
		return SttsIter{}
	}
	return SttsIter{
		buf:   data,
		count: be.Uint32(data[0:4]),
	}
}

// Count returns the total number of entries.
func (it *SttsIter) Count() uint32 { return it.count }

// Next returns the next entry. Returns false when done.
func (it *SttsIter) Next() (SttsEntry, bool) {
	if it.index >= it.count {
		return SttsEntry{}, false
	}
	offset := 4 + int(it.index)*8
	if offset+8 > len(it.buf) {
		return SttsEntry{}, false
	}
	e := SttsEntry{
		Count: be.Uint32(it.buf[offset:]),
		Delta: be.Uint32(it.buf[offset+4:]),
	}
	it.index++
	return e, true
}

// StscEntry is a sample-to-chunk run-length entry. FirstChunk is 1-based,
// as read from disk.
type StscEntry struct {
	FirstChunk          uint32
	SamplesPerChunk     uint32
	SampleDescriptionID uint32
}

// StscIter iterates over stsc entries.
type StscIter struct {
	buf   []byte
	count uint32
	index uint32
}

// NewStscIter creates an iterator from stsc box data.
func NewStscIter(data []byte) StscIter {
	if len(data) < 4 {
		return StscIter{}
	}
	return StscIter{
		buf:   data,
		count: be.Uint32(data[0:4]),
	}
}

// Count returns the total number of entries.
func (it *StscIter) Count() uint32 { return it.count }

// Next returns the next entry. Returns false when done.
func (it *StscIter) Next() (StscEntry, bool) {
	if it.index >= it.count {
		return StscEntry{}, false
	}
	offset := 4 + int(it.index)*12
	if offset+12 > len(it.buf) {
		return StscEntry{}, false
	}
	e := StscEntry{
		FirstChunk:          be.Uint32(it.buf[offset:]),
		SamplesPerChunk:     be.Uint32(it.buf[offset+4:]),
		SampleDescriptionID: be.Uint32(it.buf[offset+8:]),
	}
	it.index++
	return e, true
}

// Uint32Iter iterates over a count-prefixed array of uint32 entries, used
// for both stco (chunk offsets) and stss (sync sample numbers).
type Uint32Iter struct {
	buf   []byte
	count uint32
	index uint32
}

// NewUint32Iter creates an iterator from box data containing a count
// followed by that many uint32 entries.
func NewUint32Iter(data []byte) Uint32Iter {
	if len(data) < 4 {
		return Uint32Iter{}
	}
	return Uint32Iter{
		buf:   data,
		count: be.Uint32(data[0:4]),
	}
}

// Count returns the total number of entries.
func (it *Uint32Iter) Count() uint32 { return it.count }

// Next returns the next entry. Returns (0, false) when done.
func (it *Uint32Iter) Next() (uint32, bool) {
	if it.index >= it.count {
		return 0, false
	}
	offset := 4 + int(it.index)*4
	if offset+4 > len(it.buf) {
		return 0, false
	}
	v := be.Uint32(it.buf[offset:])
	it.index++
	return v, true
}

// FtypInfo holds the parsed fields from an ftyp box. Recorded for
// diagnostics only; nothing downstream depends on it semantically.
type FtypInfo struct {
	MajorBrand   [4]byte
	MinorVersion uint32
	Compatible   [][4]byte
}

// ReadFtyp parses an ftyp box.
func ReadFtyp(data []byte) FtypInfo {
	if len(data) < 8 {
		return FtypInfo{}
	}
	f := FtypInfo{
		MinorVersion: be.Uint32(data[4:8]),
	}
	copy(f.MajorBrand[:], data[0:4])
	for i := 8; i+4 <= len(data); i += 4 {
		var b [4]byte
		copy(b[:], data[i:i+4])
		f.Compatible = append(f.Compatible, b)
	}
	return f
}

// VisualSampleEntry holds the fields of a video sample entry's fixed
// 78-byte preamble (e.g. avc1). Child boxes such as avcC follow at
// ChildOffset.
type VisualSampleEntry struct {
	DataReferenceIndex uint16
	Width              uint16
	Height             uint16
	CompressorName     string
	Depth              uint16
	ChildOffset        int
}

// ReadVisualSampleEntry parses the fixed preamble of a visual sample entry.
func ReadVisualSampleEntry(data []byte) VisualSampleEntry {
	if len(data) < 78 {
		return VisualSampleEntry{}
	}
	nameLen := min(int(data[42]), 31)
	return VisualSampleEntry{
		DataReferenceIndex: be.Uint16(data[6:8]),
		Width:              be.Uint16(data[24:26]),
		Height:             be.Uint16(data[26:28]),
		CompressorName:     string(data[43 : 43+nameLen]),
		Depth:              be.Uint16(data[74:76]),
		ChildOffset:        78,
	}
}

// AudioSampleEntry holds the fields of an audio sample entry's fixed
// 28-byte preamble (e.g. mp4a).
type AudioSampleEntry struct {
	DataReferenceIndex uint16
	ChannelCount       uint16
	SampleSizeBits     uint16
	SampleRate         uint32 // 16.16 fixed point
	ChildOffset        int
}

// ReadAudioSampleEntry parses the fixed preamble of an audio sample entry.
func ReadAudioSampleEntry(data []byte) AudioSampleEntry {
	if len(data) < 28 {
		return AudioSampleEntry{}
	}
	return AudioSampleEntry{
		DataReferenceIndex: be.Uint16(data[6:8]),
		ChannelCount:       be.Uint16(data[16:18]),
		SampleSizeBits:     be.Uint16(data[18:20]),
		SampleRate:         be.Uint32(data[24:28]),
		ChildOffset:        28,
	}
}

// AvcConfig holds the fields this demuxer extracts from an avcC (AVC
// decoder configuration record) box: the profile triple and the first SPS
// and PPS blobs, verbatim.
type AvcConfig struct {
	ConfigurationVersion uint8
	Profile              uint8
	ProfileCompatibility uint8
	Level                uint8
	SPS                  []byte // first SPS, verbatim; nil if none present
	PPS                  []byte // first PPS, verbatim; nil if none present
}

// ReadAvcC parses an avcC box. Profile/compatibility/level are read as a
// plain ordered byte triple — applying a network-order round-trip (htonl)
// to this field is a no-op on big-endian hosts and corrupts it on
// little-endian hosts, so this reads data[1], data[2], data[3] directly.
//
// Only the first SPS and first PPS are kept; any additional parameter
// sets some encoders embed are skipped, matching the raw-blob-only scope
// of this demuxer (no further codec parameter parsing is performed).
func ReadAvcC(data []byte) AvcConfig {
	if len(data) < 6 {
		return AvcConfig{}
	}
	cfg := AvcConfig{
		ConfigurationVersion: data[0],
		Profile:              data[1],
		ProfileCompatibility: data[2],
		Level:                data[3],
	}
	pos := 5 // skip configurationVersion,profile,compat,level, and lengthSizeMinusOne|reserved byte
	if pos >= len(data) {
		return cfg
	}
	spsCount := int(data[pos] & 0x1f)
	pos++
	for i := 0; i < spsCount; i++ {
		if pos+2 > len(data) {
			return cfg
		}
		n := int(be.Uint16(data[pos : pos+2]))
		pos += 2
		if pos+n > len(data) {
			return cfg
		}
		if i == 0 {
			cfg.SPS = data[pos : pos+n : pos+n]
		}
		pos += n
	}
	if pos >= len(data) {
		return cfg
	}
	ppsCount := int(data[pos])
	pos++
	for i := 0; i < ppsCount; i++ {
		if pos+2 > len(data) {
			return cfg
		}
		n := int(be.Uint16(data[pos : pos+2]))
		pos += 2
		if pos+n > len(data) {
			return cfg
		}
		if i == 0 {
			cfg.PPS = data[pos : pos+n : pos+n]
		}
		pos += n
	}
	return cfg
}
