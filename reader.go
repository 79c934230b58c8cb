package mp4

// maxDepth limits the reader's nesting stack. 16 levels comfortably covers
// every box path this demuxer dispatches (moov/trak/mdia/minf/stbl/stsd/...
// and udta/meta/ilst/----/mean|name|data).
const maxDepth = 16

// readerFrame stores parent state when entering a container box.
type readerFrame struct {
	end    int // parent's iteration end boundary
	boxEnd int // position to resume after exiting this container
}

// Reader provides streaming, allocation-free parsing of ISOBMFF boxes over
// an in-memory buffer. It never builds a box tree: callers track whatever
// context they need (e.g. the enclosing track, or the ilst key currently in
// scope) across Enter/Exit calls themselves.
//
// A Reader is a value type; Next/Enter/Exit/Skip mutate it in place. It is
// not safe for concurrent use.
type Reader struct {
	buf []byte
	pos int // next position to parse from
	end int // iteration end boundary

	// Current box state.
	boxType   BoxType
	boxSize   uint64
	boxStart  int
	boxEnd    int
	dataStart int

	// Full box fields.
	version uint8
	flags   uint32

	// Nesting stack.
	stack [maxDepth]readerFrame
	depth int

	err error
}

// NewReader creates a Reader for the given buffer.
func NewReader(buf []byte) Reader {
	return Reader{
		buf: buf,
		end: len(buf),
	}
}

// Err returns the first error encountered by Next, if any. A malformed box
// size (one that would overrun the enclosing budget) sets this and makes
// Next return false; callers must check Err after a loop ends to
// distinguish a malformed tree from a clean end-of-siblings.
func (r *Reader) Err() error { return r.err }

// Next advances to the next sibling box. Returns false if no more boxes
// remain, or if the box header is malformed (check Err in that case).
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	// Skip past current box.
	if r.boxEnd > r.pos {
		r.pos = r.boxEnd
	}

	if r.end-r.pos == 0 {
		return false
	}
	if r.end-r.pos < 8 {
		r.err = newError(ErrMalformedSize, "box header truncated")
		return false
	}

	r.boxStart = r.pos
	size := uint64(be.Uint32(r.buf[r.pos:]))
	copy(r.boxType[:], r.buf[r.pos+4:r.pos+8])
	ptr := r.pos + 8

	// Extended size.
	if size == 1 {
		if r.end-r.pos < 16 {
			r.err = newError(ErrMalformedSize, "largesize truncated")
			return false
		}
		size = be.Uint64(r.buf[ptr:])
		ptr += 8
	}

	// Size 0 means the box extends to the end of the enclosing budget; it
	// is necessarily the last box under the current parent.
	if size == 0 {
		size = uint64(r.end - r.pos)
	}

	r.boxSize = size
	r.boxEnd = r.boxStart + int(size)

	if r.boxEnd > r.end || size < 8 {
		r.err = newError(ErrMalformedSize, "box size exceeds parent budget")
		return false
	}

	if IsFullBox(r.boxType) {
		if r.boxEnd-ptr < 4 {
			r.err = newError(ErrMalformedSize, "full box header truncated")
			return false
		}
		vf := be.Uint32(r.buf[ptr:])
		r.version = uint8(vf >> 24)
		r.flags = vf & 0x00ffffff
		ptr += 4
	} else {
		r.version = 0
		r.flags = 0
	}

	r.dataStart = ptr
	return true
}

// Type returns the current box's type.
func (r *Reader) Type() BoxType { return r.boxType }

// Size returns the current box's total size including its header.
func (r *Reader) Size() uint64 { return r.boxSize }

// Version returns the version field for full boxes.
func (r *Reader) Version() uint8 { return r.version }

// Flags returns the flags field for full boxes.
func (r *Reader) Flags() uint32 { return r.flags }

// Offset returns the byte offset of the current box's start in the buffer.
func (r *Reader) Offset() int { return r.boxStart }

// DataOffset returns the byte offset where the current box's data begins.
func (r *Reader) DataOffset() int { return r.dataStart }

// Data returns the current box's payload (after all headers). The returned
// slice aliases the original buffer.
func (r *Reader) Data() []byte {
	return r.buf[r.dataStart:r.boxEnd]
}

// RawBox returns the entire current box, header included. The returned
// slice aliases the original buffer.
func (r *Reader) RawBox() []byte {
	return r.buf[r.boxStart:r.boxEnd]
}

// Depth returns the current nesting depth (0 at top level).
func (r *Reader) Depth() int { return r.depth }

// Enter descends into the current container box to iterate its children.
// Call Next afterward to advance to the first child. Call Exit when done to
// return to the parent level.
//
// For boxes with a fixed preamble before their children (stsd's
// entry_count, a visual/audio sample entry's reserved header), call Skip
// with the preamble size immediately after Enter.
func (r *Reader) Enter() {
	r.stack[r.depth] = readerFrame{
		end:    r.end,
		boxEnd: r.boxEnd,
	}
	r.depth++
	r.end = r.boxEnd
	r.pos = r.dataStart
	r.boxEnd = r.dataStart // prevents Next from re-skipping
}

// Exit returns to the parent container level. The next call to Next
// advances to the sibling following the box that was entered.
func (r *Reader) Exit() {
	r.depth--
	f := r.stack[r.depth]
	r.end = f.end
	r.pos = f.boxEnd
	r.boxEnd = f.boxEnd
}

// Skip advances the data position by n bytes within the current container,
// without interpreting them as a box. Used after Enter to step over a
// fixed-size preamble before the first child box.
func (r *Reader) Skip(n int) {
	r.pos += n
	r.boxEnd = r.pos
}

// EntryCount reads the uint32 entry count at the start of the current
// box's data. Used for boxes like stsd that begin with a count field.
func (r *Reader) EntryCount() uint32 {
	data := r.Data()
	return be.Uint32(data[0:4])
}

// ReadMvhd extracts the fields this demuxer needs from an mvhd box: the
// movie's creation/modification time (Mac epoch seconds), timescale, and
// duration. Rate, volume, matrix and pre_defined are skipped. Returns
// ErrMalformedSize if data is shorter than the version's fixed fields.
func (r *Reader) ReadMvhd() (creationTime, modificationTime uint64, timescale uint32, duration uint64, err error) {
	data := r.Data()
	if r.Version() == 1 {
		if len(data) < 28 {
			return 0, 0, 0, 0, newError(ErrMalformedSize, "mvhd too short for version 1")
		}
		creationTime = be.Uint64(data[0:8])
		modificationTime = be.Uint64(data[8:16])
		timescale = be.Uint32(data[16:20])
		duration = be.Uint64(data[20:28])
	} else {
		if len(data) < 16 {
			return 0, 0, 0, 0, newError(ErrMalformedSize, "mvhd too short")
		}
		creationTime = uint64(be.Uint32(data[0:4]))
		modificationTime = uint64(be.Uint32(data[4:8]))
		timescale = be.Uint32(data[8:12])
		duration = uint64(be.Uint32(data[12:16]))
	}
	return
}

// ReadTkhd extracts the track ID from a tkhd box. Duration, layer, volume,
// matrix, width and height are read by the caller only if needed and are
// otherwise discarded here.
func (r *Reader) ReadTkhd() (trackID uint32, err error) {
	data := r.Data()
	if r.Version() == 1 {
		if len(data) < 20 {
			return 0, newError(ErrMalformedSize, "tkhd too short for version 1")
		}
		trackID = be.Uint32(data[16:20])
	} else {
		if len(data) < 12 {
			return 0, newError(ErrMalformedSize, "tkhd too short")
		}
		trackID = be.Uint32(data[8:12])
	}
	return
}

// ReadMdhd extracts the fields this demuxer needs from an mdhd box: the
// track's creation/modification time, timescale, and duration.
func (r *Reader) ReadMdhd() (creationTime, modificationTime uint64, timescale uint32, duration uint64, err error) {
	data := r.Data()
	if r.Version() == 1 {
		if len(data) < 28 {
			return 0, 0, 0, 0, newError(ErrMalformedSize, "mdhd too short for version 1")
		}
		creationTime = be.Uint64(data[0:8])
		modificationTime = be.Uint64(data[8:16])
		timescale = be.Uint32(data[16:20])
		duration = be.Uint64(data[20:28])
	} else {
		if len(data) < 16 {
			return 0, 0, 0, 0, newError(ErrMalformedSize, "mdhd too short")
		}
		creationTime = uint64(be.Uint32(data[0:4]))
		modificationTime = uint64(be.Uint32(data[4:8]))
		timescale = be.Uint32(data[8:12])
		duration = uint64(be.Uint32(data[12:16]))
	}
	return
}

// ReadHdlr extracts the handler type from an hdlr box.
func (r *Reader) ReadHdlr() ([4]byte, error) {
	data := r.Data()
	if len(data) < 8 {
		return [4]byte{}, newError(ErrMalformedSize, "hdlr too short")
	}
	var t [4]byte
	copy(t[:], data[4:8])
	return t, nil
}

// ReadHdlrName extracts the handler name from an hdlr box: a UTF-8 string
// starting at offset 20, terminated by a NUL or by the end of the box data
// if no NUL is present.
func (r *Reader) ReadHdlrName() string {
	data := r.Data()
	if len(data) <= 20 {
		return ""
	}
	k := 20
	for k < len(data) && data[k] != 0 {
		k++
	}
	end := min(k, len(data))
	return string(data[20:end])
}
