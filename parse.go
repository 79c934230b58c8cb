package mp4

// parseCtx carries the parsing context explicitly down the recursion
// instead of materializing a box tree: which track (if any) is in scope,
// whether the walker is inside a mdia subtree (so hdlr should set the
// track's Kind), whether the current udta is being iterated (so .xyz and
// the QuickTime meta-form version/flags skip apply), which ilst child box
// is in scope when a "data" box is reached (used as the tag key, i.e.
// data's immediate parent box), and the moov body's absolute file offset
// (fileBase) needed to translate a Reader's buffer-relative DataOffset
// into a file-absolute offset for cover art).
type parseCtx struct {
	track     *Track
	inMdia    bool
	underUdta bool
	tagType   BoxType
	hasTag    bool
	fileBase  int64
}

// walkMoov parses the children of a moov box into mv. fileBase is the
// absolute file offset of the moov box's data (its header's end), used to
// translate buffer-relative offsets recorded during the walk (cover art)
// into file-absolute offsets the demuxer can later seek to.
func walkMoov(data []byte, mv *Movie, fileBase int64) error {
	r := NewReader(data)
	return walk(&r, mv, parseCtx{fileBase: fileBase})
}

// walk recursively descends a parent's payload, dispatching each child box
// per its type. It enforces no byte budget itself beyond what Reader.Next
// already checks (a box overrunning its parent's remaining bytes sets
// Reader's sticky error and ends the loop).
func walk(r *Reader, mv *Movie, ctx parseCtx) error {
	for r.Next() {
		t := ctx.track
		switch r.Type() {
		case TypeMvhd:
			ct, mt, ts, dur, err := r.ReadMvhd()
			if err != nil {
				return err
			}
			mv.CreationTime = ct
			// Open question (media_info modification_time): the source
			// copies creationTime into modification_time. We deliberately
			// correct it here rather than reproduce the copy-paste bug —
			// see the design notes on this choice.
			mv.ModificationTime = mt
			mv.Timescale = ts
			mv.Duration = dur

		case TypeTrak:
			nt := &Track{refTrackIdx: noTrack, metadataTrackIdx: noTrack, chaptersTrackIdx: noTrack}
			mv.Tracks = append(mv.Tracks, nt)
			r.Enter()
			if err := walk(r, mv, parseCtx{track: nt, fileBase: ctx.fileBase}); err != nil {
				r.Exit()
				return err
			}
			r.Exit()

		case TypeUdta:
			r.Enter()
			if err := walk(r, mv, parseCtx{track: t, underUdta: true, fileBase: ctx.fileBase}); err != nil {
				r.Exit()
				return err
			}
			r.Exit()

		case TypeMeta:
			r.Enter()
			if ctx.underUdta {
				r.Skip(4) // QuickTime form: version(1)+flags(3)
			}
			// ISO form (directly under moov/trak, not under udta) has no
			// version/flags field at all; nothing to skip there.
			if err := walk(r, mv, parseCtx{track: t, fileBase: ctx.fileBase}); err != nil {
				r.Exit()
				return err
			}
			r.Exit()

		case TypeMdia:
			r.Enter()
			if err := walk(r, mv, parseCtx{track: t, inMdia: true, fileBase: ctx.fileBase}); err != nil {
				r.Exit()
				return err
			}
			r.Exit()

		case TypeMinf, TypeDinf, TypeStbl:
			r.Enter()
			if err := walk(r, mv, parseCtx{track: t, inMdia: ctx.inMdia, fileBase: ctx.fileBase}); err != nil {
				r.Exit()
				return err
			}
			r.Exit()

		case TypeTkhd:
			if t != nil {
				id, err := r.ReadTkhd()
				if err != nil {
					return err
				}
				t.TrackID = id
			}

		case TypeTref:
			if t != nil {
				if err := parseTref(r, t); err != nil {
					return err
				}
			}

		case TypeMdhd:
			if t != nil {
				ct, mt, ts, dur, err := r.ReadMdhd()
				if err != nil {
					return err
				}
				t.CreationTime = ct
				t.ModificationTime = mt
				t.Timescale = ts
				t.Duration = dur
			}

		case TypeHdlr:
			if t != nil && ctx.inMdia {
				h, err := r.ReadHdlr()
				if err != nil {
					return err
				}
				t.Kind = kindFromHandler(h)
			}

		case TypeStsd:
			if t != nil {
				if err := parseStsd(r, t); err != nil {
					return err
				}
			}

		case TypeStts:
			if t != nil {
				if err := parseStts(r, t); err != nil {
					return err
				}
			}

		case TypeStss:
			if t != nil {
				if err := parseStss(r, t); err != nil {
					return err
				}
			}

		case TypeStsz:
			if t != nil {
				if err := parseStsz(r, t); err != nil {
					return err
				}
			}

		case TypeStsc:
			if t != nil {
				if err := parseStsc(r, t); err != nil {
					return err
				}
			}

		case TypeStco:
			if t != nil {
				if err := parseStco(r, t); err != nil {
					return err
				}
			}

		case TypeCo64:
			if t != nil {
				if err := parseCo64(r, t); err != nil {
					return err
				}
			}

		case TypeKeys:
			if err := parseKeys(r, mv); err != nil {
				return err
			}

		case TypeIlst:
			if err := walkIlst(r, mv, ctx); err != nil {
				return err
			}

		case TypeData:
			parseData(r, mv, ctx)

		case TypeXyz:
			if ctx.underUdta {
				parseLocation(r, mv)
			}

		default:
			// Unknown or unhandled box: skipped by Next's framing alone.
		}
	}
	return r.Err()
}

// walkIlst recurses into an ilst box's children. Each child is a tag-type
// box (a QuickTime fourcc like '\xA9ART', a numeric key-index pseudo-type
// under the ISO meta/keys form, or 'covr') whose own child is a single
// 'data' box; walkIlst threads that child's type down as ctx.tagType so
// the nested 'data' dispatch can use it as the tag key.
//
// A streaming rewrite has no need to pre-count ilst's children to size the
// udta key/value arrays up front (the source does, to avoid reallocation);
// growable slices make that pass unnecessary.
func walkIlst(r *Reader, mv *Movie, ctx parseCtx) error {
	r.Enter()
	for r.Next() {
		sub := ctx
		sub.tagType = r.Type()
		sub.hasTag = true
		r.Enter()
		if err := walk(r, mv, sub); err != nil {
			r.Exit()
			r.Exit()
			return err
		}
		r.Exit()
	}
	err := r.Err()
	r.Exit()
	return err
}

// readUint32Array reads the whole of data as a tightly packed array of
// big-endian uint32s (no leading count field), used for tref's reference
// sub-boxes.
func readUint32Array(data []byte) []uint32 {
	n := len(data) / 4
	out := make([]uint32, 0, n)
	for i := 0; i+4 <= len(data); i += 4 {
		out = append(out, be.Uint32(data[i:i+4]))
	}
	return out
}

// parseTref iterates every reference-type sub-box under tref (fixing the
// single-reference shortcut the source takes: it misreads tref's own
// header as if it directly carried (size, reference_kind, track_id), which
// only happens to work when tref has exactly one sub-box with exactly one
// track ID). Since Track has room for only one (reference_kind,
// reference_track_id) pair, the first sub-box encountered wins; later ones
// are still properly framed and iterated, just not retained.
func parseTref(r *Reader, t *Track) error {
	r.Enter()
	for r.Next() {
		if t.ReferenceKind == (BoxType{}) {
			ids := readUint32Array(r.Data())
			if len(ids) > 0 {
				t.ReferenceKind = r.Type()
				t.ReferenceTrackID = ids[0]
			}
		}
	}
	err := r.Err()
	r.Exit()
	return err
}

func parseStsd(r *Reader, t *Track) error {
	r.Enter()
	r.Skip(4) // entry_count; only the first sample entry is inspected
	if r.Next() {
		switch t.Kind {
		case KindVideo:
			parseVisualSampleEntry(r, t)
		case KindAudio:
			ae := ReadAudioSampleEntry(r.Data())
			t.Audio = &AudioInfo{
				ChannelCount:   ae.ChannelCount,
				SampleSizeBits: ae.SampleSizeBits,
				SampleRate:     ae.SampleRate,
			}
		case KindMetadata:
			data := r.Data()
			if len(data) > 8 {
				enc, rest := readCString(data[8:])
				mime, _ := readCString(rest)
				t.Metadata = &MetadataStreamInfo{ContentEncoding: enc, MimeFormat: mime}
			}
		}
	}
	err := r.Err()
	r.Exit()
	return err
}

func parseVisualSampleEntry(r *Reader, t *Track) {
	ve := ReadVisualSampleEntry(r.Data())
	t.Video = &VideoInfo{Width: ve.Width, Height: ve.Height}
	r.Enter()
	r.Skip(ve.ChildOffset)
	for r.Next() {
		if r.Type() == TypeAvcC {
			cfg := ReadAvcC(r.Data())
			t.Video.Codec = VideoCodecAVC
			t.Video.SPS = cfg.SPS
			t.Video.PPS = cfg.PPS
		}
	}
	r.Exit()
}

// readCString reads a NUL-terminated string starting at the beginning of
// data, returning the string and the remainder of data after the NUL (or
// after the string itself, if data ends without one).
func readCString(data []byte) (string, []byte) {
	i := 0
	for i < len(data) && data[i] != 0 {
		i++
	}
	s := string(data[:i])
	if i < len(data) {
		return s, data[i+1:]
	}
	return s, data[i:]
}

func parseStts(r *Reader, t *Track) error {
	if t.raw.sawStts {
		return newError(ErrDuplicateTable, "stts already set")
	}
	t.raw.sawStts = true
	it := NewSttsIter(r.Data())
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		t.raw.timeToSample = append(t.raw.timeToSample, e)
	}
	return nil
}

func parseStss(r *Reader, t *Track) error {
	if t.raw.sawStss {
		return newError(ErrDuplicateTable, "stss already set")
	}
	t.raw.sawStss = true
	t.raw.hasSyncTable = true
	it := NewUint32Iter(r.Data())
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		t.raw.syncSample = append(t.raw.syncSample, v)
	}
	return nil
}

func parseStsz(r *Reader, t *Track) error {
	if t.raw.sawStsz {
		return newError(ErrDuplicateTable, "stsz already set")
	}
	data := r.Data()
	if len(data) < 8 {
		return newError(ErrMalformedSize, "stsz too short")
	}
	t.raw.sawStsz = true
	t.raw.constantSampleSize = be.Uint32(data[0:4])
	t.raw.stszSampleCount = be.Uint32(data[4:8])
	if t.raw.constantSampleSize == 0 {
		it := NewStszIter(data)
		for {
			sz, ok := it.Next()
			if !ok {
				break
			}
			t.raw.sampleSizes = append(t.raw.sampleSizes, sz)
		}
	}
	return nil
}

func parseStsc(r *Reader, t *Track) error {
	if t.raw.sawStsc {
		return newError(ErrDuplicateTable, "stsc already set")
	}
	t.raw.sawStsc = true
	it := NewStscIter(r.Data())
	for {
		e, ok := it.Next()
		if !ok {
			break
		}
		t.raw.sampleToChunk = append(t.raw.sampleToChunk, e)
	}
	return nil
}

func parseStco(r *Reader, t *Track) error {
	if t.raw.sawStco {
		return newError(ErrDuplicateTable, "stco/co64 already set")
	}
	t.raw.sawStco = true
	it := NewUint32Iter(r.Data())
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		t.raw.chunkOffset = append(t.raw.chunkOffset, uint64(v))
	}
	return nil
}

func parseCo64(r *Reader, t *Track) error {
	if t.raw.sawStco {
		return newError(ErrDuplicateTable, "stco/co64 already set")
	}
	t.raw.sawStco = true
	it := NewCo64Iter(r.Data())
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		t.raw.chunkOffset = append(t.raw.chunkOffset, v)
	}
	return nil
}
