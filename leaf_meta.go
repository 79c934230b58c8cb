package mp4

// This file implements the metadata leaf boxes: the ISO meta/keys key-list,
// the "data" box found inside both metadata namespaces (class-dispatched
// into text or cover art), and the QuickTime location atom (.xyz).

// parseKeys reads a meta/keys box's entry list into mv.Metadata.MetaKeys.
// Each entry is [key_size:4][key_namespace fourcc:4][key_value, key_size-8
// bytes]; key_namespace is framing only (almost always "mdta") and is not
// retained. MetaValues grows in lockstep so index i always lines up with
// MetaKeys[i] even before any ilst entry targeting it is seen.
func parseKeys(r *Reader, mv *Movie) error {
	data := r.Data()
	if len(data) < 4 {
		return newError(ErrMalformedSize, "keys too short")
	}
	count := be.Uint32(data[0:4])
	pos := 4
	for i := uint32(0); i < count; i++ {
		if pos+8 > len(data) {
			break
		}
		keySize := int(be.Uint32(data[pos : pos+4]))
		if keySize < 8 || pos+keySize > len(data) {
			break
		}
		key := string(data[pos+8 : pos+keySize])
		mv.Metadata.MetaKeys = append(mv.Metadata.MetaKeys, key)
		mv.Metadata.MetaValues = append(mv.Metadata.MetaValues, "")
		pos += keySize
	}
	return nil
}

// setMetaValue assigns the value for the 1-based ISO meta key index idx,
// growing MetaValues if a data box for an index beyond the current key
// list length is encountered (ilst need not follow keys in file order).
func setMetaValue(mv *Movie, idx1Based int, value string) {
	i := idx1Based - 1
	if i < 0 {
		return
	}
	for len(mv.Metadata.MetaValues) <= i {
		mv.Metadata.MetaValues = append(mv.Metadata.MetaValues, "")
	}
	mv.Metadata.MetaValues[i] = value
}

// isImageClass reports whether an iTunes-style "data" box class value
// denotes an image payload this demuxer recognizes (JPEG, PNG, BMP).
func isImageClass(class uint32) bool {
	switch class {
	case 13, 14, 27:
		return true
	}
	return false
}

func mimeForClass(class uint32) CoverMime {
	switch class {
	case 13:
		return CoverMimeJPEG
	case 14:
		return CoverMimePNG
	case 27:
		return CoverMimeBMP
	default:
		return CoverMimeUnknown
	}
}

// indexAsUint32 reinterprets a tag box's 4-byte type as a big-endian
// integer. Under the ISO meta/keys/ilst form, an ilst child's "type" is
// really a 1-based index into the keys list rather than a fourcc.
func indexAsUint32(t BoxType) uint32 { return be.Uint32(t[:]) }

// parseData handles a "data" box nested inside an ilst tag-type box. class
// is the data box's 24-bit class field (carried in the full-box flags);
// class==1 is UTF-8 text, class in {13,14,27} is an embedded image. The
// tag key is the immediate parent box's type (see walkIlst) — ctx.tagType.
func parseData(r *Reader, mv *Movie, ctx parseCtx) {
	if !ctx.hasTag {
		return
	}
	data := r.Data()
	if len(data) < 4 {
		return
	}
	class := r.Flags()
	payload := data[4:]
	tag := ctx.tagType

	switch {
	case tag == TypeCovr:
		if isImageClass(class) {
			mv.Metadata.UdtaCover = coverFromPayload(r, ctx.fileBase, class, len(payload))
		}
	case isTagAtom(tag):
		if class == 1 {
			mv.Metadata.UdtaKeys = append(mv.Metadata.UdtaKeys, tag.String())
			mv.Metadata.UdtaValues = append(mv.Metadata.UdtaValues, string(payload))
		}
	default:
		idx := int(indexAsUint32(tag))
		if idx < 1 || idx > len(mv.Metadata.MetaKeys) {
			return
		}
		if class == 1 {
			setMetaValue(mv, idx, string(payload))
		} else if isImageClass(class) {
			if mv.Metadata.MetaKeys[idx-1] == "com.apple.quicktime.artwork" {
				mv.Metadata.MetaCover = coverFromPayload(r, ctx.fileBase, class, len(payload))
			}
		}
	}
}

// coverFromPayload records where the image bytes live (data box payload,
// after its 4-byte locale field) without copying them. r.DataOffset() is
// relative to the moov body buffer the Reader was constructed over, so
// fileBase (the moov body's absolute file offset, threaded down via
// parseCtx) must be added to get an offset Demuxer.readRange can seek to.
func coverFromPayload(r *Reader, fileBase int64, class uint32, payloadLen int) CoverArt {
	return CoverArt{
		Present:  true,
		Offset:   fileBase + int64(r.DataOffset()) + 4,
		Size:     int64(payloadLen),
		MimeKind: mimeForClass(class),
	}
}

// parseLocation reads a QuickTime location atom (.xyz): a 2-byte length,
// a 2-byte language code (unused), then that many bytes of UTF-8 text (an
// ISO 6709 coordinate string in practice, but stored verbatim).
func parseLocation(r *Reader, mv *Movie) {
	data := r.Data()
	if len(data) < 4 {
		return
	}
	n := int(be.Uint16(data[0:2]))
	if 4+n > len(data) {
		n = len(data) - 4
	}
	mv.Metadata.LocationKey = TypeXyz.String()
	mv.Metadata.LocationValue = string(data[4 : 4+n])
	mv.Metadata.HasLocation = true
}
