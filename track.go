package mp4

// Kind classifies the elementary stream a Track carries, derived from its
// mdia/hdlr handler_type (or reclassified to KindChapters once a chapters
// link is installed — see linkTracks).
type Kind uint8

const (
	KindUnknown Kind = iota
	KindVideo
	KindAudio
	KindHint
	KindMetadata
	KindText
	KindChapters
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindHint:
		return "hint"
	case KindMetadata:
		return "metadata"
	case KindText:
		return "text"
	case KindChapters:
		return "chapters"
	default:
		return "unknown"
	}
}

func kindFromHandler(handlerType [4]byte) Kind {
	switch handlerType {
	case [4]byte{'v', 'i', 'd', 'e'}:
		return KindVideo
	case [4]byte{'s', 'o', 'u', 'n'}:
		return KindAudio
	case [4]byte{'h', 'i', 'n', 't'}:
		return KindHint
	case [4]byte{'m', 'e', 't', 'a'}:
		return KindMetadata
	case [4]byte{'t', 'e', 'x', 't'}:
		return KindText
	default:
		return KindUnknown
	}
}

// noTrack is the "no link" sentinel for track index fields.
const noTrack = -1

// VideoCodec enumerates the video codecs this demuxer recognizes beyond
// "present but unparsed".
type VideoCodec uint8

const (
	VideoCodecUnknown VideoCodec = iota
	VideoCodecAVC
)

// VideoInfo holds codec extras for a KindVideo track.
type VideoInfo struct {
	Codec  VideoCodec
	Width  uint16
	Height uint16
	SPS    []byte // first SPS, verbatim, may be nil
	PPS    []byte // first PPS, verbatim, may be nil
}

// AudioInfo holds codec extras for a KindAudio track.
type AudioInfo struct {
	ChannelCount   uint16
	SampleSizeBits uint16
	SampleRate     uint32 // 16.16 fixed point
}

// MetadataStreamInfo holds codec extras for a KindMetadata track's sample
// entry (its content_encoding and mime_format strings).
type MetadataStreamInfo struct {
	ContentEncoding string
	MimeFormat      string
}

// rawSampleTables holds the compressed, as-read sample tables a track's
// stbl box populates. The Index builder (buildSampleIndex) consumes these
// once, after the box tree has been fully walked; afterwards only
// IsSyncSample reads them (hasSyncTable and syncSample).
type rawSampleTables struct {
	timeToSample  []SttsEntry
	sampleToChunk []StscEntry
	chunkOffset   []uint64
	syncSample    []uint32 // nil means "every sample is a sync sample"
	hasSyncTable  bool     // distinguishes "absent" from "present but empty"

	constantSampleSize uint32
	sampleSizes        []uint32 // only populated when constantSampleSize == 0
	stszSampleCount    uint32

	sawStts, sawStsc, sawStsz, sawStco, sawStss bool
}

// Track holds all per-elementary-stream state for one trak box.
type Track struct {
	TrackID          uint32
	Kind             Kind
	Timescale        uint32
	Duration         uint64
	CreationTime     uint64 // Mac epoch seconds
	ModificationTime uint64 // Mac epoch seconds

	ReferenceKind    BoxType // zero value if none
	ReferenceTrackID uint32

	// Cross-indices into the owning Movie's Tracks slice, or noTrack.
	// An arena-of-tracks + integer-index design avoids cyclic owned
	// references between a metadata track and its media track, or a
	// chapters track and its reference track.
	refTrackIdx      int
	metadataTrackIdx int
	chaptersTrackIdx int

	raw rawSampleTables

	// Derived by the index builder.
	SampleCount        uint32
	SampleOffset       []uint64
	SampleSize         []uint32 // materialized even in the constant-size case
	SampleDecodingTime []uint64 // in this track's own timescale

	Video    *VideoInfo
	Audio    *AudioInfo
	Metadata *MetadataStreamInfo

	// Navigation cursor, 0-based.
	CurrentSample int
}

// RefTrack returns the track T's tref points at, or nil if none is linked.
func (t *Track) RefTrack(m *Movie) *Track { return m.trackAt(t.refTrackIdx) }

// MetadataTrack returns the metadata track linked to this (video) track,
// or nil if none.
func (t *Track) MetadataTrack(m *Movie) *Track { return m.trackAt(t.metadataTrackIdx) }

// ChaptersTrack returns the chapters track linked to this track, or nil
// if none.
func (t *Track) ChaptersTrack(m *Movie) *Track { return m.trackAt(t.chaptersTrackIdx) }

// IsSyncSample reports whether sample i (0-based) is a sync sample, and
// if not, returns the index of the nearest earlier sync sample (-1 if
// none exists). If the track has no stss table, every sample is sync.
func (t *Track) IsSyncSample(i int) (isSync bool, prevSync int) {
	if !t.raw.hasSyncTable {
		return true, -1
	}
	want := uint32(i + 1) // sync_sample entries are 1-based
	prevSync = -1
	for _, s := range t.raw.syncSample {
		if s == want {
			return true, prevSync
		}
		if s > want {
			return false, prevSync
		}
		prevSync = int(s) - 1
	}
	return false, prevSync
}

// Movie is the top-level parsed state for one open file.
type Movie struct {
	Timescale        uint32
	Duration         uint64
	CreationTime     uint64
	ModificationTime uint64
	Tracks           []*Track

	Metadata MetadataBuffers
	Final    FinalMetadata
	Chapters []Chapter
}

func (m *Movie) trackAt(idx int) *Track {
	if idx < 0 || idx >= len(m.Tracks) {
		return nil
	}
	return m.Tracks[idx]
}

// TrackByID returns the track with the given track_id, or nil.
func (m *Movie) TrackByID(id uint32) *Track {
	for _, t := range m.Tracks {
		if t.TrackID == id {
			return t
		}
	}
	return nil
}

// MetadataKey is a tagged union over the two metadata key namespaces this
// format uses: QuickTime udta/ilst keys are 4-byte fourccs, ISO
// meta/keys/ilst keys are arbitrary strings referenced by a 1-based
// index. Reconciliation (FinalMetadata) flattens both to plain strings,
// but the staging buffers keep them distinct since a fourcc and a key
// string may collide textually.
type MetadataKey struct {
	FourCC   BoxType
	Indexed  string
	isFourCC bool
}

func fourCCKey(t BoxType) MetadataKey  { return MetadataKey{FourCC: t, isFourCC: true} }
func indexedKey(s string) MetadataKey { return MetadataKey{Indexed: s} }

// String renders the key the way the final reconciled view exposes it:
// the udta namespace as the raw 4 bytes of the fourcc, the ISO namespace
// as the key string itself.
func (k MetadataKey) String() string {
	if k.isFourCC {
		return k.FourCC.String()
	}
	return k.Indexed
}

// CoverArt records where a cover image lives in the file, without reading
// its bytes — callers read them lazily via Demuxer.MetadataCover.
type CoverArt struct {
	Present  bool
	Offset   int64
	Size     int64
	MimeKind CoverMime
}

// CoverMime enumerates the cover-art encodings this demuxer recognizes.
type CoverMime uint8

const (
	CoverMimeUnknown CoverMime = iota
	CoverMimeJPEG
	CoverMimePNG
	CoverMimeBMP
)

// MetadataBuffers holds the three parallel, as-parsed metadata sources
// before reconciliation.
type MetadataBuffers struct {
	// udta tags: parallel key/value arrays, keys are 4-byte atom fourccs.
	UdtaKeys   []string
	UdtaValues []string

	// meta keys + ilst data: Keys indexed 0-based here (1-based on disk);
	// Values is parallel, filled in as ilst children are parsed.
	MetaKeys   []string
	MetaValues []string

	// QuickTime location atom (.xyz), at most one pair.
	LocationKey   string
	LocationValue string
	HasLocation   bool

	UdtaCover CoverArt
	MetaCover CoverArt
}

// FinalMetadataEntry is one reconciled (key, value) pair.
type FinalMetadataEntry struct {
	Key   string
	Value string
}

// FinalMetadata is the reconciled, consumer-facing metadata view: the
// concatenation of non-empty meta entries, then non-empty udta entries,
// then the location pair, plus the chosen cover art.
type FinalMetadata struct {
	Entries []FinalMetadataEntry
	Cover   CoverArt
}

// Chapter is one decoded chapter marker.
type Chapter struct {
	TimeMicroseconds uint64
	Name             string
}

// maxChapters caps the number of chapters extracted from a chapters
// track, matching the bound this demuxer's consumer-facing API promises.
const maxChapters = 100
