package mp4

import (
	"io"

	"github.com/pkg/errors"
)

// Demuxer is the consumer-facing entry point: it owns the underlying
// stream and the fully parsed, linked, and reconciled Movie state.
type Demuxer struct {
	rs    io.ReadSeeker
	movie Movie
}

// Open scans rs for its ftyp/moov boxes, parses moov into a Movie, builds
// every track's sample index, resolves cross-track links, and reconciles
// metadata and chapters. rs is retained for later sample/cover reads by
// NextSample/ReadSample/MetadataCover; Close releases it if it implements
// io.Closer.
func Open(rs io.ReadSeeker) (*Demuxer, error) {
	sc := NewScanner(rs)
	var moovData []byte
	var moovFileBase int64
	found := false
	for sc.Next() {
		e := sc.Entry()
		if e.Type == TypeMoov {
			moovData = make([]byte, e.DataSize())
			if err := sc.ReadBody(moovData); err != nil {
				return nil, wrapError(ErrIoError, "reading moov body", err)
			}
			moovFileBase = e.Offset + int64(e.HeaderSize)
			found = true
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, wrapError(ErrIoError, "scanning top-level boxes", err)
	}
	if !found {
		return nil, newError(ErrNotFound, "no moov box in stream")
	}

	var mv Movie
	if err := walkMoov(moovData, &mv, moovFileBase); err != nil {
		return nil, errors.WithMessage(err, "parsing moov")
	}
	for _, t := range mv.Tracks {
		if err := buildSampleIndex(t); err != nil {
			return nil, errors.WithMessagef(err, "building sample index for track %d", t.TrackID)
		}
	}
	linkTracks(&mv)
	reconcileMetadata(&mv)

	d := &Demuxer{rs: rs, movie: mv}
	if err := d.extractChapters(); err != nil {
		return nil, errors.WithMessage(err, "extracting chapters")
	}
	return d, nil
}

// Close releases the underlying stream, if it supports closing.
func (d *Demuxer) Close() error {
	if c, ok := d.rs.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (d *Demuxer) readRange(offset int64, n int) ([]byte, error) {
	if n < 0 {
		return nil, newError(ErrInvalidArgument, "negative read length")
	}
	buf := make([]byte, n)
	if _, err := d.rs.Seek(offset, io.SeekStart); err != nil {
		return nil, wrapError(ErrIoError, "seek", err)
	}
	if _, err := io.ReadFull(d.rs, buf); err != nil {
		return nil, wrapError(ErrIoError, "read", err)
	}
	return buf, nil
}

// MediaInfo is the movie-level summary returned by Demuxer.MediaInfo.
type MediaInfo struct {
	Timescale        uint32
	Duration         uint64
	CreationTime     int64 // Unix seconds
	ModificationTime int64 // Unix seconds
}

// MediaInfo returns the movie-level timing summary.
func (d *Demuxer) MediaInfo() MediaInfo {
	return MediaInfo{
		Timescale:        d.movie.Timescale,
		Duration:         d.movie.Duration,
		CreationTime:     unixFromMac(d.movie.CreationTime),
		ModificationTime: unixFromMac(d.movie.ModificationTime),
	}
}

// DurationMicros converts Duration (in Timescale ticks) to microseconds.
func (m MediaInfo) DurationMicros() uint64 {
	return ticksToMicros(m.Duration, m.Timescale)
}

// TrackCount returns the number of tracks in the movie.
func (d *Demuxer) TrackCount() int { return len(d.movie.Tracks) }

// TrackInfo returns the track at the given 0-based index.
func (d *Demuxer) TrackInfo(i int) (*Track, error) {
	if i < 0 || i >= len(d.movie.Tracks) {
		return nil, newError(ErrInvalidArgument, "track index out of range")
	}
	return d.movie.Tracks[i], nil
}

// AvcDecoderConfig returns the AVC codec parameters for a video track.
func (d *Demuxer) AvcDecoderConfig(i int) (*VideoInfo, error) {
	t, err := d.TrackInfo(i)
	if err != nil {
		return nil, err
	}
	if t.Video == nil {
		return nil, newError(ErrNotSupported, "track has no video sample entry")
	}
	return t.Video, nil
}

// Sample describes one elementary stream sample ready to be read.
type Sample struct {
	Offset       int64
	Size         int
	DecodingTime uint64

	// MetadataSize is the size of the linked metadata track's sample at
	// the same cursor position, or 0 if this track has no linked
	// metadata track.
	MetadataSize int

	// NextDecodingTime is the decoding time of the sample that follows
	// this one in this track, or DecodingTime unchanged if this is the
	// last sample.
	NextDecodingTime uint64
}

// NextSample advances trackIdx's cursor and returns the sample it now
// points past, or ok=false once the track is exhausted. If trackIdx has a
// linked metadata track, that track's cursor is advanced in lockstep and
// its sample size for the same position is surfaced as MetadataSize.
func (d *Demuxer) NextSample(trackIdx int) (s Sample, ok bool, err error) {
	t, err := d.TrackInfo(trackIdx)
	if err != nil {
		return Sample{}, false, err
	}
	i, advanced := t.NextSample()
	if !advanced {
		return Sample{}, false, nil
	}

	out := Sample{
		Offset:           int64(t.SampleOffset[i]),
		Size:             int(t.SampleSize[i]),
		DecodingTime:     t.SampleDecodingTime[i],
		NextDecodingTime: t.SampleDecodingTime[i],
	}
	if i+1 < int(t.SampleCount) {
		out.NextDecodingTime = t.SampleDecodingTime[i+1]
	}

	if mt := t.MetadataTrack(&d.movie); mt != nil {
		mt.syncTo(t.SampleDecodingTime[i], t.Timescale)
		if j, advanced := mt.NextSample(); advanced {
			out.MetadataSize = int(mt.SampleSize[j])
		}
	}

	return out, true, nil
}

// ReadSample reads a sample's payload, as located by a prior NextSample or
// Seek call.
func (d *Demuxer) ReadSample(s Sample) ([]byte, error) {
	return d.readRange(s.Offset, s.Size)
}

// Seek positions trackIdx's sample cursor at targetMicros, optionally
// constrained to land on a sync sample. If trackIdx has a linked metadata
// track, that track's cursor is carried along to the latest metadata
// sample whose decoding time is not after the resolved sample's, so a
// subsequent NextSample reports the two streams in lockstep.
func (d *Demuxer) Seek(trackIdx int, targetMicros uint64, requireSync bool) error {
	t, err := d.TrackInfo(trackIdx)
	if err != nil {
		return err
	}
	if err := t.Seek(targetMicros, requireSync); err != nil {
		return err
	}
	if mt := t.MetadataTrack(&d.movie); mt != nil {
		mt.syncTo(t.SampleDecodingTime[t.CurrentSample], t.Timescale)
	}
	return nil
}

// Chapters returns the chapters extracted at Open time, if any.
func (d *Demuxer) Chapters() []Chapter { return d.movie.Chapters }

// MetadataStrings returns the reconciled (key, value) metadata pairs.
func (d *Demuxer) MetadataStrings() []FinalMetadataEntry { return d.movie.Final.Entries }

// MetadataCover reads and returns the cover art bytes and their encoding.
func (d *Demuxer) MetadataCover() ([]byte, CoverMime, error) {
	c := d.movie.Final.Cover
	if !c.Present {
		return nil, CoverMimeUnknown, newError(ErrNotFound, "no cover art present")
	}
	data, err := d.readRange(c.Offset, int(c.Size))
	if err != nil {
		return nil, CoverMimeUnknown, err
	}
	return data, c.MimeKind, nil
}
