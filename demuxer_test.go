package mp4

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSyntheticFile(t *testing.T) ([]byte, []byte, []byte) {
	t.Helper()

	ftyp := box("ftyp", concat([]byte("isom"), beU32(0), []byte("isomiso2avc1mp41")))
	moov := box("moov", buildVideoMoov(t))

	sample0 := bytes.Repeat([]byte{0xAA}, 100)
	sample1 := bytes.Repeat([]byte{0xBB}, 150)

	file := make([]byte, 5250)
	off := copy(file, ftyp)
	copy(file[off:], moov)
	copy(file[5000:5100], sample0)
	copy(file[5100:5250], sample1)

	return file, sample0, sample1
}

func TestOpenAndReadSamples(t *testing.T) {
	file, sample0, sample1 := buildSyntheticFile(t)

	d, err := Open(bytes.NewReader(file))
	require.NoError(t, err)
	require.Equal(t, 1, d.TrackCount())

	info := d.MediaInfo()
	require.EqualValues(t, 600, info.Timescale)
	require.EqualValues(t, 1200, info.Duration)

	s, ok, err := d.NextSample(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(5000), s.Offset)
	require.Equal(t, 100, s.Size)
	data, err := d.ReadSample(s)
	require.NoError(t, err)
	require.Equal(t, sample0, data)

	s, ok, err = d.NextSample(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(5100), s.Offset)
	data, err = d.ReadSample(s)
	require.NoError(t, err)
	require.Equal(t, sample1, data)

	_, ok, err = d.NextSample(0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenSeekResetsCursor(t *testing.T) {
	file, _, _ := buildSyntheticFile(t)
	d, err := Open(bytes.NewReader(file))
	require.NoError(t, err)

	_, _, _ = d.NextSample(0)
	_, _, _ = d.NextSample(0)

	require.NoError(t, d.Seek(0, 0, false))
	s, ok, err := d.NextSample(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(5000), s.Offset)
}

func TestAvcDecoderConfig(t *testing.T) {
	file, _, _ := buildSyntheticFile(t)
	d, err := Open(bytes.NewReader(file))
	require.NoError(t, err)

	video, err := d.AvcDecoderConfig(0)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC}, video.SPS)
}

func TestOpenNoMoovFails(t *testing.T) {
	ftyp := box("ftyp", []byte("isom"))
	_, err := Open(bytes.NewReader(ftyp))
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ErrNotFound, kind)
}

func TestTrackInfoOutOfRange(t *testing.T) {
	file, _, _ := buildSyntheticFile(t)
	d, err := Open(bytes.NewReader(file))
	require.NoError(t, err)

	_, err = d.TrackInfo(5)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ErrInvalidArgument, kind)
}
