package mp4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSampleIndexConstantSize(t *testing.T) {
	tr := &Track{
		raw: rawSampleTables{
			sampleToChunk: []StscEntry{{FirstChunk: 1, SamplesPerChunk: 1, SampleDescriptionID: 1}},
			chunkOffset:   []uint64{1000, 1500, 2000, 2500},
			constantSampleSize: 500,
			stszSampleCount:    4,
			timeToSample:       []SttsEntry{{Count: 4, Delta: 1000}},
		},
	}

	require.NoError(t, buildSampleIndex(tr))
	require.EqualValues(t, 4, tr.SampleCount)
	require.Equal(t, []uint64{1000, 1500, 2000, 2500}, tr.SampleOffset)
	require.Equal(t, []uint32{500, 500, 500, 500}, tr.SampleSize)
	require.Equal(t, []uint64{0, 1000, 2000, 3000}, tr.SampleDecodingTime)
}

func TestBuildSampleIndexVariableSizeAcrossChunks(t *testing.T) {
	tr := &Track{
		raw: rawSampleTables{
			sampleToChunk: []StscEntry{
				{FirstChunk: 1, SamplesPerChunk: 2, SampleDescriptionID: 1},
				{FirstChunk: 3, SamplesPerChunk: 3, SampleDescriptionID: 1},
			},
			chunkOffset:        []uint64{100, 200, 300},
			sampleSizes:        []uint32{10, 15, 20, 25, 30, 50, 40},
			stszSampleCount:    7,
			timeToSample:       []SttsEntry{{Count: 7, Delta: 1000}},
		},
	}

	require.NoError(t, buildSampleIndex(tr))
	require.EqualValues(t, 7, tr.SampleCount)
	require.Equal(t, []uint64{100, 110, 200, 220, 300, 330, 380}, tr.SampleOffset)
	require.Equal(t, []uint32{10, 15, 20, 25, 30, 50, 40}, tr.SampleSize)
}

func TestBuildSampleIndexStszCountMismatch(t *testing.T) {
	tr := &Track{
		raw: rawSampleTables{
			sampleToChunk:   []StscEntry{{FirstChunk: 1, SamplesPerChunk: 2, SampleDescriptionID: 1}},
			chunkOffset:     []uint64{0},
			sampleSizes:     []uint32{10}, // only one size for two samples-per-chunk
			stszSampleCount: 1,
			timeToSample:    []SttsEntry{{Count: 2, Delta: 10}},
		},
	}

	err := buildSampleIndex(tr)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ErrProtocolError, kind)
}

func TestBuildSampleIndexSttsCountMismatch(t *testing.T) {
	tr := &Track{
		raw: rawSampleTables{
			sampleToChunk:      []StscEntry{{FirstChunk: 1, SamplesPerChunk: 2, SampleDescriptionID: 1}},
			chunkOffset:        []uint64{0},
			constantSampleSize: 10,
			stszSampleCount:    2,
			timeToSample:       []SttsEntry{{Count: 1, Delta: 10}}, // disagrees: only 1 entry, not 2
		},
	}

	err := buildSampleIndex(tr)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ErrProtocolError, kind)
}

func TestBuildSampleIndexEmptyTrack(t *testing.T) {
	tr := &Track{}
	require.NoError(t, buildSampleIndex(tr))
	require.EqualValues(t, 0, tr.SampleCount)
}
