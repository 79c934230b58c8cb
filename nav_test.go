package mp4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func syncTrack() *Track {
	n := 8
	dts := make([]uint64, n)
	offsets := make([]uint64, n)
	sizes := make([]uint32, n)
	for i := 0; i < n; i++ {
		dts[i] = uint64(i) * 1_000_000
		offsets[i] = uint64(i) * 100
		sizes[i] = 100
	}
	return &Track{
		Timescale:          1_000_000,
		Duration:           uint64(n) * 1_000_000,
		SampleCount:        uint32(n),
		SampleOffset:       offsets,
		SampleSize:         sizes,
		SampleDecodingTime: dts,
		raw: rawSampleTables{
			hasSyncTable: true,
			syncSample:   []uint32{1, 4, 7}, // 1-based: samples 0, 3, 6
		},
	}
}

func TestSeekToExistingSyncSample(t *testing.T) {
	tr := syncTrack()
	require.NoError(t, tr.Seek(3_500_000, true))
	require.Equal(t, 3, tr.CurrentSample)
}

func TestSeekWithoutSyncRequirement(t *testing.T) {
	tr := syncTrack()
	require.NoError(t, tr.Seek(3_500_000, false))
	require.Equal(t, 3, tr.CurrentSample)
}

func TestSeekFallsBackToEarlierSync(t *testing.T) {
	tr := syncTrack()
	// Sample 5 (dts 5_000_000) is not sync; nearest earlier sync is sample 3.
	require.NoError(t, tr.Seek(5_200_000, true))
	require.Equal(t, 3, tr.CurrentSample)
}

func TestSeekBeforeFirstSyncFallsForward(t *testing.T) {
	tr := syncTrack()
	tr.raw.syncSample = []uint32{4, 7} // no sync sample before index 3
	require.NoError(t, tr.Seek(1_000_000, true))
	require.Equal(t, 3, tr.CurrentSample) // nearest sync at or after target
}

func TestSeekNoSamples(t *testing.T) {
	tr := &Track{}
	require.Error(t, tr.Seek(0, false))
}

func TestIsSyncSampleWithNoTable(t *testing.T) {
	tr := &Track{}
	sync, prev := tr.IsSyncSample(5)
	require.True(t, sync)
	require.Equal(t, -1, prev)
}

func TestNextSampleAdvancesAndExhausts(t *testing.T) {
	tr := syncTrack()
	tr.CurrentSample = 6
	i, ok := tr.NextSample()
	require.True(t, ok)
	require.Equal(t, 6, i)

	i, ok = tr.NextSample()
	require.True(t, ok)
	require.Equal(t, 7, i)

	_, ok = tr.NextSample()
	require.False(t, ok)
}
