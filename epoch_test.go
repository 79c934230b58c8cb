package mp4

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacEpochRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1_700_000_000, -2_082_844_800}
	for _, unix := range cases {
		mac := macFromUnix(unix)
		assert.Equal(t, unix, unixFromMac(mac))
	}
}

func TestUnixFromMac(t *testing.T) {
	// A mac epoch of exactly the 1904->1970 offset is Unix time zero.
	assert.Equal(t, int64(0), unixFromMac(macToUnixEpochOffset))
}

func TestScaleRoundHalfUp(t *testing.T) {
	t.Run("exact division", func(t *testing.T) {
		assert.Equal(t, uint64(2_000_000), ticksToMicros(2, 1))
	})
	t.Run("rounds half up", func(t *testing.T) {
		// 1 tick at timescale 3 is 333333.33... micros, rounds to 333333.
		assert.Equal(t, uint64(333333), ticksToMicros(1, 3))
	})
	t.Run("zero timescale is defined as zero", func(t *testing.T) {
		assert.Equal(t, uint64(0), ticksToMicros(5, 0))
	})
	t.Run("microsToTicks inverse direction", func(t *testing.T) {
		assert.Equal(t, uint64(3), microsToTicks(3_000_000, 1))
	})
}
