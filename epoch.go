package mp4

// macToUnixEpochOffset is the number of seconds between the Macintosh
// epoch (1904-01-01 00:00:00 UTC) and the Unix epoch (1970-01-01 00:00:00
// UTC).
const macToUnixEpochOffset = 0x7C25B080

// unixFromMac converts a Mac-epoch second count (as stored in mvhd/mdhd
// creation_time and modification_time fields) to Unix seconds. The result
// may go negative for timestamps before 1970 and wraps via normal int64
// arithmetic; callers needing a guaranteed-valid time.Time should clamp.
func unixFromMac(macSeconds uint64) int64 {
	return int64(macSeconds) - macToUnixEpochOffset
}

// macFromUnix is the inverse of unixFromMac, used only by tests to check
// the round-trip invariant mac_epoch(unix_from_mac(x)) == x.
func macFromUnix(unixSeconds int64) uint64 {
	return uint64(unixSeconds + macToUnixEpochOffset)
}

// scaleRoundHalfUp converts a tick count expressed in fromScale ticks per
// second into toScale ticks per second, rounding half up. Used both for
// microsecond conversions (toScale = 1_000_000) and for the reverse
// direction in seek (fromScale = 1_000_000).
//
// Reused as the one site doing this arithmetic, per the rounding
// convention used throughout: (t*to + from/2) / from.
func scaleRoundHalfUp(t uint64, fromScale, toScale uint64) uint64 {
	if fromScale == 0 {
		return 0
	}
	return (t*toScale + fromScale/2) / fromScale
}

// ticksToMicros converts a timestamp in track/movie timescale ticks to
// microseconds, rounding half up.
func ticksToMicros(ticks uint64, timescale uint32) uint64 {
	return scaleRoundHalfUp(ticks, uint64(timescale), 1_000_000)
}

// microsToTicks converts a microsecond timestamp to track/movie timescale
// ticks, rounding half up.
func microsToTicks(micros uint64, timescale uint32) uint64 {
	return scaleRoundHalfUp(micros, 1_000_000, uint64(timescale))
}
