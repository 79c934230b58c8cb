package mp4

// buildSampleIndex cross-joins a track's four raw sample tables (stsc,
// stco/co64, stsz, stts) into flat per-sample offset/size/decoding-time
// arrays. It consumes raw and is the only place in the package that
// understands the chunk-run expansion; everything downstream (seek,
// NextSample) indexes these flat arrays directly.
func buildSampleIndex(t *Track) error {
	raw := &t.raw
	chunkCount := len(raw.chunkOffset)
	if chunkCount == 0 || len(raw.sampleToChunk) == 0 {
		return nil // hint tracks and similar carry no sample data
	}

	var expected uint32
	if raw.constantSampleSize != 0 {
		expected = raw.stszSampleCount
	} else {
		expected = uint32(len(raw.sampleSizes))
	}

	offsets := make([]uint64, 0, expected)
	sizes := make([]uint32, 0, expected)
	sampleIdx := 0

	for runI, run := range raw.sampleToChunk {
		firstChunk := int(run.FirstChunk)
		lastChunk := chunkCount
		if runI+1 < len(raw.sampleToChunk) {
			lastChunk = int(raw.sampleToChunk[runI+1].FirstChunk) - 1
		}
		if firstChunk < 1 || lastChunk > chunkCount || firstChunk > lastChunk+1 {
			return newError(ErrProtocolError, "stsc chunk run out of range")
		}
		for c := firstChunk; c <= lastChunk; c++ {
			chunkOffset := raw.chunkOffset[c-1]
			within := uint64(0)
			for s := uint32(0); s < run.SamplesPerChunk; s++ {
				var sz uint32
				if raw.constantSampleSize != 0 {
					sz = raw.constantSampleSize
				} else {
					if sampleIdx >= len(raw.sampleSizes) {
						return newError(ErrProtocolError, "stsz sample count disagrees with stsc/stco")
					}
					sz = raw.sampleSizes[sampleIdx]
				}
				offsets = append(offsets, chunkOffset+within)
				sizes = append(sizes, sz)
				within += uint64(sz)
				sampleIdx++
			}
		}
	}

	total := len(offsets)
	if uint32(total) != expected {
		return newError(ErrProtocolError, "stsz sample count disagrees with stsc/stco")
	}

	dts := make([]uint64, 0, total)
	var clock uint64
	sttsTotal := 0
	for _, e := range raw.timeToSample {
		for i := uint32(0); i < e.Count; i++ {
			dts = append(dts, clock)
			clock += uint64(e.Delta)
			sttsTotal++
		}
	}
	if sttsTotal != total {
		return newError(ErrProtocolError, "stts sample count disagrees with stsc/stco/stsz")
	}

	t.SampleCount = uint32(total)
	t.SampleOffset = offsets
	t.SampleSize = sizes
	t.SampleDecodingTime = dts
	return nil
}
