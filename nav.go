package mp4

// Seek positions the track's sample cursor at the sample covering
// targetMicros. It first computes a proportional estimate (assuming
// roughly constant bitrate), then scans forward or backward from there to
// the exact sample whose decoding time is the latest one not after the
// target. If requireSync is set and that sample is not a sync sample, it
// walks back to the nearest earlier sync sample, falling back to the
// nearest later one if none precedes it.
func (t *Track) Seek(targetMicros uint64, requireSync bool) error {
	n := int(t.SampleCount)
	if n == 0 {
		return newError(ErrNotFound, "track has no samples")
	}
	targetTicks := microsToTicks(targetMicros, t.Timescale)

	est := 0
	if t.Duration > 0 {
		est = int((uint64(n)*targetTicks + t.Duration - 1) / t.Duration)
	}
	if est < 0 {
		est = 0
	} else if est >= n {
		est = n - 1
	}

	idx := est
	for idx > 0 && t.SampleDecodingTime[idx] > targetTicks {
		idx--
	}
	for idx+1 < n && t.SampleDecodingTime[idx+1] <= targetTicks {
		idx++
	}

	if requireSync {
		if isSync, prevSync := t.IsSyncSample(idx); !isSync {
			if prevSync >= 0 {
				idx = prevSync
			} else {
				found := false
				for j := idx + 1; j < n; j++ {
					if sync, _ := t.IsSyncSample(j); sync {
						idx = j
						found = true
						break
					}
				}
				if !found {
					return newError(ErrNotFound, "no sync sample in track")
				}
			}
		}
	}

	t.CurrentSample = idx
	return nil
}

// syncTo moves this track's cursor to the latest sample whose decoding
// time is not after dts (ticks in refTimescale units), converting across
// timescales. Used to carry a metadata track's cursor along with the
// media track it is linked to. A reference time before its first sample
// leaves it at sample 0; a track with no samples keeps its cursor, since
// the Seek failure is ignored (the caller has no sample to report anyway).
func (t *Track) syncTo(dts uint64, refTimescale uint32) {
	micros := ticksToMicros(dts, refTimescale)
	_ = t.Seek(micros, false)
}

// NextSample returns the 0-based index of the sample at the current
// cursor and advances the cursor, or ok=false once the track is
// exhausted.
func (t *Track) NextSample() (sampleIndex int, ok bool) {
	if t.CurrentSample < 0 || t.CurrentSample >= int(t.SampleCount) {
		return 0, false
	}
	i := t.CurrentSample
	t.CurrentSample++
	return i, true
}
