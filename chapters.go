package mp4

// extractChapters reads chapter samples from the first KindChapters track
// (if any) into mv.Chapters. A chapter sample is [u16 length][UTF-8 name];
// its decoding time, converted to microseconds, is the chapter's timestamp.
// At most maxChapters chapters are read even if the track carries more.
func (d *Demuxer) extractChapters() error {
	for _, t := range d.movie.Tracks {
		if t.Kind != KindChapters {
			continue
		}
		n := int(t.SampleCount)
		if n > maxChapters {
			n = maxChapters
		}
		chapters := make([]Chapter, 0, n)
		for i := 0; i < n; i++ {
			payload, err := d.readRange(int64(t.SampleOffset[i]), int(t.SampleSize[i]))
			if err != nil {
				return err
			}
			if len(payload) < 2 {
				continue
			}
			length := int(be.Uint16(payload[0:2]))
			if 2+length > len(payload) {
				length = len(payload) - 2
			}
			chapters = append(chapters, Chapter{
				TimeMicroseconds: ticksToMicros(t.SampleDecodingTime[i], t.Timescale),
				Name:             string(payload[2 : 2+length]),
			})
		}
		d.movie.Chapters = chapters
		return nil
	}
	return nil
}
