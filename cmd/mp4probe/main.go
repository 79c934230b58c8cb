// Command mp4probe gathers information about tracks and keyframe distribution from an MP4 file.
package main

import (
	"fmt"
	"os"

	"github.com/go-mp4/libmp4"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.mp4>\n", os.Args[0])
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	d, err := mp4.Open(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	info := d.MediaInfo()
	fmt.Printf("duration: %.2fs  timescale: %d\n\n", float64(info.Duration)/float64(info.Timescale), info.Timescale)

	for i := 0; i < d.TrackCount(); i++ {
		t, err := d.TrackInfo(i)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Track %d: %s (id=%d)\n", i, t.Kind, t.TrackID)
		fmt.Printf("  Total samples: %d\n", t.SampleCount)
		fmt.Printf("  Duration: %.2fs\n", float64(t.Duration)/float64(t.Timescale))
		fmt.Printf("  TimeScale: %d\n", t.Timescale)
		if t.Video != nil {
			fmt.Printf("  Video: %dx%d codec=%v sps=%d pps=%d bytes\n",
				t.Video.Width, t.Video.Height, t.Video.Codec, len(t.Video.SPS), len(t.Video.PPS))
		}
		if t.Audio != nil {
			fmt.Printf("  Audio: channels=%d sampleSize=%d rate=%d\n",
				t.Audio.ChannelCount, t.Audio.SampleSizeBits, t.Audio.SampleRate>>16)
		}

		printKeyframes(t)
		fmt.Println()
	}

	if chapters := d.Chapters(); len(chapters) > 0 {
		fmt.Println("Chapters:")
		for _, c := range chapters {
			fmt.Printf("  [%9.3fs] %s\n", float64(c.TimeMicroseconds)/1e6, c.Name)
		}
		fmt.Println()
	}

	if entries := d.MetadataStrings(); len(entries) > 0 {
		fmt.Println("Metadata:")
		for _, e := range entries {
			fmt.Printf("  %s = %s\n", e.Key, e.Value)
		}
	}
}

// printKeyframes reports the first 20 sync samples, their presentation
// positions, and the interval statistics across all of them. Non-video
// tracks without an stss table report every sample as sync, so this is
// only meaningful for video.
func printKeyframes(t *mp4.Track) {
	if t.Video == nil {
		return
	}

	fmt.Println("  Keyframes:")
	var intervals []float64
	var prevTime float64
	shown := 0
	total := 0

	for i := 0; i < int(t.SampleCount); i++ {
		sync, _ := t.IsSyncSample(i)
		if !sync {
			continue
		}
		total++
		pts := float64(t.SampleDecodingTime[i]) / float64(t.Timescale)

		if shown < 20 {
			fmt.Printf("    [%5d] %.3fs", i, pts)
			if total > 1 {
				interval := pts - prevTime
				intervals = append(intervals, interval)
				fmt.Printf(" (%.3fs since last)", interval)
			}
			fmt.Println()
			shown++
		}
		prevTime = pts
	}
	if total > shown {
		fmt.Printf("    ... (%d more keyframes)\n", total-shown)
	}

	fmt.Printf("\n  Total keyframes: %d\n", total)
	if len(intervals) > 0 {
		fmt.Printf("  Keyframe interval: avg=%.3fs min=%.3fs max=%.3fs\n",
			average(intervals), minimum(intervals), maximum(intervals))
	}
}

func average(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func minimum(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals {
		if v < m {
			m = v
		}
	}
	return m
}

func maximum(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}
