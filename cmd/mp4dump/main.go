// Command mp4dump reads an MP4 file and prints its box structure.
package main

import (
	"fmt"
	"os"
	"strings"

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

	sc := mp4.NewScanner(f)
	for sc.Next() {
		e := sc.Entry()
		if e.Type == mp4.TypeUuid {
			fmt.Printf("[%s] size=%d uuid=%s offset=%d\n", e.Type, e.Size, e.ExtendedType, e.Offset)
		} else {
			fmt.Printf("[%s] size=%d offset=%d\n", e.Type, e.Size, e.Offset)
		}

		if !isContainerTop(e.Type) {
			continue
		}
		buf := make([]byte, e.DataSize())
		if err := sc.ReadBody(buf); err != nil {
			fmt.Fprintf(os.Stderr, "error reading %s body: %v\n", e.Type, err)
			os.Exit(1)
		}
		r := mp4.NewReader(buf)
		dumpChildren(&r, 1)
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// isContainerTop reports whether a top-level box's contents are worth
// descending into. moov is the only one this demuxer parses; others (mdat,
// free, moof, ...) are left opaque.
func isContainerTop(t mp4.BoxType) bool {
	return t == mp4.TypeMoov
}

// dumpChildren walks r's current level and prints each box, recursing into
// every container type the demuxer recognizes. r must already be positioned
// at the level to iterate (the caller has Entered, or this is a freshly
// built top-level Reader).
func dumpChildren(r *mp4.Reader, depth int) {
	for r.Next() {
		printOne(r, depth)
		if mp4.IsContainerBox(r.Type()) {
			r.Enter()
			dumpChildren(r, depth+1)
			r.Exit()
		}
	}
	if err := r.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "%s(malformed box tree: %v)\n", strings.Repeat("  ", depth), err)
	}
}

func printOne(r *mp4.Reader, depth int) {
	indent := strings.Repeat("  ", depth)
	vf := ""
	if mp4.IsFullBox(r.Type()) {
		vf = fmt.Sprintf(" v=%d flags=0x%06x", r.Version(), r.Flags())
	}
	fmt.Printf("%s[%s] size=%d%s%s\n", indent, r.Type(), r.Size(), vf, boxInfo(r))
}

// boxInfo renders a one-line summary of fields this demuxer actually reads
// out of a handful of leaf box types; everything else just shows its size.
func boxInfo(r *mp4.Reader) string {
	switch r.Type() {
	case mp4.TypeMvhd:
		ct, mt, ts, dur, err := r.ReadMvhd()
		if err != nil {
			return fmt.Sprintf(" (%v)", err)
		}
		return fmt.Sprintf(" creation=%d modification=%d timescale=%d duration=%d", ct, mt, ts, dur)
	case mp4.TypeTkhd:
		trackID, err := r.ReadTkhd()
		if err != nil {
			return fmt.Sprintf(" (%v)", err)
		}
		return fmt.Sprintf(" trackId=%d", trackID)
	case mp4.TypeMdhd:
		ct, mt, ts, dur, err := r.ReadMdhd()
		if err != nil {
			return fmt.Sprintf(" (%v)", err)
		}
		return fmt.Sprintf(" creation=%d modification=%d timescale=%d duration=%d", ct, mt, ts, dur)
	case mp4.TypeHdlr:
		ht, err := r.ReadHdlr()
		if err != nil {
			return fmt.Sprintf(" (%v)", err)
		}
		return fmt.Sprintf(" type=%s name=%q", string(ht[:]), r.ReadHdlrName())
	case mp4.TypeStsd, mp4.TypeStts, mp4.TypeStsc, mp4.TypeStco, mp4.TypeCo64, mp4.TypeStss, mp4.TypeKeys:
		return fmt.Sprintf(" entries=%d", r.EntryCount())
	}
	return ""
}
