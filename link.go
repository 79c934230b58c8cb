package mp4

// refKindChap is the tref reference_type that marks a media track's link
// to its QuickTime chapter (text) track.
var refKindChap = BoxType{'c', 'h', 'a', 'p'}

// refKindCdsc is the tref reference_type ("content describes") a metadata
// track uses to name the media track it is synchronized with.
var refKindCdsc = BoxType{'c', 'd', 's', 'c'}

// linkTracks resolves the cross-track references left as raw
// (ReferenceKind, ReferenceTrackID) pairs after parsing into the integer
// indices RefTrack/ChaptersTrack/MetadataTrack resolve against. It runs
// once, after every trak has been walked, so track_id -> index lookups are
// complete regardless of box order.
func linkTracks(mv *Movie) {
	for _, t := range mv.Tracks {
		if t.ReferenceKind == (BoxType{}) {
			continue
		}
		target := mv.TrackByID(t.ReferenceTrackID)
		if target == nil {
			continue
		}
		idx := indexOfTrack(mv, target)
		tIdx := indexOfTrack(mv, t)
		t.refTrackIdx = idx
		switch {
		case t.ReferenceKind == refKindChap && target.Kind == KindText:
			target.Kind = KindChapters
			t.chaptersTrackIdx = idx
			// The chapters track also points back at the media track that
			// references it, not just the other way around.
			target.refTrackIdx = tIdx
		case t.ReferenceKind == refKindCdsc && t.Kind == KindMetadata:
			target.metadataTrackIdx = tIdx
		}
	}

	// A file that plays timed metadata alongside video rarely bothers to
	// link them with a tref; when there is exactly one video track,
	// exactly one metadata track and no audio or hint track, assume they
	// go together.
	videoIdx, metaIdx := noTrack, noTrack
	videoCount, metaCount, audioHintCount := 0, 0, 0
	for i, t := range mv.Tracks {
		switch t.Kind {
		case KindVideo:
			videoCount++
			videoIdx = i
		case KindMetadata:
			metaCount++
			metaIdx = i
		case KindAudio, KindHint:
			audioHintCount++
		}
	}
	if videoCount == 1 && metaCount == 1 && audioHintCount == 0 && mv.Tracks[videoIdx].metadataTrackIdx == noTrack {
		mv.Tracks[videoIdx].metadataTrackIdx = metaIdx
		mv.Tracks[metaIdx].refTrackIdx = videoIdx
	}
}

func indexOfTrack(mv *Movie, target *Track) int {
	for i, t := range mv.Tracks {
		if t == target {
			return i
		}
	}
	return noTrack
}
