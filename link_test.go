package mp4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkTracksChapterLink(t *testing.T) {
	video := &Track{TrackID: 1, Kind: KindVideo, ReferenceKind: refKindChap, ReferenceTrackID: 2,
		refTrackIdx: noTrack, chaptersTrackIdx: noTrack, metadataTrackIdx: noTrack}
	chapterText := &Track{TrackID: 2, Kind: KindText,
		refTrackIdx: noTrack, chaptersTrackIdx: noTrack, metadataTrackIdx: noTrack}
	mv := &Movie{Tracks: []*Track{video, chapterText}}

	linkTracks(mv)

	require.Equal(t, KindChapters, chapterText.Kind)
	require.Equal(t, 1, video.chaptersTrackIdx)
	require.Equal(t, 1, video.refTrackIdx)
	require.Same(t, chapterText, video.ChaptersTrack(mv))
}

func TestLinkTracksSingleVideoSingleMetadataFallback(t *testing.T) {
	video := &Track{TrackID: 1, Kind: KindVideo, refTrackIdx: noTrack, chaptersTrackIdx: noTrack, metadataTrackIdx: noTrack}
	meta := &Track{TrackID: 2, Kind: KindMetadata, refTrackIdx: noTrack, chaptersTrackIdx: noTrack, metadataTrackIdx: noTrack}
	mv := &Movie{Tracks: []*Track{video, meta}}

	linkTracks(mv)

	require.Equal(t, 1, video.metadataTrackIdx)
	require.Same(t, meta, video.MetadataTrack(mv))
}

func TestLinkTracksNoFallbackWithMultipleVideo(t *testing.T) {
	v1 := &Track{TrackID: 1, Kind: KindVideo, refTrackIdx: noTrack, chaptersTrackIdx: noTrack, metadataTrackIdx: noTrack}
	v2 := &Track{TrackID: 2, Kind: KindVideo, refTrackIdx: noTrack, chaptersTrackIdx: noTrack, metadataTrackIdx: noTrack}
	meta := &Track{TrackID: 3, Kind: KindMetadata, refTrackIdx: noTrack, chaptersTrackIdx: noTrack, metadataTrackIdx: noTrack}
	mv := &Movie{Tracks: []*Track{v1, v2, meta}}

	linkTracks(mv)

	require.Equal(t, noTrack, v1.metadataTrackIdx)
	require.Equal(t, noTrack, v2.metadataTrackIdx)
}
