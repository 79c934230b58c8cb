package mp4

// reconcileMetadata flattens the three staged metadata sources into the
// consumer-facing FinalMetadata view: non-empty ISO meta/keys entries
// first (in key-list order), then non-empty QuickTime udta entries (in
// atom order), then the location pair if present. A meta-namespace cover
// always wins over a udta-namespace one when both are present.
func reconcileMetadata(mv *Movie) {
	var entries []FinalMetadataEntry

	for i, v := range mv.Metadata.MetaValues {
		if v == "" || mv.Metadata.MetaKeys[i] == "" {
			continue
		}
		entries = append(entries, FinalMetadataEntry{Key: mv.Metadata.MetaKeys[i], Value: v})
	}
	for i, v := range mv.Metadata.UdtaValues {
		if v == "" || mv.Metadata.UdtaKeys[i] == "" {
			continue
		}
		entries = append(entries, FinalMetadataEntry{Key: mv.Metadata.UdtaKeys[i], Value: v})
	}
	if mv.Metadata.HasLocation && mv.Metadata.LocationValue != "" {
		entries = append(entries, FinalMetadataEntry{Key: mv.Metadata.LocationKey, Value: mv.Metadata.LocationValue})
	}

	mv.Final.Entries = entries
	if mv.Metadata.MetaCover.Present {
		mv.Final.Cover = mv.Metadata.MetaCover
	} else {
		mv.Final.Cover = mv.Metadata.UdtaCover
	}
}
