package mp4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalkMoovQuickTimeUdtaTags(t *testing.T) {
	nameInner := concat(beU32(0), []byte("My Movie"))
	nameData := fullBox("data", 0, 1, nameInner)
	nameTag := box("\xA9nam", nameData)

	covrInner := concat(beU32(0), []byte{0xFF, 0xD8, 0xFF})
	covrData := fullBox("data", 0, 13, covrInner)
	covrTag := box("covr", covrData)

	ilst := box("ilst", concat(nameTag, covrTag))
	meta := box("meta", concat([]byte{0, 0, 0, 0}, ilst)) // QuickTime form: version+flags present
	udta := box("udta", meta)

	var mv Movie
	require.NoError(t, walkMoov(udta, &mv, 0))

	require.Equal(t, []string{"\xa9nam"}, mv.Metadata.UdtaKeys)
	require.Equal(t, []string{"My Movie"}, mv.Metadata.UdtaValues)
	require.True(t, mv.Metadata.UdtaCover.Present)
	require.Equal(t, CoverMimeJPEG, mv.Metadata.UdtaCover.MimeKind)
	require.EqualValues(t, 3, mv.Metadata.UdtaCover.Size)
}

func TestWalkMoovIsoMetaKeys(t *testing.T) {
	keyStr := "com.apple.quicktime.make"
	keyEntry := concat(beU32(uint32(8+len(keyStr))), []byte("mdta"), []byte(keyStr))
	keysBox := fullBox("keys", 0, 0, concat(beU32(1), keyEntry))

	idxInner := concat(beU32(0), []byte("Acme"))
	idxData := fullBox("data", 0, 1, idxInner)
	idxTag := rawBox([4]byte{0, 0, 0, 1}, idxData)

	ilst := box("ilst", idxTag)
	meta := box("meta", concat(keysBox, ilst)) // ISO form: no version/flags

	var mv Movie
	require.NoError(t, walkMoov(meta, &mv, 0))

	require.Equal(t, []string{"com.apple.quicktime.make"}, mv.Metadata.MetaKeys)
	require.Equal(t, []string{"Acme"}, mv.Metadata.MetaValues)
}

func TestWalkMoovLocationAtom(t *testing.T) {
	loc := "+48.8584+002.2945/"
	xyzPayload := concat(beU16(uint16(len(loc))), beU16(0), []byte(loc))
	xyz := rawBox(TypeXyz, xyzPayload)
	udta := box("udta", xyz)

	var mv Movie
	require.NoError(t, walkMoov(udta, &mv, 0))

	require.True(t, mv.Metadata.HasLocation)
	require.Equal(t, TypeXyz.String(), mv.Metadata.LocationKey)
	require.Equal(t, loc, mv.Metadata.LocationValue)
}
