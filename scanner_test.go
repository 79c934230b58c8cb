package mp4

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestScannerPlainBoxes(t *testing.T) {
	ftyp := box("ftyp", []byte("isom"))
	free := box("free", nil)
	data := concat(ftyp, free)

	sc := NewScanner(bytes.NewReader(data))
	require.True(t, sc.Next())
	require.Equal(t, TypeFtyp, sc.Entry().Type)
	require.EqualValues(t, len(ftyp), sc.Entry().Size)
	require.Equal(t, 8, sc.Entry().HeaderSize)

	require.True(t, sc.Next())
	require.Equal(t, TypeFree, sc.Entry().Type)

	require.False(t, sc.Next())
	require.NoError(t, sc.Err())
}

func TestScannerLargesize(t *testing.T) {
	payload := bytes.Repeat([]byte{0x11}, 16)
	out := make([]byte, 16+len(payload))
	copy(out[0:4], []byte{0, 0, 0, 1}) // size field signals largesize follows
	copy(out[4:8], "mdat")
	binary.BigEndian.PutUint64(out[8:16], uint64(16+len(payload)))
	copy(out[16:], payload)

	sc := NewScanner(bytes.NewReader(out))
	require.True(t, sc.Next())
	e := sc.Entry()
	require.Equal(t, TypeMdat, e.Type)
	require.Equal(t, 16, e.HeaderSize)
	require.EqualValues(t, 16+len(payload), e.Size)
}

func TestScannerUuidExtendedType(t *testing.T) {
	want := uuid.New()
	payload := []byte("vendor-specific-payload")
	out := make([]byte, 24+len(payload))
	binary.BigEndian.PutUint32(out[0:4], uint32(24+len(payload)))
	copy(out[4:8], "uuid")
	wantBytes, err := want.MarshalBinary()
	require.NoError(t, err)
	copy(out[8:24], wantBytes)
	copy(out[24:], payload)

	sc := NewScanner(bytes.NewReader(out))
	require.True(t, sc.Next())
	e := sc.Entry()
	require.Equal(t, TypeUuid, e.Type)
	require.Equal(t, want, e.ExtendedType)
	require.Equal(t, 24, e.HeaderSize)
	require.EqualValues(t, len(payload), e.DataSize())

	buf := make([]byte, e.DataSize())
	require.NoError(t, sc.ReadBody(buf))
	require.Equal(t, payload, buf)
}

func TestScannerSizeZeroExtendsToEOF(t *testing.T) {
	hdr := make([]byte, 8)
	copy(hdr[4:8], "mdat")
	body := bytes.Repeat([]byte{0x22}, 40)
	data := concat(hdr, body)

	sc := NewScanner(bytes.NewReader(data))
	require.True(t, sc.Next())
	e := sc.Entry()
	require.EqualValues(t, len(data), e.Size)
	require.EqualValues(t, len(body), e.DataSize())
}
