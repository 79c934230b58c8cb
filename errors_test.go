package mp4

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := newError(ErrNotFound, "missing track")
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, ErrNotFound, kind)

	_, ok = KindOf(errors.New("plain error"))
	require.False(t, ok)

	_, ok = KindOf(nil)
	require.False(t, ok)
}

func TestErrorIsComparesKind(t *testing.T) {
	a := newError(ErrMalformedSize, "a")
	b := newError(ErrMalformedSize, "b")
	c := newError(ErrProtocolError, "c")

	require.True(t, errors.Is(a, b))
	require.False(t, errors.Is(a, c))
}

func TestWrapErrorPreservesCause(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := wrapError(ErrIoError, "reading moov", cause)
	require.ErrorIs(t, wrapped, cause)
}
