package mp4

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a demuxer error. Kinds, not specific messages, are
// the stable contract: callers should switch on ErrorKind, never on error
// text.
type ErrorKind int

const (
	// ErrInvalidArgument covers an out-of-range track index, a negative
	// read length, or any other caller-supplied argument that is malformed
	// on its face.
	ErrInvalidArgument ErrorKind = iota
	// ErrIoError covers an OS-level open/seek/read failure or short read.
	ErrIoError
	// ErrMalformedSize covers a box whose declared size does not fit its
	// parent's remaining budget, or whose payload is shorter than a
	// mandatory field.
	ErrMalformedSize
	// ErrDuplicateTable covers a second occurrence of a sample table that
	// must appear at most once per track.
	ErrDuplicateTable
	// ErrProtocolError covers an internal consistency violation between
	// sample tables (disagreeing sample counts).
	ErrProtocolError
	// ErrOutOfMemory covers an allocation failure for a table or a
	// copied blob.
	ErrOutOfMemory
	// ErrNotFound covers a requested track ID that does not exist, or a
	// seek that cannot resolve to any sample.
	ErrNotFound
	// ErrBufferTooSmall covers a caller-supplied buffer that cannot fit
	// the requested sample or cover art.
	ErrBufferTooSmall
	// ErrNotSupported covers a request the track cannot serve: asking
	// AvcDecoderConfig for a track with no video sample entry.
	ErrNotSupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrIoError:
		return "io error"
	case ErrMalformedSize:
		return "malformed size"
	case ErrDuplicateTable:
		return "duplicate table"
	case ErrProtocolError:
		return "protocol error"
	case ErrOutOfMemory:
		return "out of memory"
	case ErrNotFound:
		return "not found"
	case ErrBufferTooSmall:
		return "buffer too small"
	case ErrNotSupported:
		return "not supported"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every operation in this package. It
// carries a Kind so callers can branch on the taxonomy rather than parsing
// message text.
type Error struct {
	Kind ErrorKind
	msg  string
	err  error // optional wrapped cause, with stack via pkg/errors
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, mp4.ErrNotFound) style checks work against a Kind value
// directly is not supported by the stdlib — use KindOf instead. Is exists
// so two *Error values of the same Kind compare equal under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

func wrapError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, err: errors.WithStack(cause)}
}

// KindOf extracts the ErrorKind from err, if err is (or wraps) an *Error.
// Returns ok=false for any other error, including nil.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
