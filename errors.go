package marc

import "errors"

// Sentinel error kinds. Callers compare with errors.Is; the deserializer and
// framer wrap these with github.com/pkg/errors when they have context worth
// attaching (offending buffer, partial record, offending pattern).
var (
	// ErrInvalidLeader is returned when the 24-byte leader prefix fails any
	// of the structural checks in the leader validator.
	ErrInvalidLeader = errors.New("marc: invalid leader")

	// ErrInvalidTag is returned when a directory entry's tag does not parse
	// as a 3-digit decimal number.
	ErrInvalidTag = errors.New("marc: invalid tag")

	// ErrDirectoryMismatch is returned when the directory entry count does
	// not match the number of field payloads found after splitting on the
	// field terminator.
	ErrDirectoryMismatch = errors.New("marc: directory/field count mismatch")

	// ErrOutOfRange is returned by Record.At when an index falls outside
	// [0, Count()). Pattern slice selection does not return it: an
	// out-of-range control-field slice yields an empty string.
	ErrOutOfRange = errors.New("marc: index out of range")

	// ErrUnexpectedEOF is returned by the stream framer when a record
	// terminator was observed but the stream does not have enough bytes to
	// satisfy the record length it implies.
	ErrUnexpectedEOF = errors.New("marc: unexpected end of stream")

	// ErrStreamInit is returned by Open when the stream length it is given
	// is negative.
	ErrStreamInit = errors.New("marc: stream initialization failed")

	// ErrEndOfStream is reported by Framer.Err when Next is called again
	// after the framer has already been exhausted or closed.
	ErrEndOfStream = errors.New("marc: stream already exhausted")
)
