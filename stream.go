package marc

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// streamBufferSize is the reference read-chunk size from spec.md §4.4: the
// MARC-21 record-length field is five decimal digits (max 99999), so a
// 10 MiB buffer is comfortably ample for any single record.
const streamBufferSize = 10 * 1024 * 1024

// StreamOptions configures a Framer.
type StreamOptions struct {
	// ForceUTF8 is threaded to the deserializer: when true, every record
	// is decoded as UTF-8 regardless of leader byte 9.
	ForceUTF8 bool

	// SkipOnError controls deserializer-failure policy. false propagates
	// the first failure immediately and releases the stream; true
	// collects the failure in Exceptions and yields a nil Record for
	// that position.
	SkipOnError bool
}

// Framer iterates over a lazy sequence of Records from a seekable byte
// source using the Next/Value/Err idiom, holding at most one record's
// bytes in memory at a time. Next advances the position; Value reports
// the Record found there (nil for a skipped malformed record); Err
// reports why iteration stopped, if it stopped abnormally.
type Framer struct {
	src    io.ReadSeeker
	length int64
	opts   StreamOptions

	pos         int64 // current stream read position
	recordStart int64 // byte offset where the current record begins
	accLen      int64 // bytes accumulated toward the current record's length

	buf []byte

	current    *Record
	exceptions []Exception
	err        error
	closed     bool
}

// Exception pairs a deserializer failure collected under SkipOnError with
// the raw record bytes that produced it, so a caller can inspect or log
// the offending record without re-reading the source.
type Exception struct {
	Err error
	Raw []byte
}

// Open wraps src (which must support Seek) as a Framer. length is the total
// byte length of src, used to compute Progress and to know when the stream
// is exhausted.
func Open(src io.ReadSeeker, length int64, opts StreamOptions) (*Framer, error) {
	if length < 0 {
		return nil, errors.Wrap(ErrStreamInit, "negative stream length")
	}
	return &Framer{
		src:    src,
		length: length,
		opts:   opts,
		buf:    make([]byte, streamBufferSize),
	}, nil
}

// Progress returns the fraction of the stream consumed so far, in [0, 1].
func (f *Framer) Progress() float64 {
	if f.length == 0 {
		return 1
	}
	return float64(f.pos) / float64(f.length)
}

// Exceptions returns the deserializer failures collected so far under
// SkipOnError. It is only ever non-empty when SkipOnError is true.
func (f *Framer) Exceptions() []Exception { return f.exceptions }

// Err returns the error that ended iteration, if Next returned false
// because of a fatal condition rather than a clean end of stream.
func (f *Framer) Err() error { return f.err }

// Value returns the Record found at the current position, or nil if
// that position held a malformed record that SkipOnError absorbed.
func (f *Framer) Value() (*Record, error) {
	return f.current, nil
}

// Next advances to the next record position and reports whether one was
// found. It returns false at a clean end of stream (Err returns nil) or
// after a fatal error (Err returns the cause). Calling Next again after a
// clean end keeps returning false, with Err now reporting ErrEndOfStream;
// calling it again after a fatal error leaves the original cause in Err.
func (f *Framer) Next() bool {
	if f.closed {
		if f.err == nil {
			f.err = ErrEndOfStream
		}
		return false
	}
	f.current = nil

	for f.pos < f.length {
		toRead := f.buf
		if remaining := f.length - f.pos; remaining < int64(len(toRead)) {
			toRead = toRead[:remaining]
		}
		n, readErr := f.src.Read(toRead)
		if n == 0 && readErr != nil && readErr != io.EOF {
			f.err = errors.Wrap(readErr, "reading stream")
			f.Close()
			return false
		}
		chunk := toRead[:n]
		f.pos += int64(n)

		if idx := bytes.IndexByte(chunk, RecordTerminator); idx >= 0 {
			recordLen := f.accLen + int64(idx) + 1

			if _, err := f.src.Seek(f.recordStart, io.SeekStart); err != nil {
				f.err = errors.Wrap(err, "seeking to record start")
				f.Close()
				return false
			}
			raw := make([]byte, recordLen)
			if _, err := io.ReadFull(f.src, raw); err != nil {
				f.err = errors.Wrap(ErrUnexpectedEOF, err.Error())
				f.Close()
				return false
			}
			if _, err := f.src.Seek(f.recordStart+recordLen, io.SeekStart); err != nil {
				f.err = errors.Wrap(err, "seeking past record")
				f.Close()
				return false
			}
			f.pos = f.recordStart + recordLen
			f.recordStart = f.pos
			f.accLen = 0

			rec, decErr := DecodeBytes(raw, f.opts.ForceUTF8)
			if decErr != nil {
				if f.opts.SkipOnError {
					f.exceptions = append(f.exceptions, Exception{Err: decErr, Raw: raw})
					return true
				}
				f.err = decErr
				f.Close()
				return false
			}
			f.current = rec
			return true
		}

		f.accLen += int64(n)
		if readErr == io.EOF {
			break
		}
	}

	f.Close()
	return false
}

// Close releases the underlying stream. It is safe to call more than
// once; later calls are a no-op.
func (f *Framer) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if closer, ok := f.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
