package bmff

import "errors"

// Sentinel errors implementing the flat result-code enum of the wire
// format's error surface. Callers compare with errors.Is. The streams in
// this package return them unwrapped; FileByteStream wraps only the
// underlying os errors, via github.com/pkg/errors.
var (
	// ErrEOS signals an end-of-stream condition distinct from a generic
	// I/O error: a short read that the caller's contract does not permit.
	ErrEOS = errors.New("bmff: end of stream")

	// ErrOutOfRange signals a seek or write outside a stream's bounds, or
	// an invalid child index/position.
	ErrOutOfRange = errors.New("bmff: position out of range")

	// ErrInvalidParameters signals a nil argument where one is disallowed,
	// a size smaller than the applicable header size, or a 32/64-bit size
	// encoding mismatch.
	ErrInvalidParameters = errors.New("bmff: invalid parameters")

	// ErrBufferTooSmall signals that a fixed-size destination (a
	// ReadString buffer, an inspection rendering buffer) could not hold
	// the result.
	ErrBufferTooSmall = errors.New("bmff: buffer too small")

	// ErrNotSupported signals an operation a concrete type declines to
	// implement. Atom.Clone has no error result, so every atom type
	// implements Clone and none reports this from it.
	ErrNotSupported = errors.New("bmff: not supported")

	// ErrIO wraps an underlying I/O failure that isn't otherwise
	// classified above.
	ErrIO = errors.New("bmff: i/o error")
)
