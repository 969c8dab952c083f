package bmff

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
)

// Referenceable is a shared-ownership lifetime contract: every holder of
// a value must AddReference on acquire and Release on drop. The last
// Release triggers destruction. Reference-counting operations are
// atomic, since a stream may be released from nested destructor chains
// (e.g. a SubStream releasing its container while the container itself
// is mid-teardown) even in otherwise single-threaded use.
type Referenceable interface {
	AddReference()
	Release()
}

// ByteStream models a random-access byte sequence with a cursor. A
// stream is single-reader: callers must serialize their own use of a
// shared stream, and implementations make no attempt to guard against
// concurrent cursor use.
//
// Read and Write both follow the same short-transfer discipline: pass a
// non-nil n to permit a short transfer (the actual count is written to
// *n), or pass nil to require the full length of dst/src, with anything
// less reported as an error.
type ByteStream interface {
	Referenceable

	Read(dst []byte, n *int) error
	Write(src []byte, n *int) error
	Seek(pos Position) error
	Tell() (Position, error)
	Size() (Size, error)
	// CopyTo transfers exactly n bytes from this stream to sink using a
	// fixed-size internal staging buffer, failing with ErrEOS/ErrIO on a
	// partial transfer.
	CopyTo(sink ByteStream, n Size) error

	ReadUI08() (uint8, error)
	ReadUI16() (uint16, error)
	ReadUI24() (uint32, error)
	ReadUI32() (uint32, error)
	ReadUI64() (uint64, error)
	// ReadString reads up to len(buf)-1 bytes until the first NUL byte
	// (inclusive) and NUL-terminates buf at the string's end. It fails
	// with ErrBufferTooSmall if no NUL is found within len(buf)-1 bytes.
	ReadString(buf []byte) error

	WriteUI08(v uint8) error
	WriteUI16(v uint16) error
	WriteUI24(v uint32) error
	WriteUI32(v uint32) error
	WriteUI64(v uint64) error
	// WriteString writes the bytes of s including a terminating NUL.
	WriteString(s string) error
}

// rawStream is the minimal raw I/O surface each concrete stream
// implements directly; codec builds the big-endian integer/string
// helpers and CopyTo on top of it once, so SubStream, MemoryByteStream
// and FileByteStream don't each reimplement them.
type rawStream interface {
	Read(dst []byte, n *int) error
	Write(src []byte, n *int) error
}

// codec implements the big-endian codec methods and CopyTo described by
// ByteStream, in terms of a concrete stream's raw Read/Write. Embed it
// in a concrete stream struct and call bind(self) from the constructor
// so codec can route through the concrete type's own Read/Write
// (Go has no virtual dispatch through plain embedding).
type codec struct {
	raw rawStream
}

func (c *codec) bind(raw rawStream) { c.raw = raw }

func (c *codec) ReadUI08() (uint8, error) {
	var b [1]byte
	if err := c.raw.Read(b[:], nil); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *codec) ReadUI16() (uint16, error) {
	var b [2]byte
	if err := c.raw.Read(b[:], nil); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (c *codec) ReadUI24() (uint32, error) {
	var b [3]byte
	if err := c.raw.Read(b[:], nil); err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func (c *codec) ReadUI32() (uint32, error) {
	var b [4]byte
	if err := c.raw.Read(b[:], nil); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (c *codec) ReadUI64() (uint64, error) {
	var b [8]byte
	if err := c.raw.Read(b[:], nil); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (c *codec) ReadString(buf []byte) error {
	if len(buf) == 0 {
		return ErrInvalidParameters
	}
	max := len(buf) - 1
	var b [1]byte
	for i := 0; i < max; i++ {
		if err := c.raw.Read(b[:], nil); err != nil {
			return err
		}
		if b[0] == 0 {
			buf[i] = 0
			return nil
		}
		buf[i] = b[0]
	}
	return ErrBufferTooSmall
}

func (c *codec) WriteUI08(v uint8) error {
	return c.raw.Write([]byte{v}, nil)
}

func (c *codec) WriteUI16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return c.raw.Write(b[:], nil)
}

func (c *codec) WriteUI24(v uint32) error {
	var b [3]byte
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
	return c.raw.Write(b[:], nil)
}

func (c *codec) WriteUI32(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return c.raw.Write(b[:], nil)
}

func (c *codec) WriteUI64(v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return c.raw.Write(b[:], nil)
}

func (c *codec) WriteString(s string) error {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return c.raw.Write(b, nil)
}

// copyBufSize is the size of the staging buffer CopyTo borrows from
// copyBufPool; ≥ 4 KiB per the stream contract.
const copyBufSize = 32 * 1024

var copyBufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, copyBufSize)
		return &buf
	},
}

func (c *codec) CopyTo(sink ByteStream, n Size) error {
	bufp := copyBufPool.Get().(*[]byte)
	defer copyBufPool.Put(bufp)
	buf := *bufp

	remaining := n
	for remaining > 0 {
		chunk := Size(len(buf))
		if remaining < chunk {
			chunk = remaining
		}
		if err := c.raw.Read(buf[:chunk], nil); err != nil {
			return err
		}
		if err := sink.Write(buf[:chunk], nil); err != nil {
			return err
		}
		remaining -= chunk
	}
	return nil
}

// refCount implements the atomic add/release half of Referenceable.
// Concrete streams embed it and call release() from their own Release
// method, running teardown only when it reports the last reference.
type refCount struct {
	n int32
}

func (r *refCount) AddReference() { atomic.AddInt32(&r.n, 1) }

// release decrements the count and reports whether this was the last
// reference.
func (r *refCount) release() bool { return atomic.AddInt32(&r.n, -1) == 0 }
