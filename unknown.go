package bmff

// UnknownAtom preserves the payload of an atom whose type the registry
// in package box doesn't recognize, so that round-tripping a tree never
// silently drops data. Rather than buffering the payload, it keeps a
// reference to the stream it was parsed from plus the absolute offset of
// the payload's first byte, and replays it on Write via CopyTo.
type UnknownAtom struct {
	*Base
	sourceStream ByteStream
	sourceOffset Position
	size         Size
}

// NewUnknownAtom wraps size bytes of payload starting at stream's
// current position. It takes a reference on stream, released by Close
// (called automatically by Parent.DeleteChild, and required of any
// other caller that discards an UnknownAtom without adding it to a
// parent).
func NewUnknownAtom(typ Type, size32 uint32, size64 uint64, isFull bool, stream ByteStream) (*UnknownAtom, error) {
	offset, err := stream.Tell()
	if err != nil {
		return nil, err
	}
	u := &UnknownAtom{sourceStream: stream, sourceOffset: offset}
	u.Base = NewBase(u, typ, isFull)
	u.Base.size32 = size32
	u.Base.size64 = size64
	payload := u.Base.EffectiveSize() - u.Base.HeaderSize()
	u.size = payload
	stream.AddReference()
	return u, nil
}

// Close releases the reference held on the source stream and forgets
// the stream, so a second call is a no-op. Write must not be called
// after Close.
func (u *UnknownAtom) Close() {
	if u.sourceStream != nil {
		u.sourceStream.Release()
		u.sourceStream = nil
	}
}

func (u *UnknownAtom) FieldsSize() Size { return u.size }

func (u *UnknownAtom) WriteFields(stream ByteStream) error {
	if err := u.sourceStream.Seek(u.sourceOffset); err != nil {
		return err
	}
	return u.sourceStream.CopyTo(stream, u.size)
}

func (u *UnknownAtom) InspectFields(insp AtomInspector) error {
	insp.AddFieldUint("data", uint64(u.size), HintNone)
	return nil
}

// Clone makes an independent UnknownAtom sharing the same source stream
// reference (with its own AddReference), so the copy can outlive or be
// written separately from the original.
func (u *UnknownAtom) Clone() Atom {
	nu := &UnknownAtom{
		sourceStream: u.sourceStream,
		sourceOffset: u.sourceOffset,
		size:         u.size,
	}
	nu.Base = u.Base.CloneBase(nu)
	nu.sourceStream.AddReference()
	return nu
}
