package bmff

// Atom is the contract every box in the tree satisfies, whether it is a
// concrete type from package box or the generic UnknownAtom fallback.
// Base implements everything but WriteFields/InspectFields/FieldsSize
// and Clone, which each concrete kind supplies.
type Atom interface {
	// Type is the atom's four-character code.
	Type() Type
	// Size32 is the header's own size field as last computed or read; 1
	// signals an extended 64-bit size follows the type.
	Size32() uint32
	// Size64 is the extended size, valid only when Size32() == 1.
	Size64() uint64
	// EffectiveSize is the total encoded size of the atom including its
	// header, resolving the size32/size64 split.
	EffectiveSize() Size
	// HeaderSize is EffectiveSize minus the field payload: 8 or 16 bytes
	// for a plain atom, plus 4 more when IsFull.
	HeaderSize() Size

	// IsFull reports whether the atom carries a version/flags word
	// immediately after its type, per ISO/IEC 14496-12 §4.2 "FullBox".
	IsFull() bool
	Version() uint8
	Flags() uint32
	SetVersion(v uint8)
	SetFlags(f uint32)

	// Parent is the enclosing container, or nil at the tree root.
	Parent() AtomParent
	setParent(p AtomParent)

	// SetSize recomputes the header's size32/size64 split from
	// HeaderSize()+fieldsSize, promoting to the extended form when the
	// total no longer fits in 32 bits.
	SetSize(fieldsSize Size)

	// Write serializes the full atom (header + fields) to stream.
	Write(stream ByteStream) error
	// Inspect renders the full atom (header + fields) to insp.
	Inspect(insp AtomInspector) error

	// WriteFields serializes only the field payload, with the cursor
	// already positioned past the header.
	WriteFields(stream ByteStream) error
	// InspectFields renders only the field payload.
	InspectFields(insp AtomInspector) error
	// FieldsSize is the encoded length of the field payload alone.
	FieldsSize() Size

	// Clone returns a deep, parent-less copy of the atom.
	Clone() Atom

	// Detach removes the atom from its parent's child list, if any.
	Detach()
}

// Base implements the Atom contract's header bookkeeping; concrete atom
// types embed it and pass themselves as self to NewBase so Base's
// Write/Inspect can call back into the concrete type's WriteFields,
// InspectFields and FieldsSize (Go has no virtual dispatch through plain
// embedding, so this stands in for the vtable Ap4Atom gets for free).
type Base struct {
	self    Atom
	typ     Type
	size32  uint32
	size64  uint64
	isFull  bool
	version uint8
	flags   uint32
	parent  AtomParent
}

// fieldsWriter is the subset of Atom that Base.Write/Inspect dispatch to;
// satisfied by whatever concrete type embeds Base.
type fieldsWriter interface {
	WriteFields(stream ByteStream) error
}

type fieldsInspector interface {
	InspectFields(insp AtomInspector) error
}

// NewBase constructs a Base for a fresh, unparented atom of the given
// type. self must be the concrete atom embedding this Base.
func NewBase(self Atom, typ Type, isFull bool) *Base {
	b := &Base{self: self, typ: typ, isFull: isFull}
	return b
}

// Bind re-targets an already-constructed Base at self. Concrete atom
// types defined outside this package (see package box) can't call
// NewBase until their own zero value exists to pass as self when it is
// itself embedding the Base being constructed in the same literal;
// Bind lets them construct Base first and wire self in afterward.
func (b *Base) Bind(self Atom) { b.self = self }

func (b *Base) Type() Type   { return b.typ }
func (b *Base) Size32() uint32 { return b.size32 }
func (b *Base) Size64() uint64 { return b.size64 }
func (b *Base) IsFull() bool   { return b.isFull }
func (b *Base) Version() uint8 { return b.version }
func (b *Base) Flags() uint32  { return b.flags }

func (b *Base) SetVersion(v uint8) { b.version = v }
func (b *Base) SetFlags(f uint32)  { b.flags = f }

func (b *Base) Parent() AtomParent    { return b.parent }
func (b *Base) setParent(p AtomParent) { b.parent = p }

// EffectiveSize resolves the size32/size64 split: size32 itself unless
// it is the 1 sentinel, in which case size64 is authoritative.
func (b *Base) EffectiveSize() Size {
	if b.size32 == 1 {
		return Size(b.size64)
	}
	return Size(b.size32)
}

// HeaderSize is the header-only byte count: 8 (or 16 extended) plus 4
// more when the atom is a FullBox.
func (b *Base) HeaderSize() Size {
	var h Size
	if b.size32 == 1 {
		h = HeaderSize64
	} else {
		h = HeaderSize32
	}
	if b.isFull {
		h += 4
	}
	return h
}

// SetSize recomputes size32/size64 from the header size plus the given
// field payload length, switching to the extended 64-bit form exactly
// when the total no longer fits in 32 bits, and switching back to the
// plain 32-bit form as soon as it fits again. The decision is made
// fresh from fieldsSize each call, never from the atom's previous
// size32/size64 state.
func (b *Base) SetSize(fieldsSize Size) {
	var h Size = HeaderSize32
	if b.isFull {
		h += 4
	}
	if h+fieldsSize <= 0xFFFFFFFF {
		b.size32 = uint32(h + fieldsSize)
		b.size64 = 0
		return
	}
	// Promote: header grows by 8 bytes (size64 field), so recompute.
	b.size32 = 1
	h = HeaderSize64
	if b.isFull {
		h += 4
	}
	b.size64 = uint64(h + fieldsSize)
}

// versionSyncer lets a concrete full-atom type derive its version byte
// from its own field values (e.g. a movie/track header promoting to
// version 1 once a 64-bit timestamp no longer fits in 32 bits) right
// before the header is serialized, rather than reacting to it from
// inside WriteFields, by which point WriteHeader has already run. Its
// method is exported so that types in other packages can implement it.
type versionSyncer interface {
	SyncVersion()
}

// Write serializes the header followed by the concrete type's field
// payload.
func (b *Base) Write(stream ByteStream) error {
	if vs, ok := b.self.(versionSyncer); ok {
		vs.SyncVersion()
	}
	if err := b.WriteHeader(stream); err != nil {
		return err
	}
	fw, ok := b.self.(fieldsWriter)
	if !ok {
		return nil
	}
	return fw.WriteFields(stream)
}

// WriteHeader serializes just the size/type/version/flags header.
func (b *Base) WriteHeader(stream ByteStream) error {
	if b.size32 == 1 {
		if err := stream.WriteUI32(1); err != nil {
			return err
		}
	} else if err := stream.WriteUI32(b.size32); err != nil {
		return err
	}
	if err := stream.WriteUI32(uint32(b.typ)); err != nil {
		return err
	}
	if b.size32 == 1 {
		if err := stream.WriteUI64(b.size64); err != nil {
			return err
		}
	}
	if b.isFull {
		vf := uint32(b.version)<<24 | (b.flags & 0x00FFFFFF)
		if err := stream.WriteUI32(vf); err != nil {
			return err
		}
	}
	return nil
}

// Inspect renders the header followed by the concrete type's fields.
func (b *Base) Inspect(insp AtomInspector) error {
	insp.StartElement(b.typ.String(), "")
	defer insp.EndElement()

	if err := b.InspectHeader(insp); err != nil {
		return err
	}
	fi, ok := b.self.(fieldsInspector)
	if !ok {
		return nil
	}
	return fi.InspectFields(insp)
}

// InspectHeader renders the header fields common to every atom.
func (b *Base) InspectHeader(insp AtomInspector) error {
	insp.AddFieldUint("size", uint64(b.EffectiveSize()), HintNone)
	if b.isFull {
		insp.AddFieldUint("version", uint64(b.version), HintNone)
		insp.AddFieldUint("flags", uint64(b.flags), HintHex)
	}
	return nil
}

// Detach removes the atom from its parent's child list, if any, leaving
// it parentless but otherwise intact.
func (b *Base) Detach() {
	if b.parent == nil {
		return
	}
	b.parent.RemoveChild(b.self)
	b.parent = nil
}

// CloneBase returns a copy of b with no parent, for use by a concrete
// type's Clone.
func (b *Base) CloneBase(self Atom) *Base {
	nb := *b
	nb.self = self
	nb.parent = nil
	return &nb
}

// ReadFullHeader consumes a FullBox's version/flags word from stream,
// already positioned past the type. It is a package-level helper rather
// than a Base method because it runs before a concrete atom's Base
// exists: callers typically read the plain header, decide on a
// constructor via the type, then call this from within that
// constructor.
func ReadFullHeader(stream ByteStream) (version uint8, flags uint32, err error) {
	vf, err := stream.ReadUI32()
	if err != nil {
		return 0, 0, err
	}
	return uint8(vf >> 24), vf & 0x00FFFFFF, nil
}
