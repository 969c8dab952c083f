// Package box supplies the concrete, four-character-coded atom kinds
// and the type-dispatching factory that package bmff's core leaves as
// external collaborators: ftyp, mdat/free/skip, the pure-container
// kinds, mvhd/tkhd, and the iTunes metadata leaves. It is the
// registry-driven layer a higher-level reader picks a concrete Go type
// through, dispatching on FourCC rather than on magic bytes.
package box

import (
	"ktkr.us/pkg/bmff"
)

// Constructor builds a concrete atom from a just-read Header, with
// stream positioned at the first payload byte. Implementations that
// need to recurse into children call ParseChildren themselves.
type Constructor func(h Header, stream bmff.ByteStream) (bmff.Atom, error)

// Header is the plain (type, size) envelope common to every atom,
// decoded by readHeader before a Constructor is chosen.
type Header struct {
	Type    bmff.Type
	Size32  uint32
	Size64  uint64
	IsFull  bool
	Origin  bmff.Position // absolute offset of the first header byte
}

// EffectiveSize resolves the size32/size64 split the same way
// bmff.Base.EffectiveSize does.
func (h Header) EffectiveSize() bmff.Size {
	if h.Size32 == 1 {
		return bmff.Size(h.Size64)
	}
	return bmff.Size(h.Size32)
}

var registry = map[bmff.Type]Constructor{}

// isFullType records which registered types are FullBox kinds, since
// that can't be determined from the wire header alone (it's a property
// of the type, not the bytes) — readHeader consults it before deciding
// whether to consume a version/flags word.
var isFullType = map[bmff.Type]bool{}

// Register associates typ with a Constructor, and records whether that
// type is a FullBox kind. Called from each concrete type's init.
func Register(typ bmff.Type, isFull bool, ctor Constructor) {
	registry[typ] = ctor
	isFullType[typ] = isFull
}

// Parse reads one atom (header plus fields) from stream, already
// positioned at the atom's first byte, dispatching to the registered
// Constructor for its type or falling back to bmff.UnknownAtom. On
// return the stream cursor is positioned just past the atom
// (Header.EffectiveSize() bytes past Header.Origin), regardless of
// where the constructor itself left it.
func Parse(stream bmff.ByteStream) (bmff.Atom, error) {
	origin, err := stream.Tell()
	if err != nil {
		return nil, err
	}
	h, err := readHeader(stream, origin)
	if err != nil {
		return nil, err
	}

	var atom bmff.Atom
	if ctor, ok := registry[h.Type]; ok {
		atom, err = ctor(h, stream)
	} else {
		atom, err = bmff.NewUnknownAtom(h.Type, h.Size32, h.Size64, h.IsFull, stream)
	}
	if err != nil {
		return nil, err
	}

	end := origin + Position(h.EffectiveSize())
	if err := stream.Seek(end); err != nil {
		return nil, err
	}
	return atom, nil
}

// Position is a local alias so this file doesn't need to qualify every
// use of bmff.Position.
type Position = bmff.Position

// readHeader decodes the size32/type/[size64] envelope and records
// whether a vflags word follows, without reading it. origin
// is the already-known absolute position of the first byte (the caller
// read it via Tell before calling in, since Tell itself consumes no
// bytes); readHeader does not resolve size32 == 0 ("extends to end of
// container") since it has no notion of an enclosing container's
// remaining length — ParseChildren resolves that case instead.
func readHeader(stream bmff.ByteStream, origin Position) (Header, error) {
	size32, err := stream.ReadUI32()
	if err != nil {
		return Header{}, err
	}
	typRaw, err := stream.ReadUI32()
	if err != nil {
		return Header{}, err
	}
	typ := bmff.Type(typRaw)

	h := Header{Type: typ, Size32: size32, Origin: origin}
	if size32 == 1 {
		size64, err := stream.ReadUI64()
		if err != nil {
			return Header{}, err
		}
		h.Size64 = size64
	}
	// Constructors read the version/flags word themselves via
	// bmff.ReadFullHeader once they know the concrete type, so
	// readHeader only needs to record whether to expect it; it does
	// not consume it here.
	h.IsFull = isFullType[typ]
	return h, nil
}

// ParseChildren parses a sequence of sibling atoms filling exactly
// containerSize bytes of stream's payload region (stream must already
// be positioned at the first child), resolving any size32 == 0 child to
// "the rest of containerSize".
func ParseChildren(stream bmff.ByteStream, containerSize bmff.Size) ([]bmff.Atom, error) {
	start, err := stream.Tell()
	if err != nil {
		return nil, err
	}
	end := start + Position(containerSize)

	var children []bmff.Atom
	for {
		pos, err := stream.Tell()
		if err != nil {
			return nil, err
		}
		if pos >= end {
			break
		}
		child, err := parseOne(stream, bmff.Size(end-pos))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// parseOne is Parse plus size32 == 0 resolution: a zero size32 is
// rewritten to exactly remaining bytes before any constructor runs.
func parseOne(stream bmff.ByteStream, remaining bmff.Size) (bmff.Atom, error) {
	origin, err := stream.Tell()
	if err != nil {
		return nil, err
	}
	h, err := readHeader(stream, origin)
	if err != nil {
		return nil, err
	}
	if h.Size32 == 0 {
		h.Size32 = uint32(remaining)
	}

	var atom bmff.Atom
	if ctor, ok := registry[h.Type]; ok {
		atom, err = ctor(h, stream)
	} else {
		atom, err = bmff.NewUnknownAtom(h.Type, h.Size32, h.Size64, h.IsFull, stream)
	}
	if err != nil {
		return nil, err
	}

	end := origin + Position(h.EffectiveSize())
	if err := stream.Seek(end); err != nil {
		return nil, err
	}
	return atom, nil
}
