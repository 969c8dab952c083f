// Package bmff models the atom ("box") tree that underlies MP4, MOV, 3GP
// and related ISO Base Media File Format containers (ISO/IEC 14496-12).
// It provides the atom object model (a base contract shared by all atom
// kinds, a parent mixin carrying an ordered child list, a placeholder
// kind that preserves unrecognized atoms byte-for-byte, and the
// traversal/visitor machinery used for serialization and inspection)
// together with a reference-counted byte-stream abstraction used to
// read, mutate and write that tree.
//
// Concrete box types for specific four-character codes and the
// constructor registry that dispatches on type during parsing live in
// the sibling package ktkr.us/pkg/bmff/box, and command-line tooling
// under cmd/; this package
// only specifies the contract they must satisfy and the generic
// unknown-atom fallback.
package bmff

// Position and Size alias the unsigned offsets and extents used
// throughout the stream and atom contracts. Both are 64-bit so that the
// extended-size (size64) form of a box header can be represented
// without truncation.
type Position = uint64
type Size = uint64

// Type is a four-character atom type code packed big-endian into a
// 32-bit value, per ISO/IEC 14496-12 §4.2: byte a in bits 31..24, down to
// d in bits 7..0. Types are compared as plain integers; a Type is not
// required to be printable ASCII (several iTunes metadata tags pack
// 0xA9 as their first byte), and unprintable types round-trip like any
// other.
type Type uint32

// NewType packs four bytes into a Type.
func NewType(a, b, c, d byte) Type {
	return Type(uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d))
}

// ParseType packs the first four bytes of s into a Type. Callers that
// need a Type from a shorter or longer literal should build it with
// NewType instead.
func ParseType(s string) Type {
	var b [4]byte
	copy(b[:], s)
	return NewType(b[0], b[1], b[2], b[3])
}

// String renders t as its four raw bytes. The result is not guaranteed
// to be printable.
func (t Type) String() string {
	b := [4]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)}
	return string(b[:])
}

// Header byte counts for the four header shapes a box can take,
// determined by whether it is a "full" atom and whether its size is
// encoded as a 32- or 64-bit extended size.
const (
	HeaderSize32     Size = 8  // size32 + type
	FullHeaderSize32 Size = 12 // size32 + type + version/flags
	HeaderSize64     Size = 16 // size32(==1) + type + size64
	FullHeaderSize64 Size = 20 // size32(==1) + type + size64 + version/flags
)

// Bounds carried over from Bento4's AP4_ATOM_MAX_NAME_SIZE and
// AP4_ATOM_MAX_URI_SIZE (Ap4Atom.h). MaxPathSegmentSize bounds FindChild's
// path segments; MaxURISize is not used by any code in this module.
const (
	MaxPathSegmentSize = 256
	MaxURISize         = 512
)

// Well-known FourCCs used by this module's own concrete atoms and tests.
// Bento4's Ap4Atom.h defines a much larger table (lines 259-319); this is
// narrowed to the subset package box actually constructs.
var (
	TypeFTYP = ParseType("ftyp")
	TypeFREE = ParseType("free")
	TypeSKIP = ParseType("skip")
	TypeMDAT = ParseType("mdat")
	TypeMOOV = ParseType("moov")
	TypeTRAK = ParseType("trak")
	TypeTKHD = ParseType("tkhd")
	TypeMVHD = ParseType("mvhd")
	TypeUDTA = ParseType("udta")
	TypeMDIA = ParseType("mdia")
	TypeMINF = ParseType("minf")
	TypeSTBL = ParseType("stbl")
	TypeDINF = ParseType("dinf")
	TypeEDTS = ParseType("edts")
	TypeMETA = ParseType("meta")
	TypeILST = ParseType("ilst")
	TypeDATA = ParseType("data")
)
