package box

import "ktkr.us/pkg/bmff"

func init() {
	Register(bmff.TypeFREE, false, newOpaqueLeaf)
	Register(bmff.TypeSKIP, false, newOpaqueLeaf)
	Register(bmff.TypeMDAT, false, newOpaqueLeaf)
}

// newOpaqueLeaf is the constructor for atom kinds whose payload this
// package has no structured reading for (free/skip padding, mdat media
// data). It returns a plain bmff.UnknownAtom, the same result Parse's
// fallback gives an unregistered type, so the payload is preserved by
// reference rather than read; like any atom, it is found by GetChild/
// FindChild through its FourCC. Bento4 keeps free/skip/mdat as thin
// payload-preserving atoms too (Ap4Atom.h's AP4_UnknownAtom family).
func newOpaqueLeaf(h Header, stream bmff.ByteStream) (bmff.Atom, error) {
	return bmff.NewUnknownAtom(h.Type, h.Size32, h.Size64, h.IsFull, stream)
}
