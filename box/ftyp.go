package box

import "ktkr.us/pkg/bmff"

// FtypAtom is the file-type compatibility box: a major brand, a minor
// version, and a list of compatible brands, each a four-character code
// stored as a plain bmff.Type rather than a string so the FourCC
// packing/unpacking logic lives in exactly one place.
type FtypAtom struct {
	*bmff.Base
	MajorBrand       bmff.Type
	MinorVersion     uint32
	CompatibleBrands []bmff.Type
}

func init() {
	Register(bmff.TypeFTYP, false, newFtypFromStream)
}

// NewFtypAtom builds an ftyp from scratch for authoring.
func NewFtypAtom(major bmff.Type, minor uint32, compatible []bmff.Type) *FtypAtom {
	f := &FtypAtom{MajorBrand: major, MinorVersion: minor, CompatibleBrands: compatible}
	f.Base = bmff.NewBase(f, bmff.TypeFTYP, false)
	f.Base.SetSize(f.FieldsSize())
	return f
}

func newFtypFromStream(h Header, stream bmff.ByteStream) (bmff.Atom, error) {
	f := &FtypAtom{}
	f.Base = bmff.NewBase(f, h.Type, false)

	major, err := stream.ReadUI32()
	if err != nil {
		return nil, err
	}
	minor, err := stream.ReadUI32()
	if err != nil {
		return nil, err
	}
	f.MajorBrand = bmff.Type(major)
	f.MinorVersion = minor

	payload := h.EffectiveSize() - headerSizeFor(h)
	remaining := payload - 8
	for remaining > 0 {
		brand, err := stream.ReadUI32()
		if err != nil {
			return nil, err
		}
		f.CompatibleBrands = append(f.CompatibleBrands, bmff.Type(brand))
		remaining -= 4
	}
	f.Base.SetSize(f.FieldsSize())
	return f, nil
}

func (f *FtypAtom) FieldsSize() bmff.Size {
	return 8 + bmff.Size(len(f.CompatibleBrands))*4
}

func (f *FtypAtom) WriteFields(stream bmff.ByteStream) error {
	if err := stream.WriteUI32(uint32(f.MajorBrand)); err != nil {
		return err
	}
	if err := stream.WriteUI32(f.MinorVersion); err != nil {
		return err
	}
	for _, b := range f.CompatibleBrands {
		if err := stream.WriteUI32(uint32(b)); err != nil {
			return err
		}
	}
	return nil
}

func (f *FtypAtom) InspectFields(insp bmff.AtomInspector) error {
	insp.AddFieldString("major_brand", f.MajorBrand.String())
	insp.AddFieldUint("minor_version", uint64(f.MinorVersion), bmff.HintNone)
	for _, b := range f.CompatibleBrands {
		insp.AddFieldString("compatible_brand", b.String())
	}
	return nil
}

func (f *FtypAtom) Clone() bmff.Atom {
	nf := &FtypAtom{
		MajorBrand:       f.MajorBrand,
		MinorVersion:     f.MinorVersion,
		CompatibleBrands: append([]bmff.Type(nil), f.CompatibleBrands...),
	}
	nf.Base = f.Base.CloneBase(nf)
	return nf
}
