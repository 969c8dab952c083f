package box

import "ktkr.us/pkg/bmff"

// MetaAtom is the iTunes/QuickTime metadata container (meta): a
// FullBox wrapping a handler box and (among other children) an ilst
// box holding the actual tag list. It behaves exactly like
// ContainerAtom except for carrying version/flags: it embeds the same
// bmff.Base and bmff.Parent pair and has its own copies of
// ContainerAtom's child-list methods.
type MetaAtom struct {
	*bmff.Base
	bmff.Parent
}

func init() {
	Register(bmff.TypeMETA, true, newMetaFromStream)
	Register(bmff.TypeILST, false, func(h Header, stream bmff.ByteStream) (bmff.Atom, error) {
		return newContainerFromStream(bmff.TypeILST, h, stream)
	})
	for _, tag := range iTunesTagTypes {
		tag := tag
		Register(tag, false, func(h Header, stream bmff.ByteStream) (bmff.Atom, error) {
			return newContainerFromStream(tag, h, stream)
		})
	}
}

// iTunesTagTypes are the ilst child FourCCs this package recognizes as
// tag containers (each holding a single "data" atom), mirroring the
// switch in the reference ITunesMetadata.Set, narrowed to the tags
// commonly seen rather than its full table.
var iTunesTagTypes = []bmff.Type{
	bmff.ParseType("\xa9nam"), bmff.ParseType("\xa9ART"), bmff.ParseType("aART"),
	bmff.ParseType("\xa9alb"), bmff.ParseType("\xa9gen"), bmff.ParseType("\xa9day"),
	bmff.ParseType("\xa9too"), bmff.ParseType("desc"), bmff.ParseType("covr"),
}

func newMetaFromStream(h Header, stream bmff.ByteStream) (bmff.Atom, error) {
	version, flags, err := bmff.ReadFullHeader(stream)
	if err != nil {
		return nil, err
	}
	m := &MetaAtom{}
	m.Base = bmff.NewBase(m, h.Type, true)
	m.Base.SetVersion(version)
	m.Base.SetFlags(flags)
	m.Parent.Bind(m)

	payload := h.EffectiveSize() - headerSizeFor(h)
	children, err := ParseChildren(stream, payload)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		m.Parent.AppendExisting(child, m)
	}
	m.Base.SetSize(bmff.SumChildSizes(children))
	return m, nil
}

func (m *MetaAtom) FieldsSize() bmff.Size {
	return bmff.SumChildSizes(m.Parent.Children())
}

func (m *MetaAtom) WriteFields(stream bmff.ByteStream) error {
	return bmff.WriteChildren(m.Parent.Children(), stream)
}

func (m *MetaAtom) InspectFields(insp bmff.AtomInspector) error {
	return bmff.InspectChildren(m.Parent.Children(), insp)
}

func (m *MetaAtom) recompute() { m.Base.SetSize(m.FieldsSize()) }

func (m *MetaAtom) OnChildAdded(bmff.Atom)   { m.recompute() }
func (m *MetaAtom) OnChildRemoved(bmff.Atom) { m.recompute() }
func (m *MetaAtom) OnChildChanged(bmff.Atom) { m.recompute() }

func (m *MetaAtom) Clone() bmff.Atom {
	nm := &MetaAtom{}
	nm.Base = m.Base.CloneBase(nm)
	nm.Parent.Bind(nm)
	for _, child := range m.Parent.Children() {
		nm.Parent.AppendExisting(child.Clone(), nm)
	}
	return nm
}

// DataAtom is the iTunes metadata leaf ilst/<tag>/data: a FullBox whose
// version/flags-repurposed "type indicator" selects how Value should be
// interpreted (1 = UTF-8 text, 21 = big-endian integer, 13/14 = image
// data, etc. per the iTunes well-known-type registry); this package
// stores Value as raw bytes and leaves interpretation to the caller,
// the same level of abstraction as the reference ITunesMetadata.Set's
// data parameter before its switch decodes it.
type DataAtom struct {
	*bmff.Base
	TypeIndicator uint32
	Locale        uint32
	Value         []byte
}

func init() {
	Register(bmff.TypeDATA, true, newDataFromStream)
}

// NewDataAtom builds a data atom from scratch for authoring.
func NewDataAtom(typeIndicator uint32, value []byte) *DataAtom {
	d := &DataAtom{TypeIndicator: typeIndicator, Value: value}
	d.Base = bmff.NewBase(d, bmff.TypeDATA, true)
	d.Base.SetSize(d.FieldsSize())
	return d
}

func newDataFromStream(h Header, stream bmff.ByteStream) (bmff.Atom, error) {
	version, flags, err := bmff.ReadFullHeader(stream)
	if err != nil {
		return nil, err
	}
	d := &DataAtom{}
	d.Base = bmff.NewBase(d, h.Type, true)
	d.Base.SetVersion(version)
	d.Base.SetFlags(flags)
	d.TypeIndicator = flags

	if d.Locale, err = stream.ReadUI32(); err != nil {
		return nil, err
	}

	payload := h.EffectiveSize() - headerSizeFor(h) - 4
	d.Value = make([]byte, payload)
	if err := stream.Read(d.Value, nil); err != nil {
		return nil, err
	}
	d.Base.SetSize(d.FieldsSize())
	return d, nil
}

// SyncVersion keeps the header's flags field (repurposed here as the
// iTunes type indicator) current with TypeIndicator; Base.Write calls it
// before WriteHeader runs.
func (d *DataAtom) SyncVersion() {
	d.Base.SetFlags(d.TypeIndicator)
}

func (d *DataAtom) FieldsSize() bmff.Size {
	return 4 + bmff.Size(len(d.Value))
}

func (d *DataAtom) WriteFields(stream bmff.ByteStream) error {
	if err := stream.WriteUI32(d.Locale); err != nil {
		return err
	}
	return stream.Write(d.Value, nil)
}

func (d *DataAtom) InspectFields(insp bmff.AtomInspector) error {
	insp.AddFieldUint("type_indicator", uint64(d.TypeIndicator), bmff.HintNone)
	if d.TypeIndicator == 1 {
		insp.AddFieldString("value", string(d.Value))
	} else {
		insp.AddFieldBytes("value", d.Value, bmff.HintNone)
	}
	return nil
}

func (d *DataAtom) Clone() bmff.Atom {
	nd := &DataAtom{
		TypeIndicator: d.TypeIndicator,
		Locale:        d.Locale,
		Value:         append([]byte(nil), d.Value...),
	}
	nd.Base = d.Base.CloneBase(nd)
	return nd
}
