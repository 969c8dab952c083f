package box

import "ktkr.us/pkg/bmff"

// ContainerAtom is the single reusable type for every box whose payload
// is purely a sequence of children — moov, trak, udta, mdia, minf, stbl,
// dinf, edts — registered once per FourCC instead of once per Go type.
type ContainerAtom struct {
	*bmff.Base
	bmff.Parent
}

func init() {
	for _, t := range []bmff.Type{
		bmff.TypeMOOV, bmff.TypeTRAK, bmff.TypeUDTA, bmff.TypeMDIA,
		bmff.TypeMINF, bmff.TypeSTBL, bmff.TypeDINF, bmff.TypeEDTS,
	} {
		t := t
		Register(t, false, func(h Header, stream bmff.ByteStream) (bmff.Atom, error) {
			return newContainerFromStream(t, h, stream)
		})
	}
}

// NewContainerAtom returns an empty, unparented container atom ready
// for AddChild, for authoring trees from scratch rather than parsing
// them.
func NewContainerAtom(typ bmff.Type) *ContainerAtom {
	c := &ContainerAtom{}
	c.Base = bmff.NewBase(c, typ, false)
	c.Parent.Bind(c)
	c.Base.SetSize(0)
	return c
}

// newContainerFromStream parses h's payload (payload bytes, all
// children) from stream, already positioned at the first child.
func newContainerFromStream(typ bmff.Type, h Header, stream bmff.ByteStream) (bmff.Atom, error) {
	c := &ContainerAtom{}
	c.Base = bmff.NewBase(c, typ, h.IsFull)
	c.Parent.Bind(c)

	payload := h.EffectiveSize() - headerSizeFor(h)
	children, err := ParseChildren(stream, payload)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		c.Parent.AppendExisting(child, c)
	}
	c.Base.SetSize(bmff.SumChildSizes(children))
	return c, nil
}

func headerSizeFor(h Header) bmff.Size {
	var s bmff.Size = bmff.HeaderSize32
	if h.Size32 == 1 {
		s = bmff.HeaderSize64
	}
	if h.IsFull {
		s += 4
	}
	return s
}

func (c *ContainerAtom) FieldsSize() bmff.Size { return bmff.SumChildSizes(c.Parent.Children()) }

func (c *ContainerAtom) WriteFields(stream bmff.ByteStream) error {
	return bmff.WriteChildren(c.Parent.Children(), stream)
}

func (c *ContainerAtom) InspectFields(insp bmff.AtomInspector) error {
	return bmff.InspectChildren(c.Parent.Children(), insp)
}

func (c *ContainerAtom) OnChildAdded(child bmff.Atom)   { c.Base.SetSize(bmff.SumChildSizes(c.Parent.Children())) }
func (c *ContainerAtom) OnChildRemoved(child bmff.Atom) { c.Base.SetSize(bmff.SumChildSizes(c.Parent.Children())) }
func (c *ContainerAtom) OnChildChanged(child bmff.Atom) { c.Base.SetSize(bmff.SumChildSizes(c.Parent.Children())) }

func (c *ContainerAtom) Clone() bmff.Atom {
	nc := &ContainerAtom{}
	nc.Base = c.Base.CloneBase(nc)
	nc.Parent.Bind(nc)
	for _, child := range c.Parent.Children() {
		clone := child.Clone()
		nc.Parent.AppendExisting(clone, nc)
	}
	return nc
}
