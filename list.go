package bmff

// DebugAssertSizes, when true, makes WriteChildren verify after writing
// each child that the stream advanced by exactly child.EffectiveSize()
// bytes, panicking otherwise. It exists for tests exercising the size
// bookkeeping in Base.SetSize and the concrete container types; it is
// off by default since the check costs a Tell() per child.
var DebugAssertSizes = false

// WriteChildren writes each atom in children to stream in order.
func WriteChildren(children []Atom, stream ByteStream) error {
	for _, c := range children {
		var before Position
		if DebugAssertSizes {
			var err error
			before, err = stream.Tell()
			if err != nil {
				return err
			}
		}
		if err := c.Write(stream); err != nil {
			return err
		}
		if DebugAssertSizes {
			after, err := stream.Tell()
			if err != nil {
				return err
			}
			if Size(after-before) != c.EffectiveSize() {
				panic("bmff: child write size mismatch")
			}
		}
	}
	return nil
}

// InspectChildren renders each atom in children to insp in order.
func InspectChildren(children []Atom, insp AtomInspector) error {
	for _, c := range children {
		if err := c.Inspect(insp); err != nil {
			return err
		}
	}
	return nil
}

// SumChildSizes totals EffectiveSize across children, the quantity a
// container's own FieldsSize reduces to.
func SumChildSizes(children []Atom) Size {
	var total Size
	for _, c := range children {
		total += c.EffectiveSize()
	}
	return total
}

// TypeFinder is a stateful predicate matching the Index'th atom of Type
// it is shown, in order; each call to Match that sees a matching type
// advances its internal counter. Grounded on Bento4's AP4_AtomFinder.
type TypeFinder struct {
	Type  Type
	Index int

	seen int
}

// Match reports whether a is the Index'th atom of Type seen so far.
func (f *TypeFinder) Match(a Atom) bool {
	if a.Type() != f.Type {
		return false
	}
	if f.seen == f.Index {
		f.seen++
		return true
	}
	f.seen++
	return false
}
