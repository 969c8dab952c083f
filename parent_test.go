package bmff

import "testing"

// testContainer is a minimal Atom+AtomParent used only by this
// package's own tests, standing in for a concrete container type from
// package box (which can't be imported here without an import cycle).
type testContainer struct {
	*Base
	Parent
}

func newTestContainer(typ Type) *testContainer {
	c := &testContainer{}
	c.Base = NewBase(c, typ, false)
	c.Parent.Bind(c)
	return c
}

func (c *testContainer) FieldsSize() Size { return SumChildSizes(c.Parent.Children()) }
func (c *testContainer) WriteFields(stream ByteStream) error {
	return WriteChildren(c.Parent.Children(), stream)
}
func (c *testContainer) InspectFields(insp AtomInspector) error {
	return InspectChildren(c.Parent.Children(), insp)
}
func (c *testContainer) Clone() Atom {
	nc := newTestContainer(c.Type())
	for _, child := range c.Parent.Children() {
		nc.Parent.AddChild(child.Clone(), -1)
	}
	return nc
}
func (c *testContainer) recompute() { c.Base.SetSize(SumChildSizes(c.Parent.Children())) }
func (c *testContainer) OnChildAdded(Atom)   { c.recompute() }
func (c *testContainer) OnChildRemoved(Atom) { c.recompute() }
func (c *testContainer) OnChildChanged(Atom) { c.recompute() }

func newTestLeaf(typ Type, size Size) *testContainer {
	// A leaf with no children but a fixed EffectiveSize, reusing
	// testContainer's machinery purely as a sized placeholder.
	c := newTestContainer(typ)
	c.Base.SetSize(size - c.Base.HeaderSize())
	return c
}

// TestContainerRecompute checks that a moov with a free(8) and an
// mdat(16) child sums to size 32.
func TestContainerRecompute(t *testing.T) {
	moov := newTestContainer(TypeMOOV)
	free := newTestLeaf(TypeFREE, 8)
	mdat := newTestLeaf(TypeMDAT, 16)

	moov.Parent.AddChild(free, -1)
	moov.Parent.AddChild(mdat, -1)

	if got := moov.EffectiveSize(); got != 32 {
		t.Fatalf("moov size = %d, want 32", got)
	}
}

// TestAddChildAtPosition checks that AddChild inserts at a clamped
// index rather than always appending.
func TestAddChildAtPosition(t *testing.T) {
	moov := newTestContainer(TypeMOOV)
	a := newTestLeaf(TypeFREE, 8)
	b := newTestLeaf(TypeFREE, 8)
	c := newTestLeaf(TypeFREE, 8)

	moov.Parent.AddChild(a, -1)
	moov.Parent.AddChild(c, -1)
	moov.Parent.AddChild(b, 1)

	got := moov.Parent.Children()
	if len(got) != 3 || got[0] != Atom(a) || got[1] != Atom(b) || got[2] != Atom(c) {
		t.Fatalf("Children() = %v, want [a b c]", got)
	}

	d := newTestLeaf(TypeFREE, 8)
	moov.Parent.AddChild(d, 99)
	got = moov.Parent.Children()
	if len(got) != 4 || got[3] != Atom(d) {
		t.Fatalf("AddChild with out-of-range position should append, got %v", got)
	}
}

// TestParentLink checks that a child's Parent() points at its parent
// until detached or removed, after which it is nil and absent from the
// list.
func TestParentLink(t *testing.T) {
	moov := newTestContainer(TypeMOOV)
	trak := newTestContainer(TypeTRAK)

	moov.Parent.AddChild(trak, -1)
	if trak.Parent() != Atom(moov) {
		t.Fatalf("trak.Parent() != moov after AddChild")
	}

	trak.Detach()
	if trak.Parent() != nil {
		t.Fatal("trak.Parent() != nil after Detach")
	}
	for _, c := range moov.Parent.Children() {
		if c == Atom(trak) {
			t.Fatal("trak still present in moov's children after Detach")
		}
	}
}

// TestFindChildPath checks locating a nested track by index and
// auto-creating a missing one.
func TestFindChildPath(t *testing.T) {
	moov := newTestContainer(TypeMOOV)

	newChild := func(typ Type) Atom { return newTestContainer(typ) }

	for i := 0; i < 2; i++ {
		trak := newTestContainer(TypeTRAK)
		mdia := newTestContainer(TypeMDIA)
		minf := newTestContainer(TypeMINF)
		mdia.Parent.AddChild(minf, -1)
		trak.Parent.AddChild(mdia, -1)
		moov.Parent.AddChild(trak, -1)
	}

	got := moov.Parent.FindChild("trak[1]/mdia/minf", false, newChild)
	if got == nil {
		t.Fatal("FindChild(trak[1]/mdia/minf) = nil")
	}
	want := moov.GetChild(TypeTRAK, 1).(*testContainer).Parent.Children()[0].(*testContainer).Parent.Children()[0]
	if got != want {
		t.Fatalf("FindChild found the wrong minf")
	}

	if got := moov.Parent.FindChild("trak[2]", false, newChild); got != nil {
		t.Fatal("FindChild(trak[2], autoCreate=false) should be nil")
	}

	created := moov.Parent.FindChild("trak[2]", true, newChild)
	if created == nil {
		t.Fatal("FindChild(trak[2], autoCreate=true) should create and return a trak")
	}
	if created.Type() != TypeTRAK {
		t.Fatalf("created atom type = %v, want trak", created.Type())
	}
}
