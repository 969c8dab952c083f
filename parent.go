package bmff

// AtomParent is satisfied by any atom that carries an ordered list of
// children (a plain container box, but also e.g. a future sample-table
// box that mixes children with its own fields). It is kept distinct
// from Atom so that leaf atoms are not forced to carry child-list
// machinery they never use.
type AtomParent interface {
	Atom

	Children() []Atom
	ChildCount() int
	// AddChild inserts child at position and reparents it, running the
	// OnChildAdded hook (typically a size recompute) afterward. A
	// negative position, or one at or beyond the current child count,
	// appends child at the end.
	AddChild(child Atom, position int)
	// RemoveChild detaches child from the list without destroying it.
	// It returns false if child was not found.
	RemoveChild(child Atom) bool
	// DeleteChild removes and releases child; for an UnknownAtom this
	// also releases its held source-stream reference.
	DeleteChild(child Atom) bool
	// GetChild returns the index'th child whose type matches typ, or nil.
	GetChild(typ Type, index int) Atom
	// FindChild resolves a slash-separated path of "type[index]"
	// segments relative to this parent. With autoCreate, any missing
	// segment, the last one included, is created (as a ContainerAtom-like
	// child supplied by newChild) and appended; an intermediate segment
	// that resolves to a non-container atom is a failure, reported as nil,
	// since there is nowhere to descend.
	FindChild(path string, autoCreate bool, newChild func(Type) Atom) Atom

	// OnChildAdded/OnChildRemoved/OnChildChanged let a concrete container
	// type react to list mutation, typically to recompute its own size.
	OnChildAdded(child Atom)
	OnChildRemoved(child Atom)
	OnChildChanged(child Atom)
}

// Parent implements the child-list half of AtomParent. Concrete
// container types embed both Base and Parent, and call
// Parent.bind(self) from their constructor so the size-recompute hooks
// can call back into the concrete type's own OnChildAdded/Removed
// overrides.
type Parent struct {
	self     AtomParent
	children []Atom
}

func (p *Parent) bind(self AtomParent) { p.self = self }

// Bind is the exported form of bind, for concrete container types
// defined outside this package (see package box) that can't reach the
// unexported method.
func (p *Parent) Bind(self AtomParent) { p.bind(self) }

// AppendExisting appends child to the list and reparents it to self
// without running the OnChildAdded hook, for bulk-loading children
// already parsed during construction (the caller recomputes the
// container's size once, after the whole batch, instead of once per
// child).
func (p *Parent) AppendExisting(child Atom, self AtomParent) {
	p.children = append(p.children, child)
	setAtomParent(child, self)
}

func (p *Parent) Children() []Atom { return p.children }
func (p *Parent) ChildCount() int  { return len(p.children) }

func (p *Parent) AddChild(child Atom, position int) {
	if position < 0 || position >= len(p.children) {
		p.children = append(p.children, child)
	} else {
		p.children = append(p.children, nil)
		copy(p.children[position+1:], p.children[position:])
		p.children[position] = child
	}
	setAtomParent(child, p.self)
	p.self.OnChildAdded(child)
}

func (p *Parent) RemoveChild(child Atom) bool {
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			setAtomParent(child, nil)
			p.self.OnChildRemoved(child)
			return true
		}
	}
	return false
}

func (p *Parent) DeleteChild(child Atom) bool {
	if !p.RemoveChild(child) {
		return false
	}
	if u, ok := child.(*UnknownAtom); ok {
		u.Close()
	}
	return true
}

func (p *Parent) GetChild(typ Type, index int) Atom {
	finder := TypeFinder{Type: typ, Index: index}
	for _, c := range p.children {
		if finder.Match(c) {
			return c
		}
	}
	return nil
}

// setAtomParent reaches past the Atom interface to call the unexported
// setParent every Base provides, since AtomParent itself can't expose an
// unexported method across packages.
func setAtomParent(a Atom, p AtomParent) {
	if s, ok := a.(interface{ setParent(AtomParent) }); ok {
		s.setParent(p)
	}
}
