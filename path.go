package bmff

import (
	"strconv"
	"strings"
)

// pathSegment is one "type[index]" component of a FindChild path.
type pathSegment struct {
	typ   Type
	index int
}

// parsePathSegment parses "moov", "trak[1]" etc. A bare name defaults to
// index 0, matching Bento4's AP4_Atom::FindChild path grammar.
func parsePathSegment(seg string) (pathSegment, bool) {
	if seg == "" || len(seg) > MaxPathSegmentSize {
		return pathSegment{}, false
	}
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return pathSegment{typ: ParseType(seg), index: 0}, true
	}
	if !strings.HasSuffix(seg, "]") {
		return pathSegment{}, false
	}
	name := seg[:open]
	idxStr := seg[open+1 : len(seg)-1]
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return pathSegment{}, false
	}
	return pathSegment{typ: ParseType(name), index: idx}, true
}

// FindChild walks path (slash-separated "type[index]" segments) from p.
// With autoCreate, a missing segment is created via newChild and
// appended; newChild must be supplied whenever autoCreate is true, since
// package bmff has no knowledge of concrete box constructors. An
// intermediate segment that resolves to an atom not itself an AtomParent
// ends the walk with a nil result, since there is nowhere further to
// descend; the final segment's atom is returned whatever its kind.
func (p *Parent) FindChild(path string, autoCreate bool, newChild func(Type) Atom) Atom {
	segs := strings.Split(path, "/")
	var cur AtomParent = p.self
	for i, raw := range segs {
		seg, ok := parsePathSegment(raw)
		if !ok {
			return nil
		}
		child := cur.GetChild(seg.typ, seg.index)
		if child == nil {
			if !autoCreate || newChild == nil {
				return nil
			}
			child = newChild(seg.typ)
			if child == nil {
				return nil
			}
			cur.AddChild(child, -1)
		}
		if i == len(segs)-1 {
			return child
		}
		next, ok := child.(AtomParent)
		if !ok {
			return nil
		}
		cur = next
	}
	return nil
}
