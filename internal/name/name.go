// Package name models symbolic addresses (paths like root::foo::Bar) and the
// globally unique identities that resolution assigns to definitions.
package name

import (
	"fmt"
	"strings"
)

// Path is an ordered, non-empty sequence of identifier segments.
//
// A Path may denote a reference that is still being resolved; a fully known
// module location uses the ModulePath alias. Both share this one model.
type Path struct {
	segments []string
}

// ModulePath is a Path that is known to address a module rather than to
// reference one. The distinction is documentation only; the behavior is
// identical.
type ModulePath = Path

// NewPath builds a path from the given segments. With no arguments the path
// is empty and must receive at least one Push before Root, Last or PopRoot
// may be called.
func NewPath(segments ...string) *Path {
	p := &Path{}
	for _, s := range segments {
		p.Push(s)
	}
	return p
}

// Push appends an ident segment onto the path.
func (p *Path) Push(ident string) {
	p.segments = append(p.segments, ident)
}

// Root returns the first segment, e.g. `root` in `root::foo::bar`.
//
// Calling Root on an empty path is a caller bug and panics.
func (p *Path) Root() string {
	if len(p.segments) == 0 {
		panic("name: Root called on empty path")
	}
	return p.segments[0]
}

// Last returns the final segment, e.g. `Bar` in `root::foo::Bar`.
//
// Calling Last on an empty path is a caller bug and panics.
func (p *Path) Last() string {
	if len(p.segments) == 0 {
		panic("name: Last called on empty path")
	}
	return p.segments[len(p.segments)-1]
}

// PopRoot removes the first segment.
//
// Calling PopRoot on an empty path is a caller bug and panics.
func (p *Path) PopRoot() {
	if len(p.segments) == 0 {
		panic("name: PopRoot called on empty path")
	}
	p.segments = p.segments[1:]
}

// Extend appends all of other's segments, preserving order. The argument is
// consumed; callers must not use other afterwards.
func (p *Path) Extend(other *Path) {
	p.segments = append(p.segments, other.segments...)
	other.segments = nil
}

// Len reports the number of segments.
func (p *Path) Len() int {
	return len(p.segments)
}

// Segments returns a copy of the segment slice.
func (p *Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Clone returns an independent copy of the path.
func (p *Path) Clone() *Path {
	return NewPath(p.segments...)
}

// String joins the segments with ::.
func (p *Path) String() string {
	return strings.Join(p.segments, "::")
}

// Name is the fully resolved identity of a definition: an identifier, the
// module path that owns it, and a process-unique id.
//
// Two Names denote the same definition iff their ids are equal. The ident and
// path exist for display and diagnostics only and must never be compared.
type Name struct {
	ident string
	path  *ModulePath
	id    int
}

// New builds a Name. The caller guarantees id uniqueness; use an IDSource.
func New(ident string, path *ModulePath, id int) Name {
	return Name{ident: ident, path: path, id: id}
}

// Ident returns the identifier of the name.
func (n Name) Ident() string { return n.ident }

// Path returns the module path owning the name.
func (n Name) Path() *ModulePath { return n.path }

// ID returns the unique id of the name.
func (n Name) ID() int { return n.id }

// Same reports whether two names refer to the same definition. Only the ids
// are compared.
func (n Name) Same(other Name) bool {
	return n.id == other.id
}

func (n Name) String() string {
	return fmt.Sprintf("%s::%s_%d", n.path, n.ident, n.id)
}

// IDSource hands out monotonically increasing ids for Name construction.
// Passes receive an explicit source instead of sharing a hidden global so
// tests get deterministic sequences.
type IDSource struct {
	next int
}

// NewIDSource returns a source whose first id is 0.
func NewIDSource() *IDSource {
	return &IDSource{}
}

// Next returns a fresh id, never repeating one.
func (s *IDSource) Next() int {
	id := s.next
	s.next++
	return id
}
