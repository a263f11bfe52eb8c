// Package element implements the retained element tree.
//
// Nodes live in an arena and are addressed by generational NodeID handles,
// so the tree has strict parent→child ownership with O(1) parent lookup and
// no pointer cycles. The tree is rebuilt cheaply on every update through
// keyed reconciliation (Reconcile), which reuses existing nodes when the
// kind and key match and reports what level of recomputation each change
// requires.
package element

import (
	"github.com/gogpu/ui"
	"github.com/gogpu/ui/style"
)

// Kind is the closed set of element variants. New kinds extend this list
// and every exhaustive switch over it (style resolution, layout, scene
// build, backend draw).
type Kind uint8

const (
	KindEmpty Kind = iota
	KindContainer
	KindText
	KindSpan
	KindImage
	KindPath
)

// String returns the element kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindContainer:
		return "Container"
	case KindText:
		return "Text"
	case KindSpan:
		return "Span"
	case KindImage:
		return "Image"
	case KindPath:
		return "Path"
	default:
		return "Unknown"
	}
}

// NodeID is a generational handle into the tree arena. The zero value is
// the nil node. A stale handle (freed and reused slot) never resolves.
type NodeID struct {
	index uint32
	gen   uint32
}

// NilNode is the invalid node handle.
var NilNode = NodeID{}

// IsNil returns true for the zero handle.
func (id NodeID) IsNil() bool { return id.gen == 0 }

// SegmentKind discriminates text payload segments.
type SegmentKind uint8

const (
	// SegmentText is a run of styled text.
	SegmentText SegmentKind = iota
	// SegmentInline is a non-text inline box (image or widget slot) that
	// flows with the text and is sized by its own intrinsic size.
	SegmentInline
)

// Segment is one piece of a text element's content: either a styled text
// run or an inline box. Span elements perform no independent layout; their
// segments are folded into the enclosing text element's layout.
type Segment struct {
	Kind SegmentKind

	// Text is the run content for SegmentText.
	Text string

	// Style optionally overrides the element style for this run. Nil uses
	// the enclosing element's resolved style.
	Style *style.Style

	// Resource identifies the inline box content for SegmentInline.
	Resource string

	// Size is the intrinsic size of an inline box. Inline boxes whose
	// resource is still loading use this as the placeholder size.
	Size ui.Size
}

// node is one arena slot payload.
type node struct {
	kind Kind
	key  string

	parent   NodeID
	children []NodeID

	declared *style.Style
	resolved style.Resolved

	// resolvedValid is cleared whenever the declared style or an ancestor's
	// inheritable property changes.
	resolvedValid bool

	// Per-kind payload.
	content  string
	segments []Segment
	image    string
	path     *ui.Path

	// Scroll offset for OverflowScroll containers, applied as a child
	// translation at scene build.
	scroll ui.Point

	// Accessibility metadata, surfaced through the access snapshot.
	role  string
	label string
}

// slot wraps a node with its generation for handle validation.
type slot struct {
	gen   uint32
	inUse bool
	node  node
}

// Tree is the element arena. It is owned by the UI goroutine and is not
// safe for concurrent use.
type Tree struct {
	slots []slot
	free  []uint32

	// version increments on every structural or payload mutation.
	version uint64
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// NewNode allocates a node of the given kind, detached from any parent.
func (t *Tree) NewNode(kind Kind) NodeID {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		idx = uint32(len(t.slots) - 1)
	}
	s := &t.slots[idx]
	s.gen++
	s.inUse = true
	s.node = node{kind: kind}
	t.version++
	return NodeID{index: idx, gen: s.gen}
}

// Alive reports whether the handle refers to a live node.
func (t *Tree) Alive(id NodeID) bool {
	if id.IsNil() || int(id.index) >= len(t.slots) {
		return false
	}
	s := &t.slots[id.index]
	return s.inUse && s.gen == id.gen
}

// get returns the node for a live handle, or nil.
func (t *Tree) get(id NodeID) *node {
	if !t.Alive(id) {
		return nil
	}
	return &t.slots[id.index].node
}

// Kind returns the element kind, or KindEmpty for dead handles.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.get(id); n != nil {
		return n.kind
	}
	return KindEmpty
}

// Parent returns the parent handle, or NilNode for roots and dead handles.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.get(id); n != nil {
		return n.parent
	}
	return NilNode
}

// Children returns the ordered child handles. Callers must not modify the
// returned slice.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.get(id); n != nil {
		return n.children
	}
	return nil
}

// AppendChild attaches child as the last child of parent. A child already
// attached elsewhere is detached first.
func (t *Tree) AppendChild(parent, child NodeID) {
	p := t.get(parent)
	c := t.get(child)
	if p == nil || c == nil {
		return
	}
	if !c.parent.IsNil() {
		t.detach(child)
		c = t.get(child)
	}
	c.parent = parent
	p.children = append(p.children, child)
	t.invalidateResolved(child)
	t.version++
}

// detach removes child from its parent's child list without freeing it.
func (t *Tree) detach(child NodeID) {
	c := t.get(child)
	if c == nil || c.parent.IsNil() {
		return
	}
	p := t.get(c.parent)
	if p != nil {
		for i, cc := range p.children {
			if cc == child {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	c.parent = NilNode
}

// Remove detaches a node and frees it together with its whole subtree.
// All handles into the subtree become stale.
func (t *Tree) Remove(id NodeID) {
	if !t.Alive(id) {
		return
	}
	t.detach(id)
	t.freeSubtree(id)
	t.version++
}

func (t *Tree) freeSubtree(id NodeID) {
	n := t.get(id)
	if n == nil {
		return
	}
	for _, c := range n.children {
		t.freeSubtree(c)
	}
	s := &t.slots[id.index]
	s.inUse = false
	s.node = node{}
	t.free = append(t.free, id.index)
}

// Version returns the tree mutation counter.
func (t *Tree) Version() uint64 { return t.version }

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	count := 0
	for i := range t.slots {
		if t.slots[i].inUse {
			count++
		}
	}
	return count
}

// SetKey sets the reconciliation key of a node.
func (t *Tree) SetKey(id NodeID, key string) {
	if n := t.get(id); n != nil {
		n.key = key
	}
}

// Key returns the reconciliation key.
func (t *Tree) Key(id NodeID) string {
	if n := t.get(id); n != nil {
		return n.key
	}
	return ""
}

// SetStyle replaces the declared style of a node and invalidates resolved
// styles for the subtree (inheritable properties may cascade down).
func (t *Tree) SetStyle(id NodeID, s *style.Style) {
	n := t.get(id)
	if n == nil {
		return
	}
	n.declared = s
	t.invalidateResolved(id)
	t.version++
}

// Declared returns the declared style, possibly nil.
func (t *Tree) Declared(id NodeID) *style.Style {
	if n := t.get(id); n != nil {
		return n.declared
	}
	return nil
}

// Resolved returns the node's resolved style. Valid only after
// ResolveStyles has run since the last mutation.
func (t *Tree) Resolved(id NodeID) *style.Resolved {
	if n := t.get(id); n != nil {
		return &n.resolved
	}
	return nil
}

// invalidateResolved clears resolved-style validity for id and descendants.
func (t *Tree) invalidateResolved(id NodeID) {
	n := t.get(id)
	if n == nil {
		return
	}
	n.resolvedValid = false
	for _, c := range n.children {
		t.invalidateResolved(c)
	}
}

// ResolveStyles resolves styles top-down from root. Subtrees whose inputs
// are unchanged since the previous pass are skipped; style.Resolve itself
// is pure, which makes this memoization safe.
func (t *Tree) ResolveStyles(root NodeID) {
	t.resolveStyles(root, nil)
}

func (t *Tree) resolveStyles(id NodeID, parent *style.Resolved) {
	n := t.get(id)
	if n == nil {
		return
	}
	if !n.resolvedValid {
		n.resolved = style.Resolve(n.declared, parent)
		n.resolvedValid = true
	}
	for _, c := range n.children {
		t.resolveStyles(c, &n.resolved)
	}
}

// SetText sets a text element's content and spans.
func (t *Tree) SetText(id NodeID, content string, segments []Segment) {
	n := t.get(id)
	if n == nil {
		return
	}
	n.content = content
	n.segments = segments
	t.version++
}

// Text returns the content and spans of a text element.
func (t *Tree) Text(id NodeID) (string, []Segment) {
	if n := t.get(id); n != nil {
		return n.content, n.segments
	}
	return "", nil
}

// SetImage sets an image element's resource identity.
func (t *Tree) SetImage(id NodeID, resource string) {
	if n := t.get(id); n != nil {
		n.image = resource
		t.version++
	}
}

// Image returns the resource identity of an image element.
func (t *Tree) Image(id NodeID) string {
	if n := t.get(id); n != nil {
		return n.image
	}
	return ""
}

// SetPath sets a path element's geometry.
func (t *Tree) SetPath(id NodeID, p *ui.Path) {
	if n := t.get(id); n != nil {
		n.path = p
		t.version++
	}
}

// Path returns the geometry of a path element.
func (t *Tree) Path(id NodeID) *ui.Path {
	if n := t.get(id); n != nil {
		return n.path
	}
	return nil
}

// SetScroll sets the scroll offset of an OverflowScroll container.
func (t *Tree) SetScroll(id NodeID, offset ui.Point) {
	if n := t.get(id); n != nil {
		n.scroll = offset
		t.version++
	}
}

// Scroll returns the scroll offset.
func (t *Tree) Scroll(id NodeID) ui.Point {
	if n := t.get(id); n != nil {
		return n.scroll
	}
	return ui.Point{}
}

// SetAccess sets accessibility role and label metadata.
func (t *Tree) SetAccess(id NodeID, role, label string) {
	if n := t.get(id); n != nil {
		n.role = role
		n.label = label
	}
}

// Access returns accessibility role and label metadata.
func (t *Tree) Access(id NodeID) (role, label string) {
	if n := t.get(id); n != nil {
		return n.role, n.label
	}
	return "", ""
}

// PreOrder visits id and its descendants depth-first. Returning false from
// fn skips the node's children.
func (t *Tree) PreOrder(id NodeID, fn func(NodeID) bool) {
	if !t.Alive(id) {
		return
	}
	if !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.PreOrder(c, fn)
	}
}
