package element

import (
	"github.com/gogpu/ui"
	"github.com/gogpu/ui/style"
)

// Spec is a declarative element specification, the lightweight tree that
// component view functions produce on every update. Reconcile folds a Spec
// tree into the retained Tree, reusing nodes where kind and key match.
type Spec struct {
	Kind  Kind
	Key   string
	Style *style.Style

	// Payload, by kind.
	Text     string
	Segments []Segment
	Image    string
	Path     *ui.Path

	Role  string
	Label string

	Children []Spec
}

// Container builds a container spec.
func Container(s *style.Style, children ...Spec) Spec {
	return Spec{Kind: KindContainer, Style: s, Children: children}
}

// Text builds a text spec.
func Text(s *style.Style, content string) Spec {
	return Spec{Kind: KindText, Style: s, Text: content}
}

// Image builds an image spec.
func Image(s *style.Style, resource string) Spec {
	return Spec{Kind: KindImage, Style: s, Image: resource}
}

// PathSpec builds a vector path spec.
func PathSpec(s *style.Style, p *ui.Path) Spec {
	return Spec{Kind: KindPath, Style: s, Path: p}
}

// WithKey returns the spec with a reconciliation key.
func (s Spec) WithKey(key string) Spec {
	s.Key = key
	return s
}

// layoutFlags is the set of declared properties whose change requires a new
// layout pass. Everything else declared is paint-only.
const layoutFlags = style.FlagFontFamily | style.FlagFontSize |
	style.FlagFontWeight | style.FlagFontStyle | style.FlagLineHeight |
	style.FlagDirection | style.FlagWrap | style.FlagJustifyContent |
	style.FlagAlignItems | style.FlagFlexGrow | style.FlagFlexShrink |
	style.FlagFlexBasis | style.FlagWidth | style.FlagHeight |
	style.FlagMinWidth | style.FlagMinHeight | style.FlagMaxWidth |
	style.FlagMaxHeight | style.FlagPadding | style.FlagMargin |
	style.FlagBorderWidths | style.FlagGap | style.FlagOverflow |
	style.FlagPosition

// Change is the recomputation a reconciled node requires.
type Change uint8

const (
	// ChangeNone: the node was reused untouched.
	ChangeNone Change = iota
	// ChangePaint: visual-only change; geometry is unaffected.
	ChangePaint
	// ChangeLayout: geometry-affecting change; implies repaint.
	ChangeLayout
)

// ChangeSet accumulates per-node reconciliation outcomes for the reactive
// loop to translate into dirty levels.
type ChangeSet struct {
	// Paint holds nodes needing repaint only.
	Paint []NodeID
	// Layout holds nodes needing relayout (and repaint).
	Layout []NodeID
	// Structure is true when nodes were created, removed, or reordered,
	// which always forces a layout pass on the affected parent.
	Structure bool
}

// IsEmpty returns true when nothing changed.
func (c *ChangeSet) IsEmpty() bool {
	return len(c.Paint) == 0 && len(c.Layout) == 0 && !c.Structure
}

func (c *ChangeSet) record(id NodeID, ch Change) {
	switch ch {
	case ChangePaint:
		c.Paint = append(c.Paint, id)
	case ChangeLayout:
		c.Layout = append(c.Layout, id)
	}
}

// Reconcile folds spec into the tree as (or replacing) root. A nil root
// builds the tree fresh. It returns the node representing spec and the
// change set describing the minimal recomputation required.
//
// Matching rules, applied per child list:
//  1. A child with a key matches the existing child with the same key and
//     kind, regardless of position.
//  2. An unkeyed child matches the existing child at the same position if
//     the kind matches.
//  3. Everything unmatched is created (spec side) or removed (tree side).
func (t *Tree) Reconcile(root NodeID, spec Spec) (NodeID, ChangeSet) {
	var cs ChangeSet
	id := t.reconcileNode(root, spec, &cs)
	return id, cs
}

func (t *Tree) reconcileNode(id NodeID, spec Spec, cs *ChangeSet) NodeID {
	n := t.get(id)
	if n == nil || n.kind != spec.Kind {
		// Kind mismatch: replace wholesale.
		if n != nil {
			t.Remove(id)
		}
		id = t.buildSubtree(spec)
		cs.Structure = true
		cs.record(id, ChangeLayout)
		return id
	}

	change := ChangeNone

	if n.key != spec.Key {
		n.key = spec.Key
	}

	if !sameStyle(n.declared, spec.Style) {
		change = maxChange(change, classifyStyleChange(n.declared, spec.Style))
		n.declared = spec.Style
		t.invalidateResolved(id)
		t.version++
	}

	switch spec.Kind {
	case KindText, KindSpan:
		if n.content != spec.Text || !sameSegments(n.segments, spec.Segments) {
			n.content = spec.Text
			n.segments = spec.Segments
			change = maxChange(change, ChangeLayout)
			t.version++
		}
	case KindImage:
		if n.image != spec.Image {
			n.image = spec.Image
			change = maxChange(change, ChangeLayout)
			t.version++
		}
	case KindPath:
		if n.path != spec.Path {
			n.path = spec.Path
			change = maxChange(change, ChangePaint)
			t.version++
		}
	}

	if n.role != spec.Role || n.label != spec.Label {
		n.role, n.label = spec.Role, spec.Label
	}

	cs.record(id, change)
	t.reconcileChildren(id, spec.Children, cs)
	return id
}

func (t *Tree) reconcileChildren(parent NodeID, specs []Spec, cs *ChangeSet) {
	existing := append([]NodeID(nil), t.Children(parent)...)

	// Index keyed children for out-of-order matching.
	byKey := make(map[string]NodeID)
	for _, c := range existing {
		if k := t.Key(c); k != "" {
			byKey[k] = c
		}
	}

	used := make(map[NodeID]bool, len(existing))
	next := make([]NodeID, 0, len(specs))

	for i, spec := range specs {
		var match NodeID
		if spec.Key != "" {
			if c, ok := byKey[spec.Key]; ok && t.Kind(c) == spec.Kind {
				match = c
			}
		} else if i < len(existing) {
			c := existing[i]
			if t.Key(c) == "" && t.Kind(c) == spec.Kind {
				match = c
			}
		}

		if !match.IsNil() && !used[match] {
			used[match] = true
			next = append(next, t.reconcileNode(match, spec, cs))
		} else {
			child := t.buildSubtree(spec)
			cs.Structure = true
			cs.record(child, ChangeLayout)
			next = append(next, child)
		}
	}

	// Remove unmatched children. Their in-flight async results become
	// stale and are discarded on delivery.
	for _, c := range existing {
		if !used[c] {
			t.Remove(c)
			cs.Structure = true
		}
	}

	// Detect reordering or membership change.
	if len(next) != len(existing) {
		cs.Structure = true
	} else {
		for i := range next {
			if next[i] != existing[i] {
				cs.Structure = true
				break
			}
		}
	}

	p := t.get(parent)
	if p != nil {
		p.children = next
		for _, c := range next {
			if cn := t.get(c); cn != nil {
				cn.parent = parent
			}
		}
	}
}

// buildSubtree creates a fresh subtree for a spec.
func (t *Tree) buildSubtree(spec Spec) NodeID {
	id := t.NewNode(spec.Kind)
	n := t.get(id)
	n.key = spec.Key
	n.declared = spec.Style
	n.content = spec.Text
	n.segments = spec.Segments
	n.image = spec.Image
	n.path = spec.Path
	n.role = spec.Role
	n.label = spec.Label
	for _, c := range spec.Children {
		t.AppendChild(id, t.buildSubtree(c))
	}
	return id
}

func maxChange(a, b Change) Change {
	if b > a {
		return b
	}
	return a
}

// classifyStyleChange decides whether swapping declared styles needs layout
// or only paint. Conservative: any layout-affecting flag declared on either
// side of the change forces layout.
func classifyStyleChange(old, new *style.Style) Change {
	var oldSet, newSet style.Flag
	if old != nil {
		oldSet = old.Set
	}
	if new != nil {
		newSet = new.Set
	}
	if (oldSet|newSet)&layoutFlags != 0 {
		if !layoutPropsEqual(old, new) {
			return ChangeLayout
		}
	}
	return ChangePaint
}

// layoutPropsEqual compares only layout-affecting properties.
func layoutPropsEqual(a, b *style.Style) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Set&layoutFlags != b.Set&layoutFlags {
		return false
	}
	return a.FontFamily == b.FontFamily && a.FontSize == b.FontSize &&
		a.FontWeight == b.FontWeight && a.FontStyle == b.FontStyle &&
		a.LineHeight == b.LineHeight && a.Direction == b.Direction &&
		a.Wrap == b.Wrap && a.JustifyContent == b.JustifyContent &&
		a.AlignItems == b.AlignItems && a.FlexGrow == b.FlexGrow &&
		a.FlexShrink == b.FlexShrink && a.FlexBasis == b.FlexBasis &&
		a.Width == b.Width && a.Height == b.Height &&
		a.MinWidth == b.MinWidth && a.MinHeight == b.MinHeight &&
		a.MaxWidth == b.MaxWidth && a.MaxHeight == b.MaxHeight &&
		a.Padding == b.Padding && a.Margin == b.Margin &&
		a.BorderWidths == b.BorderWidths && a.Gap == b.Gap &&
		a.Overflow == b.Overflow && a.Position == b.Position
}

// sameStyle compares declared styles for any difference at all.
func sameStyle(a, b *style.Style) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// sameSegments compares text payload segments.
func sameSegments(a, b []Segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Text != b[i].Text ||
			a[i].Resource != b[i].Resource || a[i].Size != b[i].Size {
			return false
		}
		if !sameStyle(a[i].Style, b[i].Style) {
			return false
		}
	}
	return true
}
