// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package access exposes a read-only snapshot of the positioned element
// tree for accessibility bridges.
//
// The snapshot carries role/label metadata and the absolute border box
// of every node that declares either. It is taken after layout from the
// UI thread and is plain data afterwards: safe to hand to a platform
// bridge on another goroutine. Rendering never depends on this package.
package access

import (
	"github.com/gogpu/ui"
	"github.com/gogpu/ui/element"
	"github.com/gogpu/ui/layout"
)

// Node is one entry in the accessibility snapshot.
type Node struct {
	// Role is the semantic role declared on the element ("button",
	// "heading"). Empty roles still appear when a label is set.
	Role string

	// Label is the human-readable description.
	Label string

	// Rect is the node's border box in root coordinates, as of the
	// layout pass the snapshot was taken after.
	Rect ui.Rect

	// Children are the node's annotated descendants. Unannotated
	// intermediate elements are flattened out: a labelled node nested
	// under plain containers hangs directly off the nearest annotated
	// ancestor.
	Children []Node
}

// Snapshot walks the tree from root and returns the annotated nodes.
// Elements without role and label contribute nothing themselves, but
// their descendants are still visited. The result is a forest when the
// root itself is unannotated.
func Snapshot(tree *element.Tree, eng *layout.Engine, root element.NodeID) []Node {
	return collect(tree, eng, root)
}

func collect(tree *element.Tree, eng *layout.Engine, id element.NodeID) []Node {
	if !tree.Alive(id) {
		return nil
	}
	var kids []Node
	for _, c := range tree.Children(id) {
		kids = append(kids, collect(tree, eng, c)...)
	}

	role, label := tree.Access(id)
	if role == "" && label == "" {
		return kids
	}
	return []Node{{
		Role:     role,
		Label:    label,
		Rect:     eng.AbsoluteRect(id),
		Children: kids,
	}}
}

// Count returns the number of nodes in a snapshot, including children.
func Count(nodes []Node) int {
	n := len(nodes)
	for i := range nodes {
		n += Count(nodes[i].Children)
	}
	return n
}

// Find returns the first node in depth-first order whose role matches.
func Find(nodes []Node, role string) (Node, bool) {
	for _, n := range nodes {
		if n.Role == role {
			return n, true
		}
		if found, ok := Find(n.Children, role); ok {
			return found, true
		}
	}
	return Node{}, false
}
