// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import "github.com/jeranaias/mention-tui/internal/model"

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract returns, in document order, every node satisfying isTarget.
// Children satisfying isExcluded are skipped together with their whole
// subtree, so targets nested inside an excluded region are never returned.
// The root itself is always visited.
func Extract(root *Node, isTarget, isExcluded func(*Node) bool) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if isTarget(n) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			if isExcluded(c) {
				continue
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// ExtractAnnotatedEntities returns the payloads of targets in document order.
// Targets without an annotation contribute nothing.
func ExtractAnnotatedEntities(root *Node, isTarget, isExcluded func(*Node) bool) []model.Option {
	nodes := Extract(root, isTarget, isExcluded)
	out := make([]model.Option, 0, len(nodes))
	for _, n := range nodes {
		if n.Annotation == nil {
			continue
		}
		out = append(out, n.Annotation.Option)
	}
	return out
}

// Entities returns the options of completed spans of mentionKind, ignoring
// anything inside elements of excludedKind.
func Entities(root *Node, mentionKind, excludedKind string) []model.Option {
	return ExtractAnnotatedEntities(root,
		func(n *Node) bool { return n.IsCompletedSpan(mentionKind) },
		OfType(excludedKind),
	)
}

// =============================================================================
// PATH LOOKUPS
// =============================================================================

// FindNodeAlongPath walks path from root one index at a time and returns the
// first visited node satisfying filter. A step to a child that does not
// exist returns nil: a stored path going stale is expected, not an error.
// The root itself is not tested.
func FindNodeAlongPath(path Path, root *Node, filter func(*Node) bool) *Node {
	_, n := LocateAlongPath(path, root, filter)
	return n
}

// LocateAlongPath is FindNodeAlongPath that also returns the path of the
// node found (a prefix of path).
func LocateAlongPath(path Path, root *Node, filter func(*Node) bool) (Path, *Node) {
	node := root
	for depth, idx := range path {
		node = node.Child(idx)
		if node == nil {
			return nil, nil
		}
		if filter(node) {
			return path[:depth+1].Clone(), node
		}
	}
	return nil, nil
}

// CollectNodesAlongPath returns every node visited walking path from root,
// excluding root. The result is truncated where the path stops resolving.
func CollectNodesAlongPath(path Path, root *Node) []*Node {
	nodes := make([]*Node, 0, len(path))
	node := root
	for _, idx := range path {
		node = node.Child(idx)
		if node == nil {
			return nodes
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// NodeAt returns the node at path, or nil when the path does not resolve.
func NodeAt(root *Node, path Path) *Node {
	nodes := CollectNodesAlongPath(path, root)
	if len(nodes) != len(path) {
		return nil
	}
	if len(path) == 0 {
		return root
	}
	return nodes[len(nodes)-1]
}

// FindByID returns the path and node with the given id, searching in
// document order.
func FindByID(root *Node, id string) (Path, *Node) {
	if root == nil || id == "" {
		return nil, nil
	}
	if root.ID == id {
		return Path{}, root
	}
	for i, c := range root.Children {
		if p, n := FindByID(c, id); n != nil {
			return append(Path{i}, p...), n
		}
	}
	return nil, nil
}
