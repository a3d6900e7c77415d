// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document models the hierarchical text document a mention lives in
// and provides the tree walks over it.
//
// A document is a tree of Nodes. A node is either a text leaf or an element
// with children; elements may carry an Annotation (a mention span and its
// payload). The mention core only ever reads Snapshots of the tree and
// addresses nodes by Path, re-validated against each snapshot.
//
// # Key Types
//
//   - Node: Tagged text/element node
//   - Path, Point, Range: Addressing inside a tree
//   - Snapshot: Immutable observation of a document and its selection
//
// # Walks
//
//   - ExtractAnnotatedEntities: Pre-order extraction honouring excluded subtrees
//   - FindNodeAlongPath: Fail-soft lookup along a stored path
//   - CollectNodesAlongPath: Every node visited along a path, truncated when stale
//
// # Usage
//
//	root, err := document.FromText("hi John", []document.LabeledEntity{
//	    {Start: 3, End: 7, Option: model.Option{ID: "2", Name: "John"}},
//	}, document.DefaultMentionKind)
//	mentions := document.Entities(root, document.DefaultMentionKind, document.DefaultExcludedKind)
package document
