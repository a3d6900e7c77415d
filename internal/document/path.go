// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// PATH
// =============================================================================

// Path addresses a node by child indices from the root.
// The empty path is the root.
type Path []int

// Clone returns a copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path{}, p...)
}

// Child returns the path of the i-th child of p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Parent returns the parent path. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1].Clone()
}

// Last returns the final index, or -1 for the root.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Sibling returns the path of the sibling at index i.
func (p Path) Sibling(i int) Path {
	return p.Parent().Child(i)
}

// Equal reports whether p and q address the same node.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether p is at or below prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return Path(p[:len(prefix)]).Equal(prefix)
}

// Compare orders paths in document (pre-order) order.
// An ancestor sorts before its descendants.
func (p Path) Compare(q Path) int {
	for i := 0; i < len(p) && i < len(q); i++ {
		if p[i] != q[i] {
			if p[i] < q[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(q):
		return -1
	case len(p) > len(q):
		return 1
	}
	return 0
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// =============================================================================
// POINT AND RANGE
// =============================================================================

// Point is a rune offset inside the text leaf at Path.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

// Compare orders points in document order.
func (p Point) Compare(q Point) int {
	if c := p.Path.Compare(q.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < q.Offset:
		return -1
	case p.Offset > q.Offset:
		return 1
	}
	return 0
}

// Equal reports whether p and q are the same point.
func (p Point) Equal(q Point) bool {
	return p.Compare(q) == 0
}

func (p Point) String() string {
	return fmt.Sprintf("%s:%d", p.Path, p.Offset)
}

// Range spans two points. Anchor and Focus may be in either order.
type Range struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Collapsed reports whether the range is a caret.
func (r Range) Collapsed() bool {
	return r.Anchor.Equal(r.Focus)
}

// Start returns the earlier point.
func (r Range) Start() Point {
	if r.Anchor.Compare(r.Focus) <= 0 {
		return r.Anchor
	}
	return r.Focus
}

// End returns the later point.
func (r Range) End() Point {
	if r.Anchor.Compare(r.Focus) <= 0 {
		return r.Focus
	}
	return r.Anchor
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start(), r.End())
}
