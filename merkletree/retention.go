// Copyright 2024 The Merkle Tree Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merkletree

import "github.com/golang/glog"

// FlushPre reports whether Flush may currently be called.
func (t *Tree) FlushPre() bool {
	return t != nil && !t.closed && t.j > 0
}

// Flush discards every retained leaf except the rightmost one, the minimum
// a Tree can retain while remaining able to Insert and to serve a path for
// its most recent leaf. It is shorthand for FlushTo(offset + j - 1).
func (t *Tree) Flush() {
	if !t.FlushPre() {
		abort("Flush: precondition violated (j=%d)", t.j)
	}
	t.FlushTo(t.offset + uint64(t.j-1))
}

// FlushToPre reports whether FlushTo(idx) may currently be called.
func (t *Tree) FlushToPre(idx uint64) bool {
	if t == nil || t.closed {
		return false
	}
	if idx < t.offset {
		return false
	}
	rel := idx - t.offset
	if rel > offsetRangeLimit {
		return false
	}
	newI := uint32(rel)
	return t.i <= newI && newI <= t.j
}

// FlushTo discards every retained leaf strictly to the left of idx, advancing
// the window's left edge without changing which leaves are logically part of
// the tree: offset, j, rhs_ok and mroot all describe the same committed
// history before and after a flush. A flushed leaf can no
// longer be the target of GetPath, but its contribution to the root is still
// accounted for via the interior nodes the column store retains above it.
func (t *Tree) FlushTo(idx uint64) {
	if !t.FlushToPre(idx) {
		abort("FlushTo: precondition violated for idx=%d (offset=%d, window=[%d,%d))", idx, t.offset, t.i, t.j)
	}

	// newI is kept untouched through the loop below and used for the final
	// assignment to t.i: the loop needs its own halved copy (ni) to walk the
	// column-store levels, and conflating the two — assigning t.i from
	// whatever ni ends up being after the loop halves it down to 0 or 1 —
	// would silently shrink the retained window far more than intended.
	newI := uint32(idx - t.offset)

	oi, ni, oj := t.i, newI, t.j
	for level := 0; level < numLevels; level++ {
		oldOfs := offsetOf(oi)
		newOfs := offsetOf(ni)
		if newOfs > oldOfs {
			t.hs.shiftLeft(level, int(newOfs-oldOfs))
		}
		oi, ni, oj = oi/2, ni/2, oj/2
	}

	t.i = newI
	// rhs_ok and mroot are left untouched: flushing only discards storage for
	// leaves whose contribution is already folded into retained interior
	// nodes, it does not change the set of committed leaves.
	t.metrics.flushes.Add(1)
	glog.V(2).Infof("merkletree: flushed window start to local index %d (offset=%d)", t.i, t.offset)
}

// RetractToPre reports whether RetractTo(idx) may currently be called.
func (t *Tree) RetractToPre(idx uint64) bool {
	if t == nil || t.closed {
		return false
	}
	if idx < t.offset {
		return false
	}
	rel := idx - t.offset
	if rel > offsetRangeLimit {
		return false
	}
	r := uint32(rel)
	return t.i <= r && r < t.j
}

// RetractTo discards every leaf at or beyond idx+1, rolling the tree back to
// a previously-observed size. Unlike FlushTo, this changes which leaves are
// committed, so the rhs cache and materialized root are invalidated: the next
// GetRoot or GetPath call recomputes them from scratch.
func (t *Tree) RetractTo(idx uint64) {
	if !t.RetractToPre(idx) {
		abort("RetractTo: precondition violated for idx=%d (offset=%d, window=[%d,%d))", idx, t.offset, t.i, t.j)
	}

	newJ := uint32(idx-t.offset) + 1

	oi, s, oj := t.i, newJ, t.j
	for level := 0; level < numLevels; level++ {
		ofs := offsetOf(oi)
		oldLen := oj - ofs
		newLen := s - ofs
		if newLen < oldLen {
			t.hs.shrink(level, int(newLen))
		}
		oi, s, oj = oi/2, s/2, oj/2
	}

	t.j = newJ
	t.rhsOk = false
	t.metrics.retracts.Add(1)
	glog.V(2).Infof("merkletree: retracted window end to local index %d (offset=%d)", t.j, t.offset)
}
