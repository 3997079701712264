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

// Path is the ordered list of sibling (or rhs-carry) digests needed to
// recompute a root from a target leaf.
//
// A reference C implementation's equivalent type borrows digest bytes
// directly out of the tree it was extracted from, and documents that its
// lifetime must not outlive any tree operation that could shift, shrink or
// free those slots. Go has no borrow checker to enforce that discipline, so
// this implementation copies on extraction instead: every digest a Path
// holds is independently owned, and a Path remains valid for as long as the
// caller holds onto it, independent of what subsequently happens to the Tree
// it came from.
type Path struct {
	hashSize uint32
	digests  []Digest
}

// NewPath returns an empty Path sized for hashSize-byte digests.
func NewPath(hashSize uint32) *Path {
	return &Path{hashSize: hashSize}
}

// Clear resets p to zero length without releasing its backing storage, so a
// caller extracting many paths in a loop need not reallocate each time.
func (p *Path) Clear() {
	p.digests = p.digests[:0]
}

// Len returns the number of digests in the path.
func (p *Path) Len() int {
	return len(p.digests)
}

// At returns the digest at position idx. Callers must have
// 0 <= idx < p.Len().
func (p *Path) At(idx int) Digest {
	return p.digests[idx]
}

// HashSize returns the digest size this path was constructed for.
func (p *Path) HashSize() uint32 {
	return p.hashSize
}

// Append adds a copy of d as the next entry of the path: the caller's slice
// is never retained. Callers building a Path by hand (e.g. to verify a path
// received from an untrusted source) must push entries in the same order
// GetPath produces them: the target leaf first, then siblings bottom-up.
func (p *Path) Append(d Digest) {
	p.digests = append(p.digests, CopyDigest(d))
}

// pathLength replays the parity decisions of GetPath's upward walk, without
// touching any actual digest storage, to compute how many sibling/carry
// entries (beyond the leaf itself) a path for (k, j) must contain. VerifyPre
// uses it to validate a caller-supplied path's length up front.
func pathLength(k, j uint32) int {
	n := 0
	actd := false
	for j != 0 {
		switch {
		case k%2 == 1:
			n++
		case k == j:
			// Target is the odd rightmost node with no right child at
			// this frame: nothing to append.
		case k+1 == j && actd:
			n++
		case k+1 == j && !actd:
			// No carry has activated yet: nothing to append.
		default:
			n++
		}
		nactd := actd || j%2 == 1
		j, k = j/2, k/2
		actd = nactd
	}
	return n
}

// GetPathPre reports whether GetPath(idx) may currently be called.
func (t *Tree) GetPathPre(idx uint64) bool {
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
	k := uint32(rel)
	return t.i <= k && k < t.j
}

// GetPath returns the inclusion path for the leaf at global index idx,
// together with the current root and the tree-size snapshot ("max") that
// path is valid against. Calling GetPath refreshes the rhs cache as a side
// effect, exactly as GetRoot does, since it is implemented in terms of it.
func (t *Tree) GetPath(idx uint64) (path *Path, root Digest, max uint32) {
	if !t.GetPathPre(idx) {
		abort("GetPath: precondition violated for idx=%d (offset=%d, window=[%d,%d))", idx, t.offset, t.i, t.j)
	}

	root = t.GetRoot()
	max = t.j

	k := uint32(idx - t.offset)
	p := NewPath(t.hashSize)
	p.Append(t.hs.get(0).At(int(k - offsetOf(t.i))))

	i, j := t.i, t.j
	level := 0
	actd := false
	for j != 0 {
		ofs := offsetOf(i)
		dv := t.hs.get(level)
		switch {
		case k%2 == 1:
			p.Append(dv.At(int(k - 1 - ofs)))
		case k == j:
			// Nothing to append.
		case k+1 == j && actd:
			p.Append(t.rhs[level])
		case k+1 == j && !actd:
			// Nothing to append.
		default:
			p.Append(dv.At(int(k + 1 - ofs)))
		}
		level++
		nactd := actd || j%2 == 1
		i, j, k = i/2, j/2, k/2
		actd = nactd
	}

	t.metrics.pathLength.Observe(float64(p.Len()))
	glog.V(4).Infof("merkletree: GetPath(%d) returned %d entries for window [%d,%d)", idx, p.Len(), t.i, t.j)
	return p, root, max
}
