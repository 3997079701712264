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

// VerifyPre reports whether Verify(path, k, max, root) may currently be
// called. Unlike most of the other preconditions, this one does not depend
// on t's mutable state beyond its hash size and hash_fun collaborator, so it
// is safe to call on a Tree that has long since diverged from the one that
// produced path — that is the point of client-side verification.
func (t *Tree) VerifyPre(path *Path, k, max uint32) bool {
	if t == nil || t.closed {
		return false
	}
	if path == nil || path.hashSize != t.hashSize {
		return false
	}
	if max == 0 || k >= max {
		return false
	}
	return path.Len() == pathLength(k, max)+1
}

// Verify recomputes a root from path (whose first entry must be the leaf
// digest at position k, as returned by GetPath) against a tree of size max,
// and reports whether it matches root. The comparison is constant-time in
// the digest contents.
//
// Verify mirrors the same parity walk GetPath used to build path, so a path
// produced by one Tree can be checked by any Tree sharing its hash size and
// hash_fun — including one running on an entirely different machine, which
// is the whole point of an append-only log's client-side verification.
func (t *Tree) Verify(path *Path, k, max uint32, root Digest) bool {
	if !t.VerifyPre(path, k, max) {
		abort("Verify: precondition violated (k=%d, max=%d, path len=%d)", k, max, path.Len())
	}

	acc := CopyDigest(path.At(0))
	j := max
	actd := false
	next := 1

	for j != 0 {
		switch {
		case k%2 == 1:
			sib := path.At(next)
			next++
			out := NewDigest(t.hashSize)
			t.hashFun(sib, acc, out)
			acc = out
		case k == j:
			// Nothing to fold in at this level.
		case k+1 == j && actd:
			sib := path.At(next)
			next++
			out := NewDigest(t.hashSize)
			t.hashFun(acc, sib, out)
			acc = out
		case k+1 == j && !actd:
			// Nothing to fold in at this level.
		default:
			sib := path.At(next)
			next++
			out := NewDigest(t.hashSize)
			t.hashFun(acc, sib, out)
			acc = out
		}
		nactd := actd || j%2 == 1
		j, k = j/2, k/2
		actd = nactd
	}

	ok := acc.Equal(root)
	if !ok {
		t.metrics.verifyFailures.Add(1)
		glog.V(4).Infof("merkletree: Verify failed for k=%d max=%d", k, max)
	}
	return ok
}
