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

// Package merkletree implements an append-only, verifiable Merkle hash tree:
// incremental insertion, root computation via a lazily-materialized
// right-hashes cache, inclusion-path extraction, client-side verification,
// and window retention control (flush/retract), parameterised over a
// configurable hash_fun collaborator.
package merkletree

import (
	"fmt"
	"math"

	"github.com/golang/glog"
	"github.com/transparencylog/merkletree/merkletree/hashing"
	"github.com/transparencylog/merkletree/internal/monitoring"
)

// offsetRangeLimit bounds how far a global leaf index may sit above offset
// for path/index operations: at most 2^32 - 1, one less than the window
// range a uint32 local index can address.
const offsetRangeLimit = uint64(math.MaxUint32)

// HashFunc compresses two input digests into one output digest of the same
// size. It is deterministic, pure and thread-safe, and may alias out with
// left or right. The tree engine itself always passes a freshly allocated
// out, so it does not depend on that aliasing guarantee.
type HashFunc func(left, right, out Digest)

func defaultHashFunc(left, right, out Digest) {
	hashing.PairInto(left, right, out)
}

// DefaultHashSize returns the digest size, in bytes, produced by
// DefaultHashFunc.
func DefaultHashSize() uint32 { return hashing.Size }

// DefaultHashFunc returns the hash_fun collaborator NewTree uses: SHA-256
// over the concatenation of its two inputs.
func DefaultHashFunc() HashFunc { return defaultHashFunc }

// Tree is the stateful Merkle tree engine. The zero value is not usable;
// construct one with NewTree or NewTreeCustom.
type Tree struct {
	hashSize uint32
	offset   uint64
	i        uint32
	j        uint32

	hs *columnStore

	rhsOk bool
	rhs   [numLevels]Digest
	mroot Digest

	hashFun HashFunc
	metrics *treeMetrics
	closed  bool
}

// Option configures a Tree at construction time.
type Option func(*Tree)

// WithMetricFactory wires the Tree's counters and histograms into mf,
// instead of the default no-op factory.
func WithMetricFactory(mf monitoring.MetricFactory) Option {
	return func(t *Tree) { t.metrics = newTreeMetrics(mf) }
}

// NewTree creates a Tree with the default 32-byte hash_fun collaborator
// (SHA-256 over the 64-byte concatenation of its two inputs), containing a
// single leaf.
func NewTree(initialLeaf Digest, opts ...Option) (*Tree, error) {
	return NewTreeCustom(hashing.Size, initialLeaf, defaultHashFunc, opts...)
}

// NewTreeCustom creates a Tree with an explicit hash size and hash_fun
// collaborator, containing a single leaf.
func NewTreeCustom(hashSize uint32, initialLeaf Digest, hashFun HashFunc, opts ...Option) (*Tree, error) {
	if hashSize == 0 {
		return nil, fmt.Errorf("merkletree: hash size must be positive")
	}
	if uint32(len(initialLeaf)) != hashSize {
		return nil, fmt.Errorf("merkletree: initial leaf has size %d, want %d", len(initialLeaf), hashSize)
	}
	if hashFun == nil {
		return nil, fmt.Errorf("merkletree: hash function must not be nil")
	}

	t := &Tree{
		hashSize: hashSize,
		hs:       newColumnStore(),
		mroot:    NewDigest(hashSize),
		hashFun:  hashFun,
		metrics:  newTreeMetrics(nil),
	}
	for l := range t.rhs {
		t.rhs[l] = NewDigest(hashSize)
	}
	for _, opt := range opts {
		opt(t)
	}

	t.hs.push(0, CopyDigest(initialLeaf))
	t.i = 0
	t.j = 1
	t.offset = 0
	t.rhsOk = false

	return t, nil
}

// HashSize returns the digest size, in bytes, this Tree was constructed
// with.
func (t *Tree) HashSize() uint32 { return t.hashSize }

// Offset returns the number of leaves logically prepended to the tree but
// not stored.
func (t *Tree) Offset() uint64 { return t.offset }

// Window returns the retained leaf index range [i, j) in local (offset-
// relative) coordinates.
func (t *Tree) Window() (i, j uint32) { return t.i, t.j }

// Close releases the Tree's column store and caches. After Close, every
// other operation on t is a precondition violation.
func (t *Tree) Close() {
	t.closed = true
	t.hs = nil
	for l := range t.rhs {
		t.rhs[l] = nil
	}
	t.mroot = nil
}

func offsetOf(k uint32) uint32 {
	return k &^ 1
}

// InsertPre reports whether Insert(leaf) may currently be called. It is
// total: it returns a boolean for every argument, never aborting.
func (t *Tree) InsertPre(leaf Digest) bool {
	if t == nil || t.closed {
		return false
	}
	if uint32(len(leaf)) != t.hashSize {
		return false
	}
	if t.j >= math.MaxUint32-1 {
		return false
	}
	remaining := uint64(math.MaxUint64) - t.offset
	return remaining >= uint64(t.j)+1
}

// Insert appends leaf as a new rightmost leaf, running an incremental hash
// carry: each time the new leaf closes an interior node (the pre-insert leaf
// count at that level is odd), the new node's hash is folded with its
// now-complete sibling and carried up a level.
func (t *Tree) Insert(leaf Digest) {
	if !t.InsertPre(leaf) {
		abort("Insert: precondition violated (j=%d, offset=%d, leaf size=%d)", t.j, t.offset, len(leaf))
	}

	acc := CopyDigest(leaf)
	t.hs.push(0, acc)

	jc := t.j
	level := 0
	for jc%2 == 1 {
		dv := t.hs.get(level)
		sibling := dv.At(dv.Len() - 2)
		next := NewDigest(t.hashSize)
		t.hashFun(sibling, acc, next)
		acc = next
		t.hs.push(level+1, acc)
		level++
		jc /= 2
	}

	t.j++
	t.rhsOk = false
	t.metrics.inserts.Add(1)
	glog.V(2).Infof("merkletree: Insert closed %d level(s), j=%d", level, t.j)
}

// GetRootPre reports whether GetRoot may currently be called. Root
// retrieval has no precondition beyond the Tree being open.
func (t *Tree) GetRootPre() bool {
	return t != nil && !t.closed
}

// GetRoot returns the current Merkle root over the logical leaf range
// [offsetOf(i)+offset, j+offset). If the cached root is valid it is returned
// directly; otherwise it is rebuilt via constructRHS, which also refreshes
// the rhs cache used by GetPath.
func (t *Tree) GetRoot() Digest {
	if !t.GetRootPre() {
		abort("GetRoot: precondition violated")
	}
	if t.rhsOk {
		return CopyDigest(t.mroot)
	}
	return t.constructRHS()
}

// constructRHS walks the retained window bottom-up, populating rhs[0..32)
// with the carry values a future GetPath needs to complete the rightmost
// spine, and returns the resulting root.
func (t *Tree) constructRHS() Digest {
	level := 0
	i, j := t.i, t.j
	acc := NewDigest(t.hashSize)
	actd := false

	for j != 0 {
		ofs := offsetOf(i)
		if j%2 == 0 {
			level++
			i /= 2
			j /= 2
			continue
		}
		h := t.hs.get(level).At(int(j - 1 - ofs))
		if actd {
			t.rhs[level] = CopyDigest(acc)
			next := NewDigest(t.hashSize)
			t.hashFun(h, acc, next)
			acc = next
		} else {
			acc = CopyDigest(h)
			actd = true
		}
		level++
		i /= 2
		j /= 2
	}

	t.mroot = CopyDigest(acc)
	t.rhsOk = true
	t.metrics.rootRecomputes.Add(1)
	glog.V(3).Infof("merkletree: root recomputed and rhs cache rebuilt, window=[%d,%d)", t.i, t.j)
	return CopyDigest(acc)
}
