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

import "encoding/binary"

const formatVersion = uint8(1)

// writer is a bounds-checked big-endian byte-buffer cursor. Once poisoned
// (any write fails to fit) every subsequent write is a no-op, so a caller
// only needs to check ok() once at the end.
type writer struct {
	buf      []byte
	pos      int
	poisoned bool
}

func newWriter(buf []byte) *writer {
	return &writer{buf: buf}
}

func (w *writer) ok() bool { return !w.poisoned }

func (w *writer) need(n int) bool {
	if w.poisoned || w.pos+n > len(w.buf) {
		w.poisoned = true
		return false
	}
	return true
}

func (w *writer) u8(v uint8) {
	if !w.need(1) {
		return
	}
	w.buf[w.pos] = v
	w.pos++
}

func (w *writer) u32(v uint32) {
	if !w.need(4) {
		return
	}
	binary.BigEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

func (w *writer) u64(v uint64) {
	if !w.need(8) {
		return
	}
	binary.BigEndian.PutUint64(w.buf[w.pos:], v)
	w.pos += 8
}

func (w *writer) bytes(b []byte) {
	if !w.need(len(b)) {
		return
	}
	copy(w.buf[w.pos:], b)
	w.pos += len(b)
}

func (w *writer) digest(d Digest) {
	w.bytes(d)
}

func (w *writer) digestVec(v *digestVec) {
	w.u32(uint32(v.Len()))
	for i := 0; i < v.Len(); i++ {
		w.digest(v.At(i))
	}
}

// reader is the bounds-checked counterpart to writer.
type reader struct {
	buf      []byte
	pos      int
	poisoned bool
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) need(n int) bool {
	if r.poisoned || r.pos+n > len(r.buf) {
		r.poisoned = true
		return false
	}
	return true
}

func (r *reader) u8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.buf[r.pos]
	r.pos++
	return v
}

func (r *reader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v
}

func (r *reader) digest(hashSize uint32) Digest {
	n := int(hashSize)
	if !r.need(n) {
		return nil
	}
	d := CopyDigest(r.buf[r.pos : r.pos+n])
	r.pos += n
	return d
}

// digestVec reads a count-prefixed sequence of hashSize-byte digests. If
// wantCount is non-negative, the encoded count must equal it exactly and a
// mismatch poisons the reader.
func (r *reader) digestVec(hashSize uint32, wantCount int) *digestVec {
	count := r.u32()
	if wantCount >= 0 && int(count) != wantCount {
		r.poisoned = true
		return nil
	}
	v := newDigestVec()
	for i := uint32(0); i < count; i++ {
		v.Push(r.digest(hashSize))
		if r.poisoned {
			return nil
		}
	}
	return v
}

// SerializeSize returns the number of bytes Serialize would write for t,
// saturating to the maximum uint64 value on overflow. It never fails.
func (t *Tree) SerializeSize() uint64 {
	const headerBytes = 1 + 4 + 8 + 4 + 4 // format_version, hash_size, offset, i, j
	total := uint64(headerBytes)

	var hsBytes uint64
	for l := 0; l < numLevels; l++ {
		levelBytes := uint64(4) + uint64(t.hs.get(l).Len())*uint64(t.hashSize)
		if levelBytes > maxAddend || hsBytes+levelBytes < hsBytes {
			return maxUint64
		}
		hsBytes += levelBytes
	}
	total += 4 // hs outer count
	if total+hsBytes < total {
		return maxUint64
	}
	total += hsBytes

	total++                                           // rhs_ok
	total += 4 + uint64(numLevels)*uint64(t.hashSize) // rhs vector
	total += uint64(t.hashSize)                        // mroot
	return total
}

const maxUint64 = ^uint64(0)
const maxAddend = maxUint64 / 2

// Serialize encodes t into buf and returns the number of bytes written, or 0
// if buf is too small.
func (t *Tree) Serialize(buf []byte) uint64 {
	w := newWriter(buf)
	w.u8(formatVersion)
	w.u32(t.hashSize)
	w.u64(t.offset)
	w.u32(t.i)
	w.u32(t.j)

	w.u32(numLevels)
	for l := 0; l < numLevels; l++ {
		w.digestVec(t.hs.get(l))
	}

	if t.rhsOk {
		w.u8(1)
	} else {
		w.u8(0)
	}
	w.u32(numLevels)
	for l := 0; l < numLevels; l++ {
		w.digest(t.rhs[l])
	}
	w.digest(t.mroot)

	if !w.ok() {
		return 0
	}
	return uint64(w.pos)
}

// Deserialize parses a Tree from buf, using hashFun as the hash_fun
// collaborator — the function pointer itself is never part of the wire
// format. It returns an error describing the first check that failed.
func Deserialize(hashSize uint32, buf []byte, hashFun HashFunc) (*Tree, error) {
	r := newReader(buf)

	version := r.u8()
	if r.poisoned {
		return nil, ErrShortBuffer
	}
	if version != formatVersion {
		return nil, ErrBadVersion
	}

	encodedHashSize := r.u32()
	offset := r.u64()
	i := r.u32()
	j := r.u32()
	if r.poisoned {
		return nil, ErrShortBuffer
	}
	if encodedHashSize != hashSize {
		return nil, ErrHashSizeMismatch
	}

	hsOuterCount := r.u32()
	if r.poisoned {
		return nil, ErrShortBuffer
	}
	if hsOuterCount != numLevels {
		return nil, ErrInvalidTree
	}
	hs := newColumnStore()
	for l := 0; l < numLevels; l++ {
		v := r.digestVec(hashSize, -1)
		if r.poisoned {
			return nil, ErrShortBuffer
		}
		hs.levels[l] = v
	}

	rhsOkByte := r.u8()
	rhsVec := r.digestVec(hashSize, -1)
	if r.poisoned {
		return nil, ErrShortBuffer
	}
	if rhsVec.Len() != numLevels {
		return nil, ErrInvalidTree
	}
	mroot := r.digest(hashSize)
	if r.poisoned {
		return nil, ErrShortBuffer
	}

	t := &Tree{
		hashSize: hashSize,
		offset:   offset,
		i:        i,
		j:        j,
		hs:       hs,
		rhsOk:    rhsOkByte != 0,
		mroot:    mroot,
		hashFun:  hashFun,
		metrics:  newTreeMetrics(nil),
	}
	for l := 0; l < numLevels; l++ {
		t.rhs[l] = rhsVec.At(l)
	}

	if !t.checkConditions() {
		return nil, ErrInvalidTree
	}
	return t, nil
}

// checkConditions validates the structural invariants a decoded (or
// otherwise externally assembled) Tree must satisfy before it can be
// trusted: the window is not inverted (j >= i), and offset leaves
// enough headroom for j more leaves without overflowing.
func (t *Tree) checkConditions() bool {
	if t.j < t.i {
		return false
	}
	remaining := maxUint64 - t.offset
	if remaining < uint64(t.j) {
		return false
	}
	return true
}

// SerializePath encodes path and returns the number of bytes written, or 0
// if buf is too small.
func SerializePath(path *Path, buf []byte) uint64 {
	w := newWriter(buf)
	w.u32(path.hashSize)
	w.u32(uint32(path.Len()))
	for i := 0; i < path.Len(); i++ {
		w.digest(path.At(i))
	}
	if !w.ok() {
		return 0
	}
	return uint64(w.pos)
}

// DeserializePath parses a Path from buf. The returned Path's digests are
// freshly allocated and share no storage with buf.
func DeserializePath(hashSize uint32, buf []byte) (*Path, error) {
	r := newReader(buf)
	encodedHashSize := r.u32()
	if r.poisoned {
		return nil, ErrShortBuffer
	}
	if encodedHashSize != hashSize {
		return nil, ErrHashSizeMismatch
	}
	v := r.digestVec(hashSize, -1)
	if r.poisoned {
		return nil, ErrShortBuffer
	}
	p := NewPath(hashSize)
	for i := 0; i < v.Len(); i++ {
		p.Append(v.At(i))
	}
	return p, nil
}
