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

// Package hashing provides the default hash_fun collaborator: SHA-256 over
// the 64-byte concatenation of two 32-byte digests. It is kept separate from
// the core merkletree package because the hash primitive is an external
// collaborator of the tree engine, not part of it — the engine only ever
// calls through the function-pointer-shaped merkletree.HashFunc type.
package hashing

import (
	"github.com/minio/sha256-simd"
)

// Size is the digest size in bytes produced by Pair.
const Size = sha256.Size

// Pair computes SHA-256(left || right) and returns a freshly allocated
// 32-byte digest. It is the pure, allocating counterpart to PairInto.
func Pair(left, right []byte) []byte {
	out := make([]byte, Size)
	PairInto(left, right, out)
	return out
}

// PairInto computes SHA-256(left || right) into out. out may alias left or
// right: the hasher's internal state is built incrementally via Write calls
// before Sum ever touches out, so an in-place hash-and-overwrite is safe.
func PairInto(left, right, out []byte) {
	h := sha256.New()
	h.Write(left)
	h.Write(right)
	h.Sum(out[:0])
}
