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

import "errors"

// Sentinel errors returned by Deserialize/DeserializePath on format rejection.
// Serialize/SerializePath buffer-overrun failures carry no error value by
// design — they return a zero byte count, matching the C ABI's 0-on-failure
// convention — so there are no sentinels for those.
var (
	// ErrBadVersion is returned when the encoded format_version is not 1.
	ErrBadVersion = errors.New("merkletree: unsupported format version")

	// ErrHashSizeMismatch is returned when the encoded hash_size does not
	// match the hash_size the caller supplied to Deserialize.
	ErrHashSizeMismatch = errors.New("merkletree: hash size mismatch")

	// ErrShortBuffer is returned when the input buffer is truncated
	// relative to what the format requires.
	ErrShortBuffer = errors.New("merkletree: buffer too short")

	// ErrInvalidTree is returned when the decoded fields fail the
	// structural invariants: a hs outer count and rhs length of exactly 32,
	// and (checked by checkConditions) j >= i and offset headroom for j more
	// leaves without overflow.
	ErrInvalidTree = errors.New("merkletree: decoded tree fails structural invariants")
)
