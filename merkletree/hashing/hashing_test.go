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

package hashing

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestPairMatchesStandardLibrarySHA256(t *testing.T) {
	left := bytes.Repeat([]byte{0xab}, Size)
	right := bytes.Repeat([]byte{0xcd}, Size)

	got := Pair(left, right)

	want := sha256.Sum256(append(append([]byte{}, left...), right...))
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("Pair() = %x, want %x", got, want)
	}
}

func TestPairIntoAliasingLeft(t *testing.T) {
	left := bytes.Repeat([]byte{1}, Size)
	right := bytes.Repeat([]byte{2}, Size)
	want := Pair(left, right)

	buf := append([]byte{}, left...)
	PairInto(buf, right, buf)

	if !bytes.Equal(buf, want) {
		t.Fatalf("PairInto with out aliasing left = %x, want %x", buf, want)
	}
}

func TestPairIntoAliasingRight(t *testing.T) {
	left := bytes.Repeat([]byte{1}, Size)
	right := bytes.Repeat([]byte{2}, Size)
	want := Pair(left, right)

	buf := append([]byte{}, right...)
	PairInto(left, buf, buf)

	if !bytes.Equal(buf, want) {
		t.Fatalf("PairInto with out aliasing right = %x, want %x", buf, want)
	}
}
