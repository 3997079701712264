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

import "testing"

func TestDigestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Digest
		want bool
	}{
		{"equal", Digest{1, 2, 3}, Digest{1, 2, 3}, true},
		{"differ-last-byte", Digest{1, 2, 3}, Digest{1, 2, 4}, false},
		{"differ-length", Digest{1, 2, 3}, Digest{1, 2}, false},
		{"both-empty", Digest{}, Digest{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestCopyDigestDoesNotAlias(t *testing.T) {
	orig := Digest{1, 2, 3}
	cp := CopyDigest(orig)
	cp[0] = 0xff
	if orig[0] == 0xff {
		t.Fatal("CopyDigest aliased the source digest's storage")
	}
}

func TestDigestVecShiftLeft(t *testing.T) {
	v := newDigestVec()
	for i := 0; i < 5; i++ {
		v.Push(Digest{byte(i)})
	}
	v.ShiftLeft(2)
	if got, want := v.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	for i := 0; i < v.Len(); i++ {
		if want := byte(i + 2); v.At(i)[0] != want {
			t.Errorf("At(%d) = %v, want [%d]", i, v.At(i), want)
		}
	}
}

func TestDigestVecShiftLeftPastEnd(t *testing.T) {
	v := newDigestVec()
	v.Push(Digest{1})
	v.Push(Digest{2})
	v.ShiftLeft(10)
	if got := v.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestDigestVecShrink(t *testing.T) {
	v := newDigestVec()
	for i := 0; i < 4; i++ {
		v.Push(Digest{byte(i)})
	}
	v.Shrink(2)
	if got, want := v.Len(), 2; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
}
