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

func TestInsertAbortsOnPreconditionViolation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Insert with wrong-sized leaf did not panic")
		}
	}()
	tr := mustTree(t, leaf(0))
	tr.Insert(Digest{1, 2, 3})
}

func TestGetPathAbortsOnPreconditionViolation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("GetPath on out-of-window index did not panic")
		}
	}()
	tr := mustTree(t, leaf(0))
	tr.GetPath(1)
}

func TestSetAbortFuncOverridesDefault(t *testing.T) {
	var got string
	previous := SetAbortFunc(func(msg string) { got = msg })
	defer SetAbortFunc(previous)

	tr := mustTree(t, leaf(0))
	tr.Insert(Digest{1})

	if got == "" {
		t.Fatal("custom abort hook was not invoked")
	}
}
