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

import (
	"reflect"
	"testing"

	"github.com/golang/mock/gomock"
)

// hashCollaborator is the mockable seam Insert's carry loop calls through.
// Production code talks to a bare HashFunc value; this interface exists only
// so a test can wrap a mock's method as that function value and assert on
// call counts and argument order.
type hashCollaborator interface {
	Hash(left, right, out Digest)
}

// MockHashCollaborator is a hand-maintained gomock mock for
// hashCollaborator, in the shape a generated mock would take.
type MockHashCollaborator struct {
	ctrl     *gomock.Controller
	recorder *MockHashCollaboratorMockRecorder
}

type MockHashCollaboratorMockRecorder struct {
	mock *MockHashCollaborator
}

func NewMockHashCollaborator(ctrl *gomock.Controller) *MockHashCollaborator {
	m := &MockHashCollaborator{ctrl: ctrl}
	m.recorder = &MockHashCollaboratorMockRecorder{m}
	return m
}

func (m *MockHashCollaborator) EXPECT() *MockHashCollaboratorMockRecorder {
	return m.recorder
}

func (m *MockHashCollaborator) Hash(left, right, out Digest) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Hash", left, right, out)
}

func (mr *MockHashCollaboratorMockRecorder) Hash(left, right, out interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Hash", reflect.TypeOf((*MockHashCollaborator)(nil).Hash), left, right, out)
}

// TestInsertCarryCallCount verifies, via an exact gomock call-count
// expectation per insert, that Insert's carry loop calls the hash
// collaborator once per level it closes and not at all when an insert
// leaves every level's pairing incomplete.
func TestInsertCarryCallCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := NewMockHashCollaborator(ctrl)
	hashFun := mock.Hash

	gomock.InOrder(
		// Inserting leaf index 1 (pre-insert j=1, odd) closes level 0: one call.
		mock.EXPECT().Hash(gomock.Any(), gomock.Any(), gomock.Any()).Times(1),
		// Inserting leaf index 2 (pre-insert j=2, even) closes nothing: no calls.
		// Inserting leaf index 3 (pre-insert j=3, odd) closes levels 0 and 1: two calls.
		mock.EXPECT().Hash(gomock.Any(), gomock.Any(), gomock.Any()).Times(2),
	)

	tr, err := NewTreeCustom(32, leaf(0), hashFun)
	if err != nil {
		t.Fatalf("NewTreeCustom: %v", err)
	}
	defer tr.Close()

	tr.Insert(leaf(1))
	tr.Insert(leaf(2))
	tr.Insert(leaf(3))
}
