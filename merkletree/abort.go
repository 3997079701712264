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

import "fmt"

// abortFunc is called when a public operation's documented precondition does
// not hold. The default terminates the goroutine with a panic carrying a
// diagnostic message — preconditions are never meant to fail in correct
// callers, so this is a programmer-error signal, not a recoverable error.
// Tests may substitute a recoverable stand-in via SetAbortFunc to assert
// that a given call path is in fact rejected, without bringing down the
// whole test binary.
var abortFunc = func(msg string) {
	panic(msg)
}

// SetAbortFunc overrides the precondition-violation abort hook and returns
// the previous one, so callers (typically tests) can restore it. An embedder
// that wants a different fatal action than a panic — process exit, a
// structured crash report — can install it here.
func SetAbortFunc(f func(msg string)) (previous func(msg string)) {
	previous = abortFunc
	abortFunc = f
	return previous
}

func abort(format string, args ...any) {
	abortFunc(fmt.Sprintf(format, args...))
}
