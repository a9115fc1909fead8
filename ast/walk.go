// Copyright 2024-2026 The dbusdev Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import "iter"

// Walk returns an iterator over every member attached below m, in pre-order:
// each child is yielded before its own children. The root itself is not
// yielded.
func Walk(m Member) iter.Seq[Member] {
	return func(yield func(Member) bool) {
		walk(m, yield)
	}
}

func walk(m Member, yield func(Member) bool) bool {
	for _, child := range m.members() {
		if !yield(child) {
			return false
		}
		if !walk(child, yield) {
			return false
		}
	}
	return true
}
