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

package report

import "github.com/tidwall/btree"

// CodeSet is a sorted, deduplicated registry of diagnostic codes. Packages
// that emit diagnostics expose their complete code list through one of
// these, so front ends can validate warning filters against it. The zero
// value is empty and ready to use.
type CodeSet struct {
	set btree.Set[string]
}

// NewCodeSet returns a CodeSet holding the given codes.
func NewCodeSet(codes ...string) *CodeSet {
	s := new(CodeSet)
	for _, code := range codes {
		s.set.Insert(code)
	}
	return s
}

// Has reports whether code is registered.
func (s *CodeSet) Has(code string) bool {
	return s.set.Contains(code)
}

// Len returns the number of registered codes.
func (s *CodeSet) Len() int {
	return s.set.Len()
}

// All returns every registered code in lexical order.
func (s *CodeSet) All() []string {
	codes := make([]string, 0, s.set.Len())
	s.set.Scan(func(code string) bool {
		codes = append(codes, code)
		return true
	})
	return codes
}

// Union returns a new CodeSet holding the contents of s and of every other.
func (s *CodeSet) Union(others ...*CodeSet) *CodeSet {
	out := NewCodeSet(s.All()...)
	for _, other := range others {
		other.set.Scan(func(code string) bool {
			out.set.Insert(code)
			return true
		})
	}
	return out
}
