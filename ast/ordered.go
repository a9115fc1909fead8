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

// OrderedMap is a name-keyed container that preserves insertion order, which
// for parsed documents is source order. The zero value is empty and ready to
// use.
type OrderedMap[V any] struct {
	index  map[string]int
	keys   []string
	values []V
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Has reports whether name is present.
func (m *OrderedMap[V]) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Get returns the value stored under name.
func (m *OrderedMap[V]) Get(name string) (V, bool) {
	i, ok := m.index[name]
	if !ok {
		var zero V
		return zero, false
	}
	return m.values[i], true
}

// Set stores v under name, appending it to the iteration order. Setting an
// existing name replaces the value but keeps its original position; the
// attach methods never do this, they report a duplicate and keep the first
// definition instead.
func (m *OrderedMap[V]) Set(name string, v V) {
	if i, ok := m.index[name]; ok {
		m.values[i] = v
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[name] = len(m.keys)
	m.keys = append(m.keys, name)
	m.values = append(m.values, v)
}

// Keys returns the names in insertion order. The slice is shared with the
// map; callers must not modify it.
func (m *OrderedMap[V]) Keys() []string {
	return m.keys
}

// Values returns the values in insertion order. The slice is shared with the
// map; callers must not modify it.
func (m *OrderedMap[V]) Values() []V {
	return m.values
}

// All returns an iterator over name/value pairs in insertion order.
func (m *OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}
