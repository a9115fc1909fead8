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

// Package arena provides a slab allocator with compressed pointers.
//
// An Arena hands out stable addresses: values never move once allocated, so
// both *T and the compact [Pointer] remain valid for the arena's lifetime.
// Parsed documents allocate their many small elements here to keep them
// adjacent in memory instead of scattered across individual allocations.
package arena

import (
	"fmt"
	"math/bits"
	"strings"
)

// minLenShift is the log2 of the capacity of an arena's smallest slab.
const (
	minLenShift = 4
	minLen      = 1 << minLenShift
)

// Untyped is an untyped arena pointer: one plus the number of values
// allocated before the one it points to. The zero value is nil.
type Untyped uint32

// Nil reports whether the pointer is nil.
func (p Untyped) Nil() bool {
	return p == 0
}

// Pointer is a compressed arena pointer. It is half the size of a real
// pointer and cannot be dereferenced directly; see [Pointer.In]. The zero
// value is nil.
type Pointer[T any] Untyped

// Nil reports whether the pointer is nil.
func (p Pointer[T]) Nil() bool {
	return Untyped(p).Nil()
}

// In dereferences the pointer in the given arena.
//
// arena must be the arena that allocated the pointer, otherwise this returns
// an arbitrary value or panics. Panics if p is nil.
func (p Pointer[T]) In(arena *Arena[T]) *T {
	return arena.At(Untyped(p))
}

// Arena is a slice of T that never moves its elements.
//
// It maintains a table of logarithmically growing slabs that mimic the
// resizing behavior of an ordinary slice, trading the linear overhead of
// []*T for a logarithmic one. Lookup stays O(1) at the cost of two pointer
// loads instead of one.
//
// A zero Arena is empty and ready to use.
type Arena[T any] struct {
	// Invariants:
	// 1. cap(table[0]) == minLen.
	// 2. cap(table[n]) == 2*cap(table[n-1]).
	// 3. cap(table[n]) == len(table[n]) for n < len(table)-1.
	//
	// These are what make lookup O(1).
	table [][]T
}

// New allocates value on the arena and returns its compressed pointer.
func (a *Arena[T]) New(value T) Pointer[T] {
	a.alloc(value)
	return Pointer[T](Untyped(a.Len()))
}

// Alloc allocates value on the arena and returns its stable address.
func (a *Arena[T]) Alloc(value T) *T {
	return a.alloc(value)
}

func (a *Arena[T]) alloc(value T) *T {
	if a.table == nil {
		a.table = [][]T{make([]T, 0, minLen)}
	}

	last := &a.table[len(a.table)-1]
	if len(*last) == cap(*last) {
		a.table = append(a.table, make([]T, 0, 2*cap(*last)))
		last = &a.table[len(a.table)-1]
	}

	*last = append(*last, value)
	return &(*last)[len(*last)-1]
}

// At dereferences an untyped arena pointer, as if by [Pointer.In].
func (a *Arena[T]) At(ptr Untyped) *T {
	if ptr.Nil() {
		a = nil // Trigger an ordinary nil dereference on purpose.
	}
	slab, idx := a.coordinates(int(ptr) - 1)
	return &a.table[slab][idx]
}

// Len returns the number of values allocated so far.
func (a *Arena[T]) Len() int {
	if len(a.table) == 0 {
		return 0
	}

	// Only the last slab can be partially filled.
	return a.lenOfFirstNSlabs(len(a.table)-1) + len(a.table[len(a.table)-1])
}

// String formats the arena's contents, showing slab boundaries.
func (a Arena[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, slab := range a.table {
		if i != 0 {
			b.WriteByte('|')
		}
		for j, v := range slab {
			if j != 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, v)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// lenOfNthSlab returns the capacity of the nth slab, even if it isn't
// allocated yet.
func (*Arena[T]) lenOfNthSlab(n int) int {
	return minLen << n
}

// lenOfFirstNSlabs returns the total capacity of the first n slabs.
func (a *Arena[T]) lenOfFirstNSlabs(n int) int {
	// 2^m + 2^(m+1) + ... + 2^n == 2^(n+1) - 2^m, so the sum of
	// lenOfNthSlab from 0 to n-1 collapses to a subtraction.
	return max(0, a.lenOfNthSlab(n)-a.lenOfNthSlab(0))
}

// coordinates locates idx in the slab table, with a bounds check.
func (a *Arena[T]) coordinates(idx int) (int, int) {
	if idx >= a.Len() || idx < 0 {
		panic(fmt.Sprintf("arena: pointer out of range: %#x", idx))
	}

	// The cumulative starting index of each slab is
	//
	//   0b0 << s, 0b1 << s, 0b11 << s, 0b111 << s, ...
	//
	// for s == minLenShift. Adding minLen turns these into powers of two,
	//
	//   0b1 << s, 0b10 << s, 0b100 << s, ...
	//
	// so the one-indexed high bit of idx+minLen, minus s+1, is the slab
	// index.
	slab := bits.UintSize - bits.LeadingZeros(uint(idx)+minLen)
	slab -= minLenShift + 1

	idx -= a.lenOfFirstNSlabs(slab)
	return slab, idx
}
