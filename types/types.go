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

// Package types models the D-Bus type system: the fourteen basic types, the
// three container types, and complete type signatures.
//
// A type tree is obtained by parsing a signature string with Parse, or built
// directly from Type literals.
//
// See https://dbus.freedesktop.org/doc/dbus-specification.html#type-system.
package types

import (
	"fmt"
	"strings"
)

// Kind identifies one of the D-Bus wire types.
type Kind int8

const (
	// KindByte is an 8-bit unsigned integer.
	KindByte Kind = 1 + iota
	// KindBoolean is a boolean value: 0 is FALSE and 1 is TRUE, everything
	// else is invalid.
	KindBoolean
	// KindInt16 is a 16-bit signed integer.
	KindInt16
	// KindUInt16 is a 16-bit unsigned integer.
	KindUInt16
	// KindInt32 is a 32-bit signed integer.
	KindInt32
	// KindUInt32 is a 32-bit unsigned integer.
	KindUInt32
	// KindInt64 is a 64-bit signed integer.
	KindInt64
	// KindUInt64 is a 64-bit unsigned integer.
	KindUInt64
	// KindDouble is an IEEE 754 double.
	KindDouble
	// KindString is a UTF-8 string with no interior nul bytes.
	KindString
	// KindObjectPath is the name of an object instance.
	KindObjectPath
	// KindSignature is a type signature.
	KindSignature
	// KindVariant holds a value whose type travels with the value itself.
	KindVariant
	// KindUnixFD is a Unix file descriptor.
	KindUnixFD
	// KindArray is a container of zero or more values of one type.
	KindArray
	// KindStruct is a container of one or more values of mixed types.
	KindStruct
	// KindDictEntry is a key-value pair; it may appear only as the sole
	// member of an array, which then models a dictionary.
	KindDictEntry
)

// Basic reports whether the kind is one of the fourteen basic types.
func (k Kind) Basic() bool {
	return k >= KindByte && k <= KindUnixFD
}

// Code returns the type code for this kind: the character that introduces a
// value of this kind in a signature. Struct and DictEntry return their
// reserved wire codes r and e, which never appear in signatures themselves.
func (k Kind) Code() byte {
	switch k {
	case KindByte:
		return 'y'
	case KindBoolean:
		return 'b'
	case KindInt16:
		return 'n'
	case KindUInt16:
		return 'q'
	case KindInt32:
		return 'i'
	case KindUInt32:
		return 'u'
	case KindInt64:
		return 'x'
	case KindUInt64:
		return 't'
	case KindDouble:
		return 'd'
	case KindString:
		return 's'
	case KindObjectPath:
		return 'o'
	case KindSignature:
		return 'g'
	case KindVariant:
		return 'v'
	case KindUnixFD:
		return 'h'
	case KindArray:
		return 'a'
	case KindStruct:
		return 'r'
	case KindDictEntry:
		return 'e'
	default:
		panic(fmt.Sprintf("deviate/types: unknown kind %d", int8(k)))
	}
}

// Alignment returns the boundary, in bytes, that values of this kind are
// aligned to on the wire.
func (k Kind) Alignment() int {
	switch k {
	case KindByte, KindSignature, KindVariant:
		return 1
	case KindInt16, KindUInt16:
		return 2
	case KindBoolean, KindInt32, KindUInt32, KindString, KindObjectPath,
		KindUnixFD, KindArray:
		return 4
	case KindInt64, KindUInt64, KindDouble, KindStruct, KindDictEntry:
		return 8
	default:
		panic(fmt.Sprintf("deviate/types: unknown kind %d", int8(k)))
	}
}

// String returns the D-Bus specification's name for the kind, such as UINT32
// or DICT_ENTRY.
func (k Kind) String() string {
	switch k {
	case KindByte:
		return "BYTE"
	case KindBoolean:
		return "BOOLEAN"
	case KindInt16:
		return "INT16"
	case KindUInt16:
		return "UINT16"
	case KindInt32:
		return "INT32"
	case KindUInt32:
		return "UINT32"
	case KindInt64:
		return "INT64"
	case KindUInt64:
		return "UINT64"
	case KindDouble:
		return "DOUBLE"
	case KindString:
		return "STRING"
	case KindObjectPath:
		return "OBJECT_PATH"
	case KindSignature:
		return "SIGNATURE"
	case KindVariant:
		return "VARIANT"
	case KindUnixFD:
		return "UNIX_FD"
	case KindArray:
		return "ARRAY"
	case KindStruct:
		return "STRUCT"
	case KindDictEntry:
		return "DICT_ENTRY"
	default:
		return fmt.Sprintf("Kind(%d)", int8(k))
	}
}

// Type is one node of a D-Bus type tree.
//
// Members is nil for basic kinds. An Array has exactly one member, a Struct
// has one or more, and a DictEntry has exactly two: its key, which must be a
// basic type, and its value.
type Type struct {
	Kind    Kind
	Members []*Type
}

// String renders the type as its canonical signature fragment: basic types
// as their code, arrays as "a" followed by the member type, structs in
// parentheses, and dict entries in braces.
func (t *Type) String() string {
	switch t.Kind {
	case KindArray:
		return "a" + t.Members[0].String()
	case KindStruct:
		var sb strings.Builder
		sb.WriteByte('(')
		for _, m := range t.Members {
			sb.WriteString(m.String())
		}
		sb.WriteByte(')')
		return sb.String()
	case KindDictEntry:
		return "{" + t.Members[0].String() + t.Members[1].String() + "}"
	default:
		return string(t.Kind.Code())
	}
}

// Equal reports whether two type trees are structurally identical.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind || len(t.Members) != len(other.Members) {
		return false
	}
	for i, m := range t.Members {
		if !m.Equal(other.Members[i]) {
			return false
		}
	}
	return true
}

// Signature is an ordered sequence of types: the complete type list of a
// property, argument, or message body.
type Signature struct {
	Members []*Type
}

// String renders the signature in its canonical form, the concatenation of
// its member types. Parsing the result reproduces the signature. A nil
// signature renders as the empty string.
func (s *Signature) String() string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	for _, m := range s.Members {
		sb.WriteString(m.String())
	}
	return sb.String()
}

// Equal reports whether two signatures are structurally identical.
func (s *Signature) Equal(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Members) != len(other.Members) {
		return false
	}
	for i, m := range s.Members {
		if !m.Equal(other.Members[i]) {
			return false
		}
	}
	return true
}
