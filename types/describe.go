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

package types

import (
	"fmt"
	"strings"
)

// Describe formats a type tree as prose for a technical reader who has not
// memorised the single-character type codes, in the style used by D-Bus
// introspection tools: "Array of [Byte]", "Dict of {String: Variant}",
// "Struct of (Int32, Double)". An array whose member is a dict entry is
// described as a dictionary.
//
// The type must be structurally valid: a Struct needs at least one member, a
// DictEntry exactly two and an enclosing Array.
func Describe(t *Type) string {
	switch t.Kind {
	case KindArray:
		if t.Members[0].Kind == KindDictEntry {
			entry := t.Members[0]
			return fmt.Sprintf("Dict of {%s: %s}",
				Describe(entry.Members[0]), Describe(entry.Members[1]))
		}
		return fmt.Sprintf("Array of [%s]", Describe(t.Members[0]))
	case KindStruct:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = Describe(m)
		}
		return fmt.Sprintf("Struct of (%s)", strings.Join(parts, ", "))
	case KindDictEntry:
		panic("deviate/types: dict entry outside an array")
	default:
		return describeBasic(t.Kind)
	}
}

// DescribeSignature formats every member of the signature as Describe does,
// joined by commas.
func DescribeSignature(s *Signature) string {
	parts := make([]string, len(s.Members))
	for i, m := range s.Members {
		parts[i] = Describe(m)
	}
	return strings.Join(parts, ", ")
}

func describeBasic(k Kind) string {
	switch k {
	case KindByte:
		return "Byte"
	case KindBoolean:
		return "Boolean"
	case KindInt16:
		return "Int16"
	case KindUInt16:
		return "UInt16"
	case KindInt32:
		return "Int32"
	case KindUInt32:
		return "UInt32"
	case KindInt64:
		return "Int64"
	case KindUInt64:
		return "UInt64"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	case KindObjectPath:
		return "Object Path"
	case KindSignature:
		return "Signature"
	case KindVariant:
		return "Variant"
	case KindUnixFD:
		return "Unix FD"
	default:
		panic(fmt.Sprintf("deviate/types: no description for kind %v", k))
	}
}
