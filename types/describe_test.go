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

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbusdev/deviate/types"
)

func TestDescribeBasicTypes(t *testing.T) {
	t.Parallel()

	names := map[types.Kind]string{
		types.KindByte:       "Byte",
		types.KindBoolean:    "Boolean",
		types.KindInt16:      "Int16",
		types.KindUInt16:     "UInt16",
		types.KindInt32:      "Int32",
		types.KindUInt32:     "UInt32",
		types.KindInt64:      "Int64",
		types.KindUInt64:     "UInt64",
		types.KindDouble:     "Double",
		types.KindString:     "String",
		types.KindObjectPath: "Object Path",
		types.KindSignature:  "Signature",
		types.KindVariant:    "Variant",
		types.KindUnixFD:     "Unix FD",
	}
	for kind, want := range names {
		assert.Equal(t, want, types.Describe(basic(kind)))
	}
}

func TestDescribeContainers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"ay", "Array of [Byte]"},
		{"aay", "Array of [Array of [Byte]]"},
		{"(ssq)", "Struct of (String, String, UInt16)"},
		{"((ii)(uu))", "Struct of (Struct of (Int32, Int32), Struct of (UInt32, UInt32))"},
		{"a{sv}", "Dict of {String: Variant}"},
		{"a{sa{sv}}", "Dict of {String: Dict of {String: Variant}}"},
		{"aa{sv}", "Array of [Dict of {String: Variant}]"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			sig, err := types.Parse(tc.in, nil)
			require.NoError(t, err)
			require.Len(t, sig.Members, 1)
			assert.Equal(t, tc.want, types.Describe(sig.Members[0]))
		})
	}
}

func TestDescribeSignature(t *testing.T) {
	t.Parallel()

	sig, err := types.Parse("st", nil)
	require.NoError(t, err)
	assert.Equal(t, "String, UInt64", types.DescribeSignature(sig))

	sig, err = types.Parse("iiddd(idd)", nil)
	require.NoError(t, err)
	assert.Equal(t,
		"Int32, Int32, Double, Double, Double, Struct of (Int32, Double, Double)",
		types.DescribeSignature(sig))
}

func TestDescribeBareDictEntry(t *testing.T) {
	t.Parallel()

	// A dict entry is only meaningful inside an array.
	entry := dictEntry(basic(types.KindString), basic(types.KindVariant))
	assert.Panics(t, func() { types.Describe(entry) })
}
