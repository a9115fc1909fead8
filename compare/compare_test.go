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

package compare_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbusdev/deviate/ast"
	"github.com/dbusdev/deviate/compare"
	"github.com/dbusdev/deviate/parser"
	"github.com/dbusdev/deviate/report"
)

// wrap builds a document holding a single com.example.Frobnicator interface
// with the given members, one per line starting on line 3.
func wrap(members ...string) string {
	var sb strings.Builder
	sb.WriteString("<node name=\"/com/example\">\n")
	sb.WriteString("  <interface name=\"com.example.Frobnicator\">\n")
	for _, m := range members {
		sb.WriteString("    " + m + "\n")
	}
	sb.WriteString("  </interface>\n</node>")
	return sb.String()
}

// parse parses a document that must be clean and returns its interfaces.
func parse(t *testing.T, document string) *ast.OrderedMap[*ast.Interface] {
	t.Helper()
	root, err := parser.Parse("test.xml", strings.NewReader(document), nil)
	require.NoError(t, err)
	return root.Interfaces()
}

// diff compares two documents with no warning configuration.
func diff(t *testing.T, oldDocument, newDocument string) []report.Diagnostic {
	t.Helper()
	c := &compare.InterfaceComparator{
		Old: parse(t, oldDocument),
		New: parse(t, newDocument),
	}
	return c.Compare()
}

func codes(diagnostics []report.Diagnostic) []string {
	var out []string
	for _, d := range diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		old, new string
		want     []report.Diagnostic
	}{
		{
			name: "identical",
			old: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="in"/>`,
				`</method>`,
				`<signal name="Frobnicated"/>`,
				`<property name="Powered" type="b" access="readwrite"/>`,
			),
			new: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="in"/>`,
				`</method>`,
				`<signal name="Frobnicated"/>`,
				`<property name="Powered" type="b" access="readwrite"/>`,
			),
		},
		{
			name: "interface removed",
			old:  wrap(),
			new:  `<node name="/com/example"/>`,
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "interface-removed",
				Level:   report.Backwards,
				Message: "Interface ‘com.example.Frobnicator’ has been removed.",
			}},
		},
		{
			name: "interface added",
			old:  `<node name="/com/example"/>`,
			new:  wrap(),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "interface-added",
				Level:   report.Forwards,
				Line:    2,
				Message: "Interface ‘com.example.Frobnicator’ has been added.",
			}},
		},
		{
			name: "method removed",
			old:  wrap(`<method name="Frobnicate"/>`),
			new:  wrap(),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "method-removed",
				Level:   report.Backwards,
				Message: "Method ‘com.example.Frobnicator.Frobnicate’ has been removed.",
			}},
		},
		{
			name: "method added",
			old:  wrap(),
			new:  wrap(`<method name="Frobnicate"/>`),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "method-added",
				Level:   report.Forwards,
				Line:    3,
				Message: "Method ‘com.example.Frobnicator.Frobnicate’ has been added.",
			}},
		},
		{
			name: "property removed",
			old:  wrap(`<property name="Powered" type="b" access="read"/>`),
			new:  wrap(),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "property-removed",
				Level:   report.Backwards,
				Message: "Property ‘com.example.Frobnicator.Powered’ has been removed.",
			}},
		},
		{
			name: "property added",
			old:  wrap(),
			new:  wrap(`<property name="Powered" type="b" access="read"/>`),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "property-added",
				Level:   report.Forwards,
				Line:    3,
				Message: "Property ‘com.example.Frobnicator.Powered’ has been added.",
			}},
		},
		{
			name: "signal removed",
			old:  wrap(`<signal name="Frobnicated"/>`),
			new:  wrap(),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "signal-removed",
				Level:   report.Backwards,
				Message: "Signal ‘com.example.Frobnicator.Frobnicated’ has been removed.",
			}},
		},
		{
			name: "signal added",
			old:  wrap(),
			new:  wrap(`<signal name="Frobnicated"/>`),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "signal-added",
				Level:   report.Forwards,
				Line:    3,
				Message: "Signal ‘com.example.Frobnicator.Frobnicated’ has been added.",
			}},
		},
		{
			name: "argument added",
			old: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="in"/>`,
				`</method>`,
			),
			new: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="in"/>`,
				`  <arg name="extra" type="s" direction="in"/>`,
				`</method>`,
			),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "argument-added",
				Level:   report.Backwards,
				Line:    5,
				Message: "Argument 1 (‘extra’) of method ‘com.example.Frobnicator.Frobnicate’ has been added.",
			}},
		},
		{
			name: "argument removed",
			old: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="in"/>`,
				`  <arg name="extra" type="s" direction="in"/>`,
				`</method>`,
			),
			new: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="in"/>`,
				`</method>`,
			),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "argument-removed",
				Level:   report.Backwards,
				Message: "Argument 1 (‘extra’) of method ‘com.example.Frobnicator.Frobnicate’ has been removed.",
			}},
		},
		{
			name: "argument renamed",
			old: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="in"/>`,
				`</method>`,
			),
			new: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="options" type="u" direction="in"/>`,
				`</method>`,
			),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "argument-name-changed",
				Level:   report.Info,
				Line:    4,
				Message: "Argument 0 (‘flags’) of method ‘com.example.Frobnicator.Frobnicate’ has changed name from ‘flags’ to ‘options’.",
			}},
		},
		{
			name: "argument type changed",
			old: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="in"/>`,
				`</method>`,
			),
			new: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="t" direction="in"/>`,
				`</method>`,
			),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "argument-type-changed",
				Level:   report.Backwards,
				Line:    4,
				Message: "Argument 0 (‘flags’) of method ‘com.example.Frobnicator.Frobnicate’ has changed type from ‘u’ to ‘t’.",
			}},
		},
		{
			name: "argument direction changed",
			old: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="in"/>`,
				`</method>`,
			),
			new: wrap(
				`<method name="Frobnicate">`,
				`  <arg name="flags" type="u" direction="out"/>`,
				`</method>`,
			),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "argument-direction-changed-in-out",
				Level:   report.Backwards,
				Line:    4,
				Message: "Argument 0 (‘flags’) of method ‘com.example.Frobnicator.Frobnicate’ has changed direction from ‘in’ to ‘out’.",
			}},
		},
		{
			name: "property type changed",
			old:  wrap(`<property name="Powered" type="b" access="read"/>`),
			new:  wrap(`<property name="Powered" type="s" access="read"/>`),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "property-type-changed",
				Level:   report.Backwards,
				Line:    3,
				Message: "Property ‘com.example.Frobnicator.Powered’ has changed type from ‘b’ to ‘s’.",
			}},
		},
		{
			name: "interface deprecated",
			old:  wrap(),
			new:  wrap(`<annotation name="org.freedesktop.DBus.Deprecated" value="true"/>`),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "deprecated",
				Level:   report.Info,
				Line:    2,
				Message: "Node ‘com.example.Frobnicator’ has been deprecated.",
			}},
		},
		{
			name: "method un-deprecated",
			old: wrap(
				`<method name="Frobnicate">`,
				`  <annotation name="org.freedesktop.DBus.Deprecated" value="true"/>`,
				`</method>`,
			),
			new: wrap(
				`<method name="Frobnicate">`,
				`  <annotation name="org.freedesktop.DBus.Deprecated" value="false"/>`,
				`</method>`,
			),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "undeprecated",
				Level:   report.Info,
				Line:    3,
				Message: "Node ‘com.example.Frobnicator.Frobnicate’ has been un-deprecated.",
			}},
		},
		{
			name: "c symbol changed",
			old: wrap(
				`<method name="Frobnicate">`,
				`  <annotation name="org.freedesktop.DBus.GLib.CSymbol" value="frob"/>`,
				`</method>`,
			),
			new: wrap(
				`<method name="Frobnicate">`,
				`  <annotation name="org.freedesktop.DBus.GLib.CSymbol" value="frob2"/>`,
				`</method>`,
			),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "c-symbol-changed",
				Level:   report.Info,
				Line:    3,
				Message: "Node ‘com.example.Frobnicator.Frobnicate’ has changed its C symbol from ‘frob’ to ‘frob2’.",
			}},
		},
		{
			name: "reply added",
			old: wrap(
				`<method name="Frobnicate">`,
				`  <annotation name="org.freedesktop.DBus.Method.NoReply" value="true"/>`,
				`</method>`,
			),
			new: wrap(`<method name="Frobnicate"/>`),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "reply-added",
				Level:   report.Backwards,
				Line:    3,
				Message: "Node ‘com.example.Frobnicator.Frobnicate’ has been marked as returning a reply.",
			}},
		},
		{
			name: "reply removed",
			old:  wrap(`<method name="Frobnicate"/>`),
			new: wrap(
				`<method name="Frobnicate">`,
				`  <annotation name="org.freedesktop.DBus.Method.NoReply" value="true"/>`,
				`</method>`,
			),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "reply-removed",
				Level:   report.Backwards,
				Line:    3,
				Message: "Node ‘com.example.Frobnicator.Frobnicate’ has been marked as not returning a reply.",
			}},
		},
		{
			name: "changes report in member order",
			old: wrap(
				`<method name="Frobnicate"/>`,
				`<property name="Powered" type="b" access="readwrite"/>`,
			),
			new: wrap(
				`<property name="Powered" type="b" access="read"/>`,
				`<signal name="Frobnicated"/>`,
			),
			want: []report.Diagnostic{{
				Domain:  report.DomainComparator,
				Code:    "method-removed",
				Level:   report.Backwards,
				Message: "Method ‘com.example.Frobnicator.Frobnicate’ has been removed.",
			}, {
				Domain:  report.DomainComparator,
				Code:    "property-access-changed-readwrite-read",
				Level:   report.Backwards,
				Line:    3,
				Message: "Property ‘com.example.Frobnicator.Powered’ has changed access from ‘readwrite’ to ‘read’.",
			}, {
				Domain:  report.DomainComparator,
				Code:    "signal-added",
				Level:   report.Forwards,
				Line:    4,
				Message: "Signal ‘com.example.Frobnicator.Frobnicated’ has been added.",
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, diff(t, tt.old, tt.new))
		})
	}
}

func TestComparePropertyAccess(t *testing.T) {
	t.Parallel()

	property := func(access string) string {
		return wrap(fmt.Sprintf(`<property name="Powered" type="b" access="%s"/>`, access))
	}

	tests := []struct {
		old, new string
		level    report.Level // 0 means no diagnostic
	}{
		{old: "read", new: "read"},
		{old: "read", new: "write", level: report.Backwards},
		{old: "read", new: "readwrite", level: report.Forwards},
		{old: "write", new: "read", level: report.Backwards},
		{old: "write", new: "write"},
		{old: "write", new: "readwrite", level: report.Forwards},
		{old: "readwrite", new: "read", level: report.Backwards},
		{old: "readwrite", new: "write", level: report.Backwards},
		{old: "readwrite", new: "readwrite"},
	}
	for _, tt := range tests {
		t.Run(tt.old+" to "+tt.new, func(t *testing.T) {
			t.Parallel()

			got := diff(t, property(tt.old), property(tt.new))
			if tt.level == 0 {
				assert.Empty(t, got)
				return
			}

			message := fmt.Sprintf("Property ‘com.example.Frobnicator.Powered’ has changed access from ‘%s’ to ‘%s’.", tt.old, tt.new)
			if tt.level == report.Forwards {
				message = strings.TrimSuffix(message, ".") + ", becoming less restrictive."
			}
			require.Len(t, got, 1)
			assert.Equal(t, report.Diagnostic{
				Domain:  report.DomainComparator,
				Code:    fmt.Sprintf("property-access-changed-%s-%s", tt.old, tt.new),
				Level:   tt.level,
				Line:    3,
				Message: message,
			}, got[0])
		})
	}
}

func TestCompareECS(t *testing.T) {
	t.Parallel()

	// property builds a document whose Powered property carries the given
	// EmitsChangedSignal value, or no annotation for "".
	property := func(ecs string) string {
		if ecs == "" {
			return wrap(`<property name="Powered" type="b" access="readwrite"/>`)
		}
		return wrap(
			`<property name="Powered" type="b" access="readwrite">`,
			fmt.Sprintf(`  <annotation name="org.freedesktop.DBus.Property.EmitsChangedSignal" value="%s"/>`, ecs),
			`</property>`,
		)
	}

	const (
		stoppedAll   = "Node ‘com.example.Frobnicator.Powered’ stopped emitting org.freedesktop.DBus.Properties.PropertiesChanged."
		startedAll   = "Node ‘com.example.Frobnicator.Powered’ started emitting org.freedesktop.DBus.Properties.PropertiesChanged."
		stoppedValue = "Node ‘com.example.Frobnicator.Powered’ stopped emitting its new value in org.freedesktop.DBus.Properties.PropertiesChanged."
		startedValue = "Node ‘com.example.Frobnicator.Powered’ started emitting its new value in org.freedesktop.DBus.Properties.PropertiesChanged."
	)

	tests := []struct {
		name     string
		old, new string
		code     string // "" means no diagnostic
		level    report.Level
		message  string
	}{
		{name: "true to invalidates", old: "true", new: "invalidates",
			code: "ecs-changed-true-invalidates", level: report.Backwards, message: stoppedValue},
		{name: "true to const", old: "true", new: "const",
			code: "ecs-changed-true-const", level: report.Forwards, message: stoppedAll},
		{name: "true to false", old: "true", new: "false",
			code: "ecs-changed-true-false", level: report.Forwards, message: stoppedAll},
		{name: "invalidates to true", old: "invalidates", new: "true",
			code: "ecs-changed-invalidates-true", level: report.Backwards, message: startedValue},
		{name: "invalidates to const", old: "invalidates", new: "const",
			code: "ecs-changed-invalidates-const", level: report.Forwards, message: stoppedAll},
		{name: "invalidates to false", old: "invalidates", new: "false",
			code: "ecs-changed-invalidates-false", level: report.Forwards, message: stoppedAll},
		{name: "const to true", old: "const", new: "true",
			code: "ecs-changed-const-true", level: report.Backwards, message: startedAll},
		{name: "const to invalidates", old: "const", new: "invalidates",
			code: "ecs-changed-const-invalidates", level: report.Backwards, message: startedAll},
		{name: "const to false", old: "const", new: "false",
			code: "ecs-changed-const-false", level: report.Backwards,
			message: "Node ‘com.example.Frobnicator.Powered’ stopped being a constant."},
		{name: "false to true", old: "false", new: "true",
			code: "ecs-changed-false-true", level: report.Backwards, message: startedAll},
		{name: "false to invalidates", old: "false", new: "invalidates",
			code: "ecs-changed-false-invalidates", level: report.Backwards, message: startedAll},
		{name: "false to const", old: "false", new: "const",
			code: "ecs-changed-false-const", level: report.Forwards,
			message: "Node ‘com.example.Frobnicator.Powered’ became a constant."},

		// An absent annotation defaults to true.
		{name: "absent to false", old: "", new: "false",
			code: "ecs-changed-true-false", level: report.Forwards, message: stoppedAll},
		{name: "const to absent", old: "const", new: "",
			code: "ecs-changed-const-true", level: report.Backwards, message: startedAll},
		{name: "true to absent", old: "true", new: ""},
		{name: "unchanged", old: "invalidates", new: "invalidates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := diff(t, property(tt.old), property(tt.new))
			if tt.code == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, report.Diagnostic{
				Domain:  report.DomainComparator,
				Code:    tt.code,
				Level:   tt.level,
				Line:    3,
				Message: tt.message,
			}, got[0])
		})
	}
}

// TestCompareECSInheritance exercises the single-hop resolution: a property
// without its own EmitsChangedSignal annotation takes the value from its
// interface before falling back to the default.
func TestCompareECSInheritance(t *testing.T) {
	t.Parallel()

	old := wrap(
		`<annotation name="org.freedesktop.DBus.Property.EmitsChangedSignal" value="const"/>`,
		`<property name="Powered" type="b" access="read"/>`,
	)
	// The interface annotation is unchanged, so only the property differs:
	// it now carries its own value instead of inheriting const.
	updated := wrap(
		`<annotation name="org.freedesktop.DBus.Property.EmitsChangedSignal" value="const"/>`,
		`<property name="Powered" type="b" access="read">`,
		`  <annotation name="org.freedesktop.DBus.Property.EmitsChangedSignal" value="true"/>`,
		`</property>`,
	)

	got := diff(t, old, updated)
	require.Len(t, got, 1)
	assert.Equal(t, report.Diagnostic{
		Domain:  report.DomainComparator,
		Code:    "ecs-changed-const-true",
		Level:   report.Backwards,
		Line:    4,
		Message: "Node ‘com.example.Frobnicator.Powered’ started emitting org.freedesktop.DBus.Properties.PropertiesChanged.",
	}, got[0])
}

func TestCompareSymmetry(t *testing.T) {
	t.Parallel()

	before := wrap(
		`<method name="Frobnicate"/>`,
		`<property name="Powered" type="b" access="read"/>`,
		`<signal name="Frobnicated"/>`,
	)
	after := wrap()

	forward := diff(t, before, after)
	assert.Equal(t, []string{"method-removed", "property-removed", "signal-removed"}, codes(forward))
	for _, d := range forward {
		assert.Equal(t, report.Backwards, d.Level, d.Code)
	}

	reverse := diff(t, after, before)
	assert.Equal(t, []string{"method-added", "property-added", "signal-added"}, codes(reverse))
	for _, d := range reverse {
		assert.Equal(t, report.Forwards, d.Level, d.Code)
	}
}

func TestCompareNilInterfaceSets(t *testing.T) {
	t.Parallel()

	var zero compare.InterfaceComparator
	assert.Empty(t, zero.Compare())

	added := &compare.InterfaceComparator{New: parse(t, wrap())}
	got := added.Compare()
	require.Len(t, got, 1)
	assert.Equal(t, "interface-added", got[0].Code)

	removed := &compare.InterfaceComparator{Old: parse(t, wrap())}
	got = removed.Compare()
	require.Len(t, got, 1)
	assert.Equal(t, "interface-removed", got[0].Code)
}

// TestCompareRecoveredPropertyType feeds the comparator a tree recovered
// from a flawed document, whose property carries a nil type.
func TestCompareRecoveredPropertyType(t *testing.T) {
	t.Parallel()

	var log report.Log
	root, err := parser.Parse("test.xml", strings.NewReader(
		wrap(`<property name="Powered" type="!" access="readwrite"/>`)), &log)
	require.ErrorIs(t, err, report.ErrInvalidSource)
	require.NotNil(t, root)

	c := &compare.InterfaceComparator{
		Old: root.Interfaces(),
		New: parse(t, wrap(`<property name="Powered" type="b" access="readwrite"/>`)),
	}
	got := c.Compare()
	require.Len(t, got, 1)
	assert.Equal(t, "property-type-changed", got[0].Code)
	assert.Equal(t, "Property ‘com.example.Frobnicator.Powered’ has changed type from ‘’ to ‘b’.", got[0].Message)
}

func TestCompareNewPath(t *testing.T) {
	t.Parallel()

	c := &compare.InterfaceComparator{
		Old:     parse(t, wrap(`<method name="Frobnicate"/>`)),
		New:     parse(t, wrap()),
		NewPath: "new.xml",
	}
	got := c.Compare()
	require.Len(t, got, 1)
	assert.Equal(t, "new.xml", got[0].Path)
}

func TestCompareFiltering(t *testing.T) {
	t.Parallel()

	// One diagnostic per severity: an informational rename, a
	// backwards-incompatible access change, and a forwards-incompatible
	// signal addition.
	old := wrap(
		`<method name="Frobnicate">`,
		`  <arg name="flags" type="u" direction="in"/>`,
		`</method>`,
		`<property name="Powered" type="b" access="readwrite"/>`,
	)
	updated := wrap(
		`<method name="Frobnicate">`,
		`  <arg name="options" type="u" direction="in"/>`,
		`</method>`,
		`<property name="Powered" type="b" access="read"/>`,
		`<signal name="Frobnicated"/>`,
	)

	tests := []struct {
		name     string
		enabled  []string
		disabled []string
		want     []string
	}{
		{
			name: "default enables everything",
			want: []string{"argument-name-changed", "property-access-changed-readwrite-read", "signal-added"},
		},
		{
			name:    "empty enables nothing",
			enabled: []string{},
			want:    nil,
		},
		{
			name:    "category",
			enabled: []string{"info"},
			want:    []string{"argument-name-changed"},
		},
		{
			name:    "category plus code",
			enabled: []string{"info", "signal-added"},
			want:    []string{"argument-name-changed", "signal-added"},
		},
		{
			name:     "disabled category",
			disabled: []string{"backwards-compatibility"},
			want:     []string{"argument-name-changed", "signal-added"},
		},
		{
			name:     "disabled code",
			disabled: []string{"signal-added"},
			want:     []string{"argument-name-changed", "property-access-changed-readwrite-read"},
		},
		{
			name:     "disabled code wins over enabled category",
			enabled:  []string{"info", "backwards-compatibility", "forwards-compatibility"},
			disabled: []string{"property-access-changed-readwrite-read"},
			want:     []string{"argument-name-changed", "signal-added"},
		},
		{
			name:     "disabled code wins over enabled code",
			enabled:  []string{"signal-added"},
			disabled: []string{"signal-added"},
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &compare.InterfaceComparator{
				Old:              parse(t, old),
				New:              parse(t, updated),
				EnabledWarnings:  tt.enabled,
				DisabledWarnings: tt.disabled,
			}
			assert.Equal(t, tt.want, codes(c.Compare()))
		})
	}
}

// TestCompareOutputRefilters checks that Output applies the current warning
// configuration to the unfiltered results of the last Compare.
func TestCompareOutputRefilters(t *testing.T) {
	t.Parallel()

	c := &compare.InterfaceComparator{
		Old: parse(t, wrap(`<method name="Frobnicate"/>`)),
		New: parse(t, wrap(`<signal name="Frobnicated"/>`)),
	}
	assert.Len(t, c.Compare(), 2)

	c.DisabledWarnings = []string{"forwards-compatibility"}
	assert.Equal(t, []string{"method-removed"}, codes(c.Output()))
}

func TestOutputCodes(t *testing.T) {
	t.Parallel()

	set := compare.OutputCodes()
	assert.Equal(t, 38, set.Len())
	assert.True(t, set.Has("interface-added"))
	assert.True(t, set.Has("ecs-changed-const-false"))
	assert.True(t, set.Has("property-access-changed-readwrite-read"))
	assert.True(t, set.Has("argument-direction-changed-out-in"))
	assert.False(t, set.Has("info"))
}
