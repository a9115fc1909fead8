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

// Package compare diffs two D-Bus interface descriptions and classifies
// every difference by the compatibility it affects.
//
// Differences carry one of three severity levels, depending on whether they
// affect
//
//   - nothing, and are purely decorative, such as renaming a method argument;
//   - forwards compatibility, where code written against the new interfaces
//     may not work against the old ones, such as using a newly added method;
//   - backwards compatibility, where code written against the old interfaces
//     may not work against the new ones, such as a property changing type.
package compare

import (
	"fmt"
	"slices"

	"github.com/dbusdev/deviate/ast"
	"github.com/dbusdev/deviate/report"
)

// InterfaceComparator compares two sets of named interfaces, usually parsed
// from an old and a new revision of the same introspection document.
//
// Comparison never fails: both sets are expected to come from successful
// parses, and every difference between them is reported as a
// [report.Diagnostic] rather than an error.
type InterfaceComparator struct {
	// Old and New are the interface sets to compare, keyed by name.
	Old, New *ast.OrderedMap[*ast.Interface]

	// NewPath names the new file in emitted diagnostics. May be empty.
	NewPath string

	// EnabledWarnings lists the severity categories and diagnostic codes
	// to emit. Nil enables all categories; an empty non-nil slice
	// enables nothing.
	EnabledWarnings []string

	// DisabledWarnings lists severity categories and diagnostic codes to
	// suppress. Suppressing a code wins over enabling its category.
	DisabledWarnings []string

	output []report.Diagnostic
}

// Compare diffs the two interface sets and returns the resulting
// diagnostics, filtered by the warning configuration. The unfiltered results
// remain available through [InterfaceComparator.Output] until the next call.
func (c *InterfaceComparator) Compare() []report.Diagnostic {
	c.output = c.output[:0]

	old, latest := c.Old, c.New
	if old == nil {
		old = &ast.OrderedMap[*ast.Interface]{}
	}
	if latest == nil {
		latest = &ast.OrderedMap[*ast.Interface]{}
	}

	for name, iface := range old.All() {
		if newIface, ok := latest.Get(name); ok {
			c.compareInterfaces(iface, newIface)
		} else {
			c.emit(report.Backwards, "interface-removed", 0,
				"Interface ‘%s’ has been removed.", name)
		}
	}
	for name, iface := range latest.All() {
		if !old.Has(name) {
			c.emit(report.Forwards, "interface-added", iface.Line(),
				"Interface ‘%s’ has been added.", name)
		}
	}
	return c.Output()
}

// Output returns the diagnostics produced by the most recent Compare,
// filtered by the warning configuration.
func (c *InterfaceComparator) Output() []report.Diagnostic {
	var out []report.Diagnostic
	for _, d := range c.output {
		if c.warningEnabled(d) {
			out = append(out, d)
		}
	}
	return out
}

// OutputCodes returns every diagnostic code comparison can produce.
func OutputCodes() *report.CodeSet {
	return report.NewCodeSet(
		"interface-added",
		"interface-removed",
		"deprecated",
		"undeprecated",
		"c-symbol-changed",
		"reply-added",
		"reply-removed",
		"ecs-changed-true-invalidates",
		"ecs-changed-true-false",
		"ecs-changed-true-const",
		"ecs-changed-invalidates-true",
		"ecs-changed-invalidates-false",
		"ecs-changed-invalidates-const",
		"ecs-changed-false-invalidates",
		"ecs-changed-false-true",
		"ecs-changed-false-const",
		"ecs-changed-const-invalidates",
		"ecs-changed-const-true",
		"ecs-changed-const-false",
		"method-added",
		"method-removed",
		"property-added",
		"property-removed",
		"signal-added",
		"signal-removed",
		"argument-added",
		"argument-removed",
		"property-type-changed",
		"property-access-changed-read-readwrite",
		"property-access-changed-read-write",
		"property-access-changed-write-read",
		"property-access-changed-write-readwrite",
		"property-access-changed-readwrite-read",
		"property-access-changed-readwrite-write",
		"argument-name-changed",
		"argument-type-changed",
		"argument-direction-changed-in-out",
		"argument-direction-changed-out-in",
	)
}

// warningEnabled decides whether a diagnostic survives the warning
// configuration: its category must be enabled with neither the category nor
// the code disabled, or its code must be enabled explicitly and not
// disabled.
func (c *InterfaceComparator) warningEnabled(d report.Diagnostic) bool {
	level := d.Level.String()
	levelEnabled := c.EnabledWarnings == nil || slices.Contains(c.EnabledWarnings, level)
	codeDisabled := slices.Contains(c.DisabledWarnings, d.Code)

	if levelEnabled && !slices.Contains(c.DisabledWarnings, level) && !codeDisabled {
		return true
	}
	return slices.Contains(c.EnabledWarnings, d.Code) && !codeDisabled
}

func (c *InterfaceComparator) emit(level report.Level, code string, line int, format string, args ...any) {
	c.output = append(c.output, report.Diagnostic{
		Domain:  report.DomainComparator,
		Code:    code,
		Level:   level,
		Path:    c.NewPath,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *InterfaceComparator) compareInterfaces(oldIface, newIface *ast.Interface) {
	for name, method := range oldIface.Methods().All() {
		if newMethod, ok := newIface.Methods().Get(name); ok {
			c.compareMethods(method, newMethod)
		} else {
			c.emit(report.Backwards, "method-removed", 0,
				"Method ‘%s’ has been removed.", method.PrettyName())
		}
	}
	for name, method := range newIface.Methods().All() {
		if !oldIface.Methods().Has(name) {
			c.emit(report.Forwards, "method-added", method.Line(),
				"Method ‘%s’ has been added.", method.PrettyName())
		}
	}

	for name, prop := range oldIface.Properties().All() {
		if newProp, ok := newIface.Properties().Get(name); ok {
			c.compareProperties(prop, newProp)
		} else {
			c.emit(report.Backwards, "property-removed", 0,
				"Property ‘%s’ has been removed.", prop.PrettyName())
		}
	}
	for name, prop := range newIface.Properties().All() {
		if !oldIface.Properties().Has(name) {
			c.emit(report.Forwards, "property-added", prop.Line(),
				"Property ‘%s’ has been added.", prop.PrettyName())
		}
	}

	for name, signal := range oldIface.Signals().All() {
		if newSignal, ok := newIface.Signals().Get(name); ok {
			c.compareSignals(signal, newSignal)
		} else {
			c.emit(report.Backwards, "signal-removed", 0,
				"Signal ‘%s’ has been removed.", signal.PrettyName())
		}
	}
	for name, signal := range newIface.Signals().All() {
		if !oldIface.Signals().Has(name) {
			c.emit(report.Forwards, "signal-added", signal.Line(),
				"Signal ‘%s’ has been added.", signal.PrettyName())
		}
	}

	c.compareAnnotations(oldIface, newIface)
}

func (c *InterfaceComparator) compareMethods(oldMethod, newMethod *ast.Method) {
	c.compareArgumentLists(oldMethod.Arguments(), newMethod.Arguments())
	c.compareAnnotations(oldMethod, newMethod)
}

func (c *InterfaceComparator) compareSignals(oldSignal, newSignal *ast.Signal) {
	c.compareArgumentLists(oldSignal.Arguments(), newSignal.Arguments())
	c.compareAnnotations(oldSignal, newSignal)
}

// compareArgumentLists matches arguments by position. Adding an argument is
// backwards-incompatible just like removing one: existing callers do not
// pass it.
func (c *InterfaceComparator) compareArgumentLists(oldArgs, newArgs []*ast.Argument) {
	for i := range max(len(oldArgs), len(newArgs)) {
		switch {
		case i >= len(oldArgs):
			c.emit(report.Backwards, "argument-added", newArgs[i].Line(),
				"Argument %s has been added.", newArgs[i].PrettyName())
		case i >= len(newArgs):
			c.emit(report.Backwards, "argument-removed", 0,
				"Argument %s has been removed.", oldArgs[i].PrettyName())
		default:
			c.compareArguments(oldArgs[i], newArgs[i])
		}
	}
}

func (c *InterfaceComparator) compareProperties(oldProp, newProp *ast.Property) {
	if !oldProp.Type.Equal(newProp.Type) {
		c.emit(report.Backwards, "property-type-changed", newProp.Line(),
			"Property ‘%s’ has changed type from ‘%s’ to ‘%s’.",
			oldProp.PrettyName(), oldProp.Type, newProp.Type)
	}

	code := fmt.Sprintf("property-access-changed-%s-%s", oldProp.Access, newProp.Access)
	switch {
	case (oldProp.Access == ast.AccessRead || oldProp.Access == ast.AccessWrite) &&
		newProp.Access == ast.AccessReadWrite:
		c.emit(report.Forwards, code, newProp.Line(),
			"Property ‘%s’ has changed access from ‘%s’ to ‘%s’, becoming less restrictive.",
			oldProp.PrettyName(), oldProp.Access, newProp.Access)
	case oldProp.Access != newProp.Access:
		c.emit(report.Backwards, code, newProp.Line(),
			"Property ‘%s’ has changed access from ‘%s’ to ‘%s’.",
			oldProp.PrettyName(), oldProp.Access, newProp.Access)
	}

	c.compareAnnotations(oldProp, newProp)
}

func (c *InterfaceComparator) compareArguments(oldArg, newArg *ast.Argument) {
	if oldArg.Name() != newArg.Name() {
		c.emit(report.Info, "argument-name-changed", newArg.Line(),
			"Argument %s has changed name from ‘%s’ to ‘%s’.",
			oldArg.PrettyName(), oldArg.Name(), newArg.Name())
	}

	if !oldArg.Type.Equal(newArg.Type) {
		c.emit(report.Backwards, "argument-type-changed", newArg.Line(),
			"Argument %s has changed type from ‘%s’ to ‘%s’.",
			oldArg.PrettyName(), oldArg.Type, newArg.Type)
	}

	if oldArg.Direction != newArg.Direction {
		code := fmt.Sprintf("argument-direction-changed-%s-%s", oldArg.Direction, newArg.Direction)
		c.emit(report.Backwards, code, newArg.Line(),
			"Argument %s has changed direction from ‘%s’ to ‘%s’.",
			oldArg.PrettyName(), oldArg.Direction, newArg.Direction)
	}

	c.compareAnnotations(oldArg, newArg)
}

// compareAnnotations diffs the well-known annotations of any pair of
// members. Other annotations have no agreed semantics and are ignored.
func (c *InterfaceComparator) compareAnnotations(oldMember, newMember ast.Member) {
	line := newMember.Line()

	oldDeprecated := boolAnnotation(oldMember, ast.AnnotationDeprecated)
	newDeprecated := boolAnnotation(newMember, ast.AnnotationDeprecated)
	switch {
	case oldDeprecated && !newDeprecated:
		c.emit(report.Info, "undeprecated", line,
			"Node ‘%s’ has been un-deprecated.", oldMember.PrettyName())
	case !oldDeprecated && newDeprecated:
		c.emit(report.Info, "deprecated", line,
			"Node ‘%s’ has been deprecated.", oldMember.PrettyName())
	}

	oldSymbol := stringAnnotation(oldMember, ast.AnnotationCSymbol, "")
	newSymbol := stringAnnotation(newMember, ast.AnnotationCSymbol, "")
	if oldSymbol != newSymbol {
		c.emit(report.Info, "c-symbol-changed", line,
			"Node ‘%s’ has changed its C symbol from ‘%s’ to ‘%s’.",
			oldMember.PrettyName(), oldSymbol, newSymbol)
	}

	oldNoReply := boolAnnotation(oldMember, ast.AnnotationNoReply)
	newNoReply := boolAnnotation(newMember, ast.AnnotationNoReply)
	switch {
	case oldNoReply && !newNoReply:
		c.emit(report.Backwards, "reply-added", line,
			"Node ‘%s’ has been marked as returning a reply.", oldMember.PrettyName())
	case !oldNoReply && newNoReply:
		c.emit(report.Backwards, "reply-removed", line,
			"Node ‘%s’ has been marked as not returning a reply.", oldMember.PrettyName())
	}

	c.compareECS(oldMember, newMember)
}

// compareECS classifies transitions of the EmitsChangedSignal annotation.
//
//	                                New
//	                  | true | invalidates | const | false
//	    | true        |      | B2          | F3    | F3
//	Old | invalidates | B2   |             | F3    | F3
//	    | const       | B1   | B1          |       | B4
//	    | false       | B1   | B1          | F4    |
//
//	B = backwards-incompatible; F = forwards-incompatible
//	1 = started notifying
//	2 = property switched lists in PropertiesChanged
//	3 = stopped notifying
//	4 = const semantics changed
func (c *InterfaceComparator) compareECS(oldMember, newMember ast.Member) {
	oldECS := ecsAnnotation(oldMember)
	newECS := ecsAnnotation(newMember)
	code := fmt.Sprintf("ecs-changed-%s-%s", oldECS, newECS)
	line := newMember.Line()

	emitting := func(v string) bool { return v == "true" || v == "invalidates" }
	silent := func(v string) bool { return v == "false" || v == "const" }

	switch {
	case emitting(oldECS) && silent(newECS):
		c.emit(report.Forwards, code, line,
			"Node ‘%s’ stopped emitting org.freedesktop.DBus.Properties.PropertiesChanged.",
			oldMember.PrettyName())
	case silent(oldECS) && emitting(newECS):
		c.emit(report.Backwards, code, line,
			"Node ‘%s’ started emitting org.freedesktop.DBus.Properties.PropertiesChanged.",
			oldMember.PrettyName())
	case oldECS == "true" && newECS == "invalidates":
		c.emit(report.Backwards, code, line,
			"Node ‘%s’ stopped emitting its new value in org.freedesktop.DBus.Properties.PropertiesChanged.",
			oldMember.PrettyName())
	case oldECS == "invalidates" && newECS == "true":
		c.emit(report.Backwards, code, line,
			"Node ‘%s’ started emitting its new value in org.freedesktop.DBus.Properties.PropertiesChanged.",
			oldMember.PrettyName())
	case oldECS == "const" && newECS == "false":
		c.emit(report.Backwards, code, line,
			"Node ‘%s’ stopped being a constant.", oldMember.PrettyName())
	case oldECS == "false" && newECS == "const":
		c.emit(report.Forwards, code, line,
			"Node ‘%s’ became a constant.", oldMember.PrettyName())
	}
}

func stringAnnotation(m ast.Member, name, def string) string {
	if a, ok := m.Annotations().Get(name); ok {
		return a.Value
	}
	return def
}

func boolAnnotation(m ast.Member, name string) bool {
	if a, ok := m.Annotations().Get(name); ok {
		return a.Value == "true"
	}
	return false
}

// ecsAnnotation resolves the EmitsChangedSignal value for a member: its own
// annotation if present, then for properties the owning interface's
// annotation, and finally the specified default of "true". The resolution is
// a single hop; interfaces never inherit from anywhere.
func ecsAnnotation(m ast.Member) string {
	if a, ok := m.Annotations().Get(ast.AnnotationECS); ok {
		return a.Value
	}
	if p, ok := m.(*ast.Property); ok {
		if iface := p.Interface(); iface != nil {
			if a, ok := iface.Annotations().Get(ast.AnnotationECS); ok {
				return a.Value
			}
		}
	}
	return "true"
}
