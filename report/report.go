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

// Package report defines the diagnostic model shared by every layer of the
// module: severity levels, machine-readable codes, the append-only Log
// collector, and the Handler that implements the fail-fast and recover
// error-handling policies.
package report

import "fmt"

// Level classifies a diagnostic's severity.
type Level int8

const (
	// Error indicates malformed input: a document or type signature that
	// could not be fully understood.
	Error Level = 1 + iota
	// Backwards indicates an interface change that may break code written
	// against the old version, such as a removed method.
	Backwards
	// Forwards indicates an interface change that may break code written
	// against the new version when it runs against the old one, such as an
	// added method.
	Forwards
	// Info indicates a purely informational change, such as a renamed
	// argument.
	Info
)

// String returns the category name used in warning filters and rendered
// output.
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Backwards:
		return "backwards-compatibility"
	case Forwards:
		return "forwards-compatibility"
	case Info:
		return "info"
	default:
		return fmt.Sprintf("Level(%d)", int8(l))
	}
}

// Categories returns the warning categories comparison diagnostics are
// classified into, in their documented order.
func Categories() []Level {
	return []Level{Info, Backwards, Forwards}
}

// ParseLevel resolves a warning category name to its Level.
func ParseLevel(name string) (Level, bool) {
	switch name {
	case "error":
		return Error, true
	case "backwards-compatibility":
		return Backwards, true
	case "forwards-compatibility":
		return Forwards, true
	case "info":
		return Info, true
	}
	return 0, false
}

// Diagnostic domains, identifying the subsystem a diagnostic came from.
const (
	// DomainTypes is used by the type-signature parser.
	DomainTypes = "types"
	// DomainAST is used when an interface tree is built directly, without a
	// source document.
	DomainAST = "ast"
	// DomainParser is used when an interface tree is built from an
	// introspection document.
	DomainParser = "parser"
	// DomainComparator is used by the interface comparator.
	DomainComparator = "comparator"
)

// Diagnostic is a single problem or finding produced while parsing a
// document or comparing two interface trees.
//
// A Diagnostic is also an error; parse entry points configured to fail fast
// return the first Diagnostic directly.
type Diagnostic struct {
	// Domain names the subsystem that produced the diagnostic: one of the
	// Domain constants above.
	Domain string
	// Code is the machine-readable tag for the diagnostic: lowercase words
	// separated by dashes, e.g. "duplicate-method". Codes are stable across
	// releases; messages are not.
	Code string
	// Level is the diagnostic's severity. Parse diagnostics are always
	// Error; comparison diagnostics never are.
	Level Level
	// Path is the file the diagnostic refers to, or empty when the input did
	// not come from a file.
	Path string
	// Line is the 1-based source line, or 0 when unknown.
	Line int
	// Message is the human-readable description.
	Message string
}

// Error implements error.
func (d Diagnostic) Error() string {
	switch {
	case d.Path != "" && d.Line > 0:
		return fmt.Sprintf("%s:%d: %s", d.Path, d.Line, d.Message)
	case d.Path != "":
		return fmt.Sprintf("%s: %s", d.Path, d.Message)
	default:
		return d.Message
	}
}

// Log is an append-only collector of diagnostics. The zero value is empty
// and ready to use.
//
// Log implements Reporter by recording every diagnostic and asking for the
// parse to continue; handing a Log to NewHandler selects the recover policy,
// under which a single pass surfaces every problem in the input.
type Log struct {
	diagnostics []Diagnostic
}

// Error implements Reporter.
func (l *Log) Error(d Diagnostic) error {
	l.diagnostics = append(l.diagnostics, d)
	return nil
}

// Diagnostics returns the recorded diagnostics in the order they were
// reported.
func (l *Log) Diagnostics() []Diagnostic {
	return l.diagnostics
}

// Empty reports whether no diagnostics have been recorded.
func (l *Log) Empty() bool {
	return len(l.diagnostics) == 0
}

// Clear discards every recorded diagnostic.
func (l *Log) Clear() {
	l.diagnostics = l.diagnostics[:0]
}
