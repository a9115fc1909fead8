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

package deviate

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dbusdev/deviate/ast"
	"github.com/dbusdev/deviate/compare"
	"github.com/dbusdev/deviate/parser"
	"github.com/dbusdev/deviate/report"
)

// Input locates one introspection document for a [Differ].
//
// Exactly one of the three sources should be set. If Interfaces is set, it is
// used as-is and nothing is read or parsed. Otherwise, if Source is set, the
// document is read from it. Otherwise the file named by Path is opened and
// read.
type Input struct {
	// Path is the file holding the document. It also names the document in
	// diagnostics when DisplayName is unset, even if the document itself
	// comes from Source.
	Path string

	// DisplayName names the document in diagnostics instead of Path.
	// Distribution checks set it to compare a shipped file against a
	// reference copy without the copy's path leaking into output.
	DisplayName string

	// Source provides the document's XML directly.
	Source io.Reader

	// Interfaces provides the already-parsed interfaces directly.
	Interfaces *ast.OrderedMap[*ast.Interface]
}

// name returns the name the input goes by in diagnostics.
func (in Input) name() string {
	if in.DisplayName != "" {
		return in.DisplayName
	}
	return in.Path
}

// errPath names the input in a *ParseError: the real path when there is one,
// since parse failures are fixed by editing the file.
func (in Input) errPath() string {
	if in.Path != "" {
		return in.Path
	}
	return in.DisplayName
}

// resolve produces the input's interfaces, parsing when needed. Parse
// problems of any kind surface as a *ParseError.
func (in Input) resolve() (*ast.OrderedMap[*ast.Interface], error) {
	if in.Interfaces != nil {
		return in.Interfaces, nil
	}

	r := in.Source
	if r == nil {
		f, err := os.Open(in.Path)
		if err != nil {
			return nil, &ParseError{Path: in.Path, Err: err}
		}
		defer f.Close()
		r = f
	}

	var log report.Log
	root, err := parser.Parse(in.name(), r, &log)
	if err != nil {
		return nil, &ParseError{
			Path:        in.errPath(),
			Diagnostics: log.Diagnostics(),
			Err:         err,
		}
	}
	return root.Interfaces(), nil
}

// ParseError reports that one side of a diff could not be parsed.
type ParseError struct {
	// Path names the document that failed: its file path when known,
	// otherwise its display name.
	Path string

	// Diagnostics are the problems found in the document, in source order.
	// Empty when the failure happened before parsing began, such as a
	// missing file or malformed XML.
	Diagnostics []report.Diagnostic

	// Err is the underlying error: [report.ErrInvalidSource] when
	// Diagnostics is non-empty, an I/O or XML error otherwise.
	Err error
}

// Error implements error.
func (e *ParseError) Error() string {
	// I/O and XML errors already name the file; only the diagnostics
	// sentinel needs the path added.
	if len(e.Diagnostics) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("parsing ‘%s’: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Differ diffs two D-Bus introspection documents, handling the full pipeline:
// reading both inputs, parsing them in parallel, and comparing the resulting
// interface trees.
//
// The zero value diffs with every warning category enabled. Its fields
// correspond to the warning configuration of [compare.InterfaceComparator].
type Differ struct {
	// EnabledWarnings lists the severity categories and diagnostic codes to
	// emit. Nil enables all categories; an empty non-nil slice enables
	// nothing.
	EnabledWarnings []string

	// DisabledWarnings lists severity categories and diagnostic codes to
	// suppress. Suppressing a code wins over enabling its category.
	DisabledWarnings []string
}

// Diff parses both inputs and returns the differences between them, classified
// by severity and filtered by the warning configuration.
//
// Both documents must parse cleanly: any diagnostic on either side fails the
// diff with a *ParseError carrying that side's diagnostics, the old side
// reported first when both fail. A failed parse never produces a partial
// diff.
func (d *Differ) Diff(oldInput, newInput Input) ([]report.Diagnostic, error) {
	inputs := [2]Input{oldInput, newInput}

	var (
		group      errgroup.Group
		interfaces [2]*ast.OrderedMap[*ast.Interface]
		errs       [2]error
	)
	for i := range inputs {
		group.Go(func() error {
			interfaces[i], errs[i] = inputs[i].resolve()
			return errs[i]
		})
	}
	if group.Wait() != nil {
		// Fail in argument order, not completion order.
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	comparator := &compare.InterfaceComparator{
		Old:              interfaces[0],
		New:              interfaces[1],
		NewPath:          newInput.name(),
		EnabledWarnings:  d.EnabledWarnings,
		DisabledWarnings: d.DisabledWarnings,
	}
	return comparator.Compare(), nil
}

// Diff compares two introspection documents with every warning category
// enabled, as if by the zero [Differ].
func Diff(oldInput, newInput Input) ([]report.Diagnostic, error) {
	return (&Differ{}).Diff(oldInput, newInput)
}
