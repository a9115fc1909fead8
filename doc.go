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

// Package deviate provides the entry point for diffing D-Bus introspection
// documents. "Diffing" in this case means parsing two versions of an API
// description and reporting every observable difference between them,
// classified by how it affects compatibility with existing clients.
//
// The various sub-packages represent the stages of that pipeline and contain
// models for the intermediate results. Those stages follow:
//  1. Parse introspection XML into an interface tree.
//     Also see: parser.Parse
//  2. Parse the D-Bus type signatures the tree carries.
//     Also see: types.Parse
//  3. Compare the old and new trees member by member.
//     Also see: compare.InterfaceComparator
//  4. Render the resulting diagnostics for people.
//     Also see: report.Renderer
//
// This package provides an easy-to-use interface that runs all of the stages,
// parsing the two sides in parallel and failing with the diagnostics of
// whichever side does not parse.
//
// # Inputs
//
// An Input is how the differ locates one side of the comparison. It can name
// a file to read, supply the document from an io.Reader, or supply interfaces
// that were already parsed, in which case the parsing stage is skipped for
// that side.
//
// # Differ
//
// A Differ accepts two inputs and produces the list of differences. Its
// fields control which severity categories and diagnostic codes are reported
// but the zero value is ready to use and reports everything:
//
//	var differ deviate.Differ
//	diagnostics, err := differ.Diff(
//	    deviate.Input{Path: "old/com.example.Frobnicator.xml"},
//	    deviate.Input{Path: "new/com.example.Frobnicator.xml"},
//	)
//
// A non-nil error means one side could not be parsed and no comparison took
// place. A nil error with a non-empty diagnostics slice means the documents
// differ; whether that fails a build is the caller's policy. Backwards
// incompatibilities break existing clients at runtime, so continuous
// integration normally treats those as fatal and the rest as advisory.
package deviate
