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

// Package parser parses D-Bus introspection XML into the tree defined by
// package ast.
//
// The parser is pragmatic rather than strict: it ignores common extensions
// found in introspection files, such as embedded documentation elements, but
// reports unrecognised elements. How much of a flawed document it processes
// is decided by the [report.Reporter] policy; see [Parse].
package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dbusdev/deviate/ast"
	"github.com/dbusdev/deviate/internal/xmltree"
	"github.com/dbusdev/deviate/report"
)

// Namespaces with special handling: documents wrapped in a Telepathy
// tp:spec element are unwrapped, and documentation elements from either
// namespace become member comments.
const (
	tpNamespace  = "http://telepathy.freedesktop.org/wiki/DbusSpec#extensions-v0"
	fdoNamespace = "http://www.freedesktop.org/dbus/1.0/doc.dtd"
)

const (
	tpSpecTag      = "{" + tpNamespace + "}spec"
	tpDocstringTag = "{" + tpNamespace + "}docstring"
	fdoDocTag      = "{" + fdoNamespace + "}doc"
)

// Parse reads introspection XML from r and builds the tree rooted at its
// node element. path names the source in diagnostics; it is not opened.
//
// Malformed XML and documents without a node element fail with an ordinary
// error. Everything else the parser objects to is a [report.Diagnostic]
// handed to rep: a nil rep fails fast, returning the first diagnostic as the
// error, while a collecting reporter such as [*report.Log] recovers and
// accumulates every diagnostic found in one pass. In the recovering case the
// partially repaired tree is returned alongside [report.ErrInvalidSource],
// and the caller decides whether the tree is still fit for its purpose.
func Parse(path string, r io.Reader, rep report.Reporter) (*ast.Node, error) {
	doc, err := xmltree.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p := &parser{
		path:    path,
		handler: report.NewHandler(report.Relabel(report.DomainParser, path, rep)),
	}

	rootElem, err := p.root(doc)
	if err != nil {
		return nil, err
	}
	if rootElem == nil {
		return nil, fmt.Errorf("%s: no node element found", path)
	}

	name, _ := rootElem.Attr("name")
	root := ast.NewNode(name, rootElem.Line)
	if err := p.children(rootElem, root); err != nil {
		return nil, err
	}
	if name != "" && !ast.IsValidAbsoluteObjectPath(name) {
		if err := p.errorf(rootElem.Line, ast.CodeNodeName,
			"Root node name is not an absolute object path ‘%s’.", name); err != nil {
			return nil, err
		}
	}
	return root, p.handler.Error()
}

// OutputCodes returns every diagnostic code parsing can produce.
func OutputCodes() *report.CodeSet {
	return ast.OutputCodes()
}

// InterfaceParser parses one introspection document with the recovering
// policy, collecting diagnostics for inspection afterwards. It exists for
// parse-then-report callers; [Parse] is the configurable entry point.
type InterfaceParser struct {
	path string
	data []byte
	log  report.Log
}

// New returns a parser for the introspection file at path. The file is
// opened and read on each Parse call.
func New(path string) *InterfaceParser {
	return &InterfaceParser{path: path}
}

// NewFromString returns a parser for an in-memory document. path names the
// source in diagnostics.
func NewFromString(document, path string) *InterfaceParser {
	return &InterfaceParser{path: path, data: []byte(document)}
}

// Parse builds the tree rooted at the document's node element, collecting
// diagnostics as it goes. The returned error follows the [Parse] contract:
// nil for a clean document, [report.ErrInvalidSource] alongside a usable
// tree when diagnostics were reported, or an ordinary error when the
// document could not be processed at all.
func (p *InterfaceParser) Parse() (*ast.Node, error) {
	p.log.Clear()

	var r io.Reader
	if p.data != nil {
		r = bytes.NewReader(p.data)
	} else {
		f, err := os.Open(p.path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return Parse(p.path, r, &p.log)
}

// Interfaces parses the document and returns the root node's interfaces
// keyed by name, in source order. The error follows the Parse contract.
func (p *InterfaceParser) Interfaces() (*ast.OrderedMap[*ast.Interface], error) {
	root, err := p.Parse()
	if root == nil {
		return nil, err
	}
	return root.Interfaces(), err
}

// Output returns the diagnostics collected by the most recent Parse.
func (p *InterfaceParser) Output() []report.Diagnostic {
	return p.log.Diagnostics()
}

// parser carries the state of one Parse call.
type parser struct {
	path    string
	handler *report.Handler
}

// root locates the document's node element: the root itself, or the first
// node child when the root is a tp:spec wrapper or an unknown element. The
// latter is reported as unknown-node.
func (p *parser) root(doc *xmltree.Document) (*xmltree.Element, error) {
	root := doc.Root
	if root.Tag == tpSpecTag {
		root = firstNodeChild(root)
	}
	if root != nil && root.Tag != "node" {
		if err := p.errorf(root.Line, ast.CodeUnknownNode,
			"Unknown root node ‘%s’.", root.Tag); err != nil {
			return nil, err
		}
		root = firstNodeChild(root)
	}
	return root, nil
}

func firstNodeChild(elem *xmltree.Element) *xmltree.Element {
	for _, item := range elem.Items {
		if el, ok := item.(*xmltree.Element); ok && el.Tag == "node" {
			return el
		}
	}
	return nil
}

func (p *parser) errorf(line int, code, format string, args ...any) error {
	return p.handler.HandleError(report.Diagnostic{
		Code:    code,
		Level:   report.Error,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}
