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

package parser

import (
	"strings"

	"github.com/dbusdev/deviate/ast"
	"github.com/dbusdev/deviate/internal/xmltree"
	"github.com/dbusdev/deviate/report"
)

// argAdder is satisfied by the members that carry argument lists: methods
// and signals.
type argAdder interface {
	ast.Member
	AddArgument(*ast.Argument)
}

// annotationAdder is satisfied by every member.
type annotationAdder interface {
	ast.Member
	AddAnnotation(*ast.Annotation, *report.Handler) error
}

// children processes the content of elem, attaching recognised child
// elements to owner. An XML comment immediately preceding a child becomes
// that child's documentation; documentation elements in the tp or doc
// namespaces document owner itself and leave any pending comment in place;
// other namespaced elements are skipped and discard the pending comment.
func (p *parser) children(elem *xmltree.Element, owner ast.Member) error {
	var comment *xmltree.Comment
	for _, item := range elem.Items {
		switch it := item.(type) {
		case *xmltree.Comment:
			comment = it
		case *xmltree.Element:
			switch {
			case it.Tag == tpDocstringTag || it.Tag == fdoDocTag:
				owner.SetComment(it.Text, it.Line)
			case strings.HasPrefix(it.Tag, "{"):
				comment = nil
			default:
				if err := p.child(owner, it, comment); err != nil {
					return err
				}
				comment = nil
			}
		}
	}
	return nil
}

// child builds and attaches one child element, dispatching on what owner
// accepts. Elements owner has no place for are reported as unknown-node.
func (p *parser) child(owner ast.Member, elem *xmltree.Element, comment *xmltree.Comment) error {
	switch owner := owner.(type) {
	case *ast.Node:
		switch elem.Tag {
		case "interface":
			return p.interfaceElem(owner, elem, comment)
		case "node":
			return p.nodeElem(owner, elem, comment)
		case "annotation":
			return p.annotationElem(owner, elem, comment)
		}
	case *ast.Interface:
		switch elem.Tag {
		case "method":
			return p.methodElem(owner, elem, comment)
		case "signal":
			return p.signalElem(owner, elem, comment)
		case "property":
			return p.propertyElem(owner, elem, comment)
		case "annotation":
			return p.annotationElem(owner, elem, comment)
		}
	case *ast.Method:
		switch elem.Tag {
		case "arg":
			return p.argElem(owner, elem, comment)
		case "annotation":
			return p.annotationElem(owner, elem, comment)
		}
	case *ast.Signal:
		switch elem.Tag {
		case "arg":
			return p.argElem(owner, elem, comment)
		case "annotation":
			return p.annotationElem(owner, elem, comment)
		}
	default:
		if elem.Tag == "annotation" {
			return p.annotationElem(owner.(annotationAdder), elem, comment)
		}
	}
	return p.unknownNode(owner, elem)
}

func (p *parser) unknownNode(owner ast.Member, elem *xmltree.Element) error {
	// Nameless nodes are roots; name them as such rather than printing an
	// empty string.
	if owner.Kind() == ast.KindNode && owner.PrettyName() == "" {
		return p.errorf(elem.Line, ast.CodeUnknownNode,
			"Unknown node ‘%s’ in root.", elem.Tag)
	}
	return p.errorf(elem.Line, ast.CodeUnknownNode,
		"Unknown node ‘%s’ in %s ‘%s’.", elem.Tag, owner.Kind(), owner.PrettyName())
}

// require fetches required attributes in order, reporting missing-attribute
// for each absent one. ok is false if any were missing; the caller skips the
// element without descending into it.
func (p *parser) require(elem *xmltree.Element, names ...string) (vals []string, ok bool, err error) {
	vals = make([]string, len(names))
	ok = true
	for i, name := range names {
		v, present := elem.Attr(name)
		if !present {
			ok = false
			if err := p.errorf(elem.Line, ast.CodeMissingAttribute,
				"Missing required attribute ‘%s’ in %s.", name, elem.Tag); err != nil {
				return nil, false, err
			}
			continue
		}
		vals[i] = v
	}
	return vals, ok, nil
}

func (p *parser) interfaceElem(parent *ast.Node, elem *xmltree.Element, comment *xmltree.Comment) error {
	attrs, ok, err := p.require(elem, "name")
	if !ok {
		return err
	}
	iface, err := ast.NewInterface(attrs[0], elem.Line, p.handler)
	if err != nil {
		return err
	}
	applyComment(iface, comment)
	if err := parent.AddInterface(iface, p.handler); err != nil {
		return err
	}
	return p.children(elem, iface)
}

func (p *parser) nodeElem(parent *ast.Node, elem *xmltree.Element, comment *xmltree.Comment) error {
	name, _ := elem.Attr("name")
	node := ast.NewNode(name, elem.Line)
	applyComment(node, comment)
	if err := parent.AddNode(node, p.handler); err != nil {
		return err
	}
	return p.children(elem, node)
}

func (p *parser) methodElem(parent *ast.Interface, elem *xmltree.Element, comment *xmltree.Comment) error {
	attrs, ok, err := p.require(elem, "name")
	if !ok {
		return err
	}
	method, err := ast.NewMethod(attrs[0], elem.Line, p.handler)
	if err != nil {
		return err
	}
	applyComment(method, comment)
	if err := parent.AddMethod(method, p.handler); err != nil {
		return err
	}
	return p.children(elem, method)
}

func (p *parser) signalElem(parent *ast.Interface, elem *xmltree.Element, comment *xmltree.Comment) error {
	attrs, ok, err := p.require(elem, "name")
	if !ok {
		return err
	}
	signal, err := ast.NewSignal(attrs[0], elem.Line, p.handler)
	if err != nil {
		return err
	}
	applyComment(signal, comment)
	if err := parent.AddSignal(signal, p.handler); err != nil {
		return err
	}
	return p.children(elem, signal)
}

func (p *parser) propertyElem(parent *ast.Interface, elem *xmltree.Element, comment *xmltree.Comment) error {
	attrs, ok, err := p.require(elem, "name", "access", "type")
	if !ok {
		return err
	}
	prop, err := ast.NewProperty(attrs[0], attrs[2], ast.Access(attrs[1]), elem.Line, p.handler)
	if err != nil {
		return err
	}
	applyComment(prop, comment)
	if err := parent.AddProperty(prop, p.handler); err != nil {
		return err
	}
	return p.children(elem, prop)
}

func (p *parser) argElem(parent argAdder, elem *xmltree.Element, comment *xmltree.Comment) error {
	attrs, ok, err := p.require(elem, "type")
	if !ok {
		return err
	}
	name, _ := elem.Attr("name")
	direction, _ := elem.Attr("direction")
	arg, err := ast.NewArgument(name, ast.Direction(direction), attrs[0], elem.Line, p.handler)
	if err != nil {
		return err
	}
	applyComment(arg, comment)
	parent.AddArgument(arg)
	return p.children(elem, arg)
}

func (p *parser) annotationElem(parent annotationAdder, elem *xmltree.Element, comment *xmltree.Comment) error {
	attrs, ok, err := p.require(elem, "name")
	if !ok {
		return err
	}
	value, _ := elem.Attr("value")
	annotation := ast.NewAnnotation(attrs[0], value, elem.Line)
	applyComment(annotation, comment)
	if err := parent.AddAnnotation(annotation, p.handler); err != nil {
		return err
	}
	return p.children(elem, annotation)
}

func applyComment(m ast.Member, c *xmltree.Comment) {
	if c != nil {
		m.SetComment(c.Text, c.Line)
	}
}
