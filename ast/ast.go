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

// Package ast defines the tree that D-Bus introspection XML parses into:
// a root node containing interfaces, which contain methods, signals, and
// properties, all of which may carry annotations.
//
// Trees are built through the constructors and attach methods, each of which
// takes a [report.Handler] so that structural problems can either abort the
// build or be collected while construction continues. Members attach in
// source order and duplicates keep the first definition.
package ast

import (
	"fmt"

	"github.com/dbusdev/deviate/report"
	"github.com/dbusdev/deviate/types"
)

// Access is a property's access mode.
type Access string

// Property access modes.
const (
	AccessRead      Access = "read"
	AccessWrite     Access = "write"
	AccessReadWrite Access = "readwrite"
)

// Direction tells whether an argument is consumed or produced by its
// callable.
type Direction string

// Argument directions.
const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Well-known annotation names with semantics the comparator understands.
//
// See https://dbus.freedesktop.org/doc/dbus-specification.html and the GDBus
// documentation for org.gtk.GDBus.DocString.
const (
	AnnotationDeprecated = "org.freedesktop.DBus.Deprecated"
	AnnotationCSymbol    = "org.freedesktop.DBus.GLib.CSymbol"
	AnnotationNoReply    = "org.freedesktop.DBus.Method.NoReply"
	AnnotationECS        = "org.freedesktop.DBus.Property.EmitsChangedSignal"
	AnnotationDocString  = "org.gtk.GDBus.DocString"
)

// Member is implemented by every tree member: [Node], [Interface], [Method],
// [Signal], [Property], [Argument], and [Annotation].
type Member interface {
	// Kind identifies the concrete type of the member.
	Kind() Kind

	// Name returns the member's name as declared, or "" if it has none.
	Name() string

	// PrettyName formats the member's name for diagnostic messages,
	// qualified by its parent where that aids identification.
	PrettyName() string

	// Parent returns the member this one is attached to, or nil.
	Parent() Member

	// Line returns the 1-based source line the member was declared on,
	// or 0 for members built directly.
	Line() int

	// Comment returns the member's documentation: the value of an
	// org.gtk.GDBus.DocString annotation if one is attached, otherwise
	// whatever documentation comment was recorded with SetComment.
	Comment() string

	// CommentLine returns the 1-based source line the documentation
	// comment starts on, or 0.
	CommentLine() int

	// SetComment records the member's documentation comment and the line
	// it starts on. Parsed documents call this for preceding XML comments
	// and embedded documentation elements.
	SetComment(text string, line int)

	// Annotations returns the member's annotations keyed by name, in
	// source order.
	Annotations() *OrderedMap[*Annotation]

	members() []Member
}

var (
	_ Member = (*Node)(nil)
	_ Member = (*Interface)(nil)
	_ Member = (*Method)(nil)
	_ Member = (*Signal)(nil)
	_ Member = (*Property)(nil)
	_ Member = (*Argument)(nil)
	_ Member = (*Annotation)(nil)
)

// base carries the state common to every member: identity, position,
// documentation, annotations, and the flat child list in attach order.
type base struct {
	name        string
	parent      Member
	children    []Member
	annotations OrderedMap[*Annotation]
	rawComment  string
	line        int
	commentLine int
}

func (b *base) Name() string { return b.name }

func (b *base) Parent() Member { return b.parent }

func (b *base) Line() int { return b.line }

func (b *base) Comment() string {
	if doc, ok := b.annotations.Get(AnnotationDocString); ok {
		return doc.Value
	}
	return b.rawComment
}

func (b *base) CommentLine() int { return b.commentLine }

func (b *base) SetComment(text string, line int) {
	b.rawComment = text
	b.commentLine = line
}

func (b *base) Annotations() *OrderedMap[*Annotation] { return &b.annotations }

func (b *base) members() []Member { return b.children }

// addAnnotation attaches a to owner, which must be the member embedding b.
func (b *base) addAnnotation(owner Member, a *Annotation, h *report.Handler) error {
	a.parent = owner
	if b.annotations.Has(a.name) {
		return errorAt(h, a.line, CodeDuplicateAnnotation,
			"Duplicate annotation definition ‘%s’.", a.PrettyName())
	}
	b.annotations.Set(a.name, a)
	b.children = append(b.children, a)
	return nil
}

// dottedName qualifies a member's name with its parent's, for members named
// relative to an interface.
func dottedName(m Member) string {
	if p := m.Parent(); p != nil {
		return p.PrettyName() + "." + m.Name()
	}
	return m.Name()
}

// Node is the root element of an introspection document: an object-path
// location exposing interfaces, possibly with child nodes for objects
// below it.
type Node struct {
	base
	interfaces OrderedMap[*Interface]
	nodes      OrderedMap[*Node]
}

// NewNode creates a node. Root nodes may be nameless or carry an absolute
// object path; the name of a child node is checked when it is attached.
func NewNode(name string, line int) *Node {
	return &Node{base: base{name: name, line: line}}
}

func (n *Node) Kind() Kind { return KindNode }

func (n *Node) PrettyName() string { return n.name }

// Interfaces returns the node's interfaces keyed by name, in source order.
func (n *Node) Interfaces() *OrderedMap[*Interface] { return &n.interfaces }

// Nodes returns the node's child nodes keyed by name, in source order.
func (n *Node) Nodes() *OrderedMap[*Node] { return &n.nodes }

// AddInterface attaches iface to the node, reporting duplicate-interface and
// keeping the first definition if the name is already taken.
func (n *Node) AddInterface(iface *Interface, h *report.Handler) error {
	iface.parent = n
	if n.interfaces.Has(iface.name) {
		return errorAt(h, iface.line, CodeDuplicateInterface,
			"Duplicate interface definition ‘%s’.", iface.PrettyName())
	}
	n.interfaces.Set(iface.name, iface)
	n.children = append(n.children, iface)
	return nil
}

// AddNode attaches child as a non-root node, reporting missing-attribute if
// it is nameless, node-name if its name is not a relative object path, and
// duplicate-node if the name is already taken.
func (n *Node) AddNode(child *Node, h *report.Handler) error {
	if child.name == "" {
		if err := errorAt(h, child.line, CodeMissingAttribute,
			"Missing required attribute ‘name’ in non-root node."); err != nil {
			return err
		}
	} else if !IsValidRelativeObjectPath(child.name) {
		if err := errorAt(h, child.line, CodeNodeName,
			"Non-root node name is not a relative object path ‘%s’.", child.name); err != nil {
			return err
		}
	}
	child.parent = n
	if n.nodes.Has(child.name) {
		return errorAt(h, child.line, CodeDuplicateNode,
			"Duplicate node definition ‘%s’.", child.PrettyName())
	}
	n.nodes.Set(child.name, child)
	n.children = append(n.children, child)
	return nil
}

// AddAnnotation attaches a to the node, reporting duplicate-annotation and
// keeping the first definition if the name is already taken.
func (n *Node) AddAnnotation(a *Annotation, h *report.Handler) error {
	return n.addAnnotation(n, a, h)
}

// Interface is a named collection of methods, signals, and properties: the
// unit of API compatibility.
type Interface struct {
	base
	methods    OrderedMap[*Method]
	signals    OrderedMap[*Signal]
	properties OrderedMap[*Property]
}

// NewInterface creates an interface, reporting interface-name if the name is
// non-empty and does not satisfy the interface-name grammar. The interface
// is still built and usable afterwards.
func NewInterface(name string, line int, h *report.Handler) (*Interface, error) {
	i := &Interface{base: base{name: name, line: line}}
	if name != "" && !IsValidInterfaceName(name) {
		if err := errorAt(h, line, CodeInterfaceName,
			"Invalid interface name ‘%s’.", name); err != nil {
			return nil, err
		}
	}
	return i, nil
}

func (i *Interface) Kind() Kind { return KindInterface }

func (i *Interface) PrettyName() string { return i.name }

// Node returns the node the interface is attached to, or nil.
func (i *Interface) Node() *Node {
	n, _ := i.parent.(*Node)
	return n
}

// Methods returns the interface's methods keyed by name, in source order.
func (i *Interface) Methods() *OrderedMap[*Method] { return &i.methods }

// Signals returns the interface's signals keyed by name, in source order.
func (i *Interface) Signals() *OrderedMap[*Signal] { return &i.signals }

// Properties returns the interface's properties keyed by name, in source
// order.
func (i *Interface) Properties() *OrderedMap[*Property] { return &i.properties }

// AddMethod attaches m to the interface, reporting duplicate-method and
// keeping the first definition if the name is already taken.
func (i *Interface) AddMethod(m *Method, h *report.Handler) error {
	m.parent = i
	if i.methods.Has(m.name) {
		return errorAt(h, m.line, CodeDuplicateMethod,
			"Duplicate method definition ‘%s’.", m.PrettyName())
	}
	i.methods.Set(m.name, m)
	i.children = append(i.children, m)
	return nil
}

// AddSignal attaches s to the interface, reporting duplicate-signal and
// keeping the first definition if the name is already taken.
func (i *Interface) AddSignal(s *Signal, h *report.Handler) error {
	s.parent = i
	if i.signals.Has(s.name) {
		return errorAt(h, s.line, CodeDuplicateSignal,
			"Duplicate signal definition ‘%s’.", s.PrettyName())
	}
	i.signals.Set(s.name, s)
	i.children = append(i.children, s)
	return nil
}

// AddProperty attaches p to the interface, reporting duplicate-property and
// keeping the first definition if the name is already taken.
func (i *Interface) AddProperty(p *Property, h *report.Handler) error {
	p.parent = i
	if i.properties.Has(p.name) {
		return errorAt(h, p.line, CodeDuplicateProperty,
			"Duplicate property definition ‘%s’.", p.PrettyName())
	}
	i.properties.Set(p.name, p)
	i.children = append(i.children, p)
	return nil
}

// AddAnnotation attaches a to the interface, reporting duplicate-annotation
// and keeping the first definition if the name is already taken.
func (i *Interface) AddAnnotation(a *Annotation, h *report.Handler) error {
	return i.addAnnotation(i, a, h)
}

// callable is the shared core of methods and signals: an ordered argument
// list.
type callable struct {
	base
	arguments []*Argument
}

// Arguments returns the callable's arguments in declaration order. The slice
// is shared; callers must not modify it.
func (c *callable) Arguments() []*Argument { return c.arguments }

func (c *callable) addArgument(owner Member, a *Argument) {
	a.parent = owner
	a.index = len(c.arguments)
	c.arguments = append(c.arguments, a)
	c.children = append(c.children, a)
}

// Method is a callable method of an interface.
type Method struct {
	callable
}

// NewMethod creates a method, reporting method-name if the name is non-empty
// and does not satisfy the member-name grammar. The method is still built
// and usable afterwards.
func NewMethod(name string, line int, h *report.Handler) (*Method, error) {
	m := &Method{callable{base: base{name: name, line: line}}}
	if name != "" && !IsValidMemberName(name) {
		if err := errorAt(h, line, CodeMethodName,
			"Invalid method name ‘%s’.", name); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Method) Kind() Kind { return KindMethod }

func (m *Method) PrettyName() string { return dottedName(m) }

// Interface returns the interface the method is attached to, or nil.
func (m *Method) Interface() *Interface {
	i, _ := m.parent.(*Interface)
	return i
}

// AddArgument appends a to the method's argument list. Arguments are
// positional; names need not be unique.
func (m *Method) AddArgument(a *Argument) {
	m.addArgument(m, a)
}

// AddAnnotation attaches a to the method, reporting duplicate-annotation and
// keeping the first definition if the name is already taken.
func (m *Method) AddAnnotation(a *Annotation, h *report.Handler) error {
	return m.addAnnotation(m, a, h)
}

// Signal is a signal emitted by an interface. Its arguments are all
// produced, so direction is ignored on them.
type Signal struct {
	callable
}

// NewSignal creates a signal, reporting signal-name if the name is non-empty
// and does not satisfy the member-name grammar. The signal is still built
// and usable afterwards.
func NewSignal(name string, line int, h *report.Handler) (*Signal, error) {
	s := &Signal{callable{base: base{name: name, line: line}}}
	if name != "" && !IsValidMemberName(name) {
		if err := errorAt(h, line, CodeSignalName,
			"Invalid signal name ‘%s’.", name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Signal) Kind() Kind { return KindSignal }

func (s *Signal) PrettyName() string { return dottedName(s) }

// Interface returns the interface the signal is attached to, or nil.
func (s *Signal) Interface() *Interface {
	i, _ := s.parent.(*Interface)
	return i
}

// AddArgument appends a to the signal's argument list. Arguments are
// positional; names need not be unique.
func (s *Signal) AddArgument(a *Argument) {
	s.addArgument(s, a)
}

// AddAnnotation attaches a to the signal, reporting duplicate-annotation and
// keeping the first definition if the name is already taken.
func (s *Signal) AddAnnotation(a *Annotation, h *report.Handler) error {
	return s.addAnnotation(s, a, h)
}

// Property is a readable or writable property of an interface.
type Property struct {
	base

	// Type is the property's parsed type, or nil if the type string
	// failed to parse. A nil type is always accompanied by a
	// property-type diagnostic.
	Type *types.Signature

	// Access is the property's access mode. Values other than the Access
	// constants are preserved as declared.
	Access Access
}

// NewProperty creates a property with the given type string and access mode.
// A malformed type string is reported as property-type; the property is
// still built, with a nil Type.
func NewProperty(name, typeString string, access Access, line int, h *report.Handler) (*Property, error) {
	p := &Property{base: base{name: name, line: line}, Access: access}
	sig, msg := parseTypeString(typeString)
	p.Type = sig
	if sig == nil {
		if err := errorAt(h, line, CodePropertyType,
			"Error when parsing type ‘%s’ for property ‘%s’: %s",
			typeString, name, msg); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Property) Kind() Kind { return KindProperty }

func (p *Property) PrettyName() string { return dottedName(p) }

// Interface returns the interface the property is attached to, or nil.
func (p *Property) Interface() *Interface {
	i, _ := p.parent.(*Interface)
	return i
}

// AddAnnotation attaches a to the property, reporting duplicate-annotation
// and keeping the first definition if the name is already taken.
func (p *Property) AddAnnotation(a *Annotation, h *report.Handler) error {
	return p.addAnnotation(p, a, h)
}

// Argument is an argument to a method or signal.
type Argument struct {
	base

	// Type is the argument's parsed type, or nil if the type string
	// failed to parse. A nil type is always accompanied by an
	// argument-type diagnostic.
	Type *types.Signature

	// Direction tells whether the argument is consumed or produced.
	// It defaults to in when not declared.
	Direction Direction

	index int
}

// NewArgument creates an argument with the given type string. The name may
// be empty; an empty direction defaults to [DirectionIn]. A malformed type
// string is reported as argument-type; the argument is still built, with a
// nil Type.
func NewArgument(name string, direction Direction, typeString string, line int, h *report.Handler) (*Argument, error) {
	if direction == "" {
		direction = DirectionIn
	}
	a := &Argument{base: base{name: name, line: line}, Direction: direction, index: -1}
	sig, msg := parseTypeString(typeString)
	a.Type = sig
	if sig == nil {
		if err := errorAt(h, line, CodeArgumentType,
			"Error when parsing type ‘%s’ for argument ‘%s’: %s",
			typeString, name, msg); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Argument) Kind() Kind { return KindArgument }

// Index returns the argument's position in its callable's argument list, or
// -1 if the argument is not attached.
func (a *Argument) Index() int { return a.index }

// PrettyName identifies the argument by index and name, whichever are known,
// and by its callable when attached.
func (a *Argument) PrettyName() string {
	var res string
	switch {
	case a.index < 0 && a.name == "":
		res = "unnamed"
	case a.index < 0:
		res = fmt.Sprintf("‘%s’", a.name)
	case a.name == "":
		res = fmt.Sprintf("%d", a.index)
	default:
		res = fmt.Sprintf("%d (‘%s’)", a.index, a.name)
	}
	if a.parent != nil {
		res += fmt.Sprintf(" of %s ‘%s’", a.parent.Kind(), a.parent.PrettyName())
	}
	return res
}

// AddAnnotation attaches ann to the argument, reporting duplicate-annotation
// and keeping the first definition if the name is already taken.
func (a *Argument) AddAnnotation(ann *Annotation, h *report.Handler) error {
	return a.addAnnotation(a, ann, h)
}

// Annotation is an arbitrary key-value metadata entry attached to another
// member. The name can be one of the well-known Annotation constants or
// anything else.
type Annotation struct {
	base

	// Value is the annotation's value; any string is permitted.
	Value string
}

// NewAnnotation creates an annotation.
func NewAnnotation(name, value string, line int) *Annotation {
	return &Annotation{base: base{name: name, line: line}, Value: value}
}

func (a *Annotation) Kind() Kind { return KindAnnotation }

// PrettyName identifies the annotation by name and, when attached, by the
// member carrying it.
func (a *Annotation) PrettyName() string {
	if a.parent == nil {
		return a.name
	}
	return fmt.Sprintf("%s of ‘%s’", a.name, a.parent.PrettyName())
}

// AddAnnotation attaches ann to the annotation. Annotations on annotations
// are unusual but well-formed.
func (a *Annotation) AddAnnotation(ann *Annotation, h *report.Handler) error {
	return a.addAnnotation(a, ann, h)
}

// parseTypeString parses a type string, returning the signature on success
// or the first parse diagnostic's message on failure.
func parseTypeString(s string) (*types.Signature, string) {
	var log report.Log
	sig, err := types.Parse(s, report.NewHandler(&log))
	if err != nil {
		msg := ""
		if d := log.Diagnostics(); len(d) > 0 {
			msg = d[0].Message
		}
		return nil, msg
	}
	return sig, ""
}
