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

// Package xmltree parses XML into a navigable element tree that keeps what
// introspection documents need and nothing else: element tags with resolved
// namespaces, attributes, leading character data, comments interleaved with
// child elements, and 1-based source line numbers.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dbusdev/deviate/internal/arena"
)

// Item is a piece of element content: a child [*Element] or a [*Comment].
type Item interface {
	isItem()
}

// Element is an XML element.
type Element struct {
	// Tag is the element's name. Elements in a namespace use the resolved
	// form "{namespace-uri}local"; elements outside any namespace use the
	// bare local name.
	Tag string

	// Attrs maps attribute names, in the same resolved form as Tag, to
	// their values. It is nil when the element has no attributes.
	Attrs map[string]string

	// Text is the character data between the start tag and the first
	// child item, unmodified.
	Text string

	// Items holds the element's child elements and comments in document
	// order.
	Items []Item

	// Line is the 1-based line the element's start tag ends on.
	Line int
}

func (*Element) isItem() {}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Comment is an XML comment. Text is the content between the markers,
// unmodified.
type Comment struct {
	Text string

	// Line is the 1-based line the comment starts on.
	Line int
}

func (*Comment) isItem() {}

// Document is a parsed XML document. Elements are allocated on an arena owned
// by the document and share its lifetime.
type Document struct {
	Root *Element

	elems arena.Arena[Element]
}

// Parse reads one XML document from r.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	dec := xml.NewDecoder(r)

	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := dec.InputPos()

		switch t := tok.(type) {
		case xml.StartElement:
			el := doc.elems.Alloc(Element{Tag: resolve(t.Name), Line: line})
			if len(t.Attr) > 0 {
				el.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					el.Attrs[resolve(a.Name)] = a.Value
				}
			}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("line %d: extra content after document root", line)
				}
				doc.Root = el
			} else {
				top := stack[len(stack)-1]
				top.Items = append(top.Items, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				break
			}
			// Like the text field of a conventional element tree,
			// Text stops at the first child item.
			top := stack[len(stack)-1]
			if len(top.Items) == 0 {
				top.Text += string(t)
			}

		case xml.Comment:
			if len(stack) == 0 {
				break
			}
			top := stack[len(stack)-1]
			text := string(t)
			top.Items = append(top.Items, &Comment{
				Text: text,
				// The decoder position is the end of the comment.
				Line: line - strings.Count(text, "\n"),
			})
		}
	}

	if doc.Root == nil {
		return nil, errors.New("document is empty")
	}
	return doc, nil
}

// ParseBytes parses one XML document from data.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// resolve formats an XML name the way element trees conventionally do:
// "{namespace-uri}local" inside a namespace, bare local name outside.
func resolve(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}
