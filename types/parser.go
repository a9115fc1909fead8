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

package types

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dbusdev/deviate/report"
)

// Diagnostic codes produced by Parse.
const (
	// CodeInvalidType reports a structurally broken signature: an empty
	// string, an unterminated container, or a dictionary with the wrong
	// number of members.
	CodeInvalidType = "invalid-type"
	// CodeReservedType reports use of a reserved wire-protocol code.
	CodeReservedType = "reserved-type"
	// CodeUnknownType reports a character that is no type code at all.
	CodeUnknownType = "unknown-type"
)

// reserved holds the type codes the wire protocol reserves; they are valid
// on the wire or in future protocol revisions but must never appear in
// signatures.
const reserved = "rem*?@&^"

// MaxDepth is the maximum container nesting depth Parse accepts. The wire
// protocol caps nesting far below this; the limit only bounds recursion on
// hostile input.
const MaxDepth = 64

// OutputCodes returns every diagnostic code Parse can produce.
func OutputCodes() *report.CodeSet {
	return report.NewCodeSet(CodeInvalidType, CodeReservedType, CodeUnknownType)
}

// Parse parses a D-Bus type signature into its type tree.
//
// Parsing is fail-fast: the first problem is reported to handler and parsing
// stops, returning a nil Signature and a non-nil error. A nil handler is
// equivalent to report.NewHandler(nil). Signature length is not limited,
// since signatures reaching this parser come from documents rather than the
// wire; nesting is capped at MaxDepth.
//
// For every accepted signature, Signature.String returns the input exactly.
func Parse(signature string, handler *report.Handler) (*Signature, error) {
	if handler == nil {
		handler = report.NewHandler(nil)
	}
	p := &parser{signature: signature, handler: handler}

	if signature == "" {
		p.fail(CodeInvalidType, "Empty type string.")
		return nil, p.err
	}

	out := &Signature{}
	for {
		c, ok := p.next()
		if !ok {
			break
		}
		t := p.parseOne(c, 0)
		if t == nil {
			return nil, p.err
		}
		out.Members = append(out.Members, t)
	}
	return out, nil
}

type parser struct {
	signature string
	index     int
	handler   *report.Handler
	err       error
}

// next consumes and returns the next character of the signature.
func (p *parser) next() (rune, bool) {
	if p.index >= len(p.signature) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(p.signature[p.index:])
	p.index += size
	return r, true
}

func (p *parser) fail(code, format string, args ...any) {
	if p.err != nil {
		return
	}
	err := p.handler.HandleError(report.Diagnostic{
		Domain:  report.DomainTypes,
		Code:    code,
		Level:   report.Error,
		Message: fmt.Sprintf(format, args...),
	})
	if err == nil {
		err = report.ErrInvalidSource
	}
	p.err = err
}

// parseOne parses one complete type, whose first character has already been
// consumed. It returns nil after reporting a diagnostic.
func (p *parser) parseOne(c rune, depth int) *Type {
	switch c {
	case 'y':
		return &Type{Kind: KindByte}
	case 'b':
		return &Type{Kind: KindBoolean}
	case 'n':
		return &Type{Kind: KindInt16}
	case 'q':
		return &Type{Kind: KindUInt16}
	case 'i':
		return &Type{Kind: KindInt32}
	case 'u':
		return &Type{Kind: KindUInt32}
	case 'x':
		return &Type{Kind: KindInt64}
	case 't':
		return &Type{Kind: KindUInt64}
	case 'd':
		return &Type{Kind: KindDouble}
	case 's':
		return &Type{Kind: KindString}
	case 'o':
		return &Type{Kind: KindObjectPath}
	case 'g':
		return &Type{Kind: KindSignature}
	case 'v':
		return &Type{Kind: KindVariant}
	case 'h':
		return &Type{Kind: KindUnixFD}
	case 'a':
		if !p.checkDepth(depth) {
			return nil
		}
		member, ok := p.next()
		if !ok {
			p.fail(CodeInvalidType, "Incomplete array declaration.")
			return nil
		}
		m := p.parseOne(member, depth+1)
		if m == nil {
			return nil
		}
		return &Type{Kind: KindArray, Members: []*Type{m}}
	case '(':
		if !p.checkDepth(depth) {
			return nil
		}
		t := &Type{Kind: KindStruct}
		for {
			c, ok := p.next()
			if !ok {
				p.fail(CodeInvalidType, "Incomplete structure declaration.")
				return nil
			}
			if c == ')' {
				if len(t.Members) == 0 {
					p.fail(CodeInvalidType, "Incomplete structure declaration.")
					return nil
				}
				return t
			}
			m := p.parseOne(c, depth+1)
			if m == nil {
				return nil
			}
			t.Members = append(t.Members, m)
		}
	case '{':
		if !p.checkDepth(depth) {
			return nil
		}
		t := &Type{Kind: KindDictEntry}
		for {
			c, ok := p.next()
			if !ok {
				p.fail(CodeInvalidType, "Incomplete dictionary declaration.")
				return nil
			}
			if c == '}' {
				if len(t.Members) < 2 {
					p.fail(CodeInvalidType, "Incomplete dictionary declaration.")
					return nil
				}
				return t
			}
			m := p.parseOne(c, depth+1)
			if m == nil {
				return nil
			}
			if len(t.Members) >= 2 {
				p.fail(CodeInvalidType, "Invalid dictionary declaration.")
				return nil
			}
			t.Members = append(t.Members, m)
		}
	default:
		if strings.ContainsRune(reserved, c) {
			p.fail(CodeReservedType,
				"Reserved type ‘%c’ must not be used in signatures on D-Bus.", c)
		} else {
			p.fail(CodeUnknownType, "Unknown type ‘%c’.", c)
		}
		return nil
	}
}

func (p *parser) checkDepth(depth int) bool {
	if depth < MaxDepth {
		return true
	}
	p.fail(CodeInvalidType, "Exceeded maximum type nesting depth.")
	return false
}
