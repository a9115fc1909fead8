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

package ast

import (
	"fmt"

	"github.com/dbusdev/deviate/report"
)

// Kind identifies the concrete type of a tree member.
type Kind int8

const (
	KindNode Kind = 1 + iota
	KindInterface
	KindMethod
	KindSignal
	KindProperty
	KindArgument
	KindAnnotation
)

// String returns the lowercase kind name used in diagnostic messages.
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindInterface:
		return "interface"
	case KindMethod:
		return "method"
	case KindSignal:
		return "signal"
	case KindProperty:
		return "property"
	case KindArgument:
		return "argument"
	case KindAnnotation:
		return "annotation"
	default:
		return fmt.Sprintf("Kind(%d)", int8(k))
	}
}

// DuplicateCode returns the diagnostic code reported when a member of this
// kind collides with an already-attached name. Arguments have no duplicate
// code: their identity is positional.
func (k Kind) DuplicateCode() string {
	switch k {
	case KindNode:
		return CodeDuplicateNode
	case KindInterface:
		return CodeDuplicateInterface
	case KindMethod:
		return CodeDuplicateMethod
	case KindSignal:
		return CodeDuplicateSignal
	case KindProperty:
		return CodeDuplicateProperty
	case KindAnnotation:
		return CodeDuplicateAnnotation
	default:
		panic(fmt.Sprintf("deviate/ast: no duplicate code for kind %v", k))
	}
}

// Diagnostic codes produced while building a tree.
const (
	CodeUnknownNode         = "unknown-node"
	CodeMissingAttribute    = "missing-attribute"
	CodeDuplicateNode       = "duplicate-node"
	CodeDuplicateInterface  = "duplicate-interface"
	CodeDuplicateMethod     = "duplicate-method"
	CodeDuplicateSignal     = "duplicate-signal"
	CodeDuplicateProperty   = "duplicate-property"
	CodeDuplicateAnnotation = "duplicate-annotation"
	CodeNodeName            = "node-name"
	CodeInterfaceName       = "interface-name"
	CodeMethodName          = "method-name"
	CodeSignalName          = "signal-name"
	CodePropertyType        = "property-type"
	CodeArgumentType        = "argument-type"
)

// OutputCodes returns every diagnostic code tree construction can produce.
func OutputCodes() *report.CodeSet {
	return report.NewCodeSet(
		CodeUnknownNode,
		CodeMissingAttribute,
		CodeDuplicateNode,
		CodeDuplicateInterface,
		CodeDuplicateMethod,
		CodeDuplicateSignal,
		CodeDuplicateProperty,
		CodeDuplicateAnnotation,
		CodeNodeName,
		CodeInterfaceName,
		CodeMethodName,
		CodeSignalName,
		CodePropertyType,
		CodeArgumentType,
	)
}

// errorAt reports a construction diagnostic at the given source line. Line 0
// means the member was built directly rather than parsed.
func errorAt(h *report.Handler, line int, code, format string, args ...any) error {
	return h.HandleError(report.Diagnostic{
		Domain:  report.DomainAST,
		Code:    code,
		Level:   report.Error,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}
