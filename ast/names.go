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

import "regexp"

// Name grammars from the D-Bus specification. Interface and member names are
// additionally capped at 255 characters; object paths have no length limit.
var (
	absolutePathRx  = regexp.MustCompile(`^(/[A-Za-z0-9_]+)+$`)
	relativePathRx  = regexp.MustCompile(`^[A-Za-z0-9_]+(/[A-Za-z0-9_]+)*$`)
	interfaceNameRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)+$`)
	memberNameRx    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// IsValidAbsoluteObjectPath reports whether path satisfies the absolute
// object-path grammar. Root nodes are named with absolute paths.
func IsValidAbsoluteObjectPath(path string) bool {
	return path == "/" || absolutePathRx.MatchString(path)
}

// IsValidRelativeObjectPath reports whether path satisfies the relative
// object-path grammar. Non-root nodes are named with relative paths.
func IsValidRelativeObjectPath(path string) bool {
	return relativePathRx.MatchString(path)
}

// IsValidInterfaceName reports whether name satisfies the interface-name
// grammar: two or more dot-separated elements, each starting with a letter
// or underscore.
func IsValidInterfaceName(name string) bool {
	return len(name) <= 255 && interfaceNameRx.MatchString(name)
}

// IsValidMemberName reports whether name satisfies the member-name grammar
// shared by methods and signals: a single undotted element.
func IsValidMemberName(name string) bool {
	return len(name) <= 255 && memberNameRx.MatchString(name)
}
