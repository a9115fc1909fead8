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

package compare

import (
	"fmt"
	"strings"

	"github.com/dbusdev/deviate/report"
)

// ExpandWarnings parses a comma-separated warning list, as accepted by the
// command-line tools, into an enabled-warnings list for an
// [InterfaceComparator]. An empty value or "all" selects every category.
// Each entry must name a warning category or a diagnostic code from
// [OutputCodes].
func ExpandWarnings(value string) ([]string, error) {
	if value == "" || value == "all" {
		return nil, nil
	}

	enabled := strings.Split(value, ",")
	codes := OutputCodes()
	for _, entry := range enabled {
		if _, ok := report.ParseLevel(entry); ok || codes.Has(entry) {
			continue
		}
		return nil, fmt.Errorf("unknown warning category or code ‘%s’", entry)
	}
	return enabled, nil
}
