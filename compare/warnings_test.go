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

package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbusdev/deviate/compare"
)

func TestExpandWarnings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    []string
		wantErr string
	}{
		{name: "empty", value: "", want: nil},
		{name: "all", value: "all", want: nil},
		{name: "category", value: "info", want: []string{"info"}},
		{name: "categories", value: "backwards-compatibility,forwards-compatibility",
			want: []string{"backwards-compatibility", "forwards-compatibility"}},
		{name: "code", value: "method-added", want: []string{"method-added"}},
		{name: "category and code", value: "info,signal-removed",
			want: []string{"info", "signal-removed"}},
		{name: "error category", value: "error", want: []string{"error"}},
		{name: "unknown entry", value: "bogus",
			wantErr: "unknown warning category or code ‘bogus’"},
		{name: "unknown entry after valid one", value: "info,bogus",
			wantErr: "unknown warning category or code ‘bogus’"},
		{name: "empty entry", value: "info,",
			wantErr: "unknown warning category or code ‘’"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := compare.ExpandWarnings(tt.value)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
