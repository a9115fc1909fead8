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

package report_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbusdev/deviate/report"
)

func TestHandlerFailFast(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	d := report.Diagnostic{Code: "unknown-node", Level: report.Error, Message: "boom"}

	// A nil reporter aborts on the first diagnostic, returning it as the
	// error.
	h := report.NewHandler(nil)
	err := h.HandleError(d)
	assert.Equal(error(d), err)
	assert.Equal(error(d), h.Error())
	assert.Equal(error(d), h.ReporterError())

	// Later diagnostics keep returning the original abort error.
	again := h.HandleError(report.Diagnostic{Code: "other"})
	assert.Equal(error(d), again)
}

func TestHandlerRecover(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var log report.Log
	h := report.NewHandler(&log)

	first := report.Diagnostic{Code: "a", Message: "first"}
	second := report.Diagnostic{Code: "b", Message: "second"}
	assert.NoError(h.HandleError(first))
	assert.NoError(h.HandleError(second))

	assert.Equal([]report.Diagnostic{first, second}, log.Diagnostics())

	// Diagnostics were reported but all swallowed, so the parse as a whole
	// failed with ErrInvalidSource.
	assert.ErrorIs(h.Error(), report.ErrInvalidSource)
	assert.NoError(h.ReporterError())
}

func TestHandlerClean(t *testing.T) {
	t.Parallel()

	var log report.Log
	h := report.NewHandler(&log)
	assert.NoError(t, h.Error())
	assert.NoError(t, h.ReporterError())
}

func TestHandlerCustomReporter(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	// A reporter that tolerates one diagnostic and then gives up.
	abort := errors.New("too many problems")
	seen := 0
	h := report.NewHandler(report.NewReporter(func(d report.Diagnostic) error {
		seen++
		if seen > 1 {
			return abort
		}
		return nil
	}))

	assert.NoError(h.HandleError(report.Diagnostic{Code: "a"}))
	assert.ErrorIs(h.HandleError(report.Diagnostic{Code: "b"}), abort)
	assert.ErrorIs(h.Error(), abort)
	assert.ErrorIs(h.ReporterError(), abort)

	// The third diagnostic never reaches the reporter.
	assert.ErrorIs(h.HandleError(report.Diagnostic{Code: "c"}), abort)
	assert.Equal(2, seen)
}

func TestNilHandlerFailsFast(t *testing.T) {
	t.Parallel()

	var h *report.Handler
	d := report.Diagnostic{Code: "unknown-node", Message: "boom"}
	assert.Equal(t, error(d), h.HandleError(d))
}

func TestRelabel(t *testing.T) {
	t.Parallel()

	var log report.Log
	rep := report.Relabel(report.DomainParser, "api.xml", &log)

	require.NoError(t, rep.Error(report.Diagnostic{Code: "a", Message: "unlabeled"}))
	require.NoError(t, rep.Error(report.Diagnostic{
		Domain: report.DomainTypes, Path: "other.xml", Code: "b", Message: "labeled",
	}))

	out := log.Diagnostics()
	require.Len(t, out, 2)

	// The domain is always restamped; the path only fills a gap.
	assert.Equal(t, report.DomainParser, out[0].Domain)
	assert.Equal(t, "api.xml", out[0].Path)
	assert.Equal(t, report.DomainParser, out[1].Domain)
	assert.Equal(t, "other.xml", out[1].Path)
}

func TestRelabelNilNext(t *testing.T) {
	t.Parallel()

	rep := report.Relabel(report.DomainParser, "api.xml", nil)
	err := rep.Error(report.Diagnostic{Code: "a", Message: "boom"})

	var d report.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, report.DomainParser, d.Domain)
	assert.Equal(t, "api.xml", d.Path)
}
