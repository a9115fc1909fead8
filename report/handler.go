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

package report

import (
	"errors"
	"sync"
)

// ErrInvalidSource is a sentinel error returned by parse entry points when
// diagnostics were reported but the configured ErrorReporter returned nil
// for every one of them. It signals that the returned tree, while usable,
// was built from flawed input.
var ErrInvalidSource = errors.New("parse failed: invalid introspection source")

// ErrorReporter is responsible for reporting the given diagnostic. If the
// reporter returns a non-nil error, parsing aborts with that error. If the
// reporter returns nil, parsing continues, allowing the parser to report as
// many problems as it can find in a single pass.
type ErrorReporter func(d Diagnostic) error

// Reporter receives diagnostics as the parser or comparator finds them.
type Reporter interface {
	Error(Diagnostic) error
}

// NewReporter wraps the given function as a Reporter. A nil function makes
// every diagnostic fatal.
func NewReporter(errs ErrorReporter) Reporter {
	return reporterFunc{errs: errs}
}

type reporterFunc struct {
	errs ErrorReporter
}

func (r reporterFunc) Error(d Diagnostic) error {
	if r.errs == nil {
		return d
	}
	return r.errs(d)
}

// Relabel returns a Reporter that stamps domain onto every diagnostic, and
// path onto every diagnostic that does not already carry one, before handing
// it to next. Parsers use it to funnel diagnostics produced by lower layers
// under their own domain and source file. A nil next makes every diagnostic
// fatal.
func Relabel(domain, path string, next Reporter) Reporter {
	if next == nil {
		next = NewReporter(nil)
	}
	return relabeled{domain: domain, path: path, next: next}
}

type relabeled struct {
	domain, path string
	next         Reporter
}

func (r relabeled) Error(d Diagnostic) error {
	if r.domain != "" {
		d.Domain = r.domain
	}
	if d.Path == "" {
		d.Path = r.path
	}
	return r.next.Error(d)
}

// Handler tracks the reporting policy over the course of one parse.
//
// The policy is decided by the Reporter: a nil Reporter aborts on the first
// diagnostic (fail-fast), while a Reporter that always returns nil, such as
// a *Log, recovers from every diagnostic and accumulates them all.
type Handler struct {
	reporter Reporter

	mu       sync.Mutex
	reported bool
	err      error
}

// NewHandler creates a Handler that reports to rep. If rep is nil, the
// handler fails fast: the first diagnostic aborts the parse.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil)
	}
	return &Handler{reporter: rep}
}

// HandleError reports a diagnostic. A non-nil return means the parse should
// abort with that error; nil means carry on. A nil handler fails fast.
func (h *Handler) HandleError(d Diagnostic) error {
	if h == nil {
		return d
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.reported = true
	err := h.reporter.Error(d)
	h.err = err
	return err
}

// Error returns the error a parse entry point should return to its caller:
// the abort error if one was produced, ErrInvalidSource if diagnostics were
// reported but the reporter swallowed all of them, or nil if nothing was
// reported at all.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.reported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the error returned by the reporter, if any.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
