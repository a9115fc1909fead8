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
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rivo/uniseg"
)

// MaxMessageWidth is the maximum rendered width of a diagnostic line before
// its message is word-wrapped, to keep output within the bounds of a
// terminal.
const MaxMessageWidth = 80

// Renderer formats diagnostics for human consumption, one diagnostic per
// line, with the severity highlighted and long messages word-wrapped onto
// aligned continuation lines.
type Renderer struct {
	// Colorize enables ANSI colors in the output. Callers writing to a
	// terminal should set this from the terminal's capabilities.
	Colorize bool
	// ShowCodes appends each diagnostic's machine-readable code to its line.
	ShowCodes bool
}

// Render writes every diagnostic to w in order.
func (r Renderer) Render(w io.Writer, diagnostics []Diagnostic) error {
	ss := newStyleSheet(r.Colorize)
	for _, d := range diagnostics {
		if err := r.render(w, ss, d); err != nil {
			return err
		}
	}
	return nil
}

// RenderDiagnostic writes a single diagnostic to w.
func (r Renderer) RenderDiagnostic(w io.Writer, d Diagnostic) error {
	return r.render(w, newStyleSheet(r.Colorize), d)
}

func (r Renderer) render(w io.Writer, ss styleSheet, d Diagnostic) error {
	var prefix string
	switch {
	case d.Path != "" && d.Line > 0:
		prefix = fmt.Sprintf("%s:%d: ", d.Path, d.Line)
	case d.Path != "":
		prefix = d.Path + ": "
	}

	level := d.Level.String()
	var suffix string
	if r.ShowCodes && d.Code != "" {
		suffix = " [" + d.Code + "]"
	}

	// Continuation lines align with the start of the message.
	indent := uniseg.StringWidth(prefix) + uniseg.StringWidth(level) + 2
	width := MaxMessageWidth - indent
	if width < 20 {
		width = 20
	}

	lines := wrap(d.Message, width)
	if len(lines) == 0 {
		lines = []string{""}
	}

	for i, line := range lines {
		var err error
		if i == 0 {
			_, err = fmt.Fprintf(w, "%s%s: %s", prefix, ss.forLevel(d.Level)(level), line)
		} else {
			_, err = fmt.Fprintf(w, "\n%s%s", strings.Repeat(" ", indent), line)
		}
		if err != nil {
			return err
		}
	}
	if suffix != "" {
		if _, err := io.WriteString(w, ss.accent(suffix)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// wrap splits text into lines no wider than width, breaking at spaces. A
// single word wider than width gets a line of its own; widths are measured
// in grapheme clusters, not bytes.
func wrap(text string, width int) []string {
	var (
		lines  []string
		line   strings.Builder
		column int
	)
	for _, word := range strings.Fields(text) {
		w := uniseg.StringWidth(word)
		switch {
		case column == 0:
			line.WriteString(word)
			column = w
		case column+1+w <= width:
			line.WriteByte(' ')
			line.WriteString(word)
			column += 1 + w
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			column = w
		}
	}
	if column > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// styleSheet is the palette used for colorized rendering.
type styleSheet struct {
	error     sprintFunc
	backwards sprintFunc
	forwards  sprintFunc
	info      sprintFunc
	accent    sprintFunc
}

type sprintFunc func(a ...interface{}) string

func newStyleSheet(colorize bool) styleSheet {
	style := func(attrs ...color.Attribute) sprintFunc {
		c := color.New(attrs...)
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return styleSheet{
		error:     style(color.FgRed, color.Bold),
		backwards: style(color.FgRed),
		forwards:  style(color.FgYellow),
		info:      style(color.FgCyan),
		accent:    style(color.FgBlue),
	}
}

func (ss styleSheet) forLevel(l Level) sprintFunc {
	switch l {
	case Error:
		return ss.error
	case Backwards:
		return ss.backwards
	case Forwards:
		return ss.forwards
	case Info:
		return ss.info
	default:
		return fmt.Sprint
	}
}
