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

// The dbus-interface-diff tool compares two D-Bus introspection XML files
// and reports every API difference between them, classified by the kind of
// compatibility it affects.
//
// The exit status is 0 when the files are compatible, the number of
// differences found when --fatal-warnings is given, and 1 when either file
// could not be parsed.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"

	"github.com/dbusdev/deviate"
	"github.com/dbusdev/deviate/compare"
	"github.com/dbusdev/deviate/report"
)

type options struct {
	Warnings        string `long:"warnings" value-name:"CATEGORY,…" description:"Comma-separated warning categories and codes to enable (default: all categories)"`
	FatalWarnings   bool   `long:"fatal-warnings" description:"Exit with the number of warnings emitted"`
	FileDisplayName string `long:"file-display-name" value-name:"NAME" description:"Name to show for both files in output, instead of their paths"`
	ShowCodes       bool   `long:"show-codes" description:"Append each warning's code to its output line"`

	Args struct {
		OldFile string `positional-arg-name:"OLD-FILE" description:"Old interface XML file"`
		NewFile string `positional-arg-name:"NEW-FILE" description:"New interface XML file"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	var opts options
	if _, err := flags.ParseArgs(&opts, argv); err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		return 1
	}

	enabled, err := compare.ExpandWarnings(opts.Warnings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	differ := &deviate.Differ{EnabledWarnings: enabled}
	out, err := differ.Diff(
		deviate.Input{Path: opts.Args.OldFile, DisplayName: opts.FileDisplayName},
		deviate.Input{Path: opts.Args.NewFile, DisplayName: opts.FileDisplayName},
	)
	if err != nil {
		reportParseFailure(os.Stderr, err)
		return 1
	}

	renderer := report.Renderer{
		Colorize:  isatty.IsTerminal(os.Stdout.Fd()),
		ShowCodes: opts.ShowCodes,
	}
	if err := renderer.Render(os.Stdout, out); err != nil {
		return 1
	}

	if opts.FatalWarnings {
		return len(out)
	}
	return 0
}

// reportParseFailure writes a parse failure to w: the collected diagnostics
// when the document parsed badly, the bare error when it could not be read
// at all.
func reportParseFailure(w *os.File, err error) {
	var parseErr *deviate.ParseError
	if errors.As(err, &parseErr) && len(parseErr.Diagnostics) > 0 {
		fmt.Fprintf(w, "Error parsing ‘%s’:\n", parseErr.Path)
		renderer := report.Renderer{Colorize: isatty.IsTerminal(w.Fd())}
		_ = renderer.Render(w, parseErr.Diagnostics)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
