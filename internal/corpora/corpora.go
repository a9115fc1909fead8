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

// Package corpora runs table-driven tests whose tables live in the file
// system: a corpus is a directory of introspection documents, each paired
// with golden files recording the outputs the test expects for it.
package corpora

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes one directory of test cases.
type Corpus struct {
	// Root is the test data directory, relative to the file that calls
	// [Corpus.Run].
	Root string

	// Refresh names an environment variable. When the variable is set, test
	// cases matching its glob value rewrite their golden files with the
	// observed outputs instead of comparing against them, and the run fails
	// so refreshed goldens cannot slip through CI unseen.
	Refresh string

	// Extension (without a dot) marks the files under Root that define test
	// cases.
	Extension string

	// Outputs lists the golden files kept next to each test case. A missing
	// golden file stands for empty expected output.
	Outputs []Output

	// Test runs one test case and returns its outputs, one per element of
	// Outputs. path is the case's slash-separated path under Root; text is
	// the case file's contents.
	Test func(t *testing.T, path, text string) []string
}

// Output describes one golden file kept alongside every test case.
type Output struct {
	// Extension is appended to the test case's file name: with a case
	// "recover/node.xml", the extension "stderr" names the golden file
	// "recover/node.xml.stderr".
	Extension string

	// Compare checks an observed output against the golden file's contents
	// and returns an error message, or "" when they match. Nil compares
	// byte-for-byte and renders mismatches as a unified diff.
	Compare Compare
}

// Compare is a comparison function between an observed and a golden output.
// It returns "" when they match.
type Compare func(got, want string) string

// Run enumerates the corpus and runs each case as a subtest named by its
// path under Root.
func (c Corpus) Run(t *testing.T) {
	root := filepath.Join(callerDir(0), c.Root)

	var cases []string
	err := fs.WalkDir(os.DirFS(root), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == c.Extension {
			cases = append(cases, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("corpora: walking %q: %v", root, err)
	}

	refresh := c.refreshPattern(t)

	for _, name := range cases {
		full := filepath.Join(root, filepath.FromSlash(name))
		t.Run(name, func(t *testing.T) {
			text, err := os.ReadFile(full)
			if err != nil {
				t.Fatalf("corpora: reading %q: %v", full, err)
			}

			results := c.Test(t, name, string(text))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: test returned %d outputs, want %d", len(results), len(c.Outputs))
			}

			refreshCase := false
			if refresh != "" {
				refreshCase, _ = doublestar.Match(refresh, name)
			}

			for i, output := range c.Outputs {
				golden := full + "." + output.Extension
				if refreshCase {
					c.rewrite(t, golden, results[i])
					continue
				}

				want, err := os.ReadFile(golden)
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("corpora: reading golden file %q: %v", golden, err)
					continue
				}

				compare := output.Compare
				if compare == nil {
					compare = diffCompare
				}
				if msg := compare(results[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %q:\n%s", golden, msg)
				}
			}
		})
	}
}

// refreshPattern reads the refresh variable and fails the run when a refresh
// was requested, so the rewritten goldens get reviewed.
func (c Corpus) refreshPattern(t *testing.T) string {
	if c.Refresh == "" {
		return ""
	}
	pattern := os.Getenv(c.Refresh)
	if pattern == "" {
		return ""
	}
	if !doublestar.ValidatePattern(pattern) {
		t.Fatalf("corpora: %s is not a valid glob: %q", c.Refresh, pattern)
	}
	t.Logf("corpora: refreshing golden files matching %s=%q", c.Refresh, pattern)
	t.Fail()
	return pattern
}

// rewrite replaces a golden file with the observed output, removing the file
// entirely when the output is empty.
func (c Corpus) rewrite(t *testing.T, golden, text string) {
	var err error
	if text == "" {
		err = os.Remove(golden)
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
	} else {
		err = os.WriteFile(golden, []byte(text), 0o666)
	}
	if err != nil {
		t.Errorf("corpora: refreshing golden file %q: %v", golden, err)
	}
}

// diffCompare is the default comparison: byte equality, with mismatches
// rendered as a colorized unified diff.
func diffCompare(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	// Highlight added and removed lines.
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = "\033[1;92m" + line + "\033[0m"
		case strings.HasPrefix(line, "-"):
			lines[i] = "\033[1;91m" + line + "\033[0m"
		}
	}
	return strings.Join(lines, "\n")
}

// callerDir returns the directory of the test file skip+1 frames up the
// stack.
func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
