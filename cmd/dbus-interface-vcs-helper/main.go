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

// The dbus-interface-vcs-helper tool maintains an API signature database in
// a project's git repository, so any checkout can check the D-Bus interfaces
// of a release for compatibility with past signed releases.
//
// Signatures are stored as git notes: each introspection XML file gets a
// notes ref beneath refs/notes/dbus/api holding, for each release tag, the
// ID of the file's blob in that release. The dist and install commands
// populate the database; check compares two releases, or a release against
// the work tree, file by file.
//
// The helper supports out-of-tree builds and bare repositories, and exits
// successfully when no git directory exists at all, so it can run
// unconditionally from build rules, including inside an extracted release
// tarball. A .deviate.yml file at the root of the work tree sets the
// default warning policy for check.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/dbusdev/deviate"
	"github.com/dbusdev/deviate/compare"
	"github.com/dbusdev/deviate/report"
)

type globalOptions struct {
	Silent      bool   `long:"silent" description:"Silence all non-error output"`
	Git         string `long:"git" value-name:"COMMAND" default:"git" description:"Path to the git command"`
	GitDir      string `long:"git-dir" value-name:"PATH" description:"Path to the git directory in the project checkout"`
	GitWorkTree string `long:"git-work-tree" value-name:"PATH" description:"Path to the git work tree for the project"`
	GitRemote   string `long:"git-remote" value-name:"REMOTE" default:"origin" description:"git remote to push notes to"`
	GitRefs     string `long:"git-refs" value-name:"REF-PATH" default:"notes/dbus/api" description:"Path beneath refs/ where the git notes holding the API signature database are stored"`
	NoPush      bool   `long:"no-push" description:"Do not push the API signature database to the remote repository"`

	Dist    *distCommand    `command:"dist" description:"Store the current API signatures against the latest signed tag"`
	Check   *checkCommand   `command:"check" description:"Check for API differences between two tagged releases"`
	Install *installCommand `command:"install" description:"Store API signatures for every existing signed tag"`
}

type distCommand struct {
	IgnoreExisting bool `long:"ignore-existing" description:"Skip API files that already have a signature for the tag"`

	Args struct {
		Files []string `positional-arg-name:"API-FILE" required:"1" description:"D-Bus API XML files to store"`
	} `positional-args:"yes"`
}

type checkCommand struct {
	Warnings      string `long:"diff-warnings" value-name:"CATEGORY,…" default:"all" description:"Comma-separated warning categories and codes to enable"`
	FatalWarnings bool   `long:"fatal-warnings" description:"Treat warnings as fatal"`

	Args struct {
		OldRef string `positional-arg-name:"OLD-REF" description:"Old ref to compare; defaults to the latest signed tag"`
		NewRef string `positional-arg-name:"NEW-REF" description:"New ref to compare; defaults to the work tree"`
	} `positional-args:"yes"`
}

// configFile is the optional project policy file at the root of the work
// tree. It sets check's defaults, so the compatibility policy travels with
// the repository rather than with every CI invocation.
const configFile = ".deviate.yml"

type repoConfig struct {
	Warnings      string `yaml:"warnings"`
	FatalWarnings bool   `yaml:"fatal-warnings"`
}

// loadConfig reads the work tree's policy file. A missing file is an empty
// policy.
func loadConfig(workTree string) (repoConfig, error) {
	var cfg repoConfig
	text, err := os.ReadFile(filepath.Join(workTree, configFile))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(text, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", configFile, err)
	}
	return cfg, nil
}

type installCommand struct {
	Args struct {
		Files []string `positional-arg-name:"API-FILE" required:"1" description:"D-Bus API XML files to install"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	var opts globalOptions
	cli := flags.NewParser(&opts, flags.Default)
	if _, err := cli.ParseArgs(argv); err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		return 1
	}

	// The git directory is the data store; without one there is nothing to
	// do. Exiting successfully keeps `make distcheck` working inside an
	// extracted release tarball.
	gitDir := opts.GitDir
	if gitDir == "" {
		gitDir = filepath.Join(opts.GitWorkTree, ".git")
	}
	if info, err := os.Stat(gitDir); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "error: Could not find git directory ‘%s’. Skipping.\n", gitDir)
		return 0
	}

	db := &signatureDB{
		git: &gitRepo{
			command:  opts.Git,
			dir:      opts.GitDir,
			workTree: opts.GitWorkTree,
		},
		refs:   opts.GitRefs,
		remote: opts.GitRemote,
		noPush: opts.NoPush,
		silent: opts.Silent,
	}

	switch cli.Active.Name {
	case "dist":
		return opts.Dist.run(db)
	case "check":
		return opts.Check.run(db)
	case "install":
		return opts.Install.run(db)
	}
	return 1
}

// run stores the work tree's API signatures against the latest signed tag.
func (d *distCommand) run(db *signatureDB) int {
	tag, err := db.git.latestTag()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: Failed to find latest git tag.")
		return 1
	}

	for _, file := range d.Args.Files {
		basename := filepath.Base(file)

		if d.IgnoreExisting && db.hasNote(tag, basename) {
			fmt.Printf("%s: Ignored XML file ‘%s’; already has a note\n", tag, basename)
			continue
		}

		blob, err := db.git.blobID(tag, file)
		if err == nil {
			err = db.addNote(tag, basename, blob)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: Failed to store notes for API file ‘%s’ and git tag ‘%s’.\n", file, tag)
			return 1
		}

		fmt.Printf("%s: Added note ‘%s’ for XML file ‘%s’\n", tag, blob, basename)
	}

	if err := db.push(); err != nil {
		fmt.Fprintf(os.Stderr, "error: Failed to push notes to remote ‘%s’.\n", db.remote)
		return 1
	}
	return 0
}

// run checks for API differences between two refs. Missing refs default to
// the latest signed tag on the old side and the work tree on the new side.
func (c *checkCommand) run(db *signatureDB) int {
	oldRef, newRef := c.Args.OldRef, c.Args.NewRef
	if oldRef != "" && !db.git.hasRef(oldRef) {
		fmt.Fprintf(os.Stderr, "error: Invalid OLD-REF ‘%s’\n", oldRef)
		return 1
	}
	if newRef != "" && !db.git.hasRef(newRef) {
		fmt.Fprintf(os.Stderr, "error: Invalid NEW-REF ‘%s’\n", newRef)
		return 1
	}

	// Command-line options override the work tree's policy file.
	cfg, err := loadConfig(db.git.workTree)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if c.Warnings == "all" && cfg.Warnings != "" {
		c.Warnings = cfg.Warnings
	}
	c.FatalWarnings = c.FatalWarnings || cfg.FatalWarnings

	enabled, err := compare.ExpandWarnings(c.Warnings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if err := db.fetch(); err != nil {
		// The local copy of the database may still be usable.
		fmt.Fprintln(os.Stderr, "error: Failed to fetch latest refs.")
	}

	if oldRef == "" {
		oldRef, err = db.git.latestTag()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error: Failed to find latest git tag.")
			return 1
		}
	}

	basenames, err := db.list()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: Failed to get ref list.")
		return 1
	}

	// Report every file, but exit with the status of the first failure.
	status := 0
	for _, basename := range basenames {
		if db.silent {
			fmt.Printf(" DIFF      %s\n", basename)
		} else {
			fmt.Printf("Comparing %s\n", basename)
		}

		if code := c.compareOne(db, basename, oldRef, newRef, enabled); status == 0 && code != 0 {
			status = code
		}
	}
	return status
}

// compareOne diffs one file's signature between the two refs, reading the
// new version from the work tree when newRef is empty.
func (c *checkCommand) compareOne(db *signatureDB, basename, oldRef, newRef string, enabled []string) int {
	oldInput := deviate.Input{
		DisplayName: basename,
		Source:      strings.NewReader(db.note(oldRef, basename)),
	}

	var newInput deviate.Input
	if newRef == "" {
		filename, err := db.workTreeFile(basename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: Failed to find ‘%s’ in the work tree.\n", basename)
			return 1
		}
		newInput = deviate.Input{Path: filename, DisplayName: basename}
	} else {
		newInput = deviate.Input{
			DisplayName: basename,
			Source:      strings.NewReader(db.note(newRef, basename)),
		}
	}

	differ := &deviate.Differ{EnabledWarnings: enabled}
	out, err := differ.Diff(oldInput, newInput)
	if err != nil {
		reportParseFailure(err)
		return 1
	}

	renderer := report.Renderer{Colorize: isatty.IsTerminal(os.Stdout.Fd())}
	_ = renderer.Render(os.Stdout, out)

	if c.FatalWarnings {
		return len(out)
	}
	return 0
}

// run populates the signature database for every existing signed tag.
func (c *installCommand) run(db *signatureDB) int {
	tags, err := db.git.output("tag")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: Failed to get tag list.")
		return 1
	}

	for _, tag := range strings.Split(tags, "\n") {
		if tag == "" {
			continue
		}

		added := false
		for _, file := range c.Args.Files {
			basename := filepath.Base(file)

			blob, err := db.git.blobID(tag, file)
			if err != nil || blob == "" {
				// Not every tagged release carries every file.
				continue
			}
			if db.addNote(tag, basename, blob) != nil {
				continue
			}

			fmt.Printf("%s: Added note ‘%s’ for XML file ‘%s’\n", tag, blob, basename)
			added = true
		}

		if !added {
			fmt.Printf("%s: Nothing to do\n", tag)
		}
	}

	if err := db.push(); err != nil {
		fmt.Fprintf(os.Stderr, "error: Failed to push notes to remote ‘%s’.\n", db.remote)
		return 1
	}
	return 0
}

// reportParseFailure writes a parse failure to standard error: the collected
// diagnostics when the document parsed badly, the bare error when it could
// not be read at all.
func reportParseFailure(err error) {
	var parseErr *deviate.ParseError
	if errors.As(err, &parseErr) && len(parseErr.Diagnostics) > 0 {
		fmt.Fprintf(os.Stderr, "Error parsing ‘%s’:\n", parseErr.Path)
		renderer := report.Renderer{Colorize: isatty.IsTerminal(os.Stderr.Fd())}
		_ = renderer.Render(os.Stderr, parseErr.Diagnostics)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

// signatureDB is the API signature database: one git notes ref per XML file
// basename, holding the file's blob ID as a note on each tagged release.
type signatureDB struct {
	git    *gitRepo
	refs   string // path beneath refs/ holding the notes
	remote string
	noPush bool
	silent bool
}

// ref returns the notes ref recording basename's signatures.
func (db *signatureDB) ref(basename string) string {
	return "refs/" + db.refs + "/" + basename
}

// addNote stores blob as basename's signature for the tagged release.
// Adding over an existing note fails.
func (db *signatureDB) addNote(tag, basename, blob string) error {
	_, err := db.git.quiet("notes", "--ref", db.ref(basename), "add", "-C", blob, tag)
	return err
}

// hasNote reports whether basename already has a signature for the tag.
func (db *signatureDB) hasNote(tag, basename string) bool {
	return db.git.check("notes", "--ref", db.ref(basename), "show", tag)
}

// note returns basename's stored signature at ref, or an empty string when
// there is none.
func (db *signatureDB) note(ref, basename string) string {
	contents, _ := db.git.quiet("notes", "--ref", db.ref(basename), "show", ref)
	return contents
}

// workTreeFile resolves basename to its path in the git work tree.
func (db *signatureDB) workTreeFile(basename string) (string, error) {
	name, err := db.git.output("ls-files", "--full-name", "*/"+basename)
	if err != nil {
		return "", err
	}
	if db.git.workTree != "" {
		name = filepath.Join(db.git.workTree, name)
	}
	return name, nil
}

// list returns the basenames of every file in the database.
func (db *signatureDB) list() ([]string, error) {
	out, err := db.git.output("for-each-ref", "--format=%(refname)", "refs/"+db.refs)
	if err != nil {
		return nil, err
	}
	var basenames []string
	for _, ref := range strings.Split(out, "\n") {
		if ref != "" {
			basenames = append(basenames, path.Base(ref))
		}
	}
	return basenames, nil
}

// fetch brings the local copy of the database up to date with the remote.
func (db *signatureDB) fetch() error {
	refspec := fmt.Sprintf("refs/%s/*:refs/%s/*", db.refs, db.refs)
	_, err := db.git.output("fetch", db.remote, refspec)
	return err
}

// push publishes the database to the remote, or prints the command that
// would when pushing is disabled.
func (db *signatureDB) push() error {
	refspec := "refs/" + db.refs + "/*"
	if db.noPush {
		fmt.Printf("Run this command to push the API signature database:\n   %s\n",
			db.git.commandLine("push", db.remote, refspec))
		return nil
	}
	_, err := db.git.output("push", db.remote, refspec)
	return err
}

// gitRepo runs git subcommands against one repository.
type gitRepo struct {
	command  string // the git executable
	dir      string // --git-dir, when not the default
	workTree string // --work-tree, when not the default
}

func (g *gitRepo) argv(subcommand string, args []string) []string {
	argv := make([]string, 0, len(args)+5)
	if g.dir != "" {
		argv = append(argv, "--git-dir", g.dir)
	}
	if g.workTree != "" {
		argv = append(argv, "--work-tree", g.workTree)
	}
	argv = append(argv, subcommand)
	return append(argv, args...)
}

// output runs a git subcommand and returns its trimmed standard output. The
// child's standard error passes through to the caller's.
func (g *gitRepo) output(subcommand string, args ...string) (string, error) {
	cmd := exec.Command(g.command, g.argv(subcommand, args)...)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

// quiet is output with the child's standard error suppressed.
func (g *gitRepo) quiet(subcommand string, args ...string) (string, error) {
	out, err := exec.Command(g.command, g.argv(subcommand, args)...).Output()
	return strings.TrimSpace(string(out)), err
}

// check runs a git subcommand for its exit status alone.
func (g *gitRepo) check(subcommand string, args ...string) bool {
	return exec.Command(g.command, g.argv(subcommand, args)...).Run() == nil
}

// commandLine renders a git invocation for display.
func (g *gitRepo) commandLine(subcommand string, args ...string) string {
	return strings.Join(append([]string{g.command}, g.argv(subcommand, args)...), " ")
}

// latestTag names the most recently created tag.
func (g *gitRepo) latestTag() (string, error) {
	revs, err := g.output("rev-list", "--tags", "--max-count=1")
	if err != nil {
		return "", err
	}
	return g.output("describe", append([]string{"--tags"}, strings.Fields(revs)...)...)
}

// hasRef reports whether ref resolves in the repository.
func (g *gitRepo) hasRef(ref string) bool {
	return g.check("rev-parse", "--verify", ref)
}

// blobID returns the object ID of file's blob in the annotated tag's tree.
func (g *gitRepo) blobID(tag, file string) (string, error) {
	return g.output("rev-parse", "--verify", "--quiet", tag+"^{tag}:"+file)
}
