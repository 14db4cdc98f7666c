/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package coverage gathers a line-coverage Profile by running the host
// test suite once with `go test -coverprofile`, and builds the per-test
// Map and specificity-ordered Selector described in the specification's
// coverage-guided test-selection component.
package coverage

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"golang.org/x/tools/cover"

	"github.com/sprocketworks/gremlin/internal/configuration"
	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/log"
)

type execContext = func(name string, args ...string) *exec.Cmd

// Coverage runs `go test -coverprofile` once against the uninstrumented
// module and parses the resulting profile.
type Coverage struct {
	cmdContext execContext
	workDir    string
	fileName   string
	mod        gomodule.GoModule
}

// Result is the outcome of a Coverage.Run: the parsed Profile plus how
// long the run took. Elapsed is not used to seed the per-gremlin test
// timeout.
type Result struct {
	Profile Profile
	Elapsed time.Duration
}

// New instantiates a Coverage using exec.Command as the execContext,
// actually running the command on the OS.
func New(workdir string, mod gomodule.GoModule) Coverage {
	return NewWithCmd(exec.Command, workdir, mod)
}

// NewWithCmd instantiates a Coverage given a custom execContext, used in
// tests to avoid spawning a real `go test`.
func NewWithCmd(cmdContext execContext, workdir string, mod gomodule.GoModule) Coverage {
	return Coverage{
		cmdContext: cmdContext,
		workDir:    workdir,
		fileName:   "coverage",
		mod:        mod,
	}
}

// Run downloads module dependencies, executes `go test` with coverage
// enabled over the calling directory's subtree (or, in integration mode or
// when called from the module root, the whole module) and parses the
// resulting profile.
func (c Coverage) Run() (Result, error) {
	log.Infoln("Gathering coverage data...")
	start := time.Now()

	if err := c.run(c.cmdContext("go", "mod", "download")); err != nil {
		return Result{}, fmt.Errorf("impossible to download dependencies: %w", err)
	}

	if err := c.run(c.cmdContext("go", c.testArgs()...)); err != nil {
		return Result{}, fmt.Errorf("impossible to execute coverage: %w", err)
	}

	profile, err := c.parseProfile()
	if err != nil {
		return Result{}, fmt.Errorf("an error occurred while generating coverage profile: %w", err)
	}

	return Result{Profile: profile, Elapsed: time.Since(start)}, nil
}

func (c Coverage) testArgs() []string {
	args := []string{"test"}
	if tags := configuration.Get[string](configuration.UnleashTagsKey); tags != "" {
		args = append(args, "-tags", tags)
	}
	if coverpkg := configuration.Get[string](configuration.UnleashCoverPkgKey); coverpkg != "" {
		args = append(args, "-coverpkg", coverpkg)
	}
	args = append(args, "-cover", "-coverprofile", c.filePath(), c.testPath())

	return args
}

func (c Coverage) testPath() string {
	if configuration.Get[bool](configuration.UnleashIntegrationMode) || c.mod.CallingDir == "." || c.mod.CallingDir == "" {
		return "./..."
	}

	return fmt.Sprintf("./%s/...", c.mod.CallingDir)
}

func (c Coverage) filePath() string {
	return fmt.Sprintf("%s/%s", c.workDir, c.fileName)
}

func (c Coverage) run(cmd *exec.Cmd) error {
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

func (c Coverage) parseProfile() (Profile, error) {
	f, err := os.Open(c.filePath()) //nolint:gosec // internally constructed path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ParseProfile(f, c.mod.Name)
}

// ParseProfile parses a `go test -coverprofile` report read from r into a
// Profile, stripping modName's prefix from every file name. Exported so
// the runner package can reuse the same parsing for its per-test,
// coverage-collection subprocess runs when building a Map.
func ParseProfile(r io.Reader, modName string) (Profile, error) {
	profiles, err := cover.ParseProfilesFromReader(r)
	if err != nil {
		return nil, err
	}

	result := make(Profile)
	for _, p := range profiles {
		fn := removeModulePrefix(p.FileName, modName)
		for _, b := range p.Blocks {
			if b.Count == 0 {
				continue
			}
			result[fn] = append(result[fn], Block{
				StartLine: b.StartLine,
				StartCol:  b.StartCol,
				EndLine:   b.EndLine,
				EndCol:    b.EndCol,
			})
		}
	}

	return result, nil
}

func removeModulePrefix(fileName, mod string) string {
	prefix := mod + "/"
	if len(fileName) > len(prefix) && fileName[:len(prefix)] == prefix {
		return fileName[len(prefix):]
	}

	return fileName
}
