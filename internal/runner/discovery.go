/*
 * Copyright 2024 The Gremlin Authors
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

package runner

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sprocketworks/gremlin/internal/gomodule"
)

type listExecContext = func(name string, args ...string) *exec.Cmd

// ListTests enumerates every test function in mod, grouped by the import
// path of the package it lives in. It is the "currently enumerable test
// set" the coverage Selector over-approximates against for tests added
// since the last coverage-collection pass.
func ListTests(cmdContext listExecContext, mod gomodule.GoModule) (map[string][]string, error) {
	pkgs, err := listPackages(cmdContext, mod)
	if err != nil {
		return nil, fmt.Errorf("impossible to list packages: %w", err)
	}

	result := make(map[string][]string, len(pkgs))
	for _, pkg := range pkgs {
		tests, err := listPackageTests(cmdContext, pkg)
		if err != nil {
			return nil, fmt.Errorf("impossible to list tests for %s: %w", pkg, err)
		}
		if len(tests) > 0 {
			result[pkg] = tests
		}
	}

	return result, nil
}

func listPackages(cmdContext listExecContext, mod gomodule.GoModule) ([]string, error) {
	path := "./..."
	if mod.CallingDir != "." && mod.CallingDir != "" {
		path = fmt.Sprintf("./%s/...", mod.CallingDir)
	}

	var buf bytes.Buffer
	cmd := cmdContext("go", "list", path)
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return nil, err
	}

	var pkgs []string
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			pkgs = append(pkgs, line)
		}
	}

	return pkgs, sc.Err()
}

// listPackageTests runs `go test -list` for pkg. The command's exit
// status is ignored: a package whose tests fail to build still prints
// nothing useful on stdout, which is exactly what an empty result means
// here - "no tests to dispatch against".
func listPackageTests(cmdContext listExecContext, pkg string) ([]string, error) {
	var buf bytes.Buffer
	cmd := cmdContext("go", "test", "-list", ".*", pkg)
	cmd.Stdout = &buf
	_ = cmd.Run()

	var tests []string
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || isSummaryLine(line) {
			continue
		}
		tests = append(tests, line)
	}

	return tests, sc.Err()
}

func isSummaryLine(line string) bool {
	return strings.HasPrefix(line, "ok ") ||
		strings.HasPrefix(line, "? ") ||
		strings.HasPrefix(line, "FAIL") ||
		strings.HasPrefix(line, "---")
}
