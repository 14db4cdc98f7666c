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
	"fmt"
	"os"
	"path/filepath"

	"github.com/sprocketworks/gremlin/internal/coverage"
	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/hasher"
	"github.com/sprocketworks/gremlin/internal/log"
)

// CollectPerTestCoverage builds a coverage.Map by running, for every test
// id in testsByPkg, a dedicated `go test -run ^test$ -coverprofile`
// invocation scoped to that test's package. The Go toolchain has no
// single-invocation way to attribute a coverage profile to an individual
// test, so the coverage-collection phase the specification describes as
// "run once" is realized here as one subprocess per enumerable test,
// batched by package only in the sense that they all reuse the same
// workDir and module context.
func CollectPerTestCoverage(cmdContext listExecContext, workDir string, mod gomodule.GoModule, testsByPkg map[string][]string) *coverage.Map {
	m := coverage.NewMap()
	for pkg, tests := range testsByPkg {
		for _, test := range tests {
			profile, err := runSingleTestCoverage(cmdContext, workDir, mod, pkg, test)
			if err != nil {
				log.Warnf("could not collect coverage for %s: %s\n", test, err)

				continue
			}
			m.Add(test, profile.Locations())
		}
	}

	return m
}

func runSingleTestCoverage(cmdContext listExecContext, workDir string, mod gomodule.GoModule, pkg, test string) (coverage.Profile, error) {
	file := filepath.Join(workDir, fmt.Sprintf("cov-%s", hasher.HashBytes([]byte(pkg+"#"+test))))

	cmd := cmdContext("go", "test", "-run", runRegexp([]string{test}), "-coverprofile", file, pkg)
	cmd.Dir = workDir
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(file) }()

	//nolint:gosec // file is internally constructed under workDir
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return coverage.ParseProfile(f, mod.Name)
}
