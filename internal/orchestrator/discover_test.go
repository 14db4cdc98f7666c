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

package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprocketworks/gremlin/internal/configuration"
	"github.com/sprocketworks/gremlin/internal/exclusion"
	"github.com/sprocketworks/gremlin/internal/gomodule"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("package x\n"), 0o644))
}

func TestDiscoverSourcesFindsGoFilesSortedAndFiltersTests(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.go")
	writeFile(t, root, "a.go")
	writeFile(t, root, "a_test.go")
	writeFile(t, root, "pkg/c.go")

	mod := gomodule.GoModule{Name: "example.com", Root: root, CallingDir: "."}
	rules, err := exclusion.New()
	require.NoError(t, err)

	paths, err := discoverSources(mod, rules)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.go", "b.go", "pkg/c.go"}, paths)
}

func TestDiscoverSourcesSkipsGeneratedActivationFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go")
	writeFile(t, root, "zz_gremlin_activation.go")

	mod := gomodule.GoModule{Name: "example.com", Root: root, CallingDir: "."}
	rules, err := exclusion.New()
	require.NoError(t, err)

	paths, err := discoverSources(mod, rules)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.go"}, paths)
}

func TestDiscoverSourcesHonorsExclusionRules(t *testing.T) {
	configuration.Reset()
	defer configuration.Reset()
	configuration.Set(configuration.UnleashExcludeFilesKey, []string{"vendor/.*"})

	root := t.TempDir()
	writeFile(t, root, "a.go")
	writeFile(t, root, "vendor/dep.go")

	mod := gomodule.GoModule{Name: "example.com", Root: root, CallingDir: "."}
	rules, err := exclusion.New()
	require.NoError(t, err)

	paths, err := discoverSources(mod, rules)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.go"}, paths)
}

func TestPkgImportPathDerivesFromCallingDirAndModuleName(t *testing.T) {
	mod := gomodule.GoModule{Name: "example.com/mod", Root: "/root", CallingDir: "."}

	assert.Equal(t, "example.com/mod", pkgImportPath(mod, "a.go"))
	assert.Equal(t, "example.com/mod/pkg", pkgImportPath(mod, "pkg/c.go"))
}

func TestPkgImportPathIncludesCallingDir(t *testing.T) {
	mod := gomodule.GoModule{Name: "example.com/mod", Root: "/root", CallingDir: "sub"}

	assert.Equal(t, "example.com/mod/sub", pkgImportPath(mod, "a.go"))
	assert.Equal(t, "example.com/mod/sub/pkg", pkgImportPath(mod, "pkg/c.go"))
}
