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
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/instrument"
	"github.com/sprocketworks/gremlin/internal/syntax"
)

func TestWriteInstrumentedTreeCopiesAndRewrites(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte(
		"package pkg\n\nfunc Compare(a, b int) bool {\n\treturn a > b\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "untouched.go"), []byte("package pkg\n"), 0o644))

	mod := gomodule.GoModule{Name: "example.com", Root: root, CallingDir: "."}
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, filepath.Join(root, "a.go"), nil, parser.ParseComments)
	require.NoError(t, err)

	registry := syntax.NewRegistry()
	findings := instrument.Find(file, registry, func(string) bool { return true })
	byPath := map[string][]instrument.Finding{"a.go": findings}
	assigned := instrument.AssignIDs(byPath, []string{"a.go"})
	require.NotEmpty(t, assigned)

	files := map[string]*ast.File{"a.go": file}
	assignedByPath := map[string][]instrument.Assigned{"a.go": assigned}

	destRoot := t.TempDir()
	err = writeInstrumentedTree(fset, mod, []string{"a.go"}, files, assignedByPath, destRoot)
	require.NoError(t, err)

	rewritten, err := os.ReadFile(filepath.Join(destRoot, "a.go"))
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "gremlinActiveID")

	untouched, err := os.ReadFile(filepath.Join(destRoot, "untouched.go"))
	require.NoError(t, err)
	assert.Equal(t, "package pkg\n", string(untouched))

	activation, err := os.ReadFile(filepath.Join(destRoot, instrument.ActivationFileName))
	require.NoError(t, err)
	assert.Contains(t, string(activation), "package pkg")
	assert.Contains(t, string(activation), "gremlinActiveID")
}

func TestCopyTreePreservesDirectoryStructure(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "f.go"), []byte("package n\n"), 0o644))

	dst := t.TempDir()
	require.NoError(t, copyTree(src, dst))

	got, err := os.ReadFile(filepath.Join(dst, "nested", "f.go"))
	require.NoError(t, err)
	assert.Equal(t, "package n\n", string(got))
}
