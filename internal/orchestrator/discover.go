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
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sprocketworks/gremlin/internal/exclusion"
	"github.com/sprocketworks/gremlin/internal/gomodule"
)

// discoverSources walks mod's calling directory and returns every
// non-test .go file not matched by rules, relative to that calling
// directory (mod.Root joined with mod.CallingDir), in
// lexicographic order - the traversal order the catalogue's gremlin ids
// are assigned in.
func discoverSources(mod gomodule.GoModule, rules exclusion.Rules) ([]string, error) {
	root := filepath.Join(mod.Root, mod.CallingDir)
	dirFS := os.DirFS(root)

	var paths []string
	err := fs.WalkDir(dirFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		if strings.HasPrefix(path, "zz_gremlin_activation") {
			return nil
		}
		if rules.IsFileExcluded(path) {
			return nil
		}
		paths = append(paths, path)

		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	return paths, nil
}

// pkgImportPath derives the Go import path of the package containing
// relPath (a path relative to mod.CallingDir, as returned by
// discoverSources), given mod's module name.
func pkgImportPath(mod gomodule.GoModule, relPath string) string {
	dir := filepath.Dir(filepath.Join(mod.CallingDir, relPath))
	dir = filepath.ToSlash(dir)
	if dir == "." {
		return mod.Name
	}

	return mod.Name + "/" + dir
}
