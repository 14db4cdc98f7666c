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
	"go/format"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/instrument"
)

// writeInstrumentedTree copies mod's whole source tree into destRoot, then
// overwrites every file in paths that carries at least one assigned
// mutation with its rewritten form, and writes one generated activation
// file per package directory that received a mutation.
func writeInstrumentedTree(
	fset *token.FileSet,
	mod gomodule.GoModule,
	paths []string,
	files map[string]*ast.File,
	assignedByPath map[string][]instrument.Assigned,
	destRoot string,
) error {
	if err := copyTree(mod.Root, destRoot); err != nil {
		return err
	}

	pkgDirs := make(map[string]string, len(paths))

	for _, p := range paths {
		assigned, ok := assignedByPath[p]
		if !ok {
			continue
		}
		file := files[p]
		instrument.Rewrite(file, assigned)

		dst := filepath.Join(destRoot, mod.CallingDir, p)
		if err := writeGoFile(fset, file, dst); err != nil {
			return err
		}

		dir := filepath.Dir(dst)
		pkgDirs[dir] = file.Name.Name
	}

	for dir, pkgName := range pkgDirs {
		activation := filepath.Join(dir, instrument.ActivationFileName)
		if err := os.WriteFile(activation, instrument.ActivationSource(pkgName), 0o644); err != nil { //nolint:gosec
			return err
		}
	}

	return nil
}

func writeGoFile(fset *token.FileSet, file *ast.File, dst string) error {
	//nolint:gosec // dst is internally constructed under the scratch directory
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return format.Node(f, fset, file)
}

// copyTree recursively copies every regular file and directory under src
// into dst, the same "whole tree, one worker's private copy" operation
// runner/workdir performs per worker, reused here to seed the single
// instrumented scratch directory every worker then copies from in turn.
func copyTree(src, dst string) error {
	srcFS := os.DirFS(src)

	return fs.WalkDir(srcFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, path)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755) //nolint:gosec
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		return copyFile(filepath.Join(src, path), target, info.Mode())
	})
}

func copyFile(srcPath, dstPath string, mode os.FileMode) error {
	//nolint:gosec // srcPath is internally discovered, not user input
	s, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil { //nolint:gosec
		return err
	}

	//nolint:gosec // dstPath is internally constructed, not user input
	d, err := os.OpenFile(dstPath, os.O_CREATE|os.O_RDWR|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	_, err = io.Copy(d, s)

	return err
}
