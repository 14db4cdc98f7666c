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

// Package workdir manages the per-worker, isolated copies of the module
// tree a runner executes gremlins against, so concurrent workers never
// write to the same source tree at once.
package workdir

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sprocketworks/gremlin/internal/log"
)

// Dealer hands out a private working directory per worker identifier,
// reusing the same directory for repeated calls with the same idf.
type Dealer interface {
	Get(idf string) (string, error)
	Clean()
	WorkDir() string
}

// CachedDealer is the Dealer implementation: the first Get for a given
// worker identifier copies the whole source tree into a fresh temp
// directory; every later call with that identifier returns the same path.
type CachedDealer struct {
	mutex   *sync.RWMutex
	cache   map[string]string
	workDir string
	srcDir  string
}

// NewCachedDealer instantiates a CachedDealer rooted at workDir, copying
// from srcDir on first use.
func NewCachedDealer(workDir, srcDir string) *CachedDealer {
	return &CachedDealer{
		mutex:   &sync.RWMutex{},
		cache:   make(map[string]string),
		workDir: workDir,
		srcDir:  srcDir,
	}
}

// Get returns the working directory for idf, creating and populating it
// with a full copy of srcDir on first use.
func (cd *CachedDealer) Get(idf string) (string, error) {
	if dstDir, ok := cd.fromCache(idf); ok {
		return dstDir, nil
	}

	dstDir, err := os.MkdirTemp(cd.workDir, "wd-*")
	if err != nil {
		return "", err
	}
	if err := filepath.Walk(cd.srcDir, cd.copyTo(dstDir)); err != nil {
		return "", err
	}

	cd.setCache(idf, dstDir)

	return dstDir, nil
}

// WorkDir returns the root directory new per-worker copies are created
// under.
func (cd *CachedDealer) WorkDir() string {
	return cd.workDir
}

// Clean removes every directory handed out so far.
func (cd *CachedDealer) Clean() {
	for _, v := range cd.cache {
		if err := os.RemoveAll(v); err != nil {
			log.Errorf("impossible to remove temporary folder %s: %s\n", v, err)
		}
	}
	cd.cache = make(map[string]string)
}

func (cd *CachedDealer) fromCache(idf string) (string, bool) {
	cd.mutex.RLock()
	defer cd.mutex.RUnlock()
	dstDir, ok := cd.cache[idf]

	return dstDir, ok
}

func (cd *CachedDealer) setCache(idf, folder string) {
	cd.mutex.Lock()
	defer cd.mutex.Unlock()
	cd.cache[idf] = folder
}

func (cd *CachedDealer) copyTo(dstDir string) filepath.WalkFunc {
	return func(srcPath string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(cd.srcDir, srcPath)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		return copyPath(srcPath, filepath.Join(dstDir, relPath), info)
	}
}

func copyPath(srcPath, dstPath string, info fs.FileInfo) error {
	switch mode := info.Mode(); {
	case mode.IsDir():
		if err := os.Mkdir(dstPath, mode); err != nil && !os.IsExist(err) {
			return err
		}
	case mode.IsRegular():
		return doCopy(srcPath, dstPath, mode)
	}

	return nil
}

func doCopy(srcPath, dstPath string, fileMode fs.FileMode) error {
	//nolint:gosec // srcPath is internally discovered, not user input
	s, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	//nolint:gosec // dstPath is internally constructed, not user input
	d, err := os.OpenFile(dstPath, os.O_CREATE|os.O_RDWR, fileMode)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	_, err = io.Copy(d, s)

	return err
}
