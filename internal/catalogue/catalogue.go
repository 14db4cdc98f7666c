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

// Package catalogue holds the flat, ordered list of Gremlin records a run
// produces, together with a path → ids secondary index. It has no logic
// of its own beyond construction: Build is a pure function of the
// instrument package's assigned ids, so the catalogue is stable across
// runs over identical input.
package catalogue

import (
	"go/ast"
	"go/token"
	"sort"

	"github.com/sprocketworks/gremlin/internal/instrument"
)

// Gremlin is one specific, id-bearing mutation: a location, the operator
// that produced it, a human-readable description, and the two syntax-tree
// fragments involved.
type Gremlin struct {
	ID          string
	Path        string
	Line        int
	Column      int
	Operator    string
	Description string
	Original    ast.Node
	Mutated     ast.Node
}

// Catalogue is the immutable result of a single Build call: every Gremlin
// found in a run, in deterministic id order, plus the path index the
// orchestrator and runner both need.
type Catalogue struct {
	gremlins []Gremlin
	byID     map[string]int
	byPath   map[string][]string
}

// Build turns instrument's dense-id assignments into a Catalogue. fset
// resolves each assignment's token.Pos into a line/column; it must be the
// same FileSet the assignments' positions were recorded against.
func Build(fset *token.FileSet, assigned []instrument.Assigned) Catalogue {
	c := Catalogue{
		gremlins: make([]Gremlin, 0, len(assigned)),
		byID:     make(map[string]int, len(assigned)),
		byPath:   make(map[string][]string),
	}

	for _, a := range assigned {
		pos := fset.Position(a.Point.Pos)
		g := Gremlin{
			ID:          a.ID,
			Path:        a.Path,
			Line:        pos.Line,
			Column:      pos.Column,
			Operator:    a.Operator,
			Description: a.Variant.Description,
			Original:    a.Point.Node,
			Mutated:     a.Variant.Replacement,
		}
		c.byID[g.ID] = len(c.gremlins)
		c.gremlins = append(c.gremlins, g)
		c.byPath[g.Path] = append(c.byPath[g.Path], g.ID)
	}

	return c
}

// All returns every Gremlin in id order.
func (c Catalogue) All() []Gremlin {
	return c.gremlins
}

// Len returns the total number of gremlins in the catalogue.
func (c Catalogue) Len() int {
	return len(c.gremlins)
}

// Get returns the Gremlin with the given id, if present.
func (c Catalogue) Get(id string) (Gremlin, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Gremlin{}, false
	}

	return c.gremlins[i], true
}

// ByPath returns every gremlin id found in path, in discovery order.
func (c Catalogue) ByPath(path string) []string {
	return c.byPath[path]
}

// Paths returns every source path with at least one gremlin, sorted
// lexicographically.
func (c Catalogue) Paths() []string {
	paths := make([]string, 0, len(c.byPath))
	for p := range c.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}
