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

package instrument

import (
	"fmt"

	"github.com/sprocketworks/gremlin/internal/syntax"
)

// Assigned is one gremlin: a single (mutation point, operator, variant)
// triple that has been given a stable, dense id.
type Assigned struct {
	ID       string
	Path     string
	Point    syntax.Point
	Operator string
	Variant  syntax.Variant
}

// AssignIDs concatenates every Finding under every path, in the order
// paths are given, and hands out dense "g001", "g002", … ids. paths must
// already be in the traversal order the catalogue should report — callers
// sort source paths lexicographically before calling this.
func AssignIDs(byPath map[string][]Finding, paths []string) []Assigned {
	var total int
	for _, p := range paths {
		for _, f := range byPath[p] {
			total += len(f.Variants)
		}
	}
	width := len(fmt.Sprintf("%d", total))
	if width < 3 {
		width = 3
	}

	assigned := make([]Assigned, 0, total)
	n := 0
	for _, p := range paths {
		for _, f := range byPath[p] {
			for _, v := range f.Variants {
				n++
				assigned = append(assigned, Assigned{
					ID:       fmt.Sprintf("g%0*d", width, n),
					Path:     p,
					Point:    f.Point,
					Operator: f.Operator,
					Variant:  v,
				})
			}
		}
	}

	return assigned
}
