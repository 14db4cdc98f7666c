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

// Package instrument walks a parsed Go source file, finds every mutation
// point an enabled operator can act on, and rewrites the file into an
// instrumented copy whose mutations are selected at runtime through a
// process-scoped activation variable.
package instrument

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/sprocketworks/gremlin/internal/syntax"
)

// Finding is one (node, operator) pair discovered in a file, together with
// every Variant that operator produced for that node.
type Finding struct {
	Point    syntax.Point
	Operator string
	Variants []syntax.Variant
}

// Find walks file in pre-order and returns every Finding produced by the
// operators registry yields for name, in registry priority order,
// concatenating all variants a node produces across operators. The
// boundary operator is additionally gated here: it only fires on an
// integer literal that is itself an operand of a comparison expression,
// context the Operator protocol's CanMutate cannot see on its own.
func Find(file *ast.File, registry *syntax.Registry, enabled func(name string) bool) []Finding {
	ops := registry.Ordered(enabled)
	if len(ops) == 0 {
		return nil
	}
	comparison, _ := registry.Get("comparison")

	var findings []Finding
	astutil.Apply(file, func(c *astutil.Cursor) bool {
		node := c.Node()
		if node == nil {
			return true
		}

		for _, op := range ops {
			if op.Name() == "boundary" && !isBoundaryOperand(c, comparison) {
				continue
			}
			if !op.CanMutate(node) {
				continue
			}
			variants := op.Mutate(node)
			if len(variants) == 0 {
				continue
			}
			findings = append(findings, Finding{
				Point:    pointFor(node),
				Operator: op.Name(),
				Variants: variants,
			})
		}

		return true
	}, nil)

	return findings
}

// isBoundaryOperand reports whether the cursor's current node is an
// operand of a comparison expression, the only position the boundary
// operator is allowed to mutate.
func isBoundaryOperand(c *astutil.Cursor, comparison syntax.Operator) bool {
	if comparison == nil {
		return false
	}
	parent, ok := c.Parent().(*ast.BinaryExpr)

	return ok && comparison.CanMutate(parent)
}

func pointFor(node ast.Node) syntax.Point {
	kind := syntax.KindExpr
	if _, ok := node.(ast.Stmt); ok {
		kind = syntax.KindStmt
	}

	return syntax.Point{Kind: kind, Node: node, Pos: node.Pos()}
}
