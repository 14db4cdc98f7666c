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

package syntax

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
)

type boundaryOperator struct{}

// NewBoundaryOperator returns the operator that nudges an integer literal
// off the boundary it marks: n becomes n-1, then n becomes n+1. Unlike
// the other built-ins it targets the literal itself, not the comparison
// that gives it meaning — a literal only qualifies when it is an operand
// of a comparison, which is parent context the finder supplies, not a
// judgement CanMutate can make on the node alone.
func NewBoundaryOperator() Operator {
	return boundaryOperator{}
}

func (boundaryOperator) Name() string { return "boundary" }

func (boundaryOperator) Description() string {
	return "shifts an integer literal compared against a boundary by one (n becomes n-1, then n+1)"
}

// CanMutate reports whether node is an integer literal. The finder is
// responsible for only presenting literals that sit in comparison
// position; called on any other node it always returns false.
func (boundaryOperator) CanMutate(node ast.Node) bool {
	lit, ok := node.(*ast.BasicLit)

	return ok && lit.Kind == token.INT
}

func (boundaryOperator) Mutate(node ast.Node) []Variant {
	lit := node.(*ast.BasicLit)
	if lit.Kind != token.INT {
		return nil
	}
	n, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return nil
	}

	deltas := []int64{-1, 1}
	variants := make([]Variant, 0, len(deltas))
	for _, d := range deltas {
		clone := *lit
		clone.Value = strconv.FormatInt(n+d, 10)
		variants = append(variants, Variant{
			Operator:    "boundary",
			Description: fmt.Sprintf("changed boundary literal %s to %s", lit.Value, clone.Value),
			Replacement: &clone,
		})
	}

	return variants
}
