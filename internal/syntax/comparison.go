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
)

// comparisonAlternatives lists, for each relational token, every other
// relational token it can be replaced with — in the fixed order gremlins
// are assigned.
var comparisonAlternatives = map[token.Token][]token.Token{
	token.LSS: {token.LEQ, token.GTR},
	token.LEQ: {token.LSS, token.GTR},
	token.GTR: {token.GEQ, token.LSS},
	token.GEQ: {token.GTR, token.LSS},
	token.EQL: {token.NEQ},
	token.NEQ: {token.EQL},
}

type comparisonOperator struct{}

// NewComparisonOperator returns the operator that substitutes a
// relational operator for each of its other relational alternatives.
func NewComparisonOperator() Operator {
	return comparisonOperator{}
}

func (comparisonOperator) Name() string { return "comparison" }

func (comparisonOperator) Description() string {
	return "substitutes a relational operator for one of its alternatives (e.g. >= becomes > or <)"
}

func (comparisonOperator) CanMutate(node ast.Node) bool {
	be, ok := node.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	_, ok = comparisonAlternatives[be.Op]

	return ok
}

func (comparisonOperator) Mutate(node ast.Node) []Variant {
	be := node.(*ast.BinaryExpr)
	alts, ok := comparisonAlternatives[be.Op]
	if !ok {
		return nil
	}

	variants := make([]Variant, 0, len(alts))
	for _, alt := range alts {
		clone := *be
		clone.Op = alt
		variants = append(variants, Variant{
			Operator:    "comparison",
			Description: fmt.Sprintf("changed %s to %s", be.Op, alt),
			Replacement: &clone,
		})
	}

	return variants
}
