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

// arithmeticAlternatives lists, for each arithmetic token, every other
// token it can be replaced with, mirroring comparisonAlternatives: +
// mutates to each of -, *, / in turn rather than to a single paired
// swap, since a strong assertion on one alternative (e.g. a+b mutated to
// a*b) says nothing about whether the suite would also catch a-b or
// a/b. Go has a single division token (unlike languages distinguishing
// integer floor division from true division, or a dedicated
// exponentiation operator), so mod (REM) reduces to one alternative,
// its Go floor-division equivalent.
var arithmeticAlternatives = map[token.Token][]token.Token{
	token.ADD: {token.SUB, token.MUL, token.QUO},
	token.SUB: {token.ADD, token.MUL, token.QUO},
	token.MUL: {token.QUO, token.ADD, token.SUB},
	token.QUO: {token.MUL, token.ADD, token.SUB},
	token.REM: {token.QUO},
}

type arithmeticOperator struct{}

// NewArithmeticOperator returns the operator that substitutes one
// arithmetic operator for another (+ becomes -, * or /, and so on).
func NewArithmeticOperator() Operator {
	return arithmeticOperator{}
}

func (arithmeticOperator) Name() string { return "arithmetic" }

func (arithmeticOperator) Description() string {
	return "substitutes an arithmetic operator for one of its alternatives (e.g. + becomes -, *, or /)"
}

func (arithmeticOperator) CanMutate(node ast.Node) bool {
	be, ok := node.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	_, ok = arithmeticAlternatives[be.Op]

	return ok
}

func (arithmeticOperator) Mutate(node ast.Node) []Variant {
	be := node.(*ast.BinaryExpr)
	alts, ok := arithmeticAlternatives[be.Op]
	if !ok {
		return nil
	}

	variants := make([]Variant, 0, len(alts))
	for _, alt := range alts {
		clone := *be
		clone.Op = alt
		variants = append(variants, Variant{
			Operator:    "arithmetic",
			Description: fmt.Sprintf("changed %s to %s", be.Op, alt),
			Replacement: &clone,
		})
	}

	return variants
}
