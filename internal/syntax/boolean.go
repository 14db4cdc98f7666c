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
	"go/ast"
	"go/token"
)

// logicalSwap inverts a logical connective: && becomes ||, || becomes &&.
var logicalSwap = map[token.Token]token.Token{
	token.LAND: token.LOR,
	token.LOR:  token.LAND,
}

type booleanOperator struct{}

// NewBooleanOperator returns the operator that inverts boolean literals
// (true/false), logical connectives (&&/||), and unwraps a negation
// (!x becomes x).
func NewBooleanOperator() Operator {
	return booleanOperator{}
}

func (booleanOperator) Name() string { return "boolean" }

func (booleanOperator) Description() string {
	return "inverts a boolean literal, a logical connective, or unwraps a negation"
}

func (booleanOperator) CanMutate(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.Ident:
		return n.Name == "true" || n.Name == "false"
	case *ast.BinaryExpr:
		_, ok := logicalSwap[n.Op]

		return ok
	case *ast.UnaryExpr:
		return n.Op == token.NOT
	default:
		return false
	}
}

func (booleanOperator) Mutate(node ast.Node) []Variant {
	switch n := node.(type) {
	case *ast.Ident:
		inverted := "false"
		if n.Name == "false" {
			inverted = "true"
		}
		clone := *n
		clone.Name = inverted

		return []Variant{{
			Operator:    "boolean",
			Description: "inverted boolean literal " + n.Name + " to " + inverted,
			Replacement: &clone,
		}}
	case *ast.BinaryExpr:
		swapped, ok := logicalSwap[n.Op]
		if !ok {
			return nil
		}
		clone := *n
		clone.Op = swapped

		return []Variant{{
			Operator:    "boolean",
			Description: "inverted logical connective",
			Replacement: &clone,
		}}
	case *ast.UnaryExpr:
		if n.Op != token.NOT {
			return nil
		}

		return []Variant{{
			Operator:    "boolean",
			Description: "removed negation",
			Replacement: n.X,
		}}
	default:
		return nil
	}
}
