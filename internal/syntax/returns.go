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
)

type returnOperator struct{}

// NewReturnOperator returns the operator that mutates a function's return
// statement: a boolean result is inverted, and any other single,
// non-nil result expression is replaced with nil. It is the one
// statement-level (KindStmt) built-in operator; every other built-in
// mutates in expression position. Its reach over a boolean result
// overlaps the boolean operator's own literal-invert case by design —
// the two register on different nodes (the Ident versus the enclosing
// ReturnStmt) and so produce distinct gremlins.
func NewReturnOperator() Operator {
	return returnOperator{}
}

func (returnOperator) Name() string { return "return" }

func (returnOperator) Description() string {
	return "replaces a return result with nil, or inverts a returned boolean"
}

func (returnOperator) CanMutate(node ast.Node) bool {
	rs, ok := node.(*ast.ReturnStmt)
	if !ok || len(rs.Results) != 1 {
		return false
	}

	return returnVariant(rs.Results[0]) != ""
}

func (returnOperator) Mutate(node ast.Node) []Variant {
	rs := node.(*ast.ReturnStmt)
	if len(rs.Results) != 1 {
		return nil
	}
	desc := returnVariant(rs.Results[0])
	if desc == "" {
		return nil
	}

	clone := *rs
	clone.Results = []ast.Expr{replacementResult(rs.Results[0])}

	return []Variant{{
		Operator:    "return",
		Description: desc,
		Replacement: &clone,
	}}
}

// returnVariant reports the description of the mutation that would be
// applied to a single return result, or "" if the result isn't eligible.
func returnVariant(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		switch id.Name {
		case "true":
			return "changed returned true to false"
		case "false":
			return "changed returned false to true"
		case "nil":
			return ""
		}
	}

	return "replaced return value with nil"
}

func replacementResult(e ast.Expr) ast.Expr {
	if id, ok := e.(*ast.Ident); ok {
		switch id.Name {
		case "true":
			clone := *id
			clone.Name = "false"

			return &clone
		case "false":
			clone := *id
			clone.Name = "true"

			return &clone
		}
	}

	return ast.NewIdent("nil")
}
