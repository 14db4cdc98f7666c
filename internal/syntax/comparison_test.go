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

package syntax_test

import (
	"go/ast"
	"go/token"
	"testing"

	"github.com/sprocketworks/gremlin/internal/syntax"
)

func TestComparisonOperator(t *testing.T) {
	testCases := []struct {
		op       token.Token
		wantOps  []token.Token
		canApply bool
	}{
		{token.LSS, []token.Token{token.LEQ, token.GTR}, true},
		{token.LEQ, []token.Token{token.LSS, token.GTR}, true},
		{token.GTR, []token.Token{token.GEQ, token.LSS}, true},
		{token.GEQ, []token.Token{token.GTR, token.LSS}, true},
		{token.EQL, []token.Token{token.NEQ}, true},
		{token.NEQ, []token.Token{token.EQL}, true},
		{token.ADD, nil, false},
	}

	op := syntax.NewComparisonOperator()
	if op.Name() != "comparison" {
		t.Fatalf("Name() = %q, want %q", op.Name(), "comparison")
	}

	for _, tc := range testCases {
		t.Run(tc.op.String(), func(t *testing.T) {
			node := &ast.BinaryExpr{Op: tc.op, X: ast.NewIdent("a"), Y: ast.NewIdent("b")}

			if got := op.CanMutate(node); got != tc.canApply {
				t.Fatalf("CanMutate() = %v, want %v", got, tc.canApply)
			}
			if !tc.canApply {
				return
			}

			variants := op.Mutate(node)
			if len(variants) != len(tc.wantOps) {
				t.Fatalf("got %d variants, want %d", len(variants), len(tc.wantOps))
			}
			for i, v := range variants {
				be, ok := v.Replacement.(*ast.BinaryExpr)
				if !ok {
					t.Fatalf("variant %d: Replacement is not *ast.BinaryExpr", i)
				}
				if be.Op != tc.wantOps[i] {
					t.Errorf("variant %d: Op = %s, want %s", i, be.Op, tc.wantOps[i])
				}
				if v.Operator != "comparison" {
					t.Errorf("variant %d: Operator = %q, want %q", i, v.Operator, "comparison")
				}
			}

			// The original node must be left untouched.
			if node.Op != tc.op {
				t.Errorf("original node mutated in place: Op = %s, want %s", node.Op, tc.op)
			}
		})
	}
}
