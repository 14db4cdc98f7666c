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
	"testing"

	"github.com/sprocketworks/gremlin/internal/syntax"
)

func TestReturnOperatorNilSubstitution(t *testing.T) {
	op := syntax.NewReturnOperator()

	rs := &ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent("x")}}
	if !op.CanMutate(rs) {
		t.Fatal("CanMutate() = false, want true")
	}

	variants := op.Mutate(rs)
	if len(variants) != 1 {
		t.Fatalf("got %d variants, want 1", len(variants))
	}
	got := variants[0].Replacement.(*ast.ReturnStmt)
	id, ok := got.Results[0].(*ast.Ident)
	if !ok || id.Name != "nil" {
		t.Errorf("Results[0] = %#v, want the identifier nil", got.Results[0])
	}

	// Original untouched.
	if rs.Results[0].(*ast.Ident).Name != "x" {
		t.Error("original ReturnStmt mutated in place")
	}
}

func TestReturnOperatorBooleanInvert(t *testing.T) {
	op := syntax.NewReturnOperator()

	cases := []struct {
		name string
		want string
	}{
		{"true", "false"},
		{"false", "true"},
	}
	for _, tc := range cases {
		rs := &ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent(tc.name)}}
		if !op.CanMutate(rs) {
			t.Fatalf("CanMutate() = false for return %s", tc.name)
		}
		variants := op.Mutate(rs)
		if len(variants) != 1 {
			t.Fatalf("got %d variants, want 1", len(variants))
		}
		got := variants[0].Replacement.(*ast.ReturnStmt).Results[0].(*ast.Ident)
		if got.Name != tc.want {
			t.Errorf("Name = %q, want %q", got.Name, tc.want)
		}
	}
}

func TestReturnOperatorRejectsNilAndMultiValue(t *testing.T) {
	op := syntax.NewReturnOperator()

	nilReturn := &ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent("nil")}}
	if op.CanMutate(nilReturn) {
		t.Error("CanMutate() = true for `return nil`, want false")
	}

	multi := &ast.ReturnStmt{Results: []ast.Expr{ast.NewIdent("x"), ast.NewIdent("err")}}
	if op.CanMutate(multi) {
		t.Error("CanMutate() = true for multi-value return, want false")
	}

	empty := &ast.ReturnStmt{}
	if op.CanMutate(empty) {
		t.Error("CanMutate() = true for bare return, want false")
	}
}
