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

func TestBoundaryOperator(t *testing.T) {
	op := syntax.NewBoundaryOperator()

	lit := &ast.BasicLit{Kind: token.INT, Value: "18"}
	if !op.CanMutate(lit) {
		t.Fatal("CanMutate() = false, want true for int literal")
	}

	variants := op.Mutate(lit)
	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(variants))
	}

	want := []string{"17", "19"}
	for i, v := range variants {
		got, ok := v.Replacement.(*ast.BasicLit)
		if !ok {
			t.Fatalf("variant %d: Replacement is not *ast.BasicLit", i)
		}
		if got.Value != want[i] {
			t.Errorf("variant %d: Value = %q, want %q", i, got.Value, want[i])
		}
	}

	if lit.Value != "18" {
		t.Errorf("original literal mutated in place: Value = %q", lit.Value)
	}
}

func TestBoundaryOperatorRejectsNonInt(t *testing.T) {
	op := syntax.NewBoundaryOperator()

	cases := []ast.Node{
		&ast.BasicLit{Kind: token.STRING, Value: `"18"`},
		&ast.BasicLit{Kind: token.FLOAT, Value: "18.0"},
		&ast.Ident{Name: "n"},
	}
	for _, n := range cases {
		if op.CanMutate(n) {
			t.Errorf("CanMutate(%T) = true, want false", n)
		}
	}
}
