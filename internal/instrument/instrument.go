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
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/sprocketworks/gremlin/internal/syntax"
)

// Rewrite splices every assigned gremlin for this file into the tree in
// place, replacing each mutation point with a dispatch on the
// package-level activation key. assigned must all share the same file
// (callers partition Assigned by Path before calling). Findings that
// share the same node (multiple variants of the same operator, such as
// comparison's several alternatives) collapse into a single dispatch at
// that node.
//
// Replacement happens in the Apply post callback, innermost node first,
// so that a point nested inside another point's node (a boundary literal
// that is itself an operand of a comparison) is already instrumented by
// the time its enclosing node is dispatched. The pre callback always
// descends: a point is never skipped just because its enclosing node is
// also a point.
func Rewrite(file *ast.File, assigned []Assigned) {
	byNode := make(map[ast.Node][]Assigned, len(assigned))
	var order []ast.Node
	for _, a := range assigned {
		if _, seen := byNode[a.Point.Node]; !seen {
			order = append(order, a.Point.Node)
		}
		byNode[a.Point.Node] = append(byNode[a.Point.Node], a)
	}
	if len(order) == 0 {
		return
	}

	astutil.Apply(file, nil, func(c *astutil.Cursor) bool {
		node := c.Node()
		if node == nil {
			return true
		}
		group, ok := byNode[node]
		if !ok {
			return true
		}

		switch group[0].Point.Kind {
		case syntax.KindExpr:
			if expr, ok := node.(ast.Expr); ok {
				c.Replace(exprDispatch(expr, group))
			}
		case syntax.KindStmt:
			if stmt, ok := node.(ast.Stmt); ok {
				c.Replace(stmtDispatch(stmt, group))
			}
		}

		return true
	})
}

// isBoolOperator reports whether op always produces a bool-typed
// expression: comparison (relational operators) and boolean (literals,
// &&/||, negation) never change the static type of the node they mutate,
// and that type is always bool. Every other expression operator
// (boundary, arithmetic) can mutate onto a non-bool, statically unknown
// type, so it falls back to the eager gremlinPick dispatch below.
func isBoolOperator(op string) bool {
	switch op {
	case "comparison", "boolean":
		return true
	default:
		return false
	}
}

// exprDispatch builds the dispatch expression for a single mutation
// point. Comparison and boolean variants are always bool-typed, so they
// dispatch through a short-circuiting &&/|| chain that evaluates exactly
// one of the candidate expressions — the one the active gremlin selects,
// or the original if none is active — preserving round-trip neutrality
// even when an operand has side effects (e.g. foo() < bar()).
//
// Every other operator keeps the eager gremlinPick[T] dispatch: its
// result type isn't known without a type checker, so the call-site can't
// write the literal func() T thunk laziness would require. Boundary only
// ever mutates a side-effect-free integer literal, so eagerness there
// costs nothing; arithmetic is the one case where an operand with side
// effects could still be double-evaluated under an inactive gremlin — see
// DESIGN.md.
func exprDispatch(original ast.Expr, group []Assigned) ast.Expr {
	if isBoolOperator(group[0].Operator) {
		return exprDispatchLazy(original, group)
	}

	return exprDispatchEager(original, group)
}

// exprDispatchLazy nests one (active == id && mutated) || (active != id &&
// rest) short circuit per variant, innermost-first. && binds tighter than
// ||, so at most the one selected operand, or the original at the bottom,
// is ever evaluated.
func exprDispatchLazy(original ast.Expr, group []Assigned) ast.Expr {
	result := original
	for i := len(group) - 1; i >= 0; i-- {
		mutated, ok := resyncedReplacement(group[i])
		if !ok {
			continue
		}
		id := group[i].ID
		result = &ast.BinaryExpr{
			Op: token.LOR,
			X: &ast.BinaryExpr{
				Op: token.LAND,
				X:  activeEquals(id),
				Y:  mutated,
			},
			Y: &ast.BinaryExpr{
				Op: token.LAND,
				X:  activeNotEquals(id),
				Y:  result,
			},
		}
	}

	return result
}

// exprDispatchEager nests one gremlinPick call per variant around
// original, innermost-first, so that whichever id is active (at most one
// ever is) short-circuits to its variant and every other call falls
// through.
func exprDispatchEager(original ast.Expr, group []Assigned) ast.Expr {
	result := original
	for i := len(group) - 1; i >= 0; i-- {
		mutated, ok := resyncedReplacement(group[i])
		if !ok {
			continue
		}
		result = &ast.CallExpr{
			Fun: ast.NewIdent("gremlinPick"),
			Args: []ast.Expr{
				ast.NewIdent("gremlinActiveID"),
				stringLit(group[i].ID),
				mutated,
				result,
			},
		}
	}

	return result
}

// resyncedReplacement returns a's variant replacement with its immediate
// children patched to the live, already-rewritten versions of those
// children. A variant's Replacement is built once at Find time, before
// any nested point is instrumented, so a clone that shares operand
// pointers with its original node (every BinaryExpr swap, and the
// UnaryExpr NOT-removal) would otherwise still reference the
// pre-instrumentation subtree and silently drop the nested gremlin.
func resyncedReplacement(a Assigned) (ast.Expr, bool) {
	mutated, ok := a.Variant.Replacement.(ast.Expr)
	if !ok {
		return nil, false
	}

	switch current := a.Point.Node.(type) {
	case *ast.BinaryExpr:
		if be, ok := mutated.(*ast.BinaryExpr); ok {
			be.X, be.Y = current.X, current.Y
		}
	case *ast.UnaryExpr:
		if a.Operator == "boolean" {
			mutated = current.X
		}
	}

	return mutated, true
}

func activeEquals(id string) ast.Expr {
	return &ast.BinaryExpr{X: ast.NewIdent("gremlinActiveID"), Op: token.EQL, Y: stringLit(id)}
}

func activeNotEquals(id string) ast.Expr {
	return &ast.BinaryExpr{X: ast.NewIdent("gremlinActiveID"), Op: token.NEQ, Y: stringLit(id)}
}

// stmtDispatch builds a switch on the activation key with one case per
// variant and the original statement as the default. original is the
// live node, so any nested expression point inside it (e.g. an
// arithmetic point inside a return's result) is already instrumented by
// the time this runs.
func stmtDispatch(original ast.Stmt, group []Assigned) ast.Stmt {
	cases := make([]ast.Stmt, 0, len(group)+1)
	for _, a := range group {
		mutated, ok := a.Variant.Replacement.(ast.Stmt)
		if !ok {
			continue
		}
		cases = append(cases, &ast.CaseClause{
			List: []ast.Expr{stringLit(a.ID)},
			Body: []ast.Stmt{mutated},
		})
	}
	cases = append(cases, &ast.CaseClause{
		List: nil,
		Body: []ast.Stmt{original},
	})

	return &ast.SwitchStmt{
		Tag:  ast.NewIdent("gremlinActiveID"),
		Body: &ast.BlockStmt{List: cases},
	}
}

func stringLit(s string) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}
