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

// Package syntax models mutation points over a Go syntax tree and the
// operator protocol used to discover and produce alternative versions of
// a node.
package syntax

import (
	"go/ast"
	"go/token"
)

// Kind distinguishes how a Variant's Replacement must be spliced back into
// the tree it was taken from.
type Kind int

const (
	// KindExpr means the mutation point is an expression and its
	// Replacement is an ast.Expr of the same static shape.
	KindExpr Kind = iota
	// KindStmt means the mutation point is a statement and its
	// Replacement is an ast.Stmt.
	KindStmt
)

// Variant is one alternative rendering of a mutation point, produced by a
// single Operator.
type Variant struct {
	// Operator is the name of the Operator that produced this Variant.
	Operator string
	// Description is a short human-readable description, e.g.
	// "changed < to <=".
	Description string
	// Replacement is the mutated node: the same concrete shape as the
	// node it replaces (an ast.Expr for KindExpr points, an ast.Stmt for
	// KindStmt points), fully detached from the original tree.
	Replacement ast.Node
}

// Point is a single location in the syntax tree where one or more
// operators can produce a Variant.
type Point struct {
	Kind Kind
	Node ast.Node
	Pos  token.Pos
}
