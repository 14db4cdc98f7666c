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

import "go/ast"

// Operator is the capability protocol every mutation operator implements.
// It never mutates in place: CanMutate only inspects a node, and Mutate
// returns brand new, detached replacement nodes.
type Operator interface {
	// Name is the stable, lowercase identifier used in configuration keys
	// and reports, e.g. "comparison".
	Name() string

	// Description is a short human-readable summary of what this
	// operator does, surfaced by `gremlin operators`.
	Description() string

	// CanMutate reports whether this operator has at least one Variant
	// for the given node.
	CanMutate(node ast.Node) bool

	// Mutate returns every Variant this operator can produce for node.
	// It is only called after CanMutate has returned true.
	Mutate(node ast.Node) []Variant
}
