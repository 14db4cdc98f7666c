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

// order is the fixed priority order operators are consulted in for a
// given node. Comparison and boundary operators are consulted before
// arithmetic, since a binary expression's relational token is a more
// informative mutation than its arithmetic one when both could apply to
// sibling nodes of the same expression tree.
var order = []string{"comparison", "boundary", "boolean", "return", "arithmetic"}

// Registry holds every known Operator, keyed by name.
type Registry struct {
	operators map[string]Operator
}

// NewRegistry builds a Registry containing every built-in operator.
func NewRegistry() *Registry {
	r := &Registry{operators: make(map[string]Operator, len(order))}
	for _, op := range []Operator{
		NewComparisonOperator(),
		NewBoundaryOperator(),
		NewBooleanOperator(),
		NewReturnOperator(),
		NewArithmeticOperator(),
	} {
		r.operators[op.Name()] = op
	}

	return r
}

// Ordered returns every registered Operator whose name is accepted by
// enabled, in the Registry's fixed priority order.
func (r *Registry) Ordered(enabled func(name string) bool) []Operator {
	ops := make([]Operator, 0, len(order))
	for _, name := range order {
		op, ok := r.operators[name]
		if !ok {
			continue
		}
		if enabled == nil || enabled(name) {
			ops = append(ops, op)
		}
	}

	return ops
}

// Get returns the operator registered under name, if any.
func (r *Registry) Get(name string) (Operator, bool) {
	op, ok := r.operators[name]

	return op, ok
}

// Names returns every registered operator name in priority order.
func (r *Registry) Names() []string {
	names := make([]string, len(order))
	copy(names, order)

	return names
}
