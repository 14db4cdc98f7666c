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

import "fmt"

// ActivationFileName is the generated file written once per instrumented
// package, declaring the activation key and the dispatch helper every
// mutation point in that package calls into.
const ActivationFileName = "zz_gremlin_activation.go"

// activationSource is the ActivationFileName template. ACTIVE_GREMLIN is
// read exactly once, at package-init time, into a plain string: a design
// note in the specification permits trading the "read the environment at
// every mutation point" model for a "read once into a static slot, compare
// by string equality thereafter" model, which is what a compiled language
// without a runtime able to patch code in place naturally wants. The
// comparison has no observable side effect and, when ACTIVE_GREMLIN is
// unset, gremlinActiveID is "" — a value no assigned gremlin id ever
// equals, so every dispatch falls through to the original.
const activationSource = `// Code generated by gremlin. DO NOT EDIT.

package %s

import "os"

var gremlinActiveID = os.Getenv("ACTIVE_GREMLIN")

// gremlinPick returns mutated if active equals id, else original. T is
// inferred from mutated and original, which always share the static type
// of the expression being mutated, since every built-in operator
// produces a same-shape replacement.
//
// Both arguments are evaluated before the call, so a mutation point whose
// operands have side effects must not dispatch through gremlinPick: the
// instrument package only does so for boundary (a side-effect-free
// integer literal) and arithmetic (a type gremlin can't name without a
// type checker, see DESIGN.md). Every bool-typed point (comparison,
// boolean) dispatches through a lazy &&/|| chain built directly in the
// rewritten source instead, so only the selected operand ever runs.
func gremlinPick[T any](active, id string, mutated, original T) T {
	if active == id {
		return mutated
	}
	return original
}
`

// ActivationSource renders the generated activation file for package pkg.
func ActivationSource(pkg string) []byte {
	return []byte(fmt.Sprintf(activationSource, pkg))
}
