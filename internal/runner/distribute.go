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

package runner

import "sort"

// Strategy selects how batches are ordered before being enqueued onto the
// shared workerpool.Pool queue.
type Strategy int

const (
	// RoundRobin dispatches batches in catalogue discovery order, letting
	// the pool's shared queue spread them across workers as each one frees
	// up.
	RoundRobin Strategy = iota

	// Weighted dispatches the heaviest batches (by selected-test count)
	// first, so a slow batch starts as early as possible instead of being
	// left to strand the last free worker near the end of a run.
	Weighted
)

// Distribute orders batches for dispatch according to strategy. It never
// mutates the input slice.
func Distribute(batches []Batch, strategy Strategy) []Batch {
	ordered := make([]Batch, len(batches))
	copy(ordered, batches)

	if strategy == Weighted {
		sort.SliceStable(ordered, func(i, j int) bool {
			return len(ordered[i].Tests) > len(ordered[j].Tests)
		})
	}

	return ordered
}
