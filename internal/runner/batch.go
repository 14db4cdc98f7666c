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

import (
	"strings"

	"github.com/sprocketworks/gremlin/internal/hasher"
)

// DefaultBatchSize is the largest number of gremlins grouped into one
// batch (one worker job) when batch mode is enabled.
const DefaultBatchSize = 10

// Item is one gremlin queued for dispatch, already resolved to the
// package it lives in and the specificity-ordered tests selected to
// cover it.
type Item struct {
	GremlinID string
	Pkg       string
	Tests     []string
}

// Batch is one unit of dispatch: every gremlin in it shares a package and
// an identical covering-test set, so the same `go test -run` regex serves
// all of them; it is still run once per gremlin, one ACTIVE_GREMLIN value
// at a time.
type Batch struct {
	Key        string
	Pkg        string
	GremlinIDs []string
	Tests      []string
}

// GroupIntoBatches groups items sharing a (package, covering-test-set)
// signature together, then splits any group larger than size into
// size-capped chunks (size <= 0 uses DefaultBatchSize). Group order
// follows first appearance in items, so batch dispatch order matches
// catalogue discovery order.
func GroupIntoBatches(items []Item, size int) []Batch {
	if size <= 0 {
		size = DefaultBatchSize
	}

	type groupKey struct{ pkg, testSig string }
	groups := make(map[groupKey][]Item)
	var order []groupKey
	for _, it := range items {
		k := groupKey{pkg: it.Pkg, testSig: strings.Join(it.Tests, ",")}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}

	var batches []Batch
	for _, k := range order {
		group := groups[k]
		for i := 0; i < len(group); i += size {
			end := i + size
			if end > len(group) {
				end = len(group)
			}
			chunk := group[i:end]
			ids := make([]string, len(chunk))
			for j, it := range chunk {
				ids[j] = it.GremlinID
			}
			batches = append(batches, Batch{
				Key:        hasher.Combine(k.pkg, k.testSig),
				Pkg:        k.pkg,
				GremlinIDs: ids,
				Tests:      chunk[0].Tests,
			})
		}
	}

	return batches
}
