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

package coverage

import "sort"

// Location is a (path, line) pair, the granularity coverage is attributed
// at.
type Location struct {
	Path string
	Line int
}

// Map is the inverted index from Location to the set of test ids that
// execute it, built from one coverage-instrumented run per enumerable
// test id. It also tracks each test's total covered-location count, its
// specificity score.
type Map struct {
	tests     map[Location]map[string]struct{}
	footprint map[string]int
	measured  map[string]struct{}
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{
		tests:     make(map[Location]map[string]struct{}),
		footprint: make(map[string]int),
		measured:  make(map[string]struct{}),
	}
}

// Add records that testID executes every location in locs. It is called
// once per test id, with that test's full covered-location set, so that
// Footprint(testID) ends up as its total covered-line count.
func (m *Map) Add(testID string, locs []Location) {
	m.measured[testID] = struct{}{}
	m.footprint[testID] += len(locs)
	for _, loc := range locs {
		set, ok := m.tests[loc]
		if !ok {
			set = make(map[string]struct{})
			m.tests[loc] = set
		}
		set[testID] = struct{}{}
	}
}

// Footprint returns a test's total covered-location count, used to order
// selected tests by ascending specificity.
func (m *Map) Footprint(testID string) int {
	return m.footprint[testID]
}

// IsMeasured reports whether coverage data was successfully collected for
// testID. A false result means the selector must treat it as potentially
// covering everything, per the specification's safe-over-approximation
// rule for tests added after the coverage pass.
func (m *Map) IsMeasured(testID string) bool {
	_, ok := m.measured[testID]

	return ok
}

// CoveringTests returns every test id known to execute loc. The bool is
// false iff no measured test covers loc at all.
func (m *Map) CoveringTests(loc Location) ([]string, bool) {
	set, ok := m.tests[loc]
	if !ok || len(set) == 0 {
		return nil, false
	}
	tests := make([]string, 0, len(set))
	for id := range set {
		tests = append(tests, id)
	}

	return tests, true
}

// Selector computes the ordered, selected test set for a gremlin's
// location, combining Map's per-test coverage with the full set of tests
// the host runner currently enumerates (some of which may postdate the
// coverage pass and so carry no measured footprint).
type Selector struct {
	m        *Map
	allTests []string
}

// NewSelector builds a Selector over m, considering allTests as the
// currently-enumerable test set.
func NewSelector(m *Map, allTests []string) *Selector {
	return &Selector{m: m, allTests: allTests}
}

// Select returns the tests selected for a gremlin at loc, sorted by
// ascending specificity (fewest covered locations first), ties broken
// lexicographically by test id. An empty, non-nil result is impossible:
// Select returns nil when no measured test covers loc and every test in
// allTests was measured, which the caller must treat as "mark survived,
// do not dispatch". Unmeasured tests are selected for every loc.
func (s *Selector) Select(loc Location) []string {
	covering, _ := s.m.CoveringTests(loc)
	selected := make(map[string]struct{}, len(covering))
	for _, id := range covering {
		selected[id] = struct{}{}
	}

	for _, id := range s.allTests {
		if !s.m.IsMeasured(id) {
			// Safe over-approximation: coverage could not be attached to
			// this test, so it might observe any location.
			selected[id] = struct{}{}
		}
	}

	if len(selected) == 0 {
		return nil
	}

	result := make([]string, 0, len(selected))
	for id := range selected {
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool {
		fi, fj := s.m.Footprint(result[i]), s.m.Footprint(result[j])
		if fi != fj {
			return fi < fj
		}

		return result[i] < result[j]
	})

	return result
}
