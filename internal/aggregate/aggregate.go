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

// Package aggregate folds per-gremlin outcomes into the run-wide Score,
// a per-file breakdown, and a severity-ranked survivors list, the same
// three views the teacher's report package renders.
package aggregate

import (
	"sort"
	"sync"

	"github.com/sprocketworks/gremlin/internal/catalogue"
	"github.com/sprocketworks/gremlin/internal/store"
)

// Score tallies one run's gremlins by terminal status.
type Score struct {
	Total    int
	Zapped   int
	Survived int
	Timeout  int
	Error    int
}

// Percentage is the mutation score: zapped and timed-out gremlins both
// count as caught in the numerator, the non-strict reading that treats a
// timeout as evidence the test suite noticed something was wrong.
func (s Score) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Zapped+s.Timeout) / float64(s.Total) * 100
}

func (s *Score) add(status store.Status) {
	s.Total++
	switch status {
	case store.StatusZapped:
		s.Zapped++
	case store.StatusSurvived:
		s.Survived++
	case store.StatusTimeout:
		s.Timeout++
	case store.StatusError:
		s.Error++
	}
}

// Survivor is a gremlin that lived, carried for the top-survivors report.
type Survivor struct {
	GremlinID   string
	Path        string
	Line        int
	Operator    string
	Description string
}

// severityRank orders operators by how much a surviving mutation of that
// kind should worry a reader. comparison and boolean operators invert or
// weaken a decision outright; boundary and return shift it by one step;
// arithmetic is the mildest, most-often-benign category. This table has
// no teacher analogue (an Open Question resolution, recorded in
// DESIGN.md): the teacher has no operator taxonomy of its own to rank.
var severityRank = map[string]int{
	"comparison": 3,
	"boolean":    3,
	"boundary":   2,
	"return":     2,
	"arithmetic": 1,
}

// Record is one gremlin's final position and outcome, the unit the
// report package renders into the per-file JSON findings list.
type Record struct {
	GremlinID   string
	Path        string
	Line        int
	Column      int
	Operator    string
	Description string
	Status      store.Status
}

// Aggregator accumulates outcomes from concurrent runner workers behind a
// single mutex, the same "every writer blocks briefly" model the
// teacher's report package uses for its own mutant-collecting slice.
type Aggregator struct {
	mu        sync.Mutex
	score     Score
	byFile    map[string]*Score
	survivors []Survivor
	records   []Record
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{byFile: make(map[string]*Score)}
}

// Add folds one gremlin's outcome into the run-wide score, its file's
// breakdown, and (if it survived) the survivors list.
func (a *Aggregator) Add(g catalogue.Gremlin, status store.Status) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.score.add(status)

	fb, ok := a.byFile[g.Path]
	if !ok {
		fb = &Score{}
		a.byFile[g.Path] = fb
	}
	fb.add(status)

	a.records = append(a.records, Record{
		GremlinID:   g.ID,
		Path:        g.Path,
		Line:        g.Line,
		Column:      g.Column,
		Operator:    g.Operator,
		Description: g.Description,
		Status:      status,
	})

	if status == store.StatusSurvived {
		a.survivors = append(a.survivors, Survivor{
			GremlinID:   g.ID,
			Path:        g.Path,
			Line:        g.Line,
			Operator:    g.Operator,
			Description: g.Description,
		})
	}
}

// Score returns the run-wide tally.
func (a *Aggregator) Score() Score {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.score
}

// ByFile returns a snapshot of the per-file score breakdown.
func (a *Aggregator) ByFile() map[string]Score {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]Score, len(a.byFile))
	for path, s := range a.byFile {
		out[path] = *s
	}

	return out
}

// Records returns every gremlin outcome recorded so far, in the order
// Add was called, for the file-output report to group by path.
func (a *Aggregator) Records() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Record, len(a.records))
	copy(out, a.records)

	return out
}

// TopSurvivors returns up to n survivors ordered by descending operator
// severity, ties broken by file path then line for a deterministic
// report that reads top-to-bottom the way a file does.
func (a *Aggregator) TopSurvivors(n int) []Survivor {
	a.mu.Lock()
	sorted := make([]Survivor, len(a.survivors))
	copy(sorted, a.survivors)
	a.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := severityRank[sorted[i].Operator], severityRank[sorted[j].Operator]
		if ri != rj {
			return ri > rj
		}
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}

		return sorted[i].Line < sorted[j].Line
	})

	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}

	return sorted
}
