/*
 * Copyright 2022 The Gremlins Authors
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

package report

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/hako/durafmt"

	"github.com/sprocketworks/gremlin/internal/aggregate"
	"github.com/sprocketworks/gremlin/internal/configuration"
	"github.com/sprocketworks/gremlin/internal/log"
	"github.com/sprocketworks/gremlin/internal/report/internal"
	"github.com/sprocketworks/gremlin/internal/store"
)

var (
	fgRed      = color.New(color.FgRed).SprintFunc()
	fgGreen    = color.New(color.FgGreen).SprintFunc()
	fgHiGreen  = color.New(color.FgHiGreen).SprintFunc()
	fgHiBlack  = color.New(color.FgHiBlack).SprintFunc()
	fgHiYellow = color.New(color.FgYellow).SprintFunc()
)

// Results is everything Do needs to render one run: the module name, how
// long the run took, the run-wide score, the per-file breakdown, the
// severity-ranked survivors, and the full per-gremlin record list the
// file-output option serializes. Quality-gate assessment already happened
// in the orchestrator by the time Do sees this - Do only renders.
type Results struct {
	Module       string
	Elapsed      time.Duration
	Score        aggregate.Score
	ByFile       map[string]aggregate.Score
	TopSurvivors []aggregate.Survivor
	Records      []aggregate.Record
}

type reportStatus struct {
	results Results
	elapsed *durafmt.Durafmt
}

func newReport(results Results) (*reportStatus, bool) {
	if results.Score.Total == 0 {
		return nil, false
	}

	return &reportStatus{
		results: results,
		elapsed: durafmt.Parse(results.Elapsed).LimitFirstN(2),
	}, true
}

func (r *reportStatus) reportFindings() {
	score := r.results.Score
	zapped := fgHiGreen(score.Zapped)
	survived := fgRed(score.Survived)
	timeout := fgGreen(score.Timeout)
	errored := fgHiBlack(score.Error)

	log.Infoln("")
	log.Infof("Mutation testing completed in %s\n", r.elapsed.String())
	log.Infof("Zapped: %s, Survived: %s\n", zapped, survived)
	log.Infof("Timeout: %s, Error: %s\n", timeout, errored)
	log.Infof("Mutation score: %.2f%%\n", score.Percentage())

	r.survivorsReport()
	r.fileReport()
}

func (r *reportStatus) survivorsReport() {
	if len(r.results.TopSurvivors) == 0 {
		return
	}

	log.Infoln("")
	log.Infoln("Top surviving gremlins:")
	for _, s := range r.results.TopSurvivors {
		status := fgRed(store.StatusSurvived)
		log.Infof("%s%s %s at %s:%d\n", padding(string(store.StatusSurvived)), status, s.Operator, s.Path, s.Line)
	}
}

func (r *reportStatus) fileReport() {
	output := configuration.Get[string](configuration.UnleashOutputKey)
	if output == "" {
		return
	}

	byPath := make(map[string][]internal.Mutation)
	for _, rec := range r.results.Records {
		byPath[rec.Path] = append(byPath[rec.Path], internal.Mutation{
			ID:       rec.GremlinID,
			Operator: rec.Operator,
			Status:   string(rec.Status),
			Line:     rec.Line,
			Column:   rec.Column,
		})
	}

	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make([]internal.OutputFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, internal.OutputFile{Filename: p, Mutations: byPath[p]})
	}

	score := r.results.Score
	mutantsCoverage := float64(0)
	if score.Total > 0 {
		mutantsCoverage = float64(score.Total-score.Survived) / float64(score.Total) * 100
	}

	result := internal.OutputResult{
		GoModule:           r.results.Module,
		MutationScore:      score.Percentage(),
		MutantsCoverage:    mutantsCoverage,
		GremlinsTotal:      score.Total,
		GremlinsZapped:     score.Zapped,
		GremlinsSurvived:   score.Survived,
		GremlinsTimeout:    score.Timeout,
		GremlinsError:      score.Error,
		ElapsedTime:        r.elapsed.Duration().Seconds(),
		OperatorStatistics: operatorStatistics(r.results.Records),
		Files:              files,
	}

	jsonResult, _ := json.Marshal(result)
	f, err := os.Create(output)
	if err != nil {
		log.Errorf("impossible to write file: %s\n", err)

		return
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	if _, err := f.Write(jsonResult); err != nil {
		log.Errorf("impossible to write file: %s\n", err)
	}
}

func operatorStatistics(records []aggregate.Record) map[string]int {
	stats := make(map[string]int)
	for _, rec := range records {
		stats[rec.Operator]++
	}

	return stats
}

// Do generates the report for a completed run's Results.
// This function uses the log package in gremlins to write to the
// chosen io.Writer, so it is necessary to call log.Init before
// the report generation.
func Do(results Results) {
	rep, ok := newReport(results)
	if !ok {
		log.Infoln("\nNo results to report.")

		return
	}
	rep.reportFindings()
}

// Gremlin logs one aggregate.Record.
// It reports the record's status, operator and position.
// This function uses the log package in gremlins to write to the
// chosen io.Writer, so it is necessary to call log.Init before
// the report generation.
func Gremlin(rec aggregate.Record) {
	status := string(rec.Status)
	switch rec.Status {
	case store.StatusZapped:
		status = fgHiGreen(rec.Status)
	case store.StatusSurvived:
		status = fgRed(rec.Status)
	case store.StatusTimeout:
		status = fgGreen(rec.Status)
	case store.StatusError:
		status = fgHiBlack(rec.Status)
	}
	log.Infof("%s%s %s at %s:%d\n", padding(string(rec.Status)), status, rec.Operator, rec.Path, rec.Line)
}

func padding(s string) string {
	var pad string
	padLen := 12 - len(s)
	for i := 0; i < padLen; i++ {
		pad += " "
	}

	return pad
}
