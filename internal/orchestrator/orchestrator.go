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

// Package orchestrator drives one end-to-end mutation testing run,
// composing every other internal package the way the teacher's
// cmd/unleash.go run() function and internal/engine.Engine.Run did
// together, generalized to the gremlin/catalogue/store architecture.
package orchestrator

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/sprocketworks/gremlin/internal/aggregate"
	"github.com/sprocketworks/gremlin/internal/catalogue"
	"github.com/sprocketworks/gremlin/internal/configuration"
	"github.com/sprocketworks/gremlin/internal/coverage"
	"github.com/sprocketworks/gremlin/internal/diff"
	"github.com/sprocketworks/gremlin/internal/exclusion"
	"github.com/sprocketworks/gremlin/internal/execution"
	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/hasher"
	"github.com/sprocketworks/gremlin/internal/instrument"
	"github.com/sprocketworks/gremlin/internal/log"
	"github.com/sprocketworks/gremlin/internal/runner"
	"github.com/sprocketworks/gremlin/internal/runner/workdir"
	"github.com/sprocketworks/gremlin/internal/store"
	"github.com/sprocketworks/gremlin/internal/syntax"
)

// RunConfig is everything a Run invocation needs that cannot be read
// straight out of viper via the configuration package: the resolved
// module under test. Every other knob (workers, batch size, cache dir,
// thresholds, enabled operators, dry-run, diff ref, exclusions) is read
// from configuration directly, the same way the teacher's
// NewExecutorDealer reads its own options out of viper rather than
// threading them through a parameter struct. ListCmd and RunCmd default
// to exec.Command and exec.CommandContext; tests override them the same
// way internal/runner's DealerOption does, to avoid shelling out to a
// real `go` binary.
type RunConfig struct {
	Mod     gomodule.GoModule
	ListCmd func(name string, args ...string) *exec.Cmd
	RunCmd  func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// Results is the final, presentation-ready outcome of a run.
type Results struct {
	Module       string
	Elapsed      time.Duration
	Score        aggregate.Score
	ByFile       map[string]aggregate.Score
	TopSurvivors []aggregate.Survivor
	Records      []aggregate.Record
	Catalogue    catalogue.Catalogue
}

// Run executes the 8-step mutation testing protocol once, end to end.
func Run(ctx context.Context, cfg RunConfig) (Results, error) {
	start := time.Now()
	mod := cfg.Mod

	listCmd := cfg.ListCmd
	if listCmd == nil {
		listCmd = exec.Command
	}

	// Step 1: discover sources.
	rules, err := exclusion.New()
	if err != nil {
		return Results{}, fmt.Errorf("impossible to parse exclusion rules: %w", err)
	}
	paths, err := discoverSources(mod, rules)
	if err != nil {
		return Results{}, fmt.Errorf("impossible to discover sources: %w", err)
	}
	if len(paths) == 0 {
		return Results{}, fmt.Errorf("no gremlins: no source files found in %s", mod.CallingDir)
	}

	changes, err := diff.New()
	if err != nil {
		return Results{}, fmt.Errorf("impossible to compute diff: %w", err)
	}

	// Step 2: hash sources.
	sourceHashes := make(map[string]string, len(paths))
	for _, p := range paths {
		h, err := hasher.HashFile(filepath.Join(mod.Root, mod.CallingDir, p))
		if err != nil {
			return Results{}, fmt.Errorf("impossible to hash %s: %w", p, err)
		}
		sourceHashes[p] = h
	}

	scratchRoot, err := os.MkdirTemp("", "gremlin-run-*")
	if err != nil {
		return Results{}, fmt.Errorf("impossible to create scratch directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratchRoot) }()

	instrumentedRoot := filepath.Join(scratchRoot, "src")
	runRoot := filepath.Join(scratchRoot, "run")
	if err := os.MkdirAll(runRoot, 0o755); err != nil {
		return Results{}, fmt.Errorf("impossible to create run directory: %w", err)
	}

	// Step 3: collect coverage once, against the uninstrumented tree, and
	// build the per-test coverage map. Failing to list the tests aborts the
	// whole run; a test whose coverage cannot be collected is only warned
	// about and left unmeasured, and the selector then selects it for every
	// location.
	testsByPkg, err := runner.ListTests(listCmd, mod)
	if err != nil {
		return Results{}, execution.NewExitErr(execution.CoverageCollectionFailed)
	}
	covMap := runner.CollectPerTestCoverage(listCmd, filepath.Join(mod.Root, mod.CallingDir), mod, testsByPkg)
	selector := coverage.NewSelector(covMap, allTestIDs(testsByPkg))

	// Step 4: parse + find + instrument; build the catalogue; write the
	// instrumented tree to a private scratch directory.
	fset := token.NewFileSet()
	registry := syntax.NewRegistry()
	enabled := func(name string) bool {
		return configuration.Get[bool](configuration.OperatorEnabledKey(name))
	}

	files := make(map[string]*ast.File, len(paths))
	byPath := make(map[string][]instrument.Finding, len(paths))
	for _, p := range paths {
		full := filepath.Join(mod.Root, mod.CallingDir, p)
		file, err := parser.ParseFile(fset, full, nil, parser.ParseComments)
		if err != nil {
			log.Errorf("failed to parse %s: %s\n", p, err)

			continue
		}
		files[p] = file
		byPath[p] = instrument.Find(file, registry, enabled)
	}

	assigned := instrument.AssignIDs(byPath, paths)
	cat := catalogue.Build(fset, assigned)

	assignedByPath := make(map[string][]instrument.Assigned, len(paths))
	for _, a := range assigned {
		assignedByPath[a.Path] = append(assignedByPath[a.Path], a)
	}
	if err := writeInstrumentedTree(fset, mod, paths, files, assignedByPath, instrumentedRoot); err != nil {
		return Results{}, fmt.Errorf("impossible to write instrumented tree: %w", err)
	}

	// Step 5: compute selected tests and cache key for each gremlin;
	// partition into cache hits and misses.
	useCache := configuration.Get[bool](configuration.UnleashCacheKey)
	st, err := openStore()
	if err != nil {
		return Results{}, err
	}
	defer func() { _ = st.Close() }()

	agg := aggregate.New()
	var items []runner.Item
	pending := make(map[string]pendingItem)

	for _, g := range cat.All() {
		pos := fset.Position(g.Original.Pos())
		if changes != nil && !changes.IsChanged(pos) {
			continue
		}

		tests := selector.Select(coverage.Location{Path: g.Path, Line: g.Line})
		if len(tests) == 0 {
			agg.Add(g, store.StatusSurvived)

			continue
		}

		testHash := hasher.Combine(tests...)
		key := store.Key(g.ID, sourceHashes[g.Path], testHash)

		if useCache {
			if res, ok, err := st.Get(key); err == nil && ok {
				agg.Add(g, res.Status)

				continue
			}
		}

		pkg := pkgImportPath(mod, g.Path)
		items = append(items, runner.Item{GremlinID: g.ID, Pkg: pkg, Tests: tests})
		pending[g.ID] = pendingItem{key: key, gremlin: g}
	}

	// Step 6: run cache misses through the worker pool.
	batchSize := 1
	if configuration.Get[bool](configuration.UnleashBatchKey) {
		batchSize = configuration.Get[int](configuration.UnleashBatchSizeKey)
	}
	batches := runner.GroupIntoBatches(items, batchSize)

	strategy := runner.RoundRobin
	if configuration.Get[string](configuration.UnleashParallelKey) == "weighted" {
		strategy = runner.Weighted
	}
	batches = runner.Distribute(batches, strategy)

	workers := configuration.Get[int](configuration.UnleashWorkersKey)
	if workers <= 0 {
		workers = 1
	}

	wd := workdir.NewCachedDealer(runRoot, instrumentedRoot)
	timeouts := runner.NewTimeout()

	var dealerOpts []runner.DealerOption
	if cfg.RunCmd != nil {
		dealerOpts = append(dealerOpts, runner.WithExecContext(cfg.RunCmd))
	}
	rn := runner.New(mod, wd, timeouts, workers, dealerOpts...)

	var outcomes []runner.Outcome
	if ctx.Err() == nil {
		outcomes = rn.Run(batches)
	}

	for _, o := range outcomes {
		p, ok := pending[o.GremlinID]
		if !ok {
			continue
		}
		agg.Add(p.gremlin, o.Status)
		_ = st.PutDeferred(p.key, store.Result{Status: o.Status, Killer: o.Killer, Duration: o.Duration})
	}

	// Step 7: flush the cache.
	if err := st.Flush(); err != nil {
		log.Warnf("failed to flush result cache: %s\n", err)
	}

	// Step 8: aggregate and return.
	results := Results{
		Module:       mod.Name,
		Elapsed:      time.Since(start),
		Score:        agg.Score(),
		ByFile:       agg.ByFile(),
		TopSurvivors: agg.TopSurvivors(10),
		Records:      agg.Records(),
		Catalogue:    cat,
	}

	return results, thresholdError(results.Score)
}

type pendingItem struct {
	key     string
	gremlin catalogue.Gremlin
}

func allTestIDs(testsByPkg map[string][]string) []string {
	var all []string
	for _, tests := range testsByPkg {
		all = append(all, tests...)
	}
	sort.Strings(all)

	return all
}

func openStore() (*store.Store, error) {
	dir := configuration.Get[string](configuration.UnleashCacheDirKey)
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "gremlin-cache")
	}
	dbDir := filepath.Join(dir, "results.db")

	if configuration.Get[bool](configuration.UnleashClearCacheKey) {
		_ = os.RemoveAll(dbDir)
	}

	return store.Open(dbDir)
}

func thresholdError(score aggregate.Score) error {
	minScore := configuration.Get[float64](configuration.UnleashThresholdScoreKey)
	if minScore > 0 && score.Percentage() < minScore {
		return execution.NewExitErr(execution.ScoreThreshold)
	}

	minCoverage := configuration.Get[float64](configuration.UnleashThresholdMCoverageKey)
	if minCoverage > 0 && score.Total > 0 {
		covered := float64(score.Total-score.Survived) / float64(score.Total) * 100
		if covered < minCoverage {
			return execution.NewExitErr(execution.MutantCoverageThreshold)
		}
	}

	return nil
}
