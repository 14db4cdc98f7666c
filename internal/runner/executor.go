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

// Package runner dispatches batches of gremlins onto the workerpool,
// running the host test suite once per gremlin with ACTIVE_GREMLIN set,
// and maps the outcome into a store.Result.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sprocketworks/gremlin/internal/configuration"
	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/log"
	"github.com/sprocketworks/gremlin/internal/runner/workdir"
	"github.com/sprocketworks/gremlin/internal/store"
	"github.com/sprocketworks/gremlin/internal/workerpool"
)

type execContext = func(ctx context.Context, name string, args ...string) *exec.Cmd

// Outcome is one gremlin's terminal result, ready to be written to the
// store and folded into the aggregator.
type Outcome struct {
	GremlinID string
	Status    store.Status
	Killer    string
	Duration  time.Duration
}

// Dealer builds per-batch workerpool.Job values, carrying everything a
// dispatched `go test` invocation needs: the isolated workdir to run in,
// the module under test, and the adaptive per-partition timeout tracker.
type Dealer struct {
	wdDealer    workdir.Dealer
	execContext execContext
	mod         gomodule.GoModule
	buildTags   string
	dryRun      bool
	timeouts    *Timeout
}

// DealerOption customizes a Dealer at construction.
type DealerOption func(d Dealer) Dealer

// WithExecContext overrides the default exec.CommandContext, for tests.
func WithExecContext(c execContext) DealerOption {
	return func(d Dealer) Dealer {
		d.execContext = c

		return d
	}
}

// NewDealer builds a Dealer for mod, handing out isolated workdirs via wd
// and tracking adaptive timeouts via timeouts.
func NewDealer(mod gomodule.GoModule, wd workdir.Dealer, timeouts *Timeout, opts ...DealerOption) *Dealer {
	d := Dealer{
		mod:         mod,
		wdDealer:    wd,
		timeouts:    timeouts,
		buildTags:   configuration.Get[string](configuration.UnleashTagsKey),
		dryRun:      configuration.Get[bool](configuration.UnleashDryRunKey),
		execContext: exec.CommandContext,
	}
	for _, opt := range opts {
		d = opt(d)
	}

	return &d
}

// NewExecutor returns a workerpool.Job that runs every gremlin in b in
// turn, sending the resulting Outcome slice on outCh and marking wg done
// when finished.
func (d *Dealer) NewExecutor(b Batch, outCh chan<- []Outcome, wg *sync.WaitGroup) workerpool.Job {
	return &batchExecutor{batch: b, dealer: d, outCh: outCh, wg: wg}
}

type batchExecutor struct {
	batch  Batch
	dealer *Dealer
	outCh  chan<- []Outcome
	wg     *sync.WaitGroup
}

// Start is the workerpool.Job implementation: one isolated workdir per
// worker, then one `go test` invocation per gremlin in the batch.
func (e *batchExecutor) Start(w *workerpool.Worker) {
	defer e.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.Name, w.ID)
	root, err := e.dealer.wdDealer.Get(workerName)
	if err != nil {
		log.Errorf("failed to acquire a working directory for %s: %s\n", workerName, err)
		e.outCh <- e.errorOutcomes()

		return
	}
	workDir := filepath.Join(root, e.dealer.mod.CallingDir)

	if e.dealer.dryRun {
		e.outCh <- e.notRunOutcomes(store.StatusSurvived)

		return
	}

	timeout, ok := e.dealer.timeouts.Of(e.batch.Key)
	if !ok {
		timeout = DefaultTimeout
	}

	outcomes := make([]Outcome, 0, len(e.batch.GremlinIDs))
	for _, id := range e.batch.GremlinIDs {
		start := time.Now()
		status, killer := e.runOne(workDir, id, timeout)
		elapsed := time.Since(start)
		e.dealer.timeouts.SetTo(e.batch.Key, elapsed)
		outcomes = append(outcomes, Outcome{GremlinID: id, Status: status, Killer: killer, Duration: elapsed})
	}
	e.outCh <- outcomes
}

func (e *batchExecutor) runOne(workDir, gremlinID string, timeout time.Duration) (store.Status, string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := e.dealer.execContext(ctx, "go", e.testArgs()...)
	cmd.Dir = workDir
	cmd.Env = append(cmd.Environ(), "ACTIVE_GREMLIN="+gremlinID)

	var jsonOut bytes.Buffer
	if len(e.batch.Tests) > 1 {
		cmd.Stdout = &jsonOut
	}

	err := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return store.StatusTimeout, ""
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() == 1 {
			return store.StatusZapped, e.killer(jsonOut.Bytes())
		}

		return store.StatusError, ""
	}
	if err != nil {
		return store.StatusError, ""
	}

	return store.StatusSurvived, ""
}

func (e *batchExecutor) testArgs() []string {
	args := []string{"test"}
	if e.dealer.buildTags != "" {
		args = append(args, "-tags", e.dealer.buildTags)
	}
	if len(e.batch.Tests) > 1 {
		args = append(args, "-json")
	}
	args = append(args, "-run", runRegexp(e.batch.Tests), "-failfast", e.batch.Pkg)

	return args
}

// killer names the single test that will be reported as having zapped
// the gremlin. A one-test batch is attributed directly, with no need to
// inspect the run's output. A multi-test batch runs with `go test -json`
// (set up in testArgs), and killer decodes that NDJSON stream for the
// first per-test "fail" action: `-failfast` stops the run right after
// it, so it names the test that actually killed the gremlin rather than
// leaving every multi-test batch with an empty killer.
func (e *batchExecutor) killer(jsonOutput []byte) string {
	if len(e.batch.Tests) == 1 {
		return e.batch.Tests[0]
	}

	dec := json.NewDecoder(bytes.NewReader(jsonOutput))
	for {
		var event struct {
			Action string
			Test   string
		}
		if err := dec.Decode(&event); err != nil {
			return ""
		}
		if event.Action == "fail" && event.Test != "" {
			return event.Test
		}
	}
}

func (e *batchExecutor) errorOutcomes() []Outcome {
	outcomes := make([]Outcome, len(e.batch.GremlinIDs))
	for i, id := range e.batch.GremlinIDs {
		outcomes[i] = Outcome{GremlinID: id, Status: store.StatusError}
	}

	return outcomes
}

func (e *batchExecutor) notRunOutcomes(status store.Status) []Outcome {
	outcomes := make([]Outcome, len(e.batch.GremlinIDs))
	for i, id := range e.batch.GremlinIDs {
		outcomes[i] = Outcome{GremlinID: id, Status: status}
	}

	return outcomes
}

// runRegexp builds a `go test -run` pattern matching exactly the given
// test names, anchored so no other test in the package runs.
func runRegexp(tests []string) string {
	quoted := make([]string, len(tests))
	for i, t := range tests {
		quoted[i] = regexp.QuoteMeta(t)
	}

	return fmt.Sprintf("^(%s)$", strings.Join(quoted, "|"))
}
