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
	"sync"

	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/runner/workdir"
	"github.com/sprocketworks/gremlin/internal/workerpool"
)

// Runner owns a workerpool.Pool and the Dealer that builds its jobs. One
// Runner handles every batch dispatched during an orchestrator run.
type Runner struct {
	pool   *workerpool.Pool
	dealer *Dealer
}

// New builds a Runner with workers parallel lanes pulling from a shared
// queue, handing out isolated copies of mod's source tree via wd.
func New(mod gomodule.GoModule, wd workdir.Dealer, timeouts *Timeout, workers int, opts ...DealerOption) *Runner {
	return &Runner{
		pool:   workerpool.New("runner", workers),
		dealer: NewDealer(mod, wd, timeouts, opts...),
	}
}

// Run dispatches every batch, in the order given (see Distribute), and
// blocks until all of them have reported an outcome for every gremlin
// they carried.
func (r *Runner) Run(batches []Batch) []Outcome {
	outCh := make(chan []Outcome, len(batches))
	wg := &sync.WaitGroup{}
	wg.Add(len(batches))

	r.pool.Start()
	for _, b := range batches {
		r.pool.AppendJob(r.dealer.NewExecutor(b, outCh, wg))
	}
	wg.Wait()
	r.pool.Stop()
	close(outCh)

	var outcomes []Outcome
	for batch := range outCh {
		outcomes = append(outcomes, batch...)
	}

	return outcomes
}
