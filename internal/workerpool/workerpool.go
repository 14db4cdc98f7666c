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

// Package workerpool is the generic job/worker/pool abstraction the
// runner package schedules gremlin work items onto. It knows nothing
// about gremlins, test runs, or results: a Job is just something that
// knows how to run itself against the Worker it was handed.
package workerpool

import "sync"

// Job is one unit of work a Worker executes. Start must signal its own
// completion (e.g. by sending on a result channel closed over by the
// caller) since the pool itself does not track per-job completion.
type Job interface {
	Start(worker *Worker)
}

// Worker pulls jobs off a shared queue and runs them one at a time. Name
// and ID exist purely for labeling work (log lines, workdir names); a
// Worker carries no other state between jobs.
type Worker struct {
	Name string
	ID   int

	stopCh chan struct{}
}

// NewWorker creates a Worker identified by id and name.
func NewWorker(id int, name string) *Worker {
	return &Worker{Name: name, ID: id}
}

// Start begins pulling jobs from jobQueue until it is closed, then
// signals its stop channel.
func (w *Worker) Start(jobQueue <-chan Job) {
	w.stopCh = make(chan struct{})
	go func() {
		for {
			job, ok := <-jobQueue
			if !ok {
				w.stopCh <- struct{}{}

				return
			}
			job.Start(w)
		}
	}()
}

func (w *Worker) stop() {
	<-w.stopCh
}

// Pool is a fixed-size set of Workers sharing one job queue. Size is the
// parallelism W from the specification's worker-pool model; round-robin
// and weighted distribution both happen upstream, in the runner package,
// by the order jobs are appended in.
type Pool struct {
	queue   chan Job
	name    string
	workers []*Worker
	size    int
}

// New builds a Pool of size workers, all sharing the name label.
func New(name string, size int) *Pool {
	p := &Pool{name: name, size: size}
	p.workers = make([]*Worker, 0, size)
	for i := 0; i < size; i++ {
		p.workers = append(p.workers, NewWorker(i, name))
	}
	p.queue = make(chan Job, size)

	return p
}

// AppendJob enqueues job for whichever worker is next free. Blocks if the
// queue (buffered at Pool size) is full.
func (p *Pool) AppendJob(job Job) {
	p.queue <- job
}

// Start launches every worker's pull loop.
func (p *Pool) Start() {
	for _, w := range p.workers {
		w.Start(p.queue)
	}
}

// Stop closes the job queue and blocks until every worker has drained it.
func (p *Pool) Stop() {
	close(p.queue)
	var wg sync.WaitGroup
	for _, worker := range p.workers {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			w.stop()
		}(worker)
	}
	wg.Wait()
}

// Size returns the pool's worker count.
func (p *Pool) Size() int {
	return p.size
}
