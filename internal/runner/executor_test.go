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

package runner_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/runner"
	"github.com/sprocketworks/gremlin/internal/runner/workdir"
	"github.com/sprocketworks/gremlin/internal/store"
	"github.com/sprocketworks/gremlin/internal/workerpool"
)

func TestExecutorMapsProcessOutcomeToStatus(t *testing.T) {
	testCases := []struct {
		name       string
		fakeResult func(ctx context.Context, command string, args ...string) *exec.Cmd
		wantStatus store.Status
	}{
		{
			name:       "tests pass, gremlin survives",
			fakeResult: fakeExecCommand("TestHelperProcessSuccess"),
			wantStatus: store.StatusSurvived,
		},
		{
			name:       "a selected test fails, gremlin is zapped",
			fakeResult: fakeExecCommand("TestHelperProcessTestFailure"),
			wantStatus: store.StatusZapped,
		},
		{
			name:       "build fails, outcome is an error",
			fakeResult: fakeExecCommand("TestHelperProcessBuildFailure"),
			wantStatus: store.StatusError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mod := gomodule.GoModule{Name: "example.com", Root: ".", CallingDir: "."}
			wd := stubDealer{dir: t.TempDir()}
			dealer := runner.NewDealer(mod, wd, runner.NewTimeout(), runner.WithExecContext(tc.fakeResult))

			batch := runner.Batch{Key: "k", Pkg: "example.com/pkg", GremlinIDs: []string{"g001"}, Tests: []string{"TestSomething"}}
			outCh := make(chan []runner.Outcome, 1)
			wg := &sync.WaitGroup{}
			wg.Add(1)

			job := dealer.NewExecutor(batch, outCh, wg)
			job.Start(&workerpool.Worker{Name: "w", ID: 0})
			wg.Wait()

			got := <-outCh
			require.Len(t, got, 1)
			assert.Equal(t, tc.wantStatus, got[0].Status)
			assert.Equal(t, "g001", got[0].GremlinID)
		})
	}
}

func TestExecutorAttributesKillerForSingleTestBatch(t *testing.T) {
	mod := gomodule.GoModule{Name: "example.com", Root: ".", CallingDir: "."}
	wd := stubDealer{dir: t.TempDir()}
	dealer := runner.NewDealer(mod, wd, runner.NewTimeout(), runner.WithExecContext(fakeExecCommand("TestHelperProcessTestFailure")))

	batch := runner.Batch{Key: "k", Pkg: "example.com/pkg", GremlinIDs: []string{"g001"}, Tests: []string{"TestIsAdult"}}
	outCh := make(chan []runner.Outcome, 1)
	wg := &sync.WaitGroup{}
	wg.Add(1)

	dealer.NewExecutor(batch, outCh, wg).Start(&workerpool.Worker{Name: "w", ID: 0})
	wg.Wait()

	got := <-outCh
	assert.Equal(t, "TestIsAdult", got[0].Killer)
}

func TestExecutorAttributesKillerForMultiTestBatchFromJSONOutput(t *testing.T) {
	mod := gomodule.GoModule{Name: "example.com", Root: ".", CallingDir: "."}
	wd := stubDealer{dir: t.TempDir()}
	dealer := runner.NewDealer(mod, wd, runner.NewTimeout(), runner.WithExecContext(fakeExecCommand("TestHelperProcessMultiTestFailure")))

	batch := runner.Batch{
		Key:        "k",
		Pkg:        "example.com/pkg",
		GremlinIDs: []string{"g001"},
		Tests:      []string{"TestFirst", "TestSecond", "TestThird"},
	}
	outCh := make(chan []runner.Outcome, 1)
	wg := &sync.WaitGroup{}
	wg.Add(1)

	dealer.NewExecutor(batch, outCh, wg).Start(&workerpool.Worker{Name: "w", ID: 0})
	wg.Wait()

	got := <-outCh
	require.Len(t, got, 1)
	assert.Equal(t, store.StatusZapped, got[0].Status)
	assert.Equal(t, "TestSecond", got[0].Killer)
}

type stubDealer struct {
	dir string
}

func (s stubDealer) Get(string) (string, error) { return s.dir, nil }
func (stubDealer) Clean()                       {}
func (s stubDealer) WorkDir() string            { return s.dir }

var _ workdir.Dealer = stubDealer{}

func fakeExecCommand(helper string) func(ctx context.Context, command string, args ...string) *exec.Cmd {
	return func(ctx context.Context, command string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=" + helper, "--", command}, args...)
		//nolint:gosec // test code, reinvoking the test binary itself
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}

		return cmd
	}
}

func TestHelperProcessSuccess(_ *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Exit(0)
}

func TestHelperProcessTestFailure(_ *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Exit(1)
}

func TestHelperProcessBuildFailure(_ *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Exit(2)
}

// TestHelperProcessMultiTestFailure emits a `go test -json`-shaped NDJSON
// stream in which the second of three tests fails, mimicking -failfast
// stopping the run right after it, then exits 1.
func TestHelperProcessMultiTestFailure(_ *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	lines := []string{
		`{"Action":"run","Test":"TestFirst"}`,
		`{"Action":"pass","Test":"TestFirst"}`,
		`{"Action":"run","Test":"TestSecond"}`,
		`{"Action":"fail","Test":"TestSecond"}`,
		`{"Action":"fail"}`,
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	os.Exit(1)
}
