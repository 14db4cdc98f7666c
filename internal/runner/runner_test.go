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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/runner"
	"github.com/sprocketworks/gremlin/internal/store"
)

func TestRunDispatchesEveryGremlinInEveryBatch(t *testing.T) {
	mod := gomodule.GoModule{Name: "example.com", Root: ".", CallingDir: "."}
	wd := stubDealer{dir: t.TempDir()}
	timeouts := runner.NewTimeout()

	r := runner.New(mod, wd, timeouts, 2, runner.WithExecContext(fakeExecCommand("TestHelperProcessSuccess")))

	batches := []runner.Batch{
		{Key: "a", Pkg: "example.com/pkg/a", GremlinIDs: []string{"g001", "g002"}, Tests: []string{"TestA"}},
		{Key: "b", Pkg: "example.com/pkg/b", GremlinIDs: []string{"g003"}, Tests: []string{"TestB"}},
	}

	outcomes := r.Run(batches)

	assert.Len(t, outcomes, 3)
	ids := make([]string, len(outcomes))
	for i, o := range outcomes {
		ids[i] = o.GremlinID
		assert.Equal(t, store.StatusSurvived, o.Status)
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"g001", "g002", "g003"}, ids)
}
