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
	"time"

	"github.com/sprocketworks/gremlin/internal/configuration"
)

// DefaultTimeoutCoefficient is the multiplier applied to an observed test
// run before it becomes that partition's enforced timeout.
const DefaultTimeoutCoefficient = 3.0

// DefaultTimeout seeds a partition that has never been observed.
const DefaultTimeout = 10 * time.Second

// Timeout keeps a concurrency-safe, adaptive per-partition test timeout.
// Unlike the teacher's package-keyed Timeout, a partition here is a batch
// key (Batch.Key: the package combined with the covering-test set), since this architecture
// no longer runs one package's whole suite per mutation: two gremlins in
// the same package can have entirely different covering-test sets and so
// warrant different timeouts.
type Timeout struct {
	m           sync.RWMutex
	partitions  map[string]time.Duration
	coefficient float64
}

// NewTimeout builds a Timeout using the configured coefficient, or
// DefaultTimeoutCoefficient if none is set.
func NewTimeout() *Timeout {
	coefficient := DefaultTimeoutCoefficient
	if c := configuration.Get[float64](configuration.UnleashTimeoutCoefficientKey); c != 0 {
		coefficient = c
	}

	return &Timeout{partitions: make(map[string]time.Duration), coefficient: coefficient}
}

// SetTo records an observed run duration for key, applying the
// coefficient and averaging with any previous timeout for that partition.
// It returns the newly-computed timeout.
func (t *Timeout) SetTo(key string, duration time.Duration) time.Duration {
	t.m.Lock()
	defer t.m.Unlock()
	d := time.Duration(float64(duration) * t.coefficient)
	if c, ok := t.partitions[key]; ok {
		d = (d + c) / 2
	}
	t.partitions[key] = d

	return d
}

// Of returns the current timeout for key, and whether one has been
// observed yet.
func (t *Timeout) Of(key string) (time.Duration, bool) {
	t.m.RLock()
	defer t.m.RUnlock()
	d, ok := t.partitions[key]

	return d, ok
}
