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

// Package store is the incremental, content-hash-keyed result cache: a
// single-writer, crash-safe, embedded key-value store of per-gremlin
// outcomes, invalidated purely by key construction (the orchestrator
// builds a new key whenever a source or covering-test hash changes, so a
// stale entry is simply never looked up again rather than explicitly
// deleted).
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/sprocketworks/gremlin/internal/execution"
	"github.com/sprocketworks/gremlin/internal/log"
)

// Status is the terminal outcome of running a gremlin's selected tests.
type Status string

// The four terminal statuses a gremlin result can carry.
const (
	StatusZapped   Status = "zapped"
	StatusSurvived Status = "survived"
	StatusTimeout  Status = "timeout"
	StatusError    Status = "error"
)

// Result is the cached value for one gremlin: everything needed to
// reconstruct a GremlinResult without re-running its tests.
type Result struct {
	Status   Status        `json:"status"`
	Killer   string        `json:"killer,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Key builds the cache key for a gremlin: its id, the hash of the source
// file it lives in, and the combined hash of every file backing its
// currently-selected covering tests. Any change to either hash produces a
// new key and a guaranteed cache miss.
func Key(gremlinID, sourceHash, coveringTestHash string) string {
	return fmt.Sprintf("%s:%s:%s", gremlinID, sourceHash, coveringTestHash)
}

// Store wraps a Badger database directory under <cache-dir>/results.db.
type Store struct {
	db    *badger.DB
	dir   string
	batch *badger.WriteBatch
}

// Open opens (or creates) the result store at dir. If the existing store
// fails Badger's consistency check, it is logged as a warning, the
// directory is removed, and a fresh empty store is created in its place;
// a second failure is surfaced as execution.StoreCorrupted, since at that
// point the store cannot be recovered by retrying.
func Open(dir string) (*Store, error) {
	db, err := openBadger(dir)
	if err != nil {
		log.Warnf("result store at %s could not be opened, rebuilding: %s\n", dir, err)
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			return nil, execution.NewExitErr(execution.StoreCorrupted)
		}
		db, err = openBadger(dir)
		if err != nil {
			return nil, execution.NewExitErr(execution.StoreCorrupted)
		}
	}

	return &Store{db: db, dir: dir}, nil
}

func openBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)

	return badger.Open(opts)
}

// Get performs an O(1) lookup by key. The bool is false iff no prior run
// computed that exact (gremlin, code-state, test-state) outcome.
func (s *Store) Get(key string) (Result, bool, error) {
	var result Result
	var found bool

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if err != nil {
		return Result{}, false, err
	}

	return result, found, nil
}

// Put writes a result immediately and durably.
func (s *Store) Put(key string, r Result) error {
	value, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// PutDeferred stages a result in the batched writer; it is durable only
// once Flush is called. Callers that write many results during a run (one
// per dispatched gremlin) should prefer this over Put to amortize fsyncs.
func (s *Store) PutDeferred(key string, r Result) error {
	if s.batch == nil {
		s.batch = s.db.NewWriteBatch()
	}
	value, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.batch.Set([]byte(key), value)
}

// Flush durably commits every deferred PutDeferred write since the last
// Flush. On failure it logs a warning, drops the staged writes without
// retrying them, starts a fresh batch for later PutDeferred calls and
// returns the error.
func (s *Store) Flush() error {
	if s.batch == nil {
		return nil
	}
	err := s.batch.Flush()
	s.batch = nil
	if err != nil {
		log.Warnf("result store flush failed: %s\n", err)
		s.batch = s.db.NewWriteBatch()

		return err
	}

	return nil
}

// Clear discards every cached result. The --gremlin-clear-cache flag does
// not call it: the orchestrator removes the results.db directory before
// opening the store.
func (s *Store) Clear() error {
	return s.db.DropAll()
}

// Close releases the underlying Badger handles.
func (s *Store) Close() error {
	return s.db.Close()
}
