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

// Package hasher computes the deterministic content hashes the result
// store keys its cache entries on: a source file or test file changes,
// its hash changes, and every cache key built from it misses.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
)

// separator is the single byte used to join sub-hashes before re-hashing
// a composite key, so that e.g. Combine("ab", "c") never collides with
// Combine("a", "bc").
const separator = "\x00"

// HashBytes returns the hex-encoded SHA-256 digest of content, after
// normalizing CRLF line endings to LF so that a file's hash doesn't
// depend on which platform last saved it.
func HashBytes(content []byte) string {
	normalized := strings.ReplaceAll(string(content), "\r\n", "\n")
	sum := sha256.Sum256([]byte(normalized))

	return hex.EncodeToString(sum[:])
}

// HashFile reads path and returns its content hash. A read failure is
// returned to the caller, who must treat it as a fatal-per-file error
// per the engine's error taxonomy: every gremlin located in that file
// becomes an error result, while the rest of the run proceeds.
func HashFile(path string) (string, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path is an internally discovered source file
	if err != nil {
		return "", err
	}

	return HashBytes(content), nil
}

// Combine joins hashes, in the order given, with a single-byte separator
// and re-hashes the result, producing one composite hash for a multi-file
// key. Callers that need an order-independent combination (e.g. the set
// of covering-test file hashes) must sort hashes before calling Combine.
func Combine(hashes ...string) string {
	return HashBytes([]byte(strings.Join(hashes, separator)))
}
