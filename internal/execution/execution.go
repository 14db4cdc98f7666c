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

// Package execution carries typed errors that must reach main() as a
// specific process exit code.
package execution

// ErrorType is the type of the error that can generate a specific exit status.
type ErrorType int

// String produces the human readable sentence for the ErrorType.
func (e ErrorType) String() string {
	switch e {
	case ScoreThreshold:
		return "below score threshold"
	case MutantCoverageThreshold:
		return "below mutant coverage threshold"
	case StoreCorrupted:
		return "result store could not be recovered"
	case CoverageCollectionFailed:
		return "failed to collect coverage"
	}
	panic("this should not happen")
}

const (
	// ScoreThreshold is the error type raised when the mutation score is
	// below the configured threshold.
	ScoreThreshold ErrorType = iota

	// MutantCoverageThreshold is the error type raised when mutant coverage
	// is below the configured threshold.
	MutantCoverageThreshold

	// StoreCorrupted is raised when the result store cannot be opened even
	// after being discarded and recreated once.
	StoreCorrupted

	// CoverageCollectionFailed is raised when the host test runner's
	// coverage-collection phase cannot be completed.
	CoverageCollectionFailed
)

var errorMapping = map[ErrorType]int{
	ScoreThreshold:           10,
	MutantCoverageThreshold:  11,
	StoreCorrupted:           12,
	CoverageCollectionFailed: 13,
}

// ExitError is a special error raised when special conditions require
// gremlin to exit with a specific error code.
//
// If this error is returned and/or properly wrapped, it will reach the
// main function, which sets the exitCode as the process exit code.
type ExitError struct {
	errorType ErrorType
	exitCode  int
}

// NewExitErr instantiates a new ExitError.
func NewExitErr(et ErrorType) *ExitError {
	return &ExitError{exitCode: errorMapping[et], errorType: et}
}

// Error is the implementation of the error interface; it returns the
// ErrorType's human readable message.
func (e *ExitError) Error() string {
	return e.errorType.String()
}

// ExitCode returns the exit code associated with the specific ErrorType.
func (e *ExitError) ExitCode() int {
	return e.exitCode
}
