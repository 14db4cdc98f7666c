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

package configuration

import (
	"fmt"
	"strings"
)

// This is the list of the keys available in config files and as flags.
// All but GremlinSilentKey are rooted under the "unleash" subcommand; the
// per-operator keys built by OperatorEnabledKey are not listed here.
const (
	GremlinSilentKey = "silent"

	UnleashDryRunKey             = "unleash.dry-run"
	UnleashOutputKey             = "unleash.output"
	UnleashOutputStatusesKey     = "unleash.output-statuses"
	UnleashTagsKey               = "unleash.tags"
	UnleashExcludeFilesKey       = "unleash.exclude-files"
	UnleashWorkersKey            = "unleash.workers"
	UnleashParallelKey           = "unleash.parallel"
	UnleashBatchKey              = "unleash.batch"
	UnleashBatchSizeKey          = "unleash.batch-size"
	UnleashTestCPUKey            = "unleash.test-cpu"
	UnleashTimeoutCoefficientKey = "unleash.timeout-coefficient"
	UnleashIntegrationMode       = "unleash.integration"
	UnleashDiffRefKey            = "unleash.diff-ref"
	UnleashCacheDirKey           = "unleash.cache-dir"
	UnleashCacheKey              = "unleash.cache"
	UnleashClearCacheKey         = "unleash.clear-cache"
	UnleashCoverPkgKey           = "unleash.coverpkg"
	UnleashThresholdScoreKey     = "unleash.threshold.score"
	UnleashThresholdMCoverageKey = "unleash.threshold.mutant-coverage"
	UnleashOperatorsKey          = "unleash.operators"
	UnleashTargetsKey            = "unleash.targets"
	UnleashReportKey             = "unleash.report"
)

// OperatorEnabledKey returns the configuration key that toggles a named
// operator on or off. The generated key has the format
// "operators.<operator-name>.enabled", corresponding to the YAML:
//
//	operators:
//	  <operator-name>:
//	    enabled: [bool]
func OperatorEnabledKey(name string) string {
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ToLower(name)

	return fmt.Sprintf("operators.%s.enabled", name)
}
