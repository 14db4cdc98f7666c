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

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sprocketworks/gremlin/cmd/internal/flags"
	"github.com/sprocketworks/gremlin/internal/configuration"
	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/log"
	"github.com/sprocketworks/gremlin/internal/orchestrator"
	"github.com/sprocketworks/gremlin/internal/report"
	"github.com/sprocketworks/gremlin/internal/syntax"
)

type unleashCmd struct {
	cmd *cobra.Command
}

const (
	commandName = "unleash"

	paramDryRun             = "gremlin-dry-run"
	paramBuildTags          = "gremlin-tags"
	paramOutput             = "gremlin-output"
	paramReport             = "gremlin-report"
	paramIntegrationMode    = "gremlin-integration"
	paramTargets            = "gremlin-targets"
	paramOperators          = "gremlin-operators"
	paramExcludeFiles       = "gremlin-exclude-files"
	paramDiffRef            = "gremlin-diff-ref"
	paramCache              = "gremlin-cache"
	paramClearCache         = "gremlin-clear-cache"
	paramCacheDir           = "gremlin-cache-dir"
	paramParallel           = "gremlin-parallel"
	paramWorkers            = "gremlin-workers"
	paramBatch              = "gremlin-batch"
	paramBatchSize          = "gremlin-batch-size"
	paramTestCPU            = "gremlin-test-cpu"
	paramTimeoutCoefficient = "gremlin-timeout-coefficient"
	paramCoverPkg           = "gremlin-coverpkg"

	// Thresholds.
	paramThresholdScore     = "gremlin-min-score"
	paramThresholdMCoverage = "gremlin-mutant-coverage"
)

func newUnleashCmd(ctx context.Context) (*unleashCmd, error) {
	cmd := &cobra.Command{
		Use:     fmt.Sprintf("%s [path]", commandName),
		Aliases: []string{"run", "r"},
		Args:    cobra.MaximumNArgs(1),
		Short:   "Unleash the gremlins",
		Long:    longExplainer(),
		RunE:    runUnleash(ctx),
	}

	if err := setFlagsOnCmd(cmd); err != nil {
		return nil, err
	}

	return &unleashCmd{cmd: cmd}, nil
}

func longExplainer() string {
	return heredoc.Doc(`
		Unleashes the gremlins and performs mutation testing on a Go module. It works
		by first gathering the coverage of the test suite, then instrumenting every
		mutation point it finds in the source, and finally running, for each gremlin,
		only the tests that cover its location.

		Gremlin only tests covered gremlins, since no test case can ever catch a
		mutation in code the test suite never executes.

		In 'gremlin-dry-run' mode, unleash still gathers coverage (which runs the test
		suite) and instruments the source, but runs no test against any gremlin: every
		gremlin that would have been dispatched is reported as survived.

		Thresholds are configurable quality gates that make gremlin exit with an error
		if those values are not met: gremlin-min-score is the percent of zapped+timeout
		gremlins over the total; gremlin-mutant-coverage is the percent of gremlins that
		were covered by at least one test, over the total.
	`)
}

func runUnleash(ctx context.Context) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, args []string) error {
		log.Infoln("Starting...")
		path, _ := os.Getwd()
		if len(args) > 0 {
			path = args[0]
		}
		mod, err := gomodule.Init(path)
		if err != nil {
			return fmt.Errorf("not in a Go module: %w", err)
		}

		wg := &sync.WaitGroup{}
		wg.Add(1)
		cancelled := false
		var results orchestrator.Results
		go runWithCancel(ctx, wg, func(c context.Context) {
			results, err = orchestrator.Run(c, orchestrator.RunConfig{Mod: mod})
		}, func() {
			cancelled = true
		})
		wg.Wait()
		if err != nil {
			return err
		}
		if cancelled {
			return nil
		}

		report.Do(report.Results{
			Module:       results.Module,
			Elapsed:      results.Elapsed,
			Score:        results.Score,
			ByFile:       results.ByFile,
			TopSurvivors: results.TopSurvivors,
			Records:      results.Records,
		})

		return nil
	}
}

func runWithCancel(ctx context.Context, wg *sync.WaitGroup, runner func(c context.Context), onCancel func()) {
	c, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		log.Infof("\nShutting down gracefully...\n")
		cancel()
		onCancel()
	}()
	runner(c)
	wg.Done()
}

func setFlagsOnCmd(cmd *cobra.Command) error {
	cmd.Flags().SortFlags = false
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		from := []string{".", "_"}
		to := "-"
		for _, sep := range from {
			name = strings.ReplaceAll(name, sep, to)
		}

		return pflag.NormalizedName(name)
	})

	fls := []*flags.Flag{
		{Name: paramDryRun, CfgKey: configuration.UnleashDryRunKey, Shorthand: "d", DefaultV: false, Usage: "find gremlins but run no test against them"},
		{Name: paramBuildTags, CfgKey: configuration.UnleashTagsKey, Shorthand: "t", DefaultV: "", Usage: "a comma-separated list of build tags"},
		{Name: paramOutput, CfgKey: configuration.UnleashOutputKey, Shorthand: "o", DefaultV: "", Usage: "set the output file for machine readable results"},
		{Name: paramReport, CfgKey: configuration.UnleashReportKey, DefaultV: "console", Usage: "report format: console, json or all (not read: the console report is always printed, JSON only with --gremlin-output)"},
		{Name: paramIntegrationMode, CfgKey: configuration.UnleashIntegrationMode, Shorthand: "i", DefaultV: false, Usage: "run the complete test suite for each gremlin instead of only the selected subset"},
		{Name: paramTargets, CfgKey: configuration.UnleashTargetsKey, DefaultV: []string{}, Usage: "a comma-separated list of source roots to scan (not read: the calling directory is always scanned)"},
		{Name: paramOperators, CfgKey: configuration.UnleashOperatorsKey, DefaultV: []string{}, Usage: "a comma-separated list of operators to enable (not read: operators are toggled by their own --gremlin-<operator> flags)"},
		{Name: paramExcludeFiles, CfgKey: configuration.UnleashExcludeFilesKey, DefaultV: []string{}, Usage: "a comma-separated list of regexp patterns of files to exclude"},
		{Name: paramDiffRef, CfgKey: configuration.UnleashDiffRefKey, DefaultV: "", Usage: "a git ref to diff against, restricting gremlins to the changed lines"},
		{Name: paramCache, CfgKey: configuration.UnleashCacheKey, DefaultV: true, Usage: "cache gremlin results between runs"},
		{Name: paramClearCache, CfgKey: configuration.UnleashClearCacheKey, DefaultV: false, Usage: "clear the result cache before running"},
		{Name: paramCacheDir, CfgKey: configuration.UnleashCacheDirKey, DefaultV: "", Usage: "override the cache directory"},
		{Name: paramParallel, CfgKey: configuration.UnleashParallelKey, DefaultV: "round-robin", Usage: "work distribution strategy: round-robin or weighted"},
		{Name: paramWorkers, CfgKey: configuration.UnleashWorkersKey, DefaultV: 0, Usage: "the number of workers to use in mutation testing"},
		{Name: paramBatch, CfgKey: configuration.UnleashBatchKey, DefaultV: false, Usage: "batch gremlins per worker invocation to amortize test-runner start-up"},
		{Name: paramBatchSize, CfgKey: configuration.UnleashBatchSizeKey, DefaultV: 10, Usage: "the number of gremlins per batch"},
		{Name: paramTestCPU, CfgKey: configuration.UnleashTestCPUKey, DefaultV: 0, Usage: "the number of CPUs to allow each test run to use (not read)"},
		{Name: paramTimeoutCoefficient, CfgKey: configuration.UnleashTimeoutCoefficientKey, DefaultV: 0, Usage: "the coefficient by which the per-gremlin timeout is increased"},
		{Name: paramCoverPkg, CfgKey: configuration.UnleashCoverPkgKey, DefaultV: "", Usage: "override the -coverpkg pattern used to collect coverage"},
		{Name: paramThresholdScore, CfgKey: configuration.UnleashThresholdScoreKey, DefaultV: float64(0), Usage: "minimum mutation score percent required to pass"},
		{Name: paramThresholdMCoverage, CfgKey: configuration.UnleashThresholdMCoverageKey, DefaultV: float64(0), Usage: "minimum mutant-coverage percent required to pass"},
	}

	for _, f := range fls {
		err := flags.Set(cmd, f)
		if err != nil {
			return err
		}
	}

	return setOperatorFlags(cmd)
}

func setOperatorFlags(cmd *cobra.Command) error {
	registry := syntax.NewRegistry()
	for _, name := range registry.Names() {
		param := fmt.Sprintf("gremlin-%s", name)
		usage := fmt.Sprintf("enable the %q operator", name)
		confKey := configuration.OperatorEnabledKey(name)

		err := flags.Set(cmd, &flags.Flag{
			Name:     param,
			CfgKey:   confKey,
			DefaultV: configuration.IsOperatorDefaultEnabled(name),
			Usage:    usage,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
