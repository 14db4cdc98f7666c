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

package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hectane/go-acl"

	"github.com/sprocketworks/gremlin/internal/aggregate"
	"github.com/sprocketworks/gremlin/internal/catalogue"
	"github.com/sprocketworks/gremlin/internal/configuration"
	"github.com/sprocketworks/gremlin/internal/log"
	"github.com/sprocketworks/gremlin/internal/report"
	"github.com/sprocketworks/gremlin/internal/report/internal"
	"github.com/sprocketworks/gremlin/internal/store"
)

func rec(id, path string, line int, op string, status store.Status) aggregate.Record {
	return aggregate.Record{GremlinID: id, Path: path, Line: line, Operator: op, Status: status}
}

func scoreOf(records []aggregate.Record) aggregate.Score {
	a := aggregate.New()
	for _, r := range records {
		g := catalogue.Gremlin{ID: r.GremlinID, Path: r.Path, Line: r.Line, Column: r.Column, Operator: r.Operator, Description: r.Description}
		a.Add(g, r.Status)
	}

	return a.Score()
}

func TestReport(t *testing.T) {
	const testingLine = "Mutation testing completed in 2 minutes 22 seconds\n"

	testCases := []struct {
		name    string
		records []aggregate.Record
		want    string
	}{
		{
			name: "reports findings in normal run",
			records: []aggregate.Record{
				rec("g001", "aFolder/aFile.go", 3, "boundary", store.StatusSurvived),
				rec("g002", "aFolder/aFile.go", 3, "boundary", store.StatusZapped),
				rec("g003", "aFolder/aFile.go", 3, "boundary", store.StatusTimeout),
			},
			want: "\n" +
				testingLine +
				"Zapped: 1, Survived: 1\n" +
				"Timeout: 1, Error: 0\n" +
				"Mutation score: 66.67%\n" +
				"\n" +
				"Top surviving gremlins:\n" +
				"    survived boundary at aFolder/aFile.go:3\n",
		},
		{
			name: "reports findings with no survivors",
			records: []aggregate.Record{
				rec("g001", "aFolder/aFile.go", 3, "boundary", store.StatusZapped),
			},
			want: "\n" +
				testingLine +
				"Zapped: 1, Survived: 0\n" +
				"Timeout: 0, Error: 0\n" +
				"Mutation score: 100.00%\n",
		},
		{
			name:    "reports nothing if no result",
			records: nil,
			want: "\n" +
				"No results to report.\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			log.Init(out, &bytes.Buffer{})
			defer log.Reset()

			data := report.Results{
				Elapsed:      (2 * time.Minute) + (22 * time.Second) + (123 * time.Millisecond),
				Score:        scoreOf(tc.records),
				TopSurvivors: survivorsOf(tc.records),
				Records:      tc.records,
			}

			report.Do(data)

			got := out.String()

			if !cmp.Equal(got, tc.want) {
				t.Errorf("%s", cmp.Diff(tc.want, got))
			}
		})
	}
}

func survivorsOf(records []aggregate.Record) []aggregate.Survivor {
	var out []aggregate.Survivor
	for _, r := range records {
		if r.Status != store.StatusSurvived {
			continue
		}
		out = append(out, aggregate.Survivor{
			GremlinID: r.GremlinID,
			Path:      r.Path,
			Line:      r.Line,
			Operator:  r.Operator,
		})
	}

	return out
}

func TestGremlinLog(t *testing.T) {
	out := &bytes.Buffer{}
	defer out.Reset()
	log.Init(out, &bytes.Buffer{})
	defer log.Reset()

	report.Gremlin(rec("g001", "aFolder/aFile.go", 12, "boundary", store.StatusSurvived))
	report.Gremlin(rec("g002", "aFolder/aFile.go", 12, "boundary", store.StatusZapped))
	report.Gremlin(rec("g003", "aFolder/aFile.go", 12, "boundary", store.StatusTimeout))
	report.Gremlin(rec("g004", "aFolder/aFile.go", 12, "boundary", store.StatusError))

	got := out.String()

	want := "" +
		"    survived boundary at aFolder/aFile.go:12\n" +
		"      zapped boundary at aFolder/aFile.go:12\n" +
		"     timeout boundary at aFolder/aFile.go:12\n" +
		"       error boundary at aFolder/aFile.go:12\n"

	if !cmp.Equal(got, want) {
		t.Errorf("%s", cmp.Diff(got, want))
	}
}

func TestReportToFile(t *testing.T) {
	outFile := "findings.json"
	records := []aggregate.Record{
		rec("g001", "file1.go", 3, "comparison", store.StatusZapped),
		rec("g002", "file1.go", 8, "arithmetic", store.StatusSurvived),
		rec("g003", "file1.go", 7, "boundary", store.StatusTimeout),
		rec("g004", "file2.go", 3, "boolean", store.StatusSurvived),
		rec("g005", "file2.go", 17, "return", store.StatusZapped),
	}
	data := report.Results{
		Module:  "example.com/go/module",
		Elapsed: (2 * time.Minute) + (22 * time.Second) + (123 * time.Millisecond),
		Score:   scoreOf(records),
		Records: records,
	}

	t.Run("it writes on file when output is set", func(t *testing.T) {
		outDir := t.TempDir()
		output := filepath.Join(outDir, outFile)
		configuration.Set(configuration.UnleashOutputKey, output)
		defer configuration.Reset()

		report.Do(data)

		file, err := os.ReadFile(output)
		if err != nil {
			t.Fatal("file not found")
		}

		var got internal.OutputResult
		if err := json.Unmarshal(file, &got); err != nil {
			t.Fatal("impossible to unmarshal results")
		}

		if got.GremlinsTotal != 5 || got.GremlinsZapped != 2 || got.GremlinsSurvived != 2 {
			t.Errorf("unexpected totals: %+v", got)
		}
		if !cmp.Equal(len(got.Files), 2) {
			t.Errorf("expected 2 files, got %d", len(got.Files))
		}
	})

	t.Run("it doesn't write on file when output isn't set", func(t *testing.T) {
		configuration.Reset()
		outDir := t.TempDir()
		output := filepath.Join(outDir, outFile)

		report.Do(data)

		_, err := os.ReadFile(output)
		if err == nil {
			t.Errorf("expected file not found")
		}
	})

	t.Run("it doesn't report error when file is not writeable, but doesn't write file", func(t *testing.T) {
		outDir, cl := notWriteableDir(t)
		defer cl()
		output := filepath.Join(outDir, outFile)
		configuration.Set(configuration.UnleashOutputKey, output)
		defer configuration.Reset()

		report.Do(data)

		_, err := os.ReadFile(output)
		if err == nil {
			t.Errorf("expected file not found")
		}
	})
}

func notWriteableDir(t *testing.T) (string, func()) {
	t.Helper()
	tmp := t.TempDir()
	outPath, _ := os.MkdirTemp(tmp, "test-")
	_ = os.Chmod(outPath, 0000)
	clean := os.Chmod
	if runtime.GOOS == "windows" {
		_ = acl.Chmod(outPath, 0000)
		clean = acl.Chmod
	}

	return outPath, func() {
		_ = clean(outPath, 0700)
	}
}
