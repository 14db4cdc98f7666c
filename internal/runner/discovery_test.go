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
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprocketworks/gremlin/internal/gomodule"
	"github.com/sprocketworks/gremlin/internal/runner"
)

func TestListTestsGroupsByPackage(t *testing.T) {
	mod := gomodule.GoModule{Name: "example.com", Root: ".", CallingDir: "."}

	got, err := runner.ListTests(fakeListExecCommand, mod)

	require.NoError(t, err)
	assert.Equal(t, []string{"TestA", "TestB"}, got["example.com/pkg/a"])
	assert.Equal(t, []string{"TestC"}, got["example.com/pkg/b"])
}

// fakeListExecCommand simulates `go list ./...` and `go test -list .* <pkg>`
// by re-invoking this test binary's helper process, branching on the
// trailing argument (the package path, or "./..." for the list call).
func fakeListExecCommand(command string, args ...string) *exec.Cmd {
	helper := "TestListHelperProcess"
	cs := append([]string{"-test.run=" + helper, "--", command}, args...)
	//nolint:gosec // test code, reinvoking the test binary itself
	cmd := exec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}

	return cmd
}

func TestListHelperProcess(_ *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	last := args[len(args)-1]

	switch {
	case last == "./...":
		fmt.Println("example.com/pkg/a")
		fmt.Println("example.com/pkg/b")
	case strings.HasSuffix(last, "pkg/a"):
		fmt.Println("TestA")
		fmt.Println("TestB")
		fmt.Println("ok  \texample.com/pkg/a\t0.002s")
	case strings.HasSuffix(last, "pkg/b"):
		fmt.Println("TestC")
		fmt.Println("ok  \texample.com/pkg/b\t0.002s")
	}
}
