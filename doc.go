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

/*
Gremlin is a mutation testing engine for Go.

It parses a module's source, injects small semantic defects ("gremlins")
one at a time behind a runtime switch, runs the subset of tests that
cover each defect's location, and reports which ones the suite caught
("zapped") versus missed ("survived"). The resulting mutation score
measures test-suite effectiveness rather than mere line coverage.

Usage

To execute a mutation test run, from the root of a Go module execute:

	  $ gremlin unleash

If the Go test run needs build tags, they can be passed along:

   $ gremlin unleash --gremlin-tags "tag1,tag2"

To perform the analysis without running any test against a gremlin
(coverage is still gathered, and every gremlin that would have been
dispatched is reported as survived):

  $ gremlin unleash --gremlin-dry-run

Gremlin reports each gremlin as one of:
 - ZAPPED: the gremlin was caught by the test suite.
 - SURVIVED: the gremlin was not caught by the test suite. A gremlin not
   covered by any test is reported as survived without running any test.
 - TIMEOUT: the tests timed out while running the gremlin; counted as caught.
 - ERROR: the host test runner could not produce a verdict for the gremlin.

Configuration

Gremlin uses Viper (https://github.com/spf13/viper) for configuration.

Options can be set in three ways, each taking precedence over the next:

 - command flags
 - environment variables
 - configuration file

Environment variables use the following syntax, with every dash in the
option name replaced by an underscore:

  GREMLIN_<COMMAND NAME>_<FLAG NAME>

Example:

  $ GREMLIN_UNLEASH_DRY_RUN=true gremlin unleash

The configuration file must be named

 .gremlin.yaml

and follow the shape:

 unleash:
   dry-run: false
   tags: ...

It may be placed in one of the following locations, which are searched in
this order, the first file found being used:

 - /etc/gremlin (not on Windows)
 - $XDG_CONFIG_HOME/gremlin/gremlin
 - $HOME/.gremlin
 - the Go module root
 - the current folder
*/
package gremlin
