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

// Package log provides the process-wide output writers used by every
// other package. It is deliberately not a structured/leveled logging
// framework: gremlin only ever needs a handful of colorized status lines.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stdout
	errOut  io.Writer = os.Stderr
	silent  bool
	red            = color.New(color.FgRed)
	yellow         = color.New(color.FgYellow)
	green          = color.New(color.FgGreen)
)

// Init sets the writers used for subsequent log calls. It is called once,
// from main, before any subcommand runs.
func Init(stdout, stderr io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = stdout
	errOut = stderr
}

// Reset restores the default stdout/stderr writers and clears silent mode.
// Tests call this to undo Init/SetSilent between cases.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	out = os.Stdout
	errOut = os.Stderr
	silent = false
}

// SetSilent toggles silent mode. It is called once configuration has been
// loaded, since the silent flag itself comes from viper.
func SetSilent(s bool) {
	mu.Lock()
	defer mu.Unlock()
	silent = s
}

// Infoln writes a line to stdout, unless silent mode is active.
func Infoln(a ...any) {
	writeln(out, a...)
}

// Infof writes a formatted string to stdout, unless silent mode is active.
func Infof(format string, a ...any) {
	writef(out, format, a...)
}

// Successf writes a green formatted string to stdout.
func Successf(format string, a ...any) {
	writef(out, green.Sprintf(format, a...))
}

// Warnf writes a yellow formatted string to stdout.
func Warnf(format string, a ...any) {
	writef(out, yellow.Sprintf(format, a...))
}

// Errorf writes a red formatted string to stderr. Errors are never
// suppressed by silent mode.
func Errorf(format string, a ...any) {
	mu.Lock()
	w := errOut
	mu.Unlock()
	_, _ = fmt.Fprint(w, red.Sprintf(format, a...))
}

// Errorln writes a red line to stderr. Errors are never suppressed by
// silent mode.
func Errorln(a ...any) {
	mu.Lock()
	w := errOut
	mu.Unlock()
	_, _ = fmt.Fprintln(w, red.Sprint(a...))
}

func writeln(w io.Writer, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if silent {
		return
	}
	_, _ = fmt.Fprintln(w, a...)
}

func writef(w io.Writer, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if silent {
		return
	}
	_, _ = fmt.Fprintf(w, format, a...)
}
