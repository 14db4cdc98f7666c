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

// Package configuration wires the project config file, environment
// variables and CLI flags into a single Viper instance, following the
// same layering every gremlin subcommand relies on.
package configuration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	gremlinCfgName      = ".gremlin"
	gremlinEnvVarPrefix  = "GREMLIN"

	xdgConfigHomeKey = "XDG_CONFIG_HOME"

	windowsOs = "windows"
)

// Init initializes the viper configuration for gremlin.
//
// It sets the configuration file name as .gremlin.yaml, adds the passed
// paths as ConfigPaths, and enables AutomaticEnv with GREMLIN as prefix.
// Environment variables take precedence over the configuration file and
// must be set in the format:
//
//	GREMLIN_<COMMAND NAME>_<FLAG NAME>
func Init(cPaths []string) error {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix(gremlinEnvVarPrefix)
	viper.AutomaticEnv()
	viper.SetConfigName(gremlinCfgName)
	viper.SetConfigType("yaml")

	if isSpecificFile(cPaths) {
		viper.SetConfigFile(cPaths[0])
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	} else if arePathsNotSet(cPaths) {
		cPaths = defaultConfigPaths()
	}

	for _, p := range cPaths {
		viper.AddConfigPath(p)
	}

	_ = viper.ReadInConfig() // ignoring error if file not present

	return nil
}

func isSpecificFile(cPaths []string) bool {
	return len(cPaths) == 1 && filepath.Ext(cPaths[0]) != ""
}

func arePathsNotSet(cPaths []string) bool {
	return len(cPaths) == 0 || len(cPaths) == 1 && cPaths[0] == ""
}

func defaultConfigPaths() []string {
	result := make([]string, 0, 4)

	if runtime.GOOS != windowsOs {
		result = append(result, "/etc/gremlin")
	}

	xchLocation, _ := homedir.Expand("~/.config")
	if x := os.Getenv(xdgConfigHomeKey); x != "" {
		xchLocation = x
	}
	xchLocation = filepath.Join(xchLocation, "gremlin", "gremlin")
	result = append(result, xchLocation)

	homeLocation, err := homedir.Expand("~/.gremlin")
	if err != nil {
		return result
	}
	result = append(result, homeLocation)

	if root := findModuleRoot(); root != "" {
		result = append(result, root)
	}

	result = append(result, ".")

	return result
}

func findModuleRoot() string {
	// Duplicated from internal/gomodule: configuration is initialised
	// before gomodule has a chance to resolve the module root.
	path, _ := os.Getwd()
	for {
		if fi, err := os.Stat(filepath.Join(path, "go.mod")); err == nil && !fi.IsDir() {
			return path
		}
		d := filepath.Dir(path)
		if d == path {
			break
		}
		path = d
	}

	return ""
}

var mutex sync.RWMutex

// Set offers synchronised access to Viper.
func Set[T any](k string, v T) {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Set(k, v)
}

// Get offers synchronised access to Viper.
func Get[T any](k string) T {
	var r T
	mutex.RLock()
	defer mutex.RUnlock()
	r, _ = viper.Get(k).(T)

	return r
}

// Reset is used mainly for testing purposes, in order to clean up the
// Viper instance.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Reset()
}
