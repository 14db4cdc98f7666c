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

// operatorEnabled holds the default enabled/disabled state of each
// built-in operator. Kept up to date whenever a new operator is added
// to internal/syntax.
var operatorEnabled = map[string]bool{
	"comparison": true,
	"boundary":   true,
	"boolean":    false,
	"return":     true,
	"arithmetic": true,
}

// IsOperatorDefaultEnabled returns the default enabled/disabled state of
// a named operator.
func IsOperatorDefaultEnabled(name string) bool {
	return operatorEnabled[name]
}
