// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config provides file-based defaults for the transform command.  Flags
// given on the command line take precedence over values set here.
type Config struct {
	// IncludeDirs are forwarded to the front-end.
	IncludeDirs []string `yaml:"include_dirs"`
	// Telemetry output path ("" means stderr).
	Telemetry string `yaml:"telemetry"`
	// InPlace selects overwriting the input over side-by-side output.
	InPlace bool `yaml:"in_place"`
	// Ignore lists macro names which are never transformed.
	Ignore []string `yaml:"ignore"`
	// Jobs bounds how many translation units are processed at once.
	Jobs uint `yaml:"jobs"`
}

// ReadConfig parses a YAML configuration file.
func ReadConfig(filename string) (Config, error) {
	var config Config
	//
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	//
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return config, err
	}
	//
	return config, nil
}
