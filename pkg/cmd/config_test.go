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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "cpp2c.yaml")
	//
	contents := `include_dirs:
  - include
  - vendor/include
telemetry: out.csv
in_place: true
ignore:
  - NDEBUG
  - assert
jobs: 4
`
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0644))
	//
	config, err := ReadConfig(filename)
	require.NoError(t, err)
	//
	assert.Equal(t, []string{"include", "vendor/include"}, config.IncludeDirs)
	assert.Equal(t, "out.csv", config.Telemetry)
	assert.True(t, config.InPlace)
	assert.Equal(t, []string{"NDEBUG", "assert"}, config.Ignore)
	assert.Equal(t, uint(4), config.Jobs)
}

func TestReadConfig_Missing(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestReadConfig_Malformed(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "cpp2c.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(":\t:"), 0644))
	//
	_, err := ReadConfig(filename)
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "foo.cpp2c.c", outputName("foo.c", false))
	assert.Equal(t, "dir/foo.cpp2c.c", outputName("dir/foo.c", false))
	assert.Equal(t, "foo.c", outputName("foo.c", true))
}
