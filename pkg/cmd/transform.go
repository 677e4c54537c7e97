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
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/appleseedlab/cpp-to-c/pkg/cpp2c"
	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

var transformCmd = &cobra.Command{
	Use:   "transform [flags] source_file(s)",
	Short: "Transform macros in one or more C translation units.",
	Long: `Analyse the given C translation units and rewrite those macro
invocations which can be soundly expressed as calls to C functions (or
uses of variables / typedefs).  Telemetry describing every decision is
written as one record per line.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(2)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		// Configure defaults from file (if given)
		var config Config
		//
		if filename := GetString(cmd, "config"); filename != "" {
			var err error
			//
			if config, err = ReadConfig(filename); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		// Flags override the configuration file.
		includes := append(config.IncludeDirs, GetStringArray(cmd, "include")...)
		inPlace := config.InPlace || GetFlag(cmd, "in-place")
		telemetry := config.Telemetry
		jobs := config.Jobs
		//
		if cmd.Flags().Changed("telemetry") {
			telemetry = GetString(cmd, "telemetry")
		}
		//
		if cmd.Flags().Changed("jobs") || jobs == 0 {
			jobs = GetUint(cmd, "jobs")
		}
		// Transform all units, bounded fan-out.
		results, err := cpp2c.TransformFiles(args, cpp2c.Options{
			IncludeDirs: includes,
			Ignore:      config.Ignore,
		}, jobs)
		//
		if err != nil {
			var syntaxError *source.SyntaxError
			//
			if errors.As(err, &syntaxError) {
				printSyntaxError(syntaxError)
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			//
			os.Exit(1)
		}
		//
		writeResults(results, inPlace, telemetry)
	},
}

// writeResults commits rewritten sources and the combined telemetry stream.
func writeResults(results []*cpp2c.Result, inPlace bool, telemetry string) {
	out := io.Writer(os.Stderr)
	//
	if telemetry != "" {
		f, err := os.Create(telemetry)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		//
		defer f.Close()
		//
		out = f
	}
	//
	for _, r := range results {
		if _, err := io.WriteString(out, r.Telemetry); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		//
		if err := os.WriteFile(outputName(r.Filename, inPlace), []byte(r.Output), 0644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// outputName determines where a rewritten unit is written: over the input
// when in-place, otherwise side-by-side under a .cpp2c.c suffix.
func outputName(filename string, inPlace bool) string {
	if inPlace {
		return filename
	}
	//
	return strings.TrimSuffix(filename, ".c") + ".cpp2c.c"
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.Flags().StringArrayP("include", "I", nil, "add directory to the include search path")
	transformCmd.Flags().Bool("in-place", false, "rewrite the input file rather than writing alongside it")
	transformCmd.Flags().String("telemetry", "", "write telemetry records to a file rather than stderr")
	transformCmd.Flags().String("config", "", "read defaults from a YAML configuration file")
	transformCmd.Flags().Uint("jobs", uint(runtime.NumCPU()), "number of translation units to process at once")
}
