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
package cpp2c

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/appleseedlab/cpp-to-c/pkg/cc"
	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// Options configure the transformation of translation units.
type Options struct {
	// IncludeDirs are searched (in order) for #include files.
	IncludeDirs []string
	// Ignore lists macro names which are never transformed.
	Ignore []string
}

// Result is the outcome of transforming one translation unit: the rewritten
// source, the telemetry record stream, and its summary counts.
type Result struct {
	// Filename of the translation unit.
	Filename string
	// Output is the rewritten source text.
	Output string
	// Telemetry is the record stream for this unit.
	Telemetry string
	// Counts summarises the telemetry.
	Counts Counts
}

// TransformSource runs the whole pipeline over a single translation unit.
// On any fatal failure (parse error, invariant violation) no output is
// produced for the unit.
func TransformSource(file *source.File, opts Options) (*Result, error) {
	var telemetryOut strings.Builder
	//
	recorder := NewRecorder()
	telemetry := NewTelemetry(&telemetryOut)
	//
	tu, err := cc.ParseTranslationUnit(file, cc.Config{
		IncludeDirs: opts.IncludeDirs,
		Listener:    recorder,
	})
	//
	if err != nil {
		return nil, err
	}
	//
	if err := recorder.Finalize(); err != nil {
		return nil, err
	}
	// Definitions are reported up front, in definition order.
	for _, record := range recorder.Definitions() {
		telemetry.MacroDefinition(record)
	}
	//
	Bind(tu, recorder)
	//
	ignored := make(map[string]bool)
	//
	for _, name := range opts.Ignore {
		ignored[name] = true
	}
	//
	dedup := NewDeduplicator()
	rewriter := NewRewriter(file)
	//
	recorder.Visit(func(node *ExpansionNode) {
		loc := node.Location(file)
		telemetry.MacroExpansion(node, loc)
		//
		if ignored[node.Macro.Name] {
			node.Verdict = reject(CategoryUnsupported, "macro excluded by configuration")
		} else {
			node.Verdict = Classify(tu, node)
		}
		//
		switch v := node.Verdict.(type) {
		case *Reject:
			telemetry.UntransformedExpansion(node, loc, v)
		case *Transform:
			canonical, fresh := dedup.Add(v.Def)
			//
			if fresh {
				telemetry.TransformedDefinition(canonical)
			}
			//
			rewriter.ReplaceInvocation(node, canonical)
			telemetry.TransformedExpansion(node, loc)
		}
	})
	//
	rewriter.InsertPrelude(tu, dedup.Definitions())
	//
	output, err := rewriter.Apply()
	if err != nil {
		return nil, err
	}
	//
	if err := telemetry.Err(); err != nil {
		return nil, err
	}
	//
	counts := telemetry.Counts()
	//
	log.Debugf("%s: %d definitions, %d expansions (%d transformed, %d untransformed), %d emitted",
		file.Filename(), counts.Definitions, counts.Expansions, counts.Transformed,
		counts.Untransformed, counts.EmittedDefinitions)
	//
	return &Result{file.Filename(), output, telemetryOut.String(), counts}, nil
}

// TransformFiles transforms a set of translation units, at most jobs at a
// time.  Units are fully independent: each gets its own front-end context,
// and results come back in input order.  The first failure cancels the
// remaining work.
func TransformFiles(filenames []string, opts Options, jobs uint) ([]*Result, error) {
	files, err := source.ReadFiles(filenames...)
	if err != nil {
		return nil, err
	}
	//
	results := make([]*Result, len(files))
	//
	var group errgroup.Group
	//
	group.SetLimit(max(int(jobs), 1))
	//
	for i := range files {
		i := i
		group.Go(func() error {
			result, err := TransformSource(&files[i], opts)
			//
			if err == nil {
				results[i] = result
			}
			//
			return err
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	//
	return results, nil
}
