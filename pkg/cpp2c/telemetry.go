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
	"fmt"
	"io"

	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// Counts summarises the telemetry of one translation unit.
type Counts struct {
	// Definitions seen.
	Definitions int
	// Expansions seen.
	Expansions int
	// Expansions rewritten.
	Transformed int
	// Expansions left alone.
	Untransformed int
	// Distinct definitions emitted.
	EmittedDefinitions int
}

// Telemetry writes the line-oriented record stream describing what the
// transformer saw and decided.  One record per event, never swallowed: every
// expansion produces either a transformed or an untransformed record, so the
// expansion count always equals their sum.  The first write failure is
// retained and fails the translation unit.
type Telemetry struct {
	out    io.Writer
	counts Counts
	err    error
}

// NewTelemetry constructs a telemetry emitter over a given stream.
func NewTelemetry(out io.Writer) *Telemetry {
	return &Telemetry{out: out}
}

// Counts returns the record counts so far.
func (t *Telemetry) Counts() Counts {
	return t.counts
}

// Err returns the first write failure, if any.
func (t *Telemetry) Err() error {
	return t.err
}

// MacroDefinition records a #define being seen.
func (t *Telemetry) MacroDefinition(record *MacroRecord) {
	t.counts.Definitions++
	t.emit("CPP2C:Macro Definition,%q,%s", record.Fingerprint, record.Macro.DefLocation())
}

// MacroExpansion records an invocation being seen.
func (t *Telemetry) MacroExpansion(node *ExpansionNode, loc source.Location) {
	t.counts.Expansions++
	t.emit("CPP2C:Macro Expansion,%q,%s", node.Fingerprint, loc)
}

// UntransformedExpansion records a rejection, with its category and reason.
func (t *Telemetry) UntransformedExpansion(node *ExpansionNode, loc source.Location, rej *Reject) {
	t.counts.Untransformed++
	t.emit("CPP2C:Untransformed Expansion,%q,%s,%s,%s,%s",
		node.Fingerprint, loc, node.EnclosingName, rej.Category, rej.Reason)
}

// TransformedDefinition records a distinct definition being emitted.
func (t *Telemetry) TransformedDefinition(def *TransformedDefinition) {
	t.counts.EmittedDefinitions++
	t.emit("CPP2C:Transformed Definition,%q,%q,%s",
		def.Fingerprint, def.SignatureWithoutName(), def.EmittedName)
}

// TransformedExpansion records an invocation being rewritten.
func (t *Telemetry) TransformedExpansion(node *ExpansionNode, loc source.Location) {
	t.counts.Transformed++
	t.emit("CPP2C:Transformed Expansion,%q,%s,%s", node.Fingerprint, loc, node.EnclosingName)
}

func (t *Telemetry) emit(format string, args ...any) {
	if t.err != nil {
		return
	}
	//
	_, t.err = fmt.Fprintf(t.out, format+"\n", args...)
}
