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
)

// Deduplicator collapses synthesized definitions which share both a macro
// fingerprint and a name-independent signature, and assigns each surviving
// definition a stable emitted name.  Two expansions of the same macro with
// different inferred signatures stay distinct, under disambiguated names.
type Deduplicator struct {
	// Canonical definition per (fingerprint, signature) key.
	defs map[string]*TransformedDefinition
	// Emitted names already taken, mapped to the key which owns them.
	names map[string]string
	// Canonical definitions in first-seen order.
	order []*TransformedDefinition
}

// NewDeduplicator constructs an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		defs:  make(map[string]*TransformedDefinition),
		names: make(map[string]string),
	}
}

// Add canonicalises a synthesized definition.  It returns the canonical
// definition for the key, along with true when this call introduced it (so
// the caller emits its definition exactly once).
func (d *Deduplicator) Add(def *TransformedDefinition) (*TransformedDefinition, bool) {
	key := def.Fingerprint + "|" + def.SignatureWithoutName()
	//
	if canonical, ok := d.defs[key]; ok {
		return canonical, false
	}
	//
	def.EmittedName = d.freshName(def.Macro.Name, key)
	d.defs[key] = def
	d.order = append(d.order, def)
	//
	return def, true
}

// Definitions returns the canonical definitions in first-seen order.
func (d *Deduplicator) Definitions() []*TransformedDefinition {
	return d.order
}

// freshName claims the macro's own name when free, otherwise the first
// numbered variant which is.
func (d *Deduplicator) freshName(base string, key string) string {
	if _, taken := d.names[base]; !taken {
		d.names[base] = key
		//
		return base
	}
	//
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s_%d", base, n)
		//
		if _, taken := d.names[name]; !taken {
			d.names[name] = key
			//
			return name
		}
	}
}
