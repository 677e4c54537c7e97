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

// Category classifies why an expansion was left untransformed.  These
// strings are stable: they appear verbatim in telemetry and are relied upon
// by downstream tooling.
type Category string

const (
	// CategoryUnsupported covers macros whose shape the transformer cannot
	// express as a C definition at all (variadic, token-pasting, bodies that
	// are not a single expression, and so on).
	CategoryUnsupported Category = "Unsupported construct"
	// CategoryHygiene covers expansions whose identifiers would resolve to
	// different declarations when moved to a free definition.
	CategoryHygiene Category = "Hygiene"
	// CategoryEnvironment covers expansions which capture the enclosing
	// function's environment (control flow, labels).
	CategoryEnvironment Category = "Environment capture"
	// CategorySemantic covers expansions where call-by-value evaluation
	// would diverge from the macro's call-by-name evaluation.
	CategorySemantic Category = "Semantic mismatch"
	// CategoryType covers expansions whose types cannot be soundly
	// expressed in a synthesized signature.
	CategoryType Category = "Type"
	// CategoryInternal covers invariant failures in the transformer itself.
	CategoryInternal Category = "Internal"
)

// Verdict is the outcome of classifying one expansion: either a transform
// carrying the definition to emit, or a rejection carrying its category and
// reason.  Dispatch is by case analysis over the two variants.
type Verdict interface {
	isVerdict()
}

// Transform is the accepting verdict.
type Transform struct {
	// Def is the definition synthesized for this expansion (prior to
	// deduplication).
	Def *TransformedDefinition
}

func (t *Transform) isVerdict() {}

// Reject is the refusing verdict.
type Reject struct {
	Category Category
	Reason   string
}

func (r *Reject) isVerdict() {}

func reject(category Category, reason string) *Reject {
	return &Reject{category, reason}
}
