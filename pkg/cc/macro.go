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
package cc

import (
	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// MacroKind identifies the flavour of a preprocessor macro.
type MacroKind uint8

const (
	// MacroObjectLike is a macro without a parameter list.
	MacroObjectLike MacroKind = iota
	// MacroFunctionLike is a macro with a (possibly empty) parameter list.
	MacroFunctionLike
	// MacroVariadic is a function-like macro whose last parameter is "...".
	MacroVariadic
)

// Macro captures a single #define directive: its name, kind, ordered
// parameter names and body token stream, along with where it was defined.
type Macro struct {
	// Name of this macro.
	Name string
	// Kind of this macro.
	Kind MacroKind
	// Parameter names, in declaration order.  Empty for object-like macros.
	Params []string
	// Body token stream (as spelled in the #define, after the name and
	// parameter list).
	Body []Token
	// File this macro was defined in.
	DefFile *source.File
	// Span of the macro name within its #define directive.
	DefSpan source.Span
	// Stringizes indicates the body applies # to a parameter.
	Stringizes bool
	// Pastes indicates the body contains the ## operator.
	Pastes bool
}

// IsFunctionLike checks whether this macro takes arguments.
func (m *Macro) IsFunctionLike() bool {
	return m.Kind != MacroObjectLike
}

// DefLocation determines the location of this macro's definition.
func (m *Macro) DefLocation() source.Location {
	return m.DefFile.LocationOf(m.DefSpan.Start())
}

// ParamIndex determines the index of a given parameter name, or -1 if the
// name is not a parameter of this macro.
func (m *Macro) ParamIndex(name string) int {
	for i, p := range m.Params {
		if p == name {
			return i
		}
	}
	//
	return -1
}

// ParamUses counts how often a given parameter occurs in the macro body.
func (m *Macro) ParamUses(name string) int {
	count := 0
	//
	for _, t := range m.Body {
		if t.IsIdent() && t.Text == name {
			count++
		}
	}
	//
	return count
}

// SelfReferential checks whether the macro body mentions the macro's own
// name.  Such macros rely on the hideset mechanism to terminate and cannot be
// turned into functions.
func (m *Macro) SelfReferential() bool {
	for _, t := range m.Body {
		if t.IsIdent() && t.Text == m.Name {
			return true
		}
	}
	//
	return false
}

// ExpansionArg records one argument of a function-like macro invocation: the
// raw token stream as spelled at the call site, the fully expanded token
// stream which is substituted into the body, and the spelling span the raw
// tokens occupy.
type ExpansionArg struct {
	// Index of the corresponding parameter.
	Index int
	// Name of the corresponding parameter.
	Name string
	// Raw tokens as spelled at the call site.
	Raw []Token
	// Expanded tokens after argument prescan.
	Expanded []Token
	// Span of the raw tokens at the call site.
	Span source.Span
}

// Expansion records a single macro invocation: the macro being expanded, the
// spelling span of the invocation (including, for function-like macros, the
// argument list up to the closing parenthesis) and the arguments themselves.
type Expansion struct {
	// Macro being expanded.
	Macro *Macro
	// Spelling span of this invocation in the user's source.
	Spelling source.Span
	// Arguments of this invocation (empty for object-like macros).
	Args []ExpansionArg
}

// Listener is the observer interface through which the preprocessor
// announces macro activity.  Events are properly nested: every
// ExpansionBegins is matched by an ExpansionEnds for the same expansion, and
// nested expansions (in arguments or in rescanning) begin and end strictly
// within their parent.  Every MacroDefined event precedes any expansion event
// referencing that macro.
type Listener interface {
	// MacroDefined is invoked when a #define directive completes.
	MacroDefined(macro *Macro)
	// ExpansionBegins is invoked when a macro invocation has been recognised
	// and, for function-like macros, its arguments have been gathered.
	ExpansionBegins(expansion *Expansion)
	// ExpansionEnds is invoked once the invocation has been fully expanded,
	// including nested expansions.
	ExpansionEnds(expansion *Expansion)
}

// Config determines how a translation unit is processed by the front end.
type Config struct {
	// IncludeDirs are searched (in order) for #include files.
	IncludeDirs []string
	// Listener receives macro events, and may be nil.
	Listener Listener
}
