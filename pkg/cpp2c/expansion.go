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
	"errors"

	"github.com/appleseedlab/cpp-to-c/pkg/cc"
	"github.com/appleseedlab/cpp-to-c/pkg/util/collection/stack"
	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// ErrUnbalancedExpansions indicates the preprocessor announced an expansion
// which never completed; the translation unit must be abandoned.
var ErrUnbalancedExpansions = errors.New("unbalanced macro expansion events")

// MacroRecord pairs a macro definition with its fingerprint.
type MacroRecord struct {
	Macro       *cc.Macro
	Fingerprint string
}

// Argument is one argument of a recorded invocation, together with (after
// binding) the AST sub-expression it parsed as.
type Argument struct {
	// Index of the corresponding macro parameter.
	Index int
	// Name of the corresponding macro parameter.
	Name string
	// Raw tokens spelled at the call site.
	Raw []cc.Token
	// Expanded tokens after argument prescan.
	Expanded []cc.Token
	// Span of the raw tokens.
	Span source.Span
	// Expr is the bound sub-expression, or nil when the argument did not
	// parse as exactly one expression.
	Expr cc.Expr
}

// Bound checks whether this argument was bound to an AST sub-expression.
func (a *Argument) Bound() bool {
	return a.Expr != nil
}

// ExpansionNode records one macro invocation, the forest of invocations
// nested within it, and (after binding) the AST nodes its expansion covers.
// Nodes are immutable after binding, except for the verdict.
type ExpansionNode struct {
	// Macro being expanded.
	Macro *cc.Macro
	// Fingerprint of the macro definition.
	Fingerprint string
	// Spelling span of the invocation in the user's source.
	Spelling source.Span
	// Arguments of the invocation, in parameter order.
	Args []*Argument
	// Parent invocation, or nil for a top-level expansion.
	Parent *ExpansionNode
	// Children in textual order.
	Children []*ExpansionNode
	// Covered is the set of maximal AST nodes whose spelling begins within
	// this expansion.
	Covered []cc.Node
	// EnclosingName names the top-level declaration the expansion occurs
	// in, or "" when there is none.
	EnclosingName string
	// Verdict of classification (nil until classified).
	Verdict Verdict
}

// IsTopLevel checks whether this expansion is not nested inside another.
func (e *ExpansionNode) IsTopLevel() bool {
	return e.Parent == nil
}

// BodyExpr determines the single expression this expansion covers, or nil.
// An expansion covering exactly one expression statement is unwrapped to
// that statement's expression.
func (e *ExpansionNode) BodyExpr() cc.Expr {
	if len(e.Covered) != 1 {
		return nil
	}
	//
	switch n := e.Covered[0].(type) {
	case *cc.ExprStmt:
		return n.E
	case cc.Expr:
		return n
	default:
		return nil
	}
}

// Location determines where the invocation begins.
func (e *ExpansionNode) Location(file *source.File) source.Location {
	return file.LocationOf(e.Spelling.Start())
}

// Recorder listens to the preprocessor and builds, per translation unit, a
// forest of expansion nodes rooted at the outermost invocations.  A stack of
// in-progress nodes tracks nesting; the preprocessor guarantees that begin
// and end events pair up, and Finalize verifies it.
type Recorder struct {
	// All macro definitions seen, in definition order.
	defs []*MacroRecord
	// Fingerprints of macros seen so far.
	fingerprints map[*cc.Macro]string
	// Top-level expansions in textual order.
	roots []*ExpansionNode
	// In-progress expansions.
	pending *stack.Stack[*ExpansionNode]
	// Aborted is set if end events mismatch begin events.
	aborted bool
}

var _ cc.Listener = &Recorder{}

// NewRecorder constructs an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		fingerprints: make(map[*cc.Macro]string),
		pending:      stack.NewStack[*ExpansionNode](),
	}
}

// MacroDefined implements cc.Listener.
func (r *Recorder) MacroDefined(macro *cc.Macro) {
	fingerprint := Fingerprint(macro)
	r.fingerprints[macro] = fingerprint
	r.defs = append(r.defs, &MacroRecord{macro, fingerprint})
}

// ExpansionBegins implements cc.Listener.
func (r *Recorder) ExpansionBegins(expansion *cc.Expansion) {
	node := &ExpansionNode{
		Macro:       expansion.Macro,
		Fingerprint: r.FingerprintOf(expansion.Macro),
		Spelling:    expansion.Spelling,
	}
	//
	for i := range expansion.Args {
		arg := &expansion.Args[i]
		node.Args = append(node.Args, &Argument{
			Index: arg.Index,
			Name:  arg.Name,
			Raw:   arg.Raw,
			Span:  arg.Span,
		})
	}
	//
	if r.pending.IsEmpty() {
		r.roots = append(r.roots, node)
	} else {
		parent := r.pending.Top()
		node.Parent = parent
		parent.Children = append(parent.Children, node)
	}
	//
	r.pending.Push(node)
}

// ExpansionEnds implements cc.Listener.
func (r *Recorder) ExpansionEnds(expansion *cc.Expansion) {
	if r.pending.IsEmpty() {
		r.aborted = true
		return
	}
	//
	node := r.pending.Pop()
	//
	if node.Macro != expansion.Macro {
		r.aborted = true
		return
	}
	// Argument prescan has completed by now, so the expanded argument
	// streams can be captured.
	for i := range node.Args {
		node.Args[i].Expanded = expansion.Args[i].Expanded
	}
}

// Finalize verifies the recorded event stream was balanced, discarding any
// incomplete nodes.  A non-empty stack at end of input is an internal
// invariant failure which fails the translation unit.
func (r *Recorder) Finalize() error {
	if r.aborted || !r.pending.IsEmpty() {
		r.pending.Clear()
		//
		return ErrUnbalancedExpansions
	}
	//
	return nil
}

// Definitions returns every macro definition seen, in definition order.
func (r *Recorder) Definitions() []*MacroRecord {
	return r.defs
}

// Roots returns the top-level expansions in textual order.
func (r *Recorder) Roots() []*ExpansionNode {
	return r.roots
}

// FingerprintOf looks up (or computes) the fingerprint of a macro.
func (r *Recorder) FingerprintOf(macro *cc.Macro) string {
	if fingerprint, ok := r.fingerprints[macro]; ok {
		return fingerprint
	}
	//
	fingerprint := Fingerprint(macro)
	r.fingerprints[macro] = fingerprint
	//
	return fingerprint
}

// Visit traverses every recorded expansion in preorder (outermost first,
// textual order within a level).
func (r *Recorder) Visit(fn func(*ExpansionNode)) {
	var walk func(*ExpansionNode)
	//
	walk = func(node *ExpansionNode) {
		fn(node)
		//
		for _, child := range node.Children {
			walk(child)
		}
	}
	//
	for _, root := range r.roots {
		walk(root)
	}
}
