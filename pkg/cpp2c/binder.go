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
	"github.com/appleseedlab/cpp-to-c/pkg/cc"
	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// Bind connects each recorded expansion to the syntax tree of its translation
// unit.  For every expansion it determines the maximal AST nodes the
// expansion's spelling covers, the sub-expressions its arguments parsed as,
// and the top-level declaration it occurs in.  Expansions whose tokens were
// never parsed (e.g. inside failed includes) simply end up with no covered
// nodes; the classifier deals with those.
func Bind(tu *cc.TranslationUnit, recorder *Recorder) {
	recorder.Visit(func(node *ExpansionNode) {
		bindOne(tu, node)
	})
}

func bindOne(tu *cc.TranslationUnit, node *ExpansionNode) {
	node.EnclosingName = tu.EnclosingDeclName(node.Spelling.Start())
	node.Covered = coveredNodes(tu, node.Spelling)
	// Bind arguments to the sub-expressions they parsed as.  Argument tokens
	// retain their call-site spans, so the argument is bound exactly when
	// some expression occupies precisely its span.
	for _, arg := range node.Args {
		arg.Expr = exprAt(tu, arg.Span)
		// An argument whose parameter is never used leaves no trace in the
		// tree.  A standalone parse against the file scope recovers the
		// expression when it does not depend on inner-scope bindings.  Used
		// parameters get no such fallback: for them a missing binding means
		// the argument did not parse as one sub-expression, which the
		// classifier must see.
		if arg.Expr == nil && node.Macro.ParamUses(arg.Name) == 0 {
			arg.Expr, _ = tu.ParseExpr(arg.Expanded)
		}
	}
}

// coveredNodes determines the maximal AST nodes whose spelling begins within
// the given span.  Maximality means a covered node subsumes its whole
// subtree, so traversal prunes below the first covered node on each path.
func coveredNodes(tu *cc.TranslationUnit, span source.Span) []cc.Node {
	var covered []cc.Node
	//
	for _, decl := range tu.Decls {
		cc.Walk(decl, func(n cc.Node) bool {
			if span.ContainsIndex(n.Span().Start()) {
				covered = append(covered, n)
				// Prune: children are subsumed.
				return false
			}
			// Skip subtrees entirely outside the span.
			return n.Span().End() > span.Start()
		})
	}
	//
	return covered
}

// exprAt finds the smallest expression occupying exactly the given span, or
// nil when no expression does.
func exprAt(tu *cc.TranslationUnit, span source.Span) cc.Expr {
	var best cc.Expr
	//
	for _, decl := range tu.Decls {
		cc.Walk(decl, func(n cc.Node) bool {
			if n.Span().End() <= span.Start() || n.Span().Start() >= span.End() {
				// Disjoint subtree.
				return false
			}
			//
			if e, ok := n.(cc.Expr); ok && n.Span() == span {
				// Descend further: a nested expression with the same span
				// (e.g. the operand of a redundant grouping) is smaller.
				best = e
			}
			//
			return true
		})
	}
	//
	return best
}
