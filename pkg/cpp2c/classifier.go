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

	"github.com/appleseedlab/cpp-to-c/pkg/cc"
	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// Classify decides whether a bound expansion can be rewritten as a call to a
// C definition, and if so synthesizes that definition.  Rejections are the
// expected outcome for most macros; each carries a stable category along
// with a human-readable reason.
//
// The rules are checked in increasing order of cost: structural shape first,
// then hygiene and environment capture, then call-by-name divergence, then
// types.  The first failing rule wins.
func Classify(tu *cc.TranslationUnit, node *ExpansionNode) Verdict {
	macro := node.Macro
	// Only outermost invocations are rewritten; inner invocations are
	// subsumed by whatever happens to their parent.
	if !node.IsTopLevel() {
		return reject(CategoryUnsupported, "expansion is nested within another expansion")
	}
	// Shape of the definition itself.
	if macro.Kind == cc.MacroVariadic {
		return reject(CategoryUnsupported, "macro is variadic")
	}
	//
	if macro.Stringizes {
		return reject(CategoryUnsupported, "macro body stringizes a parameter")
	}
	//
	if macro.Pastes {
		return reject(CategoryUnsupported, "macro body pastes tokens")
	}
	//
	if macro.SelfReferential() {
		return reject(CategoryUnsupported, "macro body references the macro itself")
	}
	//
	if v := checkEnvironment(macro); v != nil {
		return v
	}
	// An object-like macro whose body spells a type name becomes a typedef,
	// regardless of what (if anything) its expansions parsed as.
	if !macro.IsFunctionLike() {
		if ty, ok := tu.ParseTypeName(macro.Body); ok {
			return &Transform{&TransformedDefinition{
				Macro:       macro,
				Fingerprint: node.Fingerprint,
				Kind:        KindTypedef,
				ReturnType:  ty,
				EmittedName: macro.Name,
				Body:        cc.TextOfTokens(macro.Body),
			}}
		}
	}
	// Shape of the expansion within the syntax tree.
	if len(node.Covered) == 0 {
		return reject(CategoryUnsupported, "expansion does not cover any parsed construct")
	}
	//
	if len(node.Covered) > 1 {
		return reject(CategoryUnsupported, "expansion does not form a single subtree")
	}
	//
	body := node.BodyExpr()
	if body == nil {
		return reject(CategoryUnsupported, "macro body is not a single expression")
	}
	// Arguments whose parameter the body uses must each have parsed as
	// exactly one sub-expression; anything else means the argument's parse
	// absorbed or leaked surrounding tokens.
	for _, arg := range node.Args {
		if macro.ParamUses(arg.Name) > 0 && !arg.Bound() {
			return reject(CategoryUnsupported,
				fmt.Sprintf("argument %s does not parse as an expression", arg.Name))
		}
	}
	//
	if v := checkParamUses(macro, node); v != nil {
		return v
	}
	//
	if v := checkHygiene(tu, node, body); v != nil {
		return v
	}
	//
	if v := checkParamMutation(node, body); v != nil {
		return v
	}
	//
	if v := checkShortCircuit(node, body); v != nil {
		return v
	}
	//
	if v := checkTypes(node, body); v != nil {
		return v
	}
	//
	return &Transform{synthesize(node, body)}
}

// checkParamUses rejects when a parameter's use count interacts badly with
// its argument.  A parameter the body never mentions drops its argument
// entirely under call-by-name, so the synthesized function must not force an
// argument whose evaluation could be observed; a parameter mentioned more
// than once re-evaluates its argument.
func checkParamUses(macro *cc.Macro, node *ExpansionNode) Verdict {
	for _, arg := range node.Args {
		uses := macro.ParamUses(arg.Name)
		//
		switch {
		case uses == 0:
			if v := checkDroppedArgument(arg); v != nil {
				return v
			}
		case uses > 1 && !cc.IsPure(arg.Expr):
			return reject(CategorySemantic,
				fmt.Sprintf("parameter %s is used %d times with an impure argument", arg.Name, uses))
		}
	}
	//
	return nil
}

// checkDroppedArgument vets the argument of an unused parameter.  The
// argument's tokens never reach the parser, so when the file-scope fallback
// parse failed the raw token stream is the only witness.
func checkDroppedArgument(arg *Argument) Verdict {
	var effectful, unsafe bool
	//
	if arg.Bound() {
		effectful, unsafe = cc.HasSideEffects(arg.Expr), cc.MayTrap(arg.Expr)
	} else {
		effectful, unsafe = tokensHaveSideEffects(arg.Raw), tokensMayTrap(arg.Raw)
	}
	//
	switch {
	case effectful:
		return reject(CategoryUnsupported,
			fmt.Sprintf("parameter %s is unused but its argument has side effects", arg.Name))
	case unsafe:
		return reject(CategoryUnsupported,
			fmt.Sprintf("parameter %s is unused but its argument may trap", arg.Name))
	case !arg.Bound():
		// Pure but opaque: no expression means no type to give the
		// parameter.
		return reject(CategoryType,
			fmt.Sprintf("type of parameter %s is not uniquely determinable", arg.Name))
	}
	//
	return nil
}

// tokensHaveSideEffects conservatively detects assignment, increment,
// decrement or a function call in a raw token sequence.
func tokensHaveSideEffects(toks []cc.Token) bool {
	for i, t := range toks {
		switch {
		case t.Kind != cc.TokenPunct:
			continue
		case t.Text == "++" || t.Text == "--" || assignOp(t.Text):
			return true
		case t.Text == "(" && i > 0 && toks[i-1].Kind == cc.TokenIdent:
			return true
		}
	}
	//
	return false
}

// tokensMayTrap conservatively detects dereference, indexing, division or
// member access through a pointer in a raw token sequence.
func tokensMayTrap(toks []cc.Token) bool {
	for i, t := range toks {
		if t.Kind != cc.TokenPunct {
			continue
		}
		//
		switch t.Text {
		case "/", "%", "[", "->":
			return true
		case "*":
			// Unary when first or preceded by another operator.
			if i == 0 || toks[i-1].Kind == cc.TokenPunct && toks[i-1].Text != ")" && toks[i-1].Text != "]" {
				return true
			}
		}
	}
	//
	return false
}

func assignOp(text string) bool {
	switch text {
	case "=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "|=", "^=":
		return true
	}
	//
	return false
}

// checkHygiene rejects when an identifier spelled in the macro body would
// resolve differently once the body moves to a free definition at the top of
// the file.  Identifiers originating from arguments are exempt: they are
// passed in by value, so their bindings travel with the call.
func checkHygiene(tu *cc.TranslationUnit, node *ExpansionNode, body cc.Expr) Verdict {
	var verdict Verdict
	//
	cc.Walk(body, func(n cc.Node) bool {
		if verdict != nil {
			return false
		}
		//
		ident, ok := n.(*cc.Ident)
		if !ok || fromArgument(node, ident.Span()) {
			return true
		}
		//
		if !ident.Sym.IsFileScope() {
			verdict = reject(CategoryHygiene,
				fmt.Sprintf("identifier %s resolves to a local declaration at the expansion site", ident.Ident))
			//
			return false
		}
		// A file-scope binding can still be shadowed out from under the
		// emitted definition.
		if tu.FileScopeLookup(ident.Ident) != ident.Sym {
			verdict = reject(CategoryHygiene,
				fmt.Sprintf("identifier %s is shadowed at the expansion site", ident.Ident))
			//
			return false
		}
		// The body must make sense at the macro's definition point, so a
		// binding introduced later in the file is out of reach.
		if ident.Sym.DefSpan.Start() > node.Macro.DefSpan.Start() {
			verdict = reject(CategoryHygiene,
				fmt.Sprintf("identifier %s is not declared at the definition site", ident.Ident))
			//
			return false
		}
		//
		return true
	})
	//
	return verdict
}

// checkEnvironment rejects bodies which capture the enclosing function's
// control flow.  These keywords can never appear inside a transformable
// body expression, but a body containing them may still have parsed as part
// of a surrounding construct, so the token stream is the reliable witness.
func checkEnvironment(macro *cc.Macro) Verdict {
	for _, t := range macro.Body {
		if t.Kind != cc.TokenKeyword {
			continue
		}
		//
		switch t.Text {
		case "return", "break", "continue", "goto":
			return reject(CategoryEnvironment,
				fmt.Sprintf("macro body uses %s", t.Text))
		}
	}
	//
	return nil
}

// checkParamMutation rejects bodies which assign to (or increment) a
// parameter.  In the macro the mutation lands on the caller's lvalue; in a
// function it would land on the local copy.
func checkParamMutation(node *ExpansionNode, body cc.Expr) Verdict {
	var verdict Verdict
	//
	cc.Walk(body, func(n cc.Node) bool {
		if verdict != nil {
			return false
		}
		//
		var target cc.Expr
		//
		switch n := n.(type) {
		case *cc.Assign:
			target = n.Lhs
		case *cc.Unary:
			if n.Op == "++" || n.Op == "--" {
				target = n.Operand
			}
		case *cc.Postfix:
			target = n.Operand
		}
		// Parentheses around the target carry the invocation span, hiding the
		// argument's own spelling underneath.
		for {
			if paren, ok := target.(*cc.Paren); ok {
				target = paren.Inner
				continue
			}
			//
			break
		}
		//
		if target != nil && fromArgument(node, target.Span()) {
			verdict = reject(CategorySemantic, "macro body assigns to a parameter")
			//
			return false
		}
		//
		return true
	})
	//
	return verdict
}

// checkShortCircuit rejects when call-by-value would force evaluation of an
// argument that the macro, under call-by-name, only evaluates on some paths.
// An argument is at risk when every one of its occurrences sits beneath the
// short-circuited operand of && or ||, or a branch of ?:, and evaluating it
// unconditionally could be observed (side effects) or could fault (trap).
func checkShortCircuit(node *ExpansionNode, body cc.Expr) Verdict {
	unconditional := make([]bool, len(node.Args))
	occurs := make([]bool, len(node.Args))
	//
	var walk func(n cc.Node, conditional bool)
	//
	walk = func(n cc.Node, conditional bool) {
		// Occurrences inside an argument are attributed to that argument
		// and not descended into: conditionality within the argument's own
		// text is the caller's business, not the macro's.
		if e, ok := n.(cc.Expr); ok {
			if i := argumentAt(node, e.Span()); i >= 0 {
				occurs[i] = true
				unconditional[i] = unconditional[i] || !conditional
				//
				return
			}
		}
		//
		switch n := n.(type) {
		case *cc.Binary:
			if n.Op == "&&" || n.Op == "||" {
				walk(n.Lhs, conditional)
				walk(n.Rhs, true)
				//
				return
			}
		case *cc.Conditional:
			walk(n.Cond, conditional)
			walk(n.Then, true)
			walk(n.Else, true)
			//
			return
		}
		//
		for _, child := range cc.Children(n) {
			walk(child, conditional)
		}
	}
	//
	walk(body, false)
	//
	for i, arg := range node.Args {
		if !occurs[i] || unconditional[i] {
			continue
		}
		//
		if cc.HasSideEffects(arg.Expr) || cc.MayTrap(arg.Expr) {
			return reject(CategorySemantic,
				fmt.Sprintf("argument for %s would be evaluated unconditionally", arg.Name))
		}
	}
	//
	return nil
}

// checkTypes rejects expansions whose synthesized signature cannot be
// soundly expressed.
func checkTypes(node *ExpansionNode, body cc.Expr) Verdict {
	if v := checkValueType(body, "expansion"); v != nil {
		return v
	}
	//
	for _, arg := range node.Args {
		if _, ok := arg.Expr.(*cc.StrLit); ok {
			// "abc" could be char *, const char * or an array depending on
			// how the body uses it.
			return reject(CategoryType,
				fmt.Sprintf("type of parameter %s is not uniquely determinable", arg.Name))
		}
		//
		if v := checkValueType(arg.Expr, "parameter "+arg.Name); v != nil {
			return v
		}
	}
	//
	return nil
}

// checkValueType verifies an expression's type can stand as a value (return
// or parameter) in a synthesized signature.
func checkValueType(e cc.Expr, what string) Verdict {
	ty := e.Type().Decay()
	//
	switch {
	case ty == nil || ty.Kind == cc.TypeVoid:
		return reject(CategoryType, fmt.Sprintf("%s has void type", what))
	case !ty.IsComplete():
		return reject(CategoryType, fmt.Sprintf("%s has incomplete type %s", what, ty))
	case isBitfieldAccess(e):
		return reject(CategoryType, fmt.Sprintf("%s is a bit-field access", what))
	}
	//
	return nil
}

// isBitfieldAccess checks whether an expression (through any parentheses)
// names a bit-field member.
func isBitfieldAccess(e cc.Expr) bool {
	for {
		if p, ok := e.(*cc.Paren); ok {
			e = p.Inner
			continue
		}
		//
		break
	}
	//
	access, ok := e.(*cc.MemberAccess)
	if !ok {
		return false
	}
	//
	record := access.Obj.Type()
	if record != nil && record.Kind == cc.TypePtr {
		record = record.Base
	}
	//
	if record == nil {
		return false
	}
	//
	for _, m := range record.Members {
		if m.Name == access.Member {
			return m.Bitfield
		}
	}
	//
	return false
}

// synthesize builds the definition for an accepted expansion.
func synthesize(node *ExpansionNode, body cc.Expr) *TransformedDefinition {
	macro := node.Macro
	//
	def := &TransformedDefinition{
		Macro:       macro,
		Fingerprint: node.Fingerprint,
		ReturnType:  body.Type().Decay().Unqualified(),
		EmittedName: macro.Name,
		Body:        cc.TextOfTokens(macro.Body),
	}
	// An object-like macro spelling a scalar constant becomes a variable;
	// everything else becomes a function.
	if !macro.IsFunctionLike() && cc.IsConstantExpr(body) && def.ReturnType.IsScalar() {
		def.Kind = KindVariable
		//
		return def
	}
	//
	def.Kind = KindFunction
	def.ParamNames = append(def.ParamNames, macro.Params...)
	//
	for _, arg := range node.Args {
		def.ParamTypes = append(def.ParamTypes, arg.Expr.Type().Decay().Unqualified())
	}
	//
	return def
}

// fromArgument checks whether an AST span lies within one of the
// invocation's argument spans, i.e. whether the construct was spelled by the
// caller rather than by the macro body.
func fromArgument(node *ExpansionNode, span source.Span) bool {
	return argumentAt(node, span) >= 0
}

// argumentAt finds the argument whose call-site span contains the given
// span, or -1.
func argumentAt(node *ExpansionNode, span source.Span) int {
	for i, arg := range node.Args {
		if arg.Span.Contains(span) {
			return i
		}
	}
	//
	return -1
}
