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

// Node is anything in the AST which covers a span of the original source.
// Spans of nodes are spelling spans: a node built entirely from tokens of a
// macro body reports the span of the invocation.
type Node interface {
	Span() source.Span
}

// Expr is a C expression, carrying the type computed during parsing.
type Expr interface {
	Node
	// Type of this expression (after semantic analysis).
	Type() *Type
}

// Stmt is a C statement.
type Stmt interface {
	Node
	isStmt()
}

// Decl is a top-level declaration within a translation unit.
type Decl interface {
	Node
	// Name of the declared entity ("" for anonymous declarations).
	Name() string
}

// SymKind identifies what a symbol names.
type SymKind uint8

const (
	// SymVar names an object.
	SymVar SymKind = iota
	// SymFunc names a function.
	SymFunc
	// SymParam names a function parameter.
	SymParam
	// SymTypedef names a type.
	SymTypedef
	// SymEnumConst names an enumeration constant.
	SymEnumConst
)

// Symbol is a declared name, binding an identifier to a type at a given
// lexical depth.  Depth zero is file scope; anything deeper is local.
type Symbol struct {
	Name string
	Kind SymKind
	Ty   *Type
	// Depth of the scope this symbol was declared in (0 = file scope).
	Depth int
	// DefSpan is the span of the declaring identifier.
	DefSpan source.Span
	// Value of an enumeration constant.
	Value int64
	// Implicit marks a function declared implicitly by its first call.
	Implicit bool
}

// IsFileScope checks whether this symbol is visible at file scope.
func (s *Symbol) IsFileScope() bool {
	return s.Depth == 0
}

// ===================================================================
// Expressions
// ===================================================================

type exprBase struct {
	span source.Span
	ty   *Type
}

func (e *exprBase) Span() source.Span { return e.span }
func (e *exprBase) Type() *Type       { return e.ty }

// Ident is a use of a declared name.
type Ident struct {
	exprBase
	// Name as spelled.
	Ident string
	// Sym this use resolves to.
	Sym *Symbol
}

// IntLit is an integer constant.
type IntLit struct {
	exprBase
	Value int64
}

// CharLit is a character constant.
type CharLit struct {
	exprBase
	Value int64
}

// StrLit is a string literal.
type StrLit struct {
	exprBase
	// Value includes the surrounding quotes.
	Value string
}

// Paren is a parenthesised expression.
type Paren struct {
	exprBase
	Inner Expr
}

// Unary is a prefix operation: * & - + ! ~ ++ --.
type Unary struct {
	exprBase
	Op      string
	Operand Expr
}

// Postfix is a postfix increment or decrement.
type Postfix struct {
	exprBase
	Op      string
	Operand Expr
}

// Binary is an infix operation other than assignment.
type Binary struct {
	exprBase
	Op  string
	Lhs Expr
	Rhs Expr
}

// Assign is a simple or compound assignment.
type Assign struct {
	exprBase
	// Op is "=", "+=", etc.
	Op  string
	Lhs Expr
	Rhs Expr
}

// Conditional is the ternary ?: operator.
type Conditional struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

// Call is a function call.
type Call struct {
	exprBase
	Fn   Expr
	Args []Expr
}

// Index is an array subscript.
type Index struct {
	exprBase
	Arr Expr
	Sub Expr
}

// MemberAccess is a . or -> access.
type MemberAccess struct {
	exprBase
	Obj    Expr
	Member string
	Arrow  bool
}

// Cast is an explicit type conversion.
type Cast struct {
	exprBase
	To      *Type
	Operand Expr
}

// Comma is the comma operator.
type Comma struct {
	exprBase
	Lhs Expr
	Rhs Expr
}

// SizeofExpr is sizeof applied to an expression.
type SizeofExpr struct {
	exprBase
	Operand Expr
}

// SizeofType is sizeof applied to a parenthesised type name.
type SizeofType struct {
	exprBase
	Of *Type
}

// ===================================================================
// Statements
// ===================================================================

type stmtBase struct {
	span source.Span
}

func (s *stmtBase) Span() source.Span { return s.span }
func (s *stmtBase) isStmt()           {}

// ExprStmt is an expression statement; E is nil for the empty statement.
type ExprStmt struct {
	stmtBase
	E Expr
}

// DeclStmt is a local declaration.
type DeclStmt struct {
	stmtBase
	Vars []*VarDecl
}

// Block is a compound statement.
type Block struct {
	stmtBase
	Stmts []Stmt
}

// If statement; Else may be nil.
type If struct {
	stmtBase
	Cond Expr
	Then Stmt
	Else Stmt
}

// While statement.
type While struct {
	stmtBase
	Cond Expr
	Body Stmt
}

// DoWhile statement.
type DoWhile struct {
	stmtBase
	Body Stmt
	Cond Expr
}

// For statement; Init, Cond and Post may each be nil.
type For struct {
	stmtBase
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

// Return statement; E may be nil.
type Return struct {
	stmtBase
	E Expr
}

// Break statement.
type Break struct{ stmtBase }

// Continue statement.
type Continue struct{ stmtBase }

// Goto statement.
type Goto struct {
	stmtBase
	Label string
}

// Labeled statement.
type Labeled struct {
	stmtBase
	Label string
	Stmt  Stmt
}

// ===================================================================
// Declarations
// ===================================================================

// FuncDecl is a function definition or declaration at file scope.
type FuncDecl struct {
	span source.Span
	// Sym binds the function name.
	Sym *Symbol
	// Params in declaration order.
	Params []*Symbol
	// Body is nil for a pure declaration.
	Body *Block
}

// Span implements Node.
func (d *FuncDecl) Span() source.Span { return d.span }

// Name returns the function name.
func (d *FuncDecl) Name() string { return d.Sym.Name }

// VarDecl is a single declared object, either at file scope or local.
type VarDecl struct {
	span source.Span
	// Sym binds the variable name.
	Sym *Symbol
	// Init is the initialiser, or nil.
	Init Expr
}

// NewVarDecl constructs a variable declaration.
func NewVarDecl(span source.Span, sym *Symbol, init Expr) *VarDecl {
	return &VarDecl{span, sym, init}
}

// Span implements Node.
func (d *VarDecl) Span() source.Span { return d.span }

// Name returns the variable name.
func (d *VarDecl) Name() string { return d.Sym.Name }

// TypedefDecl declares a type alias.
type TypedefDecl struct {
	span source.Span
	Sym  *Symbol
}

// Span implements Node.
func (d *TypedefDecl) Span() source.Span { return d.span }

// Name returns the typedef name.
func (d *TypedefDecl) Name() string { return d.Sym.Name }

// RecordDecl declares a struct, union or enum at file scope.
type RecordDecl struct {
	span source.Span
	Ty   *Type
}

// NewRecordDecl constructs a record declaration.
func NewRecordDecl(span source.Span, ty *Type) *RecordDecl {
	return &RecordDecl{span, ty}
}

// Span implements Node.
func (d *RecordDecl) Span() source.Span { return d.span }

// Name returns the record tag.
func (d *RecordDecl) Name() string { return d.Ty.Tag }

// ===================================================================
// Traversal
// ===================================================================

// Children returns the direct child nodes of a given node, in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Paren:
		return []Node{n.Inner}
	case *Unary:
		return []Node{n.Operand}
	case *Postfix:
		return []Node{n.Operand}
	case *Binary:
		return []Node{n.Lhs, n.Rhs}
	case *Assign:
		return []Node{n.Lhs, n.Rhs}
	case *Conditional:
		return []Node{n.Cond, n.Then, n.Else}
	case *Call:
		nodes := []Node{n.Fn}
		for _, a := range n.Args {
			nodes = append(nodes, a)
		}
		//
		return nodes
	case *Index:
		return []Node{n.Arr, n.Sub}
	case *MemberAccess:
		return []Node{n.Obj}
	case *Cast:
		return []Node{n.Operand}
	case *Comma:
		return []Node{n.Lhs, n.Rhs}
	case *SizeofExpr:
		return []Node{n.Operand}
	case *ExprStmt:
		return exprNodes(n.E)
	case *DeclStmt:
		var nodes []Node
		for _, v := range n.Vars {
			nodes = append(nodes, v)
		}
		//
		return nodes
	case *VarDecl:
		return exprNodes(n.Init)
	case *Block:
		nodes := make([]Node, len(n.Stmts))
		for i, s := range n.Stmts {
			nodes[i] = s
		}
		//
		return nodes
	case *If:
		nodes := []Node{n.Cond, n.Then}
		if n.Else != nil {
			nodes = append(nodes, n.Else)
		}
		//
		return nodes
	case *While:
		return []Node{n.Cond, n.Body}
	case *DoWhile:
		return []Node{n.Body, n.Cond}
	case *For:
		var nodes []Node
		//
		if n.Init != nil {
			nodes = append(nodes, n.Init)
		}
		//
		if n.Cond != nil {
			nodes = append(nodes, n.Cond)
		}
		//
		if n.Post != nil {
			nodes = append(nodes, n.Post)
		}
		//
		return append(nodes, n.Body)
	case *Return:
		return exprNodes(n.E)
	case *Labeled:
		return []Node{n.Stmt}
	case *FuncDecl:
		if n.Body != nil {
			return []Node{n.Body}
		}
	}
	//
	return nil
}

func exprNodes(e Expr) []Node {
	if e == nil {
		return nil
	}
	//
	return []Node{e}
}

// Walk traverses a node in preorder, invoking the callback on every node.
// Returning false from the callback prunes the subtree below that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	//
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}
