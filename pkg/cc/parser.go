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
	"strings"

	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// TranslationUnit is the parsed form of a single C source file, together
// with everything the transformation engine queries about it: top-level
// declarations (with spans), the file-scope symbol table, and the spans of
// any #include directives.
type TranslationUnit struct {
	// File the unit was parsed from.
	File *source.File
	// Top-level declarations in textual order.
	Decls []Decl
	// Spans of top-level #include directives.
	IncludeSpans []source.Span
	// File-scope symbols.
	fileScope *scopeFrame
}

// ParseTranslationUnit preprocesses and parses a source file.  Macro events
// are announced through the listener configured in cfg as preprocessing
// proceeds, strictly before this function returns.
func ParseTranslationUnit(file *source.File, cfg Config) (*TranslationUnit, error) {
	tokens, includes, err := Preprocess(file, cfg)
	if err != nil {
		return nil, err
	}
	//
	p := newParser(file, tokens)
	//
	decls, perr := p.parseAll()
	if perr != nil {
		return nil, perr
	}
	//
	return &TranslationUnit{file, decls, includes, p.scopes[0]}, nil
}

// EnclosingDeclName determines the name of the top-level declaration whose
// span covers a given character index, or "" if there is none.
func (tu *TranslationUnit) EnclosingDeclName(index int) string {
	for _, d := range tu.Decls {
		if d.Span().ContainsIndex(index) {
			return d.Name()
		}
	}
	//
	return ""
}

// FileScopeLookup resolves a name against the file scope only, as a free
// function emitted at the top of the unit would see it.
func (tu *TranslationUnit) FileScopeLookup(name string) *Symbol {
	return tu.fileScope.syms[name]
}

// ParseTypeName attempts to parse a token sequence as a C type name in the
// context of this unit's file scope (so typedef names resolve).  It succeeds
// only when the entire sequence forms exactly one type name.
func (tu *TranslationUnit) ParseTypeName(toks []Token) (*Type, bool) {
	if len(toks) == 0 {
		return nil, false
	}
	// Construct a throwaway parser sharing the file scope.
	eof := Token{Kind: TokenEOF, Span: SpanOfTokens(toks), File: tu.File}
	p := &parser{tu.File, append(append([]Token{}, toks...), eof), 0, []*scopeFrame{tu.fileScope}}
	//
	if !p.atTypename() {
		return nil, false
	}
	//
	ty, err := p.typeName()
	if err != nil || !p.peek().IsEOF() {
		return nil, false
	}
	//
	return ty, true
}

// ParseExpr attempts to parse a token sequence as a C assignment-expression
// in the context of this unit's file scope.  Identifiers bound only at inner
// scopes do not resolve, so the attempt fails for such sequences.
func (tu *TranslationUnit) ParseExpr(toks []Token) (Expr, bool) {
	if len(toks) == 0 {
		return nil, false
	}
	//
	eof := Token{Kind: TokenEOF, Span: SpanOfTokens(toks), File: tu.File}
	p := &parser{tu.File, append(append([]Token{}, toks...), eof), 0, []*scopeFrame{tu.fileScope}}
	//
	e, err := p.assign()
	if err != nil || !p.peek().IsEOF() {
		return nil, false
	}
	//
	return e, true
}

// ===================================================================
// Parser
// ===================================================================

type scopeFrame struct {
	syms map[string]*Symbol
	tags map[string]*Type
}

func newScopeFrame() *scopeFrame {
	return &scopeFrame{make(map[string]*Symbol), make(map[string]*Type)}
}

type parser struct {
	file   *source.File
	toks   []Token
	pos    int
	scopes []*scopeFrame
}

func newParser(file *source.File, toks []Token) *parser {
	return &parser{file, toks, 0, []*scopeFrame{newScopeFrame()}}
}

// ===================================================================
// Scopes
// ===================================================================

func (p *parser) enterScope() {
	p.scopes = append(p.scopes, newScopeFrame())
}

func (p *parser) leaveScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

// Depth of the current scope (0 = file scope).
func (p *parser) depth() int {
	return len(p.scopes) - 1
}

func (p *parser) declare(sym *Symbol) {
	p.scopes[len(p.scopes)-1].syms[sym.Name] = sym
}

func (p *parser) lookup(name string) *Symbol {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if sym, ok := p.scopes[i].syms[name]; ok {
			return sym
		}
	}
	//
	return nil
}

func (p *parser) declareTag(tag string, ty *Type) {
	p.scopes[len(p.scopes)-1].tags[tag] = ty
}

func (p *parser) lookupTag(tag string) *Type {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if ty, ok := p.scopes[i].tags[tag]; ok {
			return ty
		}
	}
	//
	return nil
}

// ===================================================================
// Token cursor
// ===================================================================

func (p *parser) peek() *Token {
	return &p.toks[p.pos]
}

func (p *parser) peekAt(n int) *Token {
	if p.pos+n >= len(p.toks) {
		return &p.toks[len(p.toks)-1]
	}
	//
	return &p.toks[p.pos+n]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	//
	if !t.IsEOF() {
		p.pos++
	}
	//
	return t
}

func (p *parser) at(text string) bool {
	return p.peek().Is(text)
}

func (p *parser) consume(text string) bool {
	if p.at(text) {
		p.pos++
		return true
	}
	//
	return false
}

func (p *parser) expect(text string) error {
	if !p.consume(text) {
		return p.errorHere("expected '" + text + "'")
	}
	//
	return nil
}

func (p *parser) errorHere(msg string) error {
	return p.file.SyntaxError(p.peek().SpellingSpan(), msg)
}

// Union of spelling spans from a given token mark up to (but excluding) the
// current position.
func (p *parser) spanFrom(mark int) source.Span {
	if mark >= p.pos {
		s := p.toks[mark].SpellingSpan()
		return source.NewSpan(s.Start(), s.Start())
	}
	//
	return SpanOfTokens(p.toks[mark:p.pos])
}

// ===================================================================
// Declarations
// ===================================================================

func (p *parser) parseAll() ([]Decl, error) {
	var decls []Decl
	//
	for !p.peek().IsEOF() {
		ds, err := p.topLevel()
		if err != nil {
			return nil, err
		}
		//
		decls = append(decls, ds...)
	}
	//
	return decls, nil
}

type declSpec struct {
	typedef  bool
	static   bool
	extern   bool
	inline   bool
	register bool
}

func (p *parser) topLevel() ([]Decl, error) {
	mark := p.pos
	//
	var spec declSpec
	//
	base, err := p.declspec(&spec)
	if err != nil {
		return nil, err
	}
	// Bare struct/union/enum declaration
	if p.consume(";") {
		return []Decl{NewRecordDecl(p.spanFrom(mark), base)}, nil
	}
	//
	ty, name, err := p.declarator(base)
	if err != nil {
		return nil, err
	}
	//
	if name.Text == "" {
		return nil, p.errorHere("expected declarator name")
	}
	//
	if spec.typedef {
		return p.typedefDecl(mark, ty, name)
	}
	// Function definition or declaration
	if ty.Kind == TypeFunc {
		return p.functionDecl(mark, ty, name)
	}
	// One or more variables
	return p.variableDecls(mark, base, ty, name)
}

func (p *parser) typedefDecl(mark int, ty *Type, name Token) ([]Decl, error) {
	sym := &Symbol{Name: name.Text, Kind: SymTypedef, Ty: ty, Depth: p.depth(), DefSpan: name.SpellingSpan()}
	p.declare(sym)
	//
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	//
	return []Decl{&TypedefDecl{p.spanFrom(mark), sym}}, nil
}

func (p *parser) functionDecl(mark int, ty *Type, name Token) ([]Decl, error) {
	sym := p.lookup(name.Text)
	// Re-declarations of the same function share a symbol.
	if sym == nil || sym.Kind != SymFunc {
		sym = &Symbol{Name: name.Text, Kind: SymFunc, Ty: ty, Depth: 0, DefSpan: name.SpellingSpan()}
		p.scopes[0].syms[name.Text] = sym
	} else {
		sym.Ty = ty
		sym.Implicit = false
	}
	//
	decl := &FuncDecl{Sym: sym}
	// Declaration only?
	if p.consume(";") {
		decl.span = p.spanFrom(mark)
		return []Decl{decl}, nil
	}
	//
	p.enterScope()
	defer p.leaveScope()
	// Bind parameters
	for i, pname := range funcParamNames(ty) {
		psym := &Symbol{Name: pname, Kind: SymParam, Ty: ty.Params[i], Depth: p.depth()}
		//
		if pname != "" {
			p.declare(psym)
		}
		//
		decl.Params = append(decl.Params, psym)
	}
	//
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	//
	decl.Body = body
	decl.span = p.spanFrom(mark)
	//
	return []Decl{decl}, nil
}

func (p *parser) variableDecls(mark int, base *Type, ty *Type, name Token) ([]Decl, error) {
	var decls []Decl
	//
	for {
		sym := &Symbol{Name: name.Text, Kind: SymVar, Ty: ty, Depth: p.depth(), DefSpan: name.SpellingSpan()}
		p.declare(sym)
		//
		var init Expr
		//
		if p.consume("=") {
			var err error
			//
			init, err = p.assign()
			if err != nil {
				return nil, err
			}
		}
		//
		decls = append(decls, NewVarDecl(p.spanFrom(mark), sym, init))
		//
		if !p.consume(",") {
			break
		}
		//
		var err error
		//
		ty, name, err = p.declarator(base)
		if err != nil {
			return nil, err
		}
	}
	//
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	//
	return decls, nil
}

// Names of the parameters recorded during declarator parsing.
func funcParamNames(ty *Type) []string {
	names := ty.paramNames()
	//
	if len(names) < len(ty.Params) {
		names = append(names, make([]string, len(ty.Params)-len(names))...)
	}
	//
	return names[:len(ty.Params)]
}

// paramNames holds declared parameter names alongside a function type.  They
// are stored in the Tag field, separated by commas, to avoid burdening every
// type with another slice.
func (t *Type) paramNames() []string {
	if t.Tag == "" {
		return make([]string, len(t.Params))
	}
	//
	return strings.Split(t.Tag, ",")
}

// ===================================================================
// Declaration specifiers
// ===================================================================

// Does the current token begin a type?
func (p *parser) atTypename() bool {
	t := p.peek()
	//
	switch t.Text {
	case "void", "char", "short", "int", "long", "signed", "unsigned",
		"float", "double", "struct", "union", "enum", "const", "volatile",
		"typedef", "static", "extern", "inline", "register", "auto":
		return true
	}
	//
	if t.Kind == TokenIdent {
		sym := p.lookup(t.Text)
		return sym != nil && sym.Kind == SymTypedef
	}
	//
	return false
}

// Parse declaration specifiers into a base type.
func (p *parser) declspec(spec *declSpec) (*Type, error) {
	const (
		bVoid = 1 << iota
		bChar
		bShort
		bInt
		bLong
		bLong2
		bFloat
		bDouble
		bSigned
		bUnsigned
		bOther
	)
	//
	var (
		counter  int
		cnst     bool
		volatile bool
		result   *Type
	)
	//
	for {
		t := p.peek()
		//
		switch t.Text {
		case "typedef":
			spec.typedef = true
			p.advance()

			continue
		case "static":
			spec.static = true
			p.advance()

			continue
		case "extern":
			spec.extern = true
			p.advance()

			continue
		case "inline":
			spec.inline = true
			p.advance()

			continue
		case "register", "auto":
			spec.register = true
			p.advance()

			continue
		case "const":
			cnst = true
			p.advance()

			continue
		case "volatile":
			volatile = true
			p.advance()

			continue
		case "struct", "union":
			var err error
			//
			if result, err = p.structUnionSpec(); err != nil {
				return nil, err
			}
			//
			counter |= bOther
			//
			continue
		case "enum":
			var err error
			//
			if result, err = p.enumSpec(); err != nil {
				return nil, err
			}
			//
			counter |= bOther
			//
			continue
		case "void":
			counter |= bVoid
		case "char":
			counter |= bChar
		case "short":
			counter |= bShort
		case "int":
			counter |= bInt
		case "long":
			if counter&bLong != 0 {
				counter |= bLong2
			} else {
				counter |= bLong
			}
		case "float":
			counter |= bFloat
		case "double":
			counter |= bDouble
		case "signed":
			counter |= bSigned
		case "unsigned":
			counter |= bUnsigned
		default:
			// Typedef name, unless a base type was already given.
			if t.Kind == TokenIdent && counter == 0 && result == nil {
				if sym := p.lookup(t.Text); sym != nil && sym.Kind == SymTypedef {
					result = sym.Ty
					counter |= bOther
					p.advance()
					//
					continue
				}
			}
			// End of specifiers
			if counter == 0 && result == nil {
				return nil, p.errorHere("expected type specifier")
			}
			//
			if result == nil {
				result = typeFromCounter(counter)
			}
			//
			return result.Qualified(cnst, volatile), nil
		}
		//
		p.advance()
	}
}

func typeFromCounter(counter int) *Type {
	const (
		bVoid = 1 << iota
		bChar
		bShort
		bInt
		bLong
		bLong2
		bFloat
		bDouble
		bSigned
		bUnsigned
	)
	//
	var ty *Type
	//
	switch {
	case counter&bVoid != 0:
		ty = VoidType()
	case counter&bChar != 0:
		ty = CharType()
	case counter&bShort != 0:
		ty = &Type{Kind: TypeShort}
	case counter&bDouble != 0:
		ty = DoubleType()
	case counter&bFloat != 0:
		ty = &Type{Kind: TypeFloat}
	case counter&(bLong|bLong2) != 0:
		ty = LongType()
	default:
		ty = IntType()
	}
	//
	if counter&bUnsigned != 0 {
		ty.Unsigned = true
	}
	//
	return ty
}

func (p *parser) structUnionSpec() (*Type, error) {
	kind := TypeStruct
	//
	keyword := p.advance()
	//
	if keyword.Is("union") {
		kind = TypeUnion
	}
	//
	tag := ""
	//
	if p.peek().Kind == TokenIdent {
		tag = p.advance().Text
	}
	// Reference to a previously declared tag?
	if !p.at("{") {
		if ty := p.lookupTag(tag); ty != nil && ty.Kind == kind {
			return ty, nil
		}
		// Forward reference
		ty := &Type{Kind: kind, Tag: tag, Incomplete: true}
		//
		if tag != "" {
			p.declareTag(tag, ty)
		}
		//
		return ty, nil
	}
	//
	ty := &Type{Kind: kind, Tag: tag}
	//
	if tag != "" {
		p.declareTag(tag, ty)
	}
	//
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	//
	for !p.consume("}") {
		var spec declSpec
		//
		base, err := p.declspec(&spec)
		if err != nil {
			return nil, err
		}
		//
		for {
			mty, name, err := p.declarator(base)
			if err != nil {
				return nil, err
			}
			//
			member := Member{Name: name.Text, Type: mty}
			// Bit-field?
			if p.consume(":") {
				if _, err := p.conditional(); err != nil {
					return nil, err
				}
				//
				member.Bitfield = true
			}
			//
			ty.Members = append(ty.Members, member)
			//
			if !p.consume(",") {
				break
			}
		}
		//
		if err := p.expect(";"); err != nil {
			return nil, err
		}
	}
	//
	return ty, nil
}

func (p *parser) enumSpec() (*Type, error) {
	p.advance() // enum
	//
	tag := ""
	//
	if p.peek().Kind == TokenIdent {
		tag = p.advance().Text
	}
	//
	ty := &Type{Kind: TypeEnum, Tag: tag}
	//
	if !p.at("{") {
		if known := p.lookupTag(tag); known != nil && known.Kind == TypeEnum {
			return known, nil
		}
		//
		ty.Incomplete = true
		//
		return ty, nil
	}
	//
	if tag != "" {
		p.declareTag(tag, ty)
	}
	//
	p.advance() // {
	//
	var next int64
	//
	for !p.consume("}") {
		name := p.advance()
		if !name.IsIdent() {
			return nil, p.errorHere("expected enumerator name")
		}
		//
		if p.consume("=") {
			e, err := p.conditional()
			if err != nil {
				return nil, err
			}
			//
			if v, ok := EvalConst(e); ok {
				next = v
			}
		}
		//
		p.declare(&Symbol{
			Name: name.Text, Kind: SymEnumConst, Ty: ty,
			Depth: p.depth(), DefSpan: name.SpellingSpan(), Value: next,
		})
		//
		next++
		//
		if !p.consume(",") && !p.at("}") {
			return nil, p.errorHere("expected , or } in enum")
		}
	}
	//
	return ty, nil
}

// ===================================================================
// Declarators
// ===================================================================

// Parse a (possibly abstract) declarator against a given base type,
// returning the final type along with the declared name token (empty text
// for abstract declarators).
func (p *parser) declarator(base *Type) (*Type, Token, error) {
	for p.consume("*") {
		base = PointerTo(base)
		//
		for {
			if p.consume("const") {
				base = base.Qualified(true, false)
			} else if p.consume("volatile") {
				base = base.Qualified(false, true)
			} else {
				break
			}
		}
	}
	// Parenthesised declarator (e.g. function pointers)?
	if p.at("(") && (p.peekAt(1).Is("*") || p.peekAt(1).Is("(")) {
		open := p.pos
		p.advance()
		// First pass discovers where the inner declarator ends.
		if _, _, err := p.declarator(IntType()); err != nil {
			return nil, Token{}, err
		}
		//
		if err := p.expect(")"); err != nil {
			return nil, Token{}, err
		}
		// Suffixes bind to the base type.
		suffixed, err := p.typeSuffix(base)
		if err != nil {
			return nil, Token{}, err
		}
		//
		end := p.pos
		// Second pass builds the real declarator.
		p.pos = open + 1
		//
		ty, name, err := p.declarator(suffixed)
		if err != nil {
			return nil, Token{}, err
		}
		//
		p.pos = end
		//
		return ty, name, nil
	}
	//
	var name Token
	//
	if p.peek().Kind == TokenIdent {
		name = p.advance()
	}
	//
	ty, err := p.typeSuffix(base)
	//
	return ty, name, err
}

// Parse array and function suffixes of a declarator.
func (p *parser) typeSuffix(ty *Type) (*Type, error) {
	switch {
	case p.consume("["):
		n := -1
		//
		if !p.at("]") {
			e, err := p.conditional()
			if err != nil {
				return nil, err
			}
			//
			if v, ok := EvalConst(e); ok {
				n = int(v)
			}
		}
		//
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		//
		inner, err := p.typeSuffix(ty)
		if err != nil {
			return nil, err
		}
		//
		return ArrayOf(inner, n), nil
	case p.consume("("):
		return p.funcParams(ty)
	default:
		return ty, nil
	}
}

func (p *parser) funcParams(ret *Type) (*Type, error) {
	fn := FuncType(ret, nil, false)
	// (void) means no parameters
	if p.at("void") && p.peekAt(1).Is(")") {
		p.advance()
		p.advance()
		//
		return fn, nil
	}
	//
	var names []string
	//
	for !p.consume(")") {
		if len(fn.Params) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		//
		if p.consume("...") {
			fn.Variadic = true
			//
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			//
			break
		}
		//
		var spec declSpec
		//
		base, err := p.declspec(&spec)
		if err != nil {
			return nil, err
		}
		//
		pty, name, err := p.declarator(base)
		if err != nil {
			return nil, err
		}
		// Parameters of array/function type decay.
		fn.Params = append(fn.Params, pty.Decay())
		names = append(names, name.Text)
	}
	// Stash parameter names alongside the type.
	if len(names) > 0 {
		fn.Tag = strings.Join(names, ",")
	}
	//
	return fn, nil
}

// Parse a type name (for casts and sizeof).
func (p *parser) typeName() (*Type, error) {
	var spec declSpec
	//
	base, err := p.declspec(&spec)
	if err != nil {
		return nil, err
	}
	//
	ty, name, err := p.declarator(base)
	if err != nil {
		return nil, err
	}
	//
	if name.Text != "" {
		return nil, p.errorHere("unexpected name in type name")
	}
	//
	return ty, nil
}

// ===================================================================
// Statements
// ===================================================================

func (p *parser) block() (*Block, error) {
	mark := p.pos
	//
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	//
	p.enterScope()
	defer p.leaveScope()
	//
	var stmts []Stmt
	//
	for !p.consume("}") {
		if p.peek().IsEOF() {
			return nil, p.errorHere("unexpected end of file in block")
		}
		//
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		//
		stmts = append(stmts, s)
	}
	//
	return &Block{stmtBase{p.spanFrom(mark)}, stmts}, nil
}

func (p *parser) statement() (Stmt, error) {
	mark := p.pos
	//
	switch {
	case p.at("{"):
		return p.block()
	case p.consume(";"):
		return &ExprStmt{stmtBase{p.spanFrom(mark)}, nil}, nil
	case p.consume("if"):
		return p.ifStmt(mark)
	case p.consume("while"):
		return p.whileStmt(mark)
	case p.consume("do"):
		return p.doWhileStmt(mark)
	case p.consume("for"):
		return p.forStmt(mark)
	case p.consume("return"):
		var e Expr
		//
		if !p.at(";") {
			var err error
			//
			if e, err = p.expr(); err != nil {
				return nil, err
			}
		}
		//
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		//
		return &Return{stmtBase{p.spanFrom(mark)}, e}, nil
	case p.consume("break"):
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		//
		return &Break{stmtBase{p.spanFrom(mark)}}, nil
	case p.consume("continue"):
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		//
		return &Continue{stmtBase{p.spanFrom(mark)}}, nil
	case p.consume("goto"):
		label := p.advance()
		//
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		//
		return &Goto{stmtBase{p.spanFrom(mark)}, label.Text}, nil
	case p.atTypename():
		return p.declStmt(mark)
	}
	// Label?
	if p.peek().Kind == TokenIdent && p.peekAt(1).Is(":") {
		label := p.advance()
		p.advance()
		//
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		//
		return &Labeled{stmtBase{p.spanFrom(mark)}, label.Text, s}, nil
	}
	// Expression statement
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	//
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	//
	return &ExprStmt{stmtBase{p.spanFrom(mark)}, e}, nil
}

func (p *parser) declStmt(mark int) (Stmt, error) {
	var spec declSpec
	//
	base, err := p.declspec(&spec)
	if err != nil {
		return nil, err
	}
	//
	if p.consume(";") {
		// Bare record declaration in block scope.
		return &DeclStmt{stmtBase{p.spanFrom(mark)}, nil}, nil
	}
	//
	var vars []*VarDecl
	//
	for {
		dmark := p.pos
		//
		ty, name, err := p.declarator(base)
		if err != nil {
			return nil, err
		}
		//
		if spec.typedef {
			p.declare(&Symbol{Name: name.Text, Kind: SymTypedef, Ty: ty, Depth: p.depth(), DefSpan: name.SpellingSpan()})
		} else {
			sym := &Symbol{Name: name.Text, Kind: SymVar, Ty: ty, Depth: p.depth(), DefSpan: name.SpellingSpan()}
			p.declare(sym)
			//
			var init Expr
			//
			if p.consume("=") {
				if init, err = p.assign(); err != nil {
					return nil, err
				}
			}
			//
			vars = append(vars, NewVarDecl(p.spanFrom(dmark), sym, init))
		}
		//
		if !p.consume(",") {
			break
		}
	}
	//
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	//
	return &DeclStmt{stmtBase{p.spanFrom(mark)}, vars}, nil
}

func (p *parser) ifStmt(mark int) (Stmt, error) {
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	//
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	//
	var els Stmt
	//
	if p.consume("else") {
		if els, err = p.statement(); err != nil {
			return nil, err
		}
	}
	//
	return &If{stmtBase{p.spanFrom(mark)}, cond, then, els}, nil
}

func (p *parser) whileStmt(mark int) (Stmt, error) {
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	//
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	//
	return &While{stmtBase{p.spanFrom(mark)}, cond, body}, nil
}

func (p *parser) doWhileStmt(mark int) (Stmt, error) {
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	//
	if err := p.expect("while"); err != nil {
		return nil, err
	}
	//
	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}
	//
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	//
	return &DoWhile{stmtBase{p.spanFrom(mark)}, body, cond}, nil
}

func (p *parser) forStmt(mark int) (Stmt, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	//
	p.enterScope()
	defer p.leaveScope()
	//
	var (
		init Stmt
		cond Expr
		post Expr
		err  error
	)
	//
	if p.atTypename() {
		if init, err = p.declStmt(p.pos); err != nil {
			return nil, err
		}
	} else if !p.consume(";") {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		//
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		//
		init = &ExprStmt{stmtBase{e.Span()}, e}
	}
	//
	if !p.at(";") {
		if cond, err = p.expr(); err != nil {
			return nil, err
		}
	}
	//
	if err := p.expect(";"); err != nil {
		return nil, err
	}
	//
	if !p.at(")") {
		if post, err = p.expr(); err != nil {
			return nil, err
		}
	}
	//
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	//
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	//
	return &For{stmtBase{p.spanFrom(mark)}, init, cond, post, body}, nil
}

func (p *parser) parenExpr() (Expr, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	//
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	//
	return e, p.expect(")")
}
