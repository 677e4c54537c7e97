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
)

// Binding powers of binary operators, mirroring the C precedence ladder
// between assignment and cast.
var binaryPrecedence = map[string]int{
	"||": 1, "&&": 2,
	"|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, "&=": true, "|=": true, "^=": true,
}

// expr parses a full expression, including the comma operator.
func (p *parser) expr() (Expr, error) {
	mark := p.pos
	//
	lhs, err := p.assign()
	if err != nil {
		return nil, err
	}
	//
	for p.consume(",") {
		rhs, err := p.assign()
		if err != nil {
			return nil, err
		}
		//
		lhs = &Comma{exprBase{p.spanFrom(mark), rhs.Type()}, lhs, rhs}
	}
	//
	return lhs, nil
}

func (p *parser) assign() (Expr, error) {
	mark := p.pos
	//
	lhs, err := p.conditional()
	if err != nil {
		return nil, err
	}
	//
	op := p.peek().Text
	if !assignOps[op] {
		return lhs, nil
	}
	//
	p.advance()
	//
	rhs, err := p.assign()
	if err != nil {
		return nil, err
	}
	//
	ty := lhs.Type().Unqualified()
	//
	return &Assign{exprBase{p.spanFrom(mark), ty}, op, lhs, rhs}, nil
}

func (p *parser) conditional() (Expr, error) {
	mark := p.pos
	//
	cond, err := p.binary(0)
	if err != nil {
		return nil, err
	}
	//
	if !p.consume("?") {
		return cond, nil
	}
	//
	then, err := p.expr()
	if err != nil {
		return nil, err
	}
	//
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	//
	els, err := p.conditional()
	if err != nil {
		return nil, err
	}
	//
	ty := conditionalType(then.Type(), els.Type())
	//
	return &Conditional{exprBase{p.spanFrom(mark), ty}, cond, then, els}, nil
}

func (p *parser) binary(minPrec int) (Expr, error) {
	mark := p.pos
	//
	lhs, err := p.castExpr()
	if err != nil {
		return nil, err
	}
	//
	for {
		op := p.peek().Text
		//
		prec, ok := binaryPrecedence[op]
		if !ok || prec < minPrec {
			return lhs, nil
		}
		//
		p.advance()
		//
		rhs, err := p.binary(prec + 1)
		if err != nil {
			return nil, err
		}
		//
		ty := binaryType(op, lhs.Type(), rhs.Type())
		lhs = &Binary{exprBase{p.spanFrom(mark), ty}, op, lhs, rhs}
	}
}

func (p *parser) castExpr() (Expr, error) {
	mark := p.pos
	// A parenthesis introduces a cast only when followed by a type name.
	if p.at("(") {
		p.advance()
		//
		if p.atTypename() {
			ty, err := p.typeName()
			if err != nil {
				return nil, err
			}
			//
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			//
			operand, err := p.castExpr()
			if err != nil {
				return nil, err
			}
			//
			return &Cast{exprBase{p.spanFrom(mark), ty}, ty, operand}, nil
		}
		// Not a cast; rewind and fall through.
		p.pos = mark
	}
	//
	return p.unary()
}

func (p *parser) unary() (Expr, error) {
	mark := p.pos
	t := p.peek()
	//
	switch t.Text {
	case "+", "-", "!", "~", "*", "&", "++", "--":
		p.advance()
		//
		operand, err := p.castExpr()
		if err != nil {
			return nil, err
		}
		//
		ty, err := p.unaryType(t.Text, operand)
		if err != nil {
			return nil, err
		}
		//
		return &Unary{exprBase{p.spanFrom(mark), ty}, t.Text, operand}, nil
	case "sizeof":
		p.advance()
		// sizeof(type) or sizeof expr
		if p.at("(") && p.peekAt(1).IsIdent() {
			save := p.pos
			p.advance()
			//
			if p.atTypename() {
				ty, err := p.typeName()
				if err != nil {
					return nil, err
				}
				//
				if err := p.expect(")"); err != nil {
					return nil, err
				}
				//
				return &SizeofType{exprBase{p.spanFrom(mark), LongType()}, ty}, nil
			}
			//
			p.pos = save
		}
		//
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		//
		return &SizeofExpr{exprBase{p.spanFrom(mark), LongType()}, operand}, nil
	}
	//
	return p.postfix()
}

func (p *parser) unaryType(op string, operand Expr) (*Type, error) {
	ty := operand.Type()
	//
	switch op {
	case "!":
		return IntType(), nil
	case "~", "+", "-":
		return promote(ty.Decay()), nil
	case "&":
		return PointerTo(ty), nil
	case "*":
		decayed := ty.Decay()
		//
		if decayed.Kind != TypePtr {
			return nil, p.file.SyntaxError(operand.Span(), "cannot dereference non-pointer")
		}
		//
		return decayed.Base, nil
	case "++", "--":
		return ty.Unqualified(), nil
	}
	//
	return ty, nil
}

func (p *parser) postfix() (Expr, error) {
	mark := p.pos
	//
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	//
	for {
		switch {
		case p.consume("("):
			if e, err = p.callExpr(mark, e); err != nil {
				return nil, err
			}
		case p.consume("["):
			sub, err := p.expr()
			if err != nil {
				return nil, err
			}
			//
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			//
			arr := e.Type().Decay()
			elem := IntType()
			//
			if arr.Kind == TypePtr {
				elem = arr.Base
			}
			//
			e = &Index{exprBase{p.spanFrom(mark), elem}, e, sub}
		case p.at(".") || p.at("->"):
			access := p.advance()
			arrow := access.Is("->")
			name := p.advance()
			//
			if !name.IsIdent() {
				return nil, p.errorHere("expected member name")
			}
			//
			mty, err := p.memberType(e, name.Text, arrow)
			if err != nil {
				return nil, err
			}
			//
			e = &MemberAccess{exprBase{p.spanFrom(mark), mty}, e, name.Text, arrow}
		case p.at("++") || p.at("--"):
			op := p.advance().Text
			e = &Postfix{exprBase{p.spanFrom(mark), e.Type().Unqualified()}, op, e}
		default:
			return e, nil
		}
	}
}

func (p *parser) callExpr(mark int, fn Expr) (Expr, error) {
	var args []Expr
	//
	for !p.consume(")") {
		if len(args) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		//
		a, err := p.assign()
		if err != nil {
			return nil, err
		}
		//
		args = append(args, a)
	}
	// Determine result type
	fty := fn.Type()
	//
	if fty.Kind == TypePtr {
		fty = fty.Base
	}
	//
	ret := IntType()
	//
	if fty.Kind == TypeFunc {
		ret = fty.Base
	}
	//
	return &Call{exprBase{p.spanFrom(mark), ret}, fn, args}, nil
}

func (p *parser) memberType(obj Expr, name string, arrow bool) (*Type, error) {
	ty := obj.Type()
	//
	if arrow {
		ty = ty.Decay()
		//
		if ty.Kind != TypePtr {
			return nil, p.file.SyntaxError(obj.Span(), "-> applied to non-pointer")
		}
		//
		ty = ty.Base
	}
	//
	if ty.Kind != TypeStruct && ty.Kind != TypeUnion {
		return nil, p.file.SyntaxError(obj.Span(), "member access on non-struct")
	}
	//
	for _, m := range ty.Members {
		if m.Name == name {
			return m.Type, nil
		}
	}
	//
	return nil, p.file.SyntaxError(obj.Span(), "no member named "+name)
}

func (p *parser) primary() (Expr, error) {
	mark := p.pos
	t := p.peek()
	//
	switch {
	case t.Is("("):
		p.advance()
		//
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		//
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		//
		return &Paren{exprBase{p.spanFrom(mark), inner.Type()}, inner}, nil
	case t.Kind == TokenNumber:
		p.advance()
		//
		return p.numberLit(mark, *t)
	case t.Kind == TokenChar:
		p.advance()
		//
		return &CharLit{exprBase{p.spanFrom(mark), IntType()}, charValue(t.Text)}, nil
	case t.Kind == TokenString:
		p.advance()
		// Type is char[n+1], which decays where used as a value.
		n := len(t.Text) - 2
		//
		return &StrLit{exprBase{p.spanFrom(mark), ArrayOf(CharType(), n+1)}, t.Text}, nil
	case t.Kind == TokenIdent:
		p.advance()
		//
		return p.identExpr(mark, *t)
	}
	//
	return nil, p.errorHere("expected expression")
}

func (p *parser) numberLit(mark int, t Token) (Expr, error) {
	// Floating constants are recognised but not evaluated.
	if strings.ContainsAny(t.Text, ".eE") && !strings.HasPrefix(t.Text, "0x") {
		return &IntLit{exprBase{p.spanFrom(mark), DoubleType()}, 0}, nil
	}
	//
	val, err := parseIntConst(p.file, t)
	if err != nil {
		return nil, err
	}
	//
	ty := IntType()
	//
	if strings.ContainsAny(t.Text, "lL") || val > 0x7fffffff || val < -0x80000000 {
		ty = LongType()
	}
	//
	if strings.ContainsAny(t.Text, "uU") {
		ty.Unsigned = true
	}
	//
	return &IntLit{exprBase{p.spanFrom(mark), ty}, val}, nil
}

func (p *parser) identExpr(mark int, t Token) (Expr, error) {
	sym := p.lookup(t.Text)
	//
	if sym == nil {
		// Calls of undeclared functions fall back on an implicit
		// declaration, as C89 allowed.
		if p.at("(") {
			sym = &Symbol{
				Name: t.Text, Kind: SymFunc,
				Ty:       FuncType(IntType(), nil, true),
				Depth:    0,
				DefSpan:  t.SpellingSpan(),
				Implicit: true,
			}
			p.scopes[0].syms[t.Text] = sym
		} else {
			return nil, p.file.SyntaxError(t.SpellingSpan(), "undeclared identifier "+t.Text)
		}
	}
	//
	ty := sym.Ty
	//
	if sym.Kind == SymEnumConst {
		ty = IntType()
	}
	//
	return &Ident{exprBase{p.spanFrom(mark), ty}, t.Text, sym}, nil
}
