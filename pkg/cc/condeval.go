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
	"strconv"
	"strings"

	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// Binding powers of the binary operators permitted in #if conditions.
var condPrecedence = map[string]int{
	"||": 1, "&&": 2,
	"|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

// Evaluate a fully expanded #if condition as an integer constant expression.
// Remaining identifiers (i.e. undefined macros) evaluate to zero, as the
// standard requires.
func evalConstExpr(file *source.File, toks []Token) (int64, *source.SyntaxError) {
	p := &condEval{file, toks, 0}
	//
	val, err := p.ternary()
	if err != nil {
		return 0, err
	}
	//
	if p.i != len(p.toks) {
		return 0, file.SyntaxError(p.toks[p.i].Span, "trailing tokens in #if condition")
	}
	//
	return val, nil
}

type condEval struct {
	file *source.File
	toks []Token
	i    int
}

func (p *condEval) ternary() (int64, *source.SyntaxError) {
	cond, err := p.binary(0)
	if err != nil {
		return 0, err
	}
	//
	if !p.at("?") {
		return cond, nil
	}
	//
	p.i++
	//
	lhs, err := p.ternary()
	if err != nil {
		return 0, err
	}
	//
	if !p.at(":") {
		return 0, p.errorHere("expected : in conditional")
	}
	//
	p.i++
	//
	rhs, err := p.ternary()
	if err != nil {
		return 0, err
	}
	//
	if cond != 0 {
		return lhs, nil
	}
	//
	return rhs, nil
}

func (p *condEval) binary(minPrec int) (int64, *source.SyntaxError) {
	lhs, err := p.unary()
	if err != nil {
		return 0, err
	}
	//
	for p.i < len(p.toks) {
		op := p.toks[p.i].Text
		//
		prec, ok := condPrecedence[op]
		if !ok || prec < minPrec {
			break
		}
		//
		p.i++
		//
		rhs, err := p.binary(prec + 1)
		if err != nil {
			return 0, err
		}
		//
		if lhs, err = p.apply(op, lhs, rhs); err != nil {
			return 0, err
		}
	}
	//
	return lhs, nil
}

func (p *condEval) apply(op string, lhs int64, rhs int64) (int64, *source.SyntaxError) {
	switch op {
	case "||":
		return boolToInt(lhs != 0 || rhs != 0), nil
	case "&&":
		return boolToInt(lhs != 0 && rhs != 0), nil
	case "|":
		return lhs | rhs, nil
	case "^":
		return lhs ^ rhs, nil
	case "&":
		return lhs & rhs, nil
	case "==":
		return boolToInt(lhs == rhs), nil
	case "!=":
		return boolToInt(lhs != rhs), nil
	case "<":
		return boolToInt(lhs < rhs), nil
	case "<=":
		return boolToInt(lhs <= rhs), nil
	case ">":
		return boolToInt(lhs > rhs), nil
	case ">=":
		return boolToInt(lhs >= rhs), nil
	case "<<":
		return lhs << uint64(rhs&63), nil
	case ">>":
		return lhs >> uint64(rhs&63), nil
	case "+":
		return lhs + rhs, nil
	case "-":
		return lhs - rhs, nil
	case "*":
		return lhs * rhs, nil
	case "/", "%":
		if rhs == 0 {
			return 0, p.errorHere("division by zero in #if condition")
		}
		//
		if op == "/" {
			return lhs / rhs, nil
		}
		//
		return lhs % rhs, nil
	}
	//
	return 0, p.errorHere("unknown operator " + op)
}

func (p *condEval) unary() (int64, *source.SyntaxError) {
	if p.i >= len(p.toks) {
		return 0, p.errorHere("unexpected end of #if condition")
	}
	//
	t := p.toks[p.i]
	//
	switch {
	case t.Is("!"):
		p.i++

		v, err := p.unary()

		return boolToInt(v == 0), err
	case t.Is("~"):
		p.i++

		v, err := p.unary()

		return ^v, err
	case t.Is("-"):
		p.i++

		v, err := p.unary()

		return -v, err
	case t.Is("+"):
		p.i++

		return p.unary()
	case t.Is("("):
		p.i++

		v, err := p.ternary()
		if err != nil {
			return 0, err
		}
		//
		if !p.at(")") {
			return 0, p.errorHere("expected )")
		}
		//
		p.i++
		//
		return v, nil
	case t.Kind == TokenNumber:
		p.i++
		//
		return parseIntConst(p.file, t)
	case t.Kind == TokenChar:
		p.i++
		//
		return charValue(t.Text), nil
	case t.IsIdent():
		// Undefined identifiers evaluate to zero.
		p.i++
		//
		return 0, nil
	}
	//
	return 0, p.errorHere("unexpected token in #if condition")
}

func (p *condEval) at(text string) bool {
	return p.i < len(p.toks) && p.toks[p.i].Is(text)
}

func (p *condEval) errorHere(msg string) *source.SyntaxError {
	span := source.NewSpan(0, 0)
	//
	if p.i < len(p.toks) {
		span = p.toks[p.i].Span
	} else if len(p.toks) > 0 {
		span = p.toks[len(p.toks)-1].Span
	}
	//
	return p.file.SyntaxError(span, msg)
}

// Parse an integer constant token, stripping any integer suffix.
func parseIntConst(file *source.File, t Token) (int64, *source.SyntaxError) {
	text := strings.TrimRight(t.Text, "uUlL")
	//
	val, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		// Retry as unsigned for values exceeding int64.
		uval, uerr := strconv.ParseUint(text, 0, 64)
		if uerr != nil {
			return 0, file.SyntaxError(t.Span, "malformed integer constant")
		}
		//
		return int64(uval), nil
	}
	//
	return val, nil
}

// Value of a character constant such as 'a' or '\n'.
func charValue(text string) int64 {
	body := strings.Trim(text, "'")
	//
	if body == "" {
		return 0
	}
	//
	if body[0] != '\\' {
		return int64(body[0])
	}
	//
	if len(body) < 2 {
		return '\\'
	}
	//
	switch body[1] {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '\'':
		return '\''
	case '"':
		return '"'
	default:
		return int64(body[1])
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	//
	return 0
}
