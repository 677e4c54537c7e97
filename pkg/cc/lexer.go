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
	"unicode"

	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// Punctuators in maximal munch order (longest first).
var punctuators = []string{
	"<<=", ">>=", "...",
	"##", "->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=",
	"&&", "||", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"(", ")", "{", "}", "[", "]", ",", ";", ":", "?", "~", "#",
	"=", "+", "-", "*", "/", "%", "&", "|", "^", "!", "<", ">", ".",
}

// Reserved words of the supported C dialect.
var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true,
	"else": true, "enum": true, "extern": true, "float": true, "for": true,
	"goto": true, "if": true, "inline": true, "int": true, "long": true,
	"register": true, "return": true, "short": true, "signed": true,
	"sizeof": true, "static": true, "struct": true, "switch": true,
	"typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "while": true,
}

// Tokenize splits a source file into a C token sequence, eliding comments and
// whitespace whilst recording their effect in the AtBOL and HasSpace markers.
// The returned sequence is always terminated by a TokenEOF token.
func Tokenize(file *source.File) ([]Token, *source.SyntaxError) {
	lexer := &lexer{file, file.Contents(), 0, nil}
	//
	return lexer.run()
}

type lexer struct {
	file   *source.File
	input  []rune
	index  int
	tokens []Token
}

func (p *lexer) run() ([]Token, *source.SyntaxError) {
	atbol, hasSpace := true, false
	//
	for p.index < len(p.input) {
		c := p.input[p.index]
		// Handle line structure and whitespace
		switch {
		case c == '\n':
			atbol, hasSpace = true, false
			p.index++

			continue
		case c == '\\' && p.peek(1) == '\n':
			// Line continuation
			p.index += 2
			continue
		case unicode.IsSpace(c):
			hasSpace = true
			p.index++

			continue
		case c == '/' && p.peek(1) == '/':
			p.skipLineComment()

			hasSpace = true

			continue
		case c == '/' && p.peek(1) == '*':
			if err := p.skipBlockComment(); err != nil {
				return nil, err
			}

			hasSpace = true

			continue
		}
		// Scan an actual token
		token, err := p.scan()
		if err != nil {
			return nil, err
		}
		//
		token.AtBOL = atbol
		token.HasSpace = hasSpace
		atbol, hasSpace = false, false
		//
		p.tokens = append(p.tokens, token)
	}
	// Terminate the stream
	eof := Token{Kind: TokenEOF, Span: source.NewSpan(len(p.input), len(p.input)), File: p.file, AtBOL: true}
	p.tokens = append(p.tokens, eof)
	//
	return p.tokens, nil
}

func (p *lexer) scan() (Token, *source.SyntaxError) {
	c := p.input[p.index]
	//
	switch {
	case c == '_' || unicode.IsLetter(c):
		return p.scanIdent(), nil
	case unicode.IsDigit(c), c == '.' && unicode.IsDigit(p.peek(1)):
		return p.scanNumber(), nil
	case c == '\'':
		return p.scanQuoted('\'', TokenChar)
	case c == '"':
		return p.scanQuoted('"', TokenString)
	}
	// Must be a punctuator (or garbage)
	for _, punct := range punctuators {
		if p.lookingAt(punct) {
			start := p.index
			p.index += len(punct)
			//
			return p.token(TokenPunct, start), nil
		}
	}
	//
	span := source.NewSpan(p.index, p.index+1)
	//
	return Token{}, p.file.SyntaxError(span, "unexpected character")
}

func (p *lexer) scanIdent() Token {
	start := p.index
	//
	for p.index < len(p.input) {
		c := p.input[p.index]
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		//
		p.index++
	}
	//
	token := p.token(TokenIdent, start)
	if keywords[token.Text] {
		token.Kind = TokenKeyword
	}
	//
	return token
}

// Scan a preprocessing number.  This deliberately over-accepts (e.g. hex
// prefixes, suffixes, exponents) and leaves validation to the parser.
func (p *lexer) scanNumber() Token {
	start := p.index
	//
	for p.index < len(p.input) {
		c := p.input[p.index]
		//
		switch {
		case (c == '+' || c == '-') && isExponent(p.input[p.index-1]):
			p.index++
		case c == '.' || c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c):
			p.index++
		default:
			return p.token(TokenNumber, start)
		}
	}
	//
	return p.token(TokenNumber, start)
}

func (p *lexer) scanQuoted(quote rune, kind TokenKind) (Token, *source.SyntaxError) {
	start := p.index
	p.index++
	//
	for p.index < len(p.input) {
		c := p.input[p.index]
		//
		switch c {
		case '\\':
			p.index += 2
		case quote:
			p.index++
			//
			return p.token(kind, start), nil
		case '\n':
			span := source.NewSpan(start, p.index)
			//
			return Token{}, p.file.SyntaxError(span, "unterminated literal")
		default:
			p.index++
		}
	}
	//
	span := source.NewSpan(start, p.index)
	//
	return Token{}, p.file.SyntaxError(span, "unterminated literal")
}

func (p *lexer) skipLineComment() {
	for p.index < len(p.input) && p.input[p.index] != '\n' {
		p.index++
	}
}

func (p *lexer) skipBlockComment() *source.SyntaxError {
	start := p.index
	p.index += 2
	//
	for p.index < len(p.input) {
		if p.input[p.index] == '*' && p.peek(1) == '/' {
			p.index += 2
			//
			return nil
		}
		//
		p.index++
	}
	//
	return p.file.SyntaxError(source.NewSpan(start, p.index), "unterminated comment")
}

func (p *lexer) token(kind TokenKind, start int) Token {
	span := source.NewSpan(start, p.index)
	//
	return Token{
		Kind: kind,
		Text: string(p.input[start:p.index]),
		Span: span,
		File: p.file,
	}
}

func (p *lexer) peek(n int) rune {
	if p.index+n >= len(p.input) {
		return 0
	}
	//
	return p.input[p.index+n]
}

func (p *lexer) lookingAt(text string) bool {
	if p.index+len(text) > len(p.input) {
		return false
	}
	//
	return strings.HasPrefix(string(p.input[p.index:p.index+len(text)]), text)
}

func isExponent(c rune) bool {
	return c == 'e' || c == 'E' || c == 'p' || c == 'P'
}
