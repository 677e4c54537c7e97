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

// TokenKind distinguishes the lexical categories produced by the tokeniser.
type TokenKind uint16

const (
	// TokenEOF signals the end of the token stream.
	TokenEOF TokenKind = iota
	// TokenIdent is an identifier (or a preprocessing name).
	TokenIdent
	// TokenKeyword is a reserved C keyword.
	TokenKeyword
	// TokenNumber is an integer or floating constant.
	TokenNumber
	// TokenChar is a character constant.
	TokenChar
	// TokenString is a string literal.
	TokenString
	// TokenPunct is a punctuator.
	TokenPunct
)

// Token associates a piece of source text with its span in the file being
// processed, along with the bookkeeping the preprocessor needs (beginning of
// line markers, hidesets, and the macro expansion it was produced by).
type Token struct {
	Kind TokenKind
	// Text is the spelling of this token.
	Text string
	// Span of this token within the file it was lexed from.
	Span source.Span
	// File this token was lexed from.
	File *source.File
	// AtBOL indicates this token is the first on its physical line.
	AtBOL bool
	// HasSpace indicates whitespace preceded this token.
	HasSpace bool
	// Expansion identifies the macro expansion which produced this token, or
	// nil if the token appears literally in the source.
	Expansion *Expansion
	// Hideset holds names of macros which must not be re-expanded through
	// this token.
	Hideset map[string]bool
}

// Is checks whether this token has a given spelling.
func (t *Token) Is(text string) bool {
	return t.Text == text
}

// IsEOF checks whether this token terminates the stream.
func (t *Token) IsEOF() bool {
	return t.Kind == TokenEOF
}

// IsIdent checks whether this token can act as a name, which covers both
// identifiers and keywords (the preprocessor does not distinguish them).
func (t *Token) IsIdent() bool {
	return t.Kind == TokenIdent || t.Kind == TokenKeyword
}

// SpellingSpan determines where this token was spelled in the user's source
// before macro expansion.  Tokens produced from a macro body report the span
// of the invocation which produced them; argument tokens keep their own span
// since they are spelled at the call site.
func (t *Token) SpellingSpan() source.Span {
	if t.Expansion != nil {
		return t.Expansion.Spelling
	}
	//
	return t.Span
}

// Hidden checks whether a given macro name is in this token's hideset.
func (t *Token) Hidden(name string) bool {
	return t.Hideset != nil && t.Hideset[name]
}

// WithHideset returns a copy of this token whose hideset additionally
// contains the given macro name.
func (t Token) WithHideset(name string) Token {
	hs := make(map[string]bool, len(t.Hideset)+1)
	//
	for n := range t.Hideset {
		hs[n] = true
	}
	//
	hs[name] = true
	t.Hideset = hs
	//
	return t
}

// TextOfTokens reconstructs a textual rendition of a token sequence,
// inserting a space wherever the original text had one.  Leading whitespace
// is dropped.
func TextOfTokens(tokens []Token) string {
	var builder strings.Builder
	//
	for i, t := range tokens {
		if i != 0 && (t.HasSpace || t.AtBOL) {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(t.Text)
	}
	//
	return builder.String()
}

// SpanOfTokens computes the union of the spelling spans of a token sequence.
// The empty sequence yields an empty span at the origin.
func SpanOfTokens(tokens []Token) source.Span {
	if len(tokens) == 0 {
		return source.NewSpan(0, 0)
	}
	//
	span := tokens[0].SpellingSpan()
	//
	for _, t := range tokens[1:] {
		span = span.Union(t.SpellingSpan())
	}
	//
	return span
}
