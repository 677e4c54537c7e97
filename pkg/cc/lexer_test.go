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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

func TestLexer_00(t *testing.T) {
	checkLexer(t, "")
}

func TestLexer_01(t *testing.T) {
	checkLexer(t, "x", tok(TokenIdent, "x"))
}

func TestLexer_02(t *testing.T) {
	checkLexer(t, "int x;",
		tok(TokenKeyword, "int"), tok(TokenIdent, "x"), tok(TokenPunct, ";"))
}

func TestLexer_03(t *testing.T) {
	// Maximal munch
	checkLexer(t, "a+++b",
		tok(TokenIdent, "a"), tok(TokenPunct, "++"), tok(TokenPunct, "+"), tok(TokenIdent, "b"))
}

func TestLexer_04(t *testing.T) {
	checkLexer(t, "x <<= 1 >> 2",
		tok(TokenIdent, "x"), tok(TokenPunct, "<<="), tok(TokenNumber, "1"),
		tok(TokenPunct, ">>"), tok(TokenNumber, "2"))
}

func TestLexer_05(t *testing.T) {
	checkLexer(t, "0x1fUL 1.5e-3 'a' \"ab\\\"c\"",
		tok(TokenNumber, "0x1fUL"), tok(TokenNumber, "1.5e-3"),
		tok(TokenChar, "'a'"), tok(TokenString, "\"ab\\\"c\""))
}

func TestLexer_06(t *testing.T) {
	// Comments elide to whitespace
	checkLexer(t, "a/*x*/b // trailing\nc",
		tok(TokenIdent, "a"), tok(TokenIdent, "b"), tok(TokenIdent, "c"))
}

func TestLexer_07(t *testing.T) {
	checkLexer(t, "#define F(a,b) a##b",
		tok(TokenPunct, "#"), tok(TokenIdent, "define"), tok(TokenIdent, "F"),
		tok(TokenPunct, "("), tok(TokenIdent, "a"), tok(TokenPunct, ","),
		tok(TokenIdent, "b"), tok(TokenPunct, ")"), tok(TokenIdent, "a"),
		tok(TokenPunct, "##"), tok(TokenIdent, "b"))
}

func TestLexer_08(t *testing.T) {
	// Line continuations vanish
	checkLexer(t, "ab\\\ncd", tok(TokenIdent, "ab"), tok(TokenIdent, "cd"))
}

func TestLexer_09(t *testing.T) {
	checkLexerFails(t, "\"unterminated")
}

func TestLexer_10(t *testing.T) {
	checkLexerFails(t, "'x\ny'")
}

func TestLexer_11(t *testing.T) {
	checkLexerFails(t, "a @ b")
}

func TestLexer_12(t *testing.T) {
	file := srcFile("a b\nc")
	tokens, err := Tokenize(file)
	require.Nil(t, err)
	require.Len(t, tokens, 4)
	// Line structure markers
	assert.True(t, tokens[0].AtBOL)
	assert.False(t, tokens[0].HasSpace)
	assert.False(t, tokens[1].AtBOL)
	assert.True(t, tokens[1].HasSpace)
	assert.True(t, tokens[2].AtBOL)
	// Spans index the original text
	assert.Equal(t, "b", file.Text(tokens[1].Span))
	assert.Equal(t, "c", file.Text(tokens[2].Span))
}

func TestLexer_13(t *testing.T) {
	// Reconstruction preserves single spacing
	file := srcFile("x  +  (y*z)")
	tokens, err := Tokenize(file)
	require.Nil(t, err)
	assert.Equal(t, "x + (y*z)", TextOfTokens(tokens[:len(tokens)-1]))
}

// ===================================================================
// Helpers
// ===================================================================

// expected is a (kind, text) pair to match a lexed token against.
type expected struct {
	kind TokenKind
	text string
}

func tok(kind TokenKind, text string) expected {
	return expected{kind, text}
}

func srcFile(text string) *source.File {
	return source.NewSourceFile("test.c", []byte(text))
}

func checkLexer(t *testing.T, input string, expecteds ...expected) {
	t.Helper()
	//
	tokens, err := Tokenize(srcFile(input))
	require.Nil(t, err)
	// Final token is always EOF
	require.NotEmpty(t, tokens)
	require.True(t, tokens[len(tokens)-1].IsEOF())
	//
	expecteds = append([]expected{}, expecteds...)
	actual := make([]expected, len(tokens)-1)
	//
	for i, token := range tokens[:len(tokens)-1] {
		actual[i] = expected{token.Kind, token.Text}
	}
	//
	if diff := cmp.Diff(expecteds, actual, cmp.AllowUnexported(expected{})); diff != "" {
		t.Errorf("unexpected tokens for %q:\n%s", input, diff)
	}
}

func checkLexerFails(t *testing.T, input string) {
	t.Helper()
	//
	_, err := Tokenize(srcFile(input))
	require.NotNil(t, err)
}
