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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess_00(t *testing.T) {
	checkPreprocess(t, "int x;", "int x;")
}

func TestPreprocess_01(t *testing.T) {
	checkPreprocess(t, "#define K 42\nint x = K;", "int x = 42;")
}

func TestPreprocess_02(t *testing.T) {
	checkPreprocess(t, "#define ADD(a,b) ((a)+(b))\nADD(1, 2);", "((1)+(2));")
}

func TestPreprocess_03(t *testing.T) {
	// Nested invocation inside an argument
	checkPreprocess(t, "#define NEG(a) (-(a))\n#define ADD(a,b) ((a)+(b))\nADD(NEG(1), 2);",
		"(((-(1)))+(2));")
}

func TestPreprocess_04(t *testing.T) {
	// Self-reference does not loop
	checkPreprocess(t, "#define X X+1\nX;", "X+1;")
}

func TestPreprocess_05(t *testing.T) {
	// Mutual reference does not loop
	checkPreprocess(t, "#define A B\n#define B A\nA;", "A;")
}

func TestPreprocess_06(t *testing.T) {
	checkPreprocess(t, "#if 0\nint a;\n#else\nint b;\n#endif", "int b;")
}

func TestPreprocess_07(t *testing.T) {
	checkPreprocess(t, "#define V 3\n#if V < 2\nint a;\n#elif V < 4\nint b;\n#else\nint c;\n#endif",
		"int b;")
}

func TestPreprocess_08(t *testing.T) {
	checkPreprocess(t, "#define F\n#if defined(F) && !defined(G)\nint a;\n#endif", "int a;")
}

func TestPreprocess_09(t *testing.T) {
	checkPreprocess(t, "#define K 1\n#undef K\n#ifdef K\nint a;\n#endif\nint b;", "int b;")
}

func TestPreprocess_10(t *testing.T) {
	// Conditionals nest
	checkPreprocess(t, "#if 1\n#if 0\nint a;\n#endif\nint b;\n#endif", "int b;")
}

func TestPreprocess_11(t *testing.T) {
	// Stringize
	checkPreprocess(t, "#define S(x) #x\nchar *s = S(a b);", "char *s = \"a b\";")
}

func TestPreprocess_12(t *testing.T) {
	// Paste
	checkPreprocess(t, "#define P(a,b) a##b\nint P(foo,bar);", "int foobar;")
}

func TestPreprocess_13(t *testing.T) {
	// Variadic
	checkPreprocess(t, "#define V(fmt,...) f(fmt, __VA_ARGS__)\nV(x, 1, 2);", "f(x, 1, 2);")
}

func TestPreprocess_14(t *testing.T) {
	// A function-like macro name without parentheses is not an invocation
	checkPreprocess(t, "#define F(a) (a)\nint F;", "int F;")
}

func TestPreprocess_15(t *testing.T) {
	checkPreprocessFails(t, "#error no thanks")
}

func TestPreprocess_16(t *testing.T) {
	checkPreprocessFails(t, "#if 1\nint a;")
}

func TestPreprocess_17(t *testing.T) {
	checkPreprocessFails(t, "#define ADD(a,b) a+b\nADD(1);")
}

func TestPreprocess_18(t *testing.T) {
	// Unresolved includes are tolerated; the directive span is recorded.
	file := srcFile("#include <stdio.h>\nint x;")
	tokens, includes, err := Preprocess(file, Config{})
	require.NoError(t, err)
	require.Len(t, includes, 1)
	assert.Equal(t, "#include <stdio.h>", file.Text(includes[0]))
	assert.Equal(t, "int x;", textOf(tokens))
}

func TestPreprocess_19(t *testing.T) {
	// Body tokens report the invocation spelling; argument tokens report
	// their own call-site spans.
	src := "#define WRAP(a) ((a))\nint x = WRAP(y);"
	file := srcFile(src)
	tokens, _, err := Preprocess(file, Config{})
	require.NoError(t, err)
	//
	invocation := strings.Index(src, "WRAP(y)")
	//
	for _, tok := range tokens {
		switch {
		case tok.IsEOF():
			// skip
		case tok.Is("y"):
			// Substituted argument, spelled at the call site
			assert.Nil(t, tok.Expansion)
			assert.Equal(t, "y", file.Text(tok.SpellingSpan()))
		case tok.Expansion != nil:
			assert.Equal(t, invocation, tok.SpellingSpan().Start())
			assert.Equal(t, "WRAP(y)", file.Text(tok.SpellingSpan()))
		}
	}
}

func TestPreprocess_20(t *testing.T) {
	// Listener events arrive properly nested
	listener := &eventLog{}
	file := srcFile("#define NEG(a) (-(a))\n#define ADD(a,b) ((a)+(b))\nADD(NEG(1), NEG(2));")
	_, _, err := Preprocess(file, Config{Listener: listener})
	require.NoError(t, err)
	//
	assert.Equal(t, []string{
		"def NEG", "def ADD",
		"begin ADD", "begin NEG", "end NEG", "begin NEG", "end NEG", "end ADD",
	}, listener.events)
}

func TestPreprocess_21(t *testing.T) {
	// An invocation left open at the end of a conditional line errors
	// rather than running off the token stream
	checkPreprocessFails(t, "#define FOO(a) (a)\n#if FOO(1\n#endif\nint x;")
}

// ===================================================================
// Helpers
// ===================================================================

// eventLog records preprocessor callbacks in arrival order.
type eventLog struct {
	events []string
}

func (p *eventLog) MacroDefined(macro *Macro) {
	p.events = append(p.events, "def "+macro.Name)
}

func (p *eventLog) ExpansionBegins(expansion *Expansion) {
	p.events = append(p.events, "begin "+expansion.Macro.Name)
}

func (p *eventLog) ExpansionEnds(expansion *Expansion) {
	p.events = append(p.events, "end "+expansion.Macro.Name)
}

func textOf(tokens []Token) string {
	if n := len(tokens); n > 0 && tokens[n-1].IsEOF() {
		tokens = tokens[:n-1]
	}
	//
	return TextOfTokens(tokens)
}

func checkPreprocess(t *testing.T, input string, expected string) {
	t.Helper()
	//
	tokens, _, err := Preprocess(srcFile(input), Config{})
	require.NoError(t, err)
	assert.Equal(t, expected, textOf(tokens))
}

func checkPreprocessFails(t *testing.T, input string) {
	t.Helper()
	//
	_, _, err := Preprocess(srcFile(input), Config{})
	require.Error(t, err)
}
