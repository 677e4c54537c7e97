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

func TestParser_01(t *testing.T) {
	tu := parseTU(t, "int x; int y = 2;")
	require.Len(t, tu.Decls, 2)
	assert.Equal(t, "x", tu.Decls[0].Name())
	assert.Equal(t, "y", tu.Decls[1].Name())
	//
	decl, ok := tu.Decls[1].(*VarDecl)
	require.True(t, ok)
	require.NotNil(t, decl.Init)
	assert.Equal(t, TypeInt, decl.Init.Type().Kind)
}

func TestParser_02(t *testing.T) {
	src := "int add(int a, int b) { return a + b; }\nint zero;"
	tu := parseTU(t, src)
	require.Len(t, tu.Decls, 2)
	//
	fn, ok := tu.Decls[0].(*FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name())
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.NotNil(t, fn.Body)
	// Enclosing declaration lookup
	assert.Equal(t, "add", tu.EnclosingDeclName(strings.Index(src, "a + b")))
	assert.Equal(t, "zero", tu.EnclosingDeclName(strings.Index(src, "zero")))
}

func TestParser_03(t *testing.T) {
	tu := parseTU(t, "typedef unsigned long word;\nword w;")
	require.Len(t, tu.Decls, 2)
	//
	decl, ok := tu.Decls[1].(*VarDecl)
	require.True(t, ok)
	assert.Equal(t, TypeLong, decl.Sym.Ty.Kind)
	assert.True(t, decl.Sym.Ty.Unsigned)
}

func TestParser_04(t *testing.T) {
	tu := parseTU(t, "typedef struct point { int x; int y; } point;")
	// A full type name resolves against the file scope
	ty, ok := tu.ParseTypeName(lexAll(t, "const point *"))
	require.True(t, ok)
	require.Equal(t, TypePtr, ty.Kind)
	assert.Equal(t, TypeStruct, ty.Base.Kind)
	assert.True(t, ty.Base.Const)
	// Trailing tokens disqualify
	_, ok = tu.ParseTypeName(lexAll(t, "int x"))
	assert.False(t, ok)
	// Non-types disqualify
	_, ok = tu.ParseTypeName(lexAll(t, "42"))
	assert.False(t, ok)
}

func TestParser_05(t *testing.T) {
	// C89 implicit function declaration
	tu := parseTU(t, "int main() { printf(\"hi\"); return 0; }")
	//
	sym := tu.FileScopeLookup("printf")
	require.NotNil(t, sym)
	assert.True(t, sym.Implicit)
	assert.Equal(t, SymFunc, sym.Kind)
}

func TestParser_06(t *testing.T) {
	tu := parseTU(t, `
struct point { int x; int y; };
struct point p;
int f(struct point *q) { return p.x + q->y; }`)
	require.Len(t, tu.Decls, 3)
	//
	sym := tu.FileScopeLookup("p")
	require.NotNil(t, sym)
	assert.Equal(t, TypeStruct, sym.Ty.Kind)
	assert.Equal(t, "point", sym.Ty.Tag)
	require.Len(t, sym.Ty.Members, 2)
}

func TestParser_07(t *testing.T) {
	tu := parseTU(t, "enum color { RED, GREEN = 5, BLUE };")
	//
	blue := tu.FileScopeLookup("BLUE")
	require.NotNil(t, blue)
	assert.Equal(t, SymEnumConst, blue.Kind)
	assert.Equal(t, int64(6), blue.Value)
	assert.Equal(t, int64(0), tu.FileScopeLookup("RED").Value)
}

func TestParser_08(t *testing.T) {
	// Declarators: pointers, arrays, function pointers
	tu := parseTU(t, "int *a; int b[10]; int (*f)(int, char *);")
	require.Len(t, tu.Decls, 3)
	//
	a := tu.FileScopeLookup("a").Ty
	require.Equal(t, TypePtr, a.Kind)
	//
	b := tu.FileScopeLookup("b").Ty
	require.Equal(t, TypeArray, b.Kind)
	assert.Equal(t, 10, b.Len)
	//
	f := tu.FileScopeLookup("f").Ty
	require.Equal(t, TypePtr, f.Kind)
	require.Equal(t, TypeFunc, f.Base.Kind)
	require.Len(t, f.Base.Params, 2)
	assert.Equal(t, TypePtr, f.Base.Params[1].Kind)
}

func TestParser_09(t *testing.T) {
	// Statement forms parse
	parseTU(t, `
int main(void) {
	int i;
	for (i = 0; i < 10; i++) {
		if (i % 2) continue;
		while (i > 5) break;
	}
	do { i--; } while (i);
	goto out;
out:
	return i;
}`)
}

func TestParser_10(t *testing.T) {
	checkParserFails(t, "int f() { return x; }")
	checkParserFails(t, "int f() { return 1 +; }")
	checkParserFails(t, "int 3;")
	checkParserFails(t, "int f() { int x = *1; }")
}

func TestParser_11(t *testing.T) {
	// Return expression typing
	assert.Equal(t, TypeInt, returnType(t, "int x;", "x == 1 && x < 2"))
	assert.Equal(t, TypeLong, returnType(t, "", "sizeof(int)"))
	assert.Equal(t, TypeDouble, returnType(t, "", "1 ? 2.0 : 3"))
	assert.Equal(t, TypeInt, returnType(t, "int *p;", "*p"))
	assert.Equal(t, TypePtr, returnType(t, "int x;", "&x"))
	assert.Equal(t, TypeLong, returnType(t, "int *p; int *q;", "p - q"))
	assert.Equal(t, TypePtr, returnType(t, "int *p;", "p + 1"))
	assert.Equal(t, TypeLong, returnType(t, "unsigned long n;", "n + 1"))
}

// ===================================================================
// Helpers
// ===================================================================

func parseTU(t *testing.T, src string) *TranslationUnit {
	t.Helper()
	//
	tu, err := ParseTranslationUnit(srcFile(src), Config{})
	require.NoError(t, err)
	//
	return tu
}

func checkParserFails(t *testing.T, src string) {
	t.Helper()
	//
	_, err := ParseTranslationUnit(srcFile(src), Config{})
	require.Error(t, err)
}

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	//
	tokens, err := Tokenize(srcFile(src))
	require.Nil(t, err)
	// Drop the EOF terminator
	return tokens[:len(tokens)-1]
}

// returnType parses a tiny function returning the given expression (with the
// given file-scope declarations in view) and reports the expression's type
// kind.
func returnType(t *testing.T, decls string, expr string) TypeKind {
	t.Helper()
	//
	tu := parseTU(t, decls+"\nlong f() { return "+expr+"; }")
	//
	fn, ok := tu.Decls[len(tu.Decls)-1].(*FuncDecl)
	require.True(t, ok)
	require.NotEmpty(t, fn.Body.Stmts)
	//
	ret, ok := fn.Body.Stmts[len(fn.Body.Stmts)-1].(*Return)
	require.True(t, ok)
	require.NotNil(t, ret.E)
	//
	return ret.E.Type().Kind
}
