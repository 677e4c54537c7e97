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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_ParamMutation(t *testing.T) {
	checkRejects(t, `
#define INC(a) ((a) = (a) + 1)
int f(int x) { INC(x); return x; }`,
		CategorySemantic, "assigns to a parameter")
}

func TestClassify_ParamPostfix(t *testing.T) {
	checkRejects(t, `
#define BUMP(a) ((a)++)
int f(int x) { BUMP(x); return x; }`,
		CategorySemantic, "assigns to a parameter")
}

func TestClassify_UnusedEffectfulArgument(t *testing.T) {
	checkRejects(t, `
#define DROP(a) (0)
int f(int x) { return DROP(x++); }`,
		CategoryUnsupported, "side effects")
}

func TestClassify_UnusedTrappingArgument(t *testing.T) {
	checkRejects(t, `
#define DROP(a) (0)
int f(int *p) { return DROP(*p); }`,
		CategoryUnsupported, "may trap")
}

func TestClassify_UnusedPureArgument(t *testing.T) {
	// Dropping a pure argument is unobservable; the literal types the
	// parameter even though it never reached the parser
	result := transform(t, `
#define DROP(a) (0)
int f(void) { return DROP(7); }`)
	//
	defs := records(result, "Transformed Definition")
	require.Len(t, defs, 1)
	assert.Contains(t, defs[0], `"int (int)",DROP`)
}

func TestClassify_UnusedOpaqueArgument(t *testing.T) {
	// Pure, but bound only at an inner scope: no type can be inferred
	checkRejects(t, `
#define DROP(a) (0)
int f(int x) { return DROP(x); }`,
		CategoryType, "not uniquely determinable")
}

func TestClassify_SelfReference(t *testing.T) {
	checkRejects(t, `
int Y;
#define Y (Y + 1)
int f(void) { return Y; }`,
		CategoryUnsupported, "itself")
}

func TestClassify_VoidBody(t *testing.T) {
	checkRejects(t, `
void g(void);
#define CALL g()
int main(void) { CALL; return 0; }`,
		CategoryType, "void type")
}

func TestClassify_GlobalCapture(t *testing.T) {
	// A file-scope identifier survives the move to the top of the file, but
	// a non-constant body cannot become a variable
	result := transform(t, `
int n;
#define N (n)
int f(void) { return N; }`)
	//
	require.Len(t, records(result, "Transformed Expansion"), 1)
	assert.Contains(t, result.Output, "static inline int N(void) { return (n); }")
	assert.Contains(t, result.Output, "return N();")
}

func TestClassify_LateGlobal(t *testing.T) {
	// The body names a global which only comes into scope after the macro
	// definition, so the free definition would not compile there
	checkRejects(t, `
#define G (g)
int g = 1;
int f(void) { return G; }`,
		CategoryHygiene, "is not declared at the definition site")
}

func TestClassify_ConditionalPureArgument(t *testing.T) {
	// A short-circuited argument is fine when forcing it is unobservable
	result := transform(t, `
#define OR(a,b) ((a) || (b))
int f(int x, int y) { return OR(x, y); }`)
	//
	require.Len(t, records(result, "Transformed Expansion"), 1)
	assert.Empty(t, records(result, "Untransformed Expansion"))
}

func TestClassify_StatementBody(t *testing.T) {
	checkRejects(t, `
#define TWICE(a) (a); (a)
int f(int x) { TWICE(x); return x; }`,
		CategoryUnsupported, "")
}

// checkRejects transforms a source and asserts its sole expansion is
// rejected under the given category, with the reason containing the given
// fragment.
func checkRejects(t *testing.T, src string, category Category, fragment string) {
	t.Helper()
	//
	result := transform(t, src)
	//
	rejected := records(result, "Untransformed Expansion")
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0], ","+string(category)+",")
	//
	if fragment != "" {
		assert.Contains(t, rejected[0], fragment)
	}
	//
	assert.Empty(t, records(result, "Transformed Definition"))
}
