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

	"github.com/appleseedlab/cpp-to-c/pkg/cc"
)

func TestDedup_SignatureWithoutName(t *testing.T) {
	def := funcDef("MAX", "int", "int", "int")
	def.EmittedName = "MAX_3"
	//
	assert.Equal(t, "int (int, int)", def.SignatureWithoutName())
	// Rendering must not disturb the emitted name
	assert.Equal(t, "MAX_3", def.EmittedName)
	assert.Equal(t, "int MAX_3(int, int)", def.Signature())
}

func TestDedup_SignatureNoParams(t *testing.T) {
	def := funcDef("ZERO", "int")
	//
	assert.Equal(t, "int (void)", def.SignatureWithoutName())
}

func TestDedup_CanonicalReuse(t *testing.T) {
	dedup := NewDeduplicator()
	//
	first, fresh := dedup.Add(funcDef("MAX", "int", "int", "int"))
	require.True(t, fresh)
	assert.Equal(t, "MAX", first.EmittedName)
	// Same fingerprint, same signature: collapses onto the first
	second, fresh := dedup.Add(funcDef("MAX", "int", "int", "int"))
	require.False(t, fresh)
	assert.Same(t, first, second)
	//
	assert.Len(t, dedup.Definitions(), 1)
}

func TestDedup_SignatureSplits(t *testing.T) {
	dedup := NewDeduplicator()
	//
	ints, fresh := dedup.Add(funcDef("ID", "int", "int"))
	require.True(t, fresh)
	//
	longs, fresh := dedup.Add(funcDef("ID", "long", "long"))
	require.True(t, fresh)
	//
	assert.NotSame(t, ints, longs)
	assert.Equal(t, "ID", ints.EmittedName)
	assert.Equal(t, "ID_1", longs.EmittedName)
	// First-seen order is preserved
	require.Len(t, dedup.Definitions(), 2)
	assert.Same(t, ints, dedup.Definitions()[0])
	assert.Same(t, longs, dedup.Definitions()[1])
}

func TestDedup_NameCollisions(t *testing.T) {
	dedup := NewDeduplicator()
	//
	var names []string
	//
	for _, ret := range []string{"int", "long", "char", "double"} {
		def, fresh := dedup.Add(funcDef("F", ret))
		require.True(t, fresh)
		//
		names = append(names, def.EmittedName)
	}
	//
	assert.Equal(t, []string{"F", "F_1", "F_2", "F_3"}, names)
}

func TestDedup_FingerprintSplits(t *testing.T) {
	dedup := NewDeduplicator()
	// Same name and signature but different definitions stay distinct
	a := funcDef("ABS", "int", "int")
	a.Fingerprint = "aaaa"
	b := funcDef("ABS", "int", "int")
	b.Fingerprint = "bbbb"
	//
	_, fresh := dedup.Add(a)
	require.True(t, fresh)
	_, fresh = dedup.Add(b)
	require.True(t, fresh)
	//
	assert.Equal(t, "ABS", a.EmittedName)
	assert.Equal(t, "ABS_1", b.EmittedName)
}

func TestDedup_VariableSignature(t *testing.T) {
	def := &TransformedDefinition{
		Macro:       &cc.Macro{Name: "K"},
		Fingerprint: "cafe",
		Kind:        KindVariable,
		ReturnType:  cc.IntType(),
		Body:        "42",
	}
	//
	assert.Equal(t, "static const int", def.SignatureWithoutName())
	//
	dedup := NewDeduplicator()
	canonical, fresh := dedup.Add(def)
	require.True(t, fresh)
	assert.Equal(t, "static const int K = 42;", canonical.Render())
}

func TestDedup_PointerRendering(t *testing.T) {
	def := funcDef("DEREF", "int", "int")
	def.ReturnType = cc.IntType()
	def.ParamTypes = []*cc.Type{cc.PointerTo(cc.IntType())}
	def.Body = "(*(p))"
	def.ParamNames = []string{"p"}
	//
	assert.Equal(t, "int (int *)", def.SignatureWithoutName())
	//
	def.EmittedName = "DEREF"
	assert.Equal(t, "static inline int DEREF(int *p) { return (*(p)); }", def.Render())
}

// funcDef constructs a function definition with the given return and
// parameter type spellings, for the scalar types tests need.
func funcDef(name string, ret string, params ...string) *TransformedDefinition {
	def := &TransformedDefinition{
		Macro:       &cc.Macro{Name: name},
		Fingerprint: "deadbeef",
		Kind:        KindFunction,
		ReturnType:  scalar(ret),
		Body:        "0",
	}
	//
	for i, p := range params {
		def.ParamTypes = append(def.ParamTypes, scalar(p))
		def.ParamNames = append(def.ParamNames, string(rune('a'+i)))
	}
	//
	return def
}

func scalar(spelling string) *cc.Type {
	switch spelling {
	case "long":
		return cc.LongType()
	case "char":
		return cc.CharType()
	case "double":
		return cc.DoubleType()
	default:
		return cc.IntType()
	}
}
