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
	"fmt"
	"strings"
)

// TypeKind identifies the shape of a C type.
type TypeKind uint8

const (
	// TypeVoid is the void type.
	TypeVoid TypeKind = iota
	// TypeChar is (signed or unsigned) char.
	TypeChar
	// TypeShort is (signed or unsigned) short.
	TypeShort
	// TypeInt is (signed or unsigned) int.
	TypeInt
	// TypeLong is (signed or unsigned) long, covering long long as well.
	TypeLong
	// TypeFloat is float.
	TypeFloat
	// TypeDouble is double.
	TypeDouble
	// TypePtr is a pointer type; Base is the pointee.
	TypePtr
	// TypeArray is an array type; Base is the element, Len the length.
	TypeArray
	// TypeFunc is a function type; Base is the return type.
	TypeFunc
	// TypeStruct is a structure type.
	TypeStruct
	// TypeUnion is a union type.
	TypeUnion
	// TypeEnum is an enumerated type.
	TypeEnum
)

// Member is a single member of a struct or union.
type Member struct {
	Name string
	Type *Type
	// Bitfield indicates the member was declared with a bit width.
	Bitfield bool
}

// Type is a structural representation of a C type.
type Type struct {
	Kind TypeKind
	// Unsigned marks an unsigned integer type.
	Unsigned bool
	// Const / Volatile qualifiers.
	Const    bool
	Volatile bool
	// Base is the pointee (pointers), element (arrays) or return type
	// (functions).
	Base *Type
	// Len is the element count of an array, or -1 when unspecified.
	Len int
	// Params are the parameter types of a function type.
	Params []*Type
	// Variadic marks a function type declared with a trailing "...".
	Variadic bool
	// Tag is the struct/union/enum tag, if any.
	Tag string
	// Members of a struct or union.
	Members []Member
	// Incomplete marks a type whose definition has not been seen.
	Incomplete bool
}

// Primitive type constructors.

// VoidType returns the void type.
func VoidType() *Type { return &Type{Kind: TypeVoid} }

// CharType returns plain char.
func CharType() *Type { return &Type{Kind: TypeChar} }

// IntType returns plain int.
func IntType() *Type { return &Type{Kind: TypeInt} }

// LongType returns plain long.
func LongType() *Type { return &Type{Kind: TypeLong} }

// DoubleType returns double.
func DoubleType() *Type { return &Type{Kind: TypeDouble} }

// PointerTo returns a pointer type with a given pointee.
func PointerTo(base *Type) *Type {
	return &Type{Kind: TypePtr, Base: base}
}

// ArrayOf returns an array type with a given element type and length.
func ArrayOf(base *Type, n int) *Type {
	return &Type{Kind: TypeArray, Base: base, Len: n}
}

// FuncType returns a function type with given return and parameter types.
func FuncType(ret *Type, params []*Type, variadic bool) *Type {
	return &Type{Kind: TypeFunc, Base: ret, Params: params, Variadic: variadic}
}

// IsInteger checks whether this is an integer type (including enums, which
// have int representation).
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case TypeChar, TypeShort, TypeInt, TypeLong, TypeEnum:
		return true
	default:
		return false
	}
}

// IsArithmetic checks whether this is an arithmetic (integer or floating)
// type.
func (t *Type) IsArithmetic() bool {
	return t.IsInteger() || t.Kind == TypeFloat || t.Kind == TypeDouble
}

// IsScalar checks whether this is a scalar (arithmetic or pointer) type.
func (t *Type) IsScalar() bool {
	return t.IsArithmetic() || t.Kind == TypePtr
}

// IsComplete checks whether this type can be the type of an object with
// known size.
func (t *Type) IsComplete() bool {
	switch t.Kind {
	case TypeVoid:
		return false
	case TypeArray:
		return t.Len >= 0 && t.Base.IsComplete()
	default:
		return !t.Incomplete
	}
}

// Rank of an integer type, for the usual arithmetic conversions.
func (t *Type) rank() int {
	switch t.Kind {
	case TypeChar:
		return 1
	case TypeShort:
		return 2
	case TypeInt, TypeEnum:
		return 3
	case TypeLong:
		return 4
	case TypeFloat:
		return 5
	case TypeDouble:
		return 6
	default:
		return 0
	}
}

// Unqualified returns this type with its top-level qualifiers stripped.
func (t *Type) Unqualified() *Type {
	if !t.Const && !t.Volatile {
		return t
	}
	//
	u := *t
	u.Const, u.Volatile = false, false
	//
	return &u
}

// Qualified returns this type with given qualifiers added.
func (t *Type) Qualified(cnst bool, volatile bool) *Type {
	if !cnst && !volatile {
		return t
	}
	//
	u := *t
	u.Const = u.Const || cnst
	u.Volatile = u.Volatile || volatile
	//
	return &u
}

// Decay applies array-to-pointer and function-to-pointer decay, as happens
// to values in rvalue, argument and return positions.
func (t *Type) Decay() *Type {
	switch t.Kind {
	case TypeArray:
		return PointerTo(t.Base)
	case TypeFunc:
		return PointerTo(t)
	default:
		return t
	}
}

// Equal performs structural equality on types, ignoring top-level
// qualifiers on neither side (qualifiers participate, since signatures
// distinguish e.g. "char *" from "const char *").
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	//
	if t == nil || o == nil || t.Kind != o.Kind ||
		t.Unsigned != o.Unsigned || t.Const != o.Const || t.Volatile != o.Volatile {
		return false
	}
	//
	switch t.Kind {
	case TypePtr:
		return t.Base.Equal(o.Base)
	case TypeArray:
		return t.Len == o.Len && t.Base.Equal(o.Base)
	case TypeFunc:
		if !t.Base.Equal(o.Base) || len(t.Params) != len(o.Params) || t.Variadic != o.Variadic {
			return false
		}
		//
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		//
		return true
	case TypeStruct, TypeUnion, TypeEnum:
		return t.Tag == o.Tag && len(t.Members) == len(o.Members)
	default:
		return true
	}
}

// String renders this type in C declaration-specifier order, with pointer
// declarators appended (e.g. "const char *", "int", "struct point").  For
// function types the result takes the shape "ret (params)".
func (t *Type) String() string {
	var builder strings.Builder
	//
	if t.Const {
		builder.WriteString("const ")
	}
	//
	if t.Volatile {
		builder.WriteString("volatile ")
	}
	//
	switch t.Kind {
	case TypeVoid:
		builder.WriteString("void")
	case TypeChar, TypeShort, TypeInt, TypeLong:
		if t.Unsigned {
			builder.WriteString("unsigned ")
		}
		//
		builder.WriteString([]string{TypeChar: "char", TypeShort: "short", TypeInt: "int", TypeLong: "long"}[t.Kind])
	case TypeFloat:
		builder.WriteString("float")
	case TypeDouble:
		builder.WriteString("double")
	case TypePtr:
		builder.WriteString(t.Base.String())
		builder.WriteString(" *")
	case TypeArray:
		if t.Len >= 0 {
			builder.WriteString(fmt.Sprintf("%s [%d]", t.Base.String(), t.Len))
		} else {
			builder.WriteString(t.Base.String() + " []")
		}
	case TypeFunc:
		params := make([]string, len(t.Params))
		//
		for i, p := range t.Params {
			params[i] = p.String()
		}
		//
		if t.Variadic {
			params = append(params, "...")
		}
		//
		builder.WriteString(fmt.Sprintf("%s (%s)", t.Base.String(), strings.Join(params, ", ")))
	case TypeStruct:
		builder.WriteString("struct " + t.Tag)
	case TypeUnion:
		builder.WriteString("union " + t.Tag)
	case TypeEnum:
		builder.WriteString("enum " + t.Tag)
	}
	//
	return builder.String()
}
