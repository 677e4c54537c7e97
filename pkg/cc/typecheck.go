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

// Integer promotion: types of rank below int promote to int.
func promote(t *Type) *Type {
	if t.IsInteger() && t.rank() < IntType().rank() {
		return IntType()
	}
	//
	return t.Unqualified()
}

// The usual arithmetic conversions over two operand types.
func usualArith(a *Type, b *Type) *Type {
	a, b = promote(a.Decay()), promote(b.Decay())
	//
	if a.rank() < b.rank() {
		a, b = b, a
	}
	// a now has the higher (or equal) rank.
	if a.rank() == b.rank() && b.Unsigned && !a.Unsigned {
		u := *a
		u.Unsigned = true
		//
		return &u
	}
	//
	return a
}

// Result type of a binary operator applied to two operand types.  Pointer
// arithmetic follows the C rules; relational, equality and logical operators
// produce int.
func binaryType(op string, lhs *Type, rhs *Type) *Type {
	l, r := lhs.Decay(), rhs.Decay()
	//
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return IntType()
	case "+":
		if l.Kind == TypePtr {
			return l
		}
		//
		if r.Kind == TypePtr {
			return r
		}
	case "-":
		if l.Kind == TypePtr && r.Kind == TypePtr {
			return LongType()
		}
		//
		if l.Kind == TypePtr {
			return l
		}
	}
	//
	return usualArith(l, r)
}

// Result type of the conditional operator over its two result operands.
func conditionalType(then *Type, els *Type) *Type {
	t, e := then.Decay(), els.Decay()
	//
	switch {
	case t.Kind == TypePtr && e.Kind == TypePtr:
		// void* merges with any pointer.
		if t.Base.Kind == TypeVoid {
			return e
		}
		//
		return t
	case t.Kind == TypePtr:
		return t
	case e.Kind == TypePtr:
		return e
	case t.IsArithmetic() && e.IsArithmetic():
		return usualArith(t, e)
	default:
		return t.Unqualified()
	}
}
