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

// Semantic predicates over expressions, used by the transformation engine to
// decide when re-evaluating or suppressing evaluation of an argument can
// change program behaviour.

// HasSideEffects checks whether evaluating a given expression may write
// state observable afterwards.  Assignments, increment and decrement,
// function calls, and accesses to volatile storage all count.
func HasSideEffects(e Expr) bool {
	result := false
	//
	Walk(e, func(n Node) bool {
		if x, ok := n.(Expr); ok && x.Type() != nil && x.Type().Volatile {
			result = true
		}
		//
		switch n := n.(type) {
		case *Assign, *Postfix, *Call:
			result = true
		case *Unary:
			if n.Op == "++" || n.Op == "--" {
				result = true
			}
		}
		//
		return !result
	})
	//
	return result
}

// IsPure checks whether an expression can be re-evaluated any number of
// times with identical results and no observable effect.  Reads of volatile
// storage and function calls are impure.
func IsPure(e Expr) bool {
	return !HasSideEffects(e)
}

// MayTrap checks whether evaluating an expression could fault or invoke
// undefined behaviour under some program state: pointer dereferences, array
// subscripts, division and remainder, function calls and volatile accesses.
func MayTrap(e Expr) bool {
	result := false
	//
	Walk(e, func(n Node) bool {
		if x, ok := n.(Expr); ok && x.Type() != nil && x.Type().Volatile {
			result = true
		}
		//
		switch n := n.(type) {
		case *Index, *Call:
			result = true
		case *Unary:
			if n.Op == "*" {
				result = true
			}
		case *Binary:
			if n.Op == "/" || n.Op == "%" {
				result = true
			}
		case *MemberAccess:
			if n.Arrow {
				result = true
			}
		}
		//
		return !result
	})
	//
	return result
}

// IsLvalue checks whether an expression designates an object.
func IsLvalue(e Expr) bool {
	switch e := e.(type) {
	case *Ident:
		return e.Sym != nil && e.Sym.Kind != SymFunc && e.Sym.Kind != SymEnumConst
	case *Paren:
		return IsLvalue(e.Inner)
	case *Unary:
		return e.Op == "*"
	case *Index, *MemberAccess:
		return true
	case *StrLit:
		return true
	default:
		return false
	}
}

// IsConstantExpr checks whether an expression is an integer constant
// expression in the sense of the C standard (restricted to the supported
// subset).
func IsConstantExpr(e Expr) bool {
	_, ok := EvalConst(e)
	//
	return ok
}

// EvalConst evaluates an integer constant expression, reporting failure for
// anything non-constant.
func EvalConst(e Expr) (int64, bool) {
	switch e := e.(type) {
	case *IntLit:
		return e.Value, true
	case *CharLit:
		return e.Value, true
	case *Paren:
		return EvalConst(e.Inner)
	case *Ident:
		if e.Sym != nil && e.Sym.Kind == SymEnumConst {
			return e.Sym.Value, true
		}
	case *Cast:
		if e.To.IsInteger() {
			return EvalConst(e.Operand)
		}
	case *Unary:
		if v, ok := EvalConst(e.Operand); ok {
			switch e.Op {
			case "-":
				return -v, true
			case "+":
				return v, true
			case "~":
				return ^v, true
			case "!":
				return boolToInt(v == 0), true
			}
		}
	case *Conditional:
		c, ok1 := EvalConst(e.Cond)
		t, ok2 := EvalConst(e.Then)
		f, ok3 := EvalConst(e.Else)
		//
		if ok1 && ok2 && ok3 {
			if c != 0 {
				return t, true
			}
			//
			return f, true
		}
	case *Binary:
		lhs, ok1 := EvalConst(e.Lhs)
		rhs, ok2 := EvalConst(e.Rhs)
		//
		if ok1 && ok2 {
			return evalConstBinary(e.Op, lhs, rhs)
		}
	case *SizeofType, *SizeofExpr:
		// Sizes are target dependent; constant, but not folded here.
		return 0, false
	}
	//
	return 0, false
}

func evalConstBinary(op string, lhs int64, rhs int64) (int64, bool) {
	switch op {
	case "+":
		return lhs + rhs, true
	case "-":
		return lhs - rhs, true
	case "*":
		return lhs * rhs, true
	case "/":
		if rhs != 0 {
			return lhs / rhs, true
		}
	case "%":
		if rhs != 0 {
			return lhs % rhs, true
		}
	case "&":
		return lhs & rhs, true
	case "|":
		return lhs | rhs, true
	case "^":
		return lhs ^ rhs, true
	case "<<":
		return lhs << uint64(rhs&63), true
	case ">>":
		return lhs >> uint64(rhs&63), true
	case "==":
		return boolToInt(lhs == rhs), true
	case "!=":
		return boolToInt(lhs != rhs), true
	case "<":
		return boolToInt(lhs < rhs), true
	case "<=":
		return boolToInt(lhs <= rhs), true
	case ">":
		return boolToInt(lhs > rhs), true
	case ">=":
		return boolToInt(lhs >= rhs), true
	case "&&":
		return boolToInt(lhs != 0 && rhs != 0), true
	case "||":
		return boolToInt(lhs != 0 || rhs != 0), true
	}
	//
	return 0, false
}
