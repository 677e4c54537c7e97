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
	"fmt"
	"strings"

	"github.com/appleseedlab/cpp-to-c/pkg/cc"
)

// TransformKind identifies what sort of C definition a macro becomes.
type TransformKind uint8

const (
	// KindFunction emits a static inline function.
	KindFunction TransformKind = iota
	// KindVariable emits a static const variable.
	KindVariable
	// KindTypedef emits a typedef.
	KindTypedef
)

// TransformedDefinition is the C definition synthesized for a transformable
// macro.  EmittedName is assigned by the deduplicator; until then it holds
// the macro's own name as a proposal.
type TransformedDefinition struct {
	// Macro this definition was synthesized from.
	Macro *cc.Macro
	// Fingerprint of that macro.
	Fingerprint string
	// Kind of definition to emit.
	Kind TransformKind
	// ReturnType of the function, or the type of the variable.  Unused for
	// typedefs.
	ReturnType *cc.Type
	// ParamTypes of the function, in order.  Empty otherwise.
	ParamTypes []*cc.Type
	// ParamNames of the function, in order.  Empty otherwise.
	ParamNames []string
	// EmittedName the definition is (or will be) emitted under.
	EmittedName string
	// Body is the C text of the definition's body: the macro body spelling
	// for functions and typedefs, the initialiser for variables.
	Body string
}

// Signature renders the canonical signature of this definition, including
// the emitted name.  The rendering is total in the name: clearing the name
// yields the name-independent form used for deduplication and telemetry.
func (d *TransformedDefinition) Signature() string {
	switch d.Kind {
	case KindFunction:
		var params []string
		//
		for _, ty := range d.ParamTypes {
			params = append(params, ty.String())
		}
		//
		if len(params) == 0 {
			params = []string{"void"}
		}
		//
		return fmt.Sprintf("%s %s(%s)", d.ReturnType.String(), d.EmittedName, strings.Join(params, ", "))
	case KindVariable:
		return strings.TrimRight(fmt.Sprintf("static const %s %s", d.ReturnType.String(), d.EmittedName), " ")
	default:
		return strings.TrimRight(fmt.Sprintf("typedef %s %s", d.Body, d.EmittedName), " ")
	}
}

// SignatureWithoutName renders the name-independent signature.  The emitted
// name is cleared for the duration of the rendering and restored on every
// exit path.
func (d *TransformedDefinition) SignatureWithoutName() string {
	saved := d.EmittedName
	d.EmittedName = ""
	//
	defer func() { d.EmittedName = saved }()
	//
	return d.Signature()
}

// Render produces the C definition as it is inserted into the output file.
func (d *TransformedDefinition) Render() string {
	switch d.Kind {
	case KindFunction:
		var params []string
		//
		for i, ty := range d.ParamTypes {
			params = append(params, declare(ty, d.ParamNames[i]))
		}
		//
		if len(params) == 0 {
			params = []string{"void"}
		}
		//
		head := declare(d.ReturnType, d.EmittedName)
		//
		return fmt.Sprintf("static inline %s(%s) { return %s; }", head, strings.Join(params, ", "), d.Body)
	case KindVariable:
		return fmt.Sprintf("static const %s = %s;", declare(d.ReturnType, d.EmittedName), d.Body)
	default:
		return fmt.Sprintf("typedef %s %s;", d.Body, d.EmittedName)
	}
}

// declare renders a C declaration of the given name with the given type.
// Only the type shapes a signature can contain arise here: scalars and
// pointers.
func declare(ty *cc.Type, name string) string {
	spelled := ty.String()
	//
	if strings.HasSuffix(spelled, "*") {
		return spelled + name
	}
	//
	return spelled + " " + name
}
