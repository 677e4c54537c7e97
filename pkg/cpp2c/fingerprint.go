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
	"hash/fnv"
	"strings"

	"github.com/appleseedlab/cpp-to-c/pkg/cc"
)

// Fingerprint computes a stable identity for a macro definition, derived
// from its canonicalised name, parameter list and body spelling.  Two
// textually identical definitions share a fingerprint regardless of where
// they were defined; any change to name, parameters or body produces a new
// one.
func Fingerprint(macro *cc.Macro) string {
	var builder strings.Builder
	//
	builder.WriteString(macro.Name)
	//
	if macro.IsFunctionLike() {
		builder.WriteString("(")
		builder.WriteString(strings.Join(macro.Params, ","))
		builder.WriteString(")")
	}
	//
	builder.WriteString(";")
	builder.WriteString(cc.TextOfTokens(macro.Body))
	//
	hasher := fnv.New64a()
	hasher.Write([]byte(builder.String()))
	//
	return fmt.Sprintf("%016x", hasher.Sum64())
}
