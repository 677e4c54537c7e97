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
	"errors"
	"sort"
	"strings"

	"github.com/appleseedlab/cpp-to-c/pkg/cc"
	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
)

// ErrOverlappingEdits indicates two rewrites claim overlapping source
// ranges, which would make the result order-dependent.
var ErrOverlappingEdits = errors.New("overlapping rewrites")

// edit is a single buffered replacement of a source range.
type edit struct {
	span source.Span
	text string
}

// Rewriter buffers edits against one source file and commits them
// atomically.  Nothing is written until Apply, so a failing translation
// unit produces no output at all.
type Rewriter struct {
	file  *source.File
	edits []edit
}

// NewRewriter constructs a rewriter over a given source file.
func NewRewriter(file *source.File) *Rewriter {
	return &Rewriter{file: file}
}

// Replace buffers replacement of a span with new text.
func (r *Rewriter) Replace(span source.Span, text string) {
	r.edits = append(r.edits, edit{span, text})
}

// Insert buffers insertion of text at a character index.
func (r *Rewriter) Insert(index int, text string) {
	r.edits = append(r.edits, edit{source.NewSpan(index, index), text})
}

// ReplaceInvocation rewrites one accepted invocation as a use of its
// canonical definition.  Functions get a call carrying the raw argument
// spellings; variables get a bare name; typedefs leave the invocation
// alone, since the macro still expands to the aliased type name.
func (r *Rewriter) ReplaceInvocation(node *ExpansionNode, def *TransformedDefinition) {
	switch def.Kind {
	case KindFunction:
		var args []string
		//
		for _, arg := range node.Args {
			args = append(args, cc.TextOfTokens(arg.Raw))
		}
		//
		r.Replace(node.Spelling, def.EmittedName+"("+strings.Join(args, ", ")+")")
	case KindVariable:
		r.Replace(node.Spelling, def.EmittedName)
	case KindTypedef:
		// Nothing to do at the invocation.
	}
}

// InsertPrelude buffers the transformed definitions as a block directly
// after the last top-level #include, or at the top of the file when there
// are none.
func (r *Rewriter) InsertPrelude(tu *cc.TranslationUnit, defs []*TransformedDefinition) {
	if len(defs) == 0 {
		return
	}
	//
	at := 0
	//
	for _, span := range tu.IncludeSpans {
		line := tu.File.FindFirstEnclosingLine(span)
		// Land just past the line's trailing newline.
		end := min(line.Start()+line.Length()+1, len(tu.File.Contents()))
		//
		if end > at {
			at = end
		}
	}
	//
	var builder strings.Builder
	//
	for _, def := range defs {
		builder.WriteString(def.Render())
		builder.WriteString("\n")
	}
	//
	r.Insert(at, builder.String())
}

// Apply commits all buffered edits, returning the rewritten source.  Edits
// are applied in decreasing source order so earlier offsets stay valid.
func (r *Rewriter) Apply() (string, error) {
	edits := make([]edit, len(r.edits))
	copy(edits, r.edits)
	// Descending by start; a zero-length insert at the same index as a
	// replacement goes second so it lands before the replacement text.
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].span.Start() != edits[j].span.Start() {
			return edits[i].span.Start() > edits[j].span.Start()
		}
		//
		return edits[i].span.Length() > edits[j].span.Length()
	})
	// Reject overlap before touching the contents.
	for i := 1; i < len(edits); i++ {
		if edits[i].span.End() > edits[i-1].span.Start() {
			return "", ErrOverlappingEdits
		}
	}
	//
	contents := []rune(nil)
	contents = append(contents, r.file.Contents()...)
	//
	for _, e := range edits {
		tail := append([]rune(e.text), contents[e.span.End():]...)
		contents = append(contents[:e.span.Start()], tail...)
	}
	//
	return string(contents), nil
}
