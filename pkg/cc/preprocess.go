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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/appleseedlab/cpp-to-c/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Maximum depth of nested #include processing.
const maxIncludeDepth = 64

// Preprocess runs the preprocessor over a given source file, producing the
// fully expanded token stream for the parser, along with the spans of any
// top-level #include directives (which the rewriter uses to position its
// prelude).  Macro events are announced through the configured listener.
//
// Files brought in via #include contribute macro definitions and are subject
// to conditional compilation, but their declarations are not retained: the
// returned stream only contains tokens spelled in (or expanded from) the
// given file.  This keeps every span in the stream anchored to one file.
func Preprocess(file *source.File, cfg Config) ([]Token, []source.Span, error) {
	tokens, err := Tokenize(file)
	if err != nil {
		return nil, nil, err
	}
	//
	pp := &preprocessor{
		cfg:    cfg,
		macros: make(map[string]*Macro),
	}
	//
	if err := pp.process(file, tokens, true); err != nil {
		return nil, nil, err
	}
	// Terminate the stream
	pp.out = append(pp.out, tokens[len(tokens)-1])
	//
	return pp.out, pp.includes, nil
}

type preprocessor struct {
	cfg Config
	// Macro table, keyed by name.
	macros map[string]*Macro
	// Output token stream.
	out []Token
	// Spans of #include directive lines in the main file.
	includes []source.Span
	// Current #include nesting depth.
	depth int
}

// Tracks one level of #if nesting.
type condFrame struct {
	// Whether some branch of this conditional has been taken.
	taken bool
}

// Process a token stream.  When emit is false (i.e. inside an #include),
// directives are still processed but ordinary tokens are dropped.
func (p *preprocessor) process(file *source.File, toks []Token, emit bool) error {
	var conds []condFrame
	//
	i := 0
	//
	for !toks[i].IsEOF() {
		t := toks[i]
		// Directives are recognised only on unexpanded hashes at the
		// beginning of a line.
		if t.AtBOL && t.Is("#") && t.Expansion == nil {
			var err error
			//
			i, conds, err = p.directive(file, toks, i, &emitState{emit}, conds)
			if err != nil {
				return err
			}
			//
			continue
		}
		//
		if !emit {
			i++
			continue
		}
		// Attempt macro expansion
		expanded, next, err := p.maybeExpand(file, toks, i)
		if err != nil {
			return err
		}
		//
		if next > i {
			p.out = append(p.out, expanded...)
			i = next
		} else {
			p.out = append(p.out, t)
			i++
		}
	}
	//
	if len(conds) != 0 {
		return file.SyntaxError(toks[i].Span, "unterminated #if")
	}
	//
	return nil
}

type emitState struct {
	emit bool
}

// ===================================================================
// Directives
// ===================================================================

func (p *preprocessor) directive(file *source.File, toks []Token, i int, es *emitState,
	conds []condFrame) (int, []condFrame, error) {
	//
	hash := toks[i]
	line := lineTokens(toks, i+1)
	next := endOfLine(toks, i+1)
	// Null directive
	if len(line) == 0 {
		return next, conds, nil
	}
	//
	switch line[0].Text {
	case "define":
		if err := p.define(file, line[1:]); err != nil {
			return 0, nil, err
		}
	case "undef":
		if len(line) != 2 || !line[1].IsIdent() {
			return 0, nil, file.SyntaxError(line[0].Span, "malformed #undef")
		}
		//
		delete(p.macros, line[1].Text)
	case "include":
		if es.emit {
			span := hash.Span.Union(line[len(line)-1].Span)
			p.includes = append(p.includes, span)
		}
		//
		if err := p.include(file, line[1:]); err != nil {
			return 0, nil, err
		}
	case "if", "ifdef", "ifndef":
		taken, err := p.evalCondition(file, line)
		if err != nil {
			return 0, nil, err
		}
		//
		conds = append(conds, condFrame{taken})
		//
		if !taken {
			return p.skipBranch(file, toks, next, conds)
		}
	case "elif", "else":
		if len(conds) == 0 {
			return 0, nil, file.SyntaxError(line[0].Span, "#"+line[0].Text+" without #if")
		}
		// A branch was already taken, so skip to the #endif.
		return p.skipBranch(file, toks, next, conds)
	case "endif":
		if len(conds) == 0 {
			return 0, nil, file.SyntaxError(line[0].Span, "#endif without #if")
		}
		//
		conds = conds[:len(conds)-1]
	case "error":
		return 0, nil, file.SyntaxError(line[0].Span, "#error "+TextOfTokens(line[1:]))
	case "pragma", "line", "warning":
		// Ignored
	default:
		return 0, nil, file.SyntaxError(line[0].Span, "unknown directive #"+line[0].Text)
	}
	//
	return next, conds, nil
}

// Skip tokens of an untaken conditional branch until a branch directive at
// the same nesting level takes over, or the conditional terminates.
func (p *preprocessor) skipBranch(file *source.File, toks []Token, i int,
	conds []condFrame) (int, []condFrame, error) {
	//
	depth := 0
	//
	for !toks[i].IsEOF() {
		t := toks[i]
		//
		if !t.AtBOL || !t.Is("#") {
			i++
			continue
		}
		//
		line := lineTokens(toks, i+1)
		next := endOfLine(toks, i+1)
		//
		if len(line) == 0 {
			i = next
			continue
		}
		//
		switch line[0].Text {
		case "if", "ifdef", "ifndef":
			depth++
		case "endif":
			if depth == 0 {
				return next, conds[:len(conds)-1], nil
			}
			//
			depth--
		case "elif":
			if depth == 0 && !conds[len(conds)-1].taken {
				taken, err := p.evalCondition(file, line)
				if err != nil {
					return 0, nil, err
				}
				//
				if taken {
					conds[len(conds)-1].taken = true
					return next, conds, nil
				}
			}
		case "else":
			if depth == 0 && !conds[len(conds)-1].taken {
				conds[len(conds)-1].taken = true
				return next, conds, nil
			}
		}
		//
		i = next
	}
	//
	return 0, nil, file.SyntaxError(toks[i].Span, "unterminated #if")
}

// Evaluate the controlling condition of an #if, #ifdef or #ifndef line.
func (p *preprocessor) evalCondition(file *source.File, line []Token) (bool, error) {
	switch line[0].Text {
	case "ifdef", "ifndef":
		if len(line) != 2 || !line[1].IsIdent() {
			return false, file.SyntaxError(line[0].Span, "malformed #"+line[0].Text)
		}
		//
		_, defined := p.macros[line[1].Text]
		//
		return defined == (line[0].Text == "ifdef"), nil
	}
	// Replace defined(X) operators before expansion
	replaced, err := p.replaceDefined(file, line[1:])
	if err != nil {
		return false, err
	}
	// Expand any macros mentioned
	expanded, err := p.expandTokens(file, replaced)
	if err != nil {
		return false, err
	}
	//
	if len(expanded) == 0 {
		return false, file.SyntaxError(line[0].Span, "#if with no expression")
	}
	//
	val, cerr := evalConstExpr(file, expanded)
	if cerr != nil {
		return false, cerr
	}
	//
	return val != 0, nil
}

// Replace "defined X" and "defined(X)" with 1 or 0.
func (p *preprocessor) replaceDefined(file *source.File, line []Token) ([]Token, error) {
	var out []Token
	//
	for i := 0; i < len(line); i++ {
		t := line[i]
		//
		if !t.IsIdent() || t.Text != "defined" {
			out = append(out, t)
			continue
		}
		//
		i++
		paren := i < len(line) && line[i].Is("(")
		//
		if paren {
			i++
		}
		//
		if i >= len(line) || !line[i].IsIdent() {
			return nil, file.SyntaxError(t.Span, "operand of defined must be an identifier")
		}
		//
		_, defined := p.macros[line[i].Text]
		value := "0"
		//
		if defined {
			value = "1"
		}
		//
		out = append(out, Token{Kind: TokenNumber, Text: value, Span: t.Span, File: t.File})
		//
		if paren {
			if i+1 >= len(line) || !line[i+1].Is(")") {
				return nil, file.SyntaxError(t.Span, "missing ) after defined")
			}
			//
			i++
		}
	}
	//
	return out, nil
}

// ===================================================================
// #define and #include
// ===================================================================

func (p *preprocessor) define(file *source.File, line []Token) error {
	if len(line) == 0 || !line[0].IsIdent() {
		return file.SyntaxError(SpanOfTokens(line), "macro name must be an identifier")
	}
	//
	name := line[0]
	macro := &Macro{
		Name:    name.Text,
		Kind:    MacroObjectLike,
		DefFile: name.File,
		DefSpan: name.Span,
	}
	//
	body := line[1:]
	// A parameter list requires an immediately adjacent parenthesis.
	if len(body) > 0 && body[0].Is("(") && !body[0].HasSpace {
		var err error
		//
		macro.Kind = MacroFunctionLike
		//
		body, err = p.defineParams(file, macro, body[1:])
		if err != nil {
			return err
		}
	}
	//
	macro.Body = body
	// Record use of stringize / paste operators
	for i, t := range body {
		if t.Is("##") {
			macro.Pastes = true
		} else if t.Is("#") && macro.IsFunctionLike() &&
			i+1 < len(body) && macro.ParamIndex(body[i+1].Text) >= 0 {
			macro.Stringizes = true
		}
	}
	//
	p.macros[macro.Name] = macro
	//
	if p.cfg.Listener != nil {
		p.cfg.Listener.MacroDefined(macro)
	}
	//
	return nil
}

// Parse the parameter list of a function-like macro definition, returning
// the remaining body tokens.
func (p *preprocessor) defineParams(file *source.File, macro *Macro, toks []Token) ([]Token, error) {
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		//
		switch {
		case t.Is(")"):
			return toks[i+1:], nil
		case t.Is(","):
			// skip
		case t.Is("..."):
			macro.Kind = MacroVariadic
			macro.Params = append(macro.Params, "__VA_ARGS__")
		case t.IsIdent():
			macro.Params = append(macro.Params, t.Text)
		default:
			return nil, file.SyntaxError(t.Span, "malformed macro parameter list")
		}
	}
	//
	return nil, file.SyntaxError(SpanOfTokens(toks), "unterminated macro parameter list")
}

func (p *preprocessor) include(file *source.File, line []Token) error {
	if p.depth >= maxIncludeDepth {
		return file.SyntaxError(SpanOfTokens(line), "#include nested too deeply")
	}
	//
	name, quoted, err := includeName(file, line)
	if err != nil {
		return err
	}
	//
	included := p.resolveInclude(file, name, quoted)
	if included == nil {
		// Tolerated so that system headers need not be present; the parser
		// falls back on implicit declarations.
		log.Debugf("skipping unresolved include %q", name)
		return nil
	}
	//
	tokens, terr := Tokenize(included)
	if terr != nil {
		return terr
	}
	//
	p.depth++
	defer func() { p.depth-- }()
	//
	return p.process(included, tokens, false)
}

func includeName(file *source.File, line []Token) (string, bool, error) {
	if len(line) == 0 {
		return "", false, file.SyntaxError(SpanOfTokens(line), "malformed #include")
	}
	//
	if line[0].Kind == TokenString {
		return strings.Trim(line[0].Text, "\""), true, nil
	}
	//
	if line[0].Is("<") {
		var name strings.Builder
		//
		for _, t := range line[1:] {
			if t.Is(">") {
				return name.String(), false, nil
			}
			//
			name.WriteString(t.Text)
		}
	}
	//
	return "", false, file.SyntaxError(SpanOfTokens(line), "malformed #include")
}

func (p *preprocessor) resolveInclude(file *source.File, name string, quoted bool) *source.File {
	var dirs []string
	// Quoted includes search the including file's directory first.
	if quoted {
		dirs = append(dirs, filepath.Dir(file.Filename()))
	}
	//
	dirs = append(dirs, p.cfg.IncludeDirs...)
	//
	for _, dir := range dirs {
		files, err := source.ReadFiles(filepath.Join(dir, name))
		if err == nil {
			return &files[0]
		}
	}
	//
	return nil
}

// ===================================================================
// Macro expansion
// ===================================================================

// Expand a free-standing token sequence (e.g. an #if condition or a macro
// argument) as far as possible.
func (p *preprocessor) expandTokens(file *source.File, toks []Token) ([]Token, error) {
	var out []Token
	//
	for i := 0; i < len(toks); {
		expanded, next, err := p.maybeExpand(file, toks, i)
		if err != nil {
			return nil, err
		}
		//
		if next > i {
			out = append(out, expanded...)
			i = next
		} else {
			out = append(out, toks[i])
			i++
		}
	}
	//
	return out, nil
}

// Attempt to expand a macro invocation at position i.  Returns the expanded
// tokens along with the position following the invocation; when no expansion
// applies the returned position equals i.
func (p *preprocessor) maybeExpand(file *source.File, toks []Token, i int) ([]Token, int, error) {
	t := toks[i]
	//
	if !t.IsIdent() {
		return nil, i, nil
	}
	//
	macro := p.macros[t.Text]
	if macro == nil || t.Hidden(macro.Name) {
		return nil, i, nil
	}
	//
	if !macro.IsFunctionLike() {
		expansion := &Expansion{Macro: macro, Spelling: t.SpellingSpan()}
		//
		expanded, _, err := p.expandInvocation(file, expansion, t)
		//
		return expanded, i + 1, err
	}
	// A function-like macro name not followed by "(" is not an invocation.
	if i+1 >= len(toks) || !toks[i+1].Is("(") {
		return nil, i, nil
	}
	//
	expansion, next, err := p.gatherArguments(file, macro, toks, i)
	if err != nil {
		return nil, 0, err
	}
	//
	expanded, _, err := p.expandInvocation(file, expansion, t)
	//
	return expanded, next, err
}

// Expand a single recognised invocation: announce it, prescan the arguments,
// substitute them into the body and rescan the result.  After the rescan
// completes the invocation (and everything nested in it) is finished.
func (p *preprocessor) expandInvocation(file *source.File, expansion *Expansion,
	trigger Token) ([]Token, int, error) {
	//
	if p.cfg.Listener != nil {
		p.cfg.Listener.ExpansionBegins(expansion)
	}
	// Argument prescan: arguments are fully expanded before substitution.
	for j := range expansion.Args {
		expanded, err := p.expandTokens(file, expansion.Args[j].Raw)
		if err != nil {
			return nil, 0, err
		}
		//
		expansion.Args[j].Expanded = expanded
	}
	//
	body := substitute(expansion, trigger)
	// Rescan for further expansions.
	result, err := p.expandTokens(file, body)
	if err != nil {
		return nil, 0, err
	}
	//
	if p.cfg.Listener != nil {
		p.cfg.Listener.ExpansionEnds(expansion)
	}
	//
	return result, 0, nil
}

// Gather the argument list of a function-like invocation beginning at the
// macro name toks[i].  Returns the populated expansion along with the index
// one past the closing parenthesis.
func (p *preprocessor) gatherArguments(file *source.File, macro *Macro, toks []Token,
	i int) (*Expansion, int, error) {
	//
	expansion := &Expansion{Macro: macro}
	variadic := macro.Kind == MacroVariadic
	//
	var (
		raw   []Token
		depth int
	)
	//
	j := i + 2
	//
	flush := func() {
		index := len(expansion.Args)
		name := ""
		//
		if index < len(macro.Params) {
			name = macro.Params[index]
		}
		//
		expansion.Args = append(expansion.Args, ExpansionArg{
			Index: index,
			Name:  name,
			Raw:   raw,
			Span:  SpanOfTokens(raw),
		})
		raw = nil
	}
	//
	for ; ; j++ {
		// Directive token runs carry no EOF terminator, so guard the index
		// as well.
		if j >= len(toks) || toks[j].IsEOF() {
			return nil, 0, file.SyntaxError(toks[i].SpellingSpan(), "unterminated macro invocation")
		}
		//
		t := toks[j]
		//
		switch {
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++

			raw = append(raw, t)
		case t.Is(")") && depth == 0:
			// Final argument (if any)
			if len(raw) > 0 || len(expansion.Args) > 0 || len(macro.Params) > 0 {
				flush()
			}
			//
			expansion.Spelling = toks[i].SpellingSpan().Union(t.SpellingSpan())
			//
			if len(expansion.Args) != len(macro.Params) && !(variadic && len(expansion.Args) >= len(macro.Params)-1) {
				return nil, 0, file.SyntaxError(expansion.Spelling,
					fmt.Sprintf("macro %s expects %d arguments", macro.Name, len(macro.Params)))
			}
			//
			return expansion, j + 1, nil
		case t.Is(")") || t.Is("]") || t.Is("}"):
			depth--

			raw = append(raw, t)
		case t.Is(",") && depth == 0:
			// Trailing variadic arguments collapse into __VA_ARGS__.
			if variadic && len(expansion.Args) == len(macro.Params)-1 {
				raw = append(raw, t)
			} else {
				flush()
			}
		default:
			raw = append(raw, t)
		}
	}
}

// Substitute arguments into a macro body, applying the stringize and paste
// operators, and attaching expansion provenance and hidesets to body tokens.
func substitute(expansion *Expansion, trigger Token) []Token {
	var (
		out   []Token
		macro = expansion.Macro
		body  = macro.Body
	)
	//
	argFor := func(t Token) *ExpansionArg {
		if !t.IsIdent() {
			return nil
		}
		//
		if k := macro.ParamIndex(t.Text); k >= 0 && k < len(expansion.Args) {
			return &expansion.Args[k]
		}
		//
		return nil
	}
	//
	for i := 0; i < len(body); i++ {
		t := body[i]
		// Stringize operator
		if t.Is("#") && macro.IsFunctionLike() && i+1 < len(body) {
			if arg := argFor(body[i+1]); arg != nil {
				out = append(out, Token{
					Kind:      TokenString,
					Text:      strconv.Quote(TextOfTokens(arg.Raw)),
					Span:      t.Span,
					File:      t.File,
					HasSpace:  t.HasSpace,
					Expansion: expansion,
				})
				i++
				//
				continue
			}
		}
		// Paste operator
		if t.Is("##") && len(out) > 0 && i+1 < len(body) {
			var rhs []Token
			//
			if arg := argFor(body[i+1]); arg != nil {
				rhs = arg.Raw
			} else {
				rhs = body[i+1 : i+2]
			}
			//
			if len(rhs) > 0 {
				merged := out[len(out)-1]
				merged.Text += rhs[0].Text
				merged.Kind = classifyPasted(merged.Text)
				merged.Expansion = expansion
				out[len(out)-1] = merged
				//
				for _, r := range rhs[1:] {
					out = append(out, r)
				}
			}
			//
			i++
			//
			continue
		}
		// Parameter substitution
		if arg := argFor(t); arg != nil {
			for k, at := range arg.Expanded {
				if k == 0 {
					at.HasSpace = t.HasSpace
				}
				//
				at.AtBOL = false
				out = append(out, at)
			}
			//
			continue
		}
		// Ordinary body token
		t = t.WithHideset(macro.Name)
		//
		for n := range trigger.Hideset {
			t.Hideset[n] = true
		}
		//
		t.Expansion = expansion
		t.AtBOL = false
		out = append(out, t)
	}
	//
	return out
}

// Determine the token kind of a paste result.
func classifyPasted(text string) TokenKind {
	if text == "" {
		return TokenPunct
	}
	//
	c := rune(text[0])
	//
	switch {
	case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		return TokenIdent
	case c >= '0' && c <= '9':
		return TokenNumber
	default:
		return TokenPunct
	}
}

// ===================================================================
// Helpers
// ===================================================================

// Tokens remaining on the current line, starting at i.
func lineTokens(toks []Token, i int) []Token {
	return toks[i:endOfLine(toks, i)]
}

// Index of the first token on the next line.
func endOfLine(toks []Token, i int) int {
	for ; !toks[i].IsEOF() && !toks[i].AtBOL; i++ {
	}
	//
	return i
}
