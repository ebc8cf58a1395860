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
package sexp

import (
	"strings"
	"unicode"

	"github.com/shimada-toy-box/kotlin/pkg/util/source"
)

// Parse a given string into exactly one S-expression, or return an error if
// the string is malformed.  A source map is also returned for error reporting.
func Parse(s *source.File) (SExp, *source.Map[SExp], *source.SyntaxError) {
	p := NewParser(s)
	//
	term, err := p.Parse()
	if err != nil {
		return nil, nil, err
	} else if p.skipLayout(); p.index != len(p.text) {
		return nil, nil, p.error("unexpected remainder")
	}
	//
	return term, p.SourceMap(), nil
}

// ParseAll converts a given string into zero or more S-expressions, or returns
// an error if the string is malformed.  The parser is returned as well, since
// it holds both the source map and the comments encountered.
func ParseAll(s *source.File) ([]SExp, *Parser, *source.SyntaxError) {
	var (
		p     = NewParser(s)
		terms []SExp
	)
	//
	for {
		term, err := p.Parse()
		if err != nil {
			return terms, p, err
		} else if term == nil {
			return terms, p, nil
		}
		//
		terms = append(terms, term)
	}
}

// Parser reads S-expressions from a source file one term at a time.
type Parser struct {
	srcfile *source.File
	text    []rune
	// Current position within text
	index  int
	srcmap *source.Map[SExp]
	// Line comments encountered so far, in order.
	comments []Comment
}

// NewParser constructs a parser positioned at the start of a given file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{
		srcfile: srcfile,
		text:    srcfile.Contents(),
		srcmap:  source.NewMap[SExp](srcfile),
	}
}

// SourceMap returns the span of every term parsed so far.
func (p *Parser) SourceMap() *source.Map[SExp] {
	return p.srcmap
}

// Comments returns the line comments skipped so far, in order of appearance.
func (p *Parser) Comments() []Comment {
	return p.comments
}

// Parse the next term, returning nil at the end of the file.
func (p *Parser) Parse() (SExp, *source.SyntaxError) {
	var (
		term SExp
		err  *source.SyntaxError
	)
	//
	p.skipLayout()
	//
	start := p.index
	//
	switch p.peek() {
	case 0:
		return nil, nil
	case ')':
		return nil, p.error("unexpected end-of-list")
	case '(':
		p.index++
		//
		if term, err = p.parseList(); err != nil {
			return nil, err
		}
	default:
		term = &Symbol{p.parseSymbol()}
	}
	//
	p.srcmap.Put(term, source.NewSpan(start, p.index))
	//
	return term, nil
}

// Parse the elements of a list whose opening bracket was consumed already.
func (p *Parser) parseList() (*List, *source.SyntaxError) {
	var elements []SExp
	//
	for p.skipLayout(); p.peek() != ')'; p.skipLayout() {
		if p.peek() == 0 {
			return nil, p.error("unexpected end-of-file")
		}
		//
		element, err := p.Parse()
		if err != nil {
			return nil, err
		}
		//
		elements = append(elements, element)
	}
	// Consume terminator
	p.index++
	//
	return &List{elements}, nil
}

func (p *Parser) parseSymbol() string {
	start := p.index
	//
	for p.index < len(p.text) && !isDelimiter(p.text[p.index]) {
		p.index++
	}
	//
	return string(p.text[start:p.index])
}

// Skip whitespace and comments.
func (p *Parser) skipLayout() {
	for p.index < len(p.text) {
		switch c := p.text[p.index]; {
		case c == ';':
			p.skipComment()
		case unicode.IsSpace(c):
			p.index++
		default:
			return
		}
	}
}

// Skip a line comment, recording its text.  A comment is only recorded once,
// even when layout is skipped more than once from the same position.
func (p *Parser) skipComment() {
	var (
		start = p.index
		end   = findEndOfLine(start, p.text)
	)
	//
	if n := len(p.comments); n == 0 || p.comments[n-1].Start < start {
		text := strings.TrimLeft(string(p.text[start:end]), ";")
		p.comments = append(p.comments, Comment{strings.TrimSpace(text), start})
	}
	//
	p.index = min(end+1, len(p.text))
}

// Return the current character, or 0 at the end of the file.
func (p *Parser) peek() rune {
	if p.index < len(p.text) {
		return p.text[p.index]
	}
	//
	return 0
}

// Construct a parser error at the current position in the input stream.
func (p *Parser) error(msg string) *source.SyntaxError {
	end := min(p.index+1, len(p.text))
	return p.srcfile.SyntaxError(source.NewSpan(min(p.index, end), end), msg)
}

func isDelimiter(c rune) bool {
	return c == '(' || c == ')' || c == ';' || unicode.IsSpace(c)
}

func findEndOfLine(index int, text []rune) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}
	//
	return len(text)
}
