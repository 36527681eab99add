// Package parse provides the textual front ends for fsmentry graphs: a
// compact statement syntax (DSL) and a DOT-like syntax (DOT). Both are
// thin producers that drive the gen.Builder in declaration order; the
// generation core assumes nothing about either grammar.
package parse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseError reports a syntax error with its source position.
type ParseError struct {
	Line    int
	Col     int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("fsmentry: parse error at %d:%d: %s", e.Line, e.Col, e.Message)
}

const eof = rune(-1)

// scanner is a shared cursor over source text. It tracks line/column for
// diagnostics and collects `///` documentation comments for the parser.
type scanner struct {
	src  string
	pos  int
	line int
	col  int
	docs []string
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) errf(format string, args ...any) *ParseError {
	return &ParseError{Line: s.line, Col: s.col, Message: fmt.Sprintf(format, args...)}
}

func (s *scanner) peek() rune {
	if s.pos >= len(s.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r
}

func (s *scanner) next() rune {
	if s.pos >= len(s.src) {
		return eof
	}
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

// skip consumes whitespace and comments. `///` comments are collected as
// pending documentation; `//` and `#` comments are discarded.
func (s *scanner) skip() {
	for {
		switch r := s.peek(); {
		case r == eof:
			return
		case unicode.IsSpace(r):
			s.next()
		case r == '#':
			s.skipLine()
		case r == '/' && strings.HasPrefix(s.src[s.pos:], "///"):
			s.next()
			s.next()
			s.next()
			s.docs = append(s.docs, strings.TrimSpace(s.restOfLine()))
		case r == '/' && strings.HasPrefix(s.src[s.pos:], "//"):
			s.skipLine()
		default:
			return
		}
	}
}

// restOfLine consumes the rest of the current line and returns it.
func (s *scanner) restOfLine() string {
	var b strings.Builder
	for {
		r := s.peek()
		if r == eof || r == '\n' {
			return b.String()
		}
		b.WriteRune(s.next())
	}
}

func (s *scanner) skipLine() {
	s.restOfLine()
}

// takeDocs returns and clears the pending documentation comments.
func (s *scanner) takeDocs() string {
	if len(s.docs) == 0 {
		return ""
	}
	doc := strings.Join(s.docs, "\n")
	s.docs = s.docs[:0]
	return doc
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// ident scans an identifier after skipping leading trivia.
func (s *scanner) ident() (string, error) {
	s.skip()
	if !isIdentStart(s.peek()) {
		return "", s.errf("expected identifier, found %s", describe(s.peek()))
	}
	var b strings.Builder
	for isIdentRune(s.peek()) {
		b.WriteRune(s.next())
	}
	return b.String(), nil
}

// keyword consumes the given identifier.
func (s *scanner) keyword(want string) error {
	got, err := s.ident()
	if err != nil {
		return err
	}
	if got != want {
		return s.errf("expected %q, found %q", want, got)
	}
	return nil
}

// expect consumes the given rune after skipping leading trivia.
func (s *scanner) expect(want rune) error {
	s.skip()
	if s.peek() != want {
		return s.errf("expected %q, found %s", want, describe(s.peek()))
	}
	s.next()
	return nil
}

// accept consumes the given rune if it is next, after leading trivia.
func (s *scanner) accept(want rune) bool {
	s.skip()
	if s.peek() != want {
		return false
	}
	s.next()
	return true
}

// stringLit scans a double-quoted string. Only the `\"` and `\\` escapes
// are recognized.
func (s *scanner) stringLit() (string, error) {
	s.skip()
	if s.peek() != '"' {
		return "", s.errf("expected string literal, found %s", describe(s.peek()))
	}
	s.next()
	var b strings.Builder
	for {
		switch r := s.next(); r {
		case eof, '\n':
			return "", s.errf("unterminated string literal")
		case '\\':
			switch esc := s.next(); esc {
			case '"', '\\':
				b.WriteRune(esc)
			default:
				return "", s.errf("unsupported escape %q", string(esc))
			}
		case '"':
			return b.String(), nil
		default:
			b.WriteRune(r)
		}
	}
}

// rawUntil consumes text up to (not including) the stop rune and returns
// it trimmed. Used for opaque type expressions.
func (s *scanner) rawUntil(stop rune) (string, error) {
	var b strings.Builder
	for {
		r := s.peek()
		if r == eof {
			return "", s.errf("expected %q, found end of input", stop)
		}
		if r == stop {
			return strings.TrimSpace(b.String()), nil
		}
		b.WriteRune(s.next())
	}
}

func (s *scanner) eofReached() bool {
	s.skip()
	return s.peek() == eof
}

func describe(r rune) string {
	if r == eof {
		return "end of input"
	}
	return fmt.Sprintf("%q", string(r))
}
