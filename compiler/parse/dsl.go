package parse

import (
	"strings"

	"github.com/aatifsyed/fsmentry/compiler/gen"
)

// DSL parses the compact fsmentry syntax into a graph.
//
// The grammar is a machine block containing vertex and edge statements:
//
//	/// Documentation for the machine.
//	machine TrafficLight {
//	    /// Documentation for a vertex.
//	    Red;                  // a vertex without a payload
//	    Green: string;        // a vertex with a payload type
//	    Stamp: "time".Time;   // a payload type from another package
//
//	    Red -> RedAmber -> Green;    // a chain of transitions
//	    Green -"with a doc"-> Amber; // an edge with documentation
//	    Amber -next-> Red;           // an edge with an explicit method name
//	}
//
// `///` comments attach to the following statement; `//` and `#` comments
// are discarded. Documentation on an edge statement is shared by every
// edge in the chain.
func DSL(src string) (*gen.Graph, error) {
	s := newScanner(src)
	s.skip()
	machineDoc := s.takeDocs()
	if err := s.keyword("machine"); err != nil {
		return nil, err
	}
	name, err := s.ident()
	if err != nil {
		return nil, err
	}
	if err := s.expect('{'); err != nil {
		return nil, err
	}
	b := gen.NewBuilder(name)
	if machineDoc != "" {
		b.Doc(machineDoc)
	}
	for {
		if s.accept('}') {
			break
		}
		if s.eofReached() {
			return nil, s.errf("expected '}', found end of input")
		}
		if err := dslStatement(s, b); err != nil {
			return nil, err
		}
	}
	if !s.eofReached() {
		return nil, s.errf("expected end of input, found %s", describe(s.peek()))
	}
	return b.Graph()
}

func dslStatement(s *scanner, b *gen.Builder) error {
	doc := s.takeDocs()
	first, err := s.ident()
	if err != nil {
		return err
	}
	s.skip()
	switch s.peek() {
	case ';':
		s.next()
		var opts []gen.VertexOption
		if doc != "" {
			opts = append(opts, gen.WithVertexDoc(doc))
		}
		b.Vertex(first, opts...)
		return nil
	case ':':
		s.next()
		expr, err := s.rawUntil(';')
		if err != nil {
			return err
		}
		s.next()
		opt, perr := payloadOption(s, expr)
		if perr != nil {
			return perr
		}
		opts := []gen.VertexOption{opt}
		if doc != "" {
			opts = append(opts, gen.WithVertexDoc(doc))
		}
		b.Vertex(first, opts...)
		return nil
	case '-':
		return dslChain(s, b, first, doc)
	default:
		return s.errf("expected ':', ';' or '->', found %s", describe(s.peek()))
	}
}

// dslChain parses the arrows and targets of an edge statement, emitting
// one edge per hop.
func dslChain(s *scanner, b *gen.Builder, from, doc string) error {
	for {
		a, err := s.arrow()
		if err != nil {
			return err
		}
		to, err := s.ident()
		if err != nil {
			return err
		}
		var opts []gen.EdgeOption
		if a.method != "" {
			opts = append(opts, gen.WithMethod(a.method))
		}
		if d := mergeDoc(doc, a.doc); d != "" {
			opts = append(opts, gen.WithEdgeDoc(d))
		}
		b.Edge(from, to, opts...)
		from = to
		if s.accept(';') {
			return nil
		}
		s.skip()
		if s.peek() != '-' {
			return s.errf("expected ';' or an arrow, found %s", describe(s.peek()))
		}
	}
}

type arrow struct {
	doc    string
	method string
}

// arrow scans one of the edge forms `->`, `-->`, `-"doc"->` or `-name->`.
func (s *scanner) arrow() (arrow, error) {
	s.skip()
	if s.peek() != '-' {
		return arrow{}, s.errf("expected an arrow, found %s", describe(s.peek()))
	}
	for s.peek() == '-' {
		s.next()
	}
	switch r := s.peek(); {
	case r == '>':
		s.next()
		return arrow{}, nil
	case r == '"':
		doc, err := s.stringLit()
		if err != nil {
			return arrow{}, err
		}
		if err := s.arrowHead(); err != nil {
			return arrow{}, err
		}
		return arrow{doc: doc}, nil
	case isIdentStart(r):
		method, err := s.ident()
		if err != nil {
			return arrow{}, err
		}
		if err := s.arrowHead(); err != nil {
			return arrow{}, err
		}
		return arrow{method: method}, nil
	default:
		return arrow{}, s.errf("expected '>', a string or an identifier, found %s", describe(s.peek()))
	}
}

func (s *scanner) arrowHead() error {
	s.skip()
	if s.peek() != '-' {
		return s.errf("expected '->', found %s", describe(s.peek()))
	}
	for s.peek() == '-' {
		s.next()
	}
	if s.peek() != '>' {
		return s.errf("expected '>', found %s", describe(s.peek()))
	}
	s.next()
	return nil
}

// payloadOption interprets a type expression. A leading quoted import
// path qualifies the identifier after the dot, e.g. `"time".Time`;
// anything else is taken verbatim as a type in the generated package.
func payloadOption(s *scanner, expr string) (gen.VertexOption, *ParseError) {
	if expr == "" {
		return nil, s.errf("expected a type expression")
	}
	if !strings.HasPrefix(expr, `"`) {
		return gen.WithPayload(expr), nil
	}
	end := strings.Index(expr[1:], `"`)
	if end < 0 {
		return nil, s.errf("unterminated import path in type expression %q", expr)
	}
	path := expr[1 : 1+end]
	rest := expr[2+end:]
	if !strings.HasPrefix(rest, ".") || len(rest) < 2 {
		return nil, s.errf("expected %q.Ident, found %q", path, expr)
	}
	return gen.WithQualifiedPayload(path, rest[1:]), nil
}

func mergeDoc(stmt, inline string) string {
	switch {
	case stmt == "":
		return inline
	case inline == "":
		return stmt
	default:
		return stmt + "\n" + inline
	}
}
