package parse

import (
	"github.com/aatifsyed/fsmentry/compiler/gen"
)

// DOT parses a Graphviz-flavoured digraph into a graph.
//
// Vertices and edges carry their metadata in attribute lists:
//
//	digraph TrafficLight {
//	    Red;
//	    Green [payload="string", doc="The light is green."];
//	    Stamp [payload="Time", import="time"];
//
//	    Red -> RedAmber -> Green;
//	    Amber -> Red [method="next", label="back to red"];
//	}
//
// Recognized vertex attributes are `payload`, `import` (the package path
// qualifying the payload type) and `doc` or `label` for documentation.
// Recognized edge attributes are `method` and `doc` or `label`; `method`
// is rejected on a chain of more than one edge since it names a single
// transition. Unrecognized attributes are ignored so that diagrams
// decorated for rendering still parse. Semicolons are optional, as in
// Graphviz.
func DOT(src string) (*gen.Graph, error) {
	s := newScanner(src)
	if err := s.keyword("digraph"); err != nil {
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
	for {
		if s.accept('}') {
			break
		}
		if s.eofReached() {
			return nil, s.errf("expected '}', found end of input")
		}
		if err := dotStatement(s, b); err != nil {
			return nil, err
		}
	}
	if !s.eofReached() {
		return nil, s.errf("expected end of input, found %s", describe(s.peek()))
	}
	return b.Graph()
}

func dotStatement(s *scanner, b *gen.Builder) error {
	first, err := s.ident()
	if err != nil {
		return err
	}
	chain := []string{first}
	for {
		s.skip()
		if s.peek() != '-' {
			break
		}
		if err := s.arrowHead(); err != nil {
			return err
		}
		to, err := s.ident()
		if err != nil {
			return err
		}
		chain = append(chain, to)
	}
	attrs, err := dotAttrs(s)
	if err != nil {
		return err
	}
	s.accept(';')
	if len(chain) == 1 {
		return dotVertex(s, b, first, attrs)
	}
	return dotEdges(s, b, chain, attrs)
}

func dotVertex(s *scanner, b *gen.Builder, name string, attrs map[string]string) error {
	if _, ok := attrs["method"]; ok {
		return s.errf("attribute \"method\" is only valid on an edge")
	}
	var opts []gen.VertexOption
	if payload, ok := attrs["payload"]; ok {
		if path, ok := attrs["import"]; ok {
			opts = append(opts, gen.WithQualifiedPayload(path, payload))
		} else {
			opts = append(opts, gen.WithPayload(payload))
		}
	} else if _, ok := attrs["import"]; ok {
		return s.errf("attribute \"import\" requires a \"payload\" attribute")
	}
	if doc := dotDoc(attrs); doc != "" {
		opts = append(opts, gen.WithVertexDoc(doc))
	}
	b.Vertex(name, opts...)
	return nil
}

func dotEdges(s *scanner, b *gen.Builder, chain []string, attrs map[string]string) error {
	method, hasMethod := attrs["method"]
	if hasMethod && len(chain) > 2 {
		return s.errf("attribute \"method\" names a single transition and is not valid on a chain of %d edges", len(chain)-1)
	}
	for _, key := range []string{"payload", "import"} {
		if _, ok := attrs[key]; ok {
			return s.errf("attribute %q is only valid on a vertex", key)
		}
	}
	doc := dotDoc(attrs)
	for i := 0; i+1 < len(chain); i++ {
		var opts []gen.EdgeOption
		if hasMethod {
			opts = append(opts, gen.WithMethod(method))
		}
		if doc != "" {
			opts = append(opts, gen.WithEdgeDoc(doc))
		}
		b.Edge(chain[i], chain[i+1], opts...)
	}
	return nil
}

// dotAttrs parses an optional `[key="value", ...]` list. Commas between
// pairs are optional, as in Graphviz.
func dotAttrs(s *scanner) (map[string]string, error) {
	if !s.accept('[') {
		return nil, nil
	}
	attrs := make(map[string]string)
	for {
		if s.accept(']') {
			return attrs, nil
		}
		key, err := s.ident()
		if err != nil {
			return nil, err
		}
		if err := s.expect('='); err != nil {
			return nil, err
		}
		var value string
		s.skip()
		if s.peek() == '"' {
			value, err = s.stringLit()
		} else {
			value, err = s.ident()
		}
		if err != nil {
			return nil, err
		}
		if _, dup := attrs[key]; dup {
			return nil, s.errf("duplicate attribute %q", key)
		}
		attrs[key] = value
		s.accept(',')
	}
}

func dotDoc(attrs map[string]string) string {
	return mergeDoc(attrs["doc"], attrs["label"])
}
