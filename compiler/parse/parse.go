package parse

import "github.com/aatifsyed/fsmentry/compiler/gen"

// Parse dispatches on the leading keyword: sources opening with
// `digraph` are parsed as DOT, anything else as the DSL.
func Parse(src string) (*gen.Graph, error) {
	s := newScanner(src)
	if word, err := s.ident(); err == nil && word == "digraph" {
		return DOT(src)
	}
	return DSL(src)
}
