package gen

import (
	"errors"
	"fmt"
	"unicode"
)

// The following types and their exported fields are the generator's input
// model. A Graph is usually assembled through a Builder, but the fields are
// exported so that other producers (front ends, tests) may construct graphs
// directly; Validate re-checks invariants the Builder normally guarantees.
type (
	// Graph is an immutable directed graph of vertices and edges.
	// Declaration order is preserved in both slices; it determines the
	// order of emitted code and of reported diagnostics.
	Graph struct {
		// Name of the machine. Used as the generated machine type name.
		Name string
		// Doc is attached to the emitted machine type.
		Doc string
		// Vertices in declaration order.
		Vertices []*Vertex
		// Edges in declaration order.
		Edges []*Edge
	}

	// Vertex is a named state, optionally carrying a typed payload.
	Vertex struct {
		// Name is the unique vertex identifier.
		Name string
		// Payload is the type stored while the machine is in this state.
		// Nil means the state carries no data.
		Payload *PayloadInfo
		// Doc is attached to the emitted declarations for this vertex.
		Doc string
		// Pos is the declaration position, starting at 0.
		Pos int
	}

	// PayloadInfo describes an opaque Go type expression.
	PayloadInfo struct {
		// Ident is the type expression as written, e.g. "string" or "UUID".
		Ident string
		// PkgPath qualifies Ident with an import path when non-empty.
		PkgPath string
	}

	// Edge is a directed transition between two vertices, referenced by
	// name. The relation is weak: endpoints are resolved during validation.
	Edge struct {
		// From and To are vertex names.
		From, To string
		// Method overrides the derived transition method name when non-empty.
		Method string
		// Doc is attached to the emitted transition method.
		Doc string
		// Pos is the declaration position, starting at 0.
		Pos int
	}
)

// String returns the payload type expression as written in source.
func (p *PayloadInfo) String() string {
	if p.PkgPath != "" {
		return p.PkgPath + "." + p.Ident
	}
	return p.Ident
}

func (p *PayloadInfo) equal(other *PayloadInfo) bool {
	if p == nil || other == nil {
		return p == nil && other == nil
	}
	return p.Ident == other.Ident && p.PkgPath == other.PkgPath
}

// VertexByName returns the vertex with the given name, or nil.
func (g *Graph) VertexByName(name string) *Vertex {
	for _, v := range g.Vertices {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Outgoing returns the edges leaving the named vertex, in declaration order.
func (g *Graph) Outgoing(name string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.From == name {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering the named vertex, in declaration order.
func (g *Graph) Incoming(name string) []*Edge {
	var in []*Edge
	for _, e := range g.Edges {
		if e.To == name {
			in = append(in, e)
		}
	}
	return in
}

// VertexOption configures a vertex declaration.
type VertexOption func(*Vertex)

// WithPayload declares the payload type stored at the vertex.
// The expression is emitted verbatim, e.g. "string" or "[]byte".
func WithPayload(ident string) VertexOption {
	return func(v *Vertex) {
		v.Payload = &PayloadInfo{Ident: ident}
	}
}

// WithQualifiedPayload declares a payload type imported from pkgPath,
// e.g. WithQualifiedPayload("time", "Time").
func WithQualifiedPayload(pkgPath, ident string) VertexOption {
	return func(v *Vertex) {
		v.Payload = &PayloadInfo{Ident: ident, PkgPath: pkgPath}
	}
}

// WithVertexDoc attaches documentation to the vertex.
func WithVertexDoc(doc string) VertexOption {
	return func(v *Vertex) {
		v.Doc = doc
	}
}

// EdgeOption configures an edge declaration.
type EdgeOption func(*Edge)

// WithMethod overrides the derived transition method name.
func WithMethod(name string) EdgeOption {
	return func(e *Edge) {
		e.Method = name
	}
}

// WithEdgeDoc attaches documentation to the edge.
func WithEdgeDoc(doc string) EdgeOption {
	return func(e *Edge) {
		e.Doc = doc
	}
}

// Builder assembles a Graph from vertex and edge declarations, in any
// order. It is append-only: declarations cannot be removed or mutated once
// made. Errors are accumulated and reported by Graph.
type Builder struct {
	name     string
	doc      string
	vertices []*Vertex
	index    map[string]*Vertex
	implicit map[string]bool
	edges    []*Edge
	errs     []error
}

// NewBuilder creates a Builder for a machine with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:     name,
		index:    make(map[string]*Vertex),
		implicit: make(map[string]bool),
	}
}

// Doc attaches documentation to the machine itself.
func (b *Builder) Doc(doc string) *Builder {
	b.doc = mergeDocs(b.doc, doc)
	return b
}

// Vertex declares a vertex. Redeclaring a vertex with a different payload
// (including payload versus none) is an error; redeclaring it identically
// merges documentation. A vertex created implicitly by an earlier edge may
// be upgraded by an explicit declaration.
func (b *Builder) Vertex(name string, opts ...VertexOption) *Builder {
	decl := &Vertex{Name: name, Pos: len(b.vertices)}
	for _, opt := range opts {
		opt(decl)
	}
	existing, ok := b.index[name]
	if !ok {
		b.vertices = append(b.vertices, decl)
		b.index[name] = decl
		return b
	}
	if b.implicit[name] {
		// Upgrade the bare vertex created by an edge endpoint.
		existing.Payload = decl.Payload
		existing.Doc = decl.Doc
		b.implicit[name] = false
		return b
	}
	if !existing.Payload.equal(decl.Payload) {
		b.errs = append(b.errs, NewDuplicateVertexError(name, decl.Pos,
			fmt.Sprintf("payload %s conflicts with earlier declaration %s", describePayload(decl.Payload), describePayload(existing.Payload))))
		return b
	}
	existing.Doc = mergeDocs(existing.Doc, decl.Doc)
	return b
}

// Edge declares a transition from one vertex to another. Endpoints that
// were not declared yet are created implicitly as bare vertices. Parallel
// edges between the same pair are permitted as long as their resolved
// method names differ, which the Validator checks.
func (b *Builder) Edge(from, to string, opts ...EdgeOption) *Builder {
	b.mention(from)
	b.mention(to)
	e := &Edge{From: from, To: to, Pos: len(b.edges)}
	for _, opt := range opts {
		opt(e)
	}
	b.edges = append(b.edges, e)
	return b
}

// Path declares a chain of edges visiting each named vertex in turn.
func (b *Builder) Path(names ...string) *Builder {
	for i := 0; i+1 < len(names); i++ {
		b.Edge(names[i], names[i+1])
	}
	return b
}

func (b *Builder) mention(name string) {
	if _, ok := b.index[name]; ok {
		return
	}
	v := &Vertex{Name: name, Pos: len(b.vertices)}
	b.vertices = append(b.vertices, v)
	b.index[name] = v
	b.implicit[name] = true
}

// Graph returns the built graph, or the accumulated declaration errors.
func (b *Builder) Graph() (*Graph, error) {
	errs := b.errs
	if !isIdent(b.name) {
		errs = append([]error{NewConfigError("Name", b.name, "machine name must be a valid Go identifier")}, errs...)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Graph{Name: b.name, Doc: b.doc, Vertices: b.vertices, Edges: b.edges}, nil
}

func describePayload(p *PayloadInfo) string {
	if p == nil {
		return "(none)"
	}
	return p.String()
}

func mergeDocs(dst, src string) string {
	switch {
	case dst == "":
		return src
	case src == "":
		return dst
	default:
		return dst + "\n\n" + src
	}
}

// isIdent reports whether s is a valid Go identifier.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
