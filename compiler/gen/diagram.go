package gen

import (
	"fmt"
	"strings"
)

// DOT renders the graph in graphviz dot syntax. Edges are drawn first,
// then vertices that take part in no edge, so layout follows declaration
// order.
func (g *Graph) DOT() string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", g.Name)
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %s -> %s;\n", e.From, e.To)
	}
	for _, v := range g.edgeless() {
		fmt.Fprintf(&b, "  %s;\n", v.Name)
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid renders the graph as a mermaid flowchart.
func (g *Graph) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph LR\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %s --> %s;\n", e.From, e.To)
	}
	for _, v := range g.edgeless() {
		fmt.Fprintf(&b, "  %s;\n", v.Name)
	}
	return b.String()
}

// edgeless returns the vertices that no edge touches, in declaration order.
func (g *Graph) edgeless() []*Vertex {
	touched := make(map[string]bool, len(g.Vertices))
	for _, e := range g.Edges {
		touched[e.From] = true
		touched[e.To] = true
	}
	var isolated []*Vertex
	for _, v := range g.Vertices {
		if !touched[v.Name] {
			isolated = append(isolated, v)
		}
	}
	return isolated
}
