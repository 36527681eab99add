package gen

import (
	"github.com/go-openapi/inflect"
)

// Role is the structural classification of a vertex by in/out-degree.
// It is derived from the graph, never stored.
type Role int

const (
	// RoleIsolated has no in- or out-edges.
	RoleIsolated Role = iota
	// RoleSource has out-edges only.
	RoleSource
	// RoleSink has in-edges only.
	RoleSink
	// RoleThrough has both in- and out-edges.
	RoleThrough
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleIsolated:
		return "isolated"
	case RoleSource:
		return "source"
	case RoleSink:
		return "sink"
	case RoleThrough:
		return "through"
	default:
		return "unknown"
	}
}

// Terminal reports whether a vertex with this role admits no further
// transitions. Terminal vertices generate entry cases without handles.
func (r Role) Terminal() bool {
	return r == RoleIsolated || r == RoleSink
}

// Transition pairs an outgoing edge with its resolved method name and
// target vertex. It is the sole per-edge input the generator needs.
type Transition struct {
	Edge   *Edge
	Target *Vertex
	Method string
}

// Classification describes one vertex: its role and its ordered outgoing
// transitions with resolved method names.
type Classification struct {
	Vertex   *Vertex
	Role     Role
	Incoming []*Edge
	Outgoing []Transition
}

// Classify computes the classification of every vertex, in declaration
// order. Method names are resolved once per vertex over the full ordered
// outgoing-edge list so that diagnostics are identical across runs. Edges
// with unresolvable endpoints are skipped; Validate reports them.
func Classify(g *Graph, renameMethods bool) []Classification {
	classes := make([]Classification, 0, len(g.Vertices))
	for _, v := range g.Vertices {
		c := Classification{Vertex: v, Incoming: g.Incoming(v.Name)}
		for _, e := range g.Outgoing(v.Name) {
			target := g.VertexByName(e.To)
			if target == nil {
				continue
			}
			c.Outgoing = append(c.Outgoing, Transition{
				Edge:   e,
				Target: target,
				Method: MethodName(e, renameMethods),
			})
		}
		switch in, out := len(c.Incoming) > 0, len(c.Outgoing) > 0; {
		case !in && !out:
			c.Role = RoleIsolated
		case !in:
			c.Role = RoleSource
		case !out:
			c.Role = RoleSink
		default:
			c.Role = RoleThrough
		}
		classes = append(classes, c)
	}
	return classes
}

// MethodName resolves the transition method name for an edge: the explicit
// override if present, otherwise the target vertex identifier, case-folded
// to an exported Go name unless renaming is disabled.
func MethodName(e *Edge, renameMethods bool) string {
	if e.Method != "" {
		return e.Method
	}
	if renameMethods {
		return exportedName(e.To)
	}
	return e.To
}

// exportedName normalizes an identifier to exported CamelCase, so that
// e.g. "red_amber", "redAmber" and "RedAmber" all derive the same method.
func exportedName(name string) string {
	return inflect.Camelize(inflect.Underscore(name))
}
