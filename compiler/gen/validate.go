package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Handle accessor methods reserved on every entry case type. A resolved
// transition method may not shadow them.
var reservedMethods = map[string]bool{
	"Data":    true,
	"DataMut": true,
}

// Validate checks the graph against the generated API shape described by
// cfg. It is total and side-effect-free: all violations are collected in
// declaration order and returned joined, so diagnostics are deterministic
// across runs. A nil cfg validates against the defaults.
//
// Checks, in order:
//  1. the machine name and every vertex name is a valid Go identifier
//     (guaranteed by the Builder, re-checked for graphs assembled by other
//     producers);
//  2. every edge endpoint resolves to a declared vertex;
//  3. per vertex, resolved outgoing method names are valid identifiers,
//     unique, and shadow neither the reserved handle accessors nor the
//     entry interface marker method;
//  4. no vertex name collides with an identifier required by the
//     generated API (machine, state and entry type names, state constants,
//     constructors, packages imported by the generated file), and entry
//     case names stay unique after visibility folding.
func Validate(g *Graph, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var errs []error

	if !isIdent(g.Name) {
		errs = append(errs, NewConfigError("Name", g.Name, "machine name must be a valid Go identifier"))
	}

	declared := make(map[string]*Vertex, len(g.Vertices))
	for _, v := range g.Vertices {
		if !isIdent(v.Name) {
			errs = append(errs, NewConfigErrorAt("Vertex", v.Name, v.Pos,
				"vertex name must be a valid Go identifier"))
		}
		if prev, ok := declared[v.Name]; ok {
			errs = append(errs, NewDuplicateVertexError(v.Name, v.Pos,
				fmt.Sprintf("already declared at position %d", prev.Pos)))
			continue
		}
		declared[v.Name] = v
	}

	for _, e := range g.Edges {
		for _, name := range []string{e.From, e.To} {
			if _, ok := declared[name]; !ok {
				errs = append(errs, NewUnknownVertexError(name, e.From, e.To, e.Pos))
			}
		}
	}

	marker := cfg.markerName(g)
	for _, c := range Classify(g, cfg.RenameMethods) {
		seen := make(map[string]bool, len(c.Outgoing))
		for _, tr := range c.Outgoing {
			if seen[tr.Method] {
				errs = append(errs, NewMethodNameCollisionError(c.Vertex.Name, tr.Method, tr.Edge.Pos))
				continue
			}
			seen[tr.Method] = true
			if !isIdent(tr.Method) {
				errs = append(errs, NewConfigErrorAt("Method", tr.Method, tr.Edge.Pos,
					"method name must be a valid Go identifier"))
				continue
			}
			if reservedMethods[tr.Method] {
				errs = append(errs, NewReservedNameCollisionError(tr.Method, c.Vertex.Name, tr.Edge.Pos,
					"transition method shadows a handle payload accessor"))
			}
			if tr.Method == marker {
				errs = append(errs, NewReservedNameCollisionError(tr.Method, c.Vertex.Name, tr.Edge.Pos,
					"transition method shadows the entry interface marker"))
			}
		}
	}

	reservedTypes := map[string]string{
		cfg.machineName(g): "machine type",
		cfg.stateName(g):   "state type",
		cfg.entryName(g):   "entry type",
	}
	// The generated file always imports fmt for the state String method;
	// qualified payloads import their own packages.
	reservedTypes["fmt"] = "imported package"
	for _, v := range g.Vertices {
		reservedTypes[cfg.stateName(g)+v.Name] = "state constant"
		reservedTypes[cfg.ctorName(g, v)] = "constructor"
		if v.Payload != nil && v.Payload.PkgPath != "" {
			reservedTypes[pathBase(v.Payload.PkgPath)] = "imported package"
		}
	}
	folded := make(map[string]*Vertex, len(g.Vertices))
	for _, v := range g.Vertices {
		if what, ok := reservedTypes[cfg.caseName(v)]; ok {
			errs = append(errs, NewReservedNameCollisionError(v.Name, v.Name, v.Pos,
				"vertex name is taken by the generated "+what))
		}
		name := cfg.caseName(v)
		if prev, ok := folded[name]; ok {
			errs = append(errs, NewReservedNameCollisionError(name, v.Name, v.Pos,
				fmt.Sprintf("entry case name coincides with vertex %s after visibility folding", prev.Name)))
			continue
		}
		folded[name] = v
	}

	return errors.Join(errs...)
}

// pathBase returns the trailing element of an import path, the identifier
// the generated file refers to the package by.
func pathBase(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
