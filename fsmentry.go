// Package fsmentry generates statically-checked state machine APIs from a
// description of a directed graph.
//
// A machine is described either programmatically through gen.Builder, or
// textually in one of two front ends: a compact DSL or a graphviz-flavoured
// DOT syntax (see the compiler/parse package). The generated code exposes
// the typestate pattern: the current state is inspected through an entry
// value, and only the handle obtained for the current state can advance the
// machine, so illegal transitions fail to compile rather than at runtime.
//
//	src, err := fsmentry.Compile(`
//		machine TrafficLight {
//			Green: string;
//			Red -> RedAmber -> Green -> Amber -> Red;
//		}
//	`, gen.WithPackage("lights"))
//
// This package is a thin façade; the compiler/gen package holds the graph
// model, validation, generation and file output, and the diagram package
// renders graphs to SVG through graphviz.
package fsmentry

import (
	"github.com/aatifsyed/fsmentry/compiler/gen"
	"github.com/aatifsyed/fsmentry/compiler/parse"
)

// Parse reads a textual machine description, dispatching between the DSL
// and DOT front ends on the leading keyword.
func Parse(src string) (*gen.Graph, error) {
	return parse.Parse(src)
}

// ParseDSL reads a machine description in the compact DSL.
func ParseDSL(src string) (*gen.Graph, error) {
	return parse.DSL(src)
}

// ParseDOT reads a machine description in DOT syntax.
func ParseDOT(src string) (*gen.Graph, error) {
	return parse.DOT(src)
}

// Generate renders the machine described by the graph to Go source.
func Generate(g *gen.Graph, opts ...gen.Option) (string, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return "", err
	}
	generator, err := gen.NewGenerator(g, cfg)
	if err != nil {
		return "", err
	}
	return generator.Source()
}

// Compile parses a textual machine description and renders it to Go source.
func Compile(src string, opts ...gen.Option) (string, error) {
	g, err := Parse(src)
	if err != nil {
		return "", err
	}
	return Generate(g, opts...)
}
