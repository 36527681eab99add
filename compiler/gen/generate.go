package gen

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"
)

// Generator emits the statically-checked API for one state machine: the
// state representation, the entry dispatch type, and one handle type per
// active vertex. Generation is a pure function of the validated graph and
// the configuration; a Generator holds no other state and may be used
// concurrently for independent graphs.
type Generator struct {
	graph   *Graph
	cfg     *Config
	classes []Classification
}

// NewGenerator validates the graph against the configuration and prepares
// a generator. A nil cfg uses the defaults.
func NewGenerator(g *Graph, cfg *Config) (*Generator, error) {
	if g == nil {
		return nil, NewConfigError("Graph", nil, "graph cannot be nil")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	machine, state, entry := cfg.machineName(g), cfg.stateName(g), cfg.entryName(g)
	switch {
	case state == machine:
		return nil, NewConfigError("StateName", state, "state type name is taken by the machine type")
	case entry == machine:
		return nil, NewConfigError("EntryName", entry, "entry type name is taken by the machine type")
	case entry == state:
		return nil, NewConfigError("EntryName", entry, "entry type name is taken by the state type")
	}
	if err := Validate(g, cfg); err != nil {
		return nil, err
	}
	return &Generator{graph: g, cfg: cfg, classes: Classify(g, cfg.RenameMethods)}, nil
}

// Graph returns the input graph.
func (gen *Generator) Graph() *Graph { return gen.graph }

// Config returns the generation configuration.
func (gen *Generator) Config() *Config { return gen.cfg }

// File emits the machine as an in-memory syntax tree.
func (gen *Generator) File() *jen.File {
	f := jen.NewFile(gen.cfg.Package)
	if gen.cfg.Header != "" {
		f.HeaderComment(gen.cfg.Header)
	}
	gen.stateType(f)
	gen.machineType(f)
	gen.entryType(f)
	for _, c := range gen.classes {
		gen.caseType(f, c)
	}
	return f
}

// Source renders the emitted file to Go source text.
func (gen *Generator) Source() (string, error) {
	var buf bytes.Buffer
	if err := gen.File().Render(&buf); err != nil {
		return "", fmt.Errorf("fsmentry: render %s: %w", gen.graph.Name, err)
	}
	return buf.String(), nil
}

// stateType emits the state tag type, one constant per vertex, and a
// String method for diagnostics.
func (gen *Generator) stateType(f *jen.File) {
	state := gen.cfg.stateName(gen.graph)
	f.Commentf("%s identifies a state of %s.", state, gen.cfg.machineName(gen.graph))
	f.Type().Id(state).Uint8()

	f.Const().DefsFunc(func(g *jen.Group) {
		for i, c := range gen.classes {
			if c.Vertex.Doc != "" {
				commentLines(g, c.Vertex.Doc)
			}
			if i == 0 {
				g.Id(gen.constName(c.Vertex)).Id(state).Op("=").Iota()
			} else {
				g.Id(gen.constName(c.Vertex))
			}
		}
	})

	f.Comment("String returns the vertex name of the state.")
	f.Func().Params(jen.Id("s").Id(state)).Id("String").Params().String().Block(
		jen.Switch(jen.Id("s")).BlockFunc(func(g *jen.Group) {
			for _, c := range gen.classes {
				g.Case(jen.Id(gen.constName(c.Vertex))).Block(jen.Return(jen.Lit(c.Vertex.Name)))
			}
		}),
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(state+"(%d)"), jen.Uint8().Parens(jen.Id("s")))),
	)
}

// machineType emits the state storage struct, per-vertex constructors, and
// the State and Entry accessors.
func (gen *Generator) machineType(f *jen.File) {
	machine := gen.cfg.machineName(gen.graph)
	state := gen.cfg.stateName(gen.graph)
	entry := gen.cfg.entryName(gen.graph)

	if gen.graph.Doc != "" {
		commentLines(f, gen.graph.Doc)
	} else {
		f.Commentf("%s is a state machine over %d states.", machine, len(gen.graph.Vertices))
	}
	f.Commentf("The current state is inspected with %s and advanced through", entry)
	f.Comment("the handle types it yields; no other mutation is possible.")
	if gen.cfg.Diagram {
		f.Comment("")
		f.Comment("Diagram:")
		f.Comment("")
		commentLines(f, indent(gen.graph.Mermaid(), "\t"))
	}
	for _, a := range gen.cfg.Annotations {
		f.Comment(a)
	}
	f.Type().Id(machine).StructFunc(func(g *jen.Group) {
		g.Id("state").Id(state)
		for _, c := range gen.classes {
			if c.Vertex.Payload != nil {
				g.Id(gen.slotName(c.Vertex)).Add(payloadCode(c.Vertex.Payload))
			}
		}
	})

	for _, c := range gen.classes {
		v := c.Vertex
		ctor := gen.cfg.ctorName(gen.graph, v)
		f.Commentf("%s constructs %s starting at %s.", ctor, machine, v.Name)
		fn := f.Func().Id(ctor)
		if v.Payload != nil {
			fn.Params(jen.Id("data").Add(payloadCode(v.Payload)))
		} else {
			fn.Params()
		}
		values := jen.Dict{jen.Id("state"): jen.Id(gen.constName(v))}
		if v.Payload != nil {
			values[jen.Id(gen.slotName(v))] = jen.Id("data")
		}
		fn.Op("*").Id(machine).Block(
			jen.Return(jen.Op("&").Id(machine).Values(values)),
		)
	}

	f.Comment("State returns the tag of the current state.")
	f.Func().Params(jen.Id("m").Op("*").Id(machine)).Id("State").Params().Id(state).Block(
		jen.Return(jen.Id("m").Dot("state")),
	)

	f.Commentf("Entry returns the dispatch value describing what is reachable from the")
	f.Comment("current state. Inspection does not mutate the machine: calling Entry twice")
	f.Comment("without an intervening transition yields equivalent values.")
	f.Func().Params(jen.Id("m").Op("*").Id(machine)).Id("Entry").Params().Id(entry).Block(
		jen.Switch(jen.Id("m").Dot("state")).BlockFunc(func(g *jen.Group) {
			for _, c := range gen.classes {
				g.Case(jen.Id(gen.constName(c.Vertex))).Block(
					jen.Return(gen.entryValue(c)),
				)
			}
			g.Default().Block(
				jen.Panic(jen.Lit(fmt.Sprintf("fsmentry: invalid %s tag", state))),
			)
		}),
	)
}

// entryValue builds the entry case value for the current machine "m".
func (gen *Generator) entryValue(c Classification) jen.Code {
	name := gen.cfg.caseName(c.Vertex)
	switch {
	case c.Role.Terminal() && c.Vertex.Payload == nil:
		return jen.Id(name).Values()
	case c.Role.Terminal():
		return jen.Id(name).Values(jen.Dict{
			jen.Id("Data"): jen.Op("&").Id("m").Dot(gen.slotName(c.Vertex)),
		})
	default:
		return jen.Id(name).Values(jen.Id("m"))
	}
}

// entryType emits the sealed entry interface.
func (gen *Generator) entryType(f *jen.File) {
	machine := gen.cfg.machineName(gen.graph)
	entry := gen.cfg.entryName(gen.graph)
	f.Commentf("%s describes what is currently reachable from the state of %s.", entry, machine)
	f.Comment("Terminal states appear as plain values; states with outgoing transitions")
	f.Comment("appear as handles whose methods are the only legal way to advance the machine.")
	for _, a := range gen.cfg.Annotations {
		f.Comment(a)
	}
	f.Type().Id(entry).Interface(
		jen.Id(gen.markerName()).Params(),
	)
}

// caseType emits the entry case for one vertex: a unit or payload value
// for terminal vertices, a handle with accessors and transition methods
// otherwise.
func (gen *Generator) caseType(f *jen.File, c Classification) {
	v := c.Vertex
	machine := gen.cfg.machineName(gen.graph)
	name := gen.cfg.caseName(v)

	if v.Doc != "" {
		commentLines(f, v.Doc)
		f.Comment("")
	}
	f.Commentf("%s is the entry case for the %s state of %s.", name, v.Name, machine)
	gen.reachabilityDocs(f, c)
	switch {
	case c.Role.Terminal() && v.Payload == nil:
		f.Comment("")
		f.Commentf("%s is terminal: no transition leaves it.", v.Name)
		f.Type().Id(name).Struct()
	case c.Role.Terminal():
		f.Comment("")
		f.Commentf("%s is terminal: no transition leaves it. Data points at the payload", v.Name)
		f.Comment("stored in the machine and remains valid until the machine is discarded.")
		f.Type().Id(name).Struct(
			jen.Id("Data").Op("*").Add(payloadCode(v.Payload)),
		)
	default:
		if gen.cfg.SafetyMode == SafetyTrusted {
			f.Comment("")
			f.Commentf("%s must only be obtained through the Entry accessor while the machine", name)
			f.Commentf("is in the %s state; fabricating one corrupts the machine.", v.Name)
		}
		f.Type().Id(name).Struct(
			jen.Id("m").Op("*").Id(machine),
		)
	}

	f.Func().Params(jen.Id(name)).Id(gen.markerName()).Params().Block()

	if c.Role.Terminal() {
		return
	}
	if v.Payload != nil {
		gen.accessors(f, c)
	}
	for _, tr := range c.Outgoing {
		gen.transition(f, c, tr)
	}
}

// accessors emits the payload accessors of an active handle.
func (gen *Generator) accessors(f *jen.File, c Classification) {
	v := c.Vertex
	name := gen.cfg.caseName(v)
	slot := gen.slotName(v)

	f.Commentf("Data returns the payload stored at %s.", v.Name)
	f.Func().Params(jen.Id("h").Id(name)).Id("Data").Params().Add(payloadCode(v.Payload)).BlockFunc(func(g *jen.Group) {
		gen.guard(g, c)
		g.Return(jen.Id("h").Dot("m").Dot(slot))
	})

	f.Commentf("DataMut returns a pointer to the payload stored at %s.", v.Name)
	f.Func().Params(jen.Id("h").Id(name)).Id("DataMut").Params().Op("*").Add(payloadCode(v.Payload)).BlockFunc(func(g *jen.Group) {
		gen.guard(g, c)
		g.Return(jen.Op("&").Id("h").Dot("m").Dot(slot))
	})
}

// transition emits one consuming transition method.
func (gen *Generator) transition(f *jen.File, c Classification, tr Transition) {
	src, dst := c.Vertex, tr.Target
	name := gen.cfg.caseName(src)

	if tr.Edge.Doc != "" {
		commentLines(f, tr.Edge.Doc)
		f.Comment("")
	}
	f.Commentf("%s transitions the machine to %s.", tr.Method, dst.Name)
	if src.Payload != nil {
		f.Commentf("The payload stored at %s is handed back to the caller.", src.Name)
	}
	fn := f.Func().Params(jen.Id("h").Id(name)).Id(tr.Method)
	if dst.Payload != nil {
		fn.Params(jen.Id("next").Add(payloadCode(dst.Payload)))
	} else {
		fn.Params()
	}
	if src.Payload != nil {
		fn.Add(payloadCode(src.Payload))
	}
	fn.BlockFunc(func(g *jen.Group) {
		gen.guard(g, c)
		if src.Payload != nil {
			g.Id("prev").Op(":=").Id("h").Dot("m").Dot(gen.slotName(src))
			g.Id("h").Dot("m").Dot(gen.slotName(src)).Op("=").Op("*").New(payloadCode(src.Payload))
		}
		if dst.Payload != nil {
			g.Id("h").Dot("m").Dot(gen.slotName(dst)).Op("=").Id("next")
		}
		g.Id("h").Dot("m").Dot("state").Op("=").Id(gen.constName(dst))
		if src.Payload != nil {
			g.Return(jen.Id("prev"))
		}
	})
}

// guard emits the checked-mode reconstruction guard. The tag can only
// mismatch if a handle was fabricated outside the Entry accessor.
func (gen *Generator) guard(g *jen.Group, c Classification) {
	if gen.cfg.SafetyMode != SafetyChecked {
		return
	}
	g.If(jen.Id("h").Dot("m").Dot("state").Op("!=").Id(gen.constName(c.Vertex))).Block(
		jen.Panic(jen.Lit(fmt.Sprintf(
			"fsmentry: %s handle does not match the current %s state",
			gen.cfg.caseName(c.Vertex), gen.cfg.machineName(gen.graph),
		))),
	)
}

// reachabilityDocs emits the incoming/outgoing summaries on an entry case.
func (gen *Generator) reachabilityDocs(f *jen.File, c Classification) {
	if len(c.Incoming) > 0 {
		f.Comment("")
		f.Comment("Reachable from:")
		for _, e := range c.Incoming {
			f.Commentf("  - %s via %s", e.From, MethodName(e, gen.cfg.RenameMethods))
		}
	}
	if len(c.Outgoing) > 0 {
		f.Comment("")
		f.Comment("Transitions to:")
		for _, tr := range c.Outgoing {
			f.Commentf("  - %s via %s", tr.Target.Name, tr.Method)
		}
	}
}

func (gen *Generator) constName(v *Vertex) string {
	return gen.cfg.stateName(gen.graph) + v.Name
}

func (gen *Generator) slotName(v *Vertex) string {
	return "data" + v.Name
}

func (gen *Generator) markerName() string {
	return gen.cfg.markerName(gen.graph)
}

// payloadCode renders an opaque payload type expression, qualified with an
// import path when one was declared.
func payloadCode(p *PayloadInfo) jen.Code {
	if p.PkgPath != "" {
		return jen.Qual(p.PkgPath, p.Ident)
	}
	return jen.Id(p.Ident)
}

// commenter is satisfied by both *jen.File and *jen.Group.
type commenter interface {
	Comment(string) *jen.Statement
}

// commentLines splits multi-line documentation into consecutive comments.
func commentLines(dst commenter, doc string) {
	for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
		dst.Comment(line)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
