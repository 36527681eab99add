// fsmentry generates statically-checked state machine APIs from textual
// machine descriptions.
//
//	fsmentry -out ./lights -pkg lights trafficlight.fsm
//	fsmentry -config fsmentry.yaml -watch
//
// Inputs are read in the DSL or DOT syntax, dispatched on the leading
// keyword; "-" reads stdin. A YAML config file can replace the flags when
// several machines are generated with differing options.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/aatifsyed/fsmentry/compiler/gen"
	"github.com/aatifsyed/fsmentry/compiler/parse"
	"github.com/aatifsyed/fsmentry/diagram"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("fsmentry: ")

	var (
		configPath = flag.String("config", "", "YAML config file describing the machines to generate")
		out        = flag.String("out", ".", "output directory")
		pkg        = flag.String("pkg", "", "generated package name")
		safety     = flag.String("safety", "", "safety mode: checked or trusted")
		noRename   = flag.Bool("no-rename", false, "keep transition method names verbatim")
		embed      = flag.Bool("diagram", false, "embed a mermaid diagram in the generated docs")
		svg        = flag.Bool("svg", false, "also render an SVG next to each generated file (needs graphviz)")
		workers    = flag.Int("workers", 0, "parallel generation workers (0 = GOMAXPROCS)")
		watch      = flag.Bool("watch", false, "regenerate whenever an input file changes")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: fsmentry [flags] [input files]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := defaultFileConfig()
	if *configPath != "" {
		if err := cfg.load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	cfg.mergeFlags(*out, *pkg, *safety, *noRename, *embed, *svg, *workers, flag.Args())
	if len(cfg.Machines) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	if err := generate(ctx, cfg); err != nil {
		log.Fatal(err)
	}
	if *watch {
		if err := watchLoop(ctx, cfg); err != nil {
			log.Fatal(err)
		}
	}
}

// fileConfig is the YAML config file shape. Flag values override the
// top-level fields; per-machine fields override both.
type fileConfig struct {
	Out      string    `yaml:"out"`
	Package  string    `yaml:"package"`
	Safety   string    `yaml:"safety"`
	Rename   *bool     `yaml:"rename"`
	Diagram  bool      `yaml:"diagram"`
	SVG      bool      `yaml:"svg"`
	Workers  int       `yaml:"workers"`
	Machines []machine `yaml:"machines"`
}

type machine struct {
	Input    string `yaml:"input"`
	Filename string `yaml:"filename"`
	Package  string `yaml:"package"`
	Safety   string `yaml:"safety"`
}

func defaultFileConfig() *fileConfig {
	return &fileConfig{Out: "."}
}

func (c *fileConfig) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *fileConfig) mergeFlags(out, pkg, safety string, noRename, embed, svg bool, workers int, inputs []string) {
	if out != "." || c.Out == "" {
		c.Out = out
	}
	if pkg != "" {
		c.Package = pkg
	}
	if safety != "" {
		c.Safety = safety
	}
	if noRename {
		rename := false
		c.Rename = &rename
	}
	if embed {
		c.Diagram = true
	}
	if svg {
		c.SVG = true
	}
	if workers > 0 {
		c.Workers = workers
	}
	for _, input := range inputs {
		c.Machines = append(c.Machines, machine{Input: input})
	}
}

// options assembles the generation options for one machine entry.
func (c *fileConfig) options(m machine) ([]gen.Option, error) {
	var opts []gen.Option
	if pkg := firstOf(m.Package, c.Package); pkg != "" {
		opts = append(opts, gen.WithPackage(pkg))
	}
	if safety := firstOf(m.Safety, c.Safety); safety != "" {
		mode, err := parseSafety(safety)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithSafetyMode(mode))
	}
	if c.Rename != nil {
		opts = append(opts, gen.WithRenameMethods(*c.Rename))
	}
	if c.Diagram {
		opts = append(opts, gen.WithDiagram(true))
	}
	return opts, nil
}

func parseSafety(s string) (gen.SafetyMode, error) {
	switch s {
	case "checked":
		return gen.SafetyChecked, nil
	case "trusted":
		return gen.SafetyTrusted, nil
	default:
		return 0, gen.NewConfigError("Safety", s, "unsupported safety mode; use checked or trusted")
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// readInput reads a machine description from a file, or stdin for "-".
func readInput(input string) (string, error) {
	if input == "-" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(src), nil
	}
	src, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", input, err)
	}
	return string(src), nil
}

// generate runs one full generation pass over every configured machine.
func generate(ctx context.Context, cfg *fileConfig) error {
	w := gen.NewWriter(cfg.Out)
	if cfg.Workers > 0 {
		w.WithWorkers(cfg.Workers)
	}

	var targets []gen.Target
	var graphs []*gen.Graph
	for _, m := range cfg.Machines {
		src, err := readInput(m.Input)
		if err != nil {
			return err
		}
		g, err := parse.Parse(src)
		if err != nil {
			return fmt.Errorf("%s: %w", m.Input, err)
		}
		opts, err := cfg.options(m)
		if err != nil {
			return err
		}
		genCfg, err := gen.NewConfig(opts...)
		if err != nil {
			return err
		}
		targets = append(targets, gen.Target{Graph: g, Config: genCfg, Filename: m.Filename})
		graphs = append(graphs, g)
	}

	start := time.Now()
	if err := w.WriteAll(ctx, targets...); err != nil {
		return err
	}
	m := w.Metrics()
	log.Printf("generated %d file(s), %d bytes in %s", m.FilesWritten, m.TotalBytes, time.Since(start).Round(time.Millisecond))

	if cfg.SVG {
		return renderSVGs(ctx, cfg.Out, graphs)
	}
	return nil
}

func renderSVGs(ctx context.Context, outDir string, graphs []*gen.Graph) error {
	r := diagram.NewRenderer()
	if !r.Available() {
		return fmt.Errorf("svg output requested but %q is not installed", diagram.DefaultCommand)
	}
	for _, g := range graphs {
		svg, err := r.SVG(ctx, g)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, inflect.Underscore(g.Name)+".svg")
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("rendered %s", path)
	}
	return nil
}

// watchLoop regenerates whenever an input file changes. Events are
// debounced since editors produce bursts of writes per save.
func watchLoop(ctx context.Context, cfg *fileConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	inputs := make(map[string]bool, len(cfg.Machines))
	for _, m := range cfg.Machines {
		if m.Input == "-" {
			continue
		}
		abs, err := filepath.Abs(m.Input)
		if err != nil {
			return err
		}
		inputs[abs] = true
		// Watch the directory: editors replace files on save, which drops
		// a watch held on the file itself.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	log.Printf("watching %d input(s)", len(inputs))

	var (
		debounce = time.NewTimer(0)
		pending  bool
	)
	if !debounce.Stop() {
		<-debounce.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !inputs[abs] {
				continue
			}
			if pending {
				debounce.Reset(100 * time.Millisecond)
				continue
			}
			pending = true
			debounce.Reset(100 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		case <-debounce.C:
			pending = false
			if err := generate(ctx, cfg); err != nil {
				log.Printf("regenerate: %v", err)
			}
		}
	}
}
