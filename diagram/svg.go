// Package diagram renders fsmentry graphs to SVG by shelling out to the
// graphviz `dot` tool. Textual DOT and Mermaid renderings need no external
// tooling and live on gen.Graph itself.
package diagram

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/aatifsyed/fsmentry/compiler/gen"
)

// DefaultCommand is the graphviz executable used to render SVG.
const DefaultCommand = "dot"

// Renderer renders graphs through a graphviz executable.
type Renderer struct {
	command string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithCommand overrides the graphviz executable name or path.
func WithCommand(command string) RendererOption {
	return func(r *Renderer) {
		r.command = command
	}
}

// NewRenderer creates a Renderer with the given options.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{command: DefaultCommand}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether the graphviz executable can be found.
func (r *Renderer) Available() bool {
	_, err := exec.LookPath(r.command)
	return err == nil
}

// SVG renders the graph to SVG markup. The graphviz process is bound to
// ctx and killed when it is cancelled.
func (r *Renderer) SVG(ctx context.Context, g *gen.Graph) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.command, "-Tsvg")
	cmd.Stdin = strings.NewReader(g.DOT())

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("fsmentry: render %s with %s: %w: %s", g.Name, r.command, err, msg)
		}
		return nil, fmt.Errorf("fsmentry: render %s with %s: %w", g.Name, r.command, err)
	}
	return out.Bytes(), nil
}

// SVG renders the graph to SVG markup with the default renderer.
func SVG(ctx context.Context, g *gen.Graph) ([]byte, error) {
	return NewRenderer().SVG(ctx, g)
}
