package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/go-openapi/inflect"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer renders machines to disk with parallel execution and goimports
// formatting. The generation core stays side-effect-free; the Writer only
// adds I/O around it.
type Writer struct {
	outDir  string
	workers int

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// Target names one machine to generate: a graph, its configuration, and
// the output file name (derived from the machine name when empty).
type Target struct {
	Graph    *Graph
	Config   *Config
	Filename string
}

// NewWriter creates a Writer emitting into outDir.
func NewWriter(outDir string) *Writer {
	return &Writer{
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a snapshot of the generation metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteAll generates every target in parallel. Generation of independent
// graphs shares no state, so targets may be processed concurrently.
func (w *Writer) WriteAll(ctx context.Context, targets ...Target) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, t := range targets {
		t := t
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.write(t)
			}
		})
	}
	return eg.Wait()
}

// write generates a single target.
func (w *Writer) write(t Target) error {
	gen, err := NewGenerator(t.Graph, t.Config)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gen.File().Render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", t.Graph.Name, err)
	}

	name := t.Filename
	if name == "" {
		name = inflect.Underscore(t.Graph.Name) + ".go"
	}
	path := filepath.Join(w.outDir, name)

	// goimports normalizes import grouping of qualified payload types.
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		return fmt.Errorf("format %s: %w", name, err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(formatted))
	w.mu.Unlock()
	return nil
}

// Write is a convenience wrapper generating all targets into outDir.
func Write(ctx context.Context, outDir string, targets ...Target) error {
	return NewWriter(outDir).WriteAll(ctx, targets...)
}
