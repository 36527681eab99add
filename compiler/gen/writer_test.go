package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	t.Run("Writes one file per target", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(dir)

		err := w.WriteAll(context.Background(),
			Target{Graph: trafficLight(t)},
			Target{Graph: trafficLight(t), Filename: "second.go", Config: MustNewConfig(WithPackage("second"))},
		)
		require.NoError(t, err)

		src, err := os.ReadFile(filepath.Join(dir, "traffic_light.go"))
		require.NoError(t, err)
		assert.Contains(t, string(src), "package fsm")
		assert.Contains(t, string(src), "type TrafficLight struct")

		src, err = os.ReadFile(filepath.Join(dir, "second.go"))
		require.NoError(t, err)
		assert.Contains(t, string(src), "package second")
	})

	t.Run("Formats qualified payload imports", func(t *testing.T) {
		dir := t.TempDir()
		g, err := NewBuilder("Clock").
			Vertex("Set", WithQualifiedPayload("time", "Time")).
			Edge("Unset", "Set").
			Graph()
		require.NoError(t, err)

		require.NoError(t, Write(context.Background(), dir, Target{Graph: g}))

		src, err := os.ReadFile(filepath.Join(dir, "clock.go"))
		require.NoError(t, err)
		assert.Contains(t, string(src), `"time"`)
		assert.Contains(t, string(src), "dataSet time.Time")
	})

	t.Run("Metrics count written files and bytes", func(t *testing.T) {
		w := NewWriter(t.TempDir()).WithWorkers(2)
		require.NoError(t, w.WriteAll(context.Background(),
			Target{Graph: trafficLight(t)},
			Target{Graph: trafficLight(t), Filename: "copy.go"},
		))

		m := w.Metrics()
		assert.Equal(t, 2, m.FilesWritten)
		assert.Positive(t, m.TotalBytes)
	})

	t.Run("Invalid target fails the batch", func(t *testing.T) {
		g, err := NewBuilder("Machine").Edge("A", "B").Edge("A", "B").Graph()
		require.NoError(t, err)

		err = Write(context.Background(), t.TempDir(), Target{Graph: g})
		require.Error(t, err)
		assert.True(t, IsMethodNameCollisionError(err))
	})

	t.Run("Cancelled context stops generation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Write(ctx, t.TempDir(), Target{Graph: trafficLight(t)})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
