package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("Roles follow in and out degree", func(t *testing.T) {
		g, err := NewBuilder("Machine").
			Path("Source", "Through", "Sink").
			Vertex("Isolated").
			Graph()
		require.NoError(t, err)

		classes := Classify(g, true)
		require.Len(t, classes, 4)

		byName := make(map[string]Classification, len(classes))
		for _, c := range classes {
			byName[c.Vertex.Name] = c
		}
		assert.Equal(t, RoleSource, byName["Source"].Role)
		assert.Equal(t, RoleThrough, byName["Through"].Role)
		assert.Equal(t, RoleSink, byName["Sink"].Role)
		assert.Equal(t, RoleIsolated, byName["Isolated"].Role)
	})

	t.Run("Terminal is isolated or sink", func(t *testing.T) {
		assert.True(t, RoleIsolated.Terminal())
		assert.True(t, RoleSink.Terminal())
		assert.False(t, RoleSource.Terminal())
		assert.False(t, RoleThrough.Terminal())
	})

	t.Run("Classifications follow vertex declaration order", func(t *testing.T) {
		g, err := NewBuilder("Machine").
			Vertex("B").
			Vertex("A").
			Edge("A", "B").
			Graph()
		require.NoError(t, err)

		classes := Classify(g, true)
		assert.Equal(t, "B", classes[0].Vertex.Name)
		assert.Equal(t, "A", classes[1].Vertex.Name)
	})

	t.Run("Outgoing transitions resolve targets and methods", func(t *testing.T) {
		g, err := NewBuilder("Machine").
			Edge("A", "red_amber").
			Edge("A", "B", WithMethod("jump")).
			Graph()
		require.NoError(t, err)

		classes := Classify(g, true)
		a := classes[0]
		require.Equal(t, "A", a.Vertex.Name)
		require.Len(t, a.Outgoing, 2)
		assert.Equal(t, "RedAmber", a.Outgoing[0].Method)
		assert.Equal(t, "red_amber", a.Outgoing[0].Target.Name)
		assert.Equal(t, "jump", a.Outgoing[1].Method)
	})

	t.Run("Unresolvable endpoints are skipped", func(t *testing.T) {
		g := &Graph{
			Name:     "Machine",
			Vertices: []*Vertex{{Name: "A"}},
			Edges:    []*Edge{{From: "A", To: "Missing"}},
		}
		classes := Classify(g, true)
		require.Len(t, classes, 1)
		assert.Empty(t, classes[0].Outgoing)
		assert.Equal(t, RoleIsolated, classes[0].Role)
	})
}

func TestMethodName(t *testing.T) {
	t.Run("Explicit override wins", func(t *testing.T) {
		e := &Edge{From: "A", To: "red_amber", Method: "next"}
		assert.Equal(t, "next", MethodName(e, true))
		assert.Equal(t, "next", MethodName(e, false))
	})

	t.Run("Renaming camelizes the target name", func(t *testing.T) {
		assert.Equal(t, "RedAmber", MethodName(&Edge{To: "red_amber"}, true))
		assert.Equal(t, "RedAmber", MethodName(&Edge{To: "redAmber"}, true))
		assert.Equal(t, "RedAmber", MethodName(&Edge{To: "RedAmber"}, true))
		assert.Equal(t, "Red", MethodName(&Edge{To: "red"}, true))
	})

	t.Run("Without renaming the target name is verbatim", func(t *testing.T) {
		assert.Equal(t, "red_amber", MethodName(&Edge{To: "red_amber"}, false))
		assert.Equal(t, "RedAmber", MethodName(&Edge{To: "RedAmber"}, false))
	})
}
