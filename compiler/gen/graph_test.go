package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderVertices(t *testing.T) {
	t.Run("Declares vertices in order", func(t *testing.T) {
		g, err := NewBuilder("Machine").
			Vertex("A").
			Vertex("B", WithPayload("string")).
			Vertex("C", WithQualifiedPayload("time", "Time")).
			Graph()
		require.NoError(t, err)

		require.Len(t, g.Vertices, 3)
		assert.Equal(t, "A", g.Vertices[0].Name)
		assert.Equal(t, 0, g.Vertices[0].Pos)
		assert.Nil(t, g.Vertices[0].Payload)
		assert.Equal(t, "string", g.Vertices[1].Payload.Ident)
		assert.Equal(t, "time.Time", g.Vertices[2].Payload.String())
	})

	t.Run("Redeclaring with identical payload merges docs", func(t *testing.T) {
		g, err := NewBuilder("Machine").
			Vertex("A", WithPayload("int"), WithVertexDoc("first")).
			Vertex("A", WithPayload("int"), WithVertexDoc("second")).
			Graph()
		require.NoError(t, err)

		require.Len(t, g.Vertices, 1)
		assert.Equal(t, "first\n\nsecond", g.Vertices[0].Doc)
	})

	t.Run("Redeclaring with a different payload fails", func(t *testing.T) {
		_, err := NewBuilder("Machine").
			Vertex("A", WithPayload("int")).
			Vertex("A", WithPayload("string")).
			Graph()
		require.Error(t, err)

		assert.True(t, errors.Is(err, ErrDuplicateVertex))
		assert.True(t, IsDuplicateVertexError(err))
		assert.Contains(t, err.Error(), `duplicate vertex "A"`)
	})

	t.Run("Redeclaring payload versus none fails", func(t *testing.T) {
		_, err := NewBuilder("Machine").
			Vertex("A", WithPayload("int")).
			Vertex("A").
			Graph()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateVertex))
	})

	t.Run("Explicit declaration upgrades an implicit endpoint", func(t *testing.T) {
		g, err := NewBuilder("Machine").
			Edge("A", "B").
			Vertex("B", WithPayload("string"), WithVertexDoc("the payload state")).
			Graph()
		require.NoError(t, err)

		b := g.VertexByName("B")
		require.NotNil(t, b)
		require.NotNil(t, b.Payload)
		assert.Equal(t, "string", b.Payload.Ident)
		assert.Equal(t, "the payload state", b.Doc)
		assert.Equal(t, 1, b.Pos, "upgrade keeps the position of the first mention")
	})

	t.Run("Upgraded vertex may not be redeclared again with another payload", func(t *testing.T) {
		_, err := NewBuilder("Machine").
			Edge("A", "B").
			Vertex("B", WithPayload("string")).
			Vertex("B", WithPayload("int")).
			Graph()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateVertex))
	})

	t.Run("Invalid machine name fails", func(t *testing.T) {
		_, err := NewBuilder("Traffic Light").Vertex("A").Graph()
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestBuilderEdges(t *testing.T) {
	t.Run("Edge creates endpoints implicitly", func(t *testing.T) {
		g, err := NewBuilder("Machine").Edge("A", "B").Graph()
		require.NoError(t, err)

		require.Len(t, g.Vertices, 2)
		assert.Equal(t, "A", g.Vertices[0].Name)
		assert.Equal(t, "B", g.Vertices[1].Name)
		require.Len(t, g.Edges, 1)
		assert.Equal(t, 0, g.Edges[0].Pos)
	})

	t.Run("Edge options set method and doc", func(t *testing.T) {
		g, err := NewBuilder("Machine").
			Edge("A", "B", WithMethod("advance"), WithEdgeDoc("go forward")).
			Graph()
		require.NoError(t, err)

		assert.Equal(t, "advance", g.Edges[0].Method)
		assert.Equal(t, "go forward", g.Edges[0].Doc)
	})

	t.Run("Parallel edges are permitted at declaration time", func(t *testing.T) {
		g, err := NewBuilder("Machine").
			Edge("A", "B").
			Edge("A", "B", WithMethod("Again")).
			Graph()
		require.NoError(t, err)
		assert.Len(t, g.Edges, 2)
	})

	t.Run("Path declares a chain", func(t *testing.T) {
		g, err := NewBuilder("Machine").Path("A", "B", "C", "A").Graph()
		require.NoError(t, err)

		require.Len(t, g.Edges, 3)
		assert.Equal(t, "A", g.Edges[0].From)
		assert.Equal(t, "B", g.Edges[0].To)
		assert.Equal(t, "C", g.Edges[2].From)
		assert.Equal(t, "A", g.Edges[2].To)
		assert.Len(t, g.Vertices, 3)
	})

	t.Run("Accumulated errors are all reported", func(t *testing.T) {
		_, err := NewBuilder("Machine").
			Vertex("A", WithPayload("int")).
			Vertex("A", WithPayload("string")).
			Vertex("B").
			Vertex("B", WithPayload("string")).
			Graph()
		require.Error(t, err)

		assert.Contains(t, err.Error(), `"A"`)
		assert.Contains(t, err.Error(), `"B"`)
	})
}

func TestGraphQueries(t *testing.T) {
	g, err := NewBuilder("Machine").
		Path("A", "B", "C").
		Edge("A", "C").
		Vertex("D").
		Graph()
	require.NoError(t, err)

	t.Run("VertexByName", func(t *testing.T) {
		assert.NotNil(t, g.VertexByName("D"))
		assert.Nil(t, g.VertexByName("E"))
	})

	t.Run("Outgoing preserves declaration order", func(t *testing.T) {
		out := g.Outgoing("A")
		require.Len(t, out, 2)
		assert.Equal(t, "B", out[0].To)
		assert.Equal(t, "C", out[1].To)
	})

	t.Run("Incoming preserves declaration order", func(t *testing.T) {
		in := g.Incoming("C")
		require.Len(t, in, 2)
		assert.Equal(t, "B", in[0].From)
		assert.Equal(t, "A", in[1].From)
	})
}

func TestPayloadInfo(t *testing.T) {
	t.Run("String renders qualified and local types", func(t *testing.T) {
		assert.Equal(t, "string", (&PayloadInfo{Ident: "string"}).String())
		assert.Equal(t, "time.Time", (&PayloadInfo{Ident: "Time", PkgPath: "time"}).String())
	})

	t.Run("Doc merges on the builder", func(t *testing.T) {
		g, err := NewBuilder("Machine").Doc("line one").Doc("line two").Vertex("A").Graph()
		require.NoError(t, err)
		assert.Equal(t, "line one\n\nline two", g.Doc)
	})
}
