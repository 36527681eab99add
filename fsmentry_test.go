package fsmentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatifsyed/fsmentry/compiler/gen"
)

const trafficLightDSL = `
/// Cycles through the phases of a UK traffic light.
machine TrafficLight {
	Green: string;
	Red -> RedAmber -> Green -> Amber -> Red;
}
`

func TestCompile(t *testing.T) {
	t.Run("DSL source end to end", func(t *testing.T) {
		src, err := Compile(trafficLightDSL, gen.WithPackage("lights"))
		require.NoError(t, err)

		assert.Contains(t, src, "package lights")
		assert.Contains(t, src, "type TrafficLight struct")
		assert.Contains(t, src, "func (h RedAmber) Green(next string)")
		assert.Contains(t, src, "func (h Green) Amber() string")
	})

	t.Run("DOT source end to end", func(t *testing.T) {
		src, err := Compile(`digraph Turnstile {
			Locked -> Unlocked [method="InsertCoin"];
			Unlocked -> Locked [method="Push"];
		}`)
		require.NoError(t, err)

		assert.Contains(t, src, "func (h Locked) InsertCoin()")
		assert.Contains(t, src, "func (h Unlocked) Push()")
	})

	t.Run("Parse errors surface", func(t *testing.T) {
		_, err := Compile("machine M {")
		assert.Error(t, err)
	})

	t.Run("Validation errors surface", func(t *testing.T) {
		_, err := Compile("machine M { A -> B; A -> B; }")
		require.Error(t, err)
		assert.True(t, gen.IsMethodNameCollisionError(err))
	})

	t.Run("Option errors surface", func(t *testing.T) {
		_, err := Compile(trafficLightDSL, gen.WithPackage("not a package"))
		require.Error(t, err)
		assert.True(t, gen.IsConfigError(err))
	})
}

func TestParseDispatch(t *testing.T) {
	t.Run("Parse sniffs the front end", func(t *testing.T) {
		g, err := Parse("digraph M { A -> B; }")
		require.NoError(t, err)
		assert.Equal(t, "M", g.Name)

		g, err = Parse("machine M { A -> B; }")
		require.NoError(t, err)
		assert.Equal(t, "M", g.Name)
	})

	t.Run("ParseDSL rejects DOT and vice versa", func(t *testing.T) {
		_, err := ParseDSL("digraph M { A -> B; }")
		assert.Error(t, err)
		_, err = ParseDOT("machine M { A -> B; }")
		assert.Error(t, err)
	})

	t.Run("Generate drives a hand-built graph", func(t *testing.T) {
		g, err := gen.NewBuilder("Door").Edge("Open", "Closed").Edge("Closed", "Open").Graph()
		require.NoError(t, err)

		src, err := Generate(g, gen.WithSafetyMode(gen.SafetyTrusted))
		require.NoError(t, err)
		assert.Contains(t, src, "func (h Open) Closed()")
		assert.NotContains(t, src, "does not match the current")
	})
}
