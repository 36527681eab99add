package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateVertexError(t *testing.T) {
	t.Run("Error message carries vertex and position", func(t *testing.T) {
		err := NewDuplicateVertexError("Red", 3, "already declared at position 1")

		assert.Contains(t, err.Error(), "fsmentry: duplicate vertex")
		assert.Contains(t, err.Error(), `"Red"`)
		assert.Contains(t, err.Error(), "declaration 3")
		assert.Contains(t, err.Error(), "already declared at position 1")
	})

	t.Run("Error message without detail", func(t *testing.T) {
		err := &DuplicateVertexError{Vertex: "Red"}
		assert.NotContains(t, err.Error(), ": :")
	})

	t.Run("Is matches ErrDuplicateVertex", func(t *testing.T) {
		err := NewDuplicateVertexError("Red", 0, "")
		assert.True(t, errors.Is(err, ErrDuplicateVertex))
		assert.False(t, errors.Is(err, ErrUnknownVertex))
	})

	t.Run("IsDuplicateVertexError helper", func(t *testing.T) {
		assert.True(t, IsDuplicateVertexError(NewDuplicateVertexError("Red", 0, "")))
		assert.False(t, IsDuplicateVertexError(errors.New("other")))
	})
}

func TestUnknownVertexError(t *testing.T) {
	t.Run("Error message names the edge", func(t *testing.T) {
		err := NewUnknownVertexError("Missing", "Red", "Missing", 2)

		assert.Contains(t, err.Error(), `unknown vertex "Missing"`)
		assert.Contains(t, err.Error(), "Red -> Missing")
		assert.Contains(t, err.Error(), "declaration 2")
	})

	t.Run("Is matches ErrUnknownVertex", func(t *testing.T) {
		err := NewUnknownVertexError("Missing", "A", "Missing", 0)
		assert.True(t, errors.Is(err, ErrUnknownVertex))
	})

	t.Run("IsUnknownVertexError helper", func(t *testing.T) {
		assert.True(t, IsUnknownVertexError(NewUnknownVertexError("X", "A", "X", 0)))
		assert.False(t, IsUnknownVertexError(errors.New("other")))
	})
}

func TestMethodNameCollisionError(t *testing.T) {
	t.Run("Error message names vertex and method", func(t *testing.T) {
		err := NewMethodNameCollisionError("Red", "RedAmber", 4)

		assert.Contains(t, err.Error(), `collision on vertex "Red"`)
		assert.Contains(t, err.Error(), `"RedAmber"`)
		assert.Contains(t, err.Error(), "declaration 4")
	})

	t.Run("Is matches ErrMethodNameCollision", func(t *testing.T) {
		err := NewMethodNameCollisionError("Red", "RedAmber", 0)
		assert.True(t, errors.Is(err, ErrMethodNameCollision))
	})

	t.Run("IsMethodNameCollisionError helper", func(t *testing.T) {
		assert.True(t, IsMethodNameCollisionError(NewMethodNameCollisionError("A", "B", 0)))
		assert.False(t, IsMethodNameCollisionError(errors.New("other")))
	})
}

func TestReservedNameCollisionError(t *testing.T) {
	t.Run("Error message names the vertex when it differs", func(t *testing.T) {
		err := NewReservedNameCollisionError("Data", "Red", 1, "transition method shadows a handle payload accessor")

		assert.Contains(t, err.Error(), `collision on "Data"`)
		assert.Contains(t, err.Error(), "(vertex Red)")
		assert.Contains(t, err.Error(), "shadows a handle payload accessor")
	})

	t.Run("Error message elides the vertex when it matches", func(t *testing.T) {
		err := NewReservedNameCollisionError("Red", "Red", 1, "")
		assert.NotContains(t, err.Error(), "(vertex")
	})

	t.Run("Is matches ErrReservedName", func(t *testing.T) {
		err := NewReservedNameCollisionError("Data", "Red", 0, "")
		assert.True(t, errors.Is(err, ErrReservedName))
	})

	t.Run("IsReservedNameCollisionError helper", func(t *testing.T) {
		assert.True(t, IsReservedNameCollisionError(NewReservedNameCollisionError("X", "Y", 0, "")))
		assert.False(t, IsReservedNameCollisionError(errors.New("other")))
	})
}

func TestConfigErrorType(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Package", "my pkg", "package name must be a valid Go identifier")

		assert.Contains(t, err.Error(), "fsmentry: config error")
		assert.Contains(t, err.Error(), `"Package"`)
		assert.Contains(t, err.Error(), "my pkg")
		assert.Contains(t, err.Error(), "valid Go identifier")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Graph", nil, "graph cannot be nil")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Error message with declaration position", func(t *testing.T) {
		err := NewConfigErrorAt("Vertex", "Bad Name", 2, "vertex name must be a valid Go identifier")

		assert.Contains(t, err.Error(), "declaration 2")
		assert.Contains(t, err.Error(), "Bad Name")
	})

	t.Run("Position is elided when the value is not from the graph", func(t *testing.T) {
		err := NewConfigError("Package", "bad pkg", "package name must be a valid Go identifier")
		assert.NotContains(t, err.Error(), "declaration")
	})

	t.Run("Is matches ErrUnsupportedConfig", func(t *testing.T) {
		err := NewConfigError("SafetyMode", 7, "unsupported safety mode")
		assert.True(t, errors.Is(err, ErrUnsupportedConfig))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		assert.True(t, IsConfigError(NewConfigError("X", nil, "")))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}
