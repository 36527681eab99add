package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrDuplicateVertex indicates a vertex was redeclared with a different payload.
	ErrDuplicateVertex = errors.New("fsmentry: duplicate vertex")
	// ErrUnknownVertex indicates an edge references an undeclared vertex.
	ErrUnknownVertex = errors.New("fsmentry: unknown vertex")
	// ErrMethodNameCollision indicates two outgoing edges resolve to the same method name.
	ErrMethodNameCollision = errors.New("fsmentry: method name collision")
	// ErrReservedName indicates a name collides with an identifier required by the generated API.
	ErrReservedName = errors.New("fsmentry: reserved name collision")
	// ErrUnsupportedConfig indicates an option value or combination the generator cannot satisfy.
	ErrUnsupportedConfig = errors.New("fsmentry: unsupported configuration")
)

// DuplicateVertexError reports a vertex declared twice with incompatible payloads.
type DuplicateVertexError struct {
	Vertex  string // Vertex name.
	Pos     int    // Declaration position of the conflicting declaration.
	Message string
}

// Error implements the error interface.
func (e *DuplicateVertexError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fsmentry: duplicate vertex %q (declaration %d)", e.Vertex, e.Pos)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for DuplicateVertexError.
func (e *DuplicateVertexError) Is(target error) bool {
	return target == ErrDuplicateVertex
}

// NewDuplicateVertexError creates a new DuplicateVertexError.
func NewDuplicateVertexError(vertex string, pos int, message string) *DuplicateVertexError {
	return &DuplicateVertexError{Vertex: vertex, Pos: pos, Message: message}
}

// UnknownVertexError reports an edge endpoint that does not resolve to a
// declared vertex. The builder cannot produce such graphs; this arises only
// from graphs assembled directly by other producers.
type UnknownVertexError struct {
	Vertex string // The unresolved endpoint name.
	From   string // Edge source name.
	To     string // Edge target name.
	Pos    int    // Declaration position of the offending edge.
}

// Error implements the error interface.
func (e *UnknownVertexError) Error() string {
	return fmt.Sprintf("fsmentry: unknown vertex %q referenced by edge %s -> %s (declaration %d)", e.Vertex, e.From, e.To, e.Pos)
}

// Is reports whether the target matches the sentinel error for UnknownVertexError.
func (e *UnknownVertexError) Is(target error) bool {
	return target == ErrUnknownVertex
}

// NewUnknownVertexError creates a new UnknownVertexError.
func NewUnknownVertexError(vertex, from, to string, pos int) *UnknownVertexError {
	return &UnknownVertexError{Vertex: vertex, From: from, To: to, Pos: pos}
}

// MethodNameCollisionError reports two outgoing edges of the same vertex
// resolving to the same method name.
type MethodNameCollisionError struct {
	Vertex string // Source vertex owning the colliding methods.
	Method string // The resolved method name.
	Pos    int    // Declaration position of the second colliding edge.
}

// Error implements the error interface.
func (e *MethodNameCollisionError) Error() string {
	return fmt.Sprintf("fsmentry: method name collision on vertex %q: two outgoing edges resolve to %q (declaration %d)", e.Vertex, e.Method, e.Pos)
}

// Is reports whether the target matches the sentinel error for MethodNameCollisionError.
func (e *MethodNameCollisionError) Is(target error) bool {
	return target == ErrMethodNameCollision
}

// NewMethodNameCollisionError creates a new MethodNameCollisionError.
func NewMethodNameCollisionError(vertex, method string, pos int) *MethodNameCollisionError {
	return &MethodNameCollisionError{Vertex: vertex, Method: method, Pos: pos}
}

// ReservedNameCollisionError reports a vertex or method name colliding with
// an identifier required by the generated API shape.
type ReservedNameCollisionError struct {
	Name    string // The colliding name.
	Vertex  string // Vertex the name belongs to.
	Pos     int    // Declaration position of the vertex or edge.
	Message string
}

// Error implements the error interface.
func (e *ReservedNameCollisionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fsmentry: reserved name collision on %q", e.Name)
	if e.Vertex != "" && e.Vertex != e.Name {
		fmt.Fprintf(&b, " (vertex %s)", e.Vertex)
	}
	fmt.Fprintf(&b, " (declaration %d)", e.Pos)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ReservedNameCollisionError.
func (e *ReservedNameCollisionError) Is(target error) bool {
	return target == ErrReservedName
}

// NewReservedNameCollisionError creates a new ReservedNameCollisionError.
func NewReservedNameCollisionError(name, vertex string, pos int, message string) *ReservedNameCollisionError {
	return &ReservedNameCollisionError{Name: name, Vertex: vertex, Pos: pos, Message: message}
}

// ConfigError represents a configuration the generator cannot satisfy.
type ConfigError struct {
	Option  string
	Value   any
	Pos     int // Declaration position when the value comes from the graph; -1 otherwise.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fsmentry: config error for %q", e.Option)
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	if e.Pos >= 0 {
		fmt.Fprintf(&b, " (declaration %d)", e.Pos)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	return b.String()
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrUnsupportedConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Pos: -1, Message: message}
}

// NewConfigErrorAt creates a new ConfigError carrying the declaration
// position of the offending graph element.
func NewConfigErrorAt(option string, value any, pos int, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Pos: pos, Message: message}
}

// IsDuplicateVertexError reports whether the error is a DuplicateVertexError.
func IsDuplicateVertexError(err error) bool {
	var dup *DuplicateVertexError
	return errors.As(err, &dup)
}

// IsUnknownVertexError reports whether the error is an UnknownVertexError.
func IsUnknownVertexError(err error) bool {
	var unknown *UnknownVertexError
	return errors.As(err, &unknown)
}

// IsMethodNameCollisionError reports whether the error is a MethodNameCollisionError.
func IsMethodNameCollisionError(err error) bool {
	var collision *MethodNameCollisionError
	return errors.As(err, &collision)
}

// IsReservedNameCollisionError reports whether the error is a ReservedNameCollisionError.
func IsReservedNameCollisionError(err error) bool {
	var reserved *ReservedNameCollisionError
	return errors.As(err, &reserved)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
