package gen

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// Visibility selects whether generated identifiers are exported.
type Visibility int

const (
	// VisibilityPublic emits exported identifiers.
	VisibilityPublic Visibility = iota
	// VisibilityPrivate folds the first rune of emitted identifiers to
	// lower case, keeping the generated API package-private.
	VisibilityPrivate
)

// String returns the visibility name.
func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// SafetyMode selects how handle methods defend the state invariant.
type SafetyMode int

const (
	// SafetyChecked re-verifies on every handle method that the state
	// storage still matches the vertex the handle claims to wrap, and
	// panics on mismatch. A mismatch means a handle was fabricated
	// outside the entry accessor.
	SafetyChecked SafetyMode = iota
	// SafetyTrusted omits the guard and documents the invariant instead.
	SafetyTrusted
)

// String returns the safety mode name.
func (m SafetyMode) String() string {
	switch m {
	case SafetyChecked:
		return "checked"
	case SafetyTrusted:
		return "trusted"
	default:
		return "unknown"
	}
}

// DefaultHeader is the header comment emitted at the top of generated files.
const DefaultHeader = "Code generated by fsmentry. DO NOT EDIT."

// Config carries the code generation options for one machine.
type Config struct {
	// Package is the name of the generated package.
	Package string
	// Header is the file header comment.
	Header string
	// StateName overrides the state tag type name (default <Name>State).
	StateName string
	// EntryName overrides the entry type name (default <Name>Entry).
	EntryName string
	// Visibility applies to the machine and state types.
	Visibility Visibility
	// EntryVisibility applies to the entry type and its case types.
	EntryVisibility Visibility
	// SafetyMode selects checked or trusted handle methods.
	SafetyMode SafetyMode
	// RenameMethods derives method names as exported CamelCase of the
	// target identifier. When false, method names are the verbatim
	// target identifier.
	RenameMethods bool
	// Diagram embeds a Mermaid rendering of the graph in the docs of the
	// generated machine type.
	Diagram bool
	// Annotations are forwarded verbatim as comment directives above the
	// emitted state and entry types.
	Annotations []string
}

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the generated package name.
func WithPackage(name string) Option {
	return func(c *Config) error {
		if !isIdent(name) {
			return NewConfigError("Package", name, "package name must be a valid Go identifier")
		}
		c.Package = name
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithStateName overrides the state tag type name.
func WithStateName(name string) Option {
	return func(c *Config) error {
		if !isIdent(name) {
			return NewConfigError("StateName", name, "state type name must be a valid Go identifier")
		}
		c.StateName = name
		return nil
	}
}

// WithEntryName overrides the entry type name.
func WithEntryName(name string) Option {
	return func(c *Config) error {
		if !isIdent(name) {
			return NewConfigError("EntryName", name, "entry type name must be a valid Go identifier")
		}
		c.EntryName = name
		return nil
	}
}

// WithVisibility sets the visibility of the machine and state types.
func WithVisibility(v Visibility) Option {
	return func(c *Config) error {
		if v != VisibilityPublic && v != VisibilityPrivate {
			return NewConfigError("Visibility", v, "unsupported visibility")
		}
		c.Visibility = v
		return nil
	}
}

// WithEntryVisibility sets the visibility of the entry type and its cases.
func WithEntryVisibility(v Visibility) Option {
	return func(c *Config) error {
		if v != VisibilityPublic && v != VisibilityPrivate {
			return NewConfigError("EntryVisibility", v, "unsupported visibility")
		}
		c.EntryVisibility = v
		return nil
	}
}

// WithSafetyMode selects checked or trusted handle methods.
func WithSafetyMode(m SafetyMode) Option {
	return func(c *Config) error {
		if m != SafetyChecked && m != SafetyTrusted {
			return NewConfigError("SafetyMode", m, "unsupported safety mode; use checked or trusted")
		}
		c.SafetyMode = m
		return nil
	}
}

// WithRenameMethods toggles derivation of method names from target
// identifiers. Disabled, method names are exactly the target identifier.
func WithRenameMethods(rename bool) Option {
	return func(c *Config) error {
		c.RenameMethods = rename
		return nil
	}
}

// WithDiagram toggles embedding a Mermaid diagram in the generated docs.
func WithDiagram(enabled bool) Option {
	return func(c *Config) error {
		c.Diagram = enabled
		return nil
	}
}

// WithAnnotations appends verbatim comment directives to forward onto the
// emitted state and entry types.
func WithAnnotations(annotations ...string) Option {
	return func(c *Config) error {
		c.Annotations = append(c.Annotations, annotations...)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DefaultConfig returns the configuration used when no options are given:
// package "fsm", checked safety, method renaming on.
func DefaultConfig() *Config {
	return &Config{
		Package:       "fsm",
		Header:        DefaultHeader,
		SafetyMode:    SafetyChecked,
		RenameMethods: true,
	}
}

// NewConfig creates a new Config from the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// machineName returns the emitted machine type name for the graph.
func (c *Config) machineName(g *Graph) string {
	return fold(g.Name, c.Visibility)
}

// stateName returns the emitted state tag type name for the graph.
func (c *Config) stateName(g *Graph) string {
	if c.StateName != "" {
		return c.StateName
	}
	return c.machineName(g) + "State"
}

// entryName returns the emitted entry type name for the graph.
func (c *Config) entryName(g *Graph) string {
	if c.EntryName != "" {
		return c.EntryName
	}
	return fold(g.Name+"Entry", c.EntryVisibility)
}

// caseName returns the emitted entry case type name for a vertex.
func (c *Config) caseName(v *Vertex) string {
	return fold(v.Name, c.EntryVisibility)
}

// markerName returns the unexported method sealing the entry interface.
func (c *Config) markerName(g *Graph) string {
	return "is" + upperFirst(c.entryName(g))
}

// ctorName returns the emitted constructor name for a vertex.
func (c *Config) ctorName(g *Graph, v *Vertex) string {
	return fold("New"+g.Name+"At"+v.Name, c.Visibility)
}

// fold lowers the first rune of name under private visibility.
func fold(name string, v Visibility) string {
	if v != VisibilityPrivate || name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}
