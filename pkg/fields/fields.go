// Package fields provides the field-type registry and the built-in field parsers used by the pdag compiler and matcher.
// A field type is constructed once per placeholder at compile time, and its Parse method is invoked at match time.
// Parser instances are read-only after construction, so one compiled instance may serve many concurrent matches.
package fields

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoMatch reports that a field type does not apply at the current offset.
	// It drives backtracking in the matcher and is never surfaced to the caller of a match.
	ErrNoMatch = errors.New("field type does not match")
	// ErrConfig reports invalid construction parameters for a field type.
	ErrConfig = errors.New("invalid field configuration")
	// ErrUnknownType reports a placeholder naming a field type not present in the registry.
	ErrUnknownType = errors.New("unknown field type")
)

// Parser is a field-type instance bound to its construction-time configuration.
// Parse must be stateless: it reads only the instance configuration and the input, mutating neither.
type Parser interface {
	// Parse attempts to consume a token starting at off, without look-behind.
	// It returns the consumed length and the extracted value on success.
	// It returns ErrNoMatch if this type does not apply at off.
	// Any other error is fatal to the whole match, not just this attempt.
	Parse(line string, off int) (int, any, error)
}

// Closer is implemented by parser instances that hold resources beyond plain configuration.
type Closer interface {
	Close() error
}

// Constructor builds a Parser from the colon-separated parameter tokens of a placeholder.
type Constructor func(params []string) (Parser, error)

// Type describes a registered field type.
type Type struct {
	// Name is the identifier used in sample placeholders.
	Name string
	// Priority orders parser edges at a pdag node, higher first. More specific types get higher values.
	Priority int
	// New constructs an instance from placeholder parameters.
	New Constructor
	// Doc is usage documentation, shown by the types listing.
	Doc string
}

// Registry is a catalog of field types keyed by name.
// It is populated during setup and read-only afterwards.
type Registry struct {
	types map[string]Type
}

func NewRegistry() *Registry {
	return &Registry{types: map[string]Type{}}
}

// Register adds or replaces a field type.
func (r *Registry) Register(t Type) {
	if t.New == nil {
		panic("field type constructor is nil")
	}
	r.types[t.Name] = t
}

// Lookup retrieves a field type by name.
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// New constructs an instance of the named field type.
// It returns ErrUnknownType if the name is not registered, or the constructor's ErrConfig on bad parameters.
func (r *Registry) New(name string, params []string) (Parser, Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, Type{}, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	p, err := t.New(params)
	if err != nil {
		return nil, Type{}, err
	}
	return p, t, nil
}

// AllDocs returns the documentation for all registered field types in alphabetical order.
func (r *Registry) AllDocs() string {
	var names []string
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	var buf strings.Builder
	buf.WriteString("Field types:\n")
	if len(names) == 0 {
		buf.WriteString("  None\n")
		return buf.String()
	}
	for _, name := range names {
		doc := r.types[name].Doc
		if doc == "" {
			doc = name
		}
		if !strings.HasSuffix(doc, "\n") {
			doc += "\n"
		}
		buf.WriteString(indentString(doc))
		buf.WriteString("\n")
	}
	return buf.String()
}

const indent = "  "

func indentString(s string) string {
	s = strings.TrimSuffix(strings.ReplaceAll(indent+s, "\n", "\n"+indent), indent)
	return strings.ReplaceAll(s, "\n"+indent+"\n", "\n\n")
}

// errParam reports an unrecognized construction parameter, naming the offending token.
func errParam(typeName, param string) error {
	return fmt.Errorf("%w: %s: unrecognized parameter %q", ErrConfig, typeName, param)
}

// splitParam splits a parameter token into key and value at the first '='.
// A token with no '=' is a boolean flag.
func splitParam(p string) (key, value string, hasValue bool) {
	i := strings.IndexByte(p, '=')
	if i < 0 {
		return p, "", false
	}
	return p[:i], p[i+1:], true
}
