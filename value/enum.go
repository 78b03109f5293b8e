package value

import (
	"fmt"
	"strings"
)

// Enum is a closed set of named constants. It is immutable after NewEnum and
// safe for concurrent use.
type Enum struct {
	name      string
	constants []string
	index     map[string]int
	folded    map[string]string
}

// NewEnum declares an enumeration called name with the given canonical
// constant names. It panics on an empty or duplicate constant, since enums
// are declared once at package init.
func NewEnum(name string, constants ...string) *Enum {
	e := &Enum{
		name:      name,
		constants: make([]string, 0, len(constants)),
		index:     make(map[string]int, len(constants)),
		folded:    make(map[string]string, len(constants)),
	}
	for i, c := range constants {
		if c == "" {
			panic(fmt.Sprintf("value: enum %s: empty constant at position %d", name, i))
		}
		if _, dup := e.index[c]; dup {
			panic(fmt.Sprintf("value: enum %s: duplicate constant %q", name, c))
		}
		e.index[c] = i
		e.constants = append(e.constants, c)
		// first declaration wins when two constants differ only in case
		if _, ok := e.folded[strings.ToLower(c)]; !ok {
			e.folded[strings.ToLower(c)] = c
		}
	}
	return e
}

// Name returns the enum's declared name.
func (e *Enum) Name() string { return e.name }

// Constants returns a copy of the canonical constant names in declaration order.
func (e *Enum) Constants() []string {
	out := make([]string, len(e.constants))
	copy(out, e.constants)
	return out
}

// Has reports whether name is a canonical constant (exact case).
func (e *Enum) Has(name string) bool {
	_, ok := e.index[name]
	return ok
}

// Ordinal returns the declaration position of a canonical constant.
func (e *Enum) Ordinal(name string) (int, bool) {
	i, ok := e.index[name]
	return i, ok
}

// Lookup resolves text to a canonical constant name, ignoring case. Exact
// matches take priority over folded ones.
func (e *Enum) Lookup(text string) (string, bool) {
	if _, ok := e.index[text]; ok {
		return text, true
	}
	c, ok := e.folded[strings.ToLower(text)]
	return c, ok
}

// Value returns the EnumValue for a canonical constant.
func (e *Enum) Value(name string) (EnumValue, error) {
	if !e.Has(name) {
		return EnumValue{}, fmt.Errorf("enum %s: constant %q: %w", e.name, name, ErrInvalidValue)
	}
	return EnumValue{Enum: e, Name: name}, nil
}

// MustValue is like Value but panics when name is not declared.
func (e *Enum) MustValue(name string) EnumValue {
	v, err := e.Value(name)
	if err != nil {
		panic(err)
	}
	return v
}

func (e *Enum) String() string { return e.name }

// EnumConstant is implemented by Go enum types that map onto an Enum. The
// String method must return a canonical constant name. To be decodable with
// Unmarshal, the pointer type must also implement encoding.TextUnmarshaler
// accepting canonical names.
type EnumConstant interface {
	EnumDescriptor() *Enum
	String() string
}
