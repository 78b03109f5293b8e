package value

import (
	"fmt"
	"reflect"
	"strings"
)

// Type is the caller-supplied target of a decode. The wire format carries no
// type marker, so Decode must be given the type the value was encoded as.
type Type struct {
	kind   Kind
	enum   *Enum
	goType reflect.Type
}

var (
	TypeBytes     = Type{kind: KindBytes}
	TypeString    = Type{kind: KindString}
	TypeBool      = Type{kind: KindBool}
	TypeInt8      = Type{kind: KindInt8}
	TypeInt16     = Type{kind: KindInt16}
	TypeInt32     = Type{kind: KindInt32}
	TypeInt64     = Type{kind: KindInt64}
	TypeUint8     = Type{kind: KindUint8}
	TypeUint16    = Type{kind: KindUint16}
	TypeUint32    = Type{kind: KindUint32}
	TypeUint64    = Type{kind: KindUint64}
	TypeChar      = Type{kind: KindChar}
	TypeFloat32   = Type{kind: KindFloat32}
	TypeFloat64   = Type{kind: KindFloat64}
	TypeDecimal   = Type{kind: KindDecimal}
	TypeTimestamp = Type{kind: KindTimestamp}
	TypeUniqueID  = Type{kind: KindUniqueID}
)

// EnumType returns the decode target for constants of e.
func EnumType(e *Enum) Type {
	return Type{kind: KindEnum, enum: e}
}

// StructuredType returns a decode target that hands the bytes to the
// structured serializer, decoding into a fresh value of t.
func StructuredType(t reflect.Type) Type {
	return Type{kind: KindStructured, goType: t}
}

// StructuredTypeOf is StructuredType for the static type T.
func StructuredTypeOf[T any]() Type {
	return StructuredType(reflect.TypeFor[T]())
}

func (t Type) Kind() Kind { return t.kind }

// Enum returns the enum descriptor of an enum type, or nil.
func (t Type) Enum() *Enum { return t.enum }

// GoType returns the Go type a structured target decodes into, or nil.
func (t Type) GoType() reflect.Type { return t.goType }

func (t Type) String() string {
	switch t.kind {
	case KindEnum:
		if t.enum != nil {
			return "enum(" + t.enum.Name() + ")"
		}
	case KindStructured:
		if t.goType != nil {
			return "structured(" + t.goType.String() + ")"
		}
	}
	return t.kind.String()
}

func (t Type) validate() error {
	switch t.kind {
	case KindNull:
		return fmt.Errorf("decode: target type not set: %w", ErrInvalidType)
	case KindEnum:
		if t.enum == nil {
			return fmt.Errorf("decode: enum type without descriptor: %w", ErrInvalidType)
		}
	case KindStructured:
		if t.goType == nil {
			return fmt.Errorf("decode: structured type without go type: %w", ErrInvalidType)
		}
	}
	if t.kind > KindStructured {
		return fmt.Errorf("decode: unknown kind %d: %w", t.kind, ErrInvalidType)
	}
	return nil
}

var scalarTypes = map[string]Type{
	"bytes":     TypeBytes,
	"string":    TypeString,
	"bool":      TypeBool,
	"int8":      TypeInt8,
	"int16":     TypeInt16,
	"int32":     TypeInt32,
	"int64":     TypeInt64,
	"uint8":     TypeUint8,
	"uint16":    TypeUint16,
	"uint32":    TypeUint32,
	"uint64":    TypeUint64,
	"char":      TypeChar,
	"float32":   TypeFloat32,
	"float64":   TypeFloat64,
	"decimal":   TypeDecimal,
	"timestamp": TypeTimestamp,
	"uuid":      TypeUniqueID,
}

// ParseType resolves a type name as used on the command line. Besides the
// scalar kind names it accepts "json", a structured map[string]any.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if t, ok := scalarTypes[name]; ok {
		return t, nil
	}
	if name == "json" {
		return StructuredTypeOf[map[string]any](), nil
	}
	return Type{}, fmt.Errorf("value: unknown type %q: %w", name, ErrInvalidType)
}
