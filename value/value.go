package value

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies the category of a Value or the target of a decode.
type Kind uint8

const (
	KindNull Kind = iota
	KindBytes
	KindString
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindChar
	KindFloat32
	KindFloat64
	KindDecimal
	KindEnum
	KindTimestamp
	KindUniqueID
	KindStructured
)

var kindNames = [...]string{
	KindNull:       "null",
	KindBytes:      "bytes",
	KindString:     "string",
	KindBool:       "bool",
	KindInt8:       "int8",
	KindInt16:      "int16",
	KindInt32:      "int32",
	KindInt64:      "int64",
	KindUint8:      "uint8",
	KindUint16:     "uint16",
	KindUint32:     "uint32",
	KindUint64:     "uint64",
	KindChar:       "char",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindDecimal:    "decimal",
	KindEnum:       "enum",
	KindTimestamp:  "timestamp",
	KindUniqueID:   "uuid",
	KindStructured: "structured",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a typed value the codec can encode. The set of implementations is
// closed: every variant is declared in this package.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	// Null is the absence of a value. It encodes to the reserved sentinel.
	Null struct{}

	// Bytes is an opaque payload, encoded as-is.
	Bytes []byte

	String  string
	Bool    bool
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
	Float32 float32
	Float64 float64

	// Char is a single character. Go's rune is an alias of int32, so
	// characters need their own variant to stay distinct from Int32.
	Char rune

	// Timestamp is a point in time with 100ns precision on the wire.
	Timestamp time.Time

	// UniqueID is a 128-bit identifier.
	UniqueID uuid.UUID
)

// Decimal is a fixed-point number.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal wraps d as a Value.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

// EnumValue is a named constant of Enum.
type EnumValue struct {
	Enum *Enum
	Name string
}

// Structured is any composite value. It is handed to the configured
// structured serializer.
type Structured struct {
	V any
}

func (Null) Kind() Kind       { return KindNull }
func (Bytes) Kind() Kind      { return KindBytes }
func (String) Kind() Kind     { return KindString }
func (Bool) Kind() Kind       { return KindBool }
func (Int8) Kind() Kind       { return KindInt8 }
func (Int16) Kind() Kind      { return KindInt16 }
func (Int32) Kind() Kind      { return KindInt32 }
func (Int64) Kind() Kind      { return KindInt64 }
func (Uint8) Kind() Kind      { return KindUint8 }
func (Uint16) Kind() Kind     { return KindUint16 }
func (Uint32) Kind() Kind     { return KindUint32 }
func (Uint64) Kind() Kind     { return KindUint64 }
func (Char) Kind() Kind       { return KindChar }
func (Float32) Kind() Kind    { return KindFloat32 }
func (Float64) Kind() Kind    { return KindFloat64 }
func (Decimal) Kind() Kind    { return KindDecimal }
func (EnumValue) Kind() Kind  { return KindEnum }
func (Timestamp) Kind() Kind  { return KindTimestamp }
func (UniqueID) Kind() Kind   { return KindUniqueID }
func (Structured) Kind() Kind { return KindStructured }

func (Null) isValue()       {}
func (Bytes) isValue()      {}
func (String) isValue()     {}
func (Bool) isValue()       {}
func (Int8) isValue()       {}
func (Int16) isValue()      {}
func (Int32) isValue()      {}
func (Int64) isValue()      {}
func (Uint8) isValue()      {}
func (Uint16) isValue()     {}
func (Uint32) isValue()     {}
func (Uint64) isValue()     {}
func (Char) isValue()       {}
func (Float32) isValue()    {}
func (Float64) isValue()    {}
func (Decimal) isValue()    {}
func (EnumValue) isValue()  {}
func (Timestamp) isValue()  {}
func (UniqueID) isValue()   {}
func (Structured) isValue() {}

// Time returns the timestamp as a time.Time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// UUID returns the identifier as a uuid.UUID.
func (u UniqueID) UUID() uuid.UUID { return uuid.UUID(u) }

// IsNull reports whether v is absent, either as a nil interface or Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}
