package value

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Encode returns the byte form of v. Null encodes to the reserved sentinel
// {0x00}; every other variant encodes to invariant UTF-8 text, except Bytes
// (identity) and Structured (serializer output). A non-null value whose
// encoding would be exactly {0x00}, such as String("\x00"), is rejected with
// ErrSerializationConflict.
func (c *Codec) Encode(v Value) ([]byte, error) {
	if IsNull(v) {
		return NullSentinel(), nil
	}
	data, err := c.encode(v)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(data, nullSentinel) {
		return nil, fmt.Errorf("encode %s: %w", describe(v), ErrSerializationConflict)
	}
	return data, nil
}

func describe(v Value) string {
	if s, ok := v.(Structured); ok {
		return fmt.Sprintf("structured %T", s.V)
	}
	return v.Kind().String()
}

func (c *Codec) encode(v Value) ([]byte, error) {
	switch v := v.(type) {
	case String:
		if !utf8.ValidString(string(v)) {
			return nil, fmt.Errorf("encode string %q: not valid UTF-8: %w", string(v), ErrInvalidValue)
		}
		return []byte(v), nil
	case Bytes:
		if v == nil {
			return []byte{}, nil
		}
		return v, nil
	case EnumValue:
		return encodeEnum(v)
	case Timestamp:
		return encodeTimestamp(v)
	case UniqueID:
		return []byte(v.UUID().String()), nil
	case Int8:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case Int16:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case Int32:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case Int64:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case Uint8:
		return strconv.AppendUint(nil, uint64(v), 10), nil
	case Uint16:
		return strconv.AppendUint(nil, uint64(v), 10), nil
	case Uint32:
		return strconv.AppendUint(nil, uint64(v), 10), nil
	case Uint64:
		return strconv.AppendUint(nil, uint64(v), 10), nil
	case Bool:
		return strconv.AppendBool(nil, bool(v)), nil
	case Decimal:
		return []byte(v.String()), nil
	case Float32:
		return strconv.AppendFloat(nil, float64(v), 'g', -1, 32), nil
	case Float64:
		return strconv.AppendFloat(nil, float64(v), 'g', -1, 64), nil
	case Char:
		if !utf8.ValidRune(rune(v)) {
			return nil, fmt.Errorf("encode char %U: %w", rune(v), ErrInvalidValue)
		}
		return utf8.AppendRune(nil, rune(v)), nil
	case Structured:
		return c.encodeStructured(v)
	default:
		return nil, fmt.Errorf("encode %T: %w", v, ErrInvalidValue)
	}
}

func encodeEnum(v EnumValue) ([]byte, error) {
	if v.Enum == nil {
		return nil, fmt.Errorf("encode enum constant %q: no enum descriptor: %w", v.Name, ErrInvalidValue)
	}
	if !v.Enum.Has(v.Name) {
		return nil, fmt.Errorf("encode enum %s: undeclared constant %q: %w", v.Enum.Name(), v.Name, ErrInvalidValue)
	}
	return []byte(v.Name), nil
}

func encodeTimestamp(v Timestamp) ([]byte, error) {
	t := v.Time().UTC()
	if y := t.Year(); y < 1 || y > 9999 {
		return nil, fmt.Errorf("encode timestamp: year %d outside 0001-9999: %w", y, ErrInvalidValue)
	}
	return t.AppendFormat(nil, TimestampLayout), nil
}

func (c *Codec) encodeStructured(v Structured) ([]byte, error) {
	if v.V == nil {
		return nil, fmt.Errorf("encode structured: nil payload: %w", ErrInvalidValue)
	}
	data, err := c.serializer.Marshal(v.V)
	if err != nil {
		return nil, fmt.Errorf("encode structured %T: %w: %w", v.V, ErrInvalidValue, err)
	}
	return data, nil
}
