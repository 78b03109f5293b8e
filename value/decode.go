package value

import (
	"bytes"
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{7}$`)

const canonicalUUIDLen = 36

// Decode reconstructs a Value of type t from data. Empty input and the null
// sentinel decode to Null for every t.
func (c *Codec) Decode(data []byte, t Type) (Value, error) {
	if len(data) == 0 || bytes.Equal(data, nullSentinel) {
		return Null{}, nil
	}
	if err := t.validate(); err != nil {
		return nil, err
	}

	switch t.kind {
	case KindString:
		s, err := text(data, KindString)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case KindBytes:
		return Bytes(data), nil
	case KindEnum:
		return decodeEnum(data, t.enum)
	case KindTimestamp:
		return decodeTimestamp(data)
	case KindUniqueID:
		return decodeUniqueID(data)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return decodeInt(data, t.kind)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return decodeUint(data, t.kind)
	case KindBool:
		s, err := text(data, KindBool)
		if err != nil {
			return nil, err
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, malformed(KindBool, data, err)
		}
		return Bool(b), nil
	case KindDecimal:
		return decodeDecimal(data)
	case KindFloat32, KindFloat64:
		return decodeFloat(data, t.kind)
	case KindChar:
		s, err := text(data, KindChar)
		if err != nil {
			return nil, err
		}
		// only the first character is kept
		r, _ := utf8.DecodeRuneInString(s)
		return Char(r), nil
	default:
		return c.decodeStructured(data, t)
	}
}

func text(data []byte, k Kind) (string, error) {
	if !utf8.Valid(data) {
		return "", malformed(k, data, errors.New("invalid utf-8"))
	}
	return string(data), nil
}

func decodeEnum(data []byte, e *Enum) (Value, error) {
	s, err := text(data, KindEnum)
	if err != nil {
		return nil, err
	}
	name, ok := e.Lookup(s)
	if !ok {
		return nil, &InvalidEnumValueError{Enum: e.Name(), Text: s}
	}
	return EnumValue{Enum: e, Name: name}, nil
}

func decodeTimestamp(data []byte) (Value, error) {
	if !timestampPattern.Match(data) {
		return nil, malformed(KindTimestamp, data, errors.New("want yyyy-MM-ddTHH:mm:ss.fffffff"))
	}
	t, err := time.Parse(TimestampLayout, string(data))
	if err != nil {
		return nil, malformed(KindTimestamp, data, err)
	}
	if t.Year() < 1 {
		return nil, malformed(KindTimestamp, data, errors.New("year out of range"))
	}
	return Timestamp(t), nil
}

func decodeUniqueID(data []byte) (Value, error) {
	if len(data) != canonicalUUIDLen {
		return nil, malformed(KindUniqueID, data, errors.New("want canonical hyphenated form"))
	}
	id, err := uuid.ParseBytes(data)
	if err != nil {
		return nil, malformed(KindUniqueID, data, err)
	}
	return UniqueID(id), nil
}

func bitSize(k Kind) int {
	switch k {
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	default:
		return 64
	}
}

func decodeInt(data []byte, k Kind) (Value, error) {
	s, err := text(data, k)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(s, 10, bitSize(k))
	if err != nil {
		return nil, malformed(k, data, err)
	}
	switch k {
	case KindInt8:
		return Int8(n), nil
	case KindInt16:
		return Int16(n), nil
	case KindInt32:
		return Int32(n), nil
	default:
		return Int64(n), nil
	}
}

func decodeUint(data []byte, k Kind) (Value, error) {
	s, err := text(data, k)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(s, 10, bitSize(k))
	if err != nil {
		return nil, malformed(k, data, err)
	}
	switch k {
	case KindUint8:
		return Uint8(n), nil
	case KindUint16:
		return Uint16(n), nil
	case KindUint32:
		return Uint32(n), nil
	default:
		return Uint64(n), nil
	}
}

func decodeFloat(data []byte, k Kind) (Value, error) {
	s, err := text(data, k)
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(s, "xX_") {
		return nil, malformed(k, data, errors.New("hexadecimal and underscore forms are not allowed"))
	}
	f, err := strconv.ParseFloat(s, bitSize(k))
	if err != nil {
		return nil, malformed(k, data, err)
	}
	if k == KindFloat32 {
		return Float32(f), nil
	}
	return Float64(f), nil
}

func decodeDecimal(data []byte) (Value, error) {
	s, err := text(data, KindDecimal)
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(s, "eE") {
		return nil, malformed(KindDecimal, data, errors.New("exponent notation is not allowed"))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, malformed(KindDecimal, data, err)
	}
	return NewDecimal(d), nil
}

func (c *Codec) decodeStructured(data []byte, t Type) (Value, error) {
	ptr := reflect.New(t.goType)
	if err := c.serializer.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, malformed(KindStructured, data, err)
	}
	return Structured{V: ptr.Elem().Interface()}, nil
}
