package value

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	timeType         = reflect.TypeFor[time.Time]()
	uuidType         = reflect.TypeFor[uuid.UUID]()
	decimalType      = reflect.TypeFor[decimal.Decimal]()
	timestampType    = reflect.TypeFor[Timestamp]()
	uniqueIDType     = reflect.TypeFor[UniqueID]()
	valueDecimalType = reflect.TypeFor[Decimal]()
	charType         = reflect.TypeFor[Char]()
	enumConstantType = reflect.TypeFor[EnumConstant]()
	valueIfaceType   = reflect.TypeFor[Value]()
	enumValueType    = reflect.TypeFor[EnumValue]()
	nullType         = reflect.TypeFor[Null]()
)

// Of maps a plain Go value onto a Value, checking categories in the same
// order as the encoder. Pointers are followed first, so nil and nil pointers
// map to Null and *T maps like T. Values that match no scalar category become
// Structured.
func Of(x any) (Value, error) {
	if x == nil {
		return Null{}, nil
	}
	if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null{}, nil
		}
		return Of(rv.Elem().Interface())
	}

	switch x := x.(type) {
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case EnumConstant:
		e := x.EnumDescriptor()
		if e == nil {
			return nil, fmt.Errorf("value: %T has no enum descriptor: %w", x, ErrInvalidValue)
		}
		return e.Value(x.String())
	case time.Time:
		return Timestamp(x), nil
	case uuid.UUID:
		return UniqueID(x), nil
	case int:
		return Int64(x), nil
	case int8:
		return Int8(x), nil
	case int16:
		return Int16(x), nil
	case int32:
		return Int32(x), nil
	case int64:
		return Int64(x), nil
	case uint:
		return Uint64(x), nil
	case uint8:
		return Uint8(x), nil
	case uint16:
		return Uint16(x), nil
	case uint32:
		return Uint32(x), nil
	case uint64:
		return Uint64(x), nil
	case bool:
		return Bool(x), nil
	case decimal.Decimal:
		return NewDecimal(x), nil
	case float32:
		return Float32(x), nil
	case float64:
		return Float64(x), nil
	}

	return ofKind(reflect.ValueOf(x)), nil
}

// ofKind handles named types (type Name string and friends) by their
// underlying kind.
func ofKind(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int8:
		return Int8(rv.Int())
	case reflect.Int16:
		return Int16(rv.Int())
	case reflect.Int32:
		return Int32(rv.Int())
	case reflect.Int, reflect.Int64:
		return Int64(rv.Int())
	case reflect.Uint8:
		return Uint8(rv.Uint())
	case reflect.Uint16:
		return Uint16(rv.Uint())
	case reflect.Uint32:
		return Uint32(rv.Uint())
	case reflect.Uint, reflect.Uint64:
		return Uint64(rv.Uint())
	case reflect.Float32:
		return Float32(rv.Float())
	case reflect.Float64:
		return Float64(rv.Float())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes())
		}
	}
	return Structured{V: rv.Interface()}
}

var typeCache sync.Map

// TypeFor derives the decode target for the Go type T.
func TypeFor[T any]() (Type, error) {
	return TypeOf(reflect.TypeFor[T]())
}

// TypeOf derives the decode target for rt. Pointer types resolve to the type
// they point to. Results are cached per reflect.Type.
func TypeOf(rt reflect.Type) (Type, error) {
	if rt == nil {
		return Type{}, fmt.Errorf("value: nil reflect type: %w", ErrInvalidType)
	}
	if cached, ok := typeCache.Load(rt); ok {
		return cached.(Type), nil
	}
	t, err := analyzeType(rt)
	if err != nil {
		return Type{}, err
	}
	actual, _ := typeCache.LoadOrStore(rt, t)
	return actual.(Type), nil
}

func analyzeType(rt reflect.Type) (Type, error) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	switch rt {
	case timeType, timestampType:
		return TypeTimestamp, nil
	case uuidType, uniqueIDType:
		return TypeUniqueID, nil
	case decimalType, valueDecimalType:
		return TypeDecimal, nil
	case charType:
		return TypeChar, nil
	case valueIfaceType, enumValueType, nullType:
		return Type{}, fmt.Errorf("value: cannot derive a decode target from %s: %w", rt, ErrInvalidType)
	}

	if rt.Implements(enumConstantType) {
		e := reflect.Zero(rt).Interface().(EnumConstant).EnumDescriptor()
		if e == nil {
			return Type{}, fmt.Errorf("value: %s has no enum descriptor: %w", rt, ErrInvalidType)
		}
		return EnumType(e), nil
	}

	switch rt.Kind() {
	case reflect.String:
		return TypeString, nil
	case reflect.Bool:
		return TypeBool, nil
	case reflect.Int8:
		return TypeInt8, nil
	case reflect.Int16:
		return TypeInt16, nil
	case reflect.Int32:
		return TypeInt32, nil
	case reflect.Int, reflect.Int64:
		return TypeInt64, nil
	case reflect.Uint8:
		return TypeUint8, nil
	case reflect.Uint16:
		return TypeUint16, nil
	case reflect.Uint32:
		return TypeUint32, nil
	case reflect.Uint, reflect.Uint64:
		return TypeUint64, nil
	case reflect.Float32:
		return TypeFloat32, nil
	case reflect.Float64:
		return TypeFloat64, nil
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return TypeBytes, nil
		}
	}
	return StructuredType(rt), nil
}

// Marshal encodes a plain Go value. See Of for the category mapping.
func Marshal(c *Codec, x any) ([]byte, error) {
	v, err := Of(x)
	if err != nil {
		return nil, err
	}
	return c.Encode(v)
}

// Unmarshal decodes data into a T. ok is false when data is the null
// sentinel or empty, in which case the zero T is returned.
func Unmarshal[T any](c *Codec, data []byte) (out T, ok bool, err error) {
	rt := reflect.TypeFor[T]()
	t, err := TypeOf(rt)
	if err != nil {
		return out, false, err
	}
	v, err := c.Decode(data, t)
	if err != nil {
		return out, false, err
	}
	if IsNull(v) {
		return out, false, nil
	}
	dst := reflect.New(rt).Elem()
	if err := assign(dst, v); err != nil {
		return out, false, fmt.Errorf("value: unmarshal into %s: %w", rt, err)
	}
	return dst.Interface().(T), true, nil
}

func assign(dst reflect.Value, v Value) error {
	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	switch v := v.(type) {
	case String:
		dst.SetString(string(v))
	case Bytes:
		dst.SetBytes(append([]byte(nil), v...))
	case Bool:
		dst.SetBool(bool(v))
	case Int8:
		dst.SetInt(int64(v))
	case Int16:
		dst.SetInt(int64(v))
	case Int32:
		dst.SetInt(int64(v))
	case Int64:
		dst.SetInt(int64(v))
	case Char:
		dst.SetInt(int64(v))
	case Uint8:
		dst.SetUint(uint64(v))
	case Uint16:
		dst.SetUint(uint64(v))
	case Uint32:
		dst.SetUint(uint64(v))
	case Uint64:
		dst.SetUint(uint64(v))
	case Float32:
		dst.SetFloat(float64(v))
	case Float64:
		dst.SetFloat(float64(v))
	case Decimal:
		if dst.Type() == valueDecimalType {
			dst.Set(reflect.ValueOf(v))
		} else {
			dst.Set(reflect.ValueOf(v.Decimal))
		}
	case Timestamp:
		dst.Set(reflect.ValueOf(v.Time()).Convert(dst.Type()))
	case UniqueID:
		dst.Set(reflect.ValueOf(v.UUID()).Convert(dst.Type()))
	case EnumValue:
		u, ok := dst.Addr().Interface().(encoding.TextUnmarshaler)
		if !ok {
			return fmt.Errorf("%s does not implement encoding.TextUnmarshaler: %w", dst.Type(), ErrInvalidType)
		}
		if err := u.UnmarshalText([]byte(v.Name)); err != nil {
			return err
		}
	case Structured:
		if v.V != nil {
			dst.Set(reflect.ValueOf(v.V))
		}
	default:
		return fmt.Errorf("unsupported value %T: %w", v, ErrInvalidType)
	}
	return nil
}
