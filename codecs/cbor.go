package codecs

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var reflectMapStringAny = reflect.TypeOf(map[string]any(nil))

// CBORCodec writes deterministic CBOR (canonical map key order, definite
// lengths) so set members compare equal byte-for-byte.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCBOR() *CBORCodec {
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	enc, err := encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("codecs: cbor encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthAllowed,
		DefaultMapType:    reflectMapStringAny,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	dec, err := decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("codecs: cbor decoder mode: %v", err))
	}
	return &CBORCodec{enc: enc, dec: dec}
}

func (c *CBORCodec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c *CBORCodec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
