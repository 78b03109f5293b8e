package codecs

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// MsgPackCodec writes MessagePack in a canonical form: the entries of every
// map, including structs encoded as maps, are ordered by their encoded key
// bytes, so equal values produce equal bytes whatever their map types.
type MsgPackCodec struct{}

func NewMsgPack() *MsgPackCodec {
	return &MsgPackCodec{}
}

func (c *MsgPackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// SetSortMapKeys only covers map[string]string, map[string]bool and
	// map[string]any; every other map is written in range order.
	out, err := canonicalMsgPack(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("msgpack: canonicalize: %w", err)
	}
	return out, nil
}

func (c *MsgPackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

type msgpackEntry struct {
	key, val []byte
}

func canonicalMsgPack(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data))
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	if err := copyCanonical(dec, msgpack.NewEncoder(&buf), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// copyCanonical copies one value from dec to buf, sorting map entries on the
// way. enc writes length headers into buf.
func copyCanonical(dec *msgpack.Decoder, enc *msgpack.Encoder, buf *bytes.Buffer) error {
	c, err := dec.PeekCode()
	if err != nil {
		return err
	}
	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return err
		}
		entries := make([]msgpackEntry, n)
		for i := range entries {
			k, err := dec.DecodeRaw()
			if err != nil {
				return err
			}
			v, err := dec.DecodeRaw()
			if err != nil {
				return err
			}
			if entries[i].key, err = canonicalMsgPack(k); err != nil {
				return err
			}
			if entries[i].val, err = canonicalMsgPack(v); err != nil {
				return err
			}
		}
		slices.SortFunc(entries, func(a, b msgpackEntry) int {
			return bytes.Compare(a.key, b.key)
		})
		if err := enc.EncodeMapLen(n); err != nil {
			return err
		}
		for _, e := range entries {
			buf.Write(e.key)
			buf.Write(e.val)
		}
		return nil
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(n); err != nil {
			return err
		}
		for range n {
			if err := copyCanonical(dec, enc, buf); err != nil {
				return err
			}
		}
		return nil
	default:
		raw, err := dec.DecodeRaw()
		if err != nil {
			return err
		}
		buf.Write(raw)
		return nil
	}
}
