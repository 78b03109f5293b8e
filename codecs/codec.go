// Package codecs provides the structured serializers the value codec
// delegates composite values to.
package codecs

import (
	"fmt"
	"sort"
	"strings"
)

// Codec marshals and unmarshals values to and from bytes. Implementations
// must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var byName = map[string]func() Codec{
	"json":    func() Codec { return NewJSONIter() },
	"cbor":    func() Codec { return NewCBOR() },
	"msgpack": func() Codec { return NewMsgPack() },
}

// ByName returns the serializer registered under name: json, cbor or msgpack.
func ByName(name string) (Codec, error) {
	ctor, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("codecs: unknown serializer %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered serializer names in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
