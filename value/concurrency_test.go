package value_test

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/ripkitten-co/kibble/codecs"
	"github.com/ripkitten-co/kibble/value"
)

type gauge struct {
	Name   string         `json:"name"`
	Points map[string]int `json:"points"`
}

func TestCodec_ConcurrentRoundTrip(t *testing.T) {
	const workers, rounds = 16, 50

	serializers := map[string]codecs.Codec{
		"json":    codecs.NewJSONIter(),
		"cbor":    codecs.NewCBOR(),
		"msgpack": codecs.NewMsgPack(),
	}
	for sname, s := range serializers {
		t.Run(sname, func(t *testing.T) {
			c := value.NewCodec(value.WithSerializer(s))
			cases := roundTripCases()
			g := gauge{Name: "g", Points: map[string]int{"a": 1, "b": 2, "c": 3, "d": 4}}
			want, err := value.Marshal(c, g)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			var wg sync.WaitGroup
			for w := range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := range rounds {
						tt := cases[(w+i)%len(cases)]
						data, err := c.Encode(tt.v)
						if err != nil {
							t.Errorf("%s: encode: %v", tt.name, err)
							return
						}
						got, err := c.Decode(data, tt.typ)
						if err != nil {
							t.Errorf("%s: decode: %v", tt.name, err)
							return
						}
						if !equalValues(tt.v, got) {
							t.Errorf("%s: got %#v, want %#v", tt.name, got, tt.v)
							return
						}

						data, err = value.Marshal(c, g)
						if err != nil {
							t.Errorf("gauge: marshal: %v", err)
							return
						}
						if !bytes.Equal(data, want) {
							t.Errorf("gauge: encoding differs between goroutines: %x vs %x", data, want)
							return
						}
						back, ok, err := value.Unmarshal[*gauge](c, data)
						if err != nil || !ok || back.Name != "g" || len(back.Points) != 4 {
							t.Errorf("gauge: unmarshal got (%v, %v, %v)", back, ok, err)
							return
						}

						if _, _, err := value.Unmarshal[time.Time](c, []byte("2024-01-02T03:04:05.0000000")); err != nil {
							t.Errorf("time: unmarshal: %v", err)
							return
						}
						if _, _, err := value.Unmarshal[Color](c, []byte("blue")); err != nil {
							t.Errorf("color: unmarshal: %v", err)
							return
						}
					}
				}()
			}
			wg.Wait()
		})
	}
}
