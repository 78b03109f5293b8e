package codecs

import "testing"

type smallDoc struct {
	Name  string
	Email string
}

type largeDoc struct {
	Name     string
	Email    string
	Bio      string
	Address  string
	Phone    string
	Company  string
	Tags     []string
	Metadata map[string]string
}

var benchLarge = largeDoc{
	Name: "Alice", Email: "alice@test.com", Bio: "Software engineer",
	Address: "123 Main St", Phone: "555-1234", Company: "Acme",
	Tags:     []string{"go", "postgres", "backend"},
	Metadata: map[string]string{"team": "platform", "role": "lead"},
}

func benchMarshal(b *testing.B, c Codec, v any) {
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		_, _ = c.Marshal(v)
	}
}

func benchUnmarshal[T any](b *testing.B, c Codec, v T) {
	data, _ := c.Marshal(v)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		var out T
		_ = c.Unmarshal(data, &out)
	}
}

func BenchmarkJSONIter_Marshal_Small(b *testing.B) {
	benchMarshal(b, NewJSONIter(), smallDoc{Name: "Alice", Email: "alice@test.com"})
}

func BenchmarkJSONIter_Marshal_Large(b *testing.B) {
	benchMarshal(b, NewJSONIter(), benchLarge)
}

func BenchmarkJSONIter_Unmarshal_Large(b *testing.B) {
	benchUnmarshal(b, NewJSONIter(), benchLarge)
}

func BenchmarkCBOR_Marshal_Large(b *testing.B) {
	benchMarshal(b, NewCBOR(), benchLarge)
}

func BenchmarkCBOR_Unmarshal_Large(b *testing.B) {
	benchUnmarshal(b, NewCBOR(), benchLarge)
}

func BenchmarkMsgPack_Marshal_Large(b *testing.B) {
	benchMarshal(b, NewMsgPack(), benchLarge)
}

func BenchmarkMsgPack_Unmarshal_Large(b *testing.B) {
	benchUnmarshal(b, NewMsgPack(), benchLarge)
}
