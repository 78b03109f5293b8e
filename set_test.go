package kibble_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ripkitten-co/kibble"
	"github.com/ripkitten-co/kibble/backends/memory"
	"github.com/ripkitten-co/kibble/codecs"
	"github.com/ripkitten-co/kibble/value"
)

type customItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newStore(t *testing.T, opts ...kibble.Option) *kibble.Store {
	t.Helper()
	s := kibble.New(memory.NewBackend(), opts...)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSet_SaveAndCheckMembership(t *testing.T) {
	ctx := context.Background()
	set := kibble.Set[customItem](newStore(t), "custom_1")

	added, err := set.Add(ctx,
		customItem{ID: 1, Name: "a"},
		customItem{ID: 2, Name: "b"},
		customItem{ID: 3, Name: "c"},
	)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added != 3 {
		t.Errorf("added: got %d, want 3", added)
	}

	ok, err := set.Contains(ctx, customItem{ID: 1, Name: "a"})
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if !ok {
		t.Error("{1 a} should be a member")
	}

	ok, err = set.Contains(ctx, customItem{ID: 1, Name: "d"})
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if ok {
		t.Error("{1 d} should not be a member")
	}

	members, err := set.Members(ctx)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	slices.SortFunc(members, func(a, b customItem) int { return a.ID - b.ID })
	want := []customItem{{1, "a"}, {2, "b"}, {3, "c"}}
	if !slices.Equal(members, want) {
		t.Errorf("members: got %v, want %v", members, want)
	}
}

func TestSet_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	set := kibble.Set[int32](newStore(t), "ints")

	if n, err := set.Add(ctx, 1, 2, 2); err != nil || n != 2 {
		t.Fatalf("first add: got (%d, %v)", n, err)
	}
	if n, err := set.Add(ctx, 2, 3); err != nil || n != 1 {
		t.Fatalf("second add: got (%d, %v)", n, err)
	}
	if n, err := set.Len(ctx); err != nil || n != 3 {
		t.Fatalf("len: got (%d, %v)", n, err)
	}
	if n, err := set.Add(ctx); err != nil || n != 0 {
		t.Fatalf("empty add: got (%d, %v)", n, err)
	}
}

func TestSet_Remove(t *testing.T) {
	ctx := context.Background()
	set := kibble.Set[string](newStore(t), "names")

	if _, err := set.Add(ctx, "a", "b", "c"); err != nil {
		t.Fatalf("add: %v", err)
	}
	n, err := set.Remove(ctx, "a", "missing")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n != 1 {
		t.Errorf("removed: got %d, want 1", n)
	}
	got, err := set.Members(ctx)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("got %v", got)
	}
}

func TestSet_MembersOfMissingKeyIsEmpty(t *testing.T) {
	got, err := kibble.Set[uuid.UUID](newStore(t), "nothing").Members(context.Background())
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestSet_NullMemberDecodesToZero(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	set := kibble.Set[*customItem](s, "nullable")
	if _, err := set.Add(ctx, nil, &customItem{ID: 1, Name: "a"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	ok, err := set.Contains(ctx, nil)
	if err != nil || !ok {
		t.Fatalf("contains nil: got (%v, %v)", ok, err)
	}

	members, err := set.Members(ctx)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	// the null sentinel sorts first in the memory backend
	if members[0] != nil {
		t.Errorf("null member: got %+v, want nil", members[0])
	}
	if *members[1] != (customItem{ID: 1, Name: "a"}) {
		t.Errorf("got %+v", members[1])
	}
}

type shade int

const (
	light shade = iota
	dark
)

var shadeEnum = value.NewEnum("Shade", "Light", "Dark")

func (s shade) EnumDescriptor() *value.Enum { return shadeEnum }

func (s shade) String() string { return shadeEnum.Constants()[s] }

func (s *shade) UnmarshalText(text []byte) error {
	i, ok := shadeEnum.Ordinal(string(text))
	if !ok {
		return fmt.Errorf("unknown shade %q", text)
	}
	*s = shade(i)
	return nil
}

func TestSet_PointerMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("enum", func(t *testing.T) {
		set := kibble.Set[*shade](newStore(t), "shades")
		d := dark
		if _, err := set.Add(ctx, nil, &d); err != nil {
			t.Fatalf("add: %v", err)
		}
		members, err := set.Members(ctx)
		if err != nil {
			t.Fatalf("members: %v", err)
		}
		if len(members) != 2 || members[0] != nil || members[1] == nil || *members[1] != dark {
			t.Errorf("got %v", members)
		}
	})

	t.Run("value", func(t *testing.T) {
		s := newStore(t)
		set := kibble.Set[*value.String](s, "strings")
		x := value.String("x")
		if _, err := set.Add(ctx, &x, nil); err != nil {
			t.Fatalf("add: %v", err)
		}
		ok, err := set.Contains(ctx, &x)
		if err != nil || !ok {
			t.Fatalf("contains: got (%v, %v)", ok, err)
		}
		raw, err := s.Backend().SMembers(ctx, "strings")
		if err != nil {
			t.Fatalf("smembers: %v", err)
		}
		if len(raw) != 2 || string(raw[0]) != "\x00" || string(raw[1]) != "x" {
			t.Errorf("got %q", raw)
		}
	})
}

func TestSet_AddRejectsWholeBatchOnEncodeFailure(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	set := kibble.Set[value.Char](s, "chars")

	_, err := set.Add(ctx, 'a', value.Char(0xD800), 'b')
	var be *kibble.BatchError
	if !errors.As(err, &be) {
		t.Fatalf("got %v, want *BatchError", err)
	}
	if be.Total != 3 || len(be.Errors) != 1 || be.Errors[1] == nil {
		t.Errorf("got %+v", be)
	}
	if !errors.Is(err, value.ErrInvalidValue) {
		t.Error("batch should wrap ErrInvalidValue")
	}

	n, err := set.Len(ctx)
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 0 {
		t.Errorf("partial batch was written: %d members", n)
	}
}

func TestSet_AddRejectsMembersThatLookLikeNull(t *testing.T) {
	ctx := context.Background()
	set := kibble.Set[string](newStore(t), "strings")

	_, err := set.Add(ctx, "a", "\x00")
	if !errors.Is(err, value.ErrSerializationConflict) {
		t.Fatalf("got %v, want ErrSerializationConflict", err)
	}
	var be *kibble.BatchError
	if !errors.As(err, &be) || be.Errors[1] == nil {
		t.Errorf("got %v, want failure at position 1", err)
	}
	n, err := set.Len(ctx)
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 0 {
		t.Errorf("partial batch was written: %d members", n)
	}
}

func TestSet_MembersReportsUndecodableMembers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if _, err := s.Backend().SAdd(ctx, "mixed", []byte("7"), []byte("seven")); err != nil {
		t.Fatalf("sadd: %v", err)
	}
	_, err := kibble.Set[int64](s, "mixed").Members(ctx)
	if !errors.Is(err, value.ErrMalformedInput) {
		t.Errorf("got %v, want ErrMalformedInput", err)
	}
	var be *kibble.BatchError
	if !errors.As(err, &be) || len(be.Errors) != 1 {
		t.Errorf("got %v, want a single-failure *BatchError", err)
	}
}

func TestSet_EmptyKey(t *testing.T) {
	_, err := kibble.Set[string](newStore(t), "").Add(context.Background(), "a")
	if !errors.Is(err, kibble.ErrInvalidKey) {
		t.Errorf("got %v, want ErrInvalidKey", err)
	}
}

func TestSet_StoredBytesAreTheValueEncoding(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	ts := time.Date(2024, 3, 5, 7, 8, 9, 123456700, time.UTC)

	if _, err := kibble.Set[time.Time](s, "times").Add(ctx, ts); err != nil {
		t.Fatalf("add: %v", err)
	}
	raw, err := s.Backend().SMembers(ctx, "times")
	if err != nil {
		t.Fatalf("smembers: %v", err)
	}
	if len(raw) != 1 || string(raw[0]) != "2024-03-05T07:08:09.1234567" {
		t.Errorf("got %q", raw)
	}
}

type leaderboard struct {
	Name   string         `json:"name"`
	Scores map[string]int `json:"scores"`
}

func TestSet_MapMembersAreStableAcrossSerializers(t *testing.T) {
	ctx := context.Background()
	doc := leaderboard{
		Name:   "weekly",
		Scores: map[string]int{"ana": 1, "bo": 2, "cy": 3, "di": 4, "ed": 5, "fay": 6},
	}
	for _, name := range codecs.Names() {
		t.Run(name, func(t *testing.T) {
			c, err := codecs.ByName(name)
			if err != nil {
				t.Fatalf("codec: %v", err)
			}
			set := kibble.Set[leaderboard](newStore(t, kibble.WithCodec(c)), "boards")
			for range 20 {
				if _, err := set.Add(ctx, doc); err != nil {
					t.Fatalf("add: %v", err)
				}
			}
			n, err := set.Len(ctx)
			if err != nil {
				t.Fatalf("len: %v", err)
			}
			if n != 1 {
				t.Errorf("len: got %d, want 1", n)
			}
			for range 20 {
				ok, err := set.Contains(ctx, doc)
				if err != nil {
					t.Fatalf("contains: %v", err)
				}
				if !ok {
					t.Fatal("doc should be a member")
				}
			}
		})
	}
}

func TestNew_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("codec", func(t *testing.T) {
		s := newStore(t, kibble.WithCodec(codecs.NewMsgPack()))
		if _, ok := s.Codec().Serializer().(*codecs.MsgPackCodec); !ok {
			t.Fatalf("serializer: got %T", s.Codec().Serializer())
		}
		set := kibble.Set[customItem](s, "packed")
		if _, err := set.Add(ctx, customItem{ID: 1, Name: "a"}); err != nil {
			t.Fatalf("add: %v", err)
		}
		raw, _ := s.Backend().SMembers(ctx, "packed")
		if len(raw) != 1 || bytes.HasPrefix(raw[0], []byte("{")) {
			t.Errorf("member was not msgpack encoded: %q", raw)
		}
	})

	t.Run("value codec wins", func(t *testing.T) {
		vc := value.NewCodec(value.WithSerializer(codecs.NewCBOR()))
		s := newStore(t, kibble.WithCodec(codecs.NewMsgPack()), kibble.WithValueCodec(vc))
		if s.Codec() != vc {
			t.Error("WithValueCodec should take precedence")
		}
	})

	t.Run("logger", func(t *testing.T) {
		var buf bytes.Buffer
		s := newStore(t, kibble.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
		if _, err := kibble.Set[string](s, "logged").Add(ctx, "a", "b"); err != nil {
			t.Fatalf("add: %v", err)
		}
		out := buf.String()
		for _, want := range []string{`"set":"logged"`, `"op":"add"`, `"members":2`, `"added":2`} {
			if !strings.Contains(out, want) {
				t.Errorf("log %s missing %s", out, want)
			}
		}
	})
}
