package kibble

import "context"

// Backend is a byte-level set store. Members are compared byte for byte and
// adding a member that is already present is not counted. Reading a key that
// was never written yields an empty result, not an error. Implementations
// return ErrInvalidKey for an empty key and must be safe for concurrent use.
type Backend interface {
	SAdd(ctx context.Context, key string, members ...[]byte) (int64, error)
	SRem(ctx context.Context, key string, members ...[]byte) (int64, error)
	SIsMember(ctx context.Context, key string, member []byte) (bool, error)
	SMembers(ctx context.Context, key string) ([][]byte, error)
	SCard(ctx context.Context, key string) (int64, error)
	Close() error
}
