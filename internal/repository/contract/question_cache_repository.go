package contract

import (
	"context"
)

// IQuestionCacheRepository memoises generated question sets. Values are the
// JSON encoding of the set so that a hit is byte-identical to the first response.
type IQuestionCacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
