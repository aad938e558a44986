package memory

import (
	"context"
	"time"

	"speaksmart-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type QuestionCacheRepository struct {
	cache *cache.Cache
}

var _ contract.IQuestionCacheRepository = (*QuestionCacheRepository)(nil)

// NewQuestionCacheRepository keeps entries for ttl. A ttl of zero keeps them
// for the life of the process.
func NewQuestionCacheRepository(ttl time.Duration) *QuestionCacheRepository {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = 10 * time.Minute
	}
	return &QuestionCacheRepository{
		cache: cache.New(expiration, cleanup),
	}
}

func (r *QuestionCacheRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	if x, found := r.cache.Get(key); found {
		return x.([]byte), true, nil
	}
	return nil, false, nil
}

func (r *QuestionCacheRepository) Set(_ context.Context, key string, value []byte) error {
	r.cache.Set(key, value, cache.DefaultExpiration)
	return nil
}

func (r *QuestionCacheRepository) Len() int {
	return r.cache.ItemCount()
}
