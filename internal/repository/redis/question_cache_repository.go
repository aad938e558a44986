package redis

import (
	"context"
	"errors"
	"time"

	"speaksmart-be/internal/repository/contract"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "speaksmart:questions:"

type QuestionCacheRepository struct {
	rdb *goredis.Client
	ttl time.Duration
}

var _ contract.IQuestionCacheRepository = (*QuestionCacheRepository)(nil)

func NewQuestionCacheRepository(rdb *goredis.Client, ttl time.Duration) *QuestionCacheRepository {
	return &QuestionCacheRepository{rdb: rdb, ttl: ttl}
}

func (r *QuestionCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores value with the repository TTL; zero means no expiry.
func (r *QuestionCacheRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, keyPrefix+key, value, r.ttl).Err()
}

// NewClient parses a redis:// URL, falling back to treating it as host:port.
func NewClient(redisURL string) *goredis.Client {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		opt = &goredis.Options{Addr: redisURL}
	}
	return goredis.NewClient(opt)
}
