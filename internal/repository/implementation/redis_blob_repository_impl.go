package implementation

import (
	"context"
	"errors"

	"ai-notecapture-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "notecapture:"

type RedisBlobRepositoryImpl struct {
	rdb *redis.Client
}

func NewRedisBlobRepository(rdb *redis.Client) contract.BlobRepository {
	return &RedisBlobRepositoryImpl{
		rdb: rdb,
	}
}

func (r *RedisBlobRepositoryImpl) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (r *RedisBlobRepositoryImpl) Put(ctx context.Context, key string, value []byte) error {
	// No expiration: blobs are the durable copy.
	return r.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

func (r *RedisBlobRepositoryImpl) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+key).Err()
}
