package memory

import (
	"context"

	"ai-notecapture-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// BlobRepository keeps blobs in process memory. It backs STORAGE_DRIVER=memory
// and the tests.
type BlobRepository struct {
	cache *cache.Cache
}

func NewBlobRepository() contract.BlobRepository {
	return &BlobRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *BlobRepository) Get(_ context.Context, key string) ([]byte, error) {
	x, found := r.cache.Get(key)
	if !found {
		return nil, nil
	}
	stored := x.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *BlobRepository) Put(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	r.cache.Set(key, stored, cache.NoExpiration)
	return nil
}

func (r *BlobRepository) Delete(_ context.Context, key string) error {
	r.cache.Delete(key)
	return nil
}
