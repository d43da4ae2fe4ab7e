package contract

import "context"

// BlobRepository is a keyed store of opaque JSON documents.
// Get returns (nil, nil) when the key is absent.
type BlobRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
