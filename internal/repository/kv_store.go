package repository

import "context"

// KVStore is the flat key/value persistence contract. Values are JSON encoded.
type KVStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}
