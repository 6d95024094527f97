package kvstore

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadCollection reads the JSON array stored under key.
// The boolean reports whether the key existed at all.
func LoadCollection[T any](ctx context.Context, store Store, key string) ([]T, bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return []T{}, false, nil
	}
	items := []T{}
	if err := codec.UnmarshalFromString(raw, &items); err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, true, nil
}

// SaveCollection replaces the value under key with the JSON encoding of items.
func SaveCollection[T any](ctx context.Context, store Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	encoded, err := codec.MarshalToString(items)
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", key, err)
	}
	return store.Set(ctx, key, encoded)
}
