package gemini

import (
	"context"
	"strings"

	"github.com/swaroski/ai-shelves/internal/kvstore"
)

// apiKeyStorageKey is where a runtime-supplied key is persisted.
const apiKeyStorageKey = "gemini_api_key"

// KeyProvider resolves the API key for each call.
type KeyProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey serves a fixed key, typically from configuration.
type StaticKey string

func (k StaticKey) APIKey(context.Context) (string, error) {
	return strings.TrimSpace(string(k)), nil
}

// StoredKey prefers a key saved in the key-value store and falls back to the configured one.
type StoredKey struct {
	store    kvstore.Store
	fallback string
}

// NewStoredKey constructs a StoredKey over the given store.
func NewStoredKey(store kvstore.Store, fallback string) *StoredKey {
	return &StoredKey{store: store, fallback: strings.TrimSpace(fallback)}
}

func (k *StoredKey) APIKey(ctx context.Context) (string, error) {
	value, ok, err := k.store.Get(ctx, apiKeyStorageKey)
	if err != nil {
		return "", err
	}
	if ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}
	return k.fallback, nil
}

// Save persists a key. An empty key removes the stored value so the configured fallback applies again.
func (k *StoredKey) Save(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return k.store.Remove(ctx, apiKeyStorageKey)
	}
	return k.store.Set(ctx, apiKeyStorageKey, apiKey)
}
