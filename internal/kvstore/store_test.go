package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRedis struct {
	values map[string]string
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func newSQLStore(t *testing.T, maxValueBytes int) *SQLStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&Entry{}))
	store, err := NewSQLStore(SQLStoreConfig{
		Database:      db,
		MaxValueBytes: maxValueBytes,
		Clock:         func() time.Time { return time.Unix(1700000000, 0) },
	})
	require.NoError(t, err)
	return store
}

func storesUnderTest(t *testing.T, maxValueBytes int) map[string]Store {
	t.Helper()
	redisStore, err := NewRedisStore(RedisStoreConfig{
		Client:        newFakeRedis(),
		KeyPrefix:     "shelves:",
		MaxValueBytes: maxValueBytes,
	})
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(maxValueBytes),
		"sql":    newSQLStore(t, maxValueBytes),
		"redis":  redisStore,
	}
}

func TestStoresRoundTripValues(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t, 0) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "library_books")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, store.Set(ctx, "library_books", `[{"id":"1"}]`))
			require.NoError(t, store.Set(ctx, "library_books", `[{"id":"2"}]`))

			value, ok, err := store.Get(ctx, "library_books")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, `[{"id":"2"}]`, value)

			require.NoError(t, store.Remove(ctx, "library_books"))
			_, ok, err = store.Get(ctx, "library_books")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, store.Remove(ctx, "never-written"))
		})
	}
}

func TestStoresRejectOversizedValues(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t, 8) {
		t.Run(name, func(t *testing.T) {
			err := store.Set(ctx, "user_favorites", strings.Repeat("x", 9))
			require.ErrorIs(t, err, ErrQuotaExceeded)
			require.NoError(t, store.Set(ctx, "user_favorites", "[]"))
		})
	}
}

func TestStoresRejectInvalidKeys(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t, 0) {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, store.Set(ctx, " ", "[]"), ErrInvalidKey)
			_, _, err := store.Get(ctx, strings.Repeat("k", maxKeyLength+1))
			require.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestRedisStorePrefixesKeys(t *testing.T) {
	client := newFakeRedis()
	store, err := NewRedisStore(RedisStoreConfig{Client: client, KeyPrefix: "shelves:"})
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "library_books", "[]"))
	require.Contains(t, client.values, "shelves:library_books")
}

func TestRedisStorePropagatesWriteFailures(t *testing.T) {
	client := newFakeRedis()
	client.setErr = errors.New("OOM command not allowed")
	store, err := NewRedisStore(RedisStoreConfig{Client: client})
	require.NoError(t, err)

	err = store.Set(context.Background(), "library_books", "[]")
	require.Error(t, err)
	require.Contains(t, err.Error(), "OOM")
}

func TestNewStoresRequireDependencies(t *testing.T) {
	_, err := NewSQLStore(SQLStoreConfig{})
	require.Error(t, err)
	_, err = NewRedisStore(RedisStoreConfig{})
	require.Error(t, err)
}
