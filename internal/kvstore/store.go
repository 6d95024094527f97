// Package kvstore provides the string key-value substrate every record store persists through.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const maxKeyLength = 190

var (
	// ErrInvalidKey indicates that a key is empty or exceeds storage bounds.
	ErrInvalidKey = errors.New("kvstore: invalid key")
	// ErrQuotaExceeded indicates that a value is larger than the store accepts.
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")
	// ErrCorruptValue indicates that a stored value could not be decoded.
	ErrCorruptValue = errors.New("kvstore: corrupt value")
)

// Store is a synchronous get/set/remove string store.
// A Set replaces the whole previous value; there are no transactions across keys.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidKey, maxKeyLength)
	}
	return nil
}

func checkQuota(key, value string, maxValueBytes int) error {
	if maxValueBytes > 0 && len(value) > maxValueBytes {
		return fmt.Errorf("%w: %s holds %d bytes, limit %d", ErrQuotaExceeded, key, len(value), maxValueBytes)
	}
	return nil
}
