package domain

import (
	"context"
	"fmt"
	"time"
)

// KeyError is one object the store failed to delete.
type KeyError struct {
	Key     string
	Code    string
	Message string
}

func (e KeyError) Error() string {
	return fmt.Sprintf("object %s: %s %s", e.Key, e.Code, e.Message)
}

// ObjectStore abstracts the image bucket. DeleteBatch reports per-key
// failures instead of collapsing them into one error so callers can abort
// without losing track of what survived.
type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
	DeleteBatch(ctx context.Context, keys []string) (deleted []string, failed []KeyError, err error)
}
