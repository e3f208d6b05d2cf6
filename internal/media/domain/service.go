package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service interface {
	// PresignUpload checks the upload entitlement against the denormalized
	// image count and mints a short-lived upload URL.
	PresignUpload(ctx context.Context, req PresignUploadRequest) (*PresignUploadResponse, error)

	// Apply executes one dish image transition: object delete where needed
	// plus the matching atomic count adjustment. It is the only code path
	// that mutates image_count, together with RemoveAll. Callers pass the
	// transaction handle the row mutation runs on, so the count and the
	// row commit or roll back together.
	Apply(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, oldURL, newURL *string) error

	// RemoveAll batch-deletes the stored objects behind the given URLs.
	// Any per-key failure aborts with StorageInconsistencyError before the
	// count is touched; on success the count drops by the number deleted,
	// written through the supplied handle.
	RemoveAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, urls []string) (int, error)
}

type PresignUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type PresignUploadResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidFilename = errors.New("invalid_filename")
	ErrTenantNotFound  = errors.New("restaurant_not_found")
)

// ErrStorageInconsistency marks a partial batch-delete failure. Match with
// errors.Is; the concrete StorageInconsistencyError lists the failed keys.
var ErrStorageInconsistency = errors.New("storage_inconsistency")

type StorageInconsistencyError struct {
	Failed []KeyError
}

func (e *StorageInconsistencyError) Error() string {
	keys := make([]string, 0, len(e.Failed))
	for _, failure := range e.Failed {
		keys = append(keys, failure.Key)
	}
	return fmt.Sprintf("storage_inconsistency: %s", strings.Join(keys, ", "))
}

func (e *StorageInconsistencyError) Unwrap() error { return ErrStorageInconsistency }

// FailedKeys lists the keys the store refused to delete.
func (e *StorageInconsistencyError) FailedKeys() []string {
	keys := make([]string, 0, len(e.Failed))
	for _, failure := range e.Failed {
		keys = append(keys, failure.Key)
	}
	return keys
}
