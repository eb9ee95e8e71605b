// internal/storage/storage.go
package storage

import "context"

// ObjectInfo is metadata for one stored object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the upload
// archive needs. Archiving is best-effort: it records what was uploaded,
// it never gates ingestion.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, data []byte, contentType string) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

type noopStorage struct{}

// NewNoopStorage returns a storage that silently drops everything, used
// when no object store is configured.
func NewNoopStorage() ObjectStorage {
	return noopStorage{}
}

func (noopStorage) UploadObject(context.Context, string, []byte, string) error {
	return nil
}

func (noopStorage) ListObjects(context.Context, string) ([]ObjectInfo, error) {
	return nil, nil
}
