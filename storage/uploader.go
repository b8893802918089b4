package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key  string
	ETag string
}

// FileUploader archives blobs to object storage. A nil uploader means
// archival is unconfigured and skipped.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
}
