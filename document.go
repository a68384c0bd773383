package humdesk

import (
	"context"
	"io"
)

// File is a document stored on the backend.
type File struct {
	Name string
	Size int64
}

// DocumentService manages stored documents.
type DocumentService interface {
	ListFiles(ctx context.Context) ([]File, error)
	// DownloadFile returns the file content. The caller closes it.
	DownloadFile(ctx context.Context, name string) (io.ReadCloser, error)
	// UploadFiles sends all files in one request without progress tracking.
	UploadFiles(ctx context.Context, files ...UploadFile) (UploadResult, error)
}
