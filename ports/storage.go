package ports

import (
	"context"
	"io"

	"gowoa/domain/core"
)

// Upload is a client file to persist for the analysis process.
type Upload struct {
	RequestID    core.RequestID
	OriginalName string
	Body         io.Reader
	// KeepName stores the sanitized original base name unchanged, in a
	// per-request directory, so tools that match files by name still can.
	KeepName bool
}

// StoredFile is an uploaded file persisted for the analysis process.
type StoredFile struct {
	// Path is absolute so the child process can open it from any workdir.
	Path         string
	OriginalName string
	SizeBytes    int64
}

// UploadStore persists client uploads where the analysis process can read them.
type UploadStore interface {
	Save(ctx context.Context, upload Upload) (*StoredFile, error)
	Remove(ctx context.Context, file *StoredFile) error
}
