// Package upload stores client images on local disk for the analysis tool.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gowoa/domain/core"
	"gowoa/internal"
	"gowoa/internal/errors"
	"gowoa/ports"
)

// LocalStore writes uploads under a single root directory
type LocalStore struct {
	root     string
	maxBytes int64
	logger   *internal.Logger
}

var _ ports.UploadStore = (*LocalStore)(nil)

// NewLocalStore creates the root directory if needed. maxBytes <= 0 disables
// the size limit.
func NewLocalStore(root string, maxBytes int64, logger *internal.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.UploadFailed("invalid upload directory", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.UploadFailed("cannot create upload directory "+abs, err)
	}
	return &LocalStore{root: abs, maxBytes: maxBytes, logger: logger}, nil
}

// Root returns the absolute upload directory
func (s *LocalStore) Root() string { return s.root }

// Save copies the upload to disk. Empty and oversized uploads are rejected
// and leave nothing behind.
func (s *LocalStore) Save(ctx context.Context, up ports.Upload) (*ports.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.UploadFailed("upload canceled", err)
	}
	if up.RequestID == "" {
		up.RequestID = core.NewRequestID()
	}

	path, err := s.target(up)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.UploadFailed("cannot create upload directory", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, errors.UploadFailed("cannot create upload file", err)
	}

	body := up.Body
	if s.maxBytes > 0 {
		body = io.LimitReader(body, s.maxBytes+1)
	}
	n, copyErr := io.Copy(file, body)
	closeErr := file.Close()

	var failure error
	switch {
	case copyErr != nil:
		failure = errors.UploadFailed("failed to store upload", copyErr)
	case closeErr != nil:
		failure = errors.UploadFailed("failed to store upload", closeErr)
	case n == 0:
		failure = errors.InvalidInput("uploaded file is empty")
	case s.maxBytes > 0 && n > s.maxBytes:
		failure = errors.InvalidInput(fmt.Sprintf("uploaded file exceeds %d bytes", s.maxBytes))
	}
	if failure != nil {
		s.cleanup(path, up.KeepName)
		return nil, failure
	}

	s.logger.Debug("[Upload] stored %s (%d bytes) at %s", up.OriginalName, n, path)
	return &ports.StoredFile{Path: path, OriginalName: up.OriginalName, SizeBytes: n}, nil
}

// Remove deletes a stored file and its per-request directory when empty.
func (s *LocalStore) Remove(_ context.Context, file *ports.StoredFile) error {
	if file == nil {
		return nil
	}
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		return errors.UploadFailed("failed to remove upload", err)
	}
	if dir := filepath.Dir(file.Path); dir != s.root {
		_ = os.Remove(dir)
	}
	return nil
}

func (s *LocalStore) target(up ports.Upload) (string, error) {
	if !up.KeepName {
		return filepath.Join(s.root, core.UploadFileName(up.RequestID, up.OriginalName)), nil
	}
	name := core.SanitizeFileName(up.OriginalName)
	if name == "" || name == "." || name == ".." {
		return "", errors.InvalidInput(fmt.Sprintf("invalid upload file name %q", up.OriginalName))
	}
	return filepath.Join(s.root, up.RequestID.String(), name), nil
}

func (s *LocalStore) cleanup(path string, keepName bool) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("[Upload] failed to remove partial upload %s: %v", path, err)
	}
	if keepName {
		_ = os.Remove(filepath.Dir(path))
	}
}
