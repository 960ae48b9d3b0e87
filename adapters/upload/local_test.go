package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowoa/domain/core"
	"gowoa/internal"
	"gowoa/internal/errors"
	"gowoa/ports"
)

func newStore(t *testing.T, max int64) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"), max, internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)
	return s
}

func TestSaveUniqueName(t *testing.T) {
	s := newStore(t, 0)
	id := core.NewRequestID()

	got, err := s.Save(context.Background(), ports.Upload{
		RequestID:    id,
		OriginalName: "../../etc/scan one.png",
		Body:         strings.NewReader("pixels"),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.Root(), "img_"+id.String()+"-scanone.png"), got.Path)
	assert.Equal(t, int64(6), got.SizeBytes)
	data, err := os.ReadFile(got.Path)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	require.NoError(t, s.Remove(context.Background(), got))
	assert.NoFileExists(t, got.Path)
}

func TestSaveKeepName(t *testing.T) {
	s := newStore(t, 0)
	id := core.NewRequestID()

	got, err := s.Save(context.Background(), ports.Upload{
		RequestID: id, OriginalName: "mdb001.pgm", Body: strings.NewReader("x"), KeepName: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "mdb001.pgm", filepath.Base(got.Path))
	assert.Equal(t, id.String(), filepath.Base(filepath.Dir(got.Path)))

	require.NoError(t, s.Remove(context.Background(), got))
	assert.NoDirExists(t, filepath.Dir(got.Path))

	_, err = s.Save(context.Background(), ports.Upload{OriginalName: "..", Body: strings.NewReader("x"), KeepName: true})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestSaveRejectsEmptyAndOversized(t *testing.T) {
	s := newStore(t, 4)

	_, err := s.Save(context.Background(), ports.Upload{OriginalName: "a.png", Body: strings.NewReader("")})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = s.Save(context.Background(), ports.Upload{OriginalName: "b.png", Body: strings.NewReader("12345")})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads leave nothing behind")

	got, err := s.Save(context.Background(), ports.Upload{OriginalName: "c.png", Body: strings.NewReader("1234")})
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.SizeBytes)
}

func TestSaveCanceled(t *testing.T) {
	s := newStore(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Save(ctx, ports.Upload{OriginalName: "a.png", Body: strings.NewReader("x")})
	assert.Equal(t, errors.CodeUploadFailed, errors.GetCode(err))
}

func TestRemoveMissingIsNoop(t *testing.T) {
	s := newStore(t, 0)
	assert.NoError(t, s.Remove(context.Background(), &ports.StoredFile{Path: filepath.Join(s.Root(), "gone.png")}))
	assert.NoError(t, s.Remove(context.Background(), nil))
}
