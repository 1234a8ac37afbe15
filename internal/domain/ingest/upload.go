package ingest

import (
	"bytes"
	"context"
	"io"

	"github.com/okian/fairway/internal/domain/model"
)

// Upload is the file-like input handed to the ingestor.
type Upload interface {
	Filename() string
	ContentType() string
	Size() int64
	// Open returns a fresh reader over the whole file.
	Open() (io.ReadCloser, error)
}

// Saver persists a completed session, assigning its identity.
type Saver interface {
	Save(ctx context.Context, s *model.Session) (*model.Session, error)
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, s *model.Session) (*model.Session, error)

// Save calls f.
func (f SaverFunc) Save(ctx context.Context, s *model.Session) (*model.Session, error) {
	return f(ctx, s)
}

// BytesUpload is an in-memory Upload.
type BytesUpload struct {
	name        string
	contentType string
	data        []byte
}

// NewBytesUpload wraps data as an Upload.
func NewBytesUpload(name, contentType string, data []byte) *BytesUpload {
	return &BytesUpload{name: name, contentType: contentType, data: data}
}

func (u *BytesUpload) Filename() string    { return u.name }
func (u *BytesUpload) ContentType() string { return u.contentType }
func (u *BytesUpload) Size() int64         { return int64(len(u.data)) }

func (u *BytesUpload) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(u.data)), nil
}
