package storage

import (
	"context"
	"io"
	"time"
)

// UploadInput describes a single resume file to store.
type UploadInput struct {
	Bucket      string
	KeyPrefix   string
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Service stores and serves applicant resumes in remote object storage.
type Service interface {
	UploadResume(ctx context.Context, input UploadInput) (string, error)
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}
