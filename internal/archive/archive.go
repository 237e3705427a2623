// Package archive keeps raw tutorial payloads in an S3-compatible object
// store so PDF tutorials can be re-read without downloading them again.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver stores a payload under a key.
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) error
}

// Options configures a MinioArchiver.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// MinioArchiver is an Archiver backed by MinIO or any S3-compatible store.
type MinioArchiver struct {
	client *minio.Client
	bucket string
}

var _ Archiver = (*MinioArchiver)(nil)

// NewMinioArchiver validates opts and builds the client. No request is
// made until EnsureBucket or Archive.
func NewMinioArchiver(opts Options) (*MinioArchiver, error) {
	if strings.TrimSpace(opts.Endpoint) == "" {
		return nil, errors.New("archive endpoint is required")
	}
	if strings.TrimSpace(opts.AccessKey) == "" || strings.TrimSpace(opts.SecretKey) == "" {
		return nil, errors.New("archive access key and secret key are required")
	}
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("archive bucket is required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating archive client: %w", err)
	}

	return &MinioArchiver{client: client, bucket: opts.Bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (a *MinioArchiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", a.bucket, err)
	}
	slog.Info("created archive bucket", "bucket", a.bucket)
	return nil
}

func (a *MinioArchiver) Archive(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("archiving %s: %w", key, err)
	}
	slog.Debug("archived object", "bucket", a.bucket, "key", key, "bytes", len(data))
	return nil
}

// Bucket returns the configured bucket name.
func (a *MinioArchiver) Bucket() string {
	return a.bucket
}
