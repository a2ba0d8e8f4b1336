package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"sareeledger-backend/logger"
)

// ErrStorageDisabled is returned by the no-op store used when no bucket is
// configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type bucketStore struct {
	log       *logger.Logger
	client    *storage.Client
	bucket    string
	cdnDomain string
}

func NewBucketStore(ctx context.Context, log *logger.Logger, bucket, cdnDomain string, opts ...option.ClientOption) (ObjectStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name required")
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &bucketStore{
		log:       log.With("service", "BucketStore", "bucket", bucket),
		client:    client,
		bucket:    bucket,
		cdnDomain: cdnDomain,
	}, nil
}

func (b *bucketStore) Upload(ctx context.Context, key string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	if ct := ContentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	b.log.Debug("object uploaded", "key", key)
	return nil
}

func (b *bucketStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := b.client.Bucket(b.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete GCS object %q: %w", key, err)
	}
	return nil
}

func (b *bucketStore) PublicURL(key string) string {
	if b.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", b.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucket, key)
}

type disabledStore struct{}

func NewDisabledStore() ObjectStore { return disabledStore{} }

func (disabledStore) Upload(context.Context, string, io.Reader) error { return ErrStorageDisabled }
func (disabledStore) Delete(context.Context, string) error            { return ErrStorageDisabled }
func (disabledStore) PublicURL(key string) string                     { return key }

func ContentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return ""
	}
}
