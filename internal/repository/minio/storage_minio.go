package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yathrananda/admin-console/internal/media"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

func NewClient(endpoint, key, secret string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: useSSL,
	})
}

// objectClient is the subset of *minio.Client the store uses.
type objectClient interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
}

type StoreConfig struct {
	Bucket string
	// PublicURL is the externally reachable endpoint, e.g. https://cdn.example.com.
	PublicURL string
	Prefix    string
}

// MediaStore keeps uploads in a MinIO bucket under <prefix>/<yyyy>/<mm>/<uuid><ext>.
type MediaStore struct {
	client     objectClient
	bucket     string
	publicBase string
	prefix     string
	now        func() time.Time
}

var _ ports.MediaStore = (*MediaStore)(nil)

func NewMediaStore(client objectClient, cfg StoreConfig) (*MediaStore, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("minio: bucket is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/")
	if base == "" {
		return nil, errors.New("minio: public url is required")
	}
	prefix := strings.Trim(strings.TrimSpace(cfg.Prefix), "/")
	if prefix == "" {
		prefix = "media"
	}
	return &MediaStore{client: client, bucket: bucket, publicBase: base, prefix: prefix, now: time.Now}, nil
}

func (s *MediaStore) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket exists: %w", err)
	}
	if ok {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

func (s *MediaStore) Upload(ctx context.Context, upload media.Upload) (string, error) {
	if upload.Reader == nil {
		return "", errors.New("minio: empty upload")
	}
	now := s.now().UTC()
	ext := strings.ToLower(filepath.Ext(upload.FileName))
	key := path.Join(s.prefix, now.Format("2006"), now.Format("01"), uuid.NewString()+ext)
	size := upload.Size
	if size <= 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, upload.Reader, size, minio.PutObjectOptions{
		ContentType: media.NormalizeContentType(upload.ContentType, upload.FileName),
	})
	if err != nil {
		return "", fmt.Errorf("minio: put object: %w", err)
	}
	return s.publicBase + "/" + s.bucket + "/" + key, nil
}

func (s *MediaStore) Delete(ctx context.Context, rawURL string) error {
	key, ok := s.ExtractID(rawURL)
	if !ok {
		return ports.ErrForeignMedia
	}
	return s.DeleteByID(ctx, key)
}

func (s *MediaStore) DeleteByID(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("minio: object key is required")
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: remove object: %w", err)
	}
	return nil
}

// ExtractID maps a public URL back to its object key.
func (s *MediaStore) ExtractID(rawURL string) (string, bool) {
	prefix := s.publicBase + "/" + s.bucket + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}
