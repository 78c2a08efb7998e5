package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/yathrananda/admin-console/internal/media"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

const (
	defaultMediaMaxBytes = int64(50 * 1024 * 1024)
	uploadConcurrency    = 4
)

type MediaServiceConfig struct {
	MaxBytes     int64
	MaxDimension int
	Processor    media.Processor
}

// MediaService validates uploads, shrinks oversized images and forwards
// everything to the media store. Deletions are best effort: failures are
// logged and reported as false, never as errors.
type MediaService struct {
	store        ports.MediaStore
	processor    media.Processor
	maxBytes     int64
	maxDimension int
}

func NewMediaService(store ports.MediaStore, cfg MediaServiceConfig) *MediaService {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMediaMaxBytes
	}
	maxDimension := cfg.MaxDimension
	if maxDimension <= 0 {
		maxDimension = media.DefaultMaxDimension
	}
	return &MediaService{
		store:        store,
		processor:    cfg.Processor,
		maxBytes:     maxBytes,
		maxDimension: maxDimension,
	}
}

func (s *MediaService) Upload(ctx context.Context, upload media.Upload) (string, media.Kind, error) {
	if upload.Reader == nil {
		return "", "", ErrMediaRequired
	}
	kind, ok := media.KindOf(upload.ContentType, upload.FileName)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrMediaUnsupportedType, media.NormalizeContentType(upload.ContentType, upload.FileName))
	}
	if upload.Size > s.maxBytes {
		return "", "", fmt.Errorf("%w: %d bytes", ErrMediaTooLarge, upload.Size)
	}

	upload.ContentType = media.NormalizeContentType(upload.ContentType, upload.FileName)
	if kind == media.KindImage && s.processor != nil {
		shrunk, err := s.shrink(ctx, upload)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrMediaUnsupportedType, err)
		}
		upload = shrunk
	}

	url, err := s.store.Upload(ctx, upload)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMediaUpload, err)
	}
	return url, kind, nil
}

// shrink re-encodes an image through the processor, keeping the file name.
func (s *MediaService) shrink(ctx context.Context, upload media.Upload) (media.Upload, error) {
	result, err := s.processor.Process(ctx, upload, s.maxDimension)
	if err != nil {
		return media.Upload{}, err
	}
	upload.Reader = bytes.NewReader(result.Bytes)
	upload.Size = int64(len(result.Bytes))
	upload.ContentType = result.ContentType
	return upload, nil
}

// UploadMany uploads concurrently and returns URLs in input order. The first
// failure cancels the remaining uploads.
func (s *MediaService) UploadMany(ctx context.Context, uploads []media.Upload) ([]string, []media.Kind, error) {
	urls := make([]string, len(uploads))
	kinds := make([]media.Kind, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i := range uploads {
		g.Go(func() error {
			url, kind, err := s.Upload(gctx, uploads[i])
			if err != nil {
				return err
			}
			urls[i], kinds[i] = url, kind
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return urls, kinds, nil
}

func (s *MediaService) Delete(ctx context.Context, url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	if err := s.store.Delete(ctx, url); err != nil {
		if !errors.Is(err, ports.ErrForeignMedia) {
			log.Printf("media: delete %s: %v", url, err)
		}
		return false
	}
	return true
}

func (s *MediaService) DeleteByID(ctx context.Context, id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		log.Printf("media: delete id %s: %v", id, err)
		return false
	}
	return true
}

// DeleteMany removes urls concurrently and returns how many were deleted.
// Failures never stop the remaining deletions.
func (s *MediaService) DeleteMany(ctx context.Context, urls []string) int {
	var (
		g       errgroup.Group
		deleted atomic.Int64
	)
	g.SetLimit(uploadConcurrency)
	for _, url := range urls {
		g.Go(func() error {
			if s.Delete(ctx, url) {
				deleted.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(deleted.Load())
}
