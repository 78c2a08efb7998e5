package ports

import (
	"context"
	"errors"

	"github.com/yathrananda/admin-console/internal/media"
)

// ErrForeignMedia is returned when a URL was not issued by the media store.
var ErrForeignMedia = errors.New("media url not managed by this store")

// MediaStore hosts uploaded images and videos and hands back public URLs.
type MediaStore interface {
	Upload(ctx context.Context, upload media.Upload) (string, error)
	// Delete removes the object behind a URL previously returned by Upload.
	Delete(ctx context.Context, url string) error
	DeleteByID(ctx context.Context, id string) error
}
