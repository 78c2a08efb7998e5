package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

var galleryWritable = []string{"package_id", "url", "alt", "caption", "display_order"}

type GalleryRepository struct {
	table *Table[domain.GalleryImage]
}

var _ ports.GalleryRepository = (*GalleryRepository)(nil)

func NewGalleryRepo(db sqlx.ExtContext) *GalleryRepository {
	return &GalleryRepository{
		table: NewTable[domain.GalleryImage](db, "package_gallery", withID(galleryWritable), galleryWritable),
	}
}

func (r *GalleryRepository) ListByPackage(ctx context.Context, packageID uuid.UUID) ([]domain.GalleryImage, error) {
	return r.table.Select(ctx, Query{
		Filters: []Filter{Eq("package_id", packageID)},
		Order:   displayOrder,
	})
}

func (r *GalleryRepository) CreateMany(ctx context.Context, images []domain.GalleryImage) error {
	_, err := r.table.Insert(ctx, images...)
	return err
}

func (r *GalleryRepository) DeleteByPackage(ctx context.Context, packageID uuid.UUID) error {
	_, err := r.table.Delete(ctx, Eq("package_id", packageID))
	return err
}
