package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
)

type PackageRepository interface {
	List(ctx context.Context, filter domain.PackageListFilter) ([]domain.TravelPackage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TravelPackage, error)
	Create(ctx context.Context, pkg *domain.TravelPackage) (*domain.TravelPackage, error)
	Update(ctx context.Context, pkg *domain.TravelPackage) (*domain.TravelPackage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ItineraryRepository interface {
	ListDays(ctx context.Context, packageID uuid.UUID) ([]domain.ItineraryDay, error)
	CreateDay(ctx context.Context, day *domain.ItineraryDay) (*domain.ItineraryDay, error)
	ListActivities(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryActivity, error)
	CreateActivities(ctx context.Context, activities []domain.ItineraryActivity) error
	ListImages(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryImage, error)
	CreateImages(ctx context.Context, images []domain.ItineraryImage) error
	// DeleteByPackage removes every day of the package together with its
	// activities and images.
	DeleteByPackage(ctx context.Context, packageID uuid.UUID) error
}

type GalleryRepository interface {
	ListByPackage(ctx context.Context, packageID uuid.UUID) ([]domain.GalleryImage, error)
	CreateMany(ctx context.Context, images []domain.GalleryImage) error
	DeleteByPackage(ctx context.Context, packageID uuid.UUID) error
}

type RuleRepository interface {
	ListByPackage(ctx context.Context, kind domain.RuleKind, packageID uuid.UUID) ([]domain.PackageRule, error)
	CreateMany(ctx context.Context, kind domain.RuleKind, rules []domain.PackageRule) error
	DeleteByPackage(ctx context.Context, kind domain.RuleKind, packageID uuid.UUID) error
}
