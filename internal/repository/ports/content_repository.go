package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
)

type TestimonialRepository interface {
	List(ctx context.Context, order domain.CreatedOrder) ([]domain.Testimonial, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Testimonial, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Testimonial, error)
	Create(ctx context.Context, t *domain.Testimonial) (*domain.Testimonial, error)
	Update(ctx context.Context, t *domain.Testimonial) (*domain.Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListPackageLinks(ctx context.Context, packageID uuid.UUID) ([]uuid.UUID, error)
	// ReplacePackageLinks deletes every link of the package, then inserts ids.
	ReplacePackageLinks(ctx context.Context, packageID uuid.UUID, ids []uuid.UUID) error
	DeletePackageLinks(ctx context.Context, packageID uuid.UUID) error
	DeleteTestimonialLinks(ctx context.Context, testimonialID uuid.UUID) error
}

type HeroMediaRepository interface {
	List(ctx context.Context) ([]domain.HeroMedia, error)
	ListActive(ctx context.Context) ([]domain.HeroMedia, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.HeroMedia, error)
	Create(ctx context.Context, item *domain.HeroMedia) (*domain.HeroMedia, error)
	UpdateMedia(ctx context.Context, id uuid.UUID, url string, mediaType domain.HeroMediaType) (*domain.HeroMedia, error)
	SetActivation(ctx context.Context, id uuid.UUID, active bool, order int) error
	Delete(ctx context.Context, id uuid.UUID) error
	// WithinTx runs fn against a repository whose reads of the active set are
	// serialized with other WithinTx callers.
	WithinTx(ctx context.Context, fn func(repo HeroMediaRepository) error) error
}

type FAQRepository interface {
	List(ctx context.Context, order domain.CreatedOrder) ([]domain.FAQ, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FAQ, error)
	Create(ctx context.Context, faq *domain.FAQ) (*domain.FAQ, error)
	Update(ctx context.Context, faq *domain.FAQ) (*domain.FAQ, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type SettingsRepository interface {
	// Get returns the first settings row or a not-found StoreError.
	Get(ctx context.Context) (*domain.Settings, error)
	Create(ctx context.Context, s *domain.Settings) (*domain.Settings, error)
	Update(ctx context.Context, s *domain.Settings) (*domain.Settings, error)
}
