package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

type PackageRepository struct{ s *Store }

var _ ports.PackageRepository = (*PackageRepository)(nil)

func (r *PackageRepository) List(_ context.Context, f domain.PackageListFilter) ([]domain.TravelPackage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := filter(r.s.packages, func(p domain.TravelPackage) bool {
		return f.Upcoming == nil || p.IsUpcoming == *f.Upcoming
	})
	return byCreated(rows, func(p domain.TravelPackage) time.Time { return p.CreatedAt }, domain.NewestFirst), nil
}

func (r *PackageRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.TravelPackage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.packages {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, ports.NotFound("select", "travel_packages")
}

func (r *PackageRepository) Create(_ context.Context, pkg *domain.TravelPackage) (*domain.TravelPackage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *pkg
	row.ID = newID(row.ID)
	row.CreatedAt = r.s.tick()
	row.UpdatedAt = row.CreatedAt
	r.s.packages = append(r.s.packages, row)
	return &row, nil
}

func (r *PackageRepository) Update(_ context.Context, pkg *domain.TravelPackage) (*domain.TravelPackage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, p := range r.s.packages {
		if p.ID == pkg.ID {
			row := *pkg
			row.CreatedAt = p.CreatedAt
			row.UpdatedAt = r.s.now().UTC()
			r.s.packages[i] = row
			return &row, nil
		}
	}
	return nil, ports.NotFound("update", "travel_packages")
}

func (r *PackageRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.packages)
	r.s.packages = filter(r.s.packages, func(p domain.TravelPackage) bool { return p.ID != id })
	if len(r.s.packages) == before {
		return ports.NotFound("delete", "travel_packages")
	}
	return nil
}

type ItineraryRepository struct{ s *Store }

var _ ports.ItineraryRepository = (*ItineraryRepository)(nil)

func (r *ItineraryRepository) ListDays(_ context.Context, packageID uuid.UUID) ([]domain.ItineraryDay, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := filter(r.s.days, func(d domain.ItineraryDay) bool { return d.PackageID == packageID })
	return byDisplayOrder(rows, func(d domain.ItineraryDay) int { return d.DisplayOrder }), nil
}

func (r *ItineraryRepository) CreateDay(_ context.Context, day *domain.ItineraryDay) (*domain.ItineraryDay, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *day
	row.ID = newID(row.ID)
	row.Activities = nil
	row.Images = nil
	r.s.days = append(r.s.days, row)
	return &row, nil
}

func (r *ItineraryRepository) ListActivities(_ context.Context, itineraryID uuid.UUID) ([]domain.ItineraryActivity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := filter(r.s.activities, func(a domain.ItineraryActivity) bool { return a.ItineraryID == itineraryID })
	return byDisplayOrder(rows, func(a domain.ItineraryActivity) int { return a.DisplayOrder }), nil
}

func (r *ItineraryRepository) CreateActivities(_ context.Context, activities []domain.ItineraryActivity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range activities {
		a.ID = newID(a.ID)
		r.s.activities = append(r.s.activities, a)
	}
	return nil
}

func (r *ItineraryRepository) ListImages(_ context.Context, itineraryID uuid.UUID) ([]domain.ItineraryImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := filter(r.s.dayImages, func(img domain.ItineraryImage) bool { return img.ItineraryID == itineraryID })
	return byDisplayOrder(rows, func(img domain.ItineraryImage) int { return img.DisplayOrder }), nil
}

func (r *ItineraryRepository) CreateImages(_ context.Context, images []domain.ItineraryImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, img := range images {
		img.ID = newID(img.ID)
		r.s.dayImages = append(r.s.dayImages, img)
	}
	return nil
}

func (r *ItineraryRepository) DeleteByPackage(_ context.Context, packageID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	removed := make(map[uuid.UUID]struct{})
	r.s.days = filter(r.s.days, func(d domain.ItineraryDay) bool {
		if d.PackageID == packageID {
			removed[d.ID] = struct{}{}
			return false
		}
		return true
	})
	r.s.activities = filter(r.s.activities, func(a domain.ItineraryActivity) bool {
		_, gone := removed[a.ItineraryID]
		return !gone
	})
	r.s.dayImages = filter(r.s.dayImages, func(img domain.ItineraryImage) bool {
		_, gone := removed[img.ItineraryID]
		return !gone
	})
	return nil
}

type GalleryRepository struct{ s *Store }

var _ ports.GalleryRepository = (*GalleryRepository)(nil)

func (r *GalleryRepository) ListByPackage(_ context.Context, packageID uuid.UUID) ([]domain.GalleryImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := filter(r.s.gallery, func(g domain.GalleryImage) bool { return g.PackageID == packageID })
	return byDisplayOrder(rows, func(g domain.GalleryImage) int { return g.DisplayOrder }), nil
}

func (r *GalleryRepository) CreateMany(_ context.Context, images []domain.GalleryImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range images {
		g.ID = newID(g.ID)
		r.s.gallery = append(r.s.gallery, g)
	}
	return nil
}

func (r *GalleryRepository) DeleteByPackage(_ context.Context, packageID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.gallery = filter(r.s.gallery, func(g domain.GalleryImage) bool { return g.PackageID != packageID })
	return nil
}

type RuleRepository struct{ s *Store }

var _ ports.RuleRepository = (*RuleRepository)(nil)

func (r *RuleRepository) ListByPackage(_ context.Context, kind domain.RuleKind, packageID uuid.UUID) ([]domain.PackageRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := filter(r.s.rules[kind], func(rule domain.PackageRule) bool { return rule.PackageID == packageID })
	return byDisplayOrder(rows, func(rule domain.PackageRule) int { return rule.DisplayOrder }), nil
}

func (r *RuleRepository) CreateMany(_ context.Context, kind domain.RuleKind, rules []domain.PackageRule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rule := range rules {
		rule.ID = newID(rule.ID)
		r.s.rules[kind] = append(r.s.rules[kind], rule)
	}
	return nil
}

func (r *RuleRepository) DeleteByPackage(_ context.Context, kind domain.RuleKind, packageID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rules[kind] = filter(r.s.rules[kind], func(rule domain.PackageRule) bool { return rule.PackageID != packageID })
	return nil
}
