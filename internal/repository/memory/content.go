package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

type TestimonialRepository struct{ s *Store }

var _ ports.TestimonialRepository = (*TestimonialRepository)(nil)

func testimonialCreated(t domain.Testimonial) time.Time { return t.CreatedAt }

func (r *TestimonialRepository) List(_ context.Context, order domain.CreatedOrder) ([]domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return byCreated(r.s.testimonials, testimonialCreated, order), nil
}

func (r *TestimonialRepository) ListByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	rows := filter(r.s.testimonials, func(t domain.Testimonial) bool {
		_, ok := want[t.ID]
		return ok
	})
	return byCreated(rows, testimonialCreated, domain.NewestFirst), nil
}

func (r *TestimonialRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.testimonials {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, ports.NotFound("select", "testimonials")
}

func (r *TestimonialRepository) Create(_ context.Context, t *domain.Testimonial) (*domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *t
	row.ID = newID(row.ID)
	row.CreatedAt = r.s.tick()
	r.s.testimonials = append(r.s.testimonials, row)
	return &row, nil
}

func (r *TestimonialRepository) Update(_ context.Context, t *domain.Testimonial) (*domain.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.testimonials {
		if existing.ID == t.ID {
			row := *t
			row.CreatedAt = existing.CreatedAt
			r.s.testimonials[i] = row
			return &row, nil
		}
	}
	return nil, ports.NotFound("update", "testimonials")
}

func (r *TestimonialRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.testimonials)
	r.s.testimonials = filter(r.s.testimonials, func(t domain.Testimonial) bool { return t.ID != id })
	if len(r.s.testimonials) == before {
		return ports.NotFound("delete", "testimonials")
	}
	return nil
}

func (r *TestimonialRepository) ListPackageLinks(_ context.Context, packageID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := []uuid.UUID{}
	for _, l := range r.s.links {
		if l.PackageID == packageID {
			ids = append(ids, l.TestimonialID)
		}
	}
	return ids, nil
}

func (r *TestimonialRepository) ReplacePackageLinks(_ context.Context, packageID uuid.UUID, ids []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.links = filter(r.s.links, func(l domain.PackageTestimonial) bool { return l.PackageID != packageID })
	for _, id := range ids {
		r.s.links = append(r.s.links, domain.PackageTestimonial{PackageID: packageID, TestimonialID: id})
	}
	return nil
}

func (r *TestimonialRepository) DeletePackageLinks(_ context.Context, packageID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.links = filter(r.s.links, func(l domain.PackageTestimonial) bool { return l.PackageID != packageID })
	return nil
}

func (r *TestimonialRepository) DeleteTestimonialLinks(_ context.Context, testimonialID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.links = filter(r.s.links, func(l domain.PackageTestimonial) bool { return l.TestimonialID != testimonialID })
	return nil
}

type HeroMediaRepository struct {
	s    *Store
	inTx bool
}

var _ ports.HeroMediaRepository = (*HeroMediaRepository)(nil)

func (r *HeroMediaRepository) List(_ context.Context) ([]domain.HeroMedia, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := byCreated(r.s.hero, func(h domain.HeroMedia) time.Time { return h.CreatedAt }, domain.NewestFirst)
	return byDisplayOrder(rows, func(h domain.HeroMedia) int { return h.CarouselOrder }), nil
}

func (r *HeroMediaRepository) ListActive(_ context.Context) ([]domain.HeroMedia, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := filter(r.s.hero, func(h domain.HeroMedia) bool { return h.IsActive })
	rows = byCreated(rows, func(h domain.HeroMedia) time.Time { return h.CreatedAt }, domain.OldestFirst)
	return byDisplayOrder(rows, func(h domain.HeroMedia) int { return h.CarouselOrder }), nil
}

func (r *HeroMediaRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.HeroMedia, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, h := range r.s.hero {
		if h.ID == id {
			out := h
			return &out, nil
		}
	}
	return nil, ports.NotFound("select", "hero_media")
}

func (r *HeroMediaRepository) Create(_ context.Context, item *domain.HeroMedia) (*domain.HeroMedia, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *item
	row.ID = newID(row.ID)
	row.CreatedAt = r.s.tick()
	r.s.hero = append(r.s.hero, row)
	return &row, nil
}

func (r *HeroMediaRepository) UpdateMedia(_ context.Context, id uuid.UUID, url string, mediaType domain.HeroMediaType) (*domain.HeroMedia, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.hero {
		if r.s.hero[i].ID == id {
			r.s.hero[i].URL = url
			r.s.hero[i].Type = mediaType
			out := r.s.hero[i]
			return &out, nil
		}
	}
	return nil, ports.NotFound("update", "hero_media")
}

func (r *HeroMediaRepository) SetActivation(_ context.Context, id uuid.UUID, active bool, order int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.hero {
		if r.s.hero[i].ID == id {
			r.s.hero[i].IsActive = active
			r.s.hero[i].CarouselOrder = order
			return nil
		}
	}
	return ports.NotFound("update", "hero_media")
}

func (r *HeroMediaRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.hero)
	r.s.hero = filter(r.s.hero, func(h domain.HeroMedia) bool { return h.ID != id })
	if len(r.s.hero) == before {
		return ports.NotFound("delete", "hero_media")
	}
	return nil
}

func (r *HeroMediaRepository) WithinTx(_ context.Context, fn func(repo ports.HeroMediaRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.s.heroTx.Lock()
	defer r.s.heroTx.Unlock()
	return fn(&HeroMediaRepository{s: r.s, inTx: true})
}

type FAQRepository struct{ s *Store }

var _ ports.FAQRepository = (*FAQRepository)(nil)

func (r *FAQRepository) List(_ context.Context, order domain.CreatedOrder) ([]domain.FAQ, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return byCreated(r.s.faqs, func(f domain.FAQ) time.Time { return f.CreatedAt }, order), nil
}

func (r *FAQRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.FAQ, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.faqs {
		if f.ID == id {
			out := f
			return &out, nil
		}
	}
	return nil, ports.NotFound("select", "faqs")
}

func (r *FAQRepository) Create(_ context.Context, faq *domain.FAQ) (*domain.FAQ, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *faq
	row.ID = newID(row.ID)
	row.CreatedAt = r.s.tick()
	r.s.faqs = append(r.s.faqs, row)
	return &row, nil
}

func (r *FAQRepository) Update(_ context.Context, faq *domain.FAQ) (*domain.FAQ, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.faqs {
		if r.s.faqs[i].ID == faq.ID {
			r.s.faqs[i].Question = faq.Question
			r.s.faqs[i].Answer = faq.Answer
			out := r.s.faqs[i]
			return &out, nil
		}
	}
	return nil, ports.NotFound("update", "faqs")
}

func (r *FAQRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.faqs)
	r.s.faqs = filter(r.s.faqs, func(f domain.FAQ) bool { return f.ID != id })
	if len(r.s.faqs) == before {
		return ports.NotFound("delete", "faqs")
	}
	return nil
}

type SettingsRepository struct{ s *Store }

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) Get(_ context.Context) (*domain.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(r.s.settings) == 0 {
		return nil, ports.NotFound("select", "settings")
	}
	out := r.s.settings[0]
	return &out, nil
}

func (r *SettingsRepository) Create(_ context.Context, st *domain.Settings) (*domain.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row := *st
	row.ID = newID(row.ID)
	row.UpdatedAt = r.s.tick()
	r.s.settings = append(r.s.settings, row)
	return &row, nil
}

func (r *SettingsRepository) Update(_ context.Context, st *domain.Settings) (*domain.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.settings {
		if r.s.settings[i].ID == st.ID {
			row := *st
			row.UpdatedAt = r.s.tick()
			r.s.settings[i] = row
			return &row, nil
		}
	}
	return nil, ports.NotFound("update", "settings")
}
