package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

const testimonialsTable = "testimonials"

var (
	testimonialWritable = []string{"client_name", "message", "image_url"}
	testimonialColumns  = append(withID(testimonialWritable), "created_at")
	linkColumns         = []string{"package_id", "testimonial_id"}
)

type TestimonialRepository struct {
	table *Table[domain.Testimonial]
	links *Table[domain.PackageTestimonial]
}

var _ ports.TestimonialRepository = (*TestimonialRepository)(nil)

func NewTestimonialRepo(db sqlx.ExtContext) *TestimonialRepository {
	return &TestimonialRepository{
		table: NewTable[domain.Testimonial](db, testimonialsTable, testimonialColumns, testimonialWritable),
		links: NewTable[domain.PackageTestimonial](db, "package_testimonials", linkColumns, linkColumns),
	}
}

func (r *TestimonialRepository) List(ctx context.Context, order domain.CreatedOrder) ([]domain.Testimonial, error) {
	return r.table.Select(ctx, Query{Order: []Order{createdOrder(order)}})
}

func (r *TestimonialRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Testimonial, error) {
	return r.table.Select(ctx, Query{
		Filters: []Filter{In("id", ids)},
		Order:   []Order{Desc("created_at")},
	})
}

func (r *TestimonialRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Testimonial, error) {
	return r.table.SelectOne(ctx, Eq("id", id))
}

func (r *TestimonialRepository) Create(ctx context.Context, t *domain.Testimonial) (*domain.Testimonial, error) {
	rows, err := r.table.Insert(ctx, *t)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *TestimonialRepository) Update(ctx context.Context, t *domain.Testimonial) (*domain.Testimonial, error) {
	n, err := r.table.Update(ctx, Patch{
		"client_name": t.ClientName,
		"message":     t.Message,
		"image_url":   t.ImageURL,
	}, Eq("id", t.ID))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ports.NotFound("update", testimonialsTable)
	}
	return r.GetByID(ctx, t.ID)
}

func (r *TestimonialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.table.Delete(ctx, Eq("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.NotFound("delete", testimonialsTable)
	}
	return nil
}

func (r *TestimonialRepository) ListPackageLinks(ctx context.Context, packageID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.links.Select(ctx, Query{Filters: []Filter{Eq("package_id", packageID)}})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.TestimonialID
	}
	return ids, nil
}

func (r *TestimonialRepository) ReplacePackageLinks(ctx context.Context, packageID uuid.UUID, ids []uuid.UUID) error {
	if err := r.DeletePackageLinks(ctx, packageID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([]domain.PackageTestimonial, len(ids))
	for i, id := range ids {
		rows[i] = domain.PackageTestimonial{PackageID: packageID, TestimonialID: id}
	}
	_, err := r.links.Insert(ctx, rows...)
	return err
}

func (r *TestimonialRepository) DeletePackageLinks(ctx context.Context, packageID uuid.UUID) error {
	_, err := r.links.Delete(ctx, Eq("package_id", packageID))
	return err
}

func (r *TestimonialRepository) DeleteTestimonialLinks(ctx context.Context, testimonialID uuid.UUID) error {
	_, err := r.links.Delete(ctx, Eq("testimonial_id", testimonialID))
	return err
}

func createdOrder(order domain.CreatedOrder) Order {
	if order == domain.OldestFirst {
		return Asc("created_at")
	}
	return Desc("created_at")
}
