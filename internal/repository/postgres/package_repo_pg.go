package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

const packagesTable = "travel_packages"

var packageWritable = []string{
	"title", "subtitle", "description", "overview", "price", "duration", "location", "group_size",
	"image_url", "hero_image_url", "hero_image_alt",
	"is_trending", "is_upcoming", "is_domestic", "is_international", "is_kerala_tours", "is_customized_tours",
	"departure_place", "departure_date", "departure_type", "activities_display_type",
	"advance_payment", "balance_payment",
}

var packageColumns = append(append([]string{"id"}, packageWritable...), "created_at", "updated_at")

type PackageRepository struct {
	table *Table[domain.TravelPackage]
	now   func() time.Time
}

var _ ports.PackageRepository = (*PackageRepository)(nil)

func NewPackageRepo(db sqlx.ExtContext) *PackageRepository {
	return &PackageRepository{
		table: NewTable[domain.TravelPackage](db, packagesTable, packageColumns, packageWritable),
		now:   time.Now,
	}
}

func (r *PackageRepository) List(ctx context.Context, filter domain.PackageListFilter) ([]domain.TravelPackage, error) {
	q := Query{Order: []Order{Desc("created_at")}}
	if filter.Upcoming != nil {
		q.Filters = append(q.Filters, Eq("is_upcoming", *filter.Upcoming))
	}
	return r.table.Select(ctx, q)
}

func (r *PackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TravelPackage, error) {
	return r.table.SelectOne(ctx, Eq("id", id))
}

func (r *PackageRepository) Create(ctx context.Context, pkg *domain.TravelPackage) (*domain.TravelPackage, error) {
	rows, err := r.table.Insert(ctx, *pkg)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *PackageRepository) Update(ctx context.Context, pkg *domain.TravelPackage) (*domain.TravelPackage, error) {
	patch := Patch{
		"title":                   pkg.Title,
		"subtitle":                pkg.Subtitle,
		"description":             pkg.Description,
		"overview":                pkg.Overview,
		"price":                   pkg.Price,
		"duration":                pkg.Duration,
		"location":                pkg.Location,
		"group_size":              pkg.GroupSize,
		"image_url":               pkg.ImageURL,
		"hero_image_url":          pkg.HeroImageURL,
		"hero_image_alt":          pkg.HeroImageAlt,
		"is_trending":             pkg.IsTrending,
		"is_upcoming":             pkg.IsUpcoming,
		"is_domestic":             pkg.IsDomestic,
		"is_international":        pkg.IsInternational,
		"is_kerala_tours":         pkg.IsKeralaTours,
		"is_customized_tours":     pkg.IsCustomizedTours,
		"departure_place":         pkg.DeparturePlace,
		"departure_date":          pkg.DepartureDate,
		"departure_type":          pkg.DepartureType,
		"activities_display_type": pkg.ActivitiesDisplayType,
		"advance_payment":         pkg.AdvancePayment,
		"balance_payment":         pkg.BalancePayment,
		"updated_at":              r.now().UTC(),
	}
	n, err := r.table.Update(ctx, patch, Eq("id", pkg.ID))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ports.NotFound("update", packagesTable)
	}
	return r.GetByID(ctx, pkg.ID)
}

func (r *PackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.table.Delete(ctx, Eq("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.NotFound("delete", packagesTable)
	}
	return nil
}
