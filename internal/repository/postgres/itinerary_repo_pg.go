package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

var (
	dayWritable      = []string{"package_id", "day", "title", "route", "meal_plan", "notes", "display_order"}
	activityWritable = []string{"itinerary_id", "activity", "display_order"}
	imageWritable    = []string{"itinerary_id", "url", "alt", "display_order"}
)

type ItineraryRepository struct {
	days       *Table[domain.ItineraryDay]
	activities *Table[domain.ItineraryActivity]
	images     *Table[domain.ItineraryImage]
}

var _ ports.ItineraryRepository = (*ItineraryRepository)(nil)

func NewItineraryRepo(db sqlx.ExtContext) *ItineraryRepository {
	return &ItineraryRepository{
		days:       NewTable[domain.ItineraryDay](db, "package_itinerary", withID(dayWritable), dayWritable),
		activities: NewTable[domain.ItineraryActivity](db, "itinerary_activities", withID(activityWritable), activityWritable),
		images:     NewTable[domain.ItineraryImage](db, "itinerary_images", withID(imageWritable), imageWritable),
	}
}

func (r *ItineraryRepository) ListDays(ctx context.Context, packageID uuid.UUID) ([]domain.ItineraryDay, error) {
	return r.days.Select(ctx, Query{
		Filters: []Filter{Eq("package_id", packageID)},
		Order:   displayOrder,
	})
}

func (r *ItineraryRepository) CreateDay(ctx context.Context, day *domain.ItineraryDay) (*domain.ItineraryDay, error) {
	rows, err := r.days.Insert(ctx, *day)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *ItineraryRepository) ListActivities(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryActivity, error) {
	return r.activities.Select(ctx, Query{
		Filters: []Filter{Eq("itinerary_id", itineraryID)},
		Order:   displayOrder,
	})
}

func (r *ItineraryRepository) CreateActivities(ctx context.Context, activities []domain.ItineraryActivity) error {
	_, err := r.activities.Insert(ctx, activities...)
	return err
}

func (r *ItineraryRepository) ListImages(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryImage, error) {
	return r.images.Select(ctx, Query{
		Filters: []Filter{Eq("itinerary_id", itineraryID)},
		Order:   displayOrder,
	})
}

func (r *ItineraryRepository) CreateImages(ctx context.Context, images []domain.ItineraryImage) error {
	_, err := r.images.Insert(ctx, images...)
	return err
}

func (r *ItineraryRepository) DeleteByPackage(ctx context.Context, packageID uuid.UUID) error {
	days, err := r.ListDays(ctx, packageID)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, len(days))
	for i, d := range days {
		ids[i] = d.ID
	}
	if _, err := r.activities.Delete(ctx, In("itinerary_id", ids)); err != nil {
		return err
	}
	if _, err := r.images.Delete(ctx, In("itinerary_id", ids)); err != nil {
		return err
	}
	_, err = r.days.Delete(ctx, Eq("package_id", packageID))
	return err
}

// Child rows come back by display_order; seq is an identity column, so ties
// keep insertion order.
var displayOrder = []Order{Asc("display_order"), Asc("seq")}

func withID(cols []string) []string {
	return append([]string{"id"}, cols...)
}
