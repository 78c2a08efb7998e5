package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

const heroMediaTable = "hero_media"

// Advisory lock key serializing carousel reorders.
const heroCarouselLockKey = 720431

var heroWritable = []string{"url", "type", "is_active", "carousel_order"}

type HeroMediaRepository struct {
	db    *sqlx.DB
	table *Table[domain.HeroMedia]
}

var _ ports.HeroMediaRepository = (*HeroMediaRepository)(nil)

func NewHeroMediaRepo(db *sqlx.DB) *HeroMediaRepository {
	return &HeroMediaRepository{
		db:    db,
		table: NewTable[domain.HeroMedia](db, heroMediaTable, append(withID(heroWritable), "created_at"), heroWritable),
	}
}

func (r *HeroMediaRepository) List(ctx context.Context) ([]domain.HeroMedia, error) {
	return r.table.Select(ctx, Query{Order: []Order{Asc("carousel_order"), Desc("created_at")}})
}

func (r *HeroMediaRepository) ListActive(ctx context.Context) ([]domain.HeroMedia, error) {
	return r.table.Select(ctx, Query{
		Filters: []Filter{Eq("is_active", true)},
		Order:   []Order{Asc("carousel_order"), Asc("created_at")},
	})
}

func (r *HeroMediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.HeroMedia, error) {
	return r.table.SelectOne(ctx, Eq("id", id))
}

func (r *HeroMediaRepository) Create(ctx context.Context, item *domain.HeroMedia) (*domain.HeroMedia, error) {
	rows, err := r.table.Insert(ctx, *item)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *HeroMediaRepository) UpdateMedia(ctx context.Context, id uuid.UUID, url string, mediaType domain.HeroMediaType) (*domain.HeroMedia, error) {
	n, err := r.table.Update(ctx, Patch{"url": url, "type": mediaType}, Eq("id", id))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ports.NotFound("update", heroMediaTable)
	}
	return r.GetByID(ctx, id)
}

func (r *HeroMediaRepository) SetActivation(ctx context.Context, id uuid.UUID, active bool, order int) error {
	n, err := r.table.Update(ctx, Patch{"is_active": active, "carousel_order": order}, Eq("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.NotFound("update", heroMediaTable)
	}
	return nil
}

func (r *HeroMediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.table.Delete(ctx, Eq("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.NotFound("delete", heroMediaTable)
	}
	return nil
}

func (r *HeroMediaRepository) WithinTx(ctx context.Context, fn func(repo ports.HeroMediaRepository) error) error {
	if r.db == nil {
		return errors.New("hero media: nested transaction")
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, heroCarouselLockKey); err != nil {
			return wrapErr("lock", heroMediaTable, err)
		}
		return fn(&HeroMediaRepository{table: r.table.With(tx)})
	})
}
