package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

const settingsTable = "settings"

var settingsWritable = []string{
	"company_email", "company_phone", "company_address", "emergency_contact",
	"facebook_url", "instagram_url", "twitter_url", "linkedin_url",
}

type SettingsRepository struct {
	table *Table[domain.Settings]
	now   func() time.Time
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepo(db sqlx.ExtContext) *SettingsRepository {
	return &SettingsRepository{
		table: NewTable[domain.Settings](db, settingsTable, append(withID(settingsWritable), "updated_at"), settingsWritable),
		now:   time.Now,
	}
}

func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	rows, err := r.table.Select(ctx, Query{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.NotFound("select", settingsTable)
	}
	return &rows[0], nil
}

func (r *SettingsRepository) Create(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	rows, err := r.table.Insert(ctx, *s)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (r *SettingsRepository) Update(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	n, err := r.table.Update(ctx, Patch{
		"company_email":     s.CompanyEmail,
		"company_phone":     s.CompanyPhone,
		"company_address":   s.CompanyAddress,
		"emergency_contact": s.EmergencyContact,
		"facebook_url":      s.FacebookURL,
		"instagram_url":     s.InstagramURL,
		"twitter_url":       s.TwitterURL,
		"linkedin_url":      s.LinkedInURL,
		"updated_at":        r.now().UTC(),
	}, Eq("id", s.ID))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ports.NotFound("update", settingsTable)
	}
	return r.table.SelectOne(ctx, Eq("id", s.ID))
}
