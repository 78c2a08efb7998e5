package service

import (
	"context"
	"strings"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

type SettingsService struct {
	repo ports.SettingsRepository
}

func NewSettingsService(repo ports.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the stored settings, or an empty value when none were saved yet.
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return &domain.Settings{}, nil
		}
		return nil, err
	}
	return current, nil
}

// Save updates the existing row or creates the first one.
func (s *SettingsService) Save(ctx context.Context, in domain.Settings) (*domain.Settings, error) {
	row := domain.Settings{
		CompanyEmail:     strings.TrimSpace(in.CompanyEmail),
		CompanyPhone:     strings.TrimSpace(in.CompanyPhone),
		CompanyAddress:   strings.TrimSpace(in.CompanyAddress),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		FacebookURL:      normalizeString(in.FacebookURL),
		InstagramURL:     normalizeString(in.InstagramURL),
		TwitterURL:       normalizeString(in.TwitterURL),
		LinkedInURL:      normalizeString(in.LinkedInURL),
	}
	current, err := s.repo.Get(ctx)
	switch {
	case err == nil:
		row.ID = current.ID
		return s.repo.Update(ctx, &row)
	case isNotFound(err):
		return s.repo.Create(ctx, &row)
	default:
		return nil, err
	}
}
