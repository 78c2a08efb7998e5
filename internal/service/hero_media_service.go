package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/media"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

// HeroMediaService manages the homepage carousel. Active slides are kept
// numbered 1..N in display order; inactive slides carry order 0.
type HeroMediaService struct {
	repo  ports.HeroMediaRepository
	media *MediaService
}

func NewHeroMediaService(repo ports.HeroMediaRepository, mediaService *MediaService) *HeroMediaService {
	return &HeroMediaService{repo: repo, media: mediaService}
}

func (s *HeroMediaService) List(ctx context.Context) ([]domain.HeroMedia, error) {
	return s.repo.List(ctx)
}

func (s *HeroMediaService) ListActive(ctx context.Context) ([]domain.HeroMedia, error) {
	return s.repo.ListActive(ctx)
}

// Upload hosts every file and records each as an inactive slide.
func (s *HeroMediaService) Upload(ctx context.Context, uploads []media.Upload) ([]domain.HeroMedia, error) {
	if len(uploads) == 0 {
		return nil, ErrMediaRequired
	}
	urls, kinds, err := s.media.UploadMany(ctx, uploads)
	if err != nil {
		return nil, err
	}
	created := make([]domain.HeroMedia, 0, len(urls))
	for i, url := range urls {
		item, err := s.repo.Create(ctx, &domain.HeroMedia{
			URL:  url,
			Type: heroTypeOf(kinds[i]),
		})
		if err != nil {
			return created, err
		}
		created = append(created, *item)
	}
	return created, nil
}

func (s *HeroMediaService) Activate(ctx context.Context, id uuid.UUID) (*domain.HeroMedia, error) {
	err := s.repo.WithinTx(ctx, func(repo ports.HeroMediaRepository) error {
		item, err := s.get(ctx, repo, id)
		if err != nil {
			return err
		}
		if item.IsActive {
			return nil
		}
		active, err := repo.ListActive(ctx)
		if err != nil {
			return err
		}
		next := 1
		for _, a := range active {
			if a.CarouselOrder >= next {
				next = a.CarouselOrder + 1
			}
		}
		return repo.SetActivation(ctx, id, true, next)
	})
	if err != nil {
		return nil, err
	}
	return s.get(ctx, s.repo, id)
}

func (s *HeroMediaService) Deactivate(ctx context.Context, id uuid.UUID) (*domain.HeroMedia, error) {
	err := s.repo.WithinTx(ctx, func(repo ports.HeroMediaRepository) error {
		if _, err := s.get(ctx, repo, id); err != nil {
			return err
		}
		if err := repo.SetActivation(ctx, id, false, 0); err != nil {
			return err
		}
		return renumber(ctx, repo)
	})
	if err != nil {
		return nil, err
	}
	return s.get(ctx, s.repo, id)
}

// Replace swaps the media behind a slide without touching its position.
func (s *HeroMediaService) Replace(ctx context.Context, id uuid.UUID, upload media.Upload) (*domain.HeroMedia, error) {
	current, err := s.get(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	url, kind, err := s.media.Upload(ctx, upload)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateMedia(ctx, id, url, heroTypeOf(kind))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrHeroMediaNotFound
		}
		return nil, err
	}
	if current.URL != url {
		s.media.Delete(context.WithoutCancel(ctx), current.URL)
	}
	return updated, nil
}

func (s *HeroMediaService) Delete(ctx context.Context, id uuid.UUID) error {
	var removed *domain.HeroMedia
	err := s.repo.WithinTx(ctx, func(repo ports.HeroMediaRepository) error {
		item, err := s.get(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			if isNotFound(err) {
				return ErrHeroMediaNotFound
			}
			return err
		}
		removed = item
		if item.IsActive {
			return renumber(ctx, repo)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.media.Delete(context.WithoutCancel(ctx), removed.URL)
	return nil
}

func (s *HeroMediaService) get(ctx context.Context, repo ports.HeroMediaRepository, id uuid.UUID) (*domain.HeroMedia, error) {
	item, err := repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrHeroMediaNotFound
		}
		return nil, err
	}
	return item, nil
}

// renumber closes gaps in the active set, keeping relative order.
func renumber(ctx context.Context, repo ports.HeroMediaRepository) error {
	active, err := repo.ListActive(ctx)
	if err != nil {
		return err
	}
	for i, item := range active {
		if item.CarouselOrder == i+1 {
			continue
		}
		if err := repo.SetActivation(ctx, item.ID, true, i+1); err != nil {
			return fmt.Errorf("renumber %s: %w", item.ID, err)
		}
	}
	return nil
}

func heroTypeOf(kind media.Kind) domain.HeroMediaType {
	if kind == media.KindVideo {
		return domain.HeroMediaVideo
	}
	return domain.HeroMediaImage
}
