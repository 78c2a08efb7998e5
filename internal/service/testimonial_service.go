package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

type TestimonialInput struct {
	ClientName string
	Message    string
	// Image nil keeps the current image; StoredImage with an empty URL
	// removes it.
	Image ImageSource
}

type TestimonialService struct {
	repo  ports.TestimonialRepository
	media *MediaService
}

func NewTestimonialService(repo ports.TestimonialRepository, mediaService *MediaService) *TestimonialService {
	return &TestimonialService{repo: repo, media: mediaService}
}

func (s *TestimonialService) List(ctx context.Context) ([]domain.Testimonial, error) {
	return s.repo.List(ctx, domain.NewestFirst)
}

func (s *TestimonialService) Get(ctx context.Context, id uuid.UUID) (*domain.Testimonial, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTestimonialNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput) (*domain.Testimonial, error) {
	row, err := testimonialRow(in)
	if err != nil {
		return nil, err
	}
	url, err := s.resolveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	row.ImageURL = optional(url)
	return s.repo.Create(ctx, row)
}

func (s *TestimonialService) Update(ctx context.Context, id uuid.UUID, in TestimonialInput) (*domain.Testimonial, error) {
	row, err := testimonialRow(in)
	if err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	row.ID = id
	row.ImageURL = current.ImageURL
	if in.Image != nil {
		url, err := s.resolveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		row.ImageURL = optional(url)
	}
	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTestimonialNotFound
		}
		return nil, err
	}
	if old := deref(current.ImageURL); old != "" && old != deref(updated.ImageURL) {
		s.media.Delete(context.WithoutCancel(ctx), old)
	}
	return updated, nil
}

// Delete unlinks the testimonial from every package before removing it.
func (s *TestimonialService) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTestimonialLinks(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrTestimonialNotFound
		}
		return err
	}
	if url := deref(current.ImageURL); url != "" {
		s.media.Delete(context.WithoutCancel(ctx), url)
	}
	return nil
}

func (s *TestimonialService) resolveImage(ctx context.Context, src ImageSource) (string, error) {
	switch img := src.(type) {
	case nil:
		return "", nil
	case StoredImage:
		return strings.TrimSpace(img.URL), nil
	case PendingImage:
		url, _, err := s.media.Upload(ctx, img.Upload)
		return url, err
	default:
		return "", fmt.Errorf("unknown image source %T", src)
	}
}

func testimonialRow(in TestimonialInput) (*domain.Testimonial, error) {
	name := strings.TrimSpace(in.ClientName)
	message := strings.TrimSpace(in.Message)
	if name == "" || message == "" {
		return nil, fmt.Errorf("%w: client name and message are required", ErrTestimonialValidation)
	}
	return &domain.Testimonial{ClientName: name, Message: message}, nil
}
