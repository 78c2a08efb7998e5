package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

type FAQService struct {
	repo ports.FAQRepository
}

func NewFAQService(repo ports.FAQRepository) *FAQService {
	return &FAQService{repo: repo}
}

func (s *FAQService) List(ctx context.Context, order domain.CreatedOrder) ([]domain.FAQ, error) {
	return s.repo.List(ctx, order)
}

func (s *FAQService) Get(ctx context.Context, id uuid.UUID) (*domain.FAQ, error) {
	faq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrFAQNotFound
		}
		return nil, err
	}
	return faq, nil
}

func (s *FAQService) Create(ctx context.Context, question, answer string) (*domain.FAQ, error) {
	faq, err := newFAQ(question, answer)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, faq)
}

func (s *FAQService) Update(ctx context.Context, id uuid.UUID, question, answer string) (*domain.FAQ, error) {
	faq, err := newFAQ(question, answer)
	if err != nil {
		return nil, err
	}
	faq.ID = id
	updated, err := s.repo.Update(ctx, faq)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrFAQNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *FAQService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrFAQNotFound
		}
		return err
	}
	return nil
}

func newFAQ(question, answer string) (*domain.FAQ, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return nil, fmt.Errorf("%w: question and answer are required", ErrFAQValidation)
	}
	return &domain.FAQ{Question: question, Answer: answer}, nil
}
