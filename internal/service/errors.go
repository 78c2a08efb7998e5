package service

import (
	"errors"
	"strings"
	"sync"

	"github.com/yathrananda/admin-console/internal/repository/ports"
)

var (
	ErrPackageNotFound   = errors.New("package not found")
	ErrPackageValidation = errors.New("package validation failed")
	ErrPackageSave       = errors.New("failed to save package")

	ErrHeroMediaNotFound     = errors.New("hero media not found")
	ErrFAQNotFound           = errors.New("faq not found")
	ErrFAQValidation         = errors.New("faq validation failed")
	ErrTestimonialNotFound   = errors.New("testimonial not found")
	ErrTestimonialValidation = errors.New("testimonial validation failed")

	ErrMediaRequired        = errors.New("media file is required")
	ErrMediaTooLarge        = errors.New("media file exceeds size limit")
	ErrMediaUnsupportedType = errors.New("unsupported media type")
	ErrMediaUpload          = errors.New("media upload failed")

	ErrCredentialsRequired = errors.New("username and password are required")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidSession      = errors.New("invalid session")
)

func isNotFound(err error) bool {
	return errors.Is(err, ports.ErrNotFound)
}

func normalizeString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// optional converts a form value to a nullable column value.
func optional(value string) *string {
	return normalizeString(&value)
}

// errorSet gathers failures from concurrent steps.
type errorSet struct {
	mu   sync.Mutex
	errs []error
}

func (s *errorSet) add(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *errorSet) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.errs...)
}
