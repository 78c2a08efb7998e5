package domain

import (
	"time"

	"github.com/google/uuid"
)

type Testimonial struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ClientName string    `db:"client_name" json:"client_name"`
	Message    string    `db:"message" json:"message"`
	ImageURL   *string   `db:"image_url" json:"image_url"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type PackageTestimonial struct {
	PackageID     uuid.UUID `db:"package_id"`
	TestimonialID uuid.UUID `db:"testimonial_id"`
}
