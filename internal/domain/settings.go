package domain

import (
	"time"

	"github.com/google/uuid"
)

// Settings holds the agency contact details. At most one row exists.
type Settings struct {
	ID               uuid.UUID `db:"id" json:"id"`
	CompanyEmail     string    `db:"company_email" json:"company_email"`
	CompanyPhone     string    `db:"company_phone" json:"company_phone"`
	CompanyAddress   string    `db:"company_address" json:"company_address"`
	EmergencyContact string    `db:"emergency_contact" json:"emergency_contact"`
	FacebookURL      *string   `db:"facebook_url" json:"facebook_url"`
	InstagramURL     *string   `db:"instagram_url" json:"instagram_url"`
	TwitterURL       *string   `db:"twitter_url" json:"twitter_url"`
	LinkedInURL      *string   `db:"linkedin_url" json:"linkedin_url"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
