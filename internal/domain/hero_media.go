package domain

import (
	"time"

	"github.com/google/uuid"
)

type HeroMediaType string

const (
	HeroMediaImage HeroMediaType = "image"
	HeroMediaVideo HeroMediaType = "video"
)

// HeroMedia is one carousel slide. CarouselOrder is only meaningful while
// IsActive is set; inactive rows keep it at zero.
type HeroMedia struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	URL           string        `db:"url" json:"url"`
	Type          HeroMediaType `db:"type" json:"type"`
	IsActive      bool          `db:"is_active" json:"is_active"`
	CarouselOrder int           `db:"carousel_order" json:"carousel_order"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}
