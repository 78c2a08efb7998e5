package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepartureType string

const (
	DepartureTypePlane DepartureType = "plane"
	DepartureTypeTrain DepartureType = "train"
)

func (t DepartureType) Valid() bool {
	switch t {
	case DepartureTypePlane, DepartureTypeTrain:
		return true
	default:
		return false
	}
}

type ActivitiesDisplayType string

const (
	ActivitiesDisplayPoints      ActivitiesDisplayType = "points"
	ActivitiesDisplayDescription ActivitiesDisplayType = "description"
)

func (t ActivitiesDisplayType) Valid() bool {
	switch t {
	case ActivitiesDisplayPoints, ActivitiesDisplayDescription:
		return true
	default:
		return false
	}
}

type TravelPackage struct {
	ID                    uuid.UUID             `db:"id" json:"id"`
	Title                 string                `db:"title" json:"title"`
	Subtitle              *string               `db:"subtitle" json:"subtitle"`
	Description           *string               `db:"description" json:"description"`
	Overview              *string               `db:"overview" json:"overview"`
	Price                 decimal.Decimal       `db:"price" json:"price"`
	Duration              string                `db:"duration" json:"duration"`
	Location              string                `db:"location" json:"location"`
	GroupSize             *string               `db:"group_size" json:"group_size"`
	ImageURL              *string               `db:"image_url" json:"image_url"`
	HeroImageURL          *string               `db:"hero_image_url" json:"hero_image_url"`
	HeroImageAlt          *string               `db:"hero_image_alt" json:"hero_image_alt"`
	IsTrending            bool                  `db:"is_trending" json:"is_trending"`
	IsUpcoming            bool                  `db:"is_upcoming" json:"is_upcoming"`
	IsDomestic            bool                  `db:"is_domestic" json:"is_domestic"`
	IsInternational       bool                  `db:"is_international" json:"is_international"`
	IsKeralaTours         bool                  `db:"is_kerala_tours" json:"is_kerala_tours"`
	IsCustomizedTours     bool                  `db:"is_customized_tours" json:"is_customized_tours"`
	DeparturePlace        *string               `db:"departure_place" json:"departure_place"`
	DepartureDate         *time.Time            `db:"departure_date" json:"departure_date"`
	DepartureType         *DepartureType        `db:"departure_type" json:"departure_type"`
	ActivitiesDisplayType ActivitiesDisplayType `db:"activities_display_type" json:"activities_display_type"`
	AdvancePayment        *string               `db:"advance_payment" json:"advance_payment"`
	BalancePayment        *string               `db:"balance_payment" json:"balance_payment"`
	CreatedAt             time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time             `db:"updated_at" json:"updated_at"`
}

// PackageListFilter narrows package listings. A nil field matches everything.
type PackageListFilter struct {
	Upcoming *bool
}

type ItineraryDay struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PackageID    uuid.UUID `db:"package_id" json:"package_id"`
	Day          int       `db:"day" json:"day"`
	Title        string    `db:"title" json:"title"`
	Route        *string   `db:"route" json:"route"`
	MealPlan     *string   `db:"meal_plan" json:"meal_plan"`
	Notes        *string   `db:"notes" json:"notes"`
	DisplayOrder int       `db:"display_order" json:"display_order"`

	Activities []string   `db:"-" json:"activities"`
	Images     []ImageRef `db:"-" json:"images"`
}

type ItineraryActivity struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ItineraryID  uuid.UUID `db:"itinerary_id" json:"itinerary_id"`
	Activity     string    `db:"activity" json:"activity"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
}

type ItineraryImage struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ItineraryID  uuid.UUID `db:"itinerary_id" json:"itinerary_id"`
	URL          string    `db:"url" json:"url"`
	Alt          *string   `db:"alt" json:"alt"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
}

type ImageRef struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type GalleryImage struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PackageID    uuid.UUID `db:"package_id" json:"package_id"`
	URL          string    `db:"url" json:"url"`
	Alt          *string   `db:"alt" json:"alt"`
	Caption      *string   `db:"caption" json:"caption"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
}

type GalleryItem struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

type RuleKind string

const (
	RuleKindBooking      RuleKind = "booking"
	RuleKindCancellation RuleKind = "cancellation"
)

type PackageRule struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PackageID    uuid.UUID `db:"package_id" json:"package_id"`
	Rule         string    `db:"rule" json:"rule"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
}

type BookingInfo struct {
	AdvancePayment string   `json:"advancePayment"`
	BalancePayment string   `json:"balancePayment"`
	BookingRules   []string `json:"bookingRules"`
}

type CancellationPolicy struct {
	Rules []string `json:"rules"`
}

// PackageDetail is a travel package with every child collection resolved.
type PackageDetail struct {
	TravelPackage
	Itinerary          []ItineraryDay     `json:"itinerary"`
	Gallery            []GalleryItem      `json:"gallery"`
	BookingInfo        BookingInfo        `json:"bookingInfo"`
	CancellationPolicy CancellationPolicy `json:"cancellationPolicy"`
	Testimonials       []Testimonial      `json:"testimonials"`

	// Degraded is set when a child collection could not be read and was
	// served empty.
	Degraded bool `json:"-"`
}

// MediaURLs lists every hosted media URL referenced by the package.
func (d *PackageDetail) MediaURLs() []string {
	var urls []string
	if d.ImageURL != nil && *d.ImageURL != "" {
		urls = append(urls, *d.ImageURL)
	}
	if d.HeroImageURL != nil && *d.HeroImageURL != "" {
		urls = append(urls, *d.HeroImageURL)
	}
	for _, day := range d.Itinerary {
		for _, img := range day.Images {
			if img.URL != "" {
				urls = append(urls, img.URL)
			}
		}
	}
	for _, img := range d.Gallery {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls
}
