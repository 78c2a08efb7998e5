// Package memory keeps every collection in process memory. It backs local runs
// without a database and the service and transport tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
)

type Store struct {
	mu  sync.Mutex
	now func() time.Time

	packages     []domain.TravelPackage
	days         []domain.ItineraryDay
	activities   []domain.ItineraryActivity
	dayImages    []domain.ItineraryImage
	gallery      []domain.GalleryImage
	rules        map[domain.RuleKind][]domain.PackageRule
	testimonials []domain.Testimonial
	links        []domain.PackageTestimonial
	hero         []domain.HeroMedia
	faqs         []domain.FAQ
	settings     []domain.Settings

	heroTx sync.Mutex
	ticks  int64
}

func NewStore() *Store {
	return &Store{
		now:   time.Now,
		rules: make(map[domain.RuleKind][]domain.PackageRule),
	}
}

// SetClock replaces the time source used for created_at and updated_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// tick returns strictly increasing timestamps so created_at ordering is
// total even under a frozen clock. Callers hold mu.
func (s *Store) tick() time.Time {
	s.ticks++
	return s.now().UTC().Add(time.Duration(s.ticks) * time.Microsecond)
}

func (s *Store) Packages() *PackageRepository         { return &PackageRepository{s: s} }
func (s *Store) Itinerary() *ItineraryRepository      { return &ItineraryRepository{s: s} }
func (s *Store) Gallery() *GalleryRepository          { return &GalleryRepository{s: s} }
func (s *Store) Rules() *RuleRepository               { return &RuleRepository{s: s} }
func (s *Store) Testimonials() *TestimonialRepository { return &TestimonialRepository{s: s} }
func (s *Store) HeroMedia() *HeroMediaRepository      { return &HeroMediaRepository{s: s} }
func (s *Store) FAQs() *FAQRepository                 { return &FAQRepository{s: s} }
func (s *Store) Settings() *SettingsRepository        { return &SettingsRepository{s: s} }

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

func byDisplayOrder[T any](rows []T, order func(T) int) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return order(out[i]) < order(out[j]) })
	return out
}

func byCreated[T any](rows []T, created func(T) time.Time, order domain.CreatedOrder) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if order == domain.OldestFirst {
			return created(out[i]).Before(created(out[j]))
		}
		return created(out[i]).After(created(out[j]))
	})
	return out
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
