package service

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

var tracer = otel.Tracer("github.com/yathrananda/admin-console/internal/service")

type PackageRepositories struct {
	Packages     ports.PackageRepository
	Itinerary    ports.ItineraryRepository
	Gallery      ports.GalleryRepository
	Rules        ports.RuleRepository
	Testimonials ports.TestimonialRepository
}

// PackageService reassembles packages from their child collections and
// persists edits back into them.
type PackageService struct {
	packages     ports.PackageRepository
	itinerary    ports.ItineraryRepository
	gallery      ports.GalleryRepository
	rules        ports.RuleRepository
	testimonials ports.TestimonialRepository
	media        *MediaService
}

func NewPackageService(repos PackageRepositories, mediaService *MediaService) *PackageService {
	return &PackageService{
		packages:     repos.Packages,
		itinerary:    repos.Itinerary,
		gallery:      repos.Gallery,
		rules:        repos.Rules,
		testimonials: repos.Testimonials,
		media:        mediaService,
	}
}

func (s *PackageService) List(ctx context.Context) ([]domain.TravelPackage, error) {
	ctx, span := tracer.Start(ctx, "PackageService.List")
	defer span.End()
	return s.packages.List(ctx, domain.PackageListFilter{})
}

func (s *PackageService) ListUpcoming(ctx context.Context) ([]domain.TravelPackage, error) {
	ctx, span := tracer.Start(ctx, "PackageService.ListUpcoming")
	defer span.End()
	upcoming := true
	return s.packages.List(ctx, domain.PackageListFilter{Upcoming: &upcoming})
}

// Get loads a package with every child collection. Only the root fetch can
// fail the call; a failing child collection is logged and served empty.
func (s *PackageService) Get(ctx context.Context, id uuid.UUID) (*domain.PackageDetail, error) {
	ctx, span := tracer.Start(ctx, "PackageService.Get", trace.WithAttributes(attribute.String("package.id", id.String())))
	defer span.End()

	pkg, err := s.packages.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPackageNotFound
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var (
		wg           sync.WaitGroup
		degraded     atomic.Bool
		days         []domain.ItineraryDay
		gallery      []domain.GalleryImage
		booking      []domain.PackageRule
		cancellation []domain.PackageRule
		links        []uuid.UUID
	)
	r := childReader{packageID: id, degraded: &degraded}
	fetchDegraded(ctx, &wg, r, &days, "itinerary", func(ctx context.Context) ([]domain.ItineraryDay, error) {
		return s.itinerary.ListDays(ctx, id)
	})
	fetchDegraded(ctx, &wg, r, &gallery, "gallery", func(ctx context.Context) ([]domain.GalleryImage, error) {
		return s.gallery.ListByPackage(ctx, id)
	})
	fetchDegraded(ctx, &wg, r, &booking, "booking rules", func(ctx context.Context) ([]domain.PackageRule, error) {
		return s.rules.ListByPackage(ctx, domain.RuleKindBooking, id)
	})
	fetchDegraded(ctx, &wg, r, &cancellation, "cancellation rules", func(ctx context.Context) ([]domain.PackageRule, error) {
		return s.rules.ListByPackage(ctx, domain.RuleKindCancellation, id)
	})
	fetchDegraded(ctx, &wg, r, &links, "testimonial links", func(ctx context.Context) ([]uuid.UUID, error) {
		return s.testimonials.ListPackageLinks(ctx, id)
	})
	wg.Wait()

	s.resolveDays(ctx, r, days)

	testimonials := []domain.Testimonial{}
	if len(links) > 0 {
		testimonials = degrade(ctx, r, "testimonials", func(ctx context.Context) ([]domain.Testimonial, error) {
			return s.testimonials.ListByIDs(ctx, links)
		})
	}

	detail := assembleDetail(pkg, days, gallery, booking, cancellation, testimonials)
	detail.Degraded = degraded.Load()
	return detail, nil
}

func (s *PackageService) resolveDays(ctx context.Context, r childReader, days []domain.ItineraryDay) {
	var wg sync.WaitGroup
	for i := range days {
		day := &days[i]
		wg.Add(2)
		go func() {
			defer wg.Done()
			rows := degrade(ctx, r, "day activities", func(ctx context.Context) ([]domain.ItineraryActivity, error) {
				return s.itinerary.ListActivities(ctx, day.ID)
			})
			day.Activities = make([]string, len(rows))
			for j, a := range rows {
				day.Activities[j] = a.Activity
			}
		}()
		go func() {
			defer wg.Done()
			rows := degrade(ctx, r, "day images", func(ctx context.Context) ([]domain.ItineraryImage, error) {
				return s.itinerary.ListImages(ctx, day.ID)
			})
			day.Images = make([]domain.ImageRef, len(rows))
			for j, img := range rows {
				day.Images[j] = domain.ImageRef{URL: img.URL, Alt: deref(img.Alt)}
			}
		}()
	}
	wg.Wait()
}

func assembleDetail(
	pkg *domain.TravelPackage,
	days []domain.ItineraryDay,
	gallery []domain.GalleryImage,
	booking, cancellation []domain.PackageRule,
	testimonials []domain.Testimonial,
) *domain.PackageDetail {
	items := make([]domain.GalleryItem, len(gallery))
	for i, g := range gallery {
		items[i] = domain.GalleryItem{URL: g.URL, Alt: deref(g.Alt), Caption: deref(g.Caption)}
	}
	return &domain.PackageDetail{
		TravelPackage: *pkg,
		Itinerary:     days,
		Gallery:       items,
		BookingInfo: domain.BookingInfo{
			AdvancePayment: deref(pkg.AdvancePayment),
			BalancePayment: deref(pkg.BalancePayment),
			BookingRules:   ruleTexts(booking),
		},
		CancellationPolicy: domain.CancellationPolicy{Rules: ruleTexts(cancellation)},
		Testimonials:       testimonials,
	}
}

// childReader carries what a degraded child read reports back to Get.
type childReader struct {
	packageID uuid.UUID
	degraded  *atomic.Bool
}

// degrade runs fetch and substitutes an empty slice when it fails.
func degrade[T any](ctx context.Context, r childReader, what string, fetch func(context.Context) ([]T, error)) []T {
	rows, err := fetch(ctx)
	if err != nil {
		r.degraded.Store(true)
		log.Printf("package %s: %s unavailable, serving empty: %v", r.packageID, what, err)
		trace.SpanFromContext(ctx).AddEvent("degraded read", trace.WithAttributes(attribute.String("collection", what)))
		return []T{}
	}
	if rows == nil {
		return []T{}
	}
	return rows
}

func fetchDegraded[T any](ctx context.Context, wg *sync.WaitGroup, r childReader, dst *[]T, what string, fetch func(context.Context) ([]T, error)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		*dst = degrade(ctx, r, what, fetch)
	}()
}

func ruleTexts(rules []domain.PackageRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Rule
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
