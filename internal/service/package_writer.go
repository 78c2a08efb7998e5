package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/media"
)

// ImageSource is either an image that already lives on the media host or a
// file that still has to be uploaded.
type ImageSource interface {
	imageSource()
}

type StoredImage struct {
	URL string
}

type PendingImage struct {
	Upload media.Upload
}

func (StoredImage) imageSource()  {}
func (PendingImage) imageSource() {}

type ImageInput struct {
	Source ImageSource
	Alt    string
}

type GalleryInput struct {
	Source  ImageSource
	Alt     string
	Caption string
}

type ItineraryDayInput struct {
	Day        int
	Title      string
	Route      string
	MealPlan   string
	Notes      string
	Activities []string
	Images     []ImageInput
}

type PackageInput struct {
	Title       string
	Subtitle    string
	Description string
	Overview    string
	Price       decimal.Decimal
	Duration    string
	Location    string
	GroupSize   string

	// Hero replaces the package cover. Nil keeps the current cover.
	Hero    ImageSource
	HeroAlt string

	IsTrending        bool
	IsUpcoming        bool
	IsDomestic        bool
	IsInternational   bool
	IsKeralaTours     bool
	IsCustomizedTours bool

	DeparturePlace        string
	DepartureDate         *time.Time
	DepartureType         string
	ActivitiesDisplayType string
	AdvancePayment        string
	BalancePayment        string

	Itinerary         []ItineraryDayInput
	Gallery           []GalleryInput
	BookingRules      []string
	CancellationRules []string
	TestimonialIDs    []uuid.UUID
}

// Save creates the package when id is nil, otherwise replaces the package
// with that id. Child collections are rewritten from scratch on every save.
// A failure part way leaves whatever was already written in place.
func (s *PackageService) Save(ctx context.Context, id *uuid.UUID, in PackageInput) (*domain.PackageDetail, error) {
	ctx, span := tracer.Start(ctx, "PackageService.Save")
	defer span.End()

	if err := validatePackageInput(&in); err != nil {
		return nil, err
	}

	var existing *domain.PackageDetail
	if id != nil {
		span.SetAttributes(attribute.String("package.id", id.String()))
		current, err := s.Get(ctx, *id)
		if err != nil {
			return nil, err
		}
		existing = current
	}

	heroURL, err := s.resolveImage(ctx, in.Hero)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: hero image: %w", ErrPackageSave, err)
	}

	row := in.packageRow()
	switch {
	case in.Hero != nil:
		row.ImageURL = optional(heroURL)
		row.HeroImageURL = optional(heroURL)
	case existing != nil:
		row.ImageURL = existing.ImageURL
		row.HeroImageURL = existing.HeroImageURL
	}

	var saved *domain.TravelPackage
	if existing != nil {
		row.ID = existing.ID
		saved, err = s.packages.Update(ctx, row)
	} else {
		saved, err = s.packages.Create(ctx, row)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPackageNotFound
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", ErrPackageSave, err)
	}

	if existing != nil {
		if err := s.clearChildren(ctx, saved.ID); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("%w: %w", ErrPackageSave, err)
		}
	}
	// Cleanup compares against what was written, never against a re-read
	// that may have come back degraded.
	written := &urlSet{}
	written.add(deref(saved.ImageURL), deref(saved.HeroImageURL))
	if err := s.writeChildren(ctx, saved.ID, &in, written); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", ErrPackageSave, err)
	}

	detail, err := s.Get(ctx, saved.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.deleteUnreferenced(ctx, existing.MediaURLs(), written.list())
	}
	return detail, nil
}

// Delete removes the package with its children and links, then drops the
// media it referenced from the media host.
func (s *PackageService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "PackageService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("package.id", id.String()))

	detail, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.clearChildren(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrPackageSave, err)
	}
	if err := s.testimonials.DeletePackageLinks(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrPackageSave, err)
	}
	if err := s.packages.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrPackageNotFound
		}
		return fmt.Errorf("%w: %w", ErrPackageSave, err)
	}
	s.media.DeleteMany(context.WithoutCancel(ctx), detail.MediaURLs())
	return nil
}

func (s *PackageService) clearChildren(ctx context.Context, packageID uuid.UUID) error {
	var (
		wg   sync.WaitGroup
		errs errorSet
	)
	step := func(what string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errs.add(fmt.Errorf("clear %s: %w", what, err))
			}
		}()
	}
	step("itinerary", func() error { return s.itinerary.DeleteByPackage(ctx, packageID) })
	step("gallery", func() error { return s.gallery.DeleteByPackage(ctx, packageID) })
	step("booking rules", func() error { return s.rules.DeleteByPackage(ctx, domain.RuleKindBooking, packageID) })
	step("cancellation rules", func() error {
		return s.rules.DeleteByPackage(ctx, domain.RuleKindCancellation, packageID)
	})
	wg.Wait()
	return errs.err()
}

// writeChildren inserts days and gallery, then rules, then testimonial links.
// Every failing step of a phase is reported; later phases are skipped.
func (s *PackageService) writeChildren(ctx context.Context, packageID uuid.UUID, in *PackageInput, written *urlSet) error {
	var (
		wg   sync.WaitGroup
		errs errorSet
	)
	for i, day := range in.Itinerary {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.saveDay(ctx, packageID, i, day, written); err != nil {
				errs.add(fmt.Errorf("itinerary day %d: %w", day.Day, err))
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.saveGallery(ctx, packageID, in.Gallery, written); err != nil {
			errs.add(fmt.Errorf("gallery: %w", err))
		}
	}()
	wg.Wait()
	if err := errs.err(); err != nil {
		return err
	}

	for _, kind := range []domain.RuleKind{domain.RuleKindBooking, domain.RuleKindCancellation} {
		texts := in.BookingRules
		if kind == domain.RuleKindCancellation {
			texts = in.CancellationRules
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.saveRules(ctx, packageID, kind, texts); err != nil {
				errs.add(fmt.Errorf("%s rules: %w", kind, err))
			}
		}()
	}
	wg.Wait()
	if err := errs.err(); err != nil {
		return err
	}

	if err := s.testimonials.ReplacePackageLinks(ctx, packageID, uniqueIDs(in.TestimonialIDs)); err != nil {
		return fmt.Errorf("testimonial links: %w", err)
	}
	return nil
}

func (s *PackageService) saveDay(ctx context.Context, packageID uuid.UUID, index int, in ItineraryDayInput, written *urlSet) error {
	day, err := s.itinerary.CreateDay(ctx, &domain.ItineraryDay{
		PackageID:    packageID,
		Day:          in.Day,
		Title:        strings.TrimSpace(in.Title),
		Route:        optional(in.Route),
		MealPlan:     optional(in.MealPlan),
		Notes:        optional(in.Notes),
		DisplayOrder: index,
	})
	if err != nil {
		return err
	}

	var errs errorSet
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var rows []domain.ItineraryActivity
		for i, text := range in.Activities {
			if text = strings.TrimSpace(text); text != "" {
				rows = append(rows, domain.ItineraryActivity{ItineraryID: day.ID, Activity: text, DisplayOrder: i})
			}
		}
		if len(rows) > 0 {
			errs.add(s.itinerary.CreateActivities(ctx, rows))
		}
	}()
	go func() {
		defer wg.Done()
		sources := make([]ImageSource, len(in.Images))
		for i, img := range in.Images {
			sources[i] = img.Source
		}
		urls, err := s.resolveImages(ctx, sources)
		if err != nil {
			errs.add(err)
			return
		}
		var rows []domain.ItineraryImage
		for i, url := range urls {
			if url != "" {
				rows = append(rows, domain.ItineraryImage{
					ItineraryID:  day.ID,
					URL:          url,
					Alt:          optional(in.Images[i].Alt),
					DisplayOrder: i,
				})
			}
		}
		if len(rows) == 0 {
			return
		}
		if err := s.itinerary.CreateImages(ctx, rows); err != nil {
			errs.add(err)
			return
		}
		for _, row := range rows {
			written.add(row.URL)
		}
	}()
	wg.Wait()
	return errs.err()
}

func (s *PackageService) saveGallery(ctx context.Context, packageID uuid.UUID, items []GalleryInput, written *urlSet) error {
	sources := make([]ImageSource, len(items))
	for i, item := range items {
		sources[i] = item.Source
	}
	urls, err := s.resolveImages(ctx, sources)
	if err != nil {
		return err
	}
	var rows []domain.GalleryImage
	for i, url := range urls {
		if url != "" {
			rows = append(rows, domain.GalleryImage{
				PackageID:    packageID,
				URL:          url,
				Alt:          optional(items[i].Alt),
				Caption:      optional(items[i].Caption),
				DisplayOrder: i,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.gallery.CreateMany(ctx, rows); err != nil {
		return err
	}
	for _, row := range rows {
		written.add(row.URL)
	}
	return nil
}

func (s *PackageService) saveRules(ctx context.Context, packageID uuid.UUID, kind domain.RuleKind, texts []string) error {
	var rows []domain.PackageRule
	for i, text := range texts {
		if text = strings.TrimSpace(text); text != "" {
			rows = append(rows, domain.PackageRule{PackageID: packageID, Rule: text, DisplayOrder: i})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return s.rules.CreateMany(ctx, kind, rows)
}

func (s *PackageService) resolveImage(ctx context.Context, src ImageSource) (string, error) {
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

// resolveImages uploads pending images concurrently. URLs come back in input
// order; empty strings mark entries with nothing to store.
func (s *PackageService) resolveImages(ctx context.Context, sources []ImageSource) ([]string, error) {
	urls := make([]string, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, src := range sources {
		g.Go(func() error {
			url, err := s.resolveImage(gctx, src)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// urlSet collects media URLs persisted by concurrent writers.
type urlSet struct {
	mu   sync.Mutex
	urls []string
}

func (u *urlSet) add(urls ...string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, url := range urls {
		if url != "" {
			u.urls = append(u.urls, url)
		}
	}
}

func (u *urlSet) list() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.urls...)
}

func (s *PackageService) deleteUnreferenced(ctx context.Context, before, after []string) {
	kept := make(map[string]struct{}, len(after))
	for _, url := range after {
		kept[url] = struct{}{}
	}
	var stale []string
	seen := make(map[string]struct{})
	for _, url := range before {
		if _, ok := kept[url]; ok {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		stale = append(stale, url)
	}
	if len(stale) > 0 {
		s.media.DeleteMany(context.WithoutCancel(ctx), stale)
	}
}

func (in *PackageInput) packageRow() *domain.TravelPackage {
	row := &domain.TravelPackage{
		Title:                 strings.TrimSpace(in.Title),
		Subtitle:              optional(in.Subtitle),
		Description:           optional(in.Description),
		Overview:              optional(in.Overview),
		Price:                 in.Price,
		Duration:              strings.TrimSpace(in.Duration),
		Location:              strings.TrimSpace(in.Location),
		GroupSize:             optional(in.GroupSize),
		HeroImageAlt:          optional(in.HeroAlt),
		IsTrending:            in.IsTrending,
		IsUpcoming:            in.IsUpcoming,
		IsDomestic:            in.IsDomestic,
		IsInternational:       in.IsInternational,
		IsKeralaTours:         in.IsKeralaTours,
		IsCustomizedTours:     in.IsCustomizedTours,
		DeparturePlace:        optional(in.DeparturePlace),
		DepartureDate:         in.DepartureDate,
		ActivitiesDisplayType: domain.ActivitiesDisplayType(in.ActivitiesDisplayType),
		AdvancePayment:        optional(in.AdvancePayment),
		BalancePayment:        optional(in.BalancePayment),
	}
	if in.DepartureType != "" {
		t := domain.DepartureType(in.DepartureType)
		row.DepartureType = &t
	}
	return row
}

func validatePackageInput(in *PackageInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrPackageValidation)
	}
	if strings.TrimSpace(in.Duration) == "" {
		return fmt.Errorf("%w: duration is required", ErrPackageValidation)
	}
	if strings.TrimSpace(in.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrPackageValidation)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrPackageValidation)
	}
	in.DepartureType = strings.ToLower(strings.TrimSpace(in.DepartureType))
	if in.DepartureType != "" && !domain.DepartureType(in.DepartureType).Valid() {
		return fmt.Errorf("%w: departure type must be plane or train", ErrPackageValidation)
	}
	in.ActivitiesDisplayType = strings.ToLower(strings.TrimSpace(in.ActivitiesDisplayType))
	if in.ActivitiesDisplayType == "" {
		in.ActivitiesDisplayType = string(domain.ActivitiesDisplayPoints)
	}
	if !domain.ActivitiesDisplayType(in.ActivitiesDisplayType).Valid() {
		return fmt.Errorf("%w: activities display type must be points or description", ErrPackageValidation)
	}
	for i, day := range in.Itinerary {
		if day.Day < 1 {
			return fmt.Errorf("%w: itinerary entry %d has day %d", ErrPackageValidation, i+1, day.Day)
		}
		if strings.TrimSpace(day.Title) == "" {
			return fmt.Errorf("%w: itinerary day %d needs a title", ErrPackageValidation, day.Day)
		}
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
