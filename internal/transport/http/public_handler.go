package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/ports"
	"github.com/yathrananda/admin-console/internal/service"
	"github.com/yathrananda/admin-console/internal/util"
)

const (
	publicCachePrefix  = "public:"
	headerCacheControl = "Cache-Control"
)

type PublicConfig struct {
	APIToken     string
	AllowOrigins []string
}

type PublicServices struct {
	Packages     *service.PackageService
	HeroMedia    *service.HeroMediaService
	FAQs         *service.FAQService
	Testimonials *service.TestimonialService
}

type cachePolicy struct {
	maxAge time.Duration
	stale  time.Duration
}

func (p cachePolicy) header() string {
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", int(p.maxAge.Seconds()), int(p.stale.Seconds()))
}

var (
	packagesPolicy     = cachePolicy{maxAge: 5 * time.Minute, stale: 10 * time.Minute}
	heroPolicy         = cachePolicy{maxAge: time.Minute, stale: 5 * time.Minute}
	faqsPolicy         = cachePolicy{maxAge: time.Hour, stale: 2 * time.Hour}
	testimonialsPolicy = cachePolicy{maxAge: 5 * time.Minute, stale: 10 * time.Minute}
)

type PublicHandler struct {
	svc   PublicServices
	cache ports.Cache
}

// RegisterPublic mounts the read-only API consumed by the public website.
func RegisterPublic(e *echo.Echo, cfg PublicConfig, svc PublicServices, cache ports.Cache) {
	h := &PublicHandler{svc: svc, cache: cache}
	api := e.Group("/api", PublicCORS(cfg.AllowOrigins), RequireAPIToken(cfg.APIToken))

	route := func(path string, handler echo.HandlerFunc) {
		api.GET(path, handler)
		api.OPTIONS(path, func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	}
	route("/packages", h.listPackages)
	route("/packages/upcoming", h.listUpcomingPackages)
	route("/packages/:id", h.getPackage)
	route("/hero", h.listHeroMedia)
	route("/faqs", h.listFAQs)
	route("/testimonials", h.listTestimonials)
}

type packageSummary struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Subtitle       *string         `json:"subtitle"`
	Description    *string         `json:"description"`
	Overview       *string         `json:"overview"`
	Price          decimal.Decimal `json:"price"`
	Duration       string          `json:"duration"`
	Location       string          `json:"location"`
	ImageURL       *string         `json:"image_url"`
	HeroImageURL   *string         `json:"hero_image_url"`
	HeroImageAlt   *string         `json:"hero_image_alt"`
	GroupSize      *string         `json:"group_size"`
	AdvancePayment *string         `json:"advance_payment"`
	BalancePayment *string         `json:"balance_payment"`
}

type upcomingPackageSummary struct {
	packageSummary
	IsInternational       bool                         `json:"is_international"`
	IsDomestic            bool                         `json:"is_domestic"`
	IsKeralaTours         bool                         `json:"is_kerala_tours"`
	IsCustomizedTours     bool                         `json:"is_customized_tours"`
	DeparturePlace        *string                      `json:"departure_place"`
	DepartureDate         *string                      `json:"departure_date"`
	DepartureType         *domain.DepartureType        `json:"departure_type"`
	ActivitiesDisplayType domain.ActivitiesDisplayType `json:"activities_display_type"`
}

func summarize(p domain.TravelPackage) packageSummary {
	return packageSummary{
		ID:             p.ID,
		Title:          p.Title,
		Subtitle:       p.Subtitle,
		Description:    p.Description,
		Overview:       p.Overview,
		Price:          p.Price,
		Duration:       p.Duration,
		Location:       p.Location,
		ImageURL:       p.ImageURL,
		HeroImageURL:   p.HeroImageURL,
		HeroImageAlt:   p.HeroImageAlt,
		GroupSize:      p.GroupSize,
		AdvancePayment: p.AdvancePayment,
		BalancePayment: p.BalancePayment,
	}
}

func (h *PublicHandler) listPackages(c echo.Context) error {
	return h.respond(c, packagesPolicy, "Failed to fetch packages", func(ctx context.Context) (any, error) {
		packages, err := h.svc.Packages.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]packageSummary, len(packages))
		for i, p := range packages {
			out[i] = summarize(p)
		}
		return util.Envelope{"packages": out}, nil
	})
}

func (h *PublicHandler) listUpcomingPackages(c echo.Context) error {
	return h.respond(c, packagesPolicy, "Failed to fetch upcoming packages", func(ctx context.Context) (any, error) {
		packages, err := h.svc.Packages.ListUpcoming(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]upcomingPackageSummary, len(packages))
		for i, p := range packages {
			item := upcomingPackageSummary{
				packageSummary:        summarize(p),
				IsInternational:       p.IsInternational,
				IsDomestic:            p.IsDomestic,
				IsKeralaTours:         p.IsKeralaTours,
				IsCustomizedTours:     p.IsCustomizedTours,
				DeparturePlace:        p.DeparturePlace,
				DepartureType:         p.DepartureType,
				ActivitiesDisplayType: p.ActivitiesDisplayType,
			}
			if p.DepartureDate != nil {
				date := p.DepartureDate.Format(time.DateOnly)
				item.DepartureDate = &date
			}
			out[i] = item
		}
		return util.Envelope{"packages": out}, nil
	})
}

func (h *PublicHandler) getPackage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid package id"))
	}
	return h.respond(c, packagesPolicy, "Failed to fetch package details", func(ctx context.Context) (any, error) {
		detail, err := h.svc.Packages.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if detail.Degraded {
			return uncached{util.Envelope{"package": detail}}, nil
		}
		return util.Envelope{"package": detail}, nil
	})
}

func (h *PublicHandler) listHeroMedia(c echo.Context) error {
	type slide struct {
		ID            uuid.UUID            `json:"id"`
		URL           string               `json:"url"`
		Type          domain.HeroMediaType `json:"type"`
		CarouselOrder int                  `json:"carousel_order"`
	}
	return h.respond(c, heroPolicy, "Failed to fetch hero media", func(ctx context.Context) (any, error) {
		items, err := h.svc.HeroMedia.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]slide, len(items))
		for i, item := range items {
			out[i] = slide{ID: item.ID, URL: item.URL, Type: item.Type, CarouselOrder: item.CarouselOrder}
		}
		return util.Envelope{"media": out}, nil
	})
}

func (h *PublicHandler) listFAQs(c echo.Context) error {
	type faq struct {
		ID       uuid.UUID `json:"id"`
		Question string    `json:"question"`
		Answer   string    `json:"answer"`
	}
	return h.respond(c, faqsPolicy, "Failed to fetch FAQs", func(ctx context.Context) (any, error) {
		items, err := h.svc.FAQs.List(ctx, domain.OldestFirst)
		if err != nil {
			return nil, err
		}
		out := make([]faq, len(items))
		for i, item := range items {
			out[i] = faq{ID: item.ID, Question: item.Question, Answer: item.Answer}
		}
		return util.Envelope{"faqs": out}, nil
	})
}

func (h *PublicHandler) listTestimonials(c echo.Context) error {
	type testimonial struct {
		ID         uuid.UUID `json:"id"`
		ClientName string    `json:"client_name"`
		Message    string    `json:"message"`
		ImageURL   *string   `json:"image_url"`
	}
	return h.respond(c, testimonialsPolicy, "Failed to fetch testimonials", func(ctx context.Context) (any, error) {
		items, err := h.svc.Testimonials.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]testimonial, len(items))
		for i, item := range items {
			out[i] = testimonial{ID: item.ID, ClientName: item.ClientName, Message: item.Message, ImageURL: item.ImageURL}
		}
		return util.Envelope{"testimonials": out}, nil
	})
}

// uncached wraps a payload that is served but not stored in the response
// cache.
type uncached struct {
	payload any
}

// respond serves a cached body when present, otherwise loads, encodes and
// caches it for the policy's max age.
func (h *PublicHandler) respond(c echo.Context, policy cachePolicy, failure string, load func(context.Context) (any, error)) error {
	ctx := c.Request().Context()
	key := publicCachePrefix + c.Request().URL.RequestURI()
	c.Response().Header().Set(headerCacheControl, policy.header())

	if h.cache != nil {
		body, ok, err := h.cache.Get(ctx, key)
		if err != nil {
			log.Printf("cache: get %s: %v", key, err)
		} else if ok {
			return c.JSONBlob(http.StatusOK, body)
		}
	}

	payload, err := load(ctx)
	if err != nil {
		c.Response().Header().Del(headerCacheControl)
		if errors.Is(err, service.ErrPackageNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("Package not found"))
		}
		log.Printf("%s: %v", failure, err)
		return c.JSON(http.StatusInternalServerError, util.Error(failure))
	}
	store := h.cache != nil
	if u, ok := payload.(uncached); ok {
		payload, store = u.payload, false
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error(failure))
	}
	if store {
		if err := h.cache.Set(ctx, key, body, policy.maxAge); err != nil {
			log.Printf("cache: set %s: %v", key, err)
		}
	}
	return c.JSONBlob(http.StatusOK, body)
}
