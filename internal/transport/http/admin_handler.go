package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yathrananda/admin-console/internal/repository/ports"
	"github.com/yathrananda/admin-console/internal/service"
	"github.com/yathrananda/admin-console/internal/util"
)

type AdminServices struct {
	Auth         *service.AuthService
	Packages     *service.PackageService
	HeroMedia    *service.HeroMediaService
	FAQs         *service.FAQService
	Testimonials *service.TestimonialService
	Settings     *service.SettingsService
	Media        *service.MediaService
}

type AdminHandler struct {
	svc   AdminServices
	cache ports.Cache
}

// RegisterAdmin mounts the session-gated admin endpoints. Every successful
// mutation drops the cached public responses.
func RegisterAdmin(e *echo.Echo, svc AdminServices, cache ports.Cache, allowOrigins []string) {
	h := &AdminHandler{svc: svc, cache: cache}
	session := RequireSession(svc.Auth)
	cors := adminCORS(allowOrigins)

	packages := e.Group("/packages", cors, session)
	packages.GET("", h.listPackages)
	packages.GET("/:id", h.getPackage)
	packages.POST("", h.createPackage)
	packages.PUT("/:id", h.updatePackage)
	packages.DELETE("/:id", h.deletePackage)

	hero := e.Group("/hero-media", cors, session)
	hero.GET("", h.listHeroMedia)
	hero.POST("", h.uploadHeroMedia)
	hero.POST("/:id/activate", h.activateHeroMedia)
	hero.POST("/:id/deactivate", h.deactivateHeroMedia)
	hero.PUT("/:id", h.replaceHeroMedia)
	hero.DELETE("/:id", h.deleteHeroMedia)

	faqs := e.Group("/faqs", cors, session)
	faqs.GET("", h.listFAQs)
	faqs.POST("", h.createFAQ)
	faqs.PUT("/:id", h.updateFAQ)
	faqs.DELETE("/:id", h.deleteFAQ)

	testimonials := e.Group("/testimonials", cors, session)
	testimonials.GET("", h.listTestimonials)
	testimonials.POST("", h.createTestimonial)
	testimonials.PUT("/:id", h.updateTestimonial)
	testimonials.DELETE("/:id", h.deleteTestimonial)

	settings := e.Group("/settings", cors, session)
	settings.GET("", h.getSettings)
	settings.PUT("", h.saveSettings)

	mediaGroup := e.Group("/api/cloudinary", cors, session)
	mediaGroup.POST("/delete", h.deleteMedia)
}

func (h *AdminHandler) purgePublicCache(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.DeletePrefix(ctx, publicCachePrefix); err != nil {
		log.Printf("cache: purge public responses: %v", err)
	}
}

type imageRequest struct {
	URL     string `json:"url"`
	File    string `json:"file"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

type itineraryDayRequest struct {
	Day        int            `json:"day" validate:"min=1"`
	Title      string         `json:"title" validate:"required"`
	Route      string         `json:"route"`
	MealPlan   string         `json:"meal_plan"`
	Notes      string         `json:"notes"`
	Activities []string       `json:"activities"`
	Images     []imageRequest `json:"images"`
}

type packageRequest struct {
	Title       string          `json:"title" validate:"required"`
	Subtitle    string          `json:"subtitle"`
	Description string          `json:"description"`
	Overview    string          `json:"overview"`
	Price       decimal.Decimal `json:"price"`
	Duration    string          `json:"duration" validate:"required"`
	Location    string          `json:"location" validate:"required"`
	GroupSize   string          `json:"group_size"`

	HeroImage    *imageRequest `json:"hero_image"`
	HeroImageAlt string        `json:"hero_image_alt"`

	IsTrending        bool `json:"is_trending"`
	IsUpcoming        bool `json:"is_upcoming"`
	IsDomestic        bool `json:"is_domestic"`
	IsInternational   bool `json:"is_international"`
	IsKeralaTours     bool `json:"is_kerala_tours"`
	IsCustomizedTours bool `json:"is_customized_tours"`

	DeparturePlace        string `json:"departure_place"`
	DepartureDate         string `json:"departure_date"`
	DepartureType         string `json:"departure_type" validate:"omitempty,oneof=plane train"`
	ActivitiesDisplayType string `json:"activities_display_type" validate:"omitempty,oneof=points description"`
	AdvancePayment        string `json:"advance_payment"`
	BalancePayment        string `json:"balance_payment"`

	Itinerary         []itineraryDayRequest `json:"itinerary" validate:"dive"`
	Gallery           []imageRequest        `json:"gallery"`
	BookingRules      []string              `json:"booking_rules"`
	CancellationRules []string              `json:"cancellation_rules"`
	TestimonialIDs    []uuid.UUID           `json:"testimonial_ids"`
}

func (h *AdminHandler) listPackages(c echo.Context) error {
	packages, err := h.svc.Packages.List(c.Request().Context())
	if err != nil {
		return writePackageError(c, err, "Failed to fetch packages")
	}
	return c.JSON(http.StatusOK, util.Envelope{"packages": packages})
}

func (h *AdminHandler) getPackage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid package id"))
	}
	detail, err := h.svc.Packages.Get(c.Request().Context(), id)
	if err != nil {
		return writePackageError(c, err, "Failed to fetch package details")
	}
	return c.JSON(http.StatusOK, util.Envelope{"package": detail})
}

func (h *AdminHandler) createPackage(c echo.Context) error {
	return h.savePackage(c, nil, http.StatusCreated)
}

func (h *AdminHandler) updatePackage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid package id"))
	}
	return h.savePackage(c, &id, http.StatusOK)
}

func (h *AdminHandler) savePackage(c echo.Context, id *uuid.UUID, status int) error {
	files, err := parseUploads(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid multipart payload"))
	}
	defer files.Close()

	var req packageRequest
	if isMultipart(c) {
		payload := files.value("payload")
		if strings.TrimSpace(payload) == "" {
			return c.JSON(http.StatusBadRequest, util.Error("payload field is required"))
		}
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid payload JSON"))
		}
	} else if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(validationMessage(err)))
	}

	input, err := req.toInput(files)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	detail, err := h.svc.Packages.Save(c.Request().Context(), id, input)
	if err != nil {
		return writePackageError(c, err, "Failed to save package")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(status, util.Envelope{"package": detail})
}

func (h *AdminHandler) deletePackage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid package id"))
	}
	if err := h.svc.Packages.Delete(c.Request().Context(), id); err != nil {
		return writePackageError(c, err, "Failed to delete package")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusOK, util.Success())
}

func (r *packageRequest) toInput(files *uploadSet) (service.PackageInput, error) {
	in := service.PackageInput{
		Title:                 r.Title,
		Subtitle:              r.Subtitle,
		Description:           r.Description,
		Overview:              r.Overview,
		Price:                 r.Price,
		Duration:              r.Duration,
		Location:              r.Location,
		GroupSize:             r.GroupSize,
		HeroAlt:               r.HeroImageAlt,
		IsTrending:            r.IsTrending,
		IsUpcoming:            r.IsUpcoming,
		IsDomestic:            r.IsDomestic,
		IsInternational:       r.IsInternational,
		IsKeralaTours:         r.IsKeralaTours,
		IsCustomizedTours:     r.IsCustomizedTours,
		DeparturePlace:        r.DeparturePlace,
		DepartureType:         r.DepartureType,
		ActivitiesDisplayType: r.ActivitiesDisplayType,
		AdvancePayment:        r.AdvancePayment,
		BalancePayment:        r.BalancePayment,
		BookingRules:          r.BookingRules,
		CancellationRules:     r.CancellationRules,
		TestimonialIDs:        r.TestimonialIDs,
	}

	if strings.TrimSpace(r.DepartureDate) != "" {
		date, err := parseDate(r.DepartureDate)
		if err != nil {
			return in, err
		}
		in.DepartureDate = &date
	}

	switch {
	case r.HeroImage != nil:
		src, err := imageSource(*r.HeroImage, files)
		if err != nil {
			return in, err
		}
		in.Hero = src
		if src == nil {
			in.Hero = service.StoredImage{}
		}
	default:
		up, ok, err := files.file("hero_image")
		if err != nil {
			return in, err
		}
		if ok {
			in.Hero = service.PendingImage{Upload: up}
		}
	}

	for _, day := range r.Itinerary {
		dayIn := service.ItineraryDayInput{
			Day:        day.Day,
			Title:      day.Title,
			Route:      day.Route,
			MealPlan:   day.MealPlan,
			Notes:      day.Notes,
			Activities: day.Activities,
		}
		for _, img := range day.Images {
			src, err := imageSource(img, files)
			if err != nil {
				return in, err
			}
			dayIn.Images = append(dayIn.Images, service.ImageInput{Source: src, Alt: img.Alt})
		}
		in.Itinerary = append(in.Itinerary, dayIn)
	}
	for _, img := range r.Gallery {
		src, err := imageSource(img, files)
		if err != nil {
			return in, err
		}
		in.Gallery = append(in.Gallery, service.GalleryInput{Source: src, Alt: img.Alt, Caption: img.Caption})
	}
	return in, nil
}

// imageSource resolves an image reference: a named file part wins over a URL.
func imageSource(img imageRequest, files *uploadSet) (service.ImageSource, error) {
	if name := strings.TrimSpace(img.File); name != "" {
		up, ok, err := files.file(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w %q", errMissingFilePart, name)
		}
		return service.PendingImage{Upload: up}, nil
	}
	if url := strings.TrimSpace(img.URL); url != "" {
		return service.StoredImage{URL: url}, nil
	}
	return nil, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("departure_date must be YYYY-MM-DD")
}

func writePackageError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrPackageNotFound):
		return c.JSON(http.StatusNotFound, util.Error("Package not found"))
	case errors.Is(err, service.ErrPackageValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrMediaRequired), errors.Is(err, service.ErrMediaTooLarge), errors.Is(err, service.ErrMediaUnsupportedType):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	default:
		c.Logger().Errorf("%s: %v", fallback, err)
		return c.JSON(http.StatusInternalServerError, util.Error(fallback))
	}
}
