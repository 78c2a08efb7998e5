package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/service"
	"github.com/yathrananda/admin-console/internal/util"
)

func (h *AdminHandler) listHeroMedia(c echo.Context) error {
	items, err := h.svc.HeroMedia.List(c.Request().Context())
	if err != nil {
		return writeContentError(c, err, "Failed to fetch hero media")
	}
	return c.JSON(http.StatusOK, util.Envelope{"media": items})
}

func (h *AdminHandler) uploadHeroMedia(c echo.Context) error {
	files, err := parseUploads(c)
	if err != nil || !isMultipart(c) {
		return c.JSON(http.StatusBadRequest, util.Error("invalid multipart payload"))
	}
	defer files.Close()

	uploads, err := files.all("files", "files[]", "file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read upload"))
	}
	if len(uploads) == 0 {
		return c.JSON(http.StatusBadRequest, util.Error("at least one file is required"))
	}

	items, err := h.svc.HeroMedia.Upload(c.Request().Context(), uploads)
	if err != nil {
		return writeContentError(c, err, "Failed to upload hero media")
	}
	return c.JSON(http.StatusCreated, util.Envelope{"media": items})
}

func (h *AdminHandler) activateHeroMedia(c echo.Context) error {
	return h.toggleHeroMedia(c, h.svc.HeroMedia.Activate)
}

func (h *AdminHandler) deactivateHeroMedia(c echo.Context) error {
	return h.toggleHeroMedia(c, h.svc.HeroMedia.Deactivate)
}

func (h *AdminHandler) toggleHeroMedia(c echo.Context, op func(ctx context.Context, id uuid.UUID) (*domain.HeroMedia, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid media id"))
	}
	item, err := op(c.Request().Context(), id)
	if err != nil {
		return writeContentError(c, err, "Failed to update hero media")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusOK, util.Envelope{"media": item})
}

func (h *AdminHandler) replaceHeroMedia(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid media id"))
	}
	files, err := parseUploads(c)
	if err != nil || !isMultipart(c) {
		return c.JSON(http.StatusBadRequest, util.Error("invalid multipart payload"))
	}
	defer files.Close()

	upload, ok, err := files.file("file")
	if err != nil || !ok {
		return c.JSON(http.StatusBadRequest, util.Error("file upload required"))
	}
	item, err := h.svc.HeroMedia.Replace(c.Request().Context(), id, upload)
	if err != nil {
		return writeContentError(c, err, "Failed to replace hero media")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusOK, util.Envelope{"media": item})
}

func (h *AdminHandler) deleteHeroMedia(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid media id"))
	}
	if err := h.svc.HeroMedia.Delete(c.Request().Context(), id); err != nil {
		return writeContentError(c, err, "Failed to delete hero media")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusOK, util.Success())
}

type faqRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

func (h *AdminHandler) listFAQs(c echo.Context) error {
	faqs, err := h.svc.FAQs.List(c.Request().Context(), domain.NewestFirst)
	if err != nil {
		return writeContentError(c, err, "Failed to fetch FAQs")
	}
	return c.JSON(http.StatusOK, util.Envelope{"faqs": faqs})
}

func (h *AdminHandler) createFAQ(c echo.Context) error {
	var req faqRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(validationMessage(err)))
	}
	faq, err := h.svc.FAQs.Create(c.Request().Context(), req.Question, req.Answer)
	if err != nil {
		return writeContentError(c, err, "Failed to save FAQ")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusCreated, util.Envelope{"faq": faq})
}

func (h *AdminHandler) updateFAQ(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid faq id"))
	}
	var req faqRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(validationMessage(err)))
	}
	faq, err := h.svc.FAQs.Update(c.Request().Context(), id, req.Question, req.Answer)
	if err != nil {
		return writeContentError(c, err, "Failed to save FAQ")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusOK, util.Envelope{"faq": faq})
}

func (h *AdminHandler) deleteFAQ(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid faq id"))
	}
	if err := h.svc.FAQs.Delete(c.Request().Context(), id); err != nil {
		return writeContentError(c, err, "Failed to delete FAQ")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusOK, util.Success())
}

type testimonialRequest struct {
	ClientName string  `json:"client_name" validate:"required"`
	Message    string  `json:"message" validate:"required"`
	ImageURL   *string `json:"image_url"`
}

func (h *AdminHandler) listTestimonials(c echo.Context) error {
	items, err := h.svc.Testimonials.List(c.Request().Context())
	if err != nil {
		return writeContentError(c, err, "Failed to fetch testimonials")
	}
	return c.JSON(http.StatusOK, util.Envelope{"testimonials": items})
}

func (h *AdminHandler) createTestimonial(c echo.Context) error {
	in, files, err := bindTestimonial(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	defer files.Close()

	item, err := h.svc.Testimonials.Create(c.Request().Context(), in)
	if err != nil {
		return writeContentError(c, err, "Failed to save testimonial")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusCreated, util.Envelope{"testimonial": item})
}

func (h *AdminHandler) updateTestimonial(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid testimonial id"))
	}
	in, files, err := bindTestimonial(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	defer files.Close()

	item, err := h.svc.Testimonials.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeContentError(c, err, "Failed to save testimonial")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusOK, util.Envelope{"testimonial": item})
}

func (h *AdminHandler) deleteTestimonial(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid testimonial id"))
	}
	if err := h.svc.Testimonials.Delete(c.Request().Context(), id); err != nil {
		return writeContentError(c, err, "Failed to delete testimonial")
	}
	h.purgePublicCache(c.Request().Context())
	return c.JSON(http.StatusOK, util.Success())
}

// bindTestimonial reads either a JSON body or a multipart form with an
// optional "image" file part.
func bindTestimonial(c echo.Context) (service.TestimonialInput, *uploadSet, error) {
	files, err := parseUploads(c)
	if err != nil {
		return service.TestimonialInput{}, nil, errors.New("invalid multipart payload")
	}

	fail := func(msg string) (service.TestimonialInput, *uploadSet, error) {
		files.Close()
		return service.TestimonialInput{}, nil, errors.New(msg)
	}

	var req testimonialRequest
	if isMultipart(c) {
		req.ClientName = files.value("client_name")
		req.Message = files.value("message")
		if files.has("image_url") {
			url := files.value("image_url")
			req.ImageURL = &url
		}
	} else if err := c.Bind(&req); err != nil {
		return fail("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(validationMessage(err))
	}

	in := service.TestimonialInput{ClientName: req.ClientName, Message: req.Message}
	upload, ok, err := files.file("image")
	switch {
	case err != nil:
		return fail("unable to read upload")
	case ok:
		in.Image = service.PendingImage{Upload: upload}
	case req.ImageURL != nil:
		in.Image = service.StoredImage{URL: strings.TrimSpace(*req.ImageURL)}
	}
	return in, files, nil
}

type settingsRequest struct {
	CompanyEmail     string `json:"company_email" validate:"omitempty,email"`
	CompanyPhone     string `json:"company_phone"`
	CompanyAddress   string `json:"company_address"`
	EmergencyContact string `json:"emergency_contact"`
	FacebookURL      string `json:"facebook_url" validate:"omitempty,url"`
	InstagramURL     string `json:"instagram_url" validate:"omitempty,url"`
	TwitterURL       string `json:"twitter_url" validate:"omitempty,url"`
	LinkedInURL      string `json:"linkedin_url" validate:"omitempty,url"`
}

func (h *AdminHandler) getSettings(c echo.Context) error {
	settings, err := h.svc.Settings.Get(c.Request().Context())
	if err != nil {
		return writeContentError(c, err, "Failed to fetch settings")
	}
	return c.JSON(http.StatusOK, util.Envelope{"settings": settings})
}

func (h *AdminHandler) saveSettings(c echo.Context) error {
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(validationMessage(err)))
	}
	settings, err := h.svc.Settings.Save(c.Request().Context(), domain.Settings{
		CompanyEmail:     req.CompanyEmail,
		CompanyPhone:     req.CompanyPhone,
		CompanyAddress:   req.CompanyAddress,
		EmergencyContact: req.EmergencyContact,
		FacebookURL:      &req.FacebookURL,
		InstagramURL:     &req.InstagramURL,
		TwitterURL:       &req.TwitterURL,
		LinkedInURL:      &req.LinkedInURL,
	})
	if err != nil {
		return writeContentError(c, err, "Failed to save settings")
	}
	return c.JSON(http.StatusOK, util.Envelope{"settings": settings})
}

type mediaDeleteRequest struct {
	PublicID string `json:"publicId"`
}

func (h *AdminHandler) deleteMedia(c echo.Context) error {
	var req mediaDeleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if strings.TrimSpace(req.PublicID) == "" {
		return c.JSON(http.StatusBadRequest, util.Error("Public ID is required"))
	}
	if !h.svc.Media.DeleteByID(c.Request().Context(), strings.TrimSpace(req.PublicID)) {
		return c.JSON(http.StatusBadGateway, util.Error("Failed to delete media"))
	}
	return c.JSON(http.StatusOK, util.Success())
}

func writeContentError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrHeroMediaNotFound):
		return c.JSON(http.StatusNotFound, util.Error("Hero media not found"))
	case errors.Is(err, service.ErrFAQNotFound):
		return c.JSON(http.StatusNotFound, util.Error("FAQ not found"))
	case errors.Is(err, service.ErrTestimonialNotFound):
		return c.JSON(http.StatusNotFound, util.Error("Testimonial not found"))
	case errors.Is(err, service.ErrFAQValidation), errors.Is(err, service.ErrTestimonialValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrMediaRequired), errors.Is(err, service.ErrMediaTooLarge), errors.Is(err, service.ErrMediaUnsupportedType):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrMediaUpload):
		c.Logger().Errorf("%s: %v", fallback, err)
		return c.JSON(http.StatusBadGateway, util.Error(fallback))
	default:
		c.Logger().Errorf("%s: %v", fallback, err)
		return c.JSON(http.StatusInternalServerError, util.Error(fallback))
	}
}
