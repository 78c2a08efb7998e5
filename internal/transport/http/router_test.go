package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/media"
	"github.com/yathrananda/admin-console/internal/repository/memory"
	"github.com/yathrananda/admin-console/internal/repository/ports"
	"github.com/yathrananda/admin-console/internal/service"
	"github.com/yathrananda/admin-console/internal/util"
)

const (
	testAPIToken  = "public-token"
	testUsername  = "admin"
	testPassword  = "s3cret-pass"
	testMediaBase = "https://media.test/"
)

var testPublicOrigins = []string{"https://yathrananda.com", "https://www.yathrananda.com"}

type stubMediaStore struct {
	mu      sync.Mutex
	deleted []string
}

func (s *stubMediaStore) Upload(_ context.Context, upload media.Upload) (string, error) {
	if _, err := io.ReadAll(upload.Reader); err != nil {
		return "", err
	}
	return testMediaBase + upload.FileName, nil
}

func (s *stubMediaStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, testMediaBase) {
		return ports.ErrForeignMedia
	}
	s.mu.Lock()
	s.deleted = append(s.deleted, url)
	s.mu.Unlock()
	return nil
}

func (s *stubMediaStore) DeleteByID(ctx context.Context, id string) error {
	return s.Delete(ctx, testMediaBase+id)
}

type testApp struct {
	e        *echo.Echo
	store    *memory.Store
	media    *stubMediaStore
	cache    *memory.Cache
	packages *service.PackageService
}

// newTestApp wires every route over the memory store. wrap may replace the
// package repositories before the services are built.
func newTestApp(t *testing.T, wrap ...func(*service.PackageRepositories)) *testApp {
	t.Helper()
	store := memory.NewStore()
	mediaStore := &stubMediaStore{}
	mediaSvc := service.NewMediaService(mediaStore, service.MediaServiceConfig{})
	auth := service.NewAuthService(service.AuthConfig{Username: testUsername, Password: testPassword},
		util.NewJWTManager("test-secret", time.Hour))
	repos := service.PackageRepositories{
		Packages:     store.Packages(),
		Itinerary:    store.Itinerary(),
		Gallery:      store.Gallery(),
		Rules:        store.Rules(),
		Testimonials: store.Testimonials(),
	}
	for _, fn := range wrap {
		fn(&repos)
	}
	packages := service.NewPackageService(repos, mediaSvc)
	hero := service.NewHeroMediaService(store.HeroMedia(), mediaSvc)
	faqs := service.NewFAQService(store.FAQs())
	testimonials := service.NewTestimonialService(store.Testimonials(), mediaSvc)
	cache := memory.NewCache()

	e := NewRouter(RouterConfig{ServiceName: "test"})
	RegisterPages(e)
	RegisterAuth(e, auth, AuthRoutesConfig{LoginRatePerMinute: 100})
	RegisterAdmin(e, AdminServices{
		Auth:         auth,
		Packages:     packages,
		HeroMedia:    hero,
		FAQs:         faqs,
		Testimonials: testimonials,
		Settings:     service.NewSettingsService(store.Settings()),
		Media:        mediaSvc,
	}, cache, nil)
	RegisterPublic(e, PublicConfig{APIToken: testAPIToken, AllowOrigins: testPublicOrigins}, PublicServices{
		Packages:     packages,
		HeroMedia:    hero,
		FAQs:         faqs,
		Testimonials: testimonials,
	}, cache)

	return &testApp{e: e, store: store, media: mediaStore, cache: cache, packages: packages}
}

func (a *testApp) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) publicGet(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testAPIToken)
	return a.serve(req)
}

func (a *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := a.serve(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"username": testUsername,
		"password": testPassword,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatalf("login: no %s cookie set", sessionCookieName)
	return nil
}

func (a *testApp) createPackage(t *testing.T, title string) uuid.UUID {
	t.Helper()
	detail, err := a.packages.Save(context.Background(), nil, service.PackageInput{
		Title:    title,
		Price:    decimal.NewFromInt(999),
		Duration: "3 Days",
		Location: "Kerala",
	})
	if err != nil {
		t.Fatalf("save package: %v", err)
	}
	return detail.ID
}

func jsonRequest(method, path string, body any) *http.Request {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[struct {
		Error string `json:"error"`
	}](t, rec).Error
}

func TestPublicAPI_RequiresBearerToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.serve(httptest.NewRequest(http.MethodGet, "/api/packages", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Missing or invalid authorization header" {
		t.Fatalf("unexpected message %q", msg)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer wrong")
	rec = app.serve(req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong token, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Invalid token" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestPublicAPI_PreflightSkipsToken(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		origin string
		want   string
	}{
		{origin: "https://www.yathrananda.com", want: "https://www.yathrananda.com"},
		{origin: "https://evil.example", want: "https://yathrananda.com"},
		{origin: "", want: "https://yathrananda.com"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodOptions, "/api/packages/upcoming", nil)
		if tc.origin != "" {
			req.Header.Set(echo.HeaderOrigin, tc.origin)
		}
		rec := app.serve(req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("origin %q: expected 204, got %d", tc.origin, rec.Code)
		}
		if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != tc.want {
			t.Fatalf("origin %q: expected allow-origin %q, got %q", tc.origin, tc.want, got)
		}
		if got := rec.Header().Get(echo.HeaderAccessControlAllowMethods); got != "GET, OPTIONS" {
			t.Fatalf("unexpected allow-methods %q", got)
		}
	}
}

func TestPublicAPI_PackageDetailErrors(t *testing.T) {
	app := newTestApp(t)

	rec := app.publicGet("/api/packages/not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Invalid package id" {
		t.Fatalf("unexpected message %q", msg)
	}

	rec = app.publicGet("/api/packages/" + uuid.NewString())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Package not found" {
		t.Fatalf("unexpected message %q", msg)
	}
	if got := rec.Header().Get(headerCacheControl); got != "" {
		t.Fatalf("errors must not be cacheable, got %q", got)
	}
}

// switchableGallery fails reads while down is set.
type switchableGallery struct {
	ports.GalleryRepository
	down *atomic.Bool
}

func (g switchableGallery) ListByPackage(ctx context.Context, packageID uuid.UUID) ([]domain.GalleryImage, error) {
	if g.down.Load() {
		return nil, errors.New("gallery unavailable")
	}
	return g.GalleryRepository.ListByPackage(ctx, packageID)
}

func TestPublicAPI_DegradedDetailIsNotCached(t *testing.T) {
	var down atomic.Bool
	app := newTestApp(t, func(r *service.PackageRepositories) {
		r.Gallery = switchableGallery{GalleryRepository: r.Gallery, down: &down}
	})
	saved, err := app.packages.Save(context.Background(), nil, service.PackageInput{
		Title:    "Kumarakom",
		Duration: "2D",
		Location: "Kumarakom",
		Gallery:  []service.GalleryInput{{Source: service.StoredImage{URL: "https://cdn.example.com/lake.jpg"}}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	path := "/api/packages/" + saved.ID.String()
	type detailBody struct {
		Package struct {
			Gallery []domain.GalleryItem `json:"gallery"`
		} `json:"package"`
	}

	down.Store(true)
	rec := app.publicGet(path)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded 200, got %d", rec.Code)
	}
	if body := decodeBody[detailBody](t, rec); len(body.Package.Gallery) != 0 {
		t.Fatalf("expected empty gallery while degraded, got %+v", body.Package.Gallery)
	}
	if _, ok, _ := app.cache.Get(context.Background(), publicCachePrefix+path); ok {
		t.Fatal("degraded detail must not be cached")
	}

	down.Store(false)
	if body := decodeBody[detailBody](t, app.publicGet(path)); len(body.Package.Gallery) != 1 {
		t.Fatalf("expected gallery once the read recovers, got %+v", body.Package.Gallery)
	}
	if _, ok, _ := app.cache.Get(context.Background(), publicCachePrefix+path); !ok {
		t.Fatal("expected complete detail to be cached")
	}
}

func TestPublicAPI_ListServesCacheUntilAdminWrite(t *testing.T) {
	app := newTestApp(t)
	app.createPackage(t, "Munnar Escape")

	type listBody struct {
		Packages []struct {
			Title string          `json:"title"`
			Price decimal.Decimal `json:"price"`
		} `json:"packages"`
	}

	rec := app.publicGet("/api/packages")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(headerCacheControl); got != "public, s-maxage=300, stale-while-revalidate=600" {
		t.Fatalf("unexpected cache-control %q", got)
	}
	if body := decodeBody[listBody](t, rec); len(body.Packages) != 1 || body.Packages[0].Title != "Munnar Escape" {
		t.Fatalf("unexpected packages %+v", body.Packages)
	}

	// Written behind the handler's back, so the cached list is still served.
	app.createPackage(t, "Wayanad Trails")
	if body := decodeBody[listBody](t, app.publicGet("/api/packages")); len(body.Packages) != 1 {
		t.Fatalf("expected cached single package, got %d", len(body.Packages))
	}

	cookie := app.login(t)
	req := jsonRequest(http.MethodPost, "/faqs", map[string]string{"question": "Visa?", "answer": "On arrival."})
	req.AddCookie(cookie)
	if rec := app.serve(req); rec.Code != http.StatusCreated {
		t.Fatalf("create faq: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody[listBody](t, app.publicGet("/api/packages"))
	if len(body.Packages) != 2 {
		t.Fatalf("expected purge after admin write, got %d packages", len(body.Packages))
	}
	if body.Packages[0].Title != "Wayanad Trails" {
		t.Fatalf("expected newest first, got %q", body.Packages[0].Title)
	}
}

func TestPublicAPI_UpcomingFormatsDepartureDate(t *testing.T) {
	app := newTestApp(t)
	departure := time.Date(2026, time.December, 20, 0, 0, 0, 0, time.UTC)
	_, err := app.packages.Save(context.Background(), nil, service.PackageInput{
		Title:         "Bali Holiday",
		Price:         decimal.NewFromInt(45000),
		Duration:      "6 Days",
		Location:      "Bali",
		IsUpcoming:    true,
		DepartureDate: &departure,
		DepartureType: "plane",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	app.createPackage(t, "Not upcoming")

	body := decodeBody[struct {
		Packages []struct {
			Title         string  `json:"title"`
			DepartureDate *string `json:"departure_date"`
			DepartureType *string `json:"departure_type"`
		} `json:"packages"`
	}](t, app.publicGet("/api/packages/upcoming"))
	if len(body.Packages) != 1 {
		t.Fatalf("expected only the upcoming package, got %d", len(body.Packages))
	}
	got := body.Packages[0]
	if got.DepartureDate == nil || *got.DepartureDate != "2026-12-20" {
		t.Fatalf("unexpected departure date %v", got.DepartureDate)
	}
	if got.DepartureType == nil || *got.DepartureType != "plane" {
		t.Fatalf("unexpected departure type %v", got.DepartureType)
	}
}

func TestAdmin_RedirectsToLoginWithoutSession(t *testing.T) {
	app := newTestApp(t)

	rec := app.serve(httptest.NewRequest(http.MethodGet, "/packages", nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?next=%2Fpackages" {
		t.Fatalf("unexpected location %q", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/faqs", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "forged"})
	if rec := app.serve(req); rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307 for forged cookie, got %d", rec.Code)
	}
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	rec := app.serve(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"username": testUsername,
		"password": "nope",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Invalid username or password" {
		t.Fatalf("unexpected message %q", msg)
	}
	if cookies := rec.Result().Cookies(); len(cookies) != 0 {
		t.Fatalf("expected no cookies, got %v", cookies)
	}

	rec = app.serve(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"username": testUsername}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", rec.Code)
	}
}

func TestAuth_SessionCookieGrantsAdminAccess(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	if !cookie.HttpOnly || cookie.Path != "/" || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes %+v", cookie)
	}
	if cookie.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("expected max-age of one hour, got %d", cookie.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/packages", nil)
	req.AddCookie(cookie)
	if rec := app.serve(req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec := app.serve(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].Value != "" || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected cleared cookie, got %+v", cleared)
	}
}

func TestAdmin_CreatePackageFromJSON(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	req := jsonRequest(http.MethodPost, "/packages", map[string]any{
		"title":    "Goa Getaway",
		"price":    12500,
		"duration": "4 Days",
		"location": "Goa",
		"itinerary": []map[string]any{
			{"day": 1, "title": "Arrival", "activities": []string{"Check in", "Beach walk"}},
			{"day": 2, "title": "Old Goa", "images": []map[string]string{{"url": testMediaBase + "church.jpg", "alt": "Church"}}},
		},
		"gallery":            []map[string]string{{"url": testMediaBase + "beach.jpg", "caption": "Baga"}},
		"booking_rules":      []string{"50% advance"},
		"cancellation_rules": []string{"No refund within 7 days"},
	})
	req.AddCookie(cookie)
	rec := app.serve(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[struct {
		Package domain.PackageDetail `json:"package"`
	}](t, rec).Package

	rec = app.publicGet("/api/packages/" + created.ID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody[struct {
		Package domain.PackageDetail `json:"package"`
	}](t, rec).Package
	if got.Title != "Goa Getaway" || !got.Price.Equal(decimal.NewFromInt(12500)) {
		t.Fatalf("unexpected package %q %s", got.Title, got.Price)
	}
	if len(got.Itinerary) != 2 || len(got.Itinerary[0].Activities) != 2 || len(got.Itinerary[1].Images) != 1 {
		t.Fatalf("unexpected itinerary %+v", got.Itinerary)
	}
	if len(got.Gallery) != 1 || got.Gallery[0].Caption != "Baga" {
		t.Fatalf("unexpected gallery %+v", got.Gallery)
	}
	if len(got.BookingInfo.BookingRules) != 1 || len(got.CancellationPolicy.Rules) != 1 {
		t.Fatalf("unexpected rules %+v %+v", got.BookingInfo, got.CancellationPolicy)
	}
}

func TestAdmin_CreatePackageValidation(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{name: "missing title", body: map[string]any{"duration": "2 Days", "location": "Ooty"}},
		{name: "bad departure type", body: map[string]any{"title": "T", "duration": "2 Days", "location": "Ooty", "departure_type": "bus"}},
		{name: "bad date", body: map[string]any{"title": "T", "duration": "2 Days", "location": "Ooty", "departure_date": "20/12/2026"}},
		{name: "untitled day", body: map[string]any{"title": "T", "duration": "2 Days", "location": "Ooty", "itinerary": []map[string]any{{"day": 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := jsonRequest(http.MethodPost, "/packages", tc.body)
			req.AddCookie(cookie)
			if rec := app.serve(req); rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAdmin_HeroUploadAndActivate(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"intro.mp4", "sunset.mp4"} {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write([]byte("fake video"))
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/hero-media", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.AddCookie(cookie)
	rec := app.serve(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	uploaded := decodeBody[struct {
		Media []domain.HeroMedia `json:"media"`
	}](t, rec).Media
	if len(uploaded) != 2 || uploaded[0].IsActive || uploaded[0].Type != domain.HeroMediaVideo {
		t.Fatalf("unexpected upload result %+v", uploaded)
	}

	req = httptest.NewRequest(http.MethodPost, "/hero-media/"+uploaded[1].ID.String()+"/activate", nil)
	req.AddCookie(cookie)
	if rec := app.serve(req); rec.Code != http.StatusOK {
		t.Fatalf("activate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	slides := decodeBody[struct {
		Media []struct {
			URL           string `json:"url"`
			CarouselOrder int    `json:"carousel_order"`
		} `json:"media"`
	}](t, app.publicGet("/api/hero")).Media
	if len(slides) != 1 || slides[0].URL != testMediaBase+"sunset.mp4" || slides[0].CarouselOrder != 1 {
		t.Fatalf("unexpected carousel %+v", slides)
	}
}

func TestAdmin_DeleteMediaByPublicID(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	req := jsonRequest(http.MethodPost, "/api/cloudinary/delete", map[string]string{})
	req.AddCookie(cookie)
	rec := app.serve(req)
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != "Public ID is required" {
		t.Fatalf("expected 400 Public ID is required, got %d %s", rec.Code, rec.Body.String())
	}

	req = jsonRequest(http.MethodPost, "/api/cloudinary/delete", map[string]string{"publicId": "packages/abc"})
	req.AddCookie(cookie)
	if rec := app.serve(req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(app.media.deleted) != 1 || app.media.deleted[0] != testMediaBase+"packages/abc" {
		t.Fatalf("unexpected deletions %v", app.media.deleted)
	}
}
