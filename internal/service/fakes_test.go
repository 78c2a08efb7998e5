package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/media"
	"github.com/yathrananda/admin-console/internal/repository/memory"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

const fakeMediaBase = "https://media.test/"

// fakeMediaStore hands out URLs derived from the file name.
type fakeMediaStore struct {
	mu        sync.Mutex
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeMediaStore) Upload(_ context.Context, upload media.Upload) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if _, err := io.ReadAll(upload.Reader); err != nil {
		return "", err
	}
	url := fakeMediaBase + upload.FileName
	f.mu.Lock()
	f.uploaded = append(f.uploaded, url)
	f.mu.Unlock()
	return url, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, fakeMediaBase) {
		return ports.ErrForeignMedia
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	f.deleted = append(f.deleted, url)
	f.mu.Unlock()
	return nil
}

func (f *fakeMediaStore) DeleteByID(ctx context.Context, id string) error {
	return f.Delete(ctx, fakeMediaBase+id)
}

func (f *fakeMediaStore) deletedSet() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.deleted))
	for _, url := range f.deleted {
		out[url] = true
	}
	return out
}

func pendingFile(name, contentType string) PendingImage {
	return PendingImage{Upload: media.Upload{
		Reader:      strings.NewReader("data"),
		Size:        4,
		FileName:    name,
		ContentType: contentType,
	}}
}

type packageFixture struct {
	store  *memory.Store
	media  *fakeMediaStore
	svc    *PackageService
	repos  PackageRepositories
	mediaS *MediaService
}

func newPackageFixture() *packageFixture {
	store := memory.NewStore()
	fake := &fakeMediaStore{}
	mediaSvc := NewMediaService(fake, MediaServiceConfig{})
	repos := PackageRepositories{
		Packages:     store.Packages(),
		Itinerary:    store.Itinerary(),
		Gallery:      store.Gallery(),
		Rules:        store.Rules(),
		Testimonials: store.Testimonials(),
	}
	return &packageFixture{
		store:  store,
		media:  fake,
		svc:    NewPackageService(repos, mediaSvc),
		repos:  repos,
		mediaS: mediaSvc,
	}
}

var errStoreDown = errors.New("store unavailable")

type failingGallery struct {
	ports.GalleryRepository
}

func (failingGallery) ListByPackage(context.Context, uuid.UUID) ([]domain.GalleryImage, error) {
	return nil, errStoreDown
}

// flakyGallery fails only the listed ListByPackage calls, counting from 1.
type flakyGallery struct {
	ports.GalleryRepository
	failOn map[int64]bool
	calls  atomic.Int64
}

func (f *flakyGallery) ListByPackage(ctx context.Context, packageID uuid.UUID) ([]domain.GalleryImage, error) {
	if f.failOn[f.calls.Add(1)] {
		return nil, errStoreDown
	}
	return f.GalleryRepository.ListByPackage(ctx, packageID)
}

// failingItineraryReads fails activity reads for one day and, optionally,
// every image read.
type failingItineraryReads struct {
	ports.ItineraryRepository
	activitiesOf uuid.UUID
	images       bool
}

func (f failingItineraryReads) ListActivities(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryActivity, error) {
	if itineraryID == f.activitiesOf {
		return nil, errStoreDown
	}
	return f.ItineraryRepository.ListActivities(ctx, itineraryID)
}

func (f failingItineraryReads) ListImages(ctx context.Context, itineraryID uuid.UUID) ([]domain.ItineraryImage, error) {
	if f.images {
		return nil, errStoreDown
	}
	return f.ItineraryRepository.ListImages(ctx, itineraryID)
}

type failingRuleReads struct {
	ports.RuleRepository
	kind domain.RuleKind
}

func (f failingRuleReads) ListByPackage(ctx context.Context, kind domain.RuleKind, packageID uuid.UUID) ([]domain.PackageRule, error) {
	if kind == f.kind {
		return nil, errStoreDown
	}
	return f.RuleRepository.ListByPackage(ctx, kind, packageID)
}

type failingLinkReads struct {
	ports.TestimonialRepository
}

func (failingLinkReads) ListPackageLinks(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return nil, errStoreDown
}

type failingRules struct {
	ports.RuleRepository
	kind domain.RuleKind
}

func (f failingRules) CreateMany(ctx context.Context, kind domain.RuleKind, rules []domain.PackageRule) error {
	if kind == f.kind {
		return errStoreDown
	}
	return f.RuleRepository.CreateMany(ctx, kind, rules)
}

type stubImageProcessor struct {
	output      []byte
	contentType string
	err         error

	calls   int
	lastMax int
}

func (s *stubImageProcessor) Process(_ context.Context, upload media.Upload, maxDimension int) (*media.Result, error) {
	s.calls++
	s.lastMax = maxDimension
	if s.err != nil {
		return nil, s.err
	}
	if _, err := io.ReadAll(upload.Reader); err != nil {
		return nil, err
	}
	return &media.Result{Bytes: s.output, ContentType: s.contentType, Resized: true}, nil
}
