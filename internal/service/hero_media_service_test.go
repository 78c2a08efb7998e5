package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/media"
	"github.com/yathrananda/admin-console/internal/repository/memory"
)

func newHeroFixture(t *testing.T, n int) (*HeroMediaService, *fakeMediaStore, []domain.HeroMedia) {
	t.Helper()
	store := memory.NewStore()
	fake := &fakeMediaStore{}
	svc := NewHeroMediaService(store.HeroMedia(), NewMediaService(fake, MediaServiceConfig{}))

	var uploads []media.Upload
	names := []string{"a.jpg", "b.jpg", "c.mp4"}
	for i := 0; i < n; i++ {
		ct := "image/jpeg"
		if i == 2 {
			ct = "video/mp4"
		}
		uploads = append(uploads, pendingFile(names[i], ct).Upload)
	}
	items, err := svc.Upload(context.Background(), uploads)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	return svc, fake, items
}

func TestHeroMediaService_UploadCreatesInactiveRows(t *testing.T) {
	_, _, items := newHeroFixture(t, 3)
	if len(items) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(items))
	}
	for _, item := range items {
		if item.IsActive || item.CarouselOrder != 0 {
			t.Fatalf("expected inactive row with order 0, got %+v", item)
		}
	}
	if items[2].Type != domain.HeroMediaVideo || items[0].Type != domain.HeroMediaImage {
		t.Fatalf("unexpected media types: %s, %s", items[0].Type, items[2].Type)
	}
}

func TestHeroMediaService_ActivateAppendsToCarousel(t *testing.T) {
	svc, _, items := newHeroFixture(t, 3)
	ctx := context.Background()

	for i, item := range items {
		activated, err := svc.Activate(ctx, item.ID)
		if err != nil {
			t.Fatalf("Activate returned error: %v", err)
		}
		if !activated.IsActive || activated.CarouselOrder != i+1 {
			t.Fatalf("expected order %d, got %+v", i+1, activated)
		}
	}

	again, err := svc.Activate(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("second Activate returned error: %v", err)
	}
	if again.CarouselOrder != 1 {
		t.Fatalf("expected activation to be idempotent, got order %d", again.CarouselOrder)
	}
}

func TestHeroMediaService_DeactivateRenumbers(t *testing.T) {
	svc, _, items := newHeroFixture(t, 3)
	ctx := context.Background()
	for _, item := range items {
		if _, err := svc.Activate(ctx, item.ID); err != nil {
			t.Fatalf("Activate returned error: %v", err)
		}
	}

	deactivated, err := svc.Deactivate(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}
	if deactivated.IsActive || deactivated.CarouselOrder != 0 {
		t.Fatalf("expected inactive row with order 0, got %+v", deactivated)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive returned error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active rows, got %d", len(active))
	}
	if active[0].ID != items[1].ID || active[0].CarouselOrder != 1 {
		t.Fatalf("expected second upload first with order 1, got %+v", active[0])
	}
	if active[1].ID != items[2].ID || active[1].CarouselOrder != 2 {
		t.Fatalf("expected third upload second with order 2, got %+v", active[1])
	}
}

func TestHeroMediaService_ReplaceKeepsPosition(t *testing.T) {
	svc, fake, items := newHeroFixture(t, 2)
	ctx := context.Background()
	if _, err := svc.Activate(ctx, items[1].ID); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	replaced, err := svc.Replace(ctx, items[1].ID, pendingFile("intro.mp4", "video/mp4").Upload)
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if replaced.URL != fakeMediaBase+"intro.mp4" || replaced.Type != domain.HeroMediaVideo {
		t.Fatalf("unexpected replacement: %+v", replaced)
	}
	if !replaced.IsActive || replaced.CarouselOrder != 1 {
		t.Fatalf("expected position to be untouched, got %+v", replaced)
	}
	if !fake.deletedSet()[items[1].URL] {
		t.Fatalf("expected old media %s to be deleted", items[1].URL)
	}
}

func TestHeroMediaService_DeleteActiveRenumbers(t *testing.T) {
	svc, fake, items := newHeroFixture(t, 3)
	ctx := context.Background()
	for _, item := range items {
		if _, err := svc.Activate(ctx, item.ID); err != nil {
			t.Fatalf("Activate returned error: %v", err)
		}
	}

	if err := svc.Delete(ctx, items[1].ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	active, _ := svc.ListActive(ctx)
	if len(active) != 2 || active[0].CarouselOrder != 1 || active[1].CarouselOrder != 2 {
		t.Fatalf("expected dense ordering after delete, got %+v", active)
	}
	if !fake.deletedSet()[items[1].URL] {
		t.Fatal("expected deleted slide media to be removed from the host")
	}
	if err := svc.Delete(ctx, uuid.New()); !errors.Is(err, ErrHeroMediaNotFound) {
		t.Fatalf("expected ErrHeroMediaNotFound, got %v", err)
	}
}

func TestHeroMediaService_UploadRejectsUnsupportedType(t *testing.T) {
	store := memory.NewStore()
	svc := NewHeroMediaService(store.HeroMedia(), NewMediaService(&fakeMediaStore{}, MediaServiceConfig{}))
	_, err := svc.Upload(context.Background(), []media.Upload{pendingFile("notes.pdf", "application/pdf").Upload})
	if !errors.Is(err, ErrMediaUnsupportedType) {
		t.Fatalf("expected ErrMediaUnsupportedType, got %v", err)
	}
	if rows, _ := svc.List(context.Background()); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
