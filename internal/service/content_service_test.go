package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/repository/memory"
)

func TestFAQService_CRUD(t *testing.T) {
	svc := NewFAQService(memory.NewStore().FAQs())
	ctx := context.Background()

	first, err := svc.Create(ctx, "What is included?", "Stay and meals")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := svc.Create(ctx, " Do you arrange visas? ", " Yes ")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if second.Question != "Do you arrange visas?" || second.Answer != "Yes" {
		t.Fatalf("expected trimmed values, got %+v", second)
	}

	newest, _ := svc.List(ctx, domain.NewestFirst)
	oldest, _ := svc.List(ctx, domain.OldestFirst)
	if newest[0].ID != second.ID || oldest[0].ID != first.ID {
		t.Fatalf("unexpected ordering: newest=%v oldest=%v", newest[0].ID, oldest[0].ID)
	}

	updated, err := svc.Update(ctx, first.ID, "What is included?", "Stay, meals and transfers")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Answer != "Stay, meals and transfers" {
		t.Fatalf("unexpected answer %q", updated.Answer)
	}

	if _, err := svc.Create(ctx, "", "x"); !errors.Is(err, ErrFAQValidation) {
		t.Fatalf("expected ErrFAQValidation, got %v", err)
	}
	if _, err := svc.Update(ctx, uuid.New(), "q", "a"); !errors.Is(err, ErrFAQNotFound) {
		t.Fatalf("expected ErrFAQNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, first.ID); !errors.Is(err, ErrFAQNotFound) {
		t.Fatalf("expected ErrFAQNotFound, got %v", err)
	}
}

func TestTestimonialService_ImageLifecycle(t *testing.T) {
	store := memory.NewStore()
	fake := &fakeMediaStore{}
	svc := NewTestimonialService(store.Testimonials(), NewMediaService(fake, MediaServiceConfig{}))
	ctx := context.Background()

	created, err := svc.Create(ctx, TestimonialInput{
		ClientName: "Meera",
		Message:    "Wonderful trip",
		Image:      pendingFile("meera.jpg", "image/jpeg"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ImageURL == nil || *created.ImageURL != fakeMediaBase+"meera.jpg" {
		t.Fatalf("expected uploaded image, got %v", created.ImageURL)
	}

	kept, err := svc.Update(ctx, created.ID, TestimonialInput{ClientName: "Meera K", Message: "Wonderful trip"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if kept.ImageURL == nil || *kept.ImageURL != *created.ImageURL {
		t.Fatalf("expected image to be kept, got %v", kept.ImageURL)
	}

	cleared, err := svc.Update(ctx, created.ID, TestimonialInput{ClientName: "Meera K", Message: "Wonderful trip", Image: StoredImage{}})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if cleared.ImageURL != nil {
		t.Fatalf("expected image to be cleared, got %v", *cleared.ImageURL)
	}
	if !fake.deletedSet()[fakeMediaBase+"meera.jpg"] {
		t.Fatal("expected replaced image to be deleted from the host")
	}
}

func TestTestimonialService_DeleteRemovesLinks(t *testing.T) {
	store := memory.NewStore()
	svc := NewTestimonialService(store.Testimonials(), NewMediaService(&fakeMediaStore{}, MediaServiceConfig{}))
	ctx := context.Background()

	created, err := svc.Create(ctx, TestimonialInput{ClientName: "Arjun", Message: "Smooth booking"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	packageID := uuid.New()
	if err := store.Testimonials().ReplacePackageLinks(ctx, packageID, []uuid.UUID{created.ID}); err != nil {
		t.Fatalf("link: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	links, _ := store.Testimonials().ListPackageLinks(ctx, packageID)
	if len(links) != 0 {
		t.Fatalf("expected links to be removed, got %v", links)
	}
	if _, err := svc.Create(ctx, TestimonialInput{ClientName: " "}); !errors.Is(err, ErrTestimonialValidation) {
		t.Fatalf("expected ErrTestimonialValidation, got %v", err)
	}
}

func TestSettingsService_SaveUpsertsSingleRow(t *testing.T) {
	store := memory.NewStore()
	svc := NewSettingsService(store.Settings())
	ctx := context.Background()

	empty, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if empty.ID != uuid.Nil || empty.CompanyEmail != "" {
		t.Fatalf("expected empty settings, got %+v", empty)
	}

	blank := "  "
	first, err := svc.Save(ctx, domain.Settings{CompanyEmail: "hello@yathra.in", FacebookURL: &blank})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if first.FacebookURL != nil {
		t.Fatalf("expected blank url to be stored as null, got %q", *first.FacebookURL)
	}

	second, err := svc.Save(ctx, domain.Settings{CompanyEmail: "contact@yathra.in", CompanyPhone: "+91 98470 00000"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the existing row to be updated, got new id %v", second.ID)
	}
	got, _ := svc.Get(ctx)
	if got.CompanyEmail != "contact@yathra.in" {
		t.Fatalf("unexpected email %q", got.CompanyEmail)
	}
}
