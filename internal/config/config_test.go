package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_TOKEN", "token")
	t.Setenv("ADMIN_PASSWORD", "admin123")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "tours")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Port != "8080" || c.AdminUsername != "admin" {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.SessionTTL.Hours() != 24 {
		t.Fatalf("expected 24h session, got %s", c.SessionTTL)
	}
	want := []string{"http://localhost:3000", "https://yathrananda.com", "https://www.yathrananda.com"}
	if strings.Join(c.PublicAllowOrigins, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected public origins %v", c.PublicAllowOrigins)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	c := Config{
		StoreBackend: StoreBackendPostgres,
		MediaBackend: MediaBackendMinIO,
		SessionTTL:   0,
	}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, fragment := range []string{"DATABASE_URL", "ADMIN_USERNAME", "ADMIN_PASSWORD", "SESSION_TTL", "MINIO_ENDPOINT"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %v", fragment, err)
		}
	}
}
