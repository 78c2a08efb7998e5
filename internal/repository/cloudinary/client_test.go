package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yathrananda/admin-console/internal/media"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

func TestExtractID(t *testing.T) {
	cases := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345678/tours/goa-beach.jpg", "tours/goa-beach", true},
		{"https://res.cloudinary.com/demo/video/upload/v99/hero/clip.mp4", "hero/clip", true},
		{"https://res.cloudinary.com/demo/image/upload/sample.png", "sample", true},
		{"https://res.cloudinary.com/demo/image/upload/", "", false},
		{"https://example.com/images/goa.jpg", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractID(tc.url)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ExtractID(%q) = %q, %v; want %q, %v", tc.url, got, ok, tc.want, tc.ok)
		}
	}
}

func TestUploadPostsPresetAndReturnsSecureURL(t *testing.T) {
	var gotPreset, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1_1/demo/auto/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotPreset = r.FormValue("upload_preset")
		f, _, err := r.FormFile("file")
		if err == nil {
			data, _ := io.ReadAll(f)
			gotFile = string(data)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/goa.jpg","public_id":"goa"}`))
	}))
	defer srv.Close()

	c, err := New(Config{CloudName: "demo", UploadPreset: "tours", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	url, err := c.Upload(context.Background(), media.Upload{Reader: bytes.NewReader([]byte("jpegdata")), FileName: "goa.jpg"})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if url != "https://res.cloudinary.com/demo/image/upload/v1/goa.jpg" {
		t.Fatalf("unexpected url %s", url)
	}
	if gotPreset != "tours" || gotFile != "jpegdata" {
		t.Fatalf("unexpected form preset=%q file=%q", gotPreset, gotFile)
	}
}

func TestUploadFailsOnHostError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	c, _ := New(Config{CloudName: "demo", UploadPreset: "nope", BaseURL: srv.URL})
	_, err := c.Upload(context.Background(), media.Upload{Reader: strings.NewReader("x")})
	if err == nil || !strings.Contains(err.Error(), "Upload preset not found") {
		t.Fatalf("expected host error, got %v", err)
	}
}

func TestDeleteSignsDestroyRequest(t *testing.T) {
	var form map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			_ = r.ParseMultipartForm(1 << 20)
		} else {
			_ = r.ParseForm()
		}
		form = map[string]string{}
		for k := range r.Form {
			form[k] = r.Form.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	c, _ := New(Config{CloudName: "demo", UploadPreset: "p", APIKey: "key", APISecret: "secret", BaseURL: srv.URL})

	if err := c.Delete(context.Background(), "https://res.cloudinary.com/demo/video/upload/v3/hero/clip.mp4"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if path != "/v1_1/demo/video/destroy" {
		t.Fatalf("unexpected path %s", path)
	}
	if form["public_id"] != "hero/clip" || form["api_key"] != "key" {
		t.Fatalf("unexpected form %v", form)
	}
	if form["signature"] == "" || form["timestamp"] == "" {
		t.Fatalf("expected signed request, got %v", form)
	}
}

func TestDeleteWithoutCredentials(t *testing.T) {
	c, _ := New(Config{CloudName: "demo", UploadPreset: "p"})
	if err := c.DeleteByID(context.Background(), "tours/goa"); err == nil {
		t.Fatal("expected error without api credentials")
	}
}

func TestDeleteRejectsForeignURL(t *testing.T) {
	c, _ := New(Config{CloudName: "demo", UploadPreset: "p", APIKey: "k", APISecret: "s"})
	err := c.Delete(context.Background(), "https://cdn.example.com/other/image/upload/v1/x.jpg")
	if !errors.Is(err, ports.ErrForeignMedia) {
		t.Fatalf("expected ErrForeignMedia, got %v", err)
	}
}

func TestDeleteByIDFailsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer srv.Close()

	c, _ := New(Config{CloudName: "demo", UploadPreset: "p", APIKey: "k", APISecret: "s", BaseURL: srv.URL})
	err := c.DeleteByID(context.Background(), "tours/goa")
	if err == nil || !strings.Contains(err.Error(), "Invalid Signature") {
		t.Fatalf("expected host error for 401 response, got %v", err)
	}
}
