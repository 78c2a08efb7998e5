// Package cloudinary hosts media on Cloudinary using unsigned preset uploads
// and signed destroy calls.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	sdk "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/yathrananda/admin-console/internal/media"
	"github.com/yathrananda/admin-console/internal/repository/ports"
)

var versionSegment = regexp.MustCompile(`^v\d+$`)

type Config struct {
	CloudName    string
	UploadPreset string
	APIKey       string
	APISecret    string
	// BaseURL overrides the API host.
	BaseURL string
}

type Client struct {
	cld     *sdk.Cloudinary
	cloud   string
	preset  string
	canSign bool
}

var _ ports.MediaStore = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.CloudName) == "" {
		return nil, errors.New("cloudinary: cloud name is required")
	}
	if strings.TrimSpace(cfg.UploadPreset) == "" {
		return nil, errors.New("cloudinary: upload preset is required")
	}
	cld, err := sdk.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		cld.Config.API.UploadPrefix = base
		cld.Upload.Config.API.UploadPrefix = base
	}
	return &Client{
		cld:     cld,
		cloud:   cfg.CloudName,
		preset:  cfg.UploadPreset,
		canSign: cfg.APIKey != "" && cfg.APISecret != "",
	}, nil
}

func (c *Client) Upload(ctx context.Context, upload media.Upload) (string, error) {
	if upload.Reader == nil {
		return "", errors.New("cloudinary: empty upload")
	}
	unsigned := true
	res, err := c.cld.Upload.Upload(ctx, upload.Reader, uploader.UploadParams{
		UploadPreset: c.preset,
		Unsigned:     &unsigned,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary: upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary: upload: response has no secure_url")
	}
	return res.SecureURL, nil
}

// Delete removes the asset behind a delivery URL. Video URLs are destroyed
// under the video resource type, everything else as an image.
func (c *Client) Delete(ctx context.Context, rawURL string) error {
	id, ok := ExtractID(rawURL)
	if !ok || !c.owns(rawURL) {
		return ports.ErrForeignMedia
	}
	resource := "image"
	if strings.Contains(rawURL, "/video/upload/") {
		resource = "video"
	}
	return c.destroy(ctx, resource, id)
}

func (c *Client) DeleteByID(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return errors.New("cloudinary: public id is required")
	}
	return c.destroy(ctx, "image", publicID)
}

func (c *Client) destroy(ctx context.Context, resource, publicID string) error {
	if !c.canSign {
		return errors.New("cloudinary: api credentials are not configured")
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resource,
	})
	if err != nil {
		return fmt.Errorf("cloudinary: destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary: destroy %s: %s", publicID, res.Error.Message)
	}
	if res.Result != "" && res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary: destroy %s: result %q", publicID, res.Result)
	}
	return nil
}

func (c *Client) owns(rawURL string) bool {
	return strings.Contains(rawURL, "/"+c.cloud+"/")
}

// ExtractID returns the public id of a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/tours/goa.jpg -> tours/goa.
func ExtractID(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Path == "" {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, p := range parts {
		if p == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false
	}
	rest := parts[idx+1:]
	if len(rest) > 0 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", false
	}
	id := strings.Join(rest, "/")
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
		id = id[:dot]
	}
	if id == "" {
		return "", false
	}
	return id, true
}
