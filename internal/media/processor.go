package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"mime"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 2560
	defaultJPEGQuality  = 85
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Resized     bool
}

type Processor interface {
	Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error)
}

// KindOf classifies a content type, falling back to the file extension.
// The boolean is false for anything that is neither an image nor a video.
func KindOf(contentType, fileName string) (Kind, bool) {
	ct := NormalizeContentType(contentType, fileName)
	switch {
	case strings.HasPrefix(ct, "image/"):
		return KindImage, true
	case strings.HasPrefix(ct, "video/"):
		return KindVideo, true
	default:
		return "", false
	}
}

// ImageProcessor downsizes images whose longest edge exceeds the configured
// maximum. Videos and images already within bounds pass through untouched.
type ImageProcessor struct {
	maxDimension int
	jpegQuality  int
}

var _ Processor = (*ImageProcessor)(nil)

func NewImageProcessor(maxDimension int) *ImageProcessor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &ImageProcessor{maxDimension: maxDimension, jpegQuality: defaultJPEGQuality}
}

func (p *ImageProcessor) Process(ctx context.Context, upload Upload, maxDimension int) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty upload")
	}

	contentType := NormalizeContentType(upload.ContentType, upload.FileName)
	if !strings.HasPrefix(contentType, "image/") || contentType == "image/svg+xml" {
		return &Result{Bytes: data, ContentType: contentType}, nil
	}

	width, height, err := decodeDimensions(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode dimensions: %w", err)
	}
	targetMax := maxDimension
	if targetMax <= 0 {
		targetMax = p.maxDimension
	}
	if width <= targetMax && height <= targetMax {
		return &Result{Bytes: data, ContentType: contentType}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("media: decode image: %w", err)
	}
	targetW, targetH := scaleToFit(width, height, targetMax)
	resized := imaging.Resize(img, targetW, targetH, imaging.Lanczos)

	format, outType := encodeFormat(contentType)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(p.jpegQuality)); err != nil {
		return nil, fmt.Errorf("media: encode image: %w", err)
	}
	return &Result{Bytes: buf.Bytes(), ContentType: outType, Resized: true}, nil
}

// encodeFormat picks the output encoding. WebP has no encoder here, so it is
// re-encoded as JPEG.
func encodeFormat(contentType string) (imaging.Format, string) {
	switch contentType {
	case "image/png":
		return imaging.PNG, contentType
	case "image/gif":
		return imaging.GIF, contentType
	default:
		return imaging.JPEG, "image/jpeg"
	}
}

func decodeDimensions(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

func scaleToFit(width, height, maxDim int) (int, int) {
	if width >= height {
		newH := int(math.Round(float64(height) * float64(maxDim) / float64(width)))
		return ensureMin(maxDim), ensureMin(newH)
	}
	newW := int(math.Round(float64(width) * float64(maxDim) / float64(height)))
	return ensureMin(newW), ensureMin(maxDim)
}

func ensureMin(value int) int {
	if value < 2 {
		return 2
	}
	return value
}

func NormalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct != "" && ct != "application/octet-stream" {
		if ct == "image/jpg" {
			return "image/jpeg"
		}
		return ct
	}
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(strings.SplitN(mt, ";", 2)[0])
		}
	}
	if ct != "" {
		return ct
	}
	return "application/octet-stream"
}
