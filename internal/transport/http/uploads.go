package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yathrananda/admin-console/internal/media"
)

const multipartMemory = 32 << 20

var errMissingFilePart = errors.New("missing file part")

func isMultipart(c echo.Context) bool {
	ct := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	return strings.HasPrefix(ct, echo.MIMEMultipartForm)
}

// uploadSet holds the file parts of a multipart request and closes whatever
// was opened from it.
type uploadSet struct {
	files   map[string][]*multipart.FileHeader
	values  map[string][]string
	closers []io.Closer
}

func parseUploads(c echo.Context) (*uploadSet, error) {
	if !isMultipart(c) {
		return &uploadSet{}, nil
	}
	if err := c.Request().ParseMultipartForm(multipartMemory); err != nil {
		return nil, err
	}
	form := c.Request().MultipartForm
	if form == nil {
		return nil, errors.New("empty multipart form")
	}
	return &uploadSet{files: form.File, values: form.Value}, nil
}

func (u *uploadSet) value(name string) string {
	if vals := u.values[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func (u *uploadSet) has(name string) bool {
	_, ok := u.values[name]
	return ok
}

// file opens the first part stored under name.
func (u *uploadSet) file(name string) (media.Upload, bool, error) {
	headers := u.files[name]
	if len(headers) == 0 {
		return media.Upload{}, false, nil
	}
	up, err := u.open(headers[0])
	return up, err == nil, err
}

// all opens every part stored under any of names, in request order.
func (u *uploadSet) all(names ...string) ([]media.Upload, error) {
	var out []media.Upload
	for _, name := range names {
		for _, header := range u.files[name] {
			up, err := u.open(header)
			if err != nil {
				return nil, err
			}
			out = append(out, up)
		}
	}
	return out, nil
}

func (u *uploadSet) open(header *multipart.FileHeader) (media.Upload, error) {
	f, err := header.Open()
	if err != nil {
		return media.Upload{}, fmt.Errorf("open %s: %w", header.Filename, err)
	}
	u.closers = append(u.closers, f)
	return media.Upload{
		Reader:      f,
		Size:        header.Size,
		FileName:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
	}, nil
}

func (u *uploadSet) Close() {
	for _, c := range u.closers {
		_ = c.Close()
	}
	u.closers = nil
}
