// Package upload stores uploaded product images on local disk and hands back
// the public URL they are served from.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	ErrMissingImage     = errors.New("No image in the request")
	ErrInvalidImageType = errors.New("Invalid image type")
)

// fileTypes maps the accepted MIME types to the extension stored on disk.
var fileTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// Intake saves images into Dir. Files are served at PublicPath by the router.
type Intake struct {
	Dir        string
	PublicPath string
	Field      string // multipart field name, "image" unless set
}

func NewIntake(dir, publicPath string) *Intake {
	return &Intake{Dir: dir, PublicPath: strings.TrimSuffix(publicPath, "/"), Field: "image"}
}

// Saved describes a stored image.
type Saved struct {
	Name string
	URL  string
}

// Save stores the request's image. With required=false a missing image is
// not an error and Save returns nil, nil.
func (in *Intake) Save(c *gin.Context, required bool) (*Saved, error) {
	file, err := c.FormFile(in.Field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			if required {
				return nil, ErrMissingImage
			}
			return nil, nil
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if _, ok := fileTypes[strings.ToLower(file.Header.Get("Content-Type"))]; !ok {
		return nil, ErrInvalidImageType
	}
	ext, err := sniff(file)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(in.Dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.%s", baseName(file.Filename), uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(in.Dir, name)); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	return &Saved{Name: name, URL: in.URL(c.Request, name)}, nil
}

// URL builds the absolute URL a stored file is reachable at for clients of
// the given request.
func (in *Intake) URL(r *http.Request, name string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	switch fwd := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); fwd {
	case "http", "https":
		scheme = fwd
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, path.Join(in.PublicPath, name))
}

// NameFromURL returns the stored file name behind a URL this intake handed
// out. URLs outside PublicPath, or pointing below it, are not ours.
func (in *Intake) NameFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	name, ok := strings.CutPrefix(u.Path, in.PublicPath+"/")
	if !ok || name == "" || strings.Contains(name, "/") || name == ".." {
		return "", false
	}
	return name, true
}

// Remove deletes a stored file; a file that is already gone is not an error.
func (in *Intake) Remove(name string) error {
	err := os.Remove(filepath.Join(in.Dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// sniff checks the leading bytes of the upload against the accepted image
// types and returns the extension for what the content actually is.
func sniff(file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	ext, ok := fileTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrInvalidImageType
	}
	return ext, nil
}

// baseName turns an uploaded file name into a safe slug without extension.
func baseName(original string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}
