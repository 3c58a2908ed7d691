// Package storage saves uploaded and annotated images and builds the URLs
// they are served from.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ImageStore saves an image under name and returns the URL it can be fetched from
type ImageStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// allowedImageTypes are the upload formats the detector can decode
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Disk writes images into a local folder served under URLPrefix
type Disk struct {
	Dir       string
	URLPrefix string
}

// NewDisk creates the folder when it does not exist
func NewDisk(dir, urlPrefix string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating upload folder [%s]: [%v]", dir, err)
	}
	return &Disk{Dir: dir, URLPrefix: urlPrefix}, nil
}

// Save writes data to Dir/name
func (d *Disk) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid image name [%s]", name)
	}

	if err := os.WriteFile(filepath.Join(d.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("error writing image [%s]: [%v]", name, err)
	}

	return path.Join(d.URLPrefix, name), nil
}

// SafeFilename turns a user supplied filename into one that is safe to write
// to disk. A short random prefix keeps two uploads of the same name apart.
func SafeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		stem = "image"
	}
	if slug.Make(strings.TrimPrefix(ext, ".")) != strings.TrimPrefix(ext, ".") {
		ext = ""
	}

	return uuid.NewString()[:8] + "_" + stem + ext
}

// CheckImageMIME sniffs data and returns its MIME type when it is one of the
// accepted image formats
func CheckImageMIME(data []byte) (string, error) {
	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		return "", fmt.Errorf("unsupported image type [%s]", detected.String())
	}
	return detected.String(), nil
}
