package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// DiskStore is a filesystem-backed object store. Objects live under a root
// directory keyed by their namespaced path; image uploads also get a
// thumbnail alongside the original.
type DiskStore struct {
	rootDir   string
	baseURL   string
	signer    *URLSigner
	thumbSize int
	logger    *slog.Logger
}

func NewDiskStore(rootDir, baseURL string, signer *URLSigner, thumbSize int, logger *slog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	if thumbSize <= 0 {
		thumbSize = 256
	}
	return &DiskStore{
		rootDir:   rootDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
		signer:    signer,
		thumbSize: thumbSize,
		logger:    logger,
	}, nil
}

func (d *DiskStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (*ObjectInfo, error) {
	if err := ValidatePath(objectPath); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath := filepath.Join(d.rootDir, filepath.FromSlash(objectPath))
	if _, err := os.Stat(fullPath); err == nil {
		return nil, ErrObjectExists
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, err
	}

	if strings.HasPrefix(contentType, "image/") {
		if err := d.writeThumbnail(fullPath, data); err != nil {
			d.logger.Warn("thumbnail generation failed", "path", objectPath, "error", err)
		}
	}

	size := int64(len(data))
	return &ObjectInfo{
		Path: objectPath,
		URL:  d.PublicURL(objectPath),
		Name: filepath.Base(objectPath),
		Size: &size,
	}, nil
}

func (d *DiskStore) writeThumbnail(fullPath string, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	thumb := imaging.Thumbnail(img, d.thumbSize, d.thumbSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return err
	}
	return os.WriteFile(thumbPath(fullPath), buf.Bytes(), 0o644)
}

func thumbPath(fullPath string) string {
	return fullPath + ".thumb.jpg"
}

// Remove deletes each path, tolerating missing objects. Thumbnails are
// removed with their originals.
func (d *DiskStore) Remove(ctx context.Context, paths []string) error {
	var errs []error
	for _, objectPath := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := ValidatePath(objectPath); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", objectPath, err))
			continue
		}
		fullPath := filepath.Join(d.rootDir, filepath.FromSlash(objectPath))
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("%s: %w", objectPath, err))
			continue
		}
		if err := os.Remove(thumbPath(fullPath)); err != nil && !os.IsNotExist(err) {
			d.logger.Warn("failed to remove thumbnail", "path", objectPath, "error", err)
		}
	}
	return errors.Join(errs...)
}

func (d *DiskStore) PublicURL(objectPath string) string {
	return d.baseURL + "/arquivos/" + objectPath
}

func (d *DiskStore) SignedURL(objectPath string, ttl time.Duration) (string, error) {
	if err := ValidatePath(objectPath); err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	token, err := d.signer.Sign(objectPath, ttl)
	if err != nil {
		return "", err
	}
	return d.PublicURL(objectPath) + "?token=" + url.QueryEscape(token), nil
}

// Open returns the file backing an object for serving.
func (d *DiskStore) Open(objectPath string) (*os.File, error) {
	if err := ValidatePath(objectPath); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(d.rootDir, filepath.FromSlash(objectPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return f, nil
}
