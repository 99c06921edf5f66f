package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"savethedate_backend/internals/configs"
	"savethedate_backend/internals/constants"
)

// RootPrefix is the top-level folder of every object this service writes.
const RootPrefix = "savethedate"

/*
BlobService is the upload/delete facade used by controllers and services.
Errors meant for the caller are *fiber.Error.
*/
type BlobService interface {
	// UploadImage re-encodes to WebP and also stores a thumbnail.
	UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (url, thumbURL string, err error)
	// UploadRaw stores the file as is.
	UploadRaw(ctx context.Context, dir string, fh *multipart.FileHeader) (url, key, contentType string, err error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

type Service struct {
	Store ObjectStore
	WebP  WebPOptions
}

func NewService(store ObjectStore) *Service {
	return &Service{Store: store, WebP: DefaultWebPOptions()}
}

// NewFromEnv picks the backend from STORAGE_DRIVER (oss|s3|mock).
func NewFromEnv(ctx context.Context) (*Service, error) {
	driver := strings.ToLower(configs.GetEnv("STORAGE_DRIVER", "oss"))
	var (
		store ObjectStore
		err   error
	)
	switch driver {
	case "oss":
		store, err = NewOSSStoreFromEnv()
	case "s3":
		store, err = NewS3StoreFromEnv(ctx)
	case "mock", "memory":
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", driver).Msg("storage ready")
	return NewService(store), nil
}

/* =======================================================================
   Upload
======================================================================= */

func (s *Service) UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (string, string, error) {
	data, err := readFormFile(fh, constants.MaxImageSize)
	if err != nil {
		return "", "", err
	}

	img, err := ProcessImage(data, fh.Filename, s.WebP)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			return "", "", fiber.NewError(fiber.StatusUnsupportedMediaType, "unsupported image format (use jpg, png, gif or webp)")
		}
		return "", "", fiber.NewError(fiber.StatusBadRequest, "invalid image: "+err.Error())
	}

	base := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	key := BuildObjectKey(dir, base+".webp")
	if err := s.Store.Put(ctx, key, bytes.NewReader(img.Full), int64(len(img.Full)), "image/webp"); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("key", key).Msg("upload image failed")
		return "", "", fiber.NewError(fiber.StatusBadGateway, "failed to store image")
	}

	var thumbURL string
	if len(img.Thumbnail) > 0 {
		thumbKey := strings.TrimSuffix(key, ".webp") + "_thumb.webp"
		if err := s.Store.Put(ctx, thumbKey, bytes.NewReader(img.Thumbnail), int64(len(img.Thumbnail)), "image/webp"); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", thumbKey).Msg("upload thumbnail failed")
		} else {
			thumbURL = s.Store.PublicURL(thumbKey)
		}
	}
	return s.Store.PublicURL(key), thumbURL, nil
}

func (s *Service) UploadRaw(ctx context.Context, dir string, fh *multipart.FileHeader) (string, string, string, error) {
	if fh == nil {
		return "", "", "", fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	ct := fh.Header.Get(fiber.HeaderContentType)
	kind := constants.DetectAssetType(ct, fh.Filename)
	if kind == constants.AssetTypeUnknown {
		return "", "", "", fiber.NewError(fiber.StatusUnsupportedMediaType, "unsupported file type")
	}
	data, err := readFormFile(fh, constants.MaxSizeFor(kind))
	if err != nil {
		return "", "", "", err
	}
	if ct == "" {
		ct = "application/octet-stream"
	}

	key := BuildObjectKey(dir, fh.Filename)
	if err := s.Store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), ct); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("key", key).Msg("upload failed")
		return "", "", "", fiber.NewError(fiber.StatusBadGateway, "failed to store file")
	}
	return s.Store.PublicURL(key), key, ct, nil
}

/* =======================================================================
   Delete
======================================================================= */

func (s *Service) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	if strings.TrimSpace(publicURL) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "url is required")
	}
	key, err := s.Store.KeyFromURL(publicURL)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !strings.HasPrefix(key, RootPrefix+"/") {
		return fiber.NewError(fiber.StatusForbidden, "object is outside the application folder")
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("failed to delete object: %v", err))
	}
	return nil
}

/* =======================================================================
   Keys
======================================================================= */

// BuildObjectKey returns savethedate/<dir>/<slug>_<ts>_<rand><ext>.
func BuildObjectKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slugify(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if base == "" {
		base = "file"
	}
	parts := []string{RootPrefix}
	for _, p := range strings.Split(strings.Trim(dir, "/"), "/") {
		if p = slugify(p); p != "" {
			parts = append(parts, p)
		}
	}
	name := fmt.Sprintf("%s_%s_%s%s", base, time.Now().UTC().Format("20060102_150405"), randHex(3), ext)
	return strings.Join(append(parts, name), "/")
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
	return strings.Trim(s, "-")
}

func randHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())[:n*2]
	}
	return hex.EncodeToString(b)
}

func readFormFile(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	if fh == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	if limit > 0 && fh.Size > limit {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("file too large (max %d MB)", limit/(1024*1024)))
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot open file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read file")
	}
	if len(data) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "empty file")
	}
	return data, nil
}
