package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"savethedate_backend/internals/configs"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

/* =======================================================================
   WebP options (env driven)
======================================================================= */

type WebPOptions struct {
	MaxW    int     // resize keeping aspect
	MaxH    int
	Quality float32
	ThumbW  int // thumbnail box, cropped to fill
	ThumbH  int
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{
		MaxW:    configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1920),
		MaxH:    configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1920),
		Quality: float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)),
		ThumbW:  configs.GetEnvInt("IMAGE_THUMB_W", 400),
		ThumbH:  configs.GetEnvInt("IMAGE_THUMB_H", 400),
	}
}

/* =======================================================================
   Decode (jpeg/png/gif/webp) with MIME sniffing
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	kind := ""
	switch {
	case strings.Contains(ct, "jpeg"):
		kind = "jpeg"
	case strings.Contains(ct, "png"):
		kind = "png"
	case strings.Contains(ct, "gif"):
		kind = "gif"
	case strings.Contains(ct, "webp"):
		kind = "webp"
	default:
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			kind = "jpeg"
		case ".png":
			kind = "png"
		case ".webp":
			kind = "webp"
		}
	}

	r := bytes.NewReader(all)
	switch kind {
	case "jpeg":
		return jpeg.Decode(r)
	case "png":
		return png.Decode(r)
	case "gif":
		return gif.Decode(r)
	case "webp":
		return webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}
}

/* =======================================================================
   Resize (keep aspect, CatmullRom)
======================================================================= */

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func encodeToWebP(img image.Image, quality float32) ([]byte, error) {
	if quality <= 0 {
		quality = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/* =======================================================================
   Photo pipeline: decode → downscale → WebP, plus a square thumbnail
======================================================================= */

type ProcessedImage struct {
	Full      []byte
	Thumbnail []byte
	Width     int
	Height    int
}

func ProcessImage(all []byte, filename string, opt WebPOptions) (*ProcessedImage, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}

	full := downscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	fullData, err := encodeToWebP(full, opt.Quality)
	if err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	out := &ProcessedImage{
		Full:   fullData,
		Width:  full.Bounds().Dx(),
		Height: full.Bounds().Dy(),
	}

	if opt.ThumbW > 0 && opt.ThumbH > 0 {
		thumb := imaging.Fill(img, opt.ThumbW, opt.ThumbH, imaging.Center, imaging.Lanczos)
		if out.Thumbnail, err = encodeToWebP(thumb, opt.Quality); err != nil {
			return nil, fmt.Errorf("encode thumbnail: %w", err)
		}
	}
	return out, nil
}
