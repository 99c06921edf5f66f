package constants

import (
	"path/filepath"
	"strings"
)

const (
	AssetTypeImage   = "image"
	AssetTypeVideo   = "video"
	AssetTypeUnknown = ""

	MaxImageSize = 10 * 1024 * 1024
	MaxVideoSize = 100 * 1024 * 1024

	// guest list CSV
	MaxImportSize = 5 * 1024 * 1024
)

var (
	AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/svg+xml"}
	AllowedVideoTypes = []string{"video/mp4", "video/webm", "video/quicktime"}
)

// DetectAssetType classifies an upload by content type, falling back to the extension.
func DetectAssetType(contentType, filename string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, t := range AllowedImageTypes {
		if ct == t {
			return AssetTypeImage
		}
	}
	for _, t := range AllowedVideoTypes {
		if ct == t {
			return AssetTypeVideo
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif", ".svg":
		return AssetTypeImage
	case ".mp4", ".webm", ".mov":
		return AssetTypeVideo
	default:
		return AssetTypeUnknown
	}
}

func MaxSizeFor(assetType string) int64 {
	if assetType == AssetTypeVideo {
		return MaxVideoSize
	}
	return MaxImageSize
}
