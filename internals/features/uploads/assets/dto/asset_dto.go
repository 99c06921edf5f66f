package dto

import (
	"strings"

	"github.com/google/uuid"
)

type UploadAssetForm struct {
	Folder  string `form:"folder" validate:"required,max=80"`
	EventID string `form:"event_id" validate:"omitempty,uuid"`
	// Optimize re-encodes images to WebP with a thumbnail.
	Optimize bool `form:"optimize"`
}

func (f *UploadAssetForm) Normalize() {
	f.Folder = strings.Trim(strings.TrimSpace(f.Folder), "/")
	f.EventID = strings.TrimSpace(f.EventID)
}

func (f *UploadAssetForm) EventUUID() *uuid.UUID {
	id, err := uuid.Parse(f.EventID)
	if err != nil || id == uuid.Nil {
		return nil
	}
	return &id
}

// Dir is <event_id>/<folder>, or just <folder> for shared assets.
func (f *UploadAssetForm) Dir() string {
	if id := f.EventUUID(); id != nil {
		return id.String() + "/" + f.Folder
	}
	return f.Folder
}

type DeleteAssetRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type AssetResponse struct {
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	Key          string  `json:"key,omitempty"`
	ContentType  string  `json:"content_type"`
	AssetType    string  `json:"asset_type"`
}
