package dto

import (
	"time"

	"github.com/google/uuid"

	"savethedate_backend/internals/features/gallery/photos/model"
)

// Multipart fields sent next to the file.
type UploadPhotoForm struct {
	UploadedBy *string `form:"uploaded_by" validate:"omitempty,max=200"`
	Caption    *string `form:"caption" validate:"omitempty,max=1000"`
}

type PhotoResponse struct {
	ID           uuid.UUID `json:"id"`
	EventID      uuid.UUID `json:"event_id"`
	UploadedBy   *string   `json:"uploaded_by,omitempty"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	Caption      *string   `json:"caption,omitempty"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromModel(p *model.PhotoModel) PhotoResponse {
	return PhotoResponse{
		ID:           p.ID,
		EventID:      p.EventID,
		UploadedBy:   p.UploadedBy,
		URL:          p.URL,
		ThumbnailURL: p.ThumbnailURL,
		Caption:      p.Caption,
		Approved:     p.Approved,
		CreatedAt:    p.CreatedAt,
	}
}

func FromModels(rows []model.PhotoModel) []PhotoResponse {
	out := make([]PhotoResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
