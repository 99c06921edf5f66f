package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"savethedate_backend/internals/features/gallery/guestbook/model"
)

type CreateEntryRequest struct {
	AuthorName string  `json:"author_name" validate:"required,max=200"`
	Message    string  `json:"message" validate:"required,max=5000"`
	PhotoURL   *string `json:"photo_url" validate:"omitempty,url,max=1000"`
}

func (r *CreateEntryRequest) Normalize() {
	r.AuthorName = strings.TrimSpace(r.AuthorName)
	r.Message = strings.TrimSpace(r.Message)
	if r.PhotoURL != nil {
		u := strings.TrimSpace(*r.PhotoURL)
		if u == "" {
			r.PhotoURL = nil
		} else {
			r.PhotoURL = &u
		}
	}
}

func (r *CreateEntryRequest) ToModel(eventID uuid.UUID, approved bool) *model.GuestbookEntryModel {
	return &model.GuestbookEntryModel{
		EventID:    eventID,
		AuthorName: r.AuthorName,
		Message:    r.Message,
		PhotoURL:   r.PhotoURL,
		Approved:   approved,
	}
}

type EntryResponse struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	AuthorName string    `json:"author_name"`
	Message    string    `json:"message"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromModel(e *model.GuestbookEntryModel) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		EventID:    e.EventID,
		AuthorName: e.AuthorName,
		Message:    e.Message,
		PhotoURL:   e.PhotoURL,
		Approved:   e.Approved,
		CreatedAt:  e.CreatedAt,
	}
}

func FromModels(rows []model.GuestbookEntryModel) []EntryResponse {
	out := make([]EntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
