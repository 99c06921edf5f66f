package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"savethedate_backend/internals/features/social/playlist/model"
)

type CreateSuggestionRequest struct {
	GuestName  string  `json:"guest_name" validate:"required,max=200"`
	SongTitle  string  `json:"song_title" validate:"required,max=300"`
	Artist     *string `json:"artist" validate:"omitempty,max=300"`
	SpotifyURL *string `json:"spotify_url" validate:"omitempty,url,max=500"`
}

func (r *CreateSuggestionRequest) Normalize() {
	r.GuestName = strings.TrimSpace(r.GuestName)
	r.SongTitle = strings.TrimSpace(r.SongTitle)
	r.Artist = trimPtr(r.Artist)
	r.SpotifyURL = trimPtr(r.SpotifyURL)
}

func (r *CreateSuggestionRequest) ToModel(eventID uuid.UUID) *model.PlaylistSuggestionModel {
	return &model.PlaylistSuggestionModel{
		EventID:    eventID,
		GuestName:  r.GuestName,
		SongTitle:  r.SongTitle,
		Artist:     r.Artist,
		SpotifyURL: r.SpotifyURL,
	}
}

type SuggestionResponse struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	GuestName  string    `json:"guest_name"`
	SongTitle  string    `json:"song_title"`
	Artist     *string   `json:"artist,omitempty"`
	SpotifyURL *string   `json:"spotify_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromModels(rows []model.PlaylistSuggestionModel) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

func FromModel(s *model.PlaylistSuggestionModel) SuggestionResponse {
	return SuggestionResponse{
		ID:         s.ID,
		EventID:    s.EventID,
		GuestName:  s.GuestName,
		SongTitle:  s.SongTitle,
		Artist:     s.Artist,
		SpotifyURL: s.SpotifyURL,
		CreatedAt:  s.CreatedAt,
	}
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
