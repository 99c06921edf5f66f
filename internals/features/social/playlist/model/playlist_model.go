package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaylistSuggestionModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_playlist_event;column:event_id" json:"event_id"`

	GuestName  string  `gorm:"type:varchar(200);not null;column:guest_name" json:"guest_name"`
	SongTitle  string  `gorm:"type:varchar(300);not null;column:song_title" json:"song_title"`
	Artist     *string `gorm:"type:varchar(300);column:artist" json:"artist,omitempty"`
	SpotifyURL *string `gorm:"type:varchar(500);column:spotify_url" json:"spotify_url,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PlaylistSuggestionModel) TableName() string { return "playlist_suggestions" }

func (p *PlaylistSuggestionModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
