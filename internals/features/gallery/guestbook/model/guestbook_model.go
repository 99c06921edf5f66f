package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Author name written by the retention sweep.
const AnonymousAuthor = "Anonyme"

type GuestbookEntryModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_guestbook_event;column:event_id" json:"event_id"`

	AuthorName string  `gorm:"type:varchar(200);not null;column:author_name" json:"author_name"`
	Message    string  `gorm:"type:text;not null;column:message" json:"message"`
	PhotoURL   *string `gorm:"type:varchar(1000);column:photo_url" json:"photo_url,omitempty"`
	Approved   bool    `gorm:"not null;column:approved" json:"approved"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (GuestbookEntryModel) TableName() string { return "guestbook_entries" }

func (g *GuestbookEntryModel) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
