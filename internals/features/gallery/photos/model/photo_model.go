package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhotoModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_photos_event;column:event_id" json:"event_id"`

	UploadedBy   *string `gorm:"type:varchar(200);column:uploaded_by" json:"uploaded_by,omitempty"`
	URL          string  `gorm:"type:varchar(1000);not null;column:url" json:"url"`
	ThumbnailURL *string `gorm:"type:varchar(1000);column:thumbnail_url" json:"thumbnail_url,omitempty"`
	Caption      *string `gorm:"type:text;column:caption" json:"caption,omitempty"`
	Approved     bool    `gorm:"not null;column:approved" json:"approved"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PhotoModel) TableName() string { return "photos" }

func (p *PhotoModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
