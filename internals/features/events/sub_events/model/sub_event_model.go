package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubEventModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_sub_events_event_sort,priority:1;column:event_id" json:"event_id"`

	Slug string `gorm:"type:varchar(50);not null;column:slug" json:"slug"`
	Name string `gorm:"type:varchar(200);not null;column:name" json:"name"`

	Date      time.Time `gorm:"not null;column:date" json:"date"`
	StartTime *string   `gorm:"type:varchar(5);column:start_time" json:"start_time,omitempty"` // HH:MM
	EndTime   *string   `gorm:"type:varchar(5);column:end_time" json:"end_time,omitempty"`

	LocationName    *string  `gorm:"type:varchar(200);column:location_name" json:"location_name,omitempty"`
	LocationAddress *string  `gorm:"type:varchar(500);column:location_address" json:"location_address,omitempty"`
	Latitude        *float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude       *float64 `gorm:"column:longitude" json:"longitude,omitempty"`

	DressCode *string `gorm:"type:varchar(200);column:dress_code" json:"dress_code,omitempty"`
	Notes     *string `gorm:"type:text;column:notes" json:"notes,omitempty"`

	SortOrder int `gorm:"not null;default:0;index:idx_sub_events_event_sort,priority:2;column:sort_order" json:"sort_order"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SubEventModel) TableName() string { return "sub_events" }

func (s *SubEventModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ProgramOrder is the display order for sub-events: sort_order, then date.
const ProgramOrder = "sort_order ASC, date ASC"
