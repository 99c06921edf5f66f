package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages_event;column:event_id" json:"event_id"`

	SenderName string `gorm:"type:varchar(200);not null;column:sender_name" json:"sender_name"`
	Message    string `gorm:"type:text;not null;column:message" json:"message"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_chat_messages_created" json:"created_at"`
}

func (ChatMessageModel) TableName() string { return "chat_messages" }

func (m *ChatMessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
