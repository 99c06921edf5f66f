package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"savethedate_backend/internals/features/social/chat/model"
)

type PostMessageRequest struct {
	SenderName string `json:"sender_name" validate:"required,max=200"`
	Message    string `json:"message" validate:"required,max=2000"`
}

func (r *PostMessageRequest) Normalize() {
	r.SenderName = strings.TrimSpace(r.SenderName)
	r.Message = strings.TrimSpace(r.Message)
}

type MessageResponse struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	SenderName string    `json:"sender_name"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromModel(m *model.ChatMessageModel) MessageResponse {
	return MessageResponse{ID: m.ID, EventID: m.EventID, SenderName: m.SenderName, Message: m.Message, CreatedAt: m.CreatedAt}
}

func FromModels(rows []model.ChatMessageModel) []MessageResponse {
	out := make([]MessageResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
