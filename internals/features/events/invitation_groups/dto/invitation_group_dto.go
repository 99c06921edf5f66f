package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"savethedate_backend/internals/features/events/invitation_groups/model"
	subEventDTO "savethedate_backend/internals/features/events/sub_events/dto"
)

type CreateGroupRequest struct {
	Name        string      `json:"name" validate:"required,max=100"`
	Description *string     `json:"description"`
	Color       string      `json:"color" validate:"omitempty,hexcolor,len=7"`
	SubEventIDs []uuid.UUID `json:"sub_event_ids"`
}

func (r *CreateGroupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Color = strings.ToUpper(strings.TrimSpace(r.Color))
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		if d == "" {
			r.Description = nil
		} else {
			r.Description = &d
		}
	}
}

func (r *CreateGroupRequest) ToModel(eventID uuid.UUID) *model.InvitationGroupModel {
	return &model.InvitationGroupModel{
		EventID:     eventID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
	}
}

// UpdateGroupRequest replaces the linked sub-events when SubEventIDs is present.
type UpdateGroupRequest struct {
	Name        *string      `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string      `json:"description"`
	Color       *string      `json:"color" validate:"omitempty,hexcolor,len=7"`
	SubEventIDs *[]uuid.UUID `json:"sub_event_ids"`
}

func (r *UpdateGroupRequest) ApplyUpdates() map[string]any {
	m := map[string]any{}
	if r.Name != nil {
		m["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		m["description"] = strings.TrimSpace(*r.Description)
	}
	if r.Color != nil {
		m["color"] = strings.ToUpper(strings.TrimSpace(*r.Color))
	}
	return m
}

type LinkSubEventsRequest struct {
	SubEventIDs []uuid.UUID `json:"sub_event_ids" validate:"required,min=1"`
}

type AssignGuestRequest struct {
	GuestID uuid.UUID `json:"guest_id" validate:"required"`
}

type ApplyTemplateRequest struct {
	Key  string `json:"key" validate:"required"`
	Name string `json:"name" validate:"omitempty,max=100"`
}

type GroupResponse struct {
	ID          uuid.UUID                      `json:"id"`
	EventID     uuid.UUID                      `json:"event_id"`
	Name        string                         `json:"name"`
	Description *string                        `json:"description,omitempty"`
	Color       string                         `json:"color"`
	SubEvents   []subEventDTO.SubEventResponse `json:"sub_events"`
	GuestCount  int64                          `json:"guest_count"`
	CreatedAt   time.Time                      `json:"created_at"`
}

type LinkResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}
