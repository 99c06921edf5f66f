package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"savethedate_backend/internals/features/events/sub_events/model"
	helper "savethedate_backend/internals/helpers"
)

const DateLayout = "2006-01-02"

type CreateSubEventRequest struct {
	Slug            string   `json:"slug" validate:"required,max=50"`
	Name            string   `json:"name" validate:"required,max=200"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       *string  `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime         *string  `json:"end_time" validate:"omitempty,datetime=15:04"`
	LocationName    *string  `json:"location_name" validate:"omitempty,max=200"`
	LocationAddress *string  `json:"location_address" validate:"omitempty,max=500"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,longitude"`
	DressCode       *string  `json:"dress_code" validate:"omitempty,max=200"`
	Notes           *string  `json:"notes"`
	SortOrder       *int     `json:"sort_order" validate:"omitempty,gte=0"`
}

func (r *CreateSubEventRequest) Normalize() {
	r.Slug = helper.Slugify(r.Slug, 50)
	r.Name = strings.TrimSpace(r.Name)
	r.Date = strings.TrimSpace(r.Date)
	r.LocationName = trimPtr(r.LocationName)
	r.LocationAddress = trimPtr(r.LocationAddress)
	r.DressCode = trimPtr(r.DressCode)
	r.Notes = trimPtr(r.Notes)
	r.StartTime = trimPtr(r.StartTime)
	r.EndTime = trimPtr(r.EndTime)
}

// ToModel expects a validated date; nextOrder is used when no sort_order is given.
func (r *CreateSubEventRequest) ToModel(eventID uuid.UUID, nextOrder int) (*model.SubEventModel, error) {
	date, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return nil, err
	}
	order := nextOrder
	if r.SortOrder != nil {
		order = *r.SortOrder
	}
	return &model.SubEventModel{
		EventID:         eventID,
		Slug:            r.Slug,
		Name:            r.Name,
		Date:            date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		LocationName:    r.LocationName,
		LocationAddress: r.LocationAddress,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		DressCode:       r.DressCode,
		Notes:           r.Notes,
		SortOrder:       order,
	}, nil
}

type UpdateSubEventRequest struct {
	Slug            *string  `json:"slug" validate:"omitempty,max=50"`
	Name            *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Date            *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime       *string  `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime         *string  `json:"end_time" validate:"omitempty,datetime=15:04"`
	LocationName    *string  `json:"location_name" validate:"omitempty,max=200"`
	LocationAddress *string  `json:"location_address" validate:"omitempty,max=500"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,longitude"`
	DressCode       *string  `json:"dress_code" validate:"omitempty,max=200"`
	Notes           *string  `json:"notes"`
	SortOrder       *int     `json:"sort_order" validate:"omitempty,gte=0"`
}

func (r *UpdateSubEventRequest) ApplyUpdates() (map[string]any, error) {
	m := map[string]any{}
	if r.Slug != nil {
		m["slug"] = helper.Slugify(*r.Slug, 50)
	}
	if r.Name != nil {
		m["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Date != nil {
		d, err := time.Parse(DateLayout, strings.TrimSpace(*r.Date))
		if err != nil {
			return nil, err
		}
		m["date"] = d
	}
	opt := map[string]*string{
		"start_time":       r.StartTime,
		"end_time":         r.EndTime,
		"location_name":    r.LocationName,
		"location_address": r.LocationAddress,
		"dress_code":       r.DressCode,
		"notes":            r.Notes,
	}
	for col, v := range opt {
		if v != nil {
			m[col] = trimPtr(v)
		}
	}
	if r.Latitude != nil {
		m["latitude"] = *r.Latitude
	}
	if r.Longitude != nil {
		m["longitude"] = *r.Longitude
	}
	if r.SortOrder != nil {
		m["sort_order"] = *r.SortOrder
	}
	return m, nil
}

type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type SubEventResponse struct {
	ID              uuid.UUID `json:"id"`
	EventID         uuid.UUID `json:"event_id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	Date            string    `json:"date"`
	StartTime       *string   `json:"start_time,omitempty"`
	EndTime         *string   `json:"end_time,omitempty"`
	LocationName    *string   `json:"location_name,omitempty"`
	LocationAddress *string   `json:"location_address,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	DressCode       *string   `json:"dress_code,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	SortOrder       int       `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromModel(m *model.SubEventModel) SubEventResponse {
	return SubEventResponse{
		ID:              m.ID,
		EventID:         m.EventID,
		Slug:            m.Slug,
		Name:            m.Name,
		Date:            m.Date.UTC().Format(DateLayout),
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		LocationName:    m.LocationName,
		LocationAddress: m.LocationAddress,
		Latitude:        m.Latitude,
		Longitude:       m.Longitude,
		DressCode:       m.DressCode,
		Notes:           m.Notes,
		SortOrder:       m.SortOrder,
		CreatedAt:       m.CreatedAt,
	}
}

func FromModels(ms []model.SubEventModel) []SubEventResponse {
	out := make([]SubEventResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromModel(&ms[i]))
	}
	return out
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
