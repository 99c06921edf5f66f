package events

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	eventDTO "savethedate_backend/internals/features/events/events/dto"
	eventModel "savethedate_backend/internals/features/events/events/model"
	eventService "savethedate_backend/internals/features/events/events/service"
	groupDTO "savethedate_backend/internals/features/events/invitation_groups/dto"
	groupService "savethedate_backend/internals/features/events/invitation_groups/service"
	subEventDTO "savethedate_backend/internals/features/events/sub_events/dto"
	subEventService "savethedate_backend/internals/features/events/sub_events/service"
	guestDTO "savethedate_backend/internals/features/guests/guests/dto"
	guestService "savethedate_backend/internals/features/guests/guests/service"
)

type GroupSeed struct {
	groupDTO.CreateGroupRequest
	SubEvents []string `json:"sub_events"` // sub-event slugs
}

type GuestSeed struct {
	guestDTO.CreateGuestRequest
	Group string `json:"group"` // group name
}

// EventSeed is one event with its program, groups and guest list.
type EventSeed struct {
	Event     eventDTO.CreateEventRequest         `json:"event"`
	SubEvents []subEventDTO.CreateSubEventRequest `json:"sub_events"`
	Groups    []GroupSeed                         `json:"groups"`
	Guests    []GuestSeed                         `json:"guests"`
}

type Result struct {
	EventID uuid.UUID
	Skipped bool
	Guests  int
	Codes   int
}

func SeedEventFromJSON(ctx context.Context, db *gorm.DB, filePath string) (*Result, error) {
	log.Info().Str("file", filePath).Msg("reading seed file")
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed EventSeed
	if err := sonic.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return SeedEvent(ctx, db, seed)
}

// SeedEvent creates the event and everything under it in one transaction.
// An event whose slug already exists is left untouched.
func SeedEvent(ctx context.Context, db *gorm.DB, seed EventSeed) (*Result, error) {
	v := validator.New()
	if err := validateAll(v, seed); err != nil {
		return nil, err
	}

	seed.Event.Normalize()
	var existing eventModel.EventModel
	err := db.WithContext(ctx).Select("id").Where("slug = ?", seed.Event.Slug).Take(&existing).Error
	if err == nil {
		log.Info().Str("slug", seed.Event.Slug).Msg("event already seeded, skipping")
		return &Result{EventID: existing.ID, Skipped: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup event: %w", err)
	}

	res := &Result{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := eventService.CreateEvent(ctx, tx, seed.Event)
		if err != nil {
			return fmt.Errorf("event %s: %w", seed.Event.Slug, err)
		}
		res.EventID = ev.ID

		subEvents := map[string]uuid.UUID{}
		for _, req := range seed.SubEvents {
			se, err := subEventService.CreateSubEvent(ctx, tx, ev.ID, req)
			if err != nil {
				return fmt.Errorf("sub-event %s: %w", req.Slug, err)
			}
			subEvents[se.Slug] = se.ID
		}

		groups := map[string]uuid.UUID{}
		for _, g := range seed.Groups {
			req := g.CreateGroupRequest
			for _, slug := range g.SubEvents {
				id, ok := subEvents[slug]
				if !ok {
					return fmt.Errorf("group %s: unknown sub-event %q", g.Name, slug)
				}
				req.SubEventIDs = append(req.SubEventIDs, id)
			}
			out, err := groupService.CreateGroup(ctx, tx, ev.ID, req)
			if err != nil {
				return fmt.Errorf("group %s: %w", g.Name, err)
			}
			groups[out.Name] = out.ID
		}

		for _, g := range seed.Guests {
			req := g.CreateGuestRequest
			if g.Group != "" {
				id, ok := groups[g.Group]
				if !ok {
					return fmt.Errorf("guest %s: unknown group %q", g.Name, g.Group)
				}
				req.InvitationGroupID = &id
			}
			if _, err := guestService.CreateGuest(ctx, tx, ev.ID, req); err != nil {
				return fmt.Errorf("guest %s: %w", g.Name, err)
			}
			res.Guests++
		}

		generated, failed, err := guestService.GenerateMissingCodes(ctx, tx, ev.ID)
		if err != nil {
			return fmt.Errorf("personal codes: %w", err)
		}
		if failed > 0 {
			return fmt.Errorf("personal codes: %d guests left without a code", failed)
		}
		res.Codes = generated
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("slug", seed.Event.Slug).
		Int("sub_events", len(seed.SubEvents)).
		Int("groups", len(seed.Groups)).
		Int("guests", res.Guests).
		Msg("event seeded")
	return res, nil
}

func validateAll(v *validator.Validate, seed EventSeed) error {
	if err := v.Struct(seed.Event); err != nil {
		return fmt.Errorf("event: %w", err)
	}
	for i := range seed.SubEvents {
		if err := v.Struct(seed.SubEvents[i]); err != nil {
			return fmt.Errorf("sub_events[%d]: %w", i, err)
		}
	}
	for i := range seed.Groups {
		if err := v.Struct(seed.Groups[i].CreateGroupRequest); err != nil {
			return fmt.Errorf("groups[%d]: %w", i, err)
		}
	}
	for i := range seed.Guests {
		if err := v.Struct(seed.Guests[i].CreateGuestRequest); err != nil {
			return fmt.Errorf("guests[%d]: %w", i, err)
		}
	}
	return nil
}
