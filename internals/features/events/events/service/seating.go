package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"savethedate_backend/internals/features/events/events/dto"
	"savethedate_backend/internals/features/events/events/model"
)

var ErrSeatingDisabled = fiber.NewError(fiber.StatusForbidden, "seating plan module is not enabled")

const staticPlanMessage = "Consultez le plan de table affiché"

func SearchSeating(ctx context.Context, db *gorm.DB, eventID uuid.UUID, name string) (*dto.SeatingSearchResult, error) {
	ev, err := FindEvent(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	res := FindSeat(ev.Modules().Seating, query)
	if res == nil {
		return nil, ErrSeatingDisabled
	}
	return res, nil
}

// FindSeat returns nil when the module is off.
// The first table holding a case-insensitive substring match wins.
func FindSeat(plan model.SeatingModule, name string) *dto.SeatingSearchResult {
	if !plan.Enabled {
		return nil
	}
	if !plan.Interactive {
		return &dto.SeatingSearchResult{Found: false, Message: staticPlanMessage}
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle != "" {
		for _, table := range plan.Tables {
			for _, guest := range table.Guests {
				if strings.Contains(strings.ToLower(guest), needle) {
					tableName, guestName := table.Name, guest
					return &dto.SeatingSearchResult{
						Found:     true,
						TableName: &tableName,
						GuestName: &guestName,
						Message:   fmt.Sprintf("Vous êtes à la %s", tableName),
					}
				}
			}
		}
	}
	return &dto.SeatingSearchResult{
		Found:   false,
		Message: fmt.Sprintf("Aucune table trouvée pour '%s'. Vérifiez l'orthographe ou contactez l'organisateur.", strings.TrimSpace(name)),
	}
}
