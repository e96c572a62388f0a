package command

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/geo"
	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOCATION COMMANDS (admin)
// Локации - это ответы на загадки. Создание и правка доступны только
// администратору; локацию, на которую уже ссылаются ответы, удалить нельзя.
// ══════════════════════════════════════════════════════════════════════════════

// CreateLocationCommand contains the data to create a location.
type CreateLocationCommand struct {
	Lat         float64
	Lng         float64
	Description string
	ImageURL    string
	CreatedBy   string
}

// Validate validates the command.
func (c CreateLocationCommand) Validate() error {
	_, err := geo.NewPoint(c.Lat, c.Lng)
	return err
}

// UpdateLocationCommand contains the data to update a location.
type UpdateLocationCommand struct {
	LocationID  string
	Lat         float64
	Lng         float64
	Description string
	ImageURL    string
}

// Validate validates the command.
func (c UpdateLocationCommand) Validate() error {
	if c.LocationID == "" {
		return shared.NewDomainError("location", "UpdateLocation", shared.ErrInvalidID, "location_id is required")
	}
	_, err := geo.NewPoint(c.Lat, c.Lng)
	return err
}

// DeleteLocationCommand identifies a location to delete.
type DeleteLocationCommand struct {
	LocationID string
}

// LocationResult describes a location for API responses.
type LocationResult struct {
	LocationID  string    `json:"locationId"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func locationResult(loc *riddle.Location) *LocationResult {
	return &LocationResult{
		LocationID:  string(loc.ID),
		Lat:         loc.Point.Lat,
		Lng:         loc.Point.Lng,
		Description: loc.Description,
		ImageURL:    loc.ImageURL,
		CreatedBy:   loc.CreatedBy,
		CreatedAt:   loc.CreatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ManageLocationsHandler handles admin location commands.
type ManageLocationsHandler struct {
	locationRepo riddle.LocationRepository
}

// NewManageLocationsHandler creates a new ManageLocationsHandler.
func NewManageLocationsHandler(locationRepo riddle.LocationRepository) *ManageLocationsHandler {
	return &ManageLocationsHandler{locationRepo: locationRepo}
}

// Create executes the create location command.
func (h *ManageLocationsHandler) Create(ctx context.Context, cmd CreateLocationCommand) (*LocationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	loc, err := riddle.NewLocation(cmd.Lat, cmd.Lng, cmd.Description, cmd.ImageURL, cmd.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := h.locationRepo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return locationResult(loc), nil
}

// Update executes the update location command.
func (h *ManageLocationsHandler) Update(ctx context.Context, cmd UpdateLocationCommand) (*LocationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	loc, err := h.locationRepo.GetByID(ctx, shared.LocationID(cmd.LocationID))
	if err != nil {
		return nil, err
	}

	point, err := geo.NewPoint(cmd.Lat, cmd.Lng)
	if err != nil {
		return nil, err
	}

	loc.Point = point
	loc.Description = cmd.Description
	loc.ImageURL = cmd.ImageURL

	if err := h.locationRepo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return locationResult(loc), nil
}

// Delete executes the delete location command.
func (h *ManageLocationsHandler) Delete(ctx context.Context, cmd DeleteLocationCommand) error {
	if cmd.LocationID == "" {
		return shared.NewDomainError("location", "DeleteLocation", shared.ErrInvalidID, "location_id is required")
	}
	return h.locationRepo.Delete(ctx, shared.LocationID(cmd.LocationID))
}

// List returns all locations.
func (h *ManageLocationsHandler) List(ctx context.Context) ([]*LocationResult, error) {
	locs, err := h.locationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*LocationResult, len(locs))
	for i, loc := range locs {
		out[i] = locationResult(loc)
	}
	return out, nil
}
