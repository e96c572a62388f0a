package player

import (
	"context"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// Repository defines the player directory storage contract.
type Repository interface {
	// Create registers a new player.
	// Returns shared.ErrPlayerExists when the ID is already registered.
	Create(ctx context.Context, p *Player) error

	// GetByID returns a player by ID.
	// Returns shared.ErrPlayerNotFound when unknown.
	GetByID(ctx context.Context, id shared.PlayerID) (*Player, error)

	// GetByIDs returns the players for a list of IDs, keyed by ID.
	// Unknown IDs are silently absent from the result.
	GetByIDs(ctx context.Context, ids []shared.PlayerID) (map[shared.PlayerID]*Player, error)

	// Update persists block status and display-name changes.
	Update(ctx context.Context, p *Player) error

	// List returns all players in registration order.
	List(ctx context.Context) ([]*Player, error)

	// Count returns the total number of players.
	Count(ctx context.Context) (int, error)
}
