// Package player contains the minimal player directory the engine needs:
// display names for leaderboards and existence checks for submissions.
// Authentication and token issuance live in an external auth service.
package player

import (
	"strings"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// Player is one registered player.
type Player struct {
	// ID is issued by the external auth layer.
	ID shared.PlayerID

	// DisplayName is shown on leaderboards and admin screens.
	DisplayName string

	// Blocked players cannot submit guesses.
	Blocked bool

	// CreatedAt is the registration time.
	CreatedAt time.Time
}

// New creates a player with validation.
func New(id shared.PlayerID, displayName string) (*Player, error) {
	if id.IsEmpty() || !id.IsValid() {
		return nil, shared.WrapError("player", "Register", shared.ErrInvalidID, "player id must be a UUID", nil)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, shared.WrapError("player", "Register", shared.ErrEmptyValue, "display name is required", nil)
	}
	if len(displayName) > 50 {
		return nil, shared.WrapError("player", "Register", shared.ErrValueOutOfRange, "display name is too long", nil)
	}

	return &Player{
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Block marks the player as blocked.
func (p *Player) Block() {
	p.Blocked = true
}

// Unblock lifts the block.
func (p *Player) Unblock() {
	p.Blocked = false
}

// CanPlay reports whether the player may submit guesses.
func (p *Player) CanPlay() bool {
	return !p.Blocked
}
