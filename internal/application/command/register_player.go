package command

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER PLAYER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RegisterPlayerCommand contains the data to register a player.
type RegisterPlayerCommand struct {
	// PlayerID is the identity assigned by the auth layer upstream.
	PlayerID string

	// DisplayName is the name shown on leaderboards.
	DisplayName string
}

// Validate validates the command.
func (c RegisterPlayerCommand) Validate() error {
	if c.PlayerID == "" {
		return shared.NewDomainError("player", "RegisterPlayer", shared.ErrInvalidInput, "player_id is required")
	}
	if c.DisplayName == "" {
		return shared.NewDomainError("player", "RegisterPlayer", shared.ErrEmptyValue, "display_name is required")
	}
	return nil
}

// RegisterPlayerResult contains the registered player.
type RegisterPlayerResult struct {
	PlayerID    string    `json:"playerId"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RegisterPlayerHandler handles the RegisterPlayerCommand.
type RegisterPlayerHandler struct {
	playerRepo   player.Repository
	settingsRepo settings.Repository
	publisher    shared.EventPublisher
}

// NewRegisterPlayerHandler creates a new RegisterPlayerHandler.
func NewRegisterPlayerHandler(playerRepo player.Repository, settingsRepo settings.Repository, publisher shared.EventPublisher) *RegisterPlayerHandler {
	return &RegisterPlayerHandler{
		playerRepo:   playerRepo,
		settingsRepo: settingsRepo,
		publisher:    publisher,
	}
}

// Handle executes the register player command.
func (h *RegisterPlayerHandler) Handle(ctx context.Context, cmd RegisterPlayerCommand) (*RegisterPlayerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	cfg, err := h.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.AllowRegistration {
		return nil, shared.NewDomainError("player", "RegisterPlayer", shared.ErrForbidden, "registration is disabled")
	}

	id, err := shared.NewPlayerID(cmd.PlayerID)
	if err != nil {
		return nil, err
	}

	p, err := player.New(id, cmd.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := h.playerRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewBaseEvent(shared.EventPlayerRegistered, string(p.ID)))
	}

	return &RegisterPlayerResult{
		PlayerID:    string(p.ID),
		DisplayName: p.DisplayName,
		CreatedAt:   p.CreatedAt,
	}, nil
}
