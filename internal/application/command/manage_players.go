package command

import (
	"context"

	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER ADMINISTRATION COMMANDS
// Блокировка скрывает игрока от приёма новых ответов, но его история
// в журнале остаётся и продолжает учитываться в рейтинге.
// ══════════════════════════════════════════════════════════════════════════════

// SetPlayerBlockedCommand blocks or unblocks a player.
type SetPlayerBlockedCommand struct {
	PlayerID string
	Blocked  bool
}

// RenamePlayerCommand changes a player's display name.
type RenamePlayerCommand struct {
	PlayerID    string
	DisplayName string
}

// ManagePlayersHandler handles player administration commands.
type ManagePlayersHandler struct {
	playerRepo player.Repository
	publisher  shared.EventPublisher
}

// NewManagePlayersHandler creates a new ManagePlayersHandler.
func NewManagePlayersHandler(playerRepo player.Repository, publisher shared.EventPublisher) *ManagePlayersHandler {
	return &ManagePlayersHandler{playerRepo: playerRepo, publisher: publisher}
}

// SetBlocked executes the block/unblock command.
func (h *ManagePlayersHandler) SetBlocked(ctx context.Context, cmd SetPlayerBlockedCommand) error {
	if cmd.PlayerID == "" {
		return shared.NewDomainError("player", "SetBlocked", shared.ErrInvalidID, "player_id is required")
	}

	p, err := h.playerRepo.GetByID(ctx, shared.PlayerID(cmd.PlayerID))
	if err != nil {
		return err
	}

	if cmd.Blocked {
		p.Block()
	} else {
		p.Unblock()
	}

	if err := h.playerRepo.Update(ctx, p); err != nil {
		return err
	}

	if h.publisher != nil {
		eventType := shared.EventPlayerUnblocked
		if cmd.Blocked {
			eventType = shared.EventPlayerBlocked
		}
		_ = h.publisher.Publish(shared.NewBaseEvent(eventType, string(p.ID)))
	}
	return nil
}

// Rename executes the rename command.
func (h *ManagePlayersHandler) Rename(ctx context.Context, cmd RenamePlayerCommand) error {
	if cmd.PlayerID == "" {
		return shared.NewDomainError("player", "Rename", shared.ErrInvalidID, "player_id is required")
	}
	if cmd.DisplayName == "" {
		return shared.NewDomainError("player", "Rename", shared.ErrEmptyValue, "display_name is required")
	}

	p, err := h.playerRepo.GetByID(ctx, shared.PlayerID(cmd.PlayerID))
	if err != nil {
		return err
	}

	p.DisplayName = cmd.DisplayName
	return h.playerRepo.Update(ctx, p)
}
