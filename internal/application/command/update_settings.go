package command

import (
	"context"

	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE SETTINGS COMMAND (admin)
// Настройки применяются только к новым ответам: очки, записанные
// в журнал до изменения, не трогаем.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateSettingsCommand carries the full new settings value.
type UpdateSettingsCommand struct {
	Settings settings.Settings
}

// UpdateSettingsHandler handles the UpdateSettingsCommand.
type UpdateSettingsHandler struct {
	settingsRepo settings.Repository
	publisher    shared.EventPublisher
}

// NewUpdateSettingsHandler creates a new UpdateSettingsHandler.
func NewUpdateSettingsHandler(settingsRepo settings.Repository, publisher shared.EventPublisher) *UpdateSettingsHandler {
	return &UpdateSettingsHandler{settingsRepo: settingsRepo, publisher: publisher}
}

// Current returns the settings as stored.
func (h *UpdateSettingsHandler) Current(ctx context.Context) (settings.Settings, error) {
	return h.settingsRepo.Get(ctx)
}

// Handle executes the update settings command.
func (h *UpdateSettingsHandler) Handle(ctx context.Context, cmd UpdateSettingsCommand) (settings.Settings, error) {
	if err := cmd.Settings.Validate(); err != nil {
		return settings.Settings{}, err
	}

	if err := h.settingsRepo.Save(ctx, cmd.Settings); err != nil {
		return settings.Settings{}, err
	}

	if h.publisher != nil {
		event := shared.NewSettingsUpdatedEvent(
			cmd.Settings.PointsPerCorrectAnswer,
			cmd.Settings.TimeBonusEnabled,
			cmd.Settings.GameActive,
		)
		_ = h.publisher.Publish(event)
	}

	return cmd.Settings, nil
}
