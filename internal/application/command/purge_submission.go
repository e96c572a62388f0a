package command

import (
	"context"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// PURGE SUBMISSION COMMAND (admin)
// Единственный способ удалить ответ из журнала. После удаления пара
// (игрок, загадка) освобождается и игрок может ответить заново.
// ══════════════════════════════════════════════════════════════════════════════

// PurgeSubmissionCommand identifies a submission to purge.
type PurgeSubmissionCommand struct {
	SubmissionID string
}

// PurgeSubmissionResult describes the purged submission.
type PurgeSubmissionResult struct {
	SubmissionID string `json:"submissionId"`
	PlayerID     string `json:"playerId"`
	RiddleID     string `json:"riddleId"`
	Score        int    `json:"score"`
}

// PurgeSubmissionHandler handles the PurgeSubmissionCommand.
type PurgeSubmissionHandler struct {
	ledger    submission.Ledger
	publisher shared.EventPublisher
}

// NewPurgeSubmissionHandler creates a new PurgeSubmissionHandler.
func NewPurgeSubmissionHandler(ledger submission.Ledger, publisher shared.EventPublisher) *PurgeSubmissionHandler {
	return &PurgeSubmissionHandler{ledger: ledger, publisher: publisher}
}

// Handle executes the purge submission command.
func (h *PurgeSubmissionHandler) Handle(ctx context.Context, cmd PurgeSubmissionCommand) (*PurgeSubmissionResult, error) {
	if cmd.SubmissionID == "" {
		return nil, shared.NewDomainError("submission", "PurgeSubmission", shared.ErrInvalidID, "submission_id is required")
	}

	s, err := h.ledger.Purge(ctx, cmd.SubmissionID)
	if err != nil {
		return nil, err
	}

	if h.publisher != nil {
		event := shared.NewSubmissionPurgedEvent(s.ID, string(s.PlayerID), string(s.RiddleID))
		_ = h.publisher.Publish(event)
	}

	return &PurgeSubmissionResult{
		SubmissionID: s.ID,
		PlayerID:     string(s.PlayerID),
		RiddleID:     string(s.RiddleID),
		Score:        s.Score,
	}, nil
}
