package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVATE RIDDLE JOB
// ══════════════════════════════════════════════════════════════════════════════

// ActivateRiddleJob публикует событие активации загадки дня.
// Активность сама по себе определяется полем ActiveDate: загадка активна
// весь свой UTC-день без участия этого джоба. Джоб нужен проекциям
// и уведомлениям - они узнают о новой загадке в момент публикации,
// а не при первом запросе игрока.
type ActivateRiddleJob struct {
	riddleRepo riddle.Repository
	publisher  shared.EventPublisher
	logger     *slog.Logger

	// lastAnnounced - дата последней объявленной загадки, чтобы не
	// публиковать событие повторно при каждом тике.
	lastAnnounced time.Time
}

// NewActivateRiddleJob creates a new activate riddle job.
func NewActivateRiddleJob(riddleRepo riddle.Repository, publisher shared.EventPublisher, logger *slog.Logger) *ActivateRiddleJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivateRiddleJob{
		riddleRepo: riddleRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Name returns the job name.
func (j *ActivateRiddleJob) Name() string {
	return "activate_riddle"
}

// Description returns a human-readable description.
func (j *ActivateRiddleJob) Description() string {
	return "Announces the riddle of the day to event subscribers"
}

// Run executes the activation check.
func (j *ActivateRiddleJob) Run(ctx context.Context) error {
	now := time.Now().UTC()

	rd, err := j.riddleRepo.GetActiveAt(ctx, now)
	if err != nil {
		if errors.Is(err, shared.ErrRiddleNotFound) {
			// На сегодня загадка не назначена.
			return nil
		}
		return err
	}

	if rd.ActiveDate.Equal(j.lastAnnounced) {
		return nil
	}

	event := shared.NewRiddleActivatedEvent(string(rd.ID), string(rd.LocationID), rd.ActiveDate)
	if j.publisher != nil {
		if err := j.publisher.Publish(event); err != nil {
			return err
		}
	}

	j.lastAnnounced = rd.ActiveDate
	j.logger.Info("riddle of the day announced",
		slog.String("riddle_id", string(rd.ID)),
		slog.Time("active_date", rd.ActiveDate),
	)
	return nil
}
