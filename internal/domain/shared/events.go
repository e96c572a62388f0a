// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Submission events
	EventSubmissionCreated EventType = "submission.created"
	EventSubmissionPurged  EventType = "submission.purged"

	// Riddle events
	EventRiddleScheduled EventType = "riddle.scheduled"
	EventRiddleActivated EventType = "riddle.activated"

	// Player events
	EventPlayerRegistered EventType = "player.registered"
	EventPlayerBlocked    EventType = "player.blocked"
	EventPlayerUnblocked  EventType = "player.unblocked"

	// Settings events
	EventSettingsUpdated EventType = "settings.updated"

	// Leaderboard events
	EventLeaderboardRebuilt EventType = "leaderboard.rebuilt"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// Payload implements Event interface. Concrete events override this
// with their own data.
func (e BaseEvent) Payload() map[string]interface{} {
	return map[string]interface{}{}
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Submission Events
// ═══════════════════════════════════════════════════════════════════════════

// SubmissionCreatedEvent is emitted after a guess has been scored and appended
// to the ledger. Handlers use it to keep the leaderboard cache warm.
type SubmissionCreatedEvent struct {
	BaseEvent
	PlayerID       string    `json:"player_id"`
	RiddleID       string    `json:"riddle_id"`
	Score          int       `json:"score"`
	Correct        bool      `json:"correct"`
	DistanceMeters float64   `json:"distance_meters"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Payload implements Event interface.
func (e SubmissionCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"player_id":       e.PlayerID,
		"riddle_id":       e.RiddleID,
		"score":           e.Score,
		"correct":         e.Correct,
		"distance_meters": e.DistanceMeters,
		"elapsed_seconds": e.ElapsedSeconds,
		"submitted_at":    e.SubmittedAt,
	}
}

// NewSubmissionCreatedEvent creates a new SubmissionCreatedEvent.
func NewSubmissionCreatedEvent(submissionID, playerID, riddleID string, score int, correct bool, distanceMeters, elapsedSeconds float64, submittedAt time.Time) SubmissionCreatedEvent {
	return SubmissionCreatedEvent{
		BaseEvent:      NewBaseEvent(EventSubmissionCreated, submissionID),
		PlayerID:       playerID,
		RiddleID:       riddleID,
		Score:          score,
		Correct:        correct,
		DistanceMeters: distanceMeters,
		ElapsedSeconds: elapsedSeconds,
		SubmittedAt:    submittedAt,
	}
}

// SubmissionPurgedEvent is emitted when an administrator deletes a submission.
// Aggregates and caches must treat the submission as retroactively absent.
type SubmissionPurgedEvent struct {
	BaseEvent
	PlayerID string `json:"player_id"`
	RiddleID string `json:"riddle_id"`
}

// Payload implements Event interface.
func (e SubmissionPurgedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"player_id": e.PlayerID,
		"riddle_id": e.RiddleID,
	}
}

// NewSubmissionPurgedEvent creates a new SubmissionPurgedEvent.
func NewSubmissionPurgedEvent(submissionID, playerID, riddleID string) SubmissionPurgedEvent {
	return SubmissionPurgedEvent{
		BaseEvent: NewBaseEvent(EventSubmissionPurged, submissionID),
		PlayerID:  playerID,
		RiddleID:  riddleID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Riddle Events
// ═══════════════════════════════════════════════════════════════════════════

// RiddleActivatedEvent is emitted when a riddle becomes the riddle of the day.
type RiddleActivatedEvent struct {
	BaseEvent
	LocationID string    `json:"location_id"`
	ActiveDate time.Time `json:"active_date"`
}

// Payload implements Event interface.
func (e RiddleActivatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"location_id": e.LocationID,
		"active_date": e.ActiveDate,
	}
}

// NewRiddleActivatedEvent creates a new RiddleActivatedEvent.
func NewRiddleActivatedEvent(riddleID, locationID string, activeDate time.Time) RiddleActivatedEvent {
	return RiddleActivatedEvent{
		BaseEvent:  NewBaseEvent(EventRiddleActivated, riddleID),
		LocationID: locationID,
		ActiveDate: activeDate,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Settings Events
// ═══════════════════════════════════════════════════════════════════════════

// SettingsUpdatedEvent is emitted when an administrator saves new game settings.
// Scoring of new submissions picks up the new config; existing submissions are
// never rescored.
type SettingsUpdatedEvent struct {
	BaseEvent
	PointsPerCorrectAnswer int  `json:"points_per_correct_answer"`
	TimeBonusEnabled       bool `json:"time_bonus_enabled"`
	GameActive             bool `json:"game_active"`
}

// Payload implements Event interface.
func (e SettingsUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"points_per_correct_answer": e.PointsPerCorrectAnswer,
		"time_bonus_enabled":        e.TimeBonusEnabled,
		"game_active":               e.GameActive,
	}
}

// NewSettingsUpdatedEvent creates a new SettingsUpdatedEvent.
func NewSettingsUpdatedEvent(points int, timeBonus, gameActive bool) SettingsUpdatedEvent {
	return SettingsUpdatedEvent{
		BaseEvent:              NewBaseEvent(EventSettingsUpdated, "settings"),
		PointsPerCorrectAnswer: points,
		TimeBonusEnabled:       timeBonus,
		GameActive:             gameActive,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
