// Package submission contains the append-only ledger of guesses.
// A Submission is one player's single timed answer to one riddle; once
// created it is never mutated, and only an administrative purge removes it.
// This is a pure domain layer with zero external dependencies.
package submission

import (
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// Submission is one immutable guess event.
type Submission struct {
	// ID is the unique submission identifier.
	ID string

	// PlayerID identifies the guessing player.
	PlayerID shared.PlayerID

	// RiddleID identifies the riddle being answered.
	RiddleID shared.RiddleID

	// GuessLat and GuessLng are the submitted coordinates.
	GuessLat float64
	GuessLng float64

	// ElapsedSeconds is the time the player took, >= 0.
	ElapsedSeconds float64

	// DistanceMeters is the computed great-circle distance to the target.
	DistanceMeters float64

	// Score is the computed integer score, >= 0.
	Score int

	// Correct reports whether the guess landed within the allowed radius.
	Correct bool

	// CreatedAt is the ledger append time.
	CreatedAt time.Time
}

// New assembles a submission record from already-computed values.
// Distance and score are produced by the geo and scoring packages;
// the ledger only records them.
func New(playerID shared.PlayerID, riddleID shared.RiddleID, guessLat, guessLng, elapsedSeconds, distanceMeters float64, score int, correct bool) (*Submission, error) {
	if playerID.IsEmpty() {
		return nil, shared.WrapError("submission", "Create", shared.ErrInvalidID, "player id is required", nil)
	}
	if riddleID.IsEmpty() {
		return nil, shared.WrapError("submission", "Create", shared.ErrInvalidID, "riddle id is required", nil)
	}
	if elapsedSeconds < 0 {
		return nil, shared.ErrNegativeElapsed
	}
	if distanceMeters < 0 {
		return nil, shared.ErrNegativeDistance
	}
	if score < 0 {
		return nil, shared.WrapError("submission", "Create", shared.ErrNegativeValue, "score cannot be negative", nil)
	}

	return &Submission{
		ID:             shared.NewID(),
		PlayerID:       playerID,
		RiddleID:       riddleID,
		GuessLat:       guessLat,
		GuessLng:       guessLng,
		ElapsedSeconds: elapsedSeconds,
		DistanceMeters: distanceMeters,
		Score:          score,
		Correct:        correct,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Clone returns a copy so that readers can never mutate ledger state.
func (s *Submission) Clone() *Submission {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
