// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// PlayerID represents a unique player identifier (UUID issued by the auth layer).
type PlayerID string

// IsValid checks if the player ID is a well-formed UUID.
func (p PlayerID) IsValid() bool {
	_, err := uuid.Parse(string(p))
	return err == nil
}

// IsEmpty returns true for the zero value.
func (p PlayerID) IsEmpty() bool {
	return strings.TrimSpace(string(p)) == ""
}

// String returns the string representation.
func (p PlayerID) String() string {
	return string(p)
}

// NewPlayerID creates a PlayerID with validation.
func NewPlayerID(id string) (PlayerID, error) {
	pid := PlayerID(strings.TrimSpace(id))
	if pid.IsEmpty() || !pid.IsValid() {
		return "", WrapError("player", "Validate", ErrInvalidID, "player id must be a UUID", nil)
	}
	return pid, nil
}

// RiddleID represents a unique riddle identifier.
type RiddleID string

// IsValid checks if the riddle ID is a well-formed UUID.
func (r RiddleID) IsValid() bool {
	_, err := uuid.Parse(string(r))
	return err == nil
}

// IsEmpty returns true for the zero value.
func (r RiddleID) IsEmpty() bool {
	return strings.TrimSpace(string(r)) == ""
}

// String returns the string representation.
func (r RiddleID) String() string {
	return string(r)
}

// NewRiddleID creates a RiddleID with validation.
func NewRiddleID(id string) (RiddleID, error) {
	rid := RiddleID(strings.TrimSpace(id))
	if rid.IsEmpty() || !rid.IsValid() {
		return "", WrapError("riddle", "Validate", ErrInvalidID, "riddle id must be a UUID", nil)
	}
	return rid, nil
}

// LocationID represents a unique location identifier.
type LocationID string

// IsValid checks if the location ID is a well-formed UUID.
func (l LocationID) IsValid() bool {
	_, err := uuid.Parse(string(l))
	return err == nil
}

// String returns the string representation.
func (l LocationID) String() string {
	return string(l)
}

// NewID generates a fresh UUID string for any entity.
func NewID() string {
	return uuid.NewString()
}

// ═══════════════════════════════════════════════════════════════════════════
// Score Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Score represents a non-negative integer number of points.
type Score int

// IsValid checks that the score is non-negative.
func (s Score) IsValid() bool {
	return s >= 0
}

// Int returns the underlying int value.
func (s Score) Int() int {
	return int(s)
}

// Add returns the score increased by amount (never below zero).
func (s Score) Add(amount int) Score {
	result := int(s) + amount
	if result < 0 {
		return 0
	}
	return Score(result)
}

// NewScore creates a Score with validation.
func NewScore(points int) (Score, error) {
	if points < 0 {
		return 0, WrapError("scoring", "Validate", ErrNegativeValue, "score cannot be negative", nil)
	}
	return Score(points), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Rank Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Rank represents a 1-based position in a leaderboard.
// Rank 0 means "unranked" (no qualifying submissions).
type Rank int

// RankUnranked is the zero value meaning the player is not on the board.
const RankUnranked Rank = 0

// IsValid checks that the rank is positive.
func (r Rank) IsValid() bool {
	return r > 0
}

// Int returns the underlying int value.
func (r Rank) Int() int {
	return int(r)
}

// IsUnranked returns true when the player has no rank.
func (r Rank) IsUnranked() bool {
	return r == RankUnranked
}

// IsPodium returns true for the top-3 positions.
func (r Rank) IsPodium() bool {
	return r >= 1 && r <= 3
}

// String returns the display representation.
func (r Rank) String() string {
	if r.IsUnranked() {
		return "-"
	}
	return fmt.Sprintf("#%d", r)
}
