package scheduler

import (
	"fmt"
	"time"

	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// DailySchedule fires once per day at a fixed UTC wall-clock time.
// Used for riddle activation at the configured riddleTime.
type DailySchedule struct {
	At timeutil.ClockTime
}

// NewDailySchedule creates a new DailySchedule.
func NewDailySchedule(at timeutil.ClockTime) *DailySchedule {
	return &DailySchedule{At: at}
}

// Next returns the next scheduled time strictly after t.
func (s *DailySchedule) Next(t time.Time) time.Time {
	return s.At.NextOccurrence(t)
}

// String returns the string representation of the schedule.
func (s *DailySchedule) String() string {
	return fmt.Sprintf("@daily %s", s.At)
}
