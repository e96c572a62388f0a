package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CronSchedule fires at the wall-clock times matched by a standard 5-field
// cron expression (minute hour day-of-month month day-of-week), evaluated
// in UTC. It plugs into the same Schedule slot as IntervalSchedule and
// DailySchedule, so operators can override a job's cadence from config:
//
//	"*/5 * * * *"  - every 5 minutes
//	"0 3 * * *"    - every day at 03:00 UTC
//	"0 0 * * 0"    - every Sunday at midnight
type CronSchedule struct {
	expr     string
	minutes  uint64 // bit i set = minute i matches
	hours    uint64
	days     uint64
	months   uint64
	weekdays uint64 // 0 = Sunday
}

// ParseCronSchedule parses a 5-field cron expression.
// Each field supports *, */n, a, a-b, a-b/n and comma lists.
func ParseCronSchedule(expr string) (*CronSchedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron %q: expected 5 fields, got %d", expr, len(fields))
	}

	cs := &CronSchedule{expr: expr}
	specs := []struct {
		dst      *uint64
		min, max int
		name     string
	}{
		{&cs.minutes, 0, 59, "minute"},
		{&cs.hours, 0, 23, "hour"},
		{&cs.days, 1, 31, "day"},
		{&cs.months, 1, 12, "month"},
		{&cs.weekdays, 0, 6, "weekday"},
	}
	for i, spec := range specs {
		mask, err := parseCronField(fields[i], spec.min, spec.max)
		if err != nil {
			return nil, fmt.Errorf("cron %q: %s field: %w", expr, spec.name, err)
		}
		*spec.dst = mask
	}
	return cs, nil
}

// parseCronField parses one field into a bitmask over [min, max].
func parseCronField(field string, min, max int) (uint64, error) {
	var mask uint64
	for _, part := range strings.Split(field, ",") {
		part = strings.TrimSpace(part)

		step := 1
		if body, stepStr, ok := strings.Cut(part, "/"); ok {
			s, err := strconv.Atoi(stepStr)
			if err != nil || s <= 0 {
				return 0, fmt.Errorf("bad step %q", stepStr)
			}
			step = s
			part = body
		}

		lo, hi := min, max
		switch {
		case part == "*":
			// full range
		case strings.Contains(part, "-"):
			loStr, hiStr, _ := strings.Cut(part, "-")
			var err error
			if lo, err = strconv.Atoi(loStr); err != nil {
				return 0, fmt.Errorf("bad range start %q", loStr)
			}
			if hi, err = strconv.Atoi(hiStr); err != nil {
				return 0, fmt.Errorf("bad range end %q", hiStr)
			}
		default:
			v, err := strconv.Atoi(part)
			if err != nil {
				return 0, fmt.Errorf("bad value %q", part)
			}
			lo, hi = v, v
		}

		if lo < min || hi > max || lo > hi {
			return 0, fmt.Errorf("%q out of range [%d-%d]", part, min, max)
		}
		for v := lo; v <= hi; v += step {
			mask |= 1 << uint(v)
		}
	}
	if mask == 0 {
		return 0, fmt.Errorf("empty field %q", field)
	}
	return mask, nil
}

// Next returns the first matching instant strictly after t.
// Returns the zero time if nothing matches within a year.
func (cs *CronSchedule) Next(t time.Time) time.Time {
	next := t.UTC().Truncate(time.Minute).Add(time.Minute)

	limit := next.AddDate(1, 0, 1)
	for next.Before(limit) {
		if cs.months&(1<<uint(next.Month())) == 0 {
			next = time.Date(next.Year(), next.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
			continue
		}
		if cs.days&(1<<uint(next.Day())) == 0 || cs.weekdays&(1<<uint(next.Weekday())) == 0 {
			next = next.Truncate(24 * time.Hour).Add(24 * time.Hour)
			continue
		}
		if cs.hours&(1<<uint(next.Hour())) == 0 {
			next = next.Truncate(time.Hour).Add(time.Hour)
			continue
		}
		if cs.minutes&(1<<uint(next.Minute())) == 0 {
			next = next.Add(time.Minute)
			continue
		}
		return next
	}
	return time.Time{}
}

// String returns the original cron expression.
func (cs *CronSchedule) String() string {
	return "@cron " + cs.expr
}
