package domain

import (
	"strconv"
	"strings"
	"time"
)

// DefaultSpacingMinutes is used when a professional's appointment spacing is
// missing, unparsable, or non-positive.
const DefaultSpacingMinutes = 30

// ComputeSlots derives the bookable start times for a professional on the
// given calendar date. Slots begin at the matching weekday window's start
// time and advance by the professional's appointment spacing while the
// current time is strictly before the window's end. An end time of exactly
// "00:00" means end of day (23:59), not a zero-length window.
//
// Any malformed input (no schedules, no matching weekday, unparsable window,
// start at or after end) resolves to an empty slot list rather than an error.
func ComputeSlots(p Professional, date time.Time) []string {
	if len(p.Schedules) == 0 {
		return nil
	}

	key := CanonicalWeekday(date)
	var window *WeeklySchedule
	for i := range p.Schedules {
		if strings.EqualFold(strings.TrimSpace(p.Schedules[i].WeekdayKey), key) {
			window = &p.Schedules[i]
			break
		}
	}
	if window == nil {
		return nil
	}

	spacing := time.Duration(spacingMinutes(p.AppointmentSpacing)) * time.Minute

	endRaw := strings.TrimSpace(window.EndTime)
	if endRaw == "00:00" {
		endRaw = "23:59"
	}

	start, ok := parseWallClock(window.StartTime)
	if !ok {
		return nil
	}
	end, ok := parseWallClock(endRaw)
	if !ok {
		return nil
	}
	if !start.Before(end) {
		return nil
	}

	// One slot is always emitted when start < end. The loop condition is
	// checked before emission, so a trailing slot may overrun end but a
	// second slot never starts at or after it.
	slots := make([]string, 0, 16)
	for current := start; current.Before(end); current = current.Add(spacing) {
		slots = append(slots, current.Format("15:04"))
	}
	return slots
}

// CanonicalWeekday maps a date to its locale-independent civil weekday name
// (Monday through Sunday). Saturday and Sunday are ordinary weekdays here.
func CanonicalWeekday(date time.Time) string {
	return date.Weekday().String()
}

func spacingMinutes(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultSpacingMinutes
	}
	return n
}

func parseWallClock(raw string) (time.Time, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
