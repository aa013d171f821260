package models

import (
	"strconv"
	"strings"
)

// Weekday indexes follow the 0=Sunday .. 6=Saturday convention used across
// the planner. Catalog sources may use 1=Sunday .. 7=Saturday or localized
// day names instead; both are mapped here, once, at the load boundary.
const (
	Sunday    = 0
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
)

// HourNone is the sentinel produced when an hour value cannot be parsed.
// Overlap checks treat it as never matching.
const HourNone = -1

// Displayable day window, inclusive start and exclusive end.
const (
	DayWindowStart = 6
	DayWindowEnd   = 24
)

var weekdayNames = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// TimeSlot is one contiguous weekly meeting block with normalized fields.
type TimeSlot struct {
	Weekday   int `db:"weekday" json:"weekday"`
	StartHour int `db:"start_hour" json:"start_hour"`
	EndHour   int `db:"end_hour" json:"end_hour"`
}

// Valid reports whether the slot carries a usable weekday and hour range.
func (t TimeSlot) Valid() bool {
	return t.Weekday >= Sunday && t.Weekday <= Saturday && t.StartHour >= 0 && t.StartHour < t.EndHour
}

// Overlaps reports whether two slots share a weekday and an hour. Hour
// ranges are end-exclusive, so Mon 8-10 and Mon 10-12 do not overlap.
// Slots with unparseable hours never overlap anything.
func (t TimeSlot) Overlaps(other TimeSlot) bool {
	if !t.Valid() || !other.Valid() {
		return false
	}
	if t.Weekday != other.Weekday {
		return false
	}
	return t.StartHour < other.EndHour && other.StartHour < t.EndHour
}

// WeekdayName returns the short localized label for a 0..6 index.
func WeekdayName(weekday int) string {
	if weekday < Sunday || weekday > Saturday {
		return ""
	}
	return weekdayNames[weekday]
}

// NormalizeWeekday maps weekday numbers onto the 0..6 convention. Values
// already in 0..6 are kept as-is, which makes the function idempotent; 7
// (Saturday in the 1..7 convention) maps to 6. Anything else is returned
// unchanged for the caller to validate.
func NormalizeWeekday(n int) int {
	if n >= Sunday && n <= Saturday {
		return n
	}
	if n == 7 {
		return Saturday
	}
	return n
}

// ParseWeekday accepts a weekday number ("0".."7") or a day-name string
// ("Seg", "sábado", "SAB") and resolves it to a 0..6 index.
func ParseWeekday(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		normalized := NormalizeWeekday(n)
		if normalized >= Sunday && normalized <= Saturday {
			return normalized, true
		}
		return 0, false
	}

	prefix := foldAccents(strings.ToLower(s))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	for idx, name := range weekdayNames {
		if foldAccents(strings.ToLower(name)) == prefix {
			return idx, true
		}
	}
	return 0, false
}

// ParseHour reads an hour from a plain integer string, "HH", or "HH:MM"
// (minutes truncated). Unparseable input yields HourNone, never 0.
func ParseHour(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return HourNone
	}
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		s = s[:idx]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return HourNone
	}
	return n
}

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "õ", "o", "ô", "o",
	"ú", "u",
	"ç", "c",
)

func foldAccents(s string) string {
	return accentFolder.Replace(s)
}
