package planner

import "github.com/gradeufla/planner-api/internal/models"

// Saturday-only ("ANP") sections meet in back-to-back administrative
// blocks whose declared hours are inconsistent across the catalog, so
// placement ignores them: every ANP section draws from one shared pool of
// numbered one-hour Saturday slots, slot 1 starting at the base hour.
const (
	ANPSlotCount = 14
	ANPBaseHour  = 9
)

// FirstFreeANPSlot scans slot numbers 1..14 in ascending order and returns
// the first one not assigned to any schedule entry. The pool is global
// across the whole schedule, not per subject. ok is false when all slots
// are taken.
func FirstFreeANPSlot(schedule *models.Schedule) (slot int, ok bool) {
	for n := 1; n <= ANPSlotCount; n++ {
		if !schedule.ANPSlotTaken(n) {
			return n, true
		}
	}
	return 0, false
}

// ANPSlotRange maps a pool slot number to its displayable Saturday hour
// range, [base+(n-1), base+n).
func ANPSlotRange(slot int) models.TimeSlot {
	start := ANPBaseHour + (slot - 1)
	return models.TimeSlot{
		Weekday:   models.Saturday,
		StartHour: start,
		EndHour:   start + 1,
	}
}
