package planner

import "github.com/gradeufla/planner-api/internal/models"

// ConflictResult reports the outcome of a placement check. For Saturday-only
// sections Conflict means "no ANP slot left", not a literal hour overlap.
type ConflictResult struct {
	Conflict           bool            `json:"conflict"`
	ConflictingSubject string          `json:"conflicting_subject,omitempty"`
	Reason             RejectionReason `json:"reason,omitempty"`
}

// CheckConflict determines whether placing the candidate section would
// overlap an already-placed entry. It is an existence check: the first
// match wins and is returned immediately.
func CheckConflict(section models.Section, schedule *models.Schedule) ConflictResult {
	if section.SaturdayOnly() {
		if _, ok := FirstFreeANPSlot(schedule); !ok {
			return ConflictResult{Conflict: true, Reason: ReasonNoANPSlot}
		}
		return ConflictResult{}
	}

	for _, candidate := range section.TimeSlots {
		if !candidate.Valid() {
			continue
		}
		for hour := candidate.StartHour; hour < candidate.EndHour; hour++ {
			for _, entry := range schedule.Entries {
				for _, placed := range effectiveSlots(entry) {
					if placed.Weekday == candidate.Weekday && hour >= placed.StartHour && hour < placed.EndHour {
						return ConflictResult{
							Conflict:           true,
							ConflictingSubject: entry.SubjectName,
							Reason:             ReasonTimeConflict,
						}
					}
				}
			}
		}
	}
	return ConflictResult{}
}

// effectiveSlots resolves the hour ranges an entry actually occupies.
// Entries holding an ANP slot are compared through the pool mapping, not
// through whatever hours their section declared.
func effectiveSlots(entry *models.ScheduleEntry) []models.TimeSlot {
	if entry.ANPSlot > 0 {
		return []models.TimeSlot{ANPSlotRange(entry.ANPSlot)}
	}
	return entry.TimeSlots
}
