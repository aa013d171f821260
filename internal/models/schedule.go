package models

import "time"

// ScheduleEntry is one subject placed in the working schedule. TimeSlots
// holds the effective placement: for ANP-mapped subjects it is a single
// synthesized Saturday slot, not the section's declared hours.
type ScheduleEntry struct {
	SubjectCode string     `json:"subject_code"`
	SubjectName string     `json:"subject_name"`
	Credits     int        `json:"credits"`
	SectionID   string     `json:"section_id"`
	TimeSlots   []TimeSlot `json:"time_slots"`
	ANPSlot     int        `json:"anp_slot,omitempty"`
	Coreq       []string   `json:"coreq,omitempty"`
	AddedAt     time.Time  `json:"added_at"`
}

// Schedule is the central mutable aggregate: at most one entry per subject
// code. It is mutated only through the mutation engine's add and remove
// operations.
type Schedule struct {
	Entries map[string]*ScheduleEntry `json:"entries"`
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{Entries: make(map[string]*ScheduleEntry)}
}

// Has reports whether a subject code is already placed.
func (s *Schedule) Has(code string) bool {
	_, ok := s.Entries[code]
	return ok
}

// Codes returns the set of placed subject codes.
func (s *Schedule) Codes() map[string]bool {
	codes := make(map[string]bool, len(s.Entries))
	for code := range s.Entries {
		codes[code] = true
	}
	return codes
}

// TotalCredits sums credits across all placed entries.
func (s *Schedule) TotalCredits() int {
	total := 0
	for _, entry := range s.Entries {
		total += entry.Credits
	}
	return total
}

// ANPSlotTaken reports whether an ANP pool slot number is occupied.
func (s *Schedule) ANPSlotTaken(slot int) bool {
	for _, entry := range s.Entries {
		if entry.ANPSlot == slot {
			return true
		}
	}
	return false
}

// CompletionState is owned by the calling context: the set of completed
// subject codes plus the minimum-severity codes the student has explicitly
// confirmed. Both sets only ever grow through user action.
type CompletionState struct {
	Completed        map[string]bool `json:"completed"`
	ConfirmedMinimum map[string]bool `json:"confirmed_minimum"`
}

// NewCompletionState returns an empty completion state.
func NewCompletionState() CompletionState {
	return CompletionState{
		Completed:        make(map[string]bool),
		ConfirmedMinimum: make(map[string]bool),
	}
}
