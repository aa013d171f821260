package models

import "time"

// SubjectKind distinguishes curriculum-track subjects from electives.
type SubjectKind string

const (
	SubjectRequired SubjectKind = "REQUIRED"
	SubjectElective SubjectKind = "ELECTIVE"
)

// Prerequisites groups a subject's prerequisite codes by severity.
//
// Strong codes must be completed before enrolling. Minimum codes must be
// completed with a passing grade, which the planner cannot verify, so they
// are satisfied by a one-time per-code confirmation from the student.
// Coreq codes may instead be present in the working schedule.
type Prerequisites struct {
	Strong  []string `json:"strong,omitempty"`
	Minimum []string `json:"minimum,omitempty"`
	Coreq   []string `json:"coreq,omitempty"`
}

// Empty reports whether no prerequisite of any severity is declared.
func (p Prerequisites) Empty() bool {
	return len(p.Strong) == 0 && len(p.Minimum) == 0 && len(p.Coreq) == 0
}

// Disjoint reports whether no code appears in more than one severity list.
// A violation is a catalog data-quality defect rejected at import time.
func (p Prerequisites) Disjoint() bool {
	seen := make(map[string]int, len(p.Strong)+len(p.Minimum)+len(p.Coreq))
	for _, list := range [][]string{p.Strong, p.Minimum, p.Coreq} {
		for _, code := range list {
			seen[code]++
			if seen[code] > 1 {
				return false
			}
		}
	}
	return true
}

// Section is one offering ("turma") of a subject with a fixed weekly
// meeting pattern.
type Section struct {
	ID        string     `json:"id"`
	TimeSlots []TimeSlot `json:"time_slots"`
}

// SaturdayOnly reports whether every declared slot falls on Saturday and
// at least one does. Such sections are placed through the shared ANP slot
// pool instead of their literal hours.
func (s Section) SaturdayOnly() bool {
	if len(s.TimeSlots) == 0 {
		return false
	}
	for _, slot := range s.TimeSlots {
		if slot.Weekday != Saturday {
			return false
		}
	}
	return true
}

// Subject represents a course offered in the program.
type Subject struct {
	Code          string        `db:"code" json:"code"`
	Name          string        `db:"name" json:"name"`
	Credits       int           `db:"credits" json:"credits"`
	Kind          SubjectKind   `db:"kind" json:"kind"`
	TermIndex     int           `db:"term_index" json:"term_index,omitempty"`
	Subgroup      string        `db:"subgroup" json:"subgroup,omitempty"`
	Prerequisites Prerequisites `json:"prerequisites"`
	Sections      []Section     `json:"sections"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// Section returns the offering with the given id.
func (s Subject) Section(id string) (Section, bool) {
	for _, section := range s.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return Section{}, false
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	TermIndex int
	Kind      SubjectKind
	Subgroup  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
