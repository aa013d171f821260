package dto

import (
	"time"

	"github.com/gradeufla/planner-api/internal/models"
	"github.com/gradeufla/planner-api/internal/planner"
)

// CreateSessionRequest opens a new planning session.
type CreateSessionRequest struct {
	TermIndex int `json:"termIndex" validate:"omitempty,min=1,max=20"`
	CreditCap int `json:"creditCap" validate:"omitempty,min=1,max=60"`
}

// SessionResponse is the session snapshot returned by reads and mutations.
type SessionResponse struct {
	ID           string                  `json:"id"`
	TermIndex    int                     `json:"termIndex"`
	CreditCap    int                     `json:"creditCap"`
	TotalCredits int                     `json:"totalCredits"`
	Entries      []*models.ScheduleEntry `json:"entries"`
	Completed    []string                `json:"completed"`
	Confirmed    []string                `json:"confirmed"`
	CreatedAt    time.Time               `json:"createdAt"`
	ExpiresAt    time.Time               `json:"expiresAt"`
}

// SetCompletedRequest replaces the completed-code set wholesale.
type SetCompletedRequest struct {
	Codes []string `json:"codes" validate:"required,dive,min=3,max=16"`
}

// ToggleCompletedResponse reports the codes flipped by one toggle,
// including any cascaded unmarks.
type ToggleCompletedResponse struct {
	Code      string   `json:"code"`
	Completed bool     `json:"completed"`
	Unmarked  []string `json:"unmarked,omitempty"`
}

// ConfirmMinimumRequest records a one-time confirmation that a
// minimum-severity prerequisite was passed.
type ConfirmMinimumRequest struct {
	Code string `json:"code" validate:"required,min=3,max=16"`
}

// EvaluateRequest asks for a prerequisite gate preview.
type EvaluateRequest struct {
	SubjectCode string `json:"subjectCode" validate:"required,min=3,max=16"`
}

// EvaluateResponse carries the gate outcome by severity.
type EvaluateResponse struct {
	SubjectCode string             `json:"subjectCode"`
	Admissible  bool               `json:"admissible"`
	Gate        planner.GateResult `json:"gate"`
}

// ConflictCheckRequest asks whether a section would fit the schedule.
type ConflictCheckRequest struct {
	SubjectCode string `json:"subjectCode" validate:"required,min=3,max=16"`
	SectionID   string `json:"sectionId" validate:"required,min=1,max=16"`
}

// ANPSlotResponse previews the next free Saturday pool slot.
type ANPSlotResponse struct {
	Available bool             `json:"available"`
	Slot      int              `json:"slot,omitempty"`
	Range     *models.TimeSlot `json:"range,omitempty"`
}

// AddEntryRequest places one (subject, section) pair into the schedule.
type AddEntryRequest struct {
	SubjectCode string `json:"subjectCode" validate:"required,min=3,max=16"`
	SectionID   string `json:"sectionId" validate:"required,min=1,max=16"`
}

// AddEntryResponse is either the committed entry or a structured refusal.
// Refusals are ordinary 200 responses: the client renders the reason, the
// schedule is untouched.
type AddEntryResponse struct {
	OK           bool                  `json:"ok"`
	Entry        *models.ScheduleEntry `json:"entry,omitempty"`
	TotalCredits int                   `json:"totalCredits"`
	Rejection    *planner.Rejection    `json:"rejection,omitempty"`
}

// RemoveEntryResponse lists every code taken out, requested first.
type RemoveEntryResponse struct {
	RemovedCodes []string `json:"removedCodes"`
	TotalCredits int      `json:"totalCredits"`
}

// AvailabilityGroup is one bucket of the availability listing.
type AvailabilityGroup struct {
	Key      string           `json:"key"`
	Label    string           `json:"label"`
	Subjects []models.Subject `json:"subjects"`
}

// AvailabilityResponse groups what the student can plan next: required
// subjects of the session's term, pending subjects from earlier terms, and
// admissible electives by subgroup.
type AvailabilityResponse struct {
	TermIndex int                 `json:"termIndex"`
	Groups    []AvailabilityGroup `json:"groups"`
}

// ShareExportResponse carries a signed download link for a stored export.
type ShareExportResponse struct {
	Format       string    `json:"format"`
	DownloadPath string    `json:"downloadPath"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
