package planner

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/gradeufla/planner-api/internal/models"
)

// RejectionReason identifies why an add was refused. Rejections are
// expected business outcomes, not errors: the schedule is left unchanged
// and the caller surfaces the reason to the student.
type RejectionReason string

const (
	ReasonMissingStrong    RejectionReason = "MISSING_STRONG_PREREQUISITE"
	ReasonMissingCoreq     RejectionReason = "MISSING_CO_REQUISITE"
	ReasonMissingMinimum   RejectionReason = "MISSING_MINIMUM_PREREQUISITE"
	ReasonAlreadyScheduled RejectionReason = "ALREADY_SCHEDULED"
	ReasonCreditLimit      RejectionReason = "CREDIT_LIMIT_EXCEEDED"
	ReasonTimeConflict     RejectionReason = "TIME_CONFLICT"
	ReasonNoANPSlot        RejectionReason = "NO_ANP_SLOT_AVAILABLE"
)

// Rejection carries a structured refusal from the mutation engine.
type Rejection struct {
	Reason             RejectionReason `json:"reason"`
	Message            string          `json:"message"`
	MissingCodes       []string        `json:"missing_codes,omitempty"`
	ConflictingSubject string          `json:"conflicting_subject,omitempty"`
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	if r == nil {
		return "<nil>"
	}
	return r.Message
}

// Engine is the only component allowed to mutate a Schedule. Both
// operations are atomic with respect to the aggregate: every validation
// runs before the first write, so no partially-applied state is ever
// observable. The engine does not serialize concurrent callers; hosts
// must run one mutation at a time per Schedule.
type Engine struct {
	creditCap int
	logger    *zap.Logger
}

// NewEngine builds a mutation engine with the given total-credit ceiling.
func NewEngine(creditCap int, logger *zap.Logger) *Engine {
	if creditCap <= 0 {
		creditCap = 32
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{creditCap: creditCap, logger: logger}
}

// CreditCap returns the configured total-credit ceiling.
func (e *Engine) CreditCap() int {
	return e.creditCap
}

// Add validates and commits one (subject, section) placement.
//
// Gate order is fixed: strong > coreq > minimum. Strong and coreq misses
// are hard stops. A minimum miss means the caller has not yet replayed a
// confirmation for the code; the engine never prompts, it just refuses.
// The credit ceiling is inclusive: a new total equal to the cap passes,
// strictly greater fails.
func (e *Engine) Add(schedule *models.Schedule, subject models.Subject, section models.Section, state models.CompletionState) (*models.ScheduleEntry, *Rejection) {
	gate := Evaluate(subject, state, schedule.Codes())
	if len(gate.MissingStrong) > 0 {
		return nil, &Rejection{
			Reason:       ReasonMissingStrong,
			Message:      fmt.Sprintf("%s requires completed prerequisites", subject.Code),
			MissingCodes: gate.MissingStrong,
		}
	}
	if len(gate.MissingCoreq) > 0 {
		return nil, &Rejection{
			Reason:       ReasonMissingCoreq,
			Message:      fmt.Sprintf("%s requires co-requisites completed or scheduled alongside it", subject.Code),
			MissingCodes: gate.MissingCoreq,
		}
	}
	if len(gate.MissingMinimum) > 0 {
		return nil, &Rejection{
			Reason:       ReasonMissingMinimum,
			Message:      fmt.Sprintf("%s has minimum prerequisites pending confirmation", subject.Code),
			MissingCodes: gate.MissingMinimum,
		}
	}

	if schedule.Has(subject.Code) {
		return nil, &Rejection{
			Reason:  ReasonAlreadyScheduled,
			Message: fmt.Sprintf("%s is already in the schedule", subject.Code),
		}
	}

	if newTotal := schedule.TotalCredits() + subject.Credits; newTotal > e.creditCap {
		return nil, &Rejection{
			Reason:  ReasonCreditLimit,
			Message: fmt.Sprintf("adding %s would reach %d credits, above the %d cap", subject.Code, newTotal, e.creditCap),
		}
	}

	entry := &models.ScheduleEntry{
		SubjectCode: subject.Code,
		SubjectName: subject.Name,
		Credits:     subject.Credits,
		SectionID:   section.ID,
		Coreq:       append([]string(nil), subject.Prerequisites.Coreq...),
		AddedAt:     time.Now().UTC(),
	}

	if section.SaturdayOnly() {
		slot, ok := FirstFreeANPSlot(schedule)
		if !ok {
			return nil, &Rejection{
				Reason:  ReasonNoANPSlot,
				Message: fmt.Sprintf("no Saturday pool slot left for %s", subject.Code),
			}
		}
		entry.ANPSlot = slot
		entry.TimeSlots = []models.TimeSlot{ANPSlotRange(slot)}
	} else {
		if res := CheckConflict(section, schedule); res.Conflict {
			return nil, &Rejection{
				Reason:             res.Reason,
				Message:            fmt.Sprintf("%s overlaps %s", subject.Code, res.ConflictingSubject),
				ConflictingSubject: res.ConflictingSubject,
			}
		}
		entry.TimeSlots = append([]models.TimeSlot(nil), section.TimeSlots...)
	}

	schedule.Entries[subject.Code] = entry
	e.logger.Debug("schedule_add",
		zap.String("subject", subject.Code),
		zap.String("section", section.ID),
		zap.Int("anp_slot", entry.ANPSlot),
		zap.Int("total_credits", schedule.TotalCredits()),
	)
	return entry, nil
}

// Remove takes a subject out of the schedule together with every placed
// entry that reaches it through declared co-requisite links, computed as
// a fixed point so chained dependents cascade too. The requested code is
// first in the returned list; cascaded codes follow in sorted order.
// Removing an absent code is a no-op returning an empty list.
func (e *Engine) Remove(schedule *models.Schedule, subjectCode string) []string {
	if !schedule.Has(subjectCode) {
		return []string{}
	}

	doomed := map[string]bool{subjectCode: true}
	for {
		grew := false
		for code, entry := range schedule.Entries {
			if doomed[code] {
				continue
			}
			for _, dep := range entry.Coreq {
				if doomed[dep] {
					doomed[code] = true
					grew = true
					break
				}
			}
		}
		if !grew {
			break
		}
	}

	cascaded := make([]string, 0, len(doomed)-1)
	for code := range doomed {
		if code != subjectCode {
			cascaded = append(cascaded, code)
		}
	}
	sort.Strings(cascaded)

	removed := append([]string{subjectCode}, cascaded...)
	for _, code := range removed {
		delete(schedule.Entries, code)
	}
	e.logger.Debug("schedule_remove",
		zap.String("subject", subjectCode),
		zap.Strings("cascaded", cascaded),
	)
	return removed
}
