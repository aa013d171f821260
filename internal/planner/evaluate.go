// Package planner implements the scheduling core: the prerequisite gate,
// the time-slot conflict detector, the Saturday (ANP) slot allocator, and
// the schedule mutation engine that combines them. Everything here works
// on explicit Schedule values passed in by the caller; the engine owns the
// only write path and all other functions are pure reads.
package planner

import "github.com/gradeufla/planner-api/internal/models"

// GateResult classifies a subject's missing prerequisites by severity.
type GateResult struct {
	MissingStrong  []string `json:"missing_strong,omitempty"`
	MissingMinimum []string `json:"missing_minimum,omitempty"`
	MissingCoreq   []string `json:"missing_coreq,omitempty"`
}

// Admissible reports whether no prerequisite of any severity is missing.
func (g GateResult) Admissible() bool {
	return len(g.MissingStrong) == 0 && len(g.MissingMinimum) == 0 && len(g.MissingCoreq) == 0
}

// Evaluate runs the prerequisite gate for one subject.
//
// Strong codes are satisfied only by completion. Minimum codes are
// satisfied by completion or by an explicit one-time confirmation, which
// is monotonic per code regardless of subject. Coreq codes are satisfied
// by completion or by presence in the working schedule.
func Evaluate(subject models.Subject, state models.CompletionState, scheduleCodes map[string]bool) GateResult {
	var result GateResult
	for _, code := range subject.Prerequisites.Strong {
		if !state.Completed[code] {
			result.MissingStrong = append(result.MissingStrong, code)
		}
	}
	for _, code := range subject.Prerequisites.Minimum {
		if !state.Completed[code] && !state.ConfirmedMinimum[code] {
			result.MissingMinimum = append(result.MissingMinimum, code)
		}
	}
	for _, code := range subject.Prerequisites.Coreq {
		if !state.Completed[code] && !scheduleCodes[code] {
			result.MissingCoreq = append(result.MissingCoreq, code)
		}
	}
	return result
}
