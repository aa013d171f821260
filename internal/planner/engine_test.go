package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeufla/planner-api/internal/models"
)

func subject(code string, credits int, prereq models.Prerequisites, sections ...models.Section) models.Subject {
	return models.Subject{
		Code:          code,
		Name:          "Disciplina " + code,
		Credits:       credits,
		Kind:          models.SubjectRequired,
		Prerequisites: prereq,
		Sections:      sections,
	}
}

func weekdaySection(id string, weekday, start, end int) models.Section {
	return models.Section{ID: id, TimeSlots: []models.TimeSlot{
		{Weekday: weekday, StartHour: start, EndHour: end},
	}}
}

func saturdaySection(id string) models.Section {
	return models.Section{ID: id, TimeSlots: []models.TimeSlot{
		{Weekday: models.Saturday, StartHour: 8, EndHour: 10},
	}}
}

func TestEvaluateSeverities(t *testing.T) {
	subj := subject("GCC200", 4, models.Prerequisites{
		Strong:  []string{"GCC100"},
		Minimum: []string{"GEX101"},
		Coreq:   []string{"GCC199"},
	})

	state := models.NewCompletionState()
	result := Evaluate(subj, state, nil)
	assert.Equal(t, []string{"GCC100"}, result.MissingStrong)
	assert.Equal(t, []string{"GEX101"}, result.MissingMinimum)
	assert.Equal(t, []string{"GCC199"}, result.MissingCoreq)
	assert.False(t, result.Admissible())

	state.Completed["GCC100"] = true
	state.ConfirmedMinimum["GEX101"] = true
	result = Evaluate(subj, state, map[string]bool{"GCC199": true})
	assert.True(t, result.Admissible(), "coreq satisfied by schedule presence")
}

func TestMinimumConfirmationIsMonotonicPerCode(t *testing.T) {
	state := models.NewCompletionState()
	state.ConfirmedMinimum["GEX101"] = true

	first := subject("GCC200", 4, models.Prerequisites{Minimum: []string{"GEX101"}})
	second := subject("GCC300", 4, models.Prerequisites{Minimum: []string{"GEX101"}})

	assert.True(t, Evaluate(first, state, nil).Admissible())
	assert.True(t, Evaluate(second, state, nil).Admissible(), "one confirmation covers the code everywhere")
}

func TestAddRejectsMissingStrongBeforeAnythingElse(t *testing.T) {
	engine := NewEngine(32, nil)
	schedule := models.NewSchedule()
	subj := subject("GCC200", 4,
		models.Prerequisites{Strong: []string{"GCC100"}, Minimum: []string{"GEX101"}},
		weekdaySection("01A", models.Monday, 8, 10),
	)

	entry, rej := engine.Add(schedule, subj, subj.Sections[0], models.NewCompletionState())
	require.Nil(t, entry)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonMissingStrong, rej.Reason)
	assert.Equal(t, []string{"GCC100"}, rej.MissingCodes)
	assert.Empty(t, schedule.Entries)
}

func TestAddRejectsUnconfirmedMinimum(t *testing.T) {
	engine := NewEngine(32, nil)
	schedule := models.NewSchedule()
	subj := subject("GCC200", 4,
		models.Prerequisites{Minimum: []string{"GEX101"}},
		weekdaySection("01A", models.Monday, 8, 10),
	)

	_, rej := engine.Add(schedule, subj, subj.Sections[0], models.NewCompletionState())
	require.NotNil(t, rej)
	assert.Equal(t, ReasonMissingMinimum, rej.Reason)

	state := models.NewCompletionState()
	state.ConfirmedMinimum["GEX101"] = true
	entry, rej := engine.Add(schedule, subj, subj.Sections[0], state)
	require.Nil(t, rej)
	assert.Equal(t, "GCC200", entry.SubjectCode)
}

func TestAddRejectsDuplicate(t *testing.T) {
	engine := NewEngine(32, nil)
	schedule := models.NewSchedule()
	subj := subject("GCC100", 4, models.Prerequisites{}, weekdaySection("01A", models.Monday, 8, 10))
	state := models.NewCompletionState()

	_, rej := engine.Add(schedule, subj, subj.Sections[0], state)
	require.Nil(t, rej)

	other := subject("GCC100", 4, models.Prerequisites{}, weekdaySection("02A", models.Tuesday, 8, 10))
	_, rej = engine.Add(schedule, other, other.Sections[0], state)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonAlreadyScheduled, rej.Reason)
	assert.Len(t, schedule.Entries, 1)
}

func TestAddCreditCapIsInclusive(t *testing.T) {
	engine := NewEngine(32, nil)
	state := models.NewCompletionState()

	schedule := models.NewSchedule()
	schedule.Entries["GCC100"] = &models.ScheduleEntry{SubjectCode: "GCC100", Credits: 28}

	exact := subject("GCC200", 4, models.Prerequisites{}, weekdaySection("01A", models.Monday, 8, 10))
	entry, rej := engine.Add(schedule, exact, exact.Sections[0], state)
	require.Nil(t, rej, "a total equal to the cap passes")
	assert.Equal(t, 32, schedule.TotalCredits())
	assert.NotNil(t, entry)

	schedule = models.NewSchedule()
	schedule.Entries["GCC100"] = &models.ScheduleEntry{SubjectCode: "GCC100", Credits: 28}
	over := subject("GCC300", 5, models.Prerequisites{}, weekdaySection("01A", models.Monday, 8, 10))
	_, rej = engine.Add(schedule, over, over.Sections[0], state)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonCreditLimit, rej.Reason)
	assert.Equal(t, 28, schedule.TotalCredits(), "rejected add leaves the schedule untouched")
}

func TestAddTimeConflict(t *testing.T) {
	engine := NewEngine(32, nil)
	schedule := models.NewSchedule()
	state := models.NewCompletionState()

	placed := subject("GCC100", 4, models.Prerequisites{}, weekdaySection("01A", models.Monday, 8, 10))
	_, rej := engine.Add(schedule, placed, placed.Sections[0], state)
	require.Nil(t, rej)

	overlapping := subject("GCC200", 4, models.Prerequisites{}, weekdaySection("02A", models.Monday, 9, 11))
	_, rej = engine.Add(schedule, overlapping, overlapping.Sections[0], state)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonTimeConflict, rej.Reason)
	assert.Equal(t, "Disciplina GCC100", rej.ConflictingSubject)

	adjacent := subject("GCC300", 4, models.Prerequisites{}, weekdaySection("03A", models.Monday, 10, 12))
	entry, rej := engine.Add(schedule, adjacent, adjacent.Sections[0], state)
	require.Nil(t, rej, "back-to-back blocks do not collide")
	assert.Equal(t, "GCC300", entry.SubjectCode)
}

func TestCheckConflictOnEmptySchedule(t *testing.T) {
	result := CheckConflict(weekdaySection("01A", models.Monday, 8, 10), models.NewSchedule())
	assert.False(t, result.Conflict)
}

func TestANPPoolAllocation(t *testing.T) {
	engine := NewEngine(64, nil)
	schedule := models.NewSchedule()
	state := models.NewCompletionState()

	for i := 1; i <= ANPSlotCount; i++ {
		subj := subject(fmt.Sprintf("GAN%03d", i), 2, models.Prerequisites{}, saturdaySection("10A"))
		entry, rej := engine.Add(schedule, subj, subj.Sections[0], state)
		require.Nil(t, rej, "slot %d should be free", i)
		assert.Equal(t, i, entry.ANPSlot, "slots are handed out in ascending order")
		require.Len(t, entry.TimeSlots, 1)
		assert.Equal(t, models.Saturday, entry.TimeSlots[0].Weekday)
		assert.Equal(t, ANPBaseHour+(i-1), entry.TimeSlots[0].StartHour, "declared hours are replaced by the pool mapping")
		assert.Equal(t, ANPBaseHour+i, entry.TimeSlots[0].EndHour)
	}

	extra := subject("GAN999", 2, models.Prerequisites{}, saturdaySection("10A"))
	entry, rej := engine.Add(schedule, extra, extra.Sections[0], state)
	require.Nil(t, entry)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNoANPSlot, rej.Reason)
	assert.Len(t, schedule.Entries, ANPSlotCount, "pool exhaustion leaves the schedule unchanged")
}

func TestANPEntryConflictsThroughPoolRangeNotDeclaredHours(t *testing.T) {
	engine := NewEngine(64, nil)
	schedule := models.NewSchedule()
	state := models.NewCompletionState()

	anp := subject("GAN001", 2, models.Prerequisites{}, models.Section{
		ID: "10A",
		TimeSlots: []models.TimeSlot{
			{Weekday: models.Saturday, StartHour: 14, EndHour: 16},
		},
	})
	entry, rej := engine.Add(schedule, anp, anp.Sections[0], state)
	require.Nil(t, rej)
	require.Equal(t, 1, entry.ANPSlot)

	// Mixed-day sections keep their declared hours and are checked
	// against the occupied pool range, Saturday 9-10.
	hitsPool := subject("GCC110", 4, models.Prerequisites{}, models.Section{
		ID: "01A",
		TimeSlots: []models.TimeSlot{
			{Weekday: models.Monday, StartHour: 8, EndHour: 10},
			{Weekday: models.Saturday, StartHour: 9, EndHour: 10},
		},
	})
	entry, rej = engine.Add(schedule, hitsPool, hitsPool.Sections[0], state)
	require.Nil(t, entry)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonTimeConflict, rej.Reason)
	assert.Equal(t, "Disciplina GAN001", rej.ConflictingSubject)

	hitsDeclared := subject("GCC120", 4, models.Prerequisites{}, models.Section{
		ID: "01A",
		TimeSlots: []models.TimeSlot{
			{Weekday: models.Monday, StartHour: 10, EndHour: 12},
			{Weekday: models.Saturday, StartHour: 14, EndHour: 16},
		},
	})
	entry, rej = engine.Add(schedule, hitsDeclared, hitsDeclared.Sections[0], state)
	require.Nil(t, rej, "declared hours of a pooled entry are not compared")
	require.NotNil(t, entry)
}

func TestANPSlotReleasedByRemoval(t *testing.T) {
	engine := NewEngine(64, nil)
	schedule := models.NewSchedule()
	state := models.NewCompletionState()

	first := subject("GAN001", 2, models.Prerequisites{}, saturdaySection("10A"))
	second := subject("GAN002", 2, models.Prerequisites{}, saturdaySection("10A"))
	_, rej := engine.Add(schedule, first, first.Sections[0], state)
	require.Nil(t, rej)
	_, rej = engine.Add(schedule, second, second.Sections[0], state)
	require.Nil(t, rej)

	engine.Remove(schedule, "GAN001")

	third := subject("GAN003", 2, models.Prerequisites{}, saturdaySection("10A"))
	entry, rej := engine.Add(schedule, third, third.Sections[0], state)
	require.Nil(t, rej)
	assert.Equal(t, 1, entry.ANPSlot, "the lowest freed slot is reused first")
}

func TestRemoveIsIdempotent(t *testing.T) {
	engine := NewEngine(32, nil)
	schedule := models.NewSchedule()

	removed := engine.Remove(schedule, "GCC100")
	require.NotNil(t, removed, "no-op removal still yields a list, not null")
	assert.Empty(t, removed)
	assert.Empty(t, schedule.Entries)
}

func TestRemoveCascadesThroughCoreqLinks(t *testing.T) {
	engine := NewEngine(32, nil)
	schedule := models.NewSchedule()
	state := models.NewCompletionState()

	base := subject("GCC100", 4, models.Prerequisites{}, weekdaySection("01A", models.Monday, 8, 10))
	dependent := subject("GCC101", 4,
		models.Prerequisites{Coreq: []string{"GCC100"}},
		weekdaySection("01A", models.Tuesday, 8, 10),
	)
	chained := subject("GCC102", 4,
		models.Prerequisites{Coreq: []string{"GCC101"}},
		weekdaySection("01A", models.Wednesday, 8, 10),
	)
	unrelated := subject("GEX201", 4, models.Prerequisites{}, weekdaySection("01A", models.Thursday, 8, 10))

	for _, s := range []models.Subject{base, dependent, chained, unrelated} {
		_, rej := engine.Add(schedule, s, s.Sections[0], state)
		require.Nil(t, rej)
	}

	removed := engine.Remove(schedule, "GCC100")
	assert.Equal(t, []string{"GCC100", "GCC101", "GCC102"}, removed, "cascade reaches chained dependents")
	assert.True(t, schedule.Has("GEX201"))
	assert.Len(t, schedule.Entries, 1)
}

func TestRemoveDependentLeavesBase(t *testing.T) {
	engine := NewEngine(32, nil)
	schedule := models.NewSchedule()
	state := models.NewCompletionState()

	base := subject("GCC100", 4, models.Prerequisites{}, weekdaySection("01A", models.Monday, 8, 10))
	dependent := subject("GCC101", 4,
		models.Prerequisites{Coreq: []string{"GCC100"}},
		weekdaySection("01A", models.Tuesday, 8, 10),
	)
	for _, s := range []models.Subject{base, dependent} {
		_, rej := engine.Add(schedule, s, s.Sections[0], state)
		require.Nil(t, rej)
	}

	removed := engine.Remove(schedule, "GCC101")
	assert.Equal(t, []string{"GCC101"}, removed, "removal only cascades toward dependents")
	assert.True(t, schedule.Has("GCC100"))
}

func TestCoreqPairLifecycle(t *testing.T) {
	engine := NewEngine(32, nil)
	schedule := models.NewSchedule()
	state := models.NewCompletionState()

	lab := subject("GAC125", 2,
		models.Prerequisites{Coreq: []string{"GAC124"}},
		weekdaySection("01A", models.Tuesday, 14, 16),
	)
	lecture := subject("GAC124", 4, models.Prerequisites{}, weekdaySection("01A", models.Monday, 8, 10))

	_, rej := engine.Add(schedule, lab, lab.Sections[0], state)
	require.NotNil(t, rej, "lab without its lecture is refused")
	assert.Equal(t, ReasonMissingCoreq, rej.Reason)
	assert.Equal(t, []string{"GAC124"}, rej.MissingCodes)

	_, rej = engine.Add(schedule, lecture, lecture.Sections[0], state)
	require.Nil(t, rej)
	_, rej = engine.Add(schedule, lab, lab.Sections[0], state)
	require.Nil(t, rej, "scheduled lecture satisfies the coreq")

	removed := engine.Remove(schedule, "GAC124")
	assert.Equal(t, []string{"GAC124", "GAC125"}, removed)
	assert.Empty(t, schedule.Entries)
}
