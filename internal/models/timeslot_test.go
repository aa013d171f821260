package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWeekday(t *testing.T) {
	for n := Sunday; n <= Saturday; n++ {
		assert.Equal(t, n, NormalizeWeekday(n), "values already in 0..6 stay put")
		assert.Equal(t, NormalizeWeekday(n), NormalizeWeekday(NormalizeWeekday(n)), "idempotent")
	}
	assert.Equal(t, Saturday, NormalizeWeekday(7))
	assert.Equal(t, 12, NormalizeWeekday(12), "out-of-range values pass through for validation")
	assert.Equal(t, -3, NormalizeWeekday(-3))
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"0", Sunday, true},
		{"6", Saturday, true},
		{"7", Saturday, true},
		{"Seg", Monday, true},
		{"segunda", Monday, true},
		{"sáb", Saturday, true},
		{"Sabado", Saturday, true},
		{"SAB", Saturday, true},
		{"Qua", Wednesday, true},
		{"", 0, false},
		{"8", 0, false},
		{"-1", 0, false},
		{"xyz", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseWeekday(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		if tt.ok {
			assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
		}
	}
}

func TestParseHour(t *testing.T) {
	assert.Equal(t, 8, ParseHour("8"))
	assert.Equal(t, 8, ParseHour("08:00"))
	assert.Equal(t, 13, ParseHour("13:50"))
	assert.Equal(t, HourNone, ParseHour(""))
	assert.Equal(t, HourNone, ParseHour("abc"))
	assert.Equal(t, HourNone, ParseHour("-2"))
}

func TestTimeSlotOverlaps(t *testing.T) {
	mon810 := TimeSlot{Weekday: Monday, StartHour: 8, EndHour: 10}

	assert.True(t, mon810.Overlaps(TimeSlot{Weekday: Monday, StartHour: 9, EndHour: 11}))
	assert.False(t, mon810.Overlaps(TimeSlot{Weekday: Monday, StartHour: 10, EndHour: 12}), "end hour is exclusive")
	assert.False(t, mon810.Overlaps(TimeSlot{Weekday: Tuesday, StartHour: 8, EndHour: 10}))

	broken := TimeSlot{Weekday: Monday, StartHour: HourNone, EndHour: 10}
	assert.False(t, broken.Overlaps(mon810), "unparseable hours never collide")
	assert.False(t, mon810.Overlaps(broken))
}

func TestSectionSaturdayOnly(t *testing.T) {
	assert.True(t, Section{ID: "10A", TimeSlots: []TimeSlot{
		{Weekday: Saturday, StartHour: 8, EndHour: 10},
		{Weekday: Saturday, StartHour: 10, EndHour: 12},
	}}.SaturdayOnly())

	assert.False(t, Section{ID: "10A", TimeSlots: []TimeSlot{
		{Weekday: Saturday, StartHour: 8, EndHour: 10},
		{Weekday: Monday, StartHour: 8, EndHour: 10},
	}}.SaturdayOnly())

	assert.False(t, Section{ID: "10A"}.SaturdayOnly(), "no declared slots means a regular section")
}

func TestPrerequisitesDisjoint(t *testing.T) {
	assert.True(t, Prerequisites{Strong: []string{"A"}, Minimum: []string{"B"}, Coreq: []string{"C"}}.Disjoint())
	assert.False(t, Prerequisites{Strong: []string{"A"}, Minimum: []string{"A"}}.Disjoint())
	assert.True(t, Prerequisites{}.Disjoint())
}
