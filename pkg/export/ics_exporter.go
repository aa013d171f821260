package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event is one weekly recurring calendar entry.
type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// ICSExporter renders weekly recurring events as an iCalendar document.
type ICSExporter struct {
	weeks int
}

// NewICSExporter builds an exporter repeating each event for the given
// number of weeks.
func NewICSExporter(weeks int) *ICSExporter {
	if weeks <= 0 {
		weeks = 16
	}
	return &ICSExporter{weeks: weeks}
}

// Render serializes the events. Each one recurs weekly starting from its
// Start instant.
func (e *ICSExporter) Render(calendarName string, events []Event) ([]byte, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("ics requires at least one event")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//grade-planner//planner-api//PT-BR")
	if calendarName != "" {
		cal.SetXWRCalName(calendarName)
	}

	for _, event := range events {
		if event.UID == "" || !event.End.After(event.Start) {
			return nil, fmt.Errorf("event %q has no uid or an empty time range", event.Summary)
		}
		ve := cal.AddEvent(event.UID)
		ve.SetCreatedTime(time.Now().UTC())
		ve.SetDtStampTime(time.Now().UTC())
		ve.SetStartAt(event.Start)
		ve.SetEndAt(event.End)
		ve.SetSummary(event.Summary)
		if event.Description != "" {
			ve.SetDescription(event.Description)
		}
		ve.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", e.weeks))
	}

	return []byte(cal.Serialize()), nil
}
