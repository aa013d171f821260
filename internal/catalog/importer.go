package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gradeufla/planner-api/internal/models"
	"github.com/gradeufla/planner-api/pkg/errors"
)

// Importer parses the CSV subject interchange format. An import is all or
// nothing: any invalid row rejects the batch and the per-row findings come
// back in the report.
type Importer struct {
	maxRows int
	logger  *zap.Logger
}

// NewImporter builds an importer capped at maxRows data rows.
func NewImporter(maxRows int, logger *zap.Logger) *Importer {
	if maxRows <= 0 {
		maxRows = 2000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{maxRows: maxRows, logger: logger}
}

// RowError pinpoints one rejected CSV row.
type RowError struct {
	Line    int    `json:"line"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Report summarizes an import attempt.
type Report struct {
	Rows     int        `json:"rows"`
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors,omitempty"`
}

// Column aliases accepted in the CSV header. The catalog source ships in
// Portuguese; English headers work too.
var headerAliases = map[string]string{
	"code": "code", "codigo": "code",
	"name": "name", "nome": "name",
	"credits": "credits", "creditos": "credits",
	"kind": "kind", "tipo": "kind",
	"term": "term", "semestre": "term", "semester": "term",
	"subgroup": "subgroup", "subgrupo": "subgroup",
	"prerequisites": "prerequisites", "prerequisitos": "prerequisites",
	"pre_requisitos": "prerequisites", "prereqs": "prerequisites",
	"sections": "sections", "turmas": "sections",
}

// Import reads the whole CSV stream and returns the normalized subjects.
// On rejection the subjects slice is nil, the report lists every row
// finding, and err carries the IMPORT_REJECTED code.
func (i *Importer) Import(r io.Reader) ([]models.Subject, *Report, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, "unreadable CSV header")
	}
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := headerAliases[key]; ok {
			columns[canonical] = idx
		}
	}
	if _, ok := columns["code"]; !ok {
		return nil, nil, errors.Clone(errors.ErrValidation, "CSV header is missing the subject code column")
	}

	report := &Report{}
	subjects := make([]models.Subject, 0, 64)
	seen := make(map[string]int)
	now := time.Now().UTC()

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Errors = append(report.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}
		report.Rows++
		if report.Rows > i.maxRows {
			return nil, report, errors.Clone(errors.ErrValidation,
				fmt.Sprintf("import exceeds the %d row limit", i.maxRows))
		}

		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		subject, rowErrs := i.parseRow(line, cell)
		if prev, dup := seen[subject.Code]; dup && subject.Code != "" {
			rowErrs = append(rowErrs, RowError{
				Line: line, Code: subject.Code,
				Message: fmt.Sprintf("duplicate of line %d", prev),
			})
		}
		if len(rowErrs) > 0 {
			report.Errors = append(report.Errors, rowErrs...)
			continue
		}
		seen[subject.Code] = line
		subject.CreatedAt = now
		subject.UpdatedAt = now
		subjects = append(subjects, subject)
	}

	if len(report.Errors) > 0 {
		i.logger.Warn("catalog_import_rejected",
			zap.Int("rows", report.Rows),
			zap.Int("row_errors", len(report.Errors)),
		)
		return nil, report, errors.Clone(errors.ErrImportRejected,
			fmt.Sprintf("%d of %d rows rejected", len(report.Errors), report.Rows))
	}

	report.Imported = len(subjects)
	i.logger.Info("catalog_import_parsed", zap.Int("subjects", report.Imported))
	return subjects, report, nil
}

func (i *Importer) parseRow(line int, cell func(string) string) (models.Subject, []RowError) {
	var rowErrs []RowError
	fail := func(code, msg string) {
		rowErrs = append(rowErrs, RowError{Line: line, Code: code, Message: msg})
	}

	code := NormalizeCode(cell("code"))
	if code == "" {
		fail("", "missing subject code")
	}
	name := cell("name")
	if name == "" {
		name = code
	}

	credits := 0
	if raw := cell("credits"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(code, fmt.Sprintf("invalid credits %q", raw))
		} else {
			credits = n
		}
	}

	kind := models.SubjectRequired
	switch strings.ToLower(cell("kind")) {
	case "", "required", "obrigatoria", "obrigatória":
	case "elective", "eletiva":
		kind = models.SubjectElective
	default:
		fail(code, fmt.Sprintf("unknown kind %q", cell("kind")))
	}

	termIndex := 0
	if raw := cell("term"); raw != "" && !strings.EqualFold(raw, "indefinido") {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(code, fmt.Sprintf("invalid term %q", raw))
		} else {
			termIndex = n
		}
	}

	prereq := ParsePrerequisites(cell("prerequisites"))
	if !prereq.Disjoint() {
		fail(code, "a prerequisite code appears in more than one severity")
	}

	sections, sectionErr := parseSections(cell("sections"))
	if sectionErr != nil {
		fail(code, sectionErr.Error())
	}

	return models.Subject{
		Code:          code,
		Name:          name,
		Credits:       credits,
		Kind:          kind,
		TermIndex:     termIndex,
		Subgroup:      cell("subgroup"),
		Prerequisites: prereq,
		Sections:      sections,
	}, rowErrs
}

// flexString accepts a JSON string or number, keeping its textual form so
// the weekday and hour parsers can apply the normal rules.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type rawSlot struct {
	Weekday flexString `json:"weekday"`
	Dia     flexString `json:"dia"`
	Start   flexString `json:"start"`
	Inicio  flexString `json:"inicio"`
	End     flexString `json:"end"`
	Fim     flexString `json:"fim"`
}

type rawSection struct {
	ID       string    `json:"id"`
	Slots    []rawSlot `json:"slots"`
	Horarios []rawSlot `json:"horarios"`
}

// parseSections decodes a section cell: a JSON array with either English
// or Portuguese keys. Weekdays may be numbers in either convention or day
// names; hours may be "HH:MM" strings. Everything is normalized here.
func parseSections(raw string) ([]models.Section, error) {
	raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if raw == "" {
		return nil, nil
	}

	var rows []rawSection
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("sections cell is not a JSON array: %w", err)
	}

	sections := make([]models.Section, 0, len(rows))
	for idx, row := range rows {
		if row.ID == "" {
			return nil, fmt.Errorf("section %d has no id", idx+1)
		}
		slots := row.Slots
		if len(slots) == 0 {
			slots = row.Horarios
		}
		section := models.Section{ID: row.ID, TimeSlots: make([]models.TimeSlot, 0, len(slots))}
		for _, slot := range slots {
			dayRaw := firstNonEmpty(string(slot.Weekday), string(slot.Dia))
			weekday, ok := models.ParseWeekday(dayRaw)
			if !ok {
				return nil, fmt.Errorf("section %s has unresolvable weekday %q", row.ID, dayRaw)
			}
			section.TimeSlots = append(section.TimeSlots, models.TimeSlot{
				Weekday:   weekday,
				StartHour: models.ParseHour(firstNonEmpty(string(slot.Start), string(slot.Inicio))),
				EndHour:   models.ParseHour(firstNonEmpty(string(slot.End), string(slot.Fim))),
			})
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
