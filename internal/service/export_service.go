package service

import (
	"fmt"
	"path"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/gradeufla/planner-api/internal/dto"
	"github.com/gradeufla/planner-api/internal/models"
	appErrors "github.com/gradeufla/planner-api/pkg/errors"
	"github.com/gradeufla/planner-api/pkg/export"
	"github.com/gradeufla/planner-api/pkg/storage"
)

// ExportService renders a session's schedule as an iCalendar feed, a
// weekly timetable PDF, or a plain CSV summary. It can also persist a
// rendered export and hand out a signed download link for sharing.
type ExportService struct {
	sessions *SessionService
	ics      *export.ICSExporter
	pdf      *export.PDFExporter
	csv      *export.CSVExporter
	store    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	location *time.Location
	logger   *zap.Logger
}

// NewExportService constructs the export service. timezone names an IANA
// location; an unknown name falls back to UTC with a warning. store and
// signer may be nil, which disables sharing.
func NewExportService(sessions *SessionService, store *storage.LocalStorage, signer *storage.SignedURLSigner, weeks int, timezone string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("unknown export timezone, using UTC", zap.String("timezone", timezone))
		location = time.UTC
	}
	return &ExportService{
		sessions: sessions,
		ics:      export.NewICSExporter(weeks),
		pdf:      export.NewPDFExporter(),
		csv:      export.NewCSVExporter(),
		store:    store,
		signer:   signer,
		location: location,
		logger:   logger,
	}
}

// ICS renders the schedule as weekly recurring calendar events. Entries
// with unparseable hours are skipped rather than exported broken.
func (s *ExportService) ICS(sessionID string) ([]byte, string, error) {
	entries, err := s.sessions.Entries(sessionID)
	if err != nil {
		return nil, "", err
	}

	var events []export.Event
	for _, entry := range entries {
		for i, slot := range entry.TimeSlots {
			if !slot.Valid() {
				continue
			}
			start := s.firstOccurrence(slot)
			events = append(events, export.Event{
				UID:         fmt.Sprintf("%s-%d@grade-planner", entry.SubjectCode, i),
				Summary:     fmt.Sprintf("%s (%s)", entry.SubjectName, entry.SubjectCode),
				Description: fmt.Sprintf("Turma %s", entry.SectionID),
				Start:       start,
				End:         start.Add(time.Duration(slot.EndHour-slot.StartHour) * time.Hour),
			})
		}
	}
	if len(events) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "schedule has no exportable entries")
	}

	payload, err := s.ics.Render("Grade semanal", events)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
	}
	return payload, "grade.ics", nil
}

// firstOccurrence finds the next date falling on the slot's weekday, at
// its start hour, in the configured location.
func (s *ExportService) firstOccurrence(slot models.TimeSlot) time.Time {
	now := time.Now().In(s.location)
	day := time.Date(now.Year(), now.Month(), now.Day(), slot.StartHour, 0, 0, 0, s.location)
	for int(day.Weekday()) != slot.Weekday || day.Before(now) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// PDF renders the weekly timetable grid.
func (s *ExportService) PDF(sessionID string) ([]byte, string, error) {
	entries, err := s.sessions.Entries(sessionID)
	if err != nil {
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "schedule has no exportable entries")
	}

	columns := make([]string, 0, 7)
	for day := models.Sunday; day <= models.Saturday; day++ {
		columns = append(columns, models.WeekdayName(day))
	}

	grid := export.Grid{
		Title:    "Grade semanal",
		Columns:  columns,
		FirstRow: models.DayWindowStart,
		LastRow:  models.DayWindowEnd,
		RowLabel: func(row int) string { return fmt.Sprintf("%02d:00", row) },
	}
	for _, entry := range entries {
		for _, slot := range entry.TimeSlots {
			if !slot.Valid() {
				continue
			}
			grid.Cells = append(grid.Cells, export.GridCell{
				Column:   slot.Weekday,
				StartRow: slot.StartHour,
				EndRow:   slot.EndHour,
				Title:    entry.SubjectCode,
				Subtitle: entry.SubjectName,
			})
		}
	}

	payload, err := s.pdf.RenderGrid(grid)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	return payload, "grade.pdf", nil
}

// CSV renders a flat schedule summary.
func (s *ExportService) CSV(sessionID string) ([]byte, string, error) {
	entries, err := s.sessions.Entries(sessionID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"codigo", "nome", "creditos", "turma", "horarios", "anp"},
	}
	for _, entry := range entries {
		horarios := ""
		for i, slot := range entry.TimeSlots {
			if i > 0 {
				horarios += " "
			}
			horarios += fmt.Sprintf("%s %02d-%02d", models.WeekdayName(slot.Weekday), slot.StartHour, slot.EndHour)
		}
		anp := ""
		if entry.ANPSlot > 0 {
			anp = strconv.Itoa(entry.ANPSlot)
		}
		data.Rows = append(data.Rows, map[string]string{
			"codigo":   entry.SubjectCode,
			"nome":     entry.SubjectName,
			"creditos": strconv.Itoa(entry.Credits),
			"turma":    entry.SectionID,
			"horarios": horarios,
			"anp":      anp,
		})
	}

	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, "grade.csv", nil
}

// Share renders the requested format, stores the file, and returns a
// signed download link.
func (s *ExportService) Share(sessionID, format string) (*dto.ShareExportResponse, error) {
	if s.store == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "export sharing is not configured")
	}

	payload, filename, err := s.render(sessionID, format)
	if err != nil {
		return nil, err
	}

	relPath := sessionID + "/" + filename
	if _, err := s.store.Save(relPath, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(sessionID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	s.logger.Info("export shared",
		zap.String("session_id", sessionID),
		zap.String("format", format),
		zap.Time("expires_at", expiresAt),
	)
	return &dto.ShareExportResponse{
		Format:       format,
		DownloadPath: "/downloads/" + token,
		ExpiresAt:    expiresAt,
	}, nil
}

// Download resolves a signed token back to the stored file.
func (s *ExportService) Download(token string) ([]byte, string, string, error) {
	if s.store == nil || s.signer == nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrPreconditionFailed, "export sharing is not configured")
	}

	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "download link is invalid or expired")
	}
	payload, err := s.store.Read(relPath)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file no longer available")
	}

	filename := path.Base(relPath)
	return payload, filename, contentTypeFor(filename), nil
}

// CleanupStored removes shared export files older than ttl.
func (s *ExportService) CleanupStored(ttl time.Duration) error {
	if s.store == nil {
		return nil
	}
	deleted, err := s.store.CleanupOlderThan(ttl)
	if err != nil {
		return err
	}
	if len(deleted) > 0 {
		s.logger.Info("stale shared exports removed", zap.Int("count", len(deleted)))
	}
	return nil
}

func (s *ExportService) render(sessionID, format string) ([]byte, string, error) {
	switch format {
	case "ics":
		return s.ICS(sessionID)
	case "pdf":
		return s.PDF(sessionID)
	case "csv":
		return s.CSV(sessionID)
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func contentTypeFor(filename string) string {
	switch path.Ext(filename) {
	case ".ics":
		return "text/calendar"
	case ".pdf":
		return "application/pdf"
	default:
		return "text/csv"
	}
}
