package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gradeufla/planner-api/internal/dto"
	appErrors "github.com/gradeufla/planner-api/pkg/errors"
	"github.com/gradeufla/planner-api/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, string) {
	sessions := newSessionServiceForTest(&mockSubjectRepo{subjects: testCatalog()}, time.Hour)
	session, err := sessions.Create(dto.CreateSessionRequest{TermIndex: 1})
	require.NoError(t, err)

	result, err := sessions.AddEntry(context.Background(), session.ID,
		dto.AddEntryRequest{SubjectCode: "GCC100", SectionID: "01A"})
	require.NoError(t, err)
	require.True(t, result.OK)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	return NewExportService(sessions, store, signer, 16, "America/Sao_Paulo", zap.NewNop()), session.ID
}

func TestExportICS(t *testing.T) {
	svc, sessionID := newExportServiceForTest(t)

	payload, filename, err := svc.ICS(sessionID)
	require.NoError(t, err)
	assert.Equal(t, "grade.ics", filename)

	body := string(payload)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "GCC100")
	assert.Contains(t, body, "FREQ=WEEKLY;COUNT=16")
}

func TestExportPDF(t *testing.T) {
	svc, sessionID := newExportServiceForTest(t)

	payload, filename, err := svc.PDF(sessionID)
	require.NoError(t, err)
	assert.Equal(t, "grade.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportCSV(t *testing.T) {
	svc, sessionID := newExportServiceForTest(t)

	payload, filename, err := svc.CSV(sessionID)
	require.NoError(t, err)
	assert.Equal(t, "grade.csv", filename)

	body := string(payload)
	assert.Contains(t, body, "codigo,nome,creditos,turma,horarios,anp")
	assert.Contains(t, body, "GCC100")
}

func TestExportEmptyScheduleFailsPrecondition(t *testing.T) {
	sessions := newSessionServiceForTest(&mockSubjectRepo{subjects: testCatalog()}, time.Hour)
	session, err := sessions.Create(dto.CreateSessionRequest{})
	require.NoError(t, err)
	svc := NewExportService(sessions, nil, nil, 16, "America/Sao_Paulo", zap.NewNop())

	_, _, err = svc.ICS(session.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestShareAndDownloadRoundTrip(t *testing.T) {
	svc, sessionID := newExportServiceForTest(t)

	shared, err := svc.Share(sessionID, "csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", shared.Format)
	assert.True(t, strings.HasPrefix(shared.DownloadPath, "/downloads/"))
	assert.True(t, shared.ExpiresAt.After(time.Now()))

	token := strings.TrimPrefix(shared.DownloadPath, "/downloads/")
	payload, filename, contentType, err := svc.Download(token)
	require.NoError(t, err)
	assert.Equal(t, "grade.csv", filename)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(payload), "GCC100")
}

func TestShareRejectsUnknownFormat(t *testing.T) {
	svc, sessionID := newExportServiceForTest(t)

	_, err := svc.Share(sessionID, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDownloadRejectsBogusToken(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, _, _, err := svc.Download("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
