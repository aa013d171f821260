package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gradeufla/planner-api/internal/catalog"
	"github.com/gradeufla/planner-api/internal/models"
	"github.com/gradeufla/planner-api/internal/service"
)

type stubSubjectRepo struct {
	subjects []models.Subject
}

func (r *stubSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	return r.subjects, len(r.subjects), nil
}

func (r *stubSubjectRepo) ListAll(ctx context.Context) ([]models.Subject, error) {
	return r.subjects, nil
}

func (r *stubSubjectRepo) FindByCode(ctx context.Context, code string) (*models.Subject, error) {
	for _, subject := range r.subjects {
		if subject.Code == code {
			copied := subject
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubSubjectRepo) ReplaceAll(ctx context.Context, subjects []models.Subject) error {
	r.subjects = subjects
	return nil
}

func (r *stubSubjectRepo) Count(ctx context.Context) (int, error) {
	return len(r.subjects), nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubSubjectRepo{subjects: []models.Subject{
		{
			Code: "GCC100", Name: "Algoritmos", Credits: 4,
			Kind: models.SubjectRequired, TermIndex: 1,
			Sections: []models.Section{{ID: "01A", TimeSlots: []models.TimeSlot{
				{Weekday: models.Monday, StartHour: 8, EndHour: 10},
			}}},
		},
		{
			Code: "GCC200", Name: "Estruturas de Dados", Credits: 4,
			Kind: models.SubjectRequired, TermIndex: 2,
			Prerequisites: models.Prerequisites{Strong: []string{"GCC100"}},
			Sections: []models.Section{{ID: "02A", TimeSlots: []models.TimeSlot{
				{Weekday: models.Monday, StartHour: 10, EndHour: 12},
			}}},
		},
	}}

	cacheSvc := service.NewCacheService(nil, nil, 0, nil, false)
	catalogSvc := service.NewCatalogService(repo, catalog.NewImporter(100, nil), cacheSvc, nil, time.Minute, zap.NewNop())
	sessionSvc := service.NewSessionService(catalogSvc, nil, nil, 32, time.Hour, zap.NewNop())

	sessionHandler := NewSessionHandler(sessionSvc)
	r := gin.New()
	sessions := r.Group("/api/v1/sessions")
	sessions.POST("", sessionHandler.Create)
	sessions.GET("/:id", sessionHandler.Get)
	sessions.POST("/:id/entries", sessionHandler.AddEntry)
	sessions.DELETE("/:id/entries/:code", sessionHandler.RemoveEntry)
	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, url string, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func TestSessionFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/sessions", `{"termIndex":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := envelope["data"].(map[string]interface{})
	sessionID := created["id"].(string)
	require.NotEmpty(t, sessionID)

	w, envelope = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/entries",
		`{"subjectCode":"GCC100","sectionId":"01A"}`)
	require.Equal(t, http.StatusOK, w.Code)
	added := envelope["data"].(map[string]interface{})
	require.Equal(t, true, added["ok"])
	require.EqualValues(t, 4, added["totalCredits"])

	w, envelope = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+sessionID, "")
	require.Equal(t, http.StatusOK, w.Code)
	snapshot := envelope["data"].(map[string]interface{})
	require.Len(t, snapshot["entries"], 1)

	w, envelope = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/"+sessionID+"/entries/GCC100", "")
	require.Equal(t, http.StatusOK, w.Code)
	removed := envelope["data"].(map[string]interface{})
	require.Equal(t, []interface{}{"GCC100"}, removed["removedCodes"])
}

func TestAddEntryRejectionIsAnOKResponse(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/api/v1/sessions", `{"termIndex":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID := envelope["data"].(map[string]interface{})["id"].(string)

	w, envelope = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+sessionID+"/entries",
		`{"subjectCode":"GCC200","sectionId":"02A"}`)
	require.Equal(t, http.StatusOK, w.Code)
	result := envelope["data"].(map[string]interface{})
	require.Equal(t, false, result["ok"])
	rejection := result["rejection"].(map[string]interface{})
	require.Equal(t, "MISSING_STRONG_PREREQUISITE", rejection["reason"])
}

func TestSessionEndpointsValidateInput(t *testing.T) {
	router := newTestRouter(t)

	w, envelope := doJSON(t, router, http.MethodGet, "/api/v1/sessions/unknown", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, envelope["error"])

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/sessions", `{"termIndex":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
