package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradeufla/planner-api/internal/dto"
	"github.com/gradeufla/planner-api/internal/service"
	appErrors "github.com/gradeufla/planner-api/pkg/errors"
	"github.com/gradeufla/planner-api/pkg/response"
)

// SessionHandler exposes planning session endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler builds a new handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create godoc
// @Summary Open a planning session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Session parameters"
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	session, err := h.sessions.Create(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Get godoc
// @Summary Get a session snapshot
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// SetCompleted godoc
// @Summary Replace the completed-subject set
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body dto.SetCompletedRequest true "Completed subject codes"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/completed [put]
func (h *SessionHandler) SetCompleted(c *gin.Context) {
	var req dto.SetCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completed payload"))
		return
	}
	session, err := h.sessions.SetCompleted(c.Param("id"), req.Codes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// ToggleCompleted godoc
// @Summary Toggle one completed subject, cascading unmarks
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Param code path string true "Subject code"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/completed/{code}/toggle [post]
func (h *SessionHandler) ToggleCompleted(c *gin.Context) {
	result, err := h.sessions.ToggleCompleted(c.Request.Context(), c.Param("id"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ConfirmMinimum godoc
// @Summary Confirm a minimum-severity prerequisite
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body dto.ConfirmMinimumRequest true "Code to confirm"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/confirmations [post]
func (h *SessionHandler) ConfirmMinimum(c *gin.Context) {
	var req dto.ConfirmMinimumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid confirmation payload"))
		return
	}
	session, err := h.sessions.ConfirmMinimum(c.Param("id"), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Evaluate godoc
// @Summary Preview the prerequisite gate for a subject
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body dto.EvaluateRequest true "Subject to evaluate"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/evaluate [post]
func (h *SessionHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid evaluate payload"))
		return
	}
	result, err := h.sessions.Evaluate(c.Request.Context(), c.Param("id"), req.SubjectCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ConflictCheck godoc
// @Summary Preview whether a section fits the schedule
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body dto.ConflictCheckRequest true "Section to check"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/conflict-check [post]
func (h *SessionHandler) ConflictCheck(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conflict payload"))
		return
	}
	result, err := h.sessions.ConflictCheck(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ANPSlot godoc
// @Summary Preview the next free Saturday pool slot
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/anp-slot [get]
func (h *SessionHandler) ANPSlot(c *gin.Context) {
	result, err := h.sessions.ANPSlot(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AddEntry godoc
// @Summary Add a subject section to the schedule
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body dto.AddEntryRequest true "Subject and section"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/entries [post]
func (h *SessionHandler) AddEntry(c *gin.Context) {
	var req dto.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid add payload"))
		return
	}
	result, err := h.sessions.AddEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// RemoveEntry godoc
// @Summary Remove a subject from the schedule, cascading co-requisites
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Param code path string true "Subject code"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/entries/{code} [delete]
func (h *SessionHandler) RemoveEntry(c *gin.Context) {
	result, err := h.sessions.RemoveEntry(c.Param("id"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Availability godoc
// @Summary List subjects available to plan next
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/available [get]
func (h *SessionHandler) Availability(c *gin.Context) {
	result, err := h.sessions.Availability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
