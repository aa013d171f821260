package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradeufla/planner-api/internal/service"
	"github.com/gradeufla/planner-api/pkg/response"
)

// ExportHandler serves schedule downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ICS godoc
// @Summary Download the schedule as an iCalendar feed
// @Tags Exports
// @Produce text/calendar
// @Param id path string true "Session id"
// @Success 200 {file} file
// @Router /sessions/{id}/export/ics [get]
func (h *ExportHandler) ICS(c *gin.Context) {
	payload, filename, err := h.exports.ICS(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveAttachment(c, payload, filename, "text/calendar")
}

// PDF godoc
// @Summary Download the schedule as a weekly timetable PDF
// @Tags Exports
// @Produce application/pdf
// @Param id path string true "Session id"
// @Success 200 {file} file
// @Router /sessions/{id}/export/pdf [get]
func (h *ExportHandler) PDF(c *gin.Context) {
	payload, filename, err := h.exports.PDF(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveAttachment(c, payload, filename, "application/pdf")
}

// CSV godoc
// @Summary Download the schedule summary as CSV
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Session id"
// @Success 200 {file} file
// @Router /sessions/{id}/export/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	payload, filename, err := h.exports.CSV(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveAttachment(c, payload, filename, "text/csv")
}

// Share godoc
// @Summary Create a signed download link for a rendered export
// @Tags Exports
// @Produce json
// @Param id path string true "Session id"
// @Param format path string true "Export format" Enums(ics, pdf, csv)
// @Success 201 {object} response.Envelope{data=dto.ShareExportResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id}/export/{format}/share [post]
func (h *ExportHandler) Share(c *gin.Context) {
	resp, err := h.exports.Share(c.Param("id"), c.Param("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Download godoc
// @Summary Download a shared export by signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /downloads/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	payload, filename, contentType, err := h.exports.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveAttachment(c, payload, filename, contentType)
}

func serveAttachment(c *gin.Context, payload []byte, filename, contentType string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
