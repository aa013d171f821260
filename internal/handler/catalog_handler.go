package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradeufla/planner-api/internal/dto"
	"github.com/gradeufla/planner-api/internal/service"
	appErrors "github.com/gradeufla/planner-api/pkg/errors"
	"github.com/gradeufla/planner-api/pkg/response"
)

// catalog imports beyond this size are refused before parsing.
const maxImportBody = 8 << 20

// CatalogHandler exposes subject catalog endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary List catalog subjects
// @Tags Catalog
// @Produce json
// @Param term query int false "Curriculum term index"
// @Param kind query string false "REQUIRED or ELECTIVE"
// @Param subgroup query string false "Elective subgroup"
// @Param search query string false "Code or name fragment"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var query dto.SubjectQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject query"))
		return
	}
	subjects, pagination, err := h.catalog.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, pagination)
}

// Get godoc
// @Summary Get a subject by code
// @Tags Catalog
// @Produce json
// @Param code path string true "Subject code"
// @Success 200 {object} response.Envelope
// @Router /subjects/{code} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	subject, err := h.catalog.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Import godoc
// @Summary Import the subject catalog from CSV
// @Tags Catalog
// @Accept text/csv
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /catalog/import [post]
func (h *CatalogHandler) Import(c *gin.Context) {
	reader := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBody)
	report, err := h.catalog.Import(c.Request.Context(), reader)
	if err != nil {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, response.Envelope{
			Data:  dto.ImportResponse{Report: report},
			Error: appErr,
		})
		return
	}
	response.JSON(c, http.StatusOK, dto.ImportResponse{Report: report}, nil)
}
