package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ktuplanner/timetable-engine/internal/dto"
	"github.com/ktuplanner/timetable-engine/internal/service"
	appErrors "github.com/ktuplanner/timetable-engine/pkg/errors"
	"github.com/ktuplanner/timetable-engine/pkg/response"
)

type generator interface {
	GenerateDepartment(ctx context.Context, departmentKey string, req dto.GenerateDepartmentRequest) (*dto.GenerationReport, error)
	GenerateSemester(ctx context.Context, departmentKeys []string, req dto.GenerateSemesterRequest) (*dto.GenerateSemesterResponse, error)
}

// GenerationHandler exposes the timetable generation endpoints.
type GenerationHandler struct {
	service generator
}

// NewGenerationHandler constructs the handler.
func NewGenerationHandler(svc *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: svc}
}

// GenerateDepartment godoc
// @Summary Generate a department's timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param key path string true "Department key"
// @Param payload body dto.GenerateDepartmentRequest false "Generation options"
// @Success 200 {object} response.Envelope
// @Router /departments/{key}/timetable/generate [post]
func (h *GenerationHandler) GenerateDepartment(c *gin.Context) {
	var req dto.GenerateDepartmentRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation request"))
			return
		}
	}
	if term := c.Query("term"); term != "" {
		req.TermInstance = term
	}

	report, err := h.service.GenerateDepartment(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// GenerateSemester godoc
// @Summary Generate timetables for the listed departments in a semester parity
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateSemesterRequest true "Generation options"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate-semester [post]
func (h *GenerationHandler) GenerateSemester(c *gin.Context) {
	var req dto.GenerateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation request"))
		return
	}

	departmentKeys := c.QueryArray("department")
	if len(departmentKeys) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "at least one department query parameter is required"))
		return
	}

	result, err := h.service.GenerateSemester(c.Request.Context(), departmentKeys, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
