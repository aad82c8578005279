package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-timetable-grid/internal/dto"
	"github.com/noah-isme/sma-timetable-grid/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-grid/pkg/errors"
	"github.com/noah-isme/sma-timetable-grid/pkg/response"
)

type exportService interface {
	Render(ctx context.Context, cycle, format string) (*service.RenderedExport, error)
	ExportAll(ctx context.Context, req dto.BatchExportRequest) (*dto.BatchExportResponse, error)
}

// ExportHandler serves file downloads and batch exports.
type ExportHandler struct {
	exports  exportService
	validate *validator.Validate
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports exportService, validate *validator.Validate) *ExportHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &ExportHandler{exports: exports, validate: validate}
}

// Download godoc
// @Summary Download a cycle timetable
// @Tags Exports
// @Produce application/pdf
// @Produce text/csv
// @Param cycle path string true "Cycle"
// @Param format query string true "pdf, xlsx or csv"
// @Success 200 {file} file
// @Router /cycles/{cycle}/export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query"))
		return
	}
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be pdf, xlsx or csv"))
		return
	}

	rendered, err := h.exports.Render(c.Request.Context(), c.Param("cycle"), req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, rendered.FileName, rendered.ContentType, rendered.Data)
}

// ExportAll godoc
// @Summary Write exports for several cycles
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.BatchExportRequest true "Cycles and formats"
// @Success 200 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) ExportAll(c *gin.Context) {
	var req dto.BatchExportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
			return
		}
	}
	for i, format := range req.Formats {
		req.Formats[i] = strings.ToLower(strings.TrimSpace(format))
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.exports.ExportAll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"written": len(result.Files),
		"failed":  len(result.Failed),
	})
}
