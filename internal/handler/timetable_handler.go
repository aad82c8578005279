package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-grid/internal/dto"
	"github.com/noah-isme/sma-timetable-grid/pkg/response"
)

type timetableService interface {
	View(ctx context.Context, cycle string) (*dto.TimetableView, error)
	Cycles(ctx context.Context) ([]dto.CycleSummary, error)
}

// TimetableHandler serves the interactive viewer.
type TimetableHandler struct {
	timetables timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(timetables timetableService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables}
}

// ListCycles godoc
// @Summary List cycles
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cycles [get]
func (h *TimetableHandler) ListCycles(c *gin.Context) {
	cycles, err := h.timetables.Cycles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cycles, map[string]interface{}{"total": len(cycles)})
}

// Timetable godoc
// @Summary Timetable of a cycle
// @Tags Timetables
// @Produce json
// @Param cycle path string true "Cycle"
// @Success 200 {object} response.Envelope
// @Router /cycles/{cycle}/timetable [get]
func (h *TimetableHandler) Timetable(c *gin.Context) {
	view, err := h.timetables.View(c.Request.Context(), c.Param("cycle"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var meta map[string]interface{}
	if len(view.Diagnostics) > 0 {
		meta = map[string]interface{}{"diagnostics": len(view.Diagnostics)}
	}
	response.JSON(c, http.StatusOK, view, meta)
}
