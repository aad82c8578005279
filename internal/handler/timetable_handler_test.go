package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-grid/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable-grid/pkg/errors"
)

type timetableServiceMock struct {
	view      *dto.TimetableView
	viewErr   error
	cycles    []dto.CycleSummary
	cyclesErr error
	lastCycle string
}

func (m *timetableServiceMock) View(ctx context.Context, cycle string) (*dto.TimetableView, error) {
	m.lastCycle = cycle
	return m.view, m.viewErr
}

func (m *timetableServiceMock) Cycles(ctx context.Context) ([]dto.CycleSummary, error) {
	return m.cycles, m.cyclesErr
}

func newTestContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestTimetableHandlerListCycles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &timetableServiceMock{cycles: []dto.CycleSummary{{Cycle: "1", Position: 1, Next: "2"}, {Cycle: "2", Position: 2, Previous: "1"}}}
	handler := NewTimetableHandler(svc)

	c, w := newTestContext(http.MethodGet, "/api/v1/cycles", nil)
	handler.ListCycles(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var cycles []dto.CycleSummary
	require.NoError(t, json.Unmarshal(env.Data, &cycles))
	assert.Equal(t, svc.cycles, cycles)
	assert.Equal(t, float64(2), env.Meta["total"])
}

func TestTimetableHandlerTimetable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &timetableServiceMock{view: &dto.TimetableView{
		Cycle:       "4",
		Days:        []dto.DayColumn{{Day: "LUNES", Width: 2}},
		Diagnostics: []dto.DiagnosticView{{Kind: "invalid_time", Row: 3}},
	}}
	handler := NewTimetableHandler(svc)

	c, w := newTestContext(http.MethodGet, "/api/v1/cycles/4/timetable", nil)
	c.Params = gin.Params{{Key: "cycle", Value: "4"}}
	handler.Timetable(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", svc.lastCycle)
	env := decodeEnvelope(t, w)
	var view dto.TimetableView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2, view.Days[0].Width)
	assert.Equal(t, float64(1), env.Meta["diagnostics"])
}

func TestTimetableHandlerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetableServiceMock{
		viewErr:   appErrors.WrapAs(errors.New("dial tcp"), appErrors.ErrSourceUnavailable, "failed to load sessions"),
		cyclesErr: errors.New("boom"),
	})

	c, w := newTestContext(http.MethodGet, "/api/v1/cycles/1/timetable", nil)
	c.Params = gin.Params{{Key: "cycle", Value: "1"}}
	handler.Timetable(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, appErrors.ErrSourceUnavailable.Code, decodeEnvelope(t, w).Error.Code)

	c, w = newTestContext(http.MethodGet, "/api/v1/cycles", nil)
	handler.ListCycles(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
