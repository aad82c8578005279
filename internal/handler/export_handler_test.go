package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-grid/internal/dto"
	"github.com/noah-isme/sma-timetable-grid/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-grid/pkg/errors"
)

type exportServiceMock struct {
	rendered   *service.RenderedExport
	renderErr  error
	batch      *dto.BatchExportResponse
	batchErr   error
	lastFormat string
	lastBatch  dto.BatchExportRequest
}

func (m *exportServiceMock) Render(ctx context.Context, cycle, format string) (*service.RenderedExport, error) {
	m.lastFormat = format
	return m.rendered, m.renderErr
}

func (m *exportServiceMock) ExportAll(ctx context.Context, req dto.BatchExportRequest) (*dto.BatchExportResponse, error) {
	m.lastBatch = req
	return m.batch, m.batchErr
}

func TestExportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &exportServiceMock{rendered: &service.RenderedExport{
		FileName:    "Horario_Ciclo_1.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("HORARIO,LUNES\n"),
	}}
	handler := NewExportHandler(svc, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/cycles/1/export?format=CSV", nil)
	c.Params = gin.Params{{Key: "cycle", Value: "1"}}
	handler.Download(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", svc.lastFormat)
	assert.Equal(t, `attachment; filename="Horario_Ciclo_1.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "HORARIO,LUNES\n", w.Body.String())
}

func TestExportHandlerDownloadValidatesFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &exportServiceMock{}
	handler := NewExportHandler(svc, nil)

	for _, target := range []string{"/api/v1/cycles/1/export", "/api/v1/cycles/1/export?format=docx"} {
		c, w := newTestContext(http.MethodGet, target, nil)
		c.Params = gin.Params{{Key: "cycle", Value: "1"}}
		handler.Download(c)
		require.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, w).Error.Code)
	}
	assert.Empty(t, svc.lastFormat)
}

func TestExportHandlerExportAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &exportServiceMock{batch: &dto.BatchExportResponse{
		Files: []dto.ExportFile{{Cycle: "1", Format: "pdf", Name: "Horario_Ciclo_1.pdf", Path: "/out/Horario_Ciclo_1.pdf"}},
	}}
	handler := NewExportHandler(svc, nil)

	payload, _ := json.Marshal(dto.BatchExportRequest{Cycles: []string{"1"}, Formats: []string{"PDF"}})
	c, w := newTestContext(http.MethodPost, "/api/v1/exports", payload)
	handler.ExportAll(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"pdf"}, svc.lastBatch.Formats)
	env := decodeEnvelope(t, w)
	assert.Equal(t, float64(1), env.Meta["written"])
}

func TestExportHandlerExportAllEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &exportServiceMock{batch: &dto.BatchExportResponse{}}
	handler := NewExportHandler(svc, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/exports", nil)
	handler.ExportAll(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.lastBatch.Cycles)
}

func TestExportHandlerExportAllRejectsFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&exportServiceMock{}, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/exports", []byte(`{"formats":["docx"]}`))
	handler.ExportAll(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodPost, "/api/v1/exports", []byte(`{"formats":`))
	handler.ExportAll(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
