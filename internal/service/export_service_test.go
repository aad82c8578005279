package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-grid/internal/dto"
	"github.com/noah-isme/sma-timetable-grid/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-grid/pkg/errors"
	"github.com/noah-isme/sma-timetable-grid/pkg/export"
	"github.com/noah-isme/sma-timetable-grid/pkg/storage"
)

type flakyCSVRenderer struct {
	failures int32
	calls    int32
}

func (f *flakyCSVRenderer) Render(table export.Table) ([]byte, error) {
	if atomic.AddInt32(&f.calls, 1) <= f.failures {
		return nil, errors.New("transient")
	}
	return export.NewCSVExporter().Render(table)
}

func exportSource() *sessionSourceStub {
	return &sessionSourceStub{records: map[string][]models.SessionRecord{
		"1": {
			record("1", "LUNES", "08:00", "09:30", "Cálculo"),
			record("1", "LUNES", "08:45", "10:15", "Física"),
		},
		"2": {record("2", "MARTES", "10:00", "11:30", "Química")},
	}}
}

func newExportServiceForTest(t *testing.T, source SessionSource, csv tableRenderer) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	timetables := newTimetableServiceForTest(t, source, nil, []string{"1", "2"})
	cfg := ExportConfig{Workers: 2, Retries: 2, RetryDelay: 10 * time.Millisecond}
	return NewExportService(timetables, store, cfg, NewMetricsService(), zap.NewNop(), Renderers{CSV: csv}), store
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportSource(), nil)

	rendered, err := svc.Render(context.Background(), "1", "CSV")
	require.NoError(t, err)
	assert.Equal(t, "Horario_Ciclo_1.csv", rendered.FileName)
	assert.Equal(t, "text/csv; charset=utf-8", rendered.ContentType)

	lines := strings.Split(strings.TrimSpace(string(rendered.Data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "HORARIO,LUNES,,MARTES"))
	assert.Contains(t, lines[1], "Cálculo - Prof - A - 101")
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportSource(), nil)

	rendered, err := svc.Render(context.Background(), "2", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "Horario_Ciclo_2.pdf", rendered.FileName)
	assert.True(t, strings.HasPrefix(string(rendered.Data), "%PDF"))
}

func TestExportServiceRenderXLSX(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportSource(), nil)

	rendered, err := svc.Render(context.Background(), "1", "XLSX")
	require.NoError(t, err)
	assert.Equal(t, "Horario_Ciclo_1.xlsx", rendered.FileName)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rendered.ContentType)

	book, err := excelize.OpenReader(bytes.NewReader(rendered.Data))
	require.NoError(t, err)
	defer book.Close()
	merged, err := book.GetMergeCells("Ciclo 1")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "LUNES", merged[0].GetCellValue())

	body := scrape(t, svc.metrics)
	assert.Contains(t, body, `timetable_exports_total{format="xlsx",status="ok"} 1`)
}

func TestExportServiceExportAllStopsOnCancel(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportSource(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := svc.ExportAll(ctx, dto.BatchExportRequest{Cycles: []string{"1", "2"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, resp)
}

func TestExportServiceRenderRejectsFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportSource(), nil)
	_, err := svc.Render(context.Background(), "1", "docx")
	require.ErrorIs(t, err, appErrors.ErrUnsupportedFormat)
}

func TestExportServiceExportAll(t *testing.T) {
	svc, store := newExportServiceForTest(t, exportSource(), nil)

	resp, err := svc.ExportAll(context.Background(), dto.BatchExportRequest{Combined: true})
	require.NoError(t, err)
	require.Empty(t, resp.Failed)

	names := make([]string, 0, len(resp.Files))
	for _, file := range resp.Files {
		names = append(names, file.Name)
		_, statErr := os.Stat(file.Path)
		assert.NoError(t, statErr)
		assert.Equal(t, store.Dir(), filepath.Dir(file.Path))
	}
	assert.Equal(t, []string{
		"Horario_Ciclo_1.pdf", "Horario_Ciclo_1.xlsx",
		"Horario_Ciclo_2.pdf", "Horario_Ciclo_2.xlsx",
		CombinedFileName,
	}, names)
}

func TestExportServiceExportAllRetries(t *testing.T) {
	flaky := &flakyCSVRenderer{failures: 1}
	svc, _ := newExportServiceForTest(t, exportSource(), flaky)

	resp, err := svc.ExportAll(context.Background(), dto.BatchExportRequest{Cycles: []string{"1"}, Formats: []string{"csv"}})
	require.NoError(t, err)
	require.Empty(t, resp.Failed)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&flaky.calls))
}

func TestExportServiceExportAllReportsFailures(t *testing.T) {
	flaky := &flakyCSVRenderer{failures: 100}
	svc, _ := newExportServiceForTest(t, exportSource(), flaky)

	resp, err := svc.ExportAll(context.Background(), dto.BatchExportRequest{Cycles: []string{"1", "2"}, Formats: []string{"pdf", "csv"}})
	require.NoError(t, err)
	require.Len(t, resp.Files, 2)
	require.Len(t, resp.Failed, 2)
	assert.Equal(t, "1", resp.Failed[0].Cycle)
	assert.Equal(t, FormatCSV, resp.Failed[0].Format)
	assert.Equal(t, int32(6), atomic.LoadInt32(&flaky.calls))
}

func TestExportServiceExportAllRejectsFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportSource(), nil)
	_, err := svc.ExportAll(context.Background(), dto.BatchExportRequest{Formats: []string{"docx"}})
	require.ErrorIs(t, err, appErrors.ErrUnsupportedFormat)
}

func TestFileNameSanitizes(t *testing.T) {
	assert.Equal(t, "Horario_Ciclo_1.pdf", FileName("1", FormatPDF))
	assert.Equal(t, "Horario_Ciclo_ciclo_a-b.csv", FileName("ciclo a/b", FormatCSV))
	assert.Equal(t, "Horario_Ciclo_na.csv", FileName("", FormatCSV))
}

func TestExportServiceRecordsMetrics(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportSource(), nil)
	_, err := svc.Render(context.Background(), "1", FormatCSV)
	require.NoError(t, err)

	body := scrape(t, svc.metrics)
	assert.Contains(t, body, `timetable_exports_total{format="csv",status="ok"} 1`)
	assert.Contains(t, body, `timetable_build_duration_seconds_count{cycle="1"} 1`)
}
