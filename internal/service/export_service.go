package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-grid/internal/dto"
	"github.com/noah-isme/sma-timetable-grid/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-grid/pkg/errors"
	"github.com/noah-isme/sma-timetable-grid/pkg/export"
	"github.com/noah-isme/sma-timetable-grid/pkg/jobs"
)

// Export formats.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// DefaultFormats are written by a batch export that names none.
var DefaultFormats = []string{FormatPDF, FormatXLSX}

// CombinedFileName is the all-cycles PDF written by a batch export.
const CombinedFileName = "Horarios_Completo.pdf"

const exportJobType = "timetable_export"

var contentTypes = map[string]string{
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatCSV:  "text/csv; charset=utf-8",
}

type viewBuilder interface {
	Build(ctx context.Context, cycle string) (*timetable.ScheduleView, error)
	BuildAll(ctx context.Context, cycles []string) ([]*timetable.ScheduleView, error)
	CycleIDs(ctx context.Context) ([]string, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type bookRenderer interface {
	tableRenderer
	RenderBook(tables []export.Table) ([]byte, error)
}

// ExportConfig tunes the batch worker pool.
type ExportConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// Renderers overrides the exporters used per format; nil fields fall back to
// the package exporters.
type Renderers struct {
	PDF  bookRenderer
	XLSX tableRenderer
	CSV  tableRenderer
}

// RenderedExport is one cycle rendered in memory.
type RenderedExport struct {
	Cycle       string
	Format      string
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders cycles to files and writes batches to storage.
type ExportService struct {
	timetables viewBuilder
	storage    fileStorage
	pdf        bookRenderer
	tables     map[string]tableRenderer
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(timetables viewBuilder, storage fileStorage, cfg ExportConfig, metrics *MetricsService, logger *zap.Logger, renderers Renderers) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if renderers.PDF == nil {
		renderers.PDF = export.NewPDFExporter()
	}
	if renderers.XLSX == nil {
		renderers.XLSX = export.NewXLSXExporter()
	}
	if renderers.CSV == nil {
		renderers.CSV = export.NewCSVExporter()
	}
	return &ExportService{
		timetables: timetables,
		storage:    storage,
		pdf:        renderers.PDF,
		tables: map[string]tableRenderer{
			FormatPDF:  renderers.PDF,
			FormatXLSX: renderers.XLSX,
			FormatCSV:  renderers.CSV,
		},
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// FileName is the export file name of a cycle.
func FileName(cycle, format string) string {
	return fmt.Sprintf("Horario_Ciclo_%s.%s", sanitizeFilename(cycle), format)
}

// Render builds one cycle and renders it in the requested format.
func (s *ExportService) Render(ctx context.Context, cycle, format string) (*RenderedExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}

	view, err := s.timetables.Build(ctx, cycle)
	if err != nil {
		return nil, err
	}

	table := export.NewTable(view)
	payload, err := s.tables[format].Render(table)
	s.metrics.RecordExport(format, err)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, fmt.Sprintf("failed to render %s for cycle %s", format, view.Cycle))
	}

	return &RenderedExport{
		Cycle:       view.Cycle,
		Format:      format,
		FileName:    FileName(view.Cycle, format),
		ContentType: contentType,
		Data:        payload,
	}, nil
}

type exportTask struct {
	index  int
	cycle  string
	format string
}

// ExportAll writes every requested cycle and format to storage through a
// worker pool and waits for all of them. Failed files are reported in the
// response rather than aborting the batch.
func (s *ExportService) ExportAll(ctx context.Context, req dto.BatchExportRequest) (*dto.BatchExportResponse, error) {
	cycles := req.Cycles
	if len(cycles) == 0 {
		ids, err := s.timetables.CycleIDs(ctx)
		if err != nil {
			return nil, err
		}
		cycles = ids
	}
	formats := append([]string(nil), req.Formats...)
	if len(formats) == 0 {
		formats = append([]string(nil), DefaultFormats...)
	}
	for i, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if _, ok := contentTypes[format]; !ok {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
		}
		formats[i] = format
	}

	tasks := make([]exportTask, 0, len(cycles)*len(formats))
	for _, cycle := range cycles {
		for _, format := range formats {
			tasks = append(tasks, exportTask{index: len(tasks), cycle: cycle, format: format})
		}
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		files   = make([]*dto.ExportFile, len(tasks))
		failure = make([]*dto.ExportFailure, len(tasks))
	)
	fail := func(task exportTask, err error) {
		mu.Lock()
		failure[task.index] = &dto.ExportFailure{Cycle: task.cycle, Format: task.format, Error: err.Error()}
		mu.Unlock()
	}

	handler := func(ctx context.Context, job jobs.Job) error {
		task := job.Payload.(exportTask)
		file, err := s.write(ctx, task.cycle, task.format)
		if err != nil {
			return err
		}
		mu.Lock()
		files[task.index] = file
		mu.Unlock()
		return nil
	}

	queue := jobs.NewQueue("exports", handler, jobs.QueueConfig{
		Workers:    s.cfg.Workers,
		BufferSize: len(tasks),
		MaxRetries: s.cfg.Retries,
		RetryDelay: s.cfg.RetryDelay,
		Logger:     s.logger,
		OnSettled: func(job jobs.Job, err error) {
			if err != nil {
				fail(job.Payload.(exportTask), err)
			}
			wg.Done()
		},
	})
	queue.Start(ctx)
	defer queue.Stop()

	for _, task := range tasks {
		wg.Add(1)
		job := jobs.Job{ID: fmt.Sprintf("%s-%s", task.cycle, task.format), Type: exportJobType, Payload: task}
		if err := queue.Enqueue(job); err != nil {
			fail(task, err)
			wg.Done()
		}
	}

	// Stop settles whatever is still buffered, so the waiter always returns.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &dto.BatchExportResponse{Files: make([]dto.ExportFile, 0, len(tasks))}
	for i := range tasks {
		if files[i] != nil {
			resp.Files = append(resp.Files, *files[i])
		}
		if failure[i] != nil {
			resp.Failed = append(resp.Failed, *failure[i])
		}
	}

	if req.Combined {
		file, err := s.writeBook(ctx, cycles)
		if err != nil {
			resp.Failed = append(resp.Failed, dto.ExportFailure{Format: FormatPDF, Error: err.Error()})
		} else {
			resp.Files = append(resp.Files, *file)
		}
	}

	s.logger.Info("batch export finished",
		zap.Int("cycles", len(cycles)),
		zap.Int("written", len(resp.Files)),
		zap.Int("failed", len(resp.Failed)),
	)
	return resp, nil
}

func (s *ExportService) write(ctx context.Context, cycle, format string) (*dto.ExportFile, error) {
	rendered, err := s.Render(ctx, cycle, format)
	if err != nil {
		return nil, err
	}
	path, err := s.storage.Save(rendered.FileName, rendered.Data)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", rendered.FileName, err)
	}
	return &dto.ExportFile{Cycle: rendered.Cycle, Format: format, Name: rendered.FileName, Path: path}, nil
}

func (s *ExportService) writeBook(ctx context.Context, cycles []string) (*dto.ExportFile, error) {
	views, err := s.timetables.BuildAll(ctx, cycles)
	if err != nil {
		return nil, err
	}
	tables := make([]export.Table, len(views))
	for i, view := range views {
		tables[i] = export.NewTable(view)
	}
	payload, err := s.pdf.RenderBook(tables)
	s.metrics.RecordExport(FormatPDF, err)
	if err != nil {
		return nil, fmt.Errorf("render combined pdf: %w", err)
	}
	path, err := s.storage.Save(CombinedFileName, payload)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", CombinedFileName, err)
	}
	return &dto.ExportFile{Format: FormatPDF, Name: CombinedFileName, Path: path}, nil
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
