package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-timetable-grid/internal/dto"
	"github.com/noah-isme/sma-timetable-grid/internal/models"
	"github.com/noah-isme/sma-timetable-grid/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-grid/pkg/errors"
	"github.com/noah-isme/sma-timetable-grid/pkg/export"
)

// SessionSource provides the raw session rows of each cycle.
type SessionSource interface {
	ListByCycle(ctx context.Context, cycle string) ([]models.SessionRecord, error)
	ListCycles(ctx context.Context) ([]string, error)
}

// TimetableService turns stored sessions into schedule views.
type TimetableService struct {
	source  SessionSource
	planner *timetable.Planner
	cache   *CacheService
	metrics *MetricsService
	cycles  []string
	logger  *zap.Logger
	now     func() time.Time
}

// NewTimetableService constructs the service. cycles fixes the cycle list;
// when empty the source's distinct cycles are used.
func NewTimetableService(source SessionSource, planner *timetable.Planner, cache *CacheService, metrics *MetricsService, cycles []string, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		source:  source,
		planner: planner,
		cache:   cache,
		metrics: metrics,
		cycles:  append([]string(nil), cycles...),
		logger:  logger,
		now:     time.Now,
	}
}

// Build loads a cycle and runs the allocation pipeline. Rows with an unknown
// day or unusable times are left out and reported as diagnostics.
func (s *TimetableService) Build(ctx context.Context, cycle string) (*timetable.ScheduleView, error) {
	cycle = strings.TrimSpace(cycle)
	if cycle == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cycle is required")
	}

	records, err := s.source.ListByCycle(ctx, cycle)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrSourceUnavailable, fmt.Sprintf("failed to load sessions for cycle %s", cycle))
	}

	sessions, skipped := ToSessions(records)
	for _, diag := range skipped {
		s.metrics.RecordSkippedSession(string(diag.Kind))
	}
	if len(skipped) > 0 {
		s.logger.Warn("sessions skipped", zap.String("cycle", cycle), zap.Int("skipped", len(skipped)), zap.Int("total", len(records)))
	}

	start := time.Now()
	view := s.planner.Build(cycle, sessions)
	s.metrics.ObserveBuild(cycle, time.Since(start))

	widened := 0
	for _, diag := range view.Diagnostics {
		if diag.Kind == timetable.DiagnosticAllocationInconsistency {
			widened++
		}
	}
	s.metrics.RecordWidened(widened)

	view.Diagnostics = append(skipped, view.Diagnostics...)
	return view, nil
}

// View returns the viewer payload of a cycle, served from cache when enabled.
func (s *TimetableService) View(ctx context.Context, cycle string) (*dto.TimetableView, error) {
	cycle = strings.TrimSpace(cycle)
	key := ViewKey(cycle)

	var cached dto.TimetableView
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	view, err := s.Build(ctx, cycle)
	if err != nil {
		return nil, err
	}
	out := NewTimetableView(view, s.now())
	_ = s.cache.Set(ctx, key, out, 0)
	return out, nil
}

// BuildAll builds every cycle concurrently. Results follow the order of cycles;
// the first failure cancels the remaining builds.
func (s *TimetableService) BuildAll(ctx context.Context, cycles []string) ([]*timetable.ScheduleView, error) {
	views := make([]*timetable.ScheduleView, len(cycles))
	group, gctx := errgroup.WithContext(ctx)
	for i, cycle := range cycles {
		i, cycle := i, cycle
		group.Go(func() error {
			view, err := s.Build(gctx, cycle)
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// CycleIDs returns the configured cycles, or the source's cycles in natural order.
func (s *TimetableService) CycleIDs(ctx context.Context) ([]string, error) {
	if len(s.cycles) > 0 {
		return append([]string(nil), s.cycles...), nil
	}
	cycles, err := s.source.ListCycles(ctx)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrSourceUnavailable, "failed to list cycles")
	}
	SortCycles(cycles)
	return cycles, nil
}

// Cycles returns the cycle navigation list with neighbours for each entry.
func (s *TimetableService) Cycles(ctx context.Context) ([]dto.CycleSummary, error) {
	ids, err := s.CycleIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CycleSummary, len(ids))
	for i, id := range ids {
		out[i] = dto.CycleSummary{Cycle: id, Position: i + 1}
		if i > 0 {
			out[i].Previous = ids[i-1]
		}
		if i+1 < len(ids) {
			out[i].Next = ids[i+1]
		}
	}
	return out, nil
}

// ToSessions converts stored rows into allocator input. The returned
// diagnostics describe every row that was left out, using the row index.
func ToSessions(records []models.SessionRecord) ([]timetable.Session, []timetable.Diagnostic) {
	sessions := make([]timetable.Session, 0, len(records))
	var diagnostics []timetable.Diagnostic
	for row, record := range records {
		label := record.Label()
		day, err := timetable.ParseWeekday(record.DayOfWeek)
		if err != nil {
			diagnostics = append(diagnostics, timetable.Diagnostic{
				Kind:    timetable.DiagnosticUnrecognizedWeekday,
				Row:     row,
				Message: fmt.Sprintf("%q: %v", label, err),
			})
			continue
		}
		start, startErr := timetable.ParseClock(record.StartTime)
		end, endErr := timetable.ParseClock(record.EndTime)
		var timeErr error
		switch {
		case startErr != nil:
			timeErr = startErr
		case endErr != nil:
			timeErr = endErr
		case end < start:
			timeErr = fmt.Errorf("%w: ends at %s before it starts at %s", timetable.ErrInvalidTime, end, start)
		}
		if timeErr != nil {
			diagnostics = append(diagnostics, timetable.Diagnostic{
				Kind:    timetable.DiagnosticInvalidTime,
				Row:     row,
				Message: fmt.Sprintf("%q: %v", label, timeErr),
			})
			continue
		}
		subject := strings.TrimSpace(record.Subject)
		if subject == "" {
			subject = label
		}
		sessions = append(sessions, timetable.Session{
			Day:     day,
			Start:   start,
			End:     end,
			Subject: subject,
			Label:   label,
		})
	}
	return sessions, diagnostics
}

// NewTimetableView projects a schedule view onto the viewer DTO. Only active
// slots are listed.
func NewTimetableView(view *timetable.ScheduleView, generatedAt time.Time) *dto.TimetableView {
	out := &dto.TimetableView{
		Cycle:       view.Cycle,
		Title:       export.CycleTitle(view.Cycle),
		Days:        make([]dto.DayColumn, 0, timetable.DaysPerWeek),
		Slots:       make([]dto.SlotRow, 0, len(view.ActiveSlots)),
		GeneratedAt: generatedAt.UTC(),
	}
	for _, day := range view.Days {
		out.Days = append(out.Days, dto.DayColumn{Day: day.Day.String(), Width: day.Width})
	}
	for _, slot := range view.ActiveTimeSlots() {
		row := dto.SlotRow{
			Index: slot.Index,
			Start: slot.Start.String(),
			End:   slot.End.String(),
			Label: slot.Label(),
			Cells: make([][]*dto.CellView, 0, timetable.DaysPerWeek),
		}
		for _, day := range timetable.Weekdays {
			cells := view.Cells(day, slot.Index)
			dayCells := make([]*dto.CellView, len(cells))
			for i, cell := range cells {
				if cell.Empty() {
					continue
				}
				dayCells[i] = &dto.CellView{
					Label:   cell.Label(),
					Subject: cell.Subject(),
					Color:   "#" + export.PastelColor(cell.Subject()),
				}
			}
			row.Cells = append(row.Cells, dayCells)
		}
		out.Slots = append(out.Slots, row)
	}
	for _, diag := range view.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, dto.DiagnosticView{Kind: string(diag.Kind), Row: diag.Row, Message: diag.Message})
	}
	return out
}

// SortCycles orders cycle identifiers numerically when both are numbers and
// lexically otherwise, numbers first.
func SortCycles(cycles []string) {
	sort.SliceStable(cycles, func(i, j int) bool {
		a, aErr := strconv.Atoi(cycles[i])
		b, bErr := strconv.Atoi(cycles[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return cycles[i] < cycles[j]
		}
	})
}
