package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-grid/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-grid/pkg/errors"
)

type sessionStore interface {
	ReplaceCycle(ctx context.Context, cycle string, records []models.SessionRecord) error
}

// ImportedCycle reports how many rows were stored for one cycle.
type ImportedCycle struct {
	Cycle    string
	Sessions int
}

// ImportService loads session rows into the database source.
type ImportService struct {
	store  sessionStore
	cache  *CacheService
	logger *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(store sessionStore, cache *CacheService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{store: store, cache: cache, logger: logger}
}

// Import replaces each cycle present in records with its rows, in order of
// first appearance, and drops the cached view of every replaced cycle.
func (s *ImportService) Import(ctx context.Context, records []models.SessionRecord) ([]ImportedCycle, error) {
	order := make([]string, 0)
	byCycle := make(map[string][]models.SessionRecord)
	for i, record := range records {
		cycle := strings.TrimSpace(record.Cycle)
		if cycle == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d has no cycle", i+1))
		}
		if _, ok := byCycle[cycle]; !ok {
			order = append(order, cycle)
		}
		byCycle[cycle] = append(byCycle[cycle], record)
	}

	imported := make([]ImportedCycle, 0, len(order))
	for _, cycle := range order {
		if err := s.store.ReplaceCycle(ctx, cycle, byCycle[cycle]); err != nil {
			return imported, appErrors.WrapAs(err, appErrors.ErrSourceUnavailable, fmt.Sprintf("failed to import cycle %s", cycle))
		}
		_ = s.cache.Invalidate(ctx, ViewKey(cycle))
		imported = append(imported, ImportedCycle{Cycle: cycle, Sessions: len(byCycle[cycle])})
		s.logger.Info("cycle imported", zap.String("cycle", cycle), zap.Int("sessions", len(byCycle[cycle])))
	}
	return imported, nil
}
