package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-grid/internal/models"
)

const sessionColumns = "id, position, cycle, day_of_week, start_time, end_time, subject_name, instructor_name, group_name, room_name, created_at"

// SessionRepository reads course sessions from PostgreSQL.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ListByCycle returns the sessions of a cycle in source order.
func (r *SessionRepository) ListByCycle(ctx context.Context, cycle string) ([]models.SessionRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM course_sessions WHERE cycle = $1 ORDER BY position ASC", sessionColumns)
	var records []models.SessionRecord
	if err := r.db.SelectContext(ctx, &records, query, cycle); err != nil {
		return nil, fmt.Errorf("list sessions by cycle: %w", err)
	}
	return records, nil
}

// ListCycles returns the distinct cycles present in the table.
func (r *SessionRepository) ListCycles(ctx context.Context) ([]string, error) {
	const query = `SELECT cycle FROM course_sessions GROUP BY cycle ORDER BY MIN(position) ASC`
	var cycles []string
	if err := r.db.SelectContext(ctx, &cycles, query); err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return cycles, nil
}

// ReplaceCycle swaps every session of a cycle for the given records inside one transaction.
func (r *SessionRepository) ReplaceCycle(ctx context.Context, cycle string, records []models.SessionRecord) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace cycle: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM course_sessions WHERE cycle = $1`, cycle); err != nil {
		return fmt.Errorf("clear cycle sessions: %w", err)
	}

	const insert = `
INSERT INTO course_sessions (id, position, cycle, day_of_week, start_time, end_time, subject_name, instructor_name, group_name, room_name, created_at)
VALUES (:id, :position, :cycle, :day_of_week, :start_time, :end_time, :subject_name, :instructor_name, :group_name, :room_name, :created_at)`

	now := time.Now().UTC()
	for i := range records {
		record := records[i]
		record.Cycle = cycle
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		if _, err = tx.NamedExecContext(ctx, insert, record); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace cycle: %w", err)
	}
	return nil
}
