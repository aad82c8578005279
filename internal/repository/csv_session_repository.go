package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/noah-isme/sma-timetable-grid/internal/models"
)

// Column aliases accepted in the CSV header, Spanish export names first.
var csvColumns = map[string][]string{
	"cycle":      {"ciclo", "cycle"},
	"day":        {"dia", "día", "day", "day_of_week"},
	"start":      {"hora_inicio", "start_time", "start"},
	"end":        {"hora_fin", "end_time", "end"},
	"subject":    {"asignatura_nombre", "subject", "subject_name"},
	"instructor": {"profesor_nombre", "instructor", "instructor_name", "teacher"},
	"group":      {"grupo_nombre", "group", "group_name"},
	"room":       {"aula_nombre", "room", "room_name"},
}

var requiredCSVColumns = []string{"cycle", "day", "start", "end"}

// CSVSessionRepository reads course sessions from a CSV file. Every call reads
// the file again, so each run works on a fresh snapshot.
type CSVSessionRepository struct {
	path string
}

// NewCSVSessionRepository builds a repository over the file at path.
func NewCSVSessionRepository(path string) *CSVSessionRepository {
	return &CSVSessionRepository{path: path}
}

// ListByCycle returns the rows of one cycle in file order.
func (r *CSVSessionRepository) ListByCycle(ctx context.Context, cycle string) ([]models.SessionRecord, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SessionRecord, 0)
	for _, record := range all {
		if record.Cycle == cycle {
			out = append(out, record)
		}
	}
	return out, nil
}

// ListCycles returns the distinct cycles in order of first appearance.
func (r *CSVSessionRepository) ListCycles(ctx context.Context) ([]string, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	cycles := make([]string, 0)
	for _, record := range all {
		if !seen[record.Cycle] {
			seen[record.Cycle] = true
			cycles = append(cycles, record.Cycle)
		}
	}
	return cycles, nil
}

func (r *CSVSessionRepository) readAll(ctx context.Context) ([]models.SessionRecord, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open sessions csv: %w", err)
	}
	defer file.Close() //nolint:errcheck
	return ReadSessionsCSV(ctx, file)
}

// ReadSessionsCSV decodes session rows from CSV with a header line.
func ReadSessionsCSV(ctx context.Context, src io.Reader) ([]models.SessionRecord, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("sessions csv is empty")
		}
		return nil, fmt.Errorf("read sessions csv header: %w", err)
	}
	index, err := mapCSVHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]models.SessionRecord, 0)
	for position := 0; ; position++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sessions csv row %d: %w", position+1, err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		records = append(records, models.SessionRecord{
			Position:   position,
			Cycle:      field("cycle"),
			DayOfWeek:  field("day"),
			StartTime:  field("start"),
			EndTime:    field("end"),
			Subject:    field("subject"),
			Instructor: field("instructor"),
			Group:      field("group"),
			Room:       field("room"),
		})
	}
	return records, nil
}

func mapCSVHeader(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}
	index := make(map[string]int, len(csvColumns))
	for field, aliases := range csvColumns {
		for _, alias := range aliases {
			if i, ok := positions[alias]; ok {
				index[field] = i
				break
			}
		}
	}
	var missing []string
	for _, field := range requiredCSVColumns {
		if _, ok := index[field]; !ok {
			missing = append(missing, csvColumns[field][0])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("sessions csv missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}
