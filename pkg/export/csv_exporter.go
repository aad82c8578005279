package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders a table as a spreadsheet grid: day captions sit in the
// first subcolumn of their span and the remaining header cells stay blank.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the table.
func (e *CSVExporter) Render(table Table) ([]byte, error) {
	columns := table.Columns()
	if columns == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	header := make([]string, 0, columns+1)
	header = append(header, SlotHeader)
	for _, h := range table.Header {
		header = append(header, h.Label)
		for i := 1; i < h.Span; i++ {
			header = append(header, "")
		}
	}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range table.Rows {
		record := make([]string, 0, columns+1)
		record = append(record, row.Slot)
		for _, cell := range row.Cells {
			record = append(record, cell.Text)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
