package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/sma-timetable-grid/internal/timetable"
)

func sampleView(t *testing.T) *timetable.ScheduleView {
	t.Helper()
	grid, err := timetable.NewGrid(timetable.DefaultGridConfig())
	require.NoError(t, err)
	planner := timetable.NewPlanner(grid, nil)
	return planner.Build("2", []timetable.Session{
		{Day: timetable.Monday, Start: timetable.Clock(8, 0), End: timetable.Clock(9, 30), Subject: "Cálculo", Label: "Cálculo - Ruiz - A - 101"},
		{Day: timetable.Monday, Start: timetable.Clock(8, 0), End: timetable.Clock(8, 45), Subject: "Física", Label: "Física - Paz - B - 102"},
		{Day: timetable.Friday, Start: timetable.Clock(11, 0), End: timetable.Clock(11, 45), Subject: "Química", Label: "Química - Soto - A - 201"},
	})
}

func TestNewTable(t *testing.T) {
	table := NewTable(sampleView(t))

	assert.Equal(t, "CICLO 2 - Horario Académico", table.Title)
	require.Len(t, table.Header, timetable.DaysPerWeek)
	assert.Equal(t, HeaderCell{Label: "LUNES", Span: 2}, table.Header[0])
	assert.Equal(t, HeaderCell{Label: "VIERNES", Span: 1}, table.Header[4])
	assert.Equal(t, 6, table.Columns())

	labels := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		labels = append(labels, row.Slot)
		assert.Len(t, row.Cells, 6)
	}
	assert.Equal(t, []string{"08:00 - 08:45", "08:45 - 09:30", "11:00 - 11:45"}, labels)

	first := table.Rows[0]
	assert.Equal(t, "Cálculo", first.Cells[0].Subject)
	assert.Equal(t, "Física", first.Cells[1].Subject)
	assert.Equal(t, Cell{}, first.Cells[2])
	assert.Equal(t, "Química - Soto - A - 201", table.Rows[2].Cells[5].Text)
}

func TestPastelColor(t *testing.T) {
	a := PastelColor("Cálculo")
	assert.Equal(t, a, PastelColor("Cálculo"))
	assert.Len(t, a, 6)
	for i := 0; i < 6; i += 2 {
		v, err := strconv.ParseInt(a[i:i+2], 16, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, int64(140))
		assert.LessOrEqual(t, v, int64(220))
	}
	assert.NotEqual(t, a, PastelColor("Física"))
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(NewTable(sampleView(t)))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"HORARIO", "LUNES", "", "MARTES", "MIERCOLES", "JUEVES", "VIERNES"}, records[0])
	assert.Equal(t, "08:00 - 08:45", records[1][0])
	assert.Equal(t, "Cálculo - Ruiz - A - 101", records[1][1])
	assert.Equal(t, "Física - Paz - B - 102", records[1][2])
	assert.Equal(t, "", records[2][2])
}

func TestCSVExporterRejectsEmptyTable(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(NewTable(sampleView(t)))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFExporterRenderBook(t *testing.T) {
	view := sampleView(t)
	grid := view.Grid
	empty := timetable.NewPlanner(grid, nil).Build("4", nil)

	out, err := NewPDFExporter().RenderBook([]Table{NewTable(view), NewTable(empty)})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	_, err = NewPDFExporter().RenderBook(nil)
	require.Error(t, err)
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(NewTable(sampleView(t)))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Ciclo 2"}, f.GetSheetList())
	sheet := "Ciclo 2"

	merged, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "B1", merged[0].GetStartAxis())
	assert.Equal(t, "C1", merged[0].GetEndAxis())
	assert.Equal(t, "LUNES", merged[0].GetCellValue())

	for cell, want := range map[string]string{
		"A1": "HORARIO",
		"D1": "MARTES",
		"G1": "VIERNES",
		"A2": "08:00 - 08:45",
		"B2": "Cálculo - Ruiz - A - 101",
		"C2": "Física - Paz - B - 102",
		"B3": "Cálculo - Ruiz - A - 101",
		"C3": "",
		"G4": "Química - Soto - A - 201",
	} {
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	style := func(cell string) int {
		id, err := f.GetCellStyle(sheet, cell)
		require.NoError(t, err)
		return id
	}
	assert.Equal(t, style("B2"), style("B3"), "same subject shares a fill")
	assert.NotEqual(t, style("B2"), style("C2"))
	assert.NotEqual(t, style("B2"), style("C3"))
	assert.Equal(t, style("B1"), style("C1"))
	assert.NotEqual(t, style("A1"), style("A2"))

	styles := readZipEntry(t, out, "xl/styles.xml")
	assert.Contains(t, styles, strings.ToUpper(PastelColor("Cálculo")))
	assert.Contains(t, styles, strings.ToUpper(PastelColor("Física")))
	assert.Contains(t, styles, strings.ToUpper(headerColor))
	assert.Contains(t, styles, strings.ToUpper(slotColor))
}

func TestXLSXExporterRejectsEmptyTable(t *testing.T) {
	_, err := NewXLSXExporter().Render(Table{})
	require.Error(t, err)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Ciclo 10", SheetName("10"))
	assert.Equal(t, "Horario", SheetName(""))
	assert.Equal(t, "Ciclo a-b", SheetName("a/b"))
	assert.Len(t, []rune(SheetName(strings.Repeat("x", 40))), 31)
}

func readZipEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(body)
	}
	t.Fatalf("%s not found in workbook", name)
	return ""
}
