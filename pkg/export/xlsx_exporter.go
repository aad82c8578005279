package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxSlotWidth    = 15.0
	xlsxCellWidth    = 45.0
	xlsxRowHeight    = 60.0
	xlsxDefaultSheet = "Horario"
)

// XLSXExporter renders a table as a workbook with one sheet: day captions are
// merged across their subcolumns and each session cell is filled with the
// pastel colour of its subject.
type XLSXExporter struct{}

// NewXLSXExporter builds a spreadsheet exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

var sheetNameReplacer = strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")")

// SheetName is the worksheet title used for a cycle.
func SheetName(cycle string) string {
	if cycle == "" {
		return xlsxDefaultSheet
	}
	name := "Ciclo " + sheetNameReplacer.Replace(cycle)
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

// Render produces the xlsx bytes for the table.
func (e *XLSXExporter) Render(table Table) ([]byte, error) {
	if table.Columns() == 0 {
		return nil, fmt.Errorf("xlsx requires at least one column")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := SheetName(table.Cycle)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	styles := newXLSXStyles(f)

	if err := writeXLSXHeader(f, sheet, styles, table); err != nil {
		return nil, err
	}
	for i, row := range table.Rows {
		if err := writeXLSXRow(f, sheet, styles, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeXLSXHeader(f *excelize.File, sheet string, styles *xlsxStyles, table Table) error {
	headerStyle, err := styles.header()
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", SlotHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", xlsxSlotWidth); err != nil {
		return fmt.Errorf("size slot column: %w", err)
	}

	col := 2
	for _, h := range table.Header {
		first, err := excelize.CoordinatesToCellName(col, 1)
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(col+h.Span-1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, first, h.Label); err != nil {
			return fmt.Errorf("write header %s: %w", h.Label, err)
		}
		if h.Span > 1 {
			if err := f.MergeCell(sheet, first, last); err != nil {
				return fmt.Errorf("merge header %s: %w", h.Label, err)
			}
		}
		if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
			return fmt.Errorf("style header %s: %w", h.Label, err)
		}
		firstCol, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		lastCol, err := excelize.ColumnNumberToName(col + h.Span - 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, firstCol, lastCol, xlsxCellWidth); err != nil {
			return fmt.Errorf("size day columns: %w", err)
		}
		col += h.Span
	}
	return nil
}

func writeXLSXRow(f *excelize.File, sheet string, styles *xlsxStyles, line int, row Row) error {
	slotStyle, err := styles.slot()
	if err != nil {
		return err
	}
	slotCell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, slotCell, row.Slot); err != nil {
		return fmt.Errorf("write slot %s: %w", row.Slot, err)
	}
	if err := f.SetCellStyle(sheet, slotCell, slotCell, slotStyle); err != nil {
		return fmt.Errorf("style slot %s: %w", row.Slot, err)
	}

	for i, cell := range row.Cells {
		name, err := excelize.CoordinatesToCellName(i+2, line)
		if err != nil {
			return err
		}
		if cell.Text != "" {
			if err := f.SetCellValue(sheet, name, cell.Text); err != nil {
				return fmt.Errorf("write cell %s: %w", name, err)
			}
		}
		style, err := styles.subject(cell.Subject)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, name, name, style); err != nil {
			return fmt.Errorf("style cell %s: %w", name, err)
		}
	}
	if err := f.SetRowHeight(sheet, line, xlsxRowHeight); err != nil {
		return fmt.Errorf("size row %d: %w", line, err)
	}
	return nil
}

// xlsxStyles registers each distinct style once per workbook.
type xlsxStyles struct {
	file     *excelize.File
	ids      map[string]int
	borders  []excelize.Border
	centered *excelize.Alignment
}

func newXLSXStyles(f *excelize.File) *xlsxStyles {
	borders := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		borders = append(borders, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return &xlsxStyles{
		file:     f,
		ids:      map[string]int{},
		borders:  borders,
		centered: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}
}

func (s *xlsxStyles) header() (int, error) {
	return s.get("header", headerColor, &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11})
}

func (s *xlsxStyles) slot() (int, error) {
	return s.get("slot", slotColor, &excelize.Font{Bold: true, Size: 9})
}

func (s *xlsxStyles) subject(subject string) (int, error) {
	if subject == "" {
		return s.get("blank", "ffffff", &excelize.Font{Size: 9})
	}
	return s.get("subject:"+subject, PastelColor(subject), &excelize.Font{Size: 9})
}

func (s *xlsxStyles) get(key, fill string, font *excelize.Font) (int, error) {
	if id, ok := s.ids[key]; ok {
		return id, nil
	}
	id, err := s.file.NewStyle(&excelize.Style{
		Border:    s.borders,
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		Font:      font,
		Alignment: s.centered,
	})
	if err != nil {
		return 0, fmt.Errorf("register style %s: %w", key, err)
	}
	s.ids[key] = id
	return id, nil
}
