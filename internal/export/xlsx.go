package export

import (
	"fmt"
	"io"
	"iter"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"rollbook/internal/attendance"
	"rollbook/internal/metrics"
)

const sheetName = "Attendance"

// Workbook wraps an XLSX file with a single attendance sheet.
type Workbook struct {
	File *excelize.File
	Rows int
}

// NewWorkbook builds a sheet with a bold, filtered header row and
// columns sized to their content.
func NewWorkbook(records iter.Seq[attendance.Record]) (*Workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	widths := make([]int, len(Header))
	setRow := func(row int, values []string) error {
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheetName, cell, v); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(v))
		}
		return nil
	}

	if err := setRow(1, Header); err != nil {
		_ = f.Close()
		return nil, err
	}
	row := 1
	for r := range records {
		row++
		if err := setRow(row, []string{r.Date, r.Subject, r.Student, string(r.Status)}); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	if row == 1 {
		_ = f.Close()
		return nil, ErrNoRecords
	}

	last, _ := excelize.ColumnNumberToName(len(Header))
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheetName, "A1", last+"1", bold)
	}
	_ = f.AutoFilter(sheetName, "A1:"+last+"1", nil)
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, float64(min(max(w+2, 12), 40)))
	}
	metrics.Exports.WithLabelValues("xlsx").Inc()
	return &Workbook{File: f, Rows: row - 1}, nil
}

// WriteTo writes the workbook and closes it.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	defer w.File.Close()
	return w.File.WriteTo(out)
}
