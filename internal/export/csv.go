// Package export renders attendance records as CSV or XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"rollbook/internal/attendance"
	"rollbook/internal/metrics"
)

// MonthlyFile is the name the worker keeps current in the export directory.
const MonthlyFile = "dataofmonth.csv"

var ErrNoRecords = errors.New("no attendance records to export")

// Header is the first row of every export.
var Header = []string{"Date", "Subject", "Student Name", "Status"}

// WriteCSV writes the header and one row per record. It returns the number
// of records written, or ErrNoRecords (writing nothing) if there are none.
func WriteCSV(w io.Writer, records iter.Seq[attendance.Record]) (int, error) {
	var (
		cw *csv.Writer
		n  int
	)
	for r := range records {
		if cw == nil {
			cw = csv.NewWriter(w)
			if err := cw.Write(Header); err != nil {
				return 0, err
			}
		}
		if err := cw.Write([]string{r.Date, r.Subject, r.Student, string(r.Status)}); err != nil {
			return n, err
		}
		n++
	}
	if cw == nil {
		return 0, ErrNoRecords
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, err
	}
	metrics.Exports.WithLabelValues("csv").Inc()
	return n, nil
}

// WriteFile writes records as CSV to path, replacing it atomically.
func WriteFile(path string, records iter.Seq[attendance.Record]) (int, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}
	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp)

	n, err := WriteCSV(f, records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return n, fmt.Errorf("replace %s: %w", path, err)
	}
	return n, nil
}
