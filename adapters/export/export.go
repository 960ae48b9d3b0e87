// Package export writes flat (category, parameter, value) reports as CSV or
// XLSX, and Markdown reports as HTML.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gowoa/internal/errors"
	"gowoa/internal/report"
)

// Format is a tabular export format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv or xlsx in any case; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unsupported export format %q (want csv or xlsx)", s))
}

// FormatFromPath picks the format from a file extension, csv by default.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// ContentType returns the MIME type for f
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds a download name such as prediction_results_2025-01-02T15-04-05.csv
func FileName(kind string, f Format, now time.Time) string {
	return fmt.Sprintf("%s_results_%s.%s", kind, now.UTC().Format("2006-01-02T15-04-05"), f)
}

// Write renders rows in the given format. sheet names the XLSX worksheet.
func Write(w io.Writer, f Format, sheet string, rows []report.Row) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, sheet, rows)
	}
	return errors.InvalidInput(fmt.Sprintf("unsupported export format %q", f))
}

// WriteFile writes rows to path, choosing the format from its extension.
func WriteFile(path, sheet string, rows []report.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}
	if err := Write(file, FormatFromPath(path), sheet, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes the header and rows with CRLF line endings. Cells holding
// commas, quotes or newlines are quoted.
func WriteCSV(w io.Writer, rows []report.Row) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.WriteAll(report.Records(rows)); err != nil {
		return errors.Wrap(err, "failed to write csv export")
	}
	return nil
}

// WriteXLSX writes the header and rows to a single worksheet. Every cell is
// stored as text so rendered precision survives spreadsheet re-formatting.
func WriteXLSX(w io.Writer, sheet string, rows []report.Row) error {
	if sheet == "" {
		sheet = "Sheet1"
	}
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return errors.Wrap(err, "failed to name worksheet")
		}
	}

	for r, record := range report.Records(rows) {
		for c, v := range record {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return errors.Wrap(err, "failed to address cell")
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return errors.Wrap(err, "failed to write cell")
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return errors.Wrap(err, "failed to size columns")
	}
	if err := f.SetColWidth(sheet, "C", "C", 60); err != nil {
		return errors.Wrap(err, "failed to size columns")
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write xlsx export")
	}
	return nil
}
