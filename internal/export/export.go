// Package export renders report tables as downloadable xlsx workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/sales-dashboard/internal/report"
)

const sheetName = "Sheet1"

// WriteTable renders the joined sales table with a header row built from
// the column labels.
func WriteTable(cols []report.Column, rows []report.JoinedRow) ([]byte, error) {
	return write(cols, len(rows), func(i int, col report.Column) any {
		return rows[i].Cell(col)
	})
}

// WriteYoY renders the year-over-year comparison table.
func WriteYoY(cols []report.Column, rows []report.DerivedRow) ([]byte, error) {
	return write(cols, len(rows), func(i int, col report.Column) any {
		return rows[i].Cell(col)
	})
}

func write(cols []report.Column, n int, cell func(i int, col report.Column) any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(cols))
	for i, label := range report.Labels(cols) {
		header[i] = label
	}
	if err := setRow(f, 1, header); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		values := make([]any, len(cols))
		for j, col := range cols {
			values[j] = cell(i, col)
		}
		if err := setRow(f, i+2, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
