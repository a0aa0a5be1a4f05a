package sheet

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestRows(t *testing.T) {
	blob := workbook(t, [][]interface{}{
		{"date", "code", "amount"},
		{"2025-01-15", "42", "1500"},
	})

	rows, err := Rows(blob)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1][1] != "42" {
		t.Errorf("rows[1][1] = %q, want %q", rows[1][1], "42")
	}
}

func TestRows_BadBlob(t *testing.T) {
	if _, err := Rows([]byte("not a workbook")); err == nil {
		t.Error("expected error for malformed blob")
	}
}
