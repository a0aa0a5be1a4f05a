package gcstore

import "testing"

func TestStamp(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"sales/20250815.xlsx", "20250815"},
		{"sales/nested/20240101.xlsx", "20240101"},
		{"sales/readme.txt", ""},
		{"sales/2025.xlsx", ""},
	}
	for _, tt := range tests {
		if got := stamp(tt.name); got != tt.want {
			t.Errorf("stamp(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDatedObjectPattern(t *testing.T) {
	if !datedObjectPattern.MatchString("sales/20250815.xlsx") {
		t.Error("expected match for dated workbook")
	}
	if datedObjectPattern.MatchString("sales/20250815.csv") {
		t.Error("unexpected match for non-xlsx object")
	}
}
