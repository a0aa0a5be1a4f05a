package domain

import "testing"

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0042", "42"},
		{"007", "7"},
		{"7", "7"},
		{"0", "0"},
		{"000", "0"},
		{"AB-01", "AB-01"},
		{" 0042 ", "42"},
		{"  AB-01  ", "AB-01"},
		{"", ""},
		{"   ", ""},
		{"12a", "12a"},
		{"00120", "120"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeCode(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeCode_Idempotent(t *testing.T) {
	inputs := []string{"0042", "AB-01", "0", "12345", "007x", ""}
	for _, in := range inputs {
		once := NormalizeCode(in)
		twice := NormalizeCode(once)
		if once != twice {
			t.Errorf("NormalizeCode not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeCode_NonNumericIdentity(t *testing.T) {
	// Non-numeric, non-empty codes must pass through unchanged (after trim).
	inputs := []string{"AB-01", "X007", "007B", "한글코드", "a"}
	for _, in := range inputs {
		if got := NormalizeCode(in); got != in {
			t.Errorf("NormalizeCode(%q) = %q, want identity", in, got)
		}
	}
}

func TestTransaction_Month(t *testing.T) {
	tx := Transaction{Date: "2024-03-15"}
	if got := tx.Month(); got != "2024-03" {
		t.Errorf("Month() = %q, want %q", got, "2024-03")
	}
	if got := tx.Year(); got != "2024" {
		t.Errorf("Year() = %q, want %q", got, "2024")
	}
	if got := tx.MonthNumber(); got != 3 {
		t.Errorf("MonthNumber() = %d, want 3", got)
	}
}

func TestTransaction_MonthNumber_Malformed(t *testing.T) {
	for _, date := range []string{"", "2024", "2024-xx-01", "2024-13-01", "2024-00-01"} {
		tx := Transaction{Date: date}
		if got := tx.MonthNumber(); got != 0 {
			t.Errorf("MonthNumber() for date %q = %d, want 0", date, got)
		}
	}
}
