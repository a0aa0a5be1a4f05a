package report

import (
	"testing"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

func yoyTables() ([]domain.Transaction, *Index) {
	txs := []domain.Transaction{
		{Date: "2024-03-01", ClientCode: "7", Amount: 100, ProductCode: "1"},
		{Date: "2025-03-01", ClientCode: "7", Amount: 150, ProductCode: "1"},
		{Date: "2024-12-05", ClientCode: "7", Amount: 40, ProductCode: "1"},
		{Date: "2025-12-05", ClientCode: "7", Amount: 60, ProductCode: "1"},
		{Date: "2025-06-01", ClientCode: "7", Amount: 999, ProductCode: "1"}, // after end month 3
		{Date: "2025-02-01", ClientCode: "8", Amount: 500, ProductCode: "1"},
		{Date: "2025-01-15", ClientCode: "404", Amount: 777, ProductCode: "1"}, // no directory entry
		{Date: "2023-03-01", ClientCode: "7", Amount: 111, ProductCode: "1"},   // outside both years
	}
	idx := NewIndex([]domain.Client{
		{ClientCode: "7", NameRu: "Семёрка", NameKr: "세븐", Country: "RU"},
		{ClientCode: "8", NameRu: "Восьмёрка", Country: "KZ"},
	}, nil)
	return txs, idx
}

func TestYearOverYear(t *testing.T) {
	txs, idx := yoyTables()
	rep := YearOverYear(txs, idx, 3)

	if len(rep.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (unresolved client excluded)", len(rep.Rows))
	}

	// Country ascending: KZ before RU.
	if rep.Rows[0].Country != "KZ" || rep.Rows[1].Country != "RU" {
		t.Errorf("country order = %q, %q", rep.Rows[0].Country, rep.Rows[1].Country)
	}

	row := rep.Rows[1]
	if row.ClientCode != "7" || row.NameRu != "Семёрка" || row.NameKr != "세븐" {
		t.Fatalf("row identity = %+v", row)
	}
	if row.PrevCumulative != 100 {
		t.Errorf("PrevCumulative = %d, want 100", row.PrevCumulative)
	}
	if row.CurrCumulative != 150 {
		t.Errorf("CurrCumulative = %d (June row must not count toward end month 3), want 150", row.CurrCumulative)
	}
	if row.PrevDecember != 40 || row.CurrDecember != 60 {
		t.Errorf("December = %d/%d, want 40/60", row.PrevDecember, row.CurrDecember)
	}
	if pct := PercentChange(row.PrevCumulative, row.CurrCumulative); pct != 50.0 {
		t.Errorf("percent change = %v, want 50.0", pct)
	}
}

func TestYearOverYear_ExcludesLookupMisses(t *testing.T) {
	txs, idx := yoyTables()
	rep := YearOverYear(txs, idx, 12)
	for _, row := range rep.Rows {
		if row.ClientCode == "404" {
			t.Error("transactions with unresolved clients must be excluded from the YoY report")
		}
	}
}

func TestYearOverYear_EndMonthClamped(t *testing.T) {
	txs, idx := yoyTables()
	if rep := YearOverYear(txs, idx, 0); rep.EndMonth != 1 {
		t.Errorf("EndMonth = %d, want clamp to 1", rep.EndMonth)
	}
	if rep := YearOverYear(txs, idx, 99); rep.EndMonth != 12 {
		t.Errorf("EndMonth = %d, want clamp to 12", rep.EndMonth)
	}
}

func TestYearOverYear_SortWithinCountry(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-01-01", ClientCode: "1", Amount: 100, ProductCode: "1"},
		{Date: "2025-01-01", ClientCode: "2", Amount: 300, ProductCode: "1"},
		{Date: "2025-01-01", ClientCode: "3", Amount: 200, ProductCode: "1"},
	}
	idx := NewIndex([]domain.Client{
		{ClientCode: "1", Country: "RU"},
		{ClientCode: "2", Country: "RU"},
		{ClientCode: "3", Country: "RU"},
	}, nil)

	rep := YearOverYear(txs, idx, 12)
	want := []string{"2", "3", "1"} // current-year cumulative descending
	for i, row := range rep.Rows {
		if row.ClientCode != want[i] {
			t.Fatalf("order = %v, want %v", rep.Rows, want)
		}
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		prev, curr int64
		want       float64
	}{
		{100, 150, 50},
		{100, 50, -50},
		{0, 0, 0},    // flat zero base
		{0, 500, 100}, // growth from zero base
		{200, 200, 0},
	}
	for _, tt := range tests {
		if got := PercentChange(tt.prev, tt.curr); got != tt.want {
			t.Errorf("PercentChange(%d, %d) = %v, want %v", tt.prev, tt.curr, got, tt.want)
		}
	}
}

func TestCountryTotals(t *testing.T) {
	txs, idx := yoyTables()
	totals := CountryTotals(YearOverYear(txs, idx, 3))
	if len(totals) != 2 {
		t.Fatalf("got %d totals, want 2", len(totals))
	}
	ru := totals[1]
	if ru.Country != "RU" || ru.PrevCumulative != 100 || ru.CurrCumulative != 150 {
		t.Errorf("RU subtotal = %+v", ru)
	}
	if ru.ChangePct != 50.0 {
		t.Errorf("RU change = %v, want 50.0", ru.ChangePct)
	}
}

func TestDerive_AnnotationsSurviveResort(t *testing.T) {
	txs, idx := yoyTables()
	ann := NewAnnotations()
	ann.Set(AnnotationKey("RU", "7"), Annotation{Target: 300, Confirmed: 120, Note: "확정 대기"})

	rep := YearOverYear(txs, idx, 3)
	derived := Derive(rep, ann)

	var found *DerivedRow
	for i := range derived {
		if derived[i].ClientCode == "7" {
			found = &derived[i]
		}
	}
	if found == nil {
		t.Fatal("row for client 7 missing")
	}
	if found.TargetAmount != 300 || found.ConfirmedAmount != 120 || found.Note != "확정 대기" {
		t.Errorf("annotation not attached: %+v", found)
	}
	if found.AchievementPct != 50.0 {
		t.Errorf("achievement = %v, want 50.0 (150 of 300)", found.AchievementPct)
	}
	if found.RemainingAmount != 150 {
		t.Errorf("remaining = %d, want 150", found.RemainingAmount)
	}

	// A different end month reshuffles amounts and hence ordering; the
	// annotation must still follow the same (country, client) identity.
	derived = Derive(YearOverYear(txs, idx, 12), ann)
	for _, d := range derived {
		if d.ClientCode == "7" && d.TargetAmount != 300 {
			t.Error("annotation lost after re-aggregation")
		}
		if d.ClientCode != "7" && d.TargetAmount != 0 {
			t.Errorf("annotation attached to wrong row: %+v", d)
		}
	}
}

func TestDerive_NoAnnotations(t *testing.T) {
	txs, idx := yoyTables()
	derived := Derive(YearOverYear(txs, idx, 3), nil)
	for _, d := range derived {
		if d.TargetAmount != 0 || d.AchievementPct != 0 {
			t.Errorf("unexpected derivation without annotations: %+v", d)
		}
	}
}
