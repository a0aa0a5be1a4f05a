package report

import (
	"testing"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

func TestJoinRows(t *testing.T) {
	txs, idx := testTables()
	rows := JoinRows(txs, idx)
	if len(rows) != len(txs) {
		t.Fatalf("got %d rows, want %d", len(rows), len(txs))
	}

	// Resolved client: directory name wins over the raw export name.
	if rows[0].ClientName != "Ромашка" || rows[0].Country != "RU" || rows[0].Region != "Сибирь" {
		t.Errorf("joined row = %+v", rows[0])
	}
	if rows[0].Category != "스낵" {
		t.Errorf("category = %q", rows[0].Category)
	}

	// Unresolved client/product fall to the unknown label, and the raw name
	// survives since there is nothing better.
	last := rows[3]
	if last.ClientName != "Неизвестный" {
		t.Errorf("raw name must survive a lookup miss, got %q", last.ClientName)
	}
	if last.Country != UnknownBucket || last.Region != UnknownBucket || last.Category != UnknownBucket {
		t.Errorf("unresolved fields = %q/%q/%q, want %q", last.Country, last.Region, last.Category, UnknownBucket)
	}
}

func TestLabels(t *testing.T) {
	labels := Labels(TableColumns)
	if len(labels) != len(TableColumns) {
		t.Fatalf("got %d labels", len(labels))
	}
	if labels[0] != "날짜" || labels[len(labels)-1] != "할인율(%)" {
		t.Errorf("labels = %v", labels)
	}
}

func TestJoinedRow_CellScaling(t *testing.T) {
	r := JoinedRow{Amount: 2_000_000}
	col := Column{Key: "amount", Scale: 1e-6}
	if got := r.Cell(col); got != 2.0 {
		t.Errorf("scaled cell = %v, want 2.0", got)
	}
	if got := r.Cell(Column{Key: "amount"}); got != 2_000_000.0 {
		t.Errorf("unscaled cell = %v", got)
	}
}

func TestDerivedRow_Cell(t *testing.T) {
	d := DerivedRow{
		YoYRow:       YoYRow{Country: "RU", ClientCode: "7", CurrCumulative: 3_000_000},
		ChangePct:    50,
		TargetAmount: 6_000_000,
	}
	cols := YoYColumnsFor("2024", "2025")
	byKey := make(map[string]Column)
	for _, c := range cols {
		byKey[c.Key] = c
	}
	if got := d.Cell(byKey["currCumulative"]); got != 3.0 {
		t.Errorf("currCumulative cell = %v, want 3.0 (millions)", got)
	}
	if got := d.Cell(byKey["changePct"]); got != 50.0 {
		t.Errorf("changePct cell = %v", got)
	}
	if got := d.Cell(byKey["country"]); got != "RU" {
		t.Errorf("country cell = %v", got)
	}
}

func TestOptions(t *testing.T) {
	txs, _ := testTables()
	clients := []domain.Client{
		{ClientCode: "0042", NameRu: "Ромашка", Region: "Сибирь"},
		{ClientCode: "2", NameRu: "Лотос", Region: "Алматы"},
		{ClientCode: "3", NameRu: "Тюльпан", Region: "Сибирь"}, // duplicate region
	}
	products := []domain.Product{
		{ProductCode: "P-01", Category: "스낵"},
		{ProductCode: "P-02", Category: "음료"},
	}

	opts := Options(txs, clients, products)

	if len(opts.Months) != 2 || opts.Months[0] != "2024-02" {
		t.Errorf("months = %v, want newest first", opts.Months)
	}
	if len(opts.Regions) != 2 {
		t.Errorf("regions = %v, want distinct values", opts.Regions)
	}
	if opts.Clients[0].Code != "42" {
		t.Errorf("client option code = %q, want normalized", opts.Clients[0].Code)
	}
	if len(opts.Categories) != 2 || len(opts.Products) != 2 {
		t.Errorf("categories=%v products=%v", opts.Categories, opts.Products)
	}
}
