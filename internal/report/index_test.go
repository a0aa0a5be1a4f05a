package report

import (
	"testing"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

func TestIndex_Lookup(t *testing.T) {
	idx := NewIndex(
		[]domain.Client{
			{ClientCode: "0042", NameRu: "Ромашка", Region: "Сибирь"},
			{ClientCode: "7", NameRu: "Лотос", Region: "Урал"},
		},
		[]domain.Product{
			{ProductCode: "P-01", Category: "스낵"},
		},
	)

	// Directory codes are normalized at build time: "0042" is found as "42".
	c, ok := idx.Client("42")
	if !ok {
		t.Fatal("expected client 42 to resolve")
	}
	if c.NameRu != "Ромашка" {
		t.Errorf("NameRu = %q", c.NameRu)
	}

	if _, ok := idx.Client("0042"); ok {
		t.Error("lookups use normalized keys; raw code must miss")
	}

	p, ok := idx.Product("P-01")
	if !ok || p.Category != "스낵" {
		t.Errorf("Product lookup = %+v, ok=%v", p, ok)
	}

	if _, ok := idx.Client("999"); ok {
		t.Error("unknown code must miss")
	}
}

func TestIndex_DuplicateFirstWins(t *testing.T) {
	idx := NewIndex(
		[]domain.Client{
			{ClientCode: "42", NameRu: "first"},
			{ClientCode: "042", NameRu: "second"}, // same normalized key
		},
		nil,
	)
	c, ok := idx.Client("42")
	if !ok {
		t.Fatal("expected lookup to resolve")
	}
	if c.NameRu != "first" {
		t.Errorf("NameRu = %q, want first occurrence", c.NameRu)
	}
	if idx.ClientCount() != 1 {
		t.Errorf("ClientCount = %d, want 1", idx.ClientCount())
	}
}

func TestIndex_ZeroCodeValid(t *testing.T) {
	idx := NewIndex([]domain.Client{{ClientCode: "0", NameRu: "zero"}}, nil)
	if _, ok := idx.Client("0"); !ok {
		t.Error("code 0 must be indexed")
	}
}
