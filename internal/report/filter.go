package report

import (
	"strings"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

// Field identifies one filterable dimension. Direct fields compare against
// the transaction itself; the rest are resolved through the reference index.
type Field string

const (
	FieldMonth   Field = "month"   // YYYY-MM prefix of the date
	FieldClient  Field = "client"  // normalized client code
	FieldProduct Field = "product" // normalized product code

	FieldClientName     Field = "clientName"
	FieldDomesticExport Field = "domesticExport"
	FieldCountry        Field = "country"
	FieldRegion         Field = "region"
	FieldDealerChain    Field = "dealerChain"

	FieldCPNCP    Field = "cpNcp"
	FieldCategory Field = "category"
	FieldBrand    Field = "brand"
	FieldTaste    Field = "taste"
	FieldPackage  Field = "package"
	FieldNote     Field = "note"
)

// FilterAll is the sentinel meaning "no constraint" for a field.
const FilterAll = "all"

// filterOrder fixes the evaluation order of fields: direct fields first
// (cheapest), then client-joined, then product-joined. Evaluation
// short-circuits on the first failing field.
var filterOrder = []Field{
	FieldMonth, FieldClient, FieldProduct,
	FieldClientName, FieldDomesticExport, FieldCountry, FieldRegion, FieldDealerChain,
	FieldCPNCP, FieldCategory, FieldBrand, FieldTaste, FieldPackage, FieldNote,
}

// FilterState holds the currently selected filter values plus the free-text
// search string. It lives only in memory for the duration of a session.
type FilterState struct {
	Values map[Field]string
	Search string
}

// NewFilterState returns an empty state, equivalent to every field set to
// FilterAll.
func NewFilterState() FilterState {
	return FilterState{Values: make(map[Field]string)}
}

// Set assigns a filter value; FilterAll and "" clear the constraint.
func (s *FilterState) Set(f Field, value string) {
	if s.Values == nil {
		s.Values = make(map[Field]string)
	}
	if value == "" || value == FilterAll {
		delete(s.Values, f)
		return
	}
	s.Values[f] = value
}

// active returns the constraint for f, with ok false when the field is
// unconstrained (unset, empty, or the FilterAll sentinel).
func (s FilterState) active(f Field) (string, bool) {
	v, ok := s.Values[f]
	if !ok || v == "" || v == FilterAll {
		return "", false
	}
	return v, true
}

// IsEmpty reports whether the state constrains nothing.
func (s FilterState) IsEmpty() bool {
	for _, f := range filterOrder {
		if _, ok := s.active(f); ok {
			return false
		}
	}
	return s.Search == ""
}

// Filter returns the subset of txs matching every active field, preserving
// the input's relative order. Fields are conjunctive. Joined fields use
// conservative exclusion: if the client or product lookup misses, the record
// fails every active filter that needed the join.
func Filter(txs []domain.Transaction, idx *Index, state FilterState) []domain.Transaction {
	if state.IsEmpty() {
		return txs
	}
	out := make([]domain.Transaction, 0, len(txs))
	search := strings.ToLower(state.Search)
	for _, tx := range txs {
		if matches(tx, idx, state, search) {
			out = append(out, tx)
		}
	}
	return out
}

func matches(tx domain.Transaction, idx *Index, state FilterState, search string) bool {
	var (
		client       domain.Client
		clientOK     bool
		clientLooked bool
		product      domain.Product
		productOK    bool
		prodLooked   bool
	)

	for _, f := range filterOrder {
		want, ok := state.active(f)
		if !ok {
			continue
		}

		switch f {
		case FieldMonth:
			if tx.Month() != want {
				return false
			}
		case FieldClient:
			if tx.ClientCode != want {
				return false
			}
		case FieldProduct:
			if tx.ProductCode != want {
				return false
			}

		case FieldClientName, FieldDomesticExport, FieldCountry, FieldRegion, FieldDealerChain:
			if !clientLooked {
				client, clientOK = idx.Client(tx.ClientCode)
				clientLooked = true
			}
			if !clientOK {
				return false
			}
			if clientField(client, f) != want {
				return false
			}

		case FieldCPNCP, FieldCategory, FieldBrand, FieldTaste, FieldPackage, FieldNote:
			if !prodLooked {
				product, productOK = idx.Product(tx.ProductCode)
				prodLooked = true
			}
			if !productOK {
				return false
			}
			if productField(product, f) != want {
				return false
			}
		}
	}

	if search != "" {
		name := strings.ToLower(tx.ClientNameRaw)
		code := strings.ToLower(tx.ProductCode)
		nameHit := name != "" && strings.Contains(name, search)
		codeHit := code != "" && strings.Contains(code, search)
		if !nameHit && !codeHit {
			return false
		}
	}

	return true
}

func clientField(c domain.Client, f Field) string {
	switch f {
	case FieldClientName:
		return c.NameRu
	case FieldDomesticExport:
		return c.DomesticExport
	case FieldCountry:
		return c.Country
	case FieldRegion:
		return c.Region
	case FieldDealerChain:
		return c.DealerChain
	}
	return ""
}

func productField(p domain.Product, f Field) string {
	switch f {
	case FieldCPNCP:
		return p.CPNCP
	case FieldCategory:
		return p.Category
	case FieldBrand:
		return p.Brand
	case FieldTaste:
		return p.Taste
	case FieldPackage:
		return p.Package
	case FieldNote:
		return p.Note
	}
	return ""
}
