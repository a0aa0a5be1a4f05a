package report

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

// Direction selects sort order for the table view.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// sortValue is one record's resolved comparison value. When both compared
// values are numeric the comparison is numeric; otherwise both sides fall
// back to their string form under locale-aware collation.
type sortValue struct {
	str     string
	num     float64
	numeric bool
}

func strValue(s string) sortValue  { return sortValue{str: s} }
func numValue(f float64) sortValue { return sortValue{num: f, numeric: true} }

// columnResolver produces the comparison value for one table column. Client
// and product columns resolve through the index; a lookup miss yields the
// zero record, so those rows compare as empty strings rather than erroring.
type columnResolver func(tx domain.Transaction, idx *Index) sortValue

// sortColumns maps every sortable column identifier of the table view to its
// resolver. Identifiers follow the on-screen column keys; client and product
// directory columns are prefixed with their table.
var sortColumns = map[string]columnResolver{
	"date":        func(tx domain.Transaction, _ *Index) sortValue { return strValue(tx.Date) },
	"clientCode":  func(tx domain.Transaction, _ *Index) sortValue { return codeValue(tx.ClientCode) },
	"clientName":  func(tx domain.Transaction, _ *Index) sortValue { return strValue(tx.ClientNameRaw) },
	"productCode": func(tx domain.Transaction, _ *Index) sortValue { return codeValue(tx.ProductCode) },
	"quantity":    func(tx domain.Transaction, _ *Index) sortValue { return numValue(tx.Quantity) },
	"amount":      func(tx domain.Transaction, _ *Index) sortValue { return numValue(float64(tx.Amount)) },
	"orderNumber": func(tx domain.Transaction, _ *Index) sortValue { return strValue(tx.OrderNumber) },
	"discount":    func(tx domain.Transaction, _ *Index) sortValue { return numValue(tx.DiscountPct) },

	"client.nameRu":         clientColumn(func(c domain.Client) string { return c.NameRu }),
	"client.nameKr":         clientColumn(func(c domain.Client) string { return c.NameKr }),
	"client.domesticExport": clientColumn(func(c domain.Client) string { return c.DomesticExport }),
	"client.country":        clientColumn(func(c domain.Client) string { return c.Country }),
	"client.region":         clientColumn(func(c domain.Client) string { return c.Region }),
	"client.dealerChain":    clientColumn(func(c domain.Client) string { return c.DealerChain }),

	"product.cpNcp":       productColumn(func(p domain.Product) string { return p.CPNCP }),
	"product.salesRegion": productColumn(func(p domain.Product) string { return p.SalesRegion }),
	"product.category":    productColumn(func(p domain.Product) string { return p.Category }),
	"product.brand":       productColumn(func(p domain.Product) string { return p.Brand }),
	"product.taste":       productColumn(func(p domain.Product) string { return p.Taste }),
	"product.package":     productColumn(func(p domain.Product) string { return p.Package }),
	"product.note":        productColumn(func(p domain.Product) string { return p.Note }),
}

func clientColumn(get func(domain.Client) string) columnResolver {
	return func(tx domain.Transaction, idx *Index) sortValue {
		c, _ := idx.Client(tx.ClientCode) // miss -> zero record
		return codeValue(get(c))
	}
}

func productColumn(get func(domain.Product) string) columnResolver {
	return func(tx domain.Transaction, idx *Index) sortValue {
		p, _ := idx.Product(tx.ProductCode)
		return codeValue(get(p))
	}
}

// codeValue treats purely numeric strings as numbers so that code columns
// sort 7 < 42 < 120 instead of lexicographically.
func codeValue(s string) sortValue {
	if s == "" {
		return strValue(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v := numValue(f)
		v.str = s
		return v
	}
	return strValue(s)
}

// Sort returns a new ordering of txs by the given column and direction.
// Unknown column identifiers fall back to date. The sort is explicitly
// stable: rows that compare equal keep their original relative order, which
// keeps repeated renders deterministic.
func Sort(txs []domain.Transaction, idx *Index, column string, dir Direction) []domain.Transaction {
	resolve, ok := sortColumns[column]
	if !ok {
		resolve = sortColumns["date"]
	}

	keys := make([]sortValue, len(txs))
	for i, tx := range txs {
		keys[i] = resolve(tx, idx)
	}

	order := make([]int, len(txs))
	for i := range order {
		order[i] = i
	}

	coll := collate.New(language.Und)
	sort.SliceStable(order, func(a, b int) bool {
		cmp := compareValues(coll, keys[order[a]], keys[order[b]])
		if dir == Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	out := make([]domain.Transaction, len(txs))
	for i, j := range order {
		out[i] = txs[j]
	}
	return out
}

func compareValues(coll *collate.Collator, a, b sortValue) int {
	if a.numeric && b.numeric {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
	return coll.CompareString(a.asString(), b.asString())
}

func (v sortValue) asString() string {
	if v.numeric && v.str == "" {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}
