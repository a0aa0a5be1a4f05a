package report

import (
	"sort"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

// ClientOption is one selectable client in the filter dropdown.
type ClientOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// FilterOptions are the selectable values for each filter control, derived
// from the loaded tables. Every list implicitly starts with the FilterAll
// sentinel on the UI side.
type FilterOptions struct {
	Months     []string       `json:"months"` // distinct YYYY-MM, newest first
	Clients    []ClientOption `json:"clients"`
	Regions    []string       `json:"regions"`
	Products   []string       `json:"products"`
	Categories []string       `json:"categories"`
}

// Options enumerates filter values from the loaded tables: months come from
// the sales data, regions from the client directory, categories from the
// product directory.
func Options(txs []domain.Transaction, clients []domain.Client, products []domain.Product) FilterOptions {
	var opts FilterOptions

	opts.Months = distinct(txs, func(tx domain.Transaction) string { return tx.Month() })
	sort.Sort(sort.Reverse(sort.StringSlice(opts.Months)))

	opts.Clients = make([]ClientOption, 0, len(clients))
	for _, c := range clients {
		opts.Clients = append(opts.Clients, ClientOption{
			Code: domain.NormalizeCode(c.ClientCode),
			Name: c.NameRu,
		})
	}

	opts.Regions = distinct(clients, func(c domain.Client) string { return c.Region })
	opts.Categories = distinct(products, func(p domain.Product) string { return p.Category })

	opts.Products = make([]string, 0, len(products))
	for _, p := range products {
		opts.Products = append(opts.Products, domain.NormalizeCode(p.ProductCode))
	}

	return opts
}

// distinct collects non-empty derived values in first-seen order.
func distinct[T any](items []T, get func(T) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		v := get(it)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
