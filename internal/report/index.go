package report

import (
	"github.com/dvloznov/sales-dashboard/internal/domain"
)

// Index provides O(1) lookups into the client and product directories, keyed
// by normalized code so that join keys match the codes produced by
// NormalizeRow. Duplicate codes keep the first occurrence; that mirrors the
// directories' documented first-match semantics, it is not an invariant of
// the data.
//
// An Index is immutable after construction and safe for concurrent readers.
// It is rebuilt whenever the underlying directories reload.
type Index struct {
	clients  map[string]domain.Client
	products map[string]domain.Product
}

// NewIndex builds lookup maps over the given directories in O(n).
func NewIndex(clients []domain.Client, products []domain.Product) *Index {
	idx := &Index{
		clients:  make(map[string]domain.Client, len(clients)),
		products: make(map[string]domain.Product, len(products)),
	}
	for _, c := range clients {
		key := domain.NormalizeCode(c.ClientCode)
		if _, dup := idx.clients[key]; !dup {
			idx.clients[key] = c
		}
	}
	for _, p := range products {
		key := domain.NormalizeCode(p.ProductCode)
		if _, dup := idx.products[key]; !dup {
			idx.products[key] = p
		}
	}
	return idx
}

// Client looks up a client by normalized code. A miss is not an error;
// callers treat it as the unknown ("기타") category.
func (idx *Index) Client(code string) (domain.Client, bool) {
	c, ok := idx.clients[code]
	return c, ok
}

// Product looks up a product by normalized code under the same miss
// semantics as Client.
func (idx *Index) Product(code string) (domain.Product, bool) {
	p, ok := idx.products[code]
	return p, ok
}

// ClientCount reports the number of distinct indexed client codes.
func (idx *Index) ClientCount() int { return len(idx.clients) }

// ProductCount reports the number of distinct indexed product codes.
func (idx *Index) ProductCount() int { return len(idx.products) }
