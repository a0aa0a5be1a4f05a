package report

import (
	"sort"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

// UnknownBucket is the catch-all label for rows whose client lookup misses
// during region grouping. Kept as the Korean "other" label the dashboard has
// always displayed.
const UnknownBucket = "기타"

// TopN is the truncation limit for the product and client ranking charts.
const TopN = 10

// Bucket is one aggregation group: a derived key with the quantity and
// amount summed over its rows. Buckets are built fresh on every call, never
// mutated incrementally.
type Bucket struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Amount   int64   `json:"amount"`
}

// ByMonth sums the filtered set per YYYY-MM, sorted chronologically. Feeds
// the monthly trend chart.
func ByMonth(txs []domain.Transaction) []Bucket {
	buckets := accumulate(txs, func(tx domain.Transaction) (string, string) {
		m := tx.Month()
		return m, m
	})
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}

// ByRegion sums the filtered set per client region resolved through the
// index. Lookup misses land in the UnknownBucket rather than being dropped;
// this deliberately differs from the Filter engine's conservative exclusion.
// Sorted by amount descending, key ascending on ties.
func ByRegion(txs []domain.Transaction, idx *Index) []Bucket {
	buckets := accumulate(txs, func(tx domain.Transaction) (string, string) {
		if c, ok := idx.Client(tx.ClientCode); ok && c.Region != "" {
			return c.Region, c.Region
		}
		return UnknownBucket, UnknownBucket
	})
	sortByAmount(buckets)
	return buckets
}

// TopProducts ranks product codes by summed amount descending and truncates
// to limit. Ties break on key ascending so the ranking is deterministic.
func TopProducts(txs []domain.Transaction, limit int) []Bucket {
	buckets := accumulate(txs, func(tx domain.Transaction) (string, string) {
		return tx.ProductCode, tx.ProductCode
	})
	sortByAmount(buckets)
	return truncate(buckets, limit)
}

// TopClients ranks client codes by summed amount descending under the same
// tie rule as TopProducts. The label is the first raw client name seen for
// the code, falling back to the code itself.
func TopClients(txs []domain.Transaction, limit int) []Bucket {
	buckets := accumulate(txs, func(tx domain.Transaction) (string, string) {
		label := tx.ClientNameRaw
		if label == "" {
			label = tx.ClientCode
		}
		return tx.ClientCode, label
	})
	sortByAmount(buckets)
	return truncate(buckets, limit)
}

// ByCategory sums the filtered set per product category, with lookup misses
// in the UnknownBucket. Sorted by amount descending.
func ByCategory(txs []domain.Transaction, idx *Index) []Bucket {
	buckets := accumulate(txs, func(tx domain.Transaction) (string, string) {
		if p, ok := idx.Product(tx.ProductCode); ok && p.Category != "" {
			return p.Category, p.Category
		}
		return UnknownBucket, UnknownBucket
	})
	sortByAmount(buckets)
	return buckets
}

// accumulate groups txs by the derived key, summing quantity and amount.
// The first label seen for a key wins.
func accumulate(txs []domain.Transaction, keyFn func(domain.Transaction) (key, label string)) []Bucket {
	byKey := make(map[string]int, 16)
	buckets := make([]Bucket, 0, 16)
	for _, tx := range txs {
		key, label := keyFn(tx)
		i, ok := byKey[key]
		if !ok {
			i = len(buckets)
			byKey[key] = i
			buckets = append(buckets, Bucket{Key: key, Label: label})
		}
		buckets[i].Quantity += tx.Quantity
		buckets[i].Amount += tx.Amount
	}
	return buckets
}

func sortByAmount(buckets []Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Amount != buckets[j].Amount {
			return buckets[i].Amount > buckets[j].Amount
		}
		return buckets[i].Key < buckets[j].Key
	})
}

func truncate(buckets []Bucket, limit int) []Bucket {
	if limit > 0 && len(buckets) > limit {
		return buckets[:limit]
	}
	return buckets
}
