package report

// Page slices rows for one table page. page is 1-based; out-of-range pages
// return an empty slice. perPage <= 0 falls back to 100, the table default.
func Page[T any](rows []T, page, perPage int) []T {
	if perPage <= 0 {
		perPage = 100
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(rows) {
		return nil
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// PageCount reports the number of pages needed for total rows.
func PageCount(total, perPage int) int {
	if perPage <= 0 {
		perPage = 100
	}
	if total == 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
