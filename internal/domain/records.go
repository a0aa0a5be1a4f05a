package domain

// Transaction is one normalized sales row extracted from the dated export
// file. Date is always a YYYY-MM-DD calendar date, ClientCode and ProductCode
// are normalized join keys (see NormalizeCode) and are never empty; rows that
// cannot satisfy that are dropped during normalization.
type Transaction struct {
	Date          string  // YYYY-MM-DD
	ClientCode    string  // normalized join key
	ClientNameRaw string  // client name as it appears in the export (Russian)
	ProductCode   string  // normalized join key
	Quantity      float64 // boxes
	Amount        int64   // excl. VAT, rounded to whole rubles
	OrderNumber   string
	DiscountPct   float64
}

// Month returns the YYYY-MM prefix of the transaction date.
func (t Transaction) Month() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

// Year returns the YYYY prefix of the transaction date.
func (t Transaction) Year() string {
	if len(t.Date) < 4 {
		return t.Date
	}
	return t.Date[:4]
}

// MonthNumber returns the calendar month (1..12), or 0 if the date is not a
// well-formed YYYY-MM-DD string.
func (t Transaction) MonthNumber() int {
	if len(t.Date) < 7 {
		return 0
	}
	m := 0
	for _, r := range t.Date[5:7] {
		if r < '0' || r > '9' {
			return 0
		}
		m = m*10 + int(r-'0')
	}
	if m < 1 || m > 12 {
		return 0
	}
	return m
}

// Client is one row of the client directory. ClientCode is trimmed and
// non-empty; the directory may contain duplicate codes, in which case lookups
// return the first occurrence.
type Client struct {
	ClientCode     string
	NameRu         string
	NameKr         string
	DomesticExport string // 내수/수출 flag
	Country        string
	Region         string // per export country
	DealerChain    string // 대리점/연방체인 flag
}

// Product is one row of the product reference table, keyed by ProductCode
// under the same first-match semantics as Client.
type Product struct {
	ProductCode string
	CPNCP       string
	SalesRegion string
	Category    string
	Brand       string
	Taste       string
	Package     string
	Note        string
}
