package report

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

// MaxSaneAmount is the corruption ceiling for a single row's amount. Rows
// above it (10 billion rubles) are export artifacts and are dropped.
const MaxSaneAmount = 10_000_000_000

// serialEpochOffset is the number of days between the spreadsheet serial
// epoch (1899-12-30) and the Unix epoch.
const serialEpochOffset = 25569

// SalesLayout maps the fixed column positions of the sales export file.
// The export always carries the same layout: A date, B client code,
// D client name, F product code, I quantity, L amount, N order number,
// O discount percent.
type SalesLayout struct {
	Date        int
	ClientCode  int
	ClientName  int
	ProductCode int
	Quantity    int
	Amount      int
	OrderNumber int
	DiscountPct int
}

// DefaultSalesLayout is the column layout of the YYYYMMDD.xlsx exports.
var DefaultSalesLayout = SalesLayout{
	Date:        0,
	ClientCode:  1,
	ClientName:  3,
	ProductCode: 5,
	Quantity:    8,
	Amount:      11,
	OrderNumber: 13,
	DiscountPct: 14,
}

// ClientLayout maps the fixed column positions of the client directory sheet.
type ClientLayout struct {
	Code           int
	NameRu         int
	NameKr         int
	DomesticExport int
	Country        int
	Region         int
	DealerChain    int
}

// DefaultClientLayout is the column layout of the client DB sheet. Column F
// is unused by the dashboard and intentionally absent.
var DefaultClientLayout = ClientLayout{
	Code:           0,
	NameRu:         1,
	NameKr:         2,
	DomesticExport: 3,
	Country:        4,
	Region:         6,
	DealerChain:    7,
}

// ProductLayout maps the fixed column positions of the product reference sheet.
type ProductLayout struct {
	Code        int
	CPNCP       int
	SalesRegion int
	Category    int
	Brand       int
	Taste       int
	Package     int
	Note        int
}

// DefaultProductLayout is the column layout of the Product ref sheet.
var DefaultProductLayout = ProductLayout{
	Code:        0,
	CPNCP:       1,
	SalesRegion: 2,
	Category:    3,
	Brand:       4,
	Taste:       5,
	Package:     6,
	Note:        7,
}

// NormalizeRow converts one raw sales row into a Transaction. The second
// return value is false when the row must be skipped: missing date or code
// cells, an unparseable date, or an amount above MaxSaneAmount. It is a pure
// function of the row and layout.
func NormalizeRow(row []string, layout SalesLayout) (domain.Transaction, bool) {
	date := ParseDate(cell(row, layout.Date))
	clientCode := domain.NormalizeCode(cell(row, layout.ClientCode))
	productCode := domain.NormalizeCode(cell(row, layout.ProductCode))

	if date == "" || clientCode == "" || productCode == "" {
		return domain.Transaction{}, false
	}

	amount := parseFloat(cell(row, layout.Amount))
	if amount > MaxSaneAmount {
		return domain.Transaction{}, false
	}

	return domain.Transaction{
		Date:          date,
		ClientCode:    clientCode,
		ClientNameRaw: cell(row, layout.ClientName),
		ProductCode:   productCode,
		Quantity:      parseFloat(cell(row, layout.Quantity)),
		Amount:        int64(math.Round(amount)),
		OrderNumber:   cell(row, layout.OrderNumber),
		DiscountPct:   parseFloat(cell(row, layout.DiscountPct)),
	}, true
}

// NormalizeClientRow converts one raw client directory row. Rows whose code
// is empty after trimming are skipped; a literal "0" code is valid and kept.
func NormalizeClientRow(row []string, layout ClientLayout) (domain.Client, bool) {
	code := cell(row, layout.Code)
	if code == "" {
		return domain.Client{}, false
	}
	return domain.Client{
		ClientCode:     code,
		NameRu:         cell(row, layout.NameRu),
		NameKr:         cell(row, layout.NameKr),
		DomesticExport: cell(row, layout.DomesticExport),
		Country:        cell(row, layout.Country),
		Region:         cell(row, layout.Region),
		DealerChain:    cell(row, layout.DealerChain),
	}, true
}

// NormalizeProductRow converts one raw product reference row under the same
// skip rules as NormalizeClientRow.
func NormalizeProductRow(row []string, layout ProductLayout) (domain.Product, bool) {
	code := cell(row, layout.Code)
	if code == "" {
		return domain.Product{}, false
	}
	return domain.Product{
		ProductCode: code,
		CPNCP:       cell(row, layout.CPNCP),
		SalesRegion: cell(row, layout.SalesRegion),
		Category:    cell(row, layout.Category),
		Brand:       cell(row, layout.Brand),
		Taste:       cell(row, layout.Taste),
		Package:     cell(row, layout.Package),
		Note:        cell(row, layout.Note),
	}, true
}

// ParseDate converts a raw date cell into a YYYY-MM-DD string, or "" if the
// value cannot be interpreted as a date. Accepted inputs: a spreadsheet
// serial day count (days since 1899-12-30), or a date string in one of the
// layouts the exports have been seen to produce.
func ParseDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// Numeric cell: classic spreadsheet serial.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return ""
		}
		secs := (serial - serialEpochOffset) * 86400
		return time.Unix(int64(secs), 0).UTC().Format("2006-01-02")
	}

	layouts := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006/01/02",
		"01/02/2006",
		"02.01.2006",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// cell returns the trimmed value at index i, tolerating short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseFloat parses a numeric cell, defaulting to 0 when unparseable. The
// exports occasionally carry thousands separators; those are stripped first.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
