package report

import (
	"github.com/dvloznov/sales-dashboard/internal/domain"
)

// Column maps a business field to its display label and an optional scale
// factor applied when rendering numeric cells. One table drives both the
// on-screen header row and the exported file header, so the two can never
// drift apart.
type Column struct {
	Key   string
	Label string
	Scale float64 // 0 means unscaled
}

// TableColumns is the column configuration of the sales table view and its
// export.
var TableColumns = []Column{
	{Key: "date", Label: "날짜"},
	{Key: "clientCode", Label: "거래처코드"},
	{Key: "clientName", Label: "거래처명"},
	{Key: "country", Label: "나라"},
	{Key: "region", Label: "지역"},
	{Key: "productCode", Label: "제품코드"},
	{Key: "category", Label: "대분류"},
	{Key: "quantity", Label: "수량(박스)"},
	{Key: "amount", Label: "금액(루블)"},
	{Key: "orderNumber", Label: "주문번호"},
	{Key: "discount", Label: "할인율(%)"},
}

// YoYColumnsFor builds the column configuration of the year-over-year
// report export for a given year pair. Amount columns render in millions of
// rubles.
func YoYColumnsFor(prevYear, currYear string) []Column {
	return []Column{
		{Key: "country", Label: "나라"},
		{Key: "clientCode", Label: "거래처코드"},
		{Key: "nameRu", Label: "거래처명(러시아어)"},
		{Key: "nameKr", Label: "거래처명(한국어)"},
		{Key: "prevCumulative", Label: prevYear + " 누적(백만루블)", Scale: 1e-6},
		{Key: "currCumulative", Label: currYear + " 누적(백만루블)", Scale: 1e-6},
		{Key: "changePct", Label: "증감률(%)"},
		{Key: "prevDecember", Label: prevYear + " 12월(백만루블)", Scale: 1e-6},
		{Key: "currDecember", Label: currYear + " 12월(백만루블)", Scale: 1e-6},
		{Key: "target", Label: "목표(백만루블)", Scale: 1e-6},
		{Key: "achievementPct", Label: "달성률(%)"},
		{Key: "remaining", Label: "잔여(백만루블)", Scale: 1e-6},
		{Key: "confirmed", Label: "주문확정(백만루블)", Scale: 1e-6},
		{Key: "note", Label: "비고"},
	}
}

// YoYColumns is the export configuration for the default year pair.
var YoYColumns = YoYColumnsFor(DefaultPrevYear, DefaultCurrYear)

// Labels extracts the header label row from a column configuration.
func Labels(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Label
	}
	return out
}

// JoinedRow is one fully joined display row handed to the exporter and the
// table view: every client and product field already resolved to a display
// string, since the export surface is presentation-only.
type JoinedRow struct {
	Date        string  `json:"date"`
	ClientCode  string  `json:"clientCode"`
	ClientName  string  `json:"clientName"`
	Country     string  `json:"country"`
	Region      string  `json:"region"`
	ProductCode string  `json:"productCode"`
	Category    string  `json:"category"`
	Quantity    float64 `json:"quantity"`
	Amount      int64   `json:"amount"`
	OrderNumber string  `json:"orderNumber"`
	DiscountPct float64 `json:"discount"`
}

// JoinRows resolves every transaction against the reference index. The
// client name prefers the directory's Russian name over the raw export name;
// unresolved country, region and category fall to UnknownBucket, matching
// the chart aggregator's policy.
func JoinRows(txs []domain.Transaction, idx *Index) []JoinedRow {
	out := make([]JoinedRow, 0, len(txs))
	for _, tx := range txs {
		row := JoinedRow{
			Date:        tx.Date,
			ClientCode:  tx.ClientCode,
			ClientName:  tx.ClientNameRaw,
			Country:     UnknownBucket,
			Region:      UnknownBucket,
			ProductCode: tx.ProductCode,
			Category:    UnknownBucket,
			Quantity:    tx.Quantity,
			Amount:      tx.Amount,
			OrderNumber: tx.OrderNumber,
			DiscountPct: tx.DiscountPct,
		}
		if c, ok := idx.Client(tx.ClientCode); ok {
			if c.NameRu != "" {
				row.ClientName = c.NameRu
			}
			if c.Country != "" {
				row.Country = c.Country
			}
			if c.Region != "" {
				row.Region = c.Region
			}
		}
		if p, ok := idx.Product(tx.ProductCode); ok && p.Category != "" {
			row.Category = p.Category
		}
		out = append(out, row)
	}
	return out
}

// Cell resolves one column of a joined row to its export cell value,
// applying the column's scale factor to numeric fields.
func (r JoinedRow) Cell(col Column) any {
	switch col.Key {
	case "date":
		return r.Date
	case "clientCode":
		return r.ClientCode
	case "clientName":
		return r.ClientName
	case "country":
		return r.Country
	case "region":
		return r.Region
	case "productCode":
		return r.ProductCode
	case "category":
		return r.Category
	case "quantity":
		return scaled(r.Quantity, col.Scale)
	case "amount":
		return scaled(float64(r.Amount), col.Scale)
	case "orderNumber":
		return r.OrderNumber
	case "discount":
		return scaled(r.DiscountPct, col.Scale)
	}
	return ""
}

// Cell resolves one column of a derived YoY row to its export cell value.
func (d DerivedRow) Cell(col Column) any {
	switch col.Key {
	case "country":
		return d.Country
	case "clientCode":
		return d.ClientCode
	case "nameRu":
		return d.NameRu
	case "nameKr":
		return d.NameKr
	case "prevCumulative":
		return scaled(float64(d.PrevCumulative), col.Scale)
	case "currCumulative":
		return scaled(float64(d.CurrCumulative), col.Scale)
	case "changePct":
		return d.ChangePct
	case "prevDecember":
		return scaled(float64(d.PrevDecember), col.Scale)
	case "currDecember":
		return scaled(float64(d.CurrDecember), col.Scale)
	case "target":
		return scaled(float64(d.TargetAmount), col.Scale)
	case "achievementPct":
		return d.AchievementPct
	case "remaining":
		return scaled(float64(d.RemainingAmount), col.Scale)
	case "confirmed":
		return scaled(float64(d.ConfirmedAmount), col.Scale)
	case "note":
		return d.Note
	}
	return ""
}

func scaled(v, scale float64) float64 {
	if scale == 0 {
		return v
	}
	return v * scale
}
