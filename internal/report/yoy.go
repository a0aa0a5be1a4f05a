package report

import (
	"sort"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

// Default comparison years of the year-over-year report. The report always
// compares exactly two consecutive calendar years; transactions outside both
// are ignored.
const (
	DefaultPrevYear = "2024"
	DefaultCurrYear = "2025"
)

// YoYRow is one (country, client) group of the year-over-year report.
// Cumulative figures cover months 1..EndMonth of each year; December is
// tracked separately for the year-end columns.
type YoYRow struct {
	Country    string `json:"country"`
	ClientCode string `json:"clientCode"`
	NameRu     string `json:"nameRu"`
	NameKr     string `json:"nameKr"`

	PrevCumulative int64 `json:"prevCumulative"`
	CurrCumulative int64 `json:"currCumulative"`
	PrevDecember   int64 `json:"prevDecember"`
	CurrDecember   int64 `json:"currDecember"`
}

// Key returns the stable identity of the row, used to attach user-entered
// annotations. It must never depend on the row's position in the report.
func (r YoYRow) Key() string {
	return AnnotationKey(r.Country, r.ClientCode)
}

// YoYReport is the year-over-year comparison over the full (unfiltered)
// transaction set.
type YoYReport struct {
	PrevYear string   `json:"prevYear"`
	CurrYear string   `json:"currYear"`
	EndMonth int      `json:"endMonth"`
	Rows     []YoYRow `json:"rows"`
}

// YearOverYear builds the report for the default 2024/2025 year pair.
func YearOverYear(txs []domain.Transaction, idx *Index, endMonth int) YoYReport {
	return YearOverYearBetween(txs, idx, endMonth, DefaultPrevYear, DefaultCurrYear)
}

// YearOverYearBetween partitions txs into the two year cohorts, groups each
// by (country, clientCode) resolved through the client lookup, and
// accumulates cumulative amounts for months 1..endMonth plus the December
// amount per year. Transactions whose client lookup misses are excluded
// entirely; unlike the chart aggregator there is no unknown bucket here.
//
// Rows are sorted by country ascending, then current-year cumulative amount
// descending, then client code ascending.
func YearOverYearBetween(txs []domain.Transaction, idx *Index, endMonth int, prevYear, currYear string) YoYReport {
	if endMonth < 1 {
		endMonth = 1
	}
	if endMonth > 12 {
		endMonth = 12
	}

	byKey := make(map[string]int)
	rows := make([]YoYRow, 0, 64)

	for _, tx := range txs {
		year := tx.Year()
		if year != prevYear && year != currYear {
			continue
		}
		month := tx.MonthNumber()
		if month == 0 {
			continue
		}

		client, ok := idx.Client(tx.ClientCode)
		if !ok {
			continue
		}

		key := AnnotationKey(client.Country, tx.ClientCode)
		i, seen := byKey[key]
		if !seen {
			i = len(rows)
			byKey[key] = i
			rows = append(rows, YoYRow{
				Country:    client.Country,
				ClientCode: tx.ClientCode,
				NameRu:     client.NameRu,
				NameKr:     client.NameKr,
			})
		}

		cumulative := month <= endMonth
		december := month == 12
		if year == prevYear {
			if cumulative {
				rows[i].PrevCumulative += tx.Amount
			}
			if december {
				rows[i].PrevDecember += tx.Amount
			}
		} else {
			if cumulative {
				rows[i].CurrCumulative += tx.Amount
			}
			if december {
				rows[i].CurrDecember += tx.Amount
			}
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Country != rows[b].Country {
			return rows[a].Country < rows[b].Country
		}
		if rows[a].CurrCumulative != rows[b].CurrCumulative {
			return rows[a].CurrCumulative > rows[b].CurrCumulative
		}
		return rows[a].ClientCode < rows[b].ClientCode
	})

	return YoYReport{
		PrevYear: prevYear,
		CurrYear: currYear,
		EndMonth: endMonth,
		Rows:     rows,
	}
}

// PercentChange computes (curr-prev)/prev*100 with the dashboard's zero
// conventions: 0 when both periods are 0, 100 when growing from a zero base.
func PercentChange(prev, curr int64) float64 {
	if prev == 0 {
		if curr == 0 {
			return 0
		}
		return 100
	}
	return float64(curr-prev) / float64(prev) * 100
}

// CountryTotal is the per-country subtotal of the YoY report.
type CountryTotal struct {
	Country        string  `json:"country"`
	PrevCumulative int64   `json:"prevCumulative"`
	CurrCumulative int64   `json:"currCumulative"`
	ChangePct      float64 `json:"changePct"`
}

// CountryTotals folds report rows into per-country subtotals, preserving the
// report's country order.
func CountryTotals(rep YoYReport) []CountryTotal {
	var totals []CountryTotal
	for _, row := range rep.Rows {
		if len(totals) == 0 || totals[len(totals)-1].Country != row.Country {
			totals = append(totals, CountryTotal{Country: row.Country})
		}
		t := &totals[len(totals)-1]
		t.PrevCumulative += row.PrevCumulative
		t.CurrCumulative += row.CurrCumulative
	}
	for i := range totals {
		totals[i].ChangePct = PercentChange(totals[i].PrevCumulative, totals[i].CurrCumulative)
	}
	return totals
}

// DerivedRow is a YoYRow with the display-layer derivations attached:
// percent change, the user-entered target/confirmed annotations, and the
// target achievement figures. All derivations are pure functions of the row
// and its annotation; nothing here feeds back into aggregation.
type DerivedRow struct {
	YoYRow
	ChangePct       float64 `json:"changePct"`
	TargetAmount    int64   `json:"targetAmount"`
	ConfirmedAmount int64   `json:"confirmedAmount"`
	Note            string  `json:"note"`
	AchievementPct  float64 `json:"achievementPct"`
	RemainingAmount int64   `json:"remainingAmount"`
}

// Derive attaches annotations and derived percentages to every report row.
// ann may be nil.
func Derive(rep YoYReport, ann *Annotations) []DerivedRow {
	out := make([]DerivedRow, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		d := DerivedRow{
			YoYRow:    row,
			ChangePct: PercentChange(row.PrevCumulative, row.CurrCumulative),
		}
		if ann != nil {
			if a, ok := ann.Get(row.Key()); ok {
				d.TargetAmount = a.Target
				d.ConfirmedAmount = a.Confirmed
				d.Note = a.Note
			}
		}
		if d.TargetAmount > 0 {
			d.AchievementPct = float64(row.CurrCumulative) / float64(d.TargetAmount) * 100
			d.RemainingAmount = d.TargetAmount - row.CurrCumulative
		}
		out = append(out, d)
	}
	return out
}
