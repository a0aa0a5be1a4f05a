package report

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-dashboard/internal/domain"
)

// Summary holds the scalar rollups shown on the dashboard cards, computed
// over the currently filtered set.
type Summary struct {
	TotalAmount         int64           `json:"totalAmount"`         // rubles
	TotalAmountMillions decimal.Decimal `json:"totalAmountMillions"` // rubles / 1e6
	TotalAmountKRW      decimal.Decimal `json:"totalAmountKrw"`      // converted at the configured rate
	TotalQuantity       float64         `json:"totalQuantity"`       // boxes
	ClientCount         int             `json:"clientCount"`         // distinct client codes
	AvgDiscountPct      float64         `json:"avgDiscountPct"`
}

var million = decimal.NewFromInt(1_000_000)

// Summarize computes the card rollups. rate is the configured ruble-to-won
// exchange rate.
//
// The average discount covers only rows with a positive discount; a row with
// no discount does not drag the average toward zero.
func Summarize(txs []domain.Transaction, rate decimal.Decimal) Summary {
	var s Summary
	clients := make(map[string]struct{})
	var discountSum float64
	var discounted int

	for _, tx := range txs {
		s.TotalAmount += tx.Amount
		s.TotalQuantity += tx.Quantity
		clients[tx.ClientCode] = struct{}{}
		if tx.DiscountPct > 0 {
			discountSum += tx.DiscountPct
			discounted++
		}
	}

	s.ClientCount = len(clients)
	if discounted > 0 {
		s.AvgDiscountPct = discountSum / float64(discounted)
	}

	total := decimal.NewFromInt(s.TotalAmount)
	s.TotalAmountMillions = total.Div(million).Round(1)
	s.TotalAmountKRW = total.Mul(rate).Round(0)
	return s
}
