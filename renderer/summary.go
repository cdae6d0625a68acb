package renderer

import (
	"github.com/etnz/hobby"
)

// summary is the view rendered by templates/summary.md.
type summary struct {
	Balance            string
	StockValue         string
	TotalAssets        string
	RealizedProfit     string
	EstimatedSaleValue string
	Held               int
	Listed             int
	Sold               int
}

// Summary renders the fund balance and the stock aggregates.
func Summary(s hobby.Summary, cur string) string {
	return renderTemplate("summary", "summary.md", nil, summary{
		Balance:            hobby.FormatAmount(s.Balance, cur),
		StockValue:         hobby.FormatAmount(s.StockValue, cur),
		TotalAssets:        hobby.FormatAmount(s.TotalAssets, cur),
		RealizedProfit:     hobby.SignedAmount(s.RealizedProfit, cur),
		EstimatedSaleValue: hobby.FormatAmount(s.EstimatedSaleValue, cur),
		Held:               s.Held,
		Listed:             s.Listed,
		Sold:               s.Sold,
	})
}
