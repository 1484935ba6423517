// Package report summarizes a point-in-time catalog for the operator.
package report

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/openpoint/stockpos/internal/domain"
)

// Summary is an inventory snapshot report.
type Summary struct {
	SKUCount       int
	TotalUnits     int
	OutOfStock     int
	InventoryValue decimal.Decimal
	MeanPrice      float64
	MedianPrice    float64
	Categories     map[string]int
}

// Summarize computes the report over the given catalog. Price statistics are
// computed over unit prices; inventory value keeps decimal precision.
func Summarize(products []domain.Product) Summary {
	s := Summary{
		InventoryValue: decimal.Zero,
		Categories:     make(map[string]int),
	}
	prices := make([]float64, 0, len(products))
	for _, p := range products {
		s.SKUCount++
		s.TotalUnits += p.Quantity
		if p.Quantity == 0 {
			s.OutOfStock++
		}
		s.InventoryValue = s.InventoryValue.Add(
			p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
		price, _ := p.Price.Float64()
		prices = append(prices, price)
		category := p.Category
		if category == "" {
			category = "(uncategorized)"
		}
		s.Categories[category]++
	}
	if len(prices) > 0 {
		s.MeanPrice, _ = stats.Mean(prices)
		s.MedianPrice, _ = stats.Median(prices)
	}
	return s
}
