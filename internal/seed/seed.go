// Package seed ships a small demo catalog for first runs and manual testing.
package seed

import (
	"github.com/shopspring/decimal"

	"github.com/openpoint/stockpos/internal/domain"
)

// Products returns the demo catalog. IDs are fixed so repeated seeding
// upserts in place instead of duplicating.
func Products() []domain.Product {
	return []domain.Product{
		{
			ID:          "sample-1",
			Name:        "Apple iPhone 15",
			Barcode:     "194253714125",
			Price:       decimal.NewFromFloat(999.99),
			Quantity:    5,
			Description: "Latest iPhone with advanced camera system and A17 Pro chip",
			Category:    "Electronics",
		},
		{
			ID:          "sample-2",
			Name:        "Samsung Galaxy S24",
			Barcode:     "8806095198989",
			Price:       decimal.NewFromFloat(899.99),
			Quantity:    3,
			Description: "Flagship Android smartphone with AI features",
			Category:    "Electronics",
		},
		{
			ID:          "sample-3",
			Name:        "Office Chair",
			Barcode:     "123456789012",
			Price:       decimal.NewFromFloat(299.99),
			Quantity:    10,
			Description: "Ergonomic office chair with lumbar support",
			Category:    "Furniture",
		},
		{
			ID:          "sample-4",
			Name:        "Bluetooth Headphones",
			Barcode:     "789123456789",
			Price:       decimal.NewFromFloat(199.99),
			Quantity:    0,
			Description: "Wireless noise-canceling headphones",
			Category:    "Electronics",
		},
		{
			ID:          "sample-5",
			Name:        "Coffee Beans",
			Barcode:     "456789123456",
			Price:       decimal.NewFromFloat(24.99),
			Quantity:    25,
			Description: "Premium Arabica coffee beans, medium roast",
			Category:    "Food & Beverage",
		},
	}
}
