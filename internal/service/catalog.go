package service

import (
	"sync"

	"github.com/set-night/shopassist/internal/domain"
	"github.com/shopspring/decimal"
)

// Catalog holds the product recommendations shown under the conversation.
type Catalog struct {
	mu       sync.RWMutex
	products []domain.Product
}

func NewCatalog(products []domain.Product) *Catalog {
	return &Catalog{products: products}
}

// DefaultCatalog returns the featured products shown to every chat.
func DefaultCatalog() *Catalog {
	return NewCatalog([]domain.Product{
		{
			Name:        "MacBook Pro 16",
			Price:       decimal.RequireFromString("2499.99"),
			Rating:      4.9,
			Image:       "https://store.storeimages.cdn-apple.com/4982/as-images.apple.com/is/mbp16-spacegray-select-202301?wid=904&hei=840&fmt=jpeg&qlt=90&.v=1671304673202",
			Description: "M2 Max, 32GB RAM, 1TB SSD",
		},
		{
			Name:        "iPhone 15 Pro Max",
			Price:       decimal.RequireFromString("1199.99"),
			Rating:      4.8,
			Image:       "https://store.storeimages.cdn-apple.com/4982/as-images.apple.com/is/iphone-15-pro-finish-select-202309-6-7inch-naturaltitanium?wid=5120&hei=2880&fmt=p-jpg&qlt=80&.v=1692845702708",
			Description: "Natural Titanium, 256GB Storage",
		},
		{
			Name:        "AirPods Pro",
			Price:       decimal.RequireFromString("249.99"),
			Rating:      4.7,
			Image:       "https://store.storeimages.cdn-apple.com/4982/as-images.apple.com/is/MQD83?wid=1144&hei=1144&fmt=jpeg&qlt=90&.v=1660803972361",
			Description: "2nd Generation with Active Noise Cancellation",
		},
	})
}

func (c *Catalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Total sums the listed prices.
func (c *Catalog) Total() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := decimal.Zero
	for _, p := range c.products {
		total = total.Add(p.Price)
	}
	return total
}
