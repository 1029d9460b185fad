package service

import (
	"testing"

	"github.com/set-night/shopassist/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	products := c.Products()

	assert.Len(t, products, 3)
	assert.Equal(t, "MacBook Pro 16", products[0].Name)
	assert.True(t, c.Total().Equal(decimal.RequireFromString("3949.97")))
}

func TestCatalog_ProductsIsACopy(t *testing.T) {
	c := NewCatalog([]domain.Product{{Name: "A", Price: decimal.NewFromInt(1)}})

	products := c.Products()
	products[0].Name = "changed"

	assert.Equal(t, "A", c.Products()[0].Name)
}

func TestCatalog_EmptyTotalIsZero(t *testing.T) {
	c := NewCatalog(nil)
	assert.Empty(t, c.Products())
	assert.True(t, c.Total().IsZero())
}
