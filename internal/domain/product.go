package domain

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	Name        string
	Price       decimal.Decimal
	Rating      float64
	Image       string
	Description string
}
