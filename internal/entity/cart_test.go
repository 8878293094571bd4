package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartLineSubtotal(t *testing.T) {
	line := CartLine{Quantity: 3, UnitPrice: decimal.RequireFromString("10.50")}
	assert.True(t, line.Subtotal().Equal(decimal.RequireFromString("31.50")))

	line = CartLine{Quantity: 1, UnitPrice: decimal.RequireFromString("5.55")}
	assert.True(t, line.Subtotal().Equal(decimal.RequireFromString("5.55")))
}
