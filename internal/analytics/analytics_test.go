package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
)

func order(total string, created time.Time, lines ...models.OrderLine) models.Order {
	return models.Order{Total: decimal.RequireFromString(total), CreatedAt: created, Lines: lines}
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil)

	assert.Zero(t, got.TotalRevenue)
	assert.Zero(t, got.TotalOrders)
	assert.Empty(t, got.SalesByCategory)
	assert.Empty(t, got.MonthlySales)
}

func TestCompute_CategoryRollup(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		order("35.00", jan,
			models.OrderLine{ProductName: "Widget A", Category: "Hardware", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			models.OrderLine{ProductName: "License", Category: "Software", Quantity: 1, UnitPrice: decimal.RequireFromString("15.00")}),
		order("10.00", jan,
			models.OrderLine{ProductName: "Widget B", Category: "Hardware", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")}),
	}

	got := Compute(orders)

	assert.Equal(t, 30.0, got.SalesByCategory["Hardware"])
	assert.Equal(t, 15.0, got.SalesByCategory["Software"])
	assert.Equal(t, 45.0, got.TotalRevenue)
	assert.Equal(t, 2, got.TotalOrders)
}

func TestCompute_CategoryFallbacks(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		order("12.00", jan,
			models.OrderLine{ProductName: "Widget A", Quantity: 1, UnitPrice: decimal.RequireFromString("7.00")},
			models.OrderLine{Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")}),
	}

	got := Compute(orders)

	assert.Equal(t, 7.0, got.SalesByCategory["Widget A"])
	assert.Equal(t, 5.0, got.SalesByCategory["Uncategorized"])
}

func TestCompute_MonthlySalesSortAcrossYears(t *testing.T) {
	orders := []models.Order{
		order("10.00", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
		order("20.00", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)),
		order("30.00", time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)),
	}

	got := Compute(orders)

	assert.Equal(t, []MonthlyRevenue{
		{Month: "2024-12", Revenue: 20},
		{Month: "2025-02", Revenue: 40},
	}, got.MonthlySales)
}

func TestCompute_ExactDecimalAccumulation(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]models.Order, 0, 10)
	for i := 0; i < 10; i++ {
		orders = append(orders, order("0.10", jan,
			models.OrderLine{ProductName: "Penny", Category: "Misc", Quantity: 1, UnitPrice: decimal.RequireFromString("0.10")}))
	}

	got := Compute(orders)

	assert.Equal(t, 1.0, got.TotalRevenue)
	assert.Equal(t, 1.0, got.SalesByCategory["Misc"])
}
