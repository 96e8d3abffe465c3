package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
)

func day(n int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func order(id int64, created time.Time, total string, lines ...models.OrderLine) models.Order {
	return models.Order{
		ID:        id,
		Client:    &models.Client{ID: 1, Name: "Acme Corp"},
		Total:     decimal.RequireFromString(total),
		Status:    "COMPLETED",
		CreatedAt: created,
		Lines:     lines,
	}
}

func line(product string, qty int) models.OrderLine {
	return models.OrderLine{ProductName: product, Quantity: qty, UnitPrice: decimal.New(10, 0)}
}

func TestBuild_EmptyInput(t *testing.T) {
	ctx := Build(nil)

	assert.Equal(t, UnknownClient, ctx.ClientName)
	assert.True(t, ctx.TotalSpent.IsZero())
	assert.Equal(t, 0, ctx.TotalOrders)
	assert.Equal(t, NoTopProduct, ctx.TopProduct)
	assert.Empty(t, ctx.TopPurchasedProducts)
	assert.Zero(t, ctx.PurchaseFrequencyDays)
}

func TestBuild_NoClientReference(t *testing.T) {
	o := order(1, day(0), "100.00", line("Widget A", 1))
	o.Client = nil

	ctx := Build([]models.Order{o})

	assert.Equal(t, FallbackClient, ctx.ClientName)
}

func TestBuild_TotalsAreExactDecimals(t *testing.T) {
	// Classic float trap: 0.10 + 0.20 must be exactly 0.30.
	orders := []models.Order{
		order(1, day(0), "0.10"),
		order(2, day(1), "0.20"),
	}

	ctx := Build(orders)

	assert.Equal(t, "0.30", ctx.TotalSpent.StringFixed(2))
	assert.Equal(t, 2, ctx.TotalOrders)
}

func TestBuild_SpecScenario(t *testing.T) {
	// 3 orders over a 10-day span, 5x Widget A and 3x Widget B.
	orders := []models.Order{
		order(1, day(0), "100.00", line("Widget A", 2), line("Widget B", 3)),
		order(2, day(4), "50.00", line("Widget A", 1)),
		order(3, day(10), "75.00", line("Widget A", 2)),
	}

	ctx := Build(orders)

	assert.Equal(t, "Acme Corp", ctx.ClientName)
	assert.Equal(t, "225.00", ctx.TotalSpent.StringFixed(2))
	assert.Equal(t, 3, ctx.TotalOrders)
	assert.Equal(t, "Widget A", ctx.TopProduct)
	assert.Equal(t, []string{"5x Widget A", "3x Widget B"}, ctx.TopPurchasedProducts)
	assert.InDelta(t, 5.0, ctx.PurchaseFrequencyDays, 1e-9)
}

func TestBuild_TieBreakIsFirstSeen(t *testing.T) {
	orders := []models.Order{
		order(1, day(0), "10.00", line("Zeta", 4), line("Alpha", 4)),
	}

	ctx := Build(orders)

	// Zeta was scanned first; alphabetical order must not win.
	assert.Equal(t, "Zeta", ctx.TopProduct)
	assert.Equal(t, []string{"4x Zeta", "4x Alpha"}, ctx.TopPurchasedProducts)
}

func TestBuild_TopProductsCappedAtTen(t *testing.T) {
	lines := make([]models.OrderLine, 0, 12)
	for i := 0; i < 12; i++ {
		lines = append(lines, line(string(rune('A'+i)), 12-i))
	}
	ctx := Build([]models.Order{order(1, day(0), "10.00", lines...)})

	require.Len(t, ctx.TopPurchasedProducts, 10)
	assert.Equal(t, "12x A", ctx.TopPurchasedProducts[0])
	assert.Equal(t, "3x J", ctx.TopPurchasedProducts[9])
}

func TestBuild_NoLines(t *testing.T) {
	ctx := Build([]models.Order{order(1, day(0), "10.00")})

	assert.Equal(t, NoTopProduct, ctx.TopProduct)
	assert.Empty(t, ctx.TopPurchasedProducts)
}

func TestPurchaseFrequency(t *testing.T) {
	tests := []struct {
		name   string
		orders []models.Order
		want   float64
	}{
		{
			name:   "single order",
			orders: []models.Order{order(1, day(0), "1.00")},
			want:   0,
		},
		{
			name: "same-day span",
			orders: []models.Order{
				order(1, day(0), "1.00"),
				order(2, day(0).Add(6*time.Hour), "1.00"),
			},
			want: 0,
		},
		{
			name: "ten days over three orders",
			orders: []models.Order{
				order(1, day(10), "1.00"),
				order(2, day(0), "1.00"),
				order(3, day(3), "1.00"),
			},
			want: 5.0,
		},
		{
			name: "two orders seven days apart",
			orders: []models.Order{
				order(1, day(0), "1.00"),
				order(2, day(7), "1.00"),
			},
			want: 7.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Build(tt.orders)
			assert.InDelta(t, tt.want, ctx.PurchaseFrequencyDays, 1e-9)
		})
	}
}

func TestBuild_IsDeterministic(t *testing.T) {
	orders := []models.Order{
		order(1, day(0), "10.00", line("A", 2), line("B", 2), line("C", 2)),
		order(2, day(5), "20.00", line("D", 2)),
	}

	first := Build(orders)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Build(orders))
	}
}
