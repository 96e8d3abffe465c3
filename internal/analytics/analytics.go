// Package analytics computes per-client revenue rollups from order history.
package analytics

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
)

// Summary is the per-client analytics payload.
type Summary struct {
	SalesByCategory map[string]float64 `json:"salesByCategory"`
	MonthlySales    []MonthlyRevenue   `json:"monthlySales"`
	TotalRevenue    float64            `json:"totalRevenue"`
	TotalOrders     int                `json:"totalOrders"`
}

// MonthlyRevenue is one month of revenue, keyed "2006-01" so entries sort
// chronologically across years.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

const uncategorized = "Uncategorized"

// Compute aggregates a client's orders. Line revenue is accumulated in
// exact decimals and converted to float only at the edge. Lines without a
// category fall back to the product name.
func Compute(orders []models.Order) Summary {
	byCategory := map[string]decimal.Decimal{}
	byMonth := map[string]decimal.Decimal{}
	totalRevenue := decimal.Zero

	for _, order := range orders {
		for _, line := range order.Lines {
			key := line.Category
			if key == "" {
				key = line.ProductName
			}
			if key == "" {
				key = uncategorized
			}
			lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			byCategory[key] = byCategory[key].Add(lineTotal)
		}

		monthKey := order.CreatedAt.Format("2006-01")
		byMonth[monthKey] = byMonth[monthKey].Add(order.Total)
		totalRevenue = totalRevenue.Add(order.Total)
	}

	salesByCategory := make(map[string]float64, len(byCategory))
	for k, v := range byCategory {
		salesByCategory[k] = v.InexactFloat64()
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	monthly := make([]MonthlyRevenue, len(months))
	for i, m := range months {
		monthly[i] = MonthlyRevenue{Month: m, Revenue: byMonth[m].InexactFloat64()}
	}

	return Summary{
		SalesByCategory: salesByCategory,
		MonthlySales:    monthly,
		TotalRevenue:    totalRevenue.InexactFloat64(),
		TotalOrders:     len(orders),
	}
}

// OrderStore is the lookup collaborator for the service wrapper.
type OrderStore interface {
	OrdersByClient(ctx context.Context, clientID int64) ([]models.Order, error)
}

// Service serves analytics over stored orders.
type Service struct {
	orders OrderStore
}

// NewService builds the analytics service.
func NewService(orders OrderStore) *Service {
	return &Service{orders: orders}
}

// Summary computes the rollups for one client.
func (s *Service) Summary(ctx context.Context, clientID int64) (Summary, error) {
	orders, err := s.orders.OrdersByClient(ctx, clientID)
	if err != nil {
		return Summary{}, err
	}
	return Compute(orders), nil
}
