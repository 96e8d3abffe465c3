// Package aggregate derives the AnalyticContext from raw order history.
// Build is a pure function: same input, same context, no side effects.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
)

const (
	// UnknownClient is the placeholder name for an empty order set.
	UnknownClient = "Unknown"
	// FallbackClient is used when the first order carries no client.
	FallbackClient = "Cliente"
	// NoTopProduct is returned when no order has any line.
	NoTopProduct = "N/A"

	maxTopProducts = 10
)

// productEntry is one slot of the insertion-ordered tally. Ranking ties are
// broken by first appearance while scanning orders, so iteration must never
// go through a map.
type productEntry struct {
	name     string
	quantity int
}

// Build summarizes an ordered sequence of orders into an AnalyticContext.
func Build(orders []models.Order) models.AnalyticContext {
	if len(orders) == 0 {
		return models.AnalyticContext{
			ClientName:           UnknownClient,
			TotalSpent:           decimal.Zero,
			TopProduct:           NoTopProduct,
			TopPurchasedProducts: []string{},
		}
	}

	clientName := FallbackClient
	if orders[0].Client != nil {
		clientName = orders[0].Client.Name
	}

	totalSpent := decimal.Zero
	for _, o := range orders {
		totalSpent = totalSpent.Add(o.Total)
	}

	tally := tallyProducts(orders)

	topProduct := NoTopProduct
	if len(tally) > 0 {
		topProduct = maxByQuantity(tally).name
	}

	ranked := make([]productEntry, len(tally))
	copy(ranked, tally)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].quantity > ranked[j].quantity
	})
	if len(ranked) > maxTopProducts {
		ranked = ranked[:maxTopProducts]
	}
	top := make([]string, len(ranked))
	for i, e := range ranked {
		top[i] = fmt.Sprintf("%dx %s", e.quantity, e.name)
	}

	return models.AnalyticContext{
		ClientName:            clientName,
		TotalSpent:            totalSpent,
		TotalOrders:           len(orders),
		TopProduct:            topProduct,
		TopPurchasedProducts:  top,
		PurchaseFrequencyDays: purchaseFrequency(orders),
	}
}

// tallyProducts accumulates per-product quantities in first-seen order,
// scanning every line of every order in input order.
func tallyProducts(orders []models.Order) []productEntry {
	index := make(map[string]int)
	var entries []productEntry
	for _, o := range orders {
		for _, line := range o.Lines {
			if i, ok := index[line.ProductName]; ok {
				entries[i].quantity += line.Quantity
				continue
			}
			index[line.ProductName] = len(entries)
			entries = append(entries, productEntry{name: line.ProductName, quantity: line.Quantity})
		}
	}
	return entries
}

// maxByQuantity returns the first entry with the maximal quantity.
func maxByQuantity(entries []productEntry) productEntry {
	best := entries[0]
	for _, e := range entries[1:] {
		if e.quantity > best.quantity {
			best = e
		}
	}
	return best
}

// purchaseFrequency is the span in whole days between the earliest and
// latest order divided by (order count - 1). Zero for fewer than two orders
// or a same-day span.
func purchaseFrequency(orders []models.Order) float64 {
	if len(orders) < 2 {
		return 0
	}

	dates := make([]time.Time, len(orders))
	for i, o := range orders {
		dates[i] = o.CreatedAt
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	days := int64(dates[len(dates)-1].Sub(dates[0]) / (24 * time.Hour))
	if days <= 0 {
		return 0
	}
	return float64(days) / float64(len(orders)-1)
}
