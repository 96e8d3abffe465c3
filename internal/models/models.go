// Package models holds the domain types shared across the service.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a B2B customer owned by a platform user.
type Client struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Industry     string `json:"industry,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	Tier         string `json:"tier"`
	UserID       int64  `json:"-"`
}

// DefaultTier is assigned to clients created implicitly (e.g. CSV import).
const DefaultTier = "Bronze"

// OrderLine is one product position inside an order, priced at time of sale.
type OrderLine struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Category    string          `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Order is an immutable sales transaction. Status transitions are driven by
// collaborators outside this service.
type Order struct {
	ID        int64           `json:"id"`
	ClientID  *int64          `json:"clientId,omitempty"`
	Client    *Client         `json:"client,omitempty"`
	UserID    int64           `json:"-"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	Lines     []OrderLine     `json:"lines"`
}

// AnalyticContext is the bounded summary of a client's order history that
// grounds every model prompt. It is derived, never persisted.
type AnalyticContext struct {
	ClientName            string
	TotalSpent            decimal.Decimal
	TotalOrders           int
	TopProduct            string
	TopPurchasedProducts  []string
	PurchaseFrequencyDays float64
}

// SalesAnalysis is the structured payload of one analyze reply.
// JSON field names follow the schema the model is instructed to emit.
type SalesAnalysis struct {
	ExecutiveSummary  string   `json:"resumen_ejecutivo"`
	OpportunityScore  int      `json:"score_oportunidad"`
	Alerts            []string `json:"alertas"`
	RecommendedAction string   `json:"accion_recomendada"`
}

// AnalysisRecord is the persisted, immutable outcome of one analyze call.
type AnalysisRecord struct {
	ID               string    `json:"id"`
	ClientID         int64     `json:"clientId"`
	Score            int       `json:"score"`
	ExecutiveSummary string    `json:"executiveSummary"`
	Recommendation   string    `json:"recommendation"`
	Alerts           []string  `json:"alerts"`
	CreatedAt        time.Time `json:"createdAt"`
}

// SimulationResult is the parsed reply of a scenario simulation. Not persisted.
type SimulationResult struct {
	AcceptanceProbability int    `json:"acceptanceProbability"`
	FinancialImpact       string `json:"financialImpact"`
	Explanation           string `json:"explanation"`
}

// EmailDraft is the parsed reply of a draft-email task. Not persisted.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
