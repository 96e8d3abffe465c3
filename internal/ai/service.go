// Package ai orchestrates the four analysis tasks: analyze, chat, simulate
// and draft-email. Each task runs the same synchronous pipeline — load
// orders, aggregate context, render prompt, infer, parse — and differs only
// in its parse strategy, persistence and failure policy.
//
// Failure policy is explicit per task: analyze, simulate and draft-email
// propagate every failure unmodified; chat converts any failure into a
// human-readable reply string, because its caller renders the reply
// unconditionally and must never see an error.
package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/aggregate"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/config"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/extract"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/gemini"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/prompt"
)

// Constant texts of the analyze empty-order short circuit and the chat and
// simulate context placeholders.
const (
	emptyOrdersSummary        = "No se encontraron órdenes con los IDs proporcionados."
	emptyOrdersRecommendation = "Verifique los IDs enviados."
	chatNoOrdersContext       = "No hay datos de órdenes específicas."
	newClientContext          = "Cliente Nuevo (Sin histórico)"
)

// OrderStore is the order-lookup collaborator consumed by the pipelines.
type OrderStore interface {
	OrdersByIDs(ctx context.Context, ids []int64) ([]models.Order, error)
	OrdersByClient(ctx context.Context, clientID int64) ([]models.Order, error)
}

// AnalysisStore is the append-only analysis persistence collaborator.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, rec models.AnalysisRecord) (models.AnalysisRecord, error)
	History(ctx context.Context, clientID int64) ([]models.AnalysisRecord, error)
}

// Service sequences the pipelines and owns their per-task policies.
type Service struct {
	orders   OrderStore
	analyses AnalysisStore
	llm      gemini.Client
	cfg      config.GeminiConfig
	logger   *zap.Logger
}

// New builds the orchestrator.
func New(orders OrderStore, analyses AnalysisStore, llm gemini.Client, cfg config.GeminiConfig, logger *zap.Logger) *Service {
	return &Service{
		orders:   orders,
		analyses: analyses,
		llm:      llm,
		cfg:      cfg,
		logger:   logger,
	}
}

// Analyze scores the client behind the given orders. An empty resolved
// order set short-circuits to a constant zero-score response without any
// inference call or persistence. A successful parse is persisted only when
// the first order carries a client reference; the parsed result is
// returned regardless of the persistence outcome.
func (s *Service) Analyze(ctx context.Context, orderIDs []int64) (models.SalesAnalysis, error) {
	orders, err := s.orders.OrdersByIDs(ctx, orderIDs)
	if err != nil {
		return models.SalesAnalysis{}, err
	}

	if len(orders) == 0 {
		return models.SalesAnalysis{
			ExecutiveSummary:  emptyOrdersSummary,
			OpportunityScore:  0,
			Alerts:            []string{},
			RecommendedAction: emptyOrdersRecommendation,
		}, nil
	}

	analyticCtx := aggregate.Build(orders)

	raw, err := s.llm.Generate(ctx, prompt.Analyze(analyticCtx), gemini.GenerationConfig{
		Temperature:     s.cfg.Temperature,
		MaxOutputTokens: s.cfg.AnalyzeMaxTokens,
		JSONResponse:    true,
	})
	if err != nil {
		return models.SalesAnalysis{}, err
	}

	analysis, err := extract.ParseSalesAnalysis(raw)
	if err != nil {
		return models.SalesAnalysis{}, err
	}

	if orders[0].ClientID != nil {
		rec := models.AnalysisRecord{
			ClientID:         *orders[0].ClientID,
			Score:            analysis.OpportunityScore,
			ExecutiveSummary: analysis.ExecutiveSummary,
			Recommendation:   analysis.RecommendedAction,
			Alerts:           analysis.Alerts,
		}
		if _, err := s.analyses.SaveAnalysis(ctx, rec); err != nil {
			s.logger.Error("failed to persist analysis",
				zap.Int64("client_id", rec.ClientID), zap.Error(err))
		}
	}

	return analysis, nil
}

// Chat answers a free-text question grounded in the order context. Any
// transport or parse failure degrades to a reply string describing the
// error; chat never fails once the orders are loaded.
func (s *Service) Chat(ctx context.Context, orderIDs []int64, message string) (string, error) {
	orders, err := s.orders.OrdersByIDs(ctx, orderIDs)
	if err != nil {
		return "", err
	}

	contextData := chatNoOrdersContext
	if len(orders) > 0 {
		contextData = prompt.ContextLine(aggregate.Build(orders))
	}

	raw, err := s.llm.Generate(ctx, prompt.Chat(contextData, message), gemini.GenerationConfig{
		Temperature:     s.cfg.Temperature,
		MaxOutputTokens: s.cfg.DefaultMaxTokens,
	})
	if err != nil {
		s.logger.Warn("chat inference failed, degrading to text", zap.Error(err))
		return fmt.Sprintf("Hubo un error al procesar tu consulta: %v", err), nil
	}

	return extract.ChatText(raw), nil
}

// Simulate evaluates a discount/contract scenario for one client. A client
// without history uses a constant new-client context instead of the
// aggregator. Failures propagate.
func (s *Service) Simulate(ctx context.Context, clientID int64, discountPct, contractMonths int) (models.SimulationResult, error) {
	orders, err := s.orders.OrdersByClient(ctx, clientID)
	if err != nil {
		return models.SimulationResult{}, err
	}

	clientContext := newClientContext
	if len(orders) > 0 {
		clientContext = prompt.ShortContextLine(aggregate.Build(orders))
	}

	raw, err := s.llm.Generate(ctx, prompt.Simulate(clientContext, discountPct, contractMonths), gemini.GenerationConfig{
		Temperature:     s.cfg.Temperature,
		MaxOutputTokens: s.cfg.DefaultMaxTokens,
		JSONResponse:    true,
	})
	if err != nil {
		return models.SimulationResult{}, err
	}

	return extract.ParseSimulation(raw)
}

// DraftEmail writes a sales email for one client from a recommendation.
// Failures propagate.
func (s *Service) DraftEmail(ctx context.Context, clientID int64, recommendation string) (models.EmailDraft, error) {
	orders, err := s.orders.OrdersByClient(ctx, clientID)
	if err != nil {
		return models.EmailDraft{}, err
	}

	analyticCtx := aggregate.Build(orders)

	raw, err := s.llm.Generate(ctx, prompt.DraftEmail(analyticCtx, recommendation), gemini.GenerationConfig{
		Temperature:     s.cfg.Temperature,
		MaxOutputTokens: s.cfg.DefaultMaxTokens,
	})
	if err != nil {
		return models.EmailDraft{}, err
	}

	return extract.ParseEmailDraft(raw)
}

// History returns the persisted analyses of one client, newest first.
func (s *Service) History(ctx context.Context, clientID int64) ([]models.AnalysisRecord, error) {
	return s.analyses.History(ctx, clientID)
}
