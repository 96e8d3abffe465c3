// Package server exposes the AI pipeline and analytics over HTTP.
// Authentication, authorization and CORS are out of scope here and belong
// to the deployment in front of this service.
package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/ai"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/analytics"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/config"
)

// Server hosts the HTTP surface.
type Server struct {
	http      *http.Server
	ai        *ai.Service
	analytics *analytics.Service
	cfg       config.ServerConfig
	logger    *zap.Logger
}

// New wires the routes and returns an unstarted server.
func New(cfg config.ServerConfig, aiSvc *ai.Service, analyticsSvc *analytics.Service, logger *zap.Logger) *Server {
	s := &Server{
		ai:        aiSvc,
		analytics: analyticsSvc,
		cfg:       cfg,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ai/analyze-orders", s.handleAnalyze)
	mux.HandleFunc("POST /api/ai/chat", s.handleChat)
	mux.HandleFunc("POST /api/ai/simulate", s.handleSimulate)
	mux.HandleFunc("POST /api/ai/draft-email", s.handleDraftEmail)
	mux.HandleFunc("GET /api/analysis/history/{clientId}", s.handleHistory)
	mux.HandleFunc("GET /api/analytics/{clientId}", s.handleAnalytics)

	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownDuration())
		defer cancel()
		s.logger.Info("shutting down http server")
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
