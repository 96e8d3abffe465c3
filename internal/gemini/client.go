// Package gemini implements the inference boundary: it submits one
// instruction to the Gemini generateContent endpoint and hands back the raw
// response body. Envelope navigation belongs to the extract package; the
// only failure this package reports is a transport failure.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/apperr"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/config"
)

// GenerationConfig carries the per-task generation parameters.
type GenerationConfig struct {
	Temperature     float64
	MaxOutputTokens int
	// JSONResponse sets response_mime_type: application/json. Used by
	// analyze and simulate only.
	JSONResponse bool
}

// Client sends an instruction and returns the raw provider response text.
// Implementations must honor the context deadline; tests substitute a
// scripted fake.
type Client interface {
	Generate(ctx context.Context, instruction string, cfg GenerationConfig) (string, error)
}

// Request/response wire structs for the generateContent contract.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"response_mime_type,omitempty"`
}

// RESTClient is the production Client speaking the REST contract directly.
type RESTClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRESTClient builds a client from the gemini configuration.
func NewRESTClient(cfg config.GeminiConfig, logger *zap.Logger) *RESTClient {
	return &RESTClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		logger: logger,
	}
}

// Generate performs one generateContent call and returns the raw body.
// There is no retry: a retried analyze call would persist a duplicate
// AnalysisRecord, so transport failures surface immediately.
func (c *RESTClient) Generate(ctx context.Context, instruction string, cfg GenerationConfig) (string, error) {
	if c.apiKey == "" {
		return "", apperr.Transport(fmt.Errorf("API key not configured"))
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: instruction}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
	}
	if cfg.JSONResponse {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	c.logger.Debug("calling gemini",
		zap.String("model", c.model),
		zap.Int("instruction_len", len(instruction)),
		zap.Bool("json_response", cfg.JSONResponse))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gemini request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", apperr.Transport(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Transport(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gemini returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", apperr.Transport(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body)))
	}

	c.logger.Debug("gemini call completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(body)))

	return string(body), nil
}
