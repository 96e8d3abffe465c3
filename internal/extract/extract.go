// Package extract recovers validated, task-specific payloads from raw
// Gemini replies.
//
// Every reply arrives inside the fixed provider envelope
// candidates[0].content.parts[0].text; absence of any level is a malformed
// response. The text itself may be noisy, so two extraction strategies
// exist and each task picks one explicitly:
//
//   - StrategyFenceStrip removes markdown code-fence markers anywhere in
//     the text and parses the remainder as one JSON object. Used by
//     analyze and draft-email, whose replies are reliably a lone object
//     that some models still wrap in ```json fences.
//   - StrategyBraceScan parses only the first-{ .. last-} substring,
//     tolerating surrounding prose. Used by simulate, whose replies are
//     the least reliably fenced.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/apperr"
	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
)

// Strategy selects how the JSON payload is located inside the reply text.
type Strategy int

const (
	StrategyFenceStrip Strategy = iota
	StrategyBraceScan
)

// ChatParseFallback is the inline text chat returns when the envelope
// cannot be navigated. Chat degrades to text instead of failing.
const ChatParseFallback = "Error parseando respuesta de IA."

type envelope struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Text navigates the provider envelope and returns the reply text.
func Text(raw string) (string, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return "", apperr.MalformedWrap("envelope is not JSON", err)
	}
	if len(env.Candidates) == 0 {
		return "", apperr.Malformed("envelope has no candidates")
	}
	cand := env.Candidates[0]
	if cand.Content == nil {
		return "", apperr.Malformed("candidate has no content")
	}
	if len(cand.Content.Parts) == 0 {
		return "", apperr.Malformed("content has no parts")
	}
	if cand.Content.Parts[0].Text == nil {
		return "", apperr.Malformed("part has no text")
	}
	return *cand.Content.Parts[0].Text, nil
}

// ChatText returns the envelope text, or the inline fallback string when
// navigation fails. This is the only task without structured parsing.
func ChatText(raw string) string {
	text, err := Text(raw)
	if err != nil {
		return ChatParseFallback
	}
	return text
}

// Payload navigates the envelope, applies the strategy, and decodes the
// resulting JSON into v.
func Payload(raw string, strategy Strategy, v any) error {
	text, err := Text(raw)
	if err != nil {
		return err
	}

	var jsonText string
	switch strategy {
	case StrategyBraceScan:
		jsonText, err = braceSpan(text)
		if err != nil {
			return err
		}
	default:
		jsonText = stripFences(text)
	}

	if err := json.Unmarshal([]byte(jsonText), v); err != nil {
		return apperr.MalformedWrap("payload is not valid JSON", err)
	}
	return nil
}

// stripFences removes literal code-fence markers anywhere in the text, the
// language-tagged opener first so the bare marker removal cannot orphan a
// "json" tag.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// braceSpan returns the substring from the first '{' to the last '}'.
func braceSpan(s string) (string, error) {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return "", apperr.Malformed("no JSON object delimiters in reply")
	}
	return s[first : last+1], nil
}

// ParseSalesAnalysis extracts and validates an analyze reply.
func ParseSalesAnalysis(raw string) (models.SalesAnalysis, error) {
	var out models.SalesAnalysis
	if err := Payload(raw, StrategyFenceStrip, &out); err != nil {
		return models.SalesAnalysis{}, err
	}
	if out.OpportunityScore < 1 || out.OpportunityScore > 10 {
		return models.SalesAnalysis{}, apperr.Validation("score_oportunidad", "must be between 1 and 10")
	}
	if out.Alerts == nil {
		out.Alerts = []string{}
	}
	return out, nil
}

// ParseSimulation extracts and validates a simulate reply.
func ParseSimulation(raw string) (models.SimulationResult, error) {
	var out models.SimulationResult
	if err := Payload(raw, StrategyBraceScan, &out); err != nil {
		return models.SimulationResult{}, err
	}
	if out.AcceptanceProbability < 0 || out.AcceptanceProbability > 100 {
		return models.SimulationResult{}, apperr.Validation("acceptanceProbability", "must be between 0 and 100")
	}
	return out, nil
}

// ParseEmailDraft extracts a draft-email reply.
func ParseEmailDraft(raw string) (models.EmailDraft, error) {
	var out models.EmailDraft
	if err := Payload(raw, StrategyFenceStrip, &out); err != nil {
		return models.EmailDraft{}, err
	}
	return out, nil
}
