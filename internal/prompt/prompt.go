// Package prompt renders the per-task instruction strings sent to the
// inference service. Output is opaque text; nothing here parses replies.
package prompt

import (
	"fmt"
	"strings"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/models"
)

// NoProductsFallback replaces an empty recent-products list in email drafts.
const NoProductsFallback = "nuestros productos"

// ContextLine renders the full analytic summary used by analyze and chat.
func ContextLine(ctx models.AnalyticContext) string {
	return fmt.Sprintf(
		"Cliente: %s. Gasto Total: %s. Órdenes: %d. Frecuencia de Compra: %.1f días. Producto Estrella: %s. Productos Recientes: %s.",
		ctx.ClientName,
		ctx.TotalSpent.StringFixed(2),
		ctx.TotalOrders,
		ctx.PurchaseFrequencyDays,
		ctx.TopProduct,
		strings.Join(ctx.TopPurchasedProducts, ", "))
}

// ShortContextLine renders the condensed summary used by simulate.
func ShortContextLine(ctx models.AnalyticContext) string {
	return fmt.Sprintf(
		"Cliente: %s. Gasto Total: %s. Freq: %.1f días. Top: %s.",
		ctx.ClientName,
		ctx.TotalSpent.StringFixed(2),
		ctx.PurchaseFrequencyDays,
		ctx.TopProduct)
}

// Analyze instructs the model to score the client, demanding a strict JSON
// object in the analyze schema.
func Analyze(ctx models.AnalyticContext) string {
	return "Actúa como experto B2B. Analiza este cliente: " + ContextLine(ctx) +
		" Responde ÚNICAMENTE con un objeto JSON válido siguiendo este esquema: " +
		"{ resumen_ejecutivo: string, score_oportunidad: number (1-10), alertas: string[], accion_recomendada: string }."
}

// Chat embeds the context line (or a placeholder when no orders exist) plus
// the user's free-text question. No reply schema is imposed.
func Chat(contextData, userMessage string) string {
	return "Contexto: " + contextData +
		"\n\nEl usuario pregunta: " + userMessage +
		"\n\nInstrucción: Responde breve y estratégico como experto B2B."
}

// Simulate embeds the client context plus the discount/contract scenario and
// demands raw JSON, explicitly forbidding markdown fencing.
func Simulate(clientContext string, discountPct, contractMonths int) string {
	return fmt.Sprintf(
		"Actúa como estratega B2B. Contexto Cliente: [%s]. Escenario: Descuento %d%%, Contrato %d meses. "+
			"Responde ÚNICAMENTE en JSON con este formato: "+
			`{ "acceptanceProbability": 0-100, "financialImpact": "Rentable/Riesgoso/etc", "explanation": "breve justificación" }. `+
			"IMPORTANT: Return ONLY the raw JSON string. Do not use Markdown formatting or code blocks. "+
			"IMPORTANT: Keep the explanation concise to ensure valid JSON output.",
		clientContext, discountPct, contractMonths)
}

// DraftEmail asks for a sales email grounded in the recommendation and the
// client's recently purchased products.
func DraftEmail(ctx models.AnalyticContext, recommendation string) string {
	productList := strings.Join(ctx.TopPurchasedProducts, ", ")
	if productList == "" {
		productList = NoProductsFallback
	}

	return fmt.Sprintf(
		"Act as a Senior B2B Sales Representative. Write a professional email to %s using the following Recommendation: %q. "+
			"Context: They recently bought %s. "+
			"Tone: Professional, concise, and persuasive. "+
			"Output Format: JSON with 'subject' and 'body' fields ONLY. Do NOT use Markdown blocks.",
		ctx.ClientName, recommendation, productList)
}
