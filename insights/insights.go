// ABOUTME: AI advisory blurbs per company, generated through the Gemini API
// ABOUTME: Missing keys and API failures degrade to fixed Polish notices, never errors
package insights

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/mkarcz/prospekt/models"
)

// Fallback notices shown instead of an analysis. The UI treats them as
// regular blurb text.
const (
	NoticeNoKey       = "Brak klucza API Gemini."
	NoticeUnavailable = "Analiza AI niedostępna."
)

const defaultModel = "gemini-2.5-flash"

// Generator produces one advisory paragraph from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Advisor builds company briefings. A nil generator (no API key
// configured) yields the no-key notice for every request.
type Advisor struct {
	gen    Generator
	logger *zap.Logger
}

func NewAdvisor(gen Generator, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{gen: gen, logger: logger}
}

// CompanyBriefing returns a short next-step recommendation for one
// company, based on its open deals and pending tasks. It never returns
// an error; failures map to fixed notices.
func (a *Advisor) CompanyBriefing(ctx context.Context, company models.Company, deals []models.Deal, tasks []models.Task) string {
	if a.gen == nil {
		return NoticeNoKey
	}

	text, err := a.gen.Generate(ctx, buildPrompt(company, deals, tasks))
	if err != nil {
		a.logger.Warn("insight generation failed", zap.String("company", company.Name), zap.Error(err))
		return NoticeUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return NoticeUnavailable
	}
	return text
}

func buildPrompt(company models.Company, deals []models.Deal, tasks []models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Jesteś doradcą sprzedaży w małej firmie. Przygotuj krótką analizę (2-3 zdania, po polsku) i zaproponuj następny krok dla klienta.\n\n")
	fmt.Fprintf(&b, "Firma: %s\n", company.Name)
	if company.Industry != "" {
		fmt.Fprintf(&b, "Branża: %s\n", company.Industry)
	}
	fmt.Fprintf(&b, "Status: %s\n", company.Status)

	if len(deals) > 0 {
		b.WriteString("\nSzanse sprzedaży:\n")
		for _, d := range deals {
			fmt.Fprintf(&b, "- %s, etap: %s, wartość: %d PLN\n", d.Title, d.Stage, d.Value)
		}
	}
	if len(tasks) > 0 {
		b.WriteString("\nOtwarte zadania:\n")
		for _, t := range tasks {
			if t.IsCompleted {
				continue
			}
			fmt.Fprintf(&b, "- %s (termin: %s)\n", t.Title, t.DueDate)
		}
	}
	return b.String()
}

// GeminiGenerator calls the Gemini API through the official client.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator returns nil when no API key is configured; the
// advisor treats that as "feature off".
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, nil
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return result.Text(), nil
}
