// Package insight asks a language model for a short executive summary of a
// prepared revenue table.
package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/revenue-dash/internal/currencyutils"
	"fjacquet/revenue-dash/internal/kpi"
	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Client writes an executive summary for the KPIs and records of a table.
type Client interface {
	Summarize(ctx context.Context, summary kpi.Summary, records []models.CanonicalRecord) (string, error)
}

// BuildPrompt renders the KPIs and the monthly rows into a prompt.
func BuildPrompt(summary kpi.Summary, records []models.CanonicalRecord) string {
	var b strings.Builder

	b.WriteString("You write concise executive summaries of monthly sales performance.\n")
	b.WriteString("Summarize the figures below in 4 sentences. Include 1-2 risks and 1-2 actionable next steps.\n\n")

	fmt.Fprintf(&b, "Months: %d\n", summary.Months)
	fmt.Fprintf(&b, "Total revenue: %s\n", currencyutils.FormatWon(summary.TotalRevenue))
	fmt.Fprintf(&b, "Mean YoY: %s\n", currencyutils.FormatPercent(summary.MeanYoY))
	if summary.Highest != nil {
		fmt.Fprintf(&b, "Highest month: %s (%s)\n", summary.Highest.PeriodLabel, currencyutils.FormatWon(summary.Highest.Revenue.Decimal))
	}
	if summary.Lowest != nil {
		fmt.Fprintf(&b, "Lowest month: %s (%s)\n", summary.Lowest.PeriodLabel, currencyutils.FormatWon(summary.Lowest.Revenue.Decimal))
	}

	b.WriteString("\nMonthly data (period, revenue, prior year, YoY):\n")
	for _, r := range records {
		label := r.PeriodLabel
		if label == "" {
			label = r.Period.String()
		}
		fmt.Fprintf(&b, "- %s, %s, %s, %s\n", label,
			currencyutils.FormatNullableWon(r.Revenue),
			currencyutils.FormatNullableWon(r.PriorYearRevenue),
			currencyutils.FormatPercent(r.YoYPercent))
	}

	return b.String()
}

type generateFunc func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)

// GeminiClient implements Client with the Gemini API.
type GeminiClient struct {
	client   *genai.Client
	generate generateFunc
	model    string
	timeout  time.Duration
	logger   logging.Logger
}

// NewGeminiClient connects to Gemini with the given API key. A zero timeout means
// no deadline beyond the caller's context.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	generative := client.GenerativeModel(model)
	return &GeminiClient{
		client: client,
		generate: func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
			return generative.GenerateContent(ctx, genai.Text(prompt))
		},
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Summarize sends the prompt and returns the text of the first candidate.
func (c *GeminiClient) Summarize(ctx context.Context, summary kpi.Summary, records []models.CanonicalRecord) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("Requesting executive summary",
		logging.F(logging.FieldModel, c.model),
		logging.F(logging.FieldCount, len(records)))

	resp, err := c.generate(ctx, BuildPrompt(summary, records))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	c.logger.Info("Received executive summary", logging.F(logging.FieldModel, c.model))
	return text, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	return out, nil
}
