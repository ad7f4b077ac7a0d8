package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// embeddingDimensions is shared with the Qdrant collection.
	embeddingDimensions = 768

	summaryTemperature = float32(0.3)
	summaryMaxTokens   = 512
	maxSummaryRunes    = 1200
	maxEmbedRunes      = 8000
)

const summaryInstruction = "You review automated generation runs. Answer in plain prose, " +
	"at most three short paragraphs, without headings, lists or code blocks. " +
	"Never change or restate the grade as anything other than what the report says."

// GeminiService writes evaluation summaries and embeds text for the
// similarity index.
type GeminiService interface {
	Summarize(ctx context.Context, prompt string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

type GeminiOptions struct {
	APIKey     string
	Model      string
	EmbedModel string
	MaxRetries int
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	maxRetries int
	backoff    time.Duration
	log        *zap.Logger
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, log *zap.Logger) (GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}

	return &geminiService{
		client:     client,
		modelName:  opts.Model,
		embedModel: opts.EmbedModel,
		maxRetries: opts.MaxRetries,
		backoff:    time.Second,
		log:        log,
	}, nil
}

// Embed returns a vector sized for the evaluation collection.
func (g *geminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	dims := int32(embeddingDimensions)
	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(truncateRunes(text, maxEmbedRunes)),
		&genai.EmbedContentConfig{OutputDimensionality: &dims})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	values := result.Embeddings[0].Values
	if len(values) != embeddingDimensions {
		return nil, fmt.Errorf("embedding has %d dimensions, collection expects %d", len(values), embeddingDimensions)
	}
	return values, nil
}

// Summarize retries transient failures and returns cleaned prose.
func (g *geminiService) Summarize(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		summary, err := g.summarizeOnce(ctx, prompt)
		if err == nil {
			return summary, nil
		}
		lastErr = err

		if attempt == g.maxRetries {
			break
		}
		g.log.Warn("summary attempt failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(g.backoff * time.Duration(attempt)):
		}
	}
	return "", fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

func (g *geminiService) summarizeOnce(ctx context.Context, prompt string) (string, error) {
	temperature := summaryTemperature
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   summaryMaxTokens,
		SystemInstruction: genai.NewContentFromText(summaryInstruction, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}
	return cleanSummary(resp.Text())
}

var (
	fencePattern   = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")
	headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	labelPattern   = regexp.MustCompile(`(?i)^\s*(\*\*)?summary(\*\*)?\s*:\s*`)
	blankLines     = regexp.MustCompile(`\n{3,}`)
)

// cleanSummary strips markdown scaffolding the model adds despite the
// instruction and caps the length stored on the evaluation row.
func cleanSummary(text string) (string, error) {
	text = fencePattern.ReplaceAllString(text, "")
	text = headingPattern.ReplaceAllString(text, "")
	text = labelPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	if utf8.RuneCountInString(text) > maxSummaryRunes {
		text = truncateRunes(text, maxSummaryRunes)
		// Prefer ending on a sentence.
		if i := strings.LastIndex(text, ". "); i > maxSummaryRunes/2 {
			text = text[:i+1]
		} else {
			text = strings.TrimSpace(text) + "…"
		}
	}
	return text, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for count := 0; count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
