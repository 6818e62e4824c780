package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aethon-assistant/internal/logger"
	"aethon-assistant/internal/telemetry"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

// GenerationConfig carries the per-prompt model settings selected by the
// prompt manager.
type GenerationConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int32
}

// Reply is one generated chat turn plus its observed token cost
type Reply struct {
	Text       string
	TokensUsed int
	Fallback   bool
}

// GeminiClient wraps the Gemini generation API with a circuit breaker
// and a client-side rate limiter sized for the configured API tier.
type GeminiClient struct {
	client      *genai.Client
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
	metrics     *telemetry.Metrics
	tier        string
}

type RateLimits struct {
	RPM int // Requests per minute
	TPM int // Tokens per minute
	RPD int // Requests per day
}

func NewGeminiClient(apiKey string, tier string, metrics *telemetry.Metrics) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	limits := getRateLimits(tier)

	gc := &GeminiClient{
		client:  client,
		metrics: metrics,
		tier:    tier,
	}

	gc.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			if gc.metrics != nil {
				gc.metrics.RecordBreakerState(name, to.String())
			}
		},
	})

	// RPM limit with some buffer
	gc.rateLimiter = rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), limits.RPM/10)

	return gc, nil
}

func getRateLimits(tier string) RateLimits {
	switch tier {
	case "free":
		return RateLimits{RPM: 10, TPM: 250000, RPD: 250}
	case "tier1":
		return RateLimits{RPM: 1000, TPM: 1000000, RPD: 10000}
	case "tier2":
		return RateLimits{RPM: 2000, TPM: 4000000, RPD: 50000}
	default:
		return RateLimits{RPM: 10, TPM: 250000, RPD: 250}
	}
}

// GenerateReply answers message under systemPrompt. When contextBlock is
// non-empty it is injected ahead of the question so the model grounds its
// answer in the retrieved excerpts. When the circuit breaker is open a
// polite fallback reply is returned instead of an error.
func (gc *GeminiClient) GenerateReply(ctx context.Context, cfg GenerationConfig, systemPrompt, message, contextBlock string) (*Reply, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_reply")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", cfg.Model),
		attribute.Bool("gemini.grounded", contextBlock != ""),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return nil, err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(cfg.Model)
		model.SetTemperature(cfg.Temperature)
		model.SetMaxOutputTokens(cfg.MaxTokens)
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}

		resp, err := model.GenerateContent(ctx, genai.Text(buildUserTurn(message, contextBlock)))
		if err != nil {
			span.SetAttributes(attribute.Bool("gemini.error", true))
			span.SetAttributes(attribute.String("gemini.error_message", err.Error()))
			return nil, err
		}
		return resp, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
			return &Reply{
				Text:     "I'm experiencing high demand right now. Please try again in a moment.",
				Fallback: true,
			}, nil
		}
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return nil, err
	}

	resp := result.(*genai.GenerateContentResponse)
	text := collectText(resp)
	if text == "" {
		return nil, fmt.Errorf("gemini returned no text candidates")
	}

	tokens := extractTokenUsage(resp)
	if gc.metrics != nil {
		gc.metrics.RecordTokensUsed(int64(tokens), cfg.Model)
	}
	span.SetAttributes(attribute.Int("gemini.tokens_used", tokens))

	return &Reply{Text: text, TokensUsed: tokens}, nil
}

// buildUserTurn prefixes the question with retrieved document excerpts,
// labeled so the model can attribute text to distinct chunks.
func buildUserTurn(message, contextBlock string) string {
	if contextBlock == "" {
		return message
	}
	return fmt.Sprintf("Relevant excerpts from the uploaded document:\n\n%s\n\nQuestion: %s", contextBlock, message)
}

func collectText(resp *genai.GenerateContentResponse) string {
	text := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
		break
	}
	return text
}

// extractTokenUsage reads actual usage from response metadata, falling
// back to the ~4 characters per token heuristic.
func extractTokenUsage(resp *genai.GenerateContentResponse) int {
	if resp.UsageMetadata != nil {
		return int(resp.UsageMetadata.TotalTokenCount)
	}

	estimated := len(collectText(resp)) / 4
	if estimated < 1 {
		estimated = 1
	}
	return estimated
}

// Close the client
func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
