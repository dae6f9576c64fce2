package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type LLMResponse struct {
	Response           string `json:"response"`
	InputTokenCount    int32  `json:"input_token_count"`
	ThoughtsTokenCount int32  `json:"thoughts_token_count"`
	OutputTokenCount   int32  `json:"output_token_count"`
	TotalTokenCount    int32  `json:"total_token_count"`
}

// VisionModel answers a text instruction about one image.
type VisionModel interface {
	DescribeImage(ctx context.Context, image []byte, mimeType string, prompt string) (*LLMResponse, error)
}

// LanguageModel completes a text prompt.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (*LLMResponse, error)
}

var errContentBlocked = errors.New("content blocked")

const baseRetryBackoff = 500 * time.Millisecond

type GoogleLLMProcessor struct {
	client      *genai.Client
	visionModel string
	textModel   string
	limiter     *rate.Limiter
	maxRetries  int
	timeout     time.Duration
	logger      *zap.Logger
}

type GoogleLLMOptions struct {
	APIKey        string
	VisionModel   string
	TextModel     string
	RatePerMinute int
	MaxRetries    int
	Timeout       time.Duration
}

func NewGoogleLLMProcessor(ctx context.Context, opts GoogleLLMOptions, logger *zap.Logger) (*GoogleLLMProcessor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	perSecond := rate.Limit(float64(opts.RatePerMinute) / 60.0)
	return &GoogleLLMProcessor{
		client:      client,
		visionModel: opts.VisionModel,
		textModel:   opts.TextModel,
		limiter:     rate.NewLimiter(perSecond, 1),
		maxRetries:  opts.MaxRetries,
		timeout:     opts.Timeout,
		logger:      logger,
	}, nil
}

func (p *GoogleLLMProcessor) DescribeImage(ctx context.Context, image []byte, mimeType string, prompt string) (*LLMResponse, error) {
	parts := []*genai.Part{
		{InlineData: &genai.Blob{Data: image, MIMEType: mimeType}},
		{Text: prompt},
	}
	return p.generate(ctx, p.visionModel, parts, &genai.GenerateContentConfig{
		CandidateCount:   1,
		ResponseMIMEType: "application/json",
		Temperature:      floatPointer(0.2),
	})
}

func (p *GoogleLLMProcessor) Complete(ctx context.Context, prompt string) (*LLMResponse, error) {
	parts := []*genai.Part{{Text: prompt}}
	return p.generate(ctx, p.textModel, parts, &genai.GenerateContentConfig{
		CandidateCount: 1,
		Temperature:    floatPointer(0.7),
	})
}

func (p *GoogleLLMProcessor) generate(ctx context.Context, model string, parts []*genai.Part, config *genai.GenerateContentConfig) (*LLMResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := baseRetryBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		result, err := p.client.Models.GenerateContent(callCtx, model, []*genai.Content{{Parts: parts}}, config)
		cancel()
		if err != nil {
			lastErr = err
			p.logger.Warn("GenerateContent failed", zap.String("model", model), zap.Int("attempt", attempt+1), zap.Error(err))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		response, err := responseFromResult(result)
		if err != nil {
			if errors.Is(err, errContentBlocked) {
				return nil, err
			}
			lastErr = err
			continue
		}
		p.logger.Debug("GenerateContent done",
			zap.String("model", model),
			zap.Int32("input_tokens", response.InputTokenCount),
			zap.Int32("output_tokens", response.OutputTokenCount),
			zap.Int32("total_tokens", response.TotalTokenCount),
		)
		return response, nil
	}
	return nil, fmt.Errorf("model %s failed after %d attempts: %w", model, p.maxRetries+1, lastErr)
}

// responseFromResult checks prompt feedback and safety ratings and returns the
// first candidate text with token usage.
func responseFromResult(result *genai.GenerateContentResponse) (*LLMResponse, error) {
	if result == nil {
		return nil, fmt.Errorf("empty model response")
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s %s", errContentBlocked, result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
	}
	for _, c := range result.Candidates {
		for _, rating := range c.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("%w: %s", errContentBlocked, rating.Category)
			}
		}
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("model returned no text")
	}

	response := &LLMResponse{Response: text}
	if result.UsageMetadata != nil {
		response.InputTokenCount = result.UsageMetadata.PromptTokenCount
		response.ThoughtsTokenCount = result.UsageMetadata.ThoughtsTokenCount
		response.OutputTokenCount = result.UsageMetadata.CandidatesTokenCount
		response.TotalTokenCount = result.UsageMetadata.TotalTokenCount
	}
	return response, nil
}

func floatPointer(f float32) *float32 {
	return &f
}
