package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollamaapi "github.com/ollama/ollama/api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openaigo "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"liferestart-server/internal/config"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liferestart_ai_requests_total",
			Help: "Total number of requests to the AI backends.",
		},
		[]string{"provider", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liferestart_ai_request_duration_seconds",
			Help:    "Histogram of AI backend request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)
	aiTotalTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liferestart_ai_total_tokens",
			Help:    "Histogram of total token counts (prompt + completion).",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"provider", "model"},
	)
)

// UsageInfo carries token usage reported by a backend, when available.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerationRequest is one text-generation call. ResponseSchema, when set,
// asks the backend for JSON output in whatever way it natively supports:
// a declared schema for the cloud API, JSON mode for ollama.
type GenerationRequest struct {
	Model          string
	SystemPrompt   string
	UserPrompt     string
	Temperature    float64
	MaxTokens      int
	ResponseSchema *jsonschema.Definition
}

// AIClient is the transport-level interface to one backend. Implementations
// perform exactly one attempt per call; retrying is deliberately absent.
type AIClient interface {
	GenerateText(ctx context.Context, req GenerationRequest) (string, UsageInfo, error)
}

// --- OpenAI-compatible client ---

// Compile-time check.
var _ AIClient = (*openAIClient)(nil)

type openAIClient struct {
	client *openaigo.Client
	logger *zap.Logger
}

// NewOpenAIClient creates the cloud backend client. The API key may be
// empty; requests will then fail with a permission error, which the
// resolver turns into an in-game ending rather than a crash.
func NewOpenAIClient(cfg *config.Config, logger *zap.Logger) AIClient {
	clientConfig := openaigo.DefaultConfig(cfg.OpenAIAPIKey)
	clientConfig.BaseURL = cfg.OpenAIBaseURL
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}
	return &openAIClient{
		client: openaigo.NewClientWithConfig(clientConfig),
		logger: logger.Named("OpenAIClient"),
	}
}

func (c *openAIClient) GenerateText(ctx context.Context, req GenerationRequest) (string, UsageInfo, error) {
	usage := UsageInfo{}
	provider := "openai"

	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: req.SystemPrompt},
	}
	if req.UserPrompt != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role: openaigo.ChatMessageRoleUser, Content: req.UserPrompt,
		})
	}

	chatReq := openaigo.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}
	if req.ResponseSchema != nil {
		chatReq.ResponseFormat = &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openaigo.ChatCompletionResponseFormatJSONSchema{
				Name:   "turn_result",
				Schema: req.ResponseSchema,
			},
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	duration := time.Since(start)

	if err != nil {
		c.logger.Warn("OpenAI request failed",
			zap.String("model", req.Model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		aiRequestsTotal.With(prometheus.Labels{"provider": provider, "model": req.Model, "status": "error"}).Inc()
		var apiErr *openaigo.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden) {
			return "", usage, fmt.Errorf("%w: %v", ErrAIPermission, err)
		}
		return "", usage, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		aiRequestsTotal.With(prometheus.Labels{"provider": provider, "model": req.Model, "status": "error_empty_response"}).Inc()
		return "", usage, fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"provider": provider, "model": req.Model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"provider": provider, "model": req.Model}).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		usage.PromptTokens = resp.Usage.PromptTokens
		usage.CompletionTokens = resp.Usage.CompletionTokens
		usage.TotalTokens = resp.Usage.TotalTokens
		aiTotalTokens.With(prometheus.Labels{"provider": provider, "model": req.Model}).Observe(float64(usage.TotalTokens))
	}

	text := resp.Choices[0].Message.Content
	c.logger.Debug("OpenAI response received",
		zap.String("model", req.Model),
		zap.Duration("duration", duration),
		zap.Int("responseLength", len(text)),
	)
	return text, usage, nil
}

// --- Ollama client ---

// Compile-time check.
var _ AIClient = (*ollamaClient)(nil)

type ollamaClient struct {
	client  *ollamaapi.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewOllamaClient creates the local backend client.
func NewOllamaClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	baseURL := strings.TrimSuffix(cfg.OllamaBaseURL, "/")
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL %q: %w", baseURL, err)
	}
	httpClient := &http.Client{Timeout: cfg.AITimeout}
	return &ollamaClient{
		client:  ollamaapi.NewClient(parsedURL, httpClient),
		timeout: cfg.AITimeout,
		logger:  logger.Named("OllamaClient"),
	}, nil
}

func (c *ollamaClient) GenerateText(ctx context.Context, req GenerationRequest) (string, UsageInfo, error) {
	usage := UsageInfo{}
	provider := "ollama"

	genReq := &ollamaapi.GenerateRequest{
		Model:  req.Model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Stream: func(b bool) *bool { return &b }(false),
		Options: map[string]interface{}{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}
	if req.ResponseSchema != nil {
		genReq.Format = json.RawMessage(`"json"`)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var resp ollamaapi.GenerateResponse
	err := c.client.Generate(requestCtx, genReq, func(r ollamaapi.GenerateResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("Ollama request timed out",
				zap.String("model", req.Model),
				zap.Duration("timeout", c.timeout),
			)
		} else {
			c.logger.Warn("Ollama request failed",
				zap.String("model", req.Model),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		}
		aiRequestsTotal.With(prometheus.Labels{"provider": provider, "model": req.Model, "status": "error"}).Inc()
		return "", usage, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	if resp.Response == "" {
		aiRequestsTotal.With(prometheus.Labels{"provider": provider, "model": req.Model, "status": "error_empty_response"}).Inc()
		return "", usage, fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"provider": provider, "model": req.Model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"provider": provider, "model": req.Model}).Observe(duration.Seconds())

	usage.PromptTokens = resp.PromptEvalCount
	usage.CompletionTokens = resp.EvalCount
	usage.TotalTokens = resp.PromptEvalCount + resp.EvalCount
	if usage.TotalTokens > 0 {
		aiTotalTokens.With(prometheus.Labels{"provider": provider, "model": req.Model}).Observe(float64(usage.TotalTokens))
	}

	c.logger.Debug("Ollama response received",
		zap.String("model", req.Model),
		zap.Duration("duration", duration),
		zap.Int("responseLength", len(resp.Response)),
	)
	return resp.Response, usage, nil
}
