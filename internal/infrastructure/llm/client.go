// Package llm adapts an OpenAI-compatible chat completion API to domain.Oracle.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/retry"
	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Config holds the oracle client settings
type Config struct {
	APIKey            string
	BaseURL           string // empty means the public OpenAI endpoint
	Model             string
	Temperature       float32
	Timeout           time.Duration // per attempt
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int // total attempts per call
}

// Client handles communication with the chat completion API
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	rateLimiter *rate.Limiter
	policy      retry.Policy
	debug       bool
}

// Retry waits start at 500ms and double, with a little jitter
const (
	retryInitialInterval = 500 * time.Millisecond
	retryJitter          = 0.2
)

// NewClient creates a new oracle client
func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	attempts := cfg.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     timeout,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		policy: retry.Policy{
			MaxAttempts:     attempts,
			InitialInterval: retryInitialInterval,
			Jitter:          retryJitter,
			Retryable:       isTransient,
		},
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Complete sends one prompt and returns the text of the first choice.
// Errors wrap domain.ErrOracleUnavailable or domain.ErrMalformedResponse.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	start := time.Now()

	text, err := retry.Do(ctx, c.policy, func(ctx context.Context, attempt int) (string, error) {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrOracleUnavailable, err)
		}

		text, err := c.complete(ctx, req)
		if err != nil {
			log.Warnf("[LLM] %s request failed (attempt %d): %v", req.Purpose, attempt, err)
		}
		return text, err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, domain.ErrOracleUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, ctxErr)
		}
		return "", err
	}

	if c.debug {
		log.Debugf("[LLM] %s answered in %s (%d chars)", req.Purpose, time.Since(start).Round(time.Millisecond), len(text))
	}
	return text, nil
}

func (c *Client) complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrOracleUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", domain.ErrMalformedResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty content", domain.ErrMalformedResponse)
	}
	return content, nil
}

// isTransient reports whether another attempt might succeed: rate limits,
// server errors and transport failures. Client errors and bad answers are final.
func isTransient(err error) bool {
	if errors.Is(err, domain.ErrMalformedResponse) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return true
}

func retryableStatus(code int) bool {
	return code == 0 || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
