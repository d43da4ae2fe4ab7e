package llm

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"
)

// RateLimitedProvider throttles outbound completion calls with a token bucket.
type RateLimitedProvider struct {
	next    LLMProvider
	limiter *rate.Limiter
}

func NewRateLimitedProvider(next LLMProvider, rps int, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		next:    next,
		limiter: newLimiter(rps, burst),
	}
}

var _ LLMProvider = (*RateLimitedProvider)(nil)

func (p *RateLimitedProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}
	return p.next.Chat(ctx, history, options...)
}

func (p *RateLimitedProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return p.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}

func (p *RateLimitedProvider) Validate() error {
	return p.next.Validate()
}

// RateLimitedTranscriber shares the same policy for audio uploads.
type RateLimitedTranscriber struct {
	next    Transcriber
	limiter *rate.Limiter
}

func NewRateLimitedTranscriber(next Transcriber, rps int, burst int) *RateLimitedTranscriber {
	return &RateLimitedTranscriber{
		next:    next,
		limiter: newLimiter(rps, burst),
	}
}

func (t *RateLimitedTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string, options ...Option) (*TranscriptionResult, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}
	return t.next.Transcribe(ctx, audio, filename, options...)
}

func (t *RateLimitedTranscriber) Validate() error {
	return t.next.Validate()
}

func newLimiter(rps int, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
