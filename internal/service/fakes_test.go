package service

import (
	"context"
	"io"
	"sync"

	"ai-notecapture-be/pkg/llm"
)

// fakeProvider replays canned completions in order and records prompts.
type fakeProvider struct {
	mu        sync.Mutex
	responses []string
	err       error
	invalid   error
	prompts   []string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, history[len(history)-1].Content)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "{}", nil
	}
	out := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return out, nil
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (f *fakeProvider) Validate() error { return f.invalid }

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeTranscriber struct {
	text     string
	duration float64
	err      error
	invalid  error
	calls    int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string, options ...llm.Option) (*llm.TranscriptionResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.TranscriptionResult{Text: f.text, Duration: f.duration}, nil
}

func (f *fakeTranscriber) Validate() error { return f.invalid }
