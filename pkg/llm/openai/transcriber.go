package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"ai-notecapture-be/pkg/llm"
)

// Transcriber uploads audio to an OpenAI-compatible /audio/transcriptions endpoint.
type Transcriber struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ llm.Transcriber = (*Transcriber)(nil)

type transcriptionResponse struct {
	Text     string     `json:"text"`
	Duration float64    `json:"duration"`
	Error    *errorBody `json:"error,omitempty"`
}

func NewTranscriber(apiKey, baseURL, model string) *Transcriber {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Transcriber{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

func (t *Transcriber) Validate() error {
	if t.apiKey == "" {
		return llm.ErrMissingCredential
	}
	return nil
}

func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, filename string, options ...llm.Option) (*llm.TranscriptionResult, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	opts := &llm.Options{Model: t.model}
	for _, o := range options {
		o(opts)
	}

	if filename == "" {
		filename = "recording.m4a"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.WriteField("model", opts.Model); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("write format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	url := fmt.Sprintf("%s/audio/transcriptions", t.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.apiKey))

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, bodyBytes)
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(bodyBytes, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if tr.Error != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: tr.Error.Message}
	}

	return &llm.TranscriptionResult{
		Text:     tr.Text,
		Duration: tr.Duration,
	}, nil
}
