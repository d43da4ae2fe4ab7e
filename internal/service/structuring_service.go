package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/pkg/apperror"
	"ai-notecapture-be/pkg/llm"
	"ai-notecapture-be/pkg/llm/openai"
	"ai-notecapture-be/pkg/markup"

	"github.com/google/uuid"
)

const (
	structuringModule      = "STRUCTURING"
	maxRelatedCandidates   = 20
	relatedExcerptRunes    = 120
	defaultStructureTokens = 1500
)

type Transcription struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
}

type IStructuringService interface {
	StructureNote(ctx context.Context, rawText string, noteType entity.NoteType) (*entity.Note, error)
	TranscribeAudio(ctx context.Context, audio io.Reader, filename string) (*Transcription, error)
	FindRelatedNotes(ctx context.Context, note *entity.Note, candidates []*entity.Note) []string
}

type StructuringOption func(*structuringService)

func WithStructuringClock(now func() time.Time) StructuringOption {
	return func(s *structuringService) { s.now = now }
}

func WithIDGenerator(newID func() string) StructuringOption {
	return func(s *structuringService) { s.newID = newID }
}

func WithMaxTokens(n int) StructuringOption {
	return func(s *structuringService) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

type structuringService struct {
	provider    llm.LLMProvider
	transcriber llm.Transcriber
	logger      logger.ILogger
	now         func() time.Time
	newID       func() string
	maxTokens   int
}

func NewStructuringService(
	provider llm.LLMProvider,
	transcriber llm.Transcriber,
	log logger.ILogger,
	opts ...StructuringOption,
) IStructuringService {
	s := &structuringService{
		provider:    provider,
		transcriber: transcriber,
		logger:      log,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
		maxTokens:   defaultStructureTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const structurePrompt = `You turn a quick personal note into a structured record.
Today's date is %s. Resolve relative dates such as "tomorrow" or "next Friday" against it.

Respond with ONE JSON object and nothing else, using these keys:
- "title": short title (required)
- "content": the note rewritten as HTML using only div, span, p, ul, ol, li, h2, h3, h4, strong, em, br
  and the classes info-card, info-row, info-label, info-value, highlight, highlight-block,
  action-list, action-item, section-header, tag, note-section
- "summary": one plain sentence
- "tags": array of short lowercase keywords
- "category": one of meeting, event, task, reminder, idea, learning, personal, work, other
- "eventDate" (YYYY-MM-DD), "eventTime" (HH:MM, 24h), "eventEndTime" (HH:MM), "location", "attendees" (array)
- "dueDate" (YYYY-MM-DD), "priority": one of low, medium, high, urgent
- "reminderDate" (YYYY-MM-DD), "reminderTime" (HH:MM), "isRecurring" (boolean), "recurrence": daily, weekly or monthly
- "actionItems": array of strings
Omit keys that do not apply.

Note:
%s`

// structuredPayload is the only shape accepted back from the model.
type structuredPayload struct {
	Title             string   `json:"title"`
	Content           string   `json:"content"`
	StructuredContent string   `json:"structuredContent"`
	Summary           string   `json:"summary"`
	Tags              []string `json:"tags"`
	Category          string   `json:"category"`
	EventDate         string   `json:"eventDate"`
	EventTime         string   `json:"eventTime"`
	EventEndTime      string   `json:"eventEndTime"`
	Location          string   `json:"location"`
	Attendees         []string `json:"attendees"`
	DueDate           string   `json:"dueDate"`
	Priority          string   `json:"priority"`
	ReminderDate      string   `json:"reminderDate"`
	ReminderTime      string   `json:"reminderTime"`
	IsRecurring       bool     `json:"isRecurring"`
	Recurrence        string   `json:"recurrence"`
	ActionItems       []string `json:"actionItems"`
}

func (s *structuringService) StructureNote(ctx context.Context, rawText string, noteType entity.NoteType) (*entity.Note, error) {
	if err := s.provider.Validate(); err != nil {
		return nil, &apperror.ConfigurationError{Setting: "AI_API_KEY"}
	}

	now := s.now()
	prompt := fmt.Sprintf(structurePrompt, now.Format("2006-01-02 (Monday)"), rawText)

	raw, err := s.provider.Generate(ctx, prompt,
		llm.WithJSONResponse(),
		llm.WithMaxTokens(s.maxTokens),
		llm.WithTemperature(0.2),
	)
	if err != nil {
		return nil, &apperror.StructuringError{Message: providerMessage(err), Err: err}
	}

	payload, err := parseStructuredPayload(raw)
	if err != nil {
		return nil, err
	}

	note := payload.toNote()
	note.Id = s.newID()
	note.OriginalText = rawText
	note.NoteType = noteType
	note.CreatedAt = now
	note.UpdatedAt = now

	s.logger.Info(structuringModule, "Note structured", map[string]interface{}{
		"note_id":  note.Id,
		"category": note.Category,
		"tags":     len(note.Tags),
	})
	return note, nil
}

func parseStructuredPayload(raw string) (*structuredPayload, error) {
	body := stripCodeFence(raw)
	if !strings.HasPrefix(body, "{") {
		return nil, &apperror.StructuringError{Message: "response is not a JSON object"}
	}

	var payload structuredPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, &apperror.StructuringError{Message: "response could not be decoded", Err: err}
	}

	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		return nil, &apperror.StructuringError{Message: "response has no title"}
	}
	if strings.TrimSpace(payload.Content) == "" && strings.TrimSpace(payload.StructuredContent) == "" && strings.TrimSpace(payload.Summary) == "" {
		return nil, &apperror.StructuringError{Message: "response has no content"}
	}
	return &payload, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block if present.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (p *structuredPayload) toNote() *entity.Note {
	content := p.Content
	if strings.TrimSpace(content) == "" {
		content = p.StructuredContent
	}
	summary := strings.TrimSpace(p.Summary)
	if strings.TrimSpace(content) == "" {
		content = markup.Paragraph(summary)
	} else {
		content = markup.Sanitize(content)
	}

	return &entity.Note{
		Title:        p.Title,
		Content:      content,
		Summary:      summary,
		Tags:         compactStrings(p.Tags),
		Category:     entity.ParseCategory(p.Category),
		EventDate:    strings.TrimSpace(p.EventDate),
		EventTime:    strings.TrimSpace(p.EventTime),
		EventEndTime: strings.TrimSpace(p.EventEndTime),
		Location:     strings.TrimSpace(p.Location),
		Attendees:    compactStrings(p.Attendees),
		DueDate:      strings.TrimSpace(p.DueDate),
		Priority:     entity.ParsePriority(p.Priority),
		ReminderDate: strings.TrimSpace(p.ReminderDate),
		ReminderTime: strings.TrimSpace(p.ReminderTime),
		IsRecurring:  p.IsRecurring,
		Recurrence:   entity.ParseRecurrence(p.Recurrence),
		ActionItems:  compactStrings(p.ActionItems),
	}
}

// compactStrings trims entries and drops blanks; the result is never nil.
func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *structuringService) TranscribeAudio(ctx context.Context, audio io.Reader, filename string) (*Transcription, error) {
	if s.transcriber == nil || s.transcriber.Validate() != nil {
		return nil, &apperror.ConfigurationError{Setting: "AI_API_KEY"}
	}

	res, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return nil, &apperror.TranscriptionError{Message: providerMessage(err), Err: err}
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return nil, &apperror.TranscriptionError{Message: "no speech detected"}
	}

	s.logger.Info(structuringModule, "Audio transcribed", map[string]interface{}{
		"filename": filename,
		"duration": res.Duration,
	})
	return &Transcription{Text: text, Duration: res.Duration}, nil
}

const relatedPrompt = `Below is a target note and a list of candidate notes.
Pick the candidates that are meaningfully related to the target (same project, people, topic or follow-up).
Respond with ONE JSON object: {"relatedIds": ["<candidate id>", ...]}. Use an empty array if none are related.

Target:
%s

Candidates:
%s`

type relatedPayload struct {
	RelatedIds []string `json:"relatedIds"`
}

func (s *structuringService) FindRelatedNotes(ctx context.Context, note *entity.Note, candidates []*entity.Note) []string {
	related := make([]string, 0)
	if note == nil || s.provider.Validate() != nil {
		return related
	}

	allowed := make(map[string]struct{})
	var list strings.Builder
	for _, c := range candidates {
		if c == nil || c.Id == note.Id {
			continue
		}
		if len(allowed) == maxRelatedCandidates {
			break
		}
		allowed[c.Id] = struct{}{}
		fmt.Fprintf(&list, "- id: %s | title: %s | %s\n", c.Id, c.Title, describeForRelatedness(c))
	}
	if len(allowed) == 0 {
		return related
	}

	target := fmt.Sprintf("title: %s | %s", note.Title, describeForRelatedness(note))
	raw, err := s.provider.Generate(ctx, fmt.Sprintf(relatedPrompt, target, list.String()),
		llm.WithJSONResponse(),
		llm.WithMaxTokens(300),
	)
	if err != nil {
		s.warnRelatedness(note.Id, &apperror.RelatednessError{Err: err})
		return related
	}

	var payload relatedPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		s.warnRelatedness(note.Id, &apperror.RelatednessError{Err: err})
		return related
	}

	seen := make(map[string]struct{})
	for _, id := range payload.RelatedIds {
		if _, ok := allowed[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		related = append(related, id)
	}
	return related
}

func describeForRelatedness(n *entity.Note) string {
	text := n.Summary
	if text == "" {
		text = markup.PlainText(n.Content)
	}
	if text == "" {
		text = n.OriginalText
	}
	tags := strings.Join(n.Tags, ", ")
	return fmt.Sprintf("tags: [%s] | %s", tags, markup.Excerpt(text, relatedExcerptRunes))
}

func (s *structuringService) warnRelatedness(noteID string, err error) {
	s.logger.Warn(structuringModule, "Related notes lookup failed", map[string]interface{}{
		"note_id": noteID,
		"error":   err.Error(),
	})
}

// providerMessage prefers the message reported by the remote service.
func providerMessage(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "request to language model failed"
}
