package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/pkg/apperror"
	"ai-notecapture-be/pkg/llm"
	"ai-notecapture-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC)

func newTestStructuring(p llm.LLMProvider, tr llm.Transcriber) IStructuringService {
	return NewStructuringService(p, tr, logger.NewNopLogger(),
		WithStructuringClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "note-1" }),
	)
}

func TestStructureNote(t *testing.T) {
	p := &fakeProvider{responses: []string{`{
		"title": "Budget meeting",
		"content": "<div class=\"info-card\" onclick=\"x()\">Review Q3</div><script>bad()</script>",
		"tags": ["work", " ", "budget"],
		"category": "Meeting",
		"eventDate": "2026-10-17",
		"eventTime": "15:00",
		"priority": "critical",
		"recurrence": "weekly"
	}`}}
	s := newTestStructuring(p, nil)

	note, err := s.StructureNote(context.Background(), "budget meeting tomorrow 3pm", entity.NoteTypeText)
	require.NoError(t, err)

	assert.Equal(t, "note-1", note.Id)
	assert.Equal(t, "budget meeting tomorrow 3pm", note.OriginalText)
	assert.Equal(t, entity.NoteTypeText, note.NoteType)
	assert.Equal(t, fixedNow, note.CreatedAt)
	assert.Equal(t, "Budget meeting", note.Title)
	assert.Equal(t, `<div class="info-card">Review Q3</div>`, note.Content)
	assert.Equal(t, []string{"work", "budget"}, note.Tags)
	assert.Equal(t, entity.CategoryMeeting, note.Category)
	assert.Equal(t, "2026-10-17", note.EventDate)
	assert.Equal(t, "15:00", note.EventTime)
	assert.Equal(t, entity.Priority(""), note.Priority)
	assert.Equal(t, entity.RecurrenceWeekly, note.Recurrence)
	assert.NotNil(t, note.ActionItems)
	assert.NotNil(t, note.Attendees)

	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], "2026-10-16")
	assert.Contains(t, p.prompts[0], "budget meeting tomorrow 3pm")
}

func TestStructureNoteDefaults(t *testing.T) {
	p := &fakeProvider{responses: []string{"```json\n{\"title\":\"Idea\",\"summary\":\"Try <b>bold</b> things\"}\n```"}}
	note, err := newTestStructuring(p, nil).StructureNote(context.Background(), "idea", entity.NoteTypeVoice)
	require.NoError(t, err)

	assert.Equal(t, entity.CategoryOther, note.Category)
	assert.Equal(t, []string{}, note.Tags)
	assert.Equal(t, []string{}, note.ActionItems)
	assert.Equal(t, "<p>Try &lt;b&gt;bold&lt;/b&gt; things</p>", note.Content)
	assert.Equal(t, entity.NoteTypeVoice, note.NoteType)
}

func TestStructureNoteRejectsUnusableResponses(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "Sure! Here is your note."},
		{"array", `[{"title":"x","content":"y"}]`},
		{"null", "null"},
		{"missing title", `{"content":"<p>x</p>"}`},
		{"blank title", `{"title":"  ","content":"<p>x</p>"}`},
		{"missing content", `{"title":"x"}`},
		{"wrong types", `{"title":"x","content":"y","tags":"work"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{responses: []string{tt.raw}}
			_, err := newTestStructuring(p, nil).StructureNote(context.Background(), "x", entity.NoteTypeText)
			assert.ErrorIs(t, err, apperror.ErrStructuring)
		})
	}
}

func TestStructureNoteMissingCredential(t *testing.T) {
	p := &fakeProvider{invalid: llm.ErrMissingCredential}
	_, err := newTestStructuring(p, nil).StructureNote(context.Background(), "x", entity.NoteTypeText)

	assert.ErrorIs(t, err, apperror.ErrConfiguration)
	assert.Zero(t, p.calls())
}

func TestStructureNoteCarriesServiceMessage(t *testing.T) {
	p := &fakeProvider{err: &openai.APIError{StatusCode: 429, Message: "Rate limit reached"}}
	_, err := newTestStructuring(p, nil).StructureNote(context.Background(), "x", entity.NoteTypeText)

	var se *apperror.StructuringError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Rate limit reached", se.Message)
}

func TestTranscribeAudio(t *testing.T) {
	tests := []struct {
		name    string
		tr      *fakeTranscriber
		wantErr error
		want    string
	}{
		{"ok", &fakeTranscriber{text: " call mom ", duration: 1.5}, nil, "call mom"},
		{"missing key", &fakeTranscriber{invalid: llm.ErrMissingCredential}, apperror.ErrConfiguration, ""},
		{"empty transcript", &fakeTranscriber{text: "  "}, apperror.ErrTranscription, ""},
		{"remote failure", &fakeTranscriber{err: errors.New("boom")}, apperror.ErrTranscription, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStructuring(&fakeProvider{}, tt.tr)
			res, err := s.TranscribeAudio(context.Background(), strings.NewReader("audio"), "a.m4a")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, 1.5, res.Duration)
		})
	}
}

func TestTranscribeAudioMissingKeySendsNothing(t *testing.T) {
	tr := &fakeTranscriber{invalid: llm.ErrMissingCredential}
	_, _ = newTestStructuring(&fakeProvider{}, tr).TranscribeAudio(context.Background(), strings.NewReader("a"), "a.m4a")
	assert.Zero(t, tr.calls)
}

func TestFindRelatedNotes(t *testing.T) {
	target := &entity.Note{Id: "t", Title: "Target"}
	candidates := []*entity.Note{target, {Id: "a", Title: "A"}, {Id: "b", Title: "B"}}

	p := &fakeProvider{responses: []string{`{"relatedIds":["b","ghost","b","t"]}`}}
	got := newTestStructuring(p, nil).FindRelatedNotes(context.Background(), target, candidates)

	assert.Equal(t, []string{"b"}, got)
	require.Len(t, p.prompts, 1)
	assert.NotContains(t, p.prompts[0], "id: t ")
}

func TestFindRelatedNotesCapsCandidates(t *testing.T) {
	target := &entity.Note{Id: "t"}
	var candidates []*entity.Note
	for i := 0; i < 30; i++ {
		candidates = append(candidates, &entity.Note{Id: "c" + string(rune('A'+i))})
	}
	p := &fakeProvider{responses: []string{`{"relatedIds":[]}`}}
	_ = newTestStructuring(p, nil).FindRelatedNotes(context.Background(), target, candidates)

	require.Len(t, p.prompts, 1)
	assert.Equal(t, 20, strings.Count(p.prompts[0], "- id: "))
}

func TestFindRelatedNotesDegradesToEmpty(t *testing.T) {
	target := &entity.Note{Id: "t"}
	other := &entity.Note{Id: "a"}

	tests := []struct {
		name       string
		p          *fakeProvider
		candidates []*entity.Note
		wantCalls  int
	}{
		{"no credential", &fakeProvider{invalid: llm.ErrMissingCredential}, []*entity.Note{other}, 0},
		{"only the target", &fakeProvider{}, []*entity.Note{target}, 0},
		{"remote failure", &fakeProvider{err: errors.New("down")}, []*entity.Note{other}, 1},
		{"garbage", &fakeProvider{responses: []string{"nope"}}, []*entity.Note{other}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestStructuring(tt.p, nil).FindRelatedNotes(context.Background(), target, tt.candidates)
			assert.NotNil(t, got)
			assert.Empty(t, got)
			assert.Equal(t, tt.wantCalls, tt.p.calls())
		})
	}
}
