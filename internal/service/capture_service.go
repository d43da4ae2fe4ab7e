package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"ai-notecapture-be/internal/dto"
	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/internal/repository/contract"
	"ai-notecapture-be/internal/repository/memory"
	"ai-notecapture-be/pkg/apperror"
	"ai-notecapture-be/pkg/discovery"
	"ai-notecapture-be/pkg/events"
	"ai-notecapture-be/pkg/markup"
)

const captureModule = "CAPTURE"

// CalendarSync is the part of the calendar adapter the capture pipeline uses.
type CalendarSync interface {
	IsConnected(ctx context.Context) bool
	CreateEventFromNote(ctx context.Context, note *entity.Note) (string, error)
}

// DiscoverFeed receives every recomputed set of discover items.
type DiscoverFeed interface {
	PublishDiscover(items []*entity.DiscoverItem)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ICaptureService interface {
	CaptureText(ctx context.Context, text string) (*entity.Note, error)
	CaptureVoice(ctx context.Context, audio io.Reader, filename string) (*entity.Note, error)
	Transcribe(ctx context.Context, audio io.Reader, filename string) (*Transcription, error)
	UpdateNote(ctx context.Context, id string, req *dto.UpdateNoteRequest) (*entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
	GetNote(ctx context.Context, id string) (*entity.Note, error)
	ListNotes(ctx context.Context) ([]*entity.Note, error)
	SearchNotes(ctx context.Context, query string) ([]*entity.Note, error)
	DiscoverItems(ctx context.Context) ([]*entity.DiscoverItem, error)
	RefreshDiscover(ctx context.Context) error
	RelatedNotes(ctx context.Context, id string) ([]*entity.Note, error)
	SyncNoteToCalendar(ctx context.Context, id string) (*entity.Note, error)
}

// CaptureDeps groups the optional collaborators. A nil Calendar disables
// calendar sync; nil Feed, Events or Relatedness skip that side channel.
type CaptureDeps struct {
	Calendar    CalendarSync
	Feed        DiscoverFeed
	Events      EventPublisher
	Relatedness IPublisherService
	Now         func() time.Time
}

type captureService struct {
	notes       contract.NoteRepository
	structuring IStructuringService
	engine      *discovery.Engine
	related     *memory.RelatedNotesRepository
	calendar    CalendarSync
	feed        DiscoverFeed
	events      EventPublisher
	relatedness IPublisherService
	logger      logger.ILogger
	now         func() time.Time

	mu       sync.RWMutex
	discover []*entity.DiscoverItem
}

func NewCaptureService(
	notes contract.NoteRepository,
	structuring IStructuringService,
	engine *discovery.Engine,
	related *memory.RelatedNotesRepository,
	log logger.ILogger,
	deps CaptureDeps,
) ICaptureService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &captureService{
		notes:       notes,
		structuring: structuring,
		engine:      engine,
		related:     related,
		calendar:    deps.Calendar,
		feed:        deps.Feed,
		events:      deps.Events,
		relatedness: deps.Relatedness,
		logger:      log,
		now:         now,
	}
}

func (s *captureService) CaptureText(ctx context.Context, text string) (*entity.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &apperror.ValidationError{Field: "text", Message: "must not be empty"}
	}
	return s.capture(ctx, text, entity.NoteTypeText)
}

// CaptureVoice transcribes first; structuring never starts without a transcript.
func (s *captureService) CaptureVoice(ctx context.Context, audio io.Reader, filename string) (*entity.Note, error) {
	tr, err := s.structuring.TranscribeAudio(ctx, audio, filename)
	if err != nil {
		return nil, err
	}
	return s.capture(ctx, tr.Text, entity.NoteTypeVoice)
}

func (s *captureService) Transcribe(ctx context.Context, audio io.Reader, filename string) (*Transcription, error) {
	return s.structuring.TranscribeAudio(ctx, audio, filename)
}

func (s *captureService) capture(ctx context.Context, text string, noteType entity.NoteType) (*entity.Note, error) {
	note, err := s.structuring.StructureNote(ctx, text, noteType)
	if err != nil {
		s.logger.Warn(captureModule, "Structuring failed, nothing saved", map[string]interface{}{
			"note_type": noteType,
			"error":     err.Error(),
		})
		return nil, err
	}

	saved, err := s.notes.Upsert(ctx, note)
	if err != nil {
		// The note is in memory but not durable; keep the feed consistent with memory.
		s.recompute(ctx)
		return nil, err
	}

	saved = s.autoSyncCalendar(ctx, saved)
	s.related.Flush()
	s.recompute(ctx)
	s.publishEvent(ctx, events.NoteCaptured, saved)
	s.enqueueRelatedness(ctx, saved.Id)

	s.logger.Info(captureModule, "Note captured", map[string]interface{}{
		"note_id":   saved.Id,
		"note_type": noteType,
		"category":  saved.Category,
	})
	return saved, nil
}

// autoSyncCalendar mirrors new meeting/event notes. Failures are logged only.
func (s *captureService) autoSyncCalendar(ctx context.Context, note *entity.Note) *entity.Note {
	if s.calendar == nil || !note.IsCalendarCandidate() {
		return note
	}
	if !s.calendar.IsConnected(ctx) {
		s.logger.Debug(captureModule, "Calendar not connected, skipping sync", map[string]interface{}{"note_id": note.Id})
		return note
	}

	synced, err := s.attachCalendarEvent(ctx, note)
	if err != nil {
		s.logger.Warn(captureModule, "Calendar sync failed", map[string]interface{}{
			"note_id": note.Id,
			"error":   err.Error(),
		})
		return note
	}
	return synced
}

func (s *captureService) attachCalendarEvent(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	eventID, err := s.calendar.CreateEventFromNote(ctx, note)
	if err != nil {
		return nil, err
	}

	withEvent := note.Clone()
	withEvent.CalendarEventId = eventID
	saved, err := s.notes.Upsert(ctx, withEvent)
	if err != nil {
		s.logger.Warn(captureModule, "Calendar event created but note not saved", map[string]interface{}{
			"note_id":  note.Id,
			"event_id": eventID,
			"error":    err.Error(),
		})
		return nil, err
	}
	s.publishEvent(ctx, events.NoteSynced, saved)
	return saved, nil
}

func (s *captureService) UpdateNote(ctx context.Context, id string, req *dto.UpdateNoteRequest) (*entity.Note, error) {
	existing, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, &apperror.ValidationError{Field: "title", Message: "must not be empty"}
	}
	applyPatch(existing, req)

	saved, err := s.notes.Upsert(ctx, existing)
	if err != nil {
		s.recompute(ctx)
		return nil, err
	}

	s.related.Flush()
	s.recompute(ctx)
	s.publishEvent(ctx, events.NoteUpdated, saved)
	return saved, nil
}

// applyPatch never touches originalText, noteType or createdAt.
func applyPatch(n *entity.Note, req *dto.UpdateNoteRequest) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setList := func(dst *[]string, src *[]string) {
		if src != nil {
			*dst = compactStrings(*src)
		}
	}

	setString(&n.Title, req.Title)
	setString(&n.Summary, req.Summary)
	if req.Content != nil {
		n.Content = markup.Sanitize(*req.Content)
	}
	setList(&n.Tags, req.Tags)
	if req.Category != nil {
		n.Category = entity.ParseCategory(*req.Category)
	}
	setString(&n.EventDate, req.EventDate)
	setString(&n.EventTime, req.EventTime)
	setString(&n.EventEndTime, req.EventEndTime)
	setString(&n.Location, req.Location)
	setList(&n.Attendees, req.Attendees)
	setString(&n.DueDate, req.DueDate)
	if req.Priority != nil {
		n.Priority = entity.ParsePriority(*req.Priority)
	}
	setString(&n.ReminderDate, req.ReminderDate)
	setString(&n.ReminderTime, req.ReminderTime)
	if req.IsRecurring != nil {
		n.IsRecurring = *req.IsRecurring
	}
	if req.Recurrence != nil {
		n.Recurrence = entity.ParseRecurrence(*req.Recurrence)
	}
	setList(&n.ActionItems, req.ActionItems)
}

func (s *captureService) DeleteNote(ctx context.Context, id string) error {
	existing, err := s.notes.FindOne(ctx, id)
	if err != nil {
		return err
	}

	if err := s.notes.Delete(ctx, id); err != nil {
		s.recompute(ctx)
		return err
	}
	if existing == nil {
		return nil
	}

	s.related.Flush()
	s.recompute(ctx)
	s.publishEvent(ctx, events.NoteDeleted, existing)
	return nil
}

func (s *captureService) GetNote(ctx context.Context, id string) (*entity.Note, error) {
	note, err := s.notes.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("note %s: %w", id, apperror.ErrNotFound)
	}
	return note, nil
}

func (s *captureService) ListNotes(ctx context.Context) ([]*entity.Note, error) {
	return s.notes.List(ctx)
}

func (s *captureService) SearchNotes(ctx context.Context, query string) ([]*entity.Note, error) {
	return s.notes.Search(ctx, query)
}

func (s *captureService) DiscoverItems(ctx context.Context) ([]*entity.DiscoverItem, error) {
	s.mu.RLock()
	items := s.discover
	s.mu.RUnlock()
	if items != nil {
		return items, nil
	}
	if err := s.RefreshDiscover(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.discover, nil
}

// RefreshDiscover recomputes the feed from the store and publishes it.
func (s *captureService) RefreshDiscover(ctx context.Context) error {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return err
	}
	items := s.engine.Compute(notes)

	s.mu.Lock()
	s.discover = items
	s.mu.Unlock()

	if s.feed != nil {
		s.feed.PublishDiscover(items)
	}
	return nil
}

func (s *captureService) recompute(ctx context.Context) {
	if err := s.RefreshDiscover(ctx); err != nil {
		s.logger.Error(captureModule, "Failed to recompute discover items", map[string]interface{}{"error": err.Error()})
	}
}

// RelatedNotes serves the worker's cached result, computing it on a miss.
func (s *captureService) RelatedNotes(ctx context.Context, id string) ([]*entity.Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	ids, ok := s.related.Get(id)
	if !ok {
		candidates, err := s.notes.List(ctx)
		if err != nil {
			return nil, err
		}
		ids = s.structuring.FindRelatedNotes(ctx, note, candidates)
		s.related.Save(id, ids)
	}

	related := make([]*entity.Note, 0, len(ids))
	for _, rid := range ids {
		n, err := s.notes.FindOne(ctx, rid)
		if err != nil {
			return nil, err
		}
		if n != nil {
			related = append(related, n)
		}
	}
	return related, nil
}

// SyncNoteToCalendar is the explicit retry path; unlike capture it surfaces
// calendar errors. A note that already has an event is returned unchanged.
func (s *captureService) SyncNoteToCalendar(ctx context.Context, id string) (*entity.Note, error) {
	if s.calendar == nil {
		return nil, &apperror.ConfigurationError{Setting: "CALENDAR_ENABLED"}
	}
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.CalendarEventId != "" {
		return note, nil
	}
	return s.attachCalendarEvent(ctx, note)
}

func (s *captureService) publishEvent(ctx context.Context, eventType string, note *entity.Note) {
	if s.events == nil {
		return
	}
	evt := events.NewNoteEvent(eventType, note.Id, note.Title, s.now())
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn(captureModule, "Failed to publish note event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func (s *captureService) enqueueRelatedness(ctx context.Context, noteID string) {
	if s.relatedness == nil {
		return
	}
	payload, err := json.Marshal(dto.RelatednessMessage{NoteId: noteID})
	if err == nil {
		err = s.relatedness.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Warn(captureModule, "Failed to enqueue relatedness lookup", map[string]interface{}{
			"note_id": noteID,
			"error":   err.Error(),
		})
	}
}
