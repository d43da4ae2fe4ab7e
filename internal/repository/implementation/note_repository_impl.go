package implementation

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/repository/contract"
	"ai-notecapture-be/pkg/apperror"
	"ai-notecapture-be/pkg/markup"
)

// NotesBlobKey holds the whole note collection as one JSON array.
const NotesBlobKey = "notes"

type NoteRepositoryImpl struct {
	blobs contract.BlobRepository
	now   func() time.Time

	mu    sync.RWMutex
	notes []*entity.Note // newest first
}

type NoteRepositoryOption func(*NoteRepositoryImpl)

// WithClock overrides the timestamp source used for UpdatedAt/CreatedAt.
func WithClock(now func() time.Time) NoteRepositoryOption {
	return func(r *NoteRepositoryImpl) {
		r.now = now
	}
}

func NewNoteRepository(blobs contract.BlobRepository, opts ...NoteRepositoryOption) *NoteRepositoryImpl {
	r := &NoteRepositoryImpl{
		blobs: blobs,
		now:   time.Now,
		notes: make([]*entity.Note, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ contract.NoteRepository = (*NoteRepositoryImpl)(nil)

func (r *NoteRepositoryImpl) Load(ctx context.Context) error {
	data, err := r.blobs.Get(ctx, NotesBlobKey)
	if err != nil {
		return &apperror.PersistenceError{Key: NotesBlobKey, Err: err}
	}

	notes := make([]*entity.Note, 0)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &notes); err != nil {
			return &apperror.PersistenceError{Key: NotesBlobKey, Err: err}
		}
	}

	r.mu.Lock()
	r.notes = notes
	r.mu.Unlock()
	return nil
}

func (r *NoteRepositoryImpl) Upsert(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	if note == nil || strings.TrimSpace(note.Id) == "" {
		return nil, &apperror.ValidationError{Field: "id", Message: "note id is required"}
	}

	stored := note.Clone()
	now := r.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := false
	for i, existing := range r.notes {
		if existing.Id == stored.Id {
			r.notes[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		r.notes = append([]*entity.Note{stored}, r.notes...)
	}

	if err := r.persistLocked(ctx); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.notes {
		if existing.Id == id {
			r.notes = append(r.notes[:i:i], r.notes[i+1:]...)
			return r.persistLocked(ctx)
		}
	}
	return nil
}

func (r *NoteRepositoryImpl) FindOne(_ context.Context, id string) (*entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.notes {
		if n.Id == id {
			return n.Clone(), nil
		}
	}
	return nil, nil
}

func (r *NoteRepositoryImpl) List(_ context.Context) ([]*entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneAll(r.notes), nil
}

func (r *NoteRepositoryImpl) Search(ctx context.Context, query string) ([]*entity.Note, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.List(ctx)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.Note, 0)
	for _, n := range r.notes {
		if matches(n, q) {
			result = append(result, n.Clone())
		}
	}
	return result, nil
}

func (r *NoteRepositoryImpl) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes), nil
}

// persistLocked rewrites the whole collection. The in-memory change is kept
// even if the write fails.
func (r *NoteRepositoryImpl) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(r.notes)
	if err != nil {
		return &apperror.PersistenceError{Key: NotesBlobKey, Err: err}
	}
	if err := r.blobs.Put(ctx, NotesBlobKey, data); err != nil {
		return &apperror.PersistenceError{Key: NotesBlobKey, Err: err}
	}
	return nil
}

func matches(n *entity.Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Summary), q) ||
		strings.Contains(strings.ToLower(markup.PlainText(n.Content)), q) ||
		strings.Contains(strings.ToLower(n.OriginalText), q) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func cloneAll(notes []*entity.Note) []*entity.Note {
	out := make([]*entity.Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}
