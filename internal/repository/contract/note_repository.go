package contract

import (
	"context"

	"ai-notecapture-be/internal/entity"
)

// NoteRepository owns the note collection. Upsert and Delete are the only
// mutation paths; every read returns copies.
type NoteRepository interface {
	Load(ctx context.Context) error
	Upsert(ctx context.Context, note *entity.Note) (*entity.Note, error)
	Delete(ctx context.Context, id string) error
	FindOne(ctx context.Context, id string) (*entity.Note, error)
	List(ctx context.Context) ([]*entity.Note, error)
	Search(ctx context.Context, query string) ([]*entity.Note, error)
	Count(ctx context.Context) (int, error)
}
