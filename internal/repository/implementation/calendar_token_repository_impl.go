package implementation

import (
	"context"
	"encoding/json"

	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/repository/contract"
	"ai-notecapture-be/pkg/apperror"
)

const CalendarTokenBlobKey = "calendar_token"

type CalendarTokenRepositoryImpl struct {
	blobs contract.BlobRepository
}

func NewCalendarTokenRepository(blobs contract.BlobRepository) contract.CalendarTokenRepository {
	return &CalendarTokenRepositoryImpl{
		blobs: blobs,
	}
}

func (r *CalendarTokenRepositoryImpl) Find(ctx context.Context) (*entity.CalendarToken, error) {
	data, err := r.blobs.Get(ctx, CalendarTokenBlobKey)
	if err != nil {
		return nil, &apperror.PersistenceError{Key: CalendarTokenBlobKey, Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}

	var token entity.CalendarToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, &apperror.PersistenceError{Key: CalendarTokenBlobKey, Err: err}
	}
	if token.AccessToken == "" {
		return nil, nil
	}
	return &token, nil
}

func (r *CalendarTokenRepositoryImpl) Save(ctx context.Context, token *entity.CalendarToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return &apperror.PersistenceError{Key: CalendarTokenBlobKey, Err: err}
	}
	if err := r.blobs.Put(ctx, CalendarTokenBlobKey, data); err != nil {
		return &apperror.PersistenceError{Key: CalendarTokenBlobKey, Err: err}
	}
	return nil
}

func (r *CalendarTokenRepositoryImpl) Clear(ctx context.Context) error {
	if err := r.blobs.Delete(ctx, CalendarTokenBlobKey); err != nil {
		return &apperror.PersistenceError{Key: CalendarTokenBlobKey, Err: err}
	}
	return nil
}
