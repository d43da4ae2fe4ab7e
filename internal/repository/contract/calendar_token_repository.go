package contract

import (
	"context"

	"ai-notecapture-be/internal/entity"
)

type CalendarTokenRepository interface {
	// Find returns (nil, nil) when no token is stored.
	Find(ctx context.Context) (*entity.CalendarToken, error)
	Save(ctx context.Context, token *entity.CalendarToken) error
	Clear(ctx context.Context) error
}
