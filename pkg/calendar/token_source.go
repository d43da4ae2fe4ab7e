package calendar

import (
	"context"
	"fmt"

	"ai-notecapture-be/internal/entity"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// notifyTokenSource persists a token whenever the underlying source hands out
// a different access token than the one last seen.
type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback func(*oauth2.Token) error
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			return nil, fmt.Errorf("persist refreshed token: %w", err)
		}
	}
	return t, nil
}

func (a *Adapter) tokenSource(ctx context.Context, stored *entity.CalendarToken) oauth2.TokenSource {
	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    "Bearer",
	}

	// Without client credentials the stored token is used as is until Google rejects it.
	if a.oauth == nil || stored.RefreshToken == "" {
		return oauth2.StaticTokenSource(token)
	}

	token.Expiry = stored.ExpiresAt
	return &notifyTokenSource{
		src:     a.oauth.TokenSource(ctx, token),
		current: token,
		callback: func(t *oauth2.Token) error {
			refreshed := &entity.CalendarToken{
				AccessToken:  t.AccessToken,
				RefreshToken: t.RefreshToken,
				ExpiresAt:    t.Expiry,
			}
			if refreshed.RefreshToken == "" {
				refreshed.RefreshToken = stored.RefreshToken
			}
			a.mu.Lock()
			defer a.mu.Unlock()
			a.logger.Info(calendarModule, "Calendar token refreshed", nil)
			return a.tokens.Save(ctx, refreshed)
		},
	}
}

func (a *Adapter) service(ctx context.Context, stored *entity.CalendarToken) (*gcal.Service, error) {
	client := oauth2.NewClient(ctx, a.tokenSource(ctx, stored))
	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, a.clientOptions...)

	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}
	return srv, nil
}
