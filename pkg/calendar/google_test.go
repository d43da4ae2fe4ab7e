package calendar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/internal/repository/implementation"
	"ai-notecapture-be/internal/repository/memory"
	"ai-notecapture-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

type recorder struct {
	hits   int32
	method string
	path   string
	query  map[string]string
	event  gcal.Event
	auth   string
}

func newAdapter(t *testing.T, handler func(w http.ResponseWriter, r *http.Request), opts ...Option) (*Adapter, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&rec.hits, 1)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.query = map[string]string{}
		for k := range r.URL.Query() {
			rec.query[k] = r.URL.Query().Get(k)
		}
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &rec.event)
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	tokens := implementation.NewCalendarTokenRepository(memory.NewBlobRepository())
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithTimeZone("Europe/Berlin"),
		WithClientOptions(option.WithEndpoint(srv.URL + "/")),
	}
	a := NewAdapter(tokens, logger.NewNopLogger(), append(base, opts...)...)
	return a, rec
}

func okInsert(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"id":"evt-1"}`)
}

func TestConnectDisconnect(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(t, okInsert)

	assert.False(t, a.IsConnected(ctx))
	require.NoError(t, a.Connect(ctx, "at", "rt"))
	assert.True(t, a.IsConnected(ctx))

	token, err := a.tokens.Find(ctx)
	require.NoError(t, err)
	assert.True(t, token.ExpiresAt.Equal(testNow.Add(time.Hour)))

	require.NoError(t, a.Disconnect(ctx))
	assert.False(t, a.IsConnected(ctx))
	require.NoError(t, a.Disconnect(ctx))

	assert.ErrorIs(t, a.Connect(ctx, " ", ""), apperror.ErrValidation)
}

func TestCreateEventSkipConditions(t *testing.T) {
	ctx := context.Background()
	a, rec := newAdapter(t, okInsert)

	_, err := a.CreateEventFromNote(ctx, &entity.Note{Id: "n", EventDate: "2026-10-17"})
	assert.True(t, apperror.IsCalendarKind(err, apperror.CalendarNotConnected))

	require.NoError(t, a.Connect(ctx, "at", ""))
	_, err = a.CreateEventFromNote(ctx, &entity.Note{Id: "n", Category: entity.CategoryMeeting})
	assert.True(t, apperror.IsCalendarKind(err, apperror.CalendarMissingEventDate))

	assert.Zero(t, atomic.LoadInt32(&rec.hits))
}

func TestCreateTimedEvent(t *testing.T) {
	ctx := context.Background()
	a, rec := newAdapter(t, okInsert)
	require.NoError(t, a.Connect(ctx, "at", ""))

	id, err := a.CreateEventFromNote(ctx, &entity.Note{
		Id:        "n1",
		Title:     "Budget Meeting with John",
		Content:   "<div class=\"info-card\">Discuss <strong>budget</strong></div>",
		EventDate: "2026-10-17",
		EventTime: "15:00",
		Location:  "Room 4",
		Attendees: []string{"John", "Ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", id)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/calendars/primary/events", rec.path)
	assert.Equal(t, "Bearer at", rec.auth)

	ev := rec.event
	assert.Equal(t, "Budget Meeting with John", ev.Summary)
	assert.Equal(t, "Discuss budget\n\nAttendees: John, Ana", ev.Description)
	assert.Equal(t, "Room 4", ev.Location)
	require.NotNil(t, ev.Start)
	assert.Equal(t, "2026-10-17T15:00:00+02:00", ev.Start.DateTime)
	assert.Equal(t, "2026-10-17T16:00:00+02:00", ev.End.DateTime)
	assert.Equal(t, "Europe/Berlin", ev.Start.TimeZone)

	require.NotNil(t, ev.Reminders)
	assert.False(t, ev.Reminders.UseDefault)
	require.Len(t, ev.Reminders.Overrides, 2)
	assert.Equal(t, int64(30), ev.Reminders.Overrides[0].Minutes)
	assert.Equal(t, int64(10), ev.Reminders.Overrides[1].Minutes)
	assert.Equal(t, "popup", ev.Reminders.Overrides[0].Method)
}

func TestCreateTimedEventWithEndTime(t *testing.T) {
	ctx := context.Background()
	a, rec := newAdapter(t, okInsert)
	require.NoError(t, a.Connect(ctx, "at", ""))

	_, err := a.CreateEventFromNote(ctx, &entity.Note{EventDate: "2026-10-17", EventTime: "09:30", EventEndTime: "11:00"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-17T11:00:00+02:00", rec.event.End.DateTime)
}

func TestCreateAllDayEvent(t *testing.T) {
	ctx := context.Background()
	a, rec := newAdapter(t, okInsert)
	require.NoError(t, a.Connect(ctx, "at", ""))

	_, err := a.CreateEventFromNote(ctx, &entity.Note{Title: "Conference", EventDate: "2026-10-31"})
	require.NoError(t, err)

	assert.Equal(t, "2026-10-31", rec.event.Start.Date)
	assert.Equal(t, "2026-11-01", rec.event.End.Date)
	assert.Empty(t, rec.event.Start.DateTime)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`)
	})
	require.NoError(t, a.Connect(ctx, "stale", ""))

	_, err := a.CreateEventFromNote(ctx, &entity.Note{EventDate: "2026-10-17"})
	assert.True(t, apperror.IsCalendarKind(err, apperror.CalendarSessionExpired))
	assert.False(t, a.IsConnected(ctx))
}

func TestRemoteErrorCarriesMessage(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"Calendar usage limits exceeded."}}`)
	})
	require.NoError(t, a.Connect(ctx, "at", ""))

	_, err := a.CreateEventFromNote(ctx, &entity.Note{EventDate: "2026-10-17"})
	var ce *apperror.CalendarError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, apperror.CalendarRemote, ce.Kind)
	assert.Equal(t, "Calendar usage limits exceeded.", ce.Message)
	assert.True(t, a.IsConnected(ctx))
}

func TestListUpcomingEvents(t *testing.T) {
	ctx := context.Background()
	a, rec := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[
			{"id":"e1","summary":"Standup","start":{"dateTime":"2026-10-16T10:00:00Z"},"end":{"dateTime":"2026-10-16T10:15:00Z"}},
			{"id":"e2","summary":"Holiday","start":{"date":"2026-10-20"},"end":{"date":"2026-10-21"}}
		]}`)
	})
	require.NoError(t, a.Connect(ctx, "at", ""))

	events, err := a.ListUpcomingEvents(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "5", rec.query["maxResults"])
	assert.Equal(t, "startTime", rec.query["orderBy"])
	assert.Equal(t, "true", rec.query["singleEvents"])
	assert.Equal(t, "2026-10-16T09:00:00Z", rec.query["timeMin"])

	require.Len(t, events, 2)
	assert.Equal(t, "Standup", events[0].Summary)
	assert.False(t, events[0].AllDay)
	assert.True(t, events[1].AllDay)
	assert.Equal(t, "2026-10-20", events[1].Start)
}

func TestListUpcomingEventsNotConnected(t *testing.T) {
	a, rec := newAdapter(t, okInsert)
	_, err := a.ListUpcomingEvents(context.Background(), 0)
	assert.True(t, apperror.IsCalendarKind(err, apperror.CalendarNotConnected))
	assert.Zero(t, atomic.LoadInt32(&rec.hits))
}

func newTokenEndpoint(t *testing.T, status int, body string) (*oauth2.Config, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, &hits
}

func saveExpiredToken(t *testing.T, a *Adapter) {
	t.Helper()
	require.NoError(t, a.tokens.Save(context.Background(), &entity.CalendarToken{
		AccessToken:  "stale",
		RefreshToken: "rt",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}))
}

func TestExpiredTokenIsRefreshedAndPersisted(t *testing.T) {
	ctx := context.Background()
	cfg, tokenHits := newTokenEndpoint(t, http.StatusOK, `{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`)
	a, rec := newAdapter(t, okInsert, WithOAuthConfig(cfg))
	saveExpiredToken(t, a)

	id, err := a.CreateEventFromNote(ctx, &entity.Note{Id: "n", EventDate: "2026-10-17"})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", id)
	assert.Equal(t, int32(1), atomic.LoadInt32(tokenHits))
	assert.Equal(t, "Bearer fresh", rec.auth)

	stored, err := a.tokens.Find(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "fresh", stored.AccessToken)
	assert.Equal(t, "rt", stored.RefreshToken)
	assert.True(t, stored.ExpiresAt.After(time.Now()))
}

func TestRejectedRefreshExpiresSession(t *testing.T) {
	ctx := context.Background()
	cfg, tokenHits := newTokenEndpoint(t, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`)
	a, rec := newAdapter(t, okInsert, WithOAuthConfig(cfg))
	saveExpiredToken(t, a)

	_, err := a.CreateEventFromNote(ctx, &entity.Note{Id: "n", EventDate: "2026-10-17"})
	var ce *apperror.CalendarError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, apperror.CalendarSessionExpired, ce.Kind)
	assert.False(t, a.IsConnected(ctx))
	assert.NotZero(t, atomic.LoadInt32(tokenHits))
	assert.Zero(t, atomic.LoadInt32(&rec.hits))
}
