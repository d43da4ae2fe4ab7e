// Package calendar mirrors notes with a date onto a Google Calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/internal/repository/contract"
	"ai-notecapture-be/pkg/apperror"
	"ai-notecapture-be/pkg/markup"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	calendarModule = "CALENDAR"

	TokenLifetime      = time.Hour
	defaultEventLength = time.Hour
	defaultListMax     = 10
	maxListResults     = 250
	dateLayout         = "2006-01-02"
	clockLayout        = "15:04"
)

// Reminder offsets in minutes before the event start.
var popupReminders = []int64{30, 10}

type Option func(*Adapter)

// WithOAuthClient enables refreshing expired access tokens.
func WithOAuthClient(clientID, clientSecret string) Option {
	return func(a *Adapter) {
		if clientID == "" || clientSecret == "" {
			return
		}
		a.oauth = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarEventsScope},
		}
	}
}

// WithOAuthConfig installs a prepared OAuth client, e.g. one with a custom
// token endpoint.
func WithOAuthConfig(cfg *oauth2.Config) Option {
	return func(a *Adapter) { a.oauth = cfg }
}

func WithCalendarID(id string) Option {
	return func(a *Adapter) {
		if id != "" {
			a.calendarID = id
		}
	}
}

// WithTimeZone sets the zone timed events are created in. Unknown names keep UTC.
func WithTimeZone(name string) Option {
	return func(a *Adapter) {
		if loc, err := time.LoadLocation(name); err == nil {
			a.location = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// WithClientOptions is appended to every calendar.NewService call.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(a *Adapter) { a.clientOptions = append(a.clientOptions, opts...) }
}

type Adapter struct {
	tokens        contract.CalendarTokenRepository
	logger        logger.ILogger
	oauth         *oauth2.Config
	calendarID    string
	location      *time.Location
	now           func() time.Time
	clientOptions []option.ClientOption

	// serializes token read-modify-write against refresh callbacks
	mu sync.Mutex
}

func NewAdapter(tokens contract.CalendarTokenRepository, log logger.ILogger, opts ...Option) *Adapter {
	a := &Adapter{
		tokens:     tokens,
		logger:     log,
		calendarID: "primary",
		location:   time.UTC,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) IsConnected(ctx context.Context) bool {
	token, err := a.tokens.Find(ctx)
	if err != nil {
		a.logger.Warn(calendarModule, "Failed to read calendar token", map[string]interface{}{"error": err.Error()})
		return false
	}
	return token != nil
}

// Connect stores the token with an assumed one hour lifetime. The token is not
// checked against Google until the first call that uses it.
func (a *Adapter) Connect(ctx context.Context, accessToken, refreshToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return &apperror.ValidationError{Field: "access_token", Message: "is required"}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tokens.Save(ctx, &entity.CalendarToken{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    a.now().Add(TokenLifetime),
	})
}

func (a *Adapter) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tokens.Clear(ctx)
}

// CreateEventFromNote inserts an event for the note and returns its id.
// Nothing is sent when the adapter is disconnected or the note has no date.
func (a *Adapter) CreateEventFromNote(ctx context.Context, note *entity.Note) (string, error) {
	token, err := a.tokens.Find(ctx)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", apperror.NewCalendarError(apperror.CalendarNotConnected, "calendar is not connected", nil)
	}
	if note == nil || strings.TrimSpace(note.EventDate) == "" {
		return "", apperror.NewCalendarError(apperror.CalendarMissingEventDate, "note has no event date", nil)
	}

	event, err := a.buildEvent(note)
	if err != nil {
		return "", err
	}

	srv, err := a.service(ctx, token)
	if err != nil {
		return "", apperror.NewCalendarError(apperror.CalendarRemote, "unable to create calendar service", err)
	}

	created, err := srv.Events.Insert(a.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", a.translate(ctx, err)
	}

	a.logger.Info(calendarModule, "Calendar event created", map[string]interface{}{
		"note_id":  note.Id,
		"event_id": created.Id,
		"all_day":  event.Start.Date != "",
	})
	return created.Id, nil
}

func (a *Adapter) ListUpcomingEvents(ctx context.Context, max int) ([]*entity.CalendarEvent, error) {
	if max <= 0 {
		max = defaultListMax
	}
	if max > maxListResults {
		max = maxListResults
	}

	token, err := a.tokens.Find(ctx)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, apperror.NewCalendarError(apperror.CalendarNotConnected, "calendar is not connected", nil)
	}

	srv, err := a.service(ctx, token)
	if err != nil {
		return nil, apperror.NewCalendarError(apperror.CalendarRemote, "unable to create calendar service", err)
	}

	resp, err := srv.Events.List(a.calendarID).
		MaxResults(int64(max)).
		OrderBy("startTime").
		SingleEvents(true).
		TimeMin(a.now().Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, a.translate(ctx, err)
	}

	events := make([]*entity.CalendarEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, toCalendarEvent(item))
	}
	return events, nil
}

func (a *Adapter) buildEvent(note *entity.Note) (*gcal.Event, error) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(note.EventDate), a.location)
	if err != nil {
		return nil, apperror.NewCalendarError(apperror.CalendarMissingEventDate,
			fmt.Sprintf("event date %q is not YYYY-MM-DD", note.EventDate), err)
	}

	event := &gcal.Event{
		Summary:     note.Title,
		Description: describe(note),
		Location:    note.Location,
		Reminders:   reminders(),
	}

	start, timed := atClock(day, note.EventTime)
	if !timed {
		event.Start = &gcal.EventDateTime{Date: day.Format(dateLayout)}
		event.End = &gcal.EventDateTime{Date: day.AddDate(0, 0, 1).Format(dateLayout)}
		return event, nil
	}

	end := start.Add(defaultEventLength)
	if e, ok := atClock(day, note.EventEndTime); ok && e.After(start) {
		end = e
	}
	tz := a.location.String()
	event.Start = &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: tz}
	event.End = &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: tz}
	return event, nil
}

func atClock(day time.Time, clock string) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), true
}

func describe(note *entity.Note) string {
	text := markup.PlainText(note.Content)
	if text == "" {
		text = note.Summary
	}
	if len(note.Attendees) > 0 {
		if text != "" {
			text += "\n\n"
		}
		text += "Attendees: " + strings.Join(note.Attendees, ", ")
	}
	return text
}

func reminders() *gcal.EventReminders {
	overrides := make([]*gcal.EventReminder, 0, len(popupReminders))
	for _, m := range popupReminders {
		overrides = append(overrides, &gcal.EventReminder{Method: "popup", Minutes: m})
	}
	return &gcal.EventReminders{
		UseDefault:      false,
		Overrides:       overrides,
		ForceSendFields: []string{"UseDefault"},
	}
}

func toCalendarEvent(item *gcal.Event) *entity.CalendarEvent {
	ev := &entity.CalendarEvent{
		Id:       item.Id,
		Summary:  item.Summary,
		Location: item.Location,
		HtmlLink: item.HtmlLink,
	}
	if item.Start != nil {
		if item.Start.Date != "" {
			ev.AllDay = true
			ev.Start = item.Start.Date
		} else {
			ev.Start = item.Start.DateTime
		}
	}
	if item.End != nil {
		if item.End.Date != "" {
			ev.End = item.End.Date
		} else {
			ev.End = item.End.DateTime
		}
	}
	return ev
}

// translate maps API failures onto CalendarError. A 401, or a refresh the
// token endpoint rejects, clears the stored token.
func (a *Adapter) translate(ctx context.Context, err error) error {
	var gerr *googleapi.Error
	var rerr *oauth2.RetrieveError
	switch {
	case errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized,
		errors.As(err, &rerr):
		if clearErr := a.Disconnect(ctx); clearErr != nil {
			a.logger.Error(calendarModule, "Failed to clear expired calendar token", map[string]interface{}{"error": clearErr.Error()})
		}
		a.logger.Warn(calendarModule, "Calendar session expired", map[string]interface{}{"error": err.Error()})
		return apperror.NewCalendarError(apperror.CalendarSessionExpired, "calendar session expired, reconnect required", err)

	case errors.As(err, &gerr):
		msg := gerr.Message
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		return apperror.NewCalendarError(apperror.CalendarRemote, msg, err)

	default:
		return apperror.NewCalendarError(apperror.CalendarRemote, err.Error(), err)
	}
}
