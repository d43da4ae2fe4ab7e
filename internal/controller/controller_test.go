package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-notecapture-be/internal/dto"
	"ai-notecapture-be/internal/entity"
	"ai-notecapture-be/internal/pkg/serverutils"
	"ai-notecapture-be/internal/service"
	"ai-notecapture-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCaptureService struct {
	service.ICaptureService

	notes       []*entity.Note
	capturedRaw string
	audioBytes  []byte
	searched    string
	patch       *dto.UpdateNoteRequest
	err         error
}

func (s *stubCaptureService) CaptureText(_ context.Context, text string) (*entity.Note, error) {
	s.capturedRaw = text
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Note{Id: "n1", Title: "Captured", CalendarEventId: "evt-1"}, nil
}

func (s *stubCaptureService) CaptureVoice(_ context.Context, audio io.Reader, _ string) (*entity.Note, error) {
	s.audioBytes, _ = io.ReadAll(audio)
	return &entity.Note{Id: "v1", Title: "Voice", NoteType: entity.NoteTypeVoice}, nil
}

func (s *stubCaptureService) ListNotes(context.Context) ([]*entity.Note, error) {
	return s.notes, nil
}

func (s *stubCaptureService) SearchNotes(_ context.Context, q string) ([]*entity.Note, error) {
	s.searched = q
	return s.notes[:1], nil
}

func (s *stubCaptureService) GetNote(_ context.Context, id string) (*entity.Note, error) {
	for _, n := range s.notes {
		if n.Id == id {
			return n, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (s *stubCaptureService) UpdateNote(_ context.Context, id string, req *dto.UpdateNoteRequest) (*entity.Note, error) {
	s.patch = req
	return &entity.Note{Id: id, Title: *req.Title}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(svc service.ICaptureService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	noAuth := func(c *fiber.Ctx) error { return c.Next() }
	NewCaptureController(svc).RegisterRoutes(app, noAuth)
	NewNoteController(svc).RegisterRoutes(app, noAuth)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCaptureText(t *testing.T) {
	svc := &stubCaptureService{}
	status, body := do(t, newTestApp(svc), jsonRequest(http.MethodPost, "/capture/v1/text", `{"text":"call mom at 5"}`))

	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, body.Success)
	assert.Equal(t, "call mom at 5", svc.capturedRaw)

	var data dto.CaptureResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "n1", data.Note.Id)
	assert.True(t, data.CalendarSynced)
}

func TestCaptureTextValidation(t *testing.T) {
	svc := &stubCaptureService{}
	status, body := do(t, newTestApp(svc), jsonRequest(http.MethodPost, "/capture/v1/text", `{"text":""}`))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, body.Success)
	assert.Empty(t, svc.capturedRaw)
}

func TestCaptureTextServiceError(t *testing.T) {
	svc := &stubCaptureService{err: &apperror.StructuringError{Message: "model refused"}}
	status, body := do(t, newTestApp(svc), jsonRequest(http.MethodPost, "/capture/v1/text", `{"text":"hello"}`))

	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Contains(t, body.Message, "model refused")
}

func TestCaptureVoiceMultipart(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("audio", "memo.m4a")
	require.NoError(t, err)
	_, _ = part.Write([]byte("fake-audio"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/capture/v1/voice", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	svc := &stubCaptureService{}
	status, _ := do(t, newTestApp(svc), req)

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "fake-audio", string(svc.audioBytes))
}

func TestCaptureVoiceMissingFile(t *testing.T) {
	status, body := do(t, newTestApp(&stubCaptureService{}), jsonRequest(http.MethodPost, "/capture/v1/voice", `{}`))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Message, "audio")
}

func TestListAndSearchNotes(t *testing.T) {
	svc := &stubCaptureService{notes: []*entity.Note{{Id: "a", Title: "A"}, {Id: "b", Title: "B"}}}
	app := newTestApp(svc)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/note/v1", nil))
	assert.Equal(t, fiber.StatusOK, status)
	var all []dto.NoteResponse
	require.NoError(t, json.Unmarshal(body.Data, &all))
	assert.Len(t, all, 2)
	assert.Empty(t, svc.searched)

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/note/v1?q=budget", nil))
	assert.Equal(t, fiber.StatusOK, status)
	var found []dto.NoteResponse
	require.NoError(t, json.Unmarshal(body.Data, &found))
	assert.Len(t, found, 1)
	assert.Equal(t, "budget", svc.searched)
}

func TestShowMissingNote(t *testing.T) {
	status, body := do(t, newTestApp(&stubCaptureService{}), httptest.NewRequest(http.MethodGet, "/note/v1/missing", nil))

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, body.Success)
}

func TestUpdateNote(t *testing.T) {
	svc := &stubCaptureService{}
	app := newTestApp(svc)

	status, _ := do(t, app, jsonRequest(http.MethodPut, "/note/v1/n1", `{"title":"Renamed"}`))
	assert.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, svc.patch)
	assert.Equal(t, "Renamed", *svc.patch.Title)
	assert.Nil(t, svc.patch.Content)

	status, _ = do(t, app, jsonRequest(http.MethodPut, "/note/v1/n1", `{"priority":"critical"}`))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

type stubCalendarService struct {
	service.ICalendarService

	max int
	err error
}

func (s *stubCalendarService) Status(context.Context) *dto.CalendarStatusResponse {
	return &dto.CalendarStatusResponse{Enabled: true, Connected: s.err == nil}
}

func (s *stubCalendarService) ListEvents(_ context.Context, max int) ([]*entity.CalendarEvent, error) {
	s.max = max
	if s.err != nil {
		return nil, s.err
	}
	return []*entity.CalendarEvent{{Id: "evt-1", Summary: "Standup"}}, nil
}

func TestCalendarEvents(t *testing.T) {
	svc := &stubCalendarService{}
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewCalendarController(svc).RegisterRoutes(app, func(c *fiber.Ctx) error { return c.Next() })

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/calendar/v1/events?max=3", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 3, svc.max)
	var events []dto.CalendarEventResponse
	require.NoError(t, json.Unmarshal(body.Data, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].Summary)

	svc.err = &apperror.CalendarError{Kind: apperror.CalendarSessionExpired}
	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/calendar/v1/events", nil))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, 10, svc.max)
}
