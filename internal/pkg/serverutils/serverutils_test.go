package serverutils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-notecapture-be/internal/dto"
	"ai-notecapture-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &apperror.ValidationError{Field: "text", Message: "is required"}, 400},
		{"not found", fmt.Errorf("note x: %w", apperror.ErrNotFound), 404},
		{"configuration", &apperror.ConfigurationError{Setting: "AI_API_KEY"}, 503},
		{"structuring", &apperror.StructuringError{Message: "bad json"}, 502},
		{"transcription", &apperror.TranscriptionError{Message: "empty"}, 502},
		{"persistence", &apperror.PersistenceError{Key: "notes", Err: errors.New("disk")}, 500},
		{"calendar not connected", apperror.NewCalendarError(apperror.CalendarNotConnected, "x", nil), 409},
		{"calendar missing date", apperror.NewCalendarError(apperror.CalendarMissingEventDate, "x", nil), 409},
		{"calendar expired", apperror.NewCalendarError(apperror.CalendarSessionExpired, "x", nil), 401},
		{"calendar remote", apperror.NewCalendarError(apperror.CalendarRemote, "x", nil), 502},
		{"fiber", fiber.ErrUnprocessableEntity, 422},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := StatusFor(tt.err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	require.NoError(t, ValidateRequest(dto.CaptureTextRequest{Text: "hello"}))

	err := ValidateRequest(dto.CaptureTextRequest{})
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "text", ve.Field)
	assert.Equal(t, "is required", ve.Message)

	bad := "25:99"
	err = ValidateRequest(dto.UpdateNoteRequest{EventTime: &bad})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "event_time", ve.Field)

	category := "meeting"
	assert.NoError(t, ValidateRequest(dto.UpdateNoteRequest{Category: &category}))
}

func TestJwtMiddleware(t *testing.T) {
	secret := "s3cret"
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "device-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"open when no secret", "", "", 200},
		{"missing token", secret, "", 401},
		{"wrong secret", secret, "Bearer " + mustSign(t, "other"), 401},
		{"valid token", secret, "Bearer " + signed, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", NewJwtMiddleware(tt.secret), func(c *fiber.Ctx) error { return c.SendStatus(200) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func mustSign(t *testing.T, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}
