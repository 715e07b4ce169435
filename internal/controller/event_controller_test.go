package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProactiveService struct {
	handled []events.ExternalEvent
}

func (s *recordingProactiveService) HandleEvent(ctx context.Context, event events.ExternalEvent) {
	s.handled = append(s.handled, event)
}

func newEventTestApp(proactive *recordingProactiveService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewEventController(proactive, nil).RegisterRoutes(app.Group("/api"))
	return app
}

func mintToken(t *testing.T, userId uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func postEvent(t *testing.T, app *fiber.App, token string, body map[string]interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/event/v1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestIngestRejectsEventForAnotherUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	proactive := &recordingProactiveService{}
	app := newEventTestApp(proactive)

	caller := uuid.New()
	victim := uuid.New()

	resp := postEvent(t, app, mintToken(t, caller), map[string]interface{}{
		"event_type": "email.received",
		"user_id":    victim.String(),
		"data":       map[string]interface{}{"subject": "Invoice #99 overdue"},
	})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, proactive.handled)
}

func TestIngestAcceptsEventForAuthenticatedUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	proactive := &recordingProactiveService{}
	app := newEventTestApp(proactive)

	userId := uuid.New()

	resp := postEvent(t, app, mintToken(t, userId), map[string]interface{}{
		"event_type": "email.received",
		"user_id":    userId.String(),
		"data":       map[string]interface{}{"subject": "Invoice #99 overdue"},
	})

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	require.Len(t, proactive.handled, 1)
	assert.Equal(t, userId, proactive.handled[0].UserId)
	assert.Equal(t, "email.received", proactive.handled[0].Type)
}

func TestIngestRequiresToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	proactive := &recordingProactiveService{}
	app := newEventTestApp(proactive)

	payload, _ := json.Marshal(map[string]interface{}{
		"event_type": "email.received",
		"user_id":    uuid.New().String(),
	})
	req := httptest.NewRequest("POST", "/api/event/v1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, proactive.handled)
}
