package handler

import (
	"context"

	"ai-notecapture-be/internal/pkg/logger"
	"ai-notecapture-be/internal/pkg/serverutils"
	internalWS "ai-notecapture-be/internal/websocket"
	"ai-notecapture-be/pkg/events"
	pktNats "ai-notecapture-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const feedModule = "FeedHandler"

// FeedHandler upgrades discover feed connections and relays note events from
// the bus into the hub.
type FeedHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewFeedHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *FeedHandler {
	return &FeedHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *FeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/discover/v1/ws", h.ServeWs)
}

// ServeWs accepts the token as a query parameter since browsers cannot set
// headers on websocket requests.
func (h *FeedHandler) ServeWs(c *fiber.Ctx) error {
	if h.jwtSecret != "" {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			authHeader := c.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}
		if _, err := serverutils.VerifyToken(h.jwtSecret, tokenStr); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, err.Error()))
		}
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info(feedModule, "Starting WebSocket session", nil)
			internalWS.ServeWs(h.hub, conn)
			h.logger.Info(feedModule, "WebSocket session ended", nil)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// StartRelay forwards every note event on the bus to connected clients.
func (h *FeedHandler) StartRelay(sub *pktNats.Subscriber) error {
	return sub.Subscribe(pktNats.Subject(">"), "discover-feed-relay", func(ctx context.Context, evt events.Event) error {
		h.hub.PublishNoteEvent(evt)
		return nil
	})
}
