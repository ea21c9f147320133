package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/middleware"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/policy"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/queue"
)

type WSMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// LiveHandler streams moderation decisions to connected admin dashboards.
type LiveHandler struct {
	bus    queue.Bus
	secret string
	users  middleware.Authenticator
	log    *zap.Logger
}

func NewLiveHandler(bus queue.Bus, secret string, users middleware.Authenticator, log *zap.Logger) *LiveHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LiveHandler{bus: bus, secret: secret, users: users, log: log}
}

// Upgrade authenticates the ?token= query param before the handshake.
// Browsers cannot set headers on websocket requests.
func (h *LiveHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	user, err := middleware.ResolveUser(c.UserContext(), c.Query("token"), h.secret, h.users)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "details": err.Error()})
	}
	if !policy.CanModerate(user) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
	}
	c.Locals(middleware.UserKey, user)
	return c.Next()
}

func (h *LiveHandler) Stream(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe, err := h.bus.Subscribe(ctx)
	if err != nil {
		h.log.Error("websocket subscribe failed", zap.Error(err))
		_ = conn.WriteJSON(WSMessage{Event: "error", Data: "subscription failed"})
		return
	}
	defer unsubscribe()

	// The reader only watches for the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(WSMessage{Event: "moderation:decision", Data: ev}); err != nil {
				return
			}
		}
	}
}
