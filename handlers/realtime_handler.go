package handlers

import (
	fiberws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/websocket"
)

// RealtimeHandler upgrades authenticated clients and attaches them to the event hub.
type RealtimeHandler struct {
	hub        *websocket.Hub
	authorizer *auth.Authorizer
}

func NewRealtimeHandler(hub *websocket.Hub, authorizer *auth.Authorizer) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, authorizer: authorizer}
}

// Upgrade authenticates the ?token= query parameter before the websocket handshake.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Query("token")
	if token == "" {
		return apperror.Unauthenticated("not authenticated")
	}
	user, err := h.authorizer.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}
	c.Locals("account", user)
	return c.Next()
}

func (h *RealtimeHandler) Serve() fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		user, ok := conn.Locals("account").(*models.User)
		if !ok {
			conn.Close()
			return
		}

		client := &websocket.Client{UserID: user.ID, Conn: conn}
		h.hub.Register(client)
		loggers.Log.WithField("user_id", user.ID).Debug("Realtime client connected")
		defer h.hub.Unregister(client)

		// Clients only listen. Reading drains control frames and detects disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if fiberws.IsUnexpectedCloseError(err, fiberws.CloseGoingAway, fiberws.CloseNormalClosure) {
					loggers.Log.WithError(err).WithField("user_id", user.ID).Warn("⚠️ Realtime connection closed unexpectedly")
				}
				return
			}
		}
	})
}
