package live

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

type Handler struct {
	registry *Registry
	deps     Deps
	upgrader websocket.Upgrader
}

func NewHandler(registry *Registry, deps Deps) *Handler {
	return &Handler{
		registry: registry,
		deps:     deps,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterLiveRoutes(g *echo.Group) {
	g.GET("/live", h.Serve)
}

// Serve upgrades an authenticated request to a live session.
func (h *Handler) Serve(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.FromContext(c.Request().Context()).Warn("live: upgrade failed", zap.Error(err))
		return nil
	}

	s := NewSession(uuid.NewString(), userID, conn)
	log := logger.Log.With(zap.String("session_id", s.ID), zap.Uint("user_id", userID))
	h.registry.Add(s)
	s.Start()
	log.Info("live: connected")

	// The session outlives the request, so it gets its own context.
	ctx, cancel := context.WithCancel(logger.WithContext(context.Background(), log))
	client := NewClient(s, h.deps)

	go func() {
		if err := client.Run(ctx); err != nil {
			log.Error("live: subscribe failed", zap.Error(err))
			s.CloseWithReason(websocket.CloseInternalServerErr, "realtime unavailable")
		}
	}()
	go h.readLoop(ctx, cancel, client)
	return nil
}

func (h *Handler) readLoop(ctx context.Context, cancel context.CancelFunc, client *Client) {
	s := client.session
	log := logger.FromContext(ctx)
	defer func() {
		cancel()
		h.registry.Remove(s)
		s.Close()
		log.Info("live: disconnected")
	}()

	s.Conn.SetReadLimit(maxMessageSize)
	_ = s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	s.Conn.SetPongHandler(func(string) error {
		return s.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("live: read error", zap.Error(err))
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			s.Send(Frame{Type: FrameError, Data: ErrorData{Message: "malformed command"}})
			continue
		}
		// Page fetches may overlap other commands; the timeline rejects a
		// second fetch while one is in flight.
		if cmd.Type == CmdLoadMore || cmd.Type == CmdRefresh {
			go client.Handle(ctx, cmd)
			continue
		}
		client.Handle(ctx, cmd)
	}
}
