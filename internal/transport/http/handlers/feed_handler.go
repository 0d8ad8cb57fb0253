package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/taskera/backend/internal/domain"
	"github.com/taskera/backend/internal/infrastructure/logger"
	"github.com/taskera/backend/internal/realtime"
)

// FeedHandler serves the task change feed over a websocket. Admin
// connections see every insert and update on the tasks table; member
// connections only the events naming them as assignee. The client's
// contract stays "refetch the list on any event".
type FeedHandler struct {
	hub    *realtime.Hub
	logger *logger.Logger
}

func NewFeedHandler(hub *realtime.Hub, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{hub: hub, logger: logger}
}

func (h *FeedHandler) Handle(c *websocket.Conn) {
	principal, ok := c.Locals("principal").(*domain.User)
	if !ok {
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
		c.Close()
		return
	}

	opts := realtime.SubscribeOptions{
		Events: []domain.ChangeType{domain.ChangeInsert, domain.ChangeUpdate},
	}
	if !principal.IsAdmin() {
		assignee := principal.ID
		opts.Assignee = &assignee
	}

	sub := h.hub.Subscribe(opts)
	defer h.hub.Unsubscribe(sub)

	h.logger.Infow("feed_connected", "user_id", principal.ID, "role", principal.Role)

	// Drain the read side so we notice the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case change, ok := <-sub.C():
			if !ok {
				return
			}
			if err := c.WriteJSON(change); err != nil {
				h.logger.Warnw("feed_write_failed", "user_id", principal.ID, "error", err)
				return
			}
		case <-closed:
			h.logger.Infow("feed_disconnected", "user_id", principal.ID)
			return
		}
	}
}
