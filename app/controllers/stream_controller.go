package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/vastra/app/hub"
	"github.com/shashiranjanraj/vastra/app/resources"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/resource"
	"github.com/shashiranjanraj/vastra/pkg/sse"
	"github.com/shashiranjanraj/vastra/pkg/ws"
)

// StreamController serves the live order-update subscriptions. The routes
// are deliberately outside the auth middleware: the credential arrives as a
// ?token= query parameter because the transport is a long-lived GET, and a
// bad credential is answered over the already-committed streaming response,
// not with a conventional error status.
type StreamController struct {
	hub    *hub.Hub
	orders *services.OrderService
}

func NewStreamController(h *hub.Hub, orders *services.OrderService) *StreamController {
	return &StreamController{hub: h, orders: orders}
}

type unauthorizedEvent struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SSE is the primary streaming transport.
func (c *StreamController) SSE(cc *ctx.Context) {
	stream := sse.New(cc.W, cc.R)
	if stream == nil {
		return
	}

	claims, ok := c.verify(cc.R)
	if !ok {
		stream.Send("unauthorized", unauthorizedEvent{
			Message:   "Invalid or missing token",
			Timestamp: time.Now(),
		})
		return
	}

	snapshot, err := c.snapshot(cc, claims.UserID)
	if err != nil {
		stream.Send("error", map[string]string{"message": "Could not load orders"})
		return
	}

	sink := hub.NewSSESink(stream)
	subID, err := c.hub.Subscribe(claims.UserID, sink, snapshot)
	if err != nil {
		logger.Warn("stream: subscribe failed", "user_id", claims.UserID, "error", err)
		return
	}
	defer c.hub.Unsubscribe(subID)

	// Hold the handler open; the hub writes through the sink until the
	// client goes away.
	<-cc.R.Context().Done()
}

// WS is the WebSocket variant, same verification rules and event frames.
func (c *StreamController) WS(cc *ctx.Context) {
	conn, err := ws.Upgrade(cc.W, cc.R)
	if err != nil {
		return // Upgrade already wrote the error response
	}
	defer conn.Close()

	claims, ok := c.verify(cc.R)
	if !ok {
		sink := hub.NewWSSink(conn)
		sink.Send("unauthorized", unauthorizedEvent{
			Message:   "Invalid or missing token",
			Timestamp: time.Now(),
		})
		return
	}

	snapshot, err := c.snapshot(cc, claims.UserID)
	if err != nil {
		return
	}

	sink := hub.NewWSSink(conn)
	subID, err := c.hub.Subscribe(claims.UserID, sink, snapshot)
	if err != nil {
		logger.Warn("stream: ws subscribe failed", "user_id", claims.UserID, "error", err)
		return
	}
	defer c.hub.Unsubscribe(subID)

	<-conn.Closed()
}

// verify applies the same validation rules as the header-based auth path.
func (c *StreamController) verify(r *http.Request) (*auth.Claims, bool) {
	token := middleware.BearerToken(r)
	if token == "" {
		return nil, false
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// snapshot builds the initial_data payload: the user's current orders.
func (c *StreamController) snapshot(cc *ctx.Context, userID uint) (interface{}, error) {
	orders, err := c.orders.ListForUser(cc.Context(), userID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"orders": resource.Collection(resources.Order, orders).Transformed(),
	}, nil
}
