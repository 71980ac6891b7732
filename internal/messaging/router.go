package messaging

import (
	"context"
	"fmt"
	"sync"

	"github.com/pfrederiksen/gora-search/internal/logger"
)

// Handler answers one request.
type Handler func(ctx context.Context, req Request) (Response, error)

// Router dispatches requests to the handler registered for their action.
type Router struct {
	mu       sync.RWMutex
	handlers map[Action]Handler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[Action]Handler)}
}

// Handle registers h for action, replacing any previous handler.
func (r *Router) Handle(action Action, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[action] = h
}

// Dispatch runs the handler for req.Action and always returns one response.
// Unknown actions and handler errors come back as unsuccessful responses.
func (r *Router) Dispatch(ctx context.Context, req Request) Response {
	if req.ID == "" {
		req.ID = newID()
	}

	r.mu.RLock()
	h, ok := r.handlers[req.Action]
	r.mu.RUnlock()

	if !ok {
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action)}
	}

	resp, err := h(ctx, req)
	resp.ID = req.ID
	if err != nil {
		logger.Warn("Message handler failed", logger.Fields{
			"action":     string(req.Action),
			"request_id": req.ID,
		})
		resp.Success = false
		resp.Error = err.Error()
	}
	return resp
}
