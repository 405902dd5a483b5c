package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/dimitrije/salesdesk-api/internal/middleware"
	"github.com/dimitrije/salesdesk-api/internal/services"
	"github.com/dimitrije/salesdesk-api/internal/state"
	"github.com/dimitrije/salesdesk-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

// SessionHandler exposes the per-client state container operations:
// selecting a customer, adjusting tone/length, reading a snapshot, and
// starting a generation.
type SessionHandler struct {
	store       *state.Store
	userService UserServiceInterface
	engine      EngineInterface
}

func NewSessionHandler(store *state.Store, userService UserServiceInterface, engine EngineInterface) *SessionHandler {
	return &SessionHandler{store: store, userService: userService, engine: engine}
}

func (h *SessionHandler) session(c *drift.Context) *state.Session {
	clientID := c.Param("clientId")
	if clientID == "" {
		c.BadRequest("client id is required")
		return nil
	}
	return h.store.Get(clientID)
}

func (h *SessionHandler) State(c *drift.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	c.JSON(200, sess.Snapshot())
}

func (h *SessionHandler) SelectCustomer(c *drift.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	id, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		c.BadRequest("invalid customer id")
		return
	}

	user, err := h.userService.GetByID(context.Background(), id)
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("customer not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to load customer")
		return
	}

	sess.SelectCustomer(user)
	c.JSON(200, sess.Snapshot())
}

func (h *SessionHandler) SetOptions(c *drift.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	var req dto.OptionsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	sess.SetOptions(req.Tone, req.Length)
	c.JSON(200, sess.Snapshot())
}

// Generate starts a background generation for the session. The request may
// select a customer and adjust tone/length in the same call; the result is
// observed via the session's event stream, not this response.
func (h *SessionHandler) Generate(c *drift.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	var req dto.GenerateRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.BindJSON(&req); err != nil {
			c.BadRequest("invalid request body")
			return
		}
	}

	if req.CustomerID != nil {
		user, err := h.userService.GetByID(context.Background(), *req.CustomerID)
		if errors.Is(err, services.ErrNotFound) {
			c.NotFound("customer not found")
			return
		}
		if err != nil {
			c.InternalServerError("failed to load customer")
			return
		}
		sess.SelectCustomer(user)
	}
	sess.SetOptions(req.Tone, req.Length)

	h.engine.Start(context.Background(), sess, middleware.SessionToken(c))
	c.JSON(202, map[string]string{"status": "generating"})
}
