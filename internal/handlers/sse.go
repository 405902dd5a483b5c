package handlers

import (
	"github.com/dimitrije/salesdesk-api/internal/state"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// EventsHandler streams session state changes to the browser over SSE.
type EventsHandler struct {
	store *state.Store
}

func NewEventsHandler(store *state.Store) *EventsHandler {
	return &EventsHandler{store: store}
}

// Connect opens the event stream. A fresh client id is issued and reported
// in the first event; subsequent session operations reference it.
func (h *EventsHandler) Connect(c *drift.Context) {
	sseCtx := c.SSE()

	clientID := uuid.New().String()
	sess := h.store.Get(clientID)

	ch := sess.Subscribe()
	defer sess.Unsubscribe(ch)

	if err := sseCtx.SendJSON(map[string]any{
		"type":      "connected",
		"client_id": clientID,
		"snapshot":  sess.Snapshot(),
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := sseCtx.SendJSON(event, "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
