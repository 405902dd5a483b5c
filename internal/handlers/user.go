package handlers

import (
	"github.com/dimitrije/salesdesk-api/internal/middleware"
	"github.com/dimitrije/salesdesk-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetMe reports the resolved current user. A signed-out (or failed)
// resolution is a normal response, not an error.
func (h *UserHandler) GetMe(c *drift.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(200, dto.MeResponse{SignedIn: false})
		return
	}

	c.JSON(200, dto.MeResponse{
		SignedIn: true,
		User:     dto.NewUserResponse(user),
	})
}
