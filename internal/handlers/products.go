package handlers

import (
	"github.com/dimitrije/salesdesk-api/internal/catalog"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

func (h *ProductHandler) List(c *drift.Context) {
	c.JSON(200, catalog.Products())
}
