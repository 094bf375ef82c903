package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/IT22091352/wasana-products/internal/models"
)

// ProductHandler serves the fixed envelope catalogue.
type ProductHandler struct{}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

// List handles GET /api/products, the price table the front-end renders.
func (h *ProductHandler) List(c *gin.Context) {
	respondOK(c, "", gin.H{"products": models.Products()})
}
