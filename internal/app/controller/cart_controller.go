package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhmida/bricodirect-backend/internal/app/service"
	apperrors "github.com/bhmida/bricodirect-backend/internal/errors"
	"github.com/bhmida/bricodirect-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	SizeID    *uint `json:"size_id"`
	PackID    *uint `json:"pack_id"`
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// cartID keys each authenticated user's single cart.
func cartID(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// GetCart returns the basket with derived totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	view, err := ctrl.cartService.GetCart(c.Request.Context(), cartID(userID))
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": view,
	})
}

// AddToCart adds one unit of a product variant to the basket
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations saisies sont invalides")
		return
	}

	view, err := ctrl.cartService.AddToCart(c.Request.Context(), cartID(userID), req.ProductID, req.SizeID, req.PackID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Produit introuvable")
			return
		}
		log.Error("Failed to add to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": view,
	})
}

// UpdateLine sets a line's quantity; zero removes the line
// PUT /api/v1/cart/lines/:key
func (ctrl *CartController) UpdateLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Les informations saisies sont invalides")
		return
	}

	lineKey := c.Param("key")
	view, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), cartID(userID), lineKey, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartLineNotFound) {
			apperrors.NotFound(c, apperrors.CartLineNotFound, "Ligne de panier introuvable")
			return
		}
		log.Error("Failed to update cart line", err, map[string]interface{}{
			"user_id":  userID,
			"line_key": lineKey,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": view,
	})
}

// RemoveLine deletes a line from the basket
// DELETE /api/v1/cart/lines/:key
func (ctrl *CartController) RemoveLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	lineKey := c.Param("key")
	view, err := ctrl.cartService.RemoveLine(c.Request.Context(), cartID(userID), lineKey)
	if err != nil {
		log.Error("Failed to remove cart line", err, map[string]interface{}{
			"user_id":  userID,
			"line_key": lineKey,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": view,
	})
}

// ClearCart empties the basket
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(c.Request.Context(), cartID(userID)); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Panier vidé",
	})
}
