package handler

import (
	"io"

	"github.com/LouisLibre/BorderPOS/internal/application/service"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/request"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// cartEvent is the SSE event name for cart updates
const cartEvent = "cart"

// CartHandler handles the sale in progress
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart with its totals
func (h *CartHandler) Get(c *gin.Context) {
	response.OK(c, "Cart retrieved successfully", h.cartService.View(c.Request.Context()))
}

// AddItem adds a catalog item by SKU
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddBySKU(c.Request.Context(), req.SKU, req.Quantity)
	if err != nil {
		errorWithData(c, err, h.cartService.Snapshot())
		return
	}
	response.OK(c, "Item added to cart", cart)
}

// UpdateItem sets the quantity of a line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req request.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Param("sku"), req.Quantity)
	if err != nil {
		errorWithData(c, err, h.cartService.Snapshot())
		return
	}
	response.OK(c, "Cart item updated", cart)
}

// RemoveItem deletes a line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	response.OK(c, "Cart item removed", h.cartService.RemoveItem(c.Param("sku")))
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	response.OK(c, "Cart cleared", h.cartService.ClearCart())
}

// Events streams the cart as server-sent events, starting with its current state.
func (h *CartHandler) Events(c *gin.Context) {
	updates := make(chan service.CartSnapshot, 16)
	unsubscribe := h.cartService.Subscribe(func(s service.CartSnapshot) {
		select {
		case updates <- s:
		default:
			// slow client, it gets the next state
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(cartEvent, h.cartService.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap := <-updates:
			c.SSEvent(cartEvent, snap)
			return true
		}
	})
}
