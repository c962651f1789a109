package request

// AddCartItemRequest is the request body for adding a catalog item to the cart.
// Quantity is the text typed by the cashier; empty means one.
type AddCartItemRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity string `json:"quantity"`
}

// UpdateCartItemRequest is the request body for changing a line quantity
type UpdateCartItemRequest struct {
	Quantity string `json:"quantity" binding:"required"`
}

// SearchSubmitRequest is the search box content when the cashier presses enter
type SearchSubmitRequest struct {
	Term string `json:"term"`
}
