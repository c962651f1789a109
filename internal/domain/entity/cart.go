package entity

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive number")

// CartLine is a catalog item with the quantity being sold.
type CartLine struct {
	Item     CatalogItem     `json:"item"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LineTotal is price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Item.Price.Mul(l.Quantity)
}

// Cart holds the lines of the sale in progress, in insertion order.
// A SKU appears at most once.
type Cart struct {
	lines []CartLine
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(sku string) int {
	for i := range c.lines {
		if c.lines[i].Item.SKU == sku {
			return i
		}
	}
	return -1
}

// Add increments the line for item.SKU, creating it when absent.
func (c *Cart) Add(item CatalogItem, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}

	if i := c.indexOf(item.SKU); i >= 0 {
		c.lines[i].Quantity = c.lines[i].Quantity.Add(quantity)
		return nil
	}
	c.lines = append(c.lines, CartLine{Item: item, Quantity: quantity})
	return nil
}

// Remove deletes the line for sku. It reports whether a line was removed.
func (c *Cart) Remove(sku string) bool {
	i := c.indexOf(sku)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// SetQuantity replaces the quantity of an existing line. Negative values
// are clamped to zero and a zeroed line stays in the cart.
func (c *Cart) SetQuantity(sku string, quantity decimal.Decimal) bool {
	i := c.indexOf(sku)
	if i < 0 {
		return false
	}
	if quantity.IsNegative() {
		quantity = decimal.Zero
	}
	c.lines[i].Quantity = quantity
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the lines.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for sku.
func (c *Cart) Line(sku string) (CartLine, bool) {
	if i := c.indexOf(sku); i >= 0 {
		return c.lines[i], true
	}
	return CartLine{}, false
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Subtotal is the sum of line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Taxes is always zero; the register does not compute taxes.
func (c *Cart) Taxes() decimal.Decimal {
	return decimal.Zero
}

func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Taxes())
}
