package service

import (
	"context"
	"log"
	"sync"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/LouisLibre/BorderPOS/pkg/money"
	"github.com/shopspring/decimal"
)

// CartLineView is a cart line as returned to clients
type CartLineView struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	PLUCode     *string         `json:"plu_code,omitempty"`
	Barcode     *string         `json:"barcode,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartSnapshot is the cart state pushed to subscribers after every change
type CartSnapshot struct {
	Lines     []CartLineView  `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Taxes     decimal.Decimal `json:"taxes"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// CartView adds the dollar equivalent of the total
type CartView struct {
	CartSnapshot
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	TotalInDollars decimal.Decimal `json:"total_in_dollars"`
}

// CartListener receives every new cart state
type CartListener func(CartSnapshot)

// CartService owns the sale in progress and notifies subscribers when it changes
type CartService struct {
	mu        sync.Mutex
	cart      *entity.Cart
	catalog   *CatalogService
	settings  *SettingsService
	listeners map[int]CartListener
	nextID    int
}

// NewCartService creates a new cart service with an empty cart
func NewCartService(catalog *CatalogService, settings *SettingsService) *CartService {
	return &CartService{
		cart:      entity.NewCart(),
		catalog:   catalog,
		settings:  settings,
		listeners: make(map[int]CartListener),
	}
}

// Subscribe registers fn for cart changes and returns a function that removes it.
func (s *CartService) Subscribe(fn CartListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// AddItem adds quantity of item to the cart, merging with an existing line.
func (s *CartService) AddItem(item entity.CatalogItem, quantity decimal.Decimal) (*CartSnapshot, error) {
	s.mu.Lock()
	if err := s.cart.Add(item, quantity); err != nil {
		s.mu.Unlock()
		log.Printf("[CART] Warning: rejected quantity %s for %s", quantity, item.SKU)
		return nil, apperror.NewFieldError("quantity", err.Error())
	}
	return s.commit(), nil
}

// AddBySKU looks up sku in the catalog and adds it. An empty quantity means one.
func (s *CartService) AddBySKU(ctx context.Context, sku, quantity string) (*CartSnapshot, error) {
	qty := decimal.NewFromInt(1)
	if quantity != "" {
		parsed, err := money.ParseQuantity(quantity)
		if err != nil {
			log.Printf("[CART] Warning: invalid quantity %q for %s", quantity, sku)
			return nil, apperror.NewFieldError("quantity", err.Error())
		}
		qty = parsed
	}

	item, err := s.catalog.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	return s.AddItem(*item, qty)
}

// RemoveItem deletes the line for sku. Unknown SKUs are ignored.
func (s *CartService) RemoveItem(sku string) *CartSnapshot {
	s.mu.Lock()
	if !s.cart.Remove(sku) {
		snap := s.snapshot()
		s.mu.Unlock()
		return snap
	}
	return s.commit()
}

// UpdateItemQuantity sets the quantity of a line from user text. Text that is
// not a number leaves the cart unchanged; negative numbers become zero.
func (s *CartService) UpdateItemQuantity(sku, quantity string) (*CartSnapshot, error) {
	qty, err := money.ParseQuantity(quantity)
	if err != nil {
		log.Printf("[CART] Warning: invalid quantity %q for %s, keeping previous value", quantity, sku)
		return nil, apperror.NewFieldError("quantity", err.Error())
	}

	s.mu.Lock()
	if !s.cart.SetQuantity(sku, qty) {
		s.mu.Unlock()
		return nil, apperror.NewNotFoundError("Cart line")
	}
	return s.commit(), nil
}

// ClearCart empties the cart
func (s *CartService) ClearCart() *CartSnapshot {
	s.mu.Lock()
	s.cart.Clear()
	return s.commit()
}

// Snapshot returns the current cart state
func (s *CartService) Snapshot() *CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Lines returns the lines in insertion order together with the total.
func (s *CartService) Lines() ([]entity.CartLine, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines(), s.cart.Total()
}

// View returns the cart with its total converted to dollars at the current rate.
func (s *CartService) View(ctx context.Context) *CartView {
	rate := s.settings.GetExchangeRate(ctx)
	snap := s.Snapshot()
	return &CartView{
		CartSnapshot:   *snap,
		ExchangeRate:   rate,
		TotalInDollars: money.ToForeign(snap.Total, rate),
	}
}

// commit must be called with mu held. It releases the lock before notifying.
func (s *CartService) commit() *CartSnapshot {
	snap := s.snapshot()
	listeners := make([]CartListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(*snap)
	}
	return snap
}

func (s *CartService) snapshot() *CartSnapshot {
	lines := s.cart.Lines()
	views := make([]CartLineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, CartLineView{
			SKU:         l.Item.SKU,
			ProductName: l.Item.ProductName,
			PLUCode:     l.Item.PLUCode,
			Barcode:     l.Item.Barcode,
			Price:       l.Item.Price,
			Quantity:    l.Quantity,
			LineTotal:   l.LineTotal(),
		})
	}
	return &CartSnapshot{
		Lines:     views,
		Subtotal:  s.cart.Subtotal(),
		Taxes:     s.cart.Taxes(),
		Total:     s.cart.Total(),
		ItemCount: len(lines),
	}
}
