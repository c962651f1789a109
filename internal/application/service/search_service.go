package service

import (
	"context"
	"strings"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/LouisLibre/BorderPOS/pkg/money"
	"github.com/shopspring/decimal"
)

// SearchQuery is a search box entry split into its term and multiplier.
// "wid*3" searches for "wid" and adds three.
type SearchQuery struct {
	Term     string
	Quantity decimal.Decimal
	// Valid is false when a "term*" is followed by something that is not a
	// positive number. Filtering still works, submitting does not.
	Valid bool
}

// ParseSearchQuery trims and lowercases raw and splits it on the first "*".
func ParseSearchQuery(raw string) SearchQuery {
	s := strings.ToLower(strings.TrimSpace(raw))
	q := SearchQuery{Term: s, Quantity: decimal.NewFromInt(1), Valid: true}

	before, after, found := strings.Cut(s, "*")
	if !found {
		return q
	}

	term := strings.TrimSpace(before)
	if term == "" {
		// "*3" is not a multiplier; the whole entry is searched with quantity 1.
		return q
	}
	q.Term = term

	qty, err := money.ParseQuantity(after)
	if err != nil || !qty.IsPositive() {
		q.Valid = false
		return q
	}
	q.Quantity = qty
	return q
}

// FilterCatalog keeps the items matching term, preserving catalog order.
func FilterCatalog(items []entity.CatalogItem, term string) []entity.CatalogItem {
	term = strings.ToLower(term)
	out := make([]entity.CatalogItem, 0)
	for i := range items {
		if items[i].Matches(term) {
			out = append(out, items[i])
		}
	}
	return out
}

// SubmitResult reports what a submit did. When nothing matched, Added is
// false and Term holds the original input so the search box keeps it.
type SubmitResult struct {
	Added    bool                `json:"added"`
	Item     *entity.CatalogItem `json:"item,omitempty"`
	Quantity decimal.Decimal     `json:"quantity"`
	Term     string              `json:"term"`
	Cart     *CartSnapshot       `json:"cart,omitempty"`
}

// SearchService resolves search box input against the catalog
type SearchService struct {
	catalog *CatalogService
	cart    *CartService
}

// NewSearchService creates a new search service
func NewSearchService(catalog *CatalogService, cart *CartService) *SearchService {
	return &SearchService{
		catalog: catalog,
		cart:    cart,
	}
}

// Filter is the live filter shown while typing. It never touches the cart.
func (s *SearchService) Filter(ctx context.Context, raw string) ([]entity.CatalogItem, error) {
	items, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCatalog(items, ParseSearchQuery(raw).Term), nil
}

// Submit adds the first match to the cart with the parsed multiplier.
func (s *SearchService) Submit(ctx context.Context, raw string) (*SubmitResult, error) {
	q := ParseSearchQuery(raw)
	if !q.Valid {
		return nil, apperror.NewFieldError("term", "quantity after * must be a positive number")
	}
	if q.Term == "" {
		return &SubmitResult{Quantity: q.Quantity, Term: raw}, nil
	}

	items, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	matches := FilterCatalog(items, q.Term)
	if len(matches) == 0 {
		return &SubmitResult{Quantity: q.Quantity, Term: raw}, nil
	}

	item := matches[0]
	snap, err := s.cart.AddItem(item, q.Quantity)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{
		Added:    true,
		Item:     &item,
		Quantity: q.Quantity,
		Term:     "",
		Cart:     snap,
	}, nil
}
