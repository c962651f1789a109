package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"github.com/LouisLibre/BorderPOS/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
)

var errStorage = errors.New("storage unavailable")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func catalogItem(sku, name, price string) entity.CatalogItem {
	return entity.CatalogItem{SKU: sku, ProductName: name, Price: dec(price), PLUCode: strPtr(sku)}
}

type mockCatalogRepository struct {
	m          sync.RWMutex
	items      map[string]entity.CatalogItem
	selectHits int
	err        error
	upsertErr  error
	failAfter  int
}

func newMockCatalogRepository(items ...entity.CatalogItem) *mockCatalogRepository {
	r := &mockCatalogRepository{items: make(map[string]entity.CatalogItem), failAfter: -1}
	for _, item := range items {
		r.items[item.SKU] = item
	}
	return r
}

func (r *mockCatalogRepository) SelectAll(context.Context) ([]entity.CatalogItem, error) {
	r.m.Lock()
	defer r.m.Unlock()
	r.selectHits++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]entity.CatalogItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *mockCatalogRepository) GetBySKU(_ context.Context, sku string) (*entity.CatalogItem, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	item, ok := r.items[sku]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *mockCatalogRepository) Upsert(_ context.Context, item *entity.CatalogItem) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.failAfter == 0 {
		return r.upsertErr
	}
	if r.failAfter > 0 {
		r.failAfter--
	}
	r.items[item.SKU] = *item
	return nil
}

func (r *mockCatalogRepository) Count(context.Context) (int64, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return int64(len(r.items)), nil
}

func (r *mockCatalogRepository) selects() int {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.selectHits
}

type mockCatalogCache struct {
	m           sync.RWMutex
	items       []entity.CatalogItem
	invalidated int
	err         error
}

func (c *mockCatalogCache) Get(context.Context) ([]entity.CatalogItem, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	if c.items == nil {
		return nil, cache.ErrCacheMiss
	}
	return c.items, nil
}

func (c *mockCatalogCache) Set(_ context.Context, items []entity.CatalogItem) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.items = items
	return nil
}

func (c *mockCatalogCache) Invalidate(context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.items = nil
	c.invalidated++
	return nil
}

type mockSettingsRepository struct {
	m      sync.RWMutex
	values map[string]string
	err    error
}

func newMockSettingsRepository() *mockSettingsRepository {
	return &mockSettingsRepository{values: make(map[string]string)}
}

func (r *mockSettingsRepository) Get(_ context.Context, key string) (*entity.Setting, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	v, ok := r.values[key]
	if !ok {
		return nil, nil
	}
	return &entity.Setting{Key: key, Value: v}, nil
}

func (r *mockSettingsRepository) Upsert(_ context.Context, key, value string) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	r.values[key] = value
	return nil
}

func (r *mockSettingsRepository) Delete(_ context.Context, key string) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.values, key)
	return nil
}

type mockTicketRepository struct {
	m       sync.RWMutex
	tickets []entity.Ticket
	items   map[string][]entity.TicketItem
	err     error
}

func newMockTicketRepository() *mockTicketRepository {
	return &mockTicketRepository{items: make(map[string][]entity.TicketItem)}
}

func (r *mockTicketRepository) CreateWithItems(_ context.Context, ticket *entity.Ticket, items []entity.TicketItem) error {
	r.m.Lock()
	defer r.m.Unlock()
	if r.err != nil {
		return r.err
	}
	r.tickets = append(r.tickets, *ticket)
	r.items[ticket.ID] = append([]entity.TicketItem(nil), items...)
	return nil
}

func (r *mockTicketRepository) GetByID(_ context.Context, id string) (*entity.Ticket, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, t := range r.tickets {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *mockTicketRepository) GetWithItems(ctx context.Context, id string) (*entity.Ticket, error) {
	t, err := r.GetByID(ctx, id)
	if t == nil || err != nil {
		return t, err
	}
	r.m.RLock()
	defer r.m.RUnlock()
	t.Items = r.items[id]
	return t, nil
}

func (r *mockTicketRepository) List(_ context.Context, params *repository.TicketFilterParams) ([]entity.Ticket, int64, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	if r.err != nil {
		return nil, 0, r.err
	}
	out := make([]entity.Ticket, 0, len(r.tickets))
	for i := len(r.tickets) - 1; i >= 0; i-- {
		out = append(out, r.tickets[i])
	}
	total := int64(len(out))

	start := params.Pagination.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + params.Pagination.PerPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *mockTicketRepository) ListItems(_ context.Context, ticketID string) ([]entity.TicketItem, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.items[ticketID], nil
}

func (r *mockTicketRepository) count() int {
	r.m.RLock()
	defer r.m.RUnlock()
	return len(r.tickets)
}

type mockPrinter struct {
	m         sync.Mutex
	jobs      [][]byte
	err       error
	connected bool
	printed   chan struct{}
}

func newMockPrinter() *mockPrinter {
	return &mockPrinter{connected: true, printed: make(chan struct{}, 16)}
}

func (p *mockPrinter) Print(_ context.Context, data []byte) error {
	p.m.Lock()
	defer func() {
		p.m.Unlock()
		p.printed <- struct{}{}
	}()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *mockPrinter) Close() error      { return nil }
func (p *mockPrinter) IsConnected() bool { return p.connected }

func (p *mockPrinter) jobCount() int {
	p.m.Lock()
	defer p.m.Unlock()
	return len(p.jobs)
}

func (p *mockPrinter) waitPrinted(d time.Duration) bool {
	select {
	case <-p.printed:
		return true
	case <-time.After(d):
		return false
	}
}
