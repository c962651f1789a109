package repository

import (
	"context"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/pkg/pagination"
)

// TicketRepository defines the interface for sale ticket persistence
type TicketRepository interface {
	// CreateWithItems inserts the ticket and then each item in order. Nothing
	// is kept when any insert fails.
	CreateWithItems(ctx context.Context, ticket *entity.Ticket, items []entity.TicketItem) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	GetWithItems(ctx context.Context, id string) (*entity.Ticket, error)
	List(ctx context.Context, params *TicketFilterParams) ([]entity.Ticket, int64, error)
	ListItems(ctx context.Context, ticketID string) ([]entity.TicketItem, error)
}

// TicketFilterParams contains filtering parameters for ticket history
type TicketFilterParams struct {
	Pagination *pagination.PaginationParams
	POSID      string
	StartDate  *time.Time
	EndDate    *time.Time
}
