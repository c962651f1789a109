package service

import (
	"context"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/LouisLibre/BorderPOS/pkg/pagination"
)

// TicketService serves the sale history
type TicketService struct {
	ticketRepo repository.TicketRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo repository.TicketRepository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo}
}

// ListTicketsInput represents the ticket history query
type ListTicketsInput struct {
	Pagination *pagination.PaginationParams
	POSID      string
	StartDate  *time.Time
	EndDate    *time.Time
}

// List returns tickets newest first
func (s *TicketService) List(ctx context.Context, input *ListTicketsInput) (*pagination.PaginatedResult[entity.Ticket], error) {
	params := input.Pagination
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	tickets, total, err := s.ticketRepo.List(ctx, &repository.TicketFilterParams{
		Pagination: params,
		POSID:      input.POSID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	})
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to list tickets", err)
	}
	return pagination.NewPaginatedResult(tickets, params, total), nil
}

// Get returns a ticket with its items
func (s *TicketService) Get(ctx context.Context, id string) (*entity.Ticket, error) {
	ticket, err := s.ticketRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to load ticket", err)
	}
	if ticket == nil {
		return nil, apperror.NewNotFoundError("Ticket")
	}
	return ticket, nil
}
