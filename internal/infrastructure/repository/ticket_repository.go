package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	domainRepo "github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) domainRepo.TicketRepository {
	return &ticketRepository{db: db}
}

// CreateWithItems writes the header first and then each line inside one transaction
func (r *ticketRepository) CreateWithItems(ctx context.Context, ticket *entity.Ticket, items []entity.TicketItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(ticket).Error; err != nil {
			return fmt.Errorf("insert ticket: %w", err)
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("insert ticket item %s: %w", items[i].SKU, err)
			}
		}
		return nil
	})
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetWithItems(ctx context.Context, id string) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&ticket, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// List returns tickets newest first
func (r *ticketRepository) List(ctx context.Context, params *domainRepo.TicketFilterParams) ([]entity.Ticket, int64, error) {
	var tickets []entity.Ticket
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Ticket{}).
		Scopes(POSScope(params.POSID), CreatedBetween(params.StartDate, params.EndDate))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&tickets).Error

	return tickets, total, err
}

func (r *ticketRepository) ListItems(ctx context.Context, ticketID string) ([]entity.TicketItem, error) {
	var items []entity.TicketItem
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("position ASC").
		Find(&items).Error
	return items, err
}
