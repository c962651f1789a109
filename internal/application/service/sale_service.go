package service

import (
	"context"
	"log"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/LouisLibre/BorderPOS/pkg/metrics"
	"github.com/LouisLibre/BorderPOS/pkg/utils"
	"github.com/shopspring/decimal"
)

// SaleService turns a settled payment into a stored ticket
type SaleService struct {
	ticketRepo  repository.TicketRepository
	cart        *CartService
	printer     *PrinterService
	metrics     *metrics.Metrics
	cashierName string
	posID       string

	now     func() time.Time
	newSalt func() string
}

// NewSaleService creates a new sale service. printer may be nil.
func NewSaleService(
	ticketRepo repository.TicketRepository,
	cart *CartService,
	printer *PrinterService,
	m *metrics.Metrics,
	cashierName, posID string,
) *SaleService {
	return &SaleService{
		ticketRepo:  ticketRepo,
		cart:        cart,
		printer:     printer,
		metrics:     m,
		cashierName: cashierName,
		posID:       posID,
		now:         time.Now,
		newSalt:     utils.NewSalt,
	}
}

// RecordSaleInput represents a sale ready to be stored
type RecordSaleInput struct {
	Lines    []entity.CartLine
	Payment  *entity.PaymentResult
	Subtotal decimal.Decimal
	Taxes    decimal.Decimal
}

// RecordedSale is the stored ticket and the receipt queued for printing
type RecordedSale struct {
	Ticket   *entity.Ticket         `json:"ticket"`
	Printout *entity.TicketPrintout `json:"printout"`
}

// Record stores the ticket and its lines in one transaction, clears the cart
// and queues the receipt. On failure nothing is stored and the cart is kept.
func (s *SaleService) Record(ctx context.Context, input *RecordSaleInput) (*RecordedSale, error) {
	payment := input.Payment
	at := s.now()
	ticketID := utils.TicketID(payment.TotalDue, payment.MethodLabel, at, s.newSalt())

	ticket := &entity.Ticket{
		ID:            ticketID,
		Subtotal:      input.Subtotal,
		Taxes:         input.Taxes,
		TotalDue:      payment.TotalDue,
		PesosPaid:     payment.Tenders.Cash,
		DollarsPaid:   payment.Tenders.Dollars,
		CardsPaid:     payment.Tenders.Card,
		OthersPaid:    payment.Tenders.Other,
		TotalPaid:     payment.TotalPaid,
		Change:        payment.Change,
		ExchangeRate:  payment.ExchangeRate,
		PaymentMethod: payment.MethodLabel,
		CashierName:   s.cashierName,
		POSID:         s.posID,
		CreatedAt:     at,
	}

	items := make([]entity.TicketItem, 0, len(input.Lines))
	for i, line := range input.Lines {
		items = append(items, entity.TicketItem{
			ID:          utils.TicketItemID(ticketID, line.Item.SKU, line.Quantity, line.Item.Price),
			TicketID:    ticketID,
			Position:    i,
			SKU:         line.Item.SKU,
			PLUCode:     line.Item.PLUCode,
			Barcode:     line.Item.Barcode,
			ProductName: line.Item.ProductName,
			Price:       line.Item.Price,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal(),
		})
	}

	if err := s.ticketRepo.CreateWithItems(ctx, ticket, items); err != nil {
		log.Printf("[SALE] Failed to record ticket %s: %v", ticketID, err)
		return nil, apperror.NewPersistenceError("Failed to record sale", err)
	}
	ticket.Items = items

	s.cart.ClearCart()
	s.metrics.ObserveTicket(ticket.TotalDue.InexactFloat64())
	log.Printf("[SALE] Recorded ticket %s total %s via %s", ticket.ShortID(), ticket.TotalDue.StringFixed(2), ticket.PaymentMethod)

	sale := &RecordedSale{Ticket: ticket}
	if s.printer != nil {
		sale.Printout = s.printer.BuildPrintout(ctx, ticket)
		s.printer.Enqueue(sale.Printout)
	} else {
		sale.Printout = entity.NewTicketPrintout(ticket, nil)
	}
	return sale, nil
}
