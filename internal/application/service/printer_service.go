package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/internal/domain/repository"
	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/LouisLibre/BorderPOS/pkg/metrics"
	"github.com/LouisLibre/BorderPOS/pkg/money"
	"github.com/LouisLibre/BorderPOS/pkg/printer"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const printTimeout = 15 * time.Second

// PrinterOptions configures receipt layout and the print queue.
type PrinterOptions struct {
	Type          string
	CharsPerLine  int
	StoreName     string
	RatePerSecond float64
	QueueSize     int
}

type printJob struct {
	ticketID string
	data     []byte
}

// PrinterService formats tickets and sends them to the thermal printer.
// Sale receipts go through a bounded background queue so a slow or missing
// printer never holds up the register.
type PrinterService struct {
	printer    printer.Printer
	settings   *SettingsService
	ticketRepo repository.TicketRepository
	metrics    *metrics.Metrics
	opts       PrinterOptions
	limiter    *rate.Limiter
	jobs       chan printJob
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	settings *SettingsService,
	ticketRepo repository.TicketRepository,
	m *metrics.Metrics,
	opts PrinterOptions,
) *PrinterService {
	if opts.CharsPerLine <= 0 {
		opts.CharsPerLine = printer.DefaultWidth
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	return &PrinterService{
		printer:    p,
		settings:   settings,
		ticketRepo: ticketRepo,
		metrics:    m,
		opts:       opts,
		limiter:    rate.NewLimiter(limit, 1),
		jobs:       make(chan printJob, opts.QueueSize),
	}
}

// Start runs the print worker until ctx is cancelled or Close is called.
func (s *PrinterService) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-s.jobs:
				if !ok {
					return
				}
				s.run(ctx, job)
			}
		}
	}()
}

// Close stops accepting jobs and waits for the worker to drain the queue.
func (s *PrinterService) Close() {
	s.closeOnce.Do(func() {
		close(s.jobs)
	})
	s.wg.Wait()
}

func (s *PrinterService) run(ctx context.Context, job printJob) {
	if err := s.limiter.Wait(ctx); err != nil {
		s.metrics.ObservePrint(metrics.PrintDropped)
		return
	}

	printCtx, cancel := context.WithTimeout(ctx, printTimeout)
	defer cancel()
	if err := s.printer.Print(printCtx, job.data); err != nil {
		log.Printf("[PRINTER] Printing failed (ticket %s): %v", job.ticketID, err)
		s.metrics.ObservePrint(metrics.PrintFailed)
		return
	}
	s.metrics.ObservePrint(metrics.PrintOK)
}

// Enqueue queues a printout without waiting. It reports false when the
// queue is full or closed and the receipt was dropped.
func (s *PrinterService) Enqueue(p *entity.TicketPrintout) (queued bool) {
	defer func() {
		// send on a closed queue after shutdown
		if recover() != nil {
			queued = false
		}
		if !queued {
			log.Printf("[PRINTER] Queue unavailable, receipt for ticket %s dropped", p.ID)
			s.metrics.ObservePrint(metrics.PrintDropped)
		}
	}()

	select {
	case s.jobs <- printJob{ticketID: p.ID, data: FormatTicket(p, s.opts.StoreName, s.opts.CharsPerLine)}:
		return true
	default:
		return false
	}
}

// BuildPrintout composes the print payload for a ticket with the selected printer ids.
func (s *PrinterService) BuildPrintout(ctx context.Context, t *entity.Ticket) *entity.TicketPrintout {
	ref, err := s.settings.GetSelectedPrinter(ctx)
	if err != nil {
		log.Printf("[PRINTER] Warning: %v", err)
	}
	return entity.NewTicketPrintout(t, ref)
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool               `json:"configured"`
	Connected  bool               `json:"connected"`
	Type       string             `json:"type"`
	Selected   *entity.PrinterRef `json:"selected,omitempty"`
	QueueLen   int                `json:"queue_length"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	ref, err := s.settings.GetSelectedPrinter(ctx)
	if err != nil {
		log.Printf("[PRINTER] Warning: %v", err)
	}
	return &PrinterStatus{
		Configured: s.opts.Type != printer.TypeNone && s.opts.Type != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.opts.Type,
		Selected:   ref,
		QueueLen:   len(s.jobs),
	}
}

// TestPrint sends a sample ticket to the printer.
// Returns the printout so the handler can show it when no printer is attached.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.TicketPrintout, error) {
	ticket := &entity.Ticket{
		ID:        "PRUEBA0",
		TotalDue:  decimal.RequireFromString("30.00"),
		PesosPaid: decimal.RequireFromString("50.00"),
		Change:    decimal.RequireFromString("20.00"),
		CreatedAt: time.Now(),
		Items: []entity.TicketItem{
			{ProductName: "Articulo de prueba", Price: decimal.RequireFromString("10.00"), Quantity: decimal.NewFromInt(1), LineTotal: decimal.RequireFromString("10.00")},
			{ProductName: "Articulo a granel", Price: decimal.RequireFromString("40.00"), Quantity: decimal.RequireFromString("0.5"), LineTotal: decimal.RequireFromString("20.00")},
		},
	}
	printout := s.BuildPrintout(ctx, ticket)

	if err := s.print(ctx, printout); err != nil {
		return printout, apperror.NewDeviceError("Test print failed", err)
	}
	return printout, nil
}

// ReprintTicket loads a stored ticket and prints it synchronously.
func (s *PrinterService) ReprintTicket(ctx context.Context, ticketID string) (*entity.TicketPrintout, error) {
	ticket, err := s.ticketRepo.GetWithItems(ctx, ticketID)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to load ticket", err)
	}
	if ticket == nil {
		return nil, apperror.NewNotFoundError("Ticket")
	}

	printout := s.BuildPrintout(ctx, ticket)
	if err := s.print(ctx, printout); err != nil {
		log.Printf("[PRINTER] Printing failed (ticket %s): %v", ticketID, err)
		return printout, apperror.NewDeviceError("Failed to print receipt", err)
	}
	return printout, nil
}

func (s *PrinterService) print(ctx context.Context, p *entity.TicketPrintout) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	printCtx, cancel := context.WithTimeout(ctx, printTimeout)
	defer cancel()

	err := s.printer.Print(printCtx, FormatTicket(p, s.opts.StoreName, s.opts.CharsPerLine))
	if err != nil {
		s.metrics.ObservePrint(metrics.PrintFailed)
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("printer did not respond: %w", err)
		}
		return err
	}
	s.metrics.ObservePrint(metrics.PrintOK)
	return nil
}

// FormatTicket converts a printout into ESC/POS bytes.
func FormatTicket(p *entity.TicketPrintout, storeName string, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(storeName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		LineFeed()

	doc.SetAlign(printer.AlignLeft).
		KeyValue("Folio:", p.ID).
		KeyValue("Fecha:", p.Date).
		LineFeed()

	doc.SetBold(true).
		KeyValue("PRODUCTO", "IMPORTE").
		SetBold(false).
		Separator('-')

	// Items
	one := decimal.NewFromInt(1)
	for _, line := range p.Lines {
		doc.ItemLine(line.Name, money.Display(line.LineTotal))
		if !line.Quantity.Equal(one) {
			doc.TextF("  %s x %s", line.Quantity.String(), money.Display(line.Price))
		}
	}

	doc.Separator('-')

	// Totals
	doc.SetBold(true).
		KeyValue("TOTAL", money.Display(p.TotalDue)).
		SetBold(false).
		KeyValue("SU PAGO MXN:", money.Display(p.PesosPaid)).
		KeyValue("SU PAGO USD:", money.Display(p.DollarsPaid)).
		KeyValue("SU PAGO TARJETA:", money.Display(p.CardsPaid)).
		KeyValue("SU PAGO OTROS:", money.Display(p.OthersPaid)).
		SetBold(true).
		KeyValue("SU CAMBIO:", money.Display(p.Change)).
		SetBold(false)

	// Footer
	doc.FeedLines(3).
		SetAlign(printer.AlignCenter).
		Text("! Muchas Gracias por su compra !").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		Cut()

	return doc.Bytes()
}
