package service

import (
	"context"
	"testing"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
)

type harness struct {
	catalogRepo  *mockCatalogRepository
	settingsRepo *mockSettingsRepository
	ticketRepo   *mockTicketRepository
	device       *mockPrinter

	settings *SettingsService
	catalog  *CatalogService
	cart     *CartService
	search   *SearchService
	printer  *PrinterService
	sales    *SaleService
	payment  *PaymentService
}

func newHarness(t *testing.T, items ...entity.CatalogItem) *harness {
	t.Helper()

	h := &harness{
		catalogRepo:  newMockCatalogRepository(items...),
		settingsRepo: newMockSettingsRepository(),
		ticketRepo:   newMockTicketRepository(),
		device:       newMockPrinter(),
	}
	h.settings = NewSettingsService(h.settingsRepo, dec("20.00"))
	h.catalog = NewCatalogService(h.catalogRepo, nil)
	h.cart = NewCartService(h.catalog, h.settings)
	h.search = NewSearchService(h.catalog, h.cart)
	h.printer = NewPrinterService(h.device, h.settings, h.ticketRepo, nil, PrinterOptions{
		Type:         "usb",
		CharsPerLine: 48,
		StoreName:    "BorderPOS",
		QueueSize:    4,
	})
	h.sales = NewSaleService(h.ticketRepo, h.cart, h.printer, nil, "Ana", "POS1")
	h.payment = NewPaymentService(h.cart, h.settings, h.sales, 5*time.Second)
	return h
}

// startPrinter runs the print worker for the rest of the test.
func (h *harness) startPrinter(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h.printer.Start(ctx)
	t.Cleanup(func() {
		cancel()
		h.printer.Close()
	})
}
