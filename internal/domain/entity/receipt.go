package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PrintoutLine represents a single line item on a printed ticket.
type PrintoutLine struct {
	Name      string          `json:"line_item_product_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"total"`
}

// TicketPrintout is the payload handed to the receipt printer.
// It is composed from a ticket at print time and never stored.
type TicketPrintout struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	PesosPaid   decimal.Decimal `json:"pesos_paid"`
	DollarsPaid decimal.Decimal `json:"dollars_paid"`
	CardsPaid   decimal.Decimal `json:"cards_paid"`
	OthersPaid  decimal.Decimal `json:"others_paid"`
	TotalDue    decimal.Decimal `json:"total_due"`
	Change      decimal.Decimal `json:"change"`
	Lines       []PrintoutLine  `json:"ticket_items"`
	VendorID    uint16          `json:"vid"`
	ProductID   uint16          `json:"pid"`
}

var monthAbbrev = [...]string{"ENE", "FEB", "MAR", "ABR", "MAY", "JUN", "JUL", "AGO", "SEP", "OCT", "NOV", "DIC"}

// FormatTicketDate renders t as DD/MON/YYYY with Spanish month abbreviations.
func FormatTicketDate(t time.Time) string {
	return fmt.Sprintf("%02d/%s/%d", t.Day(), monthAbbrev[t.Month()-1], t.Year())
}

// NewTicketPrintout builds the print payload. A nil printer yields zero ids.
func NewTicketPrintout(t *Ticket, printer *PrinterRef) *TicketPrintout {
	p := &TicketPrintout{
		ID:          t.ShortID(),
		Date:        FormatTicketDate(t.CreatedAt),
		PesosPaid:   t.PesosPaid,
		DollarsPaid: t.DollarsPaid,
		CardsPaid:   t.CardsPaid,
		OthersPaid:  t.OthersPaid,
		TotalDue:    t.TotalDue,
		Change:      t.Change,
		Lines:       make([]PrintoutLine, 0, len(t.Items)),
	}
	if printer != nil {
		p.VendorID = printer.VendorID
		p.ProductID = printer.ProductID
	}
	for _, item := range t.Items {
		p.Lines = append(p.Lines, PrintoutLine{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: item.LineTotal,
		})
	}
	return p
}
