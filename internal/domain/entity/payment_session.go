package entity

import (
	"errors"

	"github.com/LouisLibre/BorderPOS/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrUnknownTender     = errors.New("unknown tender method")
	ErrPaymentIncomplete = errors.New("payment does not cover the total due")
)

// Payment method labels beyond the four tender names.
const PaymentMethodMixed = "MIXED"

// TenderTotals accumulates what was tendered per method, at face value.
type TenderTotals struct {
	Cash    decimal.Decimal `json:"cash"`
	Dollars decimal.Decimal `json:"dollars"`
	Card    decimal.Decimal `json:"card"`
	Other   decimal.Decimal `json:"other"`
}

func (t *TenderTotals) ref(m enum.TenderMethod) *decimal.Decimal {
	switch m {
	case enum.TenderCash:
		return &t.Cash
	case enum.TenderDollars:
		return &t.Dollars
	case enum.TenderCard:
		return &t.Card
	case enum.TenderOther:
		return &t.Other
	}
	return nil
}

// Get returns the amount tendered with m.
func (t TenderTotals) Get(m enum.TenderMethod) decimal.Decimal {
	if p := t.ref(m); p != nil {
		return *p
	}
	return decimal.Zero
}

// Sum adds the four tenders without any currency conversion.
func (t TenderTotals) Sum() decimal.Decimal {
	return t.Cash.Add(t.Dollars).Add(t.Card).Add(t.Other)
}

// Local adds the four tenders with dollars converted at rate.
func (t TenderTotals) Local(rate decimal.Decimal) decimal.Decimal {
	return t.Cash.Add(t.Dollars.Mul(rate)).Add(t.Card).Add(t.Other)
}

// MethodLabel names the tender used, MIXED for several and CASH for none.
func (t TenderTotals) MethodLabel() string {
	label := ""
	for _, m := range enum.TenderMethods {
		if !t.Get(m).IsPositive() {
			continue
		}
		if label != "" {
			return PaymentMethodMixed
		}
		label = m.String()
	}
	if label == "" {
		return enum.TenderCash.String()
	}
	return label
}

// Settlement is the derived state of a payment session.
type Settlement struct {
	Status enum.SettlementStatus `json:"status"`
	Label  string                `json:"label"`
	// Change is the amount owed back to the customer, zero unless change is due.
	Change decimal.Decimal `json:"change"`
}

// PaymentResult is the snapshot taken when a payment is finalized.
type PaymentResult struct {
	TotalDue     decimal.Decimal `json:"total_due"`
	Tenders      TenderTotals    `json:"tenders"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Change       decimal.Decimal `json:"change"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	MethodLabel  string          `json:"payment_method"`
}

// PaymentSession collects tenders against a fixed total due.
type PaymentSession struct {
	totalDue decimal.Decimal
	rate     decimal.Decimal
	tenders  TenderTotals
}

// NewPaymentSession starts a session with nothing tendered.
func NewPaymentSession(totalDue, exchangeRate decimal.Decimal) *PaymentSession {
	return &PaymentSession{
		totalDue: totalDue,
		rate:     exchangeRate,
	}
}

func (s *PaymentSession) TotalDue() decimal.Decimal     { return s.totalDue }
func (s *PaymentSession) ExchangeRate() decimal.Decimal { return s.rate }
func (s *PaymentSession) Tenders() TenderTotals         { return s.tenders }

// AddPayment records a tender. Dollar amounts count at the exchange rate
// toward the balance.
func (s *PaymentSession) AddPayment(m enum.TenderMethod, amount decimal.Decimal) error {
	p := s.tenders.ref(m)
	if p == nil {
		return ErrUnknownTender
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	*p = p.Add(amount)
	return nil
}

// ResetPayment zeroes one tender.
func (s *PaymentSession) ResetPayment(m enum.TenderMethod) error {
	p := s.tenders.ref(m)
	if p == nil {
		return ErrUnknownTender
	}
	*p = decimal.Zero
	return nil
}

// ResetAll zeroes every tender.
func (s *PaymentSession) ResetAll() {
	s.tenders = TenderTotals{}
}

// BalanceDue is the converted amount tendered minus the total due, rounded
// to cents. Negative means the customer still owes money.
func (s *PaymentSession) BalanceDue() decimal.Decimal {
	return s.tenders.Local(s.rate).Sub(s.totalDue).Round(2)
}

// Settlement derives the finalize state from the balance.
func (s *PaymentSession) Settlement() Settlement {
	balance := s.BalanceDue()
	var status enum.SettlementStatus
	switch balance.Sign() {
	case -1:
		status = enum.SettlementIncomplete
	case 0:
		status = enum.SettlementExact
	default:
		status = enum.SettlementChangeDue
	}

	change := decimal.Zero
	if status == enum.SettlementChangeDue {
		change = balance
	}
	return Settlement{Status: status, Label: status.Label(), Change: change}
}

// ExactPreset is the amount that would settle the balance, "0.00" when
// nothing is owed.
func (s *PaymentSession) ExactPreset() string {
	balance := s.BalanceDue()
	if balance.IsNegative() {
		return balance.Abs().StringFixed(2)
	}
	return decimal.Zero.StringFixed(2)
}

// Finalize snapshots the session. TotalPaid is the raw sum of tenders,
// while Change uses the converted balance.
func (s *PaymentSession) Finalize() (*PaymentResult, error) {
	settlement := s.Settlement()
	if !settlement.Status.CanFinalize() {
		return nil, ErrPaymentIncomplete
	}

	return &PaymentResult{
		TotalDue:     s.totalDue,
		Tenders:      s.tenders,
		TotalPaid:    s.tenders.Sum(),
		Change:       settlement.Change,
		ExchangeRate: s.rate,
		MethodLabel:  s.tenders.MethodLabel(),
	}, nil
}
