package service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/internal/domain/enum"
	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/LouisLibre/BorderPOS/pkg/money"
	"github.com/shopspring/decimal"
)

// PresetExact selects the amount that settles the current balance.
const PresetExact = "exact"

// TenderView is one tender row with its value in pesos
type TenderView struct {
	Method  enum.TenderMethod `json:"method"`
	Amount  decimal.Decimal   `json:"amount"`
	InPesos decimal.Decimal   `json:"in_pesos"`
}

// PaymentView is the payment screen state
type PaymentView struct {
	TotalDue       decimal.Decimal   `json:"total_due"`
	ExchangeRate   decimal.Decimal   `json:"exchange_rate"`
	TotalInDollars decimal.Decimal   `json:"total_in_dollars"`
	Tenders        []TenderView      `json:"tenders"`
	TotalPaid      decimal.Decimal   `json:"total_paid"`
	BalanceDue     decimal.Decimal   `json:"balance_due"`
	Settlement     entity.Settlement `json:"settlement"`
	Keypad         string            `json:"keypad"`
	SelectedMethod enum.TenderMethod `json:"selected_method"`
	Presets        []string          `json:"presets"`
	ExactPreset    string            `json:"exact_preset"`
}

// SaleReceipt is returned when a payment is finalized
type SaleReceipt struct {
	RecordedSale
	Payment            *entity.PaymentResult `json:"payment"`
	AutoDismissSeconds int                   `json:"auto_dismiss_seconds"`
}

// AddPaymentInput represents a tender. A nil Amount tenders the keypad buffer.
type AddPaymentInput struct {
	Method string
	Amount *string
}

// PaymentService runs the payment screen: one session at a time against the cart total
type PaymentService struct {
	mu        sync.Mutex
	cart      *CartService
	settings  *SettingsService
	sales     *SaleService
	countdown time.Duration

	session *entity.PaymentSession
	keypad  *entity.AmountKeypad
	method  enum.TenderMethod
}

// NewPaymentService creates a new payment service
func NewPaymentService(cart *CartService, settings *SettingsService, sales *SaleService, countdown time.Duration) *PaymentService {
	return &PaymentService{
		cart:      cart,
		settings:  settings,
		sales:     sales,
		countdown: countdown,
	}
}

// Open starts a session for the current cart total, replacing any open one.
func (s *PaymentService) Open(ctx context.Context) (*PaymentView, error) {
	_, total := s.cart.Lines()
	if !total.IsPositive() {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}
	rate := s.settings.GetExchangeRate(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = entity.NewPaymentSession(total, rate)
	s.keypad = entity.NewAmountKeypad(money.FormatCurrency(total))
	s.method = enum.TenderCash
	return s.view(), nil
}

// Current returns the open session
func (s *PaymentService) Current() (*PaymentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoPaymentOpen
	}
	return s.view(), nil
}

// Cancel discards the session. The cart is left as it is.
func (s *PaymentService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.keypad = nil
}

// AddPayment records a tender and selects its method on the keypad.
func (s *PaymentService) AddPayment(input *AddPaymentInput) (*PaymentView, error) {
	method, err := enum.ParseTenderMethod(input.Method)
	if err != nil {
		return nil, apperror.NewFieldError("method", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoPaymentOpen
	}

	amount := s.keypad.Amount()
	if input.Amount != nil {
		amount, err = money.ParseAmount(*input.Amount)
		if err != nil {
			return nil, apperror.NewFieldError("amount", err.Error())
		}
	}

	if err := s.session.AddPayment(method, amount); err != nil {
		return nil, apperror.NewFieldError("amount", err.Error())
	}
	s.keypad.Clear()
	s.method = method
	return s.view(), nil
}

// ResetPayment zeroes one tender
func (s *PaymentService) ResetPayment(methodName string) (*PaymentView, error) {
	method, err := enum.ParseTenderMethod(methodName)
	if err != nil {
		return nil, apperror.NewFieldError("method", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoPaymentOpen
	}
	if err := s.session.ResetPayment(method); err != nil {
		return nil, apperror.NewFieldError("method", err.Error())
	}
	return s.view(), nil
}

// ResetAll zeroes every tender
func (s *PaymentService) ResetAll() (*PaymentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoPaymentOpen
	}
	s.session.ResetAll()
	return s.view(), nil
}

// SelectMethod picks the tender the keypad amount goes to
func (s *PaymentService) SelectMethod(methodName string) (*PaymentView, error) {
	method, err := enum.ParseTenderMethod(methodName)
	if err != nil {
		return nil, apperror.NewFieldError("method", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoPaymentOpen
	}
	s.method = method
	return s.view(), nil
}

// PressKey applies a keypad key
func (s *PaymentService) PressKey(key string) (*PaymentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoPaymentOpen
	}
	if err := s.keypad.Press(key); err != nil {
		return nil, apperror.NewFieldError("key", err.Error())
	}
	return s.view(), nil
}

// Preset fills the keypad with a literal amount or, for "exact", the amount still owed.
func (s *PaymentService) Preset(amount string) (*PaymentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoPaymentOpen
	}

	value := strings.TrimSpace(amount)
	if strings.EqualFold(value, PresetExact) {
		value = s.session.ExactPreset()
	}
	if err := s.keypad.Preset(value); err != nil {
		return nil, apperror.NewFieldError("amount", err.Error())
	}
	return s.view(), nil
}

// Finalize records the sale once the payment covers the total. The session
// survives a failed attempt so the cashier can retry.
func (s *PaymentService) Finalize(ctx context.Context) (*SaleReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoPaymentOpen
	}

	result, err := s.session.Finalize()
	if err != nil {
		if errors.Is(err, entity.ErrPaymentIncomplete) {
			return nil, apperror.NewAppError(http.StatusUnprocessableEntity, "Payment does not cover the total due").
				WithDetails(s.session.Settlement())
		}
		return nil, err
	}

	lines, total := s.cart.Lines()
	if len(lines) == 0 || !total.Equal(s.session.TotalDue()) {
		log.Printf("[SALE] Cart total %s no longer matches payment total %s", total.StringFixed(2), s.session.TotalDue().StringFixed(2))
		return nil, apperror.NewConflictError("Cart changed during payment, reopen the payment")
	}

	sale, err := s.sales.Record(ctx, &RecordSaleInput{
		Lines:    lines,
		Payment:  result,
		Subtotal: total,
		Taxes:    decimal.Zero,
	})
	if err != nil {
		return nil, err
	}

	s.session = nil
	s.keypad = nil
	return &SaleReceipt{
		RecordedSale:       *sale,
		Payment:            result,
		AutoDismissSeconds: int(s.countdown / time.Second),
	}, nil
}

// view must be called with mu held and a session open.
func (s *PaymentService) view() *PaymentView {
	rate := s.session.ExchangeRate()
	tenders := s.session.Tenders()

	rows := make([]TenderView, 0, len(enum.TenderMethods))
	for _, m := range enum.TenderMethods {
		amount := tenders.Get(m)
		inPesos := amount
		if m == enum.TenderDollars {
			inPesos = money.ToLocal(amount, rate)
		}
		rows = append(rows, TenderView{Method: m, Amount: amount, InPesos: inPesos})
	}

	presets := append([]string{}, entity.PresetAmounts...)
	return &PaymentView{
		TotalDue:       s.session.TotalDue(),
		ExchangeRate:   rate,
		TotalInDollars: money.ToForeign(s.session.TotalDue(), rate),
		Tenders:        rows,
		TotalPaid:      tenders.Sum(),
		BalanceDue:     s.session.BalanceDue(),
		Settlement:     s.session.Settlement(),
		Keypad:         s.keypad.Value(),
		SelectedMethod: s.method,
		Presets:        presets,
		ExactPreset:    s.session.ExactPreset(),
	}
}
