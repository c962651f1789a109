package handler

import (
	"github.com/LouisLibre/BorderPOS/internal/application/service"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/request"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles the payment screen
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) respond(c *gin.Context, message string, view *service.PaymentView, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, view)
}

// Open starts a payment for the current cart
func (h *PaymentHandler) Open(c *gin.Context) {
	view, err := h.paymentService.Open(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment started", view)
}

// Get returns the open payment
func (h *PaymentHandler) Get(c *gin.Context) {
	view, err := h.paymentService.Current()
	h.respond(c, "Payment retrieved successfully", view, err)
}

// Cancel discards the payment; the cart stays as it is
func (h *PaymentHandler) Cancel(c *gin.Context) {
	h.paymentService.Cancel()
	response.OK(c, "Payment cancelled", nil)
}

// AddTender records an amount for a tender method
func (h *PaymentHandler) AddTender(c *gin.Context) {
	var req request.AddTenderRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.paymentService.AddPayment(&service.AddPaymentInput{
		Method: req.Method,
		Amount: req.Amount,
	})
	h.respond(c, "Payment added", view, err)
}

// ResetTender zeroes one tender method
func (h *PaymentHandler) ResetTender(c *gin.Context) {
	view, err := h.paymentService.ResetPayment(c.Param("method"))
	h.respond(c, "Payment reset", view, err)
}

// ResetAll zeroes every tender
func (h *PaymentHandler) ResetAll(c *gin.Context) {
	view, err := h.paymentService.ResetAll()
	h.respond(c, "Payments reset", view, err)
}

// SelectMethod sets the tender the keypad feeds
func (h *PaymentHandler) SelectMethod(c *gin.Context) {
	var req request.SelectMethodRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.paymentService.SelectMethod(req.Method)
	h.respond(c, "Payment method selected", view, err)
}

// PressKey applies one keypad key
func (h *PaymentHandler) PressKey(c *gin.Context) {
	var req request.KeypadRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.paymentService.PressKey(req.Key)
	h.respond(c, "Keypad updated", view, err)
}

// Preset loads a preset amount into the keypad
func (h *PaymentHandler) Preset(c *gin.Context) {
	var req request.PresetRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.paymentService.Preset(req.Amount)
	h.respond(c, "Keypad updated", view, err)
}

// Finalize records the sale
func (h *PaymentHandler) Finalize(c *gin.Context) {
	receipt, err := h.paymentService.Finalize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale recorded successfully", receipt)
}
