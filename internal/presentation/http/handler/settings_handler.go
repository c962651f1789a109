package handler

import (
	"github.com/LouisLibre/BorderPOS/internal/application/service"
	"github.com/LouisLibre/BorderPOS/internal/domain/entity"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/request"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/response"
	"github.com/LouisLibre/BorderPOS/pkg/money"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles register settings
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetExchangeRate returns the current USD to MXN rate
func (h *SettingsHandler) GetExchangeRate(c *gin.Context) {
	rate := h.settingsService.GetExchangeRate(c.Request.Context())
	response.OK(c, "Exchange rate retrieved successfully", &service.ExchangeRateView{
		Rate: money.FormatCurrency(rate),
	})
}

// UpdateExchangeRate stores a new rate. A rejected value answers with the rate still in force.
func (h *SettingsHandler) UpdateExchangeRate(c *gin.Context) {
	var req request.ExchangeRateRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.settingsService.SetExchangeRate(c.Request.Context(), req.Rate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Exchange rate updated successfully", view)
}

// GetPrinter returns the selected receipt printer, null if none
func (h *SettingsHandler) GetPrinter(c *gin.Context) {
	ref, err := h.settingsService.GetSelectedPrinter(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printer settings retrieved successfully", gin.H{"printer": ref})
}

// UpdatePrinter selects the receipt printer or clears the selection
func (h *SettingsHandler) UpdatePrinter(c *gin.Context) {
	var req request.SelectPrinterRequest
	if !bindJSON(c, &req) {
		return
	}

	var ref *entity.PrinterRef
	if req.Printer != nil {
		ref = &entity.PrinterRef{
			VendorID:     req.Printer.VendorID,
			ProductID:    req.Printer.ProductID,
			Manufacturer: req.Printer.Manufacturer,
			Product:      req.Printer.Product,
		}
	}

	if err := h.settingsService.SetSelectedPrinter(c.Request.Context(), ref); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printer settings updated successfully", gin.H{"printer": ref})
}
