package handler

import (
	"github.com/LouisLibre/BorderPOS/internal/application/service"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test ticket to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	printout, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		// the printout is still useful when no device is attached
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": printout,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"receipt": printout,
	})
}
