package handler

import (
	"net/http"

	"github.com/LouisLibre/BorderPOS/internal/application/service"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/request"
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/response"
	"github.com/LouisLibre/BorderPOS/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// TicketHandler handles the ticket history
type TicketHandler struct {
	ticketService  *service.TicketService
	printerService *service.PrinterService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *service.TicketService, printerService *service.PrinterService) *TicketHandler {
	return &TicketHandler{
		ticketService:  ticketService,
		printerService: printerService,
	}
}

// List returns recorded tickets, newest first
func (h *TicketHandler) List(c *gin.Context) {
	var req request.ListTicketsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.ticketService.List(c.Request.Context(), &service.ListTicketsInput{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		POSID:      req.POSID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Tickets retrieved successfully", result)
}

// Get returns one ticket with its lines
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.ticketService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket retrieved successfully", ticket)
}

// Print reprints a recorded ticket. A device failure still returns the printout.
func (h *TicketHandler) Print(c *gin.Context) {
	printout, err := h.printerService.ReprintTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorWithData(c, err, printout)
		return
	}
	response.OK(c, "Ticket sent to printer", printout)
}
