package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kedaikopi/pos-api/internal/application/service"
	"github.com/kedaikopi/pos-api/internal/presentation/http/dto/response"
	"github.com/kedaikopi/pos-api/pkg/taskqueue"
	"github.com/kedaikopi/pos-api/pkg/utils"
)

// PrinterHandler handles receipt printer HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
	paymentService *service.PaymentService
	tasks          *taskqueue.Queue
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService, paymentService *service.PaymentService, tasks *taskqueue.Queue) *PrinterHandler {
	return &PrinterHandler{printerService: printerService, paymentService: paymentService, tasks: tasks}
}

// Status reports printer connectivity
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.printerService.GetStatus())
}

// TestPrint prints a sample receipt
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Test receipt printed", receipt)
}

// OpenDrawer sends the drawer kick pulse
func (h *PrinterHandler) OpenDrawer(c *gin.Context) {
	if err := h.printerService.OpenDrawer(); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Drawer opened", nil)
}

// Reprint prints the receipt for an existing sale again
func (h *PrinterHandler) Reprint(c *gin.Context) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.paymentService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	receipt := h.printerService.BuildReceipt(c.Request.Context(), sale)
	if err := h.printerService.PrintReceipt(receipt); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt reprinted", receipt)
}

// FailedTasks lists print and drawer jobs that exhausted their retries
func (h *PrinterHandler) FailedTasks(c *gin.Context) {
	response.OK(c, "Failed tasks retrieved successfully", h.tasks.FailedTasks())
}

// ClearFailedTasks discards the failed-task journal
func (h *PrinterHandler) ClearFailedTasks(c *gin.Context) {
	h.tasks.ClearFailed()
	response.OK(c, "Failed tasks cleared", nil)
}
